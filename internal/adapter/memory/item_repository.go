package memory

import (
	"context"
	"sort"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"
)

type itemRepository struct {
	access accessFunc
}

func (r *itemRepository) Create(_ context.Context, item *domain.Item) error {
	return r.access(true, func(s *state) error {
		s.nextItemID++
		item.ID = s.nextItemID
		s.items[item.ID] = *item
		return nil
	})
}

func (r *itemRepository) FindByID(_ context.Context, id int64) (*domain.Item, error) {
	var found domain.Item
	err := r.access(false, func(s *state) error {
		item, ok := s.items[id]
		if !ok {
			return domain.NotFound("item", id)
		}
		found = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *itemRepository) FindByIDs(_ context.Context, ids []int64) ([]domain.Item, error) {
	var items []domain.Item
	err := r.access(false, func(s *state) error {
		for _, id := range domain.DedupeIDs(ids) {
			if item, ok := s.items[id]; ok {
				items = append(items, item)
			}
		}
		return nil
	})
	return items, err
}

func (r *itemRepository) List(_ context.Context) ([]domain.Item, error) {
	items := []domain.Item{}
	err := r.access(false, func(s *state) error {
		for _, item := range s.items {
			items = append(items, item)
		}
		return nil
	})
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, err
}

func (r *itemRepository) Update(_ context.Context, item *domain.Item) error {
	return r.access(true, func(s *state) error {
		if _, ok := s.items[item.ID]; !ok {
			return domain.NotFound("item", item.ID)
		}
		s.items[item.ID] = *item
		return nil
	})
}

// Delete also drops the item from every order's item set, mirroring the
// foreign key cascade of the relational schema. Totals are left to the caller.
func (r *itemRepository) Delete(_ context.Context, id int64) error {
	return r.access(true, func(s *state) error {
		if _, ok := s.items[id]; !ok {
			return domain.NotFound("item", id)
		}
		delete(s.items, id)
		for orderID, row := range s.orders {
			kept := row.itemIDs[:0]
			for _, itemID := range row.itemIDs {
				if itemID != id {
					kept = append(kept, itemID)
				}
			}
			row.itemIDs = kept
			s.orders[orderID] = row
		}
		return nil
	})
}
