package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"
)

type orderRepository struct {
	access accessFunc
}

func (r *orderRepository) Create(_ context.Context, order *domain.Order) error {
	return r.access(true, func(s *state) error {
		for _, id := range order.ItemIDs() {
			if _, ok := s.items[id]; !ok {
				return domain.NotFound("item", id)
			}
		}
		s.nextOrderID++
		order.ID = s.nextOrderID
		s.orders[order.ID] = orderRow{
			id:          order.ID,
			tableNumber: order.TableNumber,
			itemIDs:     domain.DedupeIDs(order.ItemIDs()),
			totalPrice:  order.TotalPrice,
			status:      order.Status,
			createdAt:   order.CreatedAt,
		}
		return nil
	})
}

func (r *orderRepository) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.access(false, func(s *state) error {
		row, ok := s.orders[id]
		if !ok {
			return domain.NotFound("order", id)
		}
		order = s.toOrder(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(_ context.Context) ([]domain.Order, error) {
	orders := []domain.Order{}
	err := r.access(false, func(s *state) error {
		for _, row := range s.orders {
			orders = append(orders, s.toOrder(row))
		}
		return nil
	})
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, err
}

func (r *orderRepository) Update(_ context.Context, order *domain.Order) error {
	return r.access(true, func(s *state) error {
		row, ok := s.orders[order.ID]
		if !ok {
			return domain.NotFound("order", order.ID)
		}
		row.tableNumber = order.TableNumber
		row.status = order.Status
		row.totalPrice = order.TotalPrice
		s.orders[order.ID] = row
		return nil
	})
}

func (r *orderRepository) ReplaceItems(_ context.Context, orderID int64, itemIDs []int64) error {
	return r.access(true, func(s *state) error {
		row, ok := s.orders[orderID]
		if !ok {
			return domain.NotFound("order", orderID)
		}
		for _, id := range itemIDs {
			if _, ok := s.items[id]; !ok {
				return domain.NotFound("item", id)
			}
		}
		row.itemIDs = domain.DedupeIDs(itemIDs)
		s.orders[orderID] = row
		return nil
	})
}

func (r *orderRepository) Delete(_ context.Context, id int64) error {
	return r.access(true, func(s *state) error {
		if _, ok := s.orders[id]; !ok {
			return domain.NotFound("order", id)
		}
		delete(s.orders, id)
		return nil
	})
}

func (r *orderRepository) IDsByTableNumbers(_ context.Context, tables []int) ([]int64, error) {
	wanted := make(map[int]struct{}, len(tables))
	for _, t := range tables {
		wanted[t] = struct{}{}
	}
	return r.selectIDs(func(row orderRow) bool {
		_, ok := wanted[row.tableNumber]
		return ok
	})
}

func (r *orderRepository) IDsByStatuses(_ context.Context, statuses []domain.Status) ([]int64, error) {
	wanted := make(map[domain.Status]struct{}, len(statuses))
	for _, st := range statuses {
		wanted[st] = struct{}{}
	}
	return r.selectIDs(func(row orderRow) bool {
		_, ok := wanted[row.status]
		return ok
	})
}

func (r *orderRepository) IDsCreatedBetween(_ context.Context, from, to time.Time) ([]int64, error) {
	return r.selectIDs(func(row orderRow) bool {
		return !row.createdAt.Before(from) && row.createdAt.Before(to)
	})
}

// IDsByItem needs no row locks: transactions already hold the store lock.
func (r *orderRepository) IDsByItem(_ context.Context, itemID int64) ([]int64, error) {
	return r.selectIDs(func(row orderRow) bool {
		for _, id := range row.itemIDs {
			if id == itemID {
				return true
			}
		}
		return false
	})
}

func (r *orderRepository) SumTotals(_ context.Context, status domain.Status, from, to time.Time) (int64, error) {
	var sum int64
	err := r.access(false, func(s *state) error {
		for _, row := range s.orders {
			if row.status == status && !row.createdAt.Before(from) && row.createdAt.Before(to) {
				sum += row.totalPrice
			}
		}
		return nil
	})
	return sum, err
}

func (r *orderRepository) selectIDs(match func(orderRow) bool) ([]int64, error) {
	ids := []int64{}
	err := r.access(false, func(s *state) error {
		for id, row := range s.orders {
			if match(row) {
				ids = append(ids, id)
			}
		}
		return nil
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, err
}

// toOrder joins the current item rows, so prices are always live.
func (s *state) toOrder(row orderRow) domain.Order {
	items := make([]domain.Item, 0, len(row.itemIDs))
	for _, id := range row.itemIDs {
		if item, ok := s.items[id]; ok {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return domain.Order{
		ID:          row.id,
		TableNumber: row.tableNumber,
		Items:       items,
		TotalPrice:  row.totalPrice,
		Status:      row.status,
		CreatedAt:   row.createdAt,
	}
}
