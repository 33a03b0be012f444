package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"

	"github.com/jackc/pgx/v5"
)

type itemRepository struct {
	q Querier
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	if err := r.q.QueryRow(ctx, insertItemSQL, item.Name, item.Price).Scan(&item.ID); err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (r *itemRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	var item domain.Item
	err := r.q.QueryRow(ctx, getItemSQL, id).Scan(&item.ID, &item.Name, &item.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (r *itemRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.q.Query(ctx, getItemsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	return scanItems(rows)
}

func (r *itemRepository) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.q.Query(ctx, listItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return scanItems(rows)
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	tag, err := r.q.Exec(ctx, updateItemSQL, item.Name, item.Price, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("item", item.ID)
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, deleteItemSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("item", id)
	}
	return nil
}

func scanItems(rows Rows) ([]domain.Item, error) {
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}
