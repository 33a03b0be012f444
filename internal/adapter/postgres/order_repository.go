package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"

	"github.com/jackc/pgx/v5"
)

type orderRepository struct {
	q Querier
}

// Create inserts the order row and its associations. Callers run it inside
// Store.WithinTx so both writes commit together.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.q.QueryRow(ctx, insertOrderSQL,
		order.TableNumber, order.TotalPrice, string(order.Status), order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if err := r.insertItems(ctx, order.ID, order.ItemIDs()); err != nil {
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.q.QueryRow(ctx, getOrderSQL, id).Scan(
		&order.ID, &order.TableNumber, &order.TotalPrice, &order.Status, &order.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	orders := []domain.Order{order}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.q.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var orders []domain.Order
	func() {
		defer rows.Close()
		for rows.Next() {
			var o domain.Order
			if err = rows.Scan(&o.ID, &o.TableNumber, &o.TotalPrice, &o.Status, &o.CreatedAt); err != nil {
				return
			}
			orders = append(orders, o)
		}
		err = rows.Err()
	}()
	if err != nil {
		return nil, fmt.Errorf("failed to scan orders: %w", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	tag, err := r.q.Exec(ctx, updateOrderSQL,
		order.TableNumber, string(order.Status), order.TotalPrice, order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("order", order.ID)
	}
	return nil
}

func (r *orderRepository) ReplaceItems(ctx context.Context, orderID int64, itemIDs []int64) error {
	if _, err := r.q.Exec(ctx, deleteOrderItemsSQL, orderID); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}
	return r.insertItems(ctx, orderID, itemIDs)
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("order", id)
	}
	return nil
}

func (r *orderRepository) IDsByTableNumbers(ctx context.Context, tables []int) ([]int64, error) {
	tableArgs := make([]int64, len(tables))
	for i, t := range tables {
		tableArgs[i] = int64(t)
	}
	return r.queryIDs(ctx, orderIDsByTableSQL, tableArgs)
}

func (r *orderRepository) IDsByStatuses(ctx context.Context, statuses []domain.Status) ([]int64, error) {
	statusArgs := make([]string, len(statuses))
	for i, s := range statuses {
		statusArgs[i] = string(s)
	}
	return r.queryIDs(ctx, orderIDsByStatusSQL, statusArgs)
}

func (r *orderRepository) IDsCreatedBetween(ctx context.Context, from, to time.Time) ([]int64, error) {
	return r.queryIDs(ctx, orderIDsCreatedBetweenSQL, from, to)
}

func (r *orderRepository) IDsByItem(ctx context.Context, itemID int64) ([]int64, error) {
	return r.queryIDs(ctx, orderIDsByItemSQL, itemID)
}

func (r *orderRepository) SumTotals(ctx context.Context, status domain.Status, from, to time.Time) (int64, error) {
	var sum int64
	if err := r.q.QueryRow(ctx, sumTotalsSQL, string(status), from, to).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum order totals: %w", err)
	}
	return sum, nil
}

func (r *orderRepository) insertItems(ctx context.Context, orderID int64, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx, insertOrderItemsSQL, orderID, itemIDs); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

// loadItems fills Items of every order with a single query.
func (r *orderRepository) loadItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	index := make(map[int64]int, len(orders))
	ids := make([]int64, len(orders))
	for i := range orders {
		index[orders[i].ID] = i
		ids[i] = orders[i].ID
		orders[i].Items = []domain.Item{}
	}

	rows, err := r.q.Query(ctx, getOrderItemsSQL, ids)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		var item domain.Item
		if err := rows.Scan(&orderID, &item.ID, &item.Name, &item.Price); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read order items: %w", err)
	}
	return nil
}

func (r *orderRepository) queryIDs(ctx context.Context, sql string, args ...any) ([]int64, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order ids: %w", err)
	}
	return ids, nil
}
