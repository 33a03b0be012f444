// Package memory is an in-process implementation of interfaces.Store used in
// development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"
)

// state is everything a transaction may touch. Order rows keep only item ids;
// items are joined in on read like the relational store does.
type state struct {
	items       map[int64]domain.Item
	orders      map[int64]orderRow
	nextItemID  int64
	nextOrderID int64
}

type orderRow struct {
	id          int64
	tableNumber int
	itemIDs     []int64
	totalPrice  int64
	status      domain.Status
	createdAt   time.Time
}

func newState() *state {
	return &state{
		items:  make(map[int64]domain.Item),
		orders: make(map[int64]orderRow),
	}
}

func (s *state) clone() *state {
	c := &state{
		items:       make(map[int64]domain.Item, len(s.items)),
		orders:      make(map[int64]orderRow, len(s.orders)),
		nextItemID:  s.nextItemID,
		nextOrderID: s.nextOrderID,
	}
	for id, item := range s.items {
		c.items[id] = item
	}
	for id, row := range s.orders {
		row.itemIDs = append([]int64(nil), row.itemIDs...)
		c.orders[id] = row
	}
	return c
}

// Store serializes transactions with a single write lock. A transaction works
// on a copy of the state that replaces the live one only on commit.
type Store struct {
	mu    sync.RWMutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) Items() interfaces.ItemRepository {
	return &itemRepository{access: s.access}
}

func (s *Store) Orders() interfaces.OrderRepository {
	return &orderRepository{access: s.access}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos interfaces.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	access := func(_ bool, f func(*state) error) error {
		return f(snapshot)
	}
	repos := interfaces.Repositories{
		Items:  &itemRepository{access: access},
		Orders: &orderRepository{access: access},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = snapshot
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// access runs f against the live state outside of a transaction.
func (s *Store) access(write bool, f func(*state) error) error {
	if write {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return f(s.state)
}

type accessFunc func(write bool, f func(*state) error) error
