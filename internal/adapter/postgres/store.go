package postgres

import (
	"context"
	"fmt"

	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"
)

type store struct {
	db DB
}

func NewStore(db DB) interfaces.Store {
	return &store{db: db}
}

func (s *store) Items() interfaces.ItemRepository {
	return &itemRepository{q: s.db}
}

func (s *store) Orders() interfaces.OrderRepository {
	return &orderRepository{q: s.db}
}

func (s *store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos interfaces.Repositories) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	repos := interfaces.Repositories{
		Items:  &itemRepository{q: tx},
		Orders: &orderRepository{q: tx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
