package interfaces

import (
	"context"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"
)

// Repository interfaces (adapter/postgres, adapter/memory)
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
	// FindByIDs returns the items that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int64) error
}

type OrderRepository interface {
	// Create writes the order row and its item associations.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	// Update writes table number, status and total price.
	Update(ctx context.Context, order *domain.Order) error
	ReplaceItems(ctx context.Context, orderID int64, itemIDs []int64) error
	Delete(ctx context.Context, id int64) error

	IDsByTableNumbers(ctx context.Context, tables []int) ([]int64, error)
	IDsByStatuses(ctx context.Context, statuses []domain.Status) ([]int64, error)
	IDsCreatedBetween(ctx context.Context, from, to time.Time) ([]int64, error)
	// IDsByItem returns the orders referencing the item. Inside a transaction
	// the returned orders stay locked until it ends.
	IDsByItem(ctx context.Context, itemID int64) ([]int64, error)

	SumTotals(ctx context.Context, status domain.Status, from, to time.Time) (int64, error)
}

// Repositories is the set of repositories bound to one transaction.
type Repositories struct {
	Items  ItemRepository
	Orders OrderRepository
}

// Store owns the transaction boundary. Every write that has to keep order
// totals consistent runs inside WithinTx; if fn returns an error nothing it
// did is visible afterwards.
type Store interface {
	Items() ItemRepository
	Orders() OrderRepository
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Ping(ctx context.Context) error
}
