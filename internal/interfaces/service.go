package interfaces

import (
	"context"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"
)

// Commands for services
type CreateOrderCommand struct {
	TableNumber int
	ItemIDs     []int64
	Status      *domain.Status
}

// UpdateOrderCommand is a partial update. A nil ItemIDs leaves the item set
// and the total untouched.
type UpdateOrderCommand struct {
	TableNumber *int
	Status      *domain.Status
	ItemIDs     *[]int64
}

type CreateItemCommand struct {
	Name  string
	Price int64
}

type UpdateItemCommand struct {
	Name  *string
	Price *int64
}

// Service interfaces (business logic)
type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, cmd UpdateOrderCommand) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	FilterOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Revenue(ctx context.Context, date time.Time) (int64, error)
	Location() *time.Location
}

type ItemService interface {
	CreateItem(ctx context.Context, cmd CreateItemCommand) (*domain.Item, error)
	UpdateItem(ctx context.Context, id int64, cmd UpdateItemCommand) (*domain.Item, error)
	UpdateItemPrice(ctx context.Context, id int64, price int64) (*domain.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
}
