package item

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/adapter/memory"
	"github.com/Lofienjoyerr/CafeProject/internal/domain"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []interfaces.OrderEvent
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, event interfaces.OrderEvent) error {
	p.events = append(p.events, event)
	return nil
}

// faultyStore fails the order update of failOrderID inside transactions.
type faultyStore struct {
	*memory.Store
	failOrderID int64
}

func (s *faultyStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos interfaces.Repositories) error) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		repos.Orders = &faultyOrders{OrderRepository: repos.Orders, failOrderID: s.failOrderID}
		return fn(ctx, repos)
	})
}

type faultyOrders struct {
	interfaces.OrderRepository
	failOrderID int64
}

func (r *faultyOrders) Update(ctx context.Context, order *domain.Order) error {
	if order.ID == r.failOrderID {
		return errors.New("disk full")
	}
	return r.OrderRepository.Update(ctx, order)
}

func createOrder(t *testing.T, store interfaces.Store, items ...domain.Item) *domain.Order {
	t.Helper()
	o, err := domain.NewOrder(1, items, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Orders().Create(context.Background(), o))
	return o
}

func totalOf(t *testing.T, store interfaces.Store, orderID int64) int64 {
	t.Helper()
	o, err := store.Orders().FindByID(context.Background(), orderID)
	require.NoError(t, err)
	return o.TotalPrice
}

func TestCreateItem(t *testing.T) {
	svc := NewService(memory.NewStore(), &recordingPublisher{}, logger.Nop())

	item, err := svc.CreateItem(context.Background(), interfaces.CreateItemCommand{Name: "  espresso ", Price: 120})
	require.NoError(t, err)
	assert.Equal(t, "espresso", item.Name)

	_, err = svc.CreateItem(context.Background(), interfaces.CreateItemCommand{Name: "", Price: -1})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestListItems_NewestFirst(t *testing.T) {
	svc := NewService(memory.NewStore(), &recordingPublisher{}, logger.Nop())
	ctx := context.Background()

	a, err := svc.CreateItem(ctx, interfaces.CreateItemCommand{Name: "a", Price: 1})
	require.NoError(t, err)
	b, err := svc.CreateItem(ctx, interfaces.CreateItemCommand{Name: "b", Price: 2})
	require.NoError(t, err)

	items, err := svc.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestUpdateItemPrice_PropagatesToOrders(t *testing.T) {
	store := memory.NewStore()
	pub := &recordingPublisher{}
	svc := NewService(store, pub, logger.Nop())
	ctx := context.Background()

	coffee, err := svc.CreateItem(ctx, interfaces.CreateItemCommand{Name: "coffee", Price: 100})
	require.NoError(t, err)
	cake, err := svc.CreateItem(ctx, interfaces.CreateItemCommand{Name: "cake", Price: 300})
	require.NoError(t, err)

	withCoffee := createOrder(t, store, *coffee, *cake)
	withoutCoffee := createOrder(t, store, *cake)

	_, err = svc.UpdateItemPrice(ctx, coffee.ID, 150)
	require.NoError(t, err)

	assert.Equal(t, int64(450), totalOf(t, store, withCoffee.ID))
	assert.Equal(t, int64(300), totalOf(t, store, withoutCoffee.ID))

	require.Len(t, pub.events, 2)
	assert.Equal(t, interfaces.EventItemPriceChanged, pub.events[0].Type)
	assert.Equal(t, int64(150), pub.events[0].ItemPrice)
	assert.Zero(t, pub.events[0].TotalPrice)
	assert.Equal(t, interfaces.EventOrderTotalRecomputed, pub.events[1].Type)
	assert.Equal(t, withCoffee.ID, pub.events[1].OrderID)
	assert.Equal(t, int64(450), pub.events[1].TotalPrice)
}

func TestUpdateItem_NameOnlyDoesNotRecompute(t *testing.T) {
	store := memory.NewStore()
	pub := &recordingPublisher{}
	svc := NewService(store, pub, logger.Nop())
	ctx := context.Background()

	coffee, err := svc.CreateItem(ctx, interfaces.CreateItemCommand{Name: "coffee", Price: 100})
	require.NoError(t, err)
	createOrder(t, store, *coffee)

	name := "flat white"
	updated, err := svc.UpdateItem(ctx, coffee.ID, interfaces.UpdateItemCommand{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "flat white", updated.Name)
	assert.Equal(t, int64(100), updated.Price)
	assert.Empty(t, pub.events)
}

func TestUpdateItemPrice_ValidationAndNotFound(t *testing.T) {
	svc := NewService(memory.NewStore(), &recordingPublisher{}, logger.Nop())
	ctx := context.Background()

	_, err := svc.UpdateItemPrice(ctx, 1, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpdateItemPrice(ctx, 1, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateItemPrice_FailedRecomputeRollsBack(t *testing.T) {
	mem := memory.NewStore()
	ctx := context.Background()

	coffee := domain.Item{Name: "coffee", Price: 100}
	require.NoError(t, mem.Items().Create(ctx, &coffee))
	first := createOrder(t, mem, coffee)
	second := createOrder(t, mem, coffee)

	store := &faultyStore{Store: mem, failOrderID: second.ID}
	svc := NewService(store, &recordingPublisher{}, logger.Nop())

	_, err := svc.UpdateItemPrice(ctx, coffee.ID, 500)

	var cerr *domain.ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, second.ID, cerr.OrderID)

	item, err := mem.Items().FindByID(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), item.Price)
	assert.Equal(t, int64(100), totalOf(t, mem, first.ID))
	assert.Equal(t, int64(100), totalOf(t, mem, second.ID))
}

func TestDeleteItem_CascadesToOrders(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, &recordingPublisher{}, logger.Nop())
	ctx := context.Background()

	coffee, err := svc.CreateItem(ctx, interfaces.CreateItemCommand{Name: "coffee", Price: 100})
	require.NoError(t, err)
	cake, err := svc.CreateItem(ctx, interfaces.CreateItemCommand{Name: "cake", Price: 300})
	require.NoError(t, err)
	o := createOrder(t, store, *coffee, *cake)

	require.NoError(t, svc.DeleteItem(ctx, coffee.ID))

	stored, err := store.Orders().FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{cake.ID}, stored.ItemIDs())
	assert.Equal(t, int64(300), stored.TotalPrice)

	assert.ErrorIs(t, svc.DeleteItem(ctx, coffee.ID), domain.ErrNotFound)
}
