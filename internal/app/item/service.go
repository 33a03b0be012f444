package item

import (
	"context"
	"strings"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/domain"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/Lofienjoyerr/CafeProject/internal/app/item")

type Service struct {
	store     interfaces.Store
	publisher interfaces.MessagePublisher
	logger    logger.Logger
	now       func() time.Time
}

var _ interfaces.ItemService = (*Service)(nil)

func NewService(store interfaces.Store, publisher interfaces.MessagePublisher, lgr logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    lgr,
		now:       time.Now,
	}
}

func (s *Service) CreateItem(ctx context.Context, cmd interfaces.CreateItemCommand) (*domain.Item, error) {
	item, err := domain.NewItem(cmd.Name, cmd.Price)
	if err != nil {
		return nil, err
	}
	if err := s.store.Items().Create(ctx, item); err != nil {
		s.logger.Error("item_create_failed", "Failed to create item", logger.RequestID(ctx), nil, err)
		return nil, err
	}
	s.logger.Debug("item_created", "Item created", logger.RequestID(ctx), map[string]interface{}{"item_id": item.ID})
	return item, nil
}

func (s *Service) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	return s.store.Items().FindByID(ctx, id)
}

func (s *Service) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.store.Items().List(ctx)
}

func (s *Service) UpdateItemPrice(ctx context.Context, id int64, price int64) (*domain.Item, error) {
	return s.UpdateItem(ctx, id, interfaces.UpdateItemCommand{Price: &price})
}

// UpdateItem writes the item and, when the price was given, recomputes the
// total of every order containing it. Both happen in one transaction; if any
// order cannot be recomputed the item keeps its old price.
func (s *Service) UpdateItem(ctx context.Context, id int64, cmd interfaces.UpdateItemCommand) (*domain.Item, error) {
	ctx, span := tracer.Start(ctx, "item.UpdateItem", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer span.End()
	requestID := logger.RequestID(ctx)

	if err := validateUpdate(cmd); err != nil {
		return nil, err
	}

	var (
		item       *domain.Item
		recomputed []domain.Order
		oldPrice   int64
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		var err error
		item, err = repos.Items.FindByID(ctx, id)
		if err != nil {
			return err
		}
		oldPrice = item.Price

		if cmd.Name != nil {
			item.Name = strings.TrimSpace(*cmd.Name)
		}
		if cmd.Price != nil {
			item.Price = *cmd.Price
		}
		if err := item.Validate(); err != nil {
			return err
		}
		if err := repos.Items.Update(ctx, item); err != nil {
			return err
		}

		if cmd.Price == nil {
			return nil
		}
		recomputed, err = recomputeOrders(ctx, repos, item.ID, "propagate item price")
		return err
	})
	if err != nil {
		recordError(span, err)
		s.logger.Error("item_update_failed", "Failed to update item", requestID, map[string]interface{}{"item_id": id}, err)
		return nil, err
	}

	if cmd.Price != nil && oldPrice != item.Price {
		s.logger.Info("item_price_changed", "Item price changed", requestID, map[string]interface{}{
			"item_id":       item.ID,
			"old_price":     oldPrice,
			"new_price":     item.Price,
			"orders_synced": len(recomputed),
		})
		s.publish(ctx, interfaces.OrderEvent{Type: interfaces.EventItemPriceChanged, ItemID: item.ID, ItemPrice: item.Price})
	}
	s.publishRecomputed(ctx, item.ID, recomputed)

	return item, nil
}

// DeleteItem removes the item from every order containing it and recomputes
// those orders in the same transaction.
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "item.DeleteItem", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer span.End()
	requestID := logger.RequestID(ctx)

	var recomputed []domain.Order
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		if _, err := repos.Items.FindByID(ctx, id); err != nil {
			return err
		}
		ids, err := repos.Orders.IDsByItem(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.Items.Delete(ctx, id); err != nil {
			return err
		}
		recomputed, err = recalculate(ctx, repos, ids, "recompute after item delete")
		return err
	})
	if err != nil {
		recordError(span, err)
		s.logger.Error("item_delete_failed", "Failed to delete item", requestID, map[string]interface{}{"item_id": id}, err)
		return err
	}

	s.logger.Debug("item_deleted", "Item deleted", requestID, map[string]interface{}{
		"item_id":       id,
		"orders_synced": len(recomputed),
	})
	s.publishRecomputed(ctx, id, recomputed)
	return nil
}

func validateUpdate(cmd interfaces.UpdateItemCommand) error {
	verr := &domain.ValidationError{}
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		verr.Add("name", "name must not be empty")
	}
	if cmd.Price != nil && *cmd.Price < 0 {
		verr.Add("price", "price must not be negative")
	}
	return verr.OrNil()
}

func recomputeOrders(ctx context.Context, repos interfaces.Repositories, itemID int64, op string) ([]domain.Order, error) {
	ids, err := repos.Orders.IDsByItem(ctx, itemID)
	if err != nil {
		return nil, &domain.ConsistencyError{Op: op, Err: err}
	}
	return recalculate(ctx, repos, ids, op)
}

// recalculate reloads each order with its current items and writes a fresh
// total. Failures are reported as ConsistencyError.
func recalculate(ctx context.Context, repos interfaces.Repositories, orderIDs []int64, op string) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		order, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, &domain.ConsistencyError{Op: op, OrderID: orderID, Err: err}
		}
		order.Recalculate()
		if err := repos.Orders.Update(ctx, order); err != nil {
			return nil, &domain.ConsistencyError{Op: op, OrderID: orderID, Err: err}
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (s *Service) publishRecomputed(ctx context.Context, itemID int64, orders []domain.Order) {
	for _, o := range orders {
		s.publish(ctx, interfaces.OrderEvent{
			Type:        interfaces.EventOrderTotalRecomputed,
			OrderID:     o.ID,
			ItemID:      itemID,
			TableNumber: o.TableNumber,
			TotalPrice:  o.TotalPrice,
			Status:      o.Status,
		})
	}
}

func (s *Service) publish(ctx context.Context, event interfaces.OrderEvent) {
	event.EventID = uuid.NewString()
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish item event", logger.RequestID(ctx), map[string]interface{}{
			"event_type": event.Type,
			"item_id":    event.ItemID,
		}, err)
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
