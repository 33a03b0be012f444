package order

import (
	"context"
	"fmt"
	"sort"
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

var tracer = otel.Tracer("github.com/Lofienjoyerr/CafeProject/internal/app/order")

type Service struct {
	store      interfaces.Store
	publisher  interfaces.MessagePublisher
	cache      interfaces.FilterCache
	logger     logger.Logger
	now        func() time.Time
	loc        *time.Location
	allowEmpty bool
}

var _ interfaces.OrderService = (*Service)(nil)

type Option func(*Service)

// WithClock replaces time.Now, used for created_at and the today filter.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation sets the timezone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.loc = loc
	}
}

// WithEmptyItems allows orders without items.
func WithEmptyItems(allow bool) Option {
	return func(s *Service) {
		s.allowEmpty = allow
	}
}

func NewService(store interfaces.Store, publisher interfaces.MessagePublisher, cache interfaces.FilterCache, lgr logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: publisher,
		cache:     cache,
		logger:    lgr,
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "order.CreateOrder")
	defer span.End()
	requestID := logger.RequestID(ctx)

	status := domain.StatusWaiting
	if cmd.Status != nil {
		status = *cmd.Status
	}
	if err := s.checkItemIDs(cmd.ItemIDs); err != nil {
		return nil, err
	}

	var order *domain.Order
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		items, err := ResolveItems(ctx, repos.Items, cmd.ItemIDs)
		if err != nil {
			return err
		}

		order, err = domain.NewOrder(cmd.TableNumber, items, status, s.now())
		if err != nil {
			return err
		}

		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		recordError(span, err)
		s.logger.Error("order_create_failed", "Failed to create order", requestID, nil, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID))

	s.logger.Debug("order_created", "Order created", requestID, map[string]interface{}{
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
	})
	s.publish(ctx, interfaces.EventOrderCreated, order)

	return order, nil
}

func (s *Service) UpdateOrder(ctx context.Context, id int64, cmd interfaces.UpdateOrderCommand) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "order.UpdateOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()
	requestID := logger.RequestID(ctx)

	if cmd.ItemIDs != nil {
		if err := s.checkItemIDs(*cmd.ItemIDs); err != nil {
			return nil, err
		}
	}

	var order *domain.Order
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		var err error
		order, err = repos.Orders.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if cmd.TableNumber != nil {
			order.TableNumber = *cmd.TableNumber
		}
		if cmd.Status != nil {
			order.Status = *cmd.Status
		}
		if cmd.ItemIDs != nil {
			items, err := ResolveItems(ctx, repos.Items, *cmd.ItemIDs)
			if err != nil {
				return err
			}
			order.SetItems(items)
			if err := repos.Orders.ReplaceItems(ctx, order.ID, order.ItemIDs()); err != nil {
				return err
			}
		}
		if err := order.Validate(); err != nil {
			return err
		}

		return repos.Orders.Update(ctx, order)
	})
	if err != nil {
		recordError(span, err)
		s.logger.Error("order_update_failed", "Failed to update order", requestID, map[string]interface{}{"order_id": id}, err)
		return nil, err
	}

	s.logger.Debug("order_updated", "Order updated", requestID, map[string]interface{}{
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
		"status":      order.Status,
	})
	s.publish(ctx, interfaces.EventOrderUpdated, order)

	return order, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "order.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()
	requestID := logger.RequestID(ctx)

	if err := s.store.Orders().Delete(ctx, id); err != nil {
		recordError(span, err)
		s.logger.Error("order_delete_failed", "Failed to delete order", requestID, map[string]interface{}{"order_id": id}, err)
		return err
	}

	s.logger.Debug("order_deleted", "Order deleted", requestID, map[string]interface{}{"order_id": id})
	s.publish(ctx, interfaces.EventOrderDeleted, &domain.Order{ID: id})
	return nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.store.Orders().FindByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.store.Orders().List(ctx)
}

func (s *Service) checkItemIDs(ids []int64) error {
	if len(ids) == 0 && !s.allowEmpty {
		return domain.NewValidationError("items", "at least one item is required")
	}
	return nil
}

// ResolveItems loads the items for ids. Duplicates are collapsed and any
// unknown id is reported as a validation error on the items field.
func ResolveItems(ctx context.Context, items interfaces.ItemRepository, ids []int64) ([]domain.Item, error) {
	ids = domain.DedupeIDs(ids)
	if len(ids) == 0 {
		return []domain.Item{}, nil
	}

	found, err := items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	if len(found) == len(ids) {
		sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
		return found, nil
	}

	known := make(map[int64]struct{}, len(found))
	for _, item := range found {
		known[item.ID] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return nil, domain.NewValidationError("items", fmt.Sprintf("unknown item ids: %v", missing))
}

// publish runs after commit. A broker failure is logged and never undoes the
// committed write.
func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, order *domain.Order) {
	event := interfaces.OrderEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		OrderID:     order.ID,
		TableNumber: order.TableNumber,
		TotalPrice:  order.TotalPrice,
		Status:      order.Status,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order event", logger.RequestID(ctx), map[string]interface{}{
			"event_type": eventType,
			"order_id":   order.ID,
		}, err)
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
