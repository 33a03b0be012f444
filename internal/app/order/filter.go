package order

import (
	"context"
	"fmt"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// stage selects the ids of the orders matching one filter dimension.
type stage struct {
	kind   domain.FilterKind
	key    string
	lookup func(ctx context.Context) ([]int64, error)
}

// FilterOrders applies the requested stages in the order table_number,
// status, date, today. Each stage yields an id set, served from the cache
// when present. The result is the live order list restricted to ids found in
// every stage set, newest first.
func (s *Service) FilterOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "order.FilterOrders")
	defer span.End()

	orders, err := s.store.Orders().List(ctx)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	for _, st := range s.stages(filter) {
		ids, err := s.stageIDs(ctx, st)
		if err != nil {
			recordError(span, err)
			return nil, err
		}
		orders = intersect(orders, ids)
		if len(orders) == 0 {
			break
		}
	}

	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) stages(filter domain.OrderFilter) []stage {
	repo := s.store.Orders()
	var stages []stage

	if len(filter.TableNumbers) > 0 {
		stages = append(stages, stage{
			kind: domain.FilterTableNumber,
			key:  domain.TableNumbersCacheKey(filter.TableNumbers),
			lookup: func(ctx context.Context) ([]int64, error) {
				return repo.IDsByTableNumbers(ctx, filter.TableNumbers)
			},
		})
	}
	if len(filter.Statuses) > 0 {
		stages = append(stages, stage{
			kind: domain.FilterStatus,
			key:  domain.StatusesCacheKey(filter.Statuses),
			lookup: func(ctx context.Context) ([]int64, error) {
				return repo.IDsByStatuses(ctx, filter.Statuses)
			},
		})
	}
	if filter.Date != nil {
		stages = append(stages, s.dayStage(domain.FilterDate, *filter.Date))
	}
	if filter.Today {
		stages = append(stages, s.dayStage(domain.FilterToday, s.now()))
	}
	return stages
}

func (s *Service) dayStage(kind domain.FilterKind, day time.Time) stage {
	repo := s.store.Orders()
	from, to := domain.DayBounds(day, s.loc)
	return stage{
		kind: kind,
		key:  domain.DayCacheKey(kind, day, s.loc),
		lookup: func(ctx context.Context) ([]int64, error) {
			return repo.IDsCreatedBetween(ctx, from, to)
		},
	}
}

func (s *Service) stageIDs(ctx context.Context, st stage) ([]int64, error) {
	ctx, span := tracer.Start(ctx, "order.filter."+string(st.kind), trace.WithAttributes(attribute.String("cache.key", st.key)))
	defer span.End()

	if ids, ok := s.cache.Get(ctx, st.key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return ids, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	ids, err := st.lookup(ctx)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to apply %s filter: %w", st.kind, err)
	}

	if err := s.cache.Set(ctx, st.key, ids); err != nil {
		s.logger.Error("filter_cache_set_failed", "Failed to cache filter stage", logger.RequestID(ctx), map[string]interface{}{
			"key": st.key,
		}, err)
	}
	return ids, nil
}

// intersect keeps the orders whose id is in ids, preserving order.
func intersect(orders []domain.Order, ids []int64) []domain.Order {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := orders[:0]
	for _, o := range orders {
		if _, ok := set[o.ID]; ok {
			out = append(out, o)
		}
	}
	return out
}
