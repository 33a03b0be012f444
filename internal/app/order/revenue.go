package order

import (
	"context"
	"fmt"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"
)

// Revenue sums the totals of PAID orders created on the calendar day of date.
func (s *Service) Revenue(ctx context.Context, date time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "order.Revenue")
	defer span.End()

	from, to := domain.DayBounds(date, s.loc)
	sum, err := s.store.Orders().SumTotals(ctx, domain.StatusPaid, from, to)
	if err != nil {
		recordError(span, err)
		return 0, fmt.Errorf("failed to compute revenue: %w", err)
	}
	return sum, nil
}
