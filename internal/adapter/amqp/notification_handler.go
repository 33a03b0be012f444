package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"
)

// NotificationHandler logs every order and item event it receives.
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

func (h *NotificationHandler) HandleEvent(ctx context.Context, body []byte) error {
	var event interfaces.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("event_parse_failed", "Failed to parse event", "", nil, err)
		return fmt.Errorf("failed to parse event: %w", err)
	}
	if event.Type == "" {
		err := fmt.Errorf("event %s has no type", event.EventID)
		h.logger.Error("event_parse_failed", "Event without type", event.EventID, nil, err)
		return err
	}

	h.logger.Info("event_received", describe(event), event.EventID, map[string]interface{}{
		"type":        event.Type,
		"order_id":    event.OrderID,
		"item_id":     event.ItemID,
		"total_price": event.TotalPrice,
		"item_price":  event.ItemPrice,
		"status":      event.Status,
		"occurred_at": event.OccurredAt,
	})
	return nil
}

func describe(e interfaces.OrderEvent) string {
	switch e.Type {
	case interfaces.EventOrderCreated:
		return fmt.Sprintf("Order %d created for table %d, total %d", e.OrderID, e.TableNumber, e.TotalPrice)
	case interfaces.EventOrderUpdated:
		return fmt.Sprintf("Order %d updated, status %s, total %d", e.OrderID, e.Status, e.TotalPrice)
	case interfaces.EventOrderDeleted:
		return fmt.Sprintf("Order %d deleted", e.OrderID)
	case interfaces.EventOrderTotalRecomputed:
		return fmt.Sprintf("Order %d total recomputed to %d after item %d changed", e.OrderID, e.TotalPrice, e.ItemID)
	case interfaces.EventItemPriceChanged:
		return fmt.Sprintf("Item %d price changed to %d", e.ItemID, e.ItemPrice)
	default:
		return fmt.Sprintf("Event %s", e.Type)
	}
}
