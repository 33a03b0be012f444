package interfaces

import (
	"context"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"
)

type EventType string

const (
	EventOrderCreated         EventType = "order.created"
	EventOrderUpdated         EventType = "order.updated"
	EventOrderDeleted         EventType = "order.deleted"
	EventOrderTotalRecomputed EventType = "order.total_recomputed"
	EventItemPriceChanged     EventType = "item.price_changed"
)

// RabbitMQ messages
type OrderEvent struct {
	EventID     string        `json:"event_id"`
	Type        EventType     `json:"type"`
	OrderID     int64         `json:"order_id,omitempty"`
	ItemID      int64         `json:"item_id,omitempty"`
	TableNumber int           `json:"table_number,omitempty"`
	TotalPrice  int64         `json:"total_price"`
	ItemPrice   int64         `json:"item_price,omitempty"`
	Status      domain.Status `json:"status,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// Messaging interfaces (adapter/rabbitmq)
type MessagePublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

type MessageConsumer interface {
	ConsumeEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(ctx context.Context, body []byte) error
