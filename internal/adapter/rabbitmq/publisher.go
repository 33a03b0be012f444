package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"

	amqp "github.com/rabbitmq/amqp091-go"
)

type publisher struct {
	conn     Connection
	exchange string
}

// NewPublisher sends events to a durable topic exchange. The routing key is
// the event type, e.g. "order.created".
func NewPublisher(conn Connection, exchange string) interfaces.MessagePublisher {
	return &publisher{conn: conn, exchange: exchange}
}

func (p *publisher) PublishOrderEvent(ctx context.Context, event interfaces.OrderEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.EventID,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

type nopPublisher struct{}

// NopPublisher drops every event. It is used when rabbitmq.enabled is false.
func NopPublisher() interfaces.MessagePublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishOrderEvent(context.Context, interfaces.OrderEvent) error {
	return nil
}
