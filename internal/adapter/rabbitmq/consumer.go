package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"
)

const reconnectDelay = 5 * time.Second

// bindingKeys route every order and item event into the queue.
var bindingKeys = []string{"order.#", "item.#"}

type consumer struct {
	conn     Connection
	exchange string
	queue    string
	prefetch int
	logger   logger.Logger
}

func NewConsumer(conn Connection, exchange, queue string, prefetch int, lgr logger.Logger) interfaces.MessageConsumer {
	return &consumer{
		conn:     conn,
		exchange: exchange,
		queue:    queue,
		prefetch: prefetch,
		logger:   lgr,
	}
}

// ConsumeEvents delivers events to handler until ctx is cancelled,
// resubscribing after channel failures.
func (c *consumer) ConsumeEvents(ctx context.Context, handler interfaces.EventHandler) error {
	for {
		err := c.consume(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		c.logger.Error("consumer_disconnected", "Event consumer disconnected, reconnecting", "", map[string]interface{}{
			"retry_in": reconnectDelay.String(),
		}, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *consumer) consume(ctx context.Context, handler interfaces.EventHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	if err := c.setup(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("deliveries channel closed")
			}
			if err := handler(ctx, msg.Body); err != nil {
				// Malformed events would fail again on redelivery.
				msg.Nack(false, false)
				continue
			}
			msg.Ack(false)
		}
	}
}

func (c *consumer) setup(ch Channel) error {
	if err := ch.ExchangeDeclare(c.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(c.queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	for _, key := range bindingKeys {
		if err := ch.QueueBind(q.Name, key, c.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}
	return nil
}
