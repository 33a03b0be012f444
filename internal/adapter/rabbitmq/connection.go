package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeKind = "topic"

	heartbeat = 10 * time.Second
	locale    = "en_US"
)

type Connection interface {
	Channel() (Channel, error)
	Close() error
	IsClosed() bool
}

type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Close() error
	NotifyClose() <-chan *amqp.Error
}

type Queue struct {
	Name      string
	Messages  int
	Consumers int
}

type dialFunc func(url string, timeout time.Duration) (*amqp.Connection, error)

type amqpConnection struct {
	conn        *amqp.Connection
	url         string
	dial        dialFunc
	dialTimeout time.Duration

	// nextDial is the earliest time a failed redial may be retried.
	nextDial time.Time
	now      func() time.Time
	mu       sync.Mutex
	closed   bool
}

type amqpChannel struct {
	ch *amqp.Channel
}

func Connect(cfg config.RabbitMQConfig) (Connection, error) {
	conn, err := dial(cfg.URL(), cfg.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return newConnection(conn, cfg.URL(), cfg.DialTimeout, dial), nil
}

func newConnection(conn *amqp.Connection, url string, timeout time.Duration, d dialFunc) *amqpConnection {
	return &amqpConnection{
		conn:        conn,
		url:         url,
		dial:        d,
		dialTimeout: timeout,
		now:         time.Now,
	}
}

// dial bounds both the TCP connect and the AMQP handshake by timeout.
func dial(url string, timeout time.Duration) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: heartbeat,
		Locale:    locale,
		Dial:      amqp.DefaultDial(timeout),
	})
}

// Channel opens a channel, redialing first if the broker dropped the
// connection. After a failed redial further attempts fail fast until
// dialTimeout has passed, so callers are not held up during an outage.
func (c *amqpConnection) Channel() (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("connection is closed")
	}
	if c.conn == nil || c.conn.IsClosed() {
		if now := c.now(); now.Before(c.nextDial) {
			return nil, fmt.Errorf("RabbitMQ unavailable, next reconnect in %s", c.nextDial.Sub(now).Round(time.Millisecond))
		}
		conn, err := c.dial(c.url, c.dialTimeout)
		if err != nil {
			c.nextDial = c.now().Add(c.dialTimeout)
			return nil, fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
		}
		c.conn = conn
		c.nextDial = time.Time{}
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &amqpChannel{ch: ch}, nil
}

func (c *amqpConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}

func (c *amqpConnection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (ch *amqpChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return ch.ch.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

func (ch *amqpChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error) {
	q, err := ch.ch.QueueDeclare(name, durable, autoDelete, exclusive, noWait, args)
	if err != nil {
		return Queue{}, err
	}
	return Queue{Name: q.Name, Messages: q.Messages, Consumers: q.Consumers}, nil
}

func (ch *amqpChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	return ch.ch.QueueBind(name, key, exchange, noWait, args)
}

func (ch *amqpChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return ch.ch.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

func (ch *amqpChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return ch.ch.Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
}

func (ch *amqpChannel) Qos(prefetchCount, prefetchSize int, global bool) error {
	return ch.ch.Qos(prefetchCount, prefetchSize, global)
}

func (ch *amqpChannel) Close() error {
	return ch.ch.Close()
}

func (ch *amqpChannel) NotifyClose() <-chan *amqp.Error {
	return ch.ch.NotifyClose(make(chan *amqp.Error, 1))
}
