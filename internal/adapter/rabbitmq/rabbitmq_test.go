package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	exchanges  []string
	bindings   []string
	published  []published
	deliveries chan amqp.Delivery
	publishErr error
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	c.exchanges = append(c.exchanges, name+":"+kind)
	return nil
}

func (c *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (Queue, error) {
	return Queue{Name: name}, nil
}

func (c *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	c.bindings = append(c.bindings, exchange+"->"+name+":"+key)
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return c.publishErr
}

func (c *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return c.deliveries, nil
}

func (c *fakeChannel) Qos(int, int, bool) error { return nil }

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func (c *fakeChannel) NotifyClose() <-chan *amqp.Error {
	return make(chan *amqp.Error)
}

type fakeConnection struct {
	ch      *fakeChannel
	openErr error
}

func (c *fakeConnection) Channel() (Channel, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	return c.ch, nil
}

func (c *fakeConnection) Close() error   { return nil }
func (c *fakeConnection) IsClosed() bool { return false }

// ackRecorder captures acknowledgements of fake deliveries.
type ackRecorder struct {
	acks  chan uint64
	nacks chan uint64
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.acks <- tag
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _, _ bool) error {
	a.nacks <- tag
	return nil
}

func (a *ackRecorder) Reject(tag uint64, _ bool) error {
	a.nacks <- tag
	return nil
}

func TestPublisher_RoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	pub := NewPublisher(&fakeConnection{ch: ch}, "cafe_events")

	event := interfaces.OrderEvent{
		EventID:    "evt-1",
		Type:       interfaces.EventOrderCreated,
		OrderID:    5,
		TotalPrice: 350,
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishOrderEvent(context.Background(), event))

	assert.Equal(t, []string{"cafe_events:topic"}, ch.exchanges)
	require.Len(t, ch.published, 1)
	assert.Equal(t, "cafe_events", ch.published[0].exchange)
	assert.Equal(t, "order.created", ch.published[0].key)
	assert.Equal(t, "evt-1", ch.published[0].msg.MessageId)
	assert.Equal(t, amqp.Persistent, ch.published[0].msg.DeliveryMode)

	var decoded interfaces.OrderEvent
	require.NoError(t, json.Unmarshal(ch.published[0].msg.Body, &decoded))
	assert.Equal(t, event, decoded)
	assert.True(t, ch.closed)
}

func TestPublisher_Errors(t *testing.T) {
	pub := NewPublisher(&fakeConnection{openErr: errors.New("dial")}, "cafe_events")
	assert.Error(t, pub.PublishOrderEvent(context.Background(), interfaces.OrderEvent{Type: interfaces.EventOrderDeleted}))

	ch := &fakeChannel{publishErr: errors.New("nack")}
	pub = NewPublisher(&fakeConnection{ch: ch}, "cafe_events")
	assert.Error(t, pub.PublishOrderEvent(context.Background(), interfaces.OrderEvent{Type: interfaces.EventOrderDeleted}))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher().PublishOrderEvent(context.Background(), interfaces.OrderEvent{}))
}

func TestConsumer_AcksHandledAndNacksFailed(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 2)}
	acks := &ackRecorder{acks: make(chan uint64, 2), nacks: make(chan uint64, 2)}
	ch.deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 1, Body: []byte(`{"type":"order.created"}`)}
	ch.deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 2, Body: []byte(`broken`)}

	cons := NewConsumer(&fakeConnection{ch: ch}, "cafe_events", "cafe_notifications", 10, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cons.ConsumeEvents(ctx, func(_ context.Context, body []byte) error {
			var e interfaces.OrderEvent
			return json.Unmarshal(body, &e)
		})
	}()

	assert.Equal(t, uint64(1), <-acks.acks)
	assert.Equal(t, uint64(2), <-acks.nacks)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, []string{
		"cafe_events->cafe_notifications:order.#",
		"cafe_events->cafe_notifications:item.#",
	}, ch.bindings)
}
