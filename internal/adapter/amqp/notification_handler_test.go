package amqp

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleEvent_LogsEvent(t *testing.T) {
	var buf bytes.Buffer
	h := NewNotificationHandler(logger.New("notification-subscriber", logger.WithOutput(&buf)))

	body, err := json.Marshal(interfaces.OrderEvent{
		EventID:     "evt-9",
		Type:        interfaces.EventOrderTotalRecomputed,
		OrderID:     3,
		ItemID:      1,
		TotalPrice:  450,
		TableNumber: 2,
	})
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(context.Background(), body))

	var entry logger.LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "event_received", entry.Action)
	assert.Equal(t, "evt-9", entry.RequestID)
	assert.Equal(t, "Order 3 total recomputed to 450 after item 1 changed", entry.Message)
}

func TestHandleEvent_DescribesItemPrice(t *testing.T) {
	var buf bytes.Buffer
	h := NewNotificationHandler(logger.New("notification-subscriber", logger.WithOutput(&buf)))

	body, err := json.Marshal(interfaces.OrderEvent{
		EventID:   "evt-10",
		Type:      interfaces.EventItemPriceChanged,
		ItemID:    4,
		ItemPrice: 180,
	})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"item_price":180`)
	require.NoError(t, h.HandleEvent(context.Background(), body))

	var entry logger.LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Item 4 price changed to 180", entry.Message)
}

func TestHandleEvent_RejectsMalformed(t *testing.T) {
	h := NewNotificationHandler(logger.Nop())

	assert.Error(t, h.HandleEvent(context.Background(), []byte("{")))
	assert.Error(t, h.HandleEvent(context.Background(), []byte(`{"event_id":"x"}`)))
}
