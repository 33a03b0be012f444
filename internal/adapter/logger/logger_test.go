package logger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var out []LogEntry
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var e LogEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	return out
}

func TestLogger_WritesJSONEntries(t *testing.T) {
	var buf bytes.Buffer
	lgr := New("cafe-service", WithOutput(&buf), WithLevel(LevelDebug))

	lgr.Debug("order_created", "Order created", "req-1", map[string]interface{}{"order_id": 7})
	lgr.Error("order_create_failed", "Failed", "req-2", nil, errors.New("boom"))

	got := entries(t, &buf)
	require.Len(t, got, 2)

	assert.Equal(t, "DEBUG", got[0].Level)
	assert.Equal(t, "cafe-service", got[0].Service)
	assert.Equal(t, "req-1", got[0].RequestID)
	assert.Equal(t, float64(7), got[0].Details["order_id"])
	assert.Nil(t, got[0].Error)

	require.NotNil(t, got[1].Error)
	assert.Equal(t, "boom", got[1].Error.Msg)
	assert.Equal(t, "*errors.errorString", got[1].Error.Type)
}

func TestLogger_LevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	lgr := New("cafe-service", WithOutput(&buf), WithLevel(ParseLevel("info")))

	lgr.Debug("skipped", "", "", nil)
	lgr.Info("kept", "", "", nil)

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Action)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestRequestIDContext(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))

	id := GenerateRequestID()
	assert.Len(t, id, 36)
	assert.Equal(t, id, RequestID(WithRequestID(context.Background(), id)))
}
