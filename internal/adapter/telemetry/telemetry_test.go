package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/cache"
	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/adapter/memory"
	"github.com/Lofienjoyerr/CafeProject/internal/adapter/rabbitmq"
	"github.com/Lofienjoyerr/CafeProject/internal/app/order"
	"github.com/Lofienjoyerr/CafeProject/internal/config"
	"github.com/Lofienjoyerr/CafeProject/internal/domain"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

// The global provider delegates only once per process, so every span
// assertion lives in this one test.
func TestSetup_ExportsServiceSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	cfg := config.Default().Telemetry
	cfg.Enabled = true
	cfg.ServiceName = "cafe-test"

	provider, err := Setup(context.Background(), cfg, WithWriter(&buf))
	require.NoError(t, err)
	assert.True(t, provider.Enabled())

	store := memory.NewStore()
	latte := domain.Item{Name: "latte", Price: 100}
	require.NoError(t, store.Items().Create(context.Background(), &latte))

	svc := order.NewService(store, rabbitmq.NopPublisher(), cache.Nop{}, logger.Nop())
	_, err = svc.CreateOrder(context.Background(), interfaces.CreateOrderCommand{
		TableNumber: 1,
		ItemIDs:     []int64{latte.ID},
	})
	require.NoError(t, err)

	require.NoError(t, provider.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, `"Name":"order.CreateOrder"`)
	assert.Contains(t, out, "cafe-test")
}

func TestSetup_Disabled(t *testing.T) {
	provider, err := Setup(context.Background(), config.Default().Telemetry)
	require.NoError(t, err)
	assert.False(t, provider.Enabled())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestSetup_UnknownExporter(t *testing.T) {
	cfg := config.TelemetryConfig{Enabled: true, Exporter: "zipkin", SampleRatio: 1}
	_, err := Setup(context.Background(), cfg)
	assert.Error(t, err)
}
