// Package telemetry registers the OpenTelemetry tracer provider that the
// services and the HTTP middleware report spans to.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Lofienjoyerr/CafeProject/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Provider owns the registered tracer provider. The zero value, returned
// when telemetry is disabled, shuts down as a no-op.
type Provider struct {
	tp *sdktrace.TracerProvider
}

type options struct {
	out io.Writer
}

type Option func(*options)

// WithWriter sets where the stdout exporter writes spans.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// Setup builds the exporter named by cfg and installs it as the global
// tracer provider together with the W3C trace context propagator.
func Setup(ctx context.Context, cfg config.TelemetryConfig, opts ...Option) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}

	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	exporter, err := newExporter(ctx, cfg, o)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(semconv.ServiceNameKey.String(cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{tp: tp}, nil
}

func newExporter(ctx context.Context, cfg config.TelemetryConfig, o options) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case config.TelemetryExporterStdout:
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(o.out))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		return exporter, nil
	case config.TelemetryExporterOTLP:
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unknown telemetry exporter %q", cfg.Exporter)
	}
}

// Enabled reports whether spans are being exported.
func (p *Provider) Enabled() bool {
	return p.tp != nil
}

// Shutdown flushes buffered spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	if err := p.tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}
