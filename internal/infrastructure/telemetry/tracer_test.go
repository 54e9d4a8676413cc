package telemetry_test

import (
	"context"
	"testing"

	"github.com/cortecaja/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func restoreGlobalProvider(t *testing.T) {
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	restoreGlobalProvider(t)
	before := otel.GetTracerProvider()

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.Same(t, before, otel.GetTracerProvider())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProvider_ExportsWithServiceResource(t *testing.T) {
	restoreGlobalProvider(t)
	exp := tracetest.NewInMemoryExporter()

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:        true,
		SamplingRatio:  1,
		ServiceName:    "corte-caja",
		ServiceVersion: "1.4.0",
		Environment:    "staging",
	}, zap.NewNop(), telemetry.WithExporter(exp))
	require.NoError(t, err)
	require.True(t, tp.IsEnabled())

	_, span := otel.Tracer("test").Start(context.Background(), "settlement.create")
	span.End()

	// shutting the in-memory exporter down clears it
	spans := exp.GetSpans()
	require.NoError(t, tp.Shutdown(context.Background()))
	require.Len(t, spans, 1)
	attrs := map[string]string{}
	for _, kv := range spans[0].Resource.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "corte-caja", attrs["service.name"])
	assert.Equal(t, "1.4.0", attrs["service.version"])
	assert.Equal(t, "staging", attrs["deployment.environment.name"])
}

func TestNewTracerProvider_ZeroRatioStillFollowsSampledParent(t *testing.T) {
	restoreGlobalProvider(t)
	exp := tracetest.NewInMemoryExporter()

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:       true,
		SamplingRatio: 0,
	}, zap.NewNop(), telemetry.WithExporter(exp))
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, root := otel.Tracer("test").Start(context.Background(), "root")
	root.End()
	assert.Empty(t, exp.GetSpans())

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	parent := trace.ContextWithRemoteSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))
	_, child := otel.Tracer("test").Start(parent, "child")
	child.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, traceID, spans[0].SpanContext.TraceID())
}
