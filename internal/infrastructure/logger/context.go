package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	workerIDKey
	settlementIDKey
)

// WithContext stores l on ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored on ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequestID records the request id on ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return withValue(ctx, requestIDKey, id)
}

// WithWorkerID records the worker a request acts for
func WithWorkerID(ctx context.Context, id string) context.Context {
	return withValue(ctx, workerIDKey, id)
}

// WithSettlementID records the settlement an operation works on
func WithSettlementID(ctx context.Context, id string) context.Context {
	return withValue(ctx, settlementIDKey, id)
}

func withValue(ctx context.Context, key ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

// RequestID returns the request id on ctx, if any
func RequestID(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

// WorkerID returns the worker id on ctx, if any
func WorkerID(ctx context.Context) string { return stringValue(ctx, workerIDKey) }

// SettlementID returns the settlement id on ctx, if any
func SettlementID(ctx context.Context) string { return stringValue(ctx, settlementIDKey) }

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// For returns base annotated with everything ctx knows about the current
// request: trace and span ids plus the request, worker and settlement ids.
// A nil base falls back to the logger stored on ctx.
func For(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = FromContext(ctx)
	}
	fields := contextFields(ctx)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

func contextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	if v := RequestID(ctx); v != "" {
		fields = append(fields, zap.String("request_id", v))
	}
	if v := WorkerID(ctx); v != "" {
		fields = append(fields, zap.String("worker_id", v))
	}
	if v := SettlementID(ctx); v != "" {
		fields = append(fields, zap.String("settlement_id", v))
	}
	return fields
}
