// Package middleware provides the gin middleware of the settlement API.
package middleware

import (
	"net/http"

	"github.com/cortecaja/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: telemetry.TracerName,
		Enabled:     true,
	}
}

// TracingWithConfig returns the otelgin server span middleware, or a
// pass-through when tracing is disabled.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = telemetry.TracerName
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanEnricher tags the server span with the request id, the worker and the
// settlement addressed by the request, then marks it failed on 5xx.
// It must run after TracingWithConfig.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if requestID := c.GetString(requestIDKey); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if worker, err := uuid.Parse(c.Query("worker")); err == nil {
			span.SetAttributes(attribute.String(telemetry.SpanAttrWorkerID, worker.String()))
		}
		if id, err := uuid.Parse(c.Param("id")); err == nil {
			span.SetAttributes(attribute.String(telemetry.SpanAttrSettlementID, id.String()))
		}

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		if len(c.Errors) > 0 {
			span.SetAttributes(attribute.StringSlice("http.errors", c.Errors.Errors()))
		}
	}
}
