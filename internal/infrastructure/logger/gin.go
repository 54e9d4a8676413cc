package logger

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessLog annotates the request context with the request id (set earlier
// by the RequestID middleware), the worker named in the query and the
// settlement named in the path, then writes one entry per request once the
// handler returns. Requests to skipPaths are annotated but not logged.
func AccessLog(base *zap.Logger, skipPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := WithRequestID(c.Request.Context(), c.GetString("request_id"))
		if worker := c.Query("worker"); worker != "" {
			if _, err := uuid.Parse(worker); err == nil {
				ctx = WithWorkerID(ctx, worker)
			}
		}
		if id := c.Param("id"); id != "" {
			if _, err := uuid.Parse(id); err == nil {
				ctx = WithSettlementID(ctx, id)
			}
		}

		reqLogger := For(ctx, base)
		c.Request = c.Request.WithContext(WithContext(ctx, reqLogger))

		c.Next()

		if slices.Contains(skipPaths, c.FullPath()) {
			return
		}

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("bytes", c.Writer.Size()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn("Request rejected", fields...)
		default:
			reqLogger.Info("Request served", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 in the API error envelope
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString("request_id")
			base.Error("Handler panicked",
				zap.String("request_id", requestID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("panic", fmt.Sprint(rec)),
				zap.Stack("stack"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "INTERNAL_ERROR",
					"message":    "An unexpected error occurred",
					"request_id": requestID,
				},
			})
		}()
		c.Next()
	}
}
