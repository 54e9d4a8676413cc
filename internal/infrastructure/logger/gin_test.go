package logger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testWorkerID     = "4d3c1f0e-8a55-4b0f-9f63-0f5f8e9d2a11"
	testSettlementID = "9b2e7c44-1d0a-4c3e-b6f1-3a8d5e2f7c90"
)

func newAccessLogEngine(t *testing.T, skip ...string) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	})
	r.Use(AccessLog(zap.New(core), skip...))
	return r, logs
}

func TestAccessLog_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		msg    string
		level  zapcore.Level
	}{
		{http.StatusOK, "Request served", zapcore.InfoLevel},
		{http.StatusConflict, "Request rejected", zapcore.WarnLevel},
		{http.StatusServiceUnavailable, "Request failed", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			r, logs := newAccessLogEngine(t)
			r.GET("/ping", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

			entries := logs.FilterMessage(tt.msg).All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			fields := entries[0].ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, "/ping", fields["route"])
			assert.Equal(t, "req-42", fields["request_id"])
		})
	}
}

func TestAccessLog_AnnotatesRequestContext(t *testing.T) {
	r, logs := newAccessLogEngine(t)

	var seen struct{ request, worker, settlement string }
	r.GET("/settlements/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		seen.request = RequestID(ctx)
		seen.worker = WorkerID(ctx)
		seen.settlement = SettlementID(ctx)
		FromContext(ctx).Info("inside handler")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/settlements/"+testSettlementID+"?worker="+testWorkerID, nil))

	assert.Equal(t, "req-42", seen.request)
	assert.Equal(t, testWorkerID, seen.worker)
	assert.Equal(t, testSettlementID, seen.settlement)

	inside := logs.FilterMessage("inside handler").All()
	require.Len(t, inside, 1)
	assert.Equal(t, testWorkerID, inside[0].ContextMap()["worker_id"])
	assert.Equal(t, testSettlementID, inside[0].ContextMap()["settlement_id"])
}

func TestAccessLog_IgnoresMalformedIDs(t *testing.T) {
	r, _ := newAccessLogEngine(t)

	var worker, settlement string
	r.GET("/settlements/:id", func(c *gin.Context) {
		worker = WorkerID(c.Request.Context())
		settlement = SettlementID(c.Request.Context())
		c.Status(http.StatusBadRequest)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settlements/summary?worker=bob", nil))

	assert.Empty(t, worker)
	assert.Empty(t, settlement)
}

func TestAccessLog_SkipPaths(t *testing.T) {
	r, logs := newAccessLogEngine(t, "/health")
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, logs.Len())
}

func TestAccessLog_RecordsGinErrors(t *testing.T) {
	r, logs := newAccessLogEngine(t)
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom?x=1", nil))

	entries := logs.FilterMessage("Request failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "x=1", fields["query"])
	assert.Equal(t, []any{assert.AnError.Error()}, fields["errors"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.ErrorLevel)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "req-panic")
		c.Next()
	})
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("ledger out of balance") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "req-panic", body.Error.RequestID)

	entries := logs.FilterMessage("Handler panicked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ledger out of balance", entries[0].ContextMap()["panic"])
}
