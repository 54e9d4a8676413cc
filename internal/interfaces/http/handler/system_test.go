package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cortecaja/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSystemTestRouter(checks map[string]Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewSystemHandler("1.2.0", checks).Routes().Mount(engine.Group("/api/v1"))
	return engine
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) (dto.Response, map[string]any) {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	engine := setupSystemTestRouter(nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp, data := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Corte de Caja API", data["name"])
	assert.Equal(t, "1.2.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	engine := setupSystemTestRouter(map[string]Pinger{
		"database": PingerFunc(func(context.Context) error {
			t.Fatal("ping must not touch dependencies")
			return nil
		}),
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decodeResponse(t, w)
	assert.Equal(t, "pong", data["message"])
	assert.NotEmpty(t, data["timestamp"])
}

func TestSystemHandler_Health(t *testing.T) {
	up := PingerFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	})
	down := PingerFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all dependencies up", func(t *testing.T) {
		engine := setupSystemTestRouter(map[string]Pinger{"database": up, "redis": up})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		resp, data := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "healthy", data["status"])
		assert.Equal(t, map[string]any{"database": "up", "redis": "up"}, data["checks"])
	})

	t.Run("one dependency down", func(t *testing.T) {
		engine := setupSystemTestRouter(map[string]Pinger{"database": up, "redis": down})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp, data := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "unhealthy", data["status"])
		assert.Equal(t, map[string]any{"database": "up", "redis": "down"}, data["checks"])
	})

	t.Run("no checks configured", func(t *testing.T) {
		engine := setupSystemTestRouter(nil)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
