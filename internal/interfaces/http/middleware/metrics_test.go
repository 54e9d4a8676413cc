package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cortecaja/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsRouter(t *testing.T) (*gin.Engine, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewHTTPMetrics(reg)
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetrics(metrics))
	router.GET("/api/v1/settlements/:id", func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.JSON(http.StatusNotFound, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router, reg
}

func TestHTTPMetrics_CountsByRoutePattern(t *testing.T) {
	router, reg := newMetricsRouter(t)

	for _, path := range []string{"/api/v1/settlements/a", "/api/v1/settlements/b", "/api/v1/settlements/missing", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP http_server_request_total Total number of HTTP requests
# TYPE http_server_request_total counter
http_server_request_total{method="GET",route="/api/v1/settlements/:id",status_code="200"} 2
http_server_request_total{method="GET",route="/api/v1/settlements/:id",status_code="404"} 1
http_server_request_total{method="GET",route="unknown",status_code="404"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_server_request_total"))

	count, err := testutil.GatherAndCount(reg, "http_server_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestHTTPMetrics_ActiveRequestsSettle(t *testing.T) {
	router, reg := newMetricsRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/settlements/a", nil))

	expected := `
# HELP http_server_active_requests Number of currently active HTTP requests
# TYPE http_server_active_requests gauge
http_server_active_requests 0
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_server_active_requests"))
}

func TestHTTPMetrics_NilDisables(t *testing.T) {
	router := gin.New()
	router.Use(HTTPMetrics(nil))
	router.GET("/api/v1/settlements", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/settlements", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPMetricsStatusGroup(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{304, "3xx"},
		{409, "4xx"},
		{422, "4xx"},
		{500, "5xx"},
		{100, "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPMetricsStatusGroup(tt.code), "code %d", tt.code)
	}
}
