package router

import (
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

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func echoRoute(c *gin.Context) {
	c.String(http.StatusOK, c.Request.Method+" "+c.FullPath())
}

func settlementGroup() *Group {
	return NewGroup("settlements", "/settlements").
		GET("", echoRoute).
		POST("", echoRoute).
		PUT("/:id/validate", echoRoute)
}

func TestRouter_MountsUnderVersionPrefix(t *testing.T) {
	engine := gin.New()
	routes := New(engine).Add(settlementGroup()).Setup()

	assert.Equal(t, []RouteInfo{
		{Group: "settlements", Method: http.MethodGet, Path: "/api/v1/settlements"},
		{Group: "settlements", Method: http.MethodPost, Path: "/api/v1/settlements"},
		{Group: "settlements", Method: http.MethodPut, Path: "/api/v1/settlements/:id/validate"},
	}, routes)

	assert.Equal(t, "POST /api/v1/settlements", serve(engine, http.MethodPost, "/api/v1/settlements").Body.String())
	assert.Equal(t, "PUT /api/v1/settlements/:id/validate",
		serve(engine, http.MethodPut, "/api/v1/settlements/abc/validate").Body.String())
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/settlements").Code)
}

func TestRouter_WithVersion(t *testing.T) {
	engine := gin.New()
	r := New(engine, WithVersion("v2")).Add(NewGroup("system", "/system").GET("/ping", echoRoute))
	r.Setup()

	assert.Equal(t, "/api/v2", r.Prefix())
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/system/ping").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/system/ping").Code)
}

func TestRouter_APIMiddlewareStaysOnAPI(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", echoRoute)

	var hits []string
	New(engine, WithAPIMiddleware(func(c *gin.Context) {
		hits = append(hits, c.FullPath())
	})).Add(settlementGroup()).Setup()

	serve(engine, http.MethodGet, "/health")
	serve(engine, http.MethodGet, "/api/v1/settlements")

	assert.Equal(t, []string{"/api/v1/settlements"}, hits)
}

func TestGroup_MiddlewareScopedToGroup(t *testing.T) {
	engine := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }

	New(engine).Add(
		NewGroup("settlements", "/settlements", deny).GET("", echoRoute),
		NewGroup("system", "/system").GET("/ping", echoRoute),
	).Setup()

	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/settlements").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/ping").Code)
}

func TestRouter_LogsMountedRoutes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	New(gin.New(), WithLogger(zap.New(core))).Add(settlementGroup()).Setup()

	entries := logs.FilterMessage("Route mounted").All()
	require.Len(t, entries, 3)
	assert.Equal(t, "/api/v1/settlements/:id/validate", entries[2].ContextMap()["path"])
}
