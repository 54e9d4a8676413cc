package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/api/v1/settlements", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestCORS_DefaultRejectsCrossOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/api/v1/settlements", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settlements", nil)
	req.Header.Set("Origin", "http://elsewhere.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWithConfig(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
		wantCreds  string
	}{
		{"listed origin", []string{"http://caja.local"}, http.MethodGet, "http://caja.local", http.StatusOK, "http://caja.local", "true"},
		{"unlisted origin", []string{"http://caja.local"}, http.MethodGet, "http://other.local", http.StatusOK, "", ""},
		{"wildcard never sends credentials", []string{"*"}, http.MethodGet, "http://any.local", http.StatusOK, "*", ""},
		{"preflight for listed origin", []string{"http://caja.local"}, http.MethodOptions, "http://caja.local", http.StatusNoContent, "http://caja.local", "true"},
		{"preflight for unlisted origin", []string{"http://caja.local"}, http.MethodOptions, "http://other.local", http.StatusNoContent, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCORSRouter(NewCORSConfig(tt.origins, nil, nil))

			req := httptest.NewRequest(tt.method, "/api/v1/settlements", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORSWithConfig_Headers(t *testing.T) {
	cfg := NewCORSConfig([]string{"http://caja.local"}, []string{"GET"}, nil)
	cfg.MaxAge = 90 * time.Minute
	router := newCORSRouter(cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/settlements", nil)
	req.Header.Set("Origin", "http://caja.local")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "GET", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization, X-Request-ID", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Request-ID, Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "5400", w.Header().Get("Access-Control-Max-Age"))
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/api/v1/settlements", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/settlements", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		generated := w.Header().Get("X-Request-ID")
		_, err := uuid.Parse(generated)
		assert.NoError(t, err)
		assert.Equal(t, generated, w.Body.String())
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/settlements", nil)
		req.Header.Set("X-Request-ID", "caja-req-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "caja-req-1", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "caja-req-1", w.Body.String())
	})

	t.Run("replaces oversized request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/settlements", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("a", 100))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEqual(t, strings.Repeat("a", 100), w.Header().Get("X-Request-ID"))
		assert.LessOrEqual(t, len(w.Header().Get("X-Request-ID")), maxRequestIDLength)
	})
}

func TestSecure(t *testing.T) {
	t.Run("default headers", func(t *testing.T) {
		router := gin.New()
		router.Use(Secure())
		router.GET("/api/v1/settlements", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/settlements", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
		assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", w.Header().Get("Content-Security-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("hsts when enabled", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.HSTSEnabled = true
		cfg.HSTSMaxAge = 600
		cfg.CSPDirective = ""

		router := gin.New()
		router.Use(SecureWithConfig(cfg))
		router.GET("/api/v1/settlements", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/settlements", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "max-age=600; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, w.Header().Get("Content-Security-Policy"))
	})
}
