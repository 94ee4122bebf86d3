package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-backend/internal/auth"
	"github.com/nekogravitycat/rental-backend/internal/pkg/clock"
)

type countingLimiter struct {
	allow bool
	calls int
}

func (l *countingLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.calls++
	return l.allow, nil
}

func newTestRouter(l *countingLimiter, metricsEnabled bool) (*gin.Engine, *auth.JWTManager) {
	gin.SetMode(gin.TestMode)
	jwtManager := auth.NewJWTManager("test-secret", time.Minute)
	cfg := Config{
		MetricsEnabled: metricsEnabled,
		Logger:         zerolog.New(io.Discard),
		Clock:          clock.Real{},
		JWTManager:     jwtManager,
	}
	if l != nil {
		cfg.Limiter = l
	}
	return NewRouter(cfg), jwtManager
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(nil, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _ := newTestRouter(nil, false)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(nil, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rental_http_requests_total")

	off, _ := newTestRouter(nil, false)
	w = httptest.NewRecorder()
	off.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutes(t *testing.T) {
	t.Run("MissingTokenSkipsLimiter", func(t *testing.T) {
		l := &countingLimiter{allow: true}
		r, _ := newTestRouter(l, false)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/bookings", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 0, l.calls)
	})

	t.Run("LimiterRejects", func(t *testing.T) {
		l := &countingLimiter{allow: false}
		r, jwtManager := newTestRouter(l, false)

		token, err := jwtManager.GenerateAccessToken("u1", "u1@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, 1, l.calls)
	})
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitOrigins(" https://a.example,,https://b.example "))
	assert.Empty(t, splitOrigins(""))
}
