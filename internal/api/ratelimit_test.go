package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func limitedHandler(rl *RateLimiter) http.Handler {
	return rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl := NewRateLimiter(client, 3, time.Minute)
	handler := limitedHandler(rl)

	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/newsletters", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl := NewRateLimiter(client, 2, time.Minute)
	handler := limitedHandler(rl)

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/newsletters", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/newsletters", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiterSeparatesClients(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl := NewRateLimiter(client, 1, time.Minute)
	handler := limitedHandler(rl)

	r := httptest.NewRequest(http.MethodGet, "/api/newsletters", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	// A different client has its own bucket
	r2 := httptest.NewRequest(http.MethodGet, "/api/newsletters", nil)
	r2.RemoteAddr = "10.0.0.2:1234"
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, r2)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	rl := NewRateLimiter(client, 1, time.Minute)
	handler := limitedHandler(rl)

	r := httptest.NewRequest(http.MethodGet, "/api/newsletters", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Counter key expires with the window
	mr.FastForward(2 * time.Minute)
	assert.Empty(t, mr.Keys())
}

func TestRateLimiterNilClientDisabled(t *testing.T) {
	rl := NewRateLimiter(nil, 1, time.Minute)
	handler := limitedHandler(rl)

	for i := 0; i < 10; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/newsletters", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterFailsOpenOnRedisError(t *testing.T) {
	client, mr := setupTestRedis(t)
	rl := NewRateLimiter(client, 1, time.Minute)
	handler := limitedHandler(rl)

	mr.Close()

	r := httptest.NewRequest(http.MethodGet, "/api/newsletters", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
