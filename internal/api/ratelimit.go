package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/classkit/newsletter-studio/internal/auth"
)

// RateLimiter is a fixed-window request limiter backed by Redis. Each
// user (or client IP when auth is disabled) gets `limit` requests per
// window; the counter key expires with the window so stale buckets
// clean themselves up.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a rate limiter. A nil client disables limiting
// entirely, which is the default for local single-user setups.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 120
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (rl *RateLimiter) key(r *http.Request) string {
	identity := auth.UserID(r.Context())
	if identity == auth.LocalUserID {
		identity = r.RemoteAddr
	}
	bucket := time.Now().Unix() / int64(rl.window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%d", identity, bucket)
}

// Allow reports whether the request fits in the current window.
func (rl *RateLimiter) Allow(r *http.Request) bool {
	if rl.client == nil {
		return true
	}

	ctx := r.Context()
	key := rl.key(r)

	pipe := rl.client.Pipeline()
	countCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open: a Redis outage should not take editing down with it
		log.Printf("ratelimit: redis error, allowing request: %v", err)
		return true
	}

	return countCmd.Val() <= int64(rl.limit)
}

// Middleware enforces the limit on every request passing through it.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(r) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
