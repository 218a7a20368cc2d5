// Package ratelimit implements fixed-window request limits on top of a
// counter store. A nil store disables limiting entirely, and store errors
// fail open so an unavailable Redis never blocks users.
package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Store is the minimal counter interface. Redis in production, a map in tests.
type Store interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type Limiter struct {
	store Store
}

func New(store Store) *Limiter {
	return &Limiter{store: store}
}

// Enabled reports whether a backing store is configured.
func (l *Limiter) Enabled() bool {
	return l != nil && l.store != nil
}

// Allow increments key and reports whether it is still within rate for the
// current window. When the limit is exceeded retryAfter is the remaining
// window in whole seconds.
func (l *Limiter) Allow(ctx context.Context, key string, rate int, window time.Duration) (allowed bool, retryAfter int, err error) {
	if !l.Enabled() || rate <= 0 {
		return true, 0, nil
	}

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		return true, 0, err
	}

	if count == 1 {
		if err := l.store.Expire(ctx, key, window); err != nil {
			return true, 0, err
		}
	}

	if count <= int64(rate) {
		return true, 0, nil
	}

	ttl, _ := l.store.TTL(ctx, key)
	retryAfter = int(ttl.Seconds())
	if retryAfter < 1 {
		retryAfter = int(window.Seconds())
	}
	return false, retryAfter, nil
}

// ClientIP extracts the caller IP, honouring reverse proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return addr[:i]
	}
	return addr
}
