package middleware

import (
	"net/http"
	"time"

	"movie-discovery/pkg/ratelimit"
	"movie-discovery/pkg/utils"

	"go.uber.org/zap"
)

// KeyFunc picks the identity a limit applies to.
type KeyFunc func(r *http.Request) string

// ByIP keys on the client address.
func ByIP(r *http.Request) string {
	return "ip:" + ratelimit.ClientIP(r)
}

// ByUser keys on the authenticated user, falling back to the client address.
func ByUser(r *http.Request) string {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	return ByIP(r)
}

// RateLimit allows perMinute requests per key in a one minute window.
// Store failures are logged and the request is let through.
func RateLimit(limiter *ratelimit.Limiter, bucket string, perMinute int, keyFn KeyFunc, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !limiter.Enabled() || perMinute <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "rl:" + bucket + ":" + keyFn(r)

			allowed, retryAfter, err := limiter.Allow(r.Context(), key, perMinute, time.Minute)
			if err != nil {
				logger.Warn("Rate limit store unavailable, allowing request",
					zap.String("bucket", bucket), zap.Error(err))
			}
			if !allowed {
				utils.ResponseTooManyRequests(w, "Too many requests, please slow down", retryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
