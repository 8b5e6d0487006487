package middleware

import (
	"net/http"

	"graphmem/pkg/auth"

	"go.uber.org/zap"
)

// RateLimit enforces a per-identity request limit. It runs after
// Authenticate so the identity is already on the context.
func RateLimit(limiter auth.RateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := auth.GetIdentityFromContext(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := limiter.Allow(r.Context(), identity)
			if err != nil {
				logger.Error("rate limiter failure", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				logger.Warn("rate limit exceeded",
					zap.String("identity", identity),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":true,"message":"Rate limit exceeded","code":"RATE_LIMITED"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
