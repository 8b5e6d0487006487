package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"graphmem/pkg/auth"

	"go.uber.org/zap"
)

// identityHeader is honored in development mode so local clients can pick a
// graph identity without minting tokens.
const identityHeader = "X-Graph-Identity"

// Authenticate resolves the graph identity for every request. Production
// requests carry an HS256 bearer token whose subject is the identity; in
// development mode the X-Graph-Identity header is accepted as a fallback.
func Authenticate(validator *auth.JWTValidator, devMode bool, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				authHeader = r.Header.Get("authorization")
			}

			if authHeader == "" {
				if devMode {
					if identity := r.Header.Get(identityHeader); identity != "" {
						ctx := auth.SetIdentityInContext(r.Context(), identity)
						next.ServeHTTP(w, r.WithContext(ctx))
						return
					}
				}
				respondUnauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respondUnauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				logger.Warn("token rejected",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				switch err {
				case auth.ErrExpiredToken:
					respondUnauthorized(w, "Token has expired")
				case auth.ErrInvalidSignature:
					respondUnauthorized(w, "Invalid token signature")
				default:
					respondUnauthorized(w, "Invalid token")
				}
				return
			}

			ctx := auth.SetIdentityInContext(r.Context(), claims.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    http.StatusUnauthorized,
	})
}
