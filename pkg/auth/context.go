package auth

import (
	"context"
	"errors"
)

type contextKey string

const identityContextKey contextKey = "graph_identity"

// SetIdentityInContext stores the authenticated graph identity on the
// request context.
func SetIdentityInContext(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// GetIdentityFromContext returns the graph identity placed on the context by
// the authentication middleware.
func GetIdentityFromContext(ctx context.Context) (string, error) {
	identity, ok := ctx.Value(identityContextKey).(string)
	if !ok || identity == "" {
		return "", errors.New("graph identity not found in context")
	}
	return identity, nil
}
