package ports

import (
	"context"

	"graphmem/domain/graph"
)

// StateStore persists one whole graph per identity. Load returns a fresh
// empty state when no blob exists yet, so callers never see "not found".
// Save replaces the durable copy atomically.
type StateStore interface {
	Load(ctx context.Context, identity string) (*graph.State, error)
	Save(ctx context.Context, identity string, state *graph.State) error
}
