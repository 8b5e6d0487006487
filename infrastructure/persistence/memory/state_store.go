package memory

import (
	"context"
	"sync"

	"graphmem/domain/graph"
)

// StateStore keeps every identity's graph blob in process memory. Used in
// development mode and by tests. Blobs are stored in encoded form so Load
// and Save hand out deep copies, same as a real store would.
type StateStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewStateStore creates an empty in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{
		blobs: make(map[string][]byte),
	}
}

// Load returns a copy of the identity's graph, or a fresh empty state when
// nothing has been saved yet.
func (s *StateStore) Load(_ context.Context, identity string) (*graph.State, error) {
	s.mu.RLock()
	blob, ok := s.blobs[identity]
	s.mu.RUnlock()
	if !ok {
		return graph.NewState(), nil
	}
	return graph.DecodeState(blob)
}

// Save replaces the identity's stored graph.
func (s *StateStore) Save(_ context.Context, identity string, st *graph.State) error {
	blob, err := graph.EncodeState(st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blobs[identity] = blob
	s.mu.Unlock()
	return nil
}
