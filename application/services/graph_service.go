package services

import (
	"context"
	"fmt"
	"sync"

	"graphmem/application/ports"
	"graphmem/domain/graph"
	appErrors "graphmem/pkg/errors"

	"go.uber.org/zap"
)

// GraphService runs every external operation through the persistence cycle:
// lock the identity, load its whole state, apply exactly one domain
// operation, save only when the operation mutated, respond. A failed
// operation never reaches Save, so the durable copy stays untouched.
type GraphService struct {
	store  ports.StateStore
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGraphService creates a graph service on top of a state store.
func NewGraphService(store ports.StateStore, logger *zap.Logger) *GraphService {
	return &GraphService{
		store:  store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// identityLock returns the mutex serializing cycles for one identity. Locks
// are never evicted; the map grows with the set of active identities.
func (s *GraphService) identityLock(identity string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[identity]
	if !ok {
		l = &sync.Mutex{}
		s.locks[identity] = l
	}
	return l
}

// run executes one persistence cycle. The op callback reports whether it
// mutated the state; Save is skipped otherwise.
func (s *GraphService) run(ctx context.Context, identity string, op func(st *graph.State) (mutated bool, err error)) error {
	lock := s.identityLock(identity)
	lock.Lock()
	defer lock.Unlock()

	st, err := s.store.Load(ctx, identity)
	if err != nil {
		return fmt.Errorf("failed to load graph state: %w", err)
	}

	mutated, opErr := op(st)
	if opErr != nil {
		return opErr
	}
	if !mutated {
		return nil
	}

	if err := s.store.Save(ctx, identity, st); err != nil {
		return fmt.Errorf("failed to save graph state: %w", err)
	}
	return nil
}

// CreateNode adds a node with a generated id.
func (s *GraphService) CreateNode(ctx context.Context, identity, nodeType string, data any) (*graph.Node, error) {
	var node *graph.Node
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		node, _ = st.AddNode("", nodeType, data)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("node created",
		zap.String("identity", identity),
		zap.String("node_id", node.ID),
		zap.String("node_type", node.Type),
	)
	return node, nil
}

// GetNode fetches a node by id.
func (s *GraphService) GetNode(ctx context.Context, identity, nodeID string) (*graph.Node, error) {
	var node *graph.Node
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		n, ok := st.GetNode(nodeID)
		if !ok {
			return false, appErrors.NewNotFoundError("node")
		}
		node = n
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// ListNodes returns all nodes, optionally filtered by exact type.
func (s *GraphService) ListNodes(ctx context.Context, identity, nodeType string) ([]*graph.Node, error) {
	var nodes []*graph.Node
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		if nodeType != "" {
			nodes = st.FindNodesByType(nodeType)
		} else {
			nodes = st.ListNodes()
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// UpdateNode applies a partial node update.
func (s *GraphService) UpdateNode(ctx context.Context, identity, nodeID string, nodeType *string, data any) (*graph.Node, error) {
	var node *graph.Node
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		n, ok := st.UpdateNode(nodeID, nodeType, data)
		if !ok {
			return false, appErrors.NewNotFoundError("node")
		}
		node = n
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// DeleteNode removes a node and every edge touching it.
func (s *GraphService) DeleteNode(ctx context.Context, identity, nodeID string) error {
	return s.run(ctx, identity, func(st *graph.State) (bool, error) {
		if _, ok := st.DeleteNodeCascade(nodeID); !ok {
			return false, appErrors.NewNotFoundError("node")
		}
		return true, nil
	})
}

// RelatedNodes returns the neighborhood of a node.
func (s *GraphService) RelatedNodes(ctx context.Context, identity, nodeID, edgeType string, direction graph.Direction) ([]*graph.Node, error) {
	var nodes []*graph.Node
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		if _, ok := st.GetNode(nodeID); !ok {
			return false, appErrors.NewNotFoundError("node")
		}
		nodes = st.Neighbors(nodeID, edgeType, direction)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// CreateEdge links two existing nodes.
func (s *GraphService) CreateEdge(ctx context.Context, identity, edgeType, sourceID, targetID string, data any) (*graph.Edge, error) {
	var edge *graph.Edge
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		e, missing := st.AddEdge(edgeType, sourceID, targetID, data)
		if missing != "" {
			return false, appErrors.NewValidationError(fmt.Sprintf("node %s does not exist", missing))
		}
		edge = e
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("edge created",
		zap.String("identity", identity),
		zap.String("edge_id", edge.ID),
		zap.String("edge_type", edge.Type),
	)
	return edge, nil
}

// GetEdge fetches an edge by id.
func (s *GraphService) GetEdge(ctx context.Context, identity, edgeID string) (*graph.Edge, error) {
	var edge *graph.Edge
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		e, ok := st.GetEdge(edgeID)
		if !ok {
			return false, appErrors.NewNotFoundError("edge")
		}
		edge = e
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// UpdateEdge replaces an edge's data document.
func (s *GraphService) UpdateEdge(ctx context.Context, identity, edgeID string, data any) (*graph.Edge, error) {
	var edge *graph.Edge
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		e, ok := st.UpdateEdgeData(edgeID, data)
		if !ok {
			return false, appErrors.NewNotFoundError("edge")
		}
		edge = e
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// DeleteEdge removes an edge by id.
func (s *GraphService) DeleteEdge(ctx context.Context, identity, edgeID string) error {
	return s.run(ctx, identity, func(st *graph.State) (bool, error) {
		if _, ok := st.RemoveEdge(edgeID); !ok {
			return false, appErrors.NewNotFoundError("edge")
		}
		return true, nil
	})
}

// CreateEntities runs the entity creation batch.
func (s *GraphService) CreateEntities(ctx context.Context, identity string, entities []graph.EntityInput) ([]*graph.Node, error) {
	var created []*graph.Node
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		created = st.CreateEntities(entities)
		return len(created) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateRelations runs the relation creation batch. A missing endpoint fails
// the whole batch.
func (s *GraphService) CreateRelations(ctx context.Context, identity string, relations []graph.RelationInput) ([]*graph.Edge, error) {
	var created []*graph.Edge
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		edges, err := st.CreateRelations(relations)
		if err != nil {
			return false, appErrors.NewValidationError(err.Error())
		}
		created = edges
		return len(created) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AddObservations runs the observation append batch with per-item results.
func (s *GraphService) AddObservations(ctx context.Context, identity string, items []graph.ObservationAdd) ([]graph.ItemResult, error) {
	var results []graph.ItemResult
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		var mutated bool
		results, mutated = st.AddObservations(items)
		return mutated, nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteEntities removes the named entities, skipping unknown names.
func (s *GraphService) DeleteEntities(ctx context.Context, identity string, entityNames []string) ([]string, error) {
	var deleted []string
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		deleted = st.DeleteEntities(entityNames)
		return len(deleted) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// DeleteObservations runs the observation delete batch with per-item results.
func (s *GraphService) DeleteObservations(ctx context.Context, identity string, items []graph.ObservationDelete) ([]graph.ItemResult, error) {
	var results []graph.ItemResult
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		var mutated bool
		results, mutated = st.DeleteObservations(items)
		return mutated, nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteRelations removes every edge matching any given triple.
func (s *GraphService) DeleteRelations(ctx context.Context, identity string, relations []graph.RelationKey) ([]string, error) {
	var deleted []string
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		deleted = st.DeleteRelations(relations)
		return len(deleted) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// Search projects entities matching the query plus their interconnections.
func (s *GraphService) Search(ctx context.Context, identity, query string) (graph.GraphData, error) {
	var data graph.GraphData
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		data = st.Search(query)
		return false, nil
	})
	return data, err
}

// Open projects the named entities plus their interconnections.
func (s *GraphService) Open(ctx context.Context, identity string, names []string) (graph.GraphData, error) {
	var data graph.GraphData
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		data = st.Open(names)
		return false, nil
	})
	return data, err
}

// ReadGraph projects the whole graph.
func (s *GraphService) ReadGraph(ctx context.Context, identity string) (graph.GraphData, error) {
	var data graph.GraphData
	err := s.run(ctx, identity, func(st *graph.State) (bool, error) {
		data = st.Dump()
		return false, nil
	})
	return data, err
}
