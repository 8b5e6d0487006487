package graph

import (
	"encoding/json"
	"fmt"
	"sort"

	"graphmem/pkg/utils"
)

// Direction selects which edges count when walking a node's neighborhood.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// ValidDirection reports whether d is one of the recognized direction values.
func ValidDirection(d Direction) bool {
	switch d {
	case DirectionOutgoing, DirectionIncoming, DirectionBoth:
		return true
	}
	return false
}

// State is the whole graph owned by one identity. It is a pure in-memory
// structure; persistence loads and saves it as a single document. None of its
// methods perform I/O.
type State struct {
	Nodes    map[string]*Node `json:"nodes"`
	Edges    map[string]*Edge `json:"edges"`
	Metadata map[string]any   `json:"metadata"`
}

// NewState returns an empty graph.
func NewState() *State {
	return &State{
		Nodes:    make(map[string]*Node),
		Edges:    make(map[string]*Edge),
		Metadata: make(map[string]any),
	}
}

// normalize repairs nil maps after deserialization.
func (s *State) normalize() {
	if s.Nodes == nil {
		s.Nodes = make(map[string]*Node)
	}
	if s.Edges == nil {
		s.Edges = make(map[string]*Edge)
	}
	if s.Metadata == nil {
		s.Metadata = make(map[string]any)
	}
}

// DecodeState deserializes a state blob, repairing any maps the encoded form
// left null.
func DecodeState(data []byte) (*State, error) {
	st := NewState()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to decode graph state: %w", err)
	}
	st.normalize()
	return st, nil
}

// EncodeState serializes a state to its blob form.
func EncodeState(st *State) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph state: %w", err)
	}
	return data, nil
}

// AddNode inserts a node with the given type and data. When id is empty a
// UUID is generated. If a node with the id already exists it is returned
// unchanged and created reports false.
func (s *State) AddNode(id, nodeType string, data any) (node *Node, created bool) {
	if id == "" {
		id = NewID()
	}
	if existing, ok := s.Nodes[id]; ok {
		return existing, false
	}
	now := utils.NowMillis()
	n := &Node{
		ID:          id,
		Type:        nodeType,
		Data:        data,
		CreatedAtMs: now,
		UpdatedAtMs: now,
	}
	s.Nodes[id] = n
	return n, true
}

// GetNode looks up a node by id.
func (s *State) GetNode(id string) (*Node, bool) {
	n, ok := s.Nodes[id]
	return n, ok
}

// UpdateNode applies a partial update. A nil nodeType leaves the type alone;
// nil data leaves the data alone. updated_at_ms is bumped only when a field
// actually changed.
func (s *State) UpdateNode(id string, nodeType *string, data any) (*Node, bool) {
	n, ok := s.Nodes[id]
	if !ok {
		return nil, false
	}
	changed := false
	if nodeType != nil && *nodeType != n.Type {
		n.Type = *nodeType
		changed = true
	}
	if data != nil {
		n.Data = data
		changed = true
	}
	if changed {
		n.UpdatedAtMs = utils.NowMillis()
	}
	return n, true
}

// DeleteNodeCascade removes a node and every edge touching it, returning the
// removed node.
func (s *State) DeleteNodeCascade(id string) (*Node, bool) {
	n, ok := s.Nodes[id]
	if !ok {
		return nil, false
	}
	delete(s.Nodes, id)
	for edgeID, e := range s.Edges {
		if e.SourceNodeID == id || e.TargetNodeID == id {
			delete(s.Edges, edgeID)
		}
	}
	return n, true
}

// AddEdge links two existing nodes. Both endpoints must already be present;
// the missing endpoint's id is returned so callers can report it.
func (s *State) AddEdge(edgeType, sourceID, targetID string, data any) (edge *Edge, missing string) {
	if _, ok := s.Nodes[sourceID]; !ok {
		return nil, sourceID
	}
	if _, ok := s.Nodes[targetID]; !ok {
		return nil, targetID
	}
	e := &Edge{
		ID:           NewID(),
		Type:         edgeType,
		SourceNodeID: sourceID,
		TargetNodeID: targetID,
		Data:         data,
		CreatedAtMs:  utils.NowMillis(),
	}
	s.Edges[e.ID] = e
	return e, ""
}

// GetEdge looks up an edge by id.
func (s *State) GetEdge(id string) (*Edge, bool) {
	e, ok := s.Edges[id]
	return e, ok
}

// UpdateEdgeData replaces an edge's data document. Passing nil clears it.
func (s *State) UpdateEdgeData(id string, data any) (*Edge, bool) {
	e, ok := s.Edges[id]
	if !ok {
		return nil, false
	}
	e.Data = data
	return e, true
}

// RemoveEdge deletes an edge by id, returning the removed edge.
func (s *State) RemoveEdge(id string) (*Edge, bool) {
	e, ok := s.Edges[id]
	if !ok {
		return nil, false
	}
	delete(s.Edges, id)
	return e, true
}

// ListNodes returns every node sorted by id.
func (s *State) ListNodes() []*Node {
	out := make([]*Node, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		out = append(out, n)
	}
	sortNodesByID(out)
	return out
}

// FindNodesByType returns all nodes with the exact type, sorted by id.
func (s *State) FindNodesByType(nodeType string) []*Node {
	out := make([]*Node, 0)
	for _, n := range s.Nodes {
		if n.Type == nodeType {
			out = append(out, n)
		}
	}
	sortNodesByID(out)
	return out
}

// Neighbors returns the distinct nodes adjacent to the given node, optionally
// restricted to one edge type and one direction. The result is deduplicated
// by node id and sorted by id. An unknown node id yields an empty slice.
func (s *State) Neighbors(id, edgeType string, direction Direction) []*Node {
	if direction == "" {
		direction = DirectionBoth
	}
	seen := make(map[string]bool)
	out := make([]*Node, 0)
	collect := func(neighborID string) {
		if seen[neighborID] {
			return
		}
		if n, ok := s.Nodes[neighborID]; ok {
			seen[neighborID] = true
			out = append(out, n)
		}
	}
	for _, e := range s.Edges {
		if edgeType != "" && e.Type != edgeType {
			continue
		}
		if (direction == DirectionOutgoing || direction == DirectionBoth) && e.SourceNodeID == id {
			collect(e.TargetNodeID)
		}
		if (direction == DirectionIncoming || direction == DirectionBoth) && e.TargetNodeID == id {
			collect(e.SourceNodeID)
		}
	}
	sortNodesByID(out)
	return out
}

func sortNodesByID(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
}
