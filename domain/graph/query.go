package graph

import (
	"sort"
	"strings"
)

// Entity is the outward projection of a node: the observations list is lifted
// out of the data document and the leftover data is omitted when empty.
type Entity struct {
	Name         string   `json:"name"`
	EntityType   string   `json:"entityType"`
	Observations []string `json:"observations"`
	Data         any      `json:"data,omitempty"`
}

// Relation is the outward projection of an edge, addressed by entity names
// rather than edge ids.
type Relation struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relationType"`
	Data         any    `json:"data,omitempty"`
}

// GraphData bundles projected entities with the relations running between
// them.
type GraphData struct {
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}

// toEntity projects a node. Observations move into their own field; the data
// document is copied with the observations key removed, and dropped entirely
// when nothing else remains.
func toEntity(n *Node) Entity {
	e := Entity{
		Name:         n.ID,
		EntityType:   n.Type,
		Observations: []string{},
	}
	if obs := n.Observations(); obs != nil {
		e.Observations = obs
	}

	switch data := n.Data.(type) {
	case nil:
	case map[string]any:
		rest := make(map[string]any, len(data))
		for k, v := range data {
			if k != observationsKey {
				rest[k] = v
			}
		}
		if len(rest) > 0 {
			e.Data = rest
		}
	default:
		e.Data = n.Data
	}
	return e
}

func toRelation(e *Edge) Relation {
	return Relation{
		From:         e.SourceNodeID,
		To:           e.TargetNodeID,
		RelationType: e.Type,
		Data:         e.Data,
	}
}

// Dump projects the whole graph.
func (s *State) Dump() GraphData {
	matched := make(map[string]bool, len(s.Nodes))
	for id := range s.Nodes {
		matched[id] = true
	}
	return s.project(matched)
}

// Search returns entities whose id, type, or any observation string contains
// the query as a case-insensitive substring, plus the relations whose two
// endpoints both matched.
func (s *State) Search(query string) GraphData {
	q := strings.ToLower(query)
	matched := make(map[string]bool)

	for id, n := range s.Nodes {
		if strings.Contains(strings.ToLower(n.ID), q) ||
			strings.Contains(strings.ToLower(n.Type), q) {
			matched[id] = true
			continue
		}
		for _, obs := range n.Observations() {
			if strings.Contains(strings.ToLower(obs), q) {
				matched[id] = true
				break
			}
		}
	}
	return s.project(matched)
}

// Open returns the named entities (unknown names silently skipped) plus the
// relations whose two endpoints are both in the found set.
func (s *State) Open(names []string) GraphData {
	matched := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := s.Nodes[name]; ok {
			matched[name] = true
		}
	}
	return s.project(matched)
}

// project builds the GraphData for a set of matched node ids. Relations are
// included only when both endpoints are in the set. Output is sorted for
// stable responses.
func (s *State) project(matched map[string]bool) GraphData {
	data := GraphData{
		Entities:  make([]Entity, 0, len(matched)),
		Relations: []Relation{},
	}
	for id := range matched {
		if n, ok := s.Nodes[id]; ok {
			data.Entities = append(data.Entities, toEntity(n))
		}
	}
	for _, e := range s.Edges {
		if matched[e.SourceNodeID] && matched[e.TargetNodeID] {
			data.Relations = append(data.Relations, toRelation(e))
		}
	}

	sort.Slice(data.Entities, func(i, j int) bool {
		return data.Entities[i].Name < data.Entities[j].Name
	})
	sort.Slice(data.Relations, func(i, j int) bool {
		a, b := data.Relations[i], data.Relations[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.RelationType < b.RelationType
	})
	return data
}
