package graph

import (
	"fmt"
	"sort"

	"graphmem/pkg/utils"
)

// EntityInput describes one entity in a create batch. The name doubles as the
// node id.
type EntityInput struct {
	Name         string   `json:"name"`
	EntityType   string   `json:"entityType"`
	Observations []string `json:"observations"`
	Data         any      `json:"data,omitempty"`
}

// RelationInput describes one relation in a create batch. From and To are
// entity names.
type RelationInput struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relationType"`
	Data         any    `json:"data,omitempty"`
}

// ObservationAdd names an entity and the observation strings to append to it.
type ObservationAdd struct {
	EntityName string   `json:"entityName"`
	Contents   []string `json:"contents"`
}

// ObservationDelete names an entity and the observation strings to remove.
type ObservationDelete struct {
	EntityName   string   `json:"entityName"`
	Observations []string `json:"observations"`
}

// RelationKey identifies relations by their (from, to, type) triple.
type RelationKey struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relationType"`
}

// ItemResult is the per-item accounting entry for batch operations that never
// abort their siblings.
type ItemResult struct {
	EntityName string `json:"entityName"`
	OK         bool   `json:"ok"`
	Message    string `json:"message"`
}

// MissingEndpointError reports the precondition failure that aborts a whole
// relation batch.
type MissingEndpointError struct {
	Role string // "source" or "target"
	Name string
}

func (e *MissingEndpointError) Error() string {
	return fmt.Sprintf("%s node with name %s not found for relation", e.Role, e.Name)
}

// CreateEntities inserts one node per input, keyed by entity name. Names that
// already exist are skipped and excluded from the result; existing nodes are
// never touched. Non-object data is replaced with a fresh object so the
// observations list can be stored.
func (s *State) CreateEntities(entities []EntityInput) []*Node {
	created := make([]*Node, 0, len(entities))
	now := utils.NowMillis()

	for _, in := range entities {
		if _, exists := s.Nodes[in.Name]; exists {
			continue
		}
		n := &Node{
			ID:          in.Name,
			Type:        in.EntityType,
			Data:        in.Data,
			CreatedAtMs: now,
			UpdatedAtMs: now,
		}
		n.setObservations(in.Observations)
		s.Nodes[in.Name] = n
		created = append(created, n)
	}
	return created
}

// CreateRelations inserts one edge per input. If any input names a missing
// endpoint the whole batch fails and the state is left unchanged. Inputs whose
// exact (from, to, type) triple already exists are skipped silently, including
// duplicates within the batch itself.
func (s *State) CreateRelations(relations []RelationInput) ([]*Edge, error) {
	for _, rel := range relations {
		if _, ok := s.Nodes[rel.From]; !ok {
			return nil, &MissingEndpointError{Role: "Source", Name: rel.From}
		}
		if _, ok := s.Nodes[rel.To]; !ok {
			return nil, &MissingEndpointError{Role: "Target", Name: rel.To}
		}
	}

	created := make([]*Edge, 0, len(relations))
	now := utils.NowMillis()
	for _, rel := range relations {
		if s.relationExists(rel.From, rel.To, rel.RelationType) {
			continue
		}
		e := &Edge{
			ID:           NewID(),
			Type:         rel.RelationType,
			SourceNodeID: rel.From,
			TargetNodeID: rel.To,
			Data:         rel.Data,
			CreatedAtMs:  now,
		}
		s.Edges[e.ID] = e
		created = append(created, e)
	}
	return created, nil
}

func (s *State) relationExists(from, to, relationType string) bool {
	for _, e := range s.Edges {
		if e.SourceNodeID == from && e.TargetNodeID == to && e.Type == relationType {
			return true
		}
	}
	return false
}

// AddObservations appends observation strings per entity with per-item
// accounting. An entity's timestamp is bumped only when at least one string
// was actually new. mutated reports whether any entity changed.
func (s *State) AddObservations(items []ObservationAdd) (results []ItemResult, mutated bool) {
	results = make([]ItemResult, 0, len(items))
	now := utils.NowMillis()

	for _, item := range items {
		n, ok := s.Nodes[item.EntityName]
		if !ok {
			results = append(results, ItemResult{
				EntityName: item.EntityName,
				OK:         false,
				Message:    fmt.Sprintf("Entity with name %s not found", item.EntityName),
			})
			continue
		}
		added := n.addObservations(item.Contents)
		if added > 0 {
			n.UpdatedAtMs = now
			mutated = true
			results = append(results, ItemResult{
				EntityName: item.EntityName,
				OK:         true,
				Message:    fmt.Sprintf("Added %d new observation(s) to entity %s", added, item.EntityName),
			})
		} else {
			results = append(results, ItemResult{
				EntityName: item.EntityName,
				OK:         true,
				Message:    fmt.Sprintf("No new observations added to entity %s (all existed or empty input)", item.EntityName),
			})
		}
	}
	return results, mutated
}

// DeleteEntities removes the named nodes with cascade, silently skipping
// unknown names. It returns the ids that were actually deleted, in input
// order.
func (s *State) DeleteEntities(entityNames []string) []string {
	deleted := make([]string, 0, len(entityNames))
	for _, name := range entityNames {
		if _, ok := s.DeleteNodeCascade(name); ok {
			deleted = append(deleted, name)
		}
	}
	return deleted
}

// DeleteObservations removes exactly-matching observation strings per entity
// with per-item accounting. Missing entities and non-object data fail the
// item; an absent observations list is a success with nothing deleted.
// mutated reports whether any entity changed.
func (s *State) DeleteObservations(items []ObservationDelete) (results []ItemResult, mutated bool) {
	results = make([]ItemResult, 0, len(items))
	now := utils.NowMillis()

	for _, item := range items {
		n, ok := s.Nodes[item.EntityName]
		if !ok {
			results = append(results, ItemResult{
				EntityName: item.EntityName,
				OK:         false,
				Message:    fmt.Sprintf("Entity with name %s not found", item.EntityName),
			})
			continue
		}
		if n.dataObject() == nil {
			results = append(results, ItemResult{
				EntityName: item.EntityName,
				OK:         false,
				Message:    fmt.Sprintf("Entity %s data is not an object, cannot delete observations.", item.EntityName),
			})
			continue
		}
		changed, hadList := n.removeObservations(item.Observations)
		switch {
		case !hadList:
			results = append(results, ItemResult{
				EntityName: item.EntityName,
				OK:         true,
				Message:    fmt.Sprintf("No observations found or field is not an array for entity %s, nothing deleted.", item.EntityName),
			})
		case changed:
			n.UpdatedAtMs = now
			mutated = true
			results = append(results, ItemResult{
				EntityName: item.EntityName,
				OK:         true,
				Message:    fmt.Sprintf("Observations processed for entity %s", item.EntityName),
			})
		default:
			results = append(results, ItemResult{
				EntityName: item.EntityName,
				OK:         true,
				Message:    fmt.Sprintf("No matching observations deleted for entity %s", item.EntityName),
			})
		}
	}
	return results, mutated
}

// DeleteRelations removes every edge matching any of the given triples. An
// edge matched by several criteria is counted once. Returns the removed edge
// ids sorted for determinism.
func (s *State) DeleteRelations(relations []RelationKey) []string {
	toRemove := make(map[string]bool)
	for _, key := range relations {
		for id, e := range s.Edges {
			if e.SourceNodeID == key.From && e.TargetNodeID == key.To && e.Type == key.RelationType {
				toRemove[id] = true
			}
		}
	}
	deleted := make([]string, 0, len(toRemove))
	for id := range toRemove {
		delete(s.Edges, id)
		deleted = append(deleted, id)
	}
	sort.Strings(deleted)
	return deleted
}
