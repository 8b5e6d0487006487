package graph

import (
	"github.com/google/uuid"
)

// observationsKey is the conventional field inside a node's data document
// that holds the list of free-text observation strings.
const observationsKey = "observations"

// Node is a graph vertex. The ID is either a client-supplied natural key
// (an entity name) or a generated UUID. Data is an arbitrary JSON document;
// by convention it may carry an "observations" array of strings.
type Node struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Data        any    `json:"data"`
	CreatedAtMs int64  `json:"created_at_ms"`
	UpdatedAtMs int64  `json:"updated_at_ms"`
}

// Edge is a directed, typed link between two existing nodes. Edges are only
// ever addressed by their generated ID. Edges carry no updated_at_ms; only
// their data document is mutable after creation.
type Edge struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	SourceNodeID string `json:"source_node_id"`
	TargetNodeID string `json:"target_node_id"`
	Data         any    `json:"data,omitempty"`
	CreatedAtMs  int64  `json:"created_at_ms"`
}

// NewID returns a fresh unique token for nodes and edges.
func NewID() string {
	return uuid.New().String()
}

// dataObject returns the node's data as a JSON object, or nil if the data is
// absent or not an object.
func (n *Node) dataObject() map[string]any {
	obj, _ := n.Data.(map[string]any)
	return obj
}

// Observations returns the string entries of the node's conventional
// observations list. Non-string entries are skipped.
func (n *Node) Observations() []string {
	obj := n.dataObject()
	if obj == nil {
		return nil
	}
	arr, ok := obj[observationsKey].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// addObservations appends each content string that is not already present,
// preserving insertion order, and returns how many were actually added.
// Non-object data is replaced with a fresh object so observations can be
// stored, matching the entity-creation convention.
func (n *Node) addObservations(contents []string) int {
	obj := n.dataObject()
	if obj == nil {
		obj = make(map[string]any)
		n.Data = obj
	}
	arr, ok := obj[observationsKey].([]any)
	if !ok {
		arr = []any{}
	}

	existing := make(map[string]bool, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			existing[s] = true
		}
	}

	added := 0
	for _, content := range contents {
		if existing[content] {
			continue
		}
		arr = append(arr, content)
		existing[content] = true
		added++
	}
	obj[observationsKey] = arr
	return added
}

// removeObservations filters out exactly-matching observation strings.
// It reports whether the list shrank and whether an observations array was
// present at all. Non-string entries are never removed.
func (n *Node) removeObservations(toDelete []string) (changed, hadList bool) {
	obj := n.dataObject()
	if obj == nil {
		return false, false
	}
	arr, ok := obj[observationsKey].([]any)
	if !ok {
		return false, false
	}

	drop := make(map[string]bool, len(toDelete))
	for _, s := range toDelete {
		drop[s] = true
	}

	kept := make([]any, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok && drop[s] {
			continue
		}
		kept = append(kept, v)
	}
	if len(kept) == len(arr) {
		return false, true
	}
	obj[observationsKey] = kept
	return true, true
}

// setObservations installs the given strings as the node's observations
// array, coercing non-object data to a fresh object first.
func (n *Node) setObservations(observations []string) {
	obj := n.dataObject()
	if obj == nil {
		obj = make(map[string]any)
		n.Data = obj
	}
	arr := make([]any, len(observations))
	for i, s := range observations {
		arr[i] = s
	}
	obj[observationsKey] = arr
}
