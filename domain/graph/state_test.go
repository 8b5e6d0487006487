package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_AddNode_GeneratesID(t *testing.T) {
	st := NewState()

	n, created := st.AddNode("", "note", map[string]any{"text": "hello"})

	assert.True(t, created)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "note", n.Type)
	assert.Equal(t, n.CreatedAtMs, n.UpdatedAtMs)
}

func TestState_AddNode_ExistingIDUnchanged(t *testing.T) {
	st := NewState()
	original, created := st.AddNode("alice", "person", map[string]any{"age": 30})
	require.True(t, created)

	n, created := st.AddNode("alice", "robot", map[string]any{"age": 99})

	assert.False(t, created)
	assert.Same(t, original, n)
	assert.Equal(t, "person", n.Type)
}

func TestState_UpdateNode_PartialUpdate(t *testing.T) {
	st := NewState()
	n, _ := st.AddNode("alice", "person", map[string]any{"age": 30})
	before := n.UpdatedAtMs

	newType := "contact"
	updated, ok := st.UpdateNode("alice", &newType, nil)

	require.True(t, ok)
	assert.Equal(t, "contact", updated.Type)
	assert.Equal(t, map[string]any{"age": 30}, updated.Data)
	assert.GreaterOrEqual(t, updated.UpdatedAtMs, before)
}

func TestState_UpdateNode_NoChangeKeepsTimestamp(t *testing.T) {
	st := NewState()
	n, _ := st.AddNode("alice", "person", nil)
	n.UpdatedAtMs = 12345

	sameType := "person"
	updated, ok := st.UpdateNode("alice", &sameType, nil)

	require.True(t, ok)
	assert.Equal(t, int64(12345), updated.UpdatedAtMs)
}

func TestState_UpdateNode_NotFound(t *testing.T) {
	st := NewState()

	_, ok := st.UpdateNode("ghost", nil, nil)

	assert.False(t, ok)
}

func TestState_DeleteNodeCascade_RemovesTouchingEdges(t *testing.T) {
	st := NewState()
	st.AddNode("a", "t", nil)
	st.AddNode("b", "t", nil)
	st.AddNode("c", "t", nil)
	_, missing := st.AddEdge("knows", "a", "b", nil)
	require.Empty(t, missing)
	_, missing = st.AddEdge("knows", "c", "a", nil)
	require.Empty(t, missing)
	survivor, missing := st.AddEdge("knows", "b", "c", nil)
	require.Empty(t, missing)

	_, ok := st.DeleteNodeCascade("a")

	require.True(t, ok)
	assert.Len(t, st.Edges, 1)
	_, stillThere := st.GetEdge(survivor.ID)
	assert.True(t, stillThere)
}

func TestState_AddEdge_MissingEndpoint(t *testing.T) {
	st := NewState()
	st.AddNode("a", "t", nil)

	edge, missing := st.AddEdge("knows", "a", "b", nil)

	assert.Nil(t, edge)
	assert.Equal(t, "b", missing)
	assert.Empty(t, st.Edges)
}

func TestState_Neighbors_Directions(t *testing.T) {
	st := NewState()
	st.AddNode("hub", "t", nil)
	st.AddNode("out1", "t", nil)
	st.AddNode("in1", "t", nil)
	st.AddEdge("knows", "hub", "out1", nil)
	st.AddEdge("knows", "in1", "hub", nil)

	outgoing := st.Neighbors("hub", "", DirectionOutgoing)
	incoming := st.Neighbors("hub", "", DirectionIncoming)
	both := st.Neighbors("hub", "", DirectionBoth)

	require.Len(t, outgoing, 1)
	assert.Equal(t, "out1", outgoing[0].ID)
	require.Len(t, incoming, 1)
	assert.Equal(t, "in1", incoming[0].ID)
	assert.Len(t, both, 2)
}

func TestState_Neighbors_EdgeTypeFilterAndDedupe(t *testing.T) {
	st := NewState()
	st.AddNode("hub", "t", nil)
	st.AddNode("peer", "t", nil)
	st.AddEdge("knows", "hub", "peer", nil)
	st.AddEdge("likes", "hub", "peer", nil)
	st.AddEdge("knows", "peer", "hub", nil)

	all := st.Neighbors("hub", "", DirectionBoth)
	knows := st.Neighbors("hub", "knows", DirectionOutgoing)
	likes := st.Neighbors("hub", "likes", DirectionIncoming)

	// peer reachable through three edges, reported once
	assert.Len(t, all, 1)
	assert.Len(t, knows, 1)
	assert.Empty(t, likes)
}

func TestState_Neighbors_UnknownNode(t *testing.T) {
	st := NewState()

	assert.Empty(t, st.Neighbors("ghost", "", DirectionBoth))
}

func TestState_Neighbors_EmptyDirectionMeansBoth(t *testing.T) {
	st := NewState()
	st.AddNode("hub", "t", nil)
	st.AddNode("in1", "t", nil)
	st.AddEdge("knows", "in1", "hub", nil)

	neighbors := st.Neighbors("hub", "", "")

	require.Len(t, neighbors, 1)
	assert.Equal(t, "in1", neighbors[0].ID)
}

func TestState_FindNodesByType(t *testing.T) {
	st := NewState()
	st.AddNode("b", "person", nil)
	st.AddNode("a", "person", nil)
	st.AddNode("c", "place", nil)

	people := st.FindNodesByType("person")

	require.Len(t, people, 2)
	assert.Equal(t, "a", people[0].ID)
	assert.Equal(t, "b", people[1].ID)
}

func TestState_UpdateEdgeData_NilClears(t *testing.T) {
	st := NewState()
	st.AddNode("a", "t", nil)
	st.AddNode("b", "t", nil)
	e, _ := st.AddEdge("knows", "a", "b", map[string]any{"since": "2020"})

	updated, ok := st.UpdateEdgeData(e.ID, nil)

	require.True(t, ok)
	assert.Nil(t, updated.Data)
}

func TestDecodeState_RepairsNullMaps(t *testing.T) {
	st, err := DecodeState([]byte(`{"nodes":null,"edges":null,"metadata":null}`))

	require.NoError(t, err)
	assert.NotNil(t, st.Nodes)
	assert.NotNil(t, st.Edges)
	assert.NotNil(t, st.Metadata)
}

func TestEncodeState_Roundtrip(t *testing.T) {
	st := NewState()
	st.AddNode("alice", "person", map[string]any{"observations": []any{"likes go"}})
	st.AddNode("bob", "person", nil)
	st.AddEdge("knows", "alice", "bob", nil)

	blob, err := EncodeState(st)
	require.NoError(t, err)

	decoded, err := DecodeState(blob)
	require.NoError(t, err)
	assert.Len(t, decoded.Nodes, 2)
	assert.Len(t, decoded.Edges, 1)
	assert.Equal(t, []string{"likes go"}, decoded.Nodes["alice"].Observations())
}

func TestValidDirection(t *testing.T) {
	assert.True(t, ValidDirection(DirectionOutgoing))
	assert.True(t, ValidDirection(DirectionIncoming))
	assert.True(t, ValidDirection(DirectionBoth))
	assert.False(t, ValidDirection("sideways"))
	assert.False(t, ValidDirection(""))
}
