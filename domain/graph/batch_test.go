package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_CreateEntities_SkipsExistingNames(t *testing.T) {
	st := NewState()
	existing, _ := st.AddNode("alice", "person", map[string]any{"age": 30})
	existing.UpdatedAtMs = 777

	created := st.CreateEntities([]EntityInput{
		{Name: "alice", EntityType: "robot", Observations: []string{"beep"}},
		{Name: "bob", EntityType: "person", Observations: []string{"likes tea"}},
	})

	require.Len(t, created, 1)
	assert.Equal(t, "bob", created[0].ID)
	// existing node untouched, timestamp included
	assert.Equal(t, "person", st.Nodes["alice"].Type)
	assert.Equal(t, int64(777), st.Nodes["alice"].UpdatedAtMs)
	assert.Empty(t, st.Nodes["alice"].Observations())
}

func TestState_CreateEntities_CoercesNonObjectData(t *testing.T) {
	st := NewState()

	created := st.CreateEntities([]EntityInput{
		{Name: "alice", EntityType: "person", Observations: []string{"obs1"}, Data: "not an object"},
	})

	require.Len(t, created, 1)
	assert.Equal(t, []string{"obs1"}, created[0].Observations())
}

func TestState_CreateRelations_MissingSourceFailsBatch(t *testing.T) {
	st := NewState()
	st.AddNode("bob", "person", nil)

	edges, err := st.CreateRelations([]RelationInput{
		{From: "ghost", To: "bob", RelationType: "knows"},
	})

	require.Error(t, err)
	assert.Equal(t, "Source node with name ghost not found for relation", err.Error())
	assert.Nil(t, edges)
	assert.Empty(t, st.Edges)
}

func TestState_CreateRelations_MissingTargetFailsBatch(t *testing.T) {
	st := NewState()
	st.AddNode("alice", "person", nil)
	st.AddNode("bob", "person", nil)

	_, err := st.CreateRelations([]RelationInput{
		{From: "alice", To: "bob", RelationType: "knows"},
		{From: "alice", To: "ghost", RelationType: "knows"},
	})

	require.Error(t, err)
	assert.Equal(t, "Target node with name ghost not found for relation", err.Error())
	// first relation must not have been inserted
	assert.Empty(t, st.Edges)
}

func TestState_CreateRelations_SuppressesDuplicates(t *testing.T) {
	st := NewState()
	st.AddNode("alice", "person", nil)
	st.AddNode("bob", "person", nil)
	_, err := st.CreateRelations([]RelationInput{
		{From: "alice", To: "bob", RelationType: "knows"},
	})
	require.NoError(t, err)

	created, err := st.CreateRelations([]RelationInput{
		{From: "alice", To: "bob", RelationType: "knows"},
		{From: "bob", To: "alice", RelationType: "knows"},
		{From: "bob", To: "alice", RelationType: "knows"},
	})

	require.NoError(t, err)
	// reverse direction is a distinct triple; in-batch duplicate suppressed
	require.Len(t, created, 1)
	assert.Equal(t, "bob", created[0].SourceNodeID)
	assert.Len(t, st.Edges, 2)
}

func TestState_AddObservations_DedupeAndAccounting(t *testing.T) {
	st := NewState()
	st.CreateEntities([]EntityInput{
		{Name: "alice", EntityType: "person", Observations: []string{"obs1"}},
	})

	results, mutated := st.AddObservations([]ObservationAdd{
		{EntityName: "alice", Contents: []string{"obs1", "obs2", "obs2"}},
		{EntityName: "ghost", Contents: []string{"x"}},
	})

	assert.True(t, mutated)
	require.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.Equal(t, "Added 1 new observation(s) to entity alice", results[0].Message)
	assert.False(t, results[1].OK)
	assert.Equal(t, "Entity with name ghost not found", results[1].Message)
	assert.Equal(t, []string{"obs1", "obs2"}, st.Nodes["alice"].Observations())
}

func TestState_AddObservations_NothingNew(t *testing.T) {
	st := NewState()
	st.CreateEntities([]EntityInput{
		{Name: "alice", EntityType: "person", Observations: []string{"obs1"}},
	})
	st.Nodes["alice"].UpdatedAtMs = 555

	results, mutated := st.AddObservations([]ObservationAdd{
		{EntityName: "alice", Contents: []string{"obs1"}},
	})

	assert.False(t, mutated)
	require.Len(t, results, 1)
	assert.True(t, results[0].OK)
	assert.Equal(t, "No new observations added to entity alice (all existed or empty input)", results[0].Message)
	assert.Equal(t, int64(555), st.Nodes["alice"].UpdatedAtMs)
}

func TestState_AddObservations_CoercesNonObjectData(t *testing.T) {
	st := NewState()
	st.AddNode("alice", "person", "just a string")

	results, mutated := st.AddObservations([]ObservationAdd{
		{EntityName: "alice", Contents: []string{"obs1"}},
	})

	assert.True(t, mutated)
	require.Len(t, results, 1)
	assert.True(t, results[0].OK)
	assert.Equal(t, []string{"obs1"}, st.Nodes["alice"].Observations())
}

func TestState_DeleteEntities_SilentSkipAndCascade(t *testing.T) {
	st := NewState()
	st.AddNode("alice", "person", nil)
	st.AddNode("bob", "person", nil)
	st.AddEdge("knows", "alice", "bob", nil)

	deleted := st.DeleteEntities([]string{"alice", "ghost"})

	assert.Equal(t, []string{"alice"}, deleted)
	assert.Empty(t, st.Edges)
	assert.Len(t, st.Nodes, 1)
}

func TestState_DeleteObservations_ExactMatch(t *testing.T) {
	st := NewState()
	st.CreateEntities([]EntityInput{
		{Name: "alice", EntityType: "person", Observations: []string{"obs1", "obs2", "obs3"}},
	})

	results, mutated := st.DeleteObservations([]ObservationDelete{
		{EntityName: "alice", Observations: []string{"obs2", "obs"}},
	})

	assert.True(t, mutated)
	require.Len(t, results, 1)
	assert.True(t, results[0].OK)
	assert.Equal(t, "Observations processed for entity alice", results[0].Message)
	// "obs" is not an exact match of anything
	assert.Equal(t, []string{"obs1", "obs3"}, st.Nodes["alice"].Observations())
}

func TestState_DeleteObservations_Accounting(t *testing.T) {
	st := NewState()
	st.CreateEntities([]EntityInput{
		{Name: "haslist", EntityType: "t", Observations: []string{"obs1"}},
	})
	st.AddNode("nolist", "t", map[string]any{"other": 1})
	st.AddNode("notobject", "t", "plain string")
	st.AddNode("nildata", "t", nil)

	results, mutated := st.DeleteObservations([]ObservationDelete{
		{EntityName: "ghost", Observations: []string{"x"}},
		{EntityName: "notobject", Observations: []string{"x"}},
		{EntityName: "nildata", Observations: []string{"x"}},
		{EntityName: "nolist", Observations: []string{"x"}},
		{EntityName: "haslist", Observations: []string{"nomatch"}},
	})

	assert.False(t, mutated)
	require.Len(t, results, 5)

	assert.False(t, results[0].OK)
	assert.Equal(t, "Entity with name ghost not found", results[0].Message)

	assert.False(t, results[1].OK)
	assert.Equal(t, "Entity notobject data is not an object, cannot delete observations.", results[1].Message)

	assert.False(t, results[2].OK)
	assert.Equal(t, "Entity nildata data is not an object, cannot delete observations.", results[2].Message)

	assert.True(t, results[3].OK)
	assert.Equal(t, "No observations found or field is not an array for entity nolist, nothing deleted.", results[3].Message)

	assert.True(t, results[4].OK)
	assert.Equal(t, "No matching observations deleted for entity haslist", results[4].Message)
}

func TestState_DeleteRelations_UnionWithoutDoubleCount(t *testing.T) {
	st := NewState()
	st.AddNode("a", "t", nil)
	st.AddNode("b", "t", nil)
	st.AddNode("c", "t", nil)
	_, err := st.CreateRelations([]RelationInput{
		{From: "a", To: "b", RelationType: "knows"},
		{From: "b", To: "c", RelationType: "knows"},
	})
	require.NoError(t, err)

	deleted := st.DeleteRelations([]RelationKey{
		{From: "a", To: "b", RelationType: "knows"},
		{From: "a", To: "b", RelationType: "knows"},
		{From: "x", To: "y", RelationType: "none"},
	})

	assert.Len(t, deleted, 1)
	assert.Len(t, st.Edges, 1)
}

func TestMissingEndpointError_Message(t *testing.T) {
	err := &MissingEndpointError{Role: "Source", Name: "alice"}
	assert.Equal(t, fmt.Sprintf("Source node with name %s not found for relation", "alice"), err.Error())
}
