package mcp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"graphmem/application/services"
	"graphmem/domain/graph"
	"graphmem/infrastructure/persistence/memory"
	"graphmem/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler() *Handler {
	svc := services.NewGraphService(memory.NewStateStore(), zap.NewNop())
	return NewHandler(svc, zap.NewNop())
}

func callTool(t *testing.T, h *Handler, identity, name string, args any) *httptest.ResponseRecorder {
	t.Helper()
	body := map[string]any{"name": name}
	if args != nil {
		body["arguments"] = args
	}
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/mcp/call", &buf)
	if identity != "" {
		req = req.WithContext(auth.SetIdentityInContext(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	h.CallTool(rec, req)
	return rec
}

func toolText(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp CallToolResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Content, 1)
	assert.Equal(t, "text", resp.Content[0].Type)
	return resp.Content[0].Text
}

func TestHandler_ListTools(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	rec := httptest.NewRecorder()

	h.ListTools(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListToolsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tools, 9)

	names := make([]string, 0, len(resp.Tools))
	for _, tool := range resp.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.True(t, json.Valid(tool.InputSchema))
	}
	assert.Equal(t, []string{
		"create_entities", "create_relations", "add_observations",
		"delete_entities", "delete_observations", "delete_relations",
		"read_graph", "search_nodes", "open_nodes",
	}, names)
}

func TestHandler_CallTool_CreateEntities(t *testing.T) {
	h := newTestHandler()

	rec := callTool(t, h, "user1", "create_entities", map[string]any{
		"entities": []map[string]any{
			{"name": "alice", "entityType": "person", "observations": []string{"likes go"}},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	text := toolText(t, rec)
	assert.Contains(t, text, `"alice"`)
	assert.Contains(t, text, `"likes go"`)
}

func TestHandler_CallTool_ReadGraph(t *testing.T) {
	h := newTestHandler()
	callTool(t, h, "user1", "create_entities", map[string]any{
		"entities": []map[string]any{
			{"name": "alice", "entityType": "person", "observations": []string{}},
		},
	})

	rec := callTool(t, h, "user1", "read_graph", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	text := toolText(t, rec)
	var data graph.GraphData
	require.NoError(t, json.Unmarshal([]byte(text), &data))
	require.Len(t, data.Entities, 1)
	assert.Equal(t, "alice", data.Entities[0].Name)
}

func TestHandler_CallTool_DeleteToolsFixedMessages(t *testing.T) {
	h := newTestHandler()
	callTool(t, h, "user1", "create_entities", map[string]any{
		"entities": []map[string]any{
			{"name": "alice", "entityType": "person", "observations": []string{"obs1"}},
			{"name": "bob", "entityType": "person", "observations": []string{}},
		},
	})
	callTool(t, h, "user1", "create_relations", map[string]any{
		"relations": []map[string]any{
			{"from": "alice", "to": "bob", "relationType": "knows"},
		},
	})

	rec := callTool(t, h, "user1", "delete_observations", map[string]any{
		"deletions": []map[string]any{
			{"entityName": "alice", "observations": []string{"obs1"}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Observations deleted successfully", toolText(t, rec))

	rec = callTool(t, h, "user1", "delete_relations", map[string]any{
		"relations": []map[string]any{
			{"from": "alice", "to": "bob", "relationType": "knows"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Relations deleted successfully", toolText(t, rec))

	rec = callTool(t, h, "user1", "delete_entities", map[string]any{
		"entityNames": []string{"alice", "bob"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Entities deleted successfully", toolText(t, rec))
}

func TestHandler_CallTool_SearchNodes(t *testing.T) {
	h := newTestHandler()
	callTool(t, h, "user1", "create_entities", map[string]any{
		"entities": []map[string]any{
			{"name": "alice", "entityType": "person", "observations": []string{"studies physics"}},
			{"name": "bob", "entityType": "person", "observations": []string{"paints"}},
		},
	})

	rec := callTool(t, h, "user1", "search_nodes", map[string]any{"query": "physics"})

	require.Equal(t, http.StatusOK, rec.Code)
	var data graph.GraphData
	require.NoError(t, json.Unmarshal([]byte(toolText(t, rec)), &data))
	require.Len(t, data.Entities, 1)
	assert.Equal(t, "alice", data.Entities[0].Name)
}

func TestHandler_CallTool_ToolExecutionError(t *testing.T) {
	h := newTestHandler()

	rec := callTool(t, h, "user1", "create_relations", map[string]any{
		"relations": []map[string]any{
			{"from": "ghost", "to": "nobody", "relationType": "knows"},
		},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ToolErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ToolExecutionError", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "create_relations")
	assert.Contains(t, resp.Error.Message, "Source node with name ghost not found for relation")
}

func TestHandler_CallTool_UnknownTool(t *testing.T) {
	h := newTestHandler()

	rec := callTool(t, h, "user1", "explode", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ToolErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ToolExecutionError", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "unknown tool: explode")
}

func TestHandler_CallTool_ParseError(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewBufferString("{not json"))
	req = req.WithContext(auth.SetIdentityInContext(req.Context(), "user1"))
	rec := httptest.NewRecorder()

	h.CallTool(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ToolErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ParseError", resp.Error.Code)
}

func TestHandler_CallTool_MissingIdentity(t *testing.T) {
	h := newTestHandler()

	rec := callTool(t, h, "", "read_graph", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
