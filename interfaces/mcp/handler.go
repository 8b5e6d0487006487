package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"graphmem/application/services"
	"graphmem/domain/graph"
	"graphmem/pkg/auth"

	"go.uber.org/zap"
)

// Handler adapts the tool-call protocol onto the graph service. Tool results
// are pretty-printed JSON wrapped in text content blocks; the delete tools
// return fixed success strings instead of their accounting payloads.
type Handler struct {
	service *services.GraphService
	logger  *zap.Logger
}

// NewHandler creates a tool-call handler.
func NewHandler(service *services.GraphService, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListTools handles GET /mcp/tools
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListToolsResponse{Tools: toolDefinitions()})
}

// CallTool handles POST /mcp/call
func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	var req CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeToolError(w, "ParseError", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ToolErrorResponse{
			Error: ToolError{Code: "Unauthorized", Message: "Missing graph identity"},
		})
		return
	}

	resp, err := h.dispatch(r, identity, req)
	if err != nil {
		h.logger.Warn("tool call failed",
			zap.String("tool", req.Name),
			zap.Error(err),
		)
		writeToolError(w, "ToolExecutionError", fmt.Sprintf("Error executing tool '%s': %v", req.Name, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) dispatch(r *http.Request, identity string, req CallToolRequest) (CallToolResponse, error) {
	ctx := r.Context()
	args := req.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	switch req.Name {
	case "create_entities":
		var payload struct {
			Entities []graph.EntityInput `json:"entities"`
		}
		if err := json.Unmarshal(args, &payload); err != nil {
			return CallToolResponse{}, err
		}
		created, err := h.service.CreateEntities(ctx, identity, payload.Entities)
		if err != nil {
			return CallToolResponse{}, err
		}
		return jsonContent(created)

	case "create_relations":
		var payload struct {
			Relations []graph.RelationInput `json:"relations"`
		}
		if err := json.Unmarshal(args, &payload); err != nil {
			return CallToolResponse{}, err
		}
		created, err := h.service.CreateRelations(ctx, identity, payload.Relations)
		if err != nil {
			return CallToolResponse{}, err
		}
		return jsonContent(created)

	case "add_observations":
		var payload struct {
			Observations []graph.ObservationAdd `json:"observations"`
		}
		if err := json.Unmarshal(args, &payload); err != nil {
			return CallToolResponse{}, err
		}
		results, err := h.service.AddObservations(ctx, identity, payload.Observations)
		if err != nil {
			return CallToolResponse{}, err
		}
		return jsonContent(results)

	case "delete_entities":
		var payload struct {
			EntityNames []string `json:"entityNames"`
		}
		if err := json.Unmarshal(args, &payload); err != nil {
			return CallToolResponse{}, err
		}
		if _, err := h.service.DeleteEntities(ctx, identity, payload.EntityNames); err != nil {
			return CallToolResponse{}, err
		}
		return textContent("Entities deleted successfully"), nil

	case "delete_observations":
		var payload struct {
			Deletions []graph.ObservationDelete `json:"deletions"`
		}
		if err := json.Unmarshal(args, &payload); err != nil {
			return CallToolResponse{}, err
		}
		if _, err := h.service.DeleteObservations(ctx, identity, payload.Deletions); err != nil {
			return CallToolResponse{}, err
		}
		return textContent("Observations deleted successfully"), nil

	case "delete_relations":
		var payload struct {
			Relations []graph.RelationKey `json:"relations"`
		}
		if err := json.Unmarshal(args, &payload); err != nil {
			return CallToolResponse{}, err
		}
		if _, err := h.service.DeleteRelations(ctx, identity, payload.Relations); err != nil {
			return CallToolResponse{}, err
		}
		return textContent("Relations deleted successfully"), nil

	case "read_graph":
		data, err := h.service.ReadGraph(ctx, identity)
		if err != nil {
			return CallToolResponse{}, err
		}
		return jsonContent(data)

	case "search_nodes":
		var payload struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(args, &payload); err != nil {
			return CallToolResponse{}, err
		}
		data, err := h.service.Search(ctx, identity, payload.Query)
		if err != nil {
			return CallToolResponse{}, err
		}
		return jsonContent(data)

	case "open_nodes":
		var payload struct {
			Names []string `json:"names"`
		}
		if err := json.Unmarshal(args, &payload); err != nil {
			return CallToolResponse{}, err
		}
		data, err := h.service.Open(ctx, identity, payload.Names)
		if err != nil {
			return CallToolResponse{}, err
		}
		return jsonContent(data)

	default:
		return CallToolResponse{}, fmt.Errorf("unknown tool: %s", req.Name)
	}
}

// jsonContent pretty-prints a result into a single text block.
func jsonContent(v interface{}) (CallToolResponse, error) {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return CallToolResponse{}, fmt.Errorf("failed to serialize tool result: %w", err)
	}
	return textContent(string(text)), nil
}

func textContent(text string) CallToolResponse {
	return CallToolResponse{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeToolError(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusBadRequest, ToolErrorResponse{
		Error: ToolError{Code: code, Message: message},
	})
}
