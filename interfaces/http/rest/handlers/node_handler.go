package handlers

import (
	"encoding/json"
	"net/http"

	"graphmem/application/services"
	"graphmem/domain/graph"
	"graphmem/pkg/auth"
	"graphmem/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	service *services.GraphService
	logger  *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(service *services.GraphService, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{
		service: service,
		logger:  logger,
	}
}

// CreateNodeRequest represents the request body for creating a node
type CreateNodeRequest struct {
	Type string `json:"type" validate:"required,min=1,max=100"`
	Data any    `json:"data"`
}

// UpdateNodeRequest represents the request body for updating a node.
// Absent fields leave the node untouched.
type UpdateNodeRequest struct {
	Type *string `json:"type,omitempty" validate:"omitempty,min=1,max=100"`
	Data any     `json:"data,omitempty"`
}

// RelatedNodesQuery holds the validated query parameters for a neighborhood
// lookup.
type RelatedNodesQuery struct {
	EdgeType  string `validate:"omitempty,max=100"`
	Direction string `validate:"omitempty,oneof=outgoing incoming both"`
}

// CreateNode handles POST /nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	node, err := h.service.CreateNode(r.Context(), identity, req.Type, req.Data)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create node")
		return
	}

	respondJSON(w, http.StatusCreated, node)
}

// ListNodes handles GET /nodes with an optional exact type filter
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	nodes, err := h.service.ListNodes(r.Context(), identity, r.URL.Query().Get("type"))
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list nodes")
		return
	}

	respondJSON(w, http.StatusOK, nodes)
}

// GetNode handles GET /nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		respondError(w, http.StatusBadRequest, "Node ID is required")
		return
	}

	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	node, err := h.service.GetNode(r.Context(), identity, nodeID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to retrieve node")
		return
	}

	respondJSON(w, http.StatusOK, node)
}

// UpdateNode handles PUT /nodes/{nodeID}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		respondError(w, http.StatusBadRequest, "Node ID is required")
		return
	}

	var req UpdateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	node, err := h.service.UpdateNode(r.Context(), identity, nodeID, req.Type, req.Data)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update node")
		return
	}

	respondJSON(w, http.StatusOK, node)
}

// DeleteNode handles DELETE /nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		respondError(w, http.StatusBadRequest, "Node ID is required")
		return
	}

	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteNode(r.Context(), identity, nodeID); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete node")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RelatedNodes handles GET /nodes/{nodeID}/related
func (h *NodeHandler) RelatedNodes(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		respondError(w, http.StatusBadRequest, "Node ID is required")
		return
	}

	query := RelatedNodesQuery{
		EdgeType:  r.URL.Query().Get("edge_type"),
		Direction: r.URL.Query().Get("direction"),
	}
	if err := utils.ValidateStruct(query); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	nodes, err := h.service.RelatedNodes(r.Context(), identity, nodeID, query.EdgeType, graph.Direction(query.Direction))
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list related nodes")
		return
	}

	respondJSON(w, http.StatusOK, nodes)
}
