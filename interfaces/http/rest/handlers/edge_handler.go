package handlers

import (
	"encoding/json"
	"net/http"

	"graphmem/application/services"
	"graphmem/pkg/auth"
	"graphmem/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EdgeHandler handles edge-related HTTP requests
type EdgeHandler struct {
	service *services.GraphService
	logger  *zap.Logger
}

// NewEdgeHandler creates a new edge handler
func NewEdgeHandler(service *services.GraphService, logger *zap.Logger) *EdgeHandler {
	return &EdgeHandler{
		service: service,
		logger:  logger,
	}
}

// CreateEdgeRequest represents the request body for creating an edge
type CreateEdgeRequest struct {
	Type         string `json:"type" validate:"required,min=1,max=100"`
	SourceNodeID string `json:"source_node_id" validate:"required"`
	TargetNodeID string `json:"target_node_id" validate:"required"`
	Data         any    `json:"data,omitempty"`
}

// UpdateEdgeRequest represents the request body for replacing an edge's data.
// An absent data field clears the document.
type UpdateEdgeRequest struct {
	Data any `json:"data,omitempty"`
}

// CreateEdge handles POST /edges
func (h *EdgeHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	var req CreateEdgeRequest
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

	edge, err := h.service.CreateEdge(r.Context(), identity, req.Type, req.SourceNodeID, req.TargetNodeID, req.Data)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create edge")
		return
	}

	respondJSON(w, http.StatusCreated, edge)
}

// GetEdge handles GET /edges/{edgeID}
func (h *EdgeHandler) GetEdge(w http.ResponseWriter, r *http.Request) {
	edgeID := chi.URLParam(r, "edgeID")
	if edgeID == "" {
		respondError(w, http.StatusBadRequest, "Edge ID is required")
		return
	}

	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	edge, err := h.service.GetEdge(r.Context(), identity, edgeID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to retrieve edge")
		return
	}

	respondJSON(w, http.StatusOK, edge)
}

// UpdateEdge handles PUT /edges/{edgeID}
func (h *EdgeHandler) UpdateEdge(w http.ResponseWriter, r *http.Request) {
	edgeID := chi.URLParam(r, "edgeID")
	if edgeID == "" {
		respondError(w, http.StatusBadRequest, "Edge ID is required")
		return
	}

	var req UpdateEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	edge, err := h.service.UpdateEdge(r.Context(), identity, edgeID, req.Data)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update edge")
		return
	}

	respondJSON(w, http.StatusOK, edge)
}

// DeleteEdge handles DELETE /edges/{edgeID}
func (h *EdgeHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	edgeID := chi.URLParam(r, "edgeID")
	if edgeID == "" {
		respondError(w, http.StatusBadRequest, "Edge ID is required")
		return
	}

	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteEdge(r.Context(), identity, edgeID); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete edge")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
