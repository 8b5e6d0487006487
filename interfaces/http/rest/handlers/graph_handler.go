package handlers

import (
	"encoding/json"
	"net/http"

	"graphmem/application/services"
	"graphmem/domain/graph"
	"graphmem/pkg/auth"

	"go.uber.org/zap"
)

// GraphHandler handles the batch mutation and query endpoints under /graph
type GraphHandler struct {
	service *services.GraphService
	logger  *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(service *services.GraphService, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		service: service,
		logger:  logger,
	}
}

// Batch payload shapes. Field names are part of the wire contract.

type CreateEntitiesRequest struct {
	Entities []graph.EntityInput `json:"entities"`
}

type CreateRelationsRequest struct {
	Relations []graph.RelationInput `json:"relations"`
}

type AddObservationsRequest struct {
	Observations []graph.ObservationAdd `json:"observations"`
}

type DeleteEntitiesRequest struct {
	EntityNames []string `json:"entityNames"`
}

type DeleteObservationsRequest struct {
	Deletions []graph.ObservationDelete `json:"deletions"`
}

type DeleteRelationsRequest struct {
	Relations []graph.RelationKey `json:"relations"`
}

type SearchNodesRequest struct {
	Query string `json:"query"`
}

type OpenNodesRequest struct {
	Names []string `json:"names"`
}

// decode reads a JSON body, reporting a 400 on malformed input.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func identityOrFail(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return identity, true
}

// CreateEntities handles POST /graph/entities
func (h *GraphHandler) CreateEntities(w http.ResponseWriter, r *http.Request) {
	var req CreateEntitiesRequest
	if !decode(w, r, &req) {
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	created, err := h.service.CreateEntities(r.Context(), identity, req.Entities)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create entities")
		return
	}
	respondJSON(w, http.StatusOK, created)
}

// CreateRelations handles POST /graph/relations
func (h *GraphHandler) CreateRelations(w http.ResponseWriter, r *http.Request) {
	var req CreateRelationsRequest
	if !decode(w, r, &req) {
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	created, err := h.service.CreateRelations(r.Context(), identity, req.Relations)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create relations")
		return
	}
	respondJSON(w, http.StatusOK, created)
}

// AddObservations handles POST /graph/observations/add
func (h *GraphHandler) AddObservations(w http.ResponseWriter, r *http.Request) {
	var req AddObservationsRequest
	if !decode(w, r, &req) {
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	results, err := h.service.AddObservations(r.Context(), identity, req.Observations)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to add observations")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// DeleteEntities handles POST /graph/entities/delete
func (h *GraphHandler) DeleteEntities(w http.ResponseWriter, r *http.Request) {
	var req DeleteEntitiesRequest
	if !decode(w, r, &req) {
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteEntities(r.Context(), identity, req.EntityNames)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete entities")
		return
	}
	respondJSON(w, http.StatusOK, deleted)
}

// DeleteObservations handles POST /graph/observations/delete
func (h *GraphHandler) DeleteObservations(w http.ResponseWriter, r *http.Request) {
	var req DeleteObservationsRequest
	if !decode(w, r, &req) {
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	results, err := h.service.DeleteObservations(r.Context(), identity, req.Deletions)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete observations")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// DeleteRelations handles POST /graph/relations/delete
func (h *GraphHandler) DeleteRelations(w http.ResponseWriter, r *http.Request) {
	var req DeleteRelationsRequest
	if !decode(w, r, &req) {
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteRelations(r.Context(), identity, req.Relations)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete relations")
		return
	}
	respondJSON(w, http.StatusOK, deleted)
}

// SearchNodes handles POST /graph/search
func (h *GraphHandler) SearchNodes(w http.ResponseWriter, r *http.Request) {
	var req SearchNodesRequest
	if !decode(w, r, &req) {
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	data, err := h.service.Search(r.Context(), identity, req.Query)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to search nodes")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// OpenNodes handles POST /graph/open
func (h *GraphHandler) OpenNodes(w http.ResponseWriter, r *http.Request) {
	var req OpenNodesRequest
	if !decode(w, r, &req) {
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	data, err := h.service.Open(r.Context(), identity, req.Names)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to open nodes")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// GetGraphState handles GET /graph/state
func (h *GraphHandler) GetGraphState(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	data, err := h.service.ReadGraph(r.Context(), identity)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to read graph")
		return
	}
	respondJSON(w, http.StatusOK, data)
}
