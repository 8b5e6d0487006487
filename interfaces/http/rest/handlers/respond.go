package handlers

import (
	"encoding/json"
	"net/http"

	appErrors "graphmem/pkg/errors"

	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}

// respondServiceError maps a service error to its HTTP status. Typed errors
// carry their own status; anything else is an internal failure hidden behind
// the fallback message.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	if appErr := appErrors.GetAppError(err); appErr != nil {
		respondError(w, appErr.HTTPStatus, appErr.Message)
		return
	}
	logger.Error(fallback, zap.Error(err))
	respondError(w, http.StatusInternalServerError, fallback)
}
