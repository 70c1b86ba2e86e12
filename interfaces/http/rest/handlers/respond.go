package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	pkgerrors "pathways/pkg/errors"
)

// errorResponse is the wire shape of all error payloads
type errorResponse struct {
	Error   string                 `json:"error"`
	Type    string                 `json:"type,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps engine errors onto HTTP status codes. Unclassified
// errors become opaque 500s so internals never leak to clients.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error("Request failed", zap.Error(err))
			respondJSON(w, appErr.HTTPStatus, errorResponse{
				Error: "internal error",
				Type:  string(appErr.Type),
			})
			return
		}
		respondJSON(w, appErr.HTTPStatus, errorResponse{
			Error:   appErr.Message,
			Type:    string(appErr.Type),
			Details: appErr.Details,
		})
		return
	}

	logger.Error("Request failed", zap.Error(err))
	respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{
		Error: message,
		Type:  string(pkgerrors.ErrorTypeValidation),
	})
}
