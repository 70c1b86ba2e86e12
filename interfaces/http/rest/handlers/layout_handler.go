package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pathways/application/services"
)

// LayoutHandler handles layout computation requests
type LayoutHandler struct {
	layout *services.LayoutService
	logger *zap.Logger
}

// NewLayoutHandler creates a new layout handler
func NewLayoutHandler(layout *services.LayoutService, logger *zap.Logger) *LayoutHandler {
	return &LayoutHandler{
		layout: layout,
		logger: logger,
	}
}

// Compute handles POST /layout
func (h *LayoutHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var input services.LayoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondBadRequest(w, "Invalid request body: "+err.Error())
		return
	}

	positions, err := h.layout.ComputeLayout(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	type point struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	out := make(map[string]point, len(positions))
	for id, pos := range positions {
		out[id] = point{X: pos.X(), Y: pos.Y()}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"positions": out,
		"count":     len(out),
	})
}
