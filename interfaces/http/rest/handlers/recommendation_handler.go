package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pathways/application/services"
)

// RecommendationHandler handles recommendation requests
type RecommendationHandler struct {
	recs   *services.RecommendationService
	logger *zap.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recs *services.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recs:   recs,
		logger: logger,
	}
}

// generateRequest is the request body for generating recommendations
type generateRequest struct {
	SourceID  string   `json:"sourceId"`
	Completed []string `json:"completed"`
	TopN      int      `json:"topN"`
}

// Generate handles POST /recommendations
func (h *RecommendationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body: "+err.Error())
		return
	}
	if req.SourceID == "" {
		respondBadRequest(w, "sourceId is required")
		return
	}

	completed := make(map[string]bool, len(req.Completed))
	for _, id := range req.Completed {
		completed[id] = true
	}

	recs, err := h.recs.GenerateRecommendations(r.Context(), services.GenerateInput{
		SourceID:  req.SourceID,
		Completed: completed,
		TopN:      req.TopN,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sourceId":        req.SourceID,
		"recommendations": recs,
		"count":           len(recs),
	})
}

// Accept handles POST /recommendations/accept
func (h *RecommendationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var rec services.Recommendation
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondBadRequest(w, "Invalid request body: "+err.Error())
		return
	}

	link, err := h.recs.AcceptRecommendation(r.Context(), rec)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toLinkResponse(link))
}
