package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pathways/application/services"
	"pathways/domain/core/entities"
)

// LinkHandler handles relationship CRUD requests
type LinkHandler struct {
	links  *services.LinkService
	logger *zap.Logger
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(links *services.LinkService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		links:  links,
		logger: logger,
	}
}

// linkResponse is the wire shape of a relationship
type linkResponse struct {
	*entities.Relationship
	Hint entities.RenderHint `json:"hint"`
}

func toLinkResponse(rel *entities.Relationship) linkResponse {
	return linkResponse{Relationship: rel, Hint: rel.Hint()}
}

func toLinkResponses(rels []*entities.Relationship) []linkResponse {
	out := make([]linkResponse, 0, len(rels))
	for _, rel := range rels {
		out = append(out, toLinkResponse(rel))
	}
	return out
}

// CreateLink handles POST /links
func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var input services.CreateLinkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondBadRequest(w, "Invalid request body: "+err.Error())
		return
	}

	rel, err := h.links.CreateLink(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toLinkResponse(rel))
}

// GetLink handles GET /links/{linkID}
func (h *LinkHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")
	if linkID == "" {
		respondBadRequest(w, "Link ID is required")
		return
	}

	rel, err := h.links.GetLink(r.Context(), linkID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toLinkResponse(rel))
}

// UpdateLink handles PUT /links/{linkID}
func (h *LinkHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")
	if linkID == "" {
		respondBadRequest(w, "Link ID is required")
		return
	}

	var input services.UpdateLinkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondBadRequest(w, "Invalid request body: "+err.Error())
		return
	}

	rel, err := h.links.UpdateLink(r.Context(), linkID, input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toLinkResponse(rel))
}

// DeleteLink handles DELETE /links/{linkID}
func (h *LinkHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")
	if linkID == "" {
		respondBadRequest(w, "Link ID is required")
		return
	}

	if err := h.links.DeleteLink(r.Context(), linkID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ListLinks handles GET /links
func (h *LinkHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	rels, err := h.links.AllLinks(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"links": toLinkResponses(rels),
		"count": len(rels),
	})
}

// GetNodeLinks handles GET /nodes/{nodeID}/links
func (h *LinkHandler) GetNodeLinks(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		respondBadRequest(w, "Node ID is required")
		return
	}

	outgoing, err := h.links.GetOutgoingLinks(r.Context(), nodeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	incoming, err := h.links.GetIncomingLinks(r.Context(), nodeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"nodeId":   nodeID,
		"outgoing": toLinkResponses(outgoing),
		"incoming": toLinkResponses(incoming),
	})
}
