package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pathways/application/ports"
)

// ContentHandler exposes the read-only content catalog
type ContentHandler struct {
	catalog ports.ContentCatalog
	logger  *zap.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(catalog ports.ContentCatalog, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListContent handles GET /content
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	all := h.catalog.All()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"content": all,
		"count":   len(all),
	})
}

// GetContent handles GET /content/{nodeID}
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	desc, ok := h.catalog.Descriptor(nodeID)
	if !ok {
		respondJSON(w, http.StatusNotFound, errorResponse{
			Error: "content " + nodeID + " not found",
			Type:  "NOT_FOUND",
		})
		return
	}

	respondJSON(w, http.StatusOK, desc)
}
