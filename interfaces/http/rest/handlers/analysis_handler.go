package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pathways/application/services"
	domainconfig "pathways/domain/config"
)

// AnalysisHandler handles dependency analysis requests
type AnalysisHandler struct {
	deps      *services.DependencyService
	domainCfg *domainconfig.DomainConfig
	logger    *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(deps *services.DependencyService, domainCfg *domainconfig.DomainConfig, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		deps:      deps,
		domainCfg: domainCfg,
		logger:    logger,
	}
}

// completionRequest carries the learner state all analysis endpoints accept
type completionRequest struct {
	Completed []string `json:"completed"`
	CurrentID string   `json:"currentId"`
}

func (r completionRequest) toState() services.CompletionState {
	completed := make(map[string]bool, len(r.Completed))
	for _, id := range r.Completed {
		completed[id] = true
	}
	return services.CompletionState{Completed: completed, CurrentID: r.CurrentID}
}

func decodeCompletion(r *http.Request) (completionRequest, bool) {
	var req completionRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, true
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, false
	}
	return req, true
}

// GetStatus handles POST /nodes/{nodeID}/status
func (h *AnalysisHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	req, ok := decodeCompletion(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	state := req.toState()
	status := h.deps.ComputeStatus(nodeID, state.Completed, state.CurrentID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"nodeId": nodeID,
		"status": status,
	})
}

// GetPrerequisiteTree handles POST /nodes/{nodeID}/prerequisites
func (h *AnalysisHandler) GetPrerequisiteTree(w http.ResponseWriter, r *http.Request) {
	h.serveTree(w, r, h.deps.BuildPrerequisiteTree)
}

// GetDependentTree handles POST /nodes/{nodeID}/dependents
func (h *AnalysisHandler) GetDependentTree(w http.ResponseWriter, r *http.Request) {
	h.serveTree(w, r, h.deps.BuildDependentTree)
}

type treeBuilder func(ctx context.Context, nodeID string, maxDepth int, state services.CompletionState) (*services.ChainNode, error)

func (h *AnalysisHandler) serveTree(w http.ResponseWriter, r *http.Request, build treeBuilder) {
	nodeID := chi.URLParam(r, "nodeID")
	req, ok := decodeCompletion(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	depth := h.domainCfg.DefaultTreeDepth
	if raw := r.URL.Query().Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondBadRequest(w, "depth must be a positive integer")
			return
		}
		depth = parsed
	}
	if depth > h.domainCfg.MaxTreeDepth {
		depth = h.domainCfg.MaxTreeDepth
	}

	tree, err := build(r.Context(), nodeID, depth, req.toState())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if tree == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{
			Error: "node " + nodeID + " not found",
			Type:  "NOT_FOUND",
		})
		return
	}

	respondJSON(w, http.StatusOK, tree)
}

// GetDependencyChain handles POST /nodes/{nodeID}/chain
func (h *AnalysisHandler) GetDependencyChain(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	req, ok := decodeCompletion(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	chain, err := h.deps.AnalyzeDependencyChain(r.Context(), nodeID, req.toState().Completed)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, chain)
}

// GetCycles handles GET /analysis/cycles
func (h *AnalysisHandler) GetCycles(w http.ResponseWriter, r *http.Request) {
	cycles := h.deps.FindCircularDependencies(r.Context())
	if cycles == nil {
		cycles = [][]string{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cycles": cycles,
		"count":  len(cycles),
	})
}

// GetSummary handles GET /analysis/summary
func (h *AnalysisHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.deps.Summary(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
