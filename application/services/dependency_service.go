package services

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"pathways/application/ports"
	"pathways/domain/core/entities"
	"pathways/pkg/observability"
)

// ChainNode is a derived tree node for UI dependency trees. Children
// reference each other by value; descriptors are looked up by id, so the
// structure carries no parent pointers.
type ChainNode struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Level        int                   `json:"level"`
	Status       entities.Status       `json:"status"`
	LinkType     entities.RelationType `json:"linkType,omitempty"`
	LinkStrength float64               `json:"linkStrength,omitempty"`
	IsCircular   bool                  `json:"isCircular"`
	Children     []*ChainNode          `json:"children,omitempty"`
}

// DependencyChain summarizes the transitive dependency context of one
// content unit. Recomputed on every call, never persisted.
type DependencyChain struct {
	ContentID     string   `json:"contentId"`
	Prerequisites []string `json:"prerequisites"`
	Dependents    []string `json:"dependents"`
	Depth         int      `json:"depth"`
	CanAccess     bool     `json:"canAccess"`
}

// CompletionState is the learner-side input to status computation
type CompletionState struct {
	Completed map[string]bool
	CurrentID string
}

// GraphSummary aggregates counts for the platform dashboard
type GraphSummary struct {
	NodeCount   int            `json:"nodeCount"`
	LinkCount   int            `json:"linkCount"`
	LinksByType map[string]int `json:"linksByType"`
	CycleCount  int            `json:"cycleCount"`
	MaxDepth    int            `json:"maxDepth"`
}

// DependencyService computes per-node status, prerequisite and dependent
// trees, transitive chains and circular dependency cycles from the current
// link snapshot. It holds no derived state beyond an explicit cycle memo
// keyed by the link service's mutation counter.
type DependencyService struct {
	links   *LinkService
	catalog ports.ContentCatalog
	logger  *zap.Logger
	metrics *observability.Metrics

	mu            sync.Mutex
	cachedCycles  [][]string
	cachedVersion uint64
	cacheValid    bool
}

// NewDependencyService creates a new dependency service
func NewDependencyService(
	links *LinkService,
	catalog ports.ContentCatalog,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *DependencyService {
	return &DependencyService{
		links:   links,
		catalog: catalog,
		logger:  logger,
		metrics: metrics,
	}
}

// ComputeStatus derives the status of a content unit from the completion
// state and its declared prerequisites. Unknown ids are treated as having
// no prerequisites: nothing blocks content the catalog does not know.
func (s *DependencyService) ComputeStatus(nodeID string, completed map[string]bool, currentID string) entities.Status {
	desc, ok := s.catalog.Descriptor(nodeID)
	if !ok {
		desc = &entities.ContentDescriptor{ID: nodeID}
	}
	return entities.ComputeStatus(desc, completed, currentID)
}

// BuildPrerequisiteTree expands the prerequisite tree of a node by walking
// incoming prerequisite/sequence links depth-first, bounded by maxDepth.
// Returns nil for an unresolved node id.
func (s *DependencyService) BuildPrerequisiteTree(ctx context.Context, nodeID string, maxDepth int, state CompletionState) (*ChainNode, error) {
	s.metrics.CountAnalysis("prerequisite_tree")
	cycles := s.FindCircularDependencies(ctx)
	return s.buildTree(ctx, nodeID, 0, maxDepth, state, directionIncoming, map[string]bool{}, cycles)
}

// BuildDependentTree expands the dependent tree of a node by walking
// outgoing prerequisite/sequence links depth-first, bounded by maxDepth.
// Structurally symmetric to BuildPrerequisiteTree.
func (s *DependencyService) BuildDependentTree(ctx context.Context, nodeID string, maxDepth int, state CompletionState) (*ChainNode, error) {
	s.metrics.CountAnalysis("dependent_tree")
	cycles := s.FindCircularDependencies(ctx)
	return s.buildTree(ctx, nodeID, 0, maxDepth, state, directionOutgoing, map[string]bool{}, cycles)
}

type treeDirection int

const (
	directionIncoming treeDirection = iota
	directionOutgoing
)

// buildTree recursively expands one node. The visited set is per-path, not
// global: diamond graphs expand on both legs, while a node repeated on its
// own path becomes a leaf.
func (s *DependencyService) buildTree(
	ctx context.Context,
	nodeID string,
	level, maxDepth int,
	state CompletionState,
	dir treeDirection,
	path map[string]bool,
	cycles [][]string,
) (*ChainNode, error) {
	if level > maxDepth {
		return nil, nil
	}

	desc, ok := s.catalog.Descriptor(nodeID)
	if !ok {
		return nil, nil
	}

	node := &ChainNode{
		ID:     desc.ID,
		Title:  desc.Title,
		Level:  level,
		Status: entities.ComputeStatus(desc, state.Completed, state.CurrentID),
	}

	if path[nodeID] {
		return node, nil
	}
	path[nodeID] = true
	defer delete(path, nodeID)

	links, err := s.neighborLinks(ctx, nodeID, dir)
	if err != nil {
		return nil, err
	}

	for _, link := range links {
		if !link.Type.IsBlocking() {
			continue
		}

		childID := link.SourceID
		if dir == directionOutgoing {
			childID = link.TargetID
		}

		child, err := s.buildTree(ctx, childID, level+1, maxDepth, state, dir, path, cycles)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}

		child.LinkType = link.Type
		child.LinkStrength = link.Strength
		child.IsCircular = cycleContainsPair(cycles, nodeID, childID)
		node.Children = append(node.Children, child)
	}

	return node, nil
}

func (s *DependencyService) neighborLinks(ctx context.Context, nodeID string, dir treeDirection) ([]*entities.Relationship, error) {
	if dir == directionIncoming {
		return s.links.GetIncomingLinks(ctx, nodeID)
	}
	return s.links.GetOutgoingLinks(ctx, nodeID)
}

// FindCircularDependencies detects every directed cycle among
// prerequisite/sequence links using DFS with a recursion stack. Each node
// is fully visited at most once, so the pass is O(V+E) and terminates on
// any input. The result is memoized against the link mutation counter and
// the call is total: storage failures degrade to an empty result.
func (s *DependencyService) FindCircularDependencies(ctx context.Context) [][]string {
	version := s.links.Version()

	s.mu.Lock()
	if s.cacheValid && s.cachedVersion == version {
		cycles := s.cachedCycles
		s.mu.Unlock()
		return cycles
	}
	s.mu.Unlock()

	s.metrics.CountAnalysis("cycle_detection")

	adjacency, err := s.blockingAdjacency(ctx)
	if err != nil {
		s.logger.Warn("Cycle detection degraded to empty result", zap.Error(err))
		return nil
	}

	// Deterministic visit order
	roots := make([]string, 0, len(adjacency))
	for id := range adjacency {
		roots = append(roots, id)
	}
	sort.Strings(roots)

	const (
		white = iota
		grey
		black
	)

	color := make(map[string]int, len(adjacency))
	stackIndex := make(map[string]int)
	stack := make([]string, 0, len(adjacency))
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		stackIndex[id] = len(stack)
		stack = append(stack, id)

		for _, next := range adjacency[id] {
			switch color[next] {
			case white:
				visit(next)
			case grey:
				// Stack slice from the first occurrence of next to the
				// current node is one cycle; keep scanning for more.
				cycle := make([]string, len(stack)-stackIndex[next])
				copy(cycle, stack[stackIndex[next]:])
				cycles = append(cycles, cycle)
			}
		}

		stack = stack[:len(stack)-1]
		delete(stackIndex, id)
		color[id] = black
	}

	for _, id := range roots {
		if color[id] == white {
			visit(id)
		}
	}

	s.metrics.SetCycleCount(len(cycles))

	s.mu.Lock()
	s.cachedCycles = cycles
	s.cachedVersion = version
	s.cacheValid = true
	s.mu.Unlock()

	return cycles
}

// AnalyzeDependencyChain computes the transitive prerequisite and dependent
// closures of a node, unbounded by depth. Unknown ids yield an empty chain:
// nothing blocks or depends on content outside the catalog.
func (s *DependencyService) AnalyzeDependencyChain(ctx context.Context, nodeID string, completed map[string]bool) (DependencyChain, error) {
	s.metrics.CountAnalysis("dependency_chain")

	chain := DependencyChain{
		ContentID:     nodeID,
		Prerequisites: []string{},
		Dependents:    []string{},
	}

	desc, ok := s.catalog.Descriptor(nodeID)
	if !ok {
		chain.CanAccess = true
		return chain, nil
	}

	incoming, outgoing, err := s.blockingEdges(ctx)
	if err != nil {
		return chain, err
	}

	chain.Prerequisites = transitiveClosure(nodeID, incoming)
	chain.Dependents = transitiveClosure(nodeID, outgoing)
	chain.Depth = longestChain(nodeID, incoming, map[string]int{}, map[string]bool{})
	chain.CanAccess = entities.ComputeStatus(desc, completed, "") != entities.StatusLocked

	return chain, nil
}

// Summary aggregates graph-wide counts for dashboard widgets
func (s *DependencyService) Summary(ctx context.Context) (GraphSummary, error) {
	summary := GraphSummary{LinksByType: map[string]int{}}

	all, err := s.links.AllLinks(ctx)
	if err != nil {
		return summary, err
	}

	summary.NodeCount = len(s.catalog.All())
	summary.LinkCount = len(all)
	for _, link := range all {
		summary.LinksByType[string(link.Type)]++
	}

	summary.CycleCount = len(s.FindCircularDependencies(ctx))

	incoming, _, err := s.blockingEdges(ctx)
	if err != nil {
		return summary, err
	}
	memo := map[string]int{}
	for _, desc := range s.catalog.All() {
		if d := longestChain(desc.ID, incoming, memo, map[string]bool{}); d > summary.MaxDepth {
			summary.MaxDepth = d
		}
	}

	return summary, nil
}

// blockingAdjacency maps node id to the targets of its outgoing
// prerequisite/sequence links. Dangling links (either endpoint unknown to
// the catalog) are excluded from traversal.
func (s *DependencyService) blockingAdjacency(ctx context.Context) (map[string][]string, error) {
	_, outgoing, err := s.blockingEdges(ctx)
	if err != nil {
		return nil, err
	}

	adjacency := make(map[string][]string, len(outgoing))
	for _, desc := range s.catalog.All() {
		adjacency[desc.ID] = outgoing[desc.ID]
	}
	return adjacency, nil
}

// blockingEdges returns, for every known node, the ids reachable over one
// incoming and one outgoing prerequisite/sequence link respectively.
func (s *DependencyService) blockingEdges(ctx context.Context) (incoming, outgoing map[string][]string, err error) {
	all, err := s.links.AllLinks(ctx)
	if err != nil {
		return nil, nil, err
	}

	incoming = make(map[string][]string)
	outgoing = make(map[string][]string)
	for _, link := range all {
		if !link.Type.IsBlocking() {
			continue
		}
		if _, ok := s.catalog.Descriptor(link.SourceID); !ok {
			continue
		}
		if _, ok := s.catalog.Descriptor(link.TargetID); !ok {
			continue
		}
		outgoing[link.SourceID] = append(outgoing[link.SourceID], link.TargetID)
		incoming[link.TargetID] = append(incoming[link.TargetID], link.SourceID)
	}
	return incoming, outgoing, nil
}

// transitiveClosure walks the given edge map breadth-first from start and
// returns every reachable id, excluding start itself.
func transitiveClosure(start string, edges map[string][]string) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	var result []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range edges[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			result = append(result, next)
			queue = append(queue, next)
		}
	}

	if result == nil {
		result = []string{}
	}
	sort.Strings(result)
	return result
}

// longestChain returns the length of the longest prerequisite chain ending
// at the node. Nodes already on the current path contribute zero, which
// keeps the recursion finite on cyclic graphs.
func longestChain(nodeID string, incoming map[string][]string, memo map[string]int, onPath map[string]bool) int {
	if onPath[nodeID] {
		return 0
	}
	if depth, ok := memo[nodeID]; ok {
		return depth
	}

	onPath[nodeID] = true
	best := 0
	for _, prereq := range incoming[nodeID] {
		if d := 1 + longestChain(prereq, incoming, memo, onPath); d > best {
			best = d
		}
	}
	delete(onPath, nodeID)

	memo[nodeID] = best
	return best
}

// cycleContainsPair reports whether any detected cycle contains both ids
func cycleContainsPair(cycles [][]string, a, b string) bool {
	for _, cycle := range cycles {
		hasA, hasB := false, false
		for _, id := range cycle {
			if id == a {
				hasA = true
			}
			if id == b {
				hasB = true
			}
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}
