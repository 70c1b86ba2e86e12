package services

import (
	"context"
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"

	domainconfig "pathways/domain/config"
	"pathways/domain/core/valueobjects"
	pkgerrors "pathways/pkg/errors"
	"pathways/pkg/observability"
)

// LayoutEdge is a layout-relevant view of a relationship. Attraction is
// scaled by the relationship strength.
type LayoutEdge struct {
	SourceID string  `json:"sourceId"`
	TargetID string  `json:"targetId"`
	Strength float64 `json:"strength"`
}

// LayoutInput describes one layout computation. Node order matters: the
// circle initialization follows it, which makes the run deterministic.
type LayoutInput struct {
	NodeIDs    []string     `json:"nodeIds"`
	Edges      []LayoutEdge `json:"edges"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	Iterations int          `json:"iterations"`
}

// LayoutService computes 2D positions with a fixed-iteration force
// simulation: pairwise repulsion, strength-scaled attraction along edges,
// damped integration, coordinates clamped to the canvas. The result is a
// best-effort heuristic, not a global energy minimum.
type LayoutService struct {
	settings domainconfig.SettingsSource
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewLayoutService creates a new layout service
func NewLayoutService(settings domainconfig.SettingsSource, logger *zap.Logger, metrics *observability.Metrics) *LayoutService {
	return &LayoutService{
		settings: settings,
		logger:   logger,
		metrics:  metrics,
	}
}

// ComputeLayout runs the simulation and returns a position per node id.
// The iteration loop runs in batches, yielding between batches and
// honoring context cancellation: a cancelled run returns ctx.Err() and
// discards partial positions rather than merging them. Edges referencing
// unknown nodes are skipped, not fatal.
func (s *LayoutService) ComputeLayout(ctx context.Context, input LayoutInput) (map[string]valueobjects.Position, error) {
	if input.Width <= 0 || input.Height <= 0 {
		return nil, pkgerrors.NewValidationError("canvas dimensions must be positive")
	}
	if len(input.NodeIDs) == 0 {
		return map[string]valueobjects.Position{}, nil
	}

	cfg := s.settings.Current().Layout
	iterations := input.Iterations
	if iterations <= 0 {
		iterations = cfg.DefaultIterations
	}

	start := time.Now()
	defer func() { s.metrics.ObserveLayout(time.Since(start)) }()

	index := make(map[string]int, len(input.NodeIDs))
	for i, id := range input.NodeIDs {
		index[id] = i
	}

	type edge struct {
		a, b     int
		strength float64
	}
	edges := make([]edge, 0, len(input.Edges))
	skipped := 0
	for _, e := range input.Edges {
		a, okA := index[e.SourceID]
		b, okB := index[e.TargetID]
		if !okA || !okB || a == b {
			skipped++
			continue
		}
		edges = append(edges, edge{a: a, b: b, strength: e.Strength})
	}
	if skipped > 0 {
		s.logger.Debug("Layout skipped malformed edges", zap.Int("skipped", skipped))
	}

	n := len(input.NodeIDs)
	xs := make([]float64, n)
	ys := make([]float64, n)

	// Deterministic starting condition: nodes on a circle around the
	// canvas center, in input order.
	centerX, centerY := input.Width/2, input.Height/2
	radius := math.Min(input.Width, input.Height) * 0.35
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		xs[i] = centerX + radius*math.Cos(angle)
		ys[i] = centerY + radius*math.Sin(angle)
	}

	dx := make([]float64, n)
	dy := make([]float64, n)

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = iterations
	}

	for done := 0; done < iterations; {
		// Abandoning a stale in-flight layout discards partial positions
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := done + batch
		if end > iterations {
			end = iterations
		}

		for ; done < end; done++ {
			for i := range dx {
				dx[i], dy[i] = 0, 0
			}

			// Pairwise repulsion: F = k / d^2, directed away
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					vx := xs[i] - xs[j]
					vy := ys[i] - ys[j]
					distSq := vx*vx + vy*vy
					if distSq < 1e-6 {
						// Coincident nodes get a deterministic nudge
						vx, vy = 1, 0
						distSq = 1
					}
					dist := math.Sqrt(distSq)
					force := cfg.Repulsion / distSq
					fx := force * vx / dist
					fy := force * vy / dist
					dx[i] += fx
					dy[i] += fy
					dx[j] -= fx
					dy[j] -= fy
				}
			}

			// Attraction along relationships, scaled by strength
			for _, e := range edges {
				vx := xs[e.b] - xs[e.a]
				vy := ys[e.b] - ys[e.a]
				dist := math.Sqrt(vx*vx + vy*vy)
				if dist < 1e-3 {
					continue
				}
				force := cfg.Attraction * dist * e.strength
				fx := force * vx / dist
				fy := force * vy / dist
				dx[e.a] += fx
				dy[e.a] += fy
				dx[e.b] -= fx
				dy[e.b] -= fy
			}

			// Damped integration, clamped to the visible canvas
			for i := 0; i < n; i++ {
				xs[i] += dx[i] * cfg.Damping
				ys[i] += dy[i] * cfg.Damping
				xs[i] = math.Min(math.Max(xs[i], cfg.NodeRadius), input.Width-cfg.NodeRadius)
				ys[i] = math.Min(math.Max(ys[i], cfg.NodeRadius), input.Height-cfg.NodeRadius)
			}
		}

		// Yield so a host UI thread is not starved by large graphs
		runtime.Gosched()
	}

	result := make(map[string]valueobjects.Position, n)
	for i, id := range input.NodeIDs {
		pos, err := valueobjects.NewPosition(xs[i], ys[i])
		if err != nil {
			return nil, pkgerrors.Wrap(err, "layout produced invalid position")
		}
		result[id] = pos
	}

	s.logger.Debug("Layout computed",
		zap.Int("nodes", n),
		zap.Int("edges", len(edges)),
		zap.Int("iterations", iterations),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}
