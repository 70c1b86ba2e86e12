package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"pathways/application/ports"
	domainconfig "pathways/domain/config"
	"pathways/domain/core/entities"
	"pathways/pkg/observability"
)

// RecommendationCategory classifies why a candidate was suggested
type RecommendationCategory string

const (
	CategoryNextInSequence    RecommendationCategory = "next-in-sequence"
	CategorySimilarDifficulty RecommendationCategory = "similar-difficulty"
	CategoryPractice          RecommendationCategory = "practice"
	CategoryRelated           RecommendationCategory = "related"
)

// RelationTypeFor maps a recommendation category to the relationship type
// created when the suggestion is accepted.
func (c RecommendationCategory) RelationTypeFor() entities.RelationType {
	switch c {
	case CategoryNextInSequence:
		return entities.RelationSequence
	case CategorySimilarDifficulty:
		return entities.RelationSimilar
	case CategoryPractice:
		return entities.RelationPractice
	default:
		return entities.RelationRelated
	}
}

// Recommendation is a scored, explained link suggestion. The shape is the
// same for heuristic and manual suggestions.
type Recommendation struct {
	SourceID string                 `json:"sourceId"`
	TargetID string                 `json:"targetId"`
	Category RecommendationCategory `json:"category"`
	Type     entities.RelationType  `json:"type"`
	Score    float64                `json:"score"`
	Reasons  []string               `json:"reasons"`
}

// GenerateInput carries the parameters of a recommendation query
type GenerateInput struct {
	SourceID  string
	Completed map[string]bool
	TopN      int
}

// RecommendationService scores candidate next-content against a source
// node. Candidates are nodes that are neither completed nor already linked
// to the source.
type RecommendationService struct {
	links     *LinkService
	catalog   ports.ContentCatalog
	settings  domainconfig.SettingsSource
	domainCfg *domainconfig.DomainConfig
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	links *LinkService,
	catalog ports.ContentCatalog,
	settings domainconfig.SettingsSource,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *RecommendationService {
	if domainCfg == nil {
		domainCfg = domainconfig.DefaultDomainConfig()
	}
	return &RecommendationService{
		links:     links,
		catalog:   catalog,
		settings:  settings,
		domainCfg: domainCfg,
		logger:    logger,
		metrics:   metrics,
	}
}

// GenerateRecommendations scores every eligible candidate and returns the
// top-N, sorted by descending score with ties broken by target id. An
// unknown source id yields an empty list, not an error.
func (s *RecommendationService) GenerateRecommendations(ctx context.Context, input GenerateInput) ([]Recommendation, error) {
	s.metrics.CountAnalysis("recommendations")

	source, ok := s.catalog.Descriptor(input.SourceID)
	if !ok {
		return []Recommendation{}, nil
	}

	topN := input.TopN
	if topN <= 0 {
		topN = s.domainCfg.DefaultTopN
	}
	if topN > s.domainCfg.MaxTopN {
		topN = s.domainCfg.MaxTopN
	}

	linked, sequenceNext, err := s.linkContext(ctx, input.SourceID)
	if err != nil {
		return nil, err
	}

	weights := s.settings.Current().Scoring
	sourceTags := source.TagSet()
	span := s.difficultySpan()

	var results []Recommendation
	for _, candidate := range s.catalog.All() {
		if candidate.ID == input.SourceID {
			continue
		}
		if input.Completed[candidate.ID] {
			continue
		}
		if linked[candidate.ID] {
			continue
		}

		rec := s.score(source, candidate, sourceTags, weights, span, sequenceNext[candidate.ID])
		if rec.Score <= 0 {
			continue
		}
		results = append(results, rec)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].TargetID < results[j].TargetID
	})

	if len(results) > topN {
		results = results[:topN]
	}
	if results == nil {
		results = []Recommendation{}
	}

	s.logger.Debug("Recommendations generated",
		zap.String("sourceID", input.SourceID),
		zap.Int("count", len(results)),
	)

	return results, nil
}

// AcceptRecommendation materializes a suggestion as an automatic link
func (s *RecommendationService) AcceptRecommendation(ctx context.Context, rec Recommendation) (*entities.Relationship, error) {
	return s.links.CreateLink(ctx, CreateLinkInput{
		SourceID:    rec.SourceID,
		TargetID:    rec.TargetID,
		Type:        string(rec.Category.RelationTypeFor()),
		Strength:    clamp01(rec.Score),
		Description: strings.Join(rec.Reasons, "; "),
		Automatic:   true,
	})
}

// score combines tag overlap, difficulty proximity and the sequence bonus
// into a single [0,1] score with one reason per contributing signal.
func (s *RecommendationService) score(
	source, candidate *entities.ContentDescriptor,
	sourceTags map[string]bool,
	weights domainconfig.ScoringSettings,
	span int,
	isSequenceNext bool,
) Recommendation {
	rec := Recommendation{
		SourceID: source.ID,
		TargetID: candidate.ID,
		Category: CategoryRelated,
	}

	tagScore := tagOverlap(sourceTags, candidate.TagSet())
	if tagScore > 0 {
		rec.Score += tagScore * weights.TagWeight
		rec.Reasons = append(rec.Reasons, fmt.Sprintf("shares topics with %q", source.Title))
	}

	diffScore := 0.0
	if span > 0 {
		delta := candidate.DifficultyRank - source.DifficultyRank
		if delta < 0 {
			delta = -delta
		}
		diffScore = 1 - float64(delta)/float64(span)
		if diffScore > 0 {
			rec.Score += diffScore * weights.DifficultyWeight
			rec.Reasons = append(rec.Reasons, "matches current difficulty level")
		}
	}

	switch {
	case isSequenceNext:
		// Immediate successor in an authored sequence gets a fixed bonus
		rec.Score += weights.SequenceBonus
		rec.Category = CategoryNextInSequence
		rec.Reasons = append(rec.Reasons, "next in the authored sequence")
	case candidate.TagSet()["practice"]:
		rec.Category = CategoryPractice
		rec.Reasons = append(rec.Reasons, "practice material for covered topics")
	case diffScore*weights.DifficultyWeight > tagScore*weights.TagWeight:
		rec.Category = CategorySimilarDifficulty
	}

	rec.Score = clamp01(rec.Score)
	rec.Type = rec.Category.RelationTypeFor()
	return rec
}

// linkContext returns the set of nodes already linked to the source in
// either direction, and the set of immediate sequence successors. Sequence
// successors stay out of the linked set: an authored sequence link is
// course structure, and surfacing the next unit is the whole point.
func (s *RecommendationService) linkContext(ctx context.Context, sourceID string) (linked, sequenceNext map[string]bool, err error) {
	linked = map[string]bool{}
	sequenceNext = map[string]bool{}

	outgoing, err := s.links.GetOutgoingLinks(ctx, sourceID)
	if err != nil {
		return nil, nil, err
	}
	for _, link := range outgoing {
		if link.Type == entities.RelationSequence {
			sequenceNext[link.TargetID] = true
			continue
		}
		linked[link.TargetID] = true
	}

	incoming, err := s.links.GetIncomingLinks(ctx, sourceID)
	if err != nil {
		return nil, nil, err
	}
	for _, link := range incoming {
		linked[link.SourceID] = true
	}

	return linked, sequenceNext, nil
}

// difficultySpan returns the difficulty range of the whole catalog; a
// degenerate catalog spans 1 so proximity stays defined.
func (s *RecommendationService) difficultySpan() int {
	minRank, maxRank := 0, 0
	first := true
	for _, desc := range s.catalog.All() {
		if first {
			minRank, maxRank = desc.DifficultyRank, desc.DifficultyRank
			first = false
			continue
		}
		if desc.DifficultyRank < minRank {
			minRank = desc.DifficultyRank
		}
		if desc.DifficultyRank > maxRank {
			maxRank = desc.DifficultyRank
		}
	}
	if maxRank-minRank < 1 {
		return 1
	}
	return maxRank - minRank
}

// tagOverlap is |a ∩ b| / max(|a|, |b|); the asymmetric denominator avoids
// favoring nodes with very large tag sets.
func tagOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for tag := range a {
		if b[tag] {
			intersection++
		}
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return float64(intersection) / float64(maxLen)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
