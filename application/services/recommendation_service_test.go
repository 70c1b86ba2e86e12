package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainconfig "pathways/domain/config"
	"pathways/domain/core/entities"
	"pathways/infrastructure/persistence/memory"
)

func newTestRecommendationService(t *testing.T, descs ...*entities.ContentDescriptor) (*LinkService, *RecommendationService) {
	t.Helper()
	catalog := newTestCatalog(t, descs...)
	links := NewLinkService(memory.NewRelationshipStore(), catalog, nil, zap.NewNop(), nil)
	recs := NewRecommendationService(
		links,
		catalog,
		domainconfig.NewStaticSettings(domainconfig.DefaultEngineSettings()),
		domainconfig.DefaultDomainConfig(),
		zap.NewNop(),
		nil,
	)
	return links, recs
}

func TestRecommendationService_Generate_ScoresAndOrder(t *testing.T) {
	ctx := context.Background()
	_, recs := newTestRecommendationService(t,
		desc("go-basics", 2, []string{"go", "basics"}),
		desc("go-loops", 2, []string{"go", "loops"}),
		desc("go-funcs", 3, []string{"go", "functions"}),
		desc("rust-intro", 8, []string{"rust"}),
	)

	result, err := recs.GenerateRecommendations(ctx, GenerateInput{SourceID: "go-basics"})

	require.NoError(t, err)
	require.NotEmpty(t, result)

	for i, rec := range result {
		assert.Equal(t, "go-basics", rec.SourceID)
		assert.GreaterOrEqual(t, rec.Score, 0.0)
		assert.LessOrEqual(t, rec.Score, 1.0)
		assert.NotEmpty(t, rec.Reasons)
		if i > 0 {
			assert.GreaterOrEqual(t, result[i-1].Score, rec.Score, "results must be sorted by descending score")
		}
	}

	// Same difficulty and a shared tag beats a distant, unrelated node
	assert.Equal(t, "go-loops", result[0].TargetID)

	for _, rec := range result {
		assert.NotEqual(t, "go-basics", rec.TargetID, "source must never recommend itself")
	}
}

func TestRecommendationService_Generate_ExcludesCompletedAndLinked(t *testing.T) {
	ctx := context.Background()
	links, recs := newTestRecommendationService(t,
		desc("a", 1, []string{"go"}),
		desc("b", 1, []string{"go"}),
		desc("c", 1, []string{"go"}),
		desc("d", 1, []string{"go"}),
	)
	mustLink(t, links, "a", "b", "related")
	mustLink(t, links, "c", "a", "related")

	result, err := recs.GenerateRecommendations(ctx, GenerateInput{
		SourceID:  "a",
		Completed: map[string]bool{"d": true},
	})

	require.NoError(t, err)
	// b is linked outgoing, c is linked incoming, d is completed
	assert.Empty(t, result)
}

func TestRecommendationService_Generate_SequenceBonus(t *testing.T) {
	ctx := context.Background()
	links, recs := newTestRecommendationService(t,
		desc("ch1", 1, []string{"book"}),
		desc("ch2", 1, []string{"book"}),
		desc("appendix", 1, []string{"book"}),
	)
	mustLink(t, links, "ch1", "ch2", "sequence")

	result, err := recs.GenerateRecommendations(ctx, GenerateInput{SourceID: "ch1"})
	require.NoError(t, err)
	require.Len(t, result, 2)

	// The authored successor outranks an otherwise identical candidate
	assert.Equal(t, "ch2", result[0].TargetID)
	assert.Equal(t, CategoryNextInSequence, result[0].Category)
	assert.Equal(t, entities.RelationSequence, result[0].Type)
	assert.Greater(t, result[0].Score, result[1].Score)

	assert.Equal(t, "appendix", result[1].TargetID)
	assert.Equal(t, CategoryRelated, result[1].Category)
}

func TestRecommendationService_Generate_TieBreakByTargetID(t *testing.T) {
	ctx := context.Background()
	_, recs := newTestRecommendationService(t,
		desc("src", 1, []string{"go"}),
		desc("zeta", 1, []string{"go"}),
		desc("alpha", 1, []string{"go"}),
	)

	result, err := recs.GenerateRecommendations(ctx, GenerateInput{SourceID: "src"})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, result[0].Score, result[1].Score)
	assert.Equal(t, "alpha", result[0].TargetID)
	assert.Equal(t, "zeta", result[1].TargetID)
}

func TestRecommendationService_Generate_TopNTruncation(t *testing.T) {
	ctx := context.Background()
	descs := []*entities.ContentDescriptor{desc("src", 1, []string{"go"})}
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
		descs = append(descs, desc(id, 1, []string{"go"}))
	}
	_, recs := newTestRecommendationService(t, descs...)

	result, err := recs.GenerateRecommendations(ctx, GenerateInput{SourceID: "src", TopN: 2})

	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestRecommendationService_Generate_UnknownSource(t *testing.T) {
	_, recs := newTestRecommendationService(t, desc("a", 1, nil))

	result, err := recs.GenerateRecommendations(context.Background(), GenerateInput{SourceID: "ghost"})

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestRecommendationService_Generate_PracticeCategory(t *testing.T) {
	ctx := context.Background()
	_, recs := newTestRecommendationService(t,
		desc("lesson", 2, []string{"go"}),
		desc("exercises", 2, []string{"go", "practice"}),
	)

	result, err := recs.GenerateRecommendations(ctx, GenerateInput{SourceID: "lesson"})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, CategoryPractice, result[0].Category)
	assert.Equal(t, entities.RelationPractice, result[0].Type)
}

func TestRecommendationService_Accept(t *testing.T) {
	ctx := context.Background()
	_, recs := newTestRecommendationService(t,
		desc("a", 1, []string{"go"}),
		desc("b", 1, []string{"go"}),
	)

	generated, err := recs.GenerateRecommendations(ctx, GenerateInput{SourceID: "a"})
	require.NoError(t, err)
	require.Len(t, generated, 1)

	link, err := recs.AcceptRecommendation(ctx, generated[0])

	require.NoError(t, err)
	assert.Equal(t, "a", link.SourceID)
	assert.Equal(t, "b", link.TargetID)
	assert.True(t, link.Metadata.Automatic)
	assert.Equal(t, generated[0].Score, link.Strength)
	assert.Equal(t, generated[0].Type, link.Type)

	// The accepted target is linked now and drops out of future runs
	again, err := recs.GenerateRecommendations(ctx, GenerateInput{SourceID: "a"})
	require.NoError(t, err)
	assert.Empty(t, again)
}
