package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pathways/domain/core/entities"
	"pathways/infrastructure/persistence/memory"
	pkgerrors "pathways/pkg/errors"
)

func newTestCatalog(t *testing.T, descs ...*entities.ContentDescriptor) *memory.ContentCatalog {
	t.Helper()
	catalog := memory.NewContentCatalog()
	for _, desc := range descs {
		require.NoError(t, catalog.Register(desc))
	}
	return catalog
}

func newTestLinkService(t *testing.T, descs ...*entities.ContentDescriptor) *LinkService {
	t.Helper()
	return NewLinkService(
		memory.NewRelationshipStore(),
		newTestCatalog(t, descs...),
		nil,
		zap.NewNop(),
		nil,
	)
}

func desc(id string, rank int, tags []string, prereqs ...string) *entities.ContentDescriptor {
	return &entities.ContentDescriptor{
		ID:                    id,
		Title:                 "Title " + id,
		Tags:                  tags,
		DifficultyRank:        rank,
		DeclaredPrerequisites: prereqs,
	}
}

func TestLinkService_CreateLink_Success(t *testing.T) {
	ctx := context.Background()
	svc := newTestLinkService(t, desc("a", 1, nil), desc("b", 2, nil))

	rel, err := svc.CreateLink(ctx, CreateLinkInput{
		SourceID: "a",
		TargetID: "b",
		Type:     "prerequisite",
		Strength: 0.7,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, rel.ID)
	assert.Equal(t, entities.RelationPrerequisite, rel.Type)
	assert.Equal(t, uint64(1), svc.Version())
}

func TestLinkService_CreateLink_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestLinkService(t, desc("a", 1, nil), desc("b", 2, nil))

	tests := []struct {
		name  string
		input CreateLinkInput
	}{
		{"unknown type", CreateLinkInput{SourceID: "a", TargetID: "b", Type: "buddy", Strength: 0.5}},
		{"self loop", CreateLinkInput{SourceID: "a", TargetID: "a", Type: "related", Strength: 0.5}},
		{"source outside catalog", CreateLinkInput{SourceID: "ghost", TargetID: "b", Type: "related", Strength: 0.5}},
		{"target outside catalog", CreateLinkInput{SourceID: "a", TargetID: "ghost", Type: "related", Strength: 0.5}},
		{"strength out of range", CreateLinkInput{SourceID: "a", TargetID: "b", Type: "related", Strength: 1.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLink(ctx, tt.input)
			assert.True(t, pkgerrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	// Failed creates do not bump the version
	assert.Equal(t, uint64(0), svc.Version())
}

func TestLinkService_CreateLink_RejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newTestLinkService(t, desc("a", 1, nil), desc("b", 2, nil))

	_, err := svc.CreateLink(ctx, CreateLinkInput{SourceID: "a", TargetID: "b", Type: "related", Strength: 0.5})
	require.NoError(t, err)

	_, err = svc.CreateLink(ctx, CreateLinkInput{SourceID: "a", TargetID: "b", Type: "related", Strength: 0.9})
	assert.True(t, pkgerrors.IsValidation(err))

	// A different type between the same pair is a distinct link
	_, err = svc.CreateLink(ctx, CreateLinkInput{SourceID: "a", TargetID: "b", Type: "prerequisite", Strength: 0.5})
	assert.NoError(t, err)
}

func TestLinkService_UpdateLink(t *testing.T) {
	ctx := context.Background()
	svc := newTestLinkService(t, desc("a", 1, nil), desc("b", 2, nil))

	rel, err := svc.CreateLink(ctx, CreateLinkInput{SourceID: "a", TargetID: "b", Type: "related", Strength: 0.4})
	require.NoError(t, err)

	newType := "prerequisite"
	newStrength := 0.9
	updated, err := svc.UpdateLink(ctx, rel.ID, UpdateLinkInput{Type: &newType, Strength: &newStrength})

	require.NoError(t, err)
	assert.Equal(t, entities.RelationPrerequisite, updated.Type)
	assert.Equal(t, 0.9, updated.Strength)
	assert.Equal(t, rel.ID, updated.ID)
	assert.Equal(t, uint64(2), svc.Version())
}

func TestLinkService_UpdateLink_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestLinkService(t, desc("a", 1, nil))

	strength := 0.5
	_, err := svc.UpdateLink(ctx, "missing-id", UpdateLinkInput{Strength: &strength})

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestLinkService_DeleteLink_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestLinkService(t, desc("a", 1, nil), desc("b", 2, nil))

	rel, err := svc.CreateLink(ctx, CreateLinkInput{SourceID: "a", TargetID: "b", Type: "related", Strength: 0.5})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLink(ctx, rel.ID))
	// Deleting again is a no-op, not an error
	require.NoError(t, svc.DeleteLink(ctx, rel.ID))
	require.NoError(t, svc.DeleteLink(ctx, "never-existed"))

	all, err := svc.AllLinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLinkService_ListingsPreserveCreationOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestLinkService(t, desc("a", 1, nil), desc("b", 2, nil), desc("c", 3, nil))

	first, err := svc.CreateLink(ctx, CreateLinkInput{SourceID: "a", TargetID: "b", Type: "related", Strength: 0.5})
	require.NoError(t, err)
	second, err := svc.CreateLink(ctx, CreateLinkInput{SourceID: "a", TargetID: "c", Type: "related", Strength: 0.5})
	require.NoError(t, err)

	outgoing, err := svc.GetOutgoingLinks(ctx, "a")
	require.NoError(t, err)
	require.Len(t, outgoing, 2)
	assert.Equal(t, first.ID, outgoing[0].ID)
	assert.Equal(t, second.ID, outgoing[1].ID)

	incoming, err := svc.GetIncomingLinks(ctx, "b")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, first.ID, incoming[0].ID)

	// Unknown node yields an empty list, not an error
	none, err := svc.GetOutgoingLinks(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, none)
}
