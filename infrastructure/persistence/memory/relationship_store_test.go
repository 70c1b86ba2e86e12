package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathways/domain/core/entities"
	pkgerrors "pathways/pkg/errors"
)

func newRel(t *testing.T, source, target string) *entities.Relationship {
	t.Helper()
	rel, err := entities.NewRelationship(source, target, entities.RelationRelated, 0.5, "", false)
	require.NoError(t, err)
	return rel
}

func TestRelationshipStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()
	rel := newRel(t, "a", "b")

	require.NoError(t, store.Put(ctx, rel))
	assert.Equal(t, uint64(1), rel.Seq)

	got, err := store.Get(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, rel.ID, got.ID)
	assert.Equal(t, "a", got.SourceID)

	// Mutating the returned copy must not leak into the store
	got.Strength = 0.99
	again, err := store.Get(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, again.Strength)
}

func TestRelationshipStore_Get_NotFound(t *testing.T) {
	store := NewRelationshipStore()

	_, err := store.Get(context.Background(), "missing")

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRelationshipStore_Put_ReplacementKeepsSeq(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()

	first := newRel(t, "a", "b")
	require.NoError(t, store.Put(ctx, first))
	second := newRel(t, "a", "c")
	require.NoError(t, store.Put(ctx, second))

	first.Strength = 0.9
	require.NoError(t, store.Put(ctx, first))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Replacement keeps the original creation order
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, 0.9, all[0].Strength)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestRelationshipStore_Delete_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()
	rel := newRel(t, "a", "b")
	require.NoError(t, store.Put(ctx, rel))

	require.NoError(t, store.Delete(ctx, rel.ID))
	require.NoError(t, store.Delete(ctx, rel.ID))
	require.NoError(t, store.Delete(ctx, "missing"))

	_, err := store.Get(ctx, rel.ID)
	assert.True(t, pkgerrors.IsNotFound(err))

	bySource, err := store.ListBySource(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, bySource)
}

func TestRelationshipStore_IndexedListings(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()

	ab := newRel(t, "a", "b")
	ac := newRel(t, "a", "c")
	cb := newRel(t, "c", "b")
	for _, rel := range []*entities.Relationship{ab, ac, cb} {
		require.NoError(t, store.Put(ctx, rel))
	}

	bySource, err := store.ListBySource(ctx, "a")
	require.NoError(t, err)
	require.Len(t, bySource, 2)
	assert.Equal(t, ab.ID, bySource[0].ID)
	assert.Equal(t, ac.ID, bySource[1].ID)

	byTarget, err := store.ListByTarget(ctx, "b")
	require.NoError(t, err)
	require.Len(t, byTarget, 2)
	assert.Equal(t, ab.ID, byTarget[0].ID)
	assert.Equal(t, cb.ID, byTarget[1].ID)

	empty, err := store.ListBySource(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
