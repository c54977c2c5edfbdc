package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRatingStoreUpsertPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRatingStore()

	first, err := store.Upsert(ctx, "alice", "bob", 3)
	require.NoError(t, err)

	second, err := store.Upsert(ctx, "alice", "bob", 7)
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Greater(t, second.UpdatedAt, first.UpdatedAt)
	assert.Equal(t, 7, second.InterestLevel)
}

func TestMemoryRatingStoreQueryDirections(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRatingStore()

	_, err := store.Upsert(ctx, "alice", "bob", 6)
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "carol", "bob", 4)
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "bob", "alice", 5)
	require.NoError(t, err)

	outgoing, err := store.QueryByRater(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "bob", outgoing[0].RatedUserID)

	incoming, err := store.QueryByRatee(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, incoming, 2)
}

func TestMemorySessionStoreCreateConflictsOnDuplicatePair(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	_, err := store.Create(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = store.Create(ctx, "bob", "alice")
	assert.ErrorIs(t, err, ErrConflict, "reversed pair is the same pair")
}

func TestMemorySessionStoreFindByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	created, err := store.Create(ctx, "alice", "bob")
	require.NoError(t, err)

	found, err := store.FindByID(ctx, created.SessionID)
	require.NoError(t, err)
	require.NotNil(t, found)

	found.LastMessageAt = "tampered"
	again, err := store.FindByID(ctx, created.SessionID)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", again.LastMessageAt)
}
