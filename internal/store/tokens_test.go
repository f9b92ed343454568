// ABOUTME: Tests for API token binding persistence
// ABOUTME: Covers create, lookup, usage stamping, and revocation

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateAPIToken(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "token@example.com")

	token := &APIToken{UserID: user.ID, Name: "api_token", SecretHash: "abc123"}
	require.NoError(t, store.CreateAPIToken(ctx, token))
	assert.NotEmpty(t, token.ID)

	retrieved, err := store.GetAPIToken(ctx, token.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.UserID)
	assert.Equal(t, "abc123", retrieved.SecretHash)
	assert.Nil(t, retrieved.LastUsedAt)
}

func TestStore_TouchAPIToken(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "token@example.com")

	token := &APIToken{UserID: user.ID, Name: "api_token", SecretHash: "abc123"}
	require.NoError(t, store.CreateAPIToken(ctx, token))

	require.NoError(t, store.TouchAPIToken(ctx, token.ID))

	retrieved, err := store.GetAPIToken(ctx, token.ID)
	require.NoError(t, err)
	assert.NotNil(t, retrieved.LastUsedAt)
}

func TestStore_DeleteAPIToken(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "token@example.com")

	token := &APIToken{UserID: user.ID, Name: "api_token", SecretHash: "abc123"}
	require.NoError(t, store.CreateAPIToken(ctx, token))

	require.NoError(t, store.DeleteAPIToken(ctx, token.ID))

	_, err := store.GetAPIToken(ctx, token.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.DeleteAPIToken(ctx, token.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListAPITokensForUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "multi@example.com")
	other := createTestUser(t, store, "other@example.com")

	// Multi-device: several live tokens per user
	for i := 0; i < 3; i++ {
		token := &APIToken{UserID: user.ID, Name: "api_token", SecretHash: "h"}
		require.NoError(t, store.CreateAPIToken(ctx, token))
	}
	otherToken := &APIToken{UserID: other.ID, Name: "api_token", SecretHash: "h"}
	require.NoError(t, store.CreateAPIToken(ctx, otherToken))

	tokens, err := store.ListAPITokensForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, tokens, 3)
}
