package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/raphaelgruber/filmwise/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "memory.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	userID, err := store.GetOrCreateUser(ctx, "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, userID, models.RoleUser, fmt.Sprintf("message %d", i), nil)
		require.NoError(t, err)
	}

	t.Run("returns at most limit turns chronologically", func(t *testing.T) {
		turns, err := store.Recent(ctx, userID, 3)
		require.NoError(t, err)
		require.Len(t, turns, 3)

		assert.Equal(t, "message 2", turns[0].Content)
		assert.Equal(t, "message 3", turns[1].Content)
		assert.Equal(t, "message 4", turns[2].Content)
		assert.Less(t, turns[0].ID, turns[1].ID)
		assert.Less(t, turns[1].ID, turns[2].ID)
	})

	t.Run("limit above history returns everything", func(t *testing.T) {
		turns, err := store.Recent(ctx, userID, 50)
		require.NoError(t, err)
		assert.Len(t, turns, 5)
	})

	t.Run("unknown user has empty log", func(t *testing.T) {
		turns, err := store.Recent(ctx, "nobody", 10)
		require.NoError(t, err)
		assert.Empty(t, turns)
	})
}

func TestAppendToolTurn(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	userID, err := store.GetOrCreateUser(ctx, "")
	require.NoError(t, err)

	toolName := "filter_by_genre"
	turn, err := store.Append(ctx, userID, models.RoleTool, "Found 3 film(s)", &toolName)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTool, turn.Role)
	require.NotNil(t, turn.ToolName)

	turns, err := store.Recent(ctx, userID, 1)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	require.NotNil(t, turns[0].ToolName)
	assert.Equal(t, "filter_by_genre", *turns[0].ToolName)
}

func TestSequenceIsMonotonicAcrossRoles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	userID, err := store.GetOrCreateUser(ctx, "")
	require.NoError(t, err)

	a, err := store.Append(ctx, userID, models.RoleUser, "hi", nil)
	require.NoError(t, err)
	b, err := store.Append(ctx, userID, models.RoleAssistant, "hello", nil)
	require.NoError(t, err)

	assert.Less(t, a.ID, b.ID)
}
