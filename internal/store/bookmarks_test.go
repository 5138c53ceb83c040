package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Bookmarks(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	saved, err := s.SaveBookmark(ctx, "  keybinds.CloseTab  ")
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = s.SaveBookmark(ctx, "keybinds.CloseTab")
	require.NoError(t, err)
	assert.False(t, saved, "duplicate expression")

	_, err = s.SaveBookmark(ctx, "general")
	require.NoError(t, err)

	_, err = s.SaveBookmark(ctx, "   ")
	assert.ErrorContains(t, err, "cannot be empty")

	all, err := s.Bookmarks(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "general", all[0].Expression)
	assert.Equal(t, "keybinds.CloseTab", all[1].Expression)
	assert.False(t, all[0].CreatedAt.IsZero())

	found, err := s.Bookmarks(ctx, "CLOSE")
	require.NoError(t, err)
	require.Len(t, found, 1)

	b, err := s.Bookmark(ctx, found[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "keybinds.CloseTab", b.Expression)

	require.NoError(t, s.DeleteBookmark(ctx, b.ID))
	assert.ErrorIs(t, s.DeleteBookmark(ctx, b.ID), ErrNotFound)

	_, err = s.Bookmark(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
