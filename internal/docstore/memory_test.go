package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.Get(ctx, "puzzles/p1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "puzzles/p1", Fields{"title": "one"}, false))
	doc, err := s.Get(ctx, "puzzles/p1")
	require.NoError(t, err)
	assert.Equal(t, "one", doc["title"])

	require.NoError(t, s.Delete(ctx, "puzzles/p1"))
	_, err = s.Get(ctx, "puzzles/p1")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting a missing doc is not an error
	assert.NoError(t, s.Delete(ctx, "puzzles/p1"))
}

func TestMemory_MergeOverlaysFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Set(ctx, "users/u1", Fields{"a": 1, "b": 2}, false))
	require.NoError(t, s.Set(ctx, "users/u1", Fields{"b": 3, "c": 4}, true))

	doc, err := s.Get(ctx, "users/u1")
	require.NoError(t, err)
	assert.Equal(t, 1, doc["a"])
	assert.Equal(t, 3, doc["b"])
	assert.Equal(t, 4, doc["c"])

	// non-merge replaces the whole document
	require.NoError(t, s.Set(ctx, "users/u1", Fields{"z": 9}, false))
	doc, err = s.Get(ctx, "users/u1")
	require.NoError(t, err)
	assert.NotContains(t, doc, "a")
	assert.Equal(t, 9, doc["z"])
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, "d", Fields{"nested": map[string]any{"k": "v"}, "list": []any{"x"}}, false))

	doc, err := s.Get(ctx, "d")
	require.NoError(t, err)
	doc["nested"].(map[string]any)["k"] = "mutated"
	doc["list"].([]any)[0] = "mutated"

	again, err := s.Get(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, "v", again["nested"].(map[string]any)["k"])
	assert.Equal(t, "x", again["list"].([]any)[0])
}
