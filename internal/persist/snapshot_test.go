package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purpleboard/connections-server/internal/game"
)

func TestPackUnpack_RoundTrip(t *testing.T) {
	for name, found := range map[string][][]string{
		"empty":     {},
		"one group": {{"A1", "A2", "A3", "A4"}},
		"several":   {{"C1", "C2"}, {"A1", "A2"}, {"B1", "B2"}},
		"empty set": {{}},
	} {
		packed := PackFoundIDs(found)
		got := UnpackFoundIDs(packed)
		require.Len(t, got, len(found), name)
		for i := range found {
			assert.ElementsMatch(t, found[i], got[i], name)
		}
	}
}

func TestUnpack_PackedShape(t *testing.T) {
	raw := []any{
		map[string]any{"items": []any{"A1", "A2"}},
		map[string]any{"items": []any{"B1", "B2"}},
	}
	got := UnpackFoundIDs(raw)
	assert.Equal(t, [][]string{{"A1", "A2"}, {"B1", "B2"}}, got)
}

func TestUnpack_LegacyArrayOfArrays(t *testing.T) {
	// documents written before packing existed carry raw nested arrays
	raw := []any{
		[]any{"A1", "A2"},
		[]any{"B1", "B2"},
	}
	got := UnpackFoundIDs(raw)
	assert.Equal(t, [][]string{{"A1", "A2"}, {"B1", "B2"}}, got)
}

func TestUnpack_Garbage(t *testing.T) {
	assert.Empty(t, UnpackFoundIDs(nil))
	assert.Empty(t, UnpackFoundIDs("nope"))
	assert.Empty(t, UnpackFoundIDs(float64(7)))
	// unrecognizable elements read as empty groups, not a crash
	got := UnpackFoundIDs([]any{"weird", map[string]any{"items": "also weird"}})
	assert.Equal(t, [][]string{{}, {}}, got)
}

func TestSnapshotOf_DeepCopies(t *testing.T) {
	r := game.NewRun("Classic", "pat")
	r.RecordGuess([]string{"A1", "A2"}, true, 2)
	snap := SnapshotOf(r, 1000)

	r.FoundIDs[0][0] = "mutated"
	assert.Equal(t, "A1", snap.Run.FoundIDs[0][0])
	assert.Equal(t, int64(1000), snap.TS)

	back := snap.Run.ToRun()
	assert.Equal(t, r.Title, back.Title)
	assert.Equal(t, 1, back.Moves)
	assert.Equal(t, [][]string{{"A1", "A2"}}, back.FoundIDs)
}
