// internal/httpserver/server_test.go
//
// End-to-end handler tests over in-memory stores. Everything here exercises
// the guest path: no auth cookie, db-less server, local-only persistence.

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purpleboard/connections-server/internal/docstore"
	"github.com/purpleboard/connections-server/internal/kv"
	"github.com/purpleboard/connections-server/internal/persist"
	"github.com/purpleboard/connections-server/internal/puzzle"
)

// newTestServer builds a Server over in-memory stores. db, generator and
// sms sender are nil; guest routes never reach them.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(docstore.NewMemory(), kv.NewMemory(), nil, nil, nil)
}

// do runs one request through the router and returns the recorder.
func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestGetDemoPuzzle(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/puzzles/example", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	p := decode[puzzle.Puzzle](t, rec)
	assert.Equal(t, "example", p.ID)
	assert.Equal(t, 4, p.GridCount)
	assert.Equal(t, 4, p.GroupSize)
	assert.Len(t, p.Words, 16)
	assert.Len(t, p.Categories, 4)
	assert.Equal(t, "Breakfast Foods", p.Categories[0].Title)
}

func TestGetPuzzle_Missing(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/puzzles/no-such-puzzle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPuzzle_MalformedDocumentIs404(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.docs.Set(context.Background(),
		"puzzles/broken", docstore.Fields{"title": "no words here"}, false))

	rec := do(t, s, http.MethodGet, "/puzzles/broken", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBoard_SeedIsDeterministic(t *testing.T) {
	s := newTestServer(t)

	a := decode[boardRes](t, do(t, s, http.MethodGet, "/puzzles/example/board?seed=42", nil))
	b := decode[boardRes](t, do(t, s, http.MethodGet, "/puzzles/example/board?seed=42", nil))
	c := decode[boardRes](t, do(t, s, http.MethodGet, "/puzzles/example/board?seed=43", nil))

	assert.EqualValues(t, 42, a.Seed)
	assert.Equal(t, a.Order, b.Order)
	assert.NotEqual(t, a.Order, c.Order)
	assert.Len(t, a.Order, 16)
}

func TestBoard_FreshSeedEchoed(t *testing.T) {
	s := newTestServer(t)
	res := decode[boardRes](t, do(t, s, http.MethodGet, "/puzzles/example/board", nil))
	assert.NotZero(t, res.Seed)
	assert.Len(t, res.Order, 16)
}

func TestGuessFlow_GuestCompletesDemo(t *testing.T) {
	s := newTestServer(t)

	guess := func(sel []string) guessRes {
		rec := do(t, s, http.MethodPost, "/puzzles/example/guess",
			map[string]any{"selection": sel, "seed": 7})
		require.Equal(t, http.StatusOK, rec.Code)
		return decode[guessRes](t, rec)
	}

	// Correct group, out of order.
	res := guess([]string{"A4", "A1", "A3", "A2"})
	assert.True(t, res.OK)
	assert.Equal(t, "A", res.GroupID)
	assert.Equal(t, "Breakfast Foods", res.GroupName)
	assert.Equal(t, 1, res.Moves)
	assert.False(t, res.Completed)

	// Mixed groups: a miss, but the move still counts.
	res = guess([]string{"B1", "B2", "B3", "C1"})
	assert.False(t, res.OK)
	assert.Equal(t, 2, res.Moves)

	res = guess([]string{"B1", "B2", "B3", "B4"})
	assert.True(t, res.OK)
	res = guess([]string{"C1", "C2", "C3", "C4"})
	assert.True(t, res.OK)
	res = guess([]string{"D1", "D2", "D3", "D4"})
	assert.True(t, res.OK)
	assert.True(t, res.Completed)
	assert.Equal(t, 5, res.Moves)

	// Completion flushed the debounced write, so the run is loadable now.
	rec := do(t, s, http.MethodGet, "/runs/example", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[persist.RunSnapshot](t, rec)
	assert.True(t, snap.Run.Completed)
	assert.Equal(t, 5, snap.Run.Moves)
	assert.Len(t, snap.Run.FoundIDs, 4)
	assert.Equal(t, []string{"A4", "A1", "A3", "A2"}, snap.Run.FoundIDs[0])
	require.NotNil(t, snap.Run.Seed)
	assert.EqualValues(t, 7, *snap.Run.Seed)
}

func TestGuess_UnknownPuzzle404(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/puzzles/nope/guess",
		map[string]any{"selection": []string{"A1", "A2", "A3", "A4"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRuns_SaveLoadClear(t *testing.T) {
	s := newTestServer(t)

	snap := persist.RunSnapshot{
		TS: 1700000000000,
		Run: persist.SnapshotRun{
			Title:       "Example Demo: Learn the Connections",
			Moves:       3,
			SelectedIDs: []string{"B1"},
			FoundIDs:    [][]string{{"A1", "A2", "A3", "A4"}},
		},
	}
	rec := do(t, s, http.MethodPut, "/runs/example", snap)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/runs/example", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[persist.RunSnapshot](t, rec)
	assert.Equal(t, snap.TS, got.TS)
	assert.Equal(t, 3, got.Run.Moves)
	assert.Equal(t, [][]string{{"A1", "A2", "A3", "A4"}}, got.Run.FoundIDs)

	rec = do(t, s, http.MethodPost, "/runs/example/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/runs/example", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := decode[persist.RunSnapshot](t, rec)
	assert.Equal(t, 0, cleared.Run.Moves)
	assert.False(t, cleared.Run.Completed)
	assert.Empty(t, cleared.Run.FoundIDs)
}

func TestRuns_LoadMissing404(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/runs/never-played", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGatedRoutesRejectGuests(t *testing.T) {
	s := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/puzzles"},
		{http.MethodPost, "/generate"},
		{http.MethodPost, "/share/sms"},
		{http.MethodGet, "/auth/me"},
	} {
		rec := do(t, s, tc.method, tc.path, map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code,
			fmt.Sprintf("%s %s", tc.method, tc.path))
	}
}

func TestGuessSessions_SweptWhenIdle(t *testing.T) {
	ps := &puzzleServer{srv: newTestServer(t), sessions: make(map[string]*session)}

	fired := make(chan struct{}, 1)
	ps.debouncer("anon|p1").Trigger(func() { fired <- struct{}{} })
	ps.mu.Lock()
	ps.sessions["anon|p1"].used = time.Now().Add(-2 * sessionIdle)
	ps.mu.Unlock()

	// the next lookup sweeps the idle session
	ps.debouncer("anon|p2")
	ps.mu.Lock()
	_, sweptStillThere := ps.sessions["anon|p1"]
	_, liveKept := ps.sessions["anon|p2"]
	ps.mu.Unlock()
	assert.False(t, sweptStillThere)
	assert.True(t, liveKept)

	// the swept session's pending write ran instead of being dropped
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("pending write dropped with swept session")
	}
}

func TestGuessSessions_EvictedOnCompletion(t *testing.T) {
	s := newTestServer(t)

	for _, sel := range [][]string{
		{"A1", "A2", "A3", "A4"},
		{"B1", "B2", "B3", "B4"},
		{"C1", "C2", "C3", "C4"},
		{"D1", "D2", "D3", "D4"},
	} {
		rec := do(t, s, http.MethodPost, "/puzzles/example/guess",
			map[string]any{"selection": sel})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// completing the run flushed and dropped its session entry
	s.puzzles.mu.Lock()
	defer s.puzzles.mu.Unlock()
	assert.Empty(t, s.puzzles.sessions)
}

func TestNotFoundIsJSON(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/definitely/not/here", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["error"])
}
