package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purpleboard/connections-server/internal/docstore"
	"github.com/purpleboard/connections-server/internal/identity"
	"github.com/purpleboard/connections-server/internal/kv"
)

// failingDocs simulates an unreachable remote store.
type failingDocs struct{}

func (failingDocs) Get(ctx context.Context, path string) (docstore.Fields, error) {
	return nil, errors.New("network down")
}
func (failingDocs) Set(ctx context.Context, path string, fields docstore.Fields, merge bool) error {
	return errors.New("network down")
}
func (failingDocs) Delete(ctx context.Context, path string) error {
	return errors.New("network down")
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func sampleSnapshot(ts int64) RunSnapshot {
	seed := int64(777)
	return RunSnapshot{
		TS: ts,
		Run: SnapshotRun{
			Title:       "Classic",
			Author:      "pat",
			Moves:       3,
			Completed:   false,
			SelectedIDs: []string{"B1"},
			FoundIDs:    [][]string{{"A1", "A2", "A3", "A4"}},
			Seed:        &seed,
		},
	}
}

func TestSaveLoad_AnonymousIsLocalOnly(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	c := NewCoordinator(kv.NewMemory(), docs, identity.Anonymous)
	c.Now = fixedClock(5000)

	c.Save(ctx, "p1", sampleSnapshot(1000))

	got := c.Load(ctx, "p1")
	require.NotNil(t, got)
	assert.Equal(t, int64(1000), got.TS)
	assert.Equal(t, 3, got.Run.Moves)
	assert.Equal(t, [][]string{{"A1", "A2", "A3", "A4"}}, got.Run.FoundIDs)
	require.NotNil(t, got.Run.Seed)
	assert.Equal(t, int64(777), *got.Run.Seed)

	// no remote document was created for the anonymous session
	_, err := docs.Get(ctx, "users/")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestSave_SignedInWritesRemoteAndMeta(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	ident := identity.Static{User: &identity.User{UID: "u1"}}
	c := NewCoordinator(kv.NewMemory(), docs, ident)
	c.Now = fixedClock(5000)

	c.Save(ctx, "p1", sampleSnapshot(1000))

	doc, err := docs.Get(ctx, "users/u1/runs/p1")
	require.NoError(t, err)
	assert.Equal(t, "Classic", doc["title"])
	assert.Equal(t, false, doc["completed"])
	assert.NotEmpty(t, doc["updatedAt"])

	run, ok := doc["run"].(map[string]any)
	require.True(t, ok)
	// nested arrays are packed for the remote store
	packed, ok := run["foundIds"].([]any)
	require.True(t, ok)
	require.Len(t, packed, 1)
	_, isMap := packed[0].(map[string]any)
	assert.True(t, isMap, "found group should be wrapped in a container")

	meta, err := docs.Get(ctx, "users/u1")
	require.NoError(t, err)
	assert.Equal(t, "p1", meta["lastActive"])
}

func TestLoad_CloudWinsAndMirrorsLocal(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	local := kv.NewMemory()
	ident := identity.Static{User: &identity.User{UID: "u1"}}

	// seed a stale local copy (written while the remote was unreachable)
	// and a fresher cloud copy
	offline := NewCoordinator(local, failingDocs{}, ident)
	offline.Now = fixedClock(1)
	stale := sampleSnapshot(1000)
	stale.Run.Moves = 1
	offline.Save(ctx, "p1", stale)

	cloudWriter := NewCoordinator(kv.NewMemory(), docs, ident)
	cloudWriter.Now = fixedClock(2)
	fresh := sampleSnapshot(2000)
	fresh.Run.Moves = 9
	cloudWriter.Save(ctx, "p1", fresh)

	c := NewCoordinator(local, docs, ident)
	got := c.Load(ctx, "p1")
	require.NotNil(t, got)
	assert.Equal(t, 9, got.Run.Moves)
	assert.Equal(t, [][]string{{"A1", "A2", "A3", "A4"}}, got.Run.FoundIDs)

	// local mirror was refreshed with the cloud copy
	mirror := NewCoordinator(local, failingDocs{}, ident).Load(ctx, "p1")
	require.NotNil(t, mirror)
	assert.Equal(t, 9, mirror.Run.Moves)
}

func TestLoad_RemoteFailureFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	local := kv.NewMemory()
	ident := identity.Static{User: &identity.User{UID: "u1"}}

	// local copy exists from a previous session of the same user
	seeded := NewCoordinator(local, failingDocs{}, ident)
	seeded.Save(ctx, "p1", sampleSnapshot(1000))

	c := NewCoordinator(local, failingDocs{}, ident)
	got := c.Load(ctx, "p1")
	require.NotNil(t, got, "remote failure must fall back, not error")
	assert.Equal(t, 3, got.Run.Moves)
}

func TestLoad_LocalSnapshotsAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	local := kv.NewMemory()

	// alice plays while the remote is unreachable; her progress lands locally
	alice := NewCoordinator(local, failingDocs{}, identity.Static{User: &identity.User{UID: "alice"}})
	snap := sampleSnapshot(1000)
	snap.Run.Title = "Alice's run"
	snap.Run.Moves = 7
	alice.Save(ctx, "p1", snap)

	// bob's remote read also fails, but the fallback must be HIS local
	// snapshot, not alice's
	bob := NewCoordinator(local, failingDocs{}, identity.Static{User: &identity.User{UID: "bob"}})
	assert.Nil(t, bob.Load(ctx, "p1"))

	// guests on the same host don't see it either
	guest := NewCoordinator(local, failingDocs{}, identity.Anonymous)
	assert.Nil(t, guest.Load(ctx, "p1"))

	// the owner still gets it back
	got := alice.Load(ctx, "p1")
	require.NotNil(t, got)
	assert.Equal(t, "Alice's run", got.Run.Title)
	assert.Equal(t, 7, got.Run.Moves)
}

func TestSave_RemoteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	ident := identity.Static{User: &identity.User{UID: "u1"}}
	c := NewCoordinator(kv.NewMemory(), failingDocs{}, ident)

	// must not panic or surface the failure; local copy still lands
	c.Save(ctx, "p1", sampleSnapshot(1000))
	got := c.Load(ctx, "p1")
	require.NotNil(t, got)
	assert.Equal(t, int64(1000), got.TS)
}

func TestClear_SoftResets(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	ident := identity.Static{User: &identity.User{UID: "u1"}}
	c := NewCoordinator(kv.NewMemory(), docs, ident)
	c.Now = fixedClock(9000)

	c.Save(ctx, "p1", sampleSnapshot(1000))
	c.Clear(ctx, "p1")

	// local snapshot is fresh and not-completed, prior progress gone
	local := c.Load(ctx, "p1")
	require.NotNil(t, local)
	assert.False(t, local.Run.Completed)
	assert.Equal(t, int64(9000), local.TS)
	assert.Empty(t, local.Run.FoundIDs)

	// remote doc still exists but is flagged deleted, so it reads as absent
	doc, err := docs.Get(ctx, "users/u1/runs/p1")
	require.NoError(t, err)
	assert.Equal(t, true, doc["deleted"])
}

func TestClear_AnonymousSkipsRemote(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	c := NewCoordinator(kv.NewMemory(), docs, identity.Anonymous)
	c.Now = fixedClock(9000)

	c.Save(ctx, "p1", sampleSnapshot(1000))
	c.Clear(ctx, "p1")

	got := c.Load(ctx, "p1")
	require.NotNil(t, got)
	assert.False(t, got.Run.Completed)
	assert.Equal(t, int64(9000), got.TS)
	assert.Empty(t, got.Run.FoundIDs)
}

func TestLoad_FieldLevelDefaults(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	ident := identity.Static{User: &identity.User{UID: "u1"}}

	// a sparse document written by an older client
	require.NoError(t, docs.Set(ctx, "users/u1/runs/p1", docstore.Fields{
		"ts":    float64(123),
		"title": "Top Level Title",
		"run": map[string]any{
			"moves": "not a number",
			"seed":  "also not a number",
		},
	}, false))

	c := NewCoordinator(kv.NewMemory(), docs, ident)
	got := c.Load(ctx, "p1")
	require.NotNil(t, got)
	assert.Equal(t, int64(123), got.TS)
	assert.Equal(t, "Top Level Title", got.Run.Title, "falls back to top-level mirror")
	assert.Zero(t, got.Run.Moves)
	assert.False(t, got.Run.Completed)
	assert.NotNil(t, got.Run.SelectedIDs)
	assert.Empty(t, got.Run.SelectedIDs)
	assert.Empty(t, got.Run.FoundIDs)
	assert.Nil(t, got.Run.Seed)
}

func TestLoad_LegacyFoundIDsFromRemote(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	ident := identity.Static{User: &identity.User{UID: "u1"}}

	require.NoError(t, docs.Set(ctx, "users/u1/runs/p1", docstore.Fields{
		"ts": float64(5),
		"run": map[string]any{
			"foundIds": []any{[]any{"A1", "A2"}, []any{"B1", "B2"}},
		},
	}, false))

	c := NewCoordinator(kv.NewMemory(), docs, ident)
	got := c.Load(ctx, "p1")
	require.NotNil(t, got)
	assert.Equal(t, [][]string{{"A1", "A2"}, {"B1", "B2"}}, got.Run.FoundIDs)
}

func TestLoad_NothingAnywhere(t *testing.T) {
	c := NewCoordinator(kv.NewMemory(), docstore.NewMemory(), identity.Anonymous)
	assert.Nil(t, c.Load(context.Background(), "missing"))
}
