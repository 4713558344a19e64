// internal/persist/coordinator.go
//
// Synchronizes run snapshots between a local (single-device, always
// available) store and a remote (cross-device, auth-gated) document store.
//
// Policy, in order of importance:
//   - Local writes are best-effort: quota/privacy failures are swallowed so
//     gameplay never notices.
//   - Cloud sync is a privilege of signed-in users. Anonymous sessions stop
//     at the local write, so no orphaned anonymous documents accumulate.
//   - Remote write failures are logged, never returned: a dropped sync must
//     not block play.
//   - On load with a signed-in user, a reachable cloud copy wins over local
//     and is mirrored back into the local store; any remote failure falls
//     back to local.
//   - Clear is a soft delete: local gets a fresh empty snapshot, the remote
//     doc is flagged deleted rather than removed (keeps history, avoids
//     racing a concurrent debounced write).
//
// Identity is queried at the start of each call, not observed via a
// standing subscription; the coordinator holds no state between calls.

package persist

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/purpleboard/connections-server/internal/docstore"
	"github.com/purpleboard/connections-server/internal/identity"
	"github.com/purpleboard/connections-server/internal/kv"
)

// Coordinator mirrors run snapshots between the two stores. Construct with
// NewCoordinator; all collaborators are injected.
type Coordinator struct {
	local kv.Store
	docs  docstore.Store
	ident identity.Provider

	// Now supplies timestamps; overridable in tests.
	Now func() time.Time
}

// NewCoordinator wires a coordinator to its stores and identity source.
func NewCoordinator(local kv.Store, docs docstore.Store, ident identity.Provider) *Coordinator {
	return &Coordinator{local: local, docs: docs, ident: ident, Now: time.Now}
}

// localKey scopes the local snapshot to its owner. The browser original's
// localStorage was per-device by construction; on a shared host the owner
// segment is what keeps one player's mirror out of another's fallback path.
// Guests share the anonymous bucket, like tabs of one browser profile.
func localKey(uid, puzzleID string) string {
	if uid == "" {
		uid = "anon"
	}
	return "connections:" + uid + ":" + puzzleID
}

func userPath(uid string) string { return "users/" + uid }
func runPath(uid, puzzleID string) string {
	return "users/" + uid + "/runs/" + puzzleID
}

// Save persists a snapshot: local first (always), then remote when a user
// is signed in. Never returns an error; persistence failures degrade to
// "play continues, sync deferred".
func (c *Coordinator) Save(ctx context.Context, puzzleID string, snap RunSnapshot) {
	if snap.TS == 0 {
		snap.TS = c.Now().UnixMilli()
	}
	user := c.ident.CurrentUser()
	c.localSave(uidOf(user), puzzleID, snap)
	if user == nil {
		return
	}

	payload := docstore.Fields{
		"run": docstore.Fields{
			"title":       snap.Run.Title,
			"author":      snap.Run.Author,
			"moves":       snap.Run.Moves,
			"completed":   snap.Run.Completed,
			"selectedIds": anySlice(snap.Run.SelectedIDs),
			"foundIds":    PackFoundIDs(snap.Run.FoundIDs),
		},
		"ts":        snap.TS,
		"title":     snap.Run.Title,
		"author":    snap.Run.Author,
		"completed": snap.Run.Completed,
		"deleted":   false,
		"updatedAt": c.Now().UTC().Format(time.RFC3339),
	}
	if snap.Run.Seed != nil {
		payload["run"].(docstore.Fields)["seed"] = *snap.Run.Seed
	}

	meta := docstore.Fields{
		"lastActive":          puzzleID,
		"lastActiveUpdatedAt": c.Now().UTC().Format(time.RFC3339),
	}

	if err := c.docs.Set(ctx, runPath(user.UID, puzzleID), payload, true); err != nil {
		log.Warn().Err(err).Str("puzzleId", puzzleID).Msg("remote run write failed")
		return
	}
	if err := c.docs.Set(ctx, userPath(user.UID), meta, true); err != nil {
		log.Warn().Err(err).Str("uid", user.UID).Msg("user meta write failed")
	}
}

// Load returns the freshest known snapshot, or nil when none exists. With a
// signed-in user the remote copy is authoritative when reachable and is
// mirrored into the local store; otherwise (or on any remote failure) the
// local snapshot is used.
func (c *Coordinator) Load(ctx context.Context, puzzleID string) *RunSnapshot {
	user := c.ident.CurrentUser()
	if user != nil {
		fields, err := c.docs.Get(ctx, runPath(user.UID, puzzleID))
		switch {
		case err == nil:
			if snap := readRemote(fields); snap != nil {
				c.localSave(user.UID, puzzleID, *snap)
				return snap
			}
		case !errors.Is(err, docstore.ErrNotFound):
			log.Warn().Err(err).Str("puzzleId", puzzleID).Msg("remote run read failed")
		}
	}
	return c.localLoad(uidOf(user), puzzleID)
}

// Clear soft-resets the persisted run: the local snapshot becomes a fresh
// not-completed one, and the remote doc (if any user) is marked deleted
// with a refreshed timestamp instead of being removed.
func (c *Coordinator) Clear(ctx context.Context, puzzleID string) {
	user := c.ident.CurrentUser()
	c.localSave(uidOf(user), puzzleID, RunSnapshot{
		TS:  c.Now().UnixMilli(),
		Run: SnapshotRun{Completed: false, SelectedIDs: []string{}, FoundIDs: [][]string{}},
	})
	if user == nil {
		return
	}
	flag := docstore.Fields{
		"deleted":   true,
		"updatedAt": c.Now().UTC().Format(time.RFC3339),
	}
	if err := c.docs.Set(ctx, runPath(user.UID, puzzleID), flag, true); err != nil {
		log.Warn().Err(err).Str("puzzleId", puzzleID).Msg("remote run clear failed")
	}
}

// ----------------------------- local mirror --------------------------------

func uidOf(user *identity.User) string {
	if user == nil {
		return ""
	}
	return user.UID
}

func (c *Coordinator) localSave(uid, puzzleID string, snap RunSnapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.local.Set(localKey(uid, puzzleID), string(b)); err != nil {
		log.Debug().Err(err).Str("puzzleId", puzzleID).Msg("local run write failed")
	}
}

func (c *Coordinator) localLoad(uid, puzzleID string) *RunSnapshot {
	raw, ok := c.local.Get(localKey(uid, puzzleID))
	if !ok {
		return nil
	}
	var snap RunSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil
	}
	if snap.Run.SelectedIDs == nil {
		snap.Run.SelectedIDs = []string{}
	}
	if snap.Run.FoundIDs == nil {
		snap.Run.FoundIDs = [][]string{}
	}
	return &snap
}

// ----------------------------- remote decode -------------------------------

// readRemote maps a remote document into a snapshot, substituting a default
// for every absent or mistyped field rather than propagating nulls. A doc
// flagged deleted reads as absent.
func readRemote(fields docstore.Fields) *RunSnapshot {
	if deleted, _ := fields["deleted"].(bool); deleted {
		return nil
	}
	rawRun, _ := fields["run"].(map[string]any)

	snap := &RunSnapshot{
		TS: intOr(fields["ts"], 0),
		Run: SnapshotRun{
			Title:       strOr(rawRun["title"], strOr(fields["title"], "")),
			Author:      strOr(rawRun["author"], strOr(fields["author"], "")),
			Moves:       int(intOr(rawRun["moves"], 0)),
			Completed:   boolOr(rawRun["completed"]),
			SelectedIDs: stringSlice(anySlice(rawRun["selectedIds"])),
			FoundIDs:    UnpackFoundIDs(rawRun["foundIds"]),
		},
	}
	if snap.Run.SelectedIDs == nil {
		snap.Run.SelectedIDs = []string{}
	}
	if seed, ok := numOr(rawRun["seed"]); ok {
		snap.Run.Seed = &seed
	}
	return snap
}

func strOr(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func boolOr(v any) bool {
	b, _ := v.(bool)
	return b
}

func intOr(v any, def int64) int64 {
	if n, ok := numOr(v); ok {
		return n
	}
	return def
}

func numOr(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int64:
		return t, true
	case int:
		return int64(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
	}
	return 0, false
}
