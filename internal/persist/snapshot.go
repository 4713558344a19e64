// internal/persist/snapshot.go
//
// Serialized run forms and the packing rules the remote document store
// needs. The store's array fields cannot nest arrays directly, so the
// solved-groups list ([][]string) is packed as [{items: [...]}, ...] before
// a remote write and unpacked symmetrically on read. Unpacking also accepts
// the legacy raw array-of-arrays shape written before packing existed.

package persist

import (
	"github.com/purpleboard/connections-server/internal/game"
)

// SnapshotRun is the persisted subset of a run. Every field is optional on
// read; readRemote substitutes defaults for anything missing.
type SnapshotRun struct {
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Moves       int        `json:"moves"`
	Completed   bool       `json:"completed"`
	SelectedIDs []string   `json:"selectedIds"`
	FoundIDs    [][]string `json:"foundIds"`
	Seed        *int64     `json:"seed,omitempty"`
}

// RunSnapshot is the storage-facing envelope: the run plus the client
// timestamp (epoch millis) of the state it captures.
type RunSnapshot struct {
	TS  int64       `json:"ts"`
	Run SnapshotRun `json:"run"`
}

// SnapshotOf captures a run into its persisted form at time ts.
func SnapshotOf(r *game.Run, ts int64) RunSnapshot {
	found := make([][]string, 0, len(r.FoundIDs))
	for _, set := range r.FoundIDs {
		found = append(found, append([]string(nil), set...))
	}
	return RunSnapshot{
		TS: ts,
		Run: SnapshotRun{
			Title:       r.Title,
			Author:      r.Author,
			Moves:       r.Moves,
			Completed:   r.Completed,
			SelectedIDs: append([]string{}, r.SelectedIDs...),
			FoundIDs:    found,
			Seed:        r.Seed,
		},
	}
}

// ToRun rebuilds an in-memory run from the persisted form.
func (s SnapshotRun) ToRun() *game.Run {
	r := game.NewRun(s.Title, s.Author)
	r.Moves = s.Moves
	r.Completed = s.Completed
	if len(s.SelectedIDs) > 0 {
		r.SelectedIDs = append([]string{}, s.SelectedIDs...)
	}
	for _, set := range s.FoundIDs {
		r.FoundIDs = append(r.FoundIDs, append([]string(nil), set...))
	}
	r.Seed = s.Seed
	return r
}

// PackFoundIDs wraps each solved group in a single-field container so the
// remote store never sees an array directly inside an array.
func PackFoundIDs(found [][]string) []any {
	out := make([]any, 0, len(found))
	for _, set := range found {
		items := make([]any, len(set))
		for i, id := range set {
			items[i] = id
		}
		out = append(out, map[string]any{"items": items})
	}
	return out
}

// UnpackFoundIDs reverses PackFoundIDs. It accepts the packed shape, the
// legacy raw array-of-arrays, and the typed [][]string that in-process
// stores hand back unchanged. Anything unrecognizable reads as empty.
func UnpackFoundIDs(raw any) [][]string {
	switch t := raw.(type) {
	case nil:
		return [][]string{}
	case [][]string:
		out := make([][]string, 0, len(t))
		for _, set := range t {
			out = append(out, append([]string(nil), set...))
		}
		return out
	case []any:
		out := make([][]string, 0, len(t))
		for _, item := range t {
			switch e := item.(type) {
			case []any:
				out = append(out, stringSlice(e))
			case []string:
				out = append(out, append([]string(nil), e...))
			case map[string]any:
				out = append(out, stringSlice(anySlice(e["items"])))
			default:
				out = append(out, []string{})
			}
		}
		return out
	default:
		return [][]string{}
	}
}

func anySlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

func stringSlice(seq []any) []string {
	out := make([]string, 0, len(seq))
	for _, v := range seq {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
