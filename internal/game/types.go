// internal/game/types.go
//
// Core type definitions for the gameplay engine.
// Defines:
//   - Phase: coarse lifecycle of a run (fresh/in_progress/completed).
//   - Result: outcome of evaluating one selection against a puzzle.
//   - Run: per-player, per-puzzle session state.

package game

// Phase is the coarse lifecycle state of a Run. Derived from the run's
// counters, never stored.
type Phase string

const (
	PhaseFresh      Phase = "fresh"       // no move made yet
	PhaseInProgress Phase = "in_progress" // at least one guess, not all groups found
	PhaseCompleted  Phase = "completed"   // every group found
)

// Result is the outcome of evaluating a selection. GroupID is set only when
// OK is true.
type Result struct {
	OK      bool   `json:"ok"`
	GroupID string `json:"groupId,omitempty"`
}

// Run holds the state of a single play session on one puzzle.
type Run struct {
	Title       string     // puzzle title, copied at session start
	Author      string     // puzzle author, copied at session start
	Moves       int        // guesses made; never decreases within a session
	Completed   bool       // true once all groups are found
	SelectedIDs []string   // currently highlighted word ids, 0..groupSize
	FoundIDs    [][]string // solved groups in solve order, each exactly groupSize ids
	Seed        *int64     // shuffle seed for this board layout, nil until chosen
}
