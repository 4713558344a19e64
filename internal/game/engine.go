// internal/game/engine.go
//
// Run mutation logic for a single Connections session.
// Responsibilities:
//   - Create new runs seeded with puzzle display metadata.
//   - Track selection (select/deselect/clear) bounded by group size.
//   - Record evaluated guesses and drive state transitions:
//     fresh → in_progress → completed.
//
// Notes:
//   - Evaluation itself is a pure predicate in evaluate.go; the run only
//     records outcomes handed to it.
//   - Reset returns a run to fresh while keeping title/author, so the same
//     session object can host a replay.

package game

// NewRun constructs a fresh run carrying the puzzle's display metadata.
func NewRun(title, author string) *Run {
	return &Run{
		Title:       title,
		Author:      author,
		SelectedIDs: []string{},
		FoundIDs:    [][]string{},
	}
}

// Phase reports the run's lifecycle state, derived from its counters.
func (r *Run) Phase(gridCount int) Phase {
	switch {
	case r.Completed || (gridCount > 0 && len(r.FoundIDs) >= gridCount):
		return PhaseCompleted
	case r.Moves > 0 || len(r.FoundIDs) > 0:
		return PhaseInProgress
	default:
		return PhaseFresh
	}
}

// Select adds a word id to the current selection. Adding past groupSize ids
// or re-adding a present id is a no-op; solved words cannot be selected.
func (r *Run) Select(id string, groupSize int) {
	if len(r.SelectedIDs) >= groupSize || r.Completed {
		return
	}
	for _, s := range r.SelectedIDs {
		if s == id {
			return
		}
	}
	for _, found := range r.FoundIDs {
		for _, f := range found {
			if f == id {
				return
			}
		}
	}
	r.SelectedIDs = append(r.SelectedIDs, id)
}

// Deselect removes a word id from the current selection if present.
func (r *Run) Deselect(id string) {
	for i, s := range r.SelectedIDs {
		if s == id {
			r.SelectedIDs = append(r.SelectedIDs[:i], r.SelectedIDs[i+1:]...)
			return
		}
	}
}

// ClearSelection drops the whole current selection.
func (r *Run) ClearSelection() {
	r.SelectedIDs = r.SelectedIDs[:0]
}

// RecordGuess applies one evaluated guess. Moves increments whether or not
// the guess was correct; a correct guess appends its ids to FoundIDs (solve
// order is preserved) and clears the selection. gridCount decides when the
// run flips to completed.
func (r *Run) RecordGuess(ids []string, correct bool, gridCount int) {
	r.Moves++
	if !correct {
		return
	}
	found := append([]string(nil), ids...)
	r.FoundIDs = append(r.FoundIDs, found)
	r.SelectedIDs = r.SelectedIDs[:0]
	if gridCount > 0 && len(r.FoundIDs) >= gridCount {
		r.Completed = true
	}
}

// Reset returns the run to fresh: selection, found groups, move count,
// completion flag and seed are cleared; title/author metadata survives.
func (r *Run) Reset() {
	r.Moves = 0
	r.Completed = false
	r.SelectedIDs = []string{}
	r.FoundIDs = [][]string{}
	r.Seed = nil
}
