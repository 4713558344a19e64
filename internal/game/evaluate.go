// internal/game/evaluate.go
//
// Grouping correctness check: decides whether a candidate selection is one
// complete, correct group of the puzzle. Pure predicate; the caller records
// the outcome on the run.

package game

import "github.com/purpleboard/connections-server/internal/puzzle"

// Evaluate reports whether selection is exactly one full group of p.
//
// Rules:
//   - A selection whose length differs from p.GroupSize never succeeds.
//   - Ids that don't resolve to a puzzle word doom the match (they cannot
//     share a group with resolved ids) but never panic.
//   - Success requires set equality with the group's full membership: all
//     ids map to one groupId AND the distinct selected ids are exactly that
//     group's ids. A duplicated id therefore fails, as does any subset or
//     superset of a larger group.
func Evaluate(p *puzzle.Puzzle, selection []string) Result {
	if p == nil || len(selection) != p.GroupSize {
		return Result{}
	}

	byID := make(map[string]string, len(p.Words))
	for _, w := range p.Words {
		byID[w.ID] = w.GroupID
	}

	gid := ""
	distinct := make(map[string]struct{}, len(selection))
	for _, id := range selection {
		g, ok := byID[id]
		if !ok {
			return Result{}
		}
		if gid == "" {
			gid = g
		} else if g != gid {
			return Result{}
		}
		distinct[id] = struct{}{}
	}

	// Exact membership: guards against duplicate ids in the selection and
	// against partial matches once group sizes vary.
	members := p.WordsInGroup(gid)
	if len(distinct) != len(members) {
		return Result{}
	}
	for _, id := range members {
		if _, ok := distinct[id]; !ok {
			return Result{}
		}
	}
	return Result{OK: true, GroupID: gid}
}
