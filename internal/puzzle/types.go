// internal/puzzle/types.go
//
// Core type definitions for the puzzle domain.
// Defines:
//   - Word: one tile on the board, tagged with its hidden group.
//   - Category: a titled set of words sharing a connection.
//   - Puzzle: the canonical, normalized puzzle consumed by gameplay logic.

package puzzle

// Word is a single board tile. ID is unique within its puzzle and GroupID
// names the hidden group the word belongs to ("A", "B", ...).
type Word struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	GroupID string `json:"groupId"`
}

// Category is one of the hidden clusters: a display title plus the texts of
// the words that belong to it. Position in Puzzle.Categories corresponds 1:1
// to a group label (index 0 → "A", 1 → "B", ...).
type Category struct {
	Title string   `json:"title"`
	Words []string `json:"words"`
}

// Puzzle is the canonical in-memory puzzle shape. Stored documents come in
// several historical forms; Normalize produces this one regardless of input.
type Puzzle struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	GroupSize   int        `json:"groupSize"` // words per group
	GridCount   int        `json:"gridCount"` // number of groups
	Words       []Word     `json:"words"`     // length GroupSize*GridCount
	Categories  []Category `json:"categories"`
}

// groupLabels covers the maximum supported grid count (10 groups).
const groupLabels = "ABCDEFGHIJ"

// GroupLabel returns the deterministic group id for a category position.
func GroupLabel(i int) string {
	if i < 0 || i >= len(groupLabels) {
		return ""
	}
	return string(groupLabels[i])
}

// GroupIDs lists the puzzle's group labels in category order.
func (p *Puzzle) GroupIDs() []string {
	out := make([]string, p.GridCount)
	for i := range out {
		out[i] = GroupLabel(i)
	}
	return out
}

// WordsInGroup returns the ids of every word tagged with gid, in board order.
func (p *Puzzle) WordsInGroup(gid string) []string {
	var out []string
	for _, w := range p.Words {
		if w.GroupID == gid {
			out = append(out, w.ID)
		}
	}
	return out
}

// GroupName returns the category title for a group id, or "" when unknown.
func (p *Puzzle) GroupName(gid string) string {
	for i, c := range p.Categories {
		if GroupLabel(i) == gid {
			return c.Title
		}
	}
	return ""
}
