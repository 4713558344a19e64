// internal/puzzle/forms.go
//
// The three historical document shapes a stored puzzle can take, and the
// discriminating presence check that decides between them.
//
// Shapes (newest first):
//   - CategoriesForm: categories[] of {title, words[]} plus optional
//     gridSize/groupSize and a parallel wordsFlat[].
//   - FlatWordsForm:  a bare wordsFlat[] with gridSize/groupSize.
//   - WordObjectsForm: legacy flat words[] of {id, text, groupId} objects
//     (fixed 4×4 era).
//
// Decoding is deliberately lenient about leaf values (non-string word texts
// coerce to strings) but strict about structure: DecodeForm only decides
// which shape applies; Normalize validates the invariants.

package puzzle

import (
	"sort"
	"strconv"
	"strings"
)

// Form is one of the accepted raw document shapes.
type Form interface{ isForm() }

// CategoriesForm carries explicit categories; the authoritative modern shape.
type CategoriesForm struct {
	Title       string
	Description string
	GridSize    int
	GroupSize   int
	Categories  []Category
}

// FlatWordsForm carries only a flat word list, partitioned into contiguous
// runs of GroupSize at normalization time.
type FlatWordsForm struct {
	Title       string
	Description string
	GridSize    int
	GroupSize   int
	WordsFlat   []string
}

// WordObjectsForm is the legacy shape: pre-built word objects, 4 groups of 4.
type WordObjectsForm struct {
	Title       string
	Description string
	Words       []Word
}

func (CategoriesForm) isForm()  {}
func (FlatWordsForm) isForm()   {}
func (WordObjectsForm) isForm() {}

// DecodeForm inspects a raw document and returns the historical shape it
// matches. Precedence follows write-era: categories, then wordsFlat, then
// legacy word objects. A document matching none of the shapes fails with
// Kind missing-data.
func DecodeForm(raw map[string]any) (Form, error) {
	if raw == nil {
		return nil, errMissing("document is empty")
	}

	title := str(raw["title"])
	desc := str(raw["description"])

	if cats := coerceCategories(raw["categories"]); len(cats) > 0 {
		// Sizes stay 0 when the document omits them; Normalize infers
		// them from the category layout before validating.
		return CategoriesForm{
			Title:       title,
			Description: desc,
			GridSize:    intField(raw, "gridSize", 0),
			GroupSize:   intField(raw, "groupSize", 0),
			Categories:  cats,
		}, nil
	}

	if flat := coerceWordList(raw["wordsFlat"]); len(flat) > 0 {
		return FlatWordsForm{
			Title:       title,
			Description: desc,
			GridSize:    intField(raw, "gridSize", 0),
			GroupSize:   intField(raw, "groupSize", defaultGroupSize),
			WordsFlat:   flat,
		}, nil
	}

	if words := coerceWordObjects(raw["words"]); len(words) > 0 {
		return WordObjectsForm{Title: title, Description: desc, Words: words}, nil
	}

	return nil, errMissing("no categories, wordsFlat, or words field")
}

const (
	defaultGridSize  = 4
	defaultGroupSize = 4
)

// ---------------------------- leaf coercion --------------------------------

// toSequence accepts true arrays and the object-valued "array" artifacts
// some stored documents carry (maps keyed "0","1",...), returning elements
// in key order for the latter.
func toSequence(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, aerr := strconv.Atoi(keys[i])
			b, berr := strconv.Atoi(keys[j])
			if aerr == nil && berr == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, t[k])
		}
		return out
	default:
		return nil
	}
}

// str coerces a leaf scalar to a display string; anything non-string
// becomes "" rather than failing the whole document.
func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// wordText pulls a word string out of either a bare string or an object
// carrying one of the historical text keys.
func wordText(item any) string {
	switch t := item.(type) {
	case string:
		return t
	case map[string]any:
		for _, key := range []string{"text", "word", "value"} {
			if s := str(t[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

func coerceWordList(v any) []string {
	seq := toSequence(v)
	if seq == nil {
		return nil
	}
	out := make([]string, 0, len(seq))
	for _, item := range seq {
		out = append(out, wordText(item))
	}
	return out
}

func coerceCategories(v any) []Category {
	var out []Category
	for _, item := range toSequence(v) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title := str(m["title"])
		if title == "" {
			title = str(m["name"])
		}
		words := coerceWordList(m["words"])
		if title == "" && len(words) == 0 {
			continue
		}
		out = append(out, Category{Title: title, Words: words})
	}
	return out
}

func coerceWordObjects(v any) []Word {
	seq := toSequence(v)
	if seq == nil {
		return nil
	}
	out := make([]Word, 0, len(seq))
	for i, item := range seq {
		m, _ := item.(map[string]any)
		w := Word{Text: wordText(item)}
		if m != nil {
			w.ID = str(m["id"])
			if w.ID == "" {
				w.ID = str(m["key"])
			}
			w.GroupID = str(m["groupId"])
		}
		if w.ID == "" {
			w.ID = strconv.Itoa(i)
		}
		if w.GroupID == "" {
			// legacy boards interleaved groups round-robin
			w.GroupID = GroupLabel(i % defaultGridSize)
		}
		out = append(out, w)
	}
	return out
}

// intField reads an integer-valued field, tolerating float64 (JSON numbers)
// and string digits; def applies when the field is absent or unusable.
func intField(raw map[string]any, key string, def int) int {
	switch t := raw[key].(type) {
	case float64:
		if t == float64(int(t)) {
			return int(t)
		}
	case int:
		return t
	case int64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	return def
}
