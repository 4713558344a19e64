// internal/puzzle/normalize.go
//
// Turns any of the historical stored puzzle shapes into the canonical
// Puzzle. Structural invariants are validated strictly (a violation fails
// with a NormalizationError, never a silent fix-up); leaf scalar values are
// coerced defensively so a slightly mangled document still renders.
//
// Invariants enforced:
//   - gridCount and groupSize are integers in 2..10
//   - exactly gridCount categories, each with groupSize words
//   - len(words) == gridCount * groupSize
//   - word ids unique within the puzzle

package puzzle

import "fmt"

const (
	minDim = 2
	maxDim = 10
)

// Normalize maps a raw stored document into the canonical Puzzle shape.
// id is the document id the puzzle was loaded under.
func Normalize(id string, raw map[string]any) (*Puzzle, error) {
	form, err := DecodeForm(raw)
	if err != nil {
		return nil, err
	}
	return FromForm(id, form)
}

// FromForm builds a canonical Puzzle out of an already-decoded shape.
func FromForm(id string, form Form) (*Puzzle, error) {
	switch f := form.(type) {
	case CategoriesForm:
		return fromCategories(id, f)
	case FlatWordsForm:
		return fromFlat(id, f)
	case WordObjectsForm:
		return fromWordObjects(id, f)
	default:
		return nil, errMissing("unrecognized document shape")
	}
}

// fromCategories derives group labels from category position and synthesizes
// word ids as "<label><n>" (A1..A4, B1..), matching historical documents.
func fromCategories(id string, f CategoriesForm) (*Puzzle, error) {
	gridCount := f.GridSize
	if gridCount == 0 {
		gridCount = len(f.Categories)
	}
	groupSize := f.GroupSize
	if groupSize == 0 && len(f.Categories) > 0 {
		groupSize = len(f.Categories[0].Words)
	}
	if err := checkDims(gridCount, groupSize); err != nil {
		return nil, err
	}
	if len(f.Categories) != gridCount {
		return nil, errShape("categories.length %d must equal gridCount %d", len(f.Categories), gridCount)
	}

	p := &Puzzle{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		GroupSize:   groupSize,
		GridCount:   gridCount,
		Categories:  f.Categories,
	}
	for gi, c := range f.Categories {
		if len(c.Words) != groupSize {
			return nil, errShape("categories[%d].words must have %d items, got %d", gi, groupSize, len(c.Words))
		}
		gid := GroupLabel(gi)
		for wi, text := range c.Words {
			p.Words = append(p.Words, Word{
				ID:      fmt.Sprintf("%s%d", gid, wi+1),
				Text:    text,
				GroupID: gid,
			})
		}
	}
	return p, validate(p)
}

// fromFlat partitions the flat list into contiguous runs of groupSize,
// assigning group labels by run index. Category titles are unknown in this
// shape and left empty.
func fromFlat(id string, f FlatWordsForm) (*Puzzle, error) {
	groupSize := f.GroupSize
	if groupSize == 0 {
		groupSize = defaultGroupSize
	}
	gridCount := f.GridSize
	if gridCount == 0 && groupSize > 0 {
		gridCount = len(f.WordsFlat) / groupSize
	}

	if err := checkDims(gridCount, groupSize); err != nil {
		return nil, err
	}
	if len(f.WordsFlat) != gridCount*groupSize {
		return nil, errShape("wordsFlat length %d must equal gridCount*groupSize %d", len(f.WordsFlat), gridCount*groupSize)
	}

	p := &Puzzle{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		GroupSize:   groupSize,
		GridCount:   gridCount,
	}
	for gi := 0; gi < gridCount; gi++ {
		gid := GroupLabel(gi)
		cat := Category{}
		for wi := 0; wi < groupSize; wi++ {
			text := f.WordsFlat[gi*groupSize+wi]
			cat.Words = append(cat.Words, text)
			p.Words = append(p.Words, Word{
				ID:      fmt.Sprintf("%s%d", gid, wi+1),
				Text:    text,
				GroupID: gid,
			})
		}
		p.Categories = append(p.Categories, cat)
	}
	return p, validate(p)
}

// fromWordObjects handles the legacy 4×4 shape of pre-built word objects.
// Dimensions are reconstructed from the distinct group labels present.
func fromWordObjects(id string, f WordObjectsForm) (*Puzzle, error) {
	byGroup := map[string][]string{}
	var order []string
	for _, w := range f.Words {
		if _, seen := byGroup[w.GroupID]; !seen {
			order = append(order, w.GroupID)
		}
		byGroup[w.GroupID] = append(byGroup[w.GroupID], w.Text)
	}
	gridCount := len(order)
	if gridCount == 0 {
		return nil, errMissing("words carry no group labels")
	}
	groupSize := len(f.Words) / gridCount

	p := &Puzzle{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		GroupSize:   groupSize,
		GridCount:   gridCount,
		Words:       f.Words,
	}
	if err := checkDims(gridCount, groupSize); err != nil {
		return nil, err
	}
	for _, gid := range order {
		if len(byGroup[gid]) != groupSize {
			return nil, errShape("group %q has %d words, want %d", gid, len(byGroup[gid]), groupSize)
		}
		p.Categories = append(p.Categories, Category{Words: byGroup[gid]})
	}
	return p, validate(p)
}

func checkDims(gridCount, groupSize int) error {
	if gridCount < minDim || gridCount > maxDim {
		return errShape("gridCount out of range (%d..%d): %d", minDim, maxDim, gridCount)
	}
	if groupSize < minDim || groupSize > maxDim {
		return errShape("groupSize out of range (%d..%d): %d", minDim, maxDim, groupSize)
	}
	return nil
}

// validate re-checks the canonical invariants regardless of source shape.
func validate(p *Puzzle) error {
	want := p.GridCount * p.GroupSize
	if len(p.Words) != want {
		return errShape("words length %d must equal gridCount*groupSize %d", len(p.Words), want)
	}
	if len(p.Categories) != p.GridCount {
		return errShape("categories length %d must equal gridCount %d", len(p.Categories), p.GridCount)
	}
	seen := make(map[string]struct{}, len(p.Words))
	for _, w := range p.Words {
		if _, dup := seen[w.ID]; dup {
			return errShape("duplicate word id %q", w.ID)
		}
		seen[w.ID] = struct{}{}
	}
	return nil
}
