// internal/generate/generate.go
//
// Contract for the puzzle content generator. The generator is a black box
// to the game core: category names and seed words go in, generated word
// lists come back. The production implementation (client.go) calls an
// OpenAI-compatible chat completions API.

package generate

import "context"

// Mode selects how much of the puzzle the generator should fill.
type Mode string

const (
	ModeAll     Mode = "all"     // generate every category
	ModeMissing Mode = "missing" // top up categories that are short on words
	ModeSingle  Mode = "single"  // regenerate one target category
)

// InputCategory is one category as the author has it so far.
type InputCategory struct {
	Name      string   `json:"name"`
	SeedWords []string `json:"seedWords"`
	Need      int      `json:"need"` // how many more words this category needs
}

// Request describes the puzzle slots to fill.
type Request struct {
	Title         string          `json:"title"`
	CategoryCount int             `json:"categoryCount"`
	WordCount     int             `json:"wordCount"`
	Mode          Mode            `json:"mode"`
	TargetIndex   int             `json:"targetIndex"` // -1 unless ModeSingle
	Categories    []InputCategory `json:"categories"`
}

// OutputCategory is one generated category.
type OutputCategory struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

// Response carries the generated puzzle content.
type Response struct {
	Title      string           `json:"title"`
	Categories []OutputCategory `json:"categories"`
}

// Generator produces puzzle content.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}
