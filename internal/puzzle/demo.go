// internal/puzzle/demo.go
//
// Built-in demo board served under the id "example" so the game works
// before any puzzle document exists. Loaded once from the embedded asset.

package puzzle

import (
	"sync"

	"github.com/purpleboard/connections-server/assets"
)

// DemoID is the reserved puzzle id of the built-in demo board.
const DemoID = "example"

var (
	demoOnce sync.Once
	demo     *Puzzle
	demoErr  error
)

// Demo returns the canonical demo puzzle.
func Demo() (*Puzzle, error) {
	demoOnce.Do(func() {
		doc, err := assets.DemoPuzzleDoc()
		if err != nil {
			demoErr = err
			return
		}
		demo, demoErr = Normalize(DemoID, doc)
	})
	return demo, demoErr
}
