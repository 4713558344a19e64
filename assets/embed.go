package assets

import (
	"embed"
	"encoding/json"
)

//go:embed demo_puzzle.json
var fs embed.FS

// DemoPuzzleDoc returns the embedded demo board as a raw document, the same
// shape a stored puzzle document has.
func DemoPuzzleDoc() (map[string]any, error) {
	b, err := fs.ReadFile("demo_puzzle.json")
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
