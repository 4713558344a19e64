// internal/puzzle/errors.go
//
// Typed failure for puzzle normalization. A NormalizationError is fatal for
// the puzzle that produced it: callers surface it as "puzzle unavailable"
// rather than attempting repair.

package puzzle

import "fmt"

// Kind classifies a normalization failure.
type Kind string

const (
	// KindMissingData means no usable word source was present at all.
	KindMissingData Kind = "missing-data"
	// KindInvalidShape means a structural invariant was violated.
	KindInvalidShape Kind = "invalid-shape"
)

// NormalizationError reports why a stored puzzle document could not be
// turned into a canonical Puzzle. Rule names the specific violated check.
type NormalizationError struct {
	Kind Kind
	Rule string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("puzzle: %s: %s", e.Kind, e.Rule)
}

func errMissing(rule string) *NormalizationError {
	return &NormalizationError{Kind: KindMissingData, Rule: rule}
}

func errShape(format string, args ...any) *NormalizationError {
	return &NormalizationError{Kind: KindInvalidShape, Rule: fmt.Sprintf(format, args...)}
}
