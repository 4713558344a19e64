// internal/docstore/docstore.go
//
// Generic document store abstraction the persistence layer talks to.
// Documents are flat JSON-serializable field maps addressed by slash paths
// ("users/u1/runs/p1"). Implementations may be backed by memory (tests) or
// SQLite (this server's durable store).

package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = errors.New("docstore: not found")

// Fields is one document's payload.
type Fields = map[string]any

// Store defines the document persistence interface.
type Store interface {
	// Get reads the document at path, or ErrNotFound.
	Get(ctx context.Context, path string) (Fields, error)

	// Set writes fields at path. With merge true, fields are overlaid on any
	// existing document; otherwise the document is replaced.
	Set(ctx context.Context, path string, fields Fields, merge bool) error

	// Delete removes the document at path. Missing documents are not an error.
	Delete(ctx context.Context, path string) error
}
