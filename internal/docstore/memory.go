// internal/docstore/memory.go
//
// In-memory implementation of the document Store interface.
// This is a lightweight persistence layer used in development/testing, or
// when durability is not required.
//
// Characteristics:
//   - Stores field maps keyed by path.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Documents are deep-copied on the way in and out, so callers can't
//     mutate stored state through shared maps.

package docstore

import (
	"context"
	"sync"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu   sync.RWMutex
	docs map[string]Fields
}

// NewMemory constructs a new in-memory Store.
func NewMemory() Store {
	return &memory{docs: make(map[string]Fields)}
}

func (m *memory) Get(ctx context.Context, path string) (Fields, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return copyFields(doc), nil
}

func (m *memory) Set(ctx context.Context, path string, fields Fields, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	incoming := copyFields(fields)
	if merge {
		if existing, ok := m.docs[path]; ok {
			merged := copyFields(existing)
			for k, v := range incoming {
				merged[k] = v
			}
			m.docs[path] = merged
			return nil
		}
	}
	m.docs[path] = incoming
	return nil
}

func (m *memory) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, path)
	return nil
}

// copyFields shallow-copies nested maps and slices one level deep, which is
// as deep as stored documents nest in practice.
func copyFields(in Fields) Fields {
	out := make(Fields, len(in))
	for k, v := range in {
		switch t := v.(type) {
		case map[string]any:
			out[k] = copyFields(t)
		case []any:
			out[k] = append([]any(nil), t...)
		default:
			out[k] = v
		}
	}
	return out
}
