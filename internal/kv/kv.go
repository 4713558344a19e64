// internal/kv/kv.go
//
// Small synchronous key-value store, the server-side stand-in for browser
// localStorage: best-effort, per-puzzle-id keys, failures swallowed by the
// caller rather than surfaced to gameplay.

package kv

// Store is a synchronous string KV store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set writes key=value. Errors are reported but callers are expected to
	// treat them as best-effort.
	Set(key, value string) error
}
