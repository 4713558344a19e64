package kv

import (
	"encoding/base64"
	"os"
	"path/filepath"
)

// dir stores each key as one file under a directory. Keys are encoded so
// arbitrary ids are filesystem-safe.
type dir struct {
	root string
}

// NewDir returns a Store persisting to root, creating it if needed.
func NewDir(root string) (Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &dir{root: root}, nil
}

func (s *dir) path(key string) string {
	name := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(key))
	return filepath.Join(s.root, name+".json")
}

func (s *dir) Get(key string) (string, bool) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (s *dir) Set(key, value string) error {
	return os.WriteFile(s.path(key), []byte(value), 0o644)
}
