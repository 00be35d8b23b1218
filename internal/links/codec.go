package links

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load reads the link data file at path and rebuilds the store. Only the
// forward index is stored on disk; the reverse index is reconstructed in one
// scan. A missing file is not an error: the parent directory is created and
// an empty store is persisted there.
func Load(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create link data directory: %w", err)
		}
		s := New()
		if err := s.Save(path); err != nil {
			return nil, err
		}
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read link data %q: %w", path, err)
	}

	var forward map[string]Entry
	if err := toml.Unmarshal(data, &forward); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrParse, path, err)
	}
	if forward == nil {
		forward = make(map[string]Entry)
	}

	s := &Store{
		forward: forward,
		reverse: make(map[string][]string),
	}
	for alias, e := range forward {
		s.reverse[e.Link] = append(s.reverse[e.Link], alias)
	}
	return s, nil
}

// Save writes the forward index to path as TOML. The reverse index is never
// persisted. Save takes a shared lock only; it may run concurrently with
// readers.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	var buf bytes.Buffer
	err := toml.NewEncoder(&buf).Encode(s.forward)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode link data: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write link data %q: %w", path, err)
	}
	return nil
}
