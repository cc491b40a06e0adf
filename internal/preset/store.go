// Package preset saves named placement snapshots and applies them back to
// one style or broadcasts them across every style.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"stamp-compositor/internal/placement"
)

var (
	ErrExists   = errors.New("preset: already exists")
	ErrNotFound = errors.New("preset: not found")
)

// storeFile matches the JSON schema on disk.
type storeFile struct {
	Presets map[string][]placement.Snapshot `json:"presets"`
}

// Store is a JSON file of named presets. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	path    string
	presets map[string][]placement.Snapshot
}

// Open reads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, presets: make(map[string][]placement.Snapshot)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}

	var f storeFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("preset: parse %s: %w", path, err)
	}
	for name, snaps := range f.Presets {
		s.presets[name] = snaps
	}
	return s, nil
}

// Save stores snaps under name. An existing preset is replaced only when
// overwrite is set.
func (s *Store) Save(name string, snaps []placement.Snapshot, overwrite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presets[name]; ok && !overwrite {
		return fmt.Errorf("%w: %q", ErrExists, name)
	}
	cp := make([]placement.Snapshot, len(snaps))
	copy(cp, snaps)
	s.presets[name] = cp
	return s.flush()
}

// Load returns the snapshots saved under name.
func (s *Store) Load(name string) ([]placement.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snaps, ok := s.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	cp := make([]placement.Snapshot, len(snaps))
	copy(cp, snaps)
	return cp, nil
}

// Delete removes a preset.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(s.presets, name)
	return s.flush()
}

// Names returns preset names in sorted order.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.presets))
	for n := range s.presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// flush writes the store through a temp file so readers never see a
// half-written file. Caller holds mu.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(storeFile{Presets: s.presets}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("preset: write %s: %w", s.path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".preset-*")
	if err != nil {
		return fmt.Errorf("preset: write %s: %w", s.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("preset: write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("preset: write %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("preset: write %s: %w", s.path, err)
	}
	return nil
}
