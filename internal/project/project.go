// Package project reads and writes the JSON file describing one editing
// session: which styles and stamps are loaded, where every handle sits and
// which mask belongs to which style.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"stamp-compositor/internal/catalog"
	"stamp-compositor/internal/imageset"
	"stamp-compositor/internal/mask"
	"stamp-compositor/internal/placement"
	"stamp-compositor/internal/preset"
)

// File matches the JSON schema of a project file. Relative paths are
// resolved against the directory holding the file.
type File struct {
	// Optional directories whose images are appended after the explicit
	// entries, sorted by name.
	StyleDir string `json:"style_dir,omitempty"`
	StampDir string `json:"stamp_dir,omitempty"`

	// Optional preset store used by StyleEntry.Preset.
	Presets string `json:"presets,omitempty"`

	Styles []StyleEntry `json:"styles"`
	Stamps []StampEntry `json:"stamps"`
}

// StyleEntry describes one style.
type StyleEntry struct {
	Path          string               `json:"path"`
	DisplayWidth  int                  `json:"display_width,omitempty"`
	DisplayHeight int                  `json:"display_height,omitempty"`
	Handles       []placement.Snapshot `json:"handles,omitempty"`
	Preset        string               `json:"preset,omitempty"`
	Mask          string               `json:"mask,omitempty"`
}

// StampEntry describes one stamp.
type StampEntry struct {
	Path string `json:"path"`
}

// Read parses a project file without touching any image.
func Read(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("project: read %s: %w", path, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("project: parse %s: %w", path, err)
	}
	return f, nil
}

// Load reads a project file and builds a library from it. Images decode
// lazily through res; masks force their style to decode so the mask can
// be sized to it.
func Load(path string, res imageset.Resolver) (*catalog.Library, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	return f.Build(filepath.Dir(path), res)
}

// Build turns a parsed file into a library, resolving paths against base.
func (f File) Build(base string, res imageset.Resolver) (*catalog.Library, error) {
	if res == nil {
		res = imageset.NewCache()
	}

	var store *preset.Store
	if f.Presets != "" {
		s, err := preset.Open(abs(base, f.Presets))
		if err != nil {
			return nil, fmt.Errorf("project: presets: %w", err)
		}
		store = s
	}

	styles := f.Styles
	if f.StyleDir != "" {
		paths, err := imageset.Scan(abs(base, f.StyleDir))
		if err != nil {
			return nil, fmt.Errorf("project: scan styles: %w", err)
		}
		for _, p := range paths {
			styles = append(styles, StyleEntry{Path: p})
		}
	}
	stamps := f.Stamps
	if f.StampDir != "" {
		paths, err := imageset.Scan(abs(base, f.StampDir))
		if err != nil {
			return nil, fmt.Errorf("project: scan stamps: %w", err)
		}
		for _, p := range paths {
			stamps = append(stamps, StampEntry{Path: p})
		}
	}

	lib := catalog.NewLibrary()
	for _, e := range styles {
		p := abs(base, e.Path)
		s := lib.AddStyle(filepath.Base(p), catalog.FileSource{Path: p, Resolver: res}, geometries(e.Handles)...)
		selectActive(s.Handles, e.Handles)
		if e.DisplayWidth > 0 && e.DisplayHeight > 0 {
			s.SetDisplaySize(e.DisplayWidth, e.DisplayHeight)
		}
		if e.Preset != "" {
			if store == nil {
				return nil, fmt.Errorf("project: style %s: preset %q without a preset store", e.Path, e.Preset)
			}
			snaps, err := store.Load(e.Preset)
			if err != nil {
				return nil, fmt.Errorf("project: style %s: %w", e.Path, err)
			}
			preset.Apply(s.Handles, snaps)
		}
		if e.Mask != "" {
			if err := loadMask(s, abs(base, e.Mask)); err != nil {
				return nil, err
			}
		}
	}
	for _, e := range stamps {
		p := abs(base, e.Path)
		lib.AddStamp(filepath.Base(p), catalog.FileSource{Path: p, Resolver: res})
	}
	return lib, nil
}

func geometries(snaps []placement.Snapshot) []placement.Geometry {
	gs := make([]placement.Geometry, len(snaps))
	for i, s := range snaps {
		gs[i] = s.Geometry
	}
	return gs
}

// selectActive selects the handle marked active in the file. Handles were
// created in file order so positions are indexes.
func selectActive(set *placement.Set, snaps []placement.Snapshot) {
	for i, s := range snaps {
		if s.Active {
			_ = set.Select(i)
			return
		}
	}
}

func loadMask(s *catalog.Style, path string) error {
	if _, err := s.Decode(); err != nil {
		return fmt.Errorf("project: mask %s: %w", path, err)
	}
	w, h := s.NaturalSize()
	r, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("project: mask %s: %w", path, err)
	}
	defer r.Close()

	l, err := mask.Load(r, w, h)
	if err != nil {
		return fmt.Errorf("project: mask %s: %w", path, err)
	}
	return s.SetMask(l)
}

func abs(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}
