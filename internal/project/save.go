package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"stamp-compositor/internal/catalog"
	"stamp-compositor/internal/imageset"
)

// Snapshot captures the library as a File. Paths are made relative to base
// where possible. Styles with a non-empty mask get a mask entry named
// after the style; the PNGs themselves are written by Save.
func Snapshot(lib *catalog.Library, base string) File {
	var f File
	for _, s := range lib.Styles() {
		e := StyleEntry{
			Path:    rel(base, sourcePath(s.Image)),
			Handles: s.Handles.ReadGeometry(),
		}
		if w, h := s.DisplaySize(); w > 0 && h > 0 {
			nw, nh := s.NaturalSize()
			if w != nw || h != nh {
				e.DisplayWidth, e.DisplayHeight = w, h
			}
		}
		if m, _ := s.Mask(false); m != nil && !m.Empty() {
			e.Mask = maskName(e.Path)
		}
		f.Styles = append(f.Styles, e)
	}
	for _, s := range lib.Stamps() {
		f.Stamps = append(f.Stamps, StampEntry{Path: rel(base, sourcePath(s.Image))})
	}
	return f
}

// Save writes the library to path together with one PNG per painted mask.
func Save(path string, lib *catalog.Library) error {
	base := filepath.Dir(path)
	f := Snapshot(lib, base)

	for i, s := range lib.Styles() {
		if f.Styles[i].Mask == "" {
			continue
		}
		m, _ := s.Mask(false)
		if err := writeMask(abs(base, f.Styles[i].Mask), m.Save); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("project: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("project: write %s: %w", path, err)
	}
	return nil
}

func writeMask(path string, save func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("project: mask %s: %w", path, err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("project: mask %s: %w", path, err)
	}
	if err := save(out); err != nil {
		out.Close()
		return fmt.Errorf("project: mask %s: %w", path, err)
	}
	return out.Close()
}

func sourcePath(im *catalog.Image) string {
	if fs, ok := im.Source().(catalog.FileSource); ok {
		return fs.Path
	}
	return im.Name
}

// maskName derives "masks/<base>.mask.png" from a style path.
func maskName(stylePath string) string {
	return filepath.Join("masks", imageset.BaseName(stylePath)+".mask.png")
}

// rel expresses p relative to base. Both are made absolute first so a
// project loaded through a relative path saves paths relative to its own
// directory. Paths outside base stay absolute.
func rel(base, p string) string {
	if base == "" {
		return p
	}
	ab, err := filepath.Abs(base)
	if err != nil {
		return p
	}
	ap, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	r, err := filepath.Rel(ab, ap)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return ap
	}
	return r
}
