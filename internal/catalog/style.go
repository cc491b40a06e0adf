package catalog

import (
	"fmt"
	"sync"

	"stamp-compositor/internal/mask"
	"stamp-compositor/internal/placement"
	"stamp-compositor/internal/transform"
)

// Style is a base garment image with its handles and optional mask.
type Style struct {
	*Image
	Handles *placement.Set

	maskMu sync.Mutex
	mask   *mask.Layer
}

// Stamp is an artwork image. It carries no placement of its own.
type Stamp struct {
	*Image
}

// ScaleFactor returns natural width / display width for this style.
func (s *Style) ScaleFactor() (float64, error) {
	nw, _ := s.NaturalSize()
	dw, _ := s.DisplaySize()
	return transform.ScaleFactor(nw, dw)
}

// Bounds returns the display box handles are clamped to.
func (s *Style) Bounds() placement.Bounds {
	w, h := s.DisplaySize()
	return placement.Bounds{Width: float64(w), Height: float64(h)}
}

// Mask returns the style's mask. With create set, a missing mask is
// allocated at the natural size, decoding the style first if needed.
// Without it, a missing mask is nil.
func (s *Style) Mask(create bool) (*mask.Layer, error) {
	s.maskMu.Lock()
	defer s.maskMu.Unlock()

	if s.mask != nil || !create {
		return s.mask, nil
	}
	w, h := s.NaturalSize()
	if w == 0 || h == 0 {
		if _, err := s.Decode(); err != nil {
			return nil, err
		}
		w, h = s.NaturalSize()
	}
	s.mask = mask.New(w, h)
	return s.mask, nil
}

// SetMask attaches an existing mask, which must match the natural size
// when that is known.
func (s *Style) SetMask(l *mask.Layer) error {
	w, h := s.NaturalSize()
	if l != nil && w > 0 && (l.Bounds().Dx() != w || l.Bounds().Dy() != h) {
		return fmt.Errorf("%w: mask %v for style %dx%d", mask.ErrSize, l.Bounds().Size(), w, h)
	}
	s.maskMu.Lock()
	s.mask = l
	s.maskMu.Unlock()
	return nil
}

// ClearMask drops the mask entirely.
func (s *Style) ClearMask() {
	s.maskMu.Lock()
	s.mask = nil
	s.maskMu.Unlock()
}
