// Package catalog holds the ordered lists of style and stamp images a user
// has imported, together with the per-style placement handles and mask.
package catalog

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"stamp-compositor/internal/imageset"
)

// ErrEmptyImage means an image decoded to zero pixels.
var ErrEmptyImage = errors.New("catalog: image has no pixels")

// Source yields the pixels of an image. Implementations may be slow; the
// caller decides when to wait for them.
type Source interface {
	Decode() (*image.NRGBA, error)
}

// FileSource decodes a file through a Resolver, usually an imageset.Cache.
type FileSource struct {
	Path     string
	Resolver imageset.Resolver
}

func (f FileSource) Decode() (*image.NRGBA, error) {
	if f.Resolver == nil {
		return imageset.Load(f.Path)
	}
	return f.Resolver.Resolve(f.Path)
}

// PixelSource serves an already decoded image.
type PixelSource struct {
	Img *image.NRGBA
}

func (p PixelSource) Decode() (*image.NRGBA, error) {
	if p.Img == nil {
		return nil, ErrEmptyImage
	}
	return p.Img, nil
}

// Image is the part shared by styles and stamps: identity, pixel source,
// natural size (known after the first decode) and display size (set by
// the host once the image is rendered).
type Image struct {
	ID   string
	Name string

	source Source

	mu                 sync.Mutex
	naturalW, naturalH int
	displayW, displayH int
}

func newImage(id, name string, src Source) *Image {
	return &Image{ID: id, Name: name, source: src}
}

// Source returns where the pixels come from.
func (im *Image) Source() Source {
	return im.source
}

// Decode returns the pixels and records the natural size.
// Pixel data is never modified by callers.
func (im *Image) Decode() (*image.NRGBA, error) {
	img, err := im.source.Decode()
	if err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", im.Name, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyImage, im.Name)
	}
	im.mu.Lock()
	im.naturalW, im.naturalH = b.Dx(), b.Dy()
	im.mu.Unlock()
	return img, nil
}

// NaturalSize returns the intrinsic size, zero until decoded.
func (im *Image) NaturalSize() (w, h int) {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.naturalW, im.naturalH
}

// SetNaturalSize records the intrinsic size without decoding, for hosts
// that already know it.
func (im *Image) SetNaturalSize(w, h int) {
	im.mu.Lock()
	im.naturalW, im.naturalH = w, h
	im.mu.Unlock()
}

// DisplaySize returns the rendered size. When the host never set one the
// image is taken to be shown at natural size.
func (im *Image) DisplaySize() (w, h int) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.displayW <= 0 || im.displayH <= 0 {
		return im.naturalW, im.naturalH
	}
	return im.displayW, im.displayH
}

// SetDisplaySize records the rendered size.
func (im *Image) SetDisplaySize(w, h int) {
	im.mu.Lock()
	im.displayW, im.displayH = w, h
	im.mu.Unlock()
}
