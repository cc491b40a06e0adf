// Package raster provides the render surfaces the compositor draws into.
//
// A Surface hides the 2D backend: the compositor only fills it, draws a
// stamp into a resolved rectangle, reads and writes its alpha channel and
// composites one surface over another.
package raster

import (
	"errors"
	"image"

	"stamp-compositor/internal/transform"
)

// ErrReleased is returned when a released surface is used.
var ErrReleased = errors.New("raster: surface released")

// Surface is a render target at a fixed size.
type Surface interface {
	// Bounds returns the surface rectangle, anchored at the origin.
	Bounds() image.Rectangle

	// Fill draws img scaled to cover the whole surface, replacing what
	// was there.
	Fill(img image.Image) error

	// Draw draws img into r, rotated by r.Angle about r's centre, over
	// the current content.
	Draw(img image.Image, r transform.DrawRect) error

	// AlphaChannel returns a copy of the alpha values, row-major, one byte
	// per pixel.
	AlphaChannel() []uint8

	// SetAlphaChannel replaces the alpha values. Colour channels are
	// adjusted so the surface stays consistent.
	SetAlphaChannel(alpha []uint8) error

	// Over composites src (same size) over this surface with normal alpha
	// blending.
	Over(src Surface) error

	// Raw exposes the backing image for same-backend fast paths.
	Raw() image.Image

	// Image returns the content as non-premultiplied RGBA.
	Image() *image.NRGBA

	// Release drops the pixel buffer. The surface must not be used after.
	Release()
}

// Factory allocates a fresh surface.
type Factory func(w, h int) Surface
