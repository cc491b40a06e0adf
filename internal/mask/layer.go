// Package mask implements the per-style exclusion bitmap. A pixel with
// alpha > 0 is excluded: no stamp pixel may show there after compositing.
// The layer is always at the style's natural resolution.
package mask

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"stamp-compositor/internal/imageset"
)

// ErrSize means a mask and the pixels it is applied to differ in size.
var ErrSize = errors.New("mask: size mismatch")

// Mode selects how a stroke combines with the layer.
type Mode int

const (
	// ModePaint unions coverage into the layer (source-over, opaque).
	ModePaint Mode = iota
	// ModeErase subtracts coverage from the layer (destination-out).
	ModeErase
)

func (m Mode) String() string {
	switch m {
	case ModePaint:
		return "paint"
	case ModeErase:
		return "erase"
	default:
		return "unknown"
	}
}

// Layer is an 8-bit alpha bitmap.
type Layer struct {
	img *image.Alpha
}

// New returns an empty w×h layer.
func New(w, h int) *Layer {
	return &Layer{img: image.NewAlpha(image.Rect(0, 0, w, h))}
}

// FromImage builds a layer from any image: every pixel with alpha > 0 is
// covered. The image is resized to w×h first when its size differs.
func FromImage(src image.Image, w, h int) *Layer {
	b := src.Bounds()
	if b.Dx() != w || b.Dy() != h {
		src = imaging.Resize(src, w, h, imaging.NearestNeighbor)
		b = src.Bounds()
	}
	l := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if _, _, _, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA(); a > 0 {
				l.img.Pix[y*l.img.Stride+x] = 0xff
			}
		}
	}
	return l
}

// Load decodes a persisted mask (any format imageset reads, PNG on save).
func Load(r io.Reader, w, h int) (*Layer, error) {
	img, err := imageset.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("mask: decode: %w", err)
	}
	return FromImage(img, w, h), nil
}

// Save encodes the layer as PNG.
func (l *Layer) Save(w io.Writer) error {
	if err := imaging.Encode(w, l.img, imaging.PNG); err != nil {
		return fmt.Errorf("mask: encode: %w", err)
	}
	return nil
}

// Bounds returns the layer rectangle, always anchored at the origin.
func (l *Layer) Bounds() image.Rectangle {
	return l.img.Rect
}

// Alpha exposes the backing bitmap.
func (l *Layer) Alpha() *image.Alpha {
	return l.img
}

// Covered reports whether (x, y) is excluded.
func (l *Layer) Covered(x, y int) bool {
	if !(image.Point{X: x, Y: y}.In(l.img.Rect)) {
		return false
	}
	return l.img.Pix[y*l.img.Stride+x] > 0
}

// Empty reports whether no pixel is covered.
func (l *Layer) Empty() bool {
	for _, a := range l.img.Pix {
		if a > 0 {
			return false
		}
	}
	return true
}

// Coverage returns the covered fraction of the layer, 0–1.
func (l *Layer) Coverage() float64 {
	if len(l.img.Pix) == 0 {
		return 0
	}
	n := 0
	for _, a := range l.img.Pix {
		if a > 0 {
			n++
		}
	}
	return float64(n) / float64(len(l.img.Pix))
}

// Clear uncovers every pixel.
func (l *Layer) Clear() {
	for i := range l.img.Pix {
		l.img.Pix[i] = 0
	}
}

// Paint covers a filled disc of radius r centred at (cx, cy).
func (l *Layer) Paint(cx, cy, r float64) {
	l.Stroke(ModePaint, cx, cy, cx, cy, r)
}

// Erase uncovers a filled disc of radius r centred at (cx, cy).
func (l *Layer) Erase(cx, cy, r float64) {
	l.Stroke(ModeErase, cx, cy, cx, cy, r)
}

// Stroke applies a round-capped segment of radius r from (x1, y1) to
// (x2, y2). A zero-length segment is a disc. The segment is rasterized
// with antialiasing and any pixel it touches takes the stroke.
func (l *Layer) Stroke(mode Mode, x1, y1, x2, y2, r float64) {
	if r <= 0 {
		return
	}
	rect := image.Rect(
		int(math.Floor(math.Min(x1, x2)-r))-1, int(math.Floor(math.Min(y1, y2)-r))-1,
		int(math.Ceil(math.Max(x1, x2)+r))+1, int(math.Ceil(math.Max(y1, y2)+r))+1,
	).Intersect(l.img.Rect)
	if rect.Empty() {
		return
	}

	cov := rasterize(rect, x1, y1, x2, y2, r)
	var v uint8
	if mode == ModePaint {
		v = 0xff
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		src := cov.Pix[(y-rect.Min.Y)*cov.Stride:]
		dst := l.img.Pix[y*l.img.Stride:]
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if src[x-rect.Min.X] > 0 {
				dst[x] = v
			}
		}
	}
}

// rasterize renders the capsule into a coverage bitmap covering rect,
// with rect.Min mapped to the bitmap origin.
func rasterize(rect image.Rectangle, x1, y1, x2, y2, r float64) *image.Alpha {
	w, h := rect.Dx(), rect.Dy()
	cov := image.NewAlpha(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, cov, cov.Bounds())
	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)

	if x1 == x2 && y1 == y2 {
		filler := rasterx.NewFiller(w, h, scanner)
		rasterx.AddCircle(x1-ox, y1-oy, r, filler)
		filler.SetColor(color.Alpha{A: 0xff})
		filler.Draw()
		return cov
	}

	d := rasterx.NewDasher(w, h, scanner)
	d.SetStroke(toFixed(2*r), toFixed(4), rasterx.RoundCap, rasterx.RoundCap, nil, rasterx.Round, nil, 0)
	d.Start(toPoint(x1-ox, y1-oy))
	d.Line(toPoint(x2-ox, y2-oy))
	d.Stop(false)
	d.SetColor(color.Alpha{A: 0xff})
	d.Draw()
	return cov
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func toPoint(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
}

// ApplyToAlpha zeroes every entry of alpha (one byte per pixel, row-major,
// layer-sized) where the layer is covered.
func (l *Layer) ApplyToAlpha(alpha []uint8) error {
	w, h := l.img.Rect.Dx(), l.img.Rect.Dy()
	if len(alpha) != w*h {
		return fmt.Errorf("%w: %d alpha values for a %dx%d layer", ErrSize, len(alpha), w, h)
	}
	for y := 0; y < h; y++ {
		row := y * l.img.Stride
		for x := 0; x < w; x++ {
			if l.img.Pix[row+x] > 0 {
				alpha[y*w+x] = 0
			}
		}
	}
	return nil
}

// ApplyToStamp makes stamp fully transparent wherever the layer is
// covered, regardless of the stamp's own alpha.
func (l *Layer) ApplyToStamp(stamp *image.NRGBA) error {
	b := stamp.Bounds()
	if b.Dx() != l.img.Rect.Dx() || b.Dy() != l.img.Rect.Dy() {
		return fmt.Errorf("%w: stamp %v, mask %v", ErrSize, b.Size(), l.img.Rect.Size())
	}
	for y := 0; y < b.Dy(); y++ {
		mrow := y * l.img.Stride
		srow := y * stamp.Stride
		for x := 0; x < b.Dx(); x++ {
			if l.img.Pix[mrow+x] > 0 {
				i := srow + x*4
				stamp.Pix[i], stamp.Pix[i+1], stamp.Pix[i+2], stamp.Pix[i+3] = 0, 0, 0, 0
			}
		}
	}
	return nil
}
