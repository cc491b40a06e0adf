package raster

import (
	"fmt"
	"image"

	"stamp-compositor/internal/geom"
	"stamp-compositor/internal/transform"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Interpolation selects the resampling kernel used when drawing.
type Interpolation int

const (
	InterpBilinear Interpolation = iota
	InterpCatmullRom
	InterpNearest
)

func (i Interpolation) transformer() draw.Transformer {
	switch i {
	case InterpCatmullRom:
		return draw.CatmullRom
	case InterpNearest:
		return draw.NearestNeighbor
	default:
		return draw.BiLinear
	}
}

// ParseInterpolation maps a config name to an Interpolation.
func ParseInterpolation(name string) (Interpolation, error) {
	switch name {
	case "", "bilinear":
		return InterpBilinear, nil
	case "catmullrom":
		return InterpCatmullRom, nil
	case "nearest":
		return InterpNearest, nil
	default:
		return 0, fmt.Errorf("raster: unknown interpolation %q", name)
	}
}

// Software is a CPU surface over a premultiplied RGBA buffer, so the
// x/image/draw fast paths apply and edges blend without dark halos.
type Software struct {
	img    *image.RGBA
	interp Interpolation
}

// NewSoftware allocates a transparent w×h surface.
func NewSoftware(w, h int, interp Interpolation) *Software {
	return &Software{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		interp: interp,
	}
}

// SoftwareFactory returns a Factory for software surfaces.
func SoftwareFactory(interp Interpolation) Factory {
	return func(w, h int) Surface {
		return NewSoftware(w, h, interp)
	}
}

var _ Surface = (*Software)(nil)

func (s *Software) Bounds() image.Rectangle {
	if s.img == nil {
		return image.Rectangle{}
	}
	return s.img.Rect
}

func (s *Software) Fill(img image.Image) error {
	if s.img == nil {
		return ErrReleased
	}
	sb := img.Bounds()
	if sb.Size() == s.img.Rect.Size() {
		draw.Draw(s.img, s.img.Rect, img, sb.Min, draw.Src)
		return nil
	}
	draw.CatmullRom.Scale(s.img, s.img.Rect, img, sb, draw.Src, nil)
	return nil
}

func (s *Software) Draw(img image.Image, r transform.DrawRect) error {
	if s.img == nil {
		return ErrReleased
	}
	sb := img.Bounds()
	if sb.Empty() {
		return fmt.Errorf("raster: draw: empty source %v", sb)
	}
	// Stamp pixel space starts at the source's Min.
	m := geom.Mul(r.Matrix(sb.Dx(), sb.Dy()), geom.Translate(float64(-sb.Min.X), float64(-sb.Min.Y)))
	s.interp.transformer().Transform(s.img, m.Aff3(), img, sb, draw.Over, nil)
	return nil
}

func (s *Software) AlphaChannel() []uint8 {
	if s.img == nil {
		return nil
	}
	w, h := s.img.Rect.Dx(), s.img.Rect.Dy()
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := y * s.img.Stride
		for x := 0; x < w; x++ {
			out[y*w+x] = s.img.Pix[row+x*4+3]
		}
	}
	return out
}

func (s *Software) SetAlphaChannel(alpha []uint8) error {
	if s.img == nil {
		return ErrReleased
	}
	w, h := s.img.Rect.Dx(), s.img.Rect.Dy()
	if len(alpha) != w*h {
		return fmt.Errorf("raster: set alpha: %d values for %dx%d", len(alpha), w, h)
	}
	for y := 0; y < h; y++ {
		row := y * s.img.Stride
		for x := 0; x < w; x++ {
			i := row + x*4
			na := alpha[y*w+x]
			oa := s.img.Pix[i+3]
			if na == oa {
				continue
			}
			// premultiplied: colour scales with alpha
			if oa == 0 {
				s.img.Pix[i], s.img.Pix[i+1], s.img.Pix[i+2] = 0, 0, 0
			} else {
				k := uint32(na)
				s.img.Pix[i] = uint8(uint32(s.img.Pix[i]) * k / uint32(oa))
				s.img.Pix[i+1] = uint8(uint32(s.img.Pix[i+1]) * k / uint32(oa))
				s.img.Pix[i+2] = uint8(uint32(s.img.Pix[i+2]) * k / uint32(oa))
			}
			s.img.Pix[i+3] = na
		}
	}
	return nil
}

func (s *Software) Over(src Surface) error {
	if s.img == nil {
		return ErrReleased
	}
	raw := src.Raw()
	if raw == nil {
		return ErrReleased
	}
	if raw.Bounds().Size() != s.img.Rect.Size() {
		return fmt.Errorf("raster: over: size %v onto %v", raw.Bounds().Size(), s.img.Rect.Size())
	}
	draw.Draw(s.img, s.img.Rect, raw, raw.Bounds().Min, draw.Over)
	return nil
}

func (s *Software) Raw() image.Image {
	if s.img == nil {
		return nil
	}
	return s.img
}

func (s *Software) Image() *image.NRGBA {
	if s.img == nil {
		return nil
	}
	return imaging.Clone(s.img)
}

func (s *Software) Release() {
	s.img = nil
}
