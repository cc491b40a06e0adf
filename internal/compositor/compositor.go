// Package compositor renders one style/stamp pair at the style's natural
// resolution: style as the base layer, stamp placed by the active handle,
// mask applied to the stamp layer only.
package compositor

import (
	"errors"
	"fmt"
	"image"

	"stamp-compositor/internal/catalog"
	"stamp-compositor/internal/logging"
	"stamp-compositor/internal/raster"
	"stamp-compositor/internal/transform"
)

// ErrDecode marks a pair that cannot be composited because one of its
// images has no usable pixels. Batches skip such pairs.
var ErrDecode = errors.New("compositor: image not decodable")

// Options controls one composite.
type Options struct {
	// NewSurface allocates render targets. Defaults to bilinear software
	// surfaces.
	NewSurface raster.Factory
}

func (o Options) factory() raster.Factory {
	if o.NewSurface == nil {
		return raster.SoftwareFactory(raster.InterpBilinear)
	}
	return o.NewSurface
}

// Compose renders stamp onto style and returns the flattened image at the
// style's natural size together with the rectangle the stamp was drawn
// into. Neither input image is modified.
func Compose(style *catalog.Style, stamp *catalog.Stamp, opts Options) (*image.NRGBA, transform.DrawRect, error) {
	var none transform.DrawRect
	base, err := style.Decode()
	if err != nil {
		return nil, none, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	art, err := stamp.Decode()
	if err != nil {
		return nil, none, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	rect, err := Resolve(style, stamp)
	if err != nil {
		return nil, none, err
	}

	newSurface := opts.factory()
	w, h := base.Bounds().Dx(), base.Bounds().Dy()

	dst := newSurface(w, h)
	defer dst.Release()
	if err := dst.Fill(base); err != nil {
		return nil, none, fmt.Errorf("compositor: base: %w", err)
	}

	// The stamp gets its own transient layer so the mask never touches
	// the base.
	layer := newSurface(w, h)
	defer layer.Release()
	if err := layer.Draw(art, rect); err != nil {
		return nil, none, fmt.Errorf("compositor: stamp: %w", err)
	}

	m, err := style.Mask(false)
	if err != nil {
		return nil, none, err
	}
	if m != nil && !m.Empty() {
		alpha := layer.AlphaChannel()
		if err := m.ApplyToAlpha(alpha); err != nil {
			return nil, none, fmt.Errorf("compositor: mask: %w", err)
		}
		if err := layer.SetAlphaChannel(alpha); err != nil {
			return nil, none, fmt.Errorf("compositor: mask: %w", err)
		}
	}

	if err := dst.Over(layer); err != nil {
		return nil, none, fmt.Errorf("compositor: flatten: %w", err)
	}
	return dst.Image(), rect, nil
}

// Resolve returns the natural-pixel rectangle the stamp is drawn into on
// the style, from the style's active handle. Both images must have been
// decoded.
func Resolve(style *catalog.Style, stamp *catalog.Stamp) (transform.DrawRect, error) {
	scale, err := style.ScaleFactor()
	if err != nil {
		return transform.DrawRect{}, fmt.Errorf("compositor: %s: %w", style.Name, err)
	}
	w, h := stamp.NaturalSize()
	rect, err := transform.ResolveDrawRect(style.Handles.Active().Geometry, w, h, scale)
	if err != nil {
		return transform.DrawRect{}, fmt.Errorf("compositor: %s/%s: %w", style.Name, stamp.Name, err)
	}
	logging.Logger().Debug("resolve",
		"style", style.Name, "stamp", stamp.Name,
		"scale", scale,
		"x", rect.X, "y", rect.Y, "w", rect.W, "h", rect.H, "angle", rect.Angle)
	return rect, nil
}

// PreviewRect returns the display-space rectangle the live preview draws
// the stamp into. It agrees with Compose up to the style's scale factor.
func PreviewRect(style *catalog.Style, stamp *catalog.Stamp) (transform.DrawRect, error) {
	w, h := stamp.NaturalSize()
	return transform.Preview(style.Handles.Active().Geometry, w, h)
}
