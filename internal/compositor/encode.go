package compositor

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
)

// Format is an output encoding.
type Format string

const (
	FormatJPEG Format = "jpg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 70

// ParseFormat accepts jpg, jpeg, png and webp, case-insensitively.
// An empty name means jpg.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("compositor: unknown format %q", name)
	}
}

// Encoder writes composites in one format.
type Encoder struct {
	Format  Format
	Quality int // JPEG only, 1-100
}

// Ext returns the file extension without the dot.
func (e Encoder) Ext() string {
	if e.Format == "" {
		return string(FormatJPEG)
	}
	return string(e.Format)
}

// Encode writes img to w. WebP output is lossless.
func (e Encoder) Encode(w io.Writer, img image.Image) error {
	var err error
	switch e.Format {
	case FormatJPEG, "":
		q := e.Quality
		if q <= 0 || q > 100 {
			q = DefaultQuality
		}
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(q))
	case FormatPNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("compositor: unknown format %q", e.Format)
	}
	if err != nil {
		return fmt.Errorf("compositor: encode %s: %w", e.Ext(), err)
	}
	return nil
}
