// Package imageset decodes style and stamp images from disk into NRGBA.
package imageset

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Extensions lists the file extensions Scan picks up.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff", ".tga"}

// The tga package registers a format with an empty magic string, which
// makes image.Decode hand every stream to it. Decoding therefore never
// goes through the image registry: the header picks the decoder here.
type decoder struct {
	match  func(head []byte) bool
	decode func(io.Reader) (image.Image, error)
}

var decoders = []decoder{
	{match: prefix("\x89PNG\r\n\x1a\n"), decode: png.Decode},
	{match: prefix("\xff\xd8"), decode: jpeg.Decode},
	{match: prefix("GIF8"), decode: gif.Decode},
	{match: isWebP, decode: webp.Decode},
	{match: prefix("BM"), decode: bmp.Decode},
	{match: prefix("II*\x00"), decode: tiff.Decode},
	{match: prefix("MM\x00*"), decode: tiff.Decode},
}

func prefix(magic string) func([]byte) bool {
	return func(head []byte) bool { return bytes.HasPrefix(head, []byte(magic)) }
}

func isWebP(head []byte) bool {
	return len(head) >= 12 && string(head[:4]) == "RIFF" && string(head[8:12]) == "WEBP"
}

// Load reads an image file and returns it as NRGBA anchored at the origin.
// Files with a .tga extension skip header sniffing since TARGA has no magic.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageset: load %s: %w", path, err)
	}
	defer f.Close()

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = tga.Decode(bufio.NewReader(f))
	} else {
		img, err = decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("imageset: load %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// Decode is Load for an already opened stream.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageset: decode: %w", err)
	}
	return toNRGBA(img), nil
}

// decode picks a decoder from the stream header and falls back to TARGA.
func decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(12)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	for _, d := range decoders {
		if d.match(head) {
			return d.decode(br)
		}
	}
	return tga.Decode(br)
}

// toNRGBA converts any image to NRGBA with bounds starting at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(src)
}

// BaseName returns the label used in output names: the file name up to
// its first dot, so "tee.front.png" becomes "tee".
func BaseName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// Supported reports whether path has an extension Scan accepts.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
