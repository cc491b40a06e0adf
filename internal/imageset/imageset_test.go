package imageset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	require.NoError(t, imaging.Save(img, path))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tee.png")
	writePNG(t, path, 12, 7)

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 12, 7), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, img.NRGBAAt(3, 3))

	bad := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}

// tgaBytes builds an uncompressed 24-bit top-left TARGA filled with c.
func tgaBytes(w, h int, c color.NRGBA) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(w))
	binary.Write(&buf, binary.LittleEndian, uint16(h))
	buf.Write([]byte{24, 0x20})
	for i := 0; i < w*h; i++ {
		buf.Write([]byte{c.B, c.G, c.R})
	}
	return buf.Bytes()
}

func TestDecodeFormats(t *testing.T) {
	fill := color.NRGBA{R: 200, G: 40, B: 90, A: 255}
	src := imaging.New(6, 4, fill)

	tests := []struct {
		name   string
		format imaging.Format
		delta  float64
	}{
		{name: "png", format: imaging.PNG},
		{name: "jpeg", format: imaging.JPEG, delta: 6},
		{name: "gif", format: imaging.GIF, delta: -1},
		{name: "bmp", format: imaging.BMP},
		{name: "tiff", format: imaging.TIFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, imaging.Encode(&buf, src, tt.format))

			img, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
			got := img.NRGBAAt(2, 2)
			assert.Equal(t, uint8(255), got.A)
			if tt.delta < 0 {
				// dithered to a fixed palette
				return
			}
			assert.InDelta(t, fill.R, got.R, tt.delta)
			assert.InDelta(t, fill.G, got.G, tt.delta)
			assert.InDelta(t, fill.B, got.B, tt.delta)
		})
	}

	t.Run("tga", func(t *testing.T) {
		img, err := Decode(bytes.NewReader(tgaBytes(4, 4, fill)))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
		assert.Equal(t, fill, img.NRGBAAt(1, 3))
	})
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	fill := color.NRGBA{R: 5, G: 120, B: 250, A: 255}

	jpg := filepath.Join(dir, "flower.jpg")
	require.NoError(t, imaging.Save(imaging.New(8, 8, fill), jpg))
	img, err := Load(jpg)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
	assert.InDelta(t, fill.B, img.NRGBAAt(4, 4).B, 6)

	tg := filepath.Join(dir, "badge.tga")
	require.NoError(t, os.WriteFile(tg, tgaBytes(3, 5, fill), 0644))
	img, err = Load(tg)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 5), img.Bounds())
	assert.Equal(t, fill, img.NRGBAAt(2, 4))
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in, exp string
	}{
		{in: "/a/b/tee.png", exp: "tee"},
		{in: "tee.front.jpg", exp: "tee"},
		{in: "noext", exp: "noext"},
		{in: "dir.v2/flower.webp", exp: "flower"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.exp, BaseName(tt.in))
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 2, 2)
	writePNG(t, filepath.Join(dir, "a.jpg"), 2, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	paths, err := Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.png")}, paths)
}

func TestCacheLoadsOnce(t *testing.T) {
	calls := 0
	c := NewCache()
	c.load = func(p string) (*image.NRGBA, error) {
		calls++
		if p == "bad" {
			return nil, errors.New("boom")
		}
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	for i := 0; i < 3; i++ {
		img, err := c.Resolve("good")
		require.NoError(t, err)
		assert.NotNil(t, img)
		_, err = c.Resolve("bad")
		assert.Error(t, err)
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, c.Len())

	c.Forget("good")
	_, _ = c.Resolve("good")
	assert.Equal(t, 3, calls)
}
