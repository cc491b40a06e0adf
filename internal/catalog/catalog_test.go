package catalog

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stamp-compositor/internal/mask"
	"stamp-compositor/internal/placement"
)

func pixels(w, h int) PixelSource {
	return PixelSource{Img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

type failing struct{}

func (failing) Decode() (*image.NRGBA, error) { return nil, errors.New("corrupt") }

func TestScaleFactorPerStyle(t *testing.T) {
	lib := NewLibrary()
	a := lib.AddStyle("a", pixels(1000, 800))
	b := lib.AddStyle("b", pixels(600, 600))

	_, err := a.Decode()
	require.NoError(t, err)
	_, err = b.Decode()
	require.NoError(t, err)

	a.SetDisplaySize(500, 400)
	b.SetDisplaySize(300, 300)

	sa, err := a.ScaleFactor()
	require.NoError(t, err)
	sb, err := b.ScaleFactor()
	require.NoError(t, err)
	assert.Equal(t, 2.0, sa)
	assert.Equal(t, 2.0, sb)

	b.SetDisplaySize(0, 0)
	sb, err = b.ScaleFactor()
	require.NoError(t, err)
	assert.Equal(t, 1.0, sb, "no display size means natural size")
	assert.Equal(t, placement.Bounds{Width: 600, Height: 600}, b.Bounds())
}

func TestScaleFactorUndecoded(t *testing.T) {
	lib := NewLibrary()
	s := lib.AddStyle("a", pixels(10, 10))
	_, err := s.ScaleFactor()
	assert.Error(t, err)
}

func TestDecodeError(t *testing.T) {
	lib := NewLibrary()
	s := lib.AddStamp("bad", failing{})
	_, err := s.Decode()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")

	empty := lib.AddStamp("empty", pixels(0, 0))
	_, err = empty.Decode()
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestMaskLifecycle(t *testing.T) {
	lib := NewLibrary()
	s := lib.AddStyle("tee", pixels(40, 30))

	m, err := s.Mask(false)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = s.Mask(true)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, image.Rect(0, 0, 40, 30), m.Bounds())

	again, err := s.Mask(true)
	require.NoError(t, err)
	assert.Same(t, m, again)

	assert.ErrorIs(t, s.SetMask(mask.New(10, 10)), mask.ErrSize)

	s.ClearMask()
	m, err = s.Mask(false)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestLibraryOrderAndRemoval(t *testing.T) {
	lib := NewLibrary()
	s1 := lib.AddStyle("one", pixels(1, 1))
	s2 := lib.AddStyle("two", pixels(1, 1))
	p1 := lib.AddStamp("flower", pixels(1, 1))

	assert.NotEqual(t, s1.ID, s2.ID)
	assert.NotEqual(t, s1.ID, p1.ID)
	assert.Equal(t, []*Style{s1, s2}, lib.Styles())

	require.NoError(t, lib.RemoveStyle(s1.ID))
	assert.Equal(t, []*Style{s2}, lib.Styles())
	assert.ErrorIs(t, lib.RemoveStyle(s1.ID), ErrNotFound)

	got, err := lib.Stamp(p1.ID)
	require.NoError(t, err)
	assert.Same(t, p1, got)

	lib.ClearStamps()
	assert.Empty(t, lib.Stamps())
	_, err = lib.Stamp(p1.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	lib.ClearStyles()
	assert.Empty(t, lib.Styles())
}

func TestAssignStampAndSync(t *testing.T) {
	lib := NewLibrary()
	a := lib.AddStyle("a", pixels(1, 1))
	b := lib.AddStyle("b", pixels(1, 1), placement.DefaultGeometry(), placement.DefaultGeometry())
	p := lib.AddStamp("p", pixels(1, 1))

	require.NoError(t, lib.AssignStamp(p.ID))
	assert.Equal(t, p.ID, a.Handles.Active().StampRef)
	assert.Equal(t, p.ID, b.Handles.Active().StampRef)
	assert.ErrorIs(t, lib.AssignStamp("missing"), ErrNotFound)

	g := placement.Geometry{X: 5, Y: 6, Width: 70, Height: 90, Angle: 15}
	a.Handles.UpdateActive(g)
	require.NoError(t, lib.SyncActive(a.ID))
	assert.Equal(t, g, b.Handles.Active().Geometry)

	// only the active handle is touched
	other, err := b.Handles.Get(1)
	require.NoError(t, err)
	assert.Equal(t, placement.DefaultGeometry(), other.Geometry)
}
