package placement

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestTranslate(t *testing.T) {
	g := Geometry{X: 10, Y: 10, Width: 100, Height: 50}
	b := Bounds{Width: 300, Height: 200}

	tests := []struct {
		dx, dy float64
		x, y   float64
	}{
		{dx: 5, dy: -3, x: 15, y: 7},
		{dx: -50, dy: -50, x: 0, y: 0},
		{dx: 500, dy: 500, x: 200, y: 150},
	}
	for _, tt := range tests {
		got := Translate(g, tt.dx, tt.dy, b)
		assert.Equal(t, tt.x, got.X)
		assert.Equal(t, tt.y, got.Y)
		assert.Equal(t, g.Width, got.Width)
		assert.Equal(t, g.Height, got.Height)
	}

	// no bounds, no clamp
	got := Translate(g, -40, -40, Bounds{})
	assert.Equal(t, -30.0, got.X)

	// bigger than the box pins to the origin
	got = Translate(Geometry{Width: 400, Height: 10}, 20, 0, b)
	assert.Equal(t, 0.0, got.X)
}

func TestPointerAngle(t *testing.T) {
	c := r2.Vec{X: 50, Y: 50}
	tests := []struct {
		p   r2.Vec
		exp float64
	}{
		{p: r2.Vec{X: 50, Y: 0}, exp: 0},    // above
		{p: r2.Vec{X: 100, Y: 50}, exp: 90}, // right
		{p: r2.Vec{X: 50, Y: 100}, exp: 180},
		{p: r2.Vec{X: 0, Y: 50}, exp: 270},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.exp, PointerAngle(c, tt.p), 1e-9)
	}
}

func TestRotateGestureNoJump(t *testing.T) {
	g := Geometry{X: 0, Y: 0, Width: 100, Height: 100, Angle: 45}
	r := BeginRotate(g)

	// first sample at "right of centre" keeps the current angle
	first := r.Sample(r2.Vec{X: 200, Y: 50})
	assert.InDelta(t, 45.0, first.Angle, 1e-9)

	// quarter turn clockwise from there
	second := r.Sample(r2.Vec{X: 50, Y: 200})
	assert.InDelta(t, 135.0, second.Angle, 1e-9)

	// wrap
	third := r.Sample(r2.Vec{X: 50, Y: -100})
	assert.InDelta(t, 315.0, third.Angle, 1e-9)
}

func TestRotateKeepsCenter(t *testing.T) {
	g := Geometry{X: 12, Y: 30, Width: 80, Height: 44, Angle: 10}
	r := BeginRotate(g)
	for _, p := range []r2.Vec{{X: 0, Y: 0}, {X: 300, Y: 20}, {X: -5, Y: 400}} {
		got := r.Sample(p)
		assert.Equal(t, g.Center(), got.Center())
		assert.GreaterOrEqual(t, got.Angle, 0.0)
		assert.Less(t, got.Angle, 360.0)
	}
}

func TestResizePreservesAspect(t *testing.T) {
	starts := []Geometry{
		{X: 5, Y: 5, Width: 160, Height: 200},
		{X: 0, Y: 0, Width: 300, Height: 100},
		{X: 1, Y: 2, Width: 45, Height: 45},
	}
	deltas := []r2.Vec{{X: 40, Y: 0}, {X: 0, Y: 33}, {X: -500, Y: -500}, {X: 7.5, Y: -2}}

	for _, g := range starts {
		for _, edge := range []Edge{EdgeRight, EdgeBottom} {
			for _, d := range deltas {
				r, err := BeginResize(g, edge)
				require.NoError(t, err)
				got := r.Sample(d)
				assert.InDelta(t, g.AspectRatio(), got.AspectRatio(), 1e-9, "edge=%v d=%v", edge, d)
				assert.GreaterOrEqual(t, got.Width, MinSize-1e-9)
				assert.GreaterOrEqual(t, got.Height, MinSize-1e-9)
				assert.Equal(t, g.X, got.X)
				assert.Equal(t, g.Y, got.Y)
			}
		}
	}
}

func TestResizeEdges(t *testing.T) {
	g := Geometry{Width: 100, Height: 50}

	r, err := BeginResize(g, EdgeRight)
	require.NoError(t, err)
	got := r.Sample(r2.Vec{X: 20, Y: 999})
	assert.InDelta(t, 120.0, got.Width, 1e-9)
	assert.InDelta(t, 60.0, got.Height, 1e-9)

	r, err = BeginResize(g, EdgeBottom)
	require.NoError(t, err)
	got = r.Sample(r2.Vec{X: 999, Y: 10})
	assert.InDelta(t, 60.0, got.Height, 1e-9)
	assert.InDelta(t, 120.0, got.Width, 1e-9)

	_, err = BeginResize(g, Edge(0))
	assert.ErrorIs(t, err, ErrEdge)
}

func TestSetSelection(t *testing.T) {
	s := NewSet()
	require.Equal(t, 1, s.Len())
	assert.True(t, s.Active().Selected)
	assert.Equal(t, DefaultGeometry(), s.Active().Geometry)

	i1 := s.Add(Geometry{Width: 50, Height: 50})
	i2 := s.Add(Geometry{Width: 60, Height: 60})
	require.NoError(t, s.Select(i1))
	require.NoError(t, s.Select(i2))

	selected := 0
	for _, h := range s.Handles() {
		if h.Selected {
			selected++
		}
	}
	assert.Equal(t, 1, selected)
	assert.Equal(t, i2, s.Active().Index)

	assert.ErrorIs(t, s.Select(99), ErrNoHandle)

	// removing the active handle falls back to the first
	require.NoError(t, s.Remove(i2))
	assert.Equal(t, 0, s.Active().Index)
	require.NoError(t, s.Remove(i1))
	assert.ErrorIs(t, s.Remove(0), ErrLastHandle)
	assert.Equal(t, 1, s.Len())
}

func TestReadWriteGeometry(t *testing.T) {
	src := NewSet(Geometry{X: 1, Width: 40, Height: 40}, Geometry{X: 2, Width: 50, Height: 60, Angle: 30})
	require.NoError(t, src.Select(1))
	snaps := src.ReadGeometry()

	raw, err := json.Marshal(snaps[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":1,"active":true,"x":2,"y":0,"width":50,"height":60,"angle":30}`, string(raw))

	dst := NewSet(DefaultGeometry(), DefaultGeometry())
	n := dst.WriteGeometry(append(snaps, Snapshot{Index: 7}))
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, dst.Active().Index)
	assert.Equal(t, 30.0, dst.Active().Geometry.Angle)
}

func TestStampRef(t *testing.T) {
	s := NewSet()
	s.SetStampRef("flower")
	assert.Equal(t, "flower", s.Active().StampRef)
}
