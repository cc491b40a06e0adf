// Package placement holds the placement handles a user drags, rotates and
// resizes over a style image. All geometry is in display pixels, relative
// to the top-left of the style's rendered box.
//
// Every operation is a pure function from the current Geometry plus a
// pointer sample to the next Geometry; pointer-event plumbing lives in the
// host.
package placement

import (
	"errors"
	"math"

	"stamp-compositor/internal/geom"

	"gonum.org/v1/gonum/spatial/r2"
)

// MinSize is the floor for both handle dimensions, in display pixels.
const MinSize = 30.0

// Default handle size, matching the marker a freshly imported style gets.
const (
	DefaultWidth  = 160.0
	DefaultHeight = 200.0
)

var (
	ErrNoHandle   = errors.New("placement: no such handle")
	ErrLastHandle = errors.New("placement: cannot remove the last handle")
	ErrEdge       = errors.New("placement: only the right and bottom edges are resizable")
)

// Geometry is the position, size and rotation of a handle.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"` // degrees, [0, 360), about the centre
}

// DefaultGeometry returns the geometry of a new handle.
func DefaultGeometry() Geometry {
	return Geometry{Width: DefaultWidth, Height: DefaultHeight}
}

// Center returns the rectangle's own centre.
func (g Geometry) Center() r2.Vec {
	return r2.Vec{X: g.X + g.Width/2, Y: g.Y + g.Height/2}
}

// AspectRatio returns width/height, or 0 for a zero-height handle.
func (g Geometry) AspectRatio() float64 {
	if g.Height == 0 {
		return 0
	}
	return g.Width / g.Height
}

// Degenerate reports whether the handle has no drawable area.
func (g Geometry) Degenerate() bool {
	return !(g.Width > 0) || !(g.Height > 0) ||
		math.IsNaN(g.X) || math.IsNaN(g.Y) || math.IsInf(g.Width, 0) || math.IsInf(g.Height, 0)
}

// Bounds is the rendered box of the style a handle lives on.
// A zero Bounds disables clamping.
type Bounds struct {
	Width  float64
	Height float64
}

// Translate moves the handle by (dx, dy), clamped so the unrotated
// rectangle stays inside b.
func Translate(g Geometry, dx, dy float64, b Bounds) Geometry {
	g.X += dx
	g.Y += dy
	if b.Width > 0 {
		g.X = clamp(g.X, 0, math.Max(0, b.Width-g.Width))
	}
	if b.Height > 0 {
		g.Y = clamp(g.Y, 0, math.Max(0, b.Height-g.Height))
	}
	return g
}

// PointerAngle returns the handle angle implied by a pointer position:
// atan2 from the centre, shifted so "straight up" is 0°, in [0, 360).
func PointerAngle(center, pointer r2.Vec) float64 {
	d := r2.Sub(pointer, center)
	return geom.NormalizeDeg(geom.Rad2Deg(math.Atan2(d.Y, d.X)) + 90)
}

// RotateGesture tracks one drag of the rotation knob.
// The first sample fixes an offset so the handle does not jump.
type RotateGesture struct {
	start   Geometry
	offset  float64
	started bool
}

// BeginRotate starts a rotation gesture from g.
func BeginRotate(g Geometry) *RotateGesture {
	return &RotateGesture{start: g}
}

// Sample returns the geometry for the given pointer position. Only Angle
// changes; the centre is left where it was.
func (r *RotateGesture) Sample(pointer r2.Vec) Geometry {
	computed := PointerAngle(r.start.Center(), pointer)
	if !r.started {
		r.offset = r.start.Angle - computed
		r.started = true
	}
	g := r.start
	g.Angle = geom.NormalizeDeg(r.offset + computed)
	return g
}

// Edge names a resizable side of the handle.
type Edge int

const (
	EdgeRight Edge = iota + 1
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// ResizeGesture tracks one drag of the right or bottom edge. The aspect
// ratio at gesture start is preserved for every sample.
type ResizeGesture struct {
	edge   Edge
	start  Geometry
	aspect float64
}

// BeginResize starts a resize gesture from g on the given edge.
func BeginResize(g Geometry, edge Edge) (*ResizeGesture, error) {
	if edge != EdgeRight && edge != EdgeBottom {
		return nil, ErrEdge
	}
	aspect := g.AspectRatio()
	if aspect <= 0 || math.IsInf(aspect, 0) || math.IsNaN(aspect) {
		aspect = DefaultWidth / DefaultHeight
	}
	return &ResizeGesture{edge: edge, start: g, aspect: aspect}, nil
}

// Sample applies the cumulative pointer delta since gesture start.
// x and y never move.
func (r *ResizeGesture) Sample(delta r2.Vec) Geometry {
	g := r.start
	switch r.edge {
	case EdgeRight:
		g.Width = r.start.Width + delta.X
		g.Height = g.Width / r.aspect
	case EdgeBottom:
		g.Height = r.start.Height + delta.Y
		g.Width = g.Height * r.aspect
	}

	// Floor both sides while keeping the ratio.
	if short := math.Min(g.Width, g.Height); short < MinSize {
		if r.aspect >= 1 {
			g.Height = MinSize
			g.Width = MinSize * r.aspect
		} else {
			g.Width = MinSize
			g.Height = MinSize / r.aspect
		}
	}
	return g
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
