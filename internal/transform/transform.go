// Package transform turns a handle authored in display pixels into the
// natural-pixel rectangle and rotation the compositor draws with.
//
// The live preview and the compositor both go through Fit and
// DrawRect.Center, so what the user sees is what gets exported.
package transform

import (
	"errors"
	"fmt"
	"image"
	"math"

	"stamp-compositor/internal/geom"
	"stamp-compositor/internal/placement"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrNotDecoded means the stamp has no intrinsic size yet; resolve
	// again once it has decoded.
	ErrNotDecoded = errors.New("transform: stamp not decoded")

	// ErrDegenerate means the geometry has no drawable area.
	ErrDegenerate = errors.New("transform: degenerate geometry")
)

// ScaleFactor returns naturalW / displayW, the factor that maps display
// pixels to natural pixels for one style.
func ScaleFactor(naturalW, displayW int) (float64, error) {
	if naturalW <= 0 || displayW <= 0 {
		return 0, fmt.Errorf("%w: natural width %d, display width %d", ErrDegenerate, naturalW, displayW)
	}
	return float64(naturalW) / float64(displayW), nil
}

// Fit returns the largest stampW:stampH rectangle inside boxW×boxH.
// Width-fit is tried first; height-fit is used when width-fit overflows.
// The result is anchored at the box's top-left, slack goes right/bottom.
func Fit(boxW, boxH float64, stampW, stampH int) (w, h float64) {
	aspect := float64(stampW) / float64(stampH)
	w = boxW
	h = w / aspect
	if h > boxH {
		h = boxH
		w = h * aspect
	}
	return w, h
}

// DrawRect is the resolved stamp placement on a surface.
type DrawRect struct {
	X, Y  float64
	W, H  float64
	Angle float64 // degrees, about Center
}

// Center returns the centre of the fitted rectangle, the rotation pivot.
func (d DrawRect) Center() r2.Vec {
	return r2.Vec{X: d.X + d.W/2, Y: d.Y + d.H/2}
}

// Matrix maps stamp pixel space (stampW×stampH) onto the surface:
// scale into the rectangle, move it into place, rotate about its centre.
func (d DrawRect) Matrix(stampW, stampH int) geom.Mat3 {
	place := geom.Mul(
		geom.Translate(d.X, d.Y),
		geom.Scale(d.W/float64(stampW), d.H/float64(stampH)),
	)
	if d.Angle == 0 {
		return place
	}
	return geom.Mul(geom.RotateAbout(d.Center(), d.Angle), place)
}

// Corners returns the four rotated corners, clockwise from top-left.
func (d DrawRect) Corners() [4]r2.Vec {
	rot := geom.RotateAbout(d.Center(), d.Angle)
	return [4]r2.Vec{
		rot.Apply(r2.Vec{X: d.X, Y: d.Y}),
		rot.Apply(r2.Vec{X: d.X + d.W, Y: d.Y}),
		rot.Apply(r2.Vec{X: d.X + d.W, Y: d.Y + d.H}),
		rot.Apply(r2.Vec{X: d.X, Y: d.Y + d.H}),
	}
}

// Bounds returns the integer rectangle enclosing the rotated rectangle.
func (d DrawRect) Bounds() image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range d.Corners() {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return image.Rect(
		int(math.Floor(snap(minX))), int(math.Floor(snap(minY))),
		int(math.Ceil(snap(maxX))), int(math.Ceil(snap(maxY))),
	)
}

// snap removes rotation round-off so an edge at 75.000000000001 stays 75.
func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < 1e-9 {
		return r
	}
	return v
}

// ResolveDrawRect computes the natural-pixel draw rectangle for a stamp of
// stampW×stampH placed with handle geometry g on a style whose
// natural/display ratio is scale.
func ResolveDrawRect(g placement.Geometry, stampW, stampH int, scale float64) (DrawRect, error) {
	if stampW <= 0 || stampH <= 0 {
		return DrawRect{}, ErrNotDecoded
	}
	if g.Degenerate() {
		return DrawRect{}, fmt.Errorf("%w: handle %.1fx%.1f", ErrDegenerate, g.Width, g.Height)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return DrawRect{}, fmt.Errorf("%w: scale factor %v", ErrDegenerate, scale)
	}

	fitW, fitH := Fit(g.Width, g.Height, stampW, stampH)
	return DrawRect{
		X:     g.X * scale,
		Y:     g.Y * scale,
		W:     fitW * scale,
		H:     fitH * scale,
		Angle: g.Angle,
	}, nil
}

// Preview resolves the same rectangle in display pixels, for the live
// preview drawn over the style.
func Preview(g placement.Geometry, stampW, stampH int) (DrawRect, error) {
	return ResolveDrawRect(g, stampW, stampH, 1)
}
