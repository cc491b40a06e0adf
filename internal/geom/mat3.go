package geom

import (
	"math"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"
)

// Mat3 is a 2D affine transform in homogeneous form, stored row-major:
// [r0c0, r0c1, r0c2, r1c0, ...]. The last row is always 0 0 1.
// Value type for zero heap allocation.
type Mat3 [9]float64

func Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Mat3 {
	return Mat3{1, 0, tx, 0, 1, ty, 0, 0, 1}
}

// Scale returns a scale by (sx, sy) about the origin.
func Scale(sx, sy float64) Mat3 {
	return Mat3{sx, 0, 0, 0, sy, 0, 0, 0, 1}
}

// Rotate returns a rotation about the origin. Angle in radians, positive is
// clockwise on screen (y grows downward).
func Rotate(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// RotateAbout returns T(c) × R(deg) × T(−c): a rotation by deg degrees
// that leaves c fixed.
func RotateAbout(c r2.Vec, deg float64) Mat3 {
	return Mul(Mul(Translate(c.X, c.Y), Rotate(Deg2Rad(deg))), Translate(-c.X, -c.Y))
}

// Mul returns a × b. Applying the result to a point applies b first.
func Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = a[r*3+0]*b[0*3+c] + a[r*3+1]*b[1*3+c] + a[r*3+2]*b[2*3+c]
		}
	}
	return m
}

// Apply returns M × p.
func (m Mat3) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Inverse returns the inverse transform, or the identity when m is singular.
func (m Mat3) Inverse() Mat3 {
	d := m.Det()
	if d == 0 {
		return Identity()
	}
	invD := 1.0 / d
	return Mat3{
		(m[4]*m[8] - m[5]*m[7]) * invD,
		(m[2]*m[7] - m[1]*m[8]) * invD,
		(m[1]*m[5] - m[2]*m[4]) * invD,
		(m[5]*m[6] - m[3]*m[8]) * invD,
		(m[0]*m[8] - m[2]*m[6]) * invD,
		(m[2]*m[3] - m[0]*m[5]) * invD,
		(m[3]*m[7] - m[4]*m[6]) * invD,
		(m[1]*m[6] - m[0]*m[7]) * invD,
		(m[0]*m[4] - m[1]*m[3]) * invD,
	}
}

// Aff3 returns the top two rows in the form x/image/draw expects.
func (m Mat3) Aff3() f64.Aff3 {
	return f64.Aff3{m[0], m[1], m[2], m[3], m[4], m[5]}
}
