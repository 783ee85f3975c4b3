// Package coords implements the affine matrices of PDF user space.
package coords

import "math"

// Matrix is [a b c d e f] as written by the cm operator.
type Matrix [6]float64

type Point struct{ X, Y float64 }

func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Multiply returns m×o: apply m first, then o.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

func (m Matrix) Transform(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }
func Scale(sx, sy float64) Matrix     { return Matrix{sx, 0, 0, sy, 0, 0} }

// Place maps the unit square onto the box at (x, y) with size w×h, which is
// how image XObjects are positioned.
func Place(x, y, w, h float64) Matrix { return Scale(w, h).Multiply(Translate(x, y)) }

// Bounds returns the axis-aligned box enclosing points.
func Bounds(points ...Point) (minX, minY, maxX, maxY float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
