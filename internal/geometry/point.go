// Package geometry holds the 2D primitives the drag engine is built on:
// points, rectangles, rotation about a pivot, handle projection and the
// strict containment test.
package geometry

import "math"

// Point is an immutable 2D point or vector in screen units.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is a convenience constructor for a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Equal reports exact equality of both coordinates.
func (p Point) Equal(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// ApproxEqual reports whether both coordinates differ by at most eps.
func (p Point) ApproxEqual(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// IsFinite reports whether neither coordinate is NaN or infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// RotatePoint rotates point around pivot by degrees. Positive angles turn
// clockwise on a y-down screen, matching CSS rotate().
func RotatePoint(point, pivot Point, degrees float64) Point {
	rad := degrees * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	dx := point.X - pivot.X
	dy := point.Y - pivot.Y

	return Point{
		X: cos*dx - sin*dy + pivot.X,
		Y: sin*dx + cos*dy + pivot.Y,
	}
}
