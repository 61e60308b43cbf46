package engine

import "github.com/dragdom/dragdom/internal/geometry"

// Shape is the resolved geometry of an element or boundary at a point in
// time. Rotation is the total visual rotation in degrees, inherited parent
// rotation included; resolving it is the caller's job.
type Shape struct {
	Center   geometry.Point `json:"center" yaml:"center"`
	Width    float64        `json:"width" yaml:"width"`
	Height   float64        `json:"height" yaml:"height"`
	Rotation float64        `json:"rotation" yaml:"rotation"`
}

// At returns a copy of s moved to center c.
func (s Shape) At(c geometry.Point) Shape {
	s.Center = c
	return s
}

// Corners returns the shape's corners in TL, TR, BR, BL order.
func (s Shape) Corners() [4]geometry.Point {
	return geometry.Corners(s.Center, s.Width, s.Height, s.Rotation)
}

// Handle projects one of the eight handles of the shape into screen space.
func (s Shape) Handle(h geometry.Handle) geometry.Point {
	return geometry.ProjectCorner(s.Center, s.Width, s.Height, s.Rotation, h)
}

// Normalize rotates a screen-space point into the boundary's zero-degree
// space: -Rotation around the boundary center.
func (s Shape) Normalize(p geometry.Point) geometry.Point {
	return geometry.RotatePoint(p, s.Center, -s.Rotation)
}

// Denormalize is the inverse of Normalize.
func (s Shape) Denormalize(p geometry.Point) geometry.Point {
	return geometry.RotatePoint(p, s.Center, s.Rotation)
}

// NormalizedBounds returns the boundary as an axis-aligned rect in its own
// normalized space.
func NormalizedBounds(boundary Shape) geometry.Rect {
	tl := boundary.Normalize(boundary.Handle(geometry.HandleTL))
	return geometry.Rect{X: tl.X, Y: tl.Y, Width: boundary.Width, Height: boundary.Height}
}

// PointInsideBoundary reports whether a screen-space point lies strictly
// inside the (possibly rotated) boundary.
func PointInsideBoundary(p geometry.Point, boundary Shape) bool {
	return geometry.IsInside(boundary.Normalize(p), NormalizedBounds(boundary))
}
