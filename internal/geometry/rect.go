package geometry

// Rect is a rectangle anchored at (X, Y). Width and Height may be negative;
// the edge accessors always report Left <= Right and Top <= Bottom.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromCenter builds a rect of the given size centered on c.
func RectFromCenter(c Point, width, height float64) Rect {
	return Rect{X: c.X - width/2, Y: c.Y - height/2, Width: width, Height: height}
}

// Left edge.
func (r Rect) Left() float64 {
	if r.Width < 0 {
		return r.X + r.Width
	}
	return r.X
}

// Top edge.
func (r Rect) Top() float64 {
	if r.Height < 0 {
		return r.Y + r.Height
	}
	return r.Y
}

// Right edge.
func (r Rect) Right() float64 {
	if r.Width < 0 {
		return r.X
	}
	return r.X + r.Width
}

// Bottom edge.
func (r Rect) Bottom() float64 {
	if r.Height < 0 {
		return r.Y
	}
	return r.Y + r.Height
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Normalized returns the same rect with non-negative width and height.
func (r Rect) Normalized() Rect {
	return Rect{
		X:      r.Left(),
		Y:      r.Top(),
		Width:  r.Right() - r.Left(),
		Height: r.Bottom() - r.Top(),
	}
}

// IsInside reports whether p lies strictly inside r. A point on any edge is
// outside; the bounds check relies on this to flag corners that only touch
// the boundary as colliding.
func IsInside(p Point, r Rect) bool {
	return p.X > r.Left() && p.X < r.Right() &&
		p.Y > r.Top() && p.Y < r.Bottom()
}
