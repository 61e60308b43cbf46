package geometry

import "fmt"

// Handle names one of the eight reference points on a rectangle.
type Handle int

const (
	HandleTL Handle = iota
	HandleTR
	HandleBL
	HandleBR
	HandleL
	HandleR
	HandleT
	HandleB
)

// Handles lists every handle in declaration order.
var Handles = []Handle{HandleTL, HandleTR, HandleBL, HandleBR, HandleL, HandleR, HandleT, HandleB}

var handleNames = map[Handle]string{
	HandleTL: "tl",
	HandleTR: "tr",
	HandleBL: "bl",
	HandleBR: "br",
	HandleL:  "ml",
	HandleR:  "mr",
	HandleT:  "mt",
	HandleB:  "mb",
}

func (h Handle) String() string {
	if name, ok := handleNames[h]; ok {
		return name
	}
	return fmt.Sprintf("Handle(%d)", int(h))
}

// ParseHandle converts a handle name ("tl", "mr", ...) into a Handle.
func ParseHandle(s string) (Handle, error) {
	for h, name := range handleNames {
		if name == s {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown handle %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (h Handle) MarshalText() ([]byte, error) {
	name, ok := handleNames[h]
	if !ok {
		return nil, fmt.Errorf("unknown handle %d", int(h))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Handle) UnmarshalText(text []byte) error {
	parsed, err := ParseHandle(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ProjectCorner finds the screen position of a handle on a width x height box
// centered on center and rotated by degrees around that center.
func ProjectCorner(center Point, width, height, degrees float64, handle Handle) Point {
	tl := Point{X: center.X - width/2, Y: center.Y - height/2}

	var p Point
	switch handle {
	case HandleTL:
		p = tl
	case HandleTR:
		p = Point{X: tl.X + width, Y: tl.Y}
	case HandleBL:
		p = Point{X: tl.X, Y: tl.Y + height}
	case HandleBR:
		p = Point{X: tl.X + width, Y: tl.Y + height}
	case HandleL:
		p = Point{X: tl.X, Y: tl.Y + height/2}
	case HandleR:
		p = Point{X: tl.X + width, Y: tl.Y + height/2}
	case HandleT:
		p = Point{X: tl.X + width/2, Y: tl.Y}
	case HandleB:
		p = Point{X: tl.X + width/2, Y: tl.Y + height}
	default:
		p = tl
	}

	// Rotate around the box's own center, recomputed from the corner so a
	// collapsed box still lands on center.
	pivot := Point{X: tl.X + width/2, Y: tl.Y + height/2}
	return RotatePoint(p, pivot, degrees)
}

// Corners returns the four corners in TL, TR, BR, BL order.
func Corners(center Point, width, height, degrees float64) [4]Point {
	return [4]Point{
		ProjectCorner(center, width, height, degrees, HandleTL),
		ProjectCorner(center, width, height, degrees, HandleTR),
		ProjectCorner(center, width, height, degrees, HandleBR),
		ProjectCorner(center, width, height, degrees, HandleBL),
	}
}

// BoundingBox returns the axis-aligned box around a rotated rectangle.
func BoundingBox(center Point, width, height, degrees float64) Rect {
	corners := Corners(center, width, height, degrees)
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX = min(minX, c.X)
		minY = min(minY, c.Y)
		maxX = max(maxX, c.X)
		maxY = max(maxY, c.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
