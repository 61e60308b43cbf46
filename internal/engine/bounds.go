package engine

import "github.com/dragdom/dragdom/internal/geometry"

// Request carries everything a bounds check needs besides the candidate
// center.
type Request struct {
	// Element supplies the dragged element's width, height and rotation.
	// Its Center is ignored; the candidate passed to CheckBounds is used.
	Element Shape

	// Boundary is nil when no boundary is configured.
	Boundary *Shape

	// Start is the element center at the beginning of the drag, in screen
	// space. Translations are reported relative to it.
	Start geometry.Point

	// Constrain asks for a corrected center when an edge is crossed.
	Constrain bool
}

// edges records which boundary edges a set of corners crosses.
type edges struct {
	top, right, bottom, left bool
}

func (e edges) any() bool {
	return e.top || e.right || e.bottom || e.left
}

// CheckBounds evaluates a candidate element center against the boundary.
// It returns nil when no boundary is configured.
//
// All comparisons happen in the boundary's normalized space, where the
// boundary is axis aligned. When Constrain is set and an edge is crossed,
// the element is pushed back along each axis it fits on, and a second pass
// over the corrected center catches overflow the first push revealed on
// the other axis.
func CheckBounds(candidate geometry.Point, req Request) *BoundsCheckResult {
	return checkBounds(candidate, req, false)
}

// checkBounds recurses at most once: the secondary pass never starts
// another one.
func checkBounds(candidate geometry.Point, req Request, secondary bool) *BoundsCheckResult {
	if req.Boundary == nil {
		return nil
	}
	boundary := *req.Boundary
	el := req.Element

	checkRect := NormalizedBounds(boundary)
	normalizedCenter := boundary.Normalize(candidate)

	corners := el.At(candidate).Corners()
	var outside [4]bool
	for i := range corners {
		corners[i] = boundary.Normalize(corners[i])
		outside[i] = !geometry.IsInside(corners[i], checkRect)
	}

	crosses := struct {
		top, right, bottom, left func(geometry.Point) bool
	}{
		top:    func(p geometry.Point) bool { return p.Y <= checkRect.Top() },
		right:  func(p geometry.Point) bool { return p.X >= checkRect.Right() },
		bottom: func(p geometry.Point) bool { return p.Y >= checkRect.Bottom() },
		left:   func(p geometry.Point) bool { return p.X <= checkRect.Left() },
	}

	hit := edges{
		top:    anyCrossing(corners, outside, crosses.top),
		right:  anyCrossing(corners, outside, crosses.right),
		bottom: anyCrossing(corners, outside, crosses.bottom),
		left:   anyCrossing(corners, outside, crosses.left),
	}

	var displace geometry.Point
	constrained := false

	if req.Constrain && hit.any() {
		// An element at least as wide as the boundary can never fit, so it
		// is allowed to overflow horizontally.
		if el.Width < boundary.Width {
			switch {
			case hit.right:
				if p, ok := farthestCrossing(corners, outside, boundary.Center, crosses.right); ok {
					displace.X = checkRect.Right() - p.X
				}
			case hit.left:
				if p, ok := farthestCrossing(corners, outside, boundary.Center, crosses.left); ok {
					displace.X = checkRect.Left() - p.X
				}
			}
		}

		if el.Height < boundary.Height {
			switch {
			case hit.bottom:
				if p, ok := farthestCrossing(corners, outside, boundary.Center, crosses.bottom); ok {
					displace.Y = checkRect.Bottom() - p.Y
				}
			case hit.top:
				if p, ok := farthestCrossing(corners, outside, boundary.Center, crosses.top); ok {
					displace.Y = checkRect.Top() - p.Y
				}
			}
		}

		// A corner resting exactly on an edge yields a zero push, which is
		// a graze rather than a constraint.
		constrained = displace.X != 0 || displace.Y != 0
	}

	normalizedConstrained := normalizedCenter.Add(displace)
	constrainedCenter := boundary.Denormalize(normalizedConstrained)
	normalizedStart := boundary.Normalize(req.Start)

	if constrained && !secondary {
		if again := checkBounds(constrainedCenter, req, true); again != nil && again.IsConstrained {
			return again
		}
	}

	return &BoundsCheckResult{
		Top:               hit.top,
		Right:             hit.right,
		Bottom:            hit.bottom,
		Left:              hit.left,
		ConstrainedCenter: &constrainedCenter,
		Translation:       normalizedConstrained.Sub(normalizedStart),
		IsConstrained:     constrained,
	}
}

// anyCrossing reports whether an outside corner satisfies crosses.
func anyCrossing(corners [4]geometry.Point, outside [4]bool, crosses func(geometry.Point) bool) bool {
	for i, c := range corners {
		if outside[i] && crosses(c) {
			return true
		}
	}
	return false
}

// farthestCrossing picks, among the outside corners satisfying crosses, the
// one farthest from the boundary center. The first corner wins ties.
func farthestCrossing(corners [4]geometry.Point, outside [4]bool, center geometry.Point, crosses func(geometry.Point) bool) (geometry.Point, bool) {
	var best geometry.Point
	bestDist := -1.0
	found := false

	for i, c := range corners {
		if !outside[i] || !crosses(c) {
			continue
		}
		if d := c.Distance(center); !found || d > bestDist {
			best, bestDist, found = c, d, true
		}
	}

	return best, found
}
