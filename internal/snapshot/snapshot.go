// Package snapshot draws a drag frame and its bounds verdict to a PNG, for
// the render command and the snapshot endpoint.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
)

// ErrInvalidOptions is returned for non-positive canvas sizes.
var ErrInvalidOptions = errors.New("invalid snapshot options")

// Options control the canvas. Zero values take the defaults.
type Options struct {
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Padding    float64 `json:"padding,omitempty"`
	Background string  `json:"background,omitempty"`
}

func DefaultOptions() Options {
	return Options{Width: 640, Height: 480, Padding: 24, Background: "#ffffff"}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Padding == 0 {
		o.Padding = d.Padding
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	return o
}

const (
	colorBoundary    = "#1f6feb"
	colorElement     = "#6e7781"
	colorConstrained = "#2da44e"
	colorInside      = "#2da44e"
	colorOutside     = "#cf222e"
	cornerRadius     = 4
)

// Render draws the boundary, the element, the element's corners (red when
// outside the boundary) and, when result pushed it, the element at its
// constrained center. The scene is scaled to fit the canvas.
func Render(w io.Writer, f drag.Frame, result *engine.BoundsCheckResult, opts Options) error {
	opts = opts.withDefaults()
	if opts.Width < 0 || opts.Height < 0 || opts.Padding < 0 {
		return fmt.Errorf("%w: %dx%d padding %v", ErrInvalidOptions, opts.Width, opts.Height, opts.Padding)
	}

	shapes := []engine.Shape{f.Element}
	if f.Boundary != nil {
		shapes = append(shapes, *f.Boundary)
	}
	var constrained *engine.Shape
	if result != nil && result.IsConstrained && result.ConstrainedCenter != nil {
		s := f.Element.At(*result.ConstrainedCenter)
		constrained = &s
		shapes = append(shapes, s)
	}
	vp := fit(shapes, opts)

	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex(opts.Background))

	if f.Boundary != nil {
		dc.SetHexColor(colorBoundary)
		dc.SetLineWidth(2)
		if err := polygon(dc, vp, f.Boundary.Corners()).Stroke(); err != nil {
			return fmt.Errorf("stroke boundary: %w", err)
		}
	}

	dc.SetRGBA(0.43, 0.47, 0.51, 0.25)
	if err := polygon(dc, vp, f.Element.Corners()).Fill(); err != nil {
		return fmt.Errorf("fill element: %w", err)
	}
	dc.SetHexColor(colorElement)
	dc.SetLineWidth(1.5)
	if err := polygon(dc, vp, f.Element.Corners()).Stroke(); err != nil {
		return fmt.Errorf("stroke element: %w", err)
	}

	if constrained != nil {
		dc.SetHexColor(colorConstrained)
		dc.SetDash(6, 4)
		if err := polygon(dc, vp, constrained.Corners()).Stroke(); err != nil {
			return fmt.Errorf("stroke constrained element: %w", err)
		}
		dc.SetDash()
	}

	for _, c := range f.Element.Corners() {
		if f.Boundary == nil || engine.PointInsideBoundary(c, *f.Boundary) {
			dc.SetHexColor(colorInside)
		} else {
			dc.SetHexColor(colorOutside)
		}
		p := vp.apply(c)
		dc.DrawCircle(p.X, p.Y, cornerRadius)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("fill corner: %w", err)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// viewport maps scene coordinates onto the canvas.
type viewport struct {
	scale  float64
	origin geometry.Point
	offset geometry.Point
}

func (v viewport) apply(p geometry.Point) geometry.Point {
	return p.Sub(v.origin).Scale(v.scale).Add(v.offset)
}

// fit returns the viewport that centers the union of the shapes' bounding
// boxes on the canvas, keeping the aspect ratio.
func fit(shapes []engine.Shape, opts Options) viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range shapes {
		for _, c := range s.Corners() {
			minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
			minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
		}
	}

	availW := float64(opts.Width) - 2*opts.Padding
	availH := float64(opts.Height) - 2*opts.Padding
	spanW, spanH := maxX-minX, maxY-minY

	scale := 1.0
	switch {
	case spanW > 0 && spanH > 0:
		scale = math.Min(availW/spanW, availH/spanH)
	case spanW > 0:
		scale = availW / spanW
	case spanH > 0:
		scale = availH / spanH
	}
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		scale = 1
	}

	return viewport{
		scale:  scale,
		origin: geometry.Pt(minX, minY),
		offset: geometry.Pt(
			(float64(opts.Width)-spanW*scale)/2,
			(float64(opts.Height)-spanH*scale)/2,
		),
	}
}

func polygon(dc *gg.Context, vp viewport, corners [4]geometry.Point) *gg.Context {
	for i, c := range corners {
		p := vp.apply(c)
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
		} else {
			dc.LineTo(p.X, p.Y)
		}
	}
	dc.ClosePath()
	return dc
}
