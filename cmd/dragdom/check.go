package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
)

type checkFlags struct {
	candidate []float64
	element   []float64
	boundary  []float64
	start     []float64
	constrain bool
	json      bool
}

func newCheckCmd() *cobra.Command {
	f := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check one candidate position against a boundary",
		Long: `Evaluate where an element would sit if its center moved to the
candidate point, and which boundary edges it would cross.

Shapes are given as comma separated numbers:
  --element   width,height[,rotation]
  --boundary  centerX,centerY,width,height[,rotation]

Rotations are in degrees. Without --boundary there is nothing to check and
the result is null.

Examples:
  dragdom check --element 50,50 --boundary 100,50,200,100 --candidate 200,50
  dragdom check --element 20,10,45 --boundary 0,0,100,100,45 --candidate 60,0 --constrain --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, candidate, err := f.request()
			if err != nil {
				return err
			}
			result := engine.CheckBounds(candidate, req)

			out := cmd.OutOrStdout()
			if f.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(out, formatResult(candidate, result))
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&f.candidate, "candidate", nil, "Candidate element center x,y")
	cmd.Flags().Float64SliceVar(&f.element, "element", nil, "Element width,height[,rotation]")
	cmd.Flags().Float64SliceVar(&f.boundary, "boundary", nil, "Boundary centerX,centerY,width,height[,rotation]")
	cmd.Flags().Float64SliceVar(&f.start, "start", nil, "Drag start center x,y (default: the candidate)")
	cmd.Flags().BoolVar(&f.constrain, "constrain", false, "Compute the constrained position")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the result as JSON")
	cmd.MarkFlagRequired("candidate")
	cmd.MarkFlagRequired("element")

	return cmd
}

func (f *checkFlags) request() (engine.Request, geometry.Point, error) {
	var req engine.Request

	candidate, err := point("candidate", f.candidate)
	if err != nil {
		return req, candidate, err
	}

	if n := len(f.element); n != 2 && n != 3 {
		return req, candidate, fmt.Errorf("--element wants width,height[,rotation], got %d values", n)
	}
	req.Element = engine.Shape{Center: candidate, Width: f.element[0], Height: f.element[1]}
	if len(f.element) == 3 {
		req.Element.Rotation = f.element[2]
	}

	if f.boundary != nil {
		if n := len(f.boundary); n != 4 && n != 5 {
			return req, candidate, fmt.Errorf("--boundary wants centerX,centerY,width,height[,rotation], got %d values", n)
		}
		b := engine.Shape{
			Center: geometry.Pt(f.boundary[0], f.boundary[1]),
			Width:  f.boundary[2],
			Height: f.boundary[3],
		}
		if len(f.boundary) == 5 {
			b.Rotation = f.boundary[4]
		}
		req.Boundary = &b
	}

	req.Start = candidate
	if f.start != nil {
		if req.Start, err = point("start", f.start); err != nil {
			return req, candidate, err
		}
	}
	req.Constrain = f.constrain
	return req, candidate, nil
}

func point(name string, v []float64) (geometry.Point, error) {
	if len(v) != 2 {
		return geometry.Point{}, fmt.Errorf("--%s wants x,y, got %d values", name, len(v))
	}
	return geometry.Pt(v[0], v[1]), nil
}

func formatResult(candidate geometry.Point, r *engine.BoundsCheckResult) string {
	if r == nil {
		return styleWarn.Render("no boundary configured, nothing to check")
	}

	collision := styleOK.Render("none")
	if r.HasCollision() {
		collision = styleFail.Render(strings.Join(crossedEdges(r), ", "))
	}

	lines := []string{
		styleTitle.Render("bounds check"),
		row("candidate", formatPoint(candidate)),
		row("edges", collision),
	}
	if r.IsConstrained && r.ConstrainedCenter != nil {
		lines = append(lines,
			row("constrained", formatPoint(*r.ConstrainedCenter)),
			row("translation", formatPoint(r.Translation)),
		)
	}
	return styleBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func crossedEdges(r *engine.BoundsCheckResult) []string {
	var edges []string
	if r.Top {
		edges = append(edges, "top")
	}
	if r.Right {
		edges = append(edges, "right")
	}
	if r.Bottom {
		edges = append(edges, "bottom")
	}
	if r.Left {
		edges = append(edges, "left")
	}
	return edges
}

func formatPoint(p geometry.Point) string {
	return fmt.Sprintf("(%.4g, %.4g)", p.X, p.Y)
}
