package playground

import (
	"math"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
)

// cellHeight is how many scene units one terminal row covers. Cells are
// roughly twice as tall as they are wide, so this keeps shapes square.
const cellHeight = 2.0

// Cell is what one terminal cell shows.
type Cell int

const (
	CellEmpty Cell = iota
	CellBoundary
	CellElement
	CellOverflow
)

// CellCenter is the scene point at the middle of a cell.
func CellCenter(col, row int) geometry.Point {
	return geometry.Pt(float64(col)+0.5, (float64(row)+0.5)*cellHeight)
}

// CellAt is the cell containing p.
func CellAt(p geometry.Point) (col, row int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y / cellHeight))
}

// Grid is a rasterized frame, row major.
type Grid struct {
	Cols, Rows int
	Cells      []Cell
}

func (g Grid) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return CellEmpty
	}
	return g.Cells[row*g.Cols+col]
}

// Rasterize samples the frame at every cell center. The boundary is drawn as
// its outline; element cells outside the boundary become CellOverflow.
func Rasterize(cols, rows int, f drag.Frame) Grid {
	g := Grid{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}

	inBoundary := func(col, row int) bool {
		return f.Boundary != nil && engine.PointInsideBoundary(CellCenter(col, row), *f.Boundary)
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			p := CellCenter(col, row)
			inside := inBoundary(col, row)

			var c Cell
			switch {
			case engine.PointInsideBoundary(p, f.Element):
				if f.Boundary == nil || inside {
					c = CellElement
				} else {
					c = CellOverflow
				}
			case inside && (!inBoundary(col-1, row) || !inBoundary(col+1, row) ||
				!inBoundary(col, row-1) || !inBoundary(col, row+1)):
				c = CellBoundary
			}
			g.Cells[row*cols+col] = c
		}
	}
	return g
}
