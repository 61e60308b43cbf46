package geometry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidMatrix is returned when a transform string cannot be parsed.
var ErrInvalidMatrix = errors.New("invalid transform matrix")

// Matrix is an affine transform in the order a computed CSS transform
// prints it, matrix(a, b, c, d, e, f). It maps (x, y) to
// (a*x + c*y + e, b*x + d*y + f).
type Matrix struct {
	A, B, C, D, E, F float64
}

func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// NewMatrix rotates by degrees and then translates by t, the shape of the
// transform a dragged element carries.
func NewMatrix(degrees float64, t Point) Matrix {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return Matrix{A: cos, B: sin, C: -sin, D: cos, E: t.X, F: t.Y}
}

func (m Matrix) values() [6]float64 {
	return [6]float64{m.A, m.B, m.C, m.D, m.E, m.F}
}

// Apply maps p through the transform.
func (m Matrix) Apply(p Point) Point {
	return Point{X: m.A*p.X + m.C*p.Y + m.E, Y: m.B*p.X + m.D*p.Y + m.F}
}

func (m Matrix) Translation() Point {
	return Point{X: m.E, Y: m.F}
}

// WithTranslation replaces the translation and keeps the linear part.
func (m Matrix) WithTranslation(t Point) Matrix {
	m.E, m.F = t.X, t.Y
	return m
}

// RotationDegrees is asin(b) in degrees. It assumes unit scale, which holds
// for the elements being dragged, and so cannot tell 30 from 150.
func (m Matrix) RotationDegrees() float64 {
	return math.Asin(math.Max(-1, math.Min(1, m.B))) * 180 / math.Pi
}

func (m Matrix) IsIdentity() bool {
	const eps = 1e-10
	want := Identity().values()
	for i, v := range m.values() {
		if math.Abs(v-want[i]) >= eps {
			return false
		}
	}
	return true
}

// CSS formats m as a transform value.
func (m Matrix) CSS() string {
	var sb strings.Builder
	sb.WriteString("matrix(")
	for i, v := range m.values() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	sb.WriteByte(')')
	return sb.String()
}

// ParseCSSMatrix reads a computed transform. "none" and "" are the
// identity. Trailing values left out of matrix(...) keep their identity
// defaults.
func ParseCSSMatrix(s string) (Matrix, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return Identity(), nil
	}

	body, ok := strings.CutPrefix(s, "matrix(")
	if !ok {
		return Identity(), fmt.Errorf("%w: %q", ErrInvalidMatrix, s)
	}
	body, ok = strings.CutSuffix(body, ")")
	if !ok {
		return Identity(), fmt.Errorf("%w: %q", ErrInvalidMatrix, s)
	}

	v := Identity().values()
	fields := strings.Split(body, ",")
	if len(fields) > len(v) {
		return Identity(), fmt.Errorf("%w: %d values in %q", ErrInvalidMatrix, len(fields), s)
	}
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Identity(), fmt.Errorf("%w: %v", ErrInvalidMatrix, err)
		}
		v[i] = n
	}
	return Matrix{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]}, nil
}
