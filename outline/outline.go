package outline

import (
	"fmt"
	"math"
)

// Point is a point of a glyph outline, in font units.
type Point struct {
	X, Y    float64
	OnCurve bool
}

func (p Point) String() string {
	if p.OnCurve {
		return fmt.Sprintf("(%g,%g)", p.X, p.Y)
	}
	return fmt.Sprintf("(%g,%g)*", p.X, p.Y)
}

// Outline is the decoded outline of a simple glyph.
//
// Points holds the points of all contours, contour by contour. EndPoints[i] is
// the index of the last point of contour i, after insertion of implied
// on-curve points. Within a contour, two off-curve points never follow each
// other, including the wrap-around from the last point to the first.
type Outline struct {
	Points    []Point
	EndPoints []int
	// Synthetic[i] counts the on-curve points inserted into contour i.
	Synthetic []int
	// Bounding box as stated in the glyph header, in font units.
	XMin, YMin, XMax, YMax int16
}

// ContourCount returns the number of contours.
func (o *Outline) ContourCount() int {
	return len(o.EndPoints)
}

// Contour returns the index range [from, to) of contour i within Points.
func (o *Outline) Contour(i int) (from, to int) {
	if i > 0 {
		from = o.EndPoints[i-1] + 1
	}
	return from, o.EndPoints[i] + 1
}

// IsEmpty is true for outlines without any points, e.g. a space glyph.
func (o *Outline) IsEmpty() bool {
	return o == nil || len(o.Points) == 0
}

// Transformed returns a copy of the outline with t applied to every point.
// The bounding box is left as stated in the glyph header.
func (o *Outline) Transformed(t Transform) *Outline {
	if t.IsIdentity() {
		return o
	}
	out := *o
	out.Points = make([]Point, len(o.Points))
	for i, p := range o.Points {
		out.Points[i] = t.Apply(p)
	}
	return &out
}

// --- Affine transforms -----------------------------------------------------

// Transform is an affine transform of glyph coordinates:
//
//	x' = A·x + C·y + E
//	y' = B·x + D·y + F
//
// The zero value is not the identity, use Identity.
type Transform struct {
	A, B, C, D, E, F float64
}

// Identity is the transform leaving every point in place.
var Identity = Transform{A: 1, D: 1}

// Translation returns a transform moving points by (dx, dy).
func Translation(dx, dy float64) Transform {
	return Transform{A: 1, D: 1, E: dx, F: dy}
}

// IsIdentity is true if t leaves every point in place.
func (t Transform) IsIdentity() bool {
	return t == Identity
}

// Apply transforms point p. The on-curve flag is kept.
func (t Transform) Apply(p Point) Point {
	return Point{
		X:       t.A*p.X + t.C*p.Y + t.E,
		Y:       t.B*p.X + t.D*p.Y + t.F,
		OnCurve: p.OnCurve,
	}
}

// Compose returns the transform applying inner first, then t.
func (t Transform) Compose(inner Transform) Transform {
	return Transform{
		A: t.A*inner.A + t.C*inner.B,
		B: t.B*inner.A + t.D*inner.B,
		C: t.A*inner.C + t.C*inner.D,
		D: t.B*inner.C + t.D*inner.D,
		E: t.A*inner.E + t.C*inner.F + t.E,
		F: t.B*inner.E + t.D*inner.F + t.F,
	}
}

// Det is the determinant of the linear part of t. A negative determinant
// mirrors the outline and reverses the winding of its contours.
func (t Transform) Det() float64 {
	return t.A*t.D - t.B*t.C
}

func (t Transform) String() string {
	if t.IsIdentity() {
		return "id"
	}
	return fmt.Sprintf("[%.4g %.4g %.4g %.4g | %g %g]", t.A, t.B, t.C, t.D, t.E, t.F)
}

// ShoelaceArea returns the unsigned area of the polygon formed by all points
// of the outline, control points included, contour by contour. Contours are
// combined with their signs, i.e. holes wound opposite to their enclosing
// contour are subtracted.
func (o *Outline) ShoelaceArea() float64 {
	var sum float64
	for c := range o.EndPoints {
		from, to := o.Contour(c)
		for i := from; i < to; i++ {
			j := i + 1
			if j == to {
				j = from
			}
			p, q := o.Points[i], o.Points[j]
			sum += p.X*q.Y - q.X*p.Y
		}
	}
	return math.Abs(sum) / 2
}
