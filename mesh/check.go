package mesh

import (
	"errors"
	"fmt"
	"math"
)

// ErrIndexRange is reported by CheckRanges for a triangle referencing a
// vertex outside of its glyph.
var ErrIndexRange = errors.New("triangle index out of glyph range")

// TriangleArea returns the unsigned area of triangle t.
func (a *Arena) TriangleArea(t Triangle) float64 {
	p, q, r := a.Vertices[t.I0], a.Vertices[t.I1], a.Vertices[t.I2]
	return math.Abs((q.X-p.X)*(r.Y-p.Y)-(q.Y-p.Y)*(r.X-p.X)) / 2
}

// SignedArea sums the areas of the triangles of glyph g: flat and convex
// triangles count positive, concave triangles negative. For a glyph without
// overlapping contours this equals the area enclosed by its outline
// polygon, control points included.
func (a *Arena) SignedArea(g int) float64 {
	var sum float64
	for _, t := range a.GlyphTriangles(g) {
		if t.Tag == ConcaveCurve {
			sum -= a.TriangleArea(t)
		} else {
			sum += a.TriangleArea(t)
		}
	}
	return sum
}

// CheckRanges verifies that every triangle references vertices of the glyph
// it belongs to, and that glyph ranges lie within the buffers.
func (a *Arena) CheckRanges() error {
	for g, r := range a.Glyphs {
		if r.VertexStart < 0 || r.VertexStart+r.VertexCount > len(a.Vertices) ||
			r.TriangleStart < 0 || r.TriangleStart+r.TriangleCount > len(a.Triangles) {
			return fmt.Errorf("%w: glyph %d exceeds buffers", ErrIndexRange, g)
		}
		lo, hi := uint32(r.VertexStart), uint32(r.VertexStart+r.VertexCount)
		for i, t := range a.GlyphTriangles(g) {
			for _, v := range [3]uint32{t.I0, t.I1, t.I2} {
				if v < lo || v >= hi {
					return fmt.Errorf("%w: glyph %d, triangle %d references vertex %d not in [%d,%d)",
						ErrIndexRange, g, i, v, lo, hi)
				}
			}
		}
	}
	return nil
}

// Stats counts triangles by curvature tag.
type Stats struct {
	Glyphs        int
	EmptyGlyphs   int
	Vertices      int
	Flat          int
	ConvexCurves  int
	ConcaveCurves int
}

// Triangles is the total number of triangles.
func (s Stats) Triangles() int {
	return s.Flat + s.ConvexCurves + s.ConcaveCurves
}

func (s Stats) String() string {
	return fmt.Sprintf("%d glyphs (%d empty), %d vertices, %d triangles (%d flat, %d convex, %d concave)",
		s.Glyphs, s.EmptyGlyphs, s.Vertices, s.Triangles(), s.Flat, s.ConvexCurves, s.ConcaveCurves)
}

// Stats collects statistics over all glyphs of the arena.
func (a *Arena) Stats() Stats {
	s := Stats{Glyphs: len(a.Glyphs), Vertices: len(a.Vertices)}
	for _, r := range a.Glyphs {
		if r.IsEmpty() {
			s.EmptyGlyphs++
		}
	}
	for _, t := range a.Triangles {
		switch t.Tag {
		case Flat:
			s.Flat++
		case ConvexCurve:
			s.ConvexCurves++
		case ConcaveCurve:
			s.ConcaveCurves++
		}
	}
	return s
}
