/*
Package tessellate turns glyph outlines into triangle meshes suitable for
GPU rendering of quadratic curves.

Every outline yields two kinds of triangles. Flat triangles cover the
polygon spanned by the on-curve points of the outline. They result from a
constrained Delaunay triangulation with the on-curve edges as constraints.
Each quadratic span on→off→on of the outline then contributes one curve
triangle made of its three points. The curve triangle is tagged convex if
its control point lies outside of the flat fill, i.e. the curve bulges
outward and the area between chord and curve has to be added. Otherwise it
is tagged concave, and the area between curve and chord has to be cut out
of the fill.

Overlapping ink makes rendering ambiguous. Before the final fill is
computed, points lying strictly inside the ink of a convex curve, i.e.
between its chord and the curve, are therefore moved out of it. Such points
only occur in outlines with crossing contours. Moving them changes the
shape, so the area of a mesh with relocated points differs from the area
of its outline.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package tessellate

import (
	"github.com/npillmayer/fontmesh/internal/cdt"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontmesh.tessellate'
func tracer() tracing.Trace {
	return tracing.Select("fontmesh.tessellate")
}

// Point is a vertex position handed to a Triangulator.
type Point = cdt.Point

// Edge is a constraint for a Triangulator, referencing two vertices.
type Edge = cdt.Edge

// Triangle is a triple of vertex indices returned by a Triangulator.
type Triangle = cdt.Triangle

// Triangulator computes a constrained triangulation of a point set.
//
// Vertices returns the input vertices, in input order, followed by any
// vertices the triangulator had to insert. Triangles references those
// vertices.
type Triangulator interface {
	InsertVertices([]Point) error
	ConformToEdges([]Edge) error
	EraseOuterTrianglesAndHoles()
	Triangles() []Triangle
	Vertices() []Point
}

// NewDelaunay returns the default triangulator, a constrained Delaunay
// triangulation.
func NewDelaunay() Triangulator {
	return cdt.New()
}
