/*
Package mesh holds the triangle meshes of a compiled font.

All glyphs share one vertex buffer and one triangle buffer, collected in an
Arena. A GlyphRecord addresses the ranges of its glyph within both buffers.
Triangle indices are global, i.e. they index the arena's vertex buffer
directly.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package mesh

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontmesh.mesh'
func tracer() tracing.Trace {
	return tracing.Select("fontmesh.mesh")
}

// CurvatureTag tells a renderer how to shade a triangle.
type CurvatureTag uint8

const (
	// Flat triangles are filled completely.
	Flat CurvatureTag = iota
	// ConvexCurve triangles are filled inside of the quadratic curve spanned
	// by their vertices (on-curve, control, on-curve). They add to the glyph's area.
	ConvexCurve
	// ConcaveCurve triangles cut the area outside of the quadratic curve out
	// of the fill. They subtract from the glyph's area.
	ConcaveCurve
)

func (t CurvatureTag) String() string {
	switch t {
	case Flat:
		return "flat"
	case ConvexCurve:
		return "convex"
	case ConcaveCurve:
		return "concave"
	}
	return fmt.Sprintf("CurvatureTag(%d)", uint8(t))
}

// Vertex is a point of a mesh. Coordinates are font units, or [0…1] after
// normalization.
type Vertex struct {
	X, Y float64
}

// Triangle references three vertices of the arena's vertex buffer.
type Triangle struct {
	I0, I1, I2 uint32
	Tag        CurvatureTag
}

// GlyphRecord describes the mesh and horizontal metrics of one glyph.
type GlyphRecord struct {
	IsComposite     bool
	VertexStart     int
	VertexCount     int
	TriangleStart   int
	TriangleCount   int
	AdvanceWidth    uint16
	LeftSideBearing int16
	// Glyph bounding box as stated in the glyph header, in font units.
	MinExtent, MaxExtent Vertex
}

// IsEmpty is true for glyphs without geometry.
func (r GlyphRecord) IsEmpty() bool {
	return r.TriangleCount == 0
}

// Arena collects the meshes of all glyphs of a font. Buffers grow by
// appending only.
type Arena struct {
	Vertices  []Vertex
	Triangles []Triangle
	Glyphs    []GlyphRecord
}

// NewArena creates an arena with capacity for numGlyphs glyph records.
func NewArena(numGlyphs int) *Arena {
	return &Arena{
		Glyphs: make([]GlyphRecord, 0, numGlyphs),
	}
}

// Builder appends the geometry of a single glyph to an arena.
type Builder struct {
	arena *Arena
	rec   GlyphRecord
}

// Begin starts the geometry of the next glyph.
func (a *Arena) Begin() *Builder {
	return &Builder{
		arena: a,
		rec: GlyphRecord{
			VertexStart:   len(a.Vertices),
			TriangleStart: len(a.Triangles),
		},
	}
}

// Append adds a mesh part to the glyph. Triangle indices of tris are
// relative to vs and are rebased onto the arena's vertex buffer.
func (b *Builder) Append(vs []Vertex, tris []Triangle) {
	base := uint32(len(b.arena.Vertices))
	b.arena.Vertices = append(b.arena.Vertices, vs...)
	for _, t := range tris {
		t.I0 += base
		t.I1 += base
		t.I2 += base
		b.arena.Triangles = append(b.arena.Triangles, t)
	}
}

// Discard removes all geometry appended to the glyph so far, e.g. after a
// failing mesh part.
func (b *Builder) Discard() {
	b.arena.Vertices = b.arena.Vertices[:b.rec.VertexStart]
	b.arena.Triangles = b.arena.Triangles[:b.rec.TriangleStart]
}

// End completes the glyph record and appends it to the arena. The
// record's ranges are set by the builder; metrics and extents are taken from rec.
func (b *Builder) End(rec GlyphRecord) GlyphRecord {
	rec.VertexStart = b.rec.VertexStart
	rec.VertexCount = len(b.arena.Vertices) - b.rec.VertexStart
	rec.TriangleStart = b.rec.TriangleStart
	rec.TriangleCount = len(b.arena.Triangles) - b.rec.TriangleStart
	b.arena.Glyphs = append(b.arena.Glyphs, rec)
	return rec
}

// Concat appends all glyphs of other to a, rebasing ranges and indices.
func (a *Arena) Concat(other *Arena) {
	vbase, tbase := len(a.Vertices), len(a.Triangles)
	a.Vertices = append(a.Vertices, other.Vertices...)
	for _, t := range other.Triangles {
		t.I0 += uint32(vbase)
		t.I1 += uint32(vbase)
		t.I2 += uint32(vbase)
		a.Triangles = append(a.Triangles, t)
	}
	for _, rec := range other.Glyphs {
		rec.VertexStart += vbase
		rec.TriangleStart += tbase
		a.Glyphs = append(a.Glyphs, rec)
	}
}

// GlyphVertices returns the vertices of glyph g.
func (a *Arena) GlyphVertices(g int) []Vertex {
	if g < 0 || g >= len(a.Glyphs) {
		return nil
	}
	r := a.Glyphs[g]
	return a.Vertices[r.VertexStart : r.VertexStart+r.VertexCount]
}

// GlyphTriangles returns the triangles of glyph g. Indices are global.
func (a *Arena) GlyphTriangles(g int) []Triangle {
	if g < 0 || g >= len(a.Glyphs) {
		return nil
	}
	r := a.Glyphs[g]
	return a.Triangles[r.TriangleStart : r.TriangleStart+r.TriangleCount]
}
