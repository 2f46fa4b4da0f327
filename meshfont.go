package fontmesh

import (
	"github.com/npillmayer/fontmesh/mesh"
	"github.com/npillmayer/fontmesh/ot"
)

// MeshFont is a compiled font. It is immutable and safe for concurrent use.
type MeshFont struct {
	Name       string // full font name, if loaded with LoadFont
	UnitsPerEm uint16
	Extent     mesh.Extent // font bounding box in font units
	Normalized bool        // vertices are normalized to Extent
	// Arena holds the vertices and triangles of all glyphs, and one glyph
	// record per glyph index.
	Arena *mesh.Arena
	// Packed holds the vertices of Arena packed pairwise for upload.
	Packed     [][4]float32
	Codepoints ot.CodepointTable
	errors     []ot.FontError
	warnings   []ot.FontWarning
}

// NumGlyphs returns the number of glyphs.
func (mf *MeshFont) NumGlyphs() int {
	return len(mf.Arena.Glyphs)
}

// GlyphIndex returns the glyph for a code point, or 0 (notdef) if the font
// does not map it.
func (mf *MeshFont) GlyphIndex(r rune) ot.GlyphIndex {
	return mf.Codepoints.Lookup(r)
}

// Glyph returns the record of glyph g.
func (mf *MeshFont) Glyph(g ot.GlyphIndex) (mesh.GlyphRecord, bool) {
	if int(g) >= len(mf.Arena.Glyphs) {
		return mesh.GlyphRecord{}, false
	}
	return mf.Arena.Glyphs[g], true
}

// GlyphFor returns the record of the glyph for code point r. Unmapped code
// points yield the notdef glyph.
func (mf *MeshFont) GlyphFor(r rune) (mesh.GlyphRecord, bool) {
	return mf.Glyph(mf.GlyphIndex(r))
}

// GlyphTriangles returns the triangles of glyph g. Triangle indices address
// the complete vertex buffer.
func (mf *MeshFont) GlyphTriangles(g ot.GlyphIndex) []mesh.Triangle {
	return mf.Arena.GlyphTriangles(int(g))
}

// GlyphVertices returns the vertices of glyph g.
func (mf *MeshFont) GlyphVertices(g ot.GlyphIndex) []mesh.Vertex {
	return mf.Arena.GlyphVertices(int(g))
}

// Errors returns the errors of parsing and compilation. Glyphs failing to
// compile are reported with severity major.
func (mf *MeshFont) Errors() []ot.FontError {
	return mf.errors
}

// Warnings returns warnings of parsing and compilation, e.g. skipped cmap
// subtables or unsupported placement of composite components.
func (mf *MeshFont) Warnings() []ot.FontWarning {
	return mf.warnings
}

// Stats counts glyphs, vertices and triangles.
func (mf *MeshFont) Stats() mesh.Stats {
	return mf.Arena.Stats()
}
