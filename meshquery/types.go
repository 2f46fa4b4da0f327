package meshquery

import (
	"github.com/npillmayer/fontmesh/mesh"
	"golang.org/x/image/font/sfnt"
)

// FontMetricsInfo holds the font-wide metrics a mesh consumer needs for
// laying out glyphs, all in font units.
type FontMetricsInfo struct {
	UnitsPerEm      sfnt.Units  // from 'head'
	Ascent, Descent sfnt.Units  // from 'hhea'
	LineGap         sfnt.Units  // from 'hhea'
	MaxAdvance      sfnt.Units  // from 'hhea'
	Bounds          BoundingBox // union of all glyph boxes, from 'head'
}

// GlyphMetricsInfo holds the metrics of a glyph as stored in the font,
// independent of its mesh.
type GlyphMetricsInfo struct {
	Advance   sfnt.Units
	LSB, RSB  sfnt.Units
	BBox      BoundingBox // from the glyph header
	Composite bool
}

// BoundingBox is a box in font units.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

// IsEmpty is true for boxes without area, e.g. those of glyphs without
// contours.
func (bbox BoundingBox) IsEmpty() bool {
	return bbox.MaxX-bbox.MinX == 0 || bbox.MaxY-bbox.MinY == 0
}

// Dx returns the width of the box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy returns the height of the box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}

// Extent converts the box to the extent type of meshes. For the font
// bounds this is the box vertices are normalized against.
func (bbox BoundingBox) Extent() mesh.Extent {
	return mesh.Extent{
		Min: mesh.Vertex{X: float64(bbox.MinX), Y: float64(bbox.MinY)},
		Max: mesh.Vertex{X: float64(bbox.MaxX), Y: float64(bbox.MaxY)},
	}
}
