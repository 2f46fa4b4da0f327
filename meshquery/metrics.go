package meshquery

import (
	"github.com/npillmayer/fontmesh/ot"
	"golang.org/x/image/font/sfnt"
)

// FontType returns "TrueType" for fonts with TrueType outlines, which are the
// only ones ot.Parse accepts.
func FontType(otf *ot.Font) string {
	if otf == nil {
		return ""
	}
	switch otf.Header.ScalerType {
	case 0x00010000:
		return "TrueType"
	case 0x74727565:
		return "TrueType (Apple)"
	}
	return "unknown"
}

// FontMetrics retrieves selected metrics of a font.
func FontMetrics(otf *ot.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if hhea, ok := HHeaInfo(otf); ok {
		metrics.Ascent = sfnt.Units(hhea.Ascender)
		metrics.Descent = sfnt.Units(hhea.Descender)
		metrics.LineGap = sfnt.Units(hhea.LineGap)
		metrics.MaxAdvance = sfnt.Units(hhea.AdvanceWidthMax)
	}
	if head, ok := HeadInfo(otf); ok {
		metrics.UnitsPerEm = sfnt.Units(head.UnitsPerEm)
		metrics.Bounds = BoundingBox{
			MinX: sfnt.Units(head.XMin), MinY: sfnt.Units(head.YMin),
			MaxX: sfnt.Units(head.XMax), MaxY: sfnt.Units(head.YMax),
		}
	}
	return metrics
}

// CodePointForGlyph returns the smallest code point mapped to a glyph, or 0.
//
// This is an inefficient operation: all code points of the font's character
// map are checked sequentially.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if gid == 0 || otf == nil || otf.CMap == nil {
		return 0
	}
	for cp, g := range otf.CMap.Codepoints {
		if g == gid {
			return rune(cp)
		}
	}
	return 0
}

// GlyphMetrics retrieves metrics for a glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) GlyphMetricsInfo {
	metrics := GlyphMetricsInfo{}
	if otf == nil || otf.HMtx == nil {
		return metrics
	}
	hm := otf.HMtx.HMetrics(gid)
	metrics.Advance = sfnt.Units(hm.AdvanceWidth)
	metrics.LSB = sfnt.Units(hm.LeftSideBearing)
	if data, err := otf.GlyphData(gid); err == nil && len(data) >= 10 {
		contours, _ := ot.ReadI16(data, 0)
		metrics.Composite = contours < 0
		xmin, _ := ot.ReadI16(data, 2)
		ymin, _ := ot.ReadI16(data, 4)
		xmax, _ := ot.ReadI16(data, 6)
		ymax, _ := ot.ReadI16(data, 8)
		metrics.BBox = BoundingBox{
			MinX: sfnt.Units(xmin), MinY: sfnt.Units(ymin),
			MaxX: sfnt.Units(xmax), MaxY: sfnt.Units(ymax),
		}
	}
	// rsb = aw - (lsb + xMax - xMin)
	// Glyphs without contours have no defined bounding box, leave their RSB at 0.
	if !metrics.BBox.IsEmpty() {
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}
