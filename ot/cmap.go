package ot

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
)

// CMapTable represents a TrueType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/de-de/typography/opentype/spec/cmap
//
// Mesh compilation needs the glyph of every code point the font covers, not
// single lookups. We therefore expand all Unicode subtables of formats 4 and 12
// into one dense table, indexed by code point.
type CMapTable struct {
	tableBase
	Codepoints CodepointTable   // dense code point to glyph table
	encodings  []encodingRecord // Unicode subtables, in directory order
	mappings   int              // number of code points mapped to a glyph ≠ 0
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// Mappings returns the number of code points mapped to a glyph other than notdef.
func (t *CMapTable) Mappings() int {
	return t.mappings
}

type encodingRecord struct {
	platformId uint16
	encodingId uint16
	offset     uint32 // of the subtable, relative to the start of the cmap table
	format     uint16
}

// MaxCodepoint is the largest Unicode scalar value.
const MaxCodepoint = 0x10FFFF

// CodepointTable maps Unicode scalar values to glyph indices. It is dense,
// i.e. indexed by code point from 0 up to the maximum code point mapped by the
// font. Unmapped code points hold glyph 0, the “missing character”.
type CodepointTable []GlyphIndex

// Lookup returns the glyph for code point r, or 0 if r is not mapped.
func (ct CodepointTable) Lookup(r rune) GlyphIndex {
	if r < 0 || int(r) >= len(ct) {
		return 0
	}
	return ct[r]
}

// MaxCodepoint returns the largest code point covered by the table, or -1
// for an empty table.
func (ct CodepointTable) MaxCodepoint() rune {
	return rune(len(ct) - 1)
}

// isUnicodeEncoding is true for the platform/encoding combinations which
// map Unicode code points.
//
//	0 (Unicode)  any  Unicode BMP or full repertoire
//	3 (Win)      1    Unicode BMP
//	3 (Win)      10   Unicode full
//
// The Macintosh platform (1) and legacy Windows encodings are skipped.
func isUnicodeEncoding(pid, psid uint16) bool {
	return pid == 0 || (pid == 3 && (psid == 1 || psid == 10))
}

// supportedCmapFormat is true for the subtable formats we can expand.
// Format 4 covers the BMP with segments, format 12 covers the full
// repertoire with sequential groups. Other formats are skipped.
func supportedCmapFormat(format uint16) bool {
	return format == 4 || format == 12
}

// --- Collecting code points -------------------------------------------------

// codepointCollector merges the mappings of all subtables. The first subtable
// to map a code point wins; later mappings of the same code point are dropped.
type codepointCollector struct {
	mappings  *treemap.Map // int code point → GlyphIndex, ordered by code point
	numGlyphs int
	dropped   int // mappings to glyphs ≥ numGlyphs
}

func newCodepointCollector(numGlyphs int) *codepointCollector {
	return &codepointCollector{
		mappings:  treemap.NewWithIntComparator(),
		numGlyphs: numGlyphs,
	}
}

func (cc *codepointCollector) add(cp uint32, g GlyphIndex) {
	if g == 0 || cp > MaxCodepoint {
		return // "no mapping"
	}
	if cc.numGlyphs > 0 && int(g) >= cc.numGlyphs {
		cc.dropped++
		return
	}
	if _, found := cc.mappings.Get(int(cp)); found {
		return
	}
	cc.mappings.Put(int(cp), g)
}

// expand creates the dense table. Code points are visited in descending
// order, the first one determining the size of the table.
func (cc *codepointCollector) expand() CodepointTable {
	var table CodepointTable
	it := cc.mappings.Iterator()
	for it.End(); it.Prev(); {
		cp := it.Key().(int)
		if table == nil {
			table = make(CodepointTable, cp+1)
		}
		table[cp] = it.Value().(GlyphIndex)
	}
	return table
}

// --- Subtable formats --------------------------------------------------------

// Format 4: Segment mapping to delta values.
//
// The subtable holds four parallel arrays of segCount entries each, describing
// contiguous ranges of codes: endCode, startCode, idDelta and idRangeOffset,
// followed by the glyphIdArray.
// See https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-4-segment-mapping-to-delta-values
func expandFormat4(b binarySegm, cc *codepointCollector) error {
	segCountX2, err := b.u16(6)
	if err != nil {
		return fmt.Errorf("format 4 header: %w", err)
	}
	if segCountX2&1 != 0 {
		return fmt.Errorf("format 4: odd segCountX2 %d", segCountX2)
	}
	segX2 := int(segCountX2)
	endCodes := 14
	startCodes := endCodes + segX2 + 2 // skip reservedPad
	deltas := startCodes + segX2
	rangeOffsets := deltas + segX2
	if _, err := b.view(endCodes, 4*segX2+2); err != nil {
		return fmt.Errorf("format 4 segment arrays: %w", err)
	}
	for i := 0; i < segX2/2; i++ {
		end, _ := b.u16(endCodes + 2*i)
		start, _ := b.u16(startCodes + 2*i)
		delta, _ := b.u16(deltas + 2*i)
		roPos := rangeOffsets + 2*i
		ro, _ := b.u16(roPos)
		if start > end {
			continue
		}
		for c := uint32(start); c <= uint32(end); c++ {
			if c == 0xFFFF { // final segment marker
				break
			}
			if ro == 0 {
				cc.add(c, GlyphIndex((c+uint32(delta))&0xFFFF))
				continue
			}
			// “The character code offset from startCode is added to the idRangeOffset value.
			//  This sum is used as an offset from the current location within idRangeOffset
			//  itself to index out the correct glyphIdArray value.”
			at := roPos + int(ro) + 2*int(c-uint32(start))
			g, err := b.u16(at)
			if err != nil {
				return fmt.Errorf("format 4 segment %d: glyphIdArray: %w", i, err)
			}
			if g != 0 { // 0 is missingGlyph, delta must not be applied
				g += delta
			}
			cc.add(c, GlyphIndex(g))
		}
	}
	return nil
}

// Format 12: Segmented coverage.
//
// Groups of sequential character codes map to sequential glyph IDs.
// See https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-12-segmented-coverage
func expandFormat12(b binarySegm, cc *codepointCollector) error {
	nGroups, err := b.u32(12)
	if err != nil {
		return fmt.Errorf("format 12 header: %w", err)
	}
	groupsSize, err := checkedMulInt(int(nGroups), 12)
	if err != nil {
		return fmt.Errorf("format 12: %w", err)
	}
	if _, err := b.view(16, groupsSize); err != nil && nGroups > 0 {
		return fmt.Errorf("format 12 groups: %w", err)
	}
	for i := 0; i < int(nGroups); i++ {
		rec := 16 + 12*i
		start, _ := b.u32(rec)
		end, _ := b.u32(rec + 4)
		glyph, _ := b.u32(rec + 8)
		if start > end || start > MaxCodepoint {
			continue
		}
		end = min(end, MaxCodepoint)
		for c := start; c <= end; c++ {
			g := glyph + (c - start)
			if g > 0xFFFF {
				break
			}
			cc.add(c, GlyphIndex(g))
		}
	}
	return nil
}

// buildCodepointTable expands every supported Unicode subtable into the
// dense code point table. Unsupported subtables are skipped with a warning.
func (t *CMapTable) buildCodepointTable(numGlyphs int, ec *errorCollector) {
	cc := newCodepointCollector(numGlyphs)
	seen := make(map[uint32]bool, len(t.encodings))
	for _, enc := range t.encodings {
		if seen[enc.offset] { // several encoding records may share a subtable
			continue
		}
		seen[enc.offset] = true
		sub := t.data[enc.offset:]
		var err error
		switch enc.format {
		case 4:
			err = expandFormat4(sub, cc)
		case 12:
			err = expandFormat12(sub, cc)
		}
		if err != nil {
			ec.addError(t.name, fmt.Sprintf("Format%d", enc.format), err.Error(), SeverityMinor,
				t.offset+enc.offset)
			tracer().Infof("cmap subtable (%d|%d) format %d: %v", enc.platformId, enc.encodingId,
				enc.format, err)
		}
	}
	if cc.dropped > 0 {
		ec.addWarning(t.name, fmt.Sprintf("%d mappings to glyphs beyond numGlyphs dropped", cc.dropped), t.offset)
	}
	t.Codepoints = cc.expand()
	t.mappings = cc.mappings.Size()
	tracer().Debugf("cmap maps %d code points, max code point = %#x", t.mappings,
		t.Codepoints.MaxCodepoint())
}
