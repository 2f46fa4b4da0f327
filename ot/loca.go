package ot

import "fmt"

// --- Loca table ------------------------------------------------------------

// Loca table formats, as stated by head.indexToLocFormat.
const (
	ShortLocaFormat int16 = 0 // uint16 entries storing offset/2
	LongLocaFormat  int16 = 1 // uint32 entries storing the offset
)

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the glyph data table. It is the GlyphLocator
// of the mesh compiler: together with the font-wide extents of table 'head'
// it tells where to find a glyph and how to normalize its coordinates.
//
// By definition, index zero points to the “missing character”, which is the
// character that appears if a character is not found in the font. The
// size of glyph g is the difference between entries g+1 and g, thus the
// table holds numGlyphs+1 entries.
type LocaTable struct {
	tableBase
	Format  int16
	offsets []uint32 // numGlyphs+1 decoded byte offsets into 'glyf'
}

func newLocaTable(tag Tag, b binarySegm, offset, size uint32) *LocaTable {
	t := &LocaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// decodeLocations decodes numGlyphs+1 entries in the given format.
// If the table lacks the final entry, glyfSize is used as the end of the last glyph.
func (t *LocaTable) decodeLocations(format int16, numGlyphs int, glyfSize uint32) error {
	t.Format = format
	t.offsets = make([]uint32, numGlyphs+1)
	for i := 0; i <= numGlyphs; i++ {
		var loc uint32
		switch format {
		case ShortLocaFormat:
			n, err := t.data.u16(i * 2)
			if err != nil {
				if i == numGlyphs {
					loc = glyfSize
					break
				}
				return fmt.Errorf("loca entry %d: %w", i, err)
			}
			loc = uint32(n) * 2
		case LongLocaFormat:
			n, err := t.data.u32(i * 4)
			if err != nil {
				if i == numGlyphs {
					loc = glyfSize
					break
				}
				return fmt.Errorf("loca entry %d: %w", i, err)
			}
			loc = n
		default:
			return fmt.Errorf("invalid loca format %d", format)
		}
		t.offsets[i] = loc
	}
	return nil
}

// NumGlyphs returns the number of glyphs located by this table.
func (t *LocaTable) NumGlyphs() int {
	if len(t.offsets) == 0 {
		return 0
	}
	return len(t.offsets) - 1
}

// Offset returns the byte offset of glyph g relative to the start of 'glyf'.
func (t *LocaTable) Offset(g GlyphIndex) uint32 {
	if int(g) >= len(t.offsets) {
		return 0
	}
	return t.offsets[g]
}

// GlyphRange returns the byte range [start, end) of glyph g within table 'glyf'.
// A glyph without outline (e.g., a space) has start == end.
func (t *LocaTable) GlyphRange(g GlyphIndex) (start, end uint32, err error) {
	if int(g)+1 >= len(t.offsets) {
		return 0, 0, fmt.Errorf("glyph index %d out of range [0…%d)", g, t.NumGlyphs())
	}
	start, end = t.offsets[g], t.offsets[g+1]
	if end < start {
		return 0, 0, fmt.Errorf("glyph %d: loca offsets not ascending (%d > %d)", g, start, end)
	}
	return start, end, nil
}

// GlyphData returns the raw outline bytes of glyph g. A glyph without
// outline yields an empty slice without error.
func (otf *Font) GlyphData(g GlyphIndex) ([]byte, error) {
	start, end, err := otf.Loca.GlyphRange(g)
	if err != nil {
		return nil, err
	}
	if start == end {
		return []byte{}, nil
	}
	data, err := otf.Glyf.data.view(int(start), int(end-start))
	if err != nil {
		return nil, fmt.Errorf("glyph %d exceeds table 'glyf': %w", g, err)
	}
	return data, nil
}
