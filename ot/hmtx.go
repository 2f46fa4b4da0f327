package ot

import "fmt"

// --- HMtx table ------------------------------------------------------------

// HMtxTable contains the horizontal metrics of every glyph.
//
// Dependencies (taken from Apple Developer page about TrueType):
// The value of the numOfLongHorMetrics field is found in the 'hhea' (Horizontal Header)
// table. Glyphs beyond numOfLongHorMetrics share the advance width of the last
// long metric record and take their left side bearing from a trailing array
// of bearings.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
	longMetrics      []HMetricRecord
	leftSideBearings []int16
}

// HMetricRecord is one long horizontal metric record from table hmtx.
type HMetricRecord struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

func newHMtxTable(tag Tag, b binarySegm, offset, size uint32) *HMtxTable {
	t := &HMtxTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// parseAll decodes all metric records. A trailing bearings array shorter than
// numGlyphs-numberOfHMetrics is tolerated and reported as truncated; missing
// bearings read as 0.
func (t *HMtxTable) parseAll(numGlyphs, numberOfHMetrics int) (truncated bool, err error) {
	if numGlyphs < 0 {
		return false, fmt.Errorf("invalid glyph count %d", numGlyphs)
	}
	if numberOfHMetrics < 0 || numberOfHMetrics > numGlyphs {
		return false, fmt.Errorf("invalid numberOfHMetrics %d (numGlyphs=%d)", numberOfHMetrics, numGlyphs)
	}
	t.NumberOfHMetrics = numberOfHMetrics
	t.longMetrics = make([]HMetricRecord, numberOfHMetrics)
	for i := 0; i < numberOfHMetrics; i++ {
		aw, err := t.data.u16(i * 4)
		if err != nil {
			return false, fmt.Errorf("cannot parse hmtx long metric %d: %w", i, err)
		}
		lsb, err := t.data.i16(i*4 + 2)
		if err != nil {
			return false, fmt.Errorf("cannot parse hmtx long metric lsb %d: %w", i, err)
		}
		t.longMetrics[i] = HMetricRecord{AdvanceWidth: aw, LeftSideBearing: lsb}
	}
	lsbCount := numGlyphs - numberOfHMetrics
	t.leftSideBearings = make([]int16, lsbCount)
	base := numberOfHMetrics * 4
	for i := 0; i < lsbCount; i++ {
		lsb, err := t.data.i16(base + i*2)
		if err != nil {
			truncated = true
			break
		}
		t.leftSideBearings[i] = lsb
	}
	return truncated, nil
}

// HMetrics returns the advance width and left side bearing of glyph g.
//
// Glyphs at index ≥ numOfLongHorMetrics reuse the advance width of the last
// long metric record. If the font has no long metrics at all, the advance is 0.
func (t *HMtxTable) HMetrics(g GlyphIndex) HMetricRecord {
	if t == nil || len(t.longMetrics) == 0 {
		return HMetricRecord{}
	}
	n := len(t.longMetrics)
	if int(g) < n {
		return t.longMetrics[g]
	}
	rec := HMetricRecord{AdvanceWidth: t.longMetrics[n-1].AdvanceWidth}
	if i := int(g) - n; i < len(t.leftSideBearings) {
		rec.LeftSideBearing = t.leftSideBearings[i]
	}
	return rec
}
