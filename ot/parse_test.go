package ot

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/npillmayer/fontmesh/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareGlyph() fonttest.Glyph {
	return fonttest.Glyph{
		Contours: [][]fonttest.Pt{{
			fonttest.On(0, 0), fonttest.On(0, 100), fonttest.On(100, 100), fonttest.On(100, 0),
		}},
		Advance: 120,
		LSB:     0,
	}
}

func testFont() *fonttest.Font {
	return &fonttest.Font{
		Glyphs: []fonttest.Glyph{
			{Advance: 500}, // notdef without outline
			squareGlyph(),
			{Advance: 250, LSB: 7}, // space
		},
		CMap: map[rune]uint16{'A': 1, ' ': 2},
	}
}

func TestParseHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(testFont().Bytes())
	require.NoError(t, err)
	if otf.Header.ScalerType != 0x00010000 {
		t.Fatalf("expected TrueType scaler type 0x0001000, is %x", otf.Header.ScalerType)
	}
	if otf.Directory.Len() != 7 {
		t.Errorf("expected 7 table records, have %d", otf.Directory.Len())
	}
	glyf, ok := otf.Directory.FindTable(T("glyf")).Unwrap()
	require.True(t, ok, "expected to find table 'glyf'")
	offset, size := otf.Glyf.Extent()
	assert.Equal(t, glyf.Offset, offset)
	assert.Equal(t, glyf.Length, size)
	assert.True(t, otf.Directory.FindTable(T("GSUB")).IsNone())
	assert.Equal(t, 3, otf.NumGlyphs())
	assert.Equal(t, int16(0), otf.Head.XMin)
	assert.Equal(t, int16(100), otf.Head.YMax)
}

func TestParseRejectsCFF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	data := testFont().Bytes()
	binary.BigEndian.PutUint32(data, 0x4f54544f) // OTTO
	_, err := Parse(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFontLoad))
}

func TestParseMissingMandatoryTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for _, tag := range MandatoryTables {
		t.Run(tag, func(t *testing.T) {
			f := testFont()
			f.Omit = []string{tag}
			_, err := Parse(f.Bytes())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFontLoad), "expected font load error")
			var missing *MissingTableError
			require.True(t, errors.As(err, &missing), "expected MissingTableError, got %v", err)
			assert.Equal(t, T(tag), missing.Table)
		})
	}
	t.Run("two missing", func(t *testing.T) {
		f := testFont()
		f.Omit = []string{"hmtx", "glyf"}
		_, err := Parse(f.Bytes())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'hmtx'")
		assert.Contains(t, err.Error(), "'glyf'")
	})
}

func TestLocaFormats(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	raw := make([]byte, 16)
	for i, off := range []uint32{0, 12, 12, 40} {
		binary.BigEndian.PutUint32(raw[i*4:], off)
	}
	t.Run("long", func(t *testing.T) {
		loca := newLocaTable(T("loca"), raw, 0, 16)
		require.NoError(t, loca.decodeLocations(LongLocaFormat, 3, 100))
		assert.Equal(t, 3, loca.NumGlyphs())
		for g, want := range [][2]uint32{{0, 12}, {12, 12}, {12, 40}} {
			start, end, err := loca.GlyphRange(GlyphIndex(g))
			require.NoError(t, err)
			assert.Equal(t, want, [2]uint32{start, end}, "glyph %d", g)
		}
		_, _, err := loca.GlyphRange(3)
		assert.Error(t, err, "glyph 3 is out of range")
	})
	t.Run("short", func(t *testing.T) {
		short := make([]byte, 8)
		for i, off := range []uint16{0, 6, 6, 20} {
			binary.BigEndian.PutUint16(short[i*2:], off)
		}
		loca := newLocaTable(T("loca"), short, 0, 8)
		require.NoError(t, loca.decodeLocations(ShortLocaFormat, 3, 100))
		start, end, err := loca.GlyphRange(2)
		require.NoError(t, err)
		assert.Equal(t, uint32(12), start, "short offsets are stored halved")
		assert.Equal(t, uint32(40), end)
	})
	t.Run("missing final entry", func(t *testing.T) {
		loca := newLocaTable(T("loca"), raw[:12], 0, 12)
		require.NoError(t, loca.decodeLocations(LongLocaFormat, 3, 77))
		_, end, err := loca.GlyphRange(2)
		require.NoError(t, err)
		assert.Equal(t, uint32(77), end, "expected end of glyf to close the last glyph")
	})
}

func TestParsedLocaMatchesGlyphData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for _, long := range []bool{false, true} {
		f := testFont()
		f.LongLoca = long
		otf, err := Parse(f.Bytes())
		require.NoError(t, err)
		empty, err := otf.GlyphData(0)
		require.NoError(t, err)
		assert.Empty(t, empty, "notdef has no outline")
		square, err := otf.GlyphData(1)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(square), 10)
		assert.Equal(t, uint16(1), binary.BigEndian.Uint16(square), "expected 1 contour")
	}
}

func TestCMapFormat4(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for _, ro := range []bool{false, true} {
		f := testFont()
		f.Glyphs = append(f.Glyphs, squareGlyph(), squareGlyph())
		f.CMap = map[rune]uint16{'A': 1, 'B': 4, 'C': 3, ' ': 2}
		f.RangeOffsets = ro
		otf, err := Parse(f.Bytes())
		require.NoError(t, err)
		cp := otf.CMap.Codepoints
		assert.Equal(t, GlyphIndex(1), cp[65])
		assert.Equal(t, GlyphIndex(4), cp.Lookup('B'))
		assert.Equal(t, GlyphIndex(3), cp.Lookup('C'))
		assert.Equal(t, GlyphIndex(2), cp.Lookup(' '))
		assert.Equal(t, GlyphIndex(0), cp.Lookup('D'))
		assert.Equal(t, GlyphIndex(0), cp.Lookup('0'))
		assert.Equal(t, rune('C'), cp.MaxCodepoint())
		assert.Equal(t, 4, otf.CMap.Mappings())
	}
}

func TestCMapMergeFirstSubtableWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	f := testFont()
	f.Glyphs = append(f.Glyphs, squareGlyph())
	f.CMap = map[rune]uint16{'A': 1}
	f.CMap12 = map[rune]uint16{'A': 3, 'a': 3, 0x1F600: 2}
	otf, err := Parse(f.Bytes())
	require.NoError(t, err)
	cp := otf.CMap.Codepoints
	assert.Equal(t, GlyphIndex(1), cp.Lookup('A'), "format 4 subtable comes first")
	assert.Equal(t, GlyphIndex(3), cp.Lookup('a'))
	assert.Equal(t, GlyphIndex(2), cp.Lookup(0x1F600))
	assert.Equal(t, rune(0x1F600), cp.MaxCodepoint())
	assert.Len(t, cp, 0x1F601)
}

func TestCMapDropsGlyphsOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	f := testFont()
	f.CMap = map[rune]uint16{'A': 1, 'Z': 99}
	otf, err := Parse(f.Bytes())
	require.NoError(t, err)
	assert.Equal(t, GlyphIndex(0), otf.CMap.Codepoints.Lookup('Z'))
	assert.NotEmpty(t, otf.Warnings())
}

func TestHMetricsRepeatLastAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	f := testFont()
	f.NumberOfHMetrics = 2
	otf, err := Parse(f.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, otf.HMtx.NumberOfHMetrics)
	assert.Equal(t, HMetricRecord{AdvanceWidth: 500}, otf.HMtx.HMetrics(0))
	assert.Equal(t, HMetricRecord{AdvanceWidth: 120}, otf.HMtx.HMetrics(1))
	// glyph 2 is beyond the long metrics: advance of glyph 1, own bearing
	assert.Equal(t, HMetricRecord{AdvanceWidth: 120, LeftSideBearing: 7}, otf.HMtx.HMetrics(2))
	// beyond the font: advance is still resolved
	assert.Equal(t, uint16(120), otf.HMtx.HMetrics(1000).AdvanceWidth)
}
