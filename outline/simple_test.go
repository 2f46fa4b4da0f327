package outline

import (
	"errors"
	"testing"

	"github.com/npillmayer/fontmesh/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordKind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.outline")
	defer teardown()
	//
	tests := []struct {
		flag   byte
		x, y   coordKind
		stream []byte
		dx, dy int
	}{
		{flagXSamePos | flagYSamePos, coordSame, coordSame, nil, 0, 0},
		{flagXShort | flagXSamePos | flagYShort, coordShortPos, coordShortNeg, []byte{7, 9}, 7, -9},
		{flagYShort | flagYSamePos, coordLong, coordShortPos, []byte{0xFF, 0x38, 200}, -200, 200},
		{0, coordLong, coordLong, []byte{0x01, 0x2C, 0x80, 0x00}, 300, -32768},
	}
	for _, tt := range tests {
		t.Run(tt.x.String()+"/"+tt.y.String(), func(t *testing.T) {
			assert.Equal(t, tt.x, xKind(tt.flag))
			assert.Equal(t, tt.y, yKind(tt.flag))
			assert.Equal(t, len(tt.stream), tt.x.size()+tt.y.size())
			pos := 0
			dx, err := tt.x.decode(tt.stream, &pos)
			require.NoError(t, err)
			dy, err := tt.y.decode(tt.stream, &pos)
			require.NoError(t, err)
			assert.Equal(t, [2]int{tt.dx, tt.dy}, [2]int{dx, dy})
			assert.Equal(t, len(tt.stream), pos)
		})
	}
}

func TestReadFlagsRepeat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.outline")
	defer teardown()
	//
	buf := []byte{0x01, 0x09, 3, 0x00}
	pos := 0
	flags, err := readFlags(buf, &pos, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x09, 0x09, 0x09, 0x09}, flags)
	assert.Equal(t, 3, pos)
	//
	pos = 0
	_, err = readFlags(buf, &pos, 3)
	assert.True(t, errors.Is(err, ErrMalformed), "repetition beyond point count")
	pos = 0
	_, err = readFlags([]byte{0x09}, &pos, 4)
	assert.True(t, errors.Is(err, ErrTruncated), "missing repeat count")
}

func TestDecodeSquare(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.outline")
	defer teardown()
	//
	data := fonttest.EncodeGlyph(fonttest.Glyph{Contours: [][]fonttest.Pt{{
		fonttest.On(0, 0), fonttest.On(0, 100), fonttest.On(100, 100), fonttest.On(100, 0),
	}}})
	o, err := DecodeSimple(data)
	require.NoError(t, err)
	require.Equal(t, 1, o.ContourCount())
	assert.Equal(t, []int{3}, o.EndPoints)
	assert.Equal(t, []int{0}, o.Synthetic)
	assert.Equal(t, Point{X: 100, Y: 100, OnCurve: true}, o.Points[2])
	assert.Equal(t, [4]int16{0, 0, 100, 100}, [4]int16{o.XMin, o.YMin, o.XMax, o.YMax})
	assert.InDelta(t, 10000.0, o.ShoelaceArea(), 1e-9)
}

func TestDecodeCoordinateEncodings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.outline")
	defer teardown()
	//
	pts := []fonttest.Pt{
		fonttest.On(0, 0), fonttest.On(300, -5), fonttest.On(-400, 1000),
		fonttest.On(-400, 1000), fonttest.On(-399, 745), fonttest.Off(20, 745),
	}
	data := fonttest.EncodeGlyph(fonttest.Glyph{
		Contours:     [][]fonttest.Pt{pts[:3], pts[3:]},
		Instructions: []byte{0xB0, 0x01, 0x2C},
	})
	o, err := DecodeSimple(data)
	require.NoError(t, err)
	require.Equal(t, []int{2, 5}, o.EndPoints)
	for i, p := range pts {
		assert.Equal(t, Point{X: float64(p.X), Y: float64(p.Y), OnCurve: p.On}, o.Points[i], "point %d", i)
	}
}

func TestImpliedOnCurvePoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.outline")
	defer teardown()
	//
	data := fonttest.EncodeGlyph(fonttest.Glyph{Contours: [][]fonttest.Pt{
		{fonttest.On(0, 0), fonttest.Off(50, 100), fonttest.Off(150, 100), fonttest.On(200, 0)},
		{fonttest.Off(300, 0), fonttest.On(400, 100), fonttest.Off(500, 0)}, // wraps around
	}})
	o, err := DecodeSimple(data)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, o.Synthetic)
	assert.Equal(t, []int{4, 8}, o.EndPoints)
	assert.Equal(t, Point{X: 100, Y: 100, OnCurve: true}, o.Points[2])
	assert.Equal(t, Point{X: 400, Y: 0, OnCurve: true}, o.Points[8])
	for c := 0; c < o.ContourCount(); c++ {
		from, to := o.Contour(c)
		for i := from; i < to; i++ {
			j := i + 1
			if j == to {
				j = from
			}
			assert.False(t, !o.Points[i].OnCurve && !o.Points[j].OnCurve,
				"consecutive off-curve points %d and %d", i, j)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.outline")
	defer teardown()
	//
	square := fonttest.EncodeGlyph(fonttest.Glyph{Contours: [][]fonttest.Pt{{
		fonttest.On(0, 0), fonttest.On(0, 1000), fonttest.On(1000, 1000), fonttest.On(1000, 0),
	}}})
	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"header", square[:6], ErrTruncated},
		{"end points", square[:11], ErrTruncated},
		{"flags", square[:14], ErrTruncated},
		{"coordinates", square[:len(square)-1], ErrTruncated},
		{"composite", []byte{0xFF, 0xFF, 0, 0, 0, 0, 0, 0, 0, 0}, ErrMalformed},
		{"end points descending", []byte{0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 5, 0, 3}, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSimple(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "expected %v, got %v", tt.err, err)
		})
	}
	o, err := DecodeSimple(nil)
	require.NoError(t, err)
	assert.True(t, o.IsEmpty())
}

func TestEdgeLists(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.outline")
	defer teardown()
	//
	data := fonttest.EncodeGlyph(fonttest.Glyph{Contours: [][]fonttest.Pt{
		{fonttest.On(0, 0), fonttest.On(0, 100), fonttest.Off(50, 150), fonttest.On(100, 100), fonttest.On(100, 0)},
		{fonttest.On(10, 10), fonttest.Off(20, 20)}, // no area without control points
	}})
	o, err := DecodeSimple(data)
	require.NoError(t, err)
	full := o.FullEdges()
	require.Len(t, full, 2)
	assert.Len(t, full[0], 5)
	assert.Equal(t, Edge{From: 4, To: 0}, full[0][4])
	on := o.OnCurveEdges()
	require.Len(t, on, 1, "second contour has too few on-curve points")
	assert.Equal(t, []Edge{{0, 1}, {1, 3}, {3, 4}, {4, 0}}, on[0])
	spans := o.Spans()
	assert.Equal(t, []Span{{Start: 1, Control: 2, End: 3}, {Start: 5, Control: 6, End: 5}}, spans)
}
