package main

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/npillmayer/fontmesh"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	testWidth  = 256
	testHeight = 256
	testPPEM   = 160
)

// rasterizeOutline renders a glyph from its outline segments, the same way
// as renderGlyphMesh places it.
func rasterizeOutline(t *testing.T, sf *sfnt.Font, g sfnt.GlyphIndex, xf transform) *image.Alpha {
	var buf sfnt.Buffer
	segs, err := sf.LoadGlyph(&buf, g, fixed.I(testPPEM), nil)
	require.NoError(t, err)
	img := image.NewAlpha(image.Rect(0, 0, testWidth, testHeight))
	rast := vector.NewRasterizer(testWidth, testHeight)
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			rast.MoveTo(xf.tx+float32(seg.Args[0].X)/64, xf.ty+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpLineTo:
			rast.LineTo(xf.tx+float32(seg.Args[0].X)/64, xf.ty+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpQuadTo:
			rast.QuadTo(
				xf.tx+float32(seg.Args[0].X)/64, xf.ty+float32(seg.Args[0].Y)/64,
				xf.tx+float32(seg.Args[1].X)/64, xf.ty+float32(seg.Args[1].Y)/64,
			)
		case sfnt.SegmentOpCubeTo:
			rast.CubeTo(
				xf.tx+float32(seg.Args[0].X)/64, xf.ty+float32(seg.Args[0].Y)/64,
				xf.tx+float32(seg.Args[1].X)/64, xf.ty+float32(seg.Args[1].Y)/64,
				xf.tx+float32(seg.Args[2].X)/64, xf.ty+float32(seg.Args[2].Y)/64,
			)
		}
	}
	rast.Draw(img, img.Bounds(), image.Opaque, image.Point{})
	return img
}

func inked(c color.RGBA) bool {
	return c.R < 128
}

func TestRenderMatchesOutline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.cli")
	defer teardown()
	//
	mf, err := fontmesh.Compile(goregular.TTF, fontmesh.WithoutNormalization())
	require.NoError(t, err)
	sf, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)
	for _, r := range "IHLT" {
		t.Run(string(r), func(t *testing.T) {
			g := mf.GlyphIndex(r)
			img, xf, err := renderGlyphMesh(mf, g, testWidth, testHeight, testPPEM)
			require.NoError(t, err)
			ref := rasterizeOutline(t, sf, sfnt.GlyphIndex(g), xf)
			ink, mismatch := 0, 0
			for y := 0; y < testHeight; y++ {
				for x := 0; x < testWidth; x++ {
					want := ref.AlphaAt(x, y).A >= 128
					if want {
						ink++
					}
					if want != inked(img.RGBAAt(x, y)) {
						mismatch++
					}
				}
			}
			require.NotZero(t, ink)
			// anti-aliased edge pixels may flip
			assert.Less(t, float64(mismatch)/float64(ink), 0.1, "%d of %d pixels differ", mismatch, ink)
		})
	}
}

func TestRenderHole(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.cli")
	defer teardown()
	//
	mf, err := fontmesh.Compile(goregular.TTF, fontmesh.WithoutNormalization())
	require.NoError(t, err)
	img, _, err := renderGlyphMesh(mf, mf.GlyphIndex('o'), testWidth, testHeight, testPPEM)
	require.NoError(t, err)
	assert.False(t, inked(img.RGBAAt(testWidth/2, testHeight/2)), "center of 'o' should be empty")
	//
	img, _, err = renderGlyphMesh(mf, mf.GlyphIndex(' '), testWidth, testHeight, testPPEM)
	require.NoError(t, err)
	for y := 0; y < testHeight; y += 8 {
		for x := 0; x < testWidth; x += 8 {
			require.False(t, inked(img.RGBAAt(x, y)))
		}
	}
	//
	normalized, err := fontmesh.Compile(goregular.TTF)
	require.NoError(t, err)
	_, _, err = renderGlyphMesh(normalized, 1, testWidth, testHeight, testPPEM)
	assert.Error(t, err)
}

func TestDrawLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.cli")
	defer teardown()
	//
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	red := color.RGBA{255, 0, 0, 255}
	drawLine(img, 0, 0, 9, 9, red)
	drawLine(img, -5, 3, 20, 3, red) // clipped
	for i := 0; i < 10; i++ {
		assert.Equal(t, red, img.RGBAAt(i, i))
		assert.Equal(t, red, img.RGBAAt(i, 3))
	}
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(9, 0))
}
