package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/fontmesh"
	"github.com/npillmayer/fontmesh/mesh"
	"github.com/npillmayer/fontmesh/ot"
	"github.com/thatisuday/commando"
	"golang.org/x/image/vector"
)

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	initTracing(mustFlagBool(flags["verbose"], "verbose"))
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	otf, _ := mustLoadFont(fontPath, mustFlagBool(flags["testfont"], "testfont"))
	outPath := mustFlagString(flags["output"], "output")
	if outPath == "" {
		fatalf("output path is empty")
	}
	ppem := mustFlagInt(flags["ppem"], "ppem")
	width := mustFlagInt(flags["width"], "width")
	height := mustFlagInt(flags["height"], "height")
	glyphIndex := mustFlagInt(flags["glyph"], "glyph")
	if ppem <= 0 {
		fatalf("--ppem must be > 0")
	}
	if width <= 0 || height <= 0 {
		fatalf("--width and --height must be > 0")
	}
	mf, err := fontmesh.CompileFont(otf, fontmesh.WithoutNormalization(), fontmesh.WithWorkers(4))
	if err != nil {
		fatalf("compile failed: %v", err)
	}
	var g ot.GlyphIndex
	if glyphIndex >= 0 {
		if glyphIndex >= mf.NumGlyphs() {
			fatalf("glyph index %d out of range (glyphs: %d)", glyphIndex, mf.NumGlyphs())
		}
		g = ot.GlyphIndex(glyphIndex)
	} else {
		r, _ := utf8.DecodeRuneInString(args["char"].Value)
		if r == utf8.RuneError {
			fatalf("invalid character argument: %q", args["char"].Value)
		}
		g = mf.GlyphIndex(r)
	}
	img, xf, err := renderGlyphMesh(mf, g, width, height, ppem)
	if err != nil {
		fatalf("render failed: %v", err)
	}
	if mustFlagBool(flags["wireframe"], "wireframe") {
		drawWireframe(img, mf, g, xf)
	}
	if mustFlagBool(flags["show-bboxes"], "show-bboxes") {
		rec, _ := mf.Glyph(g)
		x0, y0 := xf.apply(rec.MinExtent)
		x1, y1 := xf.apply(rec.MaxExtent)
		drawRectOutline(img, int(x0), int(y1), int(x1)+1, int(y0)+1, color.RGBA{255, 0, 0, 255})
	}
	if err := writePNG(img, outPath); err != nil {
		fatalf("%v", err)
	}
	rec, _ := mf.Glyph(g)
	fmt.Printf("wrote %s (glyph %d, triangles=%d)\n", outPath, g, rec.TriangleCount)
}

// transform maps font units to image coordinates, with y growing downward.
type transform struct {
	scale  float32
	tx, ty float32
}

func (xf transform) apply(v mesh.Vertex) (float32, float32) {
	return xf.tx + float32(v.X)*xf.scale, xf.ty - float32(v.Y)*xf.scale
}

// renderGlyphMesh rasterizes the triangles of glyph g, centered in an image of
// the given size. Curve triangles are drawn as quadratic segments with
// signed coverage: convex segments add to the fill, concave segments are
// drawn with the opposite orientation and cancel the fill they overlap.
func renderGlyphMesh(mf *fontmesh.MeshFont, g ot.GlyphIndex, width, height, ppem int) (*image.RGBA, transform, error) {
	rec, ok := mf.Glyph(g)
	if !ok {
		return nil, transform{}, fmt.Errorf("no glyph %d", g)
	}
	if mf.Normalized {
		return nil, transform{}, errors.New("cannot render normalized vertices")
	}
	if mf.UnitsPerEm == 0 {
		return nil, transform{}, errors.New("invalid units-per-em")
	}
	xf := transform{scale: float32(ppem) / float32(mf.UnitsPerEm)}
	midX := float32(rec.MinExtent.X+rec.MaxExtent.X) / 2
	midY := float32(rec.MinExtent.Y+rec.MaxExtent.Y) / 2
	xf.tx = float32(width)/2 - midX*xf.scale
	xf.ty = float32(height)/2 + midY*xf.scale

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)
	if rec.IsEmpty() {
		return img, xf, nil
	}
	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Over
	vs := mf.Arena.Vertices
	for _, t := range mf.GlyphTriangles(g) {
		ax, ay := xf.apply(vs[t.I0])
		bx, by := xf.apply(vs[t.I1])
		cx, cy := xf.apply(vs[t.I2])
		area := (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
		switch t.Tag {
		case mesh.Flat:
			if area < 0 {
				bx, by, cx, cy = cx, cy, bx, by
			}
			rast.MoveTo(ax, ay)
			rast.LineTo(bx, by)
			rast.LineTo(cx, cy)
			rast.ClosePath()
		default:
			// (start, control, end)
			if (area < 0) != (t.Tag == mesh.ConcaveCurve) {
				ax, ay, cx, cy = cx, cy, ax, ay
			}
			rast.MoveTo(ax, ay)
			rast.QuadTo(bx, by, cx, cy)
			rast.ClosePath()
		}
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})
	return img, xf, nil
}

var tagColors = [...]color.RGBA{
	mesh.Flat:         {160, 160, 160, 255},
	mesh.ConvexCurve:  {0, 0, 255, 255},
	mesh.ConcaveCurve: {0, 160, 0, 255},
}

func drawWireframe(img *image.RGBA, mf *fontmesh.MeshFont, g ot.GlyphIndex, xf transform) {
	vs := mf.Arena.Vertices
	for _, t := range mf.GlyphTriangles(g) {
		c := tagColors[t.Tag]
		idx := [3]uint32{t.I0, t.I1, t.I2}
		for i := range idx {
			x0, y0 := xf.apply(vs[idx[i]])
			x1, y1 := xf.apply(vs[idx[(i+1)%3]])
			drawLine(img, int(x0), int(y0), int(x1), int(y1), c)
		}
	}
}

// drawLine draws a line with Bresenham's algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func drawRectOutline(img *image.RGBA, minX int, minY int, maxX int, maxY int, c color.RGBA) {
	if img == nil {
		return
	}
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	r := image.Rect(minX, minY, maxX, maxY).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	// top and bottom
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	// left and right
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

func writePNG(img image.Image, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}
