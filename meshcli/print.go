package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/fontmesh/mesh"
	"github.com/npillmayer/fontmesh/meshquery"
	"github.com/npillmayer/fontmesh/ot"
	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/runenames"
)

// glyphOp prints the mesh of a glyph. An optional format "tris" or "verts"
// lists the triangles or vertices of the glyph.
func glyphOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	g := intp.glyph
	if arg, ok := op.hasArg(); ok {
		var n uint64
		if n, err = strconv.ParseUint(arg, 10, 16); err != nil {
			return fmt.Errorf("glyph index not numeric: %v", arg), false
		}
		g = ot.GlyphIndex(n)
	} else if !intp.seen {
		return ErrNoGlyph, false
	}
	if int(g) >= intp.mesh.NumGlyphs() {
		return fmt.Errorf("glyph index out of range: %d (glyphs: %d)", g, intp.mesh.NumGlyphs()), false
	}
	intp.glyph, intp.seen = g, true
	printGlyph(intp, g, op.format)
	return nil, false
}

// runeOp looks up the glyph for a code point, given as a character, as
// U+XXXX, or as a decimal number.
func runeOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	if op.noArg() {
		return fmt.Errorf("rune requires an argument, e.g. rune:A or rune:U+00C4"), false
	}
	var r rune
	if r, err = parseRune(op.arg); err != nil {
		return
	}
	g := intp.mesh.GlyphIndex(r)
	pterm.Printf("%#U %s => glyph %d\n", r, runenames.Name(r), g)
	intp.glyph, intp.seen = g, true
	printGlyph(intp, g, op.format)
	return nil, false
}

func parseRune(arg string) (rune, error) {
	if rs := []rune(arg); len(rs) == 1 {
		return rs[0], nil
	}
	base, digits := 10, arg
	if upper := strings.ToUpper(arg); strings.HasPrefix(upper, "U+") || strings.HasPrefix(upper, "0X") {
		base, digits = 16, arg[2:]
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil || n > ot.MaxCodepoint {
		return 0, fmt.Errorf("not a code point: %v", arg)
	}
	return rune(n), nil
}

func printGlyph(intp *Intp, g ot.GlyphIndex, format string) {
	rec, _ := intp.mesh.Glyph(g)
	tris := intp.mesh.GlyphTriangles(g)
	var count [3]int
	for _, t := range tris {
		count[t.Tag]++
	}
	name := "-"
	if r := meshquery.CodePointForGlyph(intp.font, g); r != 0 {
		name = fmt.Sprintf("%#U %s", r, runenames.Name(r))
	}
	kind := "simple"
	if rec.IsComposite {
		kind = "composite"
	}
	data := [][]string{
		{"Property", "Value"},
		{"Glyph", fmt.Sprintf("%d (%s)", g, kind)},
		{"Code point", name},
		{"Advance / LSB", fmt.Sprintf("%d / %d", rec.AdvanceWidth, rec.LeftSideBearing)},
		{"Extent", fmt.Sprintf("%v .. %v", rec.MinExtent, rec.MaxExtent)},
		{"Vertices", fmt.Sprintf("%d @%d", rec.VertexCount, rec.VertexStart)},
		{"Triangles", fmt.Sprintf("%d @%d", rec.TriangleCount, rec.TriangleStart)},
		{"Flat / convex / concave", fmt.Sprintf("%d / %d / %d", count[mesh.Flat], count[mesh.ConvexCurve], count[mesh.ConcaveCurve])},
		{"Signed area", fmt.Sprintf("%.2f", intp.mesh.Arena.SignedArea(int(g)))},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	switch strings.ToLower(format) {
	case "":
	case "tris", "triangles":
		printTriangles(intp, tris)
	case "verts", "vertices":
		printVertices(intp.mesh.GlyphVertices(g), rec.VertexStart)
	default:
		pterm.Error.Printf("unknown format: %s\n", format)
	}
}

func printTriangles(intp *Intp, tris []mesh.Triangle) {
	if len(tris) == 0 {
		pterm.Println("glyph has no triangles")
		return
	}
	data := [][]string{
		{"#", "I0", "I1", "I2", "Tag", "Area"},
	}
	for i, t := range tris {
		data = append(data, []string{
			strconv.Itoa(i),
			fmt.Sprintf("%d", t.I0),
			fmt.Sprintf("%d", t.I1),
			fmt.Sprintf("%d", t.I2),
			t.Tag.String(),
			fmt.Sprintf("%.2f", intp.mesh.Arena.TriangleArea(t)),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printVertices(vs []mesh.Vertex, start int) {
	if len(vs) == 0 {
		pterm.Println("glyph has no vertices")
		return
	}
	data := [][]string{
		{"Index", "X", "Y"},
	}
	for i, v := range vs {
		data = append(data, []string{
			strconv.Itoa(start + i),
			strconv.FormatFloat(v.X, 'g', 6, 64),
			strconv.FormatFloat(v.Y, 'g', 6, 64),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func statsOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	s := intp.mesh.Stats()
	data := [][]string{
		{"Glyphs", "Empty", "Vertices", "Triangles", "Flat", "Convex", "Concave"},
		{
			strconv.Itoa(s.Glyphs), strconv.Itoa(s.EmptyGlyphs), strconv.Itoa(s.Vertices),
			strconv.Itoa(s.Triangles()), strconv.Itoa(s.Flat),
			strconv.Itoa(s.ConvexCurves), strconv.Itoa(s.ConcaveCurves),
		},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Printf("units per em: %d, normalized: %v, packed vertex pairs: %d\n",
		intp.mesh.UnitsPerEm, intp.mesh.Normalized, len(intp.mesh.Packed))
	return nil, false
}

// errorsOp lists errors and warnings. With argument "warnings" only warnings
// are listed, with "errors" only errors.
func errorsOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	errs, warns := intp.mesh.Errors(), intp.mesh.Warnings()
	pterm.Printf("errors=%d warnings=%d\n", len(errs), len(warns))
	which := strings.ToLower(op.arg)
	if which == "" || which == "errors" {
		for _, e := range errs {
			pterm.Error.Println(e.Error())
		}
	}
	if which == "" || which == "warnings" {
		for _, w := range warns {
			pterm.Warning.Println(w.String())
		}
	}
	return nil, false
}
