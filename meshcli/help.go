package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "glyph", "glyphs", "rune":
		pterm.Info.Println("glyph / rune")
		pterm.Println(`
	glyph:<index>[:tris|verts]   print the mesh record of a glyph
	glyph::tris                  list the triangles of the current glyph
	rune:<char|U+XXXX|decimal>   print the mesh of the glyph for a code point

	Triangle indices address the vertex buffer of the complete font.
	Glyphs which failed to compile have no triangles, but keep their metrics.
	`)
	case "tag", "tags", "curvature":
		pterm.Info.Println("Curvature tags")
		pterm.Println(`
	Every triangle carries a curvature tag:
	+---------+------------------------------------------------------+
	| flat    | filled completely                                    |
	+---------+------------------------------------------------------+
	| convex  | filled inside the quadratic curve (start, ctrl, end) |
	+---------+------------------------------------------------------+
	| concave | cuts the area outside the curve out of the fill      |
	+---------+------------------------------------------------------+
	The signed area of a glyph is flat + convex - concave.
	`)
	case "tables", "table":
		pterm.Info.Println("tables")
		pterm.Println(`
	tables          list the table directory
	tables:<tag>    print a table, e.g. tables:head, tables:maxp, tables:hhea, tables:name
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	glyph, rune, tables, stats, errors[:errors|warnings], help[:topic], quit
	Steps are separated by blanks, arguments by colons: "rune:A glyph::tris".
	Help topics: glyph, tags, tables
	`)
	}
}
