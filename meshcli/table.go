package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fontmesh/meshquery"
	"github.com/npillmayer/fontmesh/ot"
	"github.com/pterm/pterm"
)

// tablesOp lists the table directory. With a tag argument of head, maxp,
// hhea or name, the decoded table is printed.
func tablesOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	tag, ok := op.hasArg()
	if !ok {
		printDirectory(intp.font)
		return nil, false
	}
	if intp.font.Table(ot.T(tag)) == nil {
		return fmt.Errorf("table not found in font: %s", tag), false
	}
	tracer().Infof("printing table: %v", tag)
	switch strings.ToLower(tag) {
	case "head":
		h, _ := meshquery.HeadInfo(intp.font)
		printFields(tag, [][2]string{
			{"Version", fmt.Sprintf("%d.%d", h.MajorVersion, h.MinorVersion)},
			{"MagicNumber", fmt.Sprintf("%#x", h.MagicNumber)},
			{"Flags", fmt.Sprintf("%#04x", h.Flags)},
			{"UnitsPerEm", fmt.Sprintf("%d", h.UnitsPerEm)},
			{"BBox", fmt.Sprintf("(%d,%d)..(%d,%d)", h.XMin, h.YMin, h.XMax, h.YMax)},
			{"IndexToLocFormat", fmt.Sprintf("%d", h.IndexToLocFormat)},
		})
	case "maxp":
		m, _ := meshquery.MaxPInfo(intp.font)
		printFields(tag, [][2]string{
			{"Version", fmt.Sprintf("%#08x", m.VersionFixed)},
			{"NumGlyphs", fmt.Sprintf("%d", m.NumGlyphs)},
			{"MaxPoints", fmt.Sprintf("%d", m.MaxPoints)},
			{"MaxContours", fmt.Sprintf("%d", m.MaxContours)},
			{"MaxComponentDepth", fmt.Sprintf("%d", m.MaxComponentDepth)},
		})
	case "hhea":
		h, _ := meshquery.HHeaInfo(intp.font)
		printFields(tag, [][2]string{
			{"Ascender", fmt.Sprintf("%d", h.Ascender)},
			{"Descender", fmt.Sprintf("%d", h.Descender)},
			{"LineGap", fmt.Sprintf("%d", h.LineGap)},
			{"AdvanceWidthMax", fmt.Sprintf("%d", h.AdvanceWidthMax)},
			{"NumberOfHMetrics", fmt.Sprintf("%d", h.NumberOfHMetrics)},
		})
	case "name":
		var fields [][2]string
		for id, s := range meshquery.NamesRange(intp.font) {
			fields = append(fields, [2]string{fmt.Sprintf("%v", id), s})
		}
		printFields(tag, fields)
	default:
		off, size := intp.font.Table(ot.T(tag)).Extent()
		pterm.Printf("table %s: offset=%d size=%d\n", tag, off, size)
	}
	return nil, false
}

func printDirectory(otf *ot.Font) {
	pterm.Printf("%s font, %d tables\n", meshquery.FontType(otf), otf.Directory.Len())
	data := [][]string{
		{"Tag", "Offset", "Length", "Checksum"},
	}
	for _, e := range otf.Directory.Entries() {
		data = append(data, []string{
			e.Tag.String(),
			fmt.Sprintf("%d", e.Offset),
			fmt.Sprintf("%d", e.Length),
			fmt.Sprintf("%08x", e.Checksum),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printFields(tag string, fields [][2]string) {
	pterm.Info.Printf("table %s\n", tag)
	data := [][]string{
		{"Field", "Value"},
	}
	for _, f := range fields {
		data = append(data, []string{f[0], f[1]})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
