package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/fontmesh"
	"github.com/npillmayer/fontmesh/meshquery"
	"github.com/npillmayer/fontmesh/ot"
	"github.com/thatisuday/commando"
)

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	initTracing(mustFlagBool(flags["verbose"], "verbose"))
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	otf, f := mustLoadFont(fontPath, mustFlagBool(flags["testfont"], "testfont"))

	fmt.Printf("Path: %s\n", f.Filepath)
	fmt.Printf("Type: %s\n", meshquery.FontType(otf))
	family, subfamily := meshquery.FamilyName(otf)
	if family != "" {
		fmt.Printf("Family: %s\n", family)
	}
	if subfamily != "" {
		fmt.Printf("Subfamily: %s\n", subfamily)
	}
	metrics := meshquery.FontMetrics(otf)
	fmt.Printf("Glyphs: %d, units per em: %d, ascent: %d, descent: %d\n",
		otf.NumGlyphs(), metrics.UnitsPerEm, metrics.Ascent, metrics.Descent)
	fmt.Printf("Bounds: (%d,%d) %d×%d\n", metrics.Bounds.MinX, metrics.Bounds.MinY,
		metrics.Bounds.Dx(), metrics.Bounds.Dy())

	tags := otf.TableTags()
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	fmt.Printf("Tables (%d):", len(tags))
	for _, tag := range tags {
		fmt.Printf(" %s", tag.String())
	}
	fmt.Println()

	// compile to collect per-glyph diagnostics as well
	mf, err := fontmesh.CompileFont(otf, fontmesh.WithWorkers(4))
	if err != nil {
		fatalf("compile failed: %v", err)
	}
	errs, warns := mf.Errors(), mf.Warnings()
	fmt.Printf("Mesh: %s\n", mf.Stats())
	fmt.Printf("Issues: errors=%d warnings=%d\n", len(errs), len(warns))

	if len(args["tables"].Value) > 0 {
		printSelectedTables(otf, args["tables"].Value)
	}
	if mustFlagBool(flags["errors"], "errors") {
		for _, e := range errs {
			fmt.Printf("error: %s\n", e.Error())
		}
		for _, w := range warns {
			fmt.Printf("warning: %s\n", w.String())
		}
	}
}

func printSelectedTables(otf *ot.Font, raw string) {
	requested := splitCSVSpace(raw)
	for _, t := range requested {
		tagName := strings.TrimSpace(t)
		if tagName == "" {
			continue
		}
		rec, ok := otf.Directory.FindTable(ot.T(tagName)).Unwrap()
		if !ok {
			fmt.Printf("table %s: missing\n", tagName)
			continue
		}
		fmt.Printf("table %s: offset=%d size=%d checksum=%08x\n", tagName, rec.Offset, rec.Length, rec.Checksum)
	}
}
