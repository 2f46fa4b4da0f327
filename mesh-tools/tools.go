package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/fontmesh/internal/fontload"
	"github.com/npillmayer/fontmesh/ot"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/thatisuday/commando"
)

// tracer traces with key 'fontmesh.cli'
func tracer() tracing.Trace {
	return tracing.Select("fontmesh.cli")
}

func main() {
	commando.
		SetExecutableName("mesh-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for compiling TrueType fonts to triangle meshes and inspecting the results.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("compile").
		SetDescription("Compile all glyphs of a font to meshes and write them to a binary mesh file.").
		SetShortDescription("compile font to mesh file").
		AddArgument("font", "TrueType font file path or system font name", "").
		AddFlag("output,o", "output mesh file", commando.String, "mesh-tools.fmsh").
		AddFlag("workers,w", "number of goroutines compiling glyphs", commando.Int, 4).
		AddFlag("raw,r", "keep vertices in font units instead of normalizing them", commando.Bool, nil).
		AddFlag("epsilon,e", "tolerance for dropping degenerate curve spans", commando.String, "1e-9").
		AddFlag("testfont,t", "parse font as relaxed test font fixture", commando.Bool, nil).
		AddFlag("verbose,V", "trace compilation", commando.Bool, nil).
		SetAction(runCompileCommand)

	commando.
		Register("view").
		SetDescription("Render the mesh of a glyph to a PNG image.").
		SetShortDescription("mesh to image").
		AddArgument("font", "TrueType font file path or system font name", "").
		AddArgument("char", "character whose glyph to render (ignored if --glyph is set)", "A").
		AddFlag("glyph,g", "glyph index to render (-1 uses the character argument)", commando.Int, -1).
		AddFlag("output,o", "output PNG file", commando.String, "mesh-tools-view.png").
		AddFlag("show-bboxes,B", "draw a red outline of the glyph's extent", commando.Bool, nil).
		AddFlag("wireframe,w", "draw triangle edges, colored by curvature tag", commando.Bool, nil).
		AddFlag("ppem,p", "render scale in pixels-per-em", commando.Int, 192).
		AddFlag("width,W", "image width in pixels", commando.Int, 320).
		AddFlag("height,H", "image height in pixels", commando.Int, 240).
		AddFlag("testfont,t", "parse font as relaxed test font fixture", commando.Bool, nil).
		AddFlag("verbose,V", "trace compilation", commando.Bool, nil).
		SetAction(runViewCommand)

	commando.
		Register("font").
		SetDescription("Print diagnostics and table information for a TrueType font.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "TrueType font file path or system font name", "").
		AddArgument("tables...", "optional list of table tags (e.g. head,glyf,loca)", "").
		AddFlag("testfont,t", "parse font as relaxed test font fixture", commando.Bool, nil).
		AddFlag("errors,e", "print parse and compilation errors and warnings", commando.Bool, nil).
		AddFlag("verbose,V", "trace parsing", commando.Bool, nil).
		SetAction(runFontCommand)

	commando.Parse(nil)
}

func initTracing(verbose bool) {
	level := "Error"
	if verbose {
		level = "Info"
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":           "go",
		"trace.fontmesh.cli":        "Info",
		"trace.fontmesh":            level,
		"trace.font.opentype":       level,
		"trace.fontmesh.outline":    level,
		"trace.fontmesh.tessellate": level,
		"trace.fontmesh.mesh":       level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fatalf("error configuring tracing: %v", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

func splitCSVSpace(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func mustLoadFont(nameOrPath string, testfont bool) (*ot.Font, *fontload.ScalableFont) {
	f, err := fontload.Load(nameOrPath)
	if err != nil {
		fatalf("cannot load font %s: %v", nameOrPath, err)
	}
	var otf *ot.Font
	if testfont {
		otf, err = ot.Parse(f.Binary, ot.IsTestfont)
	} else {
		otf, err = ot.Parse(f.Binary)
	}
	if err != nil {
		fatalf("cannot parse font %s: %v", nameOrPath, err)
	}
	tracer().Debugf("parsed font %q from %s", f.Fontname, f.Filepath)
	return otf, f
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "mesh-tools: "+format+"\n", args...)
	os.Exit(1)
}
