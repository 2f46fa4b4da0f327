package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/fontmesh"
	"github.com/npillmayer/fontmesh/mesh"
	"github.com/thatisuday/commando"
)

func runCompileCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	initTracing(mustFlagBool(flags["verbose"], "verbose"))
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	otf, f := mustLoadFont(fontPath, mustFlagBool(flags["testfont"], "testfont"))
	outPath := mustFlagString(flags["output"], "output")
	if outPath == "" {
		fatalf("output path is empty")
	}
	eps, err := strconv.ParseFloat(mustFlagString(flags["epsilon"], "epsilon"), 64)
	if err != nil || eps < 0 {
		fatalf("invalid --epsilon flag: %q", mustFlagString(flags["epsilon"], "epsilon"))
	}
	opts := []fontmesh.Option{
		fontmesh.WithWorkers(mustFlagInt(flags["workers"], "workers")),
		fontmesh.WithDegenerateEpsilon(eps),
	}
	if mustFlagBool(flags["raw"], "raw") {
		opts = append(opts, fontmesh.WithoutNormalization())
	}
	mf, err := fontmesh.CompileFont(otf, opts...)
	if err != nil {
		fatalf("compile failed: %v", err)
	}
	mf.Name = f.Fontname
	n, err := writeMeshFile(mf, outPath)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Font: %s\n", mf.Name)
	fmt.Printf("Mesh: %s\n", mf.Stats())
	fmt.Printf("Issues: errors=%d warnings=%d\n", len(mf.Errors()), len(mf.Warnings()))
	fmt.Printf("wrote %s (%d bytes)\n", outPath, n)
}

func writeMeshFile(mf *fontmesh.MeshFont, outPath string) (int64, error) {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("cannot create output file: %w", err)
	}
	file := mesh.File{Normalized: mf.Normalized, Extent: mf.Extent, Arena: mf.Arena}
	n, err := file.WriteTo(out)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("cannot write mesh file: %w", err)
	}
	return n, out.Close()
}
