/*
Package fontmesh compiles TrueType fonts into triangle meshes for GPU text
rendering.

Every glyph of a font is turned into a set of triangles. Flat triangles
cover the polygon of on-curve points of the glyph outline, curve triangles
carry the quadratic Bézier segments. A fragment shader is expected to fill
flat triangles completely and to evaluate the curve inside of curve
triangles, either adding area (convex curves) or cutting it away (concave
curves).

The meshes of all glyphs share one vertex buffer and one triangle buffer.
Vertices are normalized to the unit square spanned by the font's bounding
box and packed pairwise into four-component float32 records, ready for
upload.

We stick to the following nomenclature:

▪︎ A "font" is a single TrueType font file, e.g. "Go Regular".

▪︎ A "glyph" is an outline within a font, addressed by its glyph index.
Code points are mapped to glyphs by the font's character map.

▪︎ A "mesh font" is the compiled form of a font: geometry and horizontal
metrics of all its glyphs, plus the character map.

# Status

Fonts with TrueType outlines only. CFF-flavoured OpenType fonts, font
collections (*.ttc) and variable fonts are not supported. Hinting
instructions are skipped.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

Resolution independent curve rendering (Loop & Blinn):
https://www.microsoft.com/en-us/research/wp-content/uploads/2005/01/p1000-loop.pdf

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontmesh

import (
	"github.com/npillmayer/fontmesh/internal/fontload"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontmesh'
func tracer() tracing.Trace {
	return tracing.Select("fontmesh")
}

// LoadFont compiles a font from a file. If nameOrPath does not denote an
// existing file, it is taken as the name of a font installed on the system,
// e.g. "DejaVuSans.ttf" or "Arial".
func LoadFont(nameOrPath string, opts ...Option) (*MeshFont, error) {
	f, err := fontload.Load(nameOrPath)
	if err != nil {
		return nil, err
	}
	mf, err := Compile(f.Binary, opts...)
	if err != nil {
		return nil, err
	}
	mf.Name = f.Fontname
	tracer().Infof("loaded font %q from %s", f.Fontname, f.Filepath)
	return mf, nil
}
