/*
Package outline decodes TrueType glyph outlines from table 'glyf'.

Simple glyphs are expanded into an explicit sequence of points per contour,
with the implied on-curve points between two consecutive off-curve points
made explicit. Composite glyphs are flattened by a Resolver into the list of
simple outlines they consist of, each paired with the affine transform
composed along the path of component references.

The outline itself is not interpreted further. Package tessellate turns an
Outline into triangles.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package outline

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontmesh.outline'
func tracer() tracing.Trace {
	return tracing.Select("fontmesh.outline")
}

// ErrTruncated is reported for glyph data running past the end of the glyph's
// byte range as stated by table 'loca'.
var ErrTruncated = errors.New("truncated glyph outline")

// ErrMalformed is reported for glyph data which is complete but inconsistent,
// e.g. contour end points which are not ascending.
var ErrMalformed = errors.New("malformed glyph outline")

// ErrCompositeCycle is reported for composite glyphs which reference
// themselves, directly or through other composites.
var ErrCompositeCycle = errors.New("composite glyph references itself")
