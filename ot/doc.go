/*
Package ot provides access to the TrueType font tables needed to turn glyph
outlines into triangle meshes.

Intended audience for this package is the mesh compiler of module fontmesh,
but any application needing the raw geometry tables of a TrueType font may
use it. Package ot reads

▪︎ the table directory (offset table and table records),

▪︎ 'head', 'maxp', 'hhea' and 'hmtx' for global extents and horizontal metrics,

▪︎ 'loca' for the glyph locations within 'glyf',

▪︎ 'cmap' (formats 4 and 12) for the mapping of code points to glyphs.

Package ot will not interpret the glyph outlines themselves. This is done by
sister package outline, which receives the byte range of a glyph from the
GlyphLocator of this package.

Hinting instructions, kerning, variable fonts and CFF outlines are out of
scope. Tables present in the font but not interpreted are kept in the table
directory and may be inspected as raw bytes.

Errors found during parsing are collected and may be inspected after parsing
has completed (see Font.Errors and Font.Warnings). Errors which make it
impossible to extract geometry, e.g. a missing 'glyf' table, terminate
parsing and are reported as ErrFontLoad.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

Some code has originally been copied over from golang.org/x/image/font/sfnt/cmap.go,
as the cmap-routines are not accessible through the sfnt package's API.
I understand this to be legally okay as long as the Go license information
stays intact.

	Copyright 2017 The Go Authors. All rights reserved.
	Use of this source code is governed by a BSD-style
	license that can be found in the LICENSE file.

The license file mentioned can be found in file GO-LICENSE at the root folder
of this module.
*/
package ot

/*
Valuable resources:

▪ https://docs.microsoft.com/en-us/typography/opentype/spec/

▪ https://developer.apple.com/fonts/TrueType-Reference-Manual/

*/

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
