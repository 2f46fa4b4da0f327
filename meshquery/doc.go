/*
Package meshquery provides typed views of font tables which are not needed
for mesh compilation, but are of interest to clients of a mesh font, e.g.
naming, global metrics and glyph metrics.

Views are decoded from the raw table bytes of a parsed font.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package meshquery

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontmesh'
func tracer() tracing.Trace {
	return tracing.Select("fontmesh")
}
