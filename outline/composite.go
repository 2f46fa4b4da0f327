package outline

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/npillmayer/fontmesh/ot"
)

// Composite glyph flags, see
// https://docs.microsoft.com/en-us/typography/opentype/spec/glyf#composite-glyph-description
const (
	compArgsAreWords     uint16 = 0x0001
	compArgsAreXYValues  uint16 = 0x0002
	compRoundXYToGrid    uint16 = 0x0004 // hinting only, ignored
	compHaveScale        uint16 = 0x0008
	compMoreComponents   uint16 = 0x0020
	compHaveXYScale      uint16 = 0x0040
	compHaveTwoByTwo     uint16 = 0x0080
	compHaveInstructions uint16 = 0x0100
	compUseMyMetrics     uint16 = 0x0200
	compScaledOffset     uint16 = 0x0800
	compUnscaledOffset   uint16 = 0x1000
)

// Component is one component record of a composite glyph.
type Component struct {
	Glyph ot.GlyphIndex
	Flags uint16
	// Transform places the component's outline within the composite.
	Transform Transform
	// PointMatching is set if the arguments are point numbers instead of an
	// offset. Placement by point matching is not supported, the component
	// is placed at offset 0.
	PointMatching bool
	Arg1, Arg2    int
}

// UseMyMetrics is set if the composite takes its metrics from this component.
func (c Component) UseMyMetrics() bool {
	return c.Flags&compUseMyMetrics != 0
}

// DecodeComposite reads the component records of a composite glyph.
func DecodeComposite(data []byte) ([]Component, error) {
	n, err := NumberOfContours(data)
	if err != nil {
		return nil, err
	}
	if n >= 0 {
		return nil, fmt.Errorf("%w: simple glyph decoded as composite glyph", ErrMalformed)
	}
	var components []Component
	pos := glyphHeaderSize
	for {
		c, err := decodeComponent(data, &pos)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", len(components), err)
		}
		components = append(components, c)
		if c.Flags&compMoreComponents == 0 {
			break
		}
	}
	return components, nil
}

func decodeComponent(data []byte, pos *int) (Component, error) {
	c := Component{Transform: Identity}
	flags, err := ot.ReadU16Move(data, pos)
	if err != nil {
		return c, fmt.Errorf("%w: component flags", ErrTruncated)
	}
	c.Flags = flags
	g, err := ot.ReadU16Move(data, pos)
	if err != nil {
		return c, fmt.Errorf("%w: component glyph index", ErrTruncated)
	}
	c.Glyph = ot.GlyphIndex(g)
	xy := flags&compArgsAreXYValues != 0
	c.PointMatching = !xy
	switch {
	case flags&compArgsAreWords != 0 && xy:
		a1, err1 := ot.ReadI16Move(data, pos)
		a2, err2 := ot.ReadI16Move(data, pos)
		if err1 != nil || err2 != nil {
			return c, fmt.Errorf("%w: component arguments", ErrTruncated)
		}
		c.Arg1, c.Arg2 = int(a1), int(a2)
	case flags&compArgsAreWords != 0:
		a1, err1 := ot.ReadU16Move(data, pos)
		a2, err2 := ot.ReadU16Move(data, pos)
		if err1 != nil || err2 != nil {
			return c, fmt.Errorf("%w: component arguments", ErrTruncated)
		}
		c.Arg1, c.Arg2 = int(a1), int(a2)
	case xy:
		a1, err1 := ot.ReadI8Move(data, pos)
		a2, err2 := ot.ReadI8Move(data, pos)
		if err1 != nil || err2 != nil {
			return c, fmt.Errorf("%w: component arguments", ErrTruncated)
		}
		c.Arg1, c.Arg2 = int(a1), int(a2)
	default:
		a1, err1 := ot.ReadU8Move(data, pos)
		a2, err2 := ot.ReadU8Move(data, pos)
		if err1 != nil || err2 != nil {
			return c, fmt.Errorf("%w: component arguments", ErrTruncated)
		}
		c.Arg1, c.Arg2 = int(a1), int(a2)
	}
	var scale []int16
	switch {
	case flags&compHaveScale != 0:
		scale = make([]int16, 1)
	case flags&compHaveXYScale != 0:
		scale = make([]int16, 2)
	case flags&compHaveTwoByTwo != 0:
		scale = make([]int16, 4)
	}
	for i := range scale {
		if scale[i], err = ot.ReadI16Move(data, pos); err != nil {
			return c, fmt.Errorf("%w: component scale", ErrTruncated)
		}
	}
	t := &c.Transform
	switch len(scale) {
	case 1:
		t.A, t.D = ot.F2Dot14(scale[0]), ot.F2Dot14(scale[0])
	case 2:
		t.A, t.D = ot.F2Dot14(scale[0]), ot.F2Dot14(scale[1])
	case 4: // xscale, scale01, scale10, yscale
		t.A, t.B = ot.F2Dot14(scale[0]), ot.F2Dot14(scale[1])
		t.C, t.D = ot.F2Dot14(scale[2]), ot.F2Dot14(scale[3])
	}
	if xy {
		dx, dy := float64(c.Arg1), float64(c.Arg2)
		if flags&compScaledOffset != 0 && flags&compUnscaledOffset == 0 {
			dx, dy = t.A*dx+t.C*dy, t.B*dx+t.D*dy
		}
		t.E, t.F = dx, dy
	}
	return c, nil
}

// --- Resolving composites --------------------------------------------------

// GlyphSource provides the raw outline data of glyphs. *ot.Font is a GlyphSource.
type GlyphSource interface {
	GlyphData(ot.GlyphIndex) ([]byte, error)
	NumGlyphs() int
}

// Part is a simple outline contributing to a glyph, together with the
// transform to apply to its points.
type Part struct {
	Glyph     ot.GlyphIndex // the simple glyph the outline stems from
	Outline   *Outline
	Transform Transform
}

// Glyph is a resolved glyph: a simple glyph has a single part with the
// identity transform, a composite glyph has the parts of all its components
// in component order.
type Glyph struct {
	Index     ot.GlyphIndex
	Composite bool
	Parts     []Part
	// Bounding box as stated in the glyph header, in font units.
	XMin, YMin, XMax, YMax int16
	// MetricsFrom is the component whose metrics the glyph uses, if flagged
	// with USE_MY_METRICS, otherwise the glyph itself.
	MetricsFrom ot.GlyphIndex
	// Warnings collects non-fatal findings, e.g. unsupported point matching.
	Warnings []string
}

// IsEmpty is true if the glyph has no outline points at all.
func (g *Glyph) IsEmpty() bool {
	for _, p := range g.Parts {
		if !p.Outline.IsEmpty() {
			return false
		}
	}
	return true
}

// Resolver flattens glyphs into lists of simple outlines.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	src  GlyphSource
	path *bitset.BitSet // glyphs on the current resolution path
}

// NewResolver creates a resolver reading glyphs from src.
func NewResolver(src GlyphSource) *Resolver {
	return &Resolver{
		src:  src,
		path: bitset.New(uint(src.NumGlyphs())),
	}
}

// Resolve decodes glyph g. Composite glyphs are resolved recursively, with
// component transforms composed along the path of references. Nesting depth
// is not limited, but a glyph referencing itself is reported as
// ErrCompositeCycle.
func (r *Resolver) Resolve(g ot.GlyphIndex) (*Glyph, error) {
	r.path.ClearAll()
	data, err := r.src.GlyphData(g)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	glyph := &Glyph{Index: g, MetricsFrom: g, Composite: IsComposite(data)}
	if len(data) >= glyphHeaderSize {
		glyph.XMin, _ = ot.ReadI16(data, 2)
		glyph.YMin, _ = ot.ReadI16(data, 4)
		glyph.XMax, _ = ot.ReadI16(data, 6)
		glyph.YMax, _ = ot.ReadI16(data, 8)
	}
	if err := r.resolve(glyph, g, data, Identity, 0); err != nil {
		return nil, err
	}
	return glyph, nil
}

func (r *Resolver) resolve(glyph *Glyph, g ot.GlyphIndex, data []byte, t Transform, depth int) error {
	if r.path.Test(uint(g)) {
		return fmt.Errorf("%w: glyph %d at depth %d", ErrCompositeCycle, g, depth)
	}
	r.path.Set(uint(g))
	defer r.path.Clear(uint(g))
	if !IsComposite(data) {
		o, err := DecodeSimple(data)
		if err != nil {
			return fmt.Errorf("glyph %d: %w", g, err)
		}
		if !o.IsEmpty() {
			glyph.Parts = append(glyph.Parts, Part{Glyph: g, Outline: o, Transform: t})
		}
		return nil
	}
	components, err := DecodeComposite(data)
	if err != nil {
		return fmt.Errorf("glyph %d: %w", g, err)
	}
	tracer().Debugf("glyph %d: %d components at depth %d", g, len(components), depth)
	for _, c := range components {
		if int(c.Glyph) >= r.src.NumGlyphs() {
			return fmt.Errorf("%w: glyph %d references glyph %d beyond numGlyphs", ErrMalformed,
				g, c.Glyph)
		}
		if c.PointMatching {
			glyph.Warnings = append(glyph.Warnings, fmt.Sprintf(
				"glyph %d: component %d placed by point matching (%d,%d), placed at offset 0",
				g, c.Glyph, c.Arg1, c.Arg2))
		}
		if depth == 0 && c.UseMyMetrics() {
			glyph.MetricsFrom = c.Glyph
		}
		sub, err := r.src.GlyphData(c.Glyph)
		if err != nil {
			return fmt.Errorf("%w: component %d: %w", ErrTruncated, c.Glyph, err)
		}
		if err := r.resolve(glyph, c.Glyph, sub, t.Compose(c.Transform), depth+1); err != nil {
			return err
		}
	}
	return nil
}
