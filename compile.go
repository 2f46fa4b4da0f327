package fontmesh

import (
	"fmt"
	"sync"

	"github.com/npillmayer/fontmesh/mesh"
	"github.com/npillmayer/fontmesh/ot"
	"github.com/npillmayer/fontmesh/outline"
	"github.com/npillmayer/fontmesh/tessellate"
)

type config struct {
	workers   int
	normalize bool
	epsilon   float64
}

// Option configures the compilation of a font.
type Option func(*config)

// WithWorkers compiles glyphs with n goroutines. Output does not depend on
// the number of workers.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithoutNormalization keeps vertices in font units.
func WithoutNormalization() Option {
	return func(c *config) {
		c.normalize = false
	}
}

// WithDegenerateEpsilon sets the tolerance below which curve spans are
// considered degenerate and dropped. See tessellate.WithEpsilon.
func WithDegenerateEpsilon(eps float64) Option {
	return func(c *config) {
		c.epsilon = eps
	}
}

// Compile parses a TrueType font and compiles meshes for all of its glyphs.
//
// Compile fails if the font cannot be parsed at all, e.g. because a mandatory
// table is missing. Errors confined to single glyphs do not stop the
// compilation: such glyphs are compiled without geometry, keeping their
// metrics, and the error is reported by MeshFont.Errors.
func Compile(data []byte, opts ...Option) (*MeshFont, error) {
	otf, err := ot.Parse(data)
	if err != nil {
		return nil, err
	}
	return CompileFont(otf, opts...)
}

// CompileFont compiles meshes for all glyphs of a parsed font.
func CompileFont(otf *ot.Font, opts ...Option) (*MeshFont, error) {
	if otf == nil || otf.Loca == nil || otf.HMtx == nil || otf.Head == nil {
		return nil, fmt.Errorf("%w: font not parsed", ot.ErrFontLoad)
	}
	c := config{workers: 1, normalize: true, epsilon: tessellate.DefaultEpsilon}
	for _, opt := range opts {
		opt(&c)
	}
	ts := tessellate.New(tessellate.WithEpsilon(c.epsilon))
	n := otf.NumGlyphs()
	workers := min(c.workers, max(n, 1))
	shards := make([]*shard, workers)
	var wg sync.WaitGroup
	for w := range shards {
		from, to := w*n/workers, (w+1)*n/workers
		shards[w] = &shard{arena: mesh.NewArena(to - from)}
		wg.Add(1)
		go func(s *shard) {
			defer wg.Done()
			s.compile(otf, ts, from, to)
		}(shards[w])
	}
	wg.Wait()
	//
	mf := &MeshFont{
		UnitsPerEm: otf.Head.UnitsPerEm,
		Codepoints: otf.CMap.Codepoints,
		Arena:      shards[0].arena,
		errors:     append([]ot.FontError(nil), otf.Errors()...),
		warnings:   append([]ot.FontWarning(nil), otf.Warnings()...),
	}
	xmin, ymin, xmax, ymax := otf.Head.Extents()
	mf.Extent = mesh.Extent{
		Min: mesh.Vertex{X: float64(xmin), Y: float64(ymin)},
		Max: mesh.Vertex{X: float64(xmax), Y: float64(ymax)},
	}
	for i, s := range shards {
		if i > 0 {
			mf.Arena.Concat(s.arena)
		}
		mf.errors = append(mf.errors, s.errors...)
		mf.warnings = append(mf.warnings, s.warnings...)
	}
	if err := mf.Arena.CheckRanges(); err != nil {
		return nil, fmt.Errorf("mesh compilation: %w", err)
	}
	if c.normalize {
		var clamped int
		mf.Arena.Vertices, clamped = mesh.Normalize(mf.Arena.Vertices, mf.Extent)
		mf.Normalized = true
		if clamped > 0 {
			mf.warnings = append(mf.warnings, ot.FontWarning{
				Table: ot.T("head"),
				Issue: fmt.Sprintf("%d vertices outside of the font bounding box clamped", clamped),
			})
		}
	}
	mf.Packed = mesh.Pack(mf.Arena.Vertices)
	tracer().Infof("compiled %d glyphs: %s", n, mf.Arena.Stats())
	if len(mf.errors) > 0 {
		tracer().Infof("%d glyphs could not be compiled", len(mf.errors))
	}
	return mf, nil
}

// shard compiles a contiguous range of glyphs into a private arena.
type shard struct {
	arena    *mesh.Arena
	errors   []ot.FontError
	warnings []ot.FontWarning
}

func (s *shard) compile(otf *ot.Font, ts *tessellate.Tessellator, from, to int) {
	r := outline.NewResolver(otf)
	for g := from; g < to; g++ {
		s.compileGlyph(otf, r, ts, ot.GlyphIndex(g))
	}
}

// compileGlyph appends the mesh of glyph g to the shard's arena. A glyph
// failing to compile is recorded without geometry.
func (s *shard) compileGlyph(otf *ot.Font, r *outline.Resolver, ts *tessellate.Tessellator, g ot.GlyphIndex) {
	hm := otf.HMtx.HMetrics(g)
	rec := mesh.GlyphRecord{AdvanceWidth: hm.AdvanceWidth, LeftSideBearing: hm.LeftSideBearing}
	if data, err := otf.GlyphData(g); err == nil {
		// kept for glyphs failing to resolve
		rec.IsComposite = outline.IsComposite(data)
	}
	b := s.arena.Begin()
	glyph, err := r.Resolve(g)
	if err != nil {
		s.fail(g, err)
		b.End(rec)
		return
	}
	if glyph.MetricsFrom != g {
		hm = otf.HMtx.HMetrics(glyph.MetricsFrom)
		rec.AdvanceWidth, rec.LeftSideBearing = hm.AdvanceWidth, hm.LeftSideBearing
	}
	rec.IsComposite = glyph.Composite
	rec.MinExtent = mesh.Vertex{X: float64(glyph.XMin), Y: float64(glyph.YMin)}
	rec.MaxExtent = mesh.Vertex{X: float64(glyph.XMax), Y: float64(glyph.YMax)}
	for _, w := range glyph.Warnings {
		s.warnings = append(s.warnings, ot.FontWarning{Table: ot.T("glyf"), Issue: w})
	}
	for _, part := range glyph.Parts {
		m, err := ts.Tessellate(part.Outline.Transformed(part.Transform))
		if err != nil {
			s.fail(g, fmt.Errorf("component %d: %w", part.Glyph, err))
			b.Discard()
			break
		}
		b.Append(m.Vertices, m.Triangles)
	}
	rec = b.End(rec)
	tracer().Debugf("glyph %d: %d vertices, %d triangles", g, rec.VertexCount, rec.TriangleCount)
}

func (s *shard) fail(g ot.GlyphIndex, err error) {
	tracer().Errorf("glyph %d: %v", g, err)
	s.errors = append(s.errors, ot.GlyphError(g, err))
}
