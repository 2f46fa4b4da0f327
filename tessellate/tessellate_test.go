package tessellate

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/fontmesh/internal/cdt"
	"github.com/npillmayer/fontmesh/mesh"
	"github.com/npillmayer/fontmesh/ot"
	"github.com/npillmayer/fontmesh/outline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func on(x, y float64) outline.Point  { return outline.Point{X: x, Y: y, OnCurve: true} }
func off(x, y float64) outline.Point { return outline.Point{X: x, Y: y} }

func makeOutline(contours ...[]outline.Point) *outline.Outline {
	o := &outline.Outline{}
	for _, c := range contours {
		o.Points = append(o.Points, c...)
		o.EndPoints = append(o.EndPoints, len(o.Points)-1)
		o.Synthetic = append(o.Synthetic, 0)
	}
	return o
}

func count(m *Mesh, tag mesh.CurvatureTag) int {
	n := 0
	for _, t := range m.Triangles {
		if t.Tag == tag {
			n++
		}
	}
	return n
}

// signedArea sums triangle areas, concave triangles counting negative.
func signedArea(m *Mesh) float64 {
	a := &mesh.Arena{Vertices: m.Vertices, Triangles: m.Triangles}
	a.Glyphs = []mesh.GlyphRecord{{VertexCount: len(m.Vertices), TriangleCount: len(m.Triangles)}}
	return a.SignedArea(0)
}

func tessellate(t *testing.T, o *outline.Outline, opts ...Option) *Mesh {
	m, err := New(opts...).Tessellate(o)
	require.NoError(t, err)
	for _, tr := range m.Triangles {
		for _, v := range []uint32{tr.I0, tr.I1, tr.I2} {
			require.Less(t, int(v), len(m.Vertices), "triangle %v", tr)
		}
	}
	return m
}

func TestUnitSquare(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	m := tessellate(t, makeOutline([]outline.Point{on(0, 0), on(0, 1), on(1, 1), on(1, 0)}))
	assert.Len(t, m.Triangles, 2)
	assert.Equal(t, 2, count(m, mesh.Flat))
	assert.Len(t, m.Vertices, 4)
	assert.InDelta(t, 1.0, signedArea(m), 1e-12)
}

func TestEmptyOutline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	for _, o := range []*outline.Outline{nil, {}} {
		m := tessellate(t, o)
		assert.Empty(t, m.Vertices)
		assert.Empty(t, m.Triangles)
	}
}

func TestCurvatureClassification(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	tests := []struct {
		name            string
		contour         []outline.Point
		convex, concave int
		area            float64
	}{
		{"convex bulge", []outline.Point{on(0, 0), on(0, 100), on(100, 100), off(150, 50), on(100, 0)},
			1, 0, 12500},
		{"concave dent", []outline.Point{on(0, 0), on(0, 100), on(100, 100), off(60, 50), on(100, 0)},
			0, 1, 8000},
		{"both", []outline.Point{on(0, 0), off(-40, 50), on(0, 100), on(100, 100), off(60, 50), on(100, 0)},
			1, 1, 10000},
		{"curves only", []outline.Point{on(0, 0), off(-50, 50), on(0, 100), off(50, 50)},
			2, 0, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := makeOutline(tt.contour)
			m := tessellate(t, o)
			assert.Equal(t, tt.convex, count(m, mesh.ConvexCurve))
			assert.Equal(t, tt.concave, count(m, mesh.ConcaveCurve))
			assert.Zero(t, m.Relocated)
			assert.InDelta(t, tt.area, signedArea(m), 1e-9)
			assert.InDelta(t, o.ShoelaceArea(), signedArea(m), 1e-9)
		})
	}
}

func TestFillDoesNotUseControlPoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	m := tessellate(t, makeOutline([]outline.Point{on(0, 0), on(0, 100), on(100, 100), off(150, 50), on(100, 0)}))
	require.Len(t, m.Vertices, 5)
	assert.Equal(t, mesh.Vertex{X: 150, Y: 50}, m.Vertices[4], "control vertices follow the fill")
	for _, tr := range m.Triangles {
		if tr.Tag == mesh.Flat {
			assert.NotContains(t, []uint32{tr.I0, tr.I1, tr.I2}, uint32(4))
		} else {
			assert.Equal(t, uint32(4), tr.I1)
			assert.Equal(t, mesh.Vertex{X: 100, Y: 100}, m.Vertices[tr.I0])
			assert.Equal(t, mesh.Vertex{X: 100, Y: 0}, m.Vertices[tr.I2])
		}
	}
}

func TestHole(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	// outer clockwise, inner counter-clockwise, the inner one bulging into the hole
	o := makeOutline(
		[]outline.Point{on(0, 0), on(0, 100), on(100, 100), on(100, 0)},
		[]outline.Point{on(20, 20), on(80, 20), on(80, 80), off(50, 60), on(20, 80)},
	)
	m := tessellate(t, o)
	assert.Equal(t, 1, count(m, mesh.ConvexCurve), "control point lies in the hole")
	assert.InDelta(t, o.ShoelaceArea(), signedArea(m), 1e-9)
	assert.InDelta(t, 10000-3600+600, signedArea(m), 1e-9)
}

func TestRelocation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	o := makeOutline(
		[]outline.Point{on(0, 0), on(0, 100), on(100, 100), off(200, 50), on(100, 0)},
		[]outline.Point{on(110, 50), on(120, 55), on(120, 45)},
	)
	m := tessellate(t, o)
	assert.Equal(t, 3, m.Relocated)
	assert.Equal(t, 1, count(m, mesh.ConvexCurve))
	vs := map[mesh.Vertex]bool{}
	for _, v := range m.Vertices {
		vs[v] = true
	}
	// reflected at the nearest corner of the curve triangle (100,100) (200,50) (100,0)
	for _, v := range []mesh.Vertex{{X: 120, Y: 0}, {X: 140, Y: 10}, {X: 140, Y: 90}} {
		assert.True(t, vs[v], "expected relocated vertex %v", v)
	}
	for _, v := range []mesh.Vertex{{X: 110, Y: 50}, {X: 120, Y: 55}, {X: 120, Y: 45}} {
		assert.False(t, vs[v], "vertex %v should have been moved", v)
	}
}

func TestConcaveControlPointsStay(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	pts := []outline.Point{on(0, 0), on(0, 100), on(100, 100), off(150, 50), on(100, 0), off(110, 50)}
	spans := []outline.Span{{Start: 2, Control: 3, End: 4}, {Start: 4, Control: 5, End: 0}}
	tags := []mesh.CurvatureTag{mesh.ConvexCurve, mesh.ConcaveCurve}
	assert.Zero(t, relocate(pts, spans, tags))
	assert.Equal(t, off(110, 50), pts[5])
	tags[1] = mesh.ConvexCurve
	assert.Equal(t, 1, relocate(pts, spans, tags))
}

func TestRelocationKeepsPointsBeyondCurve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	// the curve of span 2-3-4 reaches x=150 at y=50, its triangle x=200
	tests := []struct {
		name  string
		p     outline.Point
		moved int
	}{
		{"ink", on(120, 50), 1},
		{"beyond curve", on(170, 50), 0},
		{"on curve", on(150, 50), 0},
		{"outside triangle", on(210, 50), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := []outline.Point{on(0, 0), on(0, 100), on(100, 100), off(200, 50), on(100, 0), tt.p}
			spans := []outline.Span{{Start: 2, Control: 3, End: 4}}
			tags := []mesh.CurvatureTag{mesh.ConvexCurve}
			assert.Equal(t, tt.moved, relocate(pts, spans, tags))
			if tt.moved == 0 {
				assert.Equal(t, tt.p, pts[5])
			}
		})
	}
}

func TestDegenerateSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	tests := []struct {
		name    string
		contour []outline.Point
	}{
		{"collinear", []outline.Point{on(0, 0), on(0, 100), on(100, 100), off(100, 50), on(100, 0)}},
		{"coincident", []outline.Point{on(0, 0), on(0, 100), on(100, 100), off(100, 100), on(100, 0)}},
		{"tiny", []outline.Point{on(0, 0), on(0, 100), on(100, 100), off(100+1e-12, 50), on(100, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tessellate(t, makeOutline(tt.contour))
			assert.Equal(t, 1, m.Dropped)
			assert.Equal(t, 2, count(m, mesh.Flat))
			assert.Len(t, m.Triangles, 2)
		})
	}
	// a two point contour only yields spans running back to their start
	m := tessellate(t, makeOutline([]outline.Point{on(0, 0), off(50, 50)}))
	assert.Empty(t, m.Triangles)
	assert.Equal(t, 1, m.Dropped)
}

func TestHeron(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	assert.InDelta(t, 6.0, heron(3, 4, 5), 1e-12)
	assert.InDelta(t, 6.0, heron(5, 3, 4), 1e-12)
	assert.InDelta(t, math.Sqrt(3)/4, heron(1, 1, 1), 1e-12)
	assert.Zero(t, heron(1, 2, 3))
}

type failingTriangulator struct {
	*cdt.Triangulation
}

func (ft failingTriangulator) ConformToEdges([]Edge) error {
	return cdt.ErrConstraintLoop
}

func TestTriangulatorFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	ts := New(WithTriangulator(func() Triangulator {
		return failingTriangulator{cdt.New()}
	}))
	_, err := ts.Tessellate(makeOutline([]outline.Point{on(0, 0), on(0, 1), on(1, 1)}))
	assert.True(t, errors.Is(err, cdt.ErrConstraintLoop))
}

func TestGoRegularGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	otf, err := ot.Parse(goregular.TTF)
	require.NoError(t, err)
	r := outline.NewResolver(otf)
	ts := New()
	for _, ch := range "IHoe80" {
		t.Run(string(ch), func(t *testing.T) {
			g, err := r.Resolve(otf.CMap.Codepoints.Lookup(ch))
			require.NoError(t, err)
			require.Len(t, g.Parts, 1)
			o := g.Parts[0].Outline
			m, err := ts.Tessellate(o)
			require.NoError(t, err)
			assert.NotZero(t, count(m, mesh.Flat))
			if ch == 'I' || ch == 'H' {
				assert.Len(t, m.Triangles, count(m, mesh.Flat), "straight glyph has no curves")
				assert.InDelta(t, o.ShoelaceArea(), signedArea(m), 1e-6)
				return
			}
			assert.NotZero(t, count(m, mesh.ConvexCurve))
			assert.Equal(t, len(o.Spans())-m.Dropped, len(m.Triangles)-count(m, mesh.Flat))
			assert.Zero(t, m.Relocated)
			assert.InEpsilon(t, o.ShoelaceArea(), signedArea(m), 1e-6)
		})
	}
}

// Meshes of simple glyphs cover the area of their outline, unless points
// had to be moved. Glyphs with overlapping contours are filled even-odd and
// may differ as well.
func TestGoRegularAreaLaw(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	otf, err := ot.Parse(goregular.TTF)
	require.NoError(t, err)
	r := outline.NewResolver(otf)
	ts := New()
	var simple, relocated, violations int
	for i := 0; i < otf.NumGlyphs(); i++ {
		g, err := r.Resolve(ot.GlyphIndex(i))
		require.NoError(t, err, "glyph %d", i)
		if g.Composite || len(g.Parts) != 1 || g.Parts[0].Outline.IsEmpty() {
			continue
		}
		simple++
		o := g.Parts[0].Outline
		m, err := ts.Tessellate(o)
		require.NoError(t, err, "glyph %d", i)
		if m.Relocated > 0 {
			relocated++
			continue
		}
		want := o.ShoelaceArea()
		if math.Abs(signedArea(m)-want) > 1e-6*math.Max(math.Abs(want), 1) {
			t.Logf("glyph %d: mesh area %.3f, outline area %.3f", i, signedArea(m), want)
			violations++
		}
	}
	t.Logf("%d simple glyphs, %d with relocated points, %d area mismatches", simple, relocated, violations)
	require.NotZero(t, simple)
	assert.LessOrEqual(t, violations, simple/100, "area mismatches beyond overlapping glyphs")
	assert.LessOrEqual(t, relocated, simple/100, "relocation is confined to crossing contours")
}
