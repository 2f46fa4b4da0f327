package cdt

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func polygon(pts ...Point) []Edge {
	edges := make([]Edge, len(pts))
	for i := range pts {
		edges[i] = Edge{From: i, To: (i + 1) % len(pts)}
	}
	return edges
}

func offset(edges []Edge, n int) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = Edge{From: e.From + n, To: e.To + n}
	}
	return out
}

func triangulate(t *testing.T, pts []Point, edges []Edge) *Triangulation {
	tri := New()
	require.NoError(t, tri.InsertVertices(pts))
	require.NoError(t, tri.ConformToEdges(edges))
	tri.EraseOuterTrianglesAndHoles()
	return tri
}

func area(vs []Point, tris []Triangle) float64 {
	sum := 0.0
	for _, tr := range tris {
		sum += orient(vs[tr[0]], vs[tr[1]], vs[tr[2]]) / 2
	}
	return sum
}

func centroid(vs []Point, tr Triangle) Point {
	return Point{
		(vs[tr[0]].X + vs[tr[1]].X + vs[tr[2]].X) / 3,
		(vs[tr[0]].Y + vs[tr[1]].Y + vs[tr[2]].Y) / 3,
	}
}

func assertCCW(t *testing.T, vs []Point, tris []Triangle) {
	for _, tr := range tris {
		assert.Greater(t, orient(vs[tr[0]], vs[tr[1]], vs[tr[2]]), 0.0, "triangle %v not counter-clockwise", tr)
	}
}

func TestSquare(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	pts := []Point{{0, 0}, {0, 100}, {100, 100}, {100, 0}} // clockwise, as TrueType outer contours
	tri := triangulate(t, pts, polygon(pts...))
	tris := tri.Triangles()
	assert.Len(t, tris, 2)
	assert.Len(t, tri.Vertices(), 4)
	assert.InDelta(t, 10000.0, area(tri.Vertices(), tris), 1e-6)
	assertCCW(t, tri.Vertices(), tris)
	assert.True(t, tri.IsConstrained(3, 0))
}

func TestSquareWithHole(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	outer := []Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	inner := []Point{{3, 3}, {7, 3}, {7, 7}, {3, 7}}
	pts := append(append([]Point{}, outer...), inner...)
	edges := append(polygon(outer...), offset(polygon(inner...), 4)...)
	tri := triangulate(t, pts, edges)
	vs, tris := tri.Vertices(), tri.Triangles()
	assert.Len(t, tris, 8)
	assert.InDelta(t, 84.0, area(vs, tris), 1e-9)
	for _, tr := range tris {
		c := centroid(vs, tr)
		assert.False(t, c.X > 3 && c.X < 7 && c.Y > 3 && c.Y < 7, "triangle %v inside hole", tr)
	}
}

func TestConcavePolygon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	// an 'L' shape
	pts := []Point{{0, 0}, {0, 10}, {2, 10}, {2, 2}, {8, 2}, {8, 0}}
	tri := triangulate(t, pts, polygon(pts...))
	vs, tris := tri.Vertices(), tri.Triangles()
	assert.Len(t, tris, 4)
	assert.InDelta(t, 20.0+12.0, area(vs, tris), 1e-9)
	for _, tr := range tris {
		c := centroid(vs, tr)
		assert.False(t, c.X > 2 && c.Y > 2, "triangle %v outside of L", tr)
	}
}

func TestTooFewVertices(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	for _, pts := range [][]Point{nil, {{1, 1}}, {{1, 1}, {5, 5}}} {
		tri := triangulate(t, pts, nil)
		assert.Empty(t, tri.Triangles())
		assert.Len(t, tri.Vertices(), len(pts))
	}
}

func TestConstraintThroughVertex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	pts := []Point{{0, 0}, {10, 0}, {5, 0}, {10, 10}, {0, 10}}
	edges := []Edge{{0, 1}, {1, 3}, {3, 4}, {4, 0}}
	tri := triangulate(t, pts, edges)
	assert.True(t, tri.IsConstrained(0, 2))
	assert.True(t, tri.IsConstrained(2, 1))
	assert.False(t, tri.IsConstrained(0, 1))
	assert.InDelta(t, 100.0, area(tri.Vertices(), tri.Triangles()), 1e-9)
	assert.Len(t, tri.Triangles(), 3)
}

func TestCrossingConstraints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	pts := []Point{{0, 0}, {10, 10}, {0, 10}, {10, 0}}
	tri := New()
	require.NoError(t, tri.InsertVertices(pts))
	require.NoError(t, tri.ConformToEdges([]Edge{{0, 1}, {2, 3}}))
	vs := tri.Vertices()
	require.Len(t, vs, 5, "expected a Steiner vertex")
	assert.InDelta(t, 5.0, vs[4].X, 1e-9)
	assert.InDelta(t, 5.0, vs[4].Y, 1e-9)
	for _, e := range []Edge{{0, 4}, {4, 1}, {2, 4}, {4, 3}} {
		assert.True(t, tri.IsConstrained(e.From, e.To), "edge %v", e)
	}
}

func TestDuplicateVertices(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	pts := []Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}
	edges := []Edge{{0, 1}, {1, 2}, {2, 3}, {3, 4}}
	tri := triangulate(t, pts, edges)
	tris := tri.Triangles()
	assert.Len(t, tris, 2)
	for _, tr := range tris {
		assert.NotContains(t, tr[:], 4, "collapsed vertex must not be referenced")
	}
	assert.Len(t, tri.Vertices(), 5)
}

func TestDegenerateInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	tri := New()
	err := tri.InsertVertices([]Point{{0, 0}, {math.NaN(), 1}, {1, 1}})
	assert.True(t, errors.Is(err, ErrDegenerate))
	tri = New()
	require.NoError(t, tri.InsertVertices([]Point{{0, 0}, {0, 1}, {1, 1}}))
	err = tri.ConformToEdges([]Edge{{0, 3}})
	assert.True(t, errors.Is(err, ErrDegenerate))
}

func TestDelaunayProperty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.tessellate")
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(7))
	pts := make([]Point, 60)
	for i := range pts {
		pts[i] = Point{rnd.Float64() * 1000, rnd.Float64() * 700}
	}
	tri := New()
	require.NoError(t, tri.InsertVertices(pts))
	vs, tris := tri.Vertices(), tri.Triangles()
	assertCCW(t, vs, tris)
	tol := makeTolerances(1000).circ
	for _, tr := range tris {
		for i, p := range vs {
			if i == tr[0] || i == tr[1] || i == tr[2] {
				continue
			}
			assert.LessOrEqual(t, inCircle(vs[tr[0]], vs[tr[1]], vs[tr[2]], p), tol,
				"vertex %d inside circumcircle of %v", i, tr)
		}
	}
}
