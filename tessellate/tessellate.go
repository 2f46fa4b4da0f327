package tessellate

import (
	"fmt"
	"math"

	"github.com/npillmayer/fontmesh/mesh"
	"github.com/npillmayer/fontmesh/outline"
)

// DefaultEpsilon is the default tolerance for rejecting degenerate spans.
const DefaultEpsilon = 1e-9

// strictness of point-in-triangle tests, in barycentric units
const (
	insideTolerance = 1e-9
	closedTolerance = -1e-12
)

// Tessellator creates meshes from outlines. A Tessellator holds no state
// between calls and may be used by multiple goroutines concurrently, as long
// as its triangulator factory returns fresh triangulators.
type Tessellator struct {
	newTriangulator func() Triangulator
	epsilon         float64
}

// Option configures a Tessellator.
type Option func(*Tessellator)

// WithTriangulator sets the factory for the triangulators computing the flat
// fill. The default is NewDelaunay.
func WithTriangulator(factory func() Triangulator) Option {
	return func(ts *Tessellator) {
		if factory != nil {
			ts.newTriangulator = factory
		}
	}
}

// WithEpsilon sets the tolerance for degenerate spans. A span is dropped if
// two of its points are closer than eps, if the sine of the angle at its
// start point is below eps, or if its triangle's area is below eps.
func WithEpsilon(eps float64) Option {
	return func(ts *Tessellator) {
		if eps > 0 {
			ts.epsilon = eps
		}
	}
}

// New creates a Tessellator.
func New(opts ...Option) *Tessellator {
	ts := &Tessellator{
		newTriangulator: NewDelaunay,
		epsilon:         DefaultEpsilon,
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// Mesh is the mesh of a single outline. Triangle indices reference Vertices.
//
// Vertices start with the vertices of the flat fill, including vertices
// inserted by the triangulator, followed by one control vertex per curve
// triangle.
type Mesh struct {
	Vertices  []mesh.Vertex
	Triangles []mesh.Triangle
	Dropped   int // degenerate spans
	Relocated int // points moved out of the ink of convex spans
}

// Tessellate creates the mesh for an outline.
func (ts *Tessellator) Tessellate(o *outline.Outline) (*Mesh, error) {
	m := &Mesh{}
	if o == nil || o.IsEmpty() {
		return m, nil
	}
	pts := append([]outline.Point(nil), o.Points...)
	all := o.Spans()
	spans := make([]outline.Span, 0, len(all))
	for _, s := range all {
		if ts.isDegenerate(pts[s.Start], pts[s.Control], pts[s.End]) {
			tracer().Debugf("dropping degenerate span %v %v %v",
				pts[s.Start], pts[s.Control], pts[s.End])
			m.Dropped++
			continue
		}
		spans = append(spans, s)
	}
	f, err := ts.fill(o, pts)
	if err != nil {
		return nil, err
	}
	tags := classify(pts, spans, f)
	if m.Relocated = relocate(pts, spans, tags); m.Relocated > 0 {
		tracer().Debugf("moved %d points out of convex curve ink", m.Relocated)
		if f, err = ts.fill(o, pts); err != nil {
			return nil, err
		}
	}
	m.emit(pts, spans, tags, f)
	return m, nil
}

// fillMesh is the flat fill of an outline. index maps outline points to
// vertices of the fill, with -1 for control points.
type fillMesh struct {
	vertices  []Point
	triangles []Triangle
	index     []int
}

// fill triangulates the polygon of on-curve points of o, with points at
// positions pts. On-curve points with equal positions collapse into a single
// vertex.
func (ts *Tessellator) fill(o *outline.Outline, pts []outline.Point) (*fillMesh, error) {
	f := &fillMesh{index: make([]int, len(pts))}
	var input []Point
	seen := make(map[Point]int, len(pts))
	for i, p := range pts {
		f.index[i] = -1
		if !p.OnCurve {
			continue
		}
		q := Point{X: p.X, Y: p.Y}
		k, ok := seen[q]
		if !ok {
			k = len(input)
			seen[q] = k
			input = append(input, q)
		}
		f.index[i] = k
	}
	var edges []Edge
	for _, chain := range o.OnCurveEdges() {
		for _, e := range chain {
			if a, b := f.index[e.From], f.index[e.To]; a != b {
				edges = append(edges, Edge{From: a, To: b})
			}
		}
	}
	tri := ts.newTriangulator()
	if err := tri.InsertVertices(input); err != nil {
		return nil, fmt.Errorf("fill triangulation: %w", err)
	}
	if err := tri.ConformToEdges(edges); err != nil {
		return nil, fmt.Errorf("fill triangulation: %w", err)
	}
	tri.EraseOuterTrianglesAndHoles()
	f.vertices, f.triangles = tri.Vertices(), tri.Triangles()
	tracer().Debugf("fill: %d vertices, %d constraints, %d triangles",
		len(f.vertices), len(edges), len(f.triangles))
	return f, nil
}

// contains reports whether p lies inside or on the border of a fill
// triangle.
func (f *fillMesh) contains(p outline.Point) bool {
	for _, t := range f.triangles {
		a, b, c := f.vertices[t[0]], f.vertices[t[1]], f.vertices[t[2]]
		l, ok := barycentric(p, pt(a), pt(b), pt(c))
		if ok && l[0] >= closedTolerance && l[1] >= closedTolerance && l[2] >= closedTolerance {
			return true
		}
	}
	return false
}

// classify tags each span convex or concave, depending on whether its
// control point lies outside or inside of the fill.
func classify(pts []outline.Point, spans []outline.Span, f *fillMesh) []mesh.CurvatureTag {
	tags := make([]mesh.CurvatureTag, len(spans))
	for i, s := range spans {
		if f.contains(pts[s.Control]) {
			tags[i] = mesh.ConcaveCurve
		} else {
			tags[i] = mesh.ConvexCurve
		}
	}
	return tags
}

// relocate moves points lying strictly inside of the ink of a convex span out
// of it. The ink of a convex span is the region between its chord and its
// curve; the rest of the span triangle, between curve and control point, is
// not rendered and points there stay in place. A point is reflected at the
// triangle corner with the largest barycentric coordinate, i.e. moved away
// from that corner by its distance to it. Ties resolve to the first of start,
// control, end. Control points of concave spans stay in place. Every point
// moves at most once and tests are made against the original positions.
//
// relocate returns the number of points moved.
func relocate(pts []outline.Point, spans []outline.Span, tags []mesh.CurvatureTag) int {
	movable := make([]bool, len(pts))
	for i, p := range pts {
		movable[i] = p.OnCurve
	}
	for i, s := range spans {
		if tags[i] == mesh.ConvexCurve {
			movable[s.Control] = true
		}
	}
	orig := append([]outline.Point(nil), pts...)
	moved := 0
	for i, s := range spans {
		if tags[i] != mesh.ConvexCurve {
			continue
		}
		corners := [3]outline.Point{orig[s.Start], orig[s.Control], orig[s.End]}
		for j := range pts {
			if !movable[j] || j == s.Start || j == s.Control || j == s.End {
				continue
			}
			l, ok := barycentric(orig[j], corners[0], corners[1], corners[2])
			if !ok || !insideInk(l) {
				continue
			}
			k := 0
			for c := 1; c < 3; c++ {
				if l[c] > l[k] {
					k = c
				}
			}
			p, c := orig[j], corners[k]
			pts[j].X, pts[j].Y = p.X+(p.X-c.X), p.Y+(p.Y-c.Y)
			movable[j] = false
			moved++
			tracer().Debugf("point %d moved from %v to %v", j, p, pts[j])
		}
	}
	return moved
}

// insideInk reports whether barycentric coordinates l, relative to start,
// control and end of a quadratic span, lie strictly between chord and curve.
// Points of the curve satisfy l1² = 4·l0·l2.
func insideInk(l [3]float64) bool {
	if l[0] <= insideTolerance || l[1] <= insideTolerance || l[2] <= insideTolerance {
		return false
	}
	return 4*l[0]*l[2]-l[1]*l[1] > insideTolerance
}

// emit writes the fill triangles and one curve triangle per span.
func (m *Mesh) emit(pts []outline.Point, spans []outline.Span, tags []mesh.CurvatureTag, f *fillMesh) {
	m.Vertices = make([]mesh.Vertex, 0, len(f.vertices)+len(spans))
	m.Triangles = make([]mesh.Triangle, 0, len(f.triangles)+len(spans))
	for _, v := range f.vertices {
		m.Vertices = append(m.Vertices, mesh.Vertex{X: v.X, Y: v.Y})
	}
	for _, t := range f.triangles {
		m.Triangles = append(m.Triangles, mesh.Triangle{
			I0: uint32(t[0]), I1: uint32(t[1]), I2: uint32(t[2]),
			Tag: mesh.Flat,
		})
	}
	for i, s := range spans {
		c := pts[s.Control]
		m.Vertices = append(m.Vertices, mesh.Vertex{X: c.X, Y: c.Y})
		m.Triangles = append(m.Triangles, mesh.Triangle{
			I0:  uint32(f.index[s.Start]),
			I1:  uint32(len(m.Vertices) - 1),
			I2:  uint32(f.index[s.End]),
			Tag: tags[i],
		})
	}
}

// --- Geometry --------------------------------------------------------------

func pt(p Point) outline.Point {
	return outline.Point{X: p.X, Y: p.Y}
}

func cross(o, a, b outline.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func dist(a, b outline.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// barycentric returns the barycentric coordinates of p with respect to
// triangle abc. It reports false for a degenerate triangle.
func barycentric(p, a, b, c outline.Point) ([3]float64, bool) {
	d := cross(a, b, c)
	if d == 0 {
		return [3]float64{}, false
	}
	return [3]float64{cross(p, b, c) / d, cross(a, p, c) / d, cross(a, b, p) / d}, true
}

// heron returns the area of a triangle with sides a, b, c, using the
// numerically stable form of Heron's formula.
func heron(a, b, c float64) float64 {
	// sort a ≥ b ≥ c
	if a < b {
		a, b = b, a
	}
	if b < c {
		b, c = c, b
	}
	if a < b {
		a, b = b, a
	}
	s := (a + (b + c)) * (c - (a - b)) * (c + (a - b)) * (a + (b - c))
	if s <= 0 {
		return 0
	}
	return math.Sqrt(s) / 4
}

// isDegenerate reports spans with coinciding or collinear points, or a
// triangle of zero area.
func (ts *Tessellator) isDegenerate(p0, c, p1 outline.Point) bool {
	eps := ts.epsilon
	a, b, d := dist(p0, c), dist(c, p1), dist(p0, p1)
	if a <= eps || b <= eps || d <= eps {
		return true
	}
	if math.Abs(cross(p0, c, p1)) <= eps*a*d {
		return true
	}
	return heron(a, b, d) <= eps
}
