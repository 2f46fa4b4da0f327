/*
Package cdt implements a constrained Delaunay triangulation of a planar
point set.

Vertices are inserted incrementally into a super-triangle enclosing all of
them (Bowyer-Watson). Constraint edges are then enforced by flipping the
edges they cross. Where a constraint crosses another constraint, the
intersection is inserted as an additional (Steiner) vertex and both
constraints are split. Finally, triangles outside of the constrained
boundary are erased, using the even-odd rule for holes.

Vertex indices of the input are stable: vertex i of InsertVertices is
Vertices()[i], Steiner vertices are appended after the input vertices.
*/
package cdt

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontmesh.tessellate'
func tracer() tracing.Trace {
	return tracing.Select("fontmesh.tessellate")
}

// ErrDegenerate is reported for input which cannot be triangulated, e.g.
// coordinates which are not finite.
var ErrDegenerate = errors.New("degenerate triangulation input")

// ErrConstraintLoop is reported if enforcing constraint edges does not
// terminate within the iteration budget.
var ErrConstraintLoop = errors.New("constraint insertion does not converge")

const superVertices = 3

type triangle struct {
	v    [3]int
	dead bool
}

type edgeKey [2]int

func key(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Triangulation is a constrained Delaunay triangulation.
// The zero value is not usable, create one with New.
type Triangulation struct {
	verts  []Point
	alias  []int // vertex a duplicate vertex collapsed into, or the vertex itself
	tris   []triangle
	adj    map[[2]int]int // directed edge → triangle holding it
	constr map[edgeKey]bool
	tol    tolerances
	budget int // remaining iterations for constraint enforcement
	ready  bool
}

// New creates an empty triangulation.
func New() *Triangulation {
	return &Triangulation{
		adj:    make(map[[2]int]int),
		constr: make(map[edgeKey]bool),
	}
}

// InsertVertices inserts points into the triangulation. The first call
// determines the extent of the triangulation, points of later calls have to
// lie within the bounding box of the first call.
//
// Points closer to an existing vertex than the numerical tolerance collapse
// into the existing vertex. They keep their index, but no triangle
// references them.
func (t *Triangulation) InsertVertices(pts []Point) error {
	if len(pts) == 0 {
		return nil
	}
	for i, p := range pts {
		if !p.isFinite() {
			return fmt.Errorf("%w: vertex %d is not finite", ErrDegenerate, i)
		}
	}
	if !t.ready {
		t.init(pts)
	}
	for _, p := range pts {
		v := t.addVertex(p)
		if d := t.findDuplicate(p, v); d >= 0 {
			t.alias[v] = d
			continue
		}
		if err := t.insert(v, nil); err != nil {
			return err
		}
	}
	return nil
}

// init creates the super-triangle enclosing the bounding box of pts.
func (t *Triangulation) init(pts []Point) {
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		xmin, xmax = math.Min(xmin, p.X), math.Max(xmax, p.X)
		ymin, ymax = math.Min(ymin, p.Y), math.Max(ymax, p.Y)
	}
	extent := math.Max(xmax-xmin, ymax-ymin)
	t.tol = makeTolerances(extent)
	m := math.Max(extent, 1)
	cx, cy := (xmin+xmax)/2, (ymin+ymax)/2
	t.verts = append(t.verts[:0],
		Point{cx - 20*m, cy - m},
		Point{cx + 20*m, cy - m},
		Point{cx, cy + 20*m},
	)
	t.alias = append(t.alias[:0], 0, 1, 2)
	t.addTri(0, 1, 2)
	t.budget = 1000 + 100*len(pts)
	t.ready = true
}

func (t *Triangulation) addVertex(p Point) int {
	t.verts = append(t.verts, p)
	v := len(t.verts) - 1
	t.alias = append(t.alias, v)
	return v
}

// findDuplicate returns an existing vertex at position p, or -1.
func (t *Triangulation) findDuplicate(p Point, except int) int {
	for i := superVertices; i < len(t.verts); i++ {
		if i != except && t.alias[i] == i && t.tol.same(t.verts[i], p) {
			return i
		}
	}
	return -1
}

// --- Triangle bookkeeping --------------------------------------------------

func (t *Triangulation) addTri(a, b, c int) int {
	t.tris = append(t.tris, triangle{v: [3]int{a, b, c}})
	n := len(t.tris) - 1
	t.adj[[2]int{a, b}] = n
	t.adj[[2]int{b, c}] = n
	t.adj[[2]int{c, a}] = n
	return n
}

func (t *Triangulation) removeTri(n int) {
	tr := &t.tris[n]
	tr.dead = true
	for i := 0; i < 3; i++ {
		e := [2]int{tr.v[i], tr.v[(i+1)%3]}
		if t.adj[e] == n {
			delete(t.adj, e)
		}
	}
}

// neighbor returns the triangle across directed edge ab of a triangle
// holding ab, i.e. the triangle holding ba.
func (t *Triangulation) neighbor(a, b int) (int, bool) {
	n, ok := t.adj[[2]int{b, a}]
	return n, ok
}

// opposite returns the vertex of triangle n not on edge ab.
func (t *Triangulation) opposite(n, a, b int) int {
	for _, v := range t.tris[n].v {
		if v != a && v != b {
			return v
		}
	}
	return -1
}

func (t *Triangulation) triInCircle(n int, p Point) bool {
	v := t.tris[n].v
	return inCircle(t.verts[v[0]], t.verts[v[1]], t.verts[v[2]], p) > t.tol.circ
}

// leftOf is true if p lies strictly left of directed edge ab.
func (t *Triangulation) leftOf(a, b int, p Point) bool {
	pa, pb := t.verts[a], t.verts[b]
	return orient(pa, pb, p) > math.Hypot(pb.X-pa.X, pb.Y-pa.Y)*t.tol.area
}

// --- Point insertion -------------------------------------------------------

// locate returns the triangle containing p, or the triangle p is closest to
// being inside of.
func (t *Triangulation) locate(p Point) int {
	best, bestScore := -1, math.Inf(-1)
	for n := range t.tris {
		if t.tris[n].dead {
			continue
		}
		v := t.tris[n].v
		score := math.Min(orient(t.verts[v[0]], t.verts[v[1]], p),
			math.Min(orient(t.verts[v[1]], t.verts[v[2]], p), orient(t.verts[v[2]], t.verts[v[0]], p)))
		if score >= 0 {
			return n
		}
		if score > bestScore {
			best, bestScore = n, score
		}
	}
	return best
}

// cavity is the set of triangles replaced by the insertion of a vertex, in
// order of discovery.
type cavity struct {
	tris []int
	in   map[int]bool
}

func (c *cavity) add(n int) bool {
	if c.in[n] {
		return false
	}
	c.in[n] = true
	c.tris = append(c.tris, n)
	return true
}

// insert inserts vertex v. If hint is not nil, v is known to lie on the
// constrained edge hint, which is split by v.
func (t *Triangulation) insert(v int, hint *edgeKey) error {
	p := t.verts[v]
	start := t.locate(p)
	if start < 0 {
		return fmt.Errorf("%w: no triangle to insert vertex into", ErrDegenerate)
	}
	cav := &cavity{in: make(map[int]bool)}
	cav.add(start)
	var split []edgeKey
	if hint != nil {
		split = append(split, *hint)
		for _, e := range [][2]int{{hint[0], hint[1]}, {hint[1], hint[0]}} {
			if n, ok := t.adj[e]; ok {
				cav.add(n)
			}
		}
	}
	for i := 0; i < len(cav.tris); i++ {
		tv := t.tris[cav.tris[i]].v
		for j := 0; j < 3; j++ {
			a, b := tv[j], tv[(j+1)%3]
			n, ok := t.neighbor(a, b)
			if !ok || cav.in[n] {
				continue
			}
			if k := key(a, b); t.constr[k] {
				if !t.tol.onSegment(p, t.verts[a], t.verts[b]) {
					continue
				}
				split = appendUnique(split, k)
				cav.add(n)
				continue
			}
			if t.triInCircle(n, p) {
				cav.add(n)
			}
		}
	}
	// The cavity has to be star-shaped as seen from p. Grow it over boundary
	// edges p is not strictly left of.
	var boundary [][2]int
	for {
		boundary = boundary[:0]
		grown := false
		for _, n := range cav.tris {
			tv := t.tris[n].v
			for j := 0; j < 3; j++ {
				a, b := tv[j], tv[(j+1)%3]
				nb, ok := t.neighbor(a, b)
				if ok && cav.in[nb] {
					continue
				}
				if t.leftOf(a, b, p) {
					boundary = append(boundary, [2]int{a, b})
					continue
				}
				if !ok {
					return fmt.Errorf("%w: vertex %d outside of triangulation", ErrDegenerate, v-superVertices)
				}
				if k := key(a, b); t.constr[k] {
					if !t.tol.onSegment(p, t.verts[a], t.verts[b]) {
						return fmt.Errorf("%w: vertex %d collinear with constraint (%d,%d)", ErrDegenerate,
							v-superVertices, a-superVertices, b-superVertices)
					}
					split = appendUnique(split, k)
				}
				cav.add(nb)
				grown = true
			}
		}
		if !grown {
			break
		}
	}
	for _, n := range cav.tris {
		t.removeTri(n)
	}
	for _, e := range boundary {
		t.addTri(e[0], e[1], v)
	}
	for _, k := range split {
		delete(t.constr, k)
		t.constr[key(k[0], v)] = true
		t.constr[key(v, k[1])] = true
	}
	return nil
}

func appendUnique(keys []edgeKey, k edgeKey) []edgeKey {
	for _, x := range keys {
		if x == k {
			return keys
		}
	}
	return append(keys, k)
}

// --- Results ---------------------------------------------------------------

// Vertices returns all vertices, the input vertices first, followed by
// Steiner vertices created while enforcing crossing constraints.
func (t *Triangulation) Vertices() []Point {
	if len(t.verts) <= superVertices {
		return nil
	}
	vs := make([]Point, len(t.verts)-superVertices)
	copy(vs, t.verts[superVertices:])
	return vs
}

// Triangles returns the triangles of the triangulation as indices into
// Vertices, in counter-clockwise order. Triangles touching the
// super-triangle are never included.
func (t *Triangulation) Triangles() []Triangle {
	var out []Triangle
	for _, tr := range t.tris {
		if tr.dead || tr.v[0] < superVertices || tr.v[1] < superVertices || tr.v[2] < superVertices {
			continue
		}
		out = append(out, Triangle{
			tr.v[0] - superVertices,
			tr.v[1] - superVertices,
			tr.v[2] - superVertices,
		})
	}
	return out
}

// IsConstrained is true if edge (a, b) between input or Steiner vertices is
// a constrained edge of the triangulation.
func (t *Triangulation) IsConstrained(a, b int) bool {
	return t.constr[key(a+superVertices, b+superVertices)]
}
