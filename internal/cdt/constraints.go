package cdt

import (
	"fmt"
	"math"
)

// ConformToEdges enforces edges as constrained edges of the triangulation.
// Edge endpoints are indices into the vertices inserted before.
//
// A constraint passing through another vertex is split at that vertex.
// Crossing constraints are split at their intersection, which is inserted
// as a Steiner vertex.
func (t *Triangulation) ConformToEdges(edges []Edge) error {
	if !t.ready {
		return nil
	}
	n := len(t.verts) - superVertices
	for _, e := range edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return fmt.Errorf("%w: edge (%d,%d) references unknown vertex", ErrDegenerate, e.From, e.To)
		}
		a := t.alias[e.From+superVertices]
		b := t.alias[e.To+superVertices]
		if err := t.insertConstraint(a, b); err != nil {
			return err
		}
	}
	return nil
}

func (t *Triangulation) hasEdge(a, b int) bool {
	_, ab := t.adj[[2]int{a, b}]
	_, ba := t.adj[[2]int{b, a}]
	return ab || ba
}

func (t *Triangulation) insertConstraint(a, b int) error {
	work := [][2]int{{a, b}}
	for len(work) > 0 {
		if t.budget--; t.budget < 0 {
			return fmt.Errorf("%w: edge (%d,%d)", ErrConstraintLoop, a-superVertices, b-superVertices)
		}
		e := work[len(work)-1]
		work = work[:len(work)-1]
		a, b := e[0], e[1]
		if a == b {
			continue
		}
		if t.hasEdge(a, b) {
			t.constr[key(a, b)] = true
			continue
		}
		if v := t.vertexOnSegment(a, b); v >= 0 {
			work = append(work, [2]int{v, b}, [2]int{a, v})
			continue
		}
		crossing, blocking := t.crossingEdges(a, b)
		if len(crossing) == 0 {
			return fmt.Errorf("%w: edge (%d,%d) is neither present nor crossing any edge", ErrDegenerate,
				a-superVertices, b-superVertices)
		}
		if blocking != nil {
			v, err := t.insertSteiner(a, b, *blocking)
			if err != nil {
				return err
			}
			work = append(work, [2]int{v, b}, [2]int{a, v})
			continue
		}
		if err := t.flipCrossing(a, b, crossing); err != nil {
			return err
		}
	}
	return nil
}

// vertexOnSegment returns the vertex on segment ab closest to a, or -1.
func (t *Triangulation) vertexOnSegment(a, b int) int {
	pa, pb := t.verts[a], t.verts[b]
	found, dmin := -1, math.Inf(1)
	for v := superVertices; v < len(t.verts); v++ {
		if v == a || v == b || t.alias[v] != v {
			continue
		}
		p := t.verts[v]
		if !t.tol.onSegment(p, pa, pb) {
			continue
		}
		if d := math.Hypot(p.X-pa.X, p.Y-pa.Y); d < dmin {
			found, dmin = v, d
		}
	}
	return found
}

// crossingEdges returns the edges properly crossed by segment ab, in
// triangle order. If one of them is constrained, it is returned as blocking.
func (t *Triangulation) crossingEdges(a, b int) (crossing []edgeKey, blocking *edgeKey) {
	pa, pb := t.verts[a], t.verts[b]
	seen := make(map[edgeKey]bool)
	for n := range t.tris {
		if t.tris[n].dead {
			continue
		}
		tv := t.tris[n].v
		for j := 0; j < 3; j++ {
			k := key(tv[j], tv[(j+1)%3])
			if seen[k] {
				continue
			}
			seen[k] = true
			if !t.tol.properCross(pa, pb, t.verts[k[0]], t.verts[k[1]]) {
				continue
			}
			crossing = append(crossing, k)
			if t.constr[k] && blocking == nil {
				blocking = &k
			}
		}
	}
	return
}

// insertSteiner inserts the intersection of segment ab with constrained
// edge c as a new vertex, splitting c.
func (t *Triangulation) insertSteiner(a, b int, c edgeKey) (int, error) {
	p := intersection(t.verts[a], t.verts[b], t.verts[c[0]], t.verts[c[1]])
	if !p.isFinite() {
		return -1, fmt.Errorf("%w: constraints (%d,%d) and (%d,%d) do not intersect", ErrDegenerate,
			a-superVertices, b-superVertices, c[0]-superVertices, c[1]-superVertices)
	}
	if d := t.findDuplicate(p, -1); d >= 0 {
		return d, nil
	}
	v := t.addVertex(p)
	tracer().Debugf("cdt: Steiner vertex %d at (%g,%g)", v-superVertices, p.X, p.Y)
	return v, t.insert(v, &c)
}

// flipCrossing flips the edges crossing segment ab until ab is an edge of the
// triangulation (Sloan's algorithm). Afterwards the Delaunay property is
// restored for the edges created on the way.
func (t *Triangulation) flipCrossing(a, b int, crossing []edgeKey) error {
	pa, pb := t.verts[a], t.verts[b]
	queue := make([][2]int, len(crossing))
	for i, k := range crossing {
		queue[i] = [2]int{k[0], k[1]}
	}
	var created [][2]int
	for len(queue) > 0 {
		if t.budget--; t.budget < 0 {
			return fmt.Errorf("%w: edge (%d,%d)", ErrConstraintLoop, a-superVertices, b-superVertices)
		}
		c, d := queue[0][0], queue[0][1]
		queue = queue[1:]
		x, y, ok := t.flip(c, d)
		if !ok {
			queue = append(queue, [2]int{c, d})
			continue
		}
		if t.tol.properCross(pa, pb, t.verts[x], t.verts[y]) {
			queue = append(queue, [2]int{x, y})
		} else {
			created = append(created, [2]int{x, y})
		}
	}
	t.constr[key(a, b)] = true
	return t.legalize(created)
}

// flip replaces the edge cd, shared by two triangles forming a strictly
// convex quadrilateral, by the other diagonal xy. It reports false if the
// quadrilateral is not strictly convex.
func (t *Triangulation) flip(c, d int) (x, y int, ok bool) {
	t1, ok1 := t.adj[[2]int{c, d}]
	t2, ok2 := t.adj[[2]int{d, c}]
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	x = t.opposite(t1, c, d)
	y = t.opposite(t2, c, d)
	if !t.tol.properCross(t.verts[x], t.verts[y], t.verts[c], t.verts[d]) {
		return 0, 0, false
	}
	t.removeTri(t1)
	t.removeTri(t2)
	t.addTri(c, y, x)
	t.addTri(y, d, x)
	return x, y, true
}

// legalize flips non-constrained edges violating the Delaunay property,
// starting with edges, until no violation is left (Lawson's algorithm).
func (t *Triangulation) legalize(edges [][2]int) error {
	work := append([][2]int(nil), edges...)
	for len(work) > 0 {
		if t.budget--; t.budget < 0 {
			return fmt.Errorf("%w: restoring Delaunay property", ErrConstraintLoop)
		}
		c, d := work[len(work)-1][0], work[len(work)-1][1]
		work = work[:len(work)-1]
		if t.constr[key(c, d)] {
			continue
		}
		t1, ok1 := t.adj[[2]int{c, d}]
		t2, ok2 := t.adj[[2]int{d, c}]
		if !ok1 || !ok2 {
			continue
		}
		y := t.opposite(t2, c, d)
		if !t.triInCircle(t1, t.verts[y]) {
			continue
		}
		if x, _, ok := t.flip(c, d); ok {
			work = append(work, [2]int{c, y}, [2]int{y, d}, [2]int{d, x}, [2]int{x, c})
		}
	}
	return nil
}
