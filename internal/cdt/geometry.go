package cdt

import "math"

// Point is a vertex position.
type Point struct {
	X, Y float64
}

// Edge connects two vertices, given as indices into the vertices passed to
// InsertVertices.
type Edge struct {
	From, To int
}

// Triangle holds three vertex indices in counter-clockwise order.
type Triangle [3]int

func (p Point) sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) isFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// orient is twice the signed area of triangle abc, positive if abc is
// counter-clockwise.
func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// inCircle is positive if d lies inside the circumcircle of the
// counter-clockwise triangle abc.
func inCircle(a, b, c, d Point) float64 {
	ad, bd, cd := a.sub(d), b.sub(d), c.sub(d)
	a2 := ad.X*ad.X + ad.Y*ad.Y
	b2 := bd.X*bd.X + bd.Y*bd.Y
	c2 := cd.X*cd.X + cd.Y*cd.Y
	return ad.X*(bd.Y*c2-b2*cd.Y) - ad.Y*(bd.X*c2-b2*cd.X) + a2*(bd.X*cd.Y-bd.Y*cd.X)
}

// intersection returns the intersection point of the lines through ab and cd.
// The lines must not be parallel.
func intersection(a, b, c, d Point) Point {
	r, s := b.sub(a), d.sub(c)
	den := r.X*s.Y - r.Y*s.X
	t := ((c.X-a.X)*s.Y - (c.Y-a.Y)*s.X) / den
	return Point{a.X + t*r.X, a.Y + t*r.Y}
}

// tolerances are relative to the extent of the input.
type tolerances struct {
	dist float64 // distance below which points are identical
	area float64 // orient values below which points are collinear (per unit of length)
	circ float64 // inCircle values below which points are cocircular
}

func makeTolerances(extent float64) tolerances {
	m := math.Max(extent, 1)
	return tolerances{
		dist: 1e-9 * m,
		area: 1e-10 * m,
		circ: 1e-10 * m * m * m * m,
	}
}

// properCross is true if segments ab and cd intersect in a single point
// interior to both of them.
func (tol tolerances) properCross(a, b, c, d Point) bool {
	la := math.Hypot(b.X-a.X, b.Y-a.Y) * tol.area
	lc := math.Hypot(d.X-c.X, d.Y-c.Y) * tol.area
	o1, o2 := orient(a, b, c), orient(a, b, d)
	o3, o4 := orient(c, d, a), orient(c, d, b)
	return ((o1 > la && o2 < -la) || (o1 < -la && o2 > la)) &&
		((o3 > lc && o4 < -lc) || (o3 < -lc && o4 > lc))
}

// onSegment is true if p lies on segment ab, strictly between a and b.
func (tol tolerances) onSegment(p, a, b Point) bool {
	ab := b.sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return false
	}
	if math.Abs(orient(a, b, p)) > math.Sqrt(l2)*tol.area {
		return false
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	margin := tol.dist / math.Sqrt(l2)
	return t > margin && t < 1-margin
}

func (tol tolerances) same(p, q Point) bool {
	return math.Abs(p.X-q.X) <= tol.dist && math.Abs(p.Y-q.Y) <= tol.dist
}
