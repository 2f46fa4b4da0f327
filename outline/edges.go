package outline

// Edge connects two points of an outline, given as indices into
// Outline.Points. Edges of a contour follow the contour's winding.
type Edge struct {
	From, To int
}

// FullEdges returns the closed edge chain of every contour, using all points,
// on-curve and off-curve. Curve spans are detected on this list.
func (o *Outline) FullEdges() [][]Edge {
	chains := make([][]Edge, 0, len(o.EndPoints))
	for c := range o.EndPoints {
		from, to := o.Contour(c)
		idx := make([]int, 0, to-from)
		for i := from; i < to; i++ {
			idx = append(idx, i)
		}
		chains = append(chains, closedChain(idx))
	}
	return chains
}

// OnCurveEdges returns the closed edge chain of every contour with the
// off-curve points left out. The fill of a glyph is triangulated from this
// list. Contours with fewer than 3 on-curve points enclose no area and are
// omitted.
func (o *Outline) OnCurveEdges() [][]Edge {
	chains := make([][]Edge, 0, len(o.EndPoints))
	for c := range o.EndPoints {
		from, to := o.Contour(c)
		idx := make([]int, 0, to-from)
		for i := from; i < to; i++ {
			if o.Points[i].OnCurve {
				idx = append(idx, i)
			}
		}
		if len(idx) < 3 {
			continue
		}
		chains = append(chains, closedChain(idx))
	}
	return chains
}

func closedChain(idx []int) []Edge {
	if len(idx) < 2 {
		return nil
	}
	edges := make([]Edge, len(idx))
	for i := range idx {
		edges[i] = Edge{From: idx[i], To: idx[(i+1)%len(idx)]}
	}
	return edges
}

// Span is a quadratic Bézier segment on→off→on, given as indices into
// Outline.Points.
type Span struct {
	Start, Control, End int
}

// Spans walks the full edge list of every contour and returns each pair of
// consecutive edges forming an on→off→on triple.
func (o *Outline) Spans() []Span {
	var spans []Span
	for _, chain := range o.FullEdges() {
		for i, e := range chain {
			next := chain[(i+1)%len(chain)]
			if o.Points[e.From].OnCurve && !o.Points[e.To].OnCurve && o.Points[next.To].OnCurve {
				spans = append(spans, Span{Start: e.From, Control: e.To, End: next.To})
			}
		}
	}
	return spans
}
