package cdt

// EraseOuterTrianglesAndHoles removes every triangle outside of the region
// bounded by the constrained edges.
//
// Triangles are assigned a depth: triangles connected to the super-triangle
// without crossing a constrained edge have depth 0, each crossing of a
// constrained edge increments the depth. Triangles of odd depth are inside
// (even-odd rule) and are kept.
func (t *Triangulation) EraseOuterTrianglesAndHoles() {
	if !t.ready {
		return
	}
	depth := make([]int, len(t.tris))
	for i := range depth {
		depth[i] = -1
	}
	var layer []int
	for n, tr := range t.tris {
		if tr.dead {
			continue
		}
		if tr.v[0] < superVertices || tr.v[1] < superVertices || tr.v[2] < superVertices {
			depth[n] = 0
			layer = append(layer, n)
		}
	}
	for d := 0; len(layer) > 0; d++ {
		var next []int
		for i := 0; i < len(layer); i++ {
			tv := t.tris[layer[i]].v
			for j := 0; j < 3; j++ {
				a, b := tv[j], tv[(j+1)%3]
				nb, ok := t.neighbor(a, b)
				if !ok || depth[nb] >= 0 {
					continue
				}
				if t.constr[key(a, b)] {
					next = append(next, nb)
					continue
				}
				depth[nb] = d
				layer = append(layer, nb)
			}
		}
		layer = layer[:0]
		for _, n := range next {
			if depth[n] < 0 {
				depth[n] = d + 1
				layer = append(layer, n)
			}
		}
	}
	erased := 0
	for n := range t.tris {
		if t.tris[n].dead {
			continue
		}
		if depth[n] < 0 || depth[n]%2 == 0 {
			t.removeTri(n)
			erased++
		}
	}
	tracer().Debugf("cdt: erased %d outer triangles", erased)
}
