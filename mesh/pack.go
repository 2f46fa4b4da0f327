package mesh

import "math"

// Extent is an axis-aligned rectangle.
type Extent struct {
	Min, Max Vertex
}

// Normalize maps every vertex into [0…1]×[0…1] relative to ext, i.e.
// (p - min) / (max - min). Vertices outside of ext are clamped. A degenerate
// extent maps the respective coordinate to 0. Normalize returns the number of
// clamped vertices.
func Normalize(vs []Vertex, ext Extent) ([]Vertex, int) {
	dx, dy := ext.Max.X-ext.Min.X, ext.Max.Y-ext.Min.Y
	out := make([]Vertex, len(vs))
	clamped := 0
	for i, v := range vs {
		x, cx := normalize(v.X, ext.Min.X, dx)
		y, cy := normalize(v.Y, ext.Min.Y, dy)
		if cx || cy {
			clamped++
		}
		out[i] = Vertex{X: x, Y: y}
	}
	if clamped > 0 {
		tracer().Infof("%d vertices outside of font extent clamped", clamped)
	}
	return out, clamped
}

func normalize(v, min, d float64) (float64, bool) {
	if d <= 0 {
		return 0, false
	}
	n := (v - min) / d
	if n < 0 || n > 1 {
		return math.Max(0, math.Min(1, n)), true
	}
	return n, false
}

// Pack packs vertices pairwise into records of four float32 values
// (x0, y0, x1, y1). An odd last vertex is padded with zeros.
func Pack(vs []Vertex) [][4]float32 {
	packed := make([][4]float32, (len(vs)+1)/2)
	for i, v := range vs {
		rec := &packed[i/2]
		rec[2*(i%2)] = float32(v.X)
		rec[2*(i%2)+1] = float32(v.Y)
	}
	return packed
}

// Unpack returns vertex i of a packed buffer.
func Unpack(packed [][4]float32, i int) Vertex {
	rec := packed[i/2]
	return Vertex{X: float64(rec[2*(i%2)]), Y: float64(rec[2*(i%2)+1])}
}
