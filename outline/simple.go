package outline

import (
	"fmt"

	"github.com/npillmayer/fontmesh/ot"
)

// Glyph headers start with the number of contours (negative for composite
// glyphs) and the glyph's bounding box.
const glyphHeaderSize = 10

// NumberOfContours returns the contour count from the header of glyph data.
// A negative count denotes a composite glyph. Empty glyph data has 0 contours.
func NumberOfContours(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if len(data) < glyphHeaderSize {
		return 0, fmt.Errorf("%w: glyph header needs %d bytes, have %d", ErrTruncated,
			glyphHeaderSize, len(data))
	}
	n, _ := ot.ReadI16(data, 0)
	return int(n), nil
}

// IsComposite is true if data holds a composite glyph description.
func IsComposite(data []byte) bool {
	n, err := NumberOfContours(data)
	return err == nil && n < 0
}

// DecodeSimple decodes the outline of a simple glyph from its raw 'glyf'
// data, as located by table 'loca'. Empty data yields an empty outline.
//
// The resulting outline holds every point explicitly: implied on-curve
// points between consecutive off-curve points are inserted into the
// contours. Hinting instructions are skipped.
func DecodeSimple(data []byte) (*Outline, error) {
	n, err := NumberOfContours(data)
	if err != nil {
		return nil, err
	}
	o := &Outline{}
	if n == 0 {
		return o, nil
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: composite glyph decoded as simple glyph", ErrMalformed)
	}
	o.XMin, _ = ot.ReadI16(data, 2)
	o.YMin, _ = ot.ReadI16(data, 4)
	o.XMax, _ = ot.ReadI16(data, 6)
	o.YMax, _ = ot.ReadI16(data, 8)
	pos := glyphHeaderSize
	ends := make([]int, n)
	for i := range ends {
		e, err := ot.ReadU16Move(data, &pos)
		if err != nil {
			return nil, fmt.Errorf("%w: end point of contour %d", ErrTruncated, i)
		}
		ends[i] = int(e)
		if i > 0 && ends[i] <= ends[i-1] {
			return nil, fmt.Errorf("%w: contour end points not ascending (%d after %d)",
				ErrMalformed, ends[i], ends[i-1])
		}
	}
	insLen, err := ot.ReadU16Move(data, &pos)
	if err != nil {
		return nil, fmt.Errorf("%w: instruction length", ErrTruncated)
	}
	if pos+int(insLen) > len(data) {
		return nil, fmt.Errorf("%w: %d bytes of instructions", ErrTruncated, insLen)
	}
	pos += int(insLen)
	numPoints := ends[n-1] + 1
	flags, err := readFlags(data, &pos, numPoints)
	if err != nil {
		return nil, err
	}
	xsize, ysize := streamSize(flags)
	if pos+xsize+ysize > len(data) {
		return nil, fmt.Errorf("%w: coordinates need %d bytes, have %d", ErrTruncated,
			xsize+ysize, len(data)-pos)
	}
	xs, err := decodeStream(data, &pos, flags, xKind)
	if err != nil {
		return nil, err
	}
	ys, err := decodeStream(data, &pos, flags, yKind)
	if err != nil {
		return nil, err
	}
	points := make([]Point, numPoints)
	for i := range points {
		points[i] = Point{X: float64(xs[i]), Y: float64(ys[i]), OnCurve: flags[i]&flagOnCurve != 0}
	}
	o.insertImpliedPoints(points, ends)
	tracer().Debugf("simple glyph: %d contours, %d points, %d implied", n, numPoints,
		len(o.Points)-numPoints)
	return o, nil
}

// decodeStream decodes one coordinate stream. Deltas accumulate from zero
// across all contours of the glyph.
func decodeStream(data []byte, pos *int, flags []byte, kind func(byte) coordKind) ([]int, error) {
	coords := make([]int, len(flags))
	v := 0
	for i, f := range flags {
		d, err := kind(f).decode(data, pos)
		if err != nil {
			return nil, fmt.Errorf("%w: coordinate of point %d", ErrTruncated, i)
		}
		v += d
		coords[i] = v
	}
	return coords, nil
}

// insertImpliedPoints copies the points contour by contour into o, inserting
// an on-curve point halfway between consecutive off-curve points. The last
// and the first point of a contour are consecutive as well.
func (o *Outline) insertImpliedPoints(points []Point, ends []int) {
	o.Points = make([]Point, 0, len(points)+len(points)/2)
	o.EndPoints = make([]int, len(ends))
	o.Synthetic = make([]int, len(ends))
	from := 0
	for c, end := range ends {
		contour := points[from : end+1]
		for i, p := range contour {
			o.Points = append(o.Points, p)
			next := contour[(i+1)%len(contour)]
			if !p.OnCurve && !next.OnCurve {
				o.Points = append(o.Points, Point{
					X:       (p.X + next.X) / 2,
					Y:       (p.Y + next.Y) / 2,
					OnCurve: true,
				})
				o.Synthetic[c]++
			}
		}
		o.EndPoints[c] = len(o.Points) - 1
		from = end + 1
	}
}
