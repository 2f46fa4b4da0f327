// Package fonttest builds small synthetic TrueType fonts for tests.
//
// The fonts contain exactly the tables needed for mesh compilation (head, maxp,
// hhea, hmtx, loca, glyf, cmap) and are written the way font editors write them,
// including flag repetition and short coordinate vectors, so that decoders are
// exercised on all encodings.
package fonttest

import (
	"encoding/binary"
	"math"
	"sort"
)

// Pt is a point of a glyph contour in font units.
type Pt struct {
	X, Y int16
	On   bool
}

// On returns an on-curve point.
func On(x, y int16) Pt { return Pt{X: x, Y: y, On: true} }

// Off returns an off-curve (control) point.
func Off(x, y int16) Pt { return Pt{X: x, Y: y} }

// Component is a reference to another glyph within a composite glyph.
type Component struct {
	Glyph  uint16
	DX, DY int16
	// Matrix holds a, b, c, d of the component transform. A zero matrix
	// means identity. Values are encoded as F2Dot14.
	Matrix [4]float64
	// PointMatching encodes DX and DY as point numbers instead of offsets.
	PointMatching bool
	// UseMyMetrics sets flag USE_MY_METRICS.
	UseMyMetrics bool
}

// Glyph is a glyph of a synthetic font. A glyph with components is a
// composite glyph, a glyph without contours and components is empty.
type Glyph struct {
	Contours     [][]Pt
	Components   []Component
	Instructions []byte
	Advance      uint16
	LSB          int16
	// Truncate cuts the encoded glyph data to the given number of bytes (if > 0),
	// while the glyph keeps its position in loca.
	Truncate int
}

// Font describes a synthetic font.
type Font struct {
	Glyphs []Glyph
	// CMap maps code points to glyphs with a (platform 0, encoding 3) format 4 subtable.
	// Code points beyond the BMP are ignored.
	CMap map[rune]uint16
	// CMap12 adds a (platform 3, encoding 10) format 12 subtable after the format 4 one.
	CMap12 map[rune]uint16
	// RangeOffsets encodes format 4 segments through the glyphIdArray instead of deltas.
	RangeOffsets bool
	// LongLoca selects loca format 1.
	LongLoca bool
	// NumberOfHMetrics overrides the count of long metrics (0 = all glyphs).
	NumberOfHMetrics int
	// BBox overrides the font bounding box {xmin, ymin, xmax, ymax}; zero value = computed.
	BBox [4]int16
	// Omit lists tables to leave out of the font.
	Omit []string
}

// Bytes serializes the font.
func (f *Font) Bytes() []byte {
	glyf, loca := f.glyfAndLoca()
	tables := map[string][]byte{
		"head": f.head(),
		"maxp": f.maxp(),
		"hhea": f.hhea(),
		"hmtx": f.hmtx(),
		"loca": loca,
		"glyf": glyf,
		"cmap": f.cmap(),
	}
	for _, t := range f.Omit {
		delete(tables, t)
	}
	return Assemble(tables)
}

// Assemble writes an offset table and table directory followed by the tables,
// sorted by tag and 4-byte aligned. Checksums are left zero.
func Assemble(tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	n := len(tags)
	dir := make([]byte, 12+16*n)
	binary.BigEndian.PutUint32(dir[0:], 0x00010000)
	binary.BigEndian.PutUint16(dir[4:], uint16(n))
	var body []byte
	for i, tag := range tags {
		data := tables[tag]
		rec := dir[12+16*i:]
		copy(rec[0:4], (tag + "    ")[:4])
		binary.BigEndian.PutUint32(rec[8:], uint32(len(dir)+len(body)))
		binary.BigEndian.PutUint32(rec[12:], uint32(len(data)))
		body = append(body, data...)
		for len(body)%4 != 0 {
			body = append(body, 0)
		}
	}
	return append(dir, body...)
}

// --- glyf / loca -------------------------------------------------------------

func (f *Font) glyfAndLoca() (glyf, loca []byte) {
	offsets := make([]int, 0, len(f.Glyphs)+1)
	for _, g := range f.Glyphs {
		offsets = append(offsets, len(glyf))
		data := encodeGlyph(g)
		if g.Truncate > 0 && g.Truncate < len(data) {
			data = data[:g.Truncate]
		}
		glyf = append(glyf, data...)
		for len(glyf)%4 != 0 {
			glyf = append(glyf, 0)
		}
	}
	offsets = append(offsets, len(glyf))
	for _, off := range offsets {
		if f.LongLoca {
			loca = binary.BigEndian.AppendUint32(loca, uint32(off))
		} else {
			loca = binary.BigEndian.AppendUint16(loca, uint16(off/2))
		}
	}
	return glyf, loca
}

func glyphBBox(g Glyph) (xmin, ymin, xmax, ymax int16) {
	first := true
	for _, c := range g.Contours {
		for _, p := range c {
			if first {
				xmin, ymin, xmax, ymax = p.X, p.Y, p.X, p.Y
				first = false
				continue
			}
			xmin, ymin = min(xmin, p.X), min(ymin, p.Y)
			xmax, ymax = max(xmax, p.X), max(ymax, p.Y)
		}
	}
	return
}

const (
	flagOnCurve = 0x01
	flagXShort  = 0x02
	flagYShort  = 0x04
	flagRepeat  = 0x08
	flagXSame   = 0x10
	flagYSame   = 0x20
)

// EncodeGlyph returns the 'glyf' data of a single glyph, unpadded and
// without applying Truncate.
func EncodeGlyph(g Glyph) []byte {
	return encodeGlyph(g)
}

func encodeGlyph(g Glyph) []byte {
	if len(g.Components) > 0 {
		return encodeComposite(g)
	}
	if len(g.Contours) == 0 {
		return nil
	}
	var b []byte
	b = binary.BigEndian.AppendUint16(b, uint16(len(g.Contours)))
	xmin, ymin, xmax, ymax := glyphBBox(g)
	for _, v := range []int16{xmin, ymin, xmax, ymax} {
		b = binary.BigEndian.AppendUint16(b, uint16(v))
	}
	var points []Pt
	for _, c := range g.Contours {
		points = append(points, c...)
		b = binary.BigEndian.AppendUint16(b, uint16(len(points)-1))
	}
	b = binary.BigEndian.AppendUint16(b, uint16(len(g.Instructions)))
	b = append(b, g.Instructions...)
	flags := make([]byte, len(points))
	var xs, ys []byte
	var px, py int16
	for i, p := range points {
		var fl byte
		if p.On {
			fl |= flagOnCurve
		}
		fl, xs = encodeCoord(fl, p.X-px, xs, flagXShort, flagXSame)
		fl, ys = encodeCoord(fl, p.Y-py, ys, flagYShort, flagYSame)
		flags[i] = fl
		px, py = p.X, p.Y
	}
	// run-length encode flags
	for i := 0; i < len(flags); {
		j := i + 1
		for j < len(flags) && flags[j] == flags[i] && j-i < 256 {
			j++
		}
		if run := j - i; run > 2 {
			b = append(b, flags[i]|flagRepeat, byte(run-1))
		} else {
			b = append(b, flags[i:j]...)
		}
		i = j
	}
	b = append(b, xs...)
	return append(b, ys...)
}

func encodeCoord(fl byte, d int16, buf []byte, short, same byte) (byte, []byte) {
	switch {
	case d == 0:
		return fl | same, buf
	case d > 0 && d < 256:
		return fl | short | same, append(buf, byte(d)) // same bit = positive
	case d < 0 && d > -256:
		return fl | short, append(buf, byte(-d))
	}
	return fl, binary.BigEndian.AppendUint16(buf, uint16(d))
}

const (
	compArgsAreWords   = 0x0001
	compArgsAreXY      = 0x0002
	compHaveScale      = 0x0008
	compMoreComponents = 0x0020
	compXYScale        = 0x0040
	compTwoByTwo       = 0x0080
	compUseMyMetrics   = 0x0200
)

func f2dot14(v float64) uint16 {
	return uint16(int16(math.Round(v * 16384)))
}

func encodeComposite(g Glyph) []byte {
	var b []byte
	b = binary.BigEndian.AppendUint16(b, 0xFFFF) // numberOfContours = -1
	b = append(b, make([]byte, 8)...)            // bounding box, unused by tests
	for i, c := range g.Components {
		flags := uint16(compArgsAreWords)
		if !c.PointMatching {
			flags |= compArgsAreXY
		}
		if i < len(g.Components)-1 {
			flags |= compMoreComponents
		}
		if c.UseMyMetrics {
			flags |= compUseMyMetrics
		}
		m := c.Matrix
		switch {
		case m == [4]float64{}:
		case m[1] == 0 && m[2] == 0 && m[0] == m[3]:
			flags |= compHaveScale
		case m[1] == 0 && m[2] == 0:
			flags |= compXYScale
		default:
			flags |= compTwoByTwo
		}
		b = binary.BigEndian.AppendUint16(b, flags)
		b = binary.BigEndian.AppendUint16(b, c.Glyph)
		b = binary.BigEndian.AppendUint16(b, uint16(c.DX))
		b = binary.BigEndian.AppendUint16(b, uint16(c.DY))
		switch {
		case flags&compHaveScale != 0:
			b = binary.BigEndian.AppendUint16(b, f2dot14(m[0]))
		case flags&compXYScale != 0:
			b = binary.BigEndian.AppendUint16(b, f2dot14(m[0]))
			b = binary.BigEndian.AppendUint16(b, f2dot14(m[3]))
		case flags&compTwoByTwo != 0:
			for _, v := range m {
				b = binary.BigEndian.AppendUint16(b, f2dot14(v))
			}
		}
	}
	return b
}

// --- metric tables -----------------------------------------------------------

func (f *Font) bbox() [4]int16 {
	if f.BBox != [4]int16{} {
		return f.BBox
	}
	var bb [4]int16
	first := true
	for _, g := range f.Glyphs {
		if len(g.Contours) == 0 {
			continue
		}
		xmin, ymin, xmax, ymax := glyphBBox(g)
		if first {
			bb = [4]int16{xmin, ymin, xmax, ymax}
			first = false
			continue
		}
		bb = [4]int16{min(bb[0], xmin), min(bb[1], ymin), max(bb[2], xmax), max(bb[3], ymax)}
	}
	return bb
}

func (f *Font) head() []byte {
	b := make([]byte, 54)
	binary.BigEndian.PutUint32(b[0:], 0x00010000)
	binary.BigEndian.PutUint32(b[12:], 0x5F0F3CF5)
	binary.BigEndian.PutUint16(b[18:], 1000)
	for i, v := range f.bbox() {
		binary.BigEndian.PutUint16(b[36+2*i:], uint16(v))
	}
	if f.LongLoca {
		binary.BigEndian.PutUint16(b[50:], 1)
	}
	return b
}

func (f *Font) maxp() []byte {
	b := make([]byte, 6)
	binary.BigEndian.PutUint32(b[0:], 0x00005000)
	binary.BigEndian.PutUint16(b[4:], uint16(len(f.Glyphs)))
	return b
}

func (f *Font) numberOfHMetrics() int {
	if f.NumberOfHMetrics > 0 {
		return f.NumberOfHMetrics
	}
	return len(f.Glyphs)
}

func (f *Font) hhea() []byte {
	b := make([]byte, 36)
	binary.BigEndian.PutUint32(b[0:], 0x00010000)
	binary.BigEndian.PutUint16(b[4:], 800)
	binary.BigEndian.PutUint16(b[6:], uint16(0xFFFF-200+1)) // -200
	binary.BigEndian.PutUint16(b[34:], uint16(f.numberOfHMetrics()))
	return b
}

func (f *Font) hmtx() []byte {
	var b []byte
	n := f.numberOfHMetrics()
	for i, g := range f.Glyphs {
		if i < n {
			b = binary.BigEndian.AppendUint16(b, g.Advance)
		}
		b = binary.BigEndian.AppendUint16(b, uint16(g.LSB))
	}
	return b
}

// --- cmap --------------------------------------------------------------------

type segment struct {
	start, end uint16
	glyphs     []uint16
}

func segments(m map[rune]uint16) []segment {
	cps := make([]int, 0, len(m))
	for r := range m {
		if r <= 0xFFFE {
			cps = append(cps, int(r))
		}
	}
	sort.Ints(cps)
	var segs []segment
	for _, cp := range cps {
		g := m[rune(cp)]
		if n := len(segs); n > 0 && int(segs[n-1].end)+1 == cp {
			segs[n-1].end = uint16(cp)
			segs[n-1].glyphs = append(segs[n-1].glyphs, g)
			continue
		}
		segs = append(segs, segment{start: uint16(cp), end: uint16(cp), glyphs: []uint16{g}})
	}
	return append(segs, segment{start: 0xFFFF, end: 0xFFFF, glyphs: []uint16{0}})
}

func (f *Font) format4() []byte {
	segs := segments(f.CMap)
	n := len(segs)
	var ends, starts, deltas, ros, glyphIds []byte
	for i, s := range segs {
		ends = binary.BigEndian.AppendUint16(ends, s.end)
		starts = binary.BigEndian.AppendUint16(starts, s.start)
		consecutive := true
		for j, g := range s.glyphs {
			if g != s.glyphs[0]+uint16(j) {
				consecutive = false
			}
		}
		if s.start == 0xFFFF || (consecutive && !f.RangeOffsets) {
			deltas = binary.BigEndian.AppendUint16(deltas, s.glyphs[0]-s.start)
			ros = binary.BigEndian.AppendUint16(ros, 0)
			continue
		}
		// offset from this idRangeOffset entry to the segment's first glyphIdArray entry
		ro := 2*(n-i) + len(glyphIds)
		deltas = binary.BigEndian.AppendUint16(deltas, 0)
		ros = binary.BigEndian.AppendUint16(ros, uint16(ro))
		for _, g := range s.glyphs {
			glyphIds = binary.BigEndian.AppendUint16(glyphIds, g)
		}
	}
	b := make([]byte, 14)
	binary.BigEndian.PutUint16(b[0:], 4)
	binary.BigEndian.PutUint16(b[6:], uint16(2*n))
	b = append(b, ends...)
	b = append(b, 0, 0) // reservedPad
	b = append(b, starts...)
	b = append(b, deltas...)
	b = append(b, ros...)
	b = append(b, glyphIds...)
	binary.BigEndian.PutUint16(b[2:], uint16(len(b)))
	return b
}

func (f *Font) format12() []byte {
	cps := make([]int, 0, len(f.CMap12))
	for r := range f.CMap12 {
		cps = append(cps, int(r))
	}
	sort.Ints(cps)
	var groups []byte
	count := 0
	for i := 0; i < len(cps); {
		j := i + 1
		for j < len(cps) && cps[j] == cps[j-1]+1 && f.CMap12[rune(cps[j])] == f.CMap12[rune(cps[j-1])]+1 {
			j++
		}
		groups = binary.BigEndian.AppendUint32(groups, uint32(cps[i]))
		groups = binary.BigEndian.AppendUint32(groups, uint32(cps[j-1]))
		groups = binary.BigEndian.AppendUint32(groups, uint32(f.CMap12[rune(cps[i])]))
		count++
		i = j
	}
	b := make([]byte, 16)
	binary.BigEndian.PutUint16(b[0:], 12)
	binary.BigEndian.PutUint32(b[4:], uint32(16+len(groups)))
	binary.BigEndian.PutUint32(b[12:], uint32(count))
	return append(b, groups...)
}

func (f *Font) cmap() []byte {
	subtables := [][]byte{f.format4()}
	ids := [][2]uint16{{0, 3}}
	if len(f.CMap12) > 0 {
		subtables = append(subtables, f.format12())
		ids = append(ids, [2]uint16{3, 10})
	}
	b := make([]byte, 4+8*len(subtables))
	binary.BigEndian.PutUint16(b[2:], uint16(len(subtables)))
	for i, sub := range subtables {
		rec := b[4+8*i:]
		binary.BigEndian.PutUint16(rec[0:], ids[i][0])
		binary.BigEndian.PutUint16(rec[2:], ids[i][1])
		binary.BigEndian.PutUint32(rec[4:], uint32(len(b)))
		b = append(b, sub...)
	}
	return b
}
