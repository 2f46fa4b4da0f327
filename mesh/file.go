package mesh

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Binary mesh files are little-endian:
//
//	header      magic 'FMSH', version, flags, glyph/vertex/triangle counts, extent
//	glyphs      one fixed-size record per glyph
//	vertices    packed [4]float32 records, two vertices each
//	triangles   three uint32 indices, tag, padding

const fileMagic = "FMSH"

const fileVersion = 1

const flagNormalized = 0x0001

// ErrFileFormat is returned when reading an invalid mesh file.
var ErrFileFormat = errors.New("invalid mesh file")

type fileHeader struct {
	Magic        [4]byte
	Version      uint16
	Flags        uint16
	NumGlyphs    uint32
	NumVertices  uint32
	NumTriangles uint32
	Extent       [4]float32
}

type glyphEntry struct {
	Composite     uint8
	_             uint8
	Advance       uint16
	LSB           int16
	_             uint16
	VertexStart   uint32
	VertexCount   uint32
	TriangleStart uint32
	TriangleCount uint32
	Extent        [4]float32
}

type triangleEntry struct {
	I   [3]uint32
	Tag uint8
	_   [3]uint8
}

// File is the content of a binary mesh file.
type File struct {
	Normalized bool
	Extent     Extent // font bounding box in font units
	Arena      *Arena
}

// WriteTo writes f in binary format.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}
	a := f.Arena
	h := fileHeader{
		Version:      fileVersion,
		NumGlyphs:    uint32(len(a.Glyphs)),
		NumVertices:  uint32(len(a.Vertices)),
		NumTriangles: uint32(len(a.Triangles)),
		Extent:       packExtent(f.Extent),
	}
	copy(h.Magic[:], fileMagic)
	if f.Normalized {
		h.Flags |= flagNormalized
	}
	if err := binary.Write(cw, binary.LittleEndian, &h); err != nil {
		return cw.n, err
	}
	glyphs := make([]glyphEntry, len(a.Glyphs))
	for i, r := range a.Glyphs {
		g := &glyphs[i]
		if r.IsComposite {
			g.Composite = 1
		}
		g.Advance, g.LSB = r.AdvanceWidth, r.LeftSideBearing
		g.VertexStart, g.VertexCount = uint32(r.VertexStart), uint32(r.VertexCount)
		g.TriangleStart, g.TriangleCount = uint32(r.TriangleStart), uint32(r.TriangleCount)
		g.Extent = packExtent(Extent{Min: r.MinExtent, Max: r.MaxExtent})
	}
	if err := binary.Write(cw, binary.LittleEndian, glyphs); err != nil {
		return cw.n, err
	}
	if err := binary.Write(cw, binary.LittleEndian, Pack(a.Vertices)); err != nil {
		return cw.n, err
	}
	tris := make([]triangleEntry, len(a.Triangles))
	for i, t := range a.Triangles {
		tris[i] = triangleEntry{I: [3]uint32{t.I0, t.I1, t.I2}, Tag: uint8(t.Tag)}
	}
	if err := binary.Write(cw, binary.LittleEndian, tris); err != nil {
		return cw.n, err
	}
	return cw.n, bw.Flush()
}

// ReadFile reads a binary mesh file. Vertices are restored with float32
// precision.
func ReadFile(r io.Reader) (*File, error) {
	r = bufio.NewReader(r)
	var h fileHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrFileFormat, err)
	}
	if string(h.Magic[:]) != fileMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFileFormat, h.Magic[:])
	}
	if h.Version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFileFormat, h.Version)
	}
	f := &File{
		Normalized: h.Flags&flagNormalized != 0,
		Extent:     unpackExtent(h.Extent),
		Arena:      NewArena(int(h.NumGlyphs)),
	}
	glyphs := make([]glyphEntry, h.NumGlyphs)
	if err := binary.Read(r, binary.LittleEndian, glyphs); err != nil {
		return nil, fmt.Errorf("%w: glyph records: %w", ErrFileFormat, err)
	}
	for _, g := range glyphs {
		ext := unpackExtent(g.Extent)
		f.Arena.Glyphs = append(f.Arena.Glyphs, GlyphRecord{
			IsComposite:     g.Composite != 0,
			VertexStart:     int(g.VertexStart),
			VertexCount:     int(g.VertexCount),
			TriangleStart:   int(g.TriangleStart),
			TriangleCount:   int(g.TriangleCount),
			AdvanceWidth:    g.Advance,
			LeftSideBearing: g.LSB,
			MinExtent:       ext.Min,
			MaxExtent:       ext.Max,
		})
	}
	packed := make([][4]float32, (h.NumVertices+1)/2)
	if err := binary.Read(r, binary.LittleEndian, packed); err != nil {
		return nil, fmt.Errorf("%w: vertices: %w", ErrFileFormat, err)
	}
	f.Arena.Vertices = make([]Vertex, h.NumVertices)
	for i := range f.Arena.Vertices {
		f.Arena.Vertices[i] = Unpack(packed, i)
	}
	tris := make([]triangleEntry, h.NumTriangles)
	if err := binary.Read(r, binary.LittleEndian, tris); err != nil {
		return nil, fmt.Errorf("%w: triangles: %w", ErrFileFormat, err)
	}
	f.Arena.Triangles = make([]Triangle, len(tris))
	for i, t := range tris {
		f.Arena.Triangles[i] = Triangle{I0: t.I[0], I1: t.I[1], I2: t.I[2], Tag: CurvatureTag(t.Tag)}
	}
	if err := f.Arena.CheckRanges(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileFormat, err)
	}
	return f, nil
}

func packExtent(e Extent) [4]float32 {
	return [4]float32{float32(e.Min.X), float32(e.Min.Y), float32(e.Max.X), float32(e.Max.Y)}
}

func unpackExtent(e [4]float32) Extent {
	return Extent{
		Min: Vertex{X: float64(e[0]), Y: float64(e[1])},
		Max: Vertex{X: float64(e[2]), Y: float64(e[3])},
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
