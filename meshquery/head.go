package meshquery

import (
	"github.com/npillmayer/fontmesh/ot"
)

// HeadTableInfo is a typed view of table 'head'.
type HeadTableInfo struct {
	MajorVersion       uint16
	MinorVersion       uint16
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64 // seconds since 1904-01-01
	Modified           int64
	XMin, YMin         int16
	XMax, YMax         int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}

// HeadInfo decodes table 'head'. It returns false if the table is missing or
// too short.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	b := tableBytes(otf, "head")
	if b == nil {
		return info, false
	}
	r := &reader{b: b}
	info.MajorVersion = r.u16()
	info.MinorVersion = r.u16()
	info.FontRevision = r.u32()
	info.CheckSumAdjustment = r.u32()
	info.MagicNumber = r.u32()
	info.Flags = r.u16()
	info.UnitsPerEm = r.u16()
	info.Created = r.i64()
	info.Modified = r.i64()
	info.XMin, info.YMin = r.i16(), r.i16()
	info.XMax, info.YMax = r.i16(), r.i16()
	info.MacStyle = r.u16()
	info.LowestRecPPEM = r.u16()
	info.FontDirectionHint = r.i16()
	info.IndexToLocFormat = r.i16()
	info.GlyphDataFormat = r.i16()
	if r.err != nil {
		tracer().Debugf("table head: %v", r.err)
		return HeadTableInfo{}, false
	}
	return info, true
}

// MaxPTableInfo is a typed view of table 'maxp'. Fields of the TrueType
// profile are decoded for tables of version 1.0.
type MaxPTableInfo struct {
	VersionFixed uint32
	NumGlyphs    uint16

	// TrueType profile
	HasExtendedProfile    bool
	MaxPoints             uint16
	MaxContours           uint16
	MaxCompositePoints    uint16
	MaxCompositeContours  uint16
	MaxZones              uint16
	MaxTwilightPoints     uint16
	MaxStorage            uint16
	MaxFunctionDefs       uint16
	MaxInstructionDefs    uint16
	MaxStackElements      uint16
	MaxSizeOfInstructions uint16
	MaxComponentElements  uint16
	MaxComponentDepth     uint16
}

// MaxPInfo decodes table 'maxp'. It returns false if the table is missing or
// too short.
func MaxPInfo(otf *ot.Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	b := tableBytes(otf, "maxp")
	if b == nil {
		return info, false
	}
	r := &reader{b: b}
	info.VersionFixed = r.u32()
	info.NumGlyphs = r.u16()
	if r.err != nil {
		return MaxPTableInfo{}, false
	}
	if info.VersionFixed != 0x00010000 {
		return info, true
	}
	profile := []*uint16{
		&info.MaxPoints, &info.MaxContours, &info.MaxCompositePoints, &info.MaxCompositeContours,
		&info.MaxZones, &info.MaxTwilightPoints, &info.MaxStorage, &info.MaxFunctionDefs,
		&info.MaxInstructionDefs, &info.MaxStackElements, &info.MaxSizeOfInstructions,
		&info.MaxComponentElements, &info.MaxComponentDepth,
	}
	for _, field := range profile {
		*field = r.u16()
	}
	if r.err != nil {
		tracer().Debugf("table maxp: truncated TrueType profile")
		return MaxPTableInfo{VersionFixed: info.VersionFixed, NumGlyphs: info.NumGlyphs}, true
	}
	info.HasExtendedProfile = true
	return info, true
}

// HHeaTableInfo is a typed view of table 'hhea'.
type HHeaTableInfo struct {
	Ascender, Descender, LineGap int16
	AdvanceWidthMax              uint16
	MinLeftSideBearing           int16
	MinRightSideBearing          int16
	XMaxExtent                   int16
	CaretSlopeRise               int16
	CaretSlopeRun                int16
	NumberOfHMetrics             uint16
}

// HHeaInfo decodes table 'hhea'. It returns false if the table is missing or
// too short.
func HHeaInfo(otf *ot.Font) (HHeaTableInfo, bool) {
	var info HHeaTableInfo
	b := tableBytes(otf, "hhea")
	if b == nil {
		return info, false
	}
	r := &reader{b: b, pos: 4}
	info.Ascender, info.Descender, info.LineGap = r.i16(), r.i16(), r.i16()
	info.AdvanceWidthMax = r.u16()
	info.MinLeftSideBearing, info.MinRightSideBearing = r.i16(), r.i16()
	info.XMaxExtent = r.i16()
	info.CaretSlopeRise, info.CaretSlopeRun = r.i16(), r.i16()
	r.pos = 34
	info.NumberOfHMetrics = r.u16()
	if r.err != nil {
		return HHeaTableInfo{}, false
	}
	return info, true
}

// --- Reading ---------------------------------------------------------------

func tableBytes(otf *ot.Font, tag string) []byte {
	if otf == nil {
		return nil
	}
	table := otf.Table(ot.T(tag))
	if table == nil {
		return nil
	}
	return table.Binary()
}

// reader reads big-endian values in sequence. After the first error all reads
// return zero.
type reader struct {
	b   []byte
	pos int
	err error
}

func (r *reader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	var v uint16
	v, r.err = ot.ReadU16Move(r.b, &r.pos)
	return v
}

func (r *reader) i16() int16 {
	return int16(r.u16())
}

func (r *reader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	var v uint32
	v, r.err = ot.ReadU32Move(r.b, &r.pos)
	return v
}

func (r *reader) i64() int64 {
	hi := r.u32()
	lo := r.u32()
	return int64(uint64(hi)<<32 | uint64(lo))
}
