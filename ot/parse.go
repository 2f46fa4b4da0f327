package ot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Code comments often will cite passages from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Checked arithmetic operations to prevent integer overflow

// checkedMulInt checks for overflow in multiplication of two integers
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if a < 0 && b < 0 && a < math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if (a < 0 && b > 0 && a < math.MinInt/b) || (a > 0 && b < 0 && b < math.MinInt/a) {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// ---------------------------------------------------------------------------

// MandatoryTables are the tables a font must contain to be compiled into meshes.
var MandatoryTables = []string{
	"head", "maxp", "loca", "glyf", "cmap", "hhea", "hmtx",
}

// Parse parses a TrueType font from a byte slice.
// An ot.Font needs ongoing access to the font's byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
//
// Parse fails with an error wrapping ErrFontLoad if the font cannot be used
// for mesh compilation at all. If mandatory tables are missing, the error
// additionally wraps one *MissingTableError per missing table.
func Parse(font []byte, opts ...ParseOption) (*Font, error) {
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	r := bytes.NewReader(font)
	h := FontHeader{}
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, errFontFormat(fmt.Sprintf("offset table: %v", err))
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.ScalerType, Tag(h.ScalerType).String())

	ec := &errorCollector{}
	switch h.ScalerType {
	case 0x00010000, 0x74727565: // TrueType, 'true'
	case 0x4f54544f: // OTTO
		return nil, errFontFormat("CFF outlines are not supported")
	default:
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.ScalerType))
	}
	otf := &Font{
		Header:       h,
		Directory:    newTableDirectory(int(h.TableCount)),
		tables:       make(map[Tag]Table),
		parseOptions: opts,
	}
	src := binarySegm(font)
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	tableRecordsSize, err := checkedMulInt(16, int(h.TableCount))
	if err != nil {
		return nil, errFontFormat(fmt.Sprintf("table count too large: %v", err))
	}
	buf, err := src.view(12, tableRecordsSize)
	if err != nil && h.TableCount > 0 {
		return nil, errFontFormat("table record entries exceed font data")
	}
	for b, prevTag := buf, Tag(0); len(b) >= 16; b = b[16:] {
		ft := FontTable{
			Tag:      MakeTag(b),
			Checksum: u32(b[4:8]),
			Offset:   u32(b[8:12]),
			Length:   u32(b[12:16]),
		}
		if ft.Tag < prevTag {
			ec.addWarning(ft.Tag, "table records not sorted by tag", 12)
		}
		prevTag = ft.Tag
		if ft.Offset&3 != 0 { // "all tables must begin on four byte boundries".
			ec.addWarning(ft.Tag, "table offset not 4-byte aligned", ft.Offset)
		}
		otf.Directory.add(ft)
	}
	if err := checkMandatoryTables(otf.Directory, ec); err != nil {
		return nil, err
	}
	for _, ft := range otf.Directory.entries {
		tableEnd, err := checkedAddUint32(ft.Offset, ft.Length)
		if err != nil || tableEnd > uint32(len(src)) {
			msg := fmt.Sprintf("bounds [%d:%d] exceed font size %d", ft.Offset, tableEnd, len(src))
			if isMandatory(ft.Tag) {
				ec.addError(ft.Tag, "Bounds", msg, SeverityCritical, ft.Offset)
				return nil, errFontFormat(fmt.Sprintf("table %s: %s", ft.Tag, msg))
			}
			ec.addWarning(ft.Tag, msg+", table ignored", ft.Offset)
			continue
		}
		t, err := parseTable(ft.Tag, src[ft.Offset:tableEnd], ft.Offset, ft.Length, ec)
		if err != nil {
			return nil, err
		}
		otf.tables[ft.Tag] = t
	}
	if err := resolveTableDependencies(otf, ec); err != nil {
		return nil, err
	}
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings
	tracer().Infof("parsed TrueType font: %d tables, %d glyphs, %d code points",
		otf.Directory.Len(), otf.NumGlyphs(), otf.CMap.Mappings())
	return otf, nil
}

func isMandatory(tag Tag) bool {
	for _, t := range MandatoryTables {
		if T(t) == tag {
			return true
		}
	}
	return false
}

// checkMandatoryTables reports every missing mandatory table separately.
func checkMandatoryTables(td *TableDirectory, ec *errorCollector) error {
	var missing []error
	for _, tag := range MandatoryTables {
		if td.FindTable(T(tag)).IsNone() {
			ec.addError(T(tag), "Missing", "missing mandatory table", SeverityCritical, 0)
			missing = append(missing, &MissingTableError{Table: T(tag)})
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrFontLoad, errors.Join(missing...))
}

// resolveTableDependencies sets up typed shortcuts to the tables and interprets
// all the data which depends on more than one table: loca needs head and maxp,
// hmtx needs hhea and maxp, the code point table needs maxp.
func resolveTableDependencies(otf *Font, ec *errorCollector) error {
	otf.Head = otf.tables[T("head")].Self().AsHead()
	otf.MaxP = otf.tables[T("maxp")].Self().AsMaxP()
	otf.HHea = otf.tables[T("hhea")].Self().AsHHea()
	otf.HMtx = otf.tables[T("hmtx")].Self().AsHMtx()
	otf.Loca = otf.tables[T("loca")].Self().AsLoca()
	otf.Glyf = otf.tables[T("glyf")].Self().AsGlyf()
	otf.CMap = otf.tables[T("cmap")].Self().AsCMap()
	numGlyphs := otf.MaxP.NumGlyphs

	// The number of glyphs in the font is restricted only by the value stated in 'maxp'.
	if err := validateCrossTableConsistency(otf, ec); err != nil {
		return err
	}
	_, glyfSize := otf.Glyf.Extent()
	if err := otf.Loca.decodeLocations(otf.Head.IndexToLocFormat, numGlyphs, glyfSize); err != nil {
		ec.addError(T("loca"), "Entries", err.Error(), SeverityCritical, otf.Loca.offset)
		return errFontFormat(err.Error())
	}
	nhm := otf.HHea.NumberOfHMetrics
	if nhm > numGlyphs {
		ec.addError(T("hhea"), "NumberOfHMetrics",
			fmt.Sprintf("value %d exceeds maxp.NumGlyphs %d", nhm, numGlyphs), SeverityMajor, 0)
		nhm = numGlyphs
	}
	truncated, err := otf.HMtx.parseAll(numGlyphs, nhm)
	if err != nil {
		ec.addError(T("hmtx"), "Metrics", err.Error(), SeverityCritical, otf.HMtx.offset)
		return errFontFormat(err.Error())
	}
	if truncated {
		ec.addWarning(T("hmtx"), "left side bearings truncated, missing values read as 0", otf.HMtx.offset)
	}
	otf.CMap.buildCodepointTable(numGlyphs, ec)
	return nil
}

// validateCrossTableConsistency performs cross-table validation to ensure
// internal consistency between related tables. Test fonts (option IsTestfont)
// skip the size checks.
func validateCrossTableConsistency(otf *Font, ec *errorCollector) error {
	numGlyphs := otf.MaxP.NumGlyphs
	if otf.hasOption(IsTestfont) {
		return nil
	}
	// hmtx contains NumberOfHMetrics longHorMetrics (4 bytes each); the
	// trailing bearings are checked leniently while decoding.
	longMetricsSize, err := checkedMulInt(min(otf.HHea.NumberOfHMetrics, numGlyphs), 4)
	if err != nil {
		ec.addError(T("hmtx"), "Size", fmt.Sprintf("longMetrics size overflow: %v", err), SeverityCritical, 0)
		return errFontFormat(fmt.Sprintf("hmtx longMetrics size overflow: %v", err))
	}
	if int(otf.HMtx.length) < longMetricsSize {
		ec.addError(T("hmtx"), "Size",
			fmt.Sprintf("table size %d insufficient for %d long metrics", otf.HMtx.length, otf.HHea.NumberOfHMetrics),
			SeverityCritical, 0)
		return errFontFormat(fmt.Sprintf("hmtx table size (%d) insufficient (need %d)",
			otf.HMtx.length, longMetricsSize))
	}
	// Validate head.IndexToLocFormat consistency with loca table
	entrySize := 2
	if otf.Head.IndexToLocFormat == LongLocaFormat {
		entrySize = 4
	}
	// The final entry may be omitted by broken fonts; we accept numGlyphs entries.
	expectedLocaSize, err := checkedMulInt(numGlyphs, entrySize)
	if err != nil {
		ec.addError(T("loca"), "Size", fmt.Sprintf("size calculation overflow: %v", err), SeverityCritical, 0)
		return errFontFormat(fmt.Sprintf("loca size calculation overflow: %v", err))
	}
	if int(otf.Loca.length) < expectedLocaSize {
		ec.addError(T("loca"), "Size", fmt.Sprintf("table size (%d) insufficient for %d glyphs (need %d)",
			otf.Loca.length, numGlyphs, expectedLocaSize), SeverityCritical, 0)
		return errFontFormat(fmt.Sprintf("loca table size (%d) insufficient for %d glyphs (need %d)",
			otf.Loca.length, numGlyphs, expectedLocaSize))
	}
	tracer().Debugf("cross-table validation: maxp.NumGlyphs = %d", numGlyphs)
	return nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size, ec)
	case T("glyf"):
		// Outlines are decoded glyph by glyph by package outline.
		return newGlyfTable(t, b, offset, size), nil
	case T("head"):
		return parseHead(t, b, offset, size, ec)
	case T("hhea"):
		return parseHHea(t, b, offset, size, ec)
	case T("hmtx"):
		return newHMtxTable(t, b, offset, size), nil
	case T("loca"):
		return newLocaTable(t, b, offset, size), nil
	case T("maxp"):
		return parseMaxP(t, b, offset, size, ec)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 54 {
		ec.addError(tag, "Size", fmt.Sprintf("head table too small: %d bytes (need 54)", size), SeverityCritical, offset)
		return nil, errFontFormat("size of head table")
	}
	t := newHeadTable(tag, b, offset, size)
	t.MagicNumber, _ = b.u32(12)
	if t.MagicNumber != 0x5F0F3CF5 {
		ec.addWarning(tag, fmt.Sprintf("bad magic number %#x", t.MagicNumber), offset+12)
	}
	t.Flags, _ = b.u16(16)      // flags
	t.UnitsPerEm, _ = b.u16(18) // units per em
	t.XMin, _ = b.i16(36)       // bounding box of all glyphs
	t.YMin, _ = b.i16(38)
	t.XMax, _ = b.i16(40)
	t.YMax, _ = b.i16(42)
	// IndexToLocFormat is needed to interpret the loca table:
	// 0 for short offsets, 1 for long
	t.IndexToLocFormat, _ = b.i16(50)
	if t.IndexToLocFormat != ShortLocaFormat && t.IndexToLocFormat != LongLocaFormat {
		ec.addError(tag, "IndexToLocFormat", fmt.Sprintf("invalid value: %d (must be 0 or 1)",
			t.IndexToLocFormat), SeverityCritical, offset+50)
		return nil, errFontFormat(fmt.Sprintf("invalid head.IndexToLocFormat: %d (must be 0 or 1)",
			t.IndexToLocFormat))
	}
	if t.XMin >= t.XMax || t.YMin >= t.YMax {
		ec.addWarning(tag, fmt.Sprintf("degenerate font bounding box (%d,%d)-(%d,%d)",
			t.XMin, t.YMin, t.XMax, t.YMax), offset+36)
	}
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with TrueType
// outlines must use Version 1.0 of this table, but we only need numGlyphs, which
// is present in Version 0.5 as well.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 6 {
		ec.addError(tag, "Size", fmt.Sprintf("maxp table too small: %d bytes (need 6)", size), SeverityCritical, offset)
		return nil, errFontFormat("size of maxp table")
	}
	t := newMaxPTable(tag, b, offset, size)
	n, _ := b.u16(4)
	t.NumGlyphs = int(n)
	return t, nil
}

// --- HHea table ------------------------------------------------------------

// This table contains information for horizontal layout. We need
// numberOfHMetrics to interpret table 'hmtx'.
func parseHHea(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	tracer().Debugf("HHea table has size %d", size)
	if size < 36 {
		ec.addError(tag, "Size", fmt.Sprintf("hhea table too small: %d bytes (need 36)", size), SeverityCritical, offset)
		return nil, errFontFormat("hhea table incomplete")
	}
	t := newHHeaTable(tag, b, offset, size)
	t.Ascender, _ = b.i16(4)
	t.Descender, _ = b.i16(6)
	t.LineGap, _ = b.i16(8)
	n, _ := b.u16(34)
	t.NumberOfHMetrics = int(n)
	return t, nil
}

// --- CMap table ------------------------------------------------------------

// This table defines mapping of character codes to a default glyph index. Different
// subtables may be defined that each contain mappings for different character encoding
// schemes. The table header indicates the character encodings for which subtables are
// present.
//
// We record every Unicode subtable of a supported format here. The subtables are
// expanded after all tables have been parsed, as we need to know the number of
// glyphs of the font. Subtables of other platforms or formats are skipped.
func parseCMap(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	n, err := b.u16(2) // number of sub-tables
	if err != nil {
		ec.addError(tag, "Header", "cmap header truncated", SeverityCritical, offset)
		return nil, errFontFormat("size of cmap table")
	}
	tracer().Debugf("font cmap has %d sub-tables in %d|%d bytes", n, len(b), size)
	t := newCMapTable(tag, b, offset, size)
	const headerSize, entrySize = 4, 8
	if _, err := b.view(headerSize, entrySize*int(n)); err != nil && n > 0 {
		ec.addError(tag, "Header", fmt.Sprintf("%d encoding records exceed table size %d", n, size),
			SeverityCritical, offset)
		return nil, errFontFormat("size of cmap table")
	}
	for i := 0; i < int(n); i++ {
		rec, _ := b.view(headerSize+entrySize*i, entrySize)
		pid, psid := u16(rec), u16(rec[2:])
		if !isUnicodeEncoding(pid, psid) {
			ec.addWarning(tag, fmt.Sprintf("sub-table %d (platform=%d, encoding=%d) skipped", i, pid, psid), offset)
			continue
		}
		suboffset := u32(rec[4:])
		format, err := b.u16(int(suboffset))
		if err != nil {
			ec.addWarning(tag, fmt.Sprintf("sub-table %d (platform=%d, encoding=%d) cannot be parsed", i, pid, psid), offset)
			continue
		}
		tracer().Debugf("cmap table contains subtable (%d|%d) with format %d", pid, psid, format)
		if !supportedCmapFormat(format) {
			ec.addWarning(tag, fmt.Sprintf("sub-table %d has unsupported format %d", i, format), offset+suboffset)
			continue
		}
		t.encodings = append(t.encodings, encodingRecord{
			platformId: pid,
			encodingId: psid,
			offset:     suboffset,
			format:     format,
		})
	}
	if len(t.encodings) == 0 {
		ec.addWarning(tag, "no supported Unicode sub-table, no code point will map to a glyph", offset)
	}
	return t, nil
}
