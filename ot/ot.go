package ot

import "fmt"

// Font represents the internal structure of a TrueType font, as far as it is
// needed to extract glyph geometry and horizontal metrics.
//
// Typed access to the geometry tables is provided by fields, which are
// guaranteed to be non-nil after a successful Parse. Any other table of the
// font is available as a generic table through Table(tag).
type Font struct {
	Header        FontHeader
	Directory     *TableDirectory
	Head          *HeadTable    // global extents and loca format
	MaxP          *MaxPTable    // number of glyphs
	HHea          *HHeaTable    // number of long horizontal metrics
	HMtx          *HMtxTable    // advance widths and side bearings
	Loca          *LocaTable    // the GlyphLocator
	Glyf          *GlyfTable    // outline data
	CMap          *CMapTable    // code point to glyph mapping
	tables        map[Tag]Table // every table of the font, interpreted or not
	parseErrors   []FontError   // Errors accumulated during parsing
	parseWarnings []FontWarning // Warnings accumulated during parsing
	parseOptions  []ParseOption // Options to guide the parsing process
}

// ParseOption guides and influences the parsing of the font.
type ParseOption int

const (
	// IsTestfont relaxes the cross-table size checks, which synthetic test
	// fonts often do not satisfy.
	IsTestfont ParseOption = iota
)

func (otf *Font) hasOption(opt ParseOption) bool {
	for _, o := range otf.parseOptions {
		if o == opt {
			return true
		}
	}
	return false
}

// FontHeader is the offset table at the start of a font file, followed
// by the table records.
//
// Fonts that contain TrueType outlines use the value of 0x00010000 for the
// ScalerType. Apple's specification allows for 'true' as well.
type FontHeader struct {
	ScalerType    uint32
	TableCount    uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Tables which are not needed for mesh compilation are returned as generic
// tables, giving access to their raw bytes only.
//
//	os2 := otf.Table(ot.T("OS/2")).Binary()
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in the order of the table directory.
func (otf *Font) TableTags() []Tag {
	return otf.Directory.Tags()
}

// NumGlyphs returns the number of glyphs as stated by table 'maxp'.
func (otf *Font) NumGlyphs() int {
	if otf == nil || otf.MaxP == nil {
		return 0
	}
	return otf.MaxP.NumGlyphs
}

// Errors returns all errors encountered during font parsing.
// These errors did not prevent parsing from completing.
func (otf *Font) Errors() []FontError {
	if otf.parseErrors == nil {
		return []FontError{}
	}
	return otf.parseErrors
}

// Warnings returns all warnings encountered during font parsing.
// Warnings indicate potential issues that are generally safe to ignore.
func (otf *Font) Warnings() []FontWarning {
	if otf.parseWarnings == nil {
		return []FontWarning{}
	}
	return otf.parseWarnings
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the OpenType specification as:
// Array of four uint8s (length = 32 bits) used to identify a table.
type Tag uint32

// MakeTag creates a Tag from 4 bytes.
// If b is shorter or longer, it will be silently extended or cut as appropriate.
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table directory -------------------------------------------------------

// FontTable is one entry of the table directory.
type FontTable struct {
	Tag      Tag
	Checksum uint32
	Offset   uint32
	Length   uint32
}

func (ft FontTable) String() string {
	return fmt.Sprintf("'%s' @%d[%d]", ft.Tag, ft.Offset, ft.Length)
}

// TableDirectory holds the table records of a font, keyed by tag.
// Tables unknown to this package are retained but never dereferenced.
type TableDirectory struct {
	entries []FontTable
	byTag   map[Tag]int
}

func newTableDirectory(n int) *TableDirectory {
	return &TableDirectory{
		entries: make([]FontTable, 0, n),
		byTag:   make(map[Tag]int, n),
	}
}

func (td *TableDirectory) add(ft FontTable) {
	td.byTag[ft.Tag] = len(td.entries)
	td.entries = append(td.entries, ft)
}

// FindTable looks up the table record for tag.
func (td *TableDirectory) FindTable(tag Tag) Option[FontTable] {
	if td == nil {
		return None[FontTable]()
	}
	if i, ok := td.byTag[tag]; ok {
		return Some(td.entries[i])
	}
	return None[FontTable]()
}

// Len returns the number of table records.
func (td *TableDirectory) Len() int {
	if td == nil {
		return 0
	}
	return len(td.entries)
}

// Tags returns the tags of all table records in directory order.
func (td *TableDirectory) Tags() []Tag {
	if td == nil {
		return nil
	}
	tags := make([]Tag, len(td.entries))
	for i, e := range td.entries {
		tags[i] = e.Tag
	}
	return tags
}

// Entries returns a copy of all table records in directory order.
func (td *TableDirectory) Entries() []FontTable {
	if td == nil {
		return nil
	}
	return append([]FontTable(nil), td.entries...)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the tables of a TrueType font.
//
// Mandatory tables for mesh compilation are
// 'cmap' (Character to glyph mapping), 'head' (Font header), 'hhea' (Horizontal header),
// 'hmtx' (Horizontal metrics), 'maxp' (Maximum profile),
// 'loca' (Index to location) and 'glyf' (Glyph data).
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treated as read-only by clients
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	},
	}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of font tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   any
}

func makeTableBase(tag Tag, b binarySegm, offset, size uint32) tableBase {
	return tableBase{data: b, name: tag, offset: offset, length: size}
}

// Extent returns offset and byte size of this table within the font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treated as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) any {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable {
	if k, ok := safeSelf(tself).(*CMapTable); ok {
		return k
	}
	return nil
}

// AsLoca returns this table as a loca table, or nil.
func (tself TableSelf) AsLoca() *LocaTable {
	if k, ok := safeSelf(tself).(*LocaTable); ok {
		return k
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if k, ok := safeSelf(tself).(*MaxPTable); ok {
		return k
	}
	return nil
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if k, ok := safeSelf(tself).(*HeadTable); ok {
		return k
	}
	return nil
}

// AsHHea returns this table as a hhea table, or nil.
func (tself TableSelf) AsHHea() *HHeaTable {
	if k, ok := safeSelf(tself).(*HHeaTable); ok {
		return k
	}
	return nil
}

// AsHMtx returns this table as a hmtx table, or nil.
func (tself TableSelf) AsHMtx() *HMtxTable {
	if k, ok := safeSelf(tself).(*HMtxTable); ok {
		return k
	}
	return nil
}

// AsGlyf returns this table as a glyf table, or nil.
func (tself TableSelf) AsGlyf() *GlyfTable {
	if k, ok := safeSelf(tself).(*GlyfTable); ok {
		return k
	}
	return nil
}

// --- Concrete table implementations ----------------------------------------

// HeadTable gives global information about the font.
// Only the fields needed for mesh compilation are made public.
type HeadTable struct {
	tableBase
	MagicNumber      uint32 // 0x5F0F3CF5
	Flags            uint16 // see https://docs.microsoft.com/en-us/typography/opentype/spec/head
	UnitsPerEm       uint16 // values 16 … 16384 are valid
	XMin, YMin       int16  // lower left corner of the bounding box of all glyphs
	XMax, YMax       int16  // upper right corner of the bounding box of all glyphs
	IndexToLocFormat int16  // needed to interpret loca table
}

func newHeadTable(tag Tag, b binarySegm, offset, size uint32) *HeadTable {
	t := &HeadTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// Extents returns the font-wide bounding box of all glyphs in font units.
func (t *HeadTable) Extents() (xmin, ymin, xmax, ymax int16) {
	return t.XMin, t.YMin, t.XMax, t.YMax
}

// MaxPTable establishes the memory requirements for this font.
// Only the number of glyphs is of interest here.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Ascender         int16
	Descender        int16
	LineGap          int16
	NumberOfHMetrics int
}

func newHHeaTable(tag Tag, b binarySegm, offset, size uint32) *HHeaTable {
	t := &HHeaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// GlyfTable holds the outline data of all glyphs. It is not interpreted by
// this package; clients locate a glyph's bytes with the LocaTable.
type GlyfTable struct {
	tableBase
}

func newGlyfTable(tag Tag, b binarySegm, offset, size uint32) *GlyfTable {
	t := &GlyfTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}
