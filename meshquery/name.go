package meshquery

import (
	"fmt"
	"iter"

	"github.com/npillmayer/fontmesh/ot"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

// PlatformID is the platform of a name record.
type PlatformID uint16

const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1 // not supported
	PlatformIDWindows   PlatformID = 3
)

// EncodingID is the platform specific encoding of a name record.
type EncodingID uint16

const (
	EncodingIDWindowsSymbol EncodingID = 0 // not supported
	EncodingIDWindowsBMP    EncodingID = 1
	EncodingIDUnicodeBMP    EncodingID = 3
)

// nameRecord is an entry of table 'name'.
type nameRecord struct {
	platform PlatformID
	encoding EncodingID
	name     sfnt.NameID
	length   int
	offset   int
}

func (rec nameRecord) supported() bool {
	return (rec.platform == PlatformIDUnicode && rec.encoding == EncodingIDUnicodeBMP) ||
		(rec.platform == PlatformIDWindows && rec.encoding == EncodingIDWindowsBMP)
}

// NamesRange yields decoded (nameID, value) pairs of a font's table 'name'.
//
// Only records with UTF-16 encoding (Unicode BMP and Windows BMP) are yielded.
// Malformed records are skipped.
func NamesRange(otf *ot.Font) iter.Seq2[sfnt.NameID, string] {
	b := tableBytes(otf, "name")
	return func(yield func(sfnt.NameID, string) bool) {
		if len(b) < nameHeaderSize {
			return
		}
		count, _ := ot.ReadU16(b, 2)
		storage, _ := ot.ReadU16(b, 4)
		for i := range int(count) {
			rec, err := readNameRecord(b, nameHeaderSize+i*nameRecordSize)
			if err != nil {
				tracer().Debugf("table name: record %d: %v", i, err)
				return
			}
			if !rec.supported() {
				continue
			}
			start := int(storage) + rec.offset
			if start+rec.length > len(b) {
				continue
			}
			value, err := decodeUTF16(b[start : start+rec.length])
			if err != nil || value == "" {
				continue
			}
			if !yield(rec.name, value) {
				return
			}
		}
	}
}

func readNameRecord(b []byte, pos int) (rec nameRecord, err error) {
	var fields [6]uint16
	for i := range fields {
		if fields[i], err = ot.ReadU16Move(b, &pos); err != nil {
			return
		}
	}
	rec.platform = PlatformID(fields[0])
	rec.encoding = EncodingID(fields[1])
	// fields[2] is the language, which is ignored
	rec.name = sfnt.NameID(fields[3])
	rec.length = int(fields[4])
	rec.offset = int(fields[5])
	return
}

func decodeUTF16(str []byte) (string, error) {
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	s, err := dec.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16: %w", err)
	}
	return string(s), nil
}

// FamilyName extracts family and subfamily names from a font's table 'name'.
// Values are empty if no decodable records exist.
func FamilyName(otf *ot.Font) (family, subfamily string) {
	for id, value := range NamesRange(otf) {
		switch {
		case id == sfnt.NameIDFamily && family == "":
			family = value
		case id == sfnt.NameIDSubfamily && subfamily == "":
			subfamily = value
		}
	}
	return
}

// FullName returns the full name of a font, or an empty string.
func FullName(otf *ot.Font) string {
	for id, value := range NamesRange(otf) {
		if id == sfnt.NameIDFull {
			return value
		}
	}
	return ""
}
