package outline

import (
	"fmt"

	"github.com/npillmayer/fontmesh/ot"
)

// Simple glyph flags, see
// https://docs.microsoft.com/en-us/typography/opentype/spec/glyf#simple-glyph-description
const (
	flagOnCurve  byte = 0x01
	flagXShort   byte = 0x02 // x delta is 1 byte, magnitude only
	flagYShort   byte = 0x04 // y delta is 1 byte, magnitude only
	flagRepeat   byte = 0x08 // next byte is the number of additional repetitions
	flagXSamePos byte = 0x10 // x: if short, positive sign; else same as previous
	flagYSamePos byte = 0x20 // y: if short, positive sign; else same as previous
	flagOverlap  byte = 0x40 // contours may overlap, ignored
)

// coordKind tells how one coordinate delta of a point is encoded. It is
// derived from the point's flags by the short and same-or-positive bits
// of the respective axis.
//
//	short  same   kind
//	  0      1    coordSame       no bytes, delta is 0
//	  1      1    coordShortPos   1 byte, positive
//	  1      0    coordShortNeg   1 byte, negative
//	  0      0    coordLong       2 bytes, signed
type coordKind uint8

const (
	coordSame coordKind = iota
	coordShortPos
	coordShortNeg
	coordLong
)

func (k coordKind) String() string {
	switch k {
	case coordSame:
		return "same"
	case coordShortPos:
		return "+short"
	case coordShortNeg:
		return "-short"
	}
	return "long"
}

// xKind is the encoding of the x delta for flag f.
func xKind(f byte) coordKind {
	return kindOf(f&flagXShort != 0, f&flagXSamePos != 0)
}

// yKind is the encoding of the y delta for flag f.
func yKind(f byte) coordKind {
	return kindOf(f&flagYShort != 0, f&flagYSamePos != 0)
}

func kindOf(short, samePos bool) coordKind {
	switch {
	case short && samePos:
		return coordShortPos
	case short:
		return coordShortNeg
	case samePos:
		return coordSame
	}
	return coordLong
}

// size is the number of bytes a delta of kind k occupies in the coordinate stream.
func (k coordKind) size() int {
	switch k {
	case coordSame:
		return 0
	case coordLong:
		return 2
	}
	return 1
}

// decode reads a delta of kind k from buf at *pos and advances *pos.
func (k coordKind) decode(buf []byte, pos *int) (int, error) {
	switch k {
	case coordSame:
		return 0, nil
	case coordShortPos, coordShortNeg:
		v, err := ot.ReadU8Move(buf, pos)
		if err != nil {
			return 0, err
		}
		if k == coordShortNeg {
			return -int(v), nil
		}
		return int(v), nil
	}
	v, err := ot.ReadI16Move(buf, pos)
	return int(v), err
}

// readFlags reads n point flags starting at *pos, expanding repetitions.
func readFlags(buf []byte, pos *int, n int) ([]byte, error) {
	flags := make([]byte, 0, n)
	for len(flags) < n {
		f, err := ot.ReadU8Move(buf, pos)
		if err != nil {
			return nil, fmt.Errorf("%w: flag %d of %d", ErrTruncated, len(flags), n)
		}
		flags = append(flags, f)
		if f&flagRepeat == 0 {
			continue
		}
		count, err := ot.ReadU8Move(buf, pos)
		if err != nil {
			return nil, fmt.Errorf("%w: repeat count of flag %d", ErrTruncated, len(flags)-1)
		}
		if len(flags)+int(count) > n {
			return nil, fmt.Errorf("%w: flag repetition exceeds point count %d", ErrMalformed, n)
		}
		for ; count > 0; count-- {
			flags = append(flags, f)
		}
	}
	return flags, nil
}

// streamSize returns the number of bytes the x and y coordinate streams
// occupy for the given flags.
func streamSize(flags []byte) (xsize, ysize int) {
	for _, f := range flags {
		xsize += xKind(f).size()
		ysize += yKind(f).size()
	}
	return
}
