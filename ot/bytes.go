package ot

import (
	"errors"
	"fmt"
)

// Reading bytes from a font's binary representation.
//
// All multi-byte values in a TrueType file are stored big-endian. Decoding
// is done with shifts on individual bytes, so the result does not depend on
// the byte order of the host.

// ErrBufferBounds is returned whenever a read would access bytes outside of
// the font's data. The font is corrupt or truncated.
var ErrBufferBounds = errors.New("font data: read beyond buffer bounds")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

func boundsError(offset, width, size int) error {
	return fmt.Errorf("%w: %d bytes at offset %d, buffer size %d", ErrBufferBounds, width, offset, size)
}

// --- Stateless readers -----------------------------------------------------

// ReadU8 reads an unsigned byte at offset.
func ReadU8(buf []byte, offset int) (uint8, error) {
	if offset < 0 || offset >= len(buf) {
		return 0, boundsError(offset, 1, len(buf))
	}
	return buf[offset], nil
}

// ReadI8 reads a signed byte at offset.
func ReadI8(buf []byte, offset int) (int8, error) {
	b, err := ReadU8(buf, offset)
	return int8(b), err
}

// ReadU16 reads a big-endian uint16 at offset.
func ReadU16(buf []byte, offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(buf) {
		return 0, boundsError(offset, 2, len(buf))
	}
	return u16(buf[offset:]), nil
}

// ReadI16 reads a big-endian int16 at offset.
func ReadI16(buf []byte, offset int) (int16, error) {
	n, err := ReadU16(buf, offset)
	return int16(n), err
}

// ReadU32 reads a big-endian uint32 at offset.
func ReadU32(buf []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(buf) {
		return 0, boundsError(offset, 4, len(buf))
	}
	return u32(buf[offset:]), nil
}

// ReadI32 reads a big-endian int32 at offset.
func ReadI32(buf []byte, offset int) (int32, error) {
	n, err := ReadU32(buf, offset)
	return int32(n), err
}

// --- Readers advancing an offset -------------------------------------------

// move calls read and advances offset by width if the read succeeded.
// On error, offset is left untouched.
func move[T any](read func([]byte, int) (T, error), buf []byte, offset *int, width int) (T, error) {
	v, err := read(buf, *offset)
	if err == nil {
		*offset += width
	}
	return v, err
}

// ReadU8Move reads an unsigned byte at *offset and advances *offset by 1.
func ReadU8Move(buf []byte, offset *int) (uint8, error) {
	return move(ReadU8, buf, offset, 1)
}

// ReadI8Move reads a signed byte at *offset and advances *offset by 1.
func ReadI8Move(buf []byte, offset *int) (int8, error) {
	return move(ReadI8, buf, offset, 1)
}

// ReadU16Move reads a uint16 at *offset and advances *offset by 2.
func ReadU16Move(buf []byte, offset *int) (uint16, error) {
	return move(ReadU16, buf, offset, 2)
}

// ReadI16Move reads an int16 at *offset and advances *offset by 2.
func ReadI16Move(buf []byte, offset *int) (int16, error) {
	return move(ReadI16, buf, offset, 2)
}

// ReadU32Move reads a uint32 at *offset and advances *offset by 4.
func ReadU32Move(buf []byte, offset *int) (uint32, error) {
	return move(ReadU32, buf, offset, 4)
}

// ReadI32Move reads an int32 at *offset and advances *offset by 4.
func ReadI32Move(buf []byte, offset *int) (int32, error) {
	return move(ReadI32, buf, offset, 4)
}

// F2Dot14 converts a 2.14 fixed point number, as used for scales in
// composite glyphs, to float64.
func F2Dot14(v int16) float64 {
	return float64(v) / 16384.0
}

// --- Segments of binary data -----------------------------------------------

// binarySegm is a segment of byte data, usually the bytes of one table.
type binarySegm []byte

func (b binarySegm) Size() int {
	return len(b)
}

func (b binarySegm) Bytes() []byte {
	return b
}

// view returns n bytes at offset, or an error if the segment is too short.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n <= 0 || offset+n > len(b) {
		return nil, boundsError(offset, n, len(b))
	}
	return b[offset : offset+n], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	return ReadU16(b, i)
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	return ReadU32(b, i)
}

// i16 returns the int16 in b at the relative offset i.
func (b binarySegm) i16(i int) (int16, error) {
	return ReadI16(b, i)
}
