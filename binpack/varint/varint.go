// Package varint implements the variable-length integers used by binpack
// continuation records.
//
// Each byte carries 7 payload bits, least-significant group first, with the
// high bit set when more bytes follow. Signed values are folded by
// interleaving sign and magnitude so that small values of either sign use the
// fewest bytes: 0 → 0, 1 → 2, -1 → 3, 2 → 4, -2 → 5, and so on. Every value in
// [-63, 63] encodes to a single byte.
package varint

import (
	"math"

	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
)

// MaxLen64 is the maximum number of bytes a 64-bit varint can occupy.
const MaxLen64 = 10

// minInt64Code is the fold of math.MinInt64. Its magnitude does not fit the
// interleaved layout, so it takes the otherwise unused "negative zero" code.
const minInt64Code = 1

// PutUvarint encodes v into buf and returns the number of bytes written.
// buf must have at least UvarintLen(v) bytes available.
func PutUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// AppendUvarint appends the encoding of v to dst.
func AppendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Uvarint decodes an unsigned varint starting at buf[pos]. It returns the
// value and the offset just past it.
func Uvarint(buf []byte, pos int) (uint64, int, error) {
	var v uint64
	var shift uint

	for i := 0; i < MaxLen64; i++ {
		if pos+i >= len(buf) {
			return 0, pos, binpackerrors.NewTruncatedInputError("varint", pos)
		}
		b := buf[pos+i]
		if i == MaxLen64-1 && b > 1 {
			// the tenth byte may only contribute bit 63
			return 0, pos, binpackerrors.ErrTruncatedInput.
				WithDetail("field", "varint").
				WithDetail("offset", pos).
				WithMessage("varint overflows 64 bits")
		}
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, pos + i + 1, nil
		}
		shift += 7
	}
	return 0, pos, binpackerrors.ErrTruncatedInput.
		WithDetail("field", "varint").
		WithDetail("offset", pos).
		WithMessage("varint longer than 10 bytes")
}

// UvarintLen returns the number of bytes needed to encode v.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}

// Fold maps a signed integer onto the unsigned code used on the wire.
func Fold(n int64) uint64 {
	switch {
	case n >= 0:
		return uint64(n) << 1
	case n == math.MinInt64:
		return minInt64Code
	default:
		return uint64(-n)<<1 | 1
	}
}

// Unfold is the inverse of Fold.
func Unfold(u uint64) int64 {
	if u == minInt64Code {
		return math.MinInt64
	}
	mag := int64(u >> 1)
	if u&1 != 0 {
		return -mag
	}
	return mag
}

// PutVarint encodes a signed integer into buf and returns the number of bytes written.
func PutVarint(buf []byte, n int64) int {
	return PutUvarint(buf, Fold(n))
}

// AppendVarint appends the encoding of a signed integer to dst.
func AppendVarint(dst []byte, n int64) []byte {
	return AppendUvarint(dst, Fold(n))
}

// Varint decodes a signed varint starting at buf[pos].
func Varint(buf []byte, pos int) (int64, int, error) {
	u, next, err := Uvarint(buf, pos)
	if err != nil {
		return 0, pos, err
	}
	return Unfold(u), next, nil
}

// VarintLen returns the number of bytes needed to encode n.
func VarintLen(n int64) int {
	return UvarintLen(Fold(n))
}
