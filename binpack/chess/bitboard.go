package chess

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, bit i standing for square i.
type Bitboard uint64

const (
	EmptyBitboard Bitboard = 0

	Rank1BB Bitboard = 0x00000000000000FF
	Rank4BB Bitboard = 0x00000000FF000000
	Rank5BB Bitboard = 0x000000FF00000000
	Rank8BB Bitboard = 0xFF00000000000000
)

// Count returns the number of squares in the set.
func (b Bitboard) Count() int {
	return bits.OnesCount64(uint64(b))
}

// Has reports whether sq is in the set.
func (b Bitboard) Has(sq Square) bool {
	return sq < NoSquare && b&sq.Bitboard() != 0
}

// LSB returns the lowest square in the set, NoSquare when empty.
func (b Bitboard) LSB() Square {
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes and returns the lowest square in the set.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Squares lists the squares of the set in ascending order.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.Count())
	for b != 0 {
		out = append(out, b.PopLSB())
	}
	return out
}

// String draws the board with the eighth rank on top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			if b.Has(NewSquare(file, rank)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
