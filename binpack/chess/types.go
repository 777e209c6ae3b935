// Package chess holds the board model the binpack codec encodes: squares,
// pieces, bitboards, positions and moves, plus the move application needed
// to replay a chain.
//
// Squares are numbered 0 (a1) to 63 (h8), file-major within a rank:
//
//	8 | 56 57 58 59 60 61 62 63
//	7 | 48 49 50 51 52 53 54 55
//	6 | 40 41 42 43 44 45 46 47
//	5 | 32 33 34 35 36 37 38 39
//	4 | 24 25 26 27 28 29 30 31
//	3 | 16 17 18 19 20 21 22 23
//	2 | 08 09 10 11 12 13 14 15
//	1 | 00 01 02 03 04 05 06 07
//	  -------------------------
//	    A  B  C  D  E  F  G  H
package chess

import "fmt"

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is a colorless piece kind.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeChars = [...]byte{'p', 'n', 'b', 'r', 'q', 'k', '?'}

func (pt PieceType) String() string {
	if pt > NoPieceType {
		return "?"
	}
	return string(pieceTypeChars[pt])
}

// Piece combines a piece type and a color. Its numeric value is
// type<<1 | color, which is also the piece's code in the compact position
// encoding.
type Piece uint8

const (
	WhitePawn Piece = iota
	BlackPawn
	WhiteKnight
	BlackKnight
	WhiteBishop
	BlackBishop
	WhiteRook
	BlackRook
	WhiteQueen
	BlackQueen
	WhiteKing
	BlackKing
	NoPiece
)

// NewPiece builds the piece of type pt and color c.
func NewPiece(pt PieceType, c Color) Piece {
	return Piece(pt)<<1 | Piece(c)
}

// Type returns the piece type, NoPieceType for NoPiece.
func (p Piece) Type() PieceType {
	return PieceType(p >> 1)
}

// Color returns the piece color. It is meaningless for NoPiece.
func (p Piece) Color() Color {
	return Color(p & 1)
}

const pieceChars = "PpNnBbRrQqKk."

// Char returns the FEN letter of the piece, '.' for NoPiece.
func (p Piece) Char() byte {
	if p > NoPiece {
		return '?'
	}
	return pieceChars[p]
}

func (p Piece) String() string {
	return string(p.Char())
}

// PieceFromChar parses a FEN piece letter.
func PieceFromChar(c byte) (Piece, bool) {
	for i := 0; i < int(NoPiece); i++ {
		if pieceChars[i] == c {
			return Piece(i), true
		}
	}
	return NoPiece, false
}

// Square is a board square index, or NoSquare.
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare
)

// NewSquare returns the square on file (0 = a) and rank (0 = first rank).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// File returns 0 for the a-file through 7 for the h-file.
func (s Square) File() int {
	return int(s) & 7
}

// Rank returns 0 for the first rank through 7 for the eighth.
func (s Square) Rank() int {
	return int(s) >> 3
}

// IsBackRank reports whether s is on the first or the eighth rank.
func (s Square) IsBackRank() bool {
	r := s.Rank()
	return r == 0 || r == 7
}

// Bitboard returns the single-square bitboard of s.
func (s Square) Bitboard() Bitboard {
	return Bitboard(1) << s
}

func (s Square) String() string {
	if s >= NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare parses algebraic square names such as "e4".
func ParseSquare(name string) (Square, error) {
	if len(name) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", name)
	}
	file := int(name[0]) - 'a'
	rank := int(name[1]) - '1'
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square %q", name)
	}
	return NewSquare(file, rank), nil
}

// CastlingRights is the set of castling moves still available.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// Has reports whether every right in r is present.
func (cr CastlingRights) Has(r CastlingRights) bool {
	return cr&r == r
}

// ForColor returns the subset of cr belonging to c.
func (cr CastlingRights) ForColor(c Color) CastlingRights {
	if c == White {
		return cr & (WhiteKingSide | WhiteQueenSide)
	}
	return cr & (BlackKingSide | BlackQueenSide)
}

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := make([]byte, 0, 4)
	if cr.Has(WhiteKingSide) {
		s = append(s, 'K')
	}
	if cr.Has(WhiteQueenSide) {
		s = append(s, 'Q')
	}
	if cr.Has(BlackKingSide) {
		s = append(s, 'k')
	}
	if cr.Has(BlackQueenSide) {
		s = append(s, 'q')
	}
	return string(s)
}

// castlingMask lists, per square, the rights lost when a piece leaves or
// arrives on it.
var castlingMask = func() [64]CastlingRights {
	var m [64]CastlingRights
	m[A1] = WhiteQueenSide
	m[H1] = WhiteKingSide
	m[E1] = WhiteKingSide | WhiteQueenSide
	m[A8] = BlackQueenSide
	m[H8] = BlackKingSide
	m[E8] = BlackKingSide | BlackQueenSide
	return m
}()
