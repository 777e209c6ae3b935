package chess

var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard
)

var (
	knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirs    = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func init() {
	for sq := A1; sq < NoSquare; sq++ {
		knightAttacks[sq] = stepAttacks(sq, knightSteps[:])
		kingAttacks[sq] = stepAttacks(sq, kingSteps[:])
		pawnAttacks[White][sq] = stepAttacks(sq, [][2]int{{-1, 1}, {1, 1}})
		pawnAttacks[Black][sq] = stepAttacks(sq, [][2]int{{-1, -1}, {1, -1}})
	}
}

func stepAttacks(sq Square, steps [][2]int) Bitboard {
	var bb Bitboard
	for _, d := range steps {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		if f >= 0 && f < 8 && r >= 0 && r < 8 {
			bb |= NewSquare(f, r).Bitboard()
		}
	}
	return bb
}

func slideAttacks(sq Square, occupied Bitboard, dirs [4][2]int) Bitboard {
	var bb Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			s := NewSquare(f, r)
			bb |= s.Bitboard()
			if occupied.Has(s) {
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return bb
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(c Color, sq Square) Bitboard {
	return pawnAttacks[c][sq]
}

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the squares a king on sq attacks.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// BishopAttacks returns the diagonal rays from sq, stopping at the first
// occupied square in each direction (included).
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return slideAttacks(sq, occupied, bishopDirs)
}

// RookAttacks returns the orthogonal rays from sq, stopping at the first
// occupied square in each direction (included).
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return slideAttacks(sq, occupied, rookDirs)
}

// QueenAttacks is the union of bishop and rook attacks.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// IsAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	occupied := p.Occupied()
	if PawnAttacks(by.Other(), sq)&p.PiecesOf(Pawn, by) != 0 {
		return true
	}
	if KnightAttacks(sq)&p.PiecesOf(Knight, by) != 0 {
		return true
	}
	if KingAttacks(sq)&p.PiecesOf(King, by) != 0 {
		return true
	}
	queens := p.PiecesOf(Queen, by)
	if BishopAttacks(sq, occupied)&(p.PiecesOf(Bishop, by)|queens) != 0 {
		return true
	}
	return RookAttacks(sq, occupied)&(p.PiecesOf(Rook, by)|queens) != 0
}

// InCheck reports whether the king of color c is attacked.
func (p *Position) InCheck(c Color) bool {
	king := p.King(c)
	if king == NoSquare {
		return false
	}
	return p.IsAttacked(king, c.Other())
}
