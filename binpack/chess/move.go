package chess

import (
	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
)

// MoveType tells how a move is played on the board.
type MoveType uint8

const (
	Normal MoveType = iota
	Promotion
	Castle
	EnPassant
)

func (t MoveType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Promotion:
		return "promotion"
	case Castle:
		return "castle"
	case EnPassant:
		return "enpassant"
	}
	return "unknown"
}

// Move is a single move. Castling is stored as the king capturing its own
// rook (e1h1 for white short castling).
type Move struct {
	From      Square
	To        Square
	Type      MoveType
	Promotion PieceType // NoPieceType unless Type is Promotion
}

// NullMove is the move that does nothing. It is also what the all-zero
// compact encoding decodes to.
var NullMove = Move{From: A1, To: A1, Type: Normal, Promotion: NoPieceType}

func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Type: Normal, Promotion: NoPieceType}
}

func NewPromotion(from, to Square, pt PieceType) Move {
	return Move{From: from, To: to, Type: Promotion, Promotion: pt}
}

// NewCastle builds a castling move from the king square to the rook square.
func NewCastle(king, rook Square) Move {
	return Move{From: king, To: rook, Type: Castle, Promotion: NoPieceType}
}

func NewEnPassant(from, to Square) Move {
	return Move{From: from, To: to, Type: EnPassant, Promotion: NoPieceType}
}

// IsNull reports whether m moves nothing.
func (m Move) IsNull() bool {
	return m.From == m.To
}

// CastleDestinations returns where king and rook end up for a castling
// move.
func (m Move) CastleDestinations() (king, rook Square) {
	rank := m.From.Rank()
	if m.To.File() > m.From.File() {
		return NewSquare(6, rank), NewSquare(5, rank)
	}
	return NewSquare(2, rank), NewSquare(3, rank)
}

// UCI renders the move in UCI notation. Castling prints the king's
// destination, e1g1 rather than e1h1.
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	to := m.To
	if m.Type == Castle {
		to, _ = m.CastleDestinations()
	}
	s := m.From.String() + to.String()
	if m.Type == Promotion {
		s += m.Promotion.String()
	}
	return s
}

func (m Move) String() string {
	return m.UCI()
}

// ParseUCI reads a UCI move and resolves its kind against pos: two-square
// king moves become castling, diagonal pawn moves onto the en-passant square
// become en passant and five-character moves become promotions.
func ParseUCI(pos Position, s string) (Move, error) {
	if s == "0000" {
		return NullMove, nil
	}
	if len(s) != 4 && len(s) != 5 {
		return NullMove, binpackerrors.NewIllegalMoveError(s, "bad UCI length")
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NullMove, binpackerrors.NewIllegalMoveError(s, "bad origin square")
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, binpackerrors.NewIllegalMoveError(s, "bad destination square")
	}

	pc := pos.PieceAt(from)
	if pc == NoPiece {
		return NullMove, binpackerrors.NewIllegalMoveError(s, "origin square is empty")
	}

	if len(s) == 5 {
		var pt PieceType
		switch s[4] {
		case 'n':
			pt = Knight
		case 'b':
			pt = Bishop
		case 'r':
			pt = Rook
		case 'q':
			pt = Queen
		default:
			return NullMove, binpackerrors.NewIllegalMoveError(s, "bad promotion piece")
		}
		return NewPromotion(from, to, pt), nil
	}

	switch pc.Type() {
	case King:
		df := to.File() - from.File()
		if from.Rank() == to.Rank() && (df == 2 || df == -2) {
			rook := NewSquare(7, from.Rank())
			if df < 0 {
				rook = NewSquare(0, from.Rank())
			}
			return NewCastle(from, rook), nil
		}
		if target := pos.PieceAt(to); target != NoPiece && target == NewPiece(Rook, pc.Color()) {
			// Already in king-takes-rook form.
			return NewCastle(from, to), nil
		}
	case Pawn:
		if to == pos.EpSquare && from.File() != to.File() {
			return NewEnPassant(from, to), nil
		}
		if to.IsBackRank() {
			return NullMove, binpackerrors.NewIllegalMoveError(s, "promotion piece missing")
		}
	}
	return NewMove(from, to), nil
}
