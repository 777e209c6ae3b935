package chess

import (
	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
)

// Position is the full board state carried through a chain: placement,
// side to move, castling rights, en-passant square and the two move
// counters.
//
// The zero value is not a valid position; start from EmptyPosition,
// StartPosition or ParseFEN. Positions are plain values and compare with ==.
type Position struct {
	board   [64]Piece
	byType  [6]Bitboard
	byColor [2]Bitboard

	SideToMove Color
	Castling   CastlingRights
	// EpSquare is the square behind a pawn that just advanced two squares,
	// or NoSquare.
	EpSquare Square
	// Rule50 is the half-move clock.
	Rule50   uint16
	FullMove uint16
}

// EmptyPosition returns a board without pieces, white to move.
func EmptyPosition() Position {
	p := Position{
		SideToMove: White,
		Castling:   NoCastling,
		EpSquare:   NoSquare,
		FullMove:   1,
	}
	for i := range p.board {
		p.board[i] = NoPiece
	}
	return p
}

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// StartPosition returns the standard initial position.
func StartPosition() Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// PieceAt returns the piece on sq, NoPiece if it is empty.
func (p *Position) PieceAt(sq Square) Piece {
	if sq >= NoSquare {
		return NoPiece
	}
	return p.board[sq]
}

// Place puts pc on sq, replacing whatever stood there.
func (p *Position) Place(pc Piece, sq Square) {
	p.Remove(sq)
	if pc >= NoPiece {
		return
	}
	mask := sq.Bitboard()
	p.board[sq] = pc
	p.byType[pc.Type()] |= mask
	p.byColor[pc.Color()] |= mask
}

// Remove clears sq and returns the piece that stood there.
func (p *Position) Remove(sq Square) Piece {
	pc := p.board[sq]
	if pc == NoPiece {
		return NoPiece
	}
	mask := sq.Bitboard()
	p.board[sq] = NoPiece
	p.byType[pc.Type()] &^= mask
	p.byColor[pc.Color()] &^= mask
	return pc
}

// Occupied returns every occupied square.
func (p *Position) Occupied() Bitboard {
	return p.byColor[White] | p.byColor[Black]
}

// Pieces returns the squares occupied by color c.
func (p *Position) Pieces(c Color) Bitboard {
	return p.byColor[c]
}

// PiecesOf returns the squares holding pieces of type pt and color c.
func (p *Position) PiecesOf(pt PieceType, c Color) Bitboard {
	if pt >= NoPieceType {
		return EmptyBitboard
	}
	return p.byType[pt] & p.byColor[c]
}

// King returns the square of c's king, NoSquare if there is none.
func (p *Position) King(c Color) Square {
	return p.PiecesOf(King, c).LSB()
}

// Validate checks the piece-count sanity every encodable position has:
// exactly one king per side and no pawns on the first or last rank.
func (p *Position) Validate() error {
	for _, c := range []Color{White, Black} {
		if n := p.PiecesOf(King, c).Count(); n != 1 {
			return binpackerrors.ErrMalformedPosition.
				WithDetail("color", c.String()).
				WithDetail("kings", n).
				WithMessage("malformed position: king count is not one")
		}
	}
	if pawns := p.byType[Pawn] & (Rank1BB | Rank8BB); pawns != 0 {
		return binpackerrors.ErrMalformedPosition.
			WithDetail("square", pawns.LSB().String()).
			WithMessage("malformed position: pawn on a back rank")
	}
	return nil
}

// Ply returns the half-move index implied by FullMove and the side to move.
func (p *Position) Ply() uint16 {
	if p.FullMove == 0 {
		return uint16(p.SideToMove)
	}
	return (p.FullMove-1)*2 + uint16(p.SideToMove)
}

// SetPly sets FullMove from an absolute half-move index.
func (p *Position) SetPly(ply uint16) {
	p.FullMove = ply/2 + 1
}
