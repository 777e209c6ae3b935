package chess

import (
	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
)

// Apply plays mv on pos and returns the successor position. pos is not
// modified.
//
// Apply does not check full legality; it only rejects moves it cannot
// carry out deterministically or whose result could not be encoded, such
// as a pawn reaching the last rank without promoting.
func Apply(pos Position, mv Move) (Position, error) {
	if mv.IsNull() {
		return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "null move")
	}
	if mv.From >= NoSquare || mv.To >= NoSquare {
		return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "square out of range")
	}

	us := pos.SideToMove
	them := us.Other()
	pc := pos.PieceAt(mv.From)
	if pc == NoPiece {
		return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "origin square is empty")
	}
	if pc.Color() != us {
		return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "piece does not belong to the side to move")
	}

	next := pos
	captured := NoPiece

	switch mv.Type {
	case Normal, Promotion:
		captured = next.PieceAt(mv.To)
		if captured != NoPiece && captured.Color() == us {
			return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "captures own piece")
		}
		if pc.Type() == Pawn && mv.To.IsBackRank() != (mv.Type == Promotion) {
			return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "pawn must promote exactly on the last rank")
		}
		placed := pc
		if mv.Type == Promotion {
			if pc.Type() != Pawn {
				return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "promotion by a non-pawn")
			}
			if mv.Promotion < Knight || mv.Promotion > Queen {
				return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "bad promotion piece")
			}
			placed = NewPiece(mv.Promotion, us)
		}
		next.Remove(mv.From)
		next.Place(placed, mv.To)

	case Castle:
		if pc.Type() != King || next.PieceAt(mv.To) != NewPiece(Rook, us) {
			return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "castling needs king and own rook")
		}
		kingTo, rookTo := mv.CastleDestinations()
		next.Remove(mv.From)
		next.Remove(mv.To)
		if next.PieceAt(kingTo) != NoPiece || next.PieceAt(rookTo) != NoPiece {
			return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "castling path is blocked")
		}
		next.Place(NewPiece(King, us), kingTo)
		next.Place(NewPiece(Rook, us), rookTo)

	case EnPassant:
		if pc.Type() != Pawn || mv.To != pos.EpSquare {
			return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "en passant needs a pawn moving to the en-passant square")
		}
		capSq := mv.To ^ 8
		captured = next.PieceAt(capSq)
		if captured != NewPiece(Pawn, them) {
			return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "no pawn to capture en passant")
		}
		next.Remove(capSq)
		next.Remove(mv.From)
		next.Place(pc, mv.To)

	default:
		return pos, binpackerrors.NewIllegalMoveError(mv.UCI(), "unknown move type")
	}

	next.Castling &^= castlingMask[mv.From] | castlingMask[mv.To]

	next.EpSquare = NoSquare
	if pc.Type() == Pawn && (int(mv.To)-int(mv.From) == 16 || int(mv.From)-int(mv.To) == 16) {
		ep := Square((int(mv.From) + int(mv.To)) / 2)
		if canCaptureEnPassant(&next, ep, mv.To, them) {
			next.EpSquare = ep
		}
	}

	if pc.Type() == Pawn || captured != NoPiece {
		next.Rule50 = 0
	} else if next.Rule50 < 0xFFFF {
		next.Rule50++
	}
	if us == Black {
		next.FullMove++
	}
	next.SideToMove = them
	return next, nil
}

// canCaptureEnPassant reports whether side c has a pawn that could take the
// pawn on pawnSq by moving to ep without leaving its own king attacked.
func canCaptureEnPassant(p *Position, ep, pawnSq Square, c Color) bool {
	candidates := PawnAttacks(c.Other(), ep) & p.PiecesOf(Pawn, c)
	for candidates != 0 {
		from := candidates.PopLSB()
		trial := *p
		trial.Remove(pawnSq)
		trial.Remove(from)
		trial.Place(NewPiece(Pawn, c), ep)
		if !trial.InCheck(c) {
			return true
		}
	}
	return false
}
