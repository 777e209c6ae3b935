package compact

import (
	"encoding/binary"

	"github.com/flaneur2020/binpack/binpack/chess"
	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
)

// MoveSize is the encoded size of a move.
const MoveSize = 2

// PackMove returns the 16-bit form of m, most significant bits first:
// type (2), origin (6), destination (6), promotion piece minus knight (2).
// The null move packs to zero.
func PackMove(m chess.Move) uint16 {
	if m.IsNull() {
		return 0
	}
	var promo uint16
	if m.Type == chess.Promotion {
		promo = uint16(m.Promotion-chess.Knight) & 3
	}
	return uint16(m.Type&3)<<14 | uint16(m.From&63)<<8 | uint16(m.To&63)<<2 | promo
}

// UnpackMove is the inverse of PackMove. It does not look at any position.
func UnpackMove(v uint16) chess.Move {
	if v == 0 {
		return chess.NullMove
	}
	m := chess.Move{
		Type:      chess.MoveType(v >> 14),
		From:      chess.Square(v>>8&63),
		To:        chess.Square(v>>2&63),
		Promotion: chess.NoPieceType,
	}
	if m.Type == chess.Promotion {
		m.Promotion = chess.Knight + chess.PieceType(v&3)
	}
	return m
}

// EncodeMove checks m against pos and returns its big-endian encoding.
func EncodeMove(m chess.Move, pos chess.Position) ([MoveSize]byte, error) {
	var out [MoveSize]byte
	if err := checkMove(m, &pos); err != nil {
		return out, err
	}
	binary.BigEndian.PutUint16(out[:], PackMove(m))
	return out, nil
}

// DecodeMove reads a move played from pos.
func DecodeMove(in [MoveSize]byte, pos chess.Position) (chess.Move, error) {
	m := UnpackMove(binary.BigEndian.Uint16(in[:]))
	if err := checkMove(m, &pos); err != nil {
		return chess.NullMove, err
	}
	return m, nil
}

// checkMove verifies that the pieces m refers to are where its kind needs
// them. It is not a legality check.
func checkMove(m chess.Move, pos *chess.Position) error {
	if m.IsNull() {
		return nil
	}
	pc := pos.PieceAt(m.From)
	if pc == chess.NoPiece {
		return binpackerrors.NewIllegalMoveError(m.UCI(), "origin square is empty")
	}

	switch m.Type {
	case chess.Castle:
		if pc.Type() != chess.King || pos.PieceAt(m.To) != chess.NewPiece(chess.Rook, pc.Color()) {
			return binpackerrors.NewIllegalMoveError(m.UCI(), "castling needs king and own rook")
		}
	case chess.EnPassant:
		if pc.Type() != chess.Pawn || m.To != pos.EpSquare {
			return binpackerrors.NewIllegalMoveError(m.UCI(), "en passant needs a pawn moving to the en-passant square")
		}
	case chess.Promotion:
		if pc.Type() != chess.Pawn {
			return binpackerrors.NewIllegalMoveError(m.UCI(), "promotion by a non-pawn")
		}
		if m.Promotion < chess.Knight || m.Promotion > chess.Queen {
			return binpackerrors.NewIllegalMoveError(m.UCI(), "bad promotion piece")
		}
		if !m.To.IsBackRank() {
			return binpackerrors.NewIllegalMoveError(m.UCI(), "promotion off the last rank")
		}
	case chess.Normal:
		if pc.Type() == chess.Pawn && m.To.IsBackRank() {
			return binpackerrors.NewIllegalMoveError(m.UCI(), "pawn reaches the last rank without promoting")
		}
	}
	return nil
}
