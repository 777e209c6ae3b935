// Package compact implements the fixed-width encodings used inside binpack
// chains: the 24-byte position and the 16-bit move.
package compact

import (
	"encoding/binary"

	"github.com/flaneur2020/binpack/binpack/chess"
	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
)

// PositionSize is the encoded size of a position.
const PositionSize = 24

const maxPieces = 32

// Nibble codes beyond the twelve plain piece ids.
const (
	codePawnWithEp         = 12
	codeWhiteRookCastling  = 13
	codeBlackRookCastling  = 14
	codeBlackKingBlackMove = 15
)

// EncodePosition packs the board state of pos. Clocks are not part of the
// encoding.
func EncodePosition(pos chess.Position) ([PositionSize]byte, error) {
	var out [PositionSize]byte

	occupied := pos.Occupied()
	if occupied.Count() > maxPieces {
		return out, binpackerrors.ErrUnrepresentable.
			WithDetail("pieces", occupied.Count()).
			WithMessage("position has more than 32 pieces")
	}
	// Anything DecodePosition would reject must not reach a file.
	if err := pos.Validate(); err != nil {
		return out, binpackerrors.ErrUnrepresentable.
			WithCause(err).
			WithMessage("position cannot be encoded")
	}

	binary.BigEndian.PutUint64(out[0:8], uint64(occupied))

	epPawn := chess.NoSquare
	if ep := pos.EpSquare; ep != chess.NoSquare {
		if pos.SideToMove == chess.White {
			epPawn = ep - 8
		} else {
			epPawn = ep + 8
		}
		if epPawn >= chess.NoSquare || pos.PieceAt(epPawn) != chess.NewPiece(chess.Pawn, pos.SideToMove.Other()) {
			epPawn = chess.NoSquare
		}
	}

	i := 0
	for bb := occupied; bb != 0; i++ {
		sq := bb.PopLSB()
		code := uint8(pos.PieceAt(sq))
		switch {
		case sq == epPawn:
			code = codePawnWithEp
		case code == uint8(chess.WhiteRook) && castlingRook(pos.Castling, sq, chess.White):
			code = codeWhiteRookCastling
		case code == uint8(chess.BlackRook) && castlingRook(pos.Castling, sq, chess.Black):
			code = codeBlackRookCastling
		case code == uint8(chess.BlackKing) && pos.SideToMove == chess.Black:
			code = codeBlackKingBlackMove
		}
		out[8+i/2] |= code << (4 * uint(i&1))
	}
	return out, nil
}

// AppendPosition appends the encoding of pos to dst.
func AppendPosition(dst []byte, pos chess.Position) ([]byte, error) {
	enc, err := EncodePosition(pos)
	if err != nil {
		return dst, err
	}
	return append(dst, enc[:]...), nil
}

func castlingRook(cr chess.CastlingRights, sq chess.Square, c chess.Color) bool {
	switch {
	case c == chess.White && sq == chess.A1:
		return cr.Has(chess.WhiteQueenSide)
	case c == chess.White && sq == chess.H1:
		return cr.Has(chess.WhiteKingSide)
	case c == chess.Black && sq == chess.A8:
		return cr.Has(chess.BlackQueenSide)
	case c == chess.Black && sq == chess.H8:
		return cr.Has(chess.BlackKingSide)
	}
	return false
}

// DecodePosition unpacks a position. The result has Rule50 0 and FullMove 1.
func DecodePosition(in [PositionSize]byte) (chess.Position, error) {
	pos := chess.EmptyPosition()

	occupied := chess.Bitboard(binary.BigEndian.Uint64(in[0:8]))
	n := occupied.Count()
	if n > maxPieces {
		return pos, binpackerrors.NewMalformedPositionError("more than 32 occupied squares")
	}

	for i := 0; i < n; i++ {
		sq := chess.Square(NthSetBit(uint64(occupied), i))
		code := (in[8+i/2] >> (4 * uint(i&1))) & 0x0F

		switch {
		case code < codePawnWithEp:
			pos.Place(chess.Piece(code), sq)

		case code == codePawnWithEp:
			if pos.EpSquare != chess.NoSquare {
				return pos, binpackerrors.NewMalformedPositionError("two en-passant pawns")
			}
			switch sq.Rank() {
			case 3:
				pos.Place(chess.WhitePawn, sq)
				pos.EpSquare = sq - 8
			case 4:
				pos.Place(chess.BlackPawn, sq)
				pos.EpSquare = sq + 8
			default:
				return pos, binpackerrors.ErrMalformedPosition.
					WithDetail("square", sq.String()).
					WithMessage("malformed position: en-passant pawn off the fourth or fifth rank")
			}

		case code == codeWhiteRookCastling:
			switch sq {
			case chess.A1:
				pos.Castling |= chess.WhiteQueenSide
			case chess.H1:
				pos.Castling |= chess.WhiteKingSide
			default:
				return pos, badCastlingRook(sq)
			}
			pos.Place(chess.WhiteRook, sq)

		case code == codeBlackRookCastling:
			switch sq {
			case chess.A8:
				pos.Castling |= chess.BlackQueenSide
			case chess.H8:
				pos.Castling |= chess.BlackKingSide
			default:
				return pos, badCastlingRook(sq)
			}
			pos.Place(chess.BlackRook, sq)

		default:
			pos.Place(chess.BlackKing, sq)
			pos.SideToMove = chess.Black
		}
	}

	// The pawn that just double-pushed belongs to the side not to move.
	if ep := pos.EpSquare; ep != chess.NoSquare && (ep.Rank() == 2) != (pos.SideToMove == chess.Black) {
		return pos, binpackerrors.ErrMalformedPosition.
			WithDetail("square", pos.EpSquare.String()).
			WithMessage("malformed position: en-passant pawn belongs to the side to move")
	}
	if err := pos.Validate(); err != nil {
		return pos, err
	}
	return pos, nil
}

func badCastlingRook(sq chess.Square) error {
	return binpackerrors.ErrMalformedPosition.
		WithDetail("square", sq.String()).
		WithMessage("malformed position: castling rook off its corner")
}
