package chess

import (
	"strconv"
	"strings"

	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
)

// ParseFEN parses a Forsyth-Edwards string. The two move counters are
// optional and default to "0 1".
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return Position{}, badFEN(fen, "expected 4 to 6 fields")
	}

	pos := EmptyPosition()

	rank, file := 7, 0
	for i := 0; i < len(fields[0]); i++ {
		c := fields[0][i]
		switch {
		case c == '/':
			if file != 8 || rank == 0 {
				return Position{}, badFEN(fen, "bad rank layout")
			}
			rank--
			file = 0
		case c >= '1' && c <= '8':
			file += int(c - '0')
			if file > 8 {
				return Position{}, badFEN(fen, "rank overflows")
			}
		default:
			pc, ok := PieceFromChar(c)
			if !ok || file > 7 {
				return Position{}, badFEN(fen, "bad piece placement")
			}
			pos.Place(pc, NewSquare(file, rank))
			file++
		}
	}
	if rank != 0 || file != 8 {
		return Position{}, badFEN(fen, "incomplete board")
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return Position{}, badFEN(fen, "bad side to move")
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				pos.Castling |= WhiteKingSide
			case 'Q':
				pos.Castling |= WhiteQueenSide
			case 'k':
				pos.Castling |= BlackKingSide
			case 'q':
				pos.Castling |= BlackQueenSide
			default:
				return Position{}, badFEN(fen, "bad castling rights")
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return Position{}, badFEN(fen, "bad en-passant square")
		}
		pos.EpSquare = sq
	}

	if len(fields) > 4 {
		n, err := strconv.ParseUint(fields[4], 10, 16)
		if err != nil {
			return Position{}, badFEN(fen, "bad half-move clock")
		}
		pos.Rule50 = uint16(n)
	}
	if len(fields) > 5 {
		n, err := strconv.ParseUint(fields[5], 10, 16)
		if err != nil || n == 0 {
			return Position{}, badFEN(fen, "bad full-move number")
		}
		pos.FullMove = uint16(n)
	}
	return pos, nil
}

func badFEN(fen, reason string) error {
	return binpackerrors.ErrMalformedPosition.
		WithDetail("fen", fen).
		WithMessage("malformed position: " + reason)
}

// FEN renders the position in Forsyth-Edwards notation.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.PieceAt(NewSquare(file, rank))
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.SideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.Castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EpSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(p.Rule50)))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(p.FullMove)))
	return sb.String()
}

func (p Position) String() string {
	return p.FEN()
}
