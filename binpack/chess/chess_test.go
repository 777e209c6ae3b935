package chess

import (
	"errors"
	"testing"

	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
)

func mustFEN(t *testing.T, fen string) Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestFEN_RoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1",
		"1r3rk1/p2qnpb1/6pp/P1p1p3/3nN3/2QP2P1/R3PPBP/2B2RK1 b - - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w Kq - 12 57",
	}
	for _, fen := range fens {
		pos := mustFEN(t, fen)
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN round trip:\n got %s\nwant %s", got, fen)
		}
	}
}

func TestParseFEN_DefaultsCounters(t *testing.T) {
	pos := mustFEN(t, "8/8/8/8/8/8/8/K6k w - -")
	if pos.Rule50 != 0 || pos.FullMove != 1 {
		t.Errorf("counters = (%d, %d), want (0, 1)", pos.Rule50, pos.FullMove)
	}
}

func TestParseFEN_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few fields", "8/8/8/8/8/8/8/8 w"},
		{"short rank", "7/8/8/8/8/8/8/8 w - -"},
		{"too many ranks", "8/8/8/8/8/8/8/8/8 w - -"},
		{"bad piece", "x7/8/8/8/8/8/8/8 w - -"},
		{"bad side", "8/8/8/8/8/8/8/8 x - -"},
		{"bad castling", "8/8/8/8/8/8/8/8 w X -"},
		{"bad ep", "8/8/8/8/8/8/8/8 w - z9"},
		{"zero fullmove", "8/8/8/8/8/8/8/8 w - - 0 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFEN(tt.fen)
			if !errors.Is(err, binpackerrors.ErrMalformedPosition) {
				t.Errorf("ParseFEN(%q) error = %v, want MalformedPosition", tt.fen, err)
			}
		})
	}
}

func TestPosition_Validate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		ok   bool
	}{
		{"start", StartFEN, true},
		{"no white king", "4k3/8/8/8/8/8/8/8 w - -", false},
		{"two black kings", "k3k3/8/8/8/8/8/8/4K3 w - -", false},
		{"pawn on first rank", "4k3/8/8/8/8/8/8/P3K3 w - -", false},
		{"pawn on last rank", "p3k3/8/8/8/8/8/8/4K3 w - -", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			err := pos.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, binpackerrors.ErrMalformedPosition) {
				t.Errorf("Validate() = %v, want MalformedPosition", err)
			}
		})
	}
}

func TestPosition_PlaceRemove(t *testing.T) {
	pos := EmptyPosition()
	pos.Place(WhiteKnight, G1)
	pos.Place(BlackQueen, G1)

	if got := pos.PieceAt(G1); got != BlackQueen {
		t.Fatalf("PieceAt(g1) = %v, want q", got)
	}
	if pos.PiecesOf(Knight, White) != EmptyBitboard {
		t.Errorf("replaced knight is still in its bitboard")
	}
	if got := pos.Remove(G1); got != BlackQueen {
		t.Errorf("Remove(g1) = %v, want q", got)
	}
	if pos.Occupied() != EmptyBitboard {
		t.Errorf("Occupied() = %x after removal", uint64(pos.Occupied()))
	}
}

func TestAttacks(t *testing.T) {
	tests := []struct {
		name string
		bb   Bitboard
		want int
	}{
		{"knight a1", KnightAttacks(A1), 2},
		{"knight d4", KnightAttacks(D4), 8},
		{"king e4", KingAttacks(E4), 8},
		{"king h8", KingAttacks(H8), 3},
		{"white pawn a2", PawnAttacks(White, A2), 1},
		{"black pawn e7", PawnAttacks(Black, E7), 2},
		{"rook a1 empty", RookAttacks(A1, EmptyBitboard), 14},
		{"bishop d4 empty", BishopAttacks(D4, EmptyBitboard), 13},
		{"rook a1 blocked", RookAttacks(A1, A2.Bitboard()|B1.Bitboard()), 2},
		{"queen d4 empty", QueenAttacks(D4, EmptyBitboard), 27},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bb.Count(); got != tt.want {
				t.Errorf("count = %d, want %d\n%s", got, tt.want, tt.bb)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move Move
		want string
	}{
		{
			"double push without capturer",
			StartFEN,
			NewMove(E2, E4),
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1",
		},
		{
			"black reply increments full move",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1",
			NewMove(E7, E5),
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2",
		},
		{
			"double push next to enemy pawn sets ep",
			"8/8/8/8/3p3k/8/4P3/6K1 w - - 3 30",
			NewMove(E2, E4),
			"8/8/8/8/3pP2k/8/8/6K1 b - e3 0 30",
		},
		{
			"pinned capturer leaves ep unset",
			"8/8/8/8/R2p3k/8/4P3/6K1 w - - 3 30",
			NewMove(E2, E4),
			"8/8/8/8/R2pP2k/8/8/6K1 b - - 0 30",
		},
		{
			"quiet knight move bumps rule50",
			StartFEN,
			NewMove(G1, F3),
			"rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1",
		},
		{
			"white short castle",
			"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			NewCastle(E1, H1),
			"r3k2r/8/8/8/8/8/8/R4RK1 b kq - 1 1",
		},
		{
			"black long castle",
			"r3k2r/8/8/8/8/8/8/R4RK1 b kq - 1 1",
			NewCastle(E8, A8),
			"2kr3r/8/8/8/8/8/8/R4RK1 w - - 2 2",
		},
		{
			"promotion with capture",
			"1r5k/P7/8/8/8/8/8/K7 w - - 5 40",
			NewPromotion(A7, B8, Queen),
			"1Q5k/8/8/8/8/8/8/K7 b - - 0 40",
		},
		{
			"en passant capture",
			"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
			NewEnPassant(E5, D6),
			"4k3/8/3P4/8/8/8/8/4K3 b - - 0 1",
		},
		{
			"capturing a corner rook revokes its right",
			"r3k2r/8/8/8/8/8/8/R3K2B w KQkq - 0 1",
			NewMove(H1, A8),
			"B3k2r/8/8/8/8/8/8/R3K3 b Qk - 0 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			next, err := Apply(pos, tt.move)
			if err != nil {
				t.Fatalf("Apply(%s): %v", tt.move, err)
			}
			if got := next.FEN(); got != tt.want {
				t.Errorf("Apply(%s):\n got %s\nwant %s", tt.move, got, tt.want)
			}
			if pos.FEN() != tt.fen {
				t.Errorf("Apply modified its input: %s", pos.FEN())
			}
			if next != mustFEN(t, tt.want) {
				t.Errorf("Apply(%s) result differs from the parsed FEN", tt.move)
			}
		})
	}
}

func TestApply_Illegal(t *testing.T) {
	start := StartPosition()
	tests := []struct {
		name string
		pos  Position
		move Move
	}{
		{"null move", start, NullMove},
		{"empty origin", start, NewMove(E4, E5)},
		{"wrong side", start, NewMove(E7, E5)},
		{"own capture", start, NewMove(D1, D2)},
		{"promotion by knight", start, NewPromotion(B1, C3, Queen)},
		{"castle through pieces", start, NewCastle(E1, H1)},
		{"en passant without target", start, NewEnPassant(E2, D3)},
		{"pawn to last rank without promotion", mustFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1"), NewMove(A7, A8)},
		{"black pawn to first rank without promotion", mustFEN(t, "4k3/8/8/8/8/8/p7/4K3 b - - 0 1"), NewMove(A2, A1)},
		{"promotion off the last rank", start, NewPromotion(E2, E4, Queen)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(tt.pos, tt.move)
			if !errors.Is(err, binpackerrors.ErrIllegalMove) {
				t.Errorf("Apply(%s) error = %v, want IllegalMove", tt.move, err)
			}
		})
	}
}

func TestParseUCI(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		uci  string
		want Move
		// wantUCI is the rendered form when it differs from uci.
		wantUCI string
	}{
		{"normal", StartFEN, "e2e4", NewMove(E2, E4), ""},
		{"castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", NewCastle(E1, H1), ""},
		{"long castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", NewCastle(E8, A8), ""},
		{"king takes rook form", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1h1", NewCastle(E1, H1), "e1g1"},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", NewEnPassant(E5, D6), ""},
		{"promotion", "1r5k/P7/8/8/8/8/8/K7 w - - 0 1", "a7b8n", NewPromotion(A7, B8, Knight), ""},
		{"null", StartFEN, "0000", NullMove, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUCI(mustFEN(t, tt.fen), tt.uci)
			if err != nil {
				t.Fatalf("ParseUCI(%q): %v", tt.uci, err)
			}
			if got != tt.want {
				t.Errorf("ParseUCI(%q) = %+v, want %+v", tt.uci, got, tt.want)
			}
			wantUCI := tt.uci
			if tt.wantUCI != "" {
				wantUCI = tt.wantUCI
			}
			if got.UCI() != wantUCI {
				t.Errorf("UCI() = %q, want %q", got.UCI(), wantUCI)
			}
		})
	}
}

func TestParseUCI_Invalid(t *testing.T) {
	for _, s := range []string{"", "e2", "e2e9", "e3e4", "a7a8x", "a7a8"} {
		if _, err := ParseUCI(mustFEN(t, "4k3/P7/8/8/8/8/4P3/4K3 w - -"), s); !errors.Is(err, binpackerrors.ErrIllegalMove) {
			t.Errorf("ParseUCI(%q) error = %v, want IllegalMove", s, err)
		}
	}
}

func TestPosition_Ply(t *testing.T) {
	pos := StartPosition()
	for ply := uint16(0); ply < 6; ply++ {
		if got := pos.Ply(); got != ply {
			t.Fatalf("Ply() = %d, want %d", got, ply)
		}
		if pos.SideToMove == White {
			pos.SideToMove = Black
		} else {
			pos.SideToMove = White
			pos.FullMove++
		}
	}

	pos.SetPly(39)
	if pos.FullMove != 20 {
		t.Errorf("SetPly(39) FullMove = %d, want 20", pos.FullMove)
	}
}
