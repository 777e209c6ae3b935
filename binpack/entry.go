// Package binpack reads and writes binpack files: chunked streams of chess
// positions with engine scores, where consecutive positions of a game are
// stored as chains of small move and score deltas.
package binpack

import (
	"fmt"

	"github.com/flaneur2020/binpack/binpack/chess"
)

// Entry is one training sample: a position, the move played from it, the
// engine score and the game result. Score and Result are relative to the
// side to move in Pos.
type Entry struct {
	Pos    chess.Position
	Move   chess.Move
	Score  int16
	Ply    uint16
	Result int16
}

// Rule50 returns the half-move clock of the entry's position.
func (e Entry) Rule50() uint16 {
	return e.Pos.Rule50
}

// IsContinuation reports whether next is the entry reached by playing e's
// move: one ply later, result seen from the other side, and exactly the
// position Apply produces.
func (e Entry) IsContinuation(next Entry) bool {
	if e.Ply+1 != next.Ply || e.Result != -next.Result {
		return false
	}
	after, err := chess.Apply(e.Pos, e.Move)
	if err != nil {
		return false
	}
	return after == next.Pos
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s %d %d %d", e.Pos.FEN(), e.Move.UCI(), e.Score, e.Ply, e.Result)
}
