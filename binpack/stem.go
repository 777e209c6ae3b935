package binpack

import (
	"encoding/binary"
	"math/bits"

	"github.com/flaneur2020/binpack/binpack/compact"
	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
)

// Stem layout, all multi-byte fields big-endian:
//
//	0..23  position
//	24..25 move
//	26..27 score (folded)
//	28..29 ply (low 14 bits) | result (folded, high 2 bits)
//	30..31 rule50
//	32..33 number of continuation records
const (
	stemSize      = 32
	stemCountSize = 2
	maxPly        = 1<<14 - 1
	maxChainLen   = 1<<16 - 1
)

// signedToUnsigned16 moves the sign into the lowest bit so that small
// magnitudes of either sign stay small.
func signedToUnsigned16(a int16) uint16 {
	r := uint16(a)
	if r&0x8000 != 0 {
		r ^= 0x7FFF
	}
	return bits.RotateLeft16(r, 1)
}

func unsignedToSigned16(r uint16) int16 {
	r = bits.RotateLeft16(r, -1)
	if r&0x8000 != 0 {
		r ^= 0x7FFF
	}
	return int16(r)
}

// validateEntry checks that e can be stored, either as a stem or as a
// continuation record.
func validateEntry(e Entry) error {
	if _, err := compact.EncodePosition(e.Pos); err != nil {
		return err
	}
	if _, err := compact.EncodeMove(e.Move, e.Pos); err != nil {
		return err
	}
	if e.Ply > maxPly {
		return binpackerrors.ErrUnrepresentable.
			WithDetail("ply", e.Ply).
			WithMessage("ply does not fit in 14 bits")
	}
	if e.Result < -1 || e.Result > 1 {
		return binpackerrors.ErrUnrepresentable.
			WithDetail("result", e.Result).
			WithMessage("result must be -1, 0 or 1")
	}
	return nil
}

// appendStem appends the 32-byte stem of e.
func appendStem(dst []byte, e Entry) ([]byte, error) {
	pos, err := compact.EncodePosition(e.Pos)
	if err != nil {
		return dst, err
	}
	mv, err := compact.EncodeMove(e.Move, e.Pos)
	if err != nil {
		return dst, err
	}
	dst = append(dst, pos[:]...)
	dst = append(dst, mv[:]...)
	dst = binary.BigEndian.AppendUint16(dst, signedToUnsigned16(e.Score))
	plyResult := e.Ply&maxPly | signedToUnsigned16(e.Result)<<14
	dst = binary.BigEndian.AppendUint16(dst, plyResult)
	dst = binary.BigEndian.AppendUint16(dst, e.Pos.Rule50)
	return dst, nil
}

// parseStem decodes a 32-byte stem. The position's full-move number is
// derived from the ply.
func parseStem(b []byte) (Entry, error) {
	var e Entry

	var rawPos [compact.PositionSize]byte
	copy(rawPos[:], b[0:24])
	pos, err := compact.DecodePosition(rawPos)
	if err != nil {
		return e, err
	}

	var rawMove [compact.MoveSize]byte
	copy(rawMove[:], b[24:26])
	mv, err := compact.DecodeMove(rawMove, pos)
	if err != nil {
		return e, err
	}

	plyResult := binary.BigEndian.Uint16(b[28:30])
	e.Ply = plyResult & maxPly
	e.Result = unsignedToSigned16(plyResult >> 14)
	if e.Result < -1 {
		return e, binpackerrors.ErrCorruptChunk.
			WithDetail("result", e.Result).
			WithMessage("corrupt chunk: result out of range")
	}
	e.Score = unsignedToSigned16(binary.BigEndian.Uint16(b[26:28]))

	pos.Rule50 = binary.BigEndian.Uint16(b[30:32])
	pos.SetPly(e.Ply)
	e.Pos = pos
	e.Move = mv
	return e, nil
}
