package binpack

import (
	"encoding/binary"
	"math"

	"github.com/flaneur2020/binpack/binpack/chess"
	"github.com/flaneur2020/binpack/binpack/compact"
	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
	"github.com/flaneur2020/binpack/binpack/varint"
)

// chainDecoder walks the chains of one chunk body. It owns the cursor; the
// reader only hands it whole chunks.
type chainDecoder struct {
	buf  []byte
	off  int
	base int64 // file offset of buf[0]

	remaining int // continuation records left in the current chain
	last      Entry
}

func (d *chainDecoder) reset(buf []byte, base int64) {
	d.buf = buf
	d.off = 0
	d.base = base
	d.remaining = 0
}

// more reports whether the chunk still holds entries.
func (d *chainDecoder) more() bool {
	return d.remaining > 0 || d.off < len(d.buf)
}

// continuing reports whether the next entry extends the current chain.
func (d *chainDecoder) continuing() bool {
	return d.remaining > 0
}

func (d *chainDecoder) next() (Entry, error) {
	if d.remaining > 0 {
		return d.nextContinuation()
	}
	return d.nextStem()
}

func (d *chainDecoder) nextStem() (Entry, error) {
	if len(d.buf)-d.off < stemSize+stemCountSize {
		return Entry{}, binpackerrors.NewTruncatedInputError("stem", int(d.base)+d.off)
	}
	e, err := parseStem(d.buf[d.off : d.off+stemSize])
	if err != nil {
		return Entry{}, err
	}
	d.remaining = int(binary.BigEndian.Uint16(d.buf[d.off+stemSize:]))
	d.off += stemSize + stemCountSize
	d.last = e
	return e, nil
}

func (d *chainDecoder) nextContinuation() (Entry, error) {
	start := d.off
	if d.last.Ply >= maxPly {
		return Entry{}, binpackerrors.ErrCorruptChunk.
			WithDetail("offset", d.base+int64(start)).
			WithDetail("ply", d.last.Ply).
			WithMessage("corrupt chunk: chain continues past the largest ply")
	}
	rawMove, off, err := varint.Uvarint(d.buf, d.off)
	if err != nil {
		return Entry{}, truncatedRecord("move", d.base+int64(start), err)
	}
	delta, off, err := varint.Varint(d.buf, off)
	if err != nil {
		return Entry{}, truncatedRecord("score", d.base+int64(start), err)
	}
	if rawMove > math.MaxUint16 {
		return Entry{}, binpackerrors.ErrCorruptChunk.
			WithDetail("offset", d.base+int64(start)).
			WithMessage("corrupt chunk: move code exceeds 16 bits")
	}

	pos, err := chess.Apply(d.last.Pos, d.last.Move)
	if err != nil {
		return Entry{}, err
	}
	var mvBytes [compact.MoveSize]byte
	binary.BigEndian.PutUint16(mvBytes[:], uint16(rawMove))
	mv, err := compact.DecodeMove(mvBytes, pos)
	if err != nil {
		return Entry{}, err
	}

	score := -int64(d.last.Score) + delta
	if score < math.MinInt16 || score > math.MaxInt16 {
		return Entry{}, binpackerrors.ErrCorruptChunk.
			WithDetail("offset", d.base+int64(start)).
			WithDetail("score", score).
			WithMessage("corrupt chunk: score out of range")
	}

	e := Entry{
		Pos:    pos,
		Move:   mv,
		Score:  int16(score),
		Ply:    d.last.Ply + 1,
		Result: -d.last.Result,
	}
	d.off = off
	d.remaining--
	d.last = e
	return e, nil
}

func truncatedRecord(field string, offset int64, cause error) error {
	return binpackerrors.ErrTruncatedInput.
		WithDetail("field", field).
		WithDetail("offset", offset).
		WithCause(cause)
}

// chainEncoder is the mirror of chainDecoder. It accumulates whole chains
// into buf and patches each chain's record count when the chain closes.
type chainEncoder struct {
	buf     []byte
	countAt int // offset of the open chain's count, -1 when no chain is open
	count   int
	last    Entry
}

func newChainEncoder() *chainEncoder {
	return &chainEncoder{countAt: -1}
}

func (c *chainEncoder) open() bool {
	return c.countAt >= 0
}

// canContinue reports whether e can be appended to the open chain.
func (c *chainEncoder) canContinue(e Entry) bool {
	return c.open() && c.count < maxChainLen && c.last.IsContinuation(e)
}

// start closes any open chain and begins a new one with e as its stem.
func (c *chainEncoder) start(e Entry) error {
	c.close()
	buf, err := appendStem(c.buf, e)
	if err != nil {
		return err
	}
	c.buf = buf
	c.countAt = len(c.buf)
	c.buf = append(c.buf, 0, 0)
	c.count = 0
	c.last = e
	return nil
}

// continueWith appends e as a continuation record. The caller has checked
// canContinue.
func (c *chainEncoder) continueWith(e Entry) error {
	if _, err := compact.EncodeMove(e.Move, e.Pos); err != nil {
		return err
	}
	predicted := -int64(c.last.Score)
	c.buf = varint.AppendUvarint(c.buf, uint64(compact.PackMove(e.Move)))
	c.buf = varint.AppendVarint(c.buf, int64(e.Score)-predicted)
	c.count++
	c.last = e
	return nil
}

// close patches the open chain's count. It is a no-op without an open
// chain.
func (c *chainEncoder) close() {
	if !c.open() {
		return
	}
	binary.BigEndian.PutUint16(c.buf[c.countAt:], uint16(c.count))
	c.countAt = -1
}

// take closes the open chain and hands out the buffered chain bytes.
func (c *chainEncoder) take() []byte {
	c.close()
	out := c.buf
	c.buf = nil
	return out
}
