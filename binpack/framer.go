package binpack

import (
	"encoding/binary"
	"fmt"
	"io"

	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
)

const (
	chunkMagic      = "BINP"
	chunkHeaderSize = 8

	// MaxChunkSize is the largest chunk body a reader accepts.
	MaxChunkSize = 100 << 20
	// SuggestedChunkSize is the body size at which a writer emits a chunk.
	SuggestedChunkSize = 1 << 20
)

func appendChunkHeader(dst []byte, size int) []byte {
	dst = append(dst, chunkMagic...)
	return binary.LittleEndian.AppendUint32(dst, uint32(size))
}

// parseChunkHeader validates a header read at offset and returns the body
// size it declares.
func parseChunkHeader(h []byte, offset int64, maxSize int) (int, error) {
	if string(h[0:4]) != chunkMagic {
		return 0, binpackerrors.NewCorruptChunkError(offset, fmt.Sprintf("bad magic %q", h[0:4]))
	}
	size := binary.LittleEndian.Uint32(h[4:8])
	if uint64(size) > uint64(maxSize) {
		return 0, binpackerrors.ErrCorruptChunk.
			WithDetail("chunkOffset", offset).
			WithDetail("size", size).
			WithMessage("corrupt chunk: declared size exceeds the maximum")
	}
	return int(size), nil
}

// readChunk reads one chunk from r into buf, reusing its capacity. It
// returns io.EOF when r ends exactly at a chunk boundary.
func readChunk(r io.Reader, buf []byte, offset int64, maxSize int) ([]byte, error) {
	var header [chunkHeaderSize]byte
	n, err := io.ReadFull(r, header[:])
	switch {
	case err == io.EOF:
		return buf[:0], io.EOF
	case err == io.ErrUnexpectedEOF:
		return buf[:0], binpackerrors.NewUnexpectedEOFError(offset, chunkHeaderSize, n)
	case err != nil:
		return buf[:0], fmt.Errorf("read chunk header at %d: %w", offset, err)
	}

	size, err := parseChunkHeader(header[:], offset, maxSize)
	if err != nil {
		return buf[:0], err
	}

	if cap(buf) < size {
		buf = make([]byte, size)
	}
	buf = buf[:size]
	n, err = io.ReadFull(r, buf)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return buf[:0], binpackerrors.NewUnexpectedEOFError(offset+chunkHeaderSize, size, n)
	case err != nil:
		return buf[:0], fmt.Errorf("read chunk body at %d: %w", offset+chunkHeaderSize, err)
	}
	return buf, nil
}
