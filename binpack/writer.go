package binpack

import (
	"bufio"
	"context"
	"fmt"
	"io"

	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
	"github.com/flaneur2020/binpack/binpack/logger"
	"github.com/flaneur2020/binpack/binpack/storage"
	"github.com/opencontainers/go-digest"
)

var writeLog = logger.Named("writer")

// WriterStats counts what a Writer has emitted.
type WriterStats struct {
	Chains  int64
	Entries int64
	Chunks  int64
	Bytes   int64
}

// Writer encodes entries into a binpack stream. Consecutive entries that
// continue each other share a chain; chunks only ever hold whole chains.
// A Writer is not safe for concurrent use.
type Writer struct {
	bw       *bufio.Writer
	closer   io.Closer
	digester digest.Digester
	opts     options

	enc    *chainEncoder
	header []byte
	stats  WriterStats
	err    error
	closed bool
}

// Create creates a binpack file on the local filesystem. A .zst or .gz
// suffix compresses the whole file.
func Create(path string, opts ...Option) (*Writer, error) {
	return CreateFile(context.Background(), storage.NewLocalStorage(""), path, opts...)
}

// CreateFile creates name in st. Closing the Writer closes the file.
func CreateFile(ctx context.Context, st storage.Storage, name string, opts ...Option) (*Writer, error) {
	wc, err := st.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	w := NewWriter(wc, opts...)
	w.closer = wc
	return w, nil
}

// NewWriter encodes entries to dst. dst is not closed by Close.
func NewWriter(dst io.Writer, opts ...Option) *Writer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	digester := digest.Canonical.Digester()
	return &Writer{
		bw:       bufio.NewWriter(io.MultiWriter(dst, digester.Hash())),
		digester: digester,
		opts:     o,
		enc:      newChainEncoder(),
	}
}

func (w *Writer) check() error {
	if w.closed {
		return binpackerrors.ErrWriterClosed
	}
	return w.err
}

// WriteEntry appends e, continuing the open chain when e follows from the
// previous entry and starting a new chain otherwise.
func (w *Writer) WriteEntry(e Entry) error {
	if err := w.check(); err != nil {
		return err
	}
	if err := validateEntry(e); err != nil {
		return err
	}
	return w.write(e)
}

// WriteChain appends entries in order. Every entry is validated before any
// of them is buffered, so a rejected call leaves the stream untouched.
func (w *Writer) WriteChain(entries []Entry) error {
	if err := w.check(); err != nil {
		return err
	}
	for i, e := range entries {
		if err := validateEntry(e); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	for _, e := range entries {
		if err := w.write(e); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) write(e Entry) error {
	if w.enc.canContinue(e) {
		if err := w.enc.continueWith(e); err != nil {
			return err
		}
		w.stats.Entries++
		return nil
	}

	w.enc.close()
	if len(w.enc.buf) >= w.opts.chunkSize {
		if err := w.emit(w.enc.take()); err != nil {
			return err
		}
	}
	if err := w.enc.start(e); err != nil {
		return err
	}
	w.stats.Chains++
	w.stats.Entries++
	return nil
}

// emit writes one chunk. Errors from the sink are sticky.
func (w *Writer) emit(body []byte) error {
	if len(body) == 0 {
		return nil
	}
	w.header = appendChunkHeader(w.header[:0], len(body))
	if _, err := w.bw.Write(w.header); err != nil {
		w.err = fmt.Errorf("write chunk header: %w", err)
		return w.err
	}
	if _, err := w.bw.Write(body); err != nil {
		w.err = fmt.Errorf("write chunk body: %w", err)
		return w.err
	}
	w.stats.Chunks++
	w.stats.Bytes += int64(len(w.header) + len(body))
	writeLog.Debug("wrote chunk %d, %d bytes", w.stats.Chunks, len(body))
	return nil
}

// Flush closes the open chain, emits everything buffered as a chunk and
// flushes the sink. Entries written afterwards start a new chain.
func (w *Writer) Flush() error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.emit(w.enc.take()); err != nil {
		return err
	}
	if err := w.bw.Flush(); err != nil {
		w.err = fmt.Errorf("flush: %w", err)
		return w.err
	}
	return nil
}

// Close flushes and releases the sink. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	err := w.Flush()
	w.closed = true
	if w.closer != nil {
		if cerr := w.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
		w.closer = nil
	}
	writeLog.Debug("closed: %d chains, %d entries, %d chunks, %d bytes",
		w.stats.Chains, w.stats.Entries, w.stats.Chunks, w.stats.Bytes)
	return err
}

// Digest returns the digest of every byte emitted so far. Call it after
// Flush or Close to cover the whole stream.
func (w *Writer) Digest() digest.Digest {
	return w.digester.Digest()
}

// Stats returns what has been written so far.
func (w *Writer) Stats() WriterStats {
	return w.stats
}
