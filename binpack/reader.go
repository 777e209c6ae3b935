package binpack

import (
	"context"
	"io"
	"iter"

	"github.com/flaneur2020/binpack/binpack/logger"
	"github.com/flaneur2020/binpack/binpack/storage"
)

// ProgressCallback is called while reading with the number of source bytes
// consumed so far and the total size (-1 if unknown).
type ProgressCallback func(current int64, total int64)

var readLog = logger.Named("reader")

type readerState int

const (
	stateIdle readerState = iota
	stateChunkHeader
	stateChain
	stateEOF
)

// Reader decodes entries from a binpack stream. A Reader is not safe for
// concurrent use.
type Reader struct {
	src    *progressReader
	closer io.Closer
	opts   options

	state   readerState
	dec     chainDecoder
	chunk   []byte
	offset  int64 // source offset of the next chunk header
	chunks  int
	entries int64

	err         error
	errReported bool
}

// Open opens a binpack file on the local filesystem.
func Open(path string) (*Reader, error) {
	return OpenFile(context.Background(), storage.NewLocalStorage(""), path)
}

// OpenFile opens name from st. Closing the Reader closes the file.
func OpenFile(ctx context.Context, st storage.Storage, name string, opts ...Option) (*Reader, error) {
	rc, err := st.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	r := NewReader(rc, opts...)
	r.closer = rc
	return r, nil
}

// NewReader decodes entries from src. If src is an io.Closer it is not
// closed by Close; use OpenFile for that.
func NewReader(src io.Reader, opts ...Option) *Reader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Reader{
		src:   &progressReader{reader: src, total: o.progressTotal, callback: o.progress},
		opts:  o,
		state: stateIdle,
	}
}

// HasNext reports whether Next will return an entry or a not yet reported
// error. It reads the next chunk when the current one is exhausted.
func (r *Reader) HasNext() bool {
	if r.err != nil {
		return !r.errReported
	}
	for {
		switch r.state {
		case stateChain:
			if r.dec.more() {
				return true
			}
			r.state = stateChunkHeader
		case stateIdle, stateChunkHeader:
			r.loadChunk()
			if r.err != nil {
				return true
			}
		case stateEOF:
			return false
		}
	}
}

func (r *Reader) loadChunk() {
	buf, err := readChunk(r.src, r.chunk, r.offset, r.opts.maxChunkSize)
	if err == io.EOF {
		readLog.Debug("end of stream after %d chunks, %d entries", r.chunks, r.entries)
		r.state = stateEOF
		return
	}
	if err != nil {
		r.fail(err)
		return
	}
	r.chunk = buf
	r.dec.reset(buf, r.offset+chunkHeaderSize)
	r.offset += chunkHeaderSize + int64(len(buf))
	r.chunks++
	r.state = stateChain
	readLog.Debug("chunk %d, %d bytes", r.chunks, len(buf))
}

func (r *Reader) fail(err error) {
	r.err = err
	r.errReported = false
	readLog.Debug("read failed at offset %d: %v", r.offset, err)
}

// Next returns the next entry. Once an error occurs every later call
// returns it again. At the end of the stream Next returns io.EOF.
func (r *Reader) Next() (Entry, error) {
	if !r.HasNext() {
		if r.err != nil {
			return Entry{}, r.err
		}
		return Entry{}, io.EOF
	}
	if r.err != nil {
		r.errReported = true
		return Entry{}, r.err
	}

	e, err := r.dec.next()
	if err != nil {
		r.fail(err)
		r.errReported = true
		return Entry{}, err
	}
	r.entries++
	return e, nil
}

// All iterates over the remaining entries. Iteration stops after the first
// error, which is yielded with a zero Entry.
func (r *Reader) All() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for r.HasNext() {
			e, err := r.Next()
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

// IsNextContinuation reports whether the next entry continues the chain of
// the last one returned.
func (r *Reader) IsNextContinuation() bool {
	return r.err == nil && r.state == stateChain && r.dec.continuing()
}

// ReadBytes returns the number of source bytes consumed so far.
func (r *Reader) ReadBytes() int64 {
	return r.src.current
}

// Chunks returns the number of chunks read so far.
func (r *Reader) Chunks() int {
	return r.chunks
}

// Err returns the sticky error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying file when the Reader owns one. It is safe
// to call more than once.
func (r *Reader) Close() error {
	r.state = stateEOF
	if r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	return c.Close()
}

// progressReader wraps an io.Reader to count bytes and report progress.
type progressReader struct {
	reader   io.Reader
	current  int64
	total    int64
	callback ProgressCallback
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.current += int64(n)
	if pr.callback != nil && n > 0 {
		pr.callback(pr.current, pr.total)
	}
	return n, err
}
