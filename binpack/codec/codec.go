// Package codec provides whole-file compression for binpack files.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	kgzip "github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Codec provides compression and decompression functionality.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

var (
	None Codec = noneCodec{}
	Zstd Codec = zstdCodec{}
	Gzip Codec = gzipCodec{}
)

// ForPath picks the codec by the extension of name, None when it has no
// known compression suffix.
func ForPath(name string) Codec {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch ext {
	case Zstd.Extension(), "zstd":
		return Zstd
	case Gzip.Extension():
		return Gzip
	}
	return None
}

// ByName resolves "none", "zstd" or "gzip".
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "none", "raw":
		return None, nil
	case "zstd", "zst":
		return Zstd, nil
	case "gzip", "gz":
		return Gzip, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

type noneCodec struct{}

func (noneCodec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

func (noneCodec) Writer(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noneCodec) Extension() string { return "" }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type zstdCodec struct{}

func (zstdCodec) Reader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return dec.IOReadCloser(), nil
}

func (zstdCodec) Writer(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return enc, nil
}

func (zstdCodec) Extension() string { return "zst" }

type gzipCodec struct{}

func (gzipCodec) Reader(r io.Reader) (io.ReadCloser, error) {
	zr, err := kgzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	return zr, nil
}

func (gzipCodec) Writer(w io.Writer) (io.WriteCloser, error) {
	return kgzip.NewWriter(w), nil
}

func (gzipCodec) Extension() string { return "gz" }
