package storage

import (
	"context"
	"io"

	"github.com/opencontainers/go-digest"
)

// FileDescriptor describes a binpack file available from storage.
type FileDescriptor struct {
	Name string
	Size int64
	// Digest is set when the storage knows it without reading the file.
	Digest digest.Digest
}

// Storage abstracts where binpack files live. Readers and writers returned
// here carry plain binpack bytes; any whole-file compression is handled by
// the implementation.
type Storage interface {
	List(ctx context.Context) ([]FileDescriptor, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Create(ctx context.Context, name string) (io.WriteCloser, error)
}
