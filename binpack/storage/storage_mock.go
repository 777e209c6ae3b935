package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/opencontainers/go-digest"
)

// MockStorage is a simple in-memory Storage implementation for tests.
type MockStorage struct {
	mu      sync.RWMutex
	files   map[string][]byte
	digests map[string]digest.Digest
}

// NewMockStorage constructs an empty MockStorage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		files:   make(map[string][]byte),
		digests: make(map[string]digest.Digest),
	}
}

// List returns descriptors for all stored files, sorted by name.
func (m *MockStorage) List(ctx context.Context) ([]FileDescriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	descs := make([]FileDescriptor, 0, len(m.files))
	for name, data := range m.files {
		descs = append(descs, FileDescriptor{
			Name:   name,
			Size:   int64(len(data)),
			Digest: m.digests[name],
		})
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })
	return descs, nil
}

// Open returns a reader over a snapshot of the file.
func (m *MockStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("mock storage: file not found: %s", name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create returns a writer whose content becomes visible when it is closed.
func (m *MockStorage) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	return &mockFileWriter{storage: m, name: name}, nil
}

// AddFile stores data under name and returns its digest.
func (m *MockStorage) AddFile(name string, data []byte) digest.Digest {
	m.mu.Lock()
	defer m.mu.Unlock()

	dgst := digest.FromBytes(data)
	m.files[name] = append([]byte(nil), data...)
	m.digests[name] = dgst
	return dgst
}

// Bytes returns a copy of the stored file.
func (m *MockStorage) Bytes(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

type mockFileWriter struct {
	storage *MockStorage
	name    string
	buf     bytes.Buffer
	closed  bool
}

func (w *mockFileWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("mock storage: write to closed file %s", w.name)
	}
	return w.buf.Write(p)
}

func (w *mockFileWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.storage.AddFile(w.name, w.buf.Bytes())
	return nil
}
