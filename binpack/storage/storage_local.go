package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flaneur2020/binpack/binpack/codec"
	"github.com/flaneur2020/binpack/binpack/logger"
)

var localLog = logger.Named("storage")

// LocalStorage serves files below a root directory. Files ending in .zst or
// .gz are decompressed on open and compressed on create.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates a storage rooted at dir. An empty dir resolves
// names against the working directory.
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{root: dir}
}

func (s *LocalStorage) path(name string) string {
	if s.root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.root, name)
}

// List returns every regular file below the root whose name looks like a
// binpack file, sorted by name.
func (s *LocalStorage) List(ctx context.Context) ([]FileDescriptor, error) {
	root := s.root
	if root == "" {
		root = "."
	}

	var descs []FileDescriptor
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !IsBinpackName(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		descs = append(descs, FileDescriptor{Name: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}

	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })
	return descs, nil
}

// IsBinpackName reports whether name has a .binpack extension, optionally
// followed by a compression suffix.
func IsBinpackName(name string) bool {
	name = strings.ToLower(name)
	if ext := codec.ForPath(name).Extension(); ext != "" {
		name = strings.TrimSuffix(name, "."+ext)
		name = strings.TrimSuffix(name, ".zstd")
	}
	return strings.HasSuffix(name, ".binpack")
}

// Open opens name for reading, decompressing it when its extension asks for
// it.
func (s *LocalStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path := s.path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	c := codec.ForPath(name)
	r, err := c.Reader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	localLog.Debug("opened %s (codec=%q)", path, c.Extension())
	return &stackedReadCloser{Reader: r, closers: []io.Closer{r, f}}, nil
}

// Create truncates or creates name, compressing it when its extension asks
// for it. Parent directories are created as needed.
func (s *LocalStorage) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	path := s.path(name)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	c := codec.ForPath(name)
	w, err := c.Writer(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	localLog.Debug("created %s (codec=%q)", path, c.Extension())
	return &stackedWriteCloser{Writer: w, closers: []io.Closer{w, f}}, nil
}

// stackedReadCloser closes a decompressor and then the file beneath it.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	return closeAll(s.closers)
}

type stackedWriteCloser struct {
	io.Writer
	closers []io.Closer
}

func (s *stackedWriteCloser) Close() error {
	return closeAll(s.closers)
}

func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
