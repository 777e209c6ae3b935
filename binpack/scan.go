package binpack

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/flaneur2020/binpack/binpack/logger"
	"github.com/flaneur2020/binpack/binpack/storage"
	"golang.org/x/sync/errgroup"
)

var scanLog = logger.Named("scan")

// ScanFunc receives every entry of a scan. Calls for one file are
// sequential; calls for different files may run concurrently.
type ScanFunc func(name string, e Entry) error

// ScanStats summarises a scan.
type ScanStats struct {
	Files   int
	Entries int64
	Bytes   int64
	// PerFile maps each file name to its entry count.
	PerFile map[string]int64
}

// Scan reads names from st with one independent Reader per file, at most
// workers files at a time (GOMAXPROCS when workers <= 0). The first error
// cancels the remaining files and is returned with the name of the file it
// came from.
func Scan(ctx context.Context, st storage.Storage, names []string, workers int, fn ScanFunc) (*ScanStats, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	stats := &ScanStats{PerFile: make(map[string]int64, len(names))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, name := range names {
		g.Go(func() error {
			start := time.Now()
			entries, bytes, err := scanFile(gctx, st, name, fn)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			mu.Lock()
			stats.Files++
			stats.Entries += entries
			stats.Bytes += bytes
			stats.PerFile[name] = entries
			mu.Unlock()

			scanLog.Info("scanned %s: %d entries in %s", name, entries, time.Since(start).Round(time.Millisecond))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

// scanCheckInterval is how many entries pass between context checks.
const scanCheckInterval = 4096

func scanFile(ctx context.Context, st storage.Storage, name string, fn ScanFunc) (int64, int64, error) {
	r, err := OpenFile(ctx, st, name)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	var n int64
	for r.HasNext() {
		if n%scanCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return n, r.ReadBytes(), err
			}
		}
		e, err := r.Next()
		if err != nil {
			return n, r.ReadBytes(), err
		}
		if fn != nil {
			if err := fn(name, e); err != nil {
				return n, r.ReadBytes(), err
			}
		}
		n++
	}
	return n, r.ReadBytes(), nil
}
