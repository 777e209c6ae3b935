package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/flaneur2020/binpack/binpack"
	"github.com/flaneur2020/binpack/binpack/codec"
	"github.com/flaneur2020/binpack/binpack/config"
	binpackerrors "github.com/flaneur2020/binpack/binpack/errors"
	"github.com/flaneur2020/binpack/binpack/logger"
	"github.com/flaneur2020/binpack/binpack/storage"
	"github.com/opencontainers/go-digest"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	noProgress bool
	workers    int
	limit      int
	cfg        *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "binpack",
		Short:             "A CLI tool for inspecting and converting binpack training files",
		PersistentPreRunE: setup,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: silent, error, warn, info, debug (overrides BINPACK_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable progress bar (progress is enabled by default)")

	// count command
	countCmd := &cobra.Command{
		Use:   "count <FILE>...",
		Short: "Count entries in one or more files, reading them in parallel",
		Args:  cobra.MinimumNArgs(1),
		Run:   runCount,
	}
	countCmd.Flags().IntVar(&workers, "workers", 0, "Number of files read concurrently (overrides BINPACK_WORKERS)")

	// dump command
	dumpCmd := &cobra.Command{
		Use:   "dump <FILE>",
		Short: "Print entries as '<fen> <move> <score> <ply> <result>' lines",
		Args:  cobra.ExactArgs(1),
		Run:   runDump,
	}
	dumpCmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many entries (0 prints everything)")

	// verify command
	verifyCmd := &cobra.Command{
		Use:   "verify <FILE>...",
		Short: "Decode every entry and report chunks, entries and the file digest",
		Args:  cobra.MinimumNArgs(1),
		Run:   runVerify,
	}

	// copy command
	copyCmd := &cobra.Command{
		Use:   "copy <INPUT> <OUTPUT>",
		Short: "Re-encode a file; a .zst or .gz output suffix compresses it",
		Args:  cobra.ExactArgs(2),
		Run:   runCopy,
	}

	rootCmd.AddCommand(countCmd, dumpCmd, verifyCmd, copyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	cfg.Apply()
	return nil
}

// fail reports err and exits. Errors from the codec carry their code and
// exit with status 2; anything else (I/O, usage) exits with 1.
func fail(showProgress bool, err error, format string, args ...interface{}) {
	if showProgress {
		fmt.Fprint(os.Stderr, "\n")
	}
	msg := err.Error()
	if format != "" {
		msg = fmt.Sprintf(format, args...) + ": " + msg
	}
	if binpackerrors.IsBinpackError(err) {
		fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", binpackerrors.GetErrorCode(err), msg)
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}

func runCount(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	showProgress := !noProgress

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(-1, fmt.Sprintf("Counting %d files", len(args)))
	}

	var seen atomic.Int64
	stats, err := binpack.Scan(ctx, storage.NewLocalStorage(""), args, cfg.Workers, func(name string, e binpack.Entry) error {
		if n := seen.Add(1); bar != nil && n%1024 == 0 {
			bar.Add(1024)
		}
		return nil
	})
	if err != nil {
		fail(showProgress, err, "")
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	for _, name := range args {
		fmt.Printf("%s: %d entries\n", name, stats.PerFile[name])
	}
	if len(args) > 1 {
		fmt.Printf("total: %d entries in %d files\n", stats.Entries, stats.Files)
	}
}

func runDump(cmd *cobra.Command, args []string) {
	if err := dumpFile(os.Stdout, args[0], limit); err != nil {
		fail(false, err, "dump %s", args[0])
	}
}

// dumpFile prints up to limit entries of path (all when limit is 0). The
// file is closed before it returns.
func dumpFile(out io.Writer, path string, limit int) error {
	r, err := binpack.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	n := 0
	for e, err := range r.All() {
		if err != nil {
			return fmt.Errorf("after %d entries: %w", n, err)
		}
		fmt.Fprintln(out, e.String())
		n++
		if limit > 0 && n >= limit {
			break
		}
	}
	return r.Close()
}

func runVerify(cmd *cobra.Command, args []string) {
	showProgress := !noProgress
	failed := 0

	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			fail(false, err, "")
		}
		raw, err := os.Open(path)
		if err != nil {
			fail(false, err, "")
		}
		dgst, err := digest.FromReader(raw)
		raw.Close()
		if err != nil {
			fail(false, err, "digest %s", path)
		}

		var opts []binpack.Option
		var bar *progressbar.ProgressBar
		// Progress is tracked on decoded bytes, which only match the file
		// size for uncompressed files.
		if showProgress && codec.ForPath(path) == codec.None {
			bar = progressbar.DefaultBytes(info.Size(), fmt.Sprintf("Verifying %s", path))
			opts = append(opts, binpack.WithProgress(info.Size(), func(current, total int64) {
				bar.Set64(current)
			}))
		}

		r, err := binpack.OpenFile(context.Background(), storage.NewLocalStorage(""), path, opts...)
		if err != nil {
			fail(showProgress, err, "")
		}
		var entries int64
		for r.HasNext() {
			if _, err = r.Next(); err != nil {
				break
			}
			entries++
		}
		r.Close()
		if bar != nil {
			bar.Finish()
			fmt.Println()
		}

		if err != nil {
			failed++
			fmt.Printf("%s: FAILED [%s] after %d entries in %d chunks: %v\n",
				path, binpackerrors.GetErrorCode(err), entries, r.Chunks(), err)
			continue
		}
		fmt.Printf("%s: OK, %d chunks, %d entries, %s\n", path, r.Chunks(), entries, dgst)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func runCopy(cmd *cobra.Command, args []string) {
	showProgress := !noProgress

	var opts []binpack.Option
	var bar *progressbar.ProgressBar
	if info, err := os.Stat(args[0]); err == nil && showProgress && codec.ForPath(args[0]) == codec.None {
		bar = progressbar.DefaultBytes(info.Size(), fmt.Sprintf("Copying %s", args[0]))
		opts = append(opts, binpack.WithProgress(info.Size(), func(current, total int64) {
			bar.Set64(current)
		}))
	}

	stats, dgst, err := copyFile(args[0], args[1], cfg.ChunkSize, opts...)
	if err != nil {
		fail(bar != nil, err, "")
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}
	fmt.Printf("Copied %d entries in %d chains (%d chunks, %d bytes before compression, %s)\n",
		stats.Entries, stats.Chains, stats.Chunks, stats.Bytes, dgst)
}

// copyFile re-encodes in into out. Both files are closed before it
// returns, whether or not the copy succeeded.
func copyFile(in, out string, chunkSize int, opts ...binpack.Option) (binpack.WriterStats, digest.Digest, error) {
	r, err := binpack.OpenFile(context.Background(), storage.NewLocalStorage(""), in, opts...)
	if err != nil {
		return binpack.WriterStats{}, "", err
	}
	defer r.Close()

	w, err := binpack.Create(out, binpack.WithChunkSize(chunkSize))
	if err != nil {
		return binpack.WriterStats{}, "", err
	}
	defer w.Close()

	for e, err := range r.All() {
		if err != nil {
			return w.Stats(), "", fmt.Errorf("read %s: %w", in, err)
		}
		if err := w.WriteEntry(e); err != nil {
			return w.Stats(), "", fmt.Errorf("write %s: %w", out, err)
		}
	}
	if err := w.Close(); err != nil {
		return w.Stats(), "", fmt.Errorf("close %s: %w", out, err)
	}
	return w.Stats(), w.Digest(), nil
}
