package minitar

import (
	"log/slog"
	"path/filepath"
	"runtime"
)

// ChangeDetection controls how strictly file changes are detected while
// entries are written.
type ChangeDetection uint8

const (
	ChangeDetectionNone ChangeDetection = iota
	ChangeDetectionStrict
)

// writeConfig holds configuration for Writer, Create, Append and Update.
type writeConfig struct {
	logger          *slog.Logger
	progress        ProgressFunc
	dir             string
	changeDetection ChangeDetection
	concurrency     int
}

// WriteOption configures archive writing.
type WriteOption func(*writeConfig)

// WriteWithLogger sets the logger for write operations.
// If not set, logging is disabled.
func WriteWithLogger(logger *slog.Logger) WriteOption {
	return func(cfg *writeConfig) {
		cfg.logger = logger
	}
}

// WriteWithProgress sets a callback invoked after each entry is written.
func WriteWithProgress(fn ProgressFunc) WriteOption {
	return func(cfg *writeConfig) {
		cfg.progress = fn
	}
}

// WriteWithDir resolves file names relative to dir instead of the working
// directory. Entries are still stored under the names as given.
func WriteWithDir(dir string) WriteOption {
	return func(cfg *writeConfig) {
		cfg.dir = dir
	}
}

// WriteWithChangeDetection controls whether the writer verifies files did
// not change while being archived. The zero value disables the check to
// reduce syscalls; ChangeDetectionStrict re-stats every file after copying.
func WriteWithChangeDetection(cd ChangeDetection) WriteOption {
	return func(cfg *writeConfig) {
		cfg.changeDetection = cd
	}
}

// WriteWithConcurrency sets how many headers are resolved in parallel
// before writing starts. Zero uses GOMAXPROCS; values below zero resolve
// serially.
func WriteWithConcurrency(n int) WriteOption {
	return func(cfg *writeConfig) {
		cfg.concurrency = n
	}
}

func newWriteConfig(opts []WriteOption) writeConfig {
	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// log returns the logger, falling back to a discard logger if nil.
func (cfg *writeConfig) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.logger
}

// workers returns the preflight concurrency limit.
func (cfg *writeConfig) workers() int {
	switch {
	case cfg.concurrency < 0:
		return 1
	case cfg.concurrency == 0:
		return runtime.GOMAXPROCS(0)
	default:
		return cfg.concurrency
	}
}

// sourcePath returns the filesystem path for a stored name.
func (cfg *writeConfig) sourcePath(name string) string {
	if cfg.dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cfg.dir, name)
}

// reportProgress sends a progress event if a callback is configured.
func (cfg *writeConfig) reportProgress(stage ProgressStage, name string, bytesDone uint64, filesDone, filesTotal int) {
	if cfg.progress == nil {
		return
	}
	cfg.progress(ProgressEvent{
		Stage:      stage,
		Name:       name,
		BytesDone:  bytesDone,
		FilesDone:  filesDone,
		FilesTotal: filesTotal,
	})
}
