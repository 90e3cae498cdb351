package minitar

import "log/slog"

// extractConfig holds configuration for Extract.
type extractConfig struct {
	names         []string
	keepExisting  bool
	preserveMode  bool
	preserveTimes bool
	directWrites  bool
	logger        *slog.Logger
	progress      ProgressFunc
}

// ExtractOption configures Extract.
type ExtractOption func(*extractConfig)

// ExtractWithNames restricts extraction to entries stored under these
// names. Names that are not in the archive fail the extraction with
// ErrNotSubset after every matching entry has been written.
func ExtractWithNames(names ...string) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.names = append(cfg.names, names...)
	}
}

// ExtractWithKeepExisting skips entries whose destination already exists.
// By default, existing files are replaced.
func ExtractWithKeepExisting(keep bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.keepExisting = keep
	}
}

// ExtractWithPreserveMode controls whether stored permission bits are
// applied (default: true).
func ExtractWithPreserveMode(preserve bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.preserveMode = preserve
	}
}

// ExtractWithPreserveTimes controls whether stored modification times are
// applied (default: true).
func ExtractWithPreserveTimes(preserve bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.preserveTimes = preserve
	}
}

// ExtractWithDirectWrites writes entries straight to their final paths
// instead of a temp file renamed into place. It saves a rename per file, but
// a failed entry can leave partial content behind and an existing file is
// truncated before its replacement is written.
func ExtractWithDirectWrites(enabled bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.directWrites = enabled
	}
}

// ExtractWithLogger sets the logger for extraction.
// If not set, logging is disabled.
func ExtractWithLogger(logger *slog.Logger) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.logger = logger
	}
}

// ExtractWithProgress sets a callback invoked after each entry is extracted.
func ExtractWithProgress(fn ProgressFunc) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.progress = fn
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (cfg *extractConfig) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.logger
}
