// Command minitar creates, lists, appends to, updates and extracts archives.
//
// Usage:
//
//	minitar -c|-a|-t|-u|-x -f ARCHIVE [-C DIR] [-v] [-k] [-o names|yaml] [FILE...]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/smira/flag"

	"github.com/meigma/minitar"
)

// errUsage marks command line mistakes.
var errUsage = errors.New("usage error")

type config struct {
	create  bool
	append  bool
	list    bool
	update  bool
	extract bool
	archive string
	dir     string
	verbose bool
	keep    bool
	output  string
	debug   bool
	files   []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "minitar: %v\n", err)
		}
		return 1
	}

	level := slog.LevelWarn
	if cfg.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := dispatch(ctx, cfg, logger, stdout); err != nil {
		fmt.Fprintf(stderr, "minitar: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	var cfg config
	fs := flag.NewFlagSet("minitar", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.create, "c", false, "create a new archive")
	fs.BoolVar(&cfg.append, "a", false, "append files to an existing archive")
	fs.BoolVar(&cfg.list, "t", false, "list archive contents")
	fs.BoolVar(&cfg.update, "u", false, "append new copies of files already in the archive")
	fs.BoolVar(&cfg.extract, "x", false, "extract archive contents")
	fs.StringVar(&cfg.archive, "f", "", "archive file")
	fs.StringVar(&cfg.dir, "C", "", "source directory for -c/-a/-u, destination for -x")
	fs.BoolVar(&cfg.verbose, "v", false, "print names as they are processed; long listing with -t")
	fs.BoolVar(&cfg.keep, "k", false, "keep existing files when extracting")
	fs.StringVar(&cfg.output, "o", "names", "list output format: names or yaml")
	fs.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	if err := fs.Parse(args, true); err != nil {
		return nil, err
	}
	cfg.files = fs.Args()

	modes := 0
	for _, set := range []bool{cfg.create, cfg.append, cfg.list, cfg.update, cfg.extract} {
		if set {
			modes++
		}
	}
	switch {
	case modes != 1:
		fs.PrintDefaults()
		return nil, fmt.Errorf("%w: exactly one of -c, -a, -t, -u, -x is required", errUsage)
	case cfg.archive == "":
		return nil, fmt.Errorf("%w: -f ARCHIVE is required", errUsage)
	case cfg.output != "names" && cfg.output != "yaml":
		return nil, fmt.Errorf("%w: unknown output format %q", errUsage, cfg.output)
	}
	return &cfg, nil
}

func dispatch(ctx context.Context, cfg *config, logger *slog.Logger, stdout io.Writer) error {
	writeOpts := []minitar.WriteOption{
		minitar.WriteWithLogger(logger),
		minitar.WriteWithDir(cfg.dir),
	}
	if cfg.verbose {
		writeOpts = append(writeOpts, minitar.WriteWithProgress(printNames(stdout, minitar.StageWriting)))
	}

	switch {
	case cfg.create:
		return minitar.Create(ctx, cfg.archive, cfg.files, writeOpts...)
	case cfg.append:
		return minitar.Append(ctx, cfg.archive, cfg.files, writeOpts...)
	case cfg.update:
		return minitar.Update(ctx, cfg.archive, cfg.files, writeOpts...)
	case cfg.list:
		return list(ctx, cfg, logger, stdout)
	default:
		extractOpts := []minitar.ExtractOption{
			minitar.ExtractWithLogger(logger),
			minitar.ExtractWithKeepExisting(cfg.keep),
			minitar.ExtractWithNames(cfg.files...),
		}
		if cfg.verbose {
			extractOpts = append(extractOpts, minitar.ExtractWithProgress(printNames(stdout, minitar.StageExtracting)))
		}
		_, err := minitar.Extract(ctx, cfg.archive, cfg.dir, extractOpts...)
		return err
	}
}

// printNames returns a progress callback that prints each entry name
// reported for stage.
func printNames(w io.Writer, stage minitar.ProgressStage) minitar.ProgressFunc {
	return func(ev minitar.ProgressEvent) {
		if ev.Stage == stage && ev.Name != "" {
			fmt.Fprintln(w, ev.Name)
		}
	}
}
