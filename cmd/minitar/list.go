package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/meigma/minitar"
)

// listedEntry is the yaml form of one archive entry.
type listedEntry struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	UID     int    `yaml:"uid"`
	GID     int    `yaml:"gid"`
	Uname   string `yaml:"uname"`
	Gname   string `yaml:"gname"`
	Size    int64  `yaml:"size"`
	ModTime string `yaml:"mtime"`
	Offset  int64  `yaml:"offset"`
}

func list(ctx context.Context, cfg *config, logger *slog.Logger, stdout io.Writer) error {
	entries, err := minitar.Entries(ctx, cfg.archive, minitar.ReadWithLogger(logger))
	if err != nil {
		return err
	}

	if cfg.output == "yaml" {
		out := make([]listedEntry, 0, len(entries))
		for i := range entries {
			e := &entries[i]
			out = append(out, listedEntry{
				Name:    e.Name,
				Mode:    fmt.Sprintf("%04o", e.Mode.Perm()),
				UID:     e.UID,
				GID:     e.GID,
				Uname:   e.Uname,
				Gname:   e.Gname,
				Size:    e.Size,
				ModTime: e.ModTime.UTC().Format(time.RFC3339),
				Offset:  e.Offset,
			})
		}
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode listing: %w", err)
		}
		_, err = stdout.Write(data)
		return err
	}

	for i := range entries {
		e := &entries[i]
		if cfg.verbose {
			fmt.Fprintf(stdout, "%s %s/%s %8d %s %s\n",
				e.Mode.String(), e.Uname, e.Gname, e.Size,
				e.ModTime.Format("2006-01-02 15:04"), e.Name)
			continue
		}
		fmt.Fprintln(stdout, e.Name)
	}
	return nil
}
