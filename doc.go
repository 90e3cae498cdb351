// Package minitar reads and writes archives in the POSIX ustar layout.
//
// An archive is a sequence of entries, each a 512-byte header block followed
// by the file content padded with zeros to a 512-byte boundary, and ends
// with two all-zero blocks (the footer). Only regular files are stored.
//
// # Writing
//
// Create writes a new archive; Append removes the footer of an existing
// archive, adds entries after the last one and writes a new footer; Update
// appends fresh copies of files that are already in the archive:
//
//	err := minitar.Create(ctx, "out.tar", []string{"a.txt", "b.txt"})
//	err = minitar.Append(ctx, "out.tar", []string{"c.txt"})
//	err = minitar.Update(ctx, "out.tar", []string{"a.txt"})
//
// Headers for all named files are resolved before the archive is touched, so
// a missing or unreadable file leaves an existing archive intact.
//
// # Reading
//
// List and Entries walk the headers; Extract writes entries below a
// directory, refusing names that would escape it:
//
//	names, err := minitar.List(ctx, "out.tar")
//	stats, err := minitar.Extract(ctx, "out.tar", "dest")
//
// Reader and Writer expose the same engine over arbitrary streams.
package minitar
