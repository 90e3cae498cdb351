package header

import (
	"fmt"
	"os"
	"time"

	"github.com/meigma/minitar/internal/platform"
	"github.com/meigma/minitar/internal/tartype"
)

// Stat inspects the file at path and returns the metadata for storing it
// under name. Symbolic links are followed, like stat(2).
//
// A uid or gid with no name is a hard failure; the header never falls back
// to numeric-only ownership.
func Stat(path, name string) (*tartype.Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", tartype.ErrStat, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", tartype.ErrNotRegular, path)
	}

	uid, gid := platform.FileOwner(info)
	uname, err := platform.UserName(uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: uid %d: %w", tartype.ErrOwnerLookup, path, uid, err)
	}
	gname, err := platform.GroupName(gid)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: gid %d: %w", tartype.ErrGroupLookup, path, gid, err)
	}
	major, minor := platform.Device(info)

	return &tartype.Entry{
		Name:     name,
		Mode:     info.Mode() & (os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky),
		UID:      uid,
		GID:      gid,
		Size:     info.Size(),
		ModTime:  info.ModTime().Truncate(time.Second),
		Typeflag: tartype.TypeReg,
		Uname:    uname,
		Gname:    gname,
		DevMajor: major,
		DevMinor: minor,
	}, nil
}
