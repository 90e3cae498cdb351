//go:build !unix

package platform

import "io/fs"

// FileOwner returns zero UID/GID on non-Unix systems.
func FileOwner(info fs.FileInfo) (uid, gid int) {
	return 0, 0
}

// Device returns zero device numbers on non-Unix systems.
func Device(info fs.FileInfo) (major, minor uint32) {
	return 0, 0
}
