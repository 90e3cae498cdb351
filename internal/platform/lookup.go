// Package platform resolves the ownership and device metadata that the
// archive header records for a file.
package platform

import (
	"os/user"
	"strconv"
)

// UserName resolves a numeric user ID to its account name.
func UserName(uid int) (string, error) {
	u, err := user.LookupId(strconv.Itoa(uid))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// GroupName resolves a numeric group ID to its group name.
func GroupName(gid int) (string, error) {
	g, err := user.LookupGroupId(strconv.Itoa(gid))
	if err != nil {
		return "", err
	}
	return g.Name, nil
}
