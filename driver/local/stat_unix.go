//go:build unix

package local

import (
	"os"
	"os/user"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	accessRead    = unix.R_OK
	accessWrite   = unix.W_OK
	accessExecute = unix.X_OK
)

func accessible(path string, mode uint32) bool {
	return unix.Access(path, mode) == nil
}

// ownership resolves the owner and group names of a file, falling back to
// the numeric ids when they have no name.
func ownership(info os.FileInfo) (owner, group string) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", ""
	}

	uid := strconv.FormatUint(uint64(stat.Uid), 10)
	gid := strconv.FormatUint(uint64(stat.Gid), 10)

	owner = uid
	if u, err := user.LookupId(uid); err == nil {
		owner = u.Username
	}
	group = gid
	if g, err := user.LookupGroupId(gid); err == nil {
		group = g.Name
	}
	return owner, group
}
