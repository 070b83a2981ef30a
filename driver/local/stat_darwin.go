//go:build darwin

package local

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

func stat(path string) (*unix.Stat_t, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return &st, nil
}

func accessTime(path string) (time.Time, error) {
	st, err := stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(st.Atim.Unix()), nil
}

func changeTime(path string) (time.Time, error) {
	st, err := stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(st.Ctim.Unix()), nil
}

// birthTime extracts the creation time on macOS.
func birthTime(path string, _ os.FileInfo) time.Time {
	st, err := stat(path)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(st.Btim.Unix())
}
