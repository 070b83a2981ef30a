package local

import (
	"os"
	"path/filepath"
	"time"
)

// NativeOps lists the filesystem primitives an entry forwards to directly.
// Methods keep the argument order of the underlying call:
//
//   - path first: AccessTime, ModTime, ChangeTime, Readlink, Executable,
//     Readable, Writable, Truncate
//   - arguments then path: Symlink, Link
//   - leading argument, path, arguments: Chtimes
//   - no path: Join
type NativeOps interface {
	AccessTime(path string) (time.Time, error)
	ModTime(path string) (time.Time, error)
	ChangeTime(path string) (time.Time, error)
	Readlink(path string) (string, error)
	Executable(path string) bool
	Readable(path string) bool
	Writable(path string) bool
	Truncate(path string, size int64) error

	Symlink(target, path string) error
	Link(target, path string) error

	Chtimes(atime time.Time, path string, mtime time.Time) error

	Join(elems ...string) string
}

// OS implements NativeOps with the host's primitives
type OS struct{}

var _ NativeOps = OS{}

func (OS) AccessTime(path string) (time.Time, error) { return accessTime(path) }

func (OS) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (OS) ChangeTime(path string) (time.Time, error) { return changeTime(path) }

func (OS) Readlink(path string) (string, error) { return os.Readlink(path) }

func (OS) Executable(path string) bool { return accessible(path, accessExecute) }

func (OS) Readable(path string) bool { return accessible(path, accessRead) }

func (OS) Writable(path string) bool { return accessible(path, accessWrite) }

func (OS) Truncate(path string, size int64) error { return os.Truncate(path, size) }

func (OS) Symlink(target, path string) error { return os.Symlink(target, path) }

func (OS) Link(target, path string) error { return os.Link(target, path) }

func (OS) Chtimes(atime time.Time, path string, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}

func (OS) Join(elems ...string) string { return filepath.Join(elems...) }

// Join joins path elements with the backend's native primitives
func (b *Backend) Join(elems ...string) string {
	return b.native.Join(elems...)
}
