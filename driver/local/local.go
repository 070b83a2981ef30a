package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobeaver/ufs"
)

// Backend provides the local filesystem implementation of ufs.Backend
type Backend struct {
	root   string
	runner Runner
	native NativeOps
}

// BackendOption configures a Backend
type BackendOption func(*Backend)

// WithRunner replaces the command runner used for privileged operations
func WithRunner(r Runner) BackendOption {
	return func(b *Backend) {
		b.runner = r
	}
}

// WithNativeOps replaces the native filesystem primitives
func WithNativeOps(n NativeOps) BackendOption {
	return func(b *Backend) {
		b.native = n
	}
}

// New creates a new local backend. Relative paths resolve against root, or
// against the working directory when root is empty.
func New(root string, opts ...BackendOption) (*Backend, error) {
	b := &Backend{
		runner: ExecRunner{},
		native: OS{},
	}

	if root != "" {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}

		// Ensure the root directory exists
		if err := os.MkdirAll(absRoot, 0755); err != nil {
			return nil, err
		}
		b.root = absRoot
	}

	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Name implements ufs.Backend
func (b *Backend) Name() string { return "local" }

// Router implements ufs.Backend. "create" and "<<" are claimed by both File
// and Dir, so they are revoked and only reachable through Open.
func (b *Backend) Router() *ufs.Router { return routes() }

var routes = sync.OnceValue(func() *ufs.Router {
	r := ufs.NewRouter()
	for _, op := range []string{
		ufs.OpTouch, ufs.OpCreate, ufs.OpAppend, ufs.OpAppendOrCreate, ufs.OpWrite,
		ufs.OpRead, ufs.OpReadBytes, ufs.OpReadLine, ufs.OpWriteLine,
	} {
		_ = r.Register(op, ufs.KindFile)
	}
	for _, op := range []string{ufs.OpMkdir, ufs.OpCreate, ufs.OpAppend, ufs.OpList} {
		_ = r.Register(op, ufs.KindDirectory)
	}
	return r
})

// Path implements ufs.Backend
func (b *Backend) Path(raw string) ufs.Path {
	if b.root == "" || filepath.IsAbs(raw) || strings.HasPrefix(raw, "~") {
		return ufs.NewPath(raw)
	}
	return ufs.NewPath(b.root, raw)
}

// Open implements ufs.Backend
func (b *Backend) Open(kind ufs.Kind, p ufs.Path) (ufs.Entry, error) {
	switch kind {
	case ufs.KindFile:
		return b.File(p), nil
	case ufs.KindDirectory:
		return b.Dir(p), nil
	default:
		return nil, fmt.Errorf("%w: local backend has no %s entries", ufs.ErrUnsupported, kind)
	}
}

// File returns the file at p
func (b *Backend) File(p ufs.Path) *File {
	return &File{entry: entry{b: b, path: p}}
}

// Dir returns the directory at p
func (b *Backend) Dir(p ufs.Path) *Dir {
	return &Dir{entry: entry{b: b, path: p}}
}

// Infer implements ufs.KindInferrer. Existing directories are directories;
// everything else, including missing paths, is treated as a file.
func (b *Backend) Infer(ctx context.Context, p ufs.Path) (ufs.Kind, bool) {
	if p.IsZero() {
		return ufs.KindUnknown, false
	}
	if info, err := os.Stat(p.OS()); err == nil && info.IsDir() {
		return ufs.KindDirectory, true
	}
	return ufs.KindFile, true
}

// checkContext returns the context error once ctx is done
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// pathErr classifies an OS error under class, keeping not-exist and exist
// conditions visible to ufs.IsNotExist and ufs.IsExist.
func pathErr(op string, p ufs.Path, class, err error) error {
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !errors.Is(err, ufs.ErrNotExist):
		err = fmt.Errorf("%w: %w", ufs.ErrNotExist, err)
	case errors.Is(err, fs.ErrExist) && !errors.Is(err, ufs.ErrExist):
		err = fmt.Errorf("%w: %w", ufs.ErrExist, err)
	}
	return ufs.NewPathError(op, p.String(), class, err)
}
