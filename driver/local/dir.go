package local

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobeaver/ufs"
)

// Dir is a directory on the local filesystem
type Dir struct {
	entry
}

var _ ufs.Container = (*Dir)(nil)

// Kind implements ufs.Entry
func (d *Dir) Kind() ufs.Kind { return ufs.KindDirectory }

// Create implements ufs.Entry like mkdir: a missing parent fails with a
// write error unless WithRecursive is given (mkdir -p). An existing
// directory is not an error.
func (d *Dir) Create(ctx context.Context, opts ...ufs.Option) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	o := ufs.ApplyOptions(opts...)

	if info, err := d.stat(); err == nil {
		if !info.IsDir() {
			return ufs.NewPathError(ufs.OpMkdir, d.path.String(), ufs.ErrWrite, ufs.ErrExist)
		}
		d.applyAttributes(ctx, o)
		return nil
	}

	var err error
	if o.Recursive {
		err = os.MkdirAll(d.path.OS(), 0755)
	} else {
		err = os.Mkdir(d.path.OS(), 0755)
	}
	if err != nil {
		return pathErr(ufs.OpMkdir, d.path, ufs.ErrWrite, err)
	}

	d.applyAttributes(ctx, o)
	return nil
}

// Destroy implements ufs.Entry. The directory is removed with its contents.
func (d *Dir) Destroy(ctx context.Context, opts ...ufs.Option) (bool, error) {
	return d.remove(ctx, ufs.ApplyOptions(opts...), true), nil
}

// Move implements ufs.Entry. dest is the directory this one moves into.
func (d *Dir) Move(ctx context.Context, dest string, opts ...ufs.Option) error {
	return d.move(ctx, dest, opts)
}

// Size implements ufs.Entry as the total size of the files below the
// directory.
func (d *Dir) Size(ctx context.Context) (int64, bool, error) {
	if _, err := d.stat(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, pathErr(ufs.OpSize, d.path, ufs.ErrRead, err)
	}

	var total int64
	err := filepath.WalkDir(d.path.OS(), func(_ string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := checkContext(ctx); err != nil {
			return err
		}
		if de.Type().IsRegular() {
			info, err := de.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, false, pathErr(ufs.OpSize, d.path, ufs.ErrRead, err)
	}
	return total, true, nil
}

// Metadata implements ufs.Entry. Subordinates counts the contained entries
// plus "." and "..".
func (d *Dir) Metadata(ctx context.Context) ufs.Metadata {
	md, _, ok := d.metadata()
	if !ok {
		return ufs.Metadata{}
	}
	if entries, err := os.ReadDir(d.path.OS()); err == nil {
		md.Subordinates = len(entries) + 2
	}
	if size, ok, err := d.Size(ctx); ok && err == nil {
		md.Size = size
	}
	return md
}

// List implements ufs.Container. Entries are sorted by name and filtered by
// WithSelector.
func (d *Dir) List(ctx context.Context, opts ...ufs.Option) ([]ufs.Entry, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	o := ufs.ApplyOptions(opts...)

	des, err := os.ReadDir(d.path.OS())
	if err != nil {
		return nil, pathErr(ufs.OpList, d.path, ufs.ErrRead, err)
	}
	sort.Slice(des, func(i, j int) bool { return des[i].Name() < des[j].Name() })

	entries := make([]ufs.Entry, 0, len(des))
	for _, de := range des {
		p := d.path.Join(de.Name())
		if de.IsDir() {
			entries = append(entries, d.b.Dir(p))
		} else {
			entries = append(entries, d.b.File(p))
		}
	}
	return ufs.Select(entries, o.Selector), nil
}

// Add implements ufs.Container by moving child into the directory
func (d *Dir) Add(ctx context.Context, child ufs.Entry, opts ...ufs.Option) error {
	if !d.Exists(ctx) {
		return ufs.NewPathError(ufs.OpAppend, d.path.String(), ufs.ErrWrite, ufs.ErrNotExist)
	}
	return child.Move(ctx, d.path.String(), opts...)
}
