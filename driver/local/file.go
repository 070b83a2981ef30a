package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/natefinch/atomic"

	"github.com/gobeaver/ufs"
)

// File is a regular file on the local filesystem
type File struct {
	entry
}

var _ ufs.Content = (*File)(nil)

// Kind implements ufs.Entry
func (f *File) Kind() ufs.Kind { return ufs.KindFile }

// Create implements ufs.Entry. Missing parents fail unless WithRecursive is
// given.
func (f *File) Create(ctx context.Context, opts ...ufs.Option) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	o := ufs.ApplyOptions(opts...)

	if info, err := f.stat(); err == nil {
		if info.IsDir() {
			return ufs.NewPathError(ufs.OpCreate, f.path.String(), ufs.ErrWrite, ufs.ErrExist)
		}
		f.applyAttributes(ctx, o)
		return nil
	}

	if o.Recursive {
		if err := os.MkdirAll(f.path.Dir().OS(), 0755); err != nil {
			return pathErr(ufs.OpCreate, f.path, ufs.ErrWrite, err)
		}
	}

	fh, err := os.OpenFile(f.path.OS(), os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return pathErr(ufs.OpCreate, f.path, ufs.ErrWrite, err)
	}
	if err := fh.Close(); err != nil {
		return pathErr(ufs.OpCreate, f.path, ufs.ErrWrite, err)
	}

	f.applyAttributes(ctx, o)
	return nil
}

// Touch creates the file, or updates its access and modification times when
// it already exists.
func (f *File) Touch(ctx context.Context, opts ...ufs.Option) error {
	if !f.Exists(ctx) {
		return f.Create(ctx, opts...)
	}
	now := time.Now()
	if err := f.b.native.Chtimes(now, f.path.OS(), now); err != nil {
		return pathErr(ufs.OpTouch, f.path, ufs.ErrWrite, err)
	}
	return nil
}

// Destroy implements ufs.Entry
func (f *File) Destroy(ctx context.Context, opts ...ufs.Option) (bool, error) {
	return f.remove(ctx, ufs.ApplyOptions(opts...), false), nil
}

// Move implements ufs.Entry. dest is the directory the file moves into.
func (f *File) Move(ctx context.Context, dest string, opts ...ufs.Option) error {
	return f.move(ctx, dest, opts)
}

// Size implements ufs.Entry
func (f *File) Size(ctx context.Context) (int64, bool, error) {
	info, err := f.stat()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, pathErr(ufs.OpSize, f.path, ufs.ErrRead, err)
	}
	return info.Size(), true, nil
}

// Metadata implements ufs.Entry
func (f *File) Metadata(ctx context.Context) ufs.Metadata {
	md, info, ok := f.metadata()
	if !ok {
		return ufs.Metadata{}
	}
	md.Subordinates = 1
	md.Size = info.Size()
	return md
}

// Read implements ufs.Content
func (f *File) Read(ctx context.Context) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path.OS())
	if err != nil {
		return nil, pathErr(ufs.OpRead, f.path, ufs.ErrRead, err)
	}
	return data, nil
}

// Write implements ufs.Content. The content is replaced atomically.
func (f *File) Write(ctx context.Context, data []byte, opts ...ufs.Option) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	_, statErr := f.stat()
	isNew := errors.Is(statErr, fs.ErrNotExist)

	if err := atomic.WriteFile(f.path.OS(), bytes.NewReader(data)); err != nil {
		return pathErr(ufs.OpWrite, f.path, ufs.ErrWrite, err)
	}

	// atomic.WriteFile keeps the mode of a replaced file but not of a new one
	if isNew {
		if err := os.Chmod(f.path.OS(), 0644); err != nil {
			return pathErr(ufs.OpWrite, f.path, ufs.ErrWrite, err)
		}
	}
	return nil
}

// Append implements ufs.Content. The file must exist.
func (f *File) Append(ctx context.Context, data []byte, opts ...ufs.Option) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	fh, err := os.OpenFile(f.path.OS(), os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return pathErr(ufs.OpAppend, f.path, ufs.ErrWrite, err)
	}
	return f.appendTo(fh, ufs.OpAppend, data)
}

// AppendOrCreate implements ufs.Content
func (f *File) AppendOrCreate(ctx context.Context, data []byte, opts ...ufs.Option) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	fh, err := os.OpenFile(f.path.OS(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return pathErr(ufs.OpAppendOrCreate, f.path, ufs.ErrWrite, err)
	}
	return f.appendTo(fh, ufs.OpAppendOrCreate, data)
}

func (f *File) appendTo(fh *os.File, op string, data []byte) error {
	if _, err := fh.Write(data); err != nil {
		fh.Close()
		return pathErr(op, f.path, ufs.ErrWrite, err)
	}
	if err := fh.Close(); err != nil {
		return pathErr(op, f.path, ufs.ErrWrite, err)
	}
	return nil
}

// ReadBytes implements ufs.Content by seeking to the resolved offset
func (f *File) ReadBytes(ctx context.Context, r ufs.ByteRange) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	fh, err := os.Open(f.path.OS())
	if err != nil {
		return nil, pathErr(ufs.OpReadBytes, f.path, ufs.ErrRead, err)
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return nil, pathErr(ufs.OpReadBytes, f.path, ufs.ErrRead, err)
	}

	offset, n, err := ufs.ResolveRange(r, info.Size())
	if err != nil {
		return nil, pathErr(ufs.OpReadBytes, f.path, ufs.ErrRead, err)
	}

	buf := make([]byte, n)
	read, err := fh.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, pathErr(ufs.OpReadBytes, f.path, ufs.ErrRead, err)
	}
	return buf[:read], nil
}

// ReadLine implements ufs.Content
func (f *File) ReadLine(ctx context.Context, n int) (string, bool, error) {
	return ufs.ReadLine(ctx, f, n)
}

// ReadLines implements ufs.Content
func (f *File) ReadLines(ctx context.Context, first, last int) ([]string, error) {
	return ufs.ReadLines(ctx, f, first, last)
}

// WriteLine implements ufs.Content
func (f *File) WriteLine(ctx context.Context, data string) error {
	return ufs.WriteLine(ctx, f, data)
}

// Checksum implements ufs.Content by streaming the file through the hasher
func (f *File) Checksum(ctx context.Context, algorithm ufs.ChecksumAlgorithm) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}
	fh, err := os.Open(f.path.OS())
	if err != nil {
		return "", pathErr("checksum", f.path, ufs.ErrRead, err)
	}
	defer fh.Close()

	sum, err := ufs.CalculateChecksum(fh, algorithm)
	if err != nil {
		return "", ufs.WrapPathErr("checksum", f.path.String(), err)
	}
	return sum, nil
}

// Truncate changes the size of the file
func (f *File) Truncate(size int64) error {
	return f.b.native.Truncate(f.path.OS(), size)
}
