package ufs

import (
	"context"
	"sort"
	"strings"
	"sync"
)

func init() {
	// Register test backends
	RegisterBackend("local", newTestBackend)
	RegisterBackend("memory", newTestBackend)
}

func newTestBackend(cfg *Config) (Backend, error) {
	return newFakeBackend(cfg.Backend), nil
}

// fakeBackend is an in-memory tree of files and directories. "create" is
// claimed by both kinds and therefore revoked; exists, size, destroy, move
// and metadata are resolved by inference.
type fakeBackend struct {
	name   string
	router *Router

	mu    sync.Mutex
	files map[Path][]byte
	dirs  map[Path]bool
}

func newFakeBackend(name string) *fakeBackend {
	r := NewRouter()
	for _, op := range []string{
		OpTouch, OpCreate, OpRead, OpWrite, OpAppend, OpAppendOrCreate,
		OpReadBytes, OpReadLine, OpWriteLine,
	} {
		_ = r.Register(op, KindFile)
	}
	for _, op := range []string{OpMkdir, OpCreate, OpList} {
		_ = r.Register(op, KindDirectory)
	}
	return &fakeBackend{
		name:   name,
		router: r,
		files:  make(map[Path][]byte),
		dirs:   map[Path]bool{Separator: true},
	}
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Router() *Router { return b.router }

func (b *fakeBackend) Path(raw string) Path { return NewPath(Separator, raw) }

func (b *fakeBackend) Open(kind Kind, p Path) (Entry, error) {
	switch kind {
	case KindFile:
		return &fakeFile{fakeEntry{b: b, path: p}}, nil
	case KindDirectory:
		return &fakeDir{fakeEntry{b: b, path: p}}, nil
	default:
		return nil, ErrUnsupported
	}
}

func (b *fakeBackend) Infer(ctx context.Context, p Path) (Kind, bool) {
	if p.IsZero() {
		return KindUnknown, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dirs[p] {
		return KindDirectory, true
	}
	return KindFile, true
}

type fakeEntry struct {
	b    *fakeBackend
	path Path
}

func (e *fakeEntry) Path() Path { return e.path }

func (e *fakeEntry) Name() string { return e.path.Base() }

func (e *fakeEntry) Metadata(ctx context.Context) Metadata {
	return Metadata{Name: e.Name()}
}

// fakeFile is a file of fakeBackend
type fakeFile struct {
	fakeEntry
}

func (f *fakeFile) Kind() Kind { return KindFile }

func (f *fakeFile) Exists(ctx context.Context) bool {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	_, ok := f.b.files[f.path]
	return ok
}

func (f *fakeFile) Create(ctx context.Context, opts ...Option) error {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	if !f.b.dirs[f.path.Dir()] {
		return NewPathError(OpCreate, f.path.String(), ErrWrite, ErrNotExist)
	}
	if _, ok := f.b.files[f.path]; !ok {
		f.b.files[f.path] = nil
	}
	return nil
}

func (f *fakeFile) Destroy(ctx context.Context, opts ...Option) (bool, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	if _, ok := f.b.files[f.path]; !ok {
		return false, nil
	}
	delete(f.b.files, f.path)
	return true, nil
}

func (f *fakeFile) Move(ctx context.Context, dest string, opts ...Option) error {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	target := f.b.Path(dest).Join(f.Name())
	if _, ok := f.b.files[target]; ok {
		return NewPathError(OpMove, target.String(), ErrWrite, ErrExist)
	}
	f.b.files[target] = f.b.files[f.path]
	delete(f.b.files, f.path)
	f.path = target
	return nil
}

func (f *fakeFile) Size(ctx context.Context) (int64, bool, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	data, ok := f.b.files[f.path]
	return int64(len(data)), ok, nil
}

func (f *fakeFile) Read(ctx context.Context) ([]byte, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	data, ok := f.b.files[f.path]
	if !ok {
		return nil, NewPathError(OpRead, f.path.String(), ErrRead, ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (f *fakeFile) Write(ctx context.Context, data []byte, opts ...Option) error {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	f.b.files[f.path] = append([]byte(nil), data...)
	return nil
}

func (f *fakeFile) Append(ctx context.Context, data []byte, opts ...Option) error {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	current, ok := f.b.files[f.path]
	if !ok {
		return NewPathError(OpAppend, f.path.String(), ErrWrite, ErrNotExist)
	}
	f.b.files[f.path] = append(current, data...)
	return nil
}

func (f *fakeFile) AppendOrCreate(ctx context.Context, data []byte, opts ...Option) error {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	f.b.files[f.path] = append(f.b.files[f.path], data...)
	return nil
}

func (f *fakeFile) ReadBytes(ctx context.Context, r ByteRange) ([]byte, error) {
	data, err := f.Read(ctx)
	if err != nil {
		return nil, err
	}
	out, err := SliceRange(data, r)
	if err != nil {
		return nil, NewPathError(OpReadBytes, f.path.String(), ErrRead, err)
	}
	return out, nil
}

func (f *fakeFile) ReadLine(ctx context.Context, n int) (string, bool, error) {
	return ReadLine(ctx, f, n)
}

func (f *fakeFile) ReadLines(ctx context.Context, first, last int) ([]string, error) {
	return ReadLines(ctx, f, first, last)
}

func (f *fakeFile) WriteLine(ctx context.Context, data string) error {
	return WriteLine(ctx, f, data)
}

func (f *fakeFile) Checksum(ctx context.Context, algorithm ChecksumAlgorithm) (string, error) {
	return ContentChecksum(ctx, f, algorithm)
}

// fakeDir is a directory of fakeBackend
type fakeDir struct {
	fakeEntry
}

func (d *fakeDir) Kind() Kind { return KindDirectory }

func (d *fakeDir) Exists(ctx context.Context) bool {
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	return d.b.dirs[d.path]
}

func (d *fakeDir) Create(ctx context.Context, opts ...Option) error {
	o := ApplyOptions(opts...)
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	if !d.b.dirs[d.path.Dir()] {
		if !o.Recursive {
			return NewPathError(OpMkdir, d.path.String(), ErrWrite, ErrNotExist)
		}
		for p := d.path.Dir(); p != Separator; p = p.Dir() {
			d.b.dirs[p] = true
		}
	}
	d.b.dirs[d.path] = true
	return nil
}

func (d *fakeDir) Destroy(ctx context.Context, opts ...Option) (bool, error) {
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	if !d.b.dirs[d.path] {
		return false, nil
	}
	prefix := d.path.String() + Separator
	for p := range d.b.files {
		if strings.HasPrefix(p.String(), prefix) {
			delete(d.b.files, p)
		}
	}
	for p := range d.b.dirs {
		if p == d.path || strings.HasPrefix(p.String(), prefix) {
			delete(d.b.dirs, p)
		}
	}
	return true, nil
}

func (d *fakeDir) Move(ctx context.Context, dest string, opts ...Option) error {
	return NewPathError(OpMove, d.path.String(), ErrWrite, ErrUnsupported)
}

func (d *fakeDir) Size(ctx context.Context) (int64, bool, error) {
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	if !d.b.dirs[d.path] {
		return 0, false, nil
	}
	var total int64
	prefix := d.path.String() + Separator
	for p, data := range d.b.files {
		if strings.HasPrefix(p.String(), prefix) {
			total += int64(len(data))
		}
	}
	return total, true, nil
}

func (d *fakeDir) List(ctx context.Context, opts ...Option) ([]Entry, error) {
	o := ApplyOptions(opts...)
	d.b.mu.Lock()
	var entries []Entry
	for p := range d.b.files {
		if p.Dir() == d.path {
			entries = append(entries, &fakeFile{fakeEntry{b: d.b, path: p}})
		}
	}
	for p := range d.b.dirs {
		if p != Separator && p.Dir() == d.path {
			entries = append(entries, &fakeDir{fakeEntry{b: d.b, path: p}})
		}
	}
	d.b.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return Select(entries, o.Selector), nil
}

func (d *fakeDir) Add(ctx context.Context, child Entry, opts ...Option) error {
	return child.Move(ctx, d.path.String(), opts...)
}
