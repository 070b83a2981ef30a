package ufs

import (
	"context"
)

// Prober is implemented by entries whose existence check can fail, such as
// remote objects that need a connection and a selected bucket.
type Prober interface {
	Probe(ctx context.Context) (bool, error)
}

// Toucher is implemented by entries that refresh their timestamps when
// touched while already existing.
type Toucher interface {
	Touch(ctx context.Context, opts ...Option) error
}

// Facade is the backend-unaware entry point. Every call resolves the backend
// first (the explicit one, or the registry default at call time) and then
// the entry kind owning the operation.
type Facade struct {
	registry *Registry
	backend  Backend
}

// NewFacade creates a facade that follows the default adapter of reg. A nil
// registry means DefaultRegistry.
func NewFacade(reg *Registry) *Facade {
	if reg == nil {
		reg = DefaultRegistry
	}
	return &Facade{registry: reg}
}

// NewFacadeFor creates a facade bound to b regardless of any default
func NewFacadeFor(b Backend) *Facade {
	return &Facade{backend: b}
}

// Backend returns the backend the next call will use
func (f *Facade) Backend() (Backend, error) {
	if f.backend != nil {
		return f.backend, nil
	}
	if f.registry != nil {
		if b := f.registry.Default(); b != nil {
			return b, nil
		}
	}
	return nil, ErrNoDefaultAdapter
}

// Open returns the entry of an explicit kind. It is the way to reach
// operations the router revoked.
func (f *Facade) Open(kind Kind, path string) (Entry, error) {
	b, err := f.Backend()
	if err != nil {
		return nil, &PathError{Op: "open", Path: path, Err: err}
	}
	p := b.Path(path)
	e, err := b.Open(kind, p)
	if err != nil {
		return nil, WrapPathErr("open", p.String(), err)
	}
	return e, nil
}

func (f *Facade) entry(ctx context.Context, op, path string) (Entry, error) {
	b, err := f.Backend()
	if err != nil {
		return nil, &PathError{Op: op, Path: path, Err: err}
	}
	p := b.Path(path)
	kind, err := resolveKind(ctx, b, op, p)
	if err != nil {
		return nil, &PathError{Op: op, Path: p.String(), Err: err}
	}
	e, err := b.Open(kind, p)
	if err != nil {
		return nil, WrapPathErr(op, p.String(), err)
	}
	return e, nil
}

func (f *Facade) content(ctx context.Context, op, path string) (Content, error) {
	e, err := f.entry(ctx, op, path)
	if err != nil {
		return nil, err
	}
	c, ok := e.(Content)
	if !ok {
		return nil, NewPathError(op, e.Path().String(), ErrUnsupported, nil)
	}
	return c, nil
}

func (f *Facade) container(ctx context.Context, op, path string) (Container, error) {
	e, err := f.entry(ctx, op, path)
	if err != nil {
		return nil, err
	}
	c, ok := e.(Container)
	if !ok {
		return nil, NewPathError(op, e.Path().String(), ErrUnsupported, nil)
	}
	return c, nil
}

func (f *Facade) create(ctx context.Context, op, path string, opts []Option) (Entry, error) {
	e, err := f.entry(ctx, op, path)
	if err != nil {
		return nil, err
	}
	if err := e.Create(ctx, opts...); err != nil {
		return nil, err
	}
	return e, nil
}

// Touch creates an empty content entry at path if none exists. Entries with
// a Touch method of their own (local files update their times) use it.
func (f *Facade) Touch(ctx context.Context, path string, opts ...Option) (Entry, error) {
	e, err := f.entry(ctx, OpTouch, path)
	if err != nil {
		return nil, err
	}
	if t, ok := e.(Toucher); ok {
		err = t.Touch(ctx, opts...)
	} else {
		err = e.Create(ctx, opts...)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Mkdir creates a container entry at path if none exists
func (f *Facade) Mkdir(ctx context.Context, path string, opts ...Option) (Entry, error) {
	return f.create(ctx, OpMkdir, path, opts)
}

// Create creates the entry owning the create operation
func (f *Facade) Create(ctx context.Context, path string, opts ...Option) (Entry, error) {
	return f.create(ctx, OpCreate, path, opts)
}

// Exists reports whether an entry exists at path. Entries implementing
// Prober surface their precondition failures here.
func (f *Facade) Exists(ctx context.Context, path string) (bool, error) {
	e, err := f.entry(ctx, OpExists, path)
	if err != nil {
		return false, err
	}
	if p, ok := e.(Prober); ok {
		return p.Probe(ctx)
	}
	return e.Exists(ctx), nil
}

// Destroy removes the entry at path and reports whether anything was removed
func (f *Facade) Destroy(ctx context.Context, path string, opts ...Option) (bool, error) {
	e, err := f.entry(ctx, OpDestroy, path)
	if err != nil {
		return false, err
	}
	return e.Destroy(ctx, opts...)
}

// Move moves the entry at path under dest and returns it
func (f *Facade) Move(ctx context.Context, path, dest string, opts ...Option) (Entry, error) {
	e, err := f.entry(ctx, OpMove, path)
	if err != nil {
		return nil, err
	}
	if err := e.Move(ctx, dest, opts...); err != nil {
		return nil, err
	}
	return e, nil
}

// Size returns the size of the entry at path; ok is false when it does not
// exist.
func (f *Facade) Size(ctx context.Context, path string) (int64, bool, error) {
	e, err := f.entry(ctx, OpSize, path)
	if err != nil {
		return 0, false, err
	}
	return e.Size(ctx)
}

// Metadata describes the entry at path
func (f *Facade) Metadata(ctx context.Context, path string) (Metadata, error) {
	e, err := f.entry(ctx, OpMetadata, path)
	if err != nil {
		return Metadata{}, err
	}
	return e.Metadata(ctx), nil
}

// Read returns the content at path
func (f *Facade) Read(ctx context.Context, path string) ([]byte, error) {
	c, err := f.content(ctx, OpRead, path)
	if err != nil {
		return nil, err
	}
	return c.Read(ctx)
}

// Write replaces the content at path
func (f *Facade) Write(ctx context.Context, path string, data []byte, opts ...Option) error {
	c, err := f.content(ctx, OpWrite, path)
	if err != nil {
		return err
	}
	return c.Write(ctx, data, opts...)
}

// Append adds data to the existing content at path
func (f *Facade) Append(ctx context.Context, path string, data []byte, opts ...Option) error {
	c, err := f.content(ctx, OpAppend, path)
	if err != nil {
		return err
	}
	return c.Append(ctx, data, opts...)
}

// AppendOrCreate adds data to the content at path, creating it when needed
func (f *Facade) AppendOrCreate(ctx context.Context, path string, data []byte, opts ...Option) error {
	c, err := f.content(ctx, OpAppendOrCreate, path)
	if err != nil {
		return err
	}
	return c.AppendOrCreate(ctx, data, opts...)
}

// ReadBytes returns the bytes of path selected by r
func (f *Facade) ReadBytes(ctx context.Context, path string, r ByteRange) ([]byte, error) {
	c, err := f.content(ctx, OpReadBytes, path)
	if err != nil {
		return nil, err
	}
	return c.ReadBytes(ctx, r)
}

// ReadLine returns line n of path
func (f *Facade) ReadLine(ctx context.Context, path string, n int) (string, bool, error) {
	c, err := f.content(ctx, OpReadLine, path)
	if err != nil {
		return "", false, err
	}
	return c.ReadLine(ctx, n)
}

// ReadLines returns lines first through last of path
func (f *Facade) ReadLines(ctx context.Context, path string, first, last int) ([]string, error) {
	c, err := f.content(ctx, OpReadLine, path)
	if err != nil {
		return nil, err
	}
	return c.ReadLines(ctx, first, last)
}

// WriteLine appends data to path as one line
func (f *Facade) WriteLine(ctx context.Context, path, data string) error {
	c, err := f.content(ctx, OpWriteLine, path)
	if err != nil {
		return err
	}
	return c.WriteLine(ctx, data)
}

// List returns the entries contained at path
func (f *Facade) List(ctx context.Context, path string, opts ...Option) ([]Entry, error) {
	c, err := f.container(ctx, OpList, path)
	if err != nil {
		return nil, err
	}
	return c.List(ctx, opts...)
}
