package remote

import (
	"context"
	"sort"
	"strings"

	"github.com/gobeaver/ufs"
)

// Bucket is a named namespace of objects in a remote store
type Bucket struct {
	s    *Session
	name string
}

var _ ufs.Container = (*Bucket)(nil)

// NewBucket returns the bucket called name
func NewBucket(s *Session, name string) *Bucket {
	return &Bucket{s: s, name: strings.Trim(name, "/")}
}

// Path implements ufs.Entry
func (b *Bucket) Path() ufs.Path { return ufs.PathFromKey(b.name) }

// Name implements ufs.Entry
func (b *Bucket) Name() string { return b.name }

// Kind implements ufs.Entry
func (b *Bucket) Kind() ufs.Kind { return ufs.KindBucket }

// Buckets lists every bucket of the store
func (b *Bucket) Buckets(ctx context.Context) ([]string, error) {
	var names []string
	err := b.s.do(ctx, "list_buckets", func(ctx context.Context) error {
		var err error
		names, err = b.s.store.ListBuckets(ctx)
		return err
	})
	if err != nil {
		return nil, classify(ufs.OpList, b.Path().String(), err)
	}
	sort.Strings(names)
	return names, nil
}

// Probe reports whether the bucket exists
func (b *Bucket) Probe(ctx context.Context) (bool, error) {
	names, err := b.Buckets(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == b.name {
			return true, nil
		}
	}
	return false, nil
}

// Exists implements ufs.Entry
func (b *Bucket) Exists(ctx context.Context) bool {
	ok, err := b.Probe(ctx)
	return ok && err == nil
}

// Create implements ufs.Entry. Creating an existing bucket succeeds.
func (b *Bucket) Create(ctx context.Context, opts ...ufs.Option) error {
	if b.name == "" {
		return ufs.NewPathError(ufs.OpMkdir, "", ufs.ErrWrite, ufs.ErrInvalidPath)
	}
	if err := b.s.EnsureBucket(ctx, b.name); err != nil {
		if ufs.IsPermission(err) {
			return err
		}
		return ufs.NewPathError(ufs.OpMkdir, b.Path().String(), ufs.ErrWrite, err)
	}
	return nil
}

// Select makes this bucket the session's current bucket
func (b *Bucket) Select(ctx context.Context) error {
	return b.s.SetBucket(ctx, b.name)
}

// Destroy implements ufs.Entry. Every object is deleted before the bucket.
func (b *Bucket) Destroy(ctx context.Context, opts ...ufs.Option) (bool, error) {
	ok, err := b.Probe(ctx)
	if err != nil || !ok {
		return false, err
	}

	objects, err := b.objects(ctx)
	if err != nil {
		return false, err
	}
	for _, obj := range objects {
		err := b.s.do(ctx, "delete", func(ctx context.Context) error {
			return b.s.store.Delete(ctx, b.name, obj.Key)
		})
		if err != nil {
			return false, classify(ufs.OpDestroy, b.Path().String(), err)
		}
	}

	err = b.s.do(ctx, "delete_bucket", func(ctx context.Context) error {
		return b.s.store.DeleteBucket(ctx, b.name)
	})
	if err != nil {
		return false, classify(ufs.OpDestroy, b.Path().String(), err)
	}

	b.s.mu.Lock()
	if b.s.bucket == b.name {
		b.s.bucket = ""
	}
	b.s.mu.Unlock()
	return true, nil
}

// Move implements ufs.Entry. Buckets cannot be renamed.
func (b *Bucket) Move(ctx context.Context, dest string, opts ...ufs.Option) error {
	return ufs.NewPathError(ufs.OpMove, b.Path().String(), ufs.ErrIO, ufs.ErrUnsupported)
}

func (b *Bucket) objects(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	err := b.s.do(ctx, "list", func(ctx context.Context) error {
		var err error
		objects, err = b.s.store.List(ctx, b.name, "")
		return err
	})
	if err != nil {
		return nil, ufs.NewPathError(ufs.OpList, b.Path().String(), ufs.ErrRead, err)
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// Size implements ufs.Entry as the total size of the bucket's objects
func (b *Bucket) Size(ctx context.Context) (int64, bool, error) {
	ok, err := b.Probe(ctx)
	if err != nil || !ok {
		return 0, false, err
	}
	objects, err := b.objects(ctx)
	if err != nil {
		return 0, false, err
	}
	var total int64
	for _, obj := range objects {
		total += obj.Size
	}
	return total, true, nil
}

// Metadata implements ufs.Entry. Subordinates counts the objects plus "."
// and "..", like a directory.
func (b *Bucket) Metadata(ctx context.Context) ufs.Metadata {
	if ok, err := b.Probe(ctx); err != nil || !ok {
		return ufs.Metadata{}
	}
	objects, err := b.objects(ctx)
	if err != nil {
		return ufs.Metadata{}
	}

	md := ufs.Metadata{
		Name:         b.name,
		Permissions:  ACLMode(""),
		Subordinates: len(objects) + 2,
	}
	for _, obj := range objects {
		md.Size += obj.Size
		if obj.Modified.After(md.Modified) {
			md.Modified = obj.Modified
		}
	}
	return md
}

// List implements ufs.Container. The objects are pinned to this bucket.
func (b *Bucket) List(ctx context.Context, opts ...ufs.Option) ([]ufs.Entry, error) {
	o := ufs.ApplyOptions(opts...)
	objects, err := b.objects(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ufs.Entry, 0, len(objects))
	for _, obj := range objects {
		entry := NewObject(b.s, ufs.PathFromKey(obj.Key), ufs.WithBucket(b.name))
		info := obj
		entry.info = &info
		entries = append(entries, entry)
	}
	return ufs.Select(entries, o.Selector), nil
}

// Add implements ufs.Container by moving an object of another bucket into
// this one under the same key.
func (b *Bucket) Add(ctx context.Context, child ufs.Entry, opts ...ufs.Option) error {
	obj, ok := child.(*Object)
	if !ok {
		return ufs.NewPathError(ufs.OpAppend, child.Path().String(), ufs.ErrWrite, ufs.ErrUnsupported)
	}
	src := obj.Bucket()
	if src == b.name {
		return nil
	}

	if _, err := b.s.find(ctx, b.name, obj.Key()); err == nil {
		return ufs.NewPathError(ufs.OpAppend, obj.Path().String(), ufs.ErrWrite, ufs.ErrExist)
	}

	data, err := obj.Read(ctx)
	if err != nil {
		return err
	}
	dst := NewObject(b.s, obj.Path(), ufs.WithBucket(b.name))
	if err := dst.Write(ctx, data, opts...); err != nil {
		return err
	}
	if _, err := obj.Destroy(ctx); err != nil {
		return err
	}

	obj.bucket = b.name
	obj.info = nil
	return nil
}
