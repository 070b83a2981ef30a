package remote

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/gobeaver/ufs"
)

// Object is a keyed entry in a bucket of a remote store
type Object struct {
	s      *Session
	path   ufs.Path
	bucket string

	// info is the memoized store view of the object, dropped by Refresh and
	// by every mutating call.
	info *ObjectInfo
}

var (
	_ ufs.Content = (*Object)(nil)
	_ ufs.Prober  = (*Object)(nil)
)

// NewObject returns the object at p. WithBucket pins the object to a bucket
// other than the session's current one.
func NewObject(s *Session, p ufs.Path, opts ...ufs.Option) *Object {
	o := ufs.ApplyOptions(opts...)
	return &Object{s: s, path: p, bucket: o.Bucket}
}

// Path implements ufs.Entry
func (o *Object) Path() ufs.Path { return o.path }

// SetPath points the object at another key without touching the store
func (o *Object) SetPath(p ufs.Path) {
	o.path = p
	o.info = nil
}

// Name implements ufs.Entry
func (o *Object) Name() string { return o.path.Base() }

// Kind implements ufs.Entry
func (o *Object) Kind() ufs.Kind { return ufs.KindObject }

// Key returns the store key
func (o *Object) Key() string { return o.path.Key() }

// Bucket returns the bucket the object lives in
func (o *Object) Bucket() string {
	if o.bucket != "" {
		return o.bucket
	}
	return o.s.Bucket()
}

func (o *Object) bucketFor(opts *ufs.Options) string {
	if opts != nil && opts.Bucket != "" {
		return opts.Bucket
	}
	return o.Bucket()
}

// requireBucket fails with a connection error when no bucket is resolved
func (o *Object) requireBucket(op string, opts *ufs.Options) (string, error) {
	bucket := o.bucketFor(opts)
	if bucket == "" {
		return "", ufs.NewPathError(op, o.path.String(), ufs.ErrConnection, errors.New("no bucket selected"))
	}
	if o.Key() == "" {
		return "", ufs.NewPathError(op, o.path.String(), ufs.ErrIO, ufs.ErrInvalidPath)
	}
	return bucket, nil
}

func (o *Object) find(ctx context.Context, bucket string) (ObjectInfo, error) {
	return o.s.find(ctx, bucket, o.Key())
}

// Probe reports whether the object exists. It needs a selected bucket and a
// working connection and fails with a connection error otherwise.
func (o *Object) Probe(ctx context.Context) (bool, error) {
	bucket, err := o.requireBucket(ufs.OpExists, nil)
	if err != nil {
		return false, err
	}
	info, err := o.find(ctx, bucket)
	if err != nil {
		if ufs.IsNotExist(err) {
			return false, nil
		}
		return false, classify(ufs.OpExists, o.path.String(), err)
	}
	o.info = &info
	return true, nil
}

// Exists implements ufs.Entry. Probe failures count as absence; use Probe to
// see them.
func (o *Object) Exists(ctx context.Context) bool {
	ok, err := o.Probe(ctx)
	return ok && err == nil
}

// Info returns the memoized store view of the object, fetching it on first
// use.
func (o *Object) Info(ctx context.Context) (ObjectInfo, error) {
	if o.info != nil {
		return *o.info, nil
	}
	if err := o.Refresh(ctx); err != nil {
		return ObjectInfo{}, err
	}
	return *o.info, nil
}

// Refresh drops the memoized view and fetches it again
func (o *Object) Refresh(ctx context.Context) error {
	o.info = nil
	bucket, err := o.requireBucket("refresh", nil)
	if err != nil {
		return err
	}
	info, err := o.find(ctx, bucket)
	if err != nil {
		return classify("refresh", o.path.String(), err)
	}
	o.info = &info
	return nil
}

// Create implements ufs.Entry by storing an empty object when none exists
func (o *Object) Create(ctx context.Context, opts ...ufs.Option) error {
	oo := ufs.ApplyOptions(opts...)
	bucket, err := o.requireBucket(ufs.OpCreate, oo)
	if err != nil {
		return err
	}
	if _, err := o.find(ctx, bucket); err == nil {
		return nil
	} else if !ufs.IsNotExist(err) {
		return ufs.NewPathError(ufs.OpCreate, o.path.String(), ufs.ErrWrite, err)
	}
	return o.put(ctx, ufs.OpCreate, bucket, nil, oo)
}

// Destroy implements ufs.Entry
func (o *Object) Destroy(ctx context.Context, opts ...ufs.Option) (bool, error) {
	oo := ufs.ApplyOptions(opts...)
	bucket, err := o.requireBucket(ufs.OpDestroy, oo)
	if err != nil {
		return false, err
	}
	if _, err := o.find(ctx, bucket); err != nil {
		if ufs.IsNotExist(err) {
			return false, nil
		}
		return false, classify(ufs.OpDestroy, o.path.String(), err)
	}

	o.info = nil
	err = o.s.do(ctx, "delete", func(ctx context.Context) error {
		return o.s.store.Delete(ctx, bucket, o.Key())
	})
	if err != nil {
		return false, classify(ufs.OpDestroy, o.path.String(), err)
	}
	return true, nil
}

// Move implements ufs.Entry. dest is either a prefix the object moves under
// or a full key ending in the object's name. The object is copied to the new
// key and the old key is deleted. With WithBucket the move happens in that
// bucket and the object stays pinned to it afterwards.
func (o *Object) Move(ctx context.Context, dest string, opts ...ufs.Option) error {
	oo := ufs.ApplyOptions(opts...)
	bucket, err := o.requireBucket(ufs.OpMove, oo)
	if err != nil {
		return err
	}

	target := moveKey(dest, o.Name())
	if target == o.Key() {
		return nil
	}
	targetPath := ufs.PathFromKey(target)

	if _, err := o.s.find(ctx, bucket, target); err == nil {
		return ufs.NewPathError(ufs.OpMove, targetPath.String(), ufs.ErrWrite, ufs.ErrExist)
	} else if !ufs.IsNotExist(err) {
		return classify(ufs.OpMove, targetPath.String(), err)
	}

	err = o.s.do(ctx, "copy", func(ctx context.Context) error {
		return o.s.store.Copy(ctx, bucket, o.Key(), target)
	})
	if err != nil {
		return ufs.NewPathError(ufs.OpMove, o.path.String(), ufs.ErrWrite, err)
	}
	err = o.s.do(ctx, "delete", func(ctx context.Context) error {
		return o.s.store.Delete(ctx, bucket, o.Key())
	})
	if err != nil {
		return classify(ufs.OpMove, o.path.String(), err)
	}

	if oo.Bucket != "" {
		o.bucket = oo.Bucket
	}
	o.SetPath(targetPath)
	return nil
}

// moveKey resolves a move destination to a key
func moveKey(dest, name string) string {
	d := strings.Trim(strings.ReplaceAll(dest, `\`, "/"), "/")
	if d == "" {
		return name
	}
	if path.Base(d) == name {
		return d
	}
	return d + "/" + name
}

// Size implements ufs.Entry
func (o *Object) Size(ctx context.Context) (int64, bool, error) {
	bucket, err := o.requireBucket(ufs.OpSize, nil)
	if err != nil {
		return 0, false, err
	}
	info, err := o.find(ctx, bucket)
	if err != nil {
		if ufs.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, classify(ufs.OpSize, o.path.String(), err)
	}
	o.info = &info
	return info.Size, true, nil
}

// Metadata implements ufs.Entry. Permissions come from the object's canned
// ACL.
func (o *Object) Metadata(ctx context.Context) ufs.Metadata {
	if err := o.Refresh(ctx); err != nil {
		return ufs.Metadata{}
	}
	info := *o.info
	return ufs.Metadata{
		Name:         o.Name(),
		Permissions:  ACLMode(info.ACL),
		Subordinates: 1,
		Size:         info.Size,
		Modified:     info.Modified,
		Created:      info.Modified,
	}
}

// Read implements ufs.Content
func (o *Object) Read(ctx context.Context) ([]byte, error) {
	return o.read(ctx, ufs.OpRead, nil)
}

func (o *Object) read(ctx context.Context, op string, opts *ufs.Options) ([]byte, error) {
	bucket, err := o.requireBucket(op, opts)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = o.s.do(ctx, "get", func(ctx context.Context) error {
		var err error
		data, err = o.s.store.Get(ctx, bucket, o.Key())
		return err
	})
	if err != nil {
		return nil, ufs.NewPathError(op, o.path.String(), ufs.ErrRead, err)
	}
	return data, nil
}

func (o *Object) put(ctx context.Context, op, bucket string, data []byte, opts *ufs.Options) error {
	contentType := opts.ContentType
	if contentType == "" {
		contentType = ufs.GuessContentType(o.Key(), data)
	}

	o.info = nil
	err := o.s.do(ctx, "put", func(ctx context.Context) error {
		return o.s.store.Put(ctx, bucket, o.Key(), data, contentType)
	})
	if err != nil {
		return ufs.NewPathError(op, o.path.String(), ufs.ErrWrite, err)
	}
	return nil
}

// Write implements ufs.Content as a full replace
func (o *Object) Write(ctx context.Context, data []byte, opts ...ufs.Option) error {
	oo := ufs.ApplyOptions(opts...)
	bucket, err := o.requireBucket(ufs.OpWrite, oo)
	if err != nil {
		return err
	}
	return o.put(ctx, ufs.OpWrite, bucket, data, oo)
}

// Append implements ufs.Content. Stores have no native append, so the whole
// object is read and written back.
func (o *Object) Append(ctx context.Context, data []byte, opts ...ufs.Option) error {
	oo := ufs.ApplyOptions(opts...)
	bucket, err := o.requireBucket(ufs.OpAppend, oo)
	if err != nil {
		return err
	}
	current, err := o.read(ctx, ufs.OpAppend, oo)
	if err != nil {
		if ufs.IsNotExist(err) {
			return ufs.NewPathError(ufs.OpAppend, o.path.String(), ufs.ErrWrite, ufs.ErrNotExist)
		}
		return err
	}
	return o.put(ctx, ufs.OpAppend, bucket, append(current, data...), oo)
}

// AppendOrCreate implements ufs.Content by reading whatever exists and
// writing it back with data appended.
func (o *Object) AppendOrCreate(ctx context.Context, data []byte, opts ...ufs.Option) error {
	oo := ufs.ApplyOptions(opts...)
	bucket, err := o.requireBucket(ufs.OpAppendOrCreate, oo)
	if err != nil {
		return err
	}
	current, err := o.read(ctx, ufs.OpAppendOrCreate, oo)
	if err != nil && !ufs.IsNotExist(err) {
		return err
	}
	return o.put(ctx, ufs.OpAppendOrCreate, bucket, append(current, data...), oo)
}

// ReadBytes implements ufs.Content by slicing the fetched content
func (o *Object) ReadBytes(ctx context.Context, r ufs.ByteRange) ([]byte, error) {
	data, err := o.read(ctx, ufs.OpReadBytes, nil)
	if err != nil {
		return nil, err
	}
	out, err := ufs.SliceRange(data, r)
	if err != nil {
		return nil, ufs.NewPathError(ufs.OpReadBytes, o.path.String(), ufs.ErrRead, err)
	}
	return out, nil
}

// ReadLine implements ufs.Content
func (o *Object) ReadLine(ctx context.Context, n int) (string, bool, error) {
	return ufs.ReadLine(ctx, o, n)
}

// ReadLines implements ufs.Content
func (o *Object) ReadLines(ctx context.Context, first, last int) ([]string, error) {
	return ufs.ReadLines(ctx, o, first, last)
}

// WriteLine implements ufs.Content
func (o *Object) WriteLine(ctx context.Context, data string) error {
	return ufs.WriteLine(ctx, o, data)
}

// Checksum implements ufs.Content
func (o *Object) Checksum(ctx context.Context, algorithm ufs.ChecksumAlgorithm) (string, error) {
	return ufs.ContentChecksum(ctx, o, algorithm)
}

// ACLMode maps a canned ACL to the permissions it grants. The owner always
// has full control.
func ACLMode(acl string) ufs.Mode {
	switch acl {
	case "public-read":
		return 604
	case "public-read-write":
		return 606
	case "authenticated-read":
		return 640
	default:
		return 600
	}
}
