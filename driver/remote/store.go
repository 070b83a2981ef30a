package remote

import (
	"context"
	"errors"
	"time"
)

// ErrNotConnected is returned by a Store when a call needs a connection the
// store does not have. The session reconnects and retries once on it.
var ErrNotConnected = errors.New("not connected")

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ContentType string
	ETag        string
	Modified    time.Time
	// ACL is the canned access policy ("private", "public-read", ...) when
	// the store reports one.
	ACL string
}

// Store is the wire-level capability of an object store. Implementations
// report missing objects and buckets with ufs.ErrNotExist, denied access
// with ufs.ErrPermission and a missing connection with ErrNotConnected.
type Store interface {
	Connect(ctx context.Context, creds Credentials) error
	Disconnect(ctx context.Context) error
	Connected() bool

	Find(ctx context.Context, bucket, key string) (ObjectInfo, error)
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	Delete(ctx context.Context, bucket, key string) error
	Copy(ctx context.Context, bucket, srcKey, dstKey string) error
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)

	ListBuckets(ctx context.Context) ([]string, error)
	CreateBucket(ctx context.Context, name string) error
	DeleteBucket(ctx context.Context, name string) error
}
