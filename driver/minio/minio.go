package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

// Options configures the client a Store builds on Connect
type Options struct {
	Endpoint string
	UseSSL   bool
	Region   string
}

// Store implements remote.Store for MinIO and S3-compatible storage
type Store struct {
	opts Options

	mu     sync.RWMutex
	client *minio.Client
}

var _ remote.Store = (*Store)(nil)

// New creates a disconnected MinIO store
func New(opts Options) *Store {
	return &Store{opts: opts}
}

// NewWithClient creates a store already connected through client
func NewWithClient(client *minio.Client) *Store {
	return &Store{client: client}
}

// Connect implements remote.Store. The endpoint is a host:port without
// scheme; credentials may override it and the region.
func (s *Store) Connect(ctx context.Context, creds remote.Credentials) error {
	endpoint := s.opts.Endpoint
	if creds.Endpoint != "" {
		endpoint = creds.Endpoint
	}
	secure := s.opts.UseSSL
	if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint, secure = rest, true
	} else if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint, secure = rest, false
	}
	region := s.opts.Region
	if creds.Region != "" {
		region = creds.Region
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return fmt.Errorf("create minio client: %w", err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
	return nil
}

// Disconnect implements remote.Store
func (s *Store) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = nil
	return nil
}

// Connected implements remote.Store
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

func (s *Store) get() (*minio.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, remote.ErrNotConnected
	}
	return s.client, nil
}

// Find implements remote.Store
func (s *Store) Find(ctx context.Context, bucket, key string) (remote.ObjectInfo, error) {
	client, err := s.get()
	if err != nil {
		return remote.ObjectInfo{}, err
	}

	info, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return remote.ObjectInfo{}, mapError(err)
	}
	return objectInfo(bucket, info), nil
}

func objectInfo(bucket string, info minio.ObjectInfo) remote.ObjectInfo {
	return remote.ObjectInfo{
		Bucket:      bucket,
		Key:         info.Key,
		Size:        info.Size,
		ContentType: info.ContentType,
		ETag:        info.ETag,
		Modified:    info.LastModified,
	}
}

// Get implements remote.Store
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err)
	}
	defer obj.Close()

	// A missing key surfaces on the first read
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError(err)
	}
	return data, nil
}

// Put implements remote.Store
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	client, err := s.get()
	if err != nil {
		return err
	}

	_, err = client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return mapError(err)
}

// Delete implements remote.Store
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	client, err := s.get()
	if err != nil {
		return err
	}
	return mapError(client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}))
}

// Copy implements remote.Store with a server-side copy
func (s *Store) Copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	client, err := s.get()
	if err != nil {
		return err
	}

	_, err = client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: bucket, Object: srcKey},
	)
	return mapError(err)
}

// List implements remote.Store
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]remote.ObjectInfo, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	var out []remote.ObjectInfo
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, mapError(obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		out = append(out, objectInfo(bucket, obj))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// ListBuckets implements remote.Store
func (s *Store) ListBuckets(ctx context.Context) ([]string, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	buckets, err := client.ListBuckets(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		names = append(names, b.Name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateBucket implements remote.Store
func (s *Store) CreateBucket(ctx context.Context, name string) error {
	client, err := s.get()
	if err != nil {
		return err
	}
	return mapError(client.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: s.opts.Region}))
}

// DeleteBucket implements remote.Store
func (s *Store) DeleteBucket(ctx context.Context, name string) error {
	client, err := s.get()
	if err != nil {
		return err
	}
	return mapError(client.RemoveBucket(ctx, name))
}

// mapError maps MinIO error responses to the classes remote.Store reports
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return fmt.Errorf("%w: %w", ufs.ErrNotExist, err)
	case "AccessDenied", "Forbidden":
		return fmt.Errorf("%w: %w", ufs.ErrPermission, err)
	case "ExpiredToken", "RequestExpired":
		return fmt.Errorf("%w: %w", remote.ErrNotConnected, err)
	case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
		return fmt.Errorf("%w: %w", ufs.ErrExist, err)
	}
	return err
}
