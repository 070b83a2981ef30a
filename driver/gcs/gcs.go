package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

// Options configures the client a Store builds on Connect
type Options struct {
	// ProjectID owns the buckets that are listed and created
	ProjectID string
	// CredentialsFile is a service account JSON file. When empty the
	// application default credentials are used.
	CredentialsFile string
	// Endpoint overrides the API endpoint, e.g. for an emulator
	Endpoint string
}

// Store implements remote.Store on Google Cloud Storage
type Store struct {
	opts Options

	mu     sync.RWMutex
	client *storage.Client
}

var _ remote.Store = (*Store)(nil)

// New creates a disconnected GCS store
func New(opts Options) *Store {
	return &Store{opts: opts}
}

// NewWithClient creates a store already connected through client
func NewWithClient(client *storage.Client, projectID string) *Store {
	return &Store{opts: Options{ProjectID: projectID}, client: client}
}

// Connect implements remote.Store. GCS authenticates with service accounts,
// so only the endpoint of creds is used.
func (s *Store) Connect(ctx context.Context, creds remote.Credentials) error {
	var opts []option.ClientOption
	if s.opts.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.opts.CredentialsFile))
	}
	endpoint := s.opts.Endpoint
	if creds.Endpoint != "" {
		endpoint = creds.Endpoint
	}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create gcs client: %w", err)
	}

	s.mu.Lock()
	old := s.client
	s.client = client
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Disconnect implements remote.Store
func (s *Store) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

// Connected implements remote.Store
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

func (s *Store) get() (*storage.Client, error) {
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

	attrs, err := client.Bucket(bucket).Object(key).Attrs(ctx)
	if err != nil {
		return remote.ObjectInfo{}, mapGCSError(err)
	}
	return objectInfo(attrs), nil
}

func objectInfo(attrs *storage.ObjectAttrs) remote.ObjectInfo {
	return remote.ObjectInfo{
		Bucket:      attrs.Bucket,
		Key:         attrs.Name,
		Size:        attrs.Size,
		ContentType: attrs.ContentType,
		ETag:        attrs.Etag,
		Modified:    attrs.Updated,
		ACL:         cannedACL(attrs.ACL),
	}
}

// cannedACL reduces ACL rules to the canned ACL they correspond to
func cannedACL(rules []storage.ACLRule) string {
	var allRead, allWrite, authRead bool
	for _, r := range rules {
		switch r.Entity {
		case storage.AllUsers:
			switch r.Role {
			case storage.RoleReader:
				allRead = true
			case storage.RoleWriter, storage.RoleOwner:
				allRead, allWrite = true, true
			}
		case storage.AllAuthenticatedUsers:
			authRead = true
		}
	}

	switch {
	case allWrite:
		return "public-read-write"
	case allRead:
		return "public-read"
	case authRead:
		return "authenticated-read"
	default:
		return "private"
	}
}

// Get implements remote.Store
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	reader, err := client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, mapGCSError(err)
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// Put implements remote.Store
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	client, err := s.get()
	if err != nil {
		return err
	}

	writer := client.Bucket(bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return mapGCSError(err)
	}
	return mapGCSError(writer.Close())
}

// Delete implements remote.Store
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	client, err := s.get()
	if err != nil {
		return err
	}
	return mapGCSError(client.Bucket(bucket).Object(key).Delete(ctx))
}

// Copy implements remote.Store with a server-side copy
func (s *Store) Copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	client, err := s.get()
	if err != nil {
		return err
	}

	bkt := client.Bucket(bucket)
	_, err = bkt.Object(dstKey).CopierFrom(bkt.Object(srcKey)).Run(ctx)
	return mapGCSError(err)
}

// List implements remote.Store
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]remote.ObjectInfo, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	var out []remote.ObjectInfo
	it := client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapGCSError(err)
		}
		// Skip folder placeholders
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		out = append(out, objectInfo(attrs))
	}
	return out, nil
}

// ListBuckets implements remote.Store for the configured project
func (s *Store) ListBuckets(ctx context.Context) ([]string, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	var names []string
	it := client.Buckets(ctx, s.opts.ProjectID)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapGCSError(err)
		}
		names = append(names, attrs.Name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateBucket implements remote.Store in the configured project
func (s *Store) CreateBucket(ctx context.Context, name string) error {
	client, err := s.get()
	if err != nil {
		return err
	}
	return mapGCSError(client.Bucket(name).Create(ctx, s.opts.ProjectID, nil))
}

// DeleteBucket implements remote.Store
func (s *Store) DeleteBucket(ctx context.Context, name string) error {
	client, err := s.get()
	if err != nil {
		return err
	}
	return mapGCSError(client.Bucket(name).Delete(ctx))
}

// mapGCSError maps GCS errors to the classes remote.Store reports
func mapGCSError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %w", ufs.ErrNotExist, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ufs.ErrNotExist, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", ufs.ErrPermission, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", remote.ErrNotConnected, err)
		case http.StatusConflict:
			return fmt.Errorf("%w: %w", ufs.ErrExist, err)
		}
	}
	return err
}
