package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

// ErrStorageFull is returned when a write would exceed the configured size
var ErrStorageFull = errors.New("storage limit exceeded")

// memoryObject represents an object stored in memory
type memoryObject struct {
	content     []byte
	contentType string
	modTime     time.Time
	acl         string
}

// memoryBucket represents a bucket in memory
type memoryBucket struct {
	objects map[string]*memoryObject
	created time.Time
}

// Store provides an in-memory implementation of remote.Store.
// Useful for testing and embedding.
type Store struct {
	mu        sync.RWMutex
	buckets   map[string]*memoryBucket
	maxSize   int64 // Maximum total storage size (0 = unlimited)
	size      int64 // Current total size
	connected bool
	creds     remote.Credentials

	// Fault injection
	failConnected int
	connectErr    error
	denied        bool
	connects      int
}

var _ remote.Store = (*Store)(nil)

// Config holds configuration for the memory store
type Config struct {
	// MaxSize is the maximum total storage size in bytes (0 = unlimited)
	MaxSize int64
	// Buckets are created up front
	Buckets []string
}

// New creates a new in-memory store
func New(cfg ...Config) *Store {
	s := &Store{buckets: make(map[string]*memoryBucket)}
	if len(cfg) > 0 {
		s.maxSize = cfg[0].MaxSize
		for _, name := range cfg[0].Buckets {
			s.buckets[name] = newBucket()
		}
	}
	return s
}

func newBucket() *memoryBucket {
	return &memoryBucket{objects: make(map[string]*memoryObject), created: time.Now()}
}

// ============================================================================
// Fault injection
// ============================================================================

// FailNextConnected makes the next n store calls fail with
// remote.ErrNotConnected and drop the connection, as a store does when its
// session expires.
func (s *Store) FailNextConnected(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failConnected = n
}

// FailConnect makes every Connect fail with err until it is called with nil
func (s *Store) FailConnect(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectErr = err
}

// Deny makes every call fail with ufs.ErrPermission while denied is true
func (s *Store) Deny(denied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denied = denied
}

// Connects returns how many times Connect succeeded
func (s *Store) Connects() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connects
}

// Credentials returns the credentials of the last successful Connect
func (s *Store) Credentials() remote.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// check is run with the lock held at the start of every data call
func (s *Store) check() error {
	if s.failConnected > 0 {
		s.failConnected--
		s.connected = false
		return remote.ErrNotConnected
	}
	if !s.connected {
		return remote.ErrNotConnected
	}
	if s.denied {
		return ufs.ErrPermission
	}
	return nil
}

// ============================================================================
// Connection
// ============================================================================

// Connect implements remote.Store
func (s *Store) Connect(ctx context.Context, creds remote.Credentials) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connectErr != nil {
		s.connected = false
		return s.connectErr
	}
	s.connected = true
	s.creds = creds
	s.connects++
	return nil
}

// Disconnect implements remote.Store
func (s *Store) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

// Connected implements remote.Store
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// ============================================================================
// Objects
// ============================================================================

func (s *Store) bucket(name string) (*memoryBucket, error) {
	b, ok := s.buckets[name]
	if !ok {
		return nil, fmt.Errorf("bucket %s: %w", name, ufs.ErrNotExist)
	}
	return b, nil
}

func (s *Store) object(bucket, key string) (*memoryObject, error) {
	b, err := s.bucket(bucket)
	if err != nil {
		return nil, err
	}
	obj, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s/%s: %w", bucket, key, ufs.ErrNotExist)
	}
	return obj, nil
}

func info(bucket, key string, obj *memoryObject) remote.ObjectInfo {
	return remote.ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        int64(len(obj.content)),
		ContentType: obj.contentType,
		Modified:    obj.modTime,
		ACL:         obj.acl,
	}
}

// Find implements remote.Store
func (s *Store) Find(ctx context.Context, bucket, key string) (remote.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return remote.ObjectInfo{}, err
	}
	obj, err := s.object(bucket, key)
	if err != nil {
		return remote.ObjectInfo{}, err
	}
	return info(bucket, key, obj), nil
}

// Get implements remote.Store
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	obj, err := s.object(bucket, key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(obj.content))
	copy(out, obj.content)
	return out, nil
}

// Put implements remote.Store
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	b, err := s.bucket(bucket)
	if err != nil {
		return err
	}

	newSize := s.size + int64(len(data))
	acl := "private"
	if existing, ok := b.objects[key]; ok {
		newSize -= int64(len(existing.content))
		acl = existing.acl
	}
	if s.maxSize > 0 && newSize > s.maxSize {
		return ErrStorageFull
	}

	content := make([]byte, len(data))
	copy(content, data)
	b.objects[key] = &memoryObject{
		content:     content,
		contentType: contentType,
		modTime:     time.Now(),
		acl:         acl,
	}
	s.size = newSize
	return nil
}

// Delete implements remote.Store
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	b, err := s.bucket(bucket)
	if err != nil {
		return err
	}
	obj, ok := b.objects[key]
	if !ok {
		return fmt.Errorf("object %s/%s: %w", bucket, key, ufs.ErrNotExist)
	}
	s.size -= int64(len(obj.content))
	delete(b.objects, key)
	return nil
}

// Copy implements remote.Store
func (s *Store) Copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	src, err := s.object(bucket, srcKey)
	if err != nil {
		return err
	}
	b := s.buckets[bucket]

	newSize := s.size + int64(len(src.content))
	if existing, ok := b.objects[dstKey]; ok {
		newSize -= int64(len(existing.content))
	}
	if s.maxSize > 0 && newSize > s.maxSize {
		return ErrStorageFull
	}

	content := make([]byte, len(src.content))
	copy(content, src.content)
	b.objects[dstKey] = &memoryObject{
		content:     content,
		contentType: src.contentType,
		modTime:     time.Now(),
		acl:         src.acl,
	}
	s.size = newSize
	return nil
}

// List implements remote.Store. A prefix holding glob characters is matched
// as a pattern with "/" as separator; any other prefix is a plain key prefix.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]remote.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	b, err := s.bucket(bucket)
	if err != nil {
		return nil, err
	}

	match := func(key string) bool { return strings.HasPrefix(key, prefix) }
	if strings.ContainsAny(prefix, "*?[{") {
		g, err := glob.Compile(prefix, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", prefix, err)
		}
		match = g.Match
	}

	var out []remote.ObjectInfo
	for key, obj := range b.objects {
		if match(key) {
			out = append(out, info(bucket, key, obj))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// SetACL sets the canned ACL reported for an object
func (s *Store) SetACL(bucket, key, acl string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, err := s.object(bucket, key)
	if err != nil {
		return err
	}
	obj.acl = acl
	return nil
}

// ============================================================================
// Buckets
// ============================================================================

// ListBuckets implements remote.Store
func (s *Store) ListBuckets(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateBucket implements remote.Store
func (s *Store) CreateBucket(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.buckets[name]; ok {
		return fmt.Errorf("bucket %s: %w", name, ufs.ErrExist)
	}
	s.buckets[name] = newBucket()
	return nil
}

// DeleteBucket implements remote.Store. Only empty buckets can be deleted.
func (s *Store) DeleteBucket(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	b, err := s.bucket(name)
	if err != nil {
		return err
	}
	if len(b.objects) > 0 {
		return fmt.Errorf("bucket %s is not empty", name)
	}
	delete(s.buckets, name)
	return nil
}

// ============================================================================
// Inspection
// ============================================================================

// Clear removes all buckets and objects
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = make(map[string]*memoryBucket)
	s.size = 0
}

// Size returns the current total storage size
func (s *Store) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// ObjectCount returns the number of stored objects across buckets
func (s *Store) ObjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.buckets {
		n += len(b.objects)
	}
	return n
}
