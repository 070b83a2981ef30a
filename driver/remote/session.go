package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"

	"github.com/gobeaver/ufs"
)

// State is the connection state of a Session
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Session owns the connection to a Store and the current bucket shared by
// every entry opened through it. It is safe for concurrent use.
type Session struct {
	store   Store
	metrics *Metrics

	mu     sync.Mutex
	state  State
	creds  Credentials
	bucket string
	// unchecked is a selected bucket not yet looked up in the store
	unchecked string

	ensureMu sync.Mutex
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithCredentials sets the credentials used to connect
func WithCredentials(c Credentials) SessionOption {
	return func(s *Session) {
		s.creds = c
	}
}

// WithCurrentBucket preselects a bucket without checking the store. Use
// SetBucket to verify or create it.
func WithCurrentBucket(name string) SessionOption {
	return func(s *Session) {
		s.bucket = name
	}
}

// WithInitialBucket selects name as the current bucket and defers the
// lookup to the first store call, which creates the bucket when it is
// missing.
func WithInitialBucket(name string) SessionOption {
	return func(s *Session) {
		s.bucket = name
		s.unchecked = name
	}
}

// WithMetrics records operations and reconnects on m
func WithMetrics(m *Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// NewSession creates a disconnected session over store
func NewSession(store Store, opts ...SessionOption) *Session {
	s := &Session{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store
func (s *Session) Store() Store { return s.store }

// State returns the connection state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect establishes the connection. Connecting an already connected
// session is a no-op. On failure the session stays disconnected and a
// connection error is returned.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked(ctx)
}

// ConnectWith replaces the credentials and connects with them
func (s *Session) ConnectWith(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return s.connectLocked(ctx)
}

// ConnectFile loads credentials from a YAML or JSON document and connects
// with them.
func (s *Session) ConnectFile(ctx context.Context, path string) error {
	creds, err := LoadCredentials(path)
	if err != nil {
		return ufs.NewPathError("connect", path, ufs.ErrConnection, err)
	}
	return s.ConnectWith(ctx, creds)
}

func (s *Session) connectLocked(ctx context.Context) error {
	if s.state == Connected && s.store.Connected() {
		return nil
	}

	s.state = Connecting
	if err := s.store.Connect(ctx, s.creds); err != nil {
		s.state = Disconnected
		return ufs.NewPathError("connect", "", ufs.ErrConnection, err)
	}
	s.state = Connected
	log.Debug().Msg("remote store connected")
	return nil
}

// Disconnect tears the connection down. The next operation reconnects.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Disconnect(ctx); err != nil {
		return ufs.NewPathError("disconnect", "", ufs.ErrIO, err)
	}
	s.state = Disconnected
	log.Debug().Msg("remote store disconnected")
	return nil
}

// Bucket returns the current bucket name, or "" when none is selected
func (s *Session) Bucket() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bucket
}

// SetBucket selects the current bucket. Selecting the current bucket again
// does nothing; otherwise the bucket is looked up, created when absent and
// only then selected. Denied access is a permissions error.
func (s *Session) SetBucket(ctx context.Context, name string) error {
	if name == "" {
		return ufs.NewPathError("bucket", "", ufs.ErrConnection, ufs.ErrInvalidPath)
	}
	if s.Bucket() == name {
		return nil
	}

	if err := s.EnsureBucket(ctx, name); err != nil {
		return err
	}

	s.mu.Lock()
	s.bucket = name
	s.unchecked = ""
	s.mu.Unlock()
	return nil
}

// EnsureBucket creates the bucket when the store does not list it
func (s *Session) EnsureBucket(ctx context.Context, name string) error {
	if err := s.checkInitialBucket(ctx); err != nil {
		return err
	}
	return s.ensureBucket(ctx, name)
}

// checkInitialBucket runs the deferred lookup of a WithInitialBucket
// selection once. A failed lookup is retried by the next call.
func (s *Session) checkInitialBucket(ctx context.Context) error {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()

	s.mu.Lock()
	name := s.unchecked
	s.mu.Unlock()
	if name == "" {
		return nil
	}

	if err := s.ensureBucket(ctx, name); err != nil {
		return err
	}
	s.mu.Lock()
	if s.unchecked == name {
		s.unchecked = ""
	}
	s.mu.Unlock()
	return nil
}

func (s *Session) ensureBucket(ctx context.Context, name string) error {
	var buckets []string
	err := s.run(ctx, "list_buckets", func(ctx context.Context) error {
		var err error
		buckets, err = s.store.ListBuckets(ctx)
		return err
	})
	if err != nil {
		return classify("bucket", name, err)
	}

	for _, b := range buckets {
		if b == name {
			return nil
		}
	}

	err = s.run(ctx, "create_bucket", func(ctx context.Context) error {
		return s.store.CreateBucket(ctx, name)
	})
	if err != nil {
		return classify("bucket", name, err)
	}
	log.Info().Str("bucket", name).Msg("created missing bucket")
	return nil
}

func (s *Session) find(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	var info ObjectInfo
	err := s.do(ctx, "find", func(ctx context.Context) error {
		var err error
		info, err = s.store.Find(ctx, bucket, key)
		return err
	})
	return info, err
}

// do runs fn against the store once a deferred initial bucket is in place
func (s *Session) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := s.checkInitialBucket(ctx); err != nil {
		return err
	}
	return s.run(ctx, op, fn)
}

// run runs fn against the store, connecting first when the session is
// disconnected. A store reporting ErrNotConnected triggers exactly one
// reconnect and retry; a second failure is a connection error.
func (s *Session) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if s.State() != Connected {
		if err := s.Connect(ctx); err != nil {
			s.metrics.observe(op, err)
			return err
		}
	}

	attempt := 0
	operation := func() error {
		if attempt > 0 {
			s.mu.Lock()
			s.state = Disconnected
			err := s.connectLocked(ctx)
			s.mu.Unlock()
			if err != nil {
				return backoff.Permanent(err)
			}
			s.metrics.reconnected()
		}
		attempt++

		err := fn(ctx)
		if err == nil || errors.Is(err, ErrNotConnected) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 1), ctx)
	err := backoff.RetryNotify(operation, policy, func(err error, _ time.Duration) {
		log.Debug().Err(err).Str("op", op).Msg("store not connected, reconnecting")
	})
	s.metrics.observe(op, err)

	if errors.Is(err, ErrNotConnected) {
		s.mu.Lock()
		s.state = Disconnected
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", ufs.ErrConnection, err)
	}
	return err
}

// classify wraps a store error in a PathError, mapping denied access to
// ufs.ErrPermission and anything unclassified to ufs.ErrIO.
func classify(op, path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ufs.ErrIO):
		return ufs.WrapPathErr(op, path, err)
	default:
		return ufs.NewPathError(op, path, ufs.ErrIO, err)
	}
}
