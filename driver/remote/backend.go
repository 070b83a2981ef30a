package remote

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gobeaver/ufs"
)

// Backend exposes a Session as a ufs.Backend. Objects live in the session's
// current bucket; bucket paths name the bucket itself.
type Backend struct {
	name string
	s    *Session
}

// New creates a backend called name over s
func New(name string, s *Session) *Backend {
	return &Backend{name: name, s: s}
}

// Name implements ufs.Backend
func (b *Backend) Name() string { return b.name }

// Session returns the backend's session
func (b *Backend) Session() *Session { return b.s }

// Router implements ufs.Backend
func (b *Backend) Router() *ufs.Router { return routes() }

var routes = sync.OnceValue(func() *ufs.Router {
	r := ufs.NewRouter()
	for _, op := range []string{
		ufs.OpTouch, ufs.OpCreate, ufs.OpExists, ufs.OpDestroy, ufs.OpMove, ufs.OpSize,
		ufs.OpMetadata, ufs.OpRead, ufs.OpWrite, ufs.OpAppend, ufs.OpAppendOrCreate,
		ufs.OpReadBytes, ufs.OpReadLine, ufs.OpWriteLine,
	} {
		_ = r.Register(op, ufs.KindObject)
	}
	for _, op := range []string{ufs.OpMkdir, ufs.OpList} {
		_ = r.Register(op, ufs.KindBucket)
	}
	return r
})

// Path implements ufs.Backend. Keys are rooted at the bucket, never at the
// working directory.
func (b *Backend) Path(raw string) ufs.Path {
	return ufs.NewPath(ufs.Separator, raw)
}

// Open implements ufs.Backend. A bucket is named by the first element of p.
func (b *Backend) Open(kind ufs.Kind, p ufs.Path) (ufs.Entry, error) {
	switch kind {
	case ufs.KindObject:
		return NewObject(b.s, p), nil
	case ufs.KindBucket:
		name, _, _ := strings.Cut(p.Key(), ufs.Separator)
		return NewBucket(b.s, name), nil
	default:
		return nil, fmt.Errorf("%w: remote backend has no %s entries", ufs.ErrUnsupported, kind)
	}
}

// FromConfig builds the backend a provider registers with ufs.RegisterBackend.
// Credentials come from cfg.CredentialsFile when it is set and from creds
// otherwise. bucket, when not empty, becomes the current bucket and is
// created on first use when the store lacks it.
func FromConfig(name string, store Store, cfg *ufs.Config, bucket string, creds Credentials) (*Backend, error) {
	if cfg.CredentialsFile != "" {
		loaded, err := LoadCredentials(cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		creds = loaded
	}

	opts := []SessionOption{WithCredentials(creds)}
	if bucket != "" {
		opts = append(opts, WithInitialBucket(bucket))
	}
	return New(name, NewSession(store, opts...)), nil
}
