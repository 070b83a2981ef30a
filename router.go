package ufs

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Operation names routed by the facade.
const (
	OpTouch          = "touch"
	OpMkdir          = "mkdir"
	OpCreate         = "create"
	OpExists         = "exists"
	OpDestroy        = "destroy"
	OpMove           = "move"
	OpSize           = "size"
	OpMetadata       = "metadata"
	OpRead           = "read"
	OpWrite          = "write"
	OpAppend         = "<<"
	OpAppendOrCreate = "concat!"
	OpReadBytes      = "read_by_bytes"
	OpReadLine       = "readln"
	OpWriteLine      = "writeln"
	OpList           = "list"
)

// Router maps operation names to the entry kind that owns them. An operation
// claimed by two different kinds is revoked and stays unroutable for the
// life of the router; such operations must be called on a concrete entry
// obtained through Backend.Open.
type Router struct {
	mu      sync.RWMutex
	routes  map[string]Kind
	revoked map[string]Kind
}

// NewRouter creates an empty router
func NewRouter() *Router {
	return &Router{
		routes:  make(map[string]Kind),
		revoked: make(map[string]Kind),
	}
}

// Register records that op belongs to kind. Registering the same pair twice
// is a no-op. Registering op for a second kind revokes the route and returns
// ErrAmbiguousOperation.
func (r *Router) Register(op string, kind Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.revoked[op]; ok {
		return fmt.Errorf("%w: %q (%s, %s)", ErrAmbiguousOperation, op, prev, kind)
	}

	prev, ok := r.routes[op]
	if !ok {
		r.routes[op] = kind
		return nil
	}
	if prev == kind {
		return nil
	}

	delete(r.routes, op)
	r.revoked[op] = prev
	log.Warn().
		Str("op", op).
		Stringer("registered", prev).
		Stringer("conflict", kind).
		Msg("operation claimed by two kinds, route revoked")
	return fmt.Errorf("%w: %q (%s, %s)", ErrAmbiguousOperation, op, prev, kind)
}

// Resolve returns the kind owning op. Revoked and unknown operations fail
// with ErrUnsupported.
func (r *Router) Resolve(op string) (Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if kind, ok := r.routes[op]; ok {
		return kind, nil
	}
	if _, ok := r.revoked[op]; ok {
		return KindUnknown, fmt.Errorf("%w: %q is ambiguous, open the entry explicitly", ErrUnsupported, op)
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnsupported, op)
}

// Revoked reports whether op was claimed by more than one kind
func (r *Router) Revoked(op string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.revoked[op]
	return ok
}

// Operations returns the routable operation names, sorted
func (r *Router) Operations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]string, 0, len(r.routes))
	for op := range r.routes {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// KindInferrer is implemented by backends that can tell an entry's kind from
// the state of the store itself.
type KindInferrer interface {
	Infer(ctx context.Context, p Path) (Kind, bool)
}

// resolveKind picks the kind for op on backend b. Operations the router does
// not know fall back to inference when b supports it; revoked operations
// never do.
func resolveKind(ctx context.Context, b Backend, op string, p Path) (Kind, error) {
	router := b.Router()
	kind, err := router.Resolve(op)
	if err == nil {
		return kind, nil
	}
	if router.Revoked(op) {
		return KindUnknown, err
	}
	if inf, ok := b.(KindInferrer); ok {
		if kind, ok := inf.Infer(ctx, p); ok {
			return kind, nil
		}
	}
	return KindUnknown, err
}
