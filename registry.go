package ufs

import (
	"fmt"
	"sort"
	"sync"
)

// Backend is a storage medium entries live in: the local filesystem or a
// remote object store.
type Backend interface {
	// Name identifies the backend in a Registry.
	Name() string

	// Router returns the backend's operation table.
	Router() *Router

	// Path normalizes a caller supplied path for this backend.
	Path(raw string) Path

	// Open returns the entry of the given kind at p without touching the
	// store. Kinds the backend does not serve fail with ErrUnsupported.
	Open(kind Kind, p Path) (Entry, error)
}

// Registry holds the known backends and the default adapter slot. The zero
// value is not usable; create one with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	def      Backend
}

// DefaultRegistry is the process-wide registry used by the package level
// helpers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry with no default adapter
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds b, replacing any backend with the same name
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name()] = b
}

// Backend looks up a registered backend by name
func (r *Registry) Backend(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// Names returns the registered backend names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetDefault sets the default adapter. A nil backend resets the slot. A
// non-nil backend is registered as well.
func (r *Registry) SetDefault(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.def = b
	if b != nil {
		r.backends[b.Name()] = b
	}
}

// SetDefaultName makes the registered backend called name the default
func (r *Registry) SetDefaultName(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.backends[name]
	if !ok {
		return fmt.Errorf("backend %s not registered", name)
	}
	r.def = b
	return nil
}

// Default returns the default adapter, or nil when none is set
func (r *Registry) Default() Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// SetDefault sets the default adapter of DefaultRegistry
func SetDefault(b Backend) {
	DefaultRegistry.SetDefault(b)
}

// DefaultBackend returns the default adapter of DefaultRegistry
func DefaultBackend() Backend {
	return DefaultRegistry.Default()
}
