package ufs

import (
	"fmt"
	"sort"
	"sync"
)

// BackendFactory is a function that creates a Backend from a config
type BackendFactory func(cfg *Config) (Backend, error)

var (
	backendFactories = make(map[string]BackendFactory)
	factoryMutex     sync.RWMutex
)

// RegisterBackend registers a backend factory function
func RegisterBackend(name string, factory BackendFactory) {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()
	backendFactories[name] = factory
}

// CreateBackend creates the backend named by cfg.Backend
func CreateBackend(cfg *Config) (Backend, error) {
	factoryMutex.RLock()
	factory, exists := backendFactories[cfg.Backend]
	factoryMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("backend %s not registered", cfg.Backend)
	}

	return factory(cfg)
}

// RegisteredBackends returns the names of all registered factories
func RegisteredBackends() []string {
	factoryMutex.RLock()
	defer factoryMutex.RUnlock()

	names := make([]string, 0, len(backendFactories))
	for name := range backendFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
