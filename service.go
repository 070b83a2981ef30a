package ufs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
)

// Global instance
var (
	defaultFacade *Facade
	defaultOnce   sync.Once
	defaultErr    error
)

// Builder provides a way to create Facade instances with custom prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global Facade using the builder's prefix
func (b *Builder) Init() error {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return err
	}
	return Init(cfg)
}

// New creates a new Facade using the builder's prefix
func (b *Builder) New() (*Facade, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return New(cfg)
}

// Init builds the configured backend, makes it the default adapter of
// DefaultRegistry and initializes the global facade.
func Init(configs ...*Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		var b Backend
		b, defaultErr = newBackend(cfg)
		if defaultErr != nil {
			return
		}
		DefaultRegistry.SetDefault(b)
		defaultFacade = NewFacade(DefaultRegistry)
	})

	return defaultErr
}

// New creates a facade over its own registry whose default adapter is the
// backend named by cfg.
func New(cfg *Config) (*Facade, error) {
	b, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	reg.SetDefault(b)
	return NewFacade(reg), nil
}

func newBackend(cfg *Config) (Backend, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	b, err := CreateBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend: %w", err)
	}
	return b, nil
}

// validateConfig checks configuration validity
func validateConfig(cfg *Config) error {
	if cfg.Backend == "" {
		return errors.New("backend is required")
	}

	switch cfg.Backend {
	case "local", "memory":
	case "s3":
		// Keys can come from the SDK's own chain, so only the region is needed
		if cfg.S3Region == "" {
			return errors.New("S3 region is required for S3 backend")
		}
	case "minio":
		if cfg.MinIOEndpoint == "" {
			return errors.New("MinIO endpoint is required for MinIO backend")
		}
	case "gcs":
	case "azure":
		if cfg.AzureAccountName == "" && cfg.AzureEndpoint == "" {
			return errors.New("Azure account name or endpoint is required for Azure backend")
		}
	default:
		return fmt.Errorf("unknown backend: %s", cfg.Backend)
	}

	return nil
}

// UFS returns the global facade
func UFS() *Facade {
	if defaultFacade == nil {
		_ = Init()
	}
	return defaultFacade
}

// Default returns the global facade, initializing if needed with error handling
func Default() (*Facade, error) {
	if defaultFacade == nil {
		if err := Init(); err != nil {
			return nil, err
		}
	}
	return defaultFacade, nil
}

// NewFromEnv creates a facade from environment variables (convenience constructor)
func NewFromEnv() (*Facade, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// Reset clears the global facade and the default adapter (for testing)
func Reset() {
	defaultFacade = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
	DefaultRegistry.SetDefault(nil)
}
