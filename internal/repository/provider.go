package repository

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/aiki/internal/container"
	"github.com/mesh-intelligence/aiki/internal/mapper"
	"github.com/mesh-intelligence/aiki/internal/sqlite"
	"github.com/mesh-intelligence/aiki/internal/yamlclient"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

// Registry references served by a Provider.
const (
	ModulePath        = "aiki.repositories"
	FeatureCacheClass = "FeatureCache"
	ErrorCacheClass   = "ErrorCache"
)

// Container attribute ids read by the registered factories.
const (
	AttrBackend          = "backend"
	AttrFeatureCachePath = "feature_cache_path"
	AttrErrorCachePath   = "error_cache_path"
	AttrFeatureCache     = "feature_cache"
	AttrErrorCache       = "error_cache"
)

// Provider builds repositories for a Config. It owns the YAML client and a
// SQLite backend that is attached on first use.
type Provider struct {
	cfg    types.Config
	client *yamlclient.Client
	logger *slog.Logger

	mu      sync.Mutex
	backend *sqlite.Backend
}

// Option configures a Provider.
type Option func(*Provider)

// WithClient sets the YAML client used by YAML repositories.
func WithClient(c *yamlclient.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithLogger sets the provider logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// NewProvider validates cfg and returns a Provider for it.
func NewProvider(cfg types.Config, opts ...Option) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Provider{cfg: cfg.WithDefaults()}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.client == nil {
		p.client = yamlclient.New(yamlclient.WithLogger(p.logger))
	}
	return p, nil
}

// Config returns the provider configuration with defaults applied.
func (p *Provider) Config() types.Config {
	return p.cfg
}

// FeatureCache returns the feature repository for flag. path locates the
// YAML document and is ignored by the SQLite backend.
func (p *Provider) FeatureCache(flag, path string) (types.FeatureRepository, error) {
	return open[types.Feature](p, flag, path, mapper.Features{})
}

// ErrorCache returns the error repository for flag.
func (p *Provider) ErrorCache(flag, path string) (types.ErrorRepository, error) {
	return open[types.ErrorEntry](p, flag, path, mapper.Errors{})
}

func open[T any](p *Provider, flag, path string, m mapper.Mapper[T]) (types.Repository[T], error) {
	backend, err := types.NormalizeBackend(flag)
	if err != nil {
		return nil, err
	}
	switch backend {
	case types.BackendYAML:
		if path == "" {
			return nil, fmt.Errorf("%w: %s cache path must not be empty", types.ErrConfiguration, m.Section())
		}
		return NewYAML[T](p.client, path, m, p.logger), nil
	default:
		b, err := p.sqliteBackend()
		if err != nil {
			return nil, err
		}
		return sqlite.NewRecords[T](b, m), nil
	}
}

// sqliteBackend attaches the shared backend at the configured database path.
func (p *Provider) sqliteBackend() (*sqlite.Backend, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.backend != nil {
		return p.backend, nil
	}
	b := sqlite.NewBackend(p.logger)
	if err := b.Attach(p.cfg.DatabasePath()); err != nil {
		return nil, err
	}
	p.backend = b
	return b, nil
}

// Close detaches the SQLite backend if one was attached.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.backend == nil {
		return nil
	}
	err := p.backend.Detach()
	p.backend = nil
	return err
}

// Register adds the FeatureCache and ErrorCache factories to reg. Each reads
// the backend flag and its cache path from the container, falling back to
// the provider configuration.
func (p *Provider) Register(reg *container.Registry) error {
	err := reg.Register(ModulePath, FeatureCacheClass, func(c *container.Container) (any, error) {
		flag, path, err := p.settings(c, AttrFeatureCachePath, p.cfg.FeatureCachePath)
		if err != nil {
			return nil, err
		}
		r, err := p.FeatureCache(flag, path)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
	if err != nil {
		return err
	}
	return reg.Register(ModulePath, ErrorCacheClass, func(c *container.Container) (any, error) {
		flag, path, err := p.settings(c, AttrErrorCachePath, p.cfg.ErrorCachePath)
		if err != nil {
			return nil, err
		}
		r, err := p.ErrorCache(flag, path)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}

func (p *Provider) settings(c *container.Container, pathID, fallback string) (flag, path string, err error) {
	if flag, err = container.ValueOr(c, AttrBackend, p.cfg.Backend); err != nil {
		return "", "", err
	}
	if path, err = container.ValueOr(c, pathID, fallback); err != nil {
		return "", "", err
	}
	return flag, path, nil
}

// DefaultDeclarations returns the built-in container declarations for cfg:
// the backend flag, both cache paths, and the two repositories.
func DefaultDeclarations(cfg types.Config) []types.ContainerAttribute {
	cfg = cfg.WithDefaults()
	return []types.ContainerAttribute{
		types.Attribute(AttrBackend, cfg.Backend),
		types.Attribute(AttrFeatureCachePath, cfg.FeatureCachePath),
		types.Attribute(AttrErrorCachePath, cfg.ErrorCachePath),
		types.Dependency(AttrFeatureCache, ModulePath, FeatureCacheClass),
		types.Dependency(AttrErrorCache, ModulePath, ErrorCacheClass),
	}
}
