// Package aiki is the public entry point for the feature and error
// repositories. Open assembles them through the dependency container so
// that callers pick a backend by configuration alone.
//
// Example:
//
//	repos, err := aiki.Open(types.Config{Backend: "yaml", DataDir: ".aiki-data"}, aiki.Options{})
//	if err != nil {
//	    return err
//	}
//	defer repos.Close()
//	features, err := repos.Features()
package aiki

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/mesh-intelligence/aiki/internal/container"
	"github.com/mesh-intelligence/aiki/internal/repository"
	"github.com/mesh-intelligence/aiki/internal/yamlclient"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

// Version is the aiki release version.
const Version = "0.1.0"

// ModulePath is the Go module path of aiki.
const ModulePath = "github.com/mesh-intelligence/aiki"

// Options tune Open. The zero value uses the OS filesystem, the default
// logger and the built-in container declarations.
type Options struct {
	Logger *slog.Logger
	Fs     afero.Fs

	// DeclarationsPath names a YAML document whose "container" list
	// replaces the built-in declarations.
	DeclarationsPath string
}

// Repositories holds an assembled container and the provider behind it.
type Repositories struct {
	container *container.Container
	provider  *repository.Provider
	client    *yamlclient.Client
}

// Open validates cfg and assembles the repository container. Repositories
// are built on first access.
func Open(cfg types.Config, opts Options) (*Repositories, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clientOpts := []yamlclient.Option{yamlclient.WithLogger(logger)}
	if opts.Fs != nil {
		clientOpts = append(clientOpts, yamlclient.WithFs(opts.Fs))
	}
	client := yamlclient.New(clientOpts...)

	provider, err := repository.NewProvider(cfg, repository.WithClient(client), repository.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	reg := container.NewRegistry(logger)
	if err := provider.Register(reg); err != nil {
		return nil, err
	}

	decls := repository.DefaultDeclarations(provider.Config())
	if opts.DeclarationsPath != "" {
		if decls, err = container.LoadDeclarations(client, opts.DeclarationsPath); err != nil {
			return nil, err
		}
	}
	c, err := container.NewAssembler(reg, logger).Build(decls)
	if err != nil {
		return nil, err
	}
	return &Repositories{container: c, provider: provider, client: client}, nil
}

// Features returns the repository bound to "feature_cache".
func (r *Repositories) Features() (types.FeatureRepository, error) {
	return container.Value[types.FeatureRepository](r.container, repository.AttrFeatureCache)
}

// Errors returns the repository bound to "error_cache".
func (r *Repositories) Errors() (types.ErrorRepository, error) {
	return container.Value[types.ErrorRepository](r.container, repository.AttrErrorCache)
}

// Container returns the assembled container.
func (r *Repositories) Container() *container.Container {
	return r.container
}

// Config returns the configuration with defaults applied.
func (r *Repositories) Config() types.Config {
	return r.provider.Config()
}

// Client returns the YAML document client shared by the YAML repositories.
func (r *Repositories) Client() *yamlclient.Client {
	return r.client
}

// Close releases the SQLite backend, if one was attached.
func (r *Repositories) Close() error {
	return r.provider.Close()
}
