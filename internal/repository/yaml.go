// Package repository implements the entity repositories and the provider
// that selects a backing store by flag.
package repository

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/aiki/internal/mapper"
	"github.com/mesh-intelligence/aiki/internal/yamlclient"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

// YAML stores entities of type T in a single YAML document shaped
// {<section>: {groups: {<group_id>: {<section>: {<key>: <record>}}}}}.
type YAML[T any] struct {
	client *yamlclient.Client
	path   string
	mapper mapper.Mapper[T]
	logger *slog.Logger
}

var (
	_ types.FeatureRepository = (*YAML[types.Feature])(nil)
	_ types.ErrorRepository   = (*YAML[types.ErrorEntry])(nil)
)

// NewYAML creates a YAML repository over the document at path.
func NewYAML[T any](client *yamlclient.Client, path string, m mapper.Mapper[T], logger *slog.Logger) *YAML[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &YAML[T]{client: client, path: path, mapper: m, logger: logger}
}

// Path returns the backing document location.
func (r *YAML[T]) Path() string {
	return r.path
}

// Exists implements types.Repository. It reads the whole document.
func (r *YAML[T]) Exists(id string) (bool, error) {
	entity, err := r.Get(id)
	if err != nil {
		return false, err
	}
	return entity != nil, nil
}

// Get implements types.Repository.
func (r *YAML[T]) Get(id string) (*T, error) {
	ref, err := types.ParseRef(id)
	if err != nil {
		return nil, err
	}
	create := func(node yamlclient.Record) (*T, error) {
		return r.mapper.ToDomain(node, ref)
	}
	entity, err := yamlclient.Load(r.client, r.path, create, yamlclient.StartAt(NodePath(r.mapper.Section(), ref)...))
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", r.mapper.Section(), id, err)
	}
	return entity, nil
}

// Save implements types.Repository.
func (r *YAML[T]) Save(entity *T) (*T, error) {
	rec, ref, err := r.mapper.ToStorage(entity)
	if err != nil {
		return nil, err
	}
	if ref, err = ref.EnsureKey(); err != nil {
		return nil, err
	}

	savePath := yamlclient.JoinPath(NodePath(r.mapper.Section(), ref)...)
	if err := r.client.Save(r.path, rec, savePath); err != nil {
		return nil, fmt.Errorf("saving %s %s: %w", r.mapper.Section(), ref.ID(), err)
	}
	r.logger.Debug("entity saved", "section", r.mapper.Section(), "id", ref.ID(), "path", r.path)
	return r.mapper.ToDomain(rec, ref)
}

// NodePath returns the document segments addressing ref within section.
func NodePath(section string, ref types.Ref) []string {
	return []string{section, "groups", ref.GroupID, section, ref.Key}
}
