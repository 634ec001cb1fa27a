package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/aiki/internal/mapper"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

// Records implements types.Repository for one entity kind.
type Records[T any] struct {
	backend *Backend
	mapper  mapper.Mapper[T]
}

var (
	_ types.FeatureRepository = (*Records[types.Feature])(nil)
	_ types.ErrorRepository   = (*Records[types.ErrorEntry])(nil)
)

// NewRecords returns a repository for the kind named by m.Section().
func NewRecords[T any](b *Backend, m mapper.Mapper[T]) *Records[T] {
	return &Records[T]{backend: b, mapper: m}
}

// Exists implements types.Repository.
func (r *Records[T]) Exists(id string) (bool, error) {
	entity, err := r.Get(id)
	if err != nil {
		return false, err
	}
	return entity != nil, nil
}

// Get implements types.Repository. A missing row yields nil, nil.
func (r *Records[T]) Get(id string) (*T, error) {
	ref, err := types.ParseRef(id)
	if err != nil {
		return nil, err
	}

	r.backend.mu.RLock()
	defer r.backend.mu.RUnlock()
	if !r.backend.attached {
		return nil, types.ErrDetached
	}

	var data string
	err = r.backend.db.QueryRow(selectRecord, r.mapper.Section(), ref.GroupID, ref.Key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", r.mapper.Section(), id, err)
	}

	var rec mapper.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, &types.DocumentError{Op: "get " + id, Path: r.backend.path, Kind: types.ErrParse, Err: err}
	}
	return r.mapper.ToDomain(rec, ref)
}

// Save implements types.Repository.
func (r *Records[T]) Save(entity *T) (*T, error) {
	rec, ref, err := r.mapper.ToStorage(entity)
	if err != nil {
		return nil, err
	}
	if ref, err = ref.EnsureKey(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding %s %s: %w", r.mapper.Section(), ref.ID(), err)
	}

	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()
	if !r.backend.attached {
		return nil, types.ErrDetached
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.backend.db.Exec(upsertRecord, r.mapper.Section(), ref.GroupID, ref.Key, string(data), now); err != nil {
		return nil, fmt.Errorf("saving %s %s: %w", r.mapper.Section(), ref.ID(), err)
	}
	r.backend.logger.Debug("entity saved", "section", r.mapper.Section(), "id", ref.ID(), "path", r.backend.path)
	return r.mapper.ToDomain(rec, ref)
}
