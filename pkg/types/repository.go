package types

// Repository provides exists/get/save over one entity type. Implementations
// differ only in their backing store.
type Repository[T any] interface {
	// Exists reports whether Get would return a non-nil entity.
	Exists(id string) (bool, error)

	// Get retrieves the entity with the given composite id. A missing entity
	// is not an error: Get returns nil, nil. Returns ErrInvalidID if id
	// cannot be split into group and key.
	Get(id string) (*T, error)

	// Save writes the entity and returns it as re-derived from the stored
	// record. An empty entity key is replaced by a generated UUID v7.
	Save(entity *T) (*T, error)
}

// FeatureRepository stores Features.
type FeatureRepository = Repository[Feature]

// ErrorRepository stores ErrorEntries.
type ErrorRepository = Repository[ErrorEntry]
