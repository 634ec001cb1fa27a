package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IDSeparator joins the group id and the entity key of a composite id.
const IDSeparator = "."

// Ref addresses an entity inside its group.
type Ref struct {
	GroupID string
	Key     string
}

// ParseRef splits id on the first separator. Returns ErrInvalidID if the
// separator is missing or either part is empty or itself contains the
// separator.
func ParseRef(id string) (Ref, error) {
	group, key, ok := strings.Cut(id, IDSeparator)
	if !ok {
		return Ref{}, fmt.Errorf("%w %q: expected <group_id>%s<key>", ErrInvalidID, id, IDSeparator)
	}
	ref := Ref{GroupID: group, Key: key}
	if err := ref.Validate(); err != nil {
		return Ref{}, err
	}
	return ref, nil
}

// ID returns the composite id.
func (r Ref) ID() string {
	return r.GroupID + IDSeparator + r.Key
}

// Validate checks that both parts are non-empty and free of the separator.
func (r Ref) Validate() error {
	switch {
	case r.GroupID == "":
		return fmt.Errorf("%w %q: empty group id", ErrInvalidID, r.ID())
	case r.Key == "":
		return fmt.Errorf("%w %q: empty key", ErrInvalidID, r.ID())
	case strings.Contains(r.GroupID, IDSeparator):
		return fmt.Errorf("%w: group id %q contains %q", ErrInvalidID, r.GroupID, IDSeparator)
	case strings.Contains(r.Key, IDSeparator):
		return fmt.Errorf("%w: key %q contains %q", ErrInvalidID, r.Key, IDSeparator)
	}
	return nil
}

// EnsureKey returns r with an empty Key replaced by a UUID v7, validated.
func (r Ref) EnsureKey() (Ref, error) {
	if r.Key == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return Ref{}, fmt.Errorf("generating UUID v7: %w", err)
		}
		r.Key = id.String()
	}
	if err := r.Validate(); err != nil {
		return Ref{}, err
	}
	return r, nil
}
