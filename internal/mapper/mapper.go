// Package mapper converts between stored records and domain entities.
//
// Each entity type has one Mapper with two named transforms: ToDomain
// rebuilds an entity from a stored record plus the ids implied by its
// location in the document, and ToStorage produces the canonical record with
// derived fields stripped.
package mapper

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

// Record is a stored entity as a mapping of field names to values.
type Record = map[string]any

// Mapper translates one entity type.
type Mapper[T any] interface {
	// Section is the plural entity name used at both levels of the
	// document hierarchy (e.g. "features").
	Section() string

	// ToDomain builds an entity from rec. The ids in ref are merged into
	// the record before decoding and override stored values.
	ToDomain(rec Record, ref types.Ref) (*T, error)

	// ToStorage returns the record to persist and the entity's address.
	// The address key may be empty when the caller is to generate one.
	ToStorage(entity *T) (Record, types.Ref, error)
}

// withContext copies rec and sets the derived id fields from ref.
func withContext(rec Record, ref types.Ref, keyField string) Record {
	in := make(Record, len(rec)+3)
	for k, v := range rec {
		in[k] = v
	}
	in["id"] = ref.ID()
	in["group_id"] = ref.GroupID
	in[keyField] = ref.Key
	return in
}

// alias moves the value of from to to when to is absent.
func alias(rec Record, from, to string) {
	v, ok := rec[from]
	if !ok {
		return
	}
	if _, has := rec[to]; !has {
		rec[to] = v
	}
	delete(rec, from)
}

// decode fills out from rec, converting scalar types where needed.
func decode(object string, rec Record, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(rec); err != nil {
		return &types.ValidationError{Object: object, Problems: []string{err.Error()}}
	}
	return nil
}

// resolveRef reconciles an entity's id with its group and key fields. An
// entity carrying only an id takes its address from it; one carrying both
// must agree.
func resolveRef(id string, ref types.Ref) (types.Ref, error) {
	if id == "" {
		return ref, nil
	}
	parsed, err := types.ParseRef(id)
	if err != nil {
		return types.Ref{}, err
	}
	if ref.GroupID == "" && ref.Key == "" {
		return parsed, nil
	}
	if parsed != ref {
		return types.Ref{}, fmt.Errorf("%w %q: does not match %s", types.ErrInvalidID, id, ref.ID())
	}
	return ref, nil
}
