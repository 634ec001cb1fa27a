package mapper

import "github.com/mesh-intelligence/aiki/pkg/types"

// Features maps types.Feature.
type Features struct{}

var _ Mapper[types.Feature] = Features{}

// Section implements Mapper.
func (Features) Section() string { return "features" }

// ToDomain implements Mapper. A stored "description" is read as "help".
func (Features) ToDomain(rec Record, ref types.Ref) (*types.Feature, error) {
	in := withContext(rec, ref, "feature_key")
	alias(in, "description", "help")

	var f types.Feature
	if err := decode("feature "+ref.ID(), in, &f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ToStorage implements Mapper.
func (Features) ToStorage(f *types.Feature) (Record, types.Ref, error) {
	ref, err := resolveRef(f.ID, f.Ref())
	if err != nil {
		return nil, types.Ref{}, err
	}
	if err := f.Validate(); err != nil {
		return nil, types.Ref{}, err
	}
	rec := Record{"name": f.Name}
	if f.Help != "" {
		rec["help"] = f.Help
	}
	return rec, ref, nil
}
