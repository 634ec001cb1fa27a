package types

// Feature is a named capability exposed by a CLI built on aiki.
// ID is derived from GroupID and FeatureKey and is never stored.
type Feature struct {
	ID         string `json:"id" yaml:"id" mapstructure:"id"`
	GroupID    string `json:"group_id" yaml:"group_id" mapstructure:"group_id"`
	FeatureKey string `json:"feature_key" yaml:"feature_key" mapstructure:"feature_key"`
	Name       string `json:"name" yaml:"name" mapstructure:"name"`
	Help       string `json:"help,omitempty" yaml:"help,omitempty" mapstructure:"help"`
}

// Ref returns the feature's address.
func (f *Feature) Ref() Ref {
	return Ref{GroupID: f.GroupID, Key: f.FeatureKey}
}

// Validate checks required fields.
func (f *Feature) Validate() error {
	v := validation{object: "feature " + f.Ref().ID()}
	if f.Name == "" {
		v.addf("name is required")
	}
	return v.err()
}
