package types

// Container attribute types.
const (
	AttributeTypeDependency = "dependency"
	AttributeTypeAttribute  = "attribute"
)

// ContainerAttribute declares one container binding. A dependency names a
// registered factory by ModulePath and ClassName; an attribute carries a
// literal Value.
type ContainerAttribute struct {
	Type string        `json:"type" yaml:"type" mapstructure:"type"`
	ID   string        `json:"id" yaml:"id" mapstructure:"id"`
	Data AttributeData `json:"data" yaml:"data" mapstructure:"data"`
}

// AttributeData is the payload of a ContainerAttribute.
type AttributeData struct {
	ModulePath string `json:"module_path,omitempty" yaml:"module_path,omitempty" mapstructure:"module_path"`
	ClassName  string `json:"class_name,omitempty" yaml:"class_name,omitempty" mapstructure:"class_name"`
	Value      any    `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
}

// Dependency declares a binding resolved from the registry.
func Dependency(id, modulePath, className string) ContainerAttribute {
	return ContainerAttribute{
		Type: AttributeTypeDependency,
		ID:   id,
		Data: AttributeData{ModulePath: modulePath, ClassName: className},
	}
}

// Attribute declares a literal binding.
func Attribute(id string, value any) ContainerAttribute {
	return ContainerAttribute{
		Type: AttributeTypeAttribute,
		ID:   id,
		Data: AttributeData{Value: value},
	}
}

// Validate checks the variant tag and the fields it requires.
func (a ContainerAttribute) Validate() error {
	v := validation{object: "container attribute " + a.ID}
	if a.ID == "" {
		v.object = "container attribute"
		v.addf("id is required")
	}
	switch a.Type {
	case AttributeTypeDependency:
		if a.Data.ModulePath == "" {
			v.addf("data.module_path is required for a dependency")
		}
		if a.Data.ClassName == "" {
			v.addf("data.class_name is required for a dependency")
		}
	case AttributeTypeAttribute:
	default:
		v.addf("type %q is not one of %s, %s", a.Type, AttributeTypeDependency, AttributeTypeAttribute)
	}
	return v.err()
}
