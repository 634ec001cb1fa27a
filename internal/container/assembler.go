package container

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

// Assembler builds Containers against a Registry.
type Assembler struct {
	registry *Registry
	logger   *slog.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(registry *Registry, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{registry: registry, logger: logger}
}

// Build validates attrs and binds each under its id. Dependency references
// are resolved against the registry here, so an unknown reference fails the
// build with ErrResolution; the factories themselves run lazily on Get.
func (a *Assembler) Build(attrs []types.ContainerAttribute) (*Container, error) {
	c := newContainer(a.logger)
	for i, attr := range attrs {
		if err := attr.Validate(); err != nil {
			return nil, fmt.Errorf("container attribute %d: %w", i, err)
		}
		b := &binding{kind: attr.Type}
		switch attr.Type {
		case types.AttributeTypeDependency:
			f, err := a.registry.Lookup(attr.ID, attr.Data.ModulePath, attr.Data.ClassName)
			if err != nil {
				return nil, err
			}
			b.ref = Reference(attr.Data.ModulePath, attr.Data.ClassName)
			b.factory = f
		case types.AttributeTypeAttribute:
			b.value = attr.Data.Value
		}
		c.bind(attr.ID, b)
		a.logger.Debug("container attribute bound", "id", attr.ID, "type", attr.Type)
	}
	return c, nil
}
