package container

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

// binding is one named entry of a Container.
type binding struct {
	kind     string
	ref      string
	value    any
	factory  Factory
	resolved bool
}

// Container exposes the bindings produced by Assembler.Build. Literal
// attributes are available immediately; dependencies are built on first
// Get and memoized. A Container is not safe for concurrent use.
type Container struct {
	bindings  map[string]*binding
	order     []string
	resolving []string
	logger    *slog.Logger
}

func newContainer(logger *slog.Logger) *Container {
	return &Container{bindings: make(map[string]*binding), logger: logger}
}

// bind stores b under id. A repeated id replaces the earlier binding.
func (c *Container) bind(id string, b *binding) {
	if _, exists := c.bindings[id]; exists {
		c.logger.Warn("duplicate container attribute id, last declaration wins", "id", id)
	} else {
		c.order = append(c.order, id)
	}
	c.bindings[id] = b
}

// IDs returns the bound ids in declaration order.
func (c *Container) IDs() []string {
	return append([]string(nil), c.order...)
}

// Has reports whether id is bound.
func (c *Container) Has(id string) bool {
	_, ok := c.bindings[id]
	return ok
}

// Kind returns the attribute type of id and, for dependencies, the
// reference it was resolved from.
func (c *Container) Kind(id string) (kind, ref string, ok bool) {
	b, ok := c.bindings[id]
	if !ok {
		return "", "", false
	}
	return b.kind, b.ref, true
}

// Get returns the value bound to id, building a dependency on first use.
func (c *Container) Get(id string) (any, error) {
	b, ok := c.bindings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrBindingNotFound, id)
	}
	if b.kind == types.AttributeTypeAttribute || b.resolved {
		return b.value, nil
	}

	for _, r := range c.resolving {
		if r == id {
			chain := append(append([]string(nil), c.resolving...), id)
			return nil, fmt.Errorf("%w: %s", types.ErrDependencyCycle, strings.Join(chain, " -> "))
		}
	}
	c.resolving = append(c.resolving, id)
	defer func() { c.resolving = c.resolving[:len(c.resolving)-1] }()

	v, err := b.factory(c)
	if err != nil {
		return nil, fmt.Errorf("resolving %s (%s): %w", id, b.ref, err)
	}
	b.value, b.resolved = v, true
	c.logger.Debug("dependency resolved", "id", id, "ref", b.ref)
	return v, nil
}

// Value returns the binding for id as a T. Returns ErrTypeMismatch if the
// bound value is not a T.
func Value[T any](c *Container, id string) (T, error) {
	var zero T
	v, err := c.Get(id)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, want %T", types.ErrTypeMismatch, id, v, zero)
	}
	return t, nil
}

// ValueOr returns the binding for id as a T, or fallback when id is unbound,
// declared without a value, or holds the zero value.
func ValueOr[T comparable](c *Container, id string, fallback T) (T, error) {
	if !c.Has(id) {
		return fallback, nil
	}
	v, err := c.Get(id)
	if err != nil || v == nil {
		return fallback, err
	}
	t, ok := v.(T)
	if !ok {
		return fallback, fmt.Errorf("%w: %s is %T, want %T", types.ErrTypeMismatch, id, v, t)
	}
	var zero T
	if t == zero {
		return fallback, nil
	}
	return t, nil
}
