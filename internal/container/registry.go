// Package container assembles dependency-injection containers from
// declarative attribute lists.
//
// Dependencies are not discovered by name at runtime: every loadable
// implementation is registered up front under a (module path, class name)
// reference, and a declaration can only name what the Registry holds.
package container

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

// Factory builds the value bound to a dependency. It may pull other
// bindings from c.
type Factory func(c *Container) (any, error)

// Registry maps dependency references to factories.
type Registry struct {
	factories map[string]Factory
	logger    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{factories: make(map[string]Factory), logger: logger}
}

// Reference returns the registry key for a module path and class name.
func Reference(modulePath, className string) string {
	return modulePath + "." + className
}

// Register stores f under modulePath and className. Returns
// ErrAlreadyRegistered for a duplicate reference.
func (r *Registry) Register(modulePath, className string, f Factory) error {
	if modulePath == "" || className == "" {
		return fmt.Errorf("container: module path and class name must not be empty")
	}
	if f == nil {
		return fmt.Errorf("container: factory for %s is nil", Reference(modulePath, className))
	}
	ref := Reference(modulePath, className)
	if _, exists := r.factories[ref]; exists {
		return fmt.Errorf("%w: %s", types.ErrAlreadyRegistered, ref)
	}
	r.logger.Debug("registering dependency", "ref", ref)
	r.factories[ref] = f
	return nil
}

// MustRegister is Register that panics on error, for use at startup.
func (r *Registry) MustRegister(modulePath, className string, f Factory) {
	if err := r.Register(modulePath, className, f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory for a declared dependency, or a
// *types.ResolutionError naming the closest registered reference.
func (r *Registry) Lookup(id, modulePath, className string) (Factory, error) {
	ref := Reference(modulePath, className)
	if f, ok := r.factories[ref]; ok {
		return f, nil
	}
	return nil, &types.ResolutionError{
		ID:         id,
		ModulePath: modulePath,
		ClassName:  className,
		Suggestion: r.suggest(ref),
	}
}

// References returns the registered references in sorted order.
func (r *Registry) References() []string {
	refs := make([]string, 0, len(r.factories))
	for ref := range r.factories {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// suggest finds the registered reference closest to ref: a fuzzy
// subsequence match first, then the smallest edit distance within a third
// of the reference length.
func (r *Registry) suggest(ref string) string {
	refs := r.References()
	if len(refs) == 0 {
		return ""
	}
	if ranks := fuzzy.RankFindFold(ref, refs); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", -1
	for _, cand := range refs {
		d := fuzzy.LevenshteinDistance(strings.ToLower(ref), strings.ToLower(cand))
		if bestDist < 0 || d < bestDist {
			best, bestDist = cand, d
		}
	}
	if bestDist <= max(3, len(ref)/3) {
		return best
	}
	return ""
}
