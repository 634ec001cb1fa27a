package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/aiki/pkg/aiki"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

// opener selects one repository from the assembled container.
type opener[T any] func(*aiki.Repositories) (types.Repository[T], error)

func openRepository[T any](a *app, open opener[T]) (types.Repository[T], error) {
	repos, err := a.repositories()
	if err != nil {
		return nil, err
	}
	return open(repos)
}

func newGetCmd[T any](a *app, noun string, open opener[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Print the %s stored under <group>.<key>", noun),
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository(a, open)
			if err != nil {
				return err
			}
			entity, err := repo.Get(args[0])
			if err != nil {
				return err
			}
			if entity == nil {
				return fmt.Errorf("%s %s: %w", noun, args[0], errEntityNotFound)
			}
			return a.render(cmd, entity)
		},
	}
}

func newExistsCmd[T any](a *app, noun string, open opener[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <id>",
		Short: fmt.Sprintf("Print whether a %s is stored under <group>.<key>", noun),
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository(a, open)
			if err != nil {
				return err
			}
			ok, err := repo.Exists(args[0])
			if err != nil {
				return err
			}
			return a.render(cmd, ok)
		},
	}
}

// loadForUpdate returns the entity stored under id, or a new one from
// newEntity when id is empty or nothing is stored yet. A cache document
// that does not exist yet counts as empty.
func loadForUpdate[T any](repo types.Repository[T], id string, newEntity func() *T) (*T, error) {
	if id == "" {
		return newEntity(), nil
	}
	existing, err := repo.Get(id)
	if errors.Is(err, types.ErrDocumentNotFound) {
		return newEntity(), nil
	}
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return newEntity(), nil
	}
	return existing, nil
}

// targetID checks that exactly one of an id argument or --group was given.
func targetID(args []string, group string) (string, error) {
	switch {
	case len(args) == 1 && group != "":
		return "", &usageError{err: fmt.Errorf("give either an id or --group, not both")}
	case len(args) == 1:
		return args[0], nil
	case group != "":
		return "", nil
	default:
		return "", &usageError{err: fmt.Errorf("an id or --group is required")}
	}
}
