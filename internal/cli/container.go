package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

// bindingView is one container binding as printed by "container show".
type bindingView struct {
	ID       string `json:"id" yaml:"id"`
	Type     string `json:"type" yaml:"type"`
	Ref      string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`
	Resolved string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
}

func newContainerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "container",
		Short: "Inspect the dependency container",
	}
	cmd.AddCommand(newContainerShowCmd(a))
	return cmd
}

func newContainerShowCmd(a *app) *cobra.Command {
	var resolve bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the container bindings",
		Long: "List the container bindings in declaration order. With --resolve,\n" +
			"each dependency is built and its Go type reported.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			repos, err := a.repositories()
			if err != nil {
				return err
			}
			c := repos.Container()

			views := make([]bindingView, 0, len(c.IDs()))
			for _, id := range c.IDs() {
				kind, ref, _ := c.Kind(id)
				v := bindingView{ID: id, Type: kind, Ref: ref}
				switch {
				case kind == types.AttributeTypeAttribute:
					if v.Value, err = c.Get(id); err != nil {
						return err
					}
				case resolve:
					dep, err := c.Get(id)
					if err != nil {
						return err
					}
					v.Resolved = fmt.Sprintf("%T", dep)
				}
				views = append(views, v)
			}
			return a.render(cmd, views)
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "build each dependency")
	return cmd
}
