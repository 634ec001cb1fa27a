package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/aiki/pkg/aiki"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

func openFeatures(r *aiki.Repositories) (types.Repository[types.Feature], error) {
	return r.Features()
}

func newFeatureCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feature",
		Short: "Read and write features",
	}
	cmd.AddCommand(newGetCmd(a, "feature", openFeatures))
	cmd.AddCommand(newExistsCmd(a, "feature", openFeatures))
	cmd.AddCommand(newFeatureSetCmd(a))
	return cmd
}

func newFeatureSetCmd(a *app) *cobra.Command {
	var name, description, group string
	cmd := &cobra.Command{
		Use:   "set [id]",
		Short: "Create or update a feature",
		Long: "Create or update the feature stored under <group>.<key>. Only the\n" +
			"fields given by flags change on an existing feature. With --group\n" +
			"instead of an id, a new feature is created under a generated key.",
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := targetID(args, group)
			if err != nil {
				return err
			}
			repo, err := openRepository(a, openFeatures)
			if err != nil {
				return err
			}
			f, err := loadForUpdate(repo, id, func() *types.Feature {
				return &types.Feature{ID: id, GroupID: group}
			})
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				f.Name = name
			}
			if cmd.Flags().Changed("description") {
				f.Help = description
			}
			saved, err := repo.Save(f)
			if err != nil {
				return err
			}
			return a.render(cmd, saved)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&description, "description", "", "help text")
	cmd.Flags().StringVar(&group, "group", "", "group for a new feature with a generated key")
	return cmd
}
