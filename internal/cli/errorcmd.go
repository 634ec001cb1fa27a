package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/aiki/pkg/aiki"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

func openErrors(r *aiki.Repositories) (types.Repository[types.ErrorEntry], error) {
	return r.Errors()
}

func newErrorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "error",
		Short: "Read and write localized error messages",
	}
	cmd.AddCommand(newGetCmd(a, "error", openErrors))
	cmd.AddCommand(newExistsCmd(a, "error", openErrors))
	cmd.AddCommand(newErrorSetCmd(a))
	return cmd
}

func newErrorSetCmd(a *app) *cobra.Command {
	var (
		name     string
		group    string
		messages map[string]string
	)
	cmd := &cobra.Command{
		Use:   "set [id]",
		Short: "Create or update an error",
		Long: "Create or update the error stored under <group>.<code>. Each\n" +
			"--message lang=text adds or replaces one language; other\n" +
			"languages of an existing error are kept.",
		Example: "  aiki error set http.404 --name NotFound --message en='not found' --message fr=introuvable",
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := targetID(args, group)
			if err != nil {
				return err
			}
			repo, err := openRepository(a, openErrors)
			if err != nil {
				return err
			}
			e, err := loadForUpdate(repo, id, func() *types.ErrorEntry {
				return &types.ErrorEntry{ID: id, GroupID: group}
			})
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				e.ErrorName = name
			}
			if e.Message == nil {
				e.Message = make(map[string]string, len(messages))
			}
			for lang, text := range messages {
				e.Message[lang] = text
			}
			saved, err := repo.Save(e)
			if err != nil {
				return err
			}
			return a.render(cmd, saved)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "symbolic error name")
	cmd.Flags().StringVar(&group, "group", "", "group for a new error with a generated code")
	cmd.Flags().StringToStringVar(&messages, "message", nil, "message text as lang=text (repeatable)")
	return cmd
}
