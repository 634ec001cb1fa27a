package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate CLI command and argument declarations",
		Long: "Validate a CLI command or argument declaration read from a YAML or\n" +
			"JSON file (\"-\" for stdin) and print it with defaults applied.",
	}
	cmd.AddCommand(newValidateModelCmd(a, "command", func(raw map[string]any) (any, error) {
		return types.NewCliCommand(raw)
	}))
	cmd.AddCommand(newValidateModelCmd(a, "argument", func(raw map[string]any) (any, error) {
		return types.NewCliArgument(raw)
	}))
	return cmd
}

func newValidateModelCmd(a *app, model string, build func(map[string]any) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   model + " <file|->",
		Short: fmt.Sprintf("Validate a CLI %s declaration", model),
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var raw map[string]any
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return &types.DocumentError{Op: "validate", Path: args[0], Kind: types.ErrParse, Err: err}
			}
			v, err := build(raw)
			if err != nil {
				return err
			}
			return a.render(cmd, v)
		},
	}
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return nil, &types.DocumentError{Op: "validate", Path: name, Kind: types.ErrDocumentNotFound}
	}
	return data, err
}
