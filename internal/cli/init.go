package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/aiki/internal/ctxlog"
	"github.com/mesh-intelligence/aiki/internal/yamlclient"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize aiki storage",
		Long: "Create the configuration and data directories, then prepare the\n" +
			"configured backend: empty cache documents for yaml, the database\n" +
			"schema for sqlite. Existing data is left untouched.",
		Args: usageArgs(cobra.NoArgs),
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	logger := ctxlog.FromContext(cmd.Context())

	backend, err := types.NormalizeBackend(a.cfg.Backend)
	if err != nil {
		return err
	}
	repos, err := a.repositories()
	if err != nil {
		return err
	}

	switch backend {
	case types.BackendSQLite:
		// Resolving a repository attaches the database and creates the schema.
		if _, err := repos.Features(); err != nil {
			return fmt.Errorf("initialize storage: %w", err)
		}
	default:
		client := repos.Client()
		for _, path := range []string{a.cfg.FeatureCachePath, a.cfg.ErrorCachePath} {
			ok, err := afero.Exists(client.Fs(), path)
			if err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			if ok {
				logger.Debug("cache document exists", "path", path)
				continue
			}
			if err := client.Write(path, yamlclient.Document{}); err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			logger.Info("cache document created", "path", path)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "aiki initialized (%s backend, data dir %s)\n", backend, a.cfg.DataDir)
	return nil
}
