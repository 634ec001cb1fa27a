// Package cli implements the aiki command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/aiki/internal/ctxlog"
	"github.com/mesh-intelligence/aiki/internal/paths"
	"github.com/mesh-intelligence/aiki/pkg/aiki"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errEntityNotFound reports a get on an id with no stored entity.
var errEntityNotFound = errors.New("entity not found")

// userErrors are the errors that map to exitUserError.
var userErrors = []error{
	errEntityNotFound,
	types.ErrDocumentNotFound,
	types.ErrParse,
	types.ErrInvalidID,
	types.ErrResolution,
	types.ErrValidation,
	types.ErrConfiguration,
	types.ErrDependencyCycle,
	types.ErrBindingNotFound,
	types.ErrTypeMismatch,
	types.ErrAlreadyRegistered,
}

// usageError marks bad flags or arguments.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs wraps a cobra argument validator so that its errors are
// reported as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	global    bool
	backend   string
	jsonMode  bool
	logLevel  string
	logFormat string
}

// app is the state of one command invocation.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
	settings  settings
	logger    *slog.Logger
	repos     *aiki.Repositories
}

// NewRootCmd creates the top-level "aiki" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *app) {
	a := &app{logger: ctxlog.Discard()}
	root := &cobra.Command{
		Use:   "aiki",
		Short: "Feature and error catalogs backed by YAML or SQLite",
		Long: "aiki stores feature descriptions and localized error messages in\n" +
			"grouped YAML documents or a SQLite database, assembled through a\n" +
			"declarative dependency container.",
		Args:              usageArgs(cobra.NoArgs),
		RunE:              func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: .aiki)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: .aiki-data)")
	pf.BoolVar(&a.flags.global, "global", false, "default to the per-user platform directories instead of the working directory")
	pf.StringVar(&a.flags.backend, "backend", "", "repository backend: yaml, yml or sqlite")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newFeatureCmd(a))
	root.AddCommand(newErrorCmd(a))
	root.AddCommand(newContainerCmd(a))
	root.AddCommand(newValidateCmd(a))
	return root, a
}

// Execute runs the root command against os.Args and returns the exit code.
func Execute() int {
	return run(newRoot())
}

// run executes root and releases the repositories opened by the invocation,
// including when the command failed.
func run(root *cobra.Command, a *app) int {
	err := root.Execute()
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintf(root.ErrOrStderr(), "aiki: %v\n", err)
	return exitCode(err)
}

// exitCode classifies err as a user or system error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var usage *usageError
	if errors.As(err, &usage) {
		return exitUserError
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// setup resolves directories, loads configuration and installs the logger.
// The version command and the bare root need none of it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" || !cmd.HasParent() {
		return nil
	}

	resolveConfigDir, resolveDataDir := paths.ResolveConfigDir, paths.ResolveDataDir
	if a.flags.global {
		resolveConfigDir, resolveDataDir = paths.ResolveGlobalConfigDir, paths.ResolveGlobalDataDir
	}

	configDir, err := resolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	s, err := loadConfig(configDir, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	dataDir, err := resolveDataDir(a.flags.dataDir, s.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	a.configDir = configDir
	a.settings = s
	a.logger = ctxlog.New(s.LogLevel, s.LogFormat, cmd.ErrOrStderr())
	a.cfg = types.Config{
		Backend:          s.Backend,
		DataDir:          dataDir,
		FeatureCachePath: s.FeatureCachePath,
		ErrorCachePath:   s.ErrorCachePath,
	}.WithDefaults()
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), a.logger))

	a.logger.Debug("configuration loaded",
		"config_dir", configDir, "data_dir", dataDir, "backend", a.cfg.Backend)
	return nil
}

func (a *app) close() error {
	if a.repos == nil {
		return nil
	}
	err := a.repos.Close()
	a.repos = nil
	return err
}

// repositories opens the repository container on first use.
func (a *app) repositories() (*aiki.Repositories, error) {
	if a.repos != nil {
		return a.repos, nil
	}
	repos, err := aiki.Open(a.cfg, aiki.Options{
		Logger:           a.logger,
		DeclarationsPath: a.settings.ContainerPath,
	})
	if err != nil {
		return nil, err
	}
	a.repos = repos
	return repos, nil
}
