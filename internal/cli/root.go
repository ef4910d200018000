// Package cli implements the folio command-line interface: a thin
// presentation layer over app.State. Every command writes to the cobra
// command's output streams so the tree can be driven in-process by tests.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/folio/internal/app"
	"github.com/mesh-intelligence/folio/internal/metrics"
	"github.com/mesh-intelligence/folio/internal/paths"
	"github.com/mesh-intelligence/folio/internal/storage"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	logLevel  string
	jsonMode  bool
}

// session is the per-invocation state shared by subcommands. It is built
// by the root command's PersistentPreRunE.
type session struct {
	flags  rootFlags
	config *viper.Viper
	log    *slog.Logger

	// Set by withState when this invocation performed first-time seeding.
	initializedNow bool
	seeded         int
}

// NewRootCmd creates the top-level "folio" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	s := &session{}
	root := &cobra.Command{
		Use:   "folio",
		Short: "Manage contract blueprints and the contracts made from them",
		Long: "Folio keeps reusable contract blueprints and the contracts created from\n" +
			"them, and moves each contract through created, approved, sent, signed,\n" +
			"and locked, or revokes it.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.folio)")
	pf.StringVar(&s.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.folio-db)")
	pf.StringVar(&s.flags.backend, "backend", "", "storage backend: jsonl or sqlite (default from config.yaml)")
	pf.StringVar(&s.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config.yaml)")
	pf.BoolVar(&s.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(s))
	root.AddCommand(newBlueprintCmd(s))
	root.AddCommand(newContractCmd(s))
	root.AddCommand(newStatsCmd(s))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Stderr))
}

// run executes root and maps its error to an exit code, printing the error
// to stderr.
func run(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "folio:", err)
	return exitCode(err)
}

// setup resolves the config directory, loads config.yaml, and builds the
// logger.
func (s *session) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(s.flags.configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}
	s.config, err = loadConfig(configDir)
	if err != nil {
		return sysErr(err)
	}

	level := s.flags.logLevel
	if level == "" {
		level = s.config.GetString(cfgKeyLogLevel)
	}
	s.log, err = newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return userErr(err)
	}
	return nil
}

// storeConfig returns the backend selection after applying flag overrides
// and directory precedence.
func (s *session) storeConfig() (types.Config, error) {
	backend := s.flags.backend
	if backend == "" {
		backend = s.config.GetString(cfgKeyBackend)
	}
	dataDir, err := paths.ResolveDataDir(s.flags.dataDir, s.config.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysErr(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg := types.Config{Backend: backend, DataDir: dataDir}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userErr(fmt.Errorf("backend %q: %w", backend, err))
	}
	return cfg, nil
}

// withState opens the configured store, seeds the default catalog if the
// store has never been initialized, runs fn against a State over it, and
// closes everything. When metrics_file is configured the counters are
// written there afterwards, whether or not fn failed.
func (s *session) withState(fn func(st *app.State) error) error {
	cfg, err := s.storeConfig()
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg)
	if err != nil {
		return sysErr(err)
	}
	m := metrics.New()
	st, err := app.Open(store,
		app.WithLogger(s.log.With("backend", cfg.Backend)),
		app.WithMetrics(m),
	)
	if err != nil {
		store.Close()
		return sysErr(err)
	}
	s.log.Debug("store opened", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	if !st.Initialized() {
		n, err := st.InitializeDefaults()
		if err != nil {
			st.Close()
			return check(err)
		}
		s.initializedNow = true
		s.seeded = n
	}

	runErr := fn(st)
	closeErr := st.Close()

	if path := s.config.GetString(cfgKeyMetricsFile); path != "" {
		if err := m.WriteTextfile(path); err != nil {
			s.log.Warn("metrics not written", "path", path, "err", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return sysErr(closeErr)
	}
	return nil
}

// exitError carries the exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userErr(err error) error { return &exitError{code: exitUserError, err: err} }
func sysErr(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps err to an exit code. Errors not explicitly tagged are
// classified by their sentinel: caller mistakes exit 1, everything else 2.
// Cobra's own flag and argument errors are untagged and exit 1.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if isUserError(err) {
		return exitUserError
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return exitSysError
	}
	return exitUserError
}

// isUserError reports whether err was caused by the caller's input.
func isUserError(err error) bool {
	return types.IsValidation(err) ||
		errors.Is(err, types.ErrNotFound) ||
		errors.Is(err, types.ErrInvalidID) ||
		errors.Is(err, types.ErrInvalidValue) ||
		errors.Is(err, types.ErrInvalidStatus) ||
		errors.Is(err, types.ErrInvalidFieldType)
}

// check tags an error returned by the facade with its exit code.
func check(err error) error {
	if err == nil {
		return nil
	}
	if isUserError(err) {
		return userErr(err)
	}
	return sysErr(err)
}
