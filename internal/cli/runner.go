package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/config"
	tadaerrors "github.com/idilsaglam/tada/internal/errors"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/schema"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options are the root flags; non-empty values override the config file.
type Options struct {
	ConfigPath string
	Backend    string
	DataDir    string
	LogLevel   string
	Theme      string
}

// app is the per-invocation session shared by subcommands.
type app struct {
	stderr  io.Writer
	opt     Options
	cfg     config.Config
	backend store.Backend
	store   *store.Store
}

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{stderr: stderr}
	defer a.close()

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	ui.Fail(stderr, message(err))
	code := exitCode(err)
	if code == 2 {
		ui.Hint(stderr, "Run `tada --help` for usage")
	}
	return code
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tada",
		Short: "tada - a tiny todo list",
		Long: `tada keeps a todo list in a local key-value store.

Items have an id, a title, a completion flag and a creation time. Every item
ever added is also kept in a created log used by "tada stats".`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.opt.ConfigPath, "config", "", "config file (default ~/.tada/config.toml)")
	f.StringVar(&a.opt.Backend, "backend", "", "storage backend: file, sqlite or memory")
	f.StringVar(&a.opt.DataDir, "data-dir", "", "directory holding the todo data (default: working directory)")
	f.StringVar(&a.opt.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.opt.Theme, "theme", "", "output theme: classic, neon or mono")

	root.AddCommand(
		newAddCommand(a),
		newListCommand(a),
		newDoneCommand(a),
		newToggleAllCommand(a),
		newRemoveCommand(a),
		newEditCommand(a),
		newClearCommand(a),
		newStatsCommand(a),
		newTUICommand(a),
		newSchemaCommand(),
	)
	return root
}

// open loads config, logging and the store. Subcommands that need the store call it first.
func (a *app) open() error {
	cfg, err := config.Load(a.opt.ConfigPath)
	if err != nil {
		return err
	}
	if a.opt.Backend != "" {
		cfg.Storage.Backend = a.opt.Backend
	}
	if a.opt.DataDir != "" {
		cfg.Storage.Dir = a.opt.DataDir
	}
	if a.opt.LogLevel != "" {
		cfg.Logging.Level = a.opt.LogLevel
	}
	if a.opt.Theme != "" {
		cfg.UI.Theme = a.opt.Theme
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if err := logging.Setup(cfg.Logging, a.stderr); err != nil {
		return tadaerrors.Wrap(err, tadaerrors.ErrCodeConfigInvalid, "open log file")
	}
	ui.SetTheme(cfg.UI.Theme)

	backend, err := store.Open(cfg.Storage)
	if err != nil {
		return err
	}
	a.backend = backend

	opts := store.FromConfig(cfg.Storage)
	opts = append(opts, store.WithLogger(logging.NewLogger("store")))
	if v, err := schema.TodoList(); err == nil {
		opts = append(opts, store.WithValidator(v))
	} else {
		logging.NewLogger("schema").WithError(err).Warn("Payload validation disabled")
	}
	a.store = store.New(backend, opts...)
	a.store.Initialize()
	return nil
}

// commit writes state when the store is not already persisting on every change.
func (a *app) commit() {
	if !a.cfg.Storage.AutoPersist {
		a.store.Persist()
	}
}

func (a *app) close() error {
	logging.Close()
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	return err
}

func parseID(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, tadaerrors.New(tadaerrors.ErrCodeInvalidInput, "not a number: "+s)
	}
	return n, nil
}

func usage(msg string) error {
	return tadaerrors.New(tadaerrors.ErrCodeInvalidInput, "usage: "+msg)
}

func message(err error) string {
	if te, ok := err.(*tadaerrors.TadaError); ok && te.Cause == nil {
		return te.Message
	}
	return err.Error()
}

func exitCode(err error) int {
	switch tadaerrors.GetCode(err) {
	case "", tadaerrors.ErrCodeInvalidInput, tadaerrors.ErrCodeNotFound:
		// uncoded errors come from cobra's flag and argument parsing
		return 2
	default:
		return 1
	}
}
