// Package cli wires configuration, logging and the selected backend into
// cobra commands. With no subcommand it starts the TUI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/platform/config"
	"github.com/idilsaglam/todolist/internal/platform/logging"
	"github.com/idilsaglam/todolist/internal/remote"
	"github.com/idilsaglam/todolist/internal/tui"
	"github.com/idilsaglam/todolist/internal/ui"
)

// App carries what every command needs once PersistentPreRunE has run.
type App struct {
	ConfigFile string
	Backend    string
	Theme      string
	LogLevel   string

	cfg     *config.Config
	logger  *slog.Logger
	dataDir string
	closers []func() error

	runTUI func(ctx context.Context, coll remote.Collection, logger *slog.Logger) error
}

// flagKeys maps flags onto config keys. Only flags the user set become
// overrides so env and file values are not clobbered by flag defaults.
var flagKeys = map[string]string{
	"backend":   "backend",
	"theme":     "ui.theme",
	"log-level": "log.level",
	"addr":      "serve.addr",
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newApp() *App {
	return &App{dataDir: config.DataDir(), runTUI: tui.Run}
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "A to-do list backed by a remote table",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands
  todo add "Buy milk"
  todo ls --group
  todo done 2
  todo rm 3
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := app.open(cmd.Context(), app.cfg.Backend)
			if err != nil {
				return err
			}
			return app.runTUI(cmd.Context(), coll, app.logger)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr(err)
	})

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Backend (rest|sqlite|jsonfile)")
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", "", "Output theme (classic|neon|mono)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

// setup loads config and builds the logger. The root command is the TUI,
// which owns the terminal, so it always logs to a file.
func (app *App) setup(cmd *cobra.Command) error {
	overrides := map[string]any{}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}
	opts := []config.Option{config.WithOverrides(overrides)}
	if app.ConfigFile != "" {
		opts = append(opts, config.WithFile(app.ConfigFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return usageErr(err)
	}
	app.cfg = cfg
	ui.SetTheme(cfg.UI.Theme)

	var w io.Writer = cmd.ErrOrStderr()
	path := cfg.Log.File
	if path == "" && cmd == cmd.Root() {
		path = config.DefaultLogFile()
	}
	if path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			return failed(err)
		}
		app.closers = append(app.closers, f.Close)
		w = f
	}
	app.logger = logging.New(cfg.Log.Level, cfg.Log.Format, w)
	cmd.SetContext(logging.WithLogger(cmd.Context(), app.logger))
	return nil
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		_ = app.closers[i]()
	}
	app.closers = nil
}

// Run executes the command line and returns the process exit code:
// 0 ok, 1 operation failed, 2 usage.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp()
	defer app.close()
	return run(ctx, app, args, stdin, stdout, stderr)
}

func run(ctx context.Context, app *App, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())

	var fe *failedError
	if errors.As(err, &fe) {
		return 1
	}
	fmt.Fprintln(stderr, "Run 'todo --help' for usage.")
	return 2
}
