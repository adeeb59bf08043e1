package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/devserver"
	"github.com/idilsaglam/todolist/internal/ui"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a local backend over the rest protocol",
		Long: `Serve exposes the sqlite or jsonfile backend (serve.backend) with the
same REST subset the hosted table speaks, so the rest backend can be
pointed at it:

  todo serve &
  TODO_REST_URL=http://127.0.0.1:54321 todo --backend rest ls`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			coll, err := app.open(cmd.Context(), cfg.Serve.Backend)
			if err != nil {
				return err
			}
			opts := []devserver.Option{devserver.WithLogger(app.logger)}
			if cfg.Serve.APIKey != "" {
				opts = append(opts, devserver.WithAPIKey(cfg.Serve.APIKey))
			}
			srv, err := devserver.Listen(cfg.Serve.Addr, devserver.NewRouter(coll, cfg.Rest.Table, opts...), app.logger)
			if err != nil {
				return failed(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("serving %s on %s", cfg.Rest.Table, srv.URL()))
			return failed(srv.Serve(ctx))
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default serve.addr)")
	return cmd
}
