package cli

import (
	"context"
	"fmt"

	"github.com/idilsaglam/todolist/internal/auth"
	"github.com/idilsaglam/todolist/internal/platform/config"
	"github.com/idilsaglam/todolist/internal/remote"
	"github.com/idilsaglam/todolist/internal/remote/jsonfile"
	"github.com/idilsaglam/todolist/internal/remote/rest"
	"github.com/idilsaglam/todolist/internal/remote/sqlitedb"
)

// open builds the named backend from the loaded config. Resources that
// need closing are released by App.close.
func (app *App) open(ctx context.Context, backend string) (remote.Collection, error) {
	cfg := app.cfg
	switch backend {
	case config.BackendREST:
		opts := []rest.Option{rest.WithTable(cfg.Rest.Table), rest.WithLogger(app.logger)}
		ki, err := auth.Lookup(app.dataDir, cfg.Rest.APIKey)
		if err != nil {
			return nil, failed(fmt.Errorf("api key: %w", err))
		}
		if ki != nil {
			opts = append(opts, rest.WithAPIKey(ki.Key))
		}
		c, err := rest.New(cfg.Rest.URL, opts...)
		if err != nil {
			return nil, usageErr(err)
		}
		return c, nil

	case config.BackendSQLite:
		db, err := sqlitedb.Open(ctx, cfg.SQLite.Path, cfg.SQLite.Table)
		if err != nil {
			return nil, failed(err)
		}
		app.closers = append(app.closers, db.Close)
		return db, nil

	case config.BackendJSONFile:
		return jsonfile.New(cfg.JSONFile.Path), nil
	}
	return nil, usagef("unknown backend %q", backend)
}
