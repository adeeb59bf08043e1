// Package sqlitedb is a remote.Collection stored in a local SQLite file.
// It mirrors the hosted table's shape so the same view runs offline or
// behind the development server.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/remote"

	_ "modernc.org/sqlite"
)

var _ remote.Collection = (*DB)(nil)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DB wraps a *sql.DB holding one to-do table.
type DB struct {
	db    *sql.DB
	table string
}

// Open opens (creating if needed) the database at path and ensures the
// table exists. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path, table string) (*DB, error) {
	if table == "" {
		table = remote.DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("sqlite: invalid table name %q", table)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	// WAL enables one writer + many readers; busy_timeout avoids "database is locked" under the dev server.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	d := &DB{db: db, table: table}
	if err := d.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		"isCompleted" INTEGER NOT NULL DEFAULT 0
	);`, d.table)
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (d *DB) Close() error { return d.db.Close() }

func (d *DB) SelectAll(ctx context.Context) ([]model.Item, error) {
	q := fmt.Sprintf(`SELECT id, name, "isCompleted" FROM %q ORDER BY id ASC`, d.table)
	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: select: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.IsCompleted); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: rows: %w", err)
	}
	return items, nil
}

func (d *DB) Insert(ctx context.Context, item model.NewItem) error {
	q := fmt.Sprintf(`INSERT INTO %q (name, "isCompleted") VALUES (?, ?)`, d.table)
	if _, err := d.db.ExecContext(ctx, q, item.Name, item.IsCompleted); err != nil {
		return fmt.Errorf("sqlite: insert: %w", err)
	}
	return nil
}

func (d *DB) Update(ctx context.Context, id int64, patch model.Patch) error {
	if patch.IsCompleted == nil {
		return nil
	}
	q := fmt.Sprintf(`UPDATE %q SET "isCompleted" = ? WHERE id = ?`, d.table)
	if _, err := d.db.ExecContext(ctx, q, *patch.IsCompleted, id); err != nil {
		return fmt.Errorf("sqlite: update: %w", err)
	}
	return nil
}

func (d *DB) Delete(ctx context.Context, id int64) error {
	q := fmt.Sprintf(`DELETE FROM %q WHERE id = ?`, d.table)
	if _, err := d.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("sqlite: delete: %w", err)
	}
	return nil
}
