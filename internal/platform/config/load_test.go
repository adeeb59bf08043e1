package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/platform/config"
)

// isolate points HOME and XDG_CONFIG_HOME at a temp dir so the developer's
// own config never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, cfg.Backend)
	assert.Equal(t, filepath.Join(home, ".todo", "todo.sqlite"), cfg.SQLite.Path)
	assert.Equal(t, "TodoList", cfg.Rest.Table)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "classic", cfg.UI.Theme)
	assert.Equal(t, "127.0.0.1:54321", cfg.Serve.Addr)
}

func TestLoad_DefaultFileIsPickedUp(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config", "todo", "config.yaml"), `
backend: rest
rest:
  url: https://abc.example.co
  api_key: anon
log:
  level: debug
`)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.BackendREST, cfg.Backend)
	assert.Equal(t, "https://abc.example.co", cfg.Rest.URL)
	assert.Equal(t, "anon", cfg.Rest.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "TodoList", cfg.Rest.Table, "untouched keys keep defaults")
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	home := isolate(t)
	_, err := config.Load(config.WithFile(filepath.Join(home, "missing.yaml")))
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "todo.yaml")
	writeFile(t, path, "log:\n  level: warn\n")
	t.Setenv("TODO_LOG_LEVEL", "error")
	t.Setenv("TODO_BACKEND", "jsonfile")
	t.Setenv("TODO_JSONFILE_PATH", filepath.Join(home, "x.json"))

	cfg, err := config.Load(config.WithFile(path))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, config.BackendJSONFile, cfg.Backend)
	assert.Equal(t, filepath.Join(home, "x.json"), cfg.JSONFile.Path)
}

func TestLoad_EnvSnakeCaseKey(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_BACKEND", "rest")
	t.Setenv("TODO_REST_URL", "http://localhost:54321")
	t.Setenv("TODO_REST_API_KEY", "k")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.Rest.APIKey)
}

func TestLoad_OverridesWin(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_UI_THEME", "neon")

	cfg, err := config.Load(config.WithOverrides(map[string]any{"ui.theme": "mono"}))
	require.NoError(t, err)
	assert.Equal(t, "mono", cfg.UI.Theme)
}

func TestLoad_RestWithoutURLFails(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_BACKEND", "rest")

	_, err := config.Load()
	require.ErrorIs(t, err, config.ErrNoRestURL)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &config.Config{
		Backend: "postgres",
		Log:     config.LogConfig{Level: "verbose", Format: "xml"},
		UI:      config.UIConfig{Theme: "pink"},
		Serve:   config.ServeConfig{Backend: "rest"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"backend", "log.level", "log.format", "ui.theme", "serve.backend"} {
		assert.ErrorContains(t, err, want)
	}
}
