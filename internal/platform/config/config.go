// Package config loads settings with a layered system:
// defaults -> config.yaml -> TODO_* environment variables -> flag overrides.
package config

// Backend names accepted by the backend key.
const (
	BackendREST     = "rest"
	BackendSQLite   = "sqlite"
	BackendJSONFile = "jsonfile"
)

// Config holds all configuration for the tool.
type Config struct {
	Backend  string         `koanf:"backend"`
	Rest     RestConfig     `koanf:"rest"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	JSONFile JSONFileConfig `koanf:"jsonfile"`
	Log      LogConfig      `koanf:"log"`
	UI       UIConfig       `koanf:"ui"`
	Serve    ServeConfig    `koanf:"serve"`
}

// RestConfig points at the hosted table.
type RestConfig struct {
	URL    string `koanf:"url"`
	APIKey string `koanf:"api_key"`
	Table  string `koanf:"table"`
}

type SQLiteConfig struct {
	Path  string `koanf:"path"`
	Table string `koanf:"table"`
}

type JSONFileConfig struct {
	Path string `koanf:"path"`
}

// LogConfig holds structured logging settings. An empty File means
// stderr for scriptable commands and DefaultLogFile for the TUI.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

type UIConfig struct {
	Theme string `koanf:"theme"`
}

// ServeConfig configures the development server. Backend must be a local
// one; serving the rest backend would only proxy to itself.
type ServeConfig struct {
	Addr    string `koanf:"addr"`
	APIKey  string `koanf:"api_key"`
	Backend string `koanf:"backend"`
}
