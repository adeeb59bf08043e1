package config

import (
	"os"
	"path/filepath"
)

// DataDir is where local state lives: ~/.todo, or ./.todo without a home.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".todo"
	}
	return filepath.Join(home, ".todo")
}

// DefaultLogFile is where the TUI logs when log.file is unset.
func DefaultLogFile() string {
	return filepath.Join(DataDir(), "todo.log")
}

func defaults() map[string]any {
	dir := DataDir()
	return map[string]any{
		"backend": BackendSQLite,

		"rest.url":     "",
		"rest.api_key": "",
		"rest.table":   "TodoList",

		"sqlite.path":  filepath.Join(dir, "todo.sqlite"),
		"sqlite.table": "TodoList",

		"jsonfile.path": filepath.Join(dir, "todos.json"),

		"log.level":  "info",
		"log.format": "text",
		"log.file":   "",

		"ui.theme": "classic",

		"serve.addr":    "127.0.0.1:54321",
		"serve.api_key": "",
		"serve.backend": BackendSQLite,
	}
}
