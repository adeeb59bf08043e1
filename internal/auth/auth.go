// Package auth stores the API key the rest backend sends with every
// request. Lookup order: TODO_API_KEY, then the configured rest.api_key,
// then the credentials file in the data dir.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	credFileName = "credentials.json"

	// EnvVar overrides every other key source.
	EnvVar = "TODO_API_KEY"
)

// Key sources reported by Lookup.
const (
	SourceEnv    = "env"
	SourceConfig = "config"
	SourceFile   = "file"
)

// KeyInfo is a resolved API key and where it came from.
type KeyInfo struct {
	Key       string    `json:"key"`
	Source    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func credFilePath(dir string) string {
	return filepath.Join(dir, credFileName)
}

// Lookup resolves the key. It returns nil, nil when no key is set anywhere.
func Lookup(dir, configured string) (*KeyInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvVar)); env != "" {
		return &KeyInfo{Key: stripBearer(env), Source: SourceEnv}, nil
	}
	if configured = strings.TrimSpace(configured); configured != "" {
		return &KeyInfo{Key: stripBearer(configured), Source: SourceConfig}, nil
	}

	b, err := os.ReadFile(credFilePath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ki KeyInfo
	if err := json.Unmarshal(b, &ki); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ki.Key = stripBearer(ki.Key)
	ki.Source = SourceFile
	if ki.Key == "" {
		return nil, nil
	}
	return &ki, nil
}

// Save writes key to the credentials file, owner-only.
func Save(dir, key string) error {
	key = stripBearer(strings.TrimSpace(key))
	if key == "" {
		return errors.New("empty key")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(KeyInfo{Key: key, CreatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(credFilePath(dir), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Remove deletes the credentials file; a missing file is not an error.
func Remove(dir string) error {
	if err := os.Remove(credFilePath(dir)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
