package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TODO_"

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	file      string
	overrides map[string]any
}

// WithFile loads path instead of the default config file. Unlike the
// default file, an explicit file must exist.
func WithFile(path string) Option {
	return func(o *loadOptions) { o.file = path }
}

// WithOverrides applies dotted keys on top of every other layer. The CLI
// passes the flags the user actually set.
func WithOverrides(m map[string]any) Option {
	return func(o *loadOptions) { o.overrides = m }
}

// DefaultFile is $XDG_CONFIG_HOME/todo/config.yaml (or the platform
// equivalent). Empty when no config dir can be determined.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "todo", "config.yaml")
}

// Load reads configuration, highest precedence last:
//
//  1. Built-in defaults
//  2. YAML file (WithFile, else DefaultFile if it exists)
//  3. Environment variables with the TODO_ prefix
//  4. Overrides
//
// Env names map onto known keys first so that TODO_REST_API_KEY becomes
// rest.api_key rather than rest.api.key.
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")
	for key, val := range defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	path, required := o.file, true
	if path == "" {
		path, required = DefaultFile(), false
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || required {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config %s: %w", path, err)
			}
		}
	}

	envLookup := buildEnvLookup(k.Keys())
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if koanfKey, ok := envLookup[key]; ok {
				return koanfKey, value
			}
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	for key, val := range o.overrides {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("setting override %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func buildEnvLookup(keys []string) map[string]string {
	lookup := make(map[string]string, len(keys))
	for _, key := range keys {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}
	return lookup
}
