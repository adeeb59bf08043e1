package config

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrNoRestURL is returned by Validate when the rest backend has no URL.
var ErrNoRestURL = errors.New("rest.url must not be empty when backend is rest")

// Validate checks all values and returns the aggregated errors.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendREST:
		errs = append(errs, c.Rest.validate())
	case BackendSQLite:
		if c.SQLite.Path == "" {
			errs = append(errs, errors.New("sqlite.path must not be empty"))
		}
	case BackendJSONFile:
		if c.JSONFile.Path == "" {
			errs = append(errs, errors.New("jsonfile.path must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("backend must be one of: rest, sqlite, jsonfile; got %q", c.Backend))
	}
	errs = append(errs, c.Log.validate(), c.UI.validate(), c.Serve.validate())
	return errors.Join(errs...)
}

func (r *RestConfig) validate() error {
	if r.URL == "" {
		return ErrNoRestURL
	}
	u, err := url.Parse(r.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("rest.url must be an http(s) URL, got %q", r.URL)
	}
	return nil
}

func (l *LogConfig) validate() error {
	var errs []error
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}
	switch l.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}
	return errors.Join(errs...)
}

func (u *UIConfig) validate() error {
	switch u.Theme {
	case "classic", "neon", "mono":
		return nil
	}
	return fmt.Errorf("ui.theme must be one of: classic, neon, mono; got %q", u.Theme)
}

func (s *ServeConfig) validate() error {
	switch s.Backend {
	case BackendSQLite, BackendJSONFile:
		return nil
	}
	return fmt.Errorf("serve.backend must be one of: sqlite, jsonfile; got %q", s.Backend)
}
