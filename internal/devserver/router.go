// Package devserver serves a remote.Collection over the subset of the
// PostgREST protocol the rest client speaks, so the TUI can run against a
// local table with the same wire format as the hosted one.
package devserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/idilsaglam/todolist/internal/platform/logging"
	"github.com/idilsaglam/todolist/internal/remote"
)

// Option configures the handler.
type Option func(*handler)

// WithAPIKey requires every request to carry key in the apikey header.
func WithAPIKey(key string) Option {
	return func(h *handler) { h.apiKey = key }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *handler) { h.logger = l }
}

// NewRouter exposes coll as /rest/v1/{table}.
func NewRouter(coll remote.Collection, table string, opts ...Option) http.Handler {
	if table == "" {
		table = remote.DefaultTable
	}
	h := &handler{coll: coll, table: table, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))
	r.Use(h.requireAPIKey)

	r.Route("/rest/v1/{table}", func(r chi.Router) {
		r.Use(h.knownTable)
		r.Get("/", h.selectAll)
		r.Post("/", h.insert)
		r.Patch("/", h.update)
		r.Delete("/", h.delete)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "PGRST125", "Invalid path specified in request URL")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "PGRST117", "Unsupported HTTP method")
	})
	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := logging.WithLogger(r.Context(), logger)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			logger.InfoContext(ctx, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
