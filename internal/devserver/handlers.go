package devserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/platform/logging"
	"github.com/idilsaglam/todolist/internal/remote"
)

const maxJSONBodyBytes = 1 << 20

type handler struct {
	coll   remote.Collection
	table  string
	apiKey string
	logger *slog.Logger
}

func (h *handler) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey != "" && r.Header.Get("apikey") != h.apiKey {
			writeError(w, http.StatusUnauthorized, "PGRST301", "No API key found in request or key is invalid")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) knownTable(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name := chi.URLParam(r, "table"); name != h.table {
			writeError(w, http.StatusNotFound, "PGRST205",
				"Could not find the table 'public."+name+"' in the schema cache")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) selectAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if sel := q.Get("select"); sel != "" && sel != "*" {
		writeError(w, http.StatusBadRequest, "PGRST100", "only select=* is supported")
		return
	}
	if order := q.Get("order"); order != "" && order != "id.asc" && order != "id" {
		writeError(w, http.StatusBadRequest, "PGRST100", "only order=id.asc is supported")
		return
	}

	items, err := h.coll.SelectAll(r.Context())
	if err != nil {
		h.internal(w, r, "select", err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) insert(w http.ResponseWriter, r *http.Request) {
	rows, ok := decodeRows(w, r)
	if !ok {
		return
	}
	for _, row := range rows {
		if strings.TrimSpace(row.Name) == "" {
			writeError(w, http.StatusBadRequest, "23502", `null value in column "name" violates not-null constraint`)
			return
		}
	}
	for _, row := range rows {
		if err := h.coll.Insert(r.Context(), row); err != nil {
			h.internal(w, r, "insert", err)
			return
		}
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idFilter(w, r)
	if !ok {
		return
	}
	var patch model.Patch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := h.coll.Update(r.Context(), id, patch); err != nil {
		h.internal(w, r, "update", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idFilter(w, r)
	if !ok {
		return
	}
	if err := h.coll.Delete(r.Context(), id); err != nil {
		h.internal(w, r, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	logging.FromContext(r.Context()).ErrorContext(r.Context(), "collection call failed",
		slog.String("operation", op),
		slog.Any("error", err),
	)
	writeError(w, http.StatusInternalServerError, "XX000", err.Error())
}

// idFilter requires id=eq.<int>. Unfiltered writes would touch every row,
// which PostgREST also refuses by default.
func idFilter(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("id")
	v, found := strings.CutPrefix(raw, "eq.")
	if !found {
		writeError(w, http.StatusBadRequest, "21000", "UPDATE and DELETE require an id=eq.<id> filter")
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "22P02", `invalid input syntax for type bigint: "`+v+`"`)
		return 0, false
	}
	return id, true
}

// decodeRows accepts a single object or an array of objects.
func decodeRows(w http.ResponseWriter, r *http.Request) ([]model.NewItem, bool) {
	var raw json.RawMessage
	if !decodeJSON(w, r, &raw) {
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var rows []model.NewItem
		if err := json.Unmarshal(raw, &rows); err != nil {
			writeError(w, http.StatusBadRequest, "PGRST102", "Invalid body: "+err.Error())
			return nil, false
		}
		return rows, true
	}
	var row model.NewItem
	if err := json.Unmarshal(raw, &row); err != nil {
		writeError(w, http.StatusBadRequest, "PGRST102", "Invalid body: "+err.Error())
		return nil, false
	}
	return []model.NewItem{row}, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "PGRST102", "Empty or invalid json")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, remote.APIError{Code: code, Message: msg})
}
