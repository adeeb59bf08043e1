package cli

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/remote"
)

type result struct {
	code     int
	out, err string
}

type harness struct {
	t    *testing.T
	home string
	tui  func(ctx context.Context, coll remote.Collection, logger *slog.Logger) error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("TODO_API_KEY", "")
	return &harness{t: t, home: home}
}

func (h *harness) run(stdin string, args ...string) result {
	h.t.Helper()
	app := newApp()
	if h.tui != nil {
		app.runTUI = h.tui
	}
	defer app.close()

	var out, errb bytes.Buffer
	code := run(context.Background(), app, args, strings.NewReader(stdin), &out, &errb)
	return result{code: code, out: out.String(), err: errb.String()}
}

func (h *harness) dataPath(name string) string {
	return filepath.Join(h.home, ".todo", name)
}

func TestItemsLifecycle(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "--theme", "mono", "add", "Buy", "milk")
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t, "✔ added\n", r.out)

	r = h.run("", "--theme", "mono", "ls")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "1. [ ] Buy milk")
	assert.Contains(t, r.out, "Total 1")

	r = h.run("", "--theme", "mono", "done", "1")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "completed")

	r = h.run("", "--theme", "mono", "ls", "--group")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Done")
	assert.Contains(t, r.out, "1. [x] Buy milk")

	r = h.run("", "--theme", "mono", "done", "1")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "reopened")

	r = h.run("", "--theme", "mono", "rm", "1")
	require.Equal(t, 0, r.code, r.err)

	r = h.run("", "--theme", "mono", "ls")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "no items")

	assert.FileExists(t, h.dataPath("todo.sqlite"))
}

func TestJSONFileBackend(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "--backend", "jsonfile", "add", "Walk dog")
	require.Equal(t, 0, r.code, r.err)

	b, err := os.ReadFile(h.dataPath("todos.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Walk dog")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"blank add", []string{"add", "   "}, "usage: todo add"},
		{"add without args", []string{"add"}, "usage: todo add"},
		{"done without id", []string{"done"}, "usage: todo done <id>"},
		{"done bad id", []string{"done", "abc"}, "not an id: abc"},
		{"rm bad id", []string{"rm", "1x"}, "not an id: 1x"},
		{"unknown command", []string{"frobnicate"}, "unknown command"},
		{"unknown flag", []string{"ls", "--nope"}, "unknown flag"},
		{"bad theme", []string{"--theme", "bogus", "ls"}, "ui.theme"},
		{"bad backend", []string{"--backend", "nope", "ls"}, "backend must be one of"},
		{"rest without url", []string{"--backend", "rest", "ls"}, "rest.url must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			r := h.run("", tt.args...)
			assert.Equal(t, 2, r.code)
			assert.Contains(t, r.err, tt.want)
			assert.NoFileExists(t, h.dataPath("todo.sqlite"))
		})
	}
}

func TestDoneUnknownID(t *testing.T) {
	h := newHarness(t)
	r := h.run("", "done", "42")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.err, "no item with id 42")
}

func TestRemoteFailureExitsOne(t *testing.T) {
	var mu sync.Mutex
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.Method)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"code":"PGRST000","message":"database down"}`))
	}))
	defer srv.Close()

	h := newHarness(t)
	t.Setenv("TODO_REST_URL", srv.URL)

	r := h.run("", "--backend", "rest", "ls")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "fetch:")
	assert.Contains(t, r.err, "database down")
	assert.Contains(t, r.err, "fetch failed")

	r = h.run("", "--backend", "rest", "add", "x")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "insert failed")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{http.MethodGet, http.MethodPost}, requests)
}

func TestRestUsesStoredKey(t *testing.T) {
	var (
		mu  sync.Mutex
		got string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = r.Header.Get("apikey")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	h := newHarness(t)
	t.Setenv("TODO_REST_URL", srv.URL)

	r := h.run("", "auth", "login", "--key", "Bearer abc")
	require.Equal(t, 0, r.code, r.err)

	r = h.run("", "--backend", "rest", "ls")
	require.Equal(t, 0, r.code, r.err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "abc", got)
}

func TestAuthCommands(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "auth", "status")
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t, "no API key configured\n", r.out)

	r = h.run("secret-key-1234\n", "auth", "login")
	require.Equal(t, 0, r.code, r.err)

	info, err := os.Stat(h.dataPath("credentials.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	r = h.run("", "auth", "status")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "****1234")
	assert.Contains(t, r.out, "from file")
	assert.NotContains(t, r.out, "secret-key")

	r = h.run("", "auth", "logout")
	require.Equal(t, 0, r.code, r.err)
	assert.NoFileExists(t, h.dataPath("credentials.json"))

	r = h.run("\n", "auth", "login")
	assert.Equal(t, 2, r.code)

	t.Setenv("TODO_API_KEY", "envkey9999")
	r = h.run("", "auth", "status")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "from env")

	r = h.run("", "auth", "logout")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "unset it")
}

func TestRootStartsTUIAndLogsToFile(t *testing.T) {
	h := newHarness(t)
	var called bool
	h.tui = func(ctx context.Context, coll remote.Collection, logger *slog.Logger) error {
		called = true
		require.NotNil(t, coll)
		logger.Info("tui started", slog.String("apikey", "hunter2"))
		return nil
	}

	r := h.run("")
	require.Equal(t, 0, r.code, r.err)
	assert.True(t, called)
	assert.Empty(t, r.err)

	b, err := os.ReadFile(h.dataPath("todo.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "tui started")
	assert.NotContains(t, string(b), "hunter2")
}

func TestMask(t *testing.T) {
	assert.Equal(t, "***", mask("abc"))
	assert.Equal(t, "****6789", mask("0123456789"))
}
