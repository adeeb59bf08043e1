// Package rest is a remote.Collection backed by a hosted table served over
// the PostgREST protocol (the REST surface of hosted Postgres backends).
//
//	c, _ := rest.New("https://xyz.example.co", rest.WithAPIKey(key))
//	items, err := c.SelectAll(ctx)
//
// Every call is a single request/response exchange. The client never
// retries and sets no timeout of its own; the caller's context bounds it.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/remote"
)

// APIPath is the prefix under which tables are exposed.
const APIPath = "/rest/v1/"

// maxErrorBodySize limits how much of an error response body we read.
const maxErrorBodySize = 1 << 20

var _ remote.Collection = (*Client)(nil)

// Client talks to one table.
type Client struct {
	base   *url.URL
	table  string
	apiKey string
	http   *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key as both the apikey header and a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTable overrides the table name (default remote.DefaultTable).
func WithTable(table string) Option {
	return func(c *Client) {
		if table != "" {
			c.table = table
		}
	}
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client for the project at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("rest: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("rest: base url must be http or https, got %q", baseURL)
	}
	c := &Client{
		base:   u,
		table:  remote.DefaultTable,
		http:   http.DefaultClient,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Table reports the table this client addresses.
func (c *Client) Table() string { return c.table }

// SelectAll issues GET ?select=*&order=id.asc.
func (c *Client) SelectAll(ctx context.Context) ([]model.Item, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "id.asc")

	var items []model.Item
	if err := c.do(ctx, http.MethodGet, q, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Insert POSTs a one-element array, matching what hosted SDKs send.
func (c *Client) Insert(ctx context.Context, item model.NewItem) error {
	return c.do(ctx, http.MethodPost, nil, []model.NewItem{item}, nil)
}

// Update PATCHes the rows matching id=eq.<id>.
func (c *Client) Update(ctx context.Context, id int64, patch model.Patch) error {
	return c.do(ctx, http.MethodPatch, idFilter(id), patch, nil)
}

// Delete removes the rows matching id=eq.<id>.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idFilter(id), nil, nil)
}

func idFilter(id int64) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	return q
}

func (c *Client) endpoint(q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + APIPath + url.PathEscape(c.table)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// do builds, sends and decodes one request. reqBody and respBody may be nil.
func (c *Client) do(ctx context.Context, method string, q url.Values, reqBody, respBody any) error {
	var body io.Reader = http.NoBody
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling %s body: %w", method, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(q), body)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=minimal")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, c.table, err)
	}
	defer c.closeBody(ctx, resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.DebugContext(ctx, "unexpected status",
			slog.String("method", method),
			slog.String("table", c.table),
			slog.Int("status", resp.StatusCode),
		)
		return decodeError(resp)
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decoding response from %s %s: %w", method, c.table, err)
		}
	}
	return nil
}

func (c *Client) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.WarnContext(ctx, "failed to close response body", slog.Any("error", err))
	}
}

// decodeError turns a non-2xx response into *remote.APIError. Bodies that
// are not PostgREST error JSON keep their status and raw text.
func decodeError(resp *http.Response) error {
	apiErr := &remote.APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
