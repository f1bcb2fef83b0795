package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Client talks to the remote notes service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. A client passed with
// WithHTTPClient is copied first and left unchanged.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Client for the service rooted at baseURL. An empty or
// malformed baseURL is not rejected here; requests fail with an *Error.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListNotes returns every note in service order.
func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var out []Note
	if _, err := c.do(ctx, "list notes", http.MethodGet, c.notesURL(""), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Note{}
	}
	return out, nil
}

// CreateNote posts a new note and returns it with its service-assigned id.
func (c *Client) CreateNote(ctx context.Context, title, content string) (Note, error) {
	var n Note
	_, err := c.do(ctx, "create note", http.MethodPost, c.notesURL(""), createRequest{Title: title, Content: content}, &n)
	return n, err
}

// UpdateNote replaces a note. If the service answers with an empty body the
// note that was sent is returned.
func (c *Client) UpdateNote(ctx context.Context, n Note) (Note, error) {
	var out Note
	decoded, err := c.do(ctx, "update note", http.MethodPut, c.notesURL(n.ID), n, &out)
	if err != nil {
		return Note{}, err
	}
	if !decoded {
		return n, nil
	}
	return out, nil
}

// PatchNote sends a partial update. The returned note is zero when the
// service answers with an empty body.
func (c *Client) PatchNote(ctx context.Context, p Patch) (Note, error) {
	var out Note
	_, err := c.do(ctx, "patch note", http.MethodPatch, c.notesURL(p.ID), p, &out)
	if err != nil {
		return Note{}, err
	}
	return out, nil
}

func (c *Client) DeleteNote(ctx context.Context, id ID) error {
	_, err := c.do(ctx, "delete note", http.MethodDelete, c.notesURL(id), nil, nil)
	return err
}

func (c *Client) notesURL(id ID) string {
	if id == "" {
		return c.baseURL + "/notes"
	}
	return c.baseURL + "/notes/" + url.PathEscape(string(id))
}

// do performs one request. It reports whether a non-empty body was decoded
// into out.
func (c *Client) do(ctx context.Context, op, method, target string, body, out any) (bool, error) {
	fail := func(err error) *Error {
		return &Error{Op: op, Method: method, URL: target, Err: err}
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return false, fail(fmt.Errorf("encode request: %w", err))
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return false, fail(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("notes request failed", "op", op, "method", method, "url", target, "err", err)
		return false, fail(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	c.logger.Debug("notes request",
		"op", op,
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)
	if err != nil {
		e := fail(fmt.Errorf("read response: %w", err))
		e.StatusCode = resp.StatusCode
		e.Status = http.StatusText(resp.StatusCode)
		return false, e
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &Error{
			Op:         op,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Detail:     errorDetail(data),
		}
	}

	data = bytes.TrimSpace(data)
	if out == nil || len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		e := fail(fmt.Errorf("decode response: %w", err))
		e.StatusCode = resp.StatusCode
		e.Status = http.StatusText(resp.StatusCode)
		return false, e
	}
	return true, nil
}

// errorDetail extracts {"error": "..."} from an error response body.
func errorDetail(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Error
}
