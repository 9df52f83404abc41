// Package api is the JSON-over-HTTP client for the external Zoe backend. The
// backend itself lives elsewhere (the hub container); this package only knows
// its paths and envelope shapes.
//
// Every call takes a context and returns an error instead of panicking or
// logging; the widget layer decides what a failure means for the screen
// (usually: keep rendering the previous or empty state).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SessionSource supplies the auth scalars each request carries. Satisfied by
// *session.Provider; tests use a stub.
type SessionSource interface {
	Token() string
	UserID() string
}

type Client struct {
	base    string
	http    *http.Client
	session SessionSource
}

func NewClient(baseURL string, sess SessionSource) *Client {
	return &Client{
		base:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: sess,
	}
}

// BaseURL exposes the configured backend base, used by the push subscriber to
// derive the websocket endpoints.
func (c *Client) BaseURL() string { return c.base }

type StatusError struct {
	Code int
	Body string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, strings.TrimSpace(e.Body))
}

func (c *Client) url(path string, q url.Values) string {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// doJSON issues a request with a JSON body (nil for none) and decodes a JSON
// response into out (nil to discard).
func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, q), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.applySession(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	if out == nil {
		return nil
	}
	// No schema validation on purpose: unknown fields are ignored and missing
	// fields decode to zero values, which the widgets render with fallbacks.
	return json.NewDecoder(resp.Body).Decode(out)
}

// doRaw issues a request with an arbitrary body and returns the raw response
// bytes (audio, etc.).
func (c *Client) doRaw(ctx context.Context, method, path string, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, nil), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.applySession(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	return b, nil
}

func encodeJSON(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

func decodeLoose(b []byte, v any) error {
	return json.Unmarshal(b, v)
}

func (c *Client) applySession(req *http.Request) {
	if c.session == nil {
		return
	}
	if tok := strings.TrimSpace(c.session.Token()); tok != "" {
		req.Header.Set("X-Session-ID", tok)
	}
}
