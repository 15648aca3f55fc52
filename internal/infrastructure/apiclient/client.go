// Package apiclient is the portal's only way to the backend REST API. It maps
// every remote operation to one method and every failure to a domain error.
// It never touches store state.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/state"
)

const DefaultBaseURL = "http://localhost:5000/api"

// Config configures a Client. A zero Timeout leaves requests bounded only by
// the caller's context.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the backend on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client

	Auth      *AuthAPI
	Clients   *ClientAPI
	Tasks     *TaskAPI
	Documents *DocumentAPI
}

// New builds a client. base is the shared connection pool (nil for
// http.DefaultTransport); tokens yields the session credential.
func New(cfg Config, base http.RoundTripper, tokens oauth2.TokenSource) *Client {
	if base == nil {
		base = http.DefaultTransport
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &bearerTransport{base: base, tokens: tokens},
			Timeout:   cfg.Timeout,
		},
	}
	c.Auth = &AuthAPI{c: c}
	c.Clients = &ClientAPI{c: c}
	c.Tasks = &TaskAPI{c: c}
	c.Documents = &DocumentAPI{c: c}
	return c
}

// Backend exposes the client as the APIs a state container needs.
func (c *Client) Backend() state.Backend {
	return state.Backend{
		Auth:      c.Auth,
		Clients:   c.Clients,
		Tasks:     c.Tasks,
		Documents: c.Documents,
	}
}

type messageBody struct {
	Message string `json:"message"`
}

// send performs the request and returns the response when the status is 2xx.
// The caller owns the body.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, &domain.TransportError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, remoteError(resp)
	}
	return resp, nil
}

func remoteError(resp *http.Response) error {
	msg := fmt.Sprintf("Request failed with status code %d", resp.StatusCode)

	var eb messageBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &eb) == nil && eb.Message != "" {
		msg = eb.Message
	}
	return &domain.RemoteError{StatusCode: resp.StatusCode, Message: msg}
}

// doJSON sends in as JSON (when non-nil) and decodes the answer into out
// (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, method, path, out)
}

func decode(resp *http.Response, method, path string, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}
