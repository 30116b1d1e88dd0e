// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package hubspot is a minimal client for the HubSpot CRM v3 REST API.  It
// covers only the endpoints that the MCP tool layer needs: object CRUD
// (contacts, companies, deals) and search.  Request and response payloads are
// passed through as defined by HubSpot's API contract; the package does not
// define its own schema beyond what it forwards.
//
// The client issues exactly one HTTP request per call, with no retry, backoff
// or rate limiting: failures are returned to the caller as-is.
package hubspot

// In this file: client construction and request plumbing.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// Client is a HubSpot API client.  Zero value is not usable, must be
// initialised with New.  It is safe for concurrent use: all state is set at
// construction and never mutated.
type Client struct {
	cl      *http.Client
	baseURL *url.URL
	cfg     Config
	logger  *slog.Logger
}

// Option is the signature of the client option-setting function.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.  If this option is not
// given, a client with the timeout from the Config is used.  The per-request
// timeout of the supplied client is left as-is.
func WithHTTPClient(cl *http.Client) Option {
	return func(c *Client) {
		if cl != nil {
			c.cl = cl
		}
	}
}

// WithLogger sets the logger.  A nil logger falls back to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a new HubSpot client from the given configuration.  It returns
// ErrNoCredentials if the configuration carries neither an access token nor
// an API key.  No network calls are made.
func New(cfg Config, opt ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("hubspot: parse base url: %w", err)
	}
	c := &Client{
		cl:      &http.Client{Timeout: cfg.Timeout},
		baseURL: base,
		cfg:     cfg,
		logger:  slog.Default(),
	}
	for _, o := range opt {
		o(c)
	}
	return c, nil
}

// Close releases the underlying connection pool.
func (cl *Client) Close() {
	cl.cl.CloseIdleConnections()
}

// do issues a single request to the API and decodes the response body into v.
// Authentication is attached according to the configured mode: the access
// token goes into the Authorization header, the legacy API key into the
// "hapikey" query parameter; never both.  A non-2xx response is returned as
// *APIError with the response body preserved verbatim.  When the response has
// no body (e.g. 204 on delete), v is left untouched.
func (cl *Client) do(ctx context.Context, method string, pth string, query url.Values, body, v any) error {
	u := cl.baseURL.JoinPath(pth)
	if query == nil {
		query = url.Values{}
	}
	if cl.cfg.AccessToken == "" && cl.cfg.APIKey != "" {
		query.Set("hapikey", cl.cfg.APIKey)
	}
	u.RawQuery = query.Encode()

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("hubspot: marshal request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return fmt.Errorf("hubspot: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.cfg.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+cl.cfg.AccessToken)
	}

	cl.logger.DebugContext(ctx, "hubspot: request", "method", method, "path", pth)

	resp, err := cl.cl.Do(req)
	if err != nil {
		return fmt.Errorf("hubspot: %s %s: %w", method, pth, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("hubspot: read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(resp.StatusCode, data)
	}
	if v == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("hubspot: decode response: %w", err)
	}
	return nil
}

func (cl *Client) get(ctx context.Context, pth string, query url.Values, v any) error {
	return cl.do(ctx, http.MethodGet, pth, query, nil, v)
}

func (cl *Client) post(ctx context.Context, pth string, body, v any) error {
	return cl.do(ctx, http.MethodPost, pth, nil, body, v)
}

func (cl *Client) patch(ctx context.Context, pth string, body, v any) error {
	return cl.do(ctx, http.MethodPatch, pth, nil, body, v)
}

func (cl *Client) delete(ctx context.Context, pth string, v any) error {
	return cl.do(ctx, http.MethodDelete, pth, nil, nil, v)
}
