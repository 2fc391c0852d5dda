/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"goscreenwriter/internal/config"
	"goscreenwriter/internal/domain"
)

// Client is a minimal HTTP client for the screenplay backend API.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientFromConfig applies the configured timeout and TLS setting.
func NewClientFromConfig(cfg config.BackendConfig, token string) *Client {
	c := NewClient(cfg.BaseURL, token)
	c.client.Timeout = cfg.Timeout()
	if cfg.TLSInsecure {
		c.client.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}} //nolint:gosec // opt-in for self-signed dev servers
	}
	return c
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server %s %s: %s", e.Method, e.Path, e.Status)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: u.Path, Code: resp.StatusCode, Status: resp.Status}
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// RequestToken asks the server for a bearer token for subject and stores it on the client.
func (c *Client) RequestToken(ctx context.Context, subject string) (time.Time, error) {
	var resp struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/token", map[string]any{"subject": subject}, &resp); err != nil {
		return time.Time{}, err
	}
	if resp.Token == "" {
		return time.Time{}, errors.New("server returned no token")
	}
	c.Token = resp.Token
	exp, _ := time.Parse(time.RFC3339, resp.ExpiresAt)
	return exp, nil
}

// ListScreenplays returns the screenplays stored on the server.
func (c *Client) ListScreenplays(ctx context.Context) ([]Summary, error) {
	var list []Summary
	if err := c.doJSON(ctx, http.MethodGet, "/api/screenplays", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FetchScreenplay downloads one screenplay. A missing id yields ErrNotFound.
func (c *Client) FetchScreenplay(ctx context.Context, stableID string) (*Envelope, error) {
	var env Envelope
	err := c.doJSON(ctx, http.MethodGet, "/api/screenplays/"+url.PathEscape(stableID), nil, &env)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, stableID)
	}
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// PushScreenplay uploads sp under stableID and returns the server's new version.
func (c *Client) PushScreenplay(ctx context.Context, stableID string, sp domain.Screenplay) (int64, error) {
	if sp.Blocks == nil {
		sp.Blocks = []domain.Block{}
	}
	var res PushResult
	if err := c.doJSON(ctx, http.MethodPut, "/api/screenplays/"+url.PathEscape(stableID), sp, &res); err != nil {
		return 0, err
	}
	return res.Version, nil
}
