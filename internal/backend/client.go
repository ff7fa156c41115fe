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
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the sync server. The desktop app uses it behind the
// sync.enabled config flag.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a sync client. baseURL may include a trailing slash; it
// is normalized.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd *bytes.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	} else {
		rd = bytes.NewReader(nil)
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
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// RequestToken asks the server for a bearer token and installs it on the
// client.
func (c *Client) RequestToken(ctx context.Context, subject string, ttl time.Duration) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"subject":     subject,
		"ttl_seconds": int64(ttl.Seconds()),
	})
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/token", body, &resp); err != nil {
		return "", err
	}
	c.Token = resp.Token
	return resp.Token, nil
}

// ListWorkspaces returns the synced languages and their versions.
func (c *Client) ListWorkspaces(ctx context.Context) ([]WorkspaceInfo, error) {
	var list []WorkspaceInfo
	if err := c.do(ctx, http.MethodGet, "/api/workspaces", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetWorkspace fetches the latest snapshot for a language.
func (c *Client) GetWorkspace(ctx context.Context, language string) (*SnapshotEnvelope, error) {
	var env SnapshotEnvelope
	p := "/api/workspaces/" + url.PathEscape(language)
	if err := c.do(ctx, http.MethodGet, p, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PutWorkspace uploads a snapshot (the serialized workspace JSON) and
// returns the server-assigned version.
func (c *Client) PutWorkspace(ctx context.Context, language string, snapshot []byte) (int64, error) {
	var resp struct {
		Version json.Number `json:"version"`
	}
	p := "/api/workspaces/" + url.PathEscape(language)
	if err := c.do(ctx, http.MethodPut, p, snapshot, &resp); err != nil {
		return 0, err
	}
	v, err := resp.Version.Int64()
	if err != nil {
		return 0, fmt.Errorf("bad version in response: %w", err)
	}
	return v, nil
}
