/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dataflux/nodedeploy/pkg/errors"
)

// DefaultTimeout is the fixed connection-level timeout configured once
// at client construction. The client performs no retries or backoff.
const DefaultTimeout = 10 * time.Minute

// maxAckBytes bounds how much of the node's response body is carried
// into acknowledgments and error context.
const maxAckBytes = 4 << 10

// Client talks to a remote data-integration node over its HTTP API
// using a bearer credential.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the fixed client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithBaseURL overrides the derived API base URL. Intended for tests
// and non-standard node deployments.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// New creates a node client for the given node address and bearer
// credential. The API base URL is https://<addr>/api unless the address
// already carries a scheme.
//
// Identity claims are decoded from the credential for a one-time
// diagnostic log line; they are never used for authorization.
func New(addr, token string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, errors.New(errors.ErrCodeConfiguration, "node address is required")
	}
	if token == "" {
		return nil, errors.New(errors.ErrCodeConfiguration, "bearer credential is required")
	}

	baseURL := addr
	if !strings.Contains(addr, "://") {
		baseURL = "https://" + addr
	}
	baseURL = strings.TrimRight(baseURL, "/") + "/api"

	c := &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	logEntry := slog.With("url", c.baseURL, "token", maskToken(token))
	if claims, err := decodeClaims(token); err != nil {
		logEntry.Warn("connecting to node, credential claims not decodable", "error", err)
	} else {
		logEntry.Info("connecting to node",
			"subscription", claims.SubscriptionID(),
			"principals", len(claims.Principals),
		)
	}

	return c, nil
}

// GetHealth queries the node health endpoint.
func (c *Client) GetHealth(ctx context.Context) (*Health, error) {
	slog.Info("GET health", "url", c.baseURL)

	body, err := c.do(ctx, http.MethodGet, "/health", "", nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHealthCheck, "health check request failed", err)
	}

	var health Health
	if err := json.Unmarshal([]byte(body), &health); err != nil {
		return nil, errors.Wrap(errors.ErrCodeHealthCheck, "failed to parse health response", err)
	}
	return &health, nil
}

// PutEnv uploads environment variables to the node.
func (c *Client) PutEnv(ctx context.Context, vars map[string]any) (string, error) {
	slog.Info("PUT env vars", "url", c.baseURL, "count", len(vars))
	return c.doJSON(ctx, http.MethodPut, "/env", vars)
}

// PostSecrets creates secrets on the node; the node rejects keys that
// already exist.
func (c *Client) PostSecrets(ctx context.Context, secrets map[string]any) (string, error) {
	slog.Info("POST secrets", "url", c.baseURL, "count", len(secrets))
	return c.doJSON(ctx, http.MethodPost, "/secrets", secrets)
}

// PutSecrets replaces secrets on the node with overwrite semantics.
func (c *Client) PutSecrets(ctx context.Context, secrets map[string]any) (string, error) {
	slog.Info("PUT secrets", "url", c.baseURL, "count", len(secrets))
	return c.doJSON(ctx, http.MethodPut, "/secrets", secrets)
}

// PutConfig uploads a zipped configuration bundle. force instructs the
// node to bypass conflict validation.
func (c *Client) PutConfig(ctx context.Context, archive []byte, force bool) (string, error) {
	slog.Info("PUT config", "url", c.baseURL, "size_bytes", len(archive), "force", force)

	path := "/config"
	if force {
		path += "?force=true"
	}
	return c.do(ctx, http.MethodPut, path, "application/zip", bytes.NewReader(archive))
}

// doJSON marshals payload and performs the request.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUpload, "failed to encode request payload", err)
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(body))
}

// do performs a single request with the bearer credential and returns
// the (truncated) response body as the acknowledgment.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUpload, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		code := errors.ErrCodeUpload
		if ctx.Err() != nil || isTimeout(err) {
			code = errors.ErrCodeTimeout
		}
		return "", errors.Wrap(code, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	ack, err := io.ReadAll(io.LimitReader(resp.Body, maxAckBytes))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUpload, "failed to read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", errors.NewWithContext(errors.ErrCodeUnauthorized,
			"node rejected the bearer credential",
			map[string]any{"status": resp.StatusCode, "path": path})
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", errors.NewWithContext(errors.ErrCodeUpload,
			fmt.Sprintf("%s %s returned status %d", method, path, resp.StatusCode),
			map[string]any{"status": resp.StatusCode, "body": strings.TrimSpace(string(ack))})
	}

	return strings.TrimSpace(string(ack)), nil
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	for e := err; e != nil; e = unwrap(e) {
		if t, ok := e.(timeout); ok && t.Timeout() {
			return true
		}
	}
	return false
}

func unwrap(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}
