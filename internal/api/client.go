// Package api implements the client for the authoritative catalog service.
// The remote store owns all durable state; this client issues one
// authenticated request per operation and never mutates local counters
// itself. Authenticated calls short-circuit without a request when no bearer
// token is available.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const defaultTimeout = 15 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenSource supplies the bearer credential for authenticated calls. An
// empty token means no principal is logged in.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-credential TokenSource, used by one-shot CLI
// commands and tests.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client talks to the remote catalog service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a catalog service client. A zero timeout falls back to
// the default so a hung request always surfaces as a bounded failure rather
// than a stuck loading state.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// get issues an authenticated GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

// send issues an authenticated mutation. Mutations carry a client-generated
// request ID so the remote store can correlate retried submissions in its
// logs; there is no client-side retry, a rejected mutation is a normal
// outcome and the caller refreshes its view.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, true)
}

// post issues an unauthenticated POST (login, signup).
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var token string
	if authed {
		token = c.tokens.Token()
		if token == "" {
			return ErrNoToken
		}
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
