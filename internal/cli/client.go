package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/navstack/pkg/domain"
)

// Client talks to a running "navstack serve" instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Open delivers url as an OS "URL opened" event.
func (c *Client) Open(ctx context.Context, url string) error {
	return c.do(ctx, http.MethodPost, "/links", map[string]string{"url": url}, nil)
}

// SetAppState moves the lifecycle state.
func (c *Client) SetAppState(ctx context.Context, state domain.AppState) error {
	return c.do(ctx, http.MethodPost, "/lifecycle", map[string]domain.AppState{"state": state}, nil)
}

// Stack fetches the current stack.
func (c *Client) Stack(ctx context.Context) (*domain.Stack, error) {
	var stack domain.Stack
	if err := c.do(ctx, http.MethodGet, "/stack", nil, &stack); err != nil {
		return nil, err
	}
	return &stack, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
