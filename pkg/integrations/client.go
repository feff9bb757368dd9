package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/dependents/pkg/observability"
)

// Config configures a Client.
type Config struct {
	Headers     map[string]string // sent with every request
	User        string            // basic-auth user; empty disables auth
	Password    string
	Concurrency int64         // simultaneous requests; <= 0 uses DefaultConcurrency
	Timeout     time.Duration // per-request timeout; 0 means none
}

// Client provides shared HTTP functionality for the data source clients.
// It is safe for concurrent use.
type Client struct {
	http    *http.Client
	headers map[string]string
	user    string
	pass    string
	sem     *semaphore.Weighted
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	n := cfg.Concurrency
	if n <= 0 {
		n = DefaultConcurrency
	}
	return &Client{
		http:    NewHTTPClient(cfg.Timeout),
		headers: cfg.Headers,
		user:    cfg.User,
		pass:    cfg.Password,
		sem:     semaphore.NewWeighted(n),
	}
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.do(ctx, http.MethodGet, url, nil, v)
}

// PostJSON JSON-encodes body, POSTs it to url and decodes the response into v.
func (c *Client) PostJSON(ctx context.Context, url string, body, v any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, data, v)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, v any) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	host, path := hostPath(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrNetwork, path, err)
	}
	return nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func hostPath(raw string) (string, string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}
