// Package fetch implements the page-acquisition collaborator of the
// scrape SDK: a plain HTTP GET that returns raw HTML plus response
// metadata. The content pipeline itself never performs I/O; everything
// network-shaped lives here.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hazyhaar/glane/safeurl"
)

// Config configures the fetcher.
type Config struct {
	// Timeout is the per-request HTTP timeout. Default: 30s.
	Timeout time.Duration
	// MaxBytes caps the response body read. Default: 10MB.
	MaxBytes int64
	// UserAgent sent when a request does not override it.
	UserAgent string
	// URLValidator validates URLs before fetch and on every redirect
	// (SSRF prevention). Default: safeurl.Validate.
	URLValidator func(string) error
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024
	}
	if c.UserAgent == "" {
		c.UserAgent = "glane/1.0"
	}
	if c.URLValidator == nil {
		c.URLValidator = safeurl.Validate
	}
}

// Request carries per-call overrides.
type Request struct {
	UserAgent string
	Headers   map[string]string
}

// Result is the outcome of a fetch.
type Result struct {
	HTML        string
	URL         string // final URL after redirects
	StatusCode  int
	ContentType string
}

// Client performs HTTP GETs with redirect caps and SSRF validation.
type Client struct {
	client *http.Client
	cfg    Config
}

// New creates a Client. Redirects are capped at 5 and each hop is
// re-validated against the URL validator.
func New(cfg Config) *Client {
	cfg.defaults()
	validate := cfg.URLValidator
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				if err := validate(req.URL.String()); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		cfg: cfg,
	}
}

// Fetch retrieves a page. Headers from req are applied after the
// defaults, so callers can override anything including User-Agent.
func (c *Client) Fetch(ctx context.Context, pageURL string, req Request) (*Result, error) {
	if err := c.cfg.URLValidator(pageURL); err != nil {
		return nil, fmt.Errorf("fetch: URL blocked: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}

	ua := c.cfg.UserAgent
	if req.UserAgent != "" {
		ua = req.UserAgent
	}
	httpReq.Header.Set("User-Agent", ua)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch: do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return &Result{
			URL:        resp.Request.URL.String(),
			StatusCode: resp.StatusCode,
		}, fmt.Errorf("fetch: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}

	return &Result{
		HTML:        string(body),
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
