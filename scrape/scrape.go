// Package scrape is the glane SDK surface: fetch a page through the
// acquisition collaborator, run the content-extraction pipeline, and
// return content plus page metadata.
//
// Usage:
//
//	client, _ := scrape.New(scrape.Config{})
//	res, err := client.Scrape(ctx, "https://example.com", nil)
//	fmt.Println(res.Content)
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/glane/cache"
	"github.com/hazyhaar/glane/fetch"
	"github.com/hazyhaar/glane/idgen"
	"github.com/hazyhaar/glane/transform"
)

// Fetcher supplies raw page HTML and response metadata. fetch.Client is
// the default implementation; tests inject stubs.
type Fetcher interface {
	Fetch(ctx context.Context, url string, req fetch.Request) (*fetch.Result, error)
}

// Config configures a Client.
type Config struct {
	// Fetcher acquires pages. Default: fetch.New(fetch.Config{}).
	Fetcher Fetcher

	// Defaults are the options used when a call passes nil.
	Defaults Options

	// Cache, when set, serves repeat scrapes of the same URL+options
	// within CacheTTL.
	Cache    *cache.Store
	CacheTTL time.Duration

	// Logger for debug/error messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Fetcher == nil {
		c.Fetcher = fetch.New(fetch.Config{})
	}
	c.Defaults.applyDefaults()
	if c.CacheTTL <= 0 {
		c.CacheTTL = 15 * time.Minute
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client is the scraping SDK entry point.
type Client struct {
	cfg       Config
	logger    *slog.Logger
	newID     idgen.Generator
	sanitizer *bluemonday.Policy
}

// New creates a Client and validates the configured default options.
func New(cfg Config) (*Client, error) {
	cfg.defaults()
	if err := cfg.Defaults.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:       cfg,
		logger:    cfg.Logger,
		newID:     idgen.Prefixed("scr_", idgen.Default),
		sanitizer: bluemonday.UGCPolicy(),
	}, nil
}

// Scrape fetches url and returns its content in the requested format.
// A nil opts uses the client defaults. The first fatal error aborts with
// no partial result; markdown degradation and per-element URL join
// failures are absorbed by the pipeline.
func (c *Client) Scrape(ctx context.Context, url string, opts *Options) (*Result, error) {
	o := c.cfg.Defaults
	if opts != nil {
		o = *opts
		o.applyDefaults()
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	optsJSON, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("scrape: marshal options: %w", err)
	}

	key := cache.Key(url, optsJSON)
	if c.cfg.Cache != nil {
		if payload, ok, err := c.cfg.Cache.Get(ctx, key, c.cfg.CacheTTL); err != nil {
			c.logger.Warn("scrape: cache get failed", "url", url, "error", err)
		} else if ok {
			var cached Result
			if err := json.Unmarshal(payload, &cached); err == nil {
				c.logger.Debug("scrape: cache hit", "url", url)
				return &cached, nil
			}
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()

	page, err := c.cfg.Fetcher.Fetch(fetchCtx, url, fetch.Request{
		UserAgent: o.UserAgent,
		Headers:   o.Headers,
	})
	if err != nil {
		return nil, fmt.Errorf("scrape: fetch %s: %w", url, err)
	}
	if page.HTML == "" {
		return nil, ErrEmptyResponse
	}

	baseURL := page.URL
	if baseURL == "" {
		baseURL = url
	}

	content, err := transform.Transform(page.HTML, o.Format, transform.Options{
		URL:             baseURL,
		IncludeTags:     o.IncludeTags,
		ExcludeTags:     o.ExcludeTags,
		OnlyMainContent: o.OnlyMainContent,
	})
	if err != nil {
		return nil, fmt.Errorf("scrape: transform %s: %w", url, err)
	}

	if o.SanitizeHTML && o.Format == transform.FormatHTML {
		content = c.sanitizer.Sanitize(content)
	}

	meta := extractMetadata(page.HTML, baseURL)
	meta.StatusCode = page.StatusCode
	meta.ContentType = page.ContentType
	meta.ScrapeID = c.newID()
	meta.SourceURL = url

	result := &Result{
		Success:   true,
		Timestamp: time.Now().Unix(),
		Format:    o.Format,
		Content:   content,
		Metadata:  meta,
	}

	if c.cfg.Cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			if err := c.cfg.Cache.Put(ctx, key, url, payload); err != nil {
				c.logger.Warn("scrape: cache put failed", "url", url, "error", err)
			}
		}
	}

	c.logger.Debug("scrape: done",
		"url", url, "format", o.Format, "content_len", len(content))
	return result, nil
}

// Crawl is declared for contract stability but has no crawling engine
// behind it yet: frontier management, depth limits and dedup are a
// separate design. It always returns ErrNotImplemented.
func (c *Client) Crawl(ctx context.Context, url string, opts *CrawlOptions) (*CrawlData, error) {
	return nil, fmt.Errorf("%w: crawl", ErrNotImplemented)
}
