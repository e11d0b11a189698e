package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/glane/scrape"
	"github.com/hazyhaar/glane/transform"
)

// FileConfig is the top-level glane configuration file.
type FileConfig struct {
	Listen string       `yaml:"listen"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Scrape ScrapeConfig `yaml:"scrape"`
	Cache  CacheConfig  `yaml:"cache"`
}

// FetchConfig controls the HTTP acquisition layer.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes"`
	UserAgent string        `yaml:"user_agent"`
}

// ScrapeConfig sets the default scrape options.
type ScrapeConfig struct {
	Format          string   `yaml:"format"` // markdown | html
	OnlyMainContent bool     `yaml:"only_main_content"`
	IncludeTags     []string `yaml:"include_tags"`
	ExcludeTags     []string `yaml:"exclude_tags"`
	TimeoutMS       int      `yaml:"timeout_ms"`
	SanitizeHTML    bool     `yaml:"sanitize_html"`
}

// CacheConfig controls the SQLite result cache. An empty path disables
// caching.
type CacheConfig struct {
	Path string        `yaml:"path"`
	TTL  time.Duration `yaml:"ttl"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	// Catch format typos at startup, not on the first scrape.
	if _, err := transform.ParseFormat(cfg.Scrape.Format); err != nil {
		return nil, fmt.Errorf("scrape.format: %w", err)
	}
	return &cfg, nil
}

func (c *FileConfig) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8086"
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = 10 << 20
	}
	if c.Scrape.Format == "" {
		c.Scrape.Format = string(transform.FormatMarkdown)
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 15 * time.Minute
	}
}

// scrapeDefaults turns the file config into SDK default options.
func (c *FileConfig) scrapeDefaults() scrape.Options {
	o := scrape.DefaultOptions()
	o.Format = transform.Format(c.Scrape.Format)
	o.OnlyMainContent = c.Scrape.OnlyMainContent
	o.IncludeTags = c.Scrape.IncludeTags
	o.ExcludeTags = c.Scrape.ExcludeTags
	o.SanitizeHTML = c.Scrape.SanitizeHTML
	if c.Scrape.TimeoutMS > 0 {
		o.Timeout = c.Scrape.TimeoutMS
	}
	return o
}
