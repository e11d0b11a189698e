package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/glane/transform"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glane.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Listen != ":8086" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Fetch.Timeout != 30*time.Second {
		t.Errorf("Fetch.Timeout = %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxBytes != 10<<20 {
		t.Errorf("Fetch.MaxBytes = %d", cfg.Fetch.MaxBytes)
	}
	if cfg.Scrape.Format != "markdown" {
		t.Errorf("Scrape.Format = %q", cfg.Scrape.Format)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
}

func TestLoadFileFull(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
listen: ":9000"
fetch:
  timeout: 5s
  max_bytes: 1048576
  user_agent: glane-test/1.0
scrape:
  format: html
  only_main_content: true
  exclude_tags: [".ads", "nav"]
  timeout_ms: 20000
cache:
  path: /tmp/glane.db
  ttl: 1h
`))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("Fetch.Timeout = %v", cfg.Fetch.Timeout)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}

	o := cfg.scrapeDefaults()
	if o.Format != transform.FormatHTML {
		t.Errorf("Format = %q", o.Format)
	}
	if !o.OnlyMainContent {
		t.Error("OnlyMainContent should be true")
	}
	if len(o.ExcludeTags) != 2 || o.ExcludeTags[0] != ".ads" {
		t.Errorf("ExcludeTags = %v", o.ExcludeTags)
	}
	if o.Timeout != 20000 {
		t.Errorf("Timeout = %d", o.Timeout)
	}
}

func TestLoadFileRejectsBadFormat(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "scrape:\n  format: markdwon\n"))
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "markdwon") {
		t.Errorf("error should name the bad format: %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
