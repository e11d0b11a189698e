// Command glane scrapes web pages into markdown or cleaned HTML.
//
// Modes:
//
//	glane <url>              one-shot scrape, content on stdout
//	glane -serve             HTTP API (POST /scrape, POST /map)
//	glane -mcp               MCP server on stdio
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/glane/cache"
	"github.com/hazyhaar/glane/fetch"
	"github.com/hazyhaar/glane/scrape"
	"github.com/hazyhaar/glane/transform"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		serve      = flag.Bool("serve", false, "run the HTTP API")
		mcpMode    = flag.Bool("mcp", false, "run as an MCP server on stdio")
		listen     = flag.String("listen", "", "HTTP listen address (overrides config)")
		format     = flag.String("format", "", "output format: markdown or html")
		mainOnly   = flag.Bool("main-only", false, "keep only main content")
		withMeta   = flag.Bool("meta", false, "one-shot mode: print the full JSON result")
	)
	flag.Parse()

	logLevel := env("LOG_LEVEL", "info")
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	cfg := &FileConfig{}
	if *configPath != "" {
		loaded, err := LoadFile(*configPath)
		if err != nil {
			slog.Error("load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg.applyDefaults()
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	defaults := cfg.scrapeDefaults()
	if *format != "" {
		f, err := transform.ParseFormat(*format)
		if err != nil {
			slog.Error("invalid format", "format", *format, "error", err)
			os.Exit(1)
		}
		defaults.Format = f
	}
	if *mainOnly {
		defaults.OnlyMainContent = true
	}

	scrapeCfg := scrape.Config{
		Fetcher: fetch.New(fetch.Config{
			Timeout:   cfg.Fetch.Timeout,
			MaxBytes:  cfg.Fetch.MaxBytes,
			UserAgent: cfg.Fetch.UserAgent,
		}),
		Defaults: defaults,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	}

	if cachePath := env("CACHE_DB", cfg.Cache.Path); cachePath != "" {
		store, err := cache.Open(cachePath)
		if err != nil {
			slog.Error("open cache", "path", cachePath, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		scrapeCfg.Cache = store
	}

	client, err := scrape.New(scrapeCfg)
	if err != nil {
		slog.Error("init client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case *mcpMode:
		runMCP(ctx, client)
	case *serve:
		runServe(ctx, client, cfg.Listen)
	default:
		runOnce(ctx, client, flag.Arg(0), *withMeta)
	}
}

// runOnce scrapes a single URL and writes the result to stdout.
func runOnce(ctx context.Context, client *scrape.Client, url string, withMeta bool) {
	if url == "" {
		fmt.Fprintln(os.Stderr, "usage: glane [flags] <url>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	res, err := client.Scrape(ctx, url, nil)
	if err != nil {
		slog.Error("scrape failed", "url", url, "error", err)
		os.Exit(1)
	}

	if withMeta {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			slog.Error("encode result", "error", err)
			os.Exit(1)
		}
		return
	}
	fmt.Println(res.Content)
}

func runServe(ctx context.Context, client *scrape.Client, addr string) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	client.RegisterHTTP(r)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func runMCP(ctx context.Context, client *scrape.Client) {
	srv := mcp.NewServer(&mcp.Implementation{Name: "glane", Version: "0.1.0"}, nil)
	client.RegisterMCP(srv)

	slog.Info("mcp server starting", "transport", "stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
		slog.Error("mcp server", "error", err)
		os.Exit(1)
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
