// Package cache stores scrape results in SQLite, keyed by a digest of the
// target URL and the exact options used. The pipeline is deterministic,
// so identical URL+options pairs can be served from cache within a TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS scrape_cache (
	key        TEXT PRIMARY KEY,
	url        TEXT NOT NULL,
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scrape_cache_created ON scrape_cache(created_at);
`

// Store is a SQLite-backed scrape cache.
type Store struct {
	db *sql.DB
}

// Open opens (creating parent directories as needed) the cache database
// with WAL journaling and a busy timeout, then applies the schema.
// The caller must blank-import an SQLite driver:
//
//	import _ "modernc.org/sqlite"
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("cache: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key derives the cache key for a URL and the serialized options it was
// scraped with.
func Key(url string, options []byte) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte{0})
	h.Write(options)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get returns the cached payload for key if it is younger than ttl.
// A miss or an expired entry returns ok=false with no error.
func (s *Store) Get(ctx context.Context, key string, ttl time.Duration) (payload []byte, ok bool, err error) {
	var createdAt int64
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, created_at FROM scrape_cache WHERE key = ?`, key)
	if err := row.Scan(&payload, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get: %w", err)
	}
	if ttl > 0 && time.Now().Unix()-createdAt > int64(ttl.Seconds()) {
		return nil, false, nil
	}
	return payload, true, nil
}

// Put stores or replaces the payload for key.
func (s *Store) Put(ctx context.Context, key, url string, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scrape_cache (key, url, payload, created_at)
		VALUES (?,?,?,?)
		ON CONFLICT(key) DO UPDATE SET
			url = excluded.url,
			payload = excluded.payload,
			created_at = excluded.created_at`,
		key, url, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// Prune deletes entries older than the given age and reports how many
// rows were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).Unix()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scrape_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache: prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache: prune rows: %w", err)
	}
	return n, nil
}
