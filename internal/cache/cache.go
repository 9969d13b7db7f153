// Package cache is a small SQLite-backed TTL cache for feed, weather and
// scan payloads. Values are stored as JSON blobs keyed by name. A cache that
// cannot be opened or written disables itself silently; every operation on a
// disabled cache is a no-op miss.
package cache

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache (
	key       TEXT PRIMARY KEY,
	value     BLOB NOT NULL,
	cached_at INTEGER NOT NULL
);`

// Cache stores JSON-encoded values with a shared TTL
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	log zerolog.Logger
}

// New opens (or creates) the cache database at path. Open or write-probe
// failure returns a disabled cache, never an error.
func New(path string, ttl time.Duration, log zerolog.Logger) *Cache {
	c := &Cache{
		ttl: ttl,
		log: log.With().Str("component", "cache").Logger(),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("cache disabled, directory not writable")
		return c
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("cache disabled, cannot open database")
		return c
	}

	// Write probe: creating the schema proves the file is usable.
	if _, err := db.Exec(schema); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("cache disabled, database not writable")
		db.Close()
		return c
	}

	c.db = db
	return c
}

// Enabled reports whether the cache is usable
func (c *Cache) Enabled() bool { return c.db != nil }

// Close releases the database handle
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get loads the value for key into dest if present and fresh
func (c *Cache) Get(key string, dest any) bool {
	return c.load(key, dest, true)
}

// GetStale loads the value for key regardless of age, for showing stale
// data while a refresh is in flight
func (c *Cache) GetStale(key string, dest any) bool {
	return c.load(key, dest, false)
}

func (c *Cache) load(key string, dest any, honorTTL bool) bool {
	if c.db == nil {
		return false
	}

	var blob []byte
	var cachedAt int64
	err := c.db.QueryRow(`SELECT value, cached_at FROM cache WHERE key = ?`, key).Scan(&blob, &cachedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}

	if honorTTL && time.Since(time.Unix(cachedAt, 0)) > c.ttl {
		return false
	}

	if err := json.Unmarshal(blob, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache entry malformed")
		return false
	}
	return true
}

// Set stores the value under key, replacing any previous entry
func (c *Cache) Set(key string, value any) {
	if c.db == nil {
		return
	}

	blob, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}

	_, err = c.db.Exec(
		`INSERT INTO cache (key, value, cached_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, cached_at = excluded.cached_at`,
		key, blob, time.Now().Unix(),
	)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Clear removes one entry
func (c *Cache) Clear(key string) {
	if c.db == nil {
		return
	}
	if _, err := c.db.Exec(`DELETE FROM cache WHERE key = ?`, key); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache clear failed")
	}
}

// ClearAll empties the cache
func (c *Cache) ClearAll() {
	if c.db == nil {
		return
	}
	if _, err := c.db.Exec(`DELETE FROM cache`); err != nil {
		c.log.Warn().Err(err).Msg("cache clear-all failed")
	}
}
