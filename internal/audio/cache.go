package audio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/merhaba/internal"
)

const cacheSchema = `
	CREATE TABLE IF NOT EXISTS speech (
		key TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		text TEXT NOT NULL,
		mime_type TEXT NOT NULL,
		pcm BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

// Cache stores synthesized PCM in a SQLite database keyed by request
type Cache struct {
	db *sqlx.DB
}

// CacheStats summarizes the cache contents
type CacheStats struct {
	Entries int64 `db:"entries"`
	Bytes   int64 `db:"bytes"`
}

type cacheRow struct {
	MIMEType string `db:"mime_type"`
	PCM      []byte `db:"pcm"`
}

// OpenCache opens (and creates if needed) the cache database at path
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open speech cache: %w", err)
	}
	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create speech table: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached speech for key, or nil when absent
func (c *Cache) Get(ctx context.Context, key string) (*Speech, error) {
	var row cacheRow
	err := c.db.GetContext(ctx, &row, "SELECT mime_type, pcm FROM speech WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read speech cache: %w", err)
	}
	return &Speech{Data: row.PCM, MIMEType: row.MIMEType}, nil
}

// Put stores speech under key, replacing any previous entry
func (c *Cache) Put(ctx context.Context, key, provider, text string, speech *Speech) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO speech (key, provider, text, mime_type, pcm) VALUES (?, ?, ?, ?, ?)",
		key, provider, text, speech.MIMEType, speech.Data)
	if err != nil {
		return fmt.Errorf("failed to write speech cache: %w", err)
	}
	return nil
}

// Stats returns the number of entries and the stored PCM size
func (c *Cache) Stats(ctx context.Context) (CacheStats, error) {
	var stats CacheStats
	err := c.db.GetContext(ctx, &stats,
		"SELECT COUNT(*) AS entries, COALESCE(SUM(LENGTH(pcm)), 0) AS bytes FROM speech")
	if err != nil {
		return CacheStats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return stats, nil
}

// Clear removes every entry and returns how many were removed
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM speech")
	if err != nil {
		return 0, fmt.Errorf("failed to clear speech cache: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database
func (c *Cache) Close() error {
	return c.db.Close()
}

// CachedProvider serves repeated requests from a Cache.
// Cache failures are logged and never fail synthesis.
type CachedProvider struct {
	Provider
	cache *Cache
	model string
	voice string
}

// NewCachedProvider wraps p with cache. model and voice are part of the key.
func NewCachedProvider(p Provider, cache *Cache, model, voice string) *CachedProvider {
	return &CachedProvider{Provider: p, cache: cache, model: model, voice: voice}
}

// Synthesize returns cached PCM when available, else calls the wrapped provider
func (c *CachedProvider) Synthesize(ctx context.Context, text string) (*Speech, error) {
	text = strings.TrimSpace(text)
	key := internal.SpeechCacheKey(c.Provider.Name(), c.model, c.voice, text)

	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn("Speech cache lookup failed", "error", err)
	}
	if cached != nil {
		log.Debug("Using cached speech", "text", text, "key", key)
		return cached, nil
	}

	speech, err := c.Provider.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	// Only playable audio is worth keeping
	if _, err := speech.Buffer(); err != nil {
		log.Debug("Not caching unplayable speech", "text", text, "error", err)
		return speech, nil
	}
	if err := c.cache.Put(ctx, key, c.Provider.Name(), text, speech); err != nil {
		log.Warn("Speech cache write failed", "error", err)
	}
	return speech, nil
}
