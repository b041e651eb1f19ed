// Package cache persists recommendation results keyed by library
// fingerprint, deduplicating concurrent computations for the same key.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/singleflight"

	"github.com/tunescout/tunescout/internal/recommend"
)

// Store wraps the SQLite-backed result cache. At most one computation
// runs per key across concurrent callers; the in-flight group hands
// the winner's result to every waiter.
type Store struct {
	conn  *sql.DB
	group singleflight.Group
}

// Open opens (or creates) the cache database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cache: resolve path: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", absPath)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: open sqlite: %w", err)
	}

	// Single writer, multiple readers.
	conn.SetMaxOpenConns(1)

	if err := applyMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cache: apply migrations: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Entry is one cached recommendation result.
type Entry struct {
	Key       string
	ModelKey  string
	Items     []recommend.Item
	CreatedAt time.Time
}

// Get returns the cached entry for key if one exists and is younger
// than ttl. A ttl of zero disables expiry.
func (s *Store) Get(key string, ttl time.Duration) (*Entry, bool, error) {
	row := s.conn.QueryRow(
		`SELECT model_key, items, created_at FROM results WHERE key = ?`, key)

	var (
		modelKey  string
		itemsJSON string
		createdAt time.Time
	)
	if err := row.Scan(&modelKey, &itemsJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get: %w", err)
	}

	if ttl > 0 && time.Since(createdAt) > ttl {
		return nil, false, nil
	}

	var items []recommend.Item
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return nil, false, fmt.Errorf("cache: decode items: %w", err)
	}
	return &Entry{Key: key, ModelKey: modelKey, Items: items, CreatedAt: createdAt}, true, nil
}

// Put stores (or replaces) the result for key.
func (s *Store) Put(key, modelKey string, items []recommend.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cache: encode items: %w", err)
	}
	// Timestamps are bound from Go (UTC) so that Get and Prune compare
	// values written in the same format.
	_, err = s.conn.Exec(
		`INSERT INTO results (key, model_key, items, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   model_key = excluded.model_key,
		   items = excluded.items,
		   created_at = excluded.created_at`,
		key, modelKey, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// Cached returns the entry for key, computing and storing it on a
// miss. Concurrent callers with the same key share one computation.
func (s *Store) Cached(key, modelKey string, ttl time.Duration, compute func() ([]recommend.Item, error)) ([]recommend.Item, error) {
	result, err, _ := s.group.Do(key, func() (any, error) {
		if entry, ok, err := s.Get(key, ttl); err == nil && ok {
			return entry.Items, nil
		}
		items, err := compute()
		if err != nil {
			return nil, err
		}
		if putErr := s.Put(key, modelKey, items); putErr != nil {
			return nil, putErr
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]recommend.Item), nil
}

// Prune deletes entries older than ttl, returning how many were
// removed.
func (s *Store) Prune(ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-ttl)
	res, err := s.conn.Exec(`DELETE FROM results WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache: prune: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
