// Package localstore is the client-local persistence layer: a single-file
// sqlite key/value store playing the role browser localStorage played for the
// old dashboard.
//
// It holds the per-widget archived item sets (keyed "{widgetType}_archived_{userId}")
// and the small session scalars (user id, auth token, device id). Archived
// items live only here and are never synced through the backend, so a user's
// archive does not follow them across devices.
package localstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zoe/internal/list"

	_ "modernc.org/sqlite"
)

// Well-known scalar keys.
const (
	KeyUserID    = "user_id"
	KeyAuthToken = "zoe_auth_token"
	KeyDeviceID  = "zoe_device_id"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("localstore: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single writer; the dashboard is one process.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("localstore: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the raw value for key. Missing keys report ok=false.
func (s *Store) Get(key string) (string, bool) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// ArchiveKey is the storage key for a widget's archived items. The format is
// load-bearing: it matches what the browser dashboard wrote to localStorage,
// so an exported/imported store stays compatible.
func ArchiveKey(widgetType, userID string) string {
	return fmt.Sprintf("%s_archived_%s", widgetType, userID)
}

// LoadArchive reads a widget's archived items. Missing or corrupted data reads
// as an empty archive; the archive is a cache, not a system of record.
func (s *Store) LoadArchive(widgetType, userID string) []list.Item {
	raw, ok := s.Get(ArchiveKey(widgetType, userID))
	if !ok {
		return nil
	}
	var items []list.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

func (s *Store) SaveArchive(widgetType, userID string, items []list.Item) error {
	if items == nil {
		items = []list.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.Set(ArchiveKey(widgetType, userID), string(b))
}
