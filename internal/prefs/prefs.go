// Package prefs provides a SQLite-backed key/value store for persisted
// dashboard preferences.
package prefs

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS prefs (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Well-known preference keys.
const (
	KeyUseMockData = "use_mock_data"
	KeyTimeframe   = "timeframe"
)

// Store persists string preferences across sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the preference database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating prefs dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening prefs db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the preference database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value for key, or ok=false if unset.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a value under key, replacing any prior value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO prefs (key, value) VALUES (?, ?)", key, value)
	return err
}

// GetBool reads a boolean preference, returning def when unset or malformed.
func (s *Store) GetBool(key string, def bool) bool {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// SetBool stores a boolean preference.
func (s *Store) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}
