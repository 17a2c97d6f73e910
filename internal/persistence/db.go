// Package persistence provides SQLite-backed storage: the description
// cache that outlives the process, and an index of saved expeditions.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexcrawl/internal/terrain"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS descriptions (
		terrain TEXT NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		description TEXT NOT NULL,
		PRIMARY KEY (terrain, q, r)
	);

	CREATE TABLE IF NOT EXISTS expeditions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// GetDescription looks up a cached tile description. Implements
// describe.CacheStore.
func (db *DB) GetDescription(t terrain.Type, q, r int) (string, bool) {
	var desc string
	err := db.conn.Get(&desc,
		"SELECT description FROM descriptions WHERE terrain = ? AND q = ? AND r = ?",
		string(t), q, r)
	if err != nil {
		return "", false
	}
	return desc, true
}

// PutDescription stores a generated description, replacing any previous
// entry for the same key.
func (db *DB) PutDescription(t terrain.Type, q, r int, description string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO descriptions (terrain, q, r, description) VALUES (?, ?, ?, ?)",
		string(t), q, r, description)
	if err != nil {
		return fmt.Errorf("cache description: %w", err)
	}
	return nil
}

// DescriptionCount returns the number of cached descriptions.
func (db *DB) DescriptionCount() (int, error) {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM descriptions"); err != nil {
		return 0, err
	}
	return n, nil
}

// Expedition is an entry in the saved-map index.
type Expedition struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Path    string `db:"path" json:"path"`
	SavedAt string `db:"saved_at" json:"saved_at"`
}

// RecordExpedition upserts a saved-map index entry.
func (db *DB) RecordExpedition(id, name, path string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO expeditions (id, name, path, saved_at) VALUES (?, ?, ?, ?)",
		id, name, path, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record expedition: %w", err)
	}
	return nil
}

// ListExpeditions returns saved expeditions, newest first.
func (db *DB) ListExpeditions() ([]Expedition, error) {
	var out []Expedition
	err := db.conn.Select(&out, "SELECT id, name, path, saved_at FROM expeditions ORDER BY saved_at DESC")
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list expeditions: %w", err)
	}
	return out, nil
}
