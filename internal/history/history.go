// Package history records finished plays in a per-user sqlite database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/ripple/internal/db"
)

const dbFileName = "ripple/ripple.db"

// Play is one recorded playback.
type Play struct {
	ID       int64
	Path     string
	PlayedAt time.Time
}

// Store is a play-history log backed by sqlite.
type Store struct {
	db *sql.DB
}

// Open opens the history database at the default per-user data location.
func Open() (*Store, error) {
	path, err := xdg.DataFile(dbFileName)
	if err != nil {
		return nil, fmt.Errorf("resolve history path: %w", err)
	}
	return OpenPath(path)
}

// OpenPath opens or creates the history database at path.
func OpenPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Store{db: conn}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record logs that path finished playing now.
func (s *Store) Record(path string) error {
	return s.RecordAt(path, time.Now())
}

// RecordAt logs a finished play with an explicit timestamp.
func (s *Store) RecordAt(path string, at time.Time) error {
	return db.WithTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO plays (path, played_at) VALUES (?, ?)`,
			path, at.Unix(),
		)
		return err
	})
}

// Recent returns up to limit plays, most recent first.
func (s *Store) Recent(limit int) ([]Play, error) {
	rows, err := s.db.Query(
		`SELECT id, path, played_at FROM plays ORDER BY played_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var p Play
		var unix int64
		if err := rows.Scan(&p.ID, &p.Path, &unix); err != nil {
			return nil, err
		}
		p.PlayedAt = time.Unix(unix, 0)
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

func initSchema(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			played_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_plays_played_at ON plays(played_at);
	`)
	return err
}
