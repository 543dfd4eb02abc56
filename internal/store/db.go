package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is the tracked-history database.
type DB struct {
	conn *sql.DB
}

// filePragmas apply to on-disk databases. busy_timeout lets a watch
// daemon and a track run share the file.
var filePragmas = []string{"journal_mode(WAL)", "foreign_keys(1)", "busy_timeout(5000)"}

// Open opens the database at dbPath, creating it and its directory if
// needed, and migrates it to the current schema.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}
	return open(dbPath, filePragmas, 0)
}

// OpenInMemory opens a private in-memory database for tests.
func OpenInMemory() (*DB, error) {
	// Each pooled connection to :memory: would see its own empty database.
	return open(":memory:", []string{"foreign_keys(1)"}, 1)
}

func open(dsn string, pragmas []string, maxConns int) (*DB, error) {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	if len(q) > 0 {
		dsn += "?" + q.Encode()
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dsn, err)
	}
	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
	}

	db := &DB{conn: conn}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn exposes the underlying handle for ad hoc queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}
