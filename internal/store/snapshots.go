package store

import (
	"database/sql"
	"errors"
	"time"
)

const snapshotColumns = "id, taken_at, command, filter, version"

// CreateSnapshot records an empty run taken now. Tracked runs go through
// RecordRun instead so their rows land together.
func (db *DB) CreateSnapshot(command, filter, version string) (int64, error) {
	return db.CreateSnapshotAt(time.Now(), command, filter, version)
}

// CreateSnapshotAt is CreateSnapshot with an explicit timestamp.
func (db *DB) CreateSnapshotAt(takenAt time.Time, command, filter, version string) (int64, error) {
	return insertSnapshot(db.conn, takenAt, command, filter, version)
}

// GetLatestSnapshot returns the newest snapshot, or nil on an empty store.
func (db *DB) GetLatestSnapshot() (*Snapshot, error) {
	return db.GetSnapshotN(1)
}

// GetSnapshot looks a snapshot up by id; nil when absent.
func (db *DB) GetSnapshot(id int64) (*Snapshot, error) {
	return scanSnapshot(db.conn.QueryRow(
		"SELECT "+snapshotColumns+" FROM snapshots WHERE id = ?", id))
}

// GetSnapshotN counts back from the newest snapshot, which is n = 1.
func (db *DB) GetSnapshotN(n int) (*Snapshot, error) {
	return scanSnapshot(db.conn.QueryRow(
		"SELECT "+snapshotColumns+" FROM snapshots ORDER BY id DESC LIMIT 1 OFFSET ?", n-1))
}

// GetRecentSnapshots lists at most n snapshots, newest first.
func (db *DB) GetRecentSnapshots(n int) ([]Snapshot, error) {
	rows, err := db.conn.Query(
		"SELECT "+snapshotColumns+" FROM snapshots ORDER BY id DESC LIMIT ?", n)
	return collect(rows, err, func(r *sql.Rows, s *Snapshot) error {
		got, err := scanSnapshot(r)
		if err == nil {
			*s = *got
		}
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var (
		s       Snapshot
		takenAt string
	)
	switch err := row.Scan(&s.ID, &takenAt, &s.Command, &s.Filter, &s.Version); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &s, nil
}

// collect drains rows through scan. It takes the Query error as well so
// callers can hand over both results directly.
func collect[T any](rows *sql.Rows, err error, scan func(*sql.Rows, *T) error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
