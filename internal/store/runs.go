package store

import (
	"database/sql"
	"fmt"
	"time"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// RecordRun writes a snapshot with its metrics, insights and predictions
// in a single transaction and returns the snapshot id. On error nothing
// is kept.
func (db *DB) RecordRun(run *Run) (id int64, err error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning run: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	takenAt := run.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}
	if id, err = insertSnapshot(tx, takenAt, run.Command, run.Filter, run.Version); err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}
	for _, m := range run.Metrics {
		if err = insertMetric(tx, id, m.MetricName, m.MetricValue, m.Detail); err != nil {
			return 0, fmt.Errorf("inserting metric %s: %w", m.MetricName, err)
		}
	}
	for _, in := range run.Insights {
		in.SnapshotID = id
		if err = insertInsight(tx, &in); err != nil {
			return 0, fmt.Errorf("inserting insight %s: %w", in.Key, err)
		}
	}
	for _, p := range run.Predictions {
		p.SnapshotID = id
		if err = insertPrediction(tx, &p); err != nil {
			return 0, fmt.Errorf("inserting prediction %s: %w", p.Item, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

func insertSnapshot(x execer, takenAt time.Time, command, filter, version string) (int64, error) {
	res, err := x.Exec(
		"INSERT INTO snapshots (taken_at, command, filter, version) VALUES (?, ?, ?, ?)",
		takenAt.UTC().Format(time.RFC3339), command, filter, version,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertMetric(x execer, snapshotID int64, name string, value float64, detail string) error {
	_, err := x.Exec(
		"INSERT INTO aggregate_metrics (snapshot_id, metric_name, metric_value, detail) VALUES (?, ?, ?, ?)",
		snapshotID, name, value, detail,
	)
	return err
}

func insertInsight(x execer, in *InsightRow) error {
	if in.Status == "" {
		in.Status = StatusOpen
	}
	_, err := x.Exec(
		`INSERT INTO insights
		(snapshot_id, insight_key, type, priority, title, description, confidence, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.SnapshotID, in.Key, in.Type, in.Priority, in.Title, in.Description, in.Confidence, in.Status,
	)
	return err
}

func insertPrediction(x execer, p *PredictionRow) error {
	_, err := x.Exec(
		`INSERT INTO stock_predictions
		(snapshot_id, item, days_left, current_stock, recommended_reorder, confidence)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.SnapshotID, p.Item, p.DaysLeft, p.CurrentStock, p.RecommendedReorder, p.Confidence,
	)
	return err
}

// InsertAggregateMetric adds one metric to an existing snapshot.
func (db *DB) InsertAggregateMetric(snapshotID int64, name string, value float64, detail string) error {
	return insertMetric(db.conn, snapshotID, name, value, detail)
}

// InsertInsight adds one insight; an empty status is stored as open.
func (db *DB) InsertInsight(in *InsightRow) error {
	return insertInsight(db.conn, in)
}

// InsertPrediction adds one stock prediction.
func (db *DB) InsertPrediction(p *PredictionRow) error {
	return insertPrediction(db.conn, p)
}

// GetAggregateMetrics returns a snapshot's metrics sorted by name.
func (db *DB) GetAggregateMetrics(snapshotID int64) ([]AggregateMetric, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, metric_name, metric_value, COALESCE(detail, '')
		 FROM aggregate_metrics WHERE snapshot_id = ? ORDER BY metric_name`,
		snapshotID,
	)
	return collect(rows, err, func(r *sql.Rows, m *AggregateMetric) error {
		return r.Scan(&m.ID, &m.SnapshotID, &m.MetricName, &m.MetricValue, &m.Detail)
	})
}

const insightColumns = "id, snapshot_id, insight_key, type, priority, title, description, confidence, status"

func scanInsight(r *sql.Rows, in *InsightRow) error {
	return r.Scan(&in.ID, &in.SnapshotID, &in.Key, &in.Type, &in.Priority,
		&in.Title, &in.Description, &in.Confidence, &in.Status)
}

// GetInsights returns what a snapshot raised, in the order it was raised.
func (db *DB) GetInsights(snapshotID int64) ([]InsightRow, error) {
	rows, err := db.conn.Query(
		"SELECT "+insightColumns+" FROM insights WHERE snapshot_id = ? ORDER BY id", snapshotID)
	return collect(rows, err, scanInsight)
}

// GetOpenInsights lists every unresolved insight across snapshots, oldest
// first.
func (db *DB) GetOpenInsights() ([]InsightRow, error) {
	rows, err := db.conn.Query(
		"SELECT "+insightColumns+" FROM insights WHERE status = ? ORDER BY id", StatusOpen)
	return collect(rows, err, scanInsight)
}

// ResolveInsight closes a single insight by row id.
func (db *DB) ResolveInsight(id int64) error {
	_, err := db.conn.Exec("UPDATE insights SET status = ? WHERE id = ?", StatusResolved, id)
	return err
}

// ResolveCleared closes open insights from earlier snapshots whose key
// snapshotID did not raise again. It returns the number closed.
func (db *DB) ResolveCleared(snapshotID int64) (int64, error) {
	res, err := db.conn.Exec(
		`UPDATE insights SET status = ?
		 WHERE status = ? AND snapshot_id < ?
		   AND insight_key NOT IN (SELECT insight_key FROM insights WHERE snapshot_id = ?)`,
		StatusResolved, StatusOpen, snapshotID, snapshotID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetPredictions returns a snapshot's stock predictions, soonest stock-out
// first.
func (db *DB) GetPredictions(snapshotID int64) ([]PredictionRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, item, days_left, current_stock, recommended_reorder, confidence
		 FROM stock_predictions WHERE snapshot_id = ? ORDER BY days_left, id`,
		snapshotID,
	)
	return collect(rows, err, func(r *sql.Rows, p *PredictionRow) error {
		return r.Scan(&p.ID, &p.SnapshotID, &p.Item, &p.DaysLeft,
			&p.CurrentStock, &p.RecommendedReorder, &p.Confidence)
	})
}
