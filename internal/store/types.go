// Package store keeps the history of tracked tablewatch runs in SQLite:
// the stats of each run, the insights it raised and its stock outlook.
package store

import "time"

// Snapshot identifies one tracked run.
type Snapshot struct {
	ID      int64     `json:"id"`
	TakenAt time.Time `json:"taken_at"`
	Command string    `json:"command"`
	Filter  string    `json:"filter"`
	Version string    `json:"version"`
}

// Run is a snapshot together with every row it writes. See RecordRun.
type Run struct {
	TakenAt     time.Time
	Command     string
	Filter      string
	Version     string
	Metrics     []AggregateMetric
	Insights    []InsightRow
	Predictions []PredictionRow
}

// AggregateMetric is one headline number of a run, such as total_revenue.
// Detail carries an optional label, e.g. the top-selling item's name.
type AggregateMetric struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Detail      string  `json:"detail,omitempty"`
}

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// InsightRow is an insight as raised by a run. Key is the insight id,
// stable for a given analyzer and subject, which lets later runs resolve
// it.
type InsightRow struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	Key         string  `json:"key"`
	Type        string  `json:"type"`
	Priority    string  `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	Status      string  `json:"status"`
}

// PredictionRow is the stock-out outlook for one item at the time of a run.
type PredictionRow struct {
	ID                 int64   `json:"id"`
	SnapshotID         int64   `json:"snapshot_id"`
	Item               string  `json:"item"`
	DaysLeft           int     `json:"days_left"`
	CurrentStock       float64 `json:"current_stock"`
	RecommendedReorder float64 `json:"recommended_reorder"`
	Confidence         float64 `json:"confidence"`
}

// SnapshotDiff pairs two runs with the per-metric change between them.
type SnapshotDiff struct {
	Previous *Snapshot     `json:"previous"`
	Current  *Snapshot     `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

const (
	DirectionImproved  = "improved"
	DirectionRegressed = "regressed"
	DirectionUnchanged = "unchanged"
)

// MetricDelta is how far one metric moved and whether that was good.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"`
}
