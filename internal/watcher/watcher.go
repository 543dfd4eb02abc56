// Package watcher polls the POS data directory, recomputes insights and
// stats on each tick and emits alerts when something notable changes.
package watcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/insight"
)

// Alert levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// WatchState captures the analysis results of one poll.
type WatchState struct {
	Timestamp   time.Time
	Stats       insight.AIStats
	OpenHigh    map[string]insight.Insight // high-priority insights by ID
	FailedRules []string
	Predictions []insight.InventoryPrediction
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string    `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Watcher recomputes insights at a regular interval and emits alerts when
// notable changes are detected.
type Watcher struct {
	service       *insight.Service
	filter        analyzer.Filter
	interval      time.Duration
	previous      *WatchState
	alertFn       func(Alert)
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
	logger        *zap.Logger
	now           func() time.Time
}

// New creates a Watcher over svc using the given time filter for insights.
func New(svc *insight.Service, filter analyzer.Filter, interval time.Duration, alertFn func(Alert)) *Watcher {
	return &Watcher{
		service:       svc,
		filter:        filter,
		interval:      interval,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
		logger:        zap.NewNop(),
		now:           time.Now,
	}
}

// WithLogger sets the logger used for poll diagnostics.
func (w *Watcher) WithLogger(l *zap.Logger) *Watcher {
	if l != nil {
		w.logger = l
	}
	return w
}

// Run takes an initial snapshot, then checks at every interval. Blocks until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Snapshot()
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	w.previous = initial
	w.logger.Info("watch started",
		zap.Duration("interval", w.interval),
		zap.String("filter", string(w.filter)),
		zap.Int("open_high", len(initial.OpenHigh)))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check() {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Check performs a single cycle: takes a new snapshot, compares it against
// the previous state and returns any alerts. Identical alerts are suppressed
// until the underlying data changes. A failed snapshot keeps the previous
// state so the next good poll is compared against the last good one.
func (w *Watcher) Check() []Alert {
	var raw []Alert
	curr, err := w.Snapshot()
	if err != nil {
		w.logger.Warn("snapshot failed", zap.Error(err))
		raw = append(raw, Alert{
			Level:   LevelWarning,
			Title:   "Snapshot failed",
			Message: fmt.Sprintf("Insights are stale, could not read POS data: %v", err),
			Time:    w.now(),
		})
	} else {
		if w.previous != nil {
			raw = Compare(w.previous, curr)
		}
		w.previous = curr
	}

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys
	return alerts
}

// Snapshot loads the data directory once and records the stats, open
// high-priority insights and rule failures it produces.
func (w *Watcher) Snapshot() (*WatchState, error) {
	rep, err := w.service.Report(w.filter)
	if err != nil {
		return nil, err
	}

	state := &WatchState{
		Timestamp:   w.now(),
		Stats:       rep.Stats,
		OpenHigh:    make(map[string]insight.Insight),
		Predictions: rep.Predictions,
	}
	for _, in := range rep.Insights {
		if in.Priority == insight.PriorityHigh {
			state.OpenHigh[in.ID] = in
		}
	}
	for _, f := range rep.Failures {
		state.FailedRules = append(state.FailedRules, f.Rule)
	}
	sort.Strings(state.FailedRules)
	return state, nil
}

// sortedIDs returns the keys of m in ascending order.
func sortedIDs(m map[string]insight.Insight) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
