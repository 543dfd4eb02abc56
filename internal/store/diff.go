package store

import "fmt"

// ComputeDeltas compares two sets of aggregate metrics. higherIsBetter
// reports the desired direction for a metric name; nil treats every metric
// as higher-is-better.
func ComputeDeltas(prev, curr []AggregateMetric, higherIsBetter func(name string) bool) []MetricDelta {
	prevMap := make(map[string]float64)
	for _, m := range prev {
		prevMap[m.MetricName] = m.MetricValue
	}

	var deltas []MetricDelta
	for _, m := range curr {
		prevVal := prevMap[m.MetricName]
		delta := m.MetricValue - prevVal

		direction := DirectionUnchanged
		if delta != 0 {
			better := true
			if higherIsBetter != nil {
				better = higherIsBetter(m.MetricName)
			}
			if (delta > 0) == better {
				direction = DirectionImproved
			} else {
				direction = DirectionRegressed
			}
		}

		deltas = append(deltas, MetricDelta{
			Name:      m.MetricName,
			Previous:  prevVal,
			Current:   m.MetricValue,
			Delta:     delta,
			Direction: direction,
		})
	}
	return deltas
}

// Diff compares the metrics of snapshot currentID against the snapshot
// `back` positions before the latest. It returns nil when there is no such
// earlier snapshot.
func (db *DB) Diff(currentID int64, back int, higherIsBetter func(name string) bool) (*SnapshotDiff, error) {
	prev, err := db.GetSnapshotN(back + 1)
	if err != nil {
		return nil, fmt.Errorf("loading previous snapshot: %w", err)
	}
	if prev == nil || prev.ID == currentID {
		return nil, nil
	}
	curr, err := db.GetSnapshot(currentID)
	if err != nil {
		return nil, fmt.Errorf("loading current snapshot: %w", err)
	}
	if curr == nil {
		return nil, fmt.Errorf("snapshot #%d not found", currentID)
	}

	prevMetrics, err := db.GetAggregateMetrics(prev.ID)
	if err != nil {
		return nil, fmt.Errorf("loading previous metrics: %w", err)
	}
	currMetrics, err := db.GetAggregateMetrics(curr.ID)
	if err != nil {
		return nil, fmt.Errorf("loading current metrics: %w", err)
	}

	return &SnapshotDiff{
		Previous: prev,
		Current:  curr,
		Deltas:   ComputeDeltas(prevMetrics, currMetrics, higherIsBetter),
	}, nil
}
