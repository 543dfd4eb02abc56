package watcher

import "fmt"

// Regression thresholds.
const (
	ratingDropThreshold   = 0.2
	revenueFallingPercent = -15.0
	kitchenDropPoints     = 10
)

// Compare detects notable changes between two watch states and returns
// alerts, critical first.
func Compare(prev, curr *WatchState) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

// compareCritical reports high-priority insights that were not open before.
func compareCritical(prev, curr *WatchState) []Alert {
	var alerts []Alert
	for _, id := range sortedIDs(curr.OpenHigh) {
		if _, seen := prev.OpenHigh[id]; seen {
			continue
		}
		in := curr.OpenHigh[id]
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Title:   in.Title,
			Message: in.Description,
			Time:    curr.Timestamp,
		})
	}
	return alerts
}

// compareWarning detects regressions in the weekly stats and new rule
// failures.
func compareWarning(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := curr.Timestamp
	ps, cs := prev.Stats, curr.Stats

	if cs.CriticalStockItems > ps.CriticalStockItems {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "Critical stock rising",
			Message: fmt.Sprintf("%d items at 3 days of stock or less (was %d)", cs.CriticalStockItems, ps.CriticalStockItems),
			Time:    now,
		})
	}

	if ps.AverageRating-cs.AverageRating > ratingDropThreshold {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "Rating dropped",
			Message: fmt.Sprintf("Average rating is %.1f (was %.1f)", cs.AverageRating, ps.AverageRating),
			Time:    now,
		})
	}

	if cs.RevenueGrowthPercent < revenueFallingPercent && ps.RevenueGrowthPercent >= revenueFallingPercent {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "Revenue falling",
			Message: fmt.Sprintf("Revenue trend is %.0f%% (was %.0f%%)", cs.RevenueGrowthPercent, ps.RevenueGrowthPercent),
			Time:    now,
		})
	}

	if ps.KitchenEfficiency-cs.KitchenEfficiency >= kitchenDropPoints {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "Kitchen slowing down",
			Message: fmt.Sprintf("Kitchen efficiency is %.0f%% (was %.0f%%)", cs.KitchenEfficiency, ps.KitchenEfficiency),
			Time:    now,
		})
	}

	failed := make(map[string]bool, len(prev.FailedRules))
	for _, r := range prev.FailedRules {
		failed[r] = true
	}
	for _, r := range curr.FailedRules {
		if failed[r] {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   fmt.Sprintf("Rule failed: %s", r),
			Message: "Its insights were dropped from this run",
			Time:    now,
		})
	}
	return alerts
}

// compareInfo detects new orders and improvements.
func compareInfo(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := curr.Timestamp
	ps, cs := prev.Stats, curr.Stats

	if cs.TotalOrders > ps.TotalOrders {
		n := cs.TotalOrders - ps.TotalOrders
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "New orders",
			Message: fmt.Sprintf("%d new order(s), $%.2f revenue this week", n, cs.TotalRevenue),
			Time:    now,
		})
	}

	for _, id := range sortedIDs(prev.OpenHigh) {
		if _, open := curr.OpenHigh[id]; open {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   fmt.Sprintf("Resolved: %s", prev.OpenHigh[id].Title),
			Message: "No longer flagged as high priority",
			Time:    now,
		})
	}

	if cs.CriticalStockItems < ps.CriticalStockItems {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Stock recovered",
			Message: fmt.Sprintf("Critical stock items decreased from %d to %d", ps.CriticalStockItems, cs.CriticalStockItems),
			Time:    now,
		})
	}

	if cs.AverageRating-ps.AverageRating > ratingDropThreshold && ps.AverageRating > 0 {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Rating improved",
			Message: fmt.Sprintf("Average rating is %.1f (was %.1f)", cs.AverageRating, ps.AverageRating),
			Time:    now,
		})
	}
	return alerts
}
