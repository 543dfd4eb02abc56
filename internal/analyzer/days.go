package analyzer

import (
	"sort"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// GroupByDay buckets orders by calendar date. Orders keep their arrival
// order within a day. Orders with no date are skipped.
func GroupByDay(orders []pos.Order) map[string][]pos.Order {
	byDay := make(map[string][]pos.Order)
	for _, o := range orders {
		day := o.Day()
		if day == "" {
			continue
		}
		byDay[day] = append(byDay[day], o)
	}
	return byDay
}

// SortedDays returns the keys of a GroupByDay result in chronological order.
func SortedDays(byDay map[string][]pos.Order) []string {
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	// YYYY-MM-DD sorts lexicographically.
	sort.Strings(days)
	return days
}
