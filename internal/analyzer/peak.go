package analyzer

import (
	"fmt"
	"sort"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// PeakHoursLimit is how many peak hours are reported.
const PeakHoursLimit = 2

// AnalyzePeakHours buckets orders by hour of day and returns the busiest
// hours, earlier hour first on ties.
func AnalyzePeakHours(orders []pos.Order) []PeakHour {
	var counts [24]int
	for _, o := range orders {
		at := o.At()
		if at.IsZero() {
			continue
		}
		counts[at.Hour()]++
	}

	var hours []PeakHour
	for h, c := range counts {
		if c == 0 {
			continue
		}
		hours = append(hours, PeakHour{
			Hour:   h,
			Orders: c,
			Label:  fmt.Sprintf("%d:00-%d:00", h, h+1),
		})
	}

	sort.SliceStable(hours, func(i, j int) bool {
		return hours[i].Orders > hours[j].Orders
	})
	if len(hours) > PeakHoursLimit {
		hours = hours[:PeakHoursLimit]
	}
	return hours
}
