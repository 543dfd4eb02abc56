package analyzer

import (
	"math"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// Growth bounds keep a tiny previous window from producing absurd swings.
const (
	MinGrowthPercent = -100.0
	MaxGrowthPercent = 500.0

	// newGrowthPercent is reported when something sold now but not before.
	newGrowthPercent = 100.0
)

// UnknownCategory is used for items that are not on the menu.
const UnknownCategory = "Other"

// GrowthPercent returns (current - previous) / previous × 100, clamped to
// [MinGrowthPercent, MaxGrowthPercent].
func GrowthPercent(current, previous float64) float64 {
	if previous <= 0 {
		if current > 0 {
			return newGrowthPercent
		}
		return 0
	}
	g := (current - previous) / previous * 100
	return clamp(g, MinGrowthPercent, MaxGrowthPercent)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return clamp(v, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// OrderRevenue is the order total, or the sum of its lines when no total
// was recorded.
func OrderRevenue(o pos.Order) float64 {
	if o.TotalAmount > 0 {
		return o.TotalAmount
	}
	var sum float64
	for _, it := range o.Items {
		sum += it.Revenue()
	}
	return sum
}

// categoryOf resolves an item name to its menu category.
func categoryOf(menu map[string]pos.MenuItem, name string) string {
	if m, ok := menu[name]; ok && m.Category != "" {
		return m.Category
	}
	return UnknownCategory
}
