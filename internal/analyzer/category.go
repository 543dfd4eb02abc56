package analyzer

import (
	"math"
	"sort"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// categoryVolume sums item quantities per menu category.
func categoryVolume(orders []pos.Order, menu map[string]pos.MenuItem) map[string]int {
	vol := make(map[string]int)
	for _, o := range orders {
		for _, it := range o.Items {
			if it.Name == "" || it.Quantity <= 0 {
				continue
			}
			vol[categoryOf(menu, it.Name)] += it.Quantity
		}
	}
	return vol
}

// AnalyzeCategoryTrends compares category order volume in current against
// previous (the adjacent earlier window) and ranks categories by growth.
func AnalyzeCategoryTrends(current, previous []pos.Order, menu map[string]pos.MenuItem) []CategoryTrend {
	cur := categoryVolume(current, menu)
	prev := categoryVolume(previous, menu)

	seen := make(map[string]bool)
	var trends []CategoryTrend
	add := func(cat string) {
		if seen[cat] {
			return
		}
		seen[cat] = true
		c, p := cur[cat], prev[cat]
		trends = append(trends, CategoryTrend{
			Category:      cat,
			Current:       c,
			Previous:      p,
			GrowthPercent: GrowthPercent(float64(c), float64(p)),
			Confidence:    clamp(0.5+math.Min(1, float64(c+p)/50)*0.4, 0.3, 0.9),
		})
	}
	for cat := range cur {
		add(cat)
	}
	for cat := range prev {
		add(cat)
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].GrowthPercent != trends[j].GrowthPercent {
			return trends[i].GrowthPercent > trends[j].GrowthPercent
		}
		if trends[i].Current != trends[j].Current {
			return trends[i].Current > trends[j].Current
		}
		return trends[i].Category < trends[j].Category
	})
	return trends
}
