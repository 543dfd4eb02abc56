package analyzer

import (
	"sort"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// TopItemsLimit caps the popularity ranking.
const TopItemsLimit = 5

type itemTally struct {
	name     string
	quantity int
	revenue  float64
}

// tallyItems sums quantity and revenue per item name, in order of first
// appearance.
func tallyItems(orders []pos.Order) ([]*itemTally, map[string]*itemTally) {
	var ordered []*itemTally
	byName := make(map[string]*itemTally)
	for _, o := range orders {
		for _, it := range o.Items {
			if it.Name == "" || it.Quantity <= 0 {
				continue
			}
			t, ok := byName[it.Name]
			if !ok {
				t = &itemTally{name: it.Name}
				byName[it.Name] = t
				ordered = append(ordered, t)
			}
			t.quantity += it.Quantity
			t.revenue += it.Revenue()
		}
	}
	return ordered, byName
}

// AnalyzePopularity ranks items sold in current by quantity (ties keep first
// appearance order) and returns the top TopItemsLimit. Growth is measured
// against previous, the equal-length window before current.
func AnalyzePopularity(current, previous []pos.Order) []ItemPopularity {
	_, prevByName := tallyItems(previous)
	return rankPopularity(current, prevByName)
}

// RankPopularity is AnalyzePopularity without a comparison window. Growth
// and PreviousQuantity stay zero.
func RankPopularity(current []pos.Order) []ItemPopularity {
	return rankPopularity(current, nil)
}

func rankPopularity(current []pos.Order, prevByName map[string]*itemTally) []ItemPopularity {
	tallies, _ := tallyItems(current)
	if len(tallies) == 0 {
		return nil
	}

	sort.SliceStable(tallies, func(i, j int) bool {
		return tallies[i].quantity > tallies[j].quantity
	})
	if len(tallies) > TopItemsLimit {
		tallies = tallies[:TopItemsLimit]
	}

	items := make([]ItemPopularity, 0, len(tallies))
	for _, t := range tallies {
		ip := ItemPopularity{Name: t.name, Quantity: t.quantity, Revenue: t.revenue}
		if prevByName != nil {
			if p, ok := prevByName[t.name]; ok {
				ip.PreviousQuantity = p.quantity
			}
			ip.GrowthPercent = GrowthPercent(float64(t.quantity), float64(ip.PreviousQuantity))
		}
		items = append(items, ip)
	}
	return items
}
