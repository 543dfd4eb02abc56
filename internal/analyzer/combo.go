package analyzer

import (
	"math"
	"sort"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

const (
	// DefaultMinComboSupport is the minimum fraction of orders a pair must
	// appear in together.
	DefaultMinComboSupport = 0.05

	// minComboOrders filters out pairs seen together only once.
	minComboOrders = 2
)

type pairTally struct {
	a, b    string
	orders  int
	revenue float64
}

// AnalyzeCombos finds unordered item pairs that co-occur in at least
// minSupport of orders, ranked by the revenue the pair generated together.
func AnalyzeCombos(orders []pos.Order, minSupport float64) []ComboOpportunity {
	if minSupport <= 0 {
		minSupport = DefaultMinComboSupport
	}

	pairs := make(map[[2]string]*pairTally)
	var basketCount int

	for _, o := range orders {
		lineRevenue := make(map[string]float64)
		for _, it := range o.Items {
			if it.Name == "" || it.Quantity <= 0 {
				continue
			}
			lineRevenue[it.Name] += it.Revenue()
		}
		if len(lineRevenue) == 0 {
			continue
		}
		basketCount++

		names := make([]string, 0, len(lineRevenue))
		for n := range lineRevenue {
			names = append(names, n)
		}
		sort.Strings(names)

		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				key := [2]string{names[i], names[j]}
				p, ok := pairs[key]
				if !ok {
					p = &pairTally{a: names[i], b: names[j]}
					pairs[key] = p
				}
				p.orders++
				p.revenue += lineRevenue[names[i]] + lineRevenue[names[j]]
			}
		}
	}
	if basketCount == 0 {
		return nil
	}

	var combos []ComboOpportunity
	for _, p := range pairs {
		support := float64(p.orders) / float64(basketCount)
		if support < minSupport || p.orders < minComboOrders {
			continue
		}
		combos = append(combos, ComboOpportunity{
			Items:        [2]string{p.a, p.b},
			Orders:       p.orders,
			Support:      support,
			JointRevenue: p.revenue,
			Confidence:   clamp(0.4+support+math.Min(1, float64(p.orders)/20)*0.2, 0.3, 0.95),
		})
	}

	sort.Slice(combos, func(i, j int) bool {
		if combos[i].JointRevenue != combos[j].JointRevenue {
			return combos[i].JointRevenue > combos[j].JointRevenue
		}
		if combos[i].Support != combos[j].Support {
			return combos[i].Support > combos[j].Support
		}
		if combos[i].Items[0] != combos[j].Items[0] {
			return combos[i].Items[0] < combos[j].Items[0]
		}
		return combos[i].Items[1] < combos[j].Items[1]
	})
	return combos
}
