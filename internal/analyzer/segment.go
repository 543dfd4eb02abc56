package analyzer

import (
	"math"
	"sort"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// Customer tiers, from highest spend down.
const (
	TierVIP        = "vip"
	TierRegular    = "regular"
	TierOccasional = "occasional"
)

// Tier cut-offs as cumulative fractions of customers ranked by spend.
const (
	vipFraction     = 0.2
	regularFraction = 0.5
)

type customerSpend struct {
	id     string
	spend  float64
	visits int
}

// AnalyzeCustomerSegments clusters customers into spend tiers and finds the
// menu category the vip tier orders most disproportionately. Spend and
// visits come from orders attributed to each customer, falling back to the
// customer record when no attributed orders exist.
func AnalyzeCustomerSegments(customers []pos.Customer, orders []pos.Order, menu map[string]pos.MenuItem) SegmentAnalysis {
	fromOrders := make(map[string]*customerSpend)
	byCustomer := make(map[string][]pos.Order)
	for _, o := range orders {
		if o.CustomerID == "" {
			continue
		}
		cs, ok := fromOrders[o.CustomerID]
		if !ok {
			cs = &customerSpend{id: o.CustomerID}
			fromOrders[o.CustomerID] = cs
		}
		cs.spend += OrderRevenue(o)
		cs.visits++
		byCustomer[o.CustomerID] = append(byCustomer[o.CustomerID], o)
	}

	var ranked []customerSpend
	known := make(map[string]bool)
	for _, c := range customers {
		known[c.ID] = true
		if cs, ok := fromOrders[c.ID]; ok {
			ranked = append(ranked, *cs)
			continue
		}
		ranked = append(ranked, customerSpend{id: c.ID, spend: c.TotalSpent, visits: c.Visits})
	}
	for id, cs := range fromOrders {
		if !known[id] {
			ranked = append(ranked, *cs)
		}
	}
	if len(ranked) == 0 {
		return SegmentAnalysis{}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].spend != ranked[j].spend {
			return ranked[i].spend > ranked[j].spend
		}
		return ranked[i].id < ranked[j].id
	})

	n := len(ranked)
	vipEnd := int(math.Ceil(float64(n) * vipFraction))
	regularEnd := int(math.Ceil(float64(n) * regularFraction))
	if regularEnd < vipEnd {
		regularEnd = vipEnd
	}

	analysis := SegmentAnalysis{}
	for _, tier := range []struct {
		name       string
		start, end int
	}{
		{TierVIP, 0, vipEnd},
		{TierRegular, vipEnd, regularEnd},
		{TierOccasional, regularEnd, n},
	} {
		if tier.end <= tier.start {
			continue
		}
		analysis.Tiers = append(analysis.Tiers, buildTier(tier.name, ranked[tier.start:tier.end]))
	}

	// Category lift of the vip tier against all attributed orders.
	var vipOrders []pos.Order
	for _, cs := range ranked[:vipEnd] {
		vipOrders = append(vipOrders, byCustomer[cs.id]...)
	}
	var allOrders []pos.Order
	for _, cs := range ranked {
		allOrders = append(allOrders, byCustomer[cs.id]...)
	}
	vipVol := categoryVolume(vipOrders, menu)
	allVol := categoryVolume(allOrders, menu)
	vipTotal, allTotal := sumVolume(vipVol), sumVolume(allVol)
	if vipTotal == 0 || allTotal == 0 {
		return analysis
	}

	cats := make([]string, 0, len(vipVol))
	for c := range vipVol {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	for _, c := range cats {
		if vipVol[c] < minDemandOrders {
			continue
		}
		lift := (float64(vipVol[c]) / float64(vipTotal)) / (float64(allVol[c]) / float64(allTotal))
		if lift > 1 && lift > analysis.TopCategoryLift {
			analysis.TopCategory = c
			analysis.TopCategoryLift = lift
		}
	}
	if analysis.TopCategory != "" {
		analysis.Confidence = clamp(0.45+math.Min(1, float64(len(vipOrders))/20)*0.4, 0.3, 0.9)
	}
	return analysis
}

func buildTier(name string, members []customerSpend) CustomerTier {
	t := CustomerTier{Name: name, Customers: len(members)}
	var spend float64
	var visits int
	for _, m := range members {
		spend += m.spend
		visits += m.visits
	}
	t.AvgSpend = spend / float64(len(members))
	t.AvgVisits = float64(visits) / float64(len(members))
	return t
}

func sumVolume(vol map[string]int) int {
	var total int
	for _, v := range vol {
		total += v
	}
	return total
}
