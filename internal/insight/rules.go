package insight

import (
	"fmt"
	"math"
	"strings"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
)

// Rule thresholds.
const (
	popularityHighGrowth   = 30.0
	stockHighDays          = 1
	stockMediumDays        = 3
	revenueHighChange      = 15.0
	satisfactionFireRating = 4.0
	satisfactionHighRating = 3.5
	satisfactionFireDrop   = 0.2
	utilizationFire        = 0.7
	utilizationLow         = 0.5
)

// Suggestion texts attached to utilization insights.
var (
	lowUtilizationSuggestions = []string{
		"Run off-peak promotions such as happy hour or lunch sets",
		"Promote table reservations through social media and messaging",
		"Combine small tables to seat larger groups",
	}
	utilizationSuggestions = []string{
		"Follow up on reservation no-shows",
		"Speed up table turnover after payment",
	}
)

// PopularityRule recommends promoting the best-selling item in the window.
func PopularityRule(ctx *AnalysisContext) []Insight {
	items := ctx.popularity()
	if len(items) == 0 {
		return nil
	}
	top := items[0]

	priority := PriorityMedium
	if top.GrowthPercent > popularityHighGrowth {
		priority = PriorityHigh
	}

	trend := ""
	if ctx.Comparable() {
		trend = fmt.Sprintf(" (%+.0f%% vs the previous period)", top.GrowthPercent)
	}

	return []Insight{{
		ID:    insightID("popularity", top.Name),
		Type:  TypeRecommendation,
		Title: fmt.Sprintf("Promote %s", top.Name),
		Description: fmt.Sprintf(
			"%s is the best seller with %d sold%s. "+
				"Feature it prominently and keep its ingredients stocked.",
			top.Name, top.Quantity, trend,
		),
		Confidence: round2(0.5 + math.Min(1, float64(top.Quantity)/50)*0.4),
		Priority:   priority,
		Actionable: true,
		Data: map[string]any{
			"item":           top.Name,
			"quantity":       top.Quantity,
			"revenue":        top.Revenue,
			"growth_percent": top.GrowthPercent,
		},
	}}
}

// StockRule alerts on inventory that will run out within a week, most
// urgent first.
func StockRule(ctx *AnalysisContext) []Insight {
	forecasts := analyzer.AnalyzeStock(ctx.Snapshot.Inventory, ctx.Options.LeadTimeDays)
	var insights []Insight
	for _, f := range analyzer.LowStock(forecasts, analyzer.LowStockDays) {
		insights = append(insights, Insight{
			ID:    insightID("stock", f.Name),
			Type:  TypeAlert,
			Title: fmt.Sprintf("Low stock: %s", f.Name),
			Description: fmt.Sprintf(
				"%s runs out in about %s at %.1f %s per day. Reorder %.0f %s.",
				f.Name, pluralDays(f.DaysLeft), f.DailyUsage, f.Unit, f.ReorderQuantity, f.Unit,
			),
			Confidence: round2(f.Confidence),
			Priority:   stockPriority(f.DaysLeft),
			Actionable: true,
			Data: map[string]any{
				"item":             f.Name,
				"days_left":        f.DaysLeft,
				"current_stock":    f.CurrentStock,
				"daily_usage":      f.DailyUsage,
				"reorder_quantity": f.ReorderQuantity,
			},
		})
	}
	return insights
}

func stockPriority(daysLeft int) Priority {
	switch {
	case daysLeft <= stockHighDays:
		return PriorityHigh
	case daysLeft <= stockMediumDays:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// PeakHourRule reports the busiest hours so staffing can follow demand.
func PeakHourRule(ctx *AnalysisContext) []Insight {
	peaks := analyzer.AnalyzePeakHours(ctx.Orders)
	if len(peaks) == 0 {
		return nil
	}
	labels := make([]string, 0, len(peaks))
	peakOrders := 0
	for _, p := range peaks {
		labels = append(labels, p.Label)
		peakOrders += p.Orders
	}

	return []Insight{{
		ID:    "peak-hours",
		Type:  TypeOptimization,
		Title: fmt.Sprintf("Peak hours: %s", strings.Join(labels, ", ")),
		Description: fmt.Sprintf(
			"%d of %d orders came in during %s. Schedule extra floor and kitchen staff for these hours.",
			peakOrders, len(ctx.Orders), strings.Join(labels, " and "),
		),
		Confidence: round2(0.6 + math.Min(1, float64(len(ctx.Orders))/100)*0.3),
		Priority:   PriorityMedium,
		Actionable: true,
		Data: map[string]any{
			"peak_hours":  labels,
			"peak_orders": peakOrders,
		},
	}}
}

// RevenueTrendRule reports a shift in daily revenue between the last three
// days and the days before them.
func RevenueTrendRule(ctx *AnalysisContext) []Insight {
	trend := analyzer.AnalyzeRevenueTrend(ctx.Orders)
	if trend.ChangePercent == 0 {
		return nil
	}

	priority := PriorityLow
	if math.Abs(trend.ChangePercent) > revenueHighChange {
		priority = PriorityHigh
	}
	verb := "up"
	advice := "Keep the current menu and promotions running."
	if trend.Direction == analyzer.TrendDown {
		verb = "down"
		advice = "Review recent menu, pricing and staffing changes."
	}

	return []Insight{{
		ID:    "revenue-trend",
		Type:  TypeTrend,
		Title: fmt.Sprintf("Revenue trending %s %.0f%%", verb, math.Abs(trend.ChangePercent)),
		Description: fmt.Sprintf(
			"Recent daily revenue averages %.2f against %.2f before. %s",
			trend.RecentAvg, trend.EarlierAvg, advice,
		),
		Confidence: round2(0.5 + math.Min(1, float64(len(trend.Days))/14)*0.4),
		Priority:   priority,
		Actionable: trend.Direction == analyzer.TrendDown,
		Data: map[string]any{
			"change_percent": trend.ChangePercent,
			"direction":      string(trend.Direction),
			"recent_avg":     trend.RecentAvg,
			"earlier_avg":    trend.EarlierAvg,
			"days":           len(trend.Days),
		},
	}}
}

// SatisfactionRule alerts when guest ratings are low or falling.
func SatisfactionRule(ctx *AnalysisContext) []Insight {
	s := analyzer.AnalyzeSatisfaction(ctx.Orders)
	if s.RatedOrders == 0 {
		return nil
	}
	if s.AverageRating >= satisfactionFireRating && s.Drop <= satisfactionFireDrop {
		return nil
	}

	priority := PriorityMedium
	if s.AverageRating < satisfactionHighRating {
		priority = PriorityHigh
	}
	desc := fmt.Sprintf("Average rating is %.1f across %d rated orders.", s.AverageRating, s.RatedOrders)
	if s.Drop > 0 {
		desc += fmt.Sprintf(" Recent ratings fell by %.1f.", s.Drop)
	}
	desc += " Check service times and food quality with the team."

	return []Insight{{
		ID:          "satisfaction",
		Type:        TypeAlert,
		Title:       "Customer satisfaction needs attention",
		Description: desc,
		Confidence:  round2(0.5 + math.Min(1, float64(s.RatedOrders)/50)*0.45),
		Priority:    priority,
		Actionable:  true,
		Data: map[string]any{
			"average_rating": s.AverageRating,
			"rated_orders":   s.RatedOrders,
			"drop":           s.Drop,
		},
	}}
}

// UtilizationRule suggests ways to fill tables when occupancy is low. A
// snapshot without table records says nothing about the floor and raises
// no insight, even though its efficiency reads 0.
func UtilizationRule(ctx *AnalysisContext) []Insight {
	u := analyzer.AnalyzeUtilization(ctx.Snapshot.Tables)
	if u.TotalTables == 0 || u.Efficiency >= utilizationFire {
		return nil
	}

	priority := PriorityLow
	suggestions := utilizationSuggestions
	if u.Efficiency < utilizationLow {
		priority = PriorityMedium
		suggestions = lowUtilizationSuggestions
	}

	return []Insight{{
		ID:    "table-utilization",
		Type:  TypeOptimization,
		Title: fmt.Sprintf("Table utilization at %.0f%%", u.Efficiency*100),
		Description: fmt.Sprintf(
			"%d of %d tables are occupied. %s.",
			u.OccupiedTables, u.TotalTables, suggestions[0],
		),
		Confidence: round2(0.6 + math.Min(1, float64(u.TotalTables)/20)*0.3),
		Priority:   priority,
		Actionable: true,
		Data: map[string]any{
			"efficiency":     u.Efficiency,
			"occupied":       u.OccupiedTables,
			"reserved":       u.ReservedTables,
			"total":          u.TotalTables,
			"low_efficiency": u.Efficiency < utilizationLow,
			"suggestions":    append([]string(nil), suggestions...),
		},
	}}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
