package analyzer

import (
	"math"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// recentTrendDays is how many trailing days form the "recent" average.
const recentTrendDays = 3

// DailyRevenues totals revenue per calendar day, chronologically.
func DailyRevenues(orders []pos.Order) []DailyRevenue {
	byDay := GroupByDay(orders)
	days := SortedDays(byDay)

	out := make([]DailyRevenue, 0, len(days))
	for _, d := range days {
		dr := DailyRevenue{Day: d, Orders: len(byDay[d])}
		for _, o := range byDay[d] {
			dr.Revenue += OrderRevenue(o)
		}
		out = append(out, dr)
	}
	return out
}

// AnalyzeRevenueTrend compares the mean revenue of the last three days with
// the mean of all earlier days. Fewer than two days, or no earlier revenue,
// yields a zero change.
func AnalyzeRevenueTrend(orders []pos.Order) RevenueTrend {
	days := DailyRevenues(orders)
	trend := RevenueTrend{Days: days, Direction: TrendStable}
	if len(days) < 2 {
		return trend
	}

	split := len(days) - recentTrendDays
	if split < 0 {
		split = 0
	}
	trend.RecentAvg = meanRevenue(days[split:])
	trend.EarlierAvg = meanRevenue(days[:split])

	if trend.EarlierAvg > 0 {
		trend.ChangePercent = math.Round((trend.RecentAvg - trend.EarlierAvg) / trend.EarlierAvg * 100)
		if trend.ChangePercent == 0 {
			trend.ChangePercent = 0 // normalise -0
		}
	}

	switch {
	case trend.ChangePercent > 0:
		trend.Direction = TrendUp
	case trend.ChangePercent < 0:
		trend.Direction = TrendDown
	}
	return trend
}

func meanRevenue(days []DailyRevenue) float64 {
	if len(days) == 0 {
		return 0
	}
	var sum float64
	for _, d := range days {
		sum += d.Revenue
	}
	return sum / float64(len(days))
}
