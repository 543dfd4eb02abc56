package analyzer

import (
	"math"
	"sort"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

const (
	// NoDepletion is the days-left sentinel for items with no recorded usage.
	NoDepletion = 999

	// DefaultLeadTimeDays is the supplier lead time used for reorder sizing.
	DefaultLeadTimeDays = 3

	// LowStockDays is the days-left threshold for the low-stock list.
	LowStockDays = 7

	// CriticalStockDays is the days-left threshold counted as critical.
	CriticalStockDays = 3

	daysPerMonth   = 30.0
	safetyWeekDays = 7.0
)

// ForecastStock computes the depletion outlook for one item.
//
//	dailyUsage = usedThisMonth / 30
//	daysLeft   = ceil(stock / dailyUsage), NoDepletion when usage is zero
//	confidence = clamp(0.6 + min(1, used/100) × 0.3, 0.3, 0.95)
//	reorder    = max(maxStock - stock, dailyUsage × (leadTime + 7))
func ForecastStock(item pos.InventoryItem, leadTimeDays int) StockForecast {
	if leadTimeDays <= 0 {
		leadTimeDays = DefaultLeadTimeDays
	}

	daily := item.UsedThisMonth / daysPerMonth
	daysLeft := NoDepletion
	if daily > 0 {
		if item.CurrentStock <= 0 {
			daysLeft = 0
		} else {
			daysLeft = int(math.Ceil(item.CurrentStock / daily))
		}
	}

	confidence := clamp(0.6+math.Min(1, item.UsedThisMonth/100)*0.3, 0.3, 0.95)

	reorder := math.Max(
		item.MaxStock-item.CurrentStock,
		daily*float64(leadTimeDays)+daily*safetyWeekDays,
	)
	if reorder < 0 {
		reorder = 0
	}

	return StockForecast{
		Name:            item.Name,
		Category:        item.Category,
		Unit:            item.Unit,
		CurrentStock:    item.CurrentStock,
		MinStock:        item.MinStock,
		CostPerUnit:     item.CostPerUnit,
		DailyUsage:      daily,
		DaysLeft:        daysLeft,
		Confidence:      confidence,
		ReorderQuantity: reorder,
	}
}

// AnalyzeStock forecasts every item, in input order.
func AnalyzeStock(items []pos.InventoryItem, leadTimeDays int) []StockForecast {
	forecasts := make([]StockForecast, 0, len(items))
	for _, it := range items {
		forecasts = append(forecasts, ForecastStock(it, leadTimeDays))
	}
	return forecasts
}

// SortByUrgency orders forecasts by ascending days left. Ties keep their
// relative order.
func SortByUrgency(forecasts []StockForecast) []StockForecast {
	sorted := make([]StockForecast, len(forecasts))
	copy(sorted, forecasts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DaysLeft < sorted[j].DaysLeft
	})
	return sorted
}

// LowStock returns the forecasts with at most maxDays left, most urgent
// first.
func LowStock(forecasts []StockForecast, maxDays int) []StockForecast {
	var low []StockForecast
	for _, f := range forecasts {
		if f.DaysLeft <= maxDays {
			low = append(low, f)
		}
	}
	return SortByUrgency(low)
}
