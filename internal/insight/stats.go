package insight

import (
	"fmt"
	"math"
	"time"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// NoData is reported as the top-selling item when nothing sold.
const NoData = "No data"

// BuildStats summarises the trailing seven days ending at now.
func BuildStats(snap *pos.Snapshot, now time.Time, opts Options) (AIStats, error) {
	ctx, err := NewContext(snap, analyzer.FilterWeek, now, opts)
	if err != nil {
		return AIStats{}, fmt.Errorf("building stats: %w", err)
	}

	stats := AIStats{
		AverageRating:        round2(analyzer.AnalyzeSatisfaction(ctx.Orders).AverageRating),
		RevenueGrowthPercent: analyzer.AnalyzeRevenueTrend(ctx.Orders).ChangePercent,
		KitchenEfficiency:    math.Round(analyzer.KitchenEfficiency(ctx.Orders) * 100),
		TableUtilization:     math.Round(analyzer.AnalyzeUtilization(snap.Tables).Efficiency * 100),
		TotalOrders:          len(ctx.Orders),
		TopSellingItem:       NoData,
	}

	for _, f := range analyzer.AnalyzeStock(snap.Inventory, ctx.Options.LeadTimeDays) {
		if f.DaysLeft <= analyzer.CriticalStockDays {
			stats.CriticalStockItems++
		}
	}

	for _, o := range ctx.Orders {
		stats.TotalRevenue += analyzer.OrderRevenue(o)
	}
	stats.TotalRevenue = round2(stats.TotalRevenue)
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = round2(stats.TotalRevenue / float64(stats.TotalOrders))
	}

	if items := analyzer.RankPopularity(ctx.Orders); len(items) > 0 {
		stats.TopSellingItem = items[0].Name
		stats.TopSellingItemOrdered = items[0].Quantity
	}
	return stats, nil
}
