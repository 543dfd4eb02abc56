package insight

import (
	"fmt"
	"sort"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// Per-source caps for menu recommendations.
const (
	maxComboRecommendations    = 2
	maxDemandRecommendations   = 2
	maxCategoryRecommendations = 2
	maxSegmentRecommendations  = 1

	// maxPredictedDays is the horizon past which stock-outs are reported
	// with the "30+ days" label.
	maxPredictedDays = 30

	comboDiscount = 0.9
)

// Recommendation sources.
const (
	SourceCombo      = "combo"
	SourceTimeDemand = "time_demand"
	SourceCategory   = "category_trend"
	SourceSegment    = "customer_segment"
	SourcePopularity = "popularity"
)

// BuildInventoryPredictions forecasts every inventory item, soonest
// stock-out first.
func BuildInventoryPredictions(items []pos.InventoryItem, leadTimeDays int) []InventoryPrediction {
	forecasts := analyzer.SortByUrgency(analyzer.AnalyzeStock(items, leadTimeDays))
	predictions := make([]InventoryPrediction, 0, len(forecasts))
	for _, f := range forecasts {
		predictions = append(predictions, InventoryPrediction{
			Item:                f.Name,
			CurrentStock:        f.CurrentStock,
			PredictedOutOfStock: OutOfStockLabel(f.DaysLeft),
			RecommendedReorder:  f.ReorderQuantity,
			Confidence:          round2(f.Confidence),
			Category:            f.Category,
			DailyUsage:          f.DailyUsage,
			CostPerUnit:         f.CostPerUnit,
			DaysLeft:            f.DaysLeft,
		})
	}
	return predictions
}

// OutOfStockLabel renders days left as "N days", or "30+ days" beyond the
// prediction horizon.
func OutOfStockLabel(daysLeft int) string {
	if daysLeft > maxPredictedDays {
		return fmt.Sprintf("%d+ days", maxPredictedDays)
	}
	return fmt.Sprintf("%d days", daysLeft)
}

// BuildMenuRecommendations combines basket, time-of-day, category and
// customer signals into menu suggestions ordered by confidence. When none
// of them qualify the best seller in the window is recommended instead.
func BuildMenuRecommendations(ctx *AnalysisContext) []MenuRecommendation {
	var recs []MenuRecommendation
	recs = append(recs, comboRecommendations(ctx)...)
	recs = append(recs, demandRecommendations(ctx)...)
	recs = append(recs, categoryRecommendations(ctx)...)
	recs = append(recs, segmentRecommendations(ctx)...)

	if len(recs) == 0 {
		if fallback, ok := popularRecommendation(ctx); ok {
			recs = append(recs, fallback)
		}
	}

	for i := range recs {
		recs[i].Confidence = round2(clampConfidence(recs[i].Confidence))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})
	if recs == nil {
		recs = []MenuRecommendation{}
	}
	return recs
}

func comboRecommendations(ctx *AnalysisContext) []MenuRecommendation {
	combos := analyzer.AnalyzeCombos(ctx.Orders, ctx.Options.MinComboSupport)
	var recs []MenuRecommendation
	for _, c := range combos {
		if len(recs) == maxComboRecommendations {
			break
		}
		rec := MenuRecommendation{
			Item: fmt.Sprintf("%s + %s combo", c.Items[0], c.Items[1]),
			Reason: fmt.Sprintf(
				"Ordered together in %d orders (%.0f%% of the period)",
				c.Orders, c.Support*100,
			),
			ExpectedImpact: fmt.Sprintf(
				"Bundling lifts average order value; the pair already brought in %.2f",
				c.JointRevenue,
			),
			Confidence: c.Confidence,
			Category:   "Combo",
			Source:     SourceCombo,
		}
		a, okA := ctx.Menu[c.Items[0]]
		b, okB := ctx.Menu[c.Items[1]]
		if okA && okB {
			rec.Price = round2((a.Price + b.Price) * comboDiscount)
		}
		recs = append(recs, rec)
	}
	return recs
}

func demandRecommendations(ctx *AnalysisContext) []MenuRecommendation {
	demand := analyzer.AnalyzeTimeDemand(ctx.Orders, ctx.Menu)
	var recs []MenuRecommendation
	for _, d := range demand {
		if len(recs) == maxDemandRecommendations {
			break
		}
		recs = append(recs, MenuRecommendation{
			Item: fmt.Sprintf("%s %s specials", d.Bucket, d.Category),
			Reason: fmt.Sprintf(
				"%s is %.0f%% of %s orders against %.0f%% overall",
				d.Category, d.BucketShare*100, d.Bucket, d.OverallShare*100,
			),
			ExpectedImpact: fmt.Sprintf("Featuring %s during %s matches demand that already exists", d.Category, d.Bucket),
			Confidence:     d.Confidence,
			Category:       d.Category,
			Source:         SourceTimeDemand,
		})
	}
	return recs
}

func categoryRecommendations(ctx *AnalysisContext) []MenuRecommendation {
	if !ctx.Comparable() {
		return nil
	}
	trends := analyzer.AnalyzeCategoryTrends(ctx.Orders, ctx.PreviousOrders, ctx.Menu)
	var recs []MenuRecommendation
	for _, t := range trends {
		if len(recs) == maxCategoryRecommendations {
			break
		}
		if t.GrowthPercent <= 0 || t.Category == analyzer.UnknownCategory {
			continue
		}
		recs = append(recs, MenuRecommendation{
			Item: fmt.Sprintf("New %s item", t.Category),
			Reason: fmt.Sprintf(
				"%s orders grew %.0f%% (%d vs %d in the previous period)",
				t.Category, t.GrowthPercent, t.Current, t.Previous,
			),
			ExpectedImpact: fmt.Sprintf("Expanding %s captures growing demand", t.Category),
			Confidence:     t.Confidence,
			Category:       t.Category,
			Source:         SourceCategory,
		})
	}
	return recs
}

func segmentRecommendations(ctx *AnalysisContext) []MenuRecommendation {
	seg := analyzer.AnalyzeCustomerSegments(ctx.Snapshot.Customers, ctx.Orders, ctx.Menu)
	if seg.TopCategory == "" {
		return nil
	}
	vips := 0
	for _, t := range seg.Tiers {
		if t.Name == analyzer.TierVIP {
			vips = t.Customers
		}
	}
	recs := []MenuRecommendation{{
		Item: fmt.Sprintf("Premium %s selection", seg.TopCategory),
		Reason: fmt.Sprintf(
			"Top-spending guests order %s %.1fx more than everyone else",
			seg.TopCategory, seg.TopCategoryLift,
		),
		ExpectedImpact: fmt.Sprintf("A premium %s option rewards %d vip customers", seg.TopCategory, vips),
		Confidence:     seg.Confidence,
		Category:       seg.TopCategory,
		Source:         SourceSegment,
	}}
	return recs[:maxSegmentRecommendations]
}

func popularRecommendation(ctx *AnalysisContext) (MenuRecommendation, bool) {
	items := ctx.popularity()
	if len(items) == 0 {
		return MenuRecommendation{}, false
	}
	top := items[0]
	rec := MenuRecommendation{
		Item:           top.Name,
		Reason:         fmt.Sprintf("Best seller with %d sold in the period", top.Quantity),
		ExpectedImpact: "Keeping it prominent on the menu protects the top revenue line",
		Confidence:     0.6,
		Source:         SourcePopularity,
	}
	if m, ok := ctx.Menu[top.Name]; ok {
		rec.Category = m.Category
		rec.Price = m.Price
	}
	return rec, true
}
