// Package insight turns analyzer signals into ranked insights, menu
// recommendations, inventory predictions and summary statistics.
package insight

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// Type classifies what kind of observation an insight is.
type Type string

const (
	TypeRecommendation Type = "recommendation"
	TypePrediction     Type = "prediction"
	TypeOptimization   Type = "optimization"
	TypeAlert          Type = "alert"
	TypeTrend          Type = "trend"
)

// Priority levels for insights.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities; higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Insight is a ranked, confidence-scored observation derived from one
// analyzer.
type Insight struct {
	ID          string         `json:"id"`
	Type        Type           `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"`
	Priority    Priority       `json:"priority"`
	Actionable  bool           `json:"actionable"`
	Data        map[string]any `json:"data,omitempty"`
}

// MenuRecommendation suggests a menu change backed by order history.
type MenuRecommendation struct {
	Item           string  `json:"item"`
	Reason         string  `json:"reason"`
	ExpectedImpact string  `json:"expected_impact"`
	Confidence     float64 `json:"confidence"`
	Category       string  `json:"category,omitempty"`
	Price          float64 `json:"price,omitempty"`
	Source         string  `json:"source"`
}

// InventoryPrediction is the stock-out outlook for one inventory item.
type InventoryPrediction struct {
	Item                string  `json:"item"`
	CurrentStock        float64 `json:"current_stock"`
	PredictedOutOfStock string  `json:"predicted_out_of_stock"`
	RecommendedReorder  float64 `json:"recommended_reorder"`
	Confidence          float64 `json:"confidence"`
	Category            string  `json:"category"`
	DailyUsage          float64 `json:"daily_usage"`
	CostPerUnit         float64 `json:"cost_per_unit"`
	DaysLeft            int     `json:"days_left"`
}

// AIStats is the flattened dashboard summary over the trailing week.
type AIStats struct {
	AverageRating         float64 `json:"average_rating"`
	RevenueGrowthPercent  float64 `json:"revenue_growth_percent"`
	CriticalStockItems    int     `json:"critical_stock_items"`
	KitchenEfficiency     float64 `json:"kitchen_efficiency"` // percent
	TableUtilization      float64 `json:"table_utilization"`  // percent
	TotalRevenue          float64 `json:"total_revenue"`
	TotalOrders           int     `json:"total_orders"`
	AverageOrderValue     float64 `json:"average_order_value"`
	TopSellingItem        string  `json:"top_selling_item"`
	TopSellingItemOrdered int     `json:"top_selling_item_quantity"`
}

// Options tune the heuristics that are not fixed by the rule thresholds.
type Options struct {
	LeadTimeDays    int
	MinComboSupport float64
}

// DefaultOptions returns the stock lead time and combo support defaults.
func DefaultOptions() Options {
	return Options{
		LeadTimeDays:    analyzer.DefaultLeadTimeDays,
		MinComboSupport: analyzer.DefaultMinComboSupport,
	}
}

// AnalysisContext is everything a rule may read. It is built once per
// call by NewContext and shared read-only between rules.
type AnalysisContext struct {
	Snapshot *pos.Snapshot
	Filter   analyzer.Filter
	Window   analyzer.Window
	Now      time.Time

	// Orders are the snapshot orders inside Window; PreviousOrders are
	// those in the equal-length window just before it.
	Orders         []pos.Order
	PreviousOrders []pos.Order

	Menu    map[string]pos.MenuItem
	Options Options
}

// NewContext resolves the filter against now and slices the snapshot.
func NewContext(snap *pos.Snapshot, filter analyzer.Filter, now time.Time, opts Options) (*AnalysisContext, error) {
	if snap == nil {
		return nil, fmt.Errorf("building analysis context: %w", pos.ErrNilSnapshot)
	}
	w, err := analyzer.SelectWindow(filter, now)
	if err != nil {
		return nil, fmt.Errorf("building analysis context: %w", err)
	}
	if opts.LeadTimeDays <= 0 {
		opts.LeadTimeDays = analyzer.DefaultLeadTimeDays
	}
	if opts.MinComboSupport <= 0 {
		opts.MinComboSupport = analyzer.DefaultMinComboSupport
	}
	return &AnalysisContext{
		Snapshot:       snap,
		Filter:         filter,
		Window:         w,
		Now:            now,
		Orders:         analyzer.FilterOrders(snap.Orders, w),
		PreviousOrders: analyzer.FilterOrders(snap.Orders, w.Previous()),
		Menu:           snap.MenuIndex(),
		Options:        opts,
	}, nil
}

// Comparable reports whether the window has an equal-length predecessor
// to measure growth against.
func (c *AnalysisContext) Comparable() bool {
	return c.Window.Comparable()
}

// popularity ranks the window's items, with growth only when the window
// is comparable.
func (c *AnalysisContext) popularity() []analyzer.ItemPopularity {
	if !c.Comparable() {
		return analyzer.RankPopularity(c.Orders)
	}
	return analyzer.AnalyzePopularity(c.Orders, c.PreviousOrders)
}

// Rule examines the analysis context and produces zero or more insights.
type Rule func(ctx *AnalysisContext) []Insight

// RuleError records a rule that panicked during evaluation.
type RuleError struct {
	Rule  string `json:"rule"`
	Cause string `json:"cause"`
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("insight rule %s failed: %s", e.Rule, e.Cause)
}
