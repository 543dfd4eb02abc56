// Package analyzer provides the pure signal analyzers behind tablewatch
// insights. Every function is deterministic given its inputs and never
// mutates them.
package analyzer

// ItemPopularity is the sales volume of one menu item inside a window.
type ItemPopularity struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`

	// PreviousQuantity is the quantity sold in the equal-length window
	// immediately before the analyzed one.
	PreviousQuantity int `json:"previous_quantity"`

	// GrowthPercent compares Quantity with PreviousQuantity, clamped to
	// [MinGrowthPercent, MaxGrowthPercent].
	GrowthPercent float64 `json:"growth_percent"`
}

// StockForecast is the depletion outlook for a single inventory item.
type StockForecast struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Unit            string  `json:"unit"`
	CurrentStock    float64 `json:"current_stock"`
	MinStock        float64 `json:"min_stock"`
	CostPerUnit     float64 `json:"cost_per_unit"`
	DailyUsage      float64 `json:"daily_usage"`
	DaysLeft        int     `json:"days_left"` // NoDepletion when usage is zero
	Confidence      float64 `json:"confidence"`
	ReorderQuantity float64 `json:"reorder_quantity"`
}

// PeakHour is an hour of day ranked by order count.
type PeakHour struct {
	Hour   int    `json:"hour"`
	Orders int    `json:"orders"`
	Label  string `json:"label"` // "H:00-H+1:00"
}

// DailyRevenue is the revenue booked on one calendar day.
type DailyRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// TrendDirection classifies the sign of a revenue change.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// RevenueTrend compares the most recent days against the earlier ones.
type RevenueTrend struct {
	Days          []DailyRevenue `json:"days"`
	RecentAvg     float64        `json:"recent_avg"`
	EarlierAvg    float64        `json:"earlier_avg"`
	ChangePercent float64        `json:"change_percent"` // whole percent
	Direction     TrendDirection `json:"direction"`
}

// Satisfaction summarises guest ratings.
type Satisfaction struct {
	AverageRating float64 `json:"average_rating"`
	RatedOrders   int     `json:"rated_orders"`

	// Drop is how far the recent average fell below the older average.
	// Improvements are reported as zero.
	Drop float64 `json:"drop"`
}

// Utilization is the seating load across all tables.
type Utilization struct {
	TotalTables    int     `json:"total_tables"`
	OccupiedTables int     `json:"occupied_tables"`
	ReservedTables int     `json:"reserved_tables"`
	Efficiency     float64 `json:"efficiency"` // occupied / total, 0-1
}

// ComboOpportunity is a pair of items frequently ordered together.
type ComboOpportunity struct {
	Items        [2]string `json:"items"`
	Orders       int       `json:"orders"`  // orders containing both items
	Support      float64   `json:"support"` // Orders / all orders
	JointRevenue float64   `json:"joint_revenue"`
	Confidence   float64   `json:"confidence"`
}

// TimeDemand is a category whose share of a time-of-day bucket clearly
// exceeds its overall share.
type TimeDemand struct {
	Bucket       string  `json:"bucket"`
	Category     string  `json:"category"`
	Orders       int     `json:"orders"`
	BucketShare  float64 `json:"bucket_share"`
	OverallShare float64 `json:"overall_share"`
	Lift         float64 `json:"lift"`
	Confidence   float64 `json:"confidence"`
}

// CategoryTrend compares a category's order volume across adjacent windows.
type CategoryTrend struct {
	Category      string  `json:"category"`
	Current       int     `json:"current"`
	Previous      int     `json:"previous"`
	GrowthPercent float64 `json:"growth_percent"`
	Confidence    float64 `json:"confidence"`
}

// CustomerTier is one spend tier of the customer base.
type CustomerTier struct {
	Name      string  `json:"name"`
	Customers int     `json:"customers"`
	AvgSpend  float64 `json:"avg_spend"`
	AvgVisits float64 `json:"avg_visits"`
}

// SegmentAnalysis is the result of clustering customers by spend.
type SegmentAnalysis struct {
	Tiers []CustomerTier `json:"tiers"`

	// TopCategory is the menu category most disproportionately ordered by
	// the vip tier. Empty when there is no signal.
	TopCategory     string  `json:"top_category,omitempty"`
	TopCategoryLift float64 `json:"top_category_lift,omitempty"`
	Confidence      float64 `json:"confidence"`
}
