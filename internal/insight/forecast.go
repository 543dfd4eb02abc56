package insight

import (
	"math"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

const forecastDays = 7

// ForecastDay is the projected revenue for one upcoming day.
type ForecastDay struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

// SalesForecast projects revenue for the week after the analyzed window.
type SalesForecast struct {
	DailyAverage     float64       `json:"daily_average"`
	TrendPercent     float64       `json:"trend_percent"`
	Days             []ForecastDay `json:"days"`
	ProjectedRevenue float64       `json:"projected_revenue"`
	Confidence       float64       `json:"confidence"`
}

// CustomerSentiment splits rated orders into positive (4-5), neutral (3)
// and negative (1-2) shares, in percent.
type CustomerSentiment struct {
	Positive      float64 `json:"positive"`
	Neutral       float64 `json:"neutral"`
	Negative      float64 `json:"negative"`
	AverageRating float64 `json:"average_rating"`
	Samples       int     `json:"samples"`
}

// Forecast bundles the sales projection and sentiment for one window.
type Forecast struct {
	Filter    analyzer.Filter   `json:"filter"`
	Sales     SalesForecast     `json:"sales"`
	Sentiment CustomerSentiment `json:"sentiment"`
}

// BuildForecast projects the next seven days from the window's mean daily
// revenue, bent by half the window's revenue trend, and summarises the
// window's ratings.
func BuildForecast(ctx *AnalysisContext) Forecast {
	return Forecast{
		Filter:    ctx.Filter,
		Sales:     forecastSales(ctx),
		Sentiment: sentiment(ctx.Orders),
	}
}

func forecastSales(ctx *AnalysisContext) SalesForecast {
	days := analyzer.DailyRevenues(ctx.Orders)
	trend := analyzer.AnalyzeRevenueTrend(ctx.Orders)

	var total float64
	for _, d := range days {
		total += d.Revenue
	}
	var avg float64
	if len(days) > 0 {
		avg = total / float64(len(days))
	}

	sf := SalesForecast{
		DailyAverage: round2(avg),
		TrendPercent: trend.ChangePercent,
		Days:         make([]ForecastDay, 0, forecastDays),
		Confidence:   round2(0.4 + math.Min(1, float64(len(days))/14)*0.4),
	}
	if len(days) == 0 {
		sf.Confidence = 0.3
	}

	growth := trend.ChangePercent / 100 / 2
	for i := 1; i <= forecastDays; i++ {
		rev := math.Max(0, avg*(1+growth*float64(i)/forecastDays))
		sf.Days = append(sf.Days, ForecastDay{
			Day:     ctx.Now.AddDate(0, 0, i).Format(pos.DateLayout),
			Revenue: round2(rev),
		})
		sf.ProjectedRevenue += rev
	}
	sf.ProjectedRevenue = round2(sf.ProjectedRevenue)
	return sf
}

func sentiment(orders []pos.Order) CustomerSentiment {
	var positive, neutral, negative int
	for _, o := range orders {
		switch {
		case o.Rating >= 4:
			positive++
		case o.Rating == 3:
			neutral++
		case o.Rating > 0:
			negative++
		}
	}
	cs := CustomerSentiment{
		AverageRating: round2(analyzer.AnalyzeSatisfaction(orders).AverageRating),
		Samples:       positive + neutral + negative,
	}
	if cs.Samples == 0 {
		return cs
	}
	share := func(n int) float64 {
		return math.Round(float64(n)/float64(cs.Samples)*1000) / 10
	}
	cs.Positive = share(positive)
	cs.Neutral = share(neutral)
	cs.Negative = share(negative)
	return cs
}
