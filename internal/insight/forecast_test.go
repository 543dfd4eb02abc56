package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

func TestBuildForecast_Empty(t *testing.T) {
	f := BuildForecast(mustContext(t, &pos.Snapshot{}, analyzer.FilterWeek))

	require.Len(t, f.Sales.Days, 7)
	assert.Equal(t, "2026-10-20", f.Sales.Days[0].Day)
	assert.Equal(t, "2026-10-26", f.Sales.Days[6].Day)
	assert.Equal(t, 0.0, f.Sales.ProjectedRevenue)
	assert.Equal(t, 0.3, f.Sales.Confidence)
	assert.Equal(t, 0, f.Sentiment.Samples)
	assert.Equal(t, 4.2, f.Sentiment.AverageRating)
	assert.Equal(t, analyzer.FilterWeek, f.Filter)
}

func TestBuildForecast_FlatRevenueAndSentiment(t *testing.T) {
	snap := &pos.Snapshot{Orders: []pos.Order{
		order("a", at(1, 12), 5, item("Pasta", 50, 1)),
		order("b", at(1, 13), 4, item("Pasta", 50, 1)),
		order("c", at(0, 12), 3, item("Pasta", 50, 1)),
		order("d", at(0, 13), 1, item("Pasta", 50, 1)),
	}}
	f := BuildForecast(mustContext(t, snap, analyzer.FilterWeek))

	assert.Equal(t, 100.0, f.Sales.DailyAverage)
	assert.Equal(t, 0.0, f.Sales.TrendPercent)
	for _, d := range f.Sales.Days {
		assert.Equal(t, 100.0, d.Revenue)
	}
	assert.Equal(t, 700.0, f.Sales.ProjectedRevenue)

	assert.Equal(t, 4, f.Sentiment.Samples)
	assert.Equal(t, 50.0, f.Sentiment.Positive)
	assert.Equal(t, 25.0, f.Sentiment.Neutral)
	assert.Equal(t, 25.0, f.Sentiment.Negative)
}

func TestBuildForecast_FollowsTrend(t *testing.T) {
	snap := &pos.Snapshot{Orders: []pos.Order{
		order("d4", at(4, 12), 0, item("Steak", 100, 1)),
		order("d3", at(3, 12), 0, item("Steak", 100, 1)),
		order("d2", at(2, 12), 0, item("Steak", 150, 1)),
		order("d1", at(1, 12), 0, item("Steak", 150, 1)),
		order("d0", at(0, 12), 0, item("Steak", 150, 1)),
	}}
	f := BuildForecast(mustContext(t, snap, analyzer.FilterWeek))

	assert.Equal(t, 130.0, f.Sales.DailyAverage)
	assert.Equal(t, 50.0, f.Sales.TrendPercent)
	assert.InDelta(t, 134.64, f.Sales.Days[0].Revenue, 1e-9)
	assert.InDelta(t, 162.5, f.Sales.Days[6].Revenue, 1e-9)
	assert.Greater(t, f.Sales.Days[6].Revenue, f.Sales.Days[0].Revenue)
}

func TestBuildForecast_WindowSensitive(t *testing.T) {
	snap := &pos.Snapshot{Orders: []pos.Order{
		order("today", at(0, 12), 5, item("Pasta", 40, 1)),
		order("lastweek", at(8, 12), 1, item("Pasta", 10, 1)),
	}}
	today := BuildForecast(mustContext(t, snap, analyzer.FilterToday))
	all := BuildForecast(mustContext(t, snap, analyzer.FilterAll))

	assert.Equal(t, 40.0, today.Sales.DailyAverage)
	assert.Equal(t, 25.0, all.Sales.DailyAverage)
	assert.Equal(t, 100.0, today.Sentiment.Positive)
	assert.Equal(t, 50.0, all.Sentiment.Negative)
}
