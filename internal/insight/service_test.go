package insight

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

func testService(snap *pos.Snapshot) *Service {
	return NewService(StaticSource(snap), NewEngine(nil, false), DefaultOptions()).
		WithClock(func() time.Time { return testNow })
}

func TestService_Report(t *testing.T) {
	rep, err := testService(busySnapshot()).Report(analyzer.FilterWeek)
	require.NoError(t, err)

	assert.Equal(t, analyzer.FilterWeek, rep.Filter)
	assert.True(t, rep.GeneratedAt.Equal(testNow))
	assert.NotEmpty(t, rep.Insights)
	assert.Len(t, rep.Predictions, 4)
	assert.Equal(t, "Burger", rep.Stats.TopSellingItem)
	assert.Len(t, rep.Forecast.Sales.Days, 7)
}

func TestService_Operations(t *testing.T) {
	svc := testService(busySnapshot())

	res, err := svc.Insights(analyzer.FilterWeek)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Insights)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalOrders)

	preds, err := svc.InventoryPredictions()
	require.NoError(t, err)
	assert.Equal(t, "Buns", preds[0].Item)

	recs, err := svc.MenuRecommendations(analyzer.FilterWeek)
	require.NoError(t, err)
	assert.NotEmpty(t, recs)

	fc, err := svc.Forecast(analyzer.FilterToday)
	require.NoError(t, err)
	assert.Equal(t, analyzer.FilterToday, fc.Filter)
}

func TestService_PropagatesSourceErrors(t *testing.T) {
	malformed := &pos.MalformedInputError{File: "orders.json", Problems: []string{"0.items: is required"}}
	svc := NewService(func() (*pos.Snapshot, error) { return nil, malformed }, nil, DefaultOptions())

	_, err := svc.Insights(analyzer.FilterWeek)
	var mie *pos.MalformedInputError
	require.True(t, errors.As(err, &mie))
	assert.Equal(t, "orders.json", mie.File)

	_, err = svc.Stats()
	assert.ErrorAs(t, err, &mie)
}

func TestService_BadFilter(t *testing.T) {
	_, err := testService(&pos.Snapshot{}).Insights(analyzer.Filter("decade"))
	assert.ErrorIs(t, err, analyzer.ErrUnknownFilter)
}

func TestService_NilSnapshot(t *testing.T) {
	_, err := testService(nil).Report(analyzer.FilterWeek)
	assert.ErrorIs(t, err, pos.ErrNilSnapshot)
}
