package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/chat"
	"github.com/blackwell-systems/tablewatch/internal/insight"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

var testNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

func testSnapshot() *pos.Snapshot {
	var orders []pos.Order
	for i, rating := range []int{5, 4, 2} {
		when := time.Date(2026, 10, 17+i, 12, 0, 0, 0, time.UTC)
		orders = append(orders, pos.Order{
			ID:          "o" + string(rune('1'+i)),
			Items:       []pos.OrderItem{{Name: "Pizza", Price: 12, Quantity: 2}, {Name: "Soda", Price: 2, Quantity: 1}},
			TotalAmount: 26,
			Date:        when.Format(pos.DateLayout),
			Time:        when,
			Rating:      rating,
		})
	}
	return &pos.Snapshot{
		Orders: orders,
		Inventory: []pos.InventoryItem{
			{Name: "Dough", Unit: "kg", CurrentStock: 3, MaxStock: 50, UsedThisMonth: 90},
			{Name: "Cheese", Unit: "kg", CurrentStock: 40, MaxStock: 40, UsedThisMonth: 30},
		},
		Tables: []pos.Table{
			{ID: "t1", Number: 1, Capacity: 4, Status: pos.TableOccupied},
			{ID: "t2", Number: 2, Capacity: 4, Status: pos.TableFree},
		},
	}
}

func newTestRouter(t *testing.T, src insight.Source) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := insight.NewService(src, insight.NewEngine(nil, false), insight.DefaultOptions()).
		WithClock(func() time.Time { return testNow })
	responder := chat.NewResponderWithPicker(func(int) int { return 1 })
	return New(svc, responder, analyzer.FilterWeek, zaptest.NewLogger(t)).Router()
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, insight.StaticSource(testSnapshot()))
	w := do(t, r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestInsights(t *testing.T) {
	r := newTestRouter(t, insight.StaticSource(testSnapshot()))
	w := do(t, r, http.MethodGet, "/api/insights?filter=week", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Filter   string            `json:"filter"`
		Insights []insight.Insight `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "week", body.Filter)
	require.NotEmpty(t, body.Insights)

	var ids []string
	for _, in := range body.Insights {
		ids = append(ids, in.ID)
	}
	assert.Contains(t, ids, "stock-dough")
}

func TestInsights_PriorityFilter(t *testing.T) {
	r := newTestRouter(t, insight.StaticSource(testSnapshot()))
	w := do(t, r, http.MethodGet, "/api/insights?priority=high", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Insights []insight.Insight `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, in := range body.Insights {
		assert.Equal(t, insight.PriorityHigh, in.Priority, in.ID)
	}
}

func TestInsights_BadFilter(t *testing.T) {
	r := newTestRouter(t, insight.StaticSource(testSnapshot()))
	w := do(t, r, http.MethodGet, "/api/insights?filter=decade", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown date filter")
}

func TestStats(t *testing.T) {
	r := newTestRouter(t, insight.StaticSource(testSnapshot()))
	w := do(t, r, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats insight.AIStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalOrders)
	assert.InDelta(t, 78.0, stats.TotalRevenue, 0.001)
	assert.Equal(t, "Pizza", stats.TopSellingItem)
	assert.Equal(t, 50.0, stats.TableUtilization)
}

func TestInventoryPredictions(t *testing.T) {
	r := newTestRouter(t, insight.StaticSource(testSnapshot()))
	w := do(t, r, http.MethodGet, "/api/predictions/inventory", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Predictions []insight.InventoryPrediction `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Predictions, 2)
	assert.Equal(t, "Dough", body.Predictions[0].Item)
	assert.Equal(t, "1 days", body.Predictions[0].PredictedOutOfStock)
}

func TestMenuRecommendationsAndForecast(t *testing.T) {
	r := newTestRouter(t, insight.StaticSource(testSnapshot()))

	w := do(t, r, http.MethodGet, "/api/recommendations/menu?filter=month", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"filter":"month"`)
	assert.Contains(t, w.Body.String(), `"recommendations":[`)

	w = do(t, r, http.MethodGet, "/api/forecast", "")
	require.Equal(t, http.StatusOK, w.Code)
	var fc insight.Forecast
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Equal(t, analyzer.FilterWeek, fc.Filter)
	assert.Len(t, fc.Sales.Days, 7)
}

func TestMalformedSnapshotIsStale(t *testing.T) {
	src := func() (*pos.Snapshot, error) {
		return nil, &pos.MalformedInputError{File: pos.OrdersFile, Problems: []string{"0: id is required"}}
	}
	r := newTestRouter(t, src)

	for _, path := range []string{"/api/insights", "/api/stats", "/api/predictions/inventory", "/api/recommendations/menu", "/api/forecast"} {
		w := do(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), path)
		assert.Equal(t, true, body["stale"], path)
		assert.Contains(t, body["error"], "malformed orders.json", path)
	}
}

func TestLoadErrorIsStale(t *testing.T) {
	r := newTestRouter(t, func() (*pos.Snapshot, error) { return nil, errors.New("permission denied") })
	w := do(t, r, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChat(t *testing.T) {
	r := newTestRouter(t, insight.StaticSource(testSnapshot()))

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantTopic string
	}{
		{"keyword", `{"message":"How are SALES today?"}`, http.StatusOK, "sales"},
		{"fallback", `{"message":"hello there"}`, http.StatusOK, ""},
		{"empty", `{"message":"  "}`, http.StatusBadRequest, ""},
		{"bad json", `{"message":`, http.StatusBadRequest, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/chat", tc.body)
			require.Equal(t, tc.wantCode, w.Code)
			if tc.wantCode != http.StatusOK {
				return
			}
			var reply chat.Reply
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
			assert.Equal(t, tc.wantTopic, reply.Topic)
			assert.NotEmpty(t, reply.Text)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, insight.StaticSource(testSnapshot()))
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/insights", "").Code)

	w := do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tablewatch_rule_runs_total")
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(t, insight.StaticSource(testSnapshot()))

	w := do(t, r, http.MethodGet, "/healthz", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "till-7")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "till-7", w.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := insight.NewService(insight.StaticSource(testSnapshot()), nil, insight.DefaultOptions()).
		WithClock(func() time.Time { return testNow })

	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"off by default", nil, "http://pos.local", ""},
		{"listed origin", []string{"http://pos.local"}, "http://pos.local", "http://pos.local"},
		{"any origin", []string{"*"}, "http://elsewhere", "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(svc, nil, analyzer.FilterWeek, nil).WithCORS(tt.origins...).Router()
			req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
