package mcp

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/chat"
	"github.com/blackwell-systems/tablewatch/internal/insight"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

var testNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

func testSnapshot() *pos.Snapshot {
	var orders []pos.Order
	for i := 0; i < 4; i++ {
		when := time.Date(2026, 10, 15+i, 19, 0, 0, 0, time.UTC)
		orders = append(orders, pos.Order{
			ID:          fmt.Sprintf("o%d", i),
			Items:       []pos.OrderItem{{Name: "Ramen", Price: 14, Quantity: 1}, {Name: "Gyoza", Price: 6, Quantity: 1}},
			TotalAmount: 20,
			Date:        when.Format(pos.DateLayout),
			Time:        when,
			Rating:      4,
		})
	}
	return &pos.Snapshot{
		Orders: orders,
		Inventory: []pos.InventoryItem{
			{Name: "Noodles", Unit: "kg", CurrentStock: 1, MaxStock: 20, UsedThisMonth: 30},
			{Name: "Pork", Unit: "kg", CurrentStock: 6, MaxStock: 20, UsedThisMonth: 60},
			{Name: "Flour", Unit: "kg", CurrentStock: 40, MaxStock: 50, UsedThisMonth: 30},
		},
	}
}

// newTestServer creates a Server over snap with a fixed clock.
func newTestServer(snap *pos.Snapshot) *Server {
	svc := insight.NewService(insight.StaticSource(snap), insight.NewEngine(nil, false), insight.DefaultOptions()).
		WithClock(func() time.Time { return testNow })
	return NewServer(svc, chat.NewResponderWithPicker(func(int) int { return 0 }), analyzer.FilterWeek, "test")
}

// callTool invokes the named tool handler and returns the typed result.
func callTool(s *Server, name string, args json.RawMessage) (any, error) {
	for _, tool := range s.tools {
		if tool.Name == name {
			return tool.Handler(args)
		}
	}
	return nil, fmt.Errorf("tool not found: %s", name)
}

func TestGetInsights_DefaultFilter(t *testing.T) {
	s := newTestServer(testSnapshot())
	result, err := callTool(s, "get_insights", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := result.(InsightsResult)
	if !ok {
		t.Fatalf("expected InsightsResult, got %T", result)
	}
	if r.Filter != analyzer.FilterWeek {
		t.Errorf("Filter = %q, want week", r.Filter)
	}
	var sawNoodles bool
	for _, in := range r.Insights {
		if in.ID == "stock-noodles" {
			sawNoodles = true
			if in.Priority != insight.PriorityHigh {
				t.Errorf("stock-noodles priority = %s, want high", in.Priority)
			}
		}
	}
	if !sawNoodles {
		t.Errorf("expected stock-noodles insight, got %+v", r.Insights)
	}
}

func TestGetInsights_PriorityFilter(t *testing.T) {
	s := newTestServer(testSnapshot())
	result, err := callTool(s, "get_insights", json.RawMessage(`{"priority":"HIGH"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, in := range result.(InsightsResult).Insights {
		if in.Priority != insight.PriorityHigh {
			t.Errorf("%s has priority %s", in.ID, in.Priority)
		}
	}
}

func TestGetInsights_BadFilter(t *testing.T) {
	s := newTestServer(testSnapshot())
	_, err := callTool(s, "get_insights", json.RawMessage(`{"filter":"fortnight"}`))
	if err == nil || !strings.Contains(err.Error(), "unknown date filter") {
		t.Fatalf("expected unknown filter error, got %v", err)
	}
}

func TestGetInsights_InvalidArgs(t *testing.T) {
	s := newTestServer(testSnapshot())
	if _, err := callTool(s, "get_insights", json.RawMessage(`[1,2]`)); err == nil {
		t.Fatal("expected error for non-object arguments")
	}
}

func TestGetStats_EmptySnapshot(t *testing.T) {
	s := newTestServer(&pos.Snapshot{})
	result, err := callTool(s, "get_stats", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats, ok := result.(insight.AIStats)
	if !ok {
		t.Fatalf("expected AIStats, got %T", result)
	}
	if stats.TotalOrders != 0 || stats.TotalRevenue != 0 {
		t.Errorf("expected zero totals, got %+v", stats)
	}
	if stats.TopSellingItem != insight.NoData {
		t.Errorf("TopSellingItem = %q, want %q", stats.TopSellingItem, insight.NoData)
	}
	if stats.KitchenEfficiency != 80 {
		t.Errorf("KitchenEfficiency = %v, want 80", stats.KitchenEfficiency)
	}
}

func TestGetInventoryPredictions(t *testing.T) {
	s := newTestServer(testSnapshot())

	tests := []struct {
		name     string
		args     string
		wantLen  int
		wantTop  string
		critical int
	}{
		{"all", `{}`, 3, "Noodles", 2},
		{"limited", `{"limit":1}`, 1, "Noodles", 2},
		{"zero limit means all", `{"limit":0}`, 3, "Noodles", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := callTool(s, "get_inventory_predictions", json.RawMessage(tc.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			r := result.(PredictionsResult)
			if len(r.Predictions) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(r.Predictions), tc.wantLen)
			}
			if r.Predictions[0].Item != tc.wantTop {
				t.Errorf("first = %q, want %q", r.Predictions[0].Item, tc.wantTop)
			}
			if r.Critical != tc.critical {
				t.Errorf("Critical = %d, want %d", r.Critical, tc.critical)
			}
		})
	}
}

func TestGetMenuRecommendations(t *testing.T) {
	s := newTestServer(testSnapshot())
	result, err := callTool(s, "get_menu_recommendations", json.RawMessage(`{"filter":"month"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := result.(RecommendationsResult)
	if r.Filter != analyzer.FilterMonth {
		t.Errorf("Filter = %q, want month", r.Filter)
	}
	if len(r.Recommendations) == 0 {
		t.Fatal("expected at least one recommendation")
	}
	for i := 1; i < len(r.Recommendations); i++ {
		if r.Recommendations[i].Confidence > r.Recommendations[i-1].Confidence {
			t.Errorf("recommendations not sorted by confidence at %d", i)
		}
	}
}

func TestGetForecast(t *testing.T) {
	s := newTestServer(testSnapshot())
	result, err := callTool(s, "get_forecast", json.RawMessage(`{"filter":"week"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fc := result.(insight.Forecast)
	if len(fc.Sales.Days) != 7 {
		t.Errorf("expected 7 forecast days, got %d", len(fc.Sales.Days))
	}
	if fc.Sentiment.Samples != 4 {
		t.Errorf("Samples = %d, want 4", fc.Sentiment.Samples)
	}
}

func TestAsk(t *testing.T) {
	s := newTestServer(testSnapshot())

	result, err := callTool(s, "ask", json.RawMessage(`{"question":"Which inventory should I reorder?"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply := result.(chat.Reply); reply.Topic != "inventory" {
		t.Errorf("Topic = %q, want inventory", reply.Topic)
	}

	if _, err := callTool(s, "ask", json.RawMessage(`{"question":"   "}`)); err == nil {
		t.Error("expected error for blank question")
	}
}

func TestTools_SnapshotErrorSurfaces(t *testing.T) {
	svc := insight.NewService(func() (*pos.Snapshot, error) {
		return nil, &pos.MalformedInputError{File: pos.MenuFile}
	}, nil, insight.DefaultOptions())
	s := NewServer(svc, nil, "", "test")

	for _, name := range []string{"get_insights", "get_stats", "get_inventory_predictions", "get_menu_recommendations", "get_forecast"} {
		_, err := callTool(s, name, json.RawMessage(`{}`))
		if err == nil || !strings.Contains(err.Error(), "malformed menu.json") {
			t.Errorf("%s: expected malformed error, got %v", name, err)
		}
	}
}
