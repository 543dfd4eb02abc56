package analyzer

import (
	"reflect"
	"testing"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

func TestAnalyzePopularity_RanksByQuantity(t *testing.T) {
	current := []pos.Order{
		mkOrder("1", daysAgo(0, 12), line("Burger", 10, 2), line("Fries", 3, 1)),
		mkOrder("2", daysAgo(0, 13), line("Fries", 3, 4), line("Cola", 2, 1)),
		mkOrder("3", daysAgo(1, 19), line("Burger", 10, 1)),
	}
	items := AnalyzePopularity(current, nil)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Name != "Fries" || items[0].Quantity != 5 {
		t.Errorf("top item = %+v, want Fries x5", items[0])
	}
	if items[1].Name != "Burger" || items[1].Revenue != 30 {
		t.Errorf("second item = %+v, want Burger with revenue 30", items[1])
	}
	if items[0].GrowthPercent != 100 {
		t.Errorf("new item growth = %.0f, want 100", items[0].GrowthPercent)
	}
}

func TestAnalyzePopularity_TopFiveAndStableTies(t *testing.T) {
	var lines []pos.OrderItem
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		lines = append(lines, line(n, 1, 1))
	}
	items := AnalyzePopularity([]pos.Order{mkOrder("1", daysAgo(0, 10), lines...)}, nil)
	if len(items) != TopItemsLimit {
		t.Fatalf("expected %d items, got %d", TopItemsLimit, len(items))
	}
	for i, want := range []string{"A", "B", "C", "D", "E"} {
		if items[i].Name != want {
			t.Errorf("items[%d] = %s, want %s", i, items[i].Name, want)
		}
	}
}

func TestAnalyzePopularity_GrowthAgainstPreviousWindow(t *testing.T) {
	current := []pos.Order{mkOrder("1", daysAgo(0, 12), line("Pho", 12, 6))}
	previous := []pos.Order{mkOrder("0", daysAgo(8, 12), line("Pho", 12, 4))}
	items := AnalyzePopularity(current, previous)
	if items[0].PreviousQuantity != 4 {
		t.Errorf("PreviousQuantity = %d, want 4", items[0].PreviousQuantity)
	}
	if items[0].GrowthPercent != 50 {
		t.Errorf("GrowthPercent = %.1f, want 50", items[0].GrowthPercent)
	}
}

func TestRankPopularity_NoComparison(t *testing.T) {
	orders := []pos.Order{mkOrder("1", daysAgo(0, 12), line("Pho", 12, 6), line("Tea", 2, 1))}
	items := RankPopularity(orders)
	if len(items) != 2 || items[0].Name != "Pho" {
		t.Fatalf("unexpected ranking %+v", items)
	}
	for _, it := range items {
		if it.GrowthPercent != 0 || it.PreviousQuantity != 0 {
			t.Errorf("%s: growth %.0f prev %d, want zero", it.Name, it.GrowthPercent, it.PreviousQuantity)
		}
	}
}

func TestAnalyzePopularity_Deterministic(t *testing.T) {
	orders := []pos.Order{
		mkOrder("1", daysAgo(0, 12), line("X", 1, 1), line("Y", 1, 1)),
		mkOrder("2", daysAgo(0, 12), line("Z", 1, 1)),
	}
	a := AnalyzePopularity(orders, orders)
	b := AnalyzePopularity(orders, orders)
	if !reflect.DeepEqual(a, b) {
		t.Error("two calls with identical input differ")
	}
}

func TestGrowthPercent_Clamped(t *testing.T) {
	if g := GrowthPercent(1000, 1); g != MaxGrowthPercent {
		t.Errorf("GrowthPercent(1000, 1) = %.0f, want %.0f", g, MaxGrowthPercent)
	}
	if g := GrowthPercent(0, 10); g != -100 {
		t.Errorf("GrowthPercent(0, 10) = %.0f, want -100", g)
	}
	if g := GrowthPercent(0, 0); g != 0 {
		t.Errorf("GrowthPercent(0, 0) = %.0f, want 0", g)
	}
}
