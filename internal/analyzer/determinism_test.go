package analyzer

import (
	"reflect"
	"testing"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// tiedBaskets prices every line the same so combos, demand lifts, category
// growth and customer spend all tie and only the tiebreakers decide order.
func tiedBaskets() (current, previous []pos.Order, customers []pos.Customer) {
	withCustomer := func(o pos.Order, id string) pos.Order {
		o.CustomerID = id
		return o
	}
	current = []pos.Order{
		withCustomer(mkOrder("1", daysAgo(0, 9), line("Pancakes", 5, 1), line("Coffee", 5, 1)), "c1"),
		withCustomer(mkOrder("2", daysAgo(0, 9), line("Pancakes", 5, 1), line("Coffee", 5, 1)), "c2"),
		withCustomer(mkOrder("3", daysAgo(0, 12), line("Burger", 5, 1), line("Fries", 5, 1)), "c3"),
		withCustomer(mkOrder("4", daysAgo(0, 12), line("Burger", 5, 1), line("Fries", 5, 1)), "c4"),
		withCustomer(mkOrder("5", daysAgo(0, 19), line("Burger", 5, 1), line("Cola", 5, 1)), "c1"),
		withCustomer(mkOrder("6", daysAgo(0, 19), line("Burger", 5, 1), line("Cola", 5, 1)), "c2"),
	}
	previous = []pos.Order{
		mkOrder("p1", daysAgo(8, 9), line("Pancakes", 5, 1), line("Coffee", 5, 1)),
		mkOrder("p2", daysAgo(8, 12), line("Burger", 5, 1), line("Fries", 5, 1)),
		mkOrder("p3", daysAgo(8, 19), line("Burger", 5, 1), line("Cola", 5, 1)),
	}
	for _, id := range []string{"c4", "c3", "c2", "c1"} {
		customers = append(customers, pos.Customer{ID: id})
	}
	return current, previous, customers
}

func TestBasketAnalyzers_Deterministic(t *testing.T) {
	current, previous, customers := tiedBaskets()

	tests := []struct {
		name string
		run  func() any
	}{
		{"combos", func() any { return AnalyzeCombos(current, 0.1) }},
		{"time demand", func() any { return AnalyzeTimeDemand(current, testMenu) }},
		{"category trends", func() any { return AnalyzeCategoryTrends(current, previous, testMenu) }},
		{"customer segments", func() any { return AnalyzeCustomerSegments(customers, current, testMenu) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tt.run()
			if reflect.ValueOf(first).IsZero() {
				t.Fatalf("expected a non-empty result to compare, got %+v", first)
			}
			for i := 0; i < 50; i++ {
				if got := tt.run(); !reflect.DeepEqual(first, got) {
					t.Fatalf("call %d differs:\n first: %+v\n   got: %+v", i+2, first, got)
				}
			}
		})
	}
}

func TestBasketAnalyzers_TieBreakers(t *testing.T) {
	current, previous, customers := tiedBaskets()

	combos := AnalyzeCombos(current, 0.1)
	var pairs [][2]string
	for _, c := range combos {
		pairs = append(pairs, c.Items)
	}
	want := [][2]string{{"Burger", "Cola"}, {"Burger", "Fries"}, {"Coffee", "Pancakes"}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("combo order = %v, want %v", pairs, want)
	}

	demand := AnalyzeTimeDemand(current, testMenu)
	if len(demand) < 2 || demand[0].Bucket != BucketBreakfast || demand[0].Category != "Breakfast" ||
		demand[1].Bucket != BucketLunch || demand[1].Category != "Sides" {
		t.Errorf("equal lifts should order by bucket then category, got %+v", demand)
	}

	trends := AnalyzeCategoryTrends(current, previous, testMenu)
	var cats []string
	for _, tr := range trends {
		cats = append(cats, tr.Category)
	}
	if want := []string{"Drinks", "Mains", "Breakfast", "Sides"}; !reflect.DeepEqual(cats, want) {
		t.Errorf("category order = %v, want %v", cats, want)
	}

	seg := AnalyzeCustomerSegments(customers, current, testMenu)
	if seg.TopCategory != "Drinks" {
		t.Errorf("TopCategory = %q, want Drinks", seg.TopCategory)
	}
}
