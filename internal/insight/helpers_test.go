package insight

import (
	"testing"
	"time"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

var testNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

func at(daysAgo, hour int) time.Time {
	d := testNow.AddDate(0, 0, -daysAgo)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func order(id string, when time.Time, rating int, items ...pos.OrderItem) pos.Order {
	o := pos.Order{ID: id, Items: items, Date: when.Format(pos.DateLayout), Time: when, Rating: rating}
	for _, it := range items {
		o.TotalAmount += it.Revenue()
	}
	return o
}

func item(name string, price float64, qty int) pos.OrderItem {
	return pos.OrderItem{Name: name, Price: price, Quantity: qty}
}

func tables(occupied, total int) []pos.Table {
	ts := make([]pos.Table, 0, total)
	for i := 0; i < total; i++ {
		status := pos.TableFree
		if i < occupied {
			status = pos.TableOccupied
		}
		ts = append(ts, pos.Table{ID: string(rune('a' + i)), Number: i + 1, Capacity: 4, Status: status})
	}
	return ts
}

func mustContext(t *testing.T, snap *pos.Snapshot, f analyzer.Filter) *AnalysisContext {
	t.Helper()
	ctx, err := NewContext(snap, f, testNow, DefaultOptions())
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx
}
