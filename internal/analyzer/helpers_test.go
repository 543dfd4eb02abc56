package analyzer

import (
	"time"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

var testNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

// mkOrder builds an order at the given time with the given lines.
func mkOrder(id string, at time.Time, items ...pos.OrderItem) pos.Order {
	o := pos.Order{
		ID:    id,
		Items: items,
		Date:  at.Format(pos.DateLayout),
		Time:  at,
	}
	for _, it := range items {
		o.TotalAmount += it.Revenue()
	}
	return o
}

func line(name string, price float64, qty int) pos.OrderItem {
	return pos.OrderItem{Name: name, Price: price, Quantity: qty}
}

func daysAgo(n int, hour int) time.Time {
	d := testNow.AddDate(0, 0, -n)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}
