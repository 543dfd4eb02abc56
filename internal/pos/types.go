// Package pos holds the point-of-sale records the analytics engine reads and
// loads them from a data directory of JSON files.
package pos

import "time"

// DateLayout is the calendar-date format used for Order.Date and day keys.
const DateLayout = "2006-01-02"

// TableStatus is the seating state of a table.
type TableStatus string

const (
	TableFree     TableStatus = "free"
	TableOccupied TableStatus = "occupied"
	TableReserved TableStatus = "reserved"
)

// OrderItem is a single line on an order.
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Revenue returns price × quantity for the line.
func (i OrderItem) Revenue() float64 {
	return i.Price * float64(i.Quantity)
}

// Order is an immutable snapshot of a placed order.
type Order struct {
	ID                   string      `json:"id"`
	CustomerID           string      `json:"customer_id,omitempty"`
	Items                []OrderItem `json:"items"`
	TotalAmount          float64     `json:"total_amount"`
	Date                 string      `json:"order_date"`
	Time                 time.Time   `json:"order_time"`
	Rating               int         `json:"rating,omitempty"`                 // 1-5, 0 = unrated
	EstimatedCookMinutes int         `json:"estimated_cook_minutes,omitempty"` // 0 = unknown
	ActualCookMinutes    int         `json:"actual_cook_minutes,omitempty"`    // 0 = unknown
	Status               string      `json:"status,omitempty"`
}

// At returns the instant the order was placed. When no order time was
// recorded it falls back to local midnight of the order date.
func (o Order) At() time.Time {
	if !o.Time.IsZero() {
		return o.Time
	}
	t, err := time.ParseInLocation(DateLayout, o.Date, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Day returns the calendar date key of the order.
func (o Order) Day() string {
	if o.Date != "" {
		return o.Date
	}
	if o.Time.IsZero() {
		return ""
	}
	return o.Time.Format(DateLayout)
}

// InventoryItem is a stocked ingredient or supply.
type InventoryItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	CurrentStock  float64 `json:"current_stock"`
	MinStock      float64 `json:"min_stock"`
	MaxStock      float64 `json:"max_stock"`
	CostPerUnit   float64 `json:"cost_per_unit"`
	UsedThisMonth float64 `json:"used_this_month"`
}

// MenuItem is a dish on the menu.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	CookMinutes int     `json:"cooking_time"`
	Price       float64 `json:"price"`
}

// Customer is a known guest.
type Customer struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone,omitempty"`
	TotalSpent float64 `json:"total_spent"`
	Visits     int     `json:"visits"`
}

// Staff is a team member.
type Staff struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Table is a seating position on the floor.
type Table struct {
	ID       string      `json:"id"`
	Number   int         `json:"number"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
}

// Snapshot bundles every collection the engine consumes. It is owned by the
// caller and never mutated by the engine.
type Snapshot struct {
	Orders    []Order         `json:"orders"`
	Inventory []InventoryItem `json:"inventory"`
	Menu      []MenuItem      `json:"menu"`
	Customers []Customer      `json:"customers"`
	Staff     []Staff         `json:"staff"`
	Tables    []Table         `json:"tables"`
}

// MenuIndex maps menu item name to its record.
func (s *Snapshot) MenuIndex() map[string]MenuItem {
	idx := make(map[string]MenuItem, len(s.Menu))
	for _, m := range s.Menu {
		idx[m.Name] = m
	}
	return idx
}
