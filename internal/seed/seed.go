// Package seed generates a realistic demo data directory for trying the
// engine without a live POS export.
package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// Options control the size and shape of the generated history.
type Options struct {
	Days         int       // days of order history ending at Now
	OrdersPerDay int       // average orders per full day
	Tables       int       // floor tables
	Customers    int       // known guests
	Seed         int64     // faker seed; 0 picks one from the clock
	Now          time.Time // end of history; zero means time.Now()
}

// DefaultOptions returns a month of history for a mid-sized restaurant.
func DefaultOptions() Options {
	return Options{
		Days:         30,
		OrdersPerDay: 40,
		Tables:       16,
		Customers:    60,
	}
}

type dish struct {
	name     string
	category string
	price    float64
	cook     int
}

var dishes = []dish{
	{"Margherita Pizza", "Mains", 12.5, 14},
	{"Cheeseburger", "Mains", 11, 12},
	{"Grilled Salmon", "Mains", 18, 18},
	{"Chicken Curry", "Mains", 14, 16},
	{"Caesar Salad", "Starters", 8.5, 6},
	{"Tomato Soup", "Starters", 6, 5},
	{"Garlic Bread", "Starters", 4.5, 5},
	{"French Fries", "Sides", 3.5, 6},
	{"Onion Rings", "Sides", 4, 7},
	{"Chocolate Cake", "Desserts", 6.5, 3},
	{"Ice Cream", "Desserts", 4, 2},
	{"Espresso", "Drinks", 2.5, 2},
	{"Iced Tea", "Drinks", 3, 1},
	{"Lemonade", "Drinks", 3.5, 1},
}

type ingredient struct {
	name     string
	category string
	unit     string
	cost     float64
	maxStock float64
	monthly  float64 // typical monthly usage
}

var ingredients = []ingredient{
	{"Flour", "Dry goods", "kg", 1.2, 80, 120},
	{"Mozzarella", "Dairy", "kg", 8, 30, 45},
	{"Beef Patties", "Meat", "pcs", 1.5, 200, 300},
	{"Salmon Fillet", "Seafood", "kg", 22, 15, 25},
	{"Chicken Breast", "Meat", "kg", 9, 30, 50},
	{"Romaine Lettuce", "Produce", "kg", 3, 20, 35},
	{"Tomatoes", "Produce", "kg", 2.5, 40, 60},
	{"Potatoes", "Produce", "kg", 0.9, 100, 150},
	{"Onions", "Produce", "kg", 1, 40, 30},
	{"Cocoa", "Dry goods", "kg", 12, 10, 4},
	{"Coffee Beans", "Drinks", "kg", 18, 15, 12},
	{"Lemons", "Produce", "pcs", 0.3, 200, 250},
	{"Cooking Oil", "Dry goods", "l", 2.2, 60, 40},
	{"Napkins", "Supplies", "pcs", 0.01, 5000, 0},
}

var roles = []string{"manager", "chef", "line cook", "server", "server", "server", "host", "bartender", "dishwasher"}

// Generator builds snapshots from a seeded faker source.
type Generator struct {
	opts Options
	fake faker.Faker
	rng  *rand.Rand
}

// New creates a Generator. Zero-valued options fall back to defaults.
func New(opts Options) *Generator {
	def := DefaultOptions()
	if opts.Days <= 0 {
		opts.Days = def.Days
	}
	if opts.OrdersPerDay <= 0 {
		opts.OrdersPerDay = def.OrdersPerDay
	}
	if opts.Tables <= 0 {
		opts.Tables = def.Tables
	}
	if opts.Customers < 0 {
		opts.Customers = 0
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Seed == 0 {
		opts.Seed = opts.Now.UnixNano()
	}
	seed := uint64(opts.Seed)
	return &Generator{
		opts: opts,
		fake: faker.NewWithSeed(fakerSource{rand.New(rand.NewPCG(seed, 1))}),
		rng:  rand.New(rand.NewPCG(seed, 2)),
	}
}

// fakerSource feeds a PCG stream to faker, which still takes a math/rand
// Source. Reseeding is ignored; the stream is fixed at construction.
type fakerSource struct{ r *rand.Rand }

func (s fakerSource) Int63() int64 { return s.r.Int64() }

func (s fakerSource) Seed(int64) {}

// Snapshot generates every collection. Orders never fall after Now.
func (g *Generator) Snapshot() *pos.Snapshot {
	snap := &pos.Snapshot{
		Menu:      g.menu(),
		Inventory: g.inventory(),
		Staff:     g.staff(),
		Tables:    g.tables(),
		Customers: g.customers(),
	}
	snap.Orders = g.orders(snap.Customers)

	byID := make(map[string]int, len(snap.Customers))
	for i, c := range snap.Customers {
		byID[c.ID] = i
	}
	for _, o := range snap.Orders {
		if i, ok := byID[o.CustomerID]; ok {
			snap.Customers[i].TotalSpent += o.TotalAmount
			snap.Customers[i].Visits++
		}
	}
	for i := range snap.Customers {
		snap.Customers[i].TotalSpent = round2(snap.Customers[i].TotalSpent)
	}
	return snap
}

// Write generates a snapshot and writes it to dir.
func Write(dir string, opts Options) (*pos.Snapshot, error) {
	snap := New(opts).Snapshot()
	if err := pos.WriteSnapshot(dir, snap); err != nil {
		return nil, fmt.Errorf("writing demo data: %w", err)
	}
	return snap, nil
}

func (g *Generator) menu() []pos.MenuItem {
	items := make([]pos.MenuItem, 0, len(dishes))
	for _, d := range dishes {
		items = append(items, pos.MenuItem{
			ID:          cuid.New(),
			Name:        d.name,
			Category:    d.category,
			CookMinutes: d.cook,
			Price:       d.price,
		})
	}
	return items
}

func (g *Generator) inventory() []pos.InventoryItem {
	items := make([]pos.InventoryItem, 0, len(ingredients))
	for _, in := range ingredients {
		// Stock anywhere from nearly out to full, so some items run low.
		stock := in.maxStock * float64(g.fake.IntBetween(2, 100)) / 100
		used := in.monthly * float64(g.fake.IntBetween(70, 130)) / 100
		items = append(items, pos.InventoryItem{
			ID:            cuid.New(),
			Name:          in.name,
			Category:      in.category,
			Unit:          in.unit,
			CurrentStock:  round2(stock),
			MinStock:      round2(in.maxStock * 0.2),
			MaxStock:      in.maxStock,
			CostPerUnit:   in.cost,
			UsedThisMonth: round2(used),
		})
	}
	return items
}

func (g *Generator) staff() []pos.Staff {
	staff := make([]pos.Staff, 0, len(roles))
	for _, role := range roles {
		staff = append(staff, pos.Staff{ID: cuid.New(), Name: g.fake.Person().Name(), Role: role})
	}
	return staff
}

func (g *Generator) tables() []pos.Table {
	statuses := []string{string(pos.TableOccupied), string(pos.TableOccupied), string(pos.TableFree), string(pos.TableReserved)}
	tables := make([]pos.Table, 0, g.opts.Tables)
	for i := 0; i < g.opts.Tables; i++ {
		tables = append(tables, pos.Table{
			ID:       cuid.New(),
			Number:   i + 1,
			Capacity: 2 * g.fake.IntBetween(1, 4),
			Status:   pos.TableStatus(g.fake.RandomStringElement(statuses)),
		})
	}
	return tables
}

func (g *Generator) customers() []pos.Customer {
	customers := make([]pos.Customer, 0, g.opts.Customers)
	for i := 0; i < g.opts.Customers; i++ {
		customers = append(customers, pos.Customer{
			ID:    cuid.New(),
			Name:  g.fake.Person().Name(),
			Phone: g.fake.Phone().Number(),
		})
	}
	return customers
}

// serviceHours weights order times toward lunch and dinner.
var serviceHours = []int{8, 9, 11, 12, 12, 12, 13, 13, 14, 17, 18, 18, 19, 19, 19, 20, 20, 21}

func (g *Generator) orders(customers []pos.Customer) []pos.Order {
	now := g.opts.Now
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var orders []pos.Order
	for back := g.opts.Days - 1; back >= 0; back-- {
		day := today.AddDate(0, 0, -back)
		// Weekends run busier.
		target := g.opts.OrdersPerDay
		if wd := day.Weekday(); wd == time.Friday || wd == time.Saturday {
			target = target * 13 / 10
		}
		n := g.fake.IntBetween(target*8/10, target*12/10)
		for i := 0; i < n; i++ {
			at := day.Add(time.Duration(serviceHours[g.rng.IntN(len(serviceHours))])*time.Hour +
				time.Duration(g.rng.IntN(60))*time.Minute)
			if at.After(now) {
				continue
			}
			orders = append(orders, g.order(at, customers))
		}
	}
	return orders
}

func (g *Generator) order(at time.Time, customers []pos.Customer) pos.Order {
	o := pos.Order{
		ID:     cuid.New(),
		Date:   at.Format(pos.DateLayout),
		Time:   at,
		Status: "completed",
	}

	lines := g.fake.IntBetween(1, 4)
	seen := make(map[int]bool, lines)
	var cook int
	for j := 0; j < lines; j++ {
		k := g.rng.IntN(len(dishes))
		if seen[k] {
			continue
		}
		seen[k] = true
		d := dishes[k]
		qty := g.fake.IntBetween(1, 3)
		o.Items = append(o.Items, pos.OrderItem{Name: d.name, Price: d.price, Quantity: qty})
		o.TotalAmount += d.price * float64(qty)
		cook = max(cook, d.cook)
	}
	o.TotalAmount = round2(o.TotalAmount)

	if len(customers) > 0 && g.rng.IntN(10) < 4 {
		o.CustomerID = customers[g.rng.IntN(len(customers))].ID
	}
	if g.rng.IntN(10) < 6 {
		// Mostly happy guests with a tail of bad nights.
		o.Rating = []int{5, 5, 5, 4, 4, 4, 3, 2, 1}[g.rng.IntN(9)]
	}
	if g.rng.IntN(10) < 7 {
		o.EstimatedCookMinutes = cook
		o.ActualCookMinutes = max(1, cook+g.rng.IntN(11)-2)
	}
	return o
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
