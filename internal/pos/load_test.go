package pos

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadSnapshot_ValidFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, OrdersFile, `[
		{
			"id": "o1",
			"customer_id": "c1",
			"items": [{"name": "Burger", "price": 9.5, "quantity": 2}],
			"total_amount": 19,
			"order_date": "2026-10-18",
			"order_time": "2026-10-18T12:30:00Z",
			"rating": 5,
			"estimated_cook_minutes": 12,
			"actual_cook_minutes": 15
		}
	]`)
	writeFile(t, dir, InventoryFile, `[{"id":"i1","name":"Beef","current_stock":10,"used_this_month":90,"max_stock":50}]`)
	writeFile(t, dir, TablesFile, `[{"id":"t1","number":1,"capacity":4,"status":"occupied"}]`)

	snap, err := LoadSnapshot(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(snap.Orders))
	}
	o := snap.Orders[0]
	if o.Items[0].Revenue() != 19 {
		t.Errorf("line revenue = %.2f, want 19", o.Items[0].Revenue())
	}
	if o.At().Hour() != 12 {
		t.Errorf("order hour = %d, want 12", o.At().Hour())
	}
	if o.Rating != 5 || o.ActualCookMinutes != 15 {
		t.Errorf("unexpected optional fields: %+v", o)
	}
	if len(snap.Inventory) != 1 || snap.Inventory[0].UsedThisMonth != 90 {
		t.Errorf("inventory not loaded: %+v", snap.Inventory)
	}
	if snap.Tables[0].Status != TableOccupied {
		t.Errorf("table status = %q, want occupied", snap.Tables[0].Status)
	}
	if snap.Menu != nil || snap.Staff != nil {
		t.Error("missing files should load as empty collections")
	}
}

func TestLoadSnapshot_MissingDir(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestLoadSnapshot_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, OrdersFile, `[{"id": "o1", "items": [{"name": "Soup", "price": -1, "quantity": 1}], "order_date": "yesterday"}]`)

	_, err := LoadSnapshot(dir)
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *MalformedInputError, got %v", err)
	}
	if malformed.File != OrdersFile {
		t.Errorf("File = %q, want %q", malformed.File, OrdersFile)
	}
	if len(malformed.Problems) < 2 {
		t.Errorf("expected both violations reported, got %v", malformed.Problems)
	}
}

func TestLoadSnapshot_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TablesFile, `{not json`)

	_, err := LoadSnapshot(dir)
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *MalformedInputError, got %v", err)
	}
}

func TestLoadSnapshot_BadTableStatus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TablesFile, `[{"id":"t1","status":"dirty"}]`)

	_, err := LoadSnapshot(dir)
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *MalformedInputError, got %v", err)
	}
}

func TestWriteSnapshot_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	snap := &Snapshot{
		Orders: []Order{{
			ID:    "o1",
			Items: []OrderItem{{Name: "Tea", Price: 2, Quantity: 1}},
			Date:  "2026-10-01",
			Time:  time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		}},
		Menu:   []MenuItem{{ID: "m1", Name: "Tea", Category: "Drinks", Price: 2}},
		Tables: []Table{{ID: "t1", Number: 1, Status: TableFree}},
	}
	if err := WriteSnapshot(dir, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadSnapshot(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Orders) != 1 || got.Orders[0].Day() != "2026-10-01" {
		t.Errorf("orders not preserved: %+v", got.Orders)
	}
	if got.MenuIndex()["Tea"].Category != "Drinks" {
		t.Error("menu index lookup failed")
	}
}

func TestOrderAt_FallsBackToDate(t *testing.T) {
	o := Order{Date: "2026-03-04"}
	at := o.At()
	if at.IsZero() || at.Day() != 4 || at.Hour() != 0 {
		t.Errorf("At() = %v, want local midnight of 2026-03-04", at)
	}
	if (Order{}).Day() != "" {
		t.Error("empty order should have empty day key")
	}
}
