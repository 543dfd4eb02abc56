package pos

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

// Data file names inside a snapshot directory.
const (
	OrdersFile    = "orders.json"
	InventoryFile = "inventory.json"
	MenuFile      = "menu.json"
	CustomersFile = "customers.json"
	StaffFile     = "staff.json"
	TablesFile    = "tables.json"
)

// LoadSnapshot reads every data file from dir. Missing files are treated as
// empty collections. A file that fails to parse or violates its schema
// returns a *MalformedInputError and no snapshot.
func LoadSnapshot(dir string) (*Snapshot, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data dir %s is not a directory", dir)
	}

	var snap Snapshot
	if err := loadFile(dir, OrdersFile, ordersSchema, &snap.Orders); err != nil {
		return nil, err
	}
	if err := loadFile(dir, InventoryFile, inventorySchema, &snap.Inventory); err != nil {
		return nil, err
	}
	if err := loadFile(dir, MenuFile, menuSchema, &snap.Menu); err != nil {
		return nil, err
	}
	if err := loadFile(dir, CustomersFile, customersSchema, &snap.Customers); err != nil {
		return nil, err
	}
	if err := loadFile(dir, StaffFile, staffSchema, &snap.Staff); err != nil {
		return nil, err
	}
	if err := loadFile(dir, TablesFile, tablesSchema, &snap.Tables); err != nil {
		return nil, err
	}
	return &snap, nil
}

// loadFile validates name against schema and unmarshals it into out.
func loadFile[T any](dir, name, schema string, out *[]T) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}

	if err := Validate(name, schema, data); err != nil {
		return err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return &MalformedInputError{File: name, Problems: []string{err.Error()}}
	}
	*out = items
	return nil
}

// Validate checks data against a JSON schema and returns a
// *MalformedInputError listing every violation.
func Validate(name, schema string, data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return &MalformedInputError{File: name, Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, re.String())
	}
	return &MalformedInputError{File: name, Problems: problems}
}

// WriteSnapshot writes each collection of snap to its data file in dir,
// creating the directory if needed.
func WriteSnapshot(dir string, snap *Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := []struct {
		name string
		v    any
	}{
		{OrdersFile, snap.Orders},
		{InventoryFile, snap.Inventory},
		{MenuFile, snap.Menu},
		{CustomersFile, snap.Customers},
		{StaffFile, snap.Staff},
		{TablesFile, snap.Tables},
	}
	for _, f := range files {
		data, err := json.MarshalIndent(f.v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", f.name, err)
		}
		if string(data) == "null" {
			data = []byte("[]")
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}
	return nil
}
