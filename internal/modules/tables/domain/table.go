package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Area tags the dining zone a table belongs to.
type Area string

const (
	AreaIndoor Area = "interna"
)

var areaNames = map[Area]string{
	AreaIndoor: "Área Interna",
}

// NormalizeArea lowercases and trims the tag. Unknown areas are passed through so
// inventories can introduce zones without a code change.
func NormalizeArea(raw string) Area {
	return Area(strings.ToLower(strings.TrimSpace(raw)))
}

// DisplayName returns the guest-facing label of the area.
func (a Area) DisplayName() string {
	if name, ok := areaNames[a]; ok {
		return name
	}
	return string(a)
}

// Table is a seating resource of the restaurant.
type Table struct {
	Number      int    `json:"number"`
	Capacity    int    `json:"capacity"`
	Area        Area   `json:"area"`
	Description string `json:"description,omitempty"`
}

var (
	ErrTableNotFound      = errors.New("table not found")
	ErrDuplicateTable     = errors.New("duplicate table number")
	ErrInvalidTable       = errors.New("invalid table definition")
	ErrEmptyInventory     = errors.New("inventory has no tables")
	ErrInvalidDefaultSize = errors.New("default capacity must be positive")
)

func (t Table) validate() error {
	if t.Number <= 0 {
		return fmt.Errorf("%w: number %d must be positive", ErrInvalidTable, t.Number)
	}
	if t.Capacity <= 0 {
		return fmt.Errorf("%w: table %d capacity %d must be positive", ErrInvalidTable, t.Number, t.Capacity)
	}
	if strings.TrimSpace(string(t.Area)) == "" {
		return fmt.Errorf("%w: table %d has no area", ErrInvalidTable, t.Number)
	}
	return nil
}

// UniformTables builds count tables numbered from 1 with identical capacity and area.
func UniformTables(count, capacity int, area Area) []Table {
	if count <= 0 {
		return nil
	}
	tables := make([]Table, count)
	for i := range tables {
		tables[i] = Table{Number: i + 1, Capacity: capacity, Area: area}
	}
	return tables
}
