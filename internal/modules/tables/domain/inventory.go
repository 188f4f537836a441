package domain

import (
	"fmt"
	"log/slog"
	"sort"
)

const (
	DefaultTableCount    = 15
	DefaultTableCapacity = 4
)

// Inventory is the immutable set of tables configured at startup.
type Inventory struct {
	tables          []Table
	byNumber        map[int]int
	defaultCapacity int
	totalCapacity   int
}

// NewInventory validates the table list and freezes it. defaultCapacity is used by
// TablesNeeded and by CapacityOf for unknown table numbers.
func NewInventory(tables []Table, defaultCapacity int) (*Inventory, error) {
	if len(tables) == 0 {
		return nil, ErrEmptyInventory
	}
	if defaultCapacity <= 0 {
		return nil, ErrInvalidDefaultSize
	}

	sorted := make([]Table, len(tables))
	copy(sorted, tables)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	inv := &Inventory{
		tables:          sorted,
		byNumber:        make(map[int]int, len(sorted)),
		defaultCapacity: defaultCapacity,
	}
	for idx, table := range sorted {
		if err := table.validate(); err != nil {
			return nil, err
		}
		if _, exists := inv.byNumber[table.Number]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTable, table.Number)
		}
		inv.byNumber[table.Number] = idx
		inv.totalCapacity += table.Capacity
	}
	return inv, nil
}

// DefaultInventory is the dining room layout: 15 indoor tables of 4 seats.
func DefaultInventory() *Inventory {
	inv, err := NewInventory(UniformTables(DefaultTableCount, DefaultTableCapacity, AreaIndoor), DefaultTableCapacity)
	if err != nil {
		panic(err)
	}
	return inv
}

// Tables returns a copy of every table ordered by number.
func (i *Inventory) Tables() []Table {
	out := make([]Table, len(i.tables))
	copy(out, i.tables)
	return out
}

func (i *Inventory) TotalTables() int {
	return len(i.tables)
}

func (i *Inventory) TotalCapacity() int {
	return i.totalCapacity
}

func (i *Inventory) DefaultCapacity() int {
	return i.defaultCapacity
}

// Areas lists the distinct areas in table order.
func (i *Inventory) Areas() []Area {
	seen := make(map[Area]struct{})
	areas := make([]Area, 0, 1)
	for _, table := range i.tables {
		if _, ok := seen[table.Area]; ok {
			continue
		}
		seen[table.Area] = struct{}{}
		areas = append(areas, table.Area)
	}
	return areas
}

// ByArea returns the tables located in area.
func (i *Inventory) ByArea(area Area) []Table {
	out := make([]Table, 0, len(i.tables))
	for _, table := range i.tables {
		if table.Area == area {
			out = append(out, table)
		}
	}
	return out
}

// ByNumber looks up a table by its number.
func (i *Inventory) ByNumber(number int) (Table, bool) {
	idx, ok := i.byNumber[number]
	if !ok {
		return Table{}, false
	}
	return i.tables[idx], true
}

// LookupCapacity is the strict lookup: unknown numbers yield ErrTableNotFound.
func (i *Inventory) LookupCapacity(number int) (int, error) {
	table, ok := i.ByNumber(number)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrTableNotFound, number)
	}
	return table.Capacity, nil
}

// CapacityOf never fails: unknown numbers fall back to the default capacity so a
// reservation is not blocked by inventory gaps. The fallback is logged because it
// usually means the configured inventory is out of date.
func (i *Inventory) CapacityOf(number int) int {
	capacity, err := i.LookupCapacity(number)
	if err != nil {
		slog.Warn("table capacity fallback", slog.Int("table", number), slog.Int("defaultCapacity", i.defaultCapacity))
		return i.defaultCapacity
	}
	return capacity
}

// TablesNeeded is TablesNeeded(people, DefaultCapacity()).
func (i *Inventory) TablesNeeded(people int) int {
	return TablesNeeded(people, i.defaultCapacity)
}

// Fits reports whether the party can be seated with the tables still free.
func (i *Inventory) Fits(people, tablesTaken int) bool {
	needed := i.TablesNeeded(people)
	return needed > 0 && tablesTaken >= 0 && needed+tablesTaken <= len(i.tables)
}
