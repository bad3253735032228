package ledger

import (
	"sort"
	"strconv"
)

// Fixed columns every ledger carries, in this order. Date columns follow in
// order of first appearance and are never removed.
const (
	ColumnRoll = "Roll Number"
	ColumnName = "Name"
)

// Table is the in-memory form of a classroom ledger: an ordered header plus
// one row per student. Cell values are strings; "P" marks presence and ""
// marks no record.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// NewTable returns an empty ledger with the two fixed columns.
func NewTable() *Table {
	return &Table{Columns: []string{ColumnRoll, ColumnName}}
}

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// EnsureColumn appends a date column when absent, backfilling every existing
// row with an empty cell so no row is ever sparse.
func (t *Table) EnsureColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append(t.Columns, name)
	for _, row := range t.Rows {
		if _, ok := row[name]; !ok {
			row[name] = ""
		}
	}
}

// FindRow returns the index of the row with the given roll number, or -1.
// Roll numbers are compared as strings.
func (t *Table) FindRow(roll string) int {
	for i, row := range t.Rows {
		if row[ColumnRoll] == roll {
			return i
		}
	}
	return -1
}

// AppendRow adds a new student row, backfilling an empty cell for every
// pre-existing date column.
func (t *Table) AppendRow(roll, name string) map[string]string {
	row := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		row[col] = ""
	}
	row[ColumnRoll] = roll
	row[ColumnName] = name
	t.Rows = append(t.Rows, row)
	return row
}

// PresentCount counts "P" marks in the given column.
func (t *Table) PresentCount(column string) int {
	count := 0
	for _, row := range t.Rows {
		if row[column] == "P" {
			count++
		}
	}
	return count
}

// Sort orders rows by roll number: numerically when every roll parses as an
// integer, lexicographically otherwise. New submissions arrive as free text
// and must merge predictably with pre-seeded numeric rolls.
func (t *Table) Sort() {
	numeric := true
	for _, row := range t.Rows {
		if _, err := strconv.Atoi(row[ColumnRoll]); err != nil {
			numeric = false
			break
		}
	}

	if numeric {
		sort.SliceStable(t.Rows, func(i, j int) bool {
			a, _ := strconv.Atoi(t.Rows[i][ColumnRoll])
			b, _ := strconv.Atoi(t.Rows[j][ColumnRoll])
			return a < b
		})
		return
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i][ColumnRoll] < t.Rows[j][ColumnRoll]
	})
}
