// Package workbook models the tabular inputs of the roster pipeline: a
// workbook is a set of named tables of string cells, regardless of
// whether it came from a CSV directory or a hosted spreadsheet. Parsing
// into the scheduler domain is strict about required columns so bad
// exports fail before optimization starts.
package workbook

import (
	"fmt"
	"strings"
)

// Well-known table names
const (
	TableWorkers          = "Workers"
	TableShifts           = "Shifts"
	TableDepartments      = "Departments"
	TablePreAssignments   = "PreAssignments"
	TableHistoricalScores = "HistoricalScores"
	TableSpecialNotes     = "SpecialNotes"
	TableShiftLimits      = "ShiftLimits"
	TableHolidays         = "Holidays"
)

// requiredTables must be present in every workbook
var requiredTables = []string{
	TableWorkers,
	TableShifts,
	TableDepartments,
	TablePreAssignments,
}

// Table is one named grid of cells. The first row of the source is the
// header; Rows hold only data rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Column returns the index of a header column, matched
// case-insensitively and ignoring surrounding spaces
func (t *Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, true
		}
	}
	return 0, false
}

// RequireColumns returns a configuration error naming every missing
// column
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.Column(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s: missing required columns: %s", t.Name, strings.Join(missing, ", "))
	}
	return nil
}

// Cell returns the trimmed value at (row, column name), or "" when the
// column is absent or the row is short
func (t *Table) Cell(row []string, name string) string {
	idx, ok := t.Column(name)
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Workbook is a set of named tables
type Workbook struct {
	tables map[string]*Table
}

// New builds a workbook from tables, keyed by table name
func New(tables ...*Table) *Workbook {
	wb := &Workbook{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		wb.tables[strings.ToLower(t.Name)] = t
	}
	return wb
}

// Table looks a table up by name, case-insensitively
func (wb *Workbook) Table(name string) (*Table, bool) {
	t, ok := wb.tables[strings.ToLower(name)]
	return t, ok
}

// Validate checks that every required table is present
func (wb *Workbook) Validate() error {
	var missing []string
	for _, name := range requiredTables {
		if _, ok := wb.Table(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("workbook missing required tables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// splitList splits a comma-separated cell into trimmed non-empty items
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
