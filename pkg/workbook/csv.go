package workbook

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// csvFileTables maps CSV file base names to workbook table names
var csvFileTables = map[string]string{
	"workers":           TableWorkers,
	"shifts":            TableShifts,
	"departments":       TableDepartments,
	"preassignments":    TablePreAssignments,
	"historical_scores": TableHistoricalScores,
	"special_notes":     TableSpecialNotes,
	"shift_limits":      TableShiftLimits,
	"holidays":          TableHolidays,
}

// LoadCSVDir reads every recognized *.csv file in dir into a workbook.
// Unrecognized files are skipped; required tables are checked by
// Parse, not here.
func LoadCSVDir(dir string) (*Workbook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook directory: %w", err)
	}

	var tables []*Table
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		base := strings.ToLower(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		tableName, recognized := csvFileTables[base]
		if !recognized {
			continue
		}

		table, err := loadCSVFile(filepath.Join(dir, entry.Name()), tableName)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	return New(tables...), nil
}

func loadCSVFile(path, tableName string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Note grids and preference rankings have ragged rows
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	return &Table{
		Name:   tableName,
		Header: records[0],
		Rows:   records[1:],
	}, nil
}
