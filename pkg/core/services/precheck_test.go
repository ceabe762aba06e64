package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drugpurchasing/shift-roster/pkg/workbook"
)

// shortStaffedWorkbook has two workers for one daily shift, inside the
// default safety buffer
func shortStaffedWorkbook() *workbook.Workbook {
	return workbook.New(
		&workbook.Table{
			Name:   workbook.TableWorkers,
			Header: []string{"Name", "Skills", "Holidays"},
			Rows: [][]string{
				{"Ann", "", ""},
				{"Bea", "", ""},
			},
		},
		&workbook.Table{
			Name:   workbook.TableShifts,
			Header: []string{"Shift Code", "Description", "Shift Type", "Start Time", "End Time", "Hours"},
			Rows: [][]string{
				{"O100-D", "OPD day", "weekday", "08:00", "16:00", "8"},
			},
		},
		&workbook.Table{
			Name:   workbook.TableDepartments,
			Header: []string{"Department", "Shift Codes"},
			Rows:   [][]string{{"OPD100", "O100-D"}},
		},
		&workbook.Table{
			Name:   workbook.TablePreAssignments,
			Header: []string{"Pharmacist", "Date", "Shift"},
		},
	)
}

func TestPrecheck_FlagsShortStaffedDates(t *testing.T) {
	source := &fakeSource{wb: shortStaffedWorkbook()}

	result, err := Precheck(context.Background(), source, testConfig(), zap.NewNop(), 2025, time.June)
	require.NoError(t, err)

	// Two workers against 1 offered shift plus buffer 3: every
	// weekday is a problem day. Weekends offer nothing and are never
	// flagged.
	require.NotEmpty(t, result.Shortages)
	assert.Len(t, result.Shortages, 21)
	first := result.Shortages[0]
	assert.Equal(t, 2, first.AvailableWorkers)
	assert.Equal(t, 4, first.RequiredShifts)
}

func TestPrecheck_SufficientStaffing(t *testing.T) {
	source := &fakeSource{wb: testWorkbook(t)}

	result, err := Precheck(context.Background(), source, testConfig(), zap.NewNop(), 2025, time.June)
	require.NoError(t, err)

	assert.Empty(t, result.Shortages)
	assert.Len(t, result.Horizon, 30)
}

func TestListWorkers_ReturnsParsedPool(t *testing.T) {
	source := &fakeSource{wb: testWorkbook(t)}

	result, err := ListWorkers(context.Background(), source, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, result.Workers, 5)
	assert.Equal(t, "Ann", result.Workers[0].Name)
	require.Len(t, result.Shifts, 1)

	// Cia, Dee and Eva declared no preferences
	assert.Len(t, result.Warnings, 3)
}
