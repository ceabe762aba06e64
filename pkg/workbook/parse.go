package workbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/drugpurchasing/shift-roster/pkg/core/scheduler"
)

var validate = validator.New()

// DefaultMaxHours applies when a worker row leaves MaxHours blank
const DefaultMaxHours = 250

// Parsed is the workbook converted into the scheduler domain
type Parsed struct {
	Workers          []*scheduler.Worker
	Shifts           []*scheduler.ShiftType
	Holidays         map[string]bool
	PreAssignments   []scheduler.PreAssignment
	HistoricalScores map[string]float64

	// SpecialNotes maps worker -> ISO date -> free-text note, copied
	// verbatim into the exported report
	SpecialNotes map[string]map[string]string

	// Warnings are non-fatal findings surfaced to the operator, e.g.
	// workers who declared no department preferences
	Warnings []string
}

type workerRow struct {
	Name     string  `validate:"required"`
	MaxHours float64 `validate:"gt=0"`
}

type shiftRow struct {
	Code      string  `validate:"required"`
	Type      string  `validate:"required"`
	StartTime string  `validate:"required,datetime=15:04"`
	EndTime   string  `validate:"required,datetime=15:04"`
	Hours     float64 `validate:"gt=0"`
}

type limitRow struct {
	Worker   string `validate:"required"`
	Category string `validate:"required,oneof=Night Mixing"`
	MaxCount int    `validate:"gte=1"`
}

// Parse converts a validated workbook into scheduler inputs. Malformed
// or missing required data is a configuration error that aborts the run
// before optimization starts.
func Parse(wb *Workbook) (*Parsed, error) {
	if err := wb.Validate(); err != nil {
		return nil, err
	}

	parsed := &Parsed{
		Holidays:         map[string]bool{},
		HistoricalScores: map[string]float64{},
		SpecialNotes:     map[string]map[string]string{},
	}

	departments, err := parseDepartments(wb)
	if err != nil {
		return nil, err
	}

	if err := parseShifts(wb, departments, parsed); err != nil {
		return nil, err
	}
	if err := parseWorkers(wb, parsed); err != nil {
		return nil, err
	}
	if err := parseShiftLimits(wb, parsed); err != nil {
		return nil, err
	}
	if err := parsePreAssignments(wb, parsed); err != nil {
		return nil, err
	}
	if err := parseHistoricalScores(wb, parsed); err != nil {
		return nil, err
	}
	if err := parseHolidays(wb, parsed); err != nil {
		return nil, err
	}
	parseSpecialNotes(wb, parsed)

	return parsed, nil
}

// departmentPrefixes is the legacy shift-code prefix convention, used
// only when a code is missing from the Departments table. Longest
// prefixes first so O400ER beats O400.
var departmentPrefixes = []struct {
	prefix     string
	department string
}{
	{"O400ER", "ER"},
	{"O400F1", "OPD400F1"},
	{"O400F2", "OPD400F2"},
	{"I100", "IPD100"},
	{"O100", "OPD100"},
	{"I400", "IPD400"},
	{"Care", "Care"},
	{"ARI", "ARI"},
	{"C8", "Mixing"},
}

func parseDepartments(wb *Workbook) (map[string]string, error) {
	table, _ := wb.Table(TableDepartments)
	if err := table.RequireColumns("Department", "Shift Codes"); err != nil {
		return nil, err
	}

	byCode := map[string]string{}
	for _, row := range table.Rows {
		department := table.Cell(row, "Department")
		if department == "" {
			continue
		}
		for _, code := range splitList(table.Cell(row, "Shift Codes")) {
			byCode[code] = department
		}
	}
	return byCode, nil
}

func departmentFor(code string, byCode map[string]string) string {
	if d, ok := byCode[code]; ok {
		return d
	}
	for _, p := range departmentPrefixes {
		if strings.HasPrefix(code, p.prefix) {
			return p.department
		}
	}
	return ""
}

func parseShifts(wb *Workbook, departments map[string]string, parsed *Parsed) error {
	table, _ := wb.Table(TableShifts)
	if err := table.RequireColumns("Shift Code", "Description", "Shift Type", "Start Time", "End Time", "Hours"); err != nil {
		return err
	}

	for i, row := range table.Rows {
		hours, err := parseFloat(table.Cell(row, "Hours"))
		if err != nil {
			return fmt.Errorf("table %s row %d: bad Hours: %w", table.Name, i+2, err)
		}

		sr := shiftRow{
			Code:      table.Cell(row, "Shift Code"),
			Type:      table.Cell(row, "Shift Type"),
			StartTime: table.Cell(row, "Start Time"),
			EndTime:   table.Cell(row, "End Time"),
			Hours:     hours,
		}
		if err := validate.Struct(sr); err != nil {
			return fmt.Errorf("table %s row %d: %w", table.Name, i+2, err)
		}

		typeName := strings.ToLower(sr.Type)
		availability, err := scheduler.ParseAvailability(typeName)
		if err != nil {
			return fmt.Errorf("table %s row %d: %w", table.Name, i+2, err)
		}

		department := departmentFor(sr.Code, departments)
		restricted := map[string]bool{}
		for _, code := range splitList(table.Cell(row, "Restricted Next Shifts")) {
			restricted[code] = true
		}

		parsed.Shifts = append(parsed.Shifts, &scheduler.ShiftType{
			Code:           sr.Code,
			Description:    table.Cell(row, "Description"),
			Availability:   availability,
			StartMinute:    minutesOfDay(sr.StartTime),
			EndMinute:      minutesOfDay(sr.EndTime),
			Hours:          sr.Hours,
			RequiredSkills: splitList(table.Cell(row, "Required Skills")),
			RestrictedNext: restricted,
			Department:     department,
			// The night flag follows the declared type, not the
			// availability class: an always-offered day shift must not
			// inherit fatigue rules or the night quota
			Night:  typeName == "night",
			Mixing: department == "Mixing",
			Care:   department == "Care",
		})
	}

	if len(parsed.Shifts) == 0 {
		return fmt.Errorf("table %s: no shift rows", table.Name)
	}
	return nil
}

func parseWorkers(wb *Workbook, parsed *Parsed) error {
	table, _ := wb.Table(TableWorkers)
	if err := table.RequireColumns("Name", "Skills", "Holidays"); err != nil {
		return err
	}

	for i, row := range table.Rows {
		maxHours := float64(DefaultMaxHours)
		if cell := table.Cell(row, "Max Hours"); cell != "" {
			parsedHours, err := parseFloat(cell)
			if err != nil {
				return fmt.Errorf("table %s row %d: bad Max Hours: %w", table.Name, i+2, err)
			}
			maxHours = parsedHours
		}

		wr := workerRow{Name: table.Cell(row, "Name"), MaxHours: maxHours}
		if err := validate.Struct(wr); err != nil {
			return fmt.Errorf("table %s row %d: %w", table.Name, i+2, err)
		}

		skills := map[string]bool{}
		for _, skill := range splitList(table.Cell(row, "Skills")) {
			skills[skill] = true
		}

		holidays := map[string]bool{}
		for _, cell := range splitList(table.Cell(row, "Holidays")) {
			date, err := parseDate(cell)
			if err != nil {
				// Spreadsheet exports carry placeholder dates in
				// empty holiday cells; skip anything unparsable
				continue
			}
			holidays[scheduler.DateKey(date)] = true
		}

		preferences := map[string]int{}
		for rank := 1; rank <= 8; rank++ {
			if dept := table.Cell(row, fmt.Sprintf("Rank%d", rank)); dept != "" {
				preferences[dept] = rank
			}
		}
		if len(preferences) == 0 {
			parsed.Warnings = append(parsed.Warnings,
				fmt.Sprintf("worker %s declared no department preferences; scoring neutrally", wr.Name))
		}

		parsed.Workers = append(parsed.Workers, &scheduler.Worker{
			Name:           wr.Name,
			Skills:         skills,
			Holidays:       holidays,
			MaxHours:       wr.MaxHours,
			Preferences:    preferences,
			HasPreferences: len(preferences) > 0,
			Limits:         map[scheduler.Category]int{},
		})
	}

	if len(parsed.Workers) == 0 {
		return fmt.Errorf("table %s: no worker rows", table.Name)
	}
	return nil
}

func parseShiftLimits(wb *Workbook, parsed *Parsed) error {
	table, ok := wb.Table(TableShiftLimits)
	if !ok {
		return nil
	}
	if err := table.RequireColumns("Pharmacist", "ShiftCategory", "MaxCount"); err != nil {
		return err
	}

	byName := workersByName(parsed.Workers)
	for i, row := range table.Rows {
		count, err := strconv.Atoi(table.Cell(row, "MaxCount"))
		if err != nil {
			return fmt.Errorf("table %s row %d: bad MaxCount: %w", table.Name, i+2, err)
		}
		lr := limitRow{
			Worker:   table.Cell(row, "Pharmacist"),
			Category: table.Cell(row, "ShiftCategory"),
			MaxCount: count,
		}
		if err := validate.Struct(lr); err != nil {
			return fmt.Errorf("table %s row %d: %w", table.Name, i+2, err)
		}

		w, known := byName[lr.Worker]
		if !known {
			parsed.Warnings = append(parsed.Warnings,
				fmt.Sprintf("shift limit for unknown worker %s ignored", lr.Worker))
			continue
		}
		w.Limits[scheduler.Category(lr.Category)] = lr.MaxCount
	}
	return nil
}

func parsePreAssignments(wb *Workbook, parsed *Parsed) error {
	table, _ := wb.Table(TablePreAssignments)
	workerCol := preAssignmentWorkerColumn(table)
	if workerCol == "" {
		return fmt.Errorf("table %s: missing worker column (Pharmacist, Assistant or Worker)", table.Name)
	}
	if err := table.RequireColumns("Date", "Shift"); err != nil {
		return err
	}

	for i, row := range table.Rows {
		name := table.Cell(row, workerCol)
		if name == "" {
			continue
		}
		date, err := parseDate(table.Cell(row, "Date"))
		if err != nil {
			return fmt.Errorf("table %s row %d: bad Date: %w", table.Name, i+2, err)
		}
		for _, code := range splitList(table.Cell(row, "Shift")) {
			parsed.PreAssignments = append(parsed.PreAssignments, scheduler.PreAssignment{
				Worker:    name,
				Date:      date,
				ShiftCode: code,
			})
		}
	}
	return nil
}

func preAssignmentWorkerColumn(table *Table) string {
	for _, name := range []string{"Pharmacist", "Assistant", "Worker"} {
		if _, ok := table.Column(name); ok {
			return name
		}
	}
	return ""
}

func parseHistoricalScores(wb *Workbook, parsed *Parsed) error {
	table, ok := wb.Table(TableHistoricalScores)
	if !ok {
		return nil
	}
	if err := table.RequireColumns("Pharmacist", "Total Preference Score"); err != nil {
		return err
	}

	for i, row := range table.Rows {
		name := table.Cell(row, "Pharmacist")
		if name == "" {
			continue
		}
		score, err := parseFloat(table.Cell(row, "Total Preference Score"))
		if err != nil {
			return fmt.Errorf("table %s row %d: bad score: %w", table.Name, i+2, err)
		}
		parsed.HistoricalScores[name] = score
	}
	return nil
}

func parseHolidays(wb *Workbook, parsed *Parsed) error {
	table, ok := wb.Table(TableHolidays)
	if !ok {
		return nil
	}
	if err := table.RequireColumns("Date"); err != nil {
		return err
	}
	for i, row := range table.Rows {
		cell := table.Cell(row, "Date")
		if cell == "" {
			continue
		}
		date, err := parseDate(cell)
		if err != nil {
			return fmt.Errorf("table %s row %d: bad Date: %w", table.Name, i+2, err)
		}
		parsed.Holidays[scheduler.DateKey(date)] = true
	}
	return nil
}

// parseSpecialNotes reads the worker-by-date annotation grid. The notes
// are cosmetic, so unknown workers and non-date columns are skipped
// silently.
func parseSpecialNotes(wb *Workbook, parsed *Parsed) {
	table, ok := wb.Table(TableSpecialNotes)
	if !ok || len(table.Header) < 2 {
		return
	}
	byName := workersByName(parsed.Workers)

	for _, row := range table.Rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if _, known := byName[name]; !known {
			continue
		}
		for col := 1; col < len(table.Header) && col < len(row); col++ {
			note := strings.TrimSpace(row[col])
			if note == "" {
				continue
			}
			date, err := parseDate(strings.TrimSpace(table.Header[col]))
			if err != nil {
				continue
			}
			if parsed.SpecialNotes[name] == nil {
				parsed.SpecialNotes[name] = map[string]string{}
			}
			parsed.SpecialNotes[name][scheduler.DateKey(date)] = note
		}
	}
}

func workersByName(workers []*scheduler.Worker) map[string]*scheduler.Worker {
	byName := make(map[string]*scheduler.Worker, len(workers))
	for _, w := range workers {
		byName[w.Name] = w
	}
	return byName
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

// minutesOfDay converts a validated HH:MM string to minutes since
// midnight
func minutesOfDay(s string) int {
	parts := strings.SplitN(s, ":", 2)
	hh, _ := strconv.Atoi(parts[0])
	mm, _ := strconv.Atoi(parts[1])
	return hh*60 + mm
}
