// Package export renders a final schedule as the files the pharmacy
// staff actually circulate: the roster grid, per-worker summaries and
// the negotiation sheet for unfilled shifts.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/drugpurchasing/shift-roster/pkg/core/scheduler"
)

// Files lists what an export produced
type Files struct {
	Roster      string
	Summaries   string
	Negotiation string
}

// Grid renders the schedule as rows of strings: a header row, then one
// row per date. Special notes are appended to the worker cell they
// annotate.
func Grid(sched *scheduler.Schedule, notes map[string]map[string]string) [][]string {
	header := append([]string{"Date", "Day"}, sched.ShiftCodes...)
	rows := [][]string{header}

	for _, date := range sched.Dates {
		row := []string{scheduler.DateKey(date), date.Weekday().String()}
		for _, code := range sched.ShiftCodes {
			row = append(row, annotatedCell(sched, date, code, notes))
		}
		rows = append(rows, row)
	}
	return rows
}

func annotatedCell(sched *scheduler.Schedule, date time.Time, code string, notes map[string]map[string]string) string {
	cell := sched.Get(date, code)
	if cell == scheduler.CellNoShift || cell == scheduler.CellUnfilled {
		return cell
	}
	if note := notes[cell][scheduler.DateKey(date)]; note != "" {
		return fmt.Sprintf("%s (%s)", cell, note)
	}
	return cell
}

// WriteAll writes the roster grid, the summaries and, when there are
// unfilled shifts, the negotiation sheet into dir. The directory is
// created if needed.
func WriteAll(dir string, sched *scheduler.Schedule, notes map[string]map[string]string,
	summaries []scheduler.WorkerSummary, suggestions []scheduler.NegotiationSuggestion) (*Files, error) {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	files := &Files{}

	files.Roster = filepath.Join(dir, "roster.csv")
	if err := writeCSV(files.Roster, Grid(sched, notes)); err != nil {
		return nil, err
	}

	files.Summaries = filepath.Join(dir, "summaries.csv")
	if err := writeCSV(files.Summaries, summaryRows(summaries)); err != nil {
		return nil, err
	}

	if len(suggestions) > 0 {
		files.Negotiation = filepath.Join(dir, "negotiation.txt")
		if err := writeNegotiation(files.Negotiation, suggestions); err != nil {
			return nil, err
		}
	}

	return files, nil
}

// summaryRows renders the per-worker report. The Pharmacist and Total
// Preference Score columns match the HistoricalScores input table, so
// a summaries export can seed the next period's fairness directly.
func summaryRows(summaries []scheduler.WorkerSummary) [][]string {
	rows := [][]string{{"Pharmacist", "Total Hours", "Shifts", "Night Shifts", "Total Preference Score", "Preference Penalty"}}
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Worker,
			fmt.Sprintf("%.1f", s.TotalHours),
			fmt.Sprintf("%d", s.ShiftsWorked),
			fmt.Sprintf("%d", s.NightShifts),
			fmt.Sprintf("%.1f", s.PreferenceSatisfaction),
			fmt.Sprintf("%.0f", s.PreferencePenalty),
		})
	}
	return rows
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// writeNegotiation renders the unfilled-shift suggestions as a plain
// text sheet, one block per slot
func writeNegotiation(path string, suggestions []scheduler.NegotiationSuggestion) error {
	var b strings.Builder
	b.WriteString("Unfilled shifts and suggested candidates\n")
	b.WriteString("========================================\n\n")

	for _, suggestion := range suggestions {
		fmt.Fprintf(&b, "%s\n", suggestion.Slot)
		for _, line := range suggestion.Summary() {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
