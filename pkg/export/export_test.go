package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drugpurchasing/shift-roster/pkg/core/scheduler"
)

func exportSchedule() *scheduler.Schedule {
	dates := []time.Time{
		time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC),
	}
	sched := scheduler.NewSchedule(dates, []string{"O100-D", "I100-12N"})
	sched.Set(dates[0], "O100-D", "Ann")
	sched.Set(dates[0], "I100-12N", "Bea")
	sched.Set(dates[1], "O100-D", scheduler.CellUnfilled)
	return sched
}

func TestGrid_RendersCells(t *testing.T) {
	rows := Grid(exportSchedule(), nil)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Day", "O100-D", "I100-12N"}, rows[0])
	assert.Equal(t, []string{"2025-06-02", "Monday", "Ann", "Bea"}, rows[1])
	assert.Equal(t, []string{"2025-06-03", "Tuesday", "UNFILLED", "NO SHIFT"}, rows[2])
}

func TestGrid_AppendsSpecialNotes(t *testing.T) {
	notes := map[string]map[string]string{
		"Ann": {"2025-06-02": "training am"},
	}

	rows := Grid(exportSchedule(), notes)
	assert.Equal(t, "Ann (training am)", rows[1][2])
}

func TestGrid_NoteNeverAttachesToSentinels(t *testing.T) {
	notes := map[string]map[string]string{
		"UNFILLED": {"2025-06-03": "nonsense"},
	}

	rows := Grid(exportSchedule(), notes)
	assert.Equal(t, "UNFILLED", rows[2][2])
}

func TestWriteAll_WritesRosterAndSummaries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	summaries := []scheduler.WorkerSummary{
		{Worker: "Ann", TotalHours: 40, ShiftsWorked: 5, NightShifts: 1, PreferenceSatisfaction: 87.5, PreferencePenalty: 12},
	}

	files, err := WriteAll(dir, exportSchedule(), nil, summaries, nil)
	require.NoError(t, err)

	roster, err := os.ReadFile(files.Roster)
	require.NoError(t, err)
	assert.Contains(t, string(roster), "2025-06-02,Monday,Ann,Bea")

	content, err := os.ReadFile(files.Summaries)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Ann,40.0,5,1,87.5,12")

	// No unfilled suggestions, no negotiation sheet
	assert.Empty(t, files.Negotiation)
}

func TestWriteAll_SummariesRoundTripAsHistoricalScores(t *testing.T) {
	dir := t.TempDir()

	summaries := []scheduler.WorkerSummary{
		{Worker: "Ann", TotalHours: 40, ShiftsWorked: 5, NightShifts: 1, PreferenceSatisfaction: 87.5, PreferencePenalty: 12},
	}

	files, err := WriteAll(dir, exportSchedule(), nil, summaries, nil)
	require.NoError(t, err)

	content, err := os.ReadFile(files.Summaries)
	require.NoError(t, err)

	// The header carries the HistoricalScores column names and the
	// score column holds the satisfaction percentage, so the export
	// feeds straight back into the next period's input table
	assert.Contains(t, string(content), "Pharmacist,Total Hours,Shifts,Night Shifts,Total Preference Score")
	assert.Contains(t, string(content), "Ann,40.0,5,1,87.5")
}

func TestWriteAll_WritesNegotiationSheet(t *testing.T) {
	dir := t.TempDir()

	suggestions := []scheduler.NegotiationSuggestion{
		{
			Slot: scheduler.SlotRef{
				Date:      time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC),
				ShiftCode: "O100-D",
			},
			Candidates: []scheduler.NegotiationCandidate{
				{Worker: "Cia", OnHoliday: false, Score: 10},
				{Worker: "Dee", OnHoliday: true, Score: 4},
			},
		},
	}

	files, err := WriteAll(dir, exportSchedule(), nil, nil, suggestions)
	require.NoError(t, err)
	require.NotEmpty(t, files.Negotiation)

	content, err := os.ReadFile(files.Negotiation)
	require.NoError(t, err)
	assert.Contains(t, string(content), "2025-06-03 O100-D")
	assert.Contains(t, string(content), "1. Cia (Available)")
	assert.Contains(t, string(content), "2. Dee (On Holiday)")
}
