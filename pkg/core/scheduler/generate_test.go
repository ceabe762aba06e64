package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_AssignsOfferedShift(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	ann := testWorker("Ann")
	s := newTestScheduler(t, Config{Workers: []*Worker{ann}, Shifts: []*ShiftType{shift}})

	attempt := s.Generate([]time.Time{monday}, nil, s.shifts, s.workers, nil)
	require.False(t, attempt.Failed())
	assert.Equal(t, "Ann", attempt.Schedule.Get(monday, "O100-D"))
	assert.Equal(t, 8.0, attempt.Hours("Ann"))
}

func TestGenerate_WeekendLeavesWeekdayShiftUnoffered(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	s := newTestScheduler(t, Config{Workers: []*Worker{testWorker("Ann")}, Shifts: []*ShiftType{shift}})

	attempt := s.Generate([]time.Time{saturday}, nil, s.shifts, s.workers, nil)
	require.False(t, attempt.Failed())
	assert.Equal(t, CellNoShift, attempt.Schedule.Get(saturday, "O100-D"))
}

func TestGenerate_PreAssignmentAppliedWithAccounting(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	n1 := nightShift("N1", "IPD100")
	ann := testWorker("Ann")
	bea := testWorker("Bea")

	s := newTestScheduler(t, Config{
		Workers:        []*Worker{ann, bea},
		Shifts:         []*ShiftType{shift, n1},
		PreAssignments: []PreAssignment{{Worker: "Ann", Date: monday, ShiftCode: "N1"}},
	})

	attempt := s.Generate([]time.Time{monday}, nil, s.shifts, s.workers, nil)
	require.False(t, attempt.Failed())
	assert.Equal(t, "Ann", attempt.Schedule.Get(monday, "N1"))
	assert.Equal(t, 1, attempt.NightCount("Ann"))
	// The pre-assigned 12 hours count against Ann, so the day shift
	// goes to Bea on the hours term
	assert.Equal(t, "Bea", attempt.Schedule.Get(monday, "O100-D"))
}

func TestGenerate_HardFailureOnNormalDay(t *testing.T) {
	shift := dayShift("C8-D", "Mixing")
	shift.RequiredSkills = []string{SkillMixingExpert}
	unskilled := testWorker("Unskilled")

	// Plenty of workers, so the day is not flagged as a problem day
	workers := []*Worker{unskilled}
	for _, name := range []string{"W1", "W2", "W3", "W4"} {
		workers = append(workers, testWorker(name))
	}

	s := newTestScheduler(t, Config{Workers: workers, Shifts: []*ShiftType{shift}})

	attempt := s.Generate([]time.Time{monday}, nil, s.shifts, s.workers, nil)
	require.True(t, attempt.Failed())
	assert.Equal(t, SlotRef{Date: monday, ShiftCode: "C8-D"}, *attempt.FailedSlot)
	assert.Equal(t, CellUnfilled, attempt.Schedule.Get(monday, "C8-D"))
}

func TestGenerate_ProblemDayGapTolerated(t *testing.T) {
	shift := dayShift("C8-D", "Mixing")
	shift.RequiredSkills = []string{SkillMixingExpert}
	s := newTestScheduler(t, Config{
		Workers: []*Worker{testWorker("Unskilled")},
		Shifts:  []*ShiftType{shift},
	})

	problemDays := map[string]bool{DateKey(monday): true}
	attempt := s.Generate([]time.Time{monday}, problemDays, s.shifts, s.workers, nil)

	require.False(t, attempt.Failed())
	assert.Equal(t, []SlotRef{{Date: monday, ShiftCode: "C8-D"}}, attempt.UnfilledProblemSlots)
	assert.Equal(t, CellUnfilled, attempt.Schedule.Get(monday, "C8-D"))
}

func TestGenerate_PreferenceSteersSelection(t *testing.T) {
	// Two eligible workers, one prefers the shift's department: the
	// preferring worker carries the lower penalty and wins
	shift := dayShift("O100-D", "OPD100")
	neutral := testWorker("Neutral") // no preferences at all: neutral rank 5
	neutral.MaxHours = 8
	keen := testWorker("Keen")
	keen.MaxHours = 40
	keen.HasPreferences = true
	keen.Preferences = map[string]int{"OPD100": 1}

	s := newTestScheduler(t, Config{Workers: []*Worker{neutral, keen}, Shifts: []*ShiftType{shift}})

	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	rs := newRunState(s.workers)
	eligible := s.EligibleWorkers(monday, shift, sched, rs, s.workers)
	require.Len(t, eligible, 2, "both workers must be in the eligible set")

	attempt := s.Generate([]time.Time{monday}, nil, s.shifts, s.workers, nil)
	require.False(t, attempt.Failed())
	assert.Equal(t, "Keen", attempt.Schedule.Get(monday, "O100-D"))
}

func TestGenerate_ProgressCallbackPerDate(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	s := newTestScheduler(t, Config{Workers: []*Worker{testWorker("Ann")}, Shifts: []*ShiftType{shift}})

	var seen []string
	s.Generate([]time.Time{monday, tuesday}, nil, s.shifts, s.workers, func(date time.Time) {
		seen = append(seen, DateKey(date))
	})
	assert.Equal(t, []string{"2025-06-02", "2025-06-03"}, seen)
}

func TestFillOrders_Partition(t *testing.T) {
	n := nightShift("N1", "IPD100")
	m := mixingShift("C8-1")
	c := dayShift("Care-1", "Care")
	c.Care = true
	o := dayShift("O100-D", "OPD100")

	standard, problem := fillOrders([]*ShiftType{o, c, m, n})

	assert.Equal(t, []string{"N1", "C8-1", "Care-1", "O100-D"}, codes(standard))
	assert.Equal(t, []string{"C8-1", "Care-1", "N1", "O100-D"}, codes(problem))
}

func TestProcessingOrder_ProblemDaysFirst(t *testing.T) {
	horizon := []time.Time{monday, tuesday, friday}
	ordered := processingOrder(horizon, map[string]bool{DateKey(friday): true})
	require.Len(t, ordered, 3)
	assert.Equal(t, friday, ordered[0])
	assert.Equal(t, monday, ordered[1])
	assert.Equal(t, tuesday, ordered[2])
}

func codes(shifts []*ShiftType) []string {
	out := make([]string, len(shifts))
	for i, st := range shifts {
		out[i] = st.Code
	}
	return out
}
