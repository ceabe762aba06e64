package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiationSuggestions_RankedCandidates(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	busy := testWorker("Busy")
	idle := testWorker("Idle")
	away := testWorker("Away")
	away.Holidays[DateKey(monday)] = true

	s := newTestScheduler(t, Config{
		Workers: []*Worker{away, busy, idle},
		Shifts:  []*ShiftType{shift, nightShift("N1", "IPD100")},
	})

	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	sched.Set(monday, "O100-D", CellUnfilled)
	// Busy already works that night, so only the off-duty workers are
	// suggested
	sched.Set(monday, "N1", "Busy")

	suggestions := s.NegotiationSuggestions(sched)
	require.Len(t, suggestions, 1)
	assert.Equal(t, SlotRef{Date: monday, ShiftCode: "O100-D"}, suggestions[0].Slot)

	candidates := suggestions[0].Candidates
	require.Len(t, candidates, 2)
	// Workers not on holiday rank first
	assert.Equal(t, "Idle", candidates[0].Worker)
	assert.False(t, candidates[0].OnHoliday)
	assert.Equal(t, "Away", candidates[1].Worker)
	assert.True(t, candidates[1].OnHoliday)
}

func TestNegotiationSuggestions_RelaxedIgnoresHardConstraints(t *testing.T) {
	// Negotiation is for humans: a worker on holiday still appears,
	// annotated, instead of being filtered like the eligibility engine
	// would
	shift := dayShift("O100-D", "OPD100")
	away := testWorker("Away")
	away.Holidays[DateKey(monday)] = true

	s := newTestScheduler(t, Config{Workers: []*Worker{away}, Shifts: []*ShiftType{shift}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	sched.Set(monday, "O100-D", CellUnfilled)

	suggestions := s.NegotiationSuggestions(sched)
	require.Len(t, suggestions, 1)
	require.Len(t, suggestions[0].Candidates, 1)
	assert.Equal(t, "(On Holiday)", suggestions[0].Candidates[0].Annotation())
}

func TestNegotiationSuggestions_SkillMismatchExcluded(t *testing.T) {
	shift := dayShift("C8-D", "Mixing")
	shift.RequiredSkills = []string{SkillMixingExpert}
	novice := testWorker("Novice")
	expert := testWorker("Expert")
	expert.Skills[SkillMixingExpert] = true

	s := newTestScheduler(t, Config{Workers: []*Worker{novice, expert}, Shifts: []*ShiftType{shift}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	sched.Set(monday, "C8-D", CellUnfilled)

	suggestions := s.NegotiationSuggestions(sched)
	require.Len(t, suggestions, 1)
	require.Len(t, suggestions[0].Candidates, 1)
	assert.Equal(t, "Expert", suggestions[0].Candidates[0].Worker)
}

func TestNegotiationSuggestions_TopThreeOnly(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	var workers []*Worker
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		workers = append(workers, testWorker(name))
	}

	s := newTestScheduler(t, Config{Workers: workers, Shifts: []*ShiftType{shift}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	sched.Set(monday, "O100-D", CellUnfilled)

	suggestions := s.NegotiationSuggestions(sched)
	require.Len(t, suggestions, 1)
	assert.Len(t, suggestions[0].Candidates, 3)
}

func TestNegotiationSuggestion_Summary_NoCandidates(t *testing.T) {
	n := NegotiationSuggestion{Slot: SlotRef{Date: monday, ShiftCode: "X"}}
	assert.Equal(t, []string{"No suitable candidate found"}, n.Summary())
}

func TestNegotiationSuggestion_Summary_Lines(t *testing.T) {
	n := NegotiationSuggestion{
		Candidates: []NegotiationCandidate{
			{Worker: "Idle"},
			{Worker: "Away", OnHoliday: true},
		},
	}
	assert.Equal(t, []string{"1. Idle (Available)", "2. Away (On Holiday)"}, n.Summary())
}

func TestNegotiationSuggestions_NoneWhenScheduleComplete(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	s := newTestScheduler(t, Config{Workers: []*Worker{testWorker("Ann")}, Shifts: []*ShiftType{shift}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	sched.Set(monday, "O100-D", "Ann")

	assert.Empty(t, s.NegotiationSuggestions(sched))
}

func TestSummaries_Figures(t *testing.T) {
	day := dayShift("O100-D", "OPD100")
	n1 := nightShift("N1", "IPD100")
	ann := testWorker("Ann")
	ann.HasPreferences = true
	ann.Preferences = map[string]int{"OPD100": 1}

	s := newTestScheduler(t, Config{Workers: []*Worker{ann}, Shifts: []*ShiftType{day, n1}})
	sched := NewSchedule([]time.Time{monday, time.Date(2025, time.June, 4, 0, 0, 0, 0, time.UTC)}, s.ShiftCodes())
	sched.Set(monday, "O100-D", "Ann")
	sched.Set(time.Date(2025, time.June, 4, 0, 0, 0, 0, time.UTC), "N1", "Ann")

	summaries := s.Summaries(sched)
	require.Len(t, summaries, 1)
	sum := summaries[0]

	assert.Equal(t, 20.0, sum.TotalHours)
	assert.Equal(t, 2, sum.ShiftsWorked)
	assert.Equal(t, 1, sum.NightShifts)
	// Rank 1 earns 8 points, unranked IPD100 earns 0: 8 of 16
	assert.InDelta(t, 50.0, sum.PreferenceSatisfaction, 1e-9)
	// Penalty: rank 1 + rank 9
	assert.InDelta(t, 10.0, sum.PreferencePenalty, 1e-9)
}

func TestSummaries_NoShiftsWorked(t *testing.T) {
	day := dayShift("O100-D", "OPD100")
	s := newTestScheduler(t, Config{Workers: []*Worker{testWorker("Ann")}, Shifts: []*ShiftType{day}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())

	summaries := s.Summaries(sched)
	require.Len(t, summaries, 1)
	assert.Zero(t, summaries[0].PreferenceSatisfaction)
	assert.Zero(t, summaries[0].TotalHours)
}
