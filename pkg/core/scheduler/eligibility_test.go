package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eligibleNames(s *Scheduler, date time.Time, st *ShiftType, sched *Schedule, rs *runState) []string {
	var names []string
	for _, w := range s.EligibleWorkers(date, st, sched, rs, s.workers) {
		names = append(names, w.Name)
	}
	return names
}

func TestEligibility_HolidayExcludes(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	ann := testWorker("Ann")
	ann.Holidays[DateKey(monday)] = true
	bea := testWorker("Bea")

	s := newTestScheduler(t, Config{Workers: []*Worker{ann, bea}, Shifts: []*ShiftType{shift}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())

	assert.Equal(t, []string{"Bea"}, eligibleNames(s, monday, shift, sched, newRunState(s.workers)))
}

func TestEligibility_RequiredSkills(t *testing.T) {
	shift := dayShift("C8-D", "Mixing")
	shift.RequiredSkills = []string{SkillMixingExpert}
	ann := testWorker("Ann")
	ann.Skills[SkillMixingExpert] = true
	bea := testWorker("Bea")

	s := newTestScheduler(t, Config{Workers: []*Worker{ann, bea}, Shifts: []*ShiftType{shift}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())

	assert.Equal(t, []string{"Ann"}, eligibleNames(s, monday, shift, sched, newRunState(s.workers)))
}

func TestEligibility_EmptyRequiredSkillsPasses(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	ann := testWorker("Ann")

	s := newTestScheduler(t, Config{Workers: []*Worker{ann}, Shifts: []*ShiftType{shift}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())

	assert.Equal(t, []string{"Ann"}, eligibleNames(s, monday, shift, sched, newRunState(s.workers)))
}

func TestEligibility_OverlapSameDay(t *testing.T) {
	first := dayShift("O100-D", "OPD100")
	second := dayShift("I100-D", "IPD100")
	ann := testWorker("Ann")

	s := newTestScheduler(t, Config{Workers: []*Worker{ann}, Shifts: []*ShiftType{first, second}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	rs := newRunState(s.workers)

	sched.Set(monday, "O100-D", "Ann")
	rs.recordAssignment("Ann", first, monday)

	assert.Empty(t, eligibleNames(s, monday, second, sched, rs))
}

func TestEligibility_NonOverlappingSecondShiftAllowed(t *testing.T) {
	morning := dayShift("O100-AM", "OPD100")
	evening := dayShift("O100-PM", "OPD100")
	evening.StartMinute = minutes(16, 0)
	evening.EndMinute = minutes(20, 0)
	ann := testWorker("Ann")

	s := newTestScheduler(t, Config{Workers: []*Worker{ann}, Shifts: []*ShiftType{morning, evening}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	rs := newRunState(s.workers)

	sched.Set(monday, "O100-AM", "Ann")
	rs.recordAssignment("Ann", morning, monday)

	assert.Equal(t, []string{"Ann"}, eligibleNames(s, monday, evening, sched, rs))
}

func TestEligibility_MaxHoursCap(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	ann := testWorker("Ann")
	ann.MaxHours = 8

	s := newTestScheduler(t, Config{Workers: []*Worker{ann}, Shifts: []*ShiftType{shift}})
	sched := NewSchedule([]time.Time{monday, tuesday}, s.ShiftCodes())
	rs := newRunState(s.workers)

	// First 8-hour shift fits exactly
	assert.Equal(t, []string{"Ann"}, eligibleNames(s, monday, shift, sched, rs))

	sched.Set(monday, "O100-D", "Ann")
	rs.recordAssignment("Ann", shift, monday)

	// A second one would exceed the cap
	assert.Empty(t, eligibleNames(s, tuesday, shift, sched, rs))
}

func TestEligibility_RestrictedNextShift(t *testing.T) {
	// A shift restricting N2 on the following day must exclude its
	// holder from N2 on D+1
	day := dayShift("O100-D", "OPD100")
	day.RestrictedNext = map[string]bool{"N2": true}
	n2 := nightShift("N2", "IPD100")
	ann := testWorker("Ann")
	bea := testWorker("Bea")

	s := newTestScheduler(t, Config{Workers: []*Worker{ann, bea}, Shifts: []*ShiftType{day, n2}})
	sched := NewSchedule([]time.Time{monday, tuesday}, s.ShiftCodes())
	rs := newRunState(s.workers)

	sched.Set(monday, "O100-D", "Ann")
	rs.recordAssignment("Ann", day, monday)

	assert.Equal(t, []string{"Bea"}, eligibleNames(s, tuesday, n2, sched, rs))
}

func TestEligibility_CategoryCap(t *testing.T) {
	n1 := nightShift("N1", "IPD100")
	ann := testWorker("Ann")
	ann.Limits = map[Category]int{CategoryNight: 1}

	s := newTestScheduler(t, Config{Workers: []*Worker{ann}, Shifts: []*ShiftType{n1}})
	sched := NewSchedule([]time.Time{monday, friday}, s.ShiftCodes())
	rs := newRunState(s.workers)

	require.Equal(t, []string{"Ann"}, eligibleNames(s, monday, n1, sched, rs))
	sched.Set(monday, "N1", "Ann")
	rs.recordAssignment("Ann", n1, monday)

	// Friday is outside the +-2 day fatigue window; the cap alone
	// excludes her
	assert.Empty(t, eligibleNames(s, friday, n1, sched, rs))
}

func TestEligibility_NightAfterNightBlocked(t *testing.T) {
	n1 := nightShift("N1", "IPD100")
	day := dayShift("O100-D", "OPD100")
	ann := testWorker("Ann")

	s := newTestScheduler(t, Config{Workers: []*Worker{ann}, Shifts: []*ShiftType{n1, day}})
	sched := NewSchedule([]time.Time{monday, tuesday}, s.ShiftCodes())
	rs := newRunState(s.workers)

	sched.Set(monday, "N1", "Ann")
	rs.recordAssignment("Ann", n1, monday)

	// The morning after a night shift is a hard block for any shift
	assert.Empty(t, eligibleNames(s, tuesday, day, sched, rs))
}

func TestEligibility_NightWithinTwoDays(t *testing.T) {
	n1 := nightShift("N1", "IPD100")
	ann := testWorker("Ann")

	s := newTestScheduler(t, Config{Workers: []*Worker{ann}, Shifts: []*ShiftType{n1}})
	horizon := []time.Time{monday, tuesday, monday.AddDate(0, 0, 2), monday.AddDate(0, 0, 3)}
	sched := NewSchedule(horizon, s.ShiftCodes())
	rs := newRunState(s.workers)

	sched.Set(monday, "N1", "Ann")
	rs.recordAssignment("Ann", n1, monday)

	// Monday night blocks nights on Tue and Wed, Thu is fine again
	assert.Empty(t, eligibleNames(s, monday.AddDate(0, 0, 2), n1, sched, rs))
	assert.Equal(t, []string{"Ann"}, eligibleNames(s, monday.AddDate(0, 0, 3), n1, sched, rs))
}

func TestEligibility_NightRejectedWhenBookedTomorrow(t *testing.T) {
	// day -> night -> day chains are fatigue hazards: a worker already
	// booked on D+1 cannot take the night on D
	n1 := nightShift("N1", "IPD100")
	day := dayShift("O100-D", "OPD100")
	ann := testWorker("Ann")

	s := newTestScheduler(t, Config{Workers: []*Worker{ann}, Shifts: []*ShiftType{n1, day}})
	sched := NewSchedule([]time.Time{monday, tuesday}, s.ShiftCodes())
	rs := newRunState(s.workers)

	sched.Set(tuesday, "O100-D", "Ann")
	rs.recordAssignment("Ann", day, tuesday)

	assert.Empty(t, eligibleNames(s, monday, n1, sched, rs))
}

func TestEligibility_MixingExpertRatio(t *testing.T) {
	m1 := mixingShift("C8-1")
	m2 := mixingShift("C8-2")
	m3 := mixingShift("C8-3")
	m2.StartMinute, m2.EndMinute = minutes(16, 30), minutes(20, 30)
	m3.StartMinute, m3.EndMinute = minutes(20, 30), minutes(23, 30)

	expertA := testWorker("ExpertA")
	expertA.Skills[SkillMixingExpert] = true
	expertB := testWorker("ExpertB")
	expertB.Skills[SkillMixingExpert] = true
	novice := testWorker("Novice")

	s := newTestScheduler(t, Config{
		Workers: []*Worker{expertA, expertB, novice},
		Shifts:  []*ShiftType{m1, m2, m3},
	})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	rs := newRunState(s.workers)

	// First mixing slot: a lone novice would make the ratio 0/1
	assert.NotContains(t, eligibleNames(s, monday, m1, sched, rs), "Novice")

	sched.Set(monday, "C8-1", "ExpertA")
	rs.recordAssignment("ExpertA", m1, monday)
	sched.Set(monday, "C8-2", "ExpertB")
	rs.recordAssignment("ExpertB", m2, monday)

	// 2 experts + 1 novice = 2/3, exactly at the floor
	assert.Contains(t, eligibleNames(s, monday, m3, sched, rs), "Novice")
}

func TestEligibility_JuniorIsolationSameDepartment(t *testing.T) {
	x1 := dayShift("O100-1", "OPD100")
	x2 := dayShift("O100-2", "OPD100")
	x2.StartMinute, x2.EndMinute = minutes(16, 0), minutes(20, 0)
	y := dayShift("Care-1", "Care")

	juniorA := testWorker("JuniorA")
	juniorA.Skills[SkillJunior] = true
	juniorB := testWorker("JuniorB")
	juniorB.Skills[SkillJunior] = true

	s := newTestScheduler(t, Config{
		Workers: []*Worker{juniorA, juniorB},
		Shifts:  []*ShiftType{x1, x2, y},
	})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	rs := newRunState(s.workers)

	sched.Set(monday, "O100-1", "JuniorA")
	rs.recordAssignment("JuniorA", x1, monday)

	// A second junior in the same department on the same date is
	// rejected; a different department is fine
	assert.NotContains(t, eligibleNames(s, monday, x2, sched, rs), "JuniorB")
	assert.Contains(t, eligibleNames(s, monday, y, sched, rs), "JuniorB")
}

func TestEligibility_PreservesCandidateOrder(t *testing.T) {
	shift := dayShift("O100-D", "OPD100")
	ann := testWorker("Ann")
	bea := testWorker("Bea")

	s := newTestScheduler(t, Config{Workers: []*Worker{ann, bea}, Shifts: []*ShiftType{shift}})
	sched := NewSchedule([]time.Time{monday}, s.ShiftCodes())
	rs := newRunState(s.workers)

	reversed := []*Worker{bea, ann}
	eligible := s.EligibleWorkers(monday, shift, sched, rs, reversed)
	require.Len(t, eligible, 2)
	assert.Equal(t, "Bea", eligible[0].Name)
	assert.Equal(t, "Ann", eligible[1].Name)
}
