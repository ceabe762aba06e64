package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifierScheduler(t *testing.T, holidays map[string]bool) *Scheduler {
	t.Helper()
	return newTestScheduler(t, Config{
		Workers:  []*Worker{testWorker("Ann")},
		Shifts:   []*ShiftType{dayShift("O100-D", "OPD100")},
		Holidays: holidays,
	})
}

func TestOffered_Weekday(t *testing.T) {
	s := classifierScheduler(t, map[string]bool{DateKey(friday): true})
	st := dayShift("X", "OPD100")

	assert.True(t, s.Offered(st, monday))
	assert.False(t, s.Offered(st, saturday))
	assert.False(t, s.Offered(st, sunday))
	// Excluded on public holidays
	assert.False(t, s.Offered(st, friday))
}

func TestOffered_MonThu(t *testing.T) {
	s := classifierScheduler(t, nil)
	st := dayShift("X", "OPD100")
	st.Availability = AvailabilityMonThu

	assert.True(t, s.Offered(st, monday))
	assert.True(t, s.Offered(st, monday.AddDate(0, 0, 3))) // Thursday
	assert.False(t, s.Offered(st, friday))
	assert.False(t, s.Offered(st, saturday))
	assert.False(t, s.Offered(st, sunday))
}

func TestOffered_SaturdayOnly(t *testing.T) {
	holidaySaturday := saturday.AddDate(0, 0, 7)
	s := classifierScheduler(t, map[string]bool{DateKey(holidaySaturday): true})
	st := dayShift("X", "OPD100")
	st.Availability = AvailabilitySaturday

	assert.True(t, s.Offered(st, saturday))
	assert.False(t, s.Offered(st, monday))
	// Holiday Saturdays are excluded
	assert.False(t, s.Offered(st, holidaySaturday))
}

func TestOffered_HolidayCategory(t *testing.T) {
	s := classifierScheduler(t, map[string]bool{DateKey(friday): true})
	st := dayShift("X", "OPD100")
	st.Availability = AvailabilityHoliday

	assert.True(t, s.Offered(st, friday)) // public holiday
	assert.True(t, s.Offered(st, saturday))
	assert.True(t, s.Offered(st, sunday))
	assert.False(t, s.Offered(st, monday))
}

func TestOffered_Always(t *testing.T) {
	s := classifierScheduler(t, map[string]bool{DateKey(friday): true})
	st := nightShift("N1", "IPD100")

	for _, date := range []time.Time{monday, friday, saturday, sunday} {
		assert.True(t, s.Offered(st, date), DateKey(date))
	}
}

func TestParseAvailability(t *testing.T) {
	cases := map[string]Availability{
		"weekday":  AvailabilityWeekday,
		"monthu":   AvailabilityMonThu,
		"mon-thu":  AvailabilityMonThu,
		"saturday": AvailabilitySaturday,
		"holiday":  AvailabilityHoliday,
		"night":    AvailabilityAlways,
		"always":   AvailabilityAlways,
	}
	for input, want := range cases {
		got, err := ParseAvailability(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseAvailability("fortnightly")
	assert.Error(t, err)
}

func TestPrecheckStaffing_FlagsShortDays(t *testing.T) {
	// One weekday shift offered, buffer 3: fewer than 4 available
	// workers flags the day
	workers := []*Worker{testWorker("Ann"), testWorker("Bea"), testWorker("Cid")}
	workers[0].Holidays[DateKey(monday)] = true

	s := newTestScheduler(t, Config{
		Workers: workers,
		Shifts:  []*ShiftType{dayShift("O100-D", "OPD100")},
	})

	shortages := s.PrecheckStaffing([]time.Time{monday, tuesday})
	require.Len(t, shortages, 2)
	assert.Equal(t, monday, shortages[0].Date)
	assert.Equal(t, 2, shortages[0].AvailableWorkers)
	assert.Equal(t, 4, shortages[0].RequiredShifts)
}

func TestPrecheckStaffing_ZeroBufferDisablesMargin(t *testing.T) {
	// With the buffer overridden to zero, one available worker covers
	// the single offered shift and nothing is flagged
	buffer := 0
	s := newTestScheduler(t, Config{
		Workers:      []*Worker{testWorker("Ann")},
		Shifts:       []*ShiftType{dayShift("O100-D", "OPD100")},
		SafetyBuffer: &buffer,
	})
	assert.Empty(t, s.PrecheckStaffing([]time.Time{monday, tuesday}))
}

func TestPrecheckStaffing_SufficientStaff(t *testing.T) {
	workers := make([]*Worker, 6)
	for i := range workers {
		workers[i] = testWorker(string(rune('A' + i)))
	}
	s := newTestScheduler(t, Config{
		Workers: workers,
		Shifts:  []*ShiftType{dayShift("O100-D", "OPD100")},
	})
	assert.Empty(t, s.PrecheckStaffing([]time.Time{monday, tuesday}))
}
