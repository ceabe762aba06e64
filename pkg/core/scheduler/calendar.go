package scheduler

import "time"

// Offered reports whether a shift type runs on the given date, per its
// availability category and the holiday calendar.
func (s *Scheduler) Offered(st *ShiftType, date time.Time) bool {
	holiday := s.IsHoliday(date)
	wd := date.Weekday()

	switch st.Availability {
	case AvailabilityWeekday:
		return !holiday && wd != time.Saturday && wd != time.Sunday
	case AvailabilityMonThu:
		return !holiday && wd >= time.Monday && wd <= time.Thursday
	case AvailabilitySaturday:
		return wd == time.Saturday && !holiday
	case AvailabilityHoliday:
		return holiday || wd == time.Saturday || wd == time.Sunday
	case AvailabilityAlways:
		return true
	}
	return false
}

// OfferedCount returns the number of shifts offered on the date
func (s *Scheduler) OfferedCount(date time.Time) int {
	count := 0
	for _, st := range s.shifts {
		if s.Offered(st, date) {
			count++
		}
	}
	return count
}

// AvailableWorkerCount returns the number of workers without a personal
// holiday on the date
func (s *Scheduler) AvailableWorkerCount(date time.Time) int {
	count := 0
	for _, w := range s.workers {
		if !w.OnHoliday(date) {
			count++
		}
	}
	return count
}

// StaffingShortage describes one flagged problem day
type StaffingShortage struct {
	Date             time.Time
	AvailableWorkers int
	RequiredShifts   int
}

// PrecheckStaffing flags problem days across the horizon: dates where
// the available-worker count is below the offered-shift count plus the
// safety buffer. Problem days are scheduled before all other days and
// may end up with tolerated gaps.
func (s *Scheduler) PrecheckStaffing(horizon []time.Time) []StaffingShortage {
	var shortages []StaffingShortage
	for _, date := range horizon {
		offered := s.OfferedCount(date)
		if offered == 0 {
			continue
		}
		available := s.AvailableWorkerCount(date)
		required := offered + s.buffer
		if available < required {
			shortages = append(shortages, StaffingShortage{
				Date:             date,
				AvailableWorkers: available,
				RequiredShifts:   required,
			})
		}
	}
	return shortages
}

func problemDaySet(shortages []StaffingShortage) map[string]bool {
	set := make(map[string]bool, len(shortages))
	for _, sh := range shortages {
		set[DateKey(sh.Date)] = true
	}
	return set
}
