package scheduler

import (
	"fmt"
	"time"
)

// Cell sentinels used in the schedule grid
const (
	// CellNoShift marks a shift that is not offered on a given date
	CellNoShift = "NO SHIFT"

	// CellUnfilled marks a shift that is offered but has no eligible worker
	CellUnfilled = "UNFILLED"
)

// Availability classifies when a shift type is offered
type Availability int

const (
	// AvailabilityWeekday shifts run Mon-Fri, excluded on public holidays
	AvailabilityWeekday Availability = iota

	// AvailabilityMonThu shifts run Mon-Thu, excluded on public holidays
	AvailabilityMonThu

	// AvailabilitySaturday shifts run only on non-holiday Saturdays
	AvailabilitySaturday

	// AvailabilityHoliday shifts run on public holidays, Saturdays and Sundays
	AvailabilityHoliday

	// AvailabilityAlways shifts run every date. Night shifts use this
	// class, but the night flag itself lives on ShiftType.
	AvailabilityAlways
)

func (a Availability) String() string {
	switch a {
	case AvailabilityWeekday:
		return "weekday"
	case AvailabilityMonThu:
		return "mon-thu"
	case AvailabilitySaturday:
		return "saturday"
	case AvailabilityHoliday:
		return "holiday"
	case AvailabilityAlways:
		return "always"
	}
	return "unknown"
}

// ParseAvailability converts a shift-type column value into an Availability
func ParseAvailability(s string) (Availability, error) {
	switch s {
	case "weekday":
		return AvailabilityWeekday, nil
	case "monthu", "mon-thu":
		return AvailabilityMonThu, nil
	case "saturday":
		return AvailabilitySaturday, nil
	case "holiday":
		return AvailabilityHoliday, nil
	case "night", "always":
		return AvailabilityAlways, nil
	default:
		return 0, fmt.Errorf("unknown shift type %q", s)
	}
}

// Category groups shift types for per-worker quota limits
type Category string

const (
	CategoryNight  Category = "Night"
	CategoryMixing Category = "Mixing"
)

// Skill tags with engine-level meaning
const (
	SkillMixingExpert = "mixing_expert"
	SkillJunior       = "junior"
)

// Worker is a schedulable person. Immutable during scheduling; all
// per-attempt counters live in runState.
type Worker struct {
	// Name uniquely identifies the worker
	Name string

	// Skills is the set of capability tags
	Skills map[string]bool

	// Holidays is the set of unavailable dates (ISO date keys)
	Holidays map[string]bool

	// MaxHours caps total assigned hours for the horizon
	MaxHours float64

	// Preferences maps department name to rank 1..8
	Preferences map[string]int

	// HasPreferences is false when the worker declared no ranking at all.
	// Such workers score a neutral rank rather than worst-rank.
	HasPreferences bool

	// Limits caps the number of shifts per category (nil entry = no cap)
	Limits map[Category]int
}

// HasSkill reports whether the worker carries the given skill tag
func (w *Worker) HasSkill(skill string) bool {
	return w.Skills[skill]
}

// OnHoliday reports whether the worker is unavailable on the given date
func (w *Worker) OnHoliday(date time.Time) bool {
	return w.Holidays[DateKey(date)]
}

// neutralPreferenceRank is used for workers with no declared preferences
const neutralPreferenceRank = 5

// unrankedPreferenceRank is used when a department is absent from a
// worker's ranking
const unrankedPreferenceRank = 9

// PreferenceRank returns the worker's 1..8 rank for a department, 9 when
// the department is unranked, or a neutral 5 when the worker declared no
// preferences at all.
func (w *Worker) PreferenceRank(department string) int {
	if !w.HasPreferences {
		return neutralPreferenceRank
	}
	if rank, ok := w.Preferences[department]; ok {
		return rank
	}
	return unrankedPreferenceRank
}

// ShiftType is an immutable shift definition
type ShiftType struct {
	// Code uniquely identifies the shift
	Code string

	// Description is a human-readable label for reports
	Description string

	// Availability classifies when the shift is offered
	Availability Availability

	// StartMinute and EndMinute are minutes since midnight. A shift
	// wrapping past midnight has EndMinute < StartMinute.
	StartMinute int
	EndMinute   int

	// Hours is the shift duration counted against MaxHours
	Hours float64

	// RequiredSkills must all be present on an assigned worker
	RequiredSkills []string

	// RestrictedNext lists shift codes forbidden on the following day
	// for whoever works this shift
	RestrictedNext map[string]bool

	// Department is resolved once at load time from the departments
	// table (or the code-prefix convention), never re-derived from the
	// code during scheduling
	Department string

	// Night marks shifts counted against night fatigue rules
	Night bool

	// Mixing marks compounding shifts subject to the expert ratio
	Mixing bool

	// Care marks ward/care shifts (affects problem-day fill order only)
	Care bool
}

// Category returns the quota category of the shift, or "" when the shift
// is not quota-limited
func (st *ShiftType) Category() Category {
	if st.Night {
		return CategoryNight
	}
	if st.Mixing {
		return CategoryMixing
	}
	return ""
}

// Overlaps reports whether two shift types overlap in time on the same
// date. End times earlier than start times are treated as next-day ends.
func (st *ShiftType) Overlaps(other *ShiftType) bool {
	start1, end1 := st.StartMinute, st.EndMinute
	start2, end2 := other.StartMinute, other.EndMinute
	if end1 < start1 {
		end1 += 24 * 60
	}
	if end2 < start2 {
		end2 += 24 * 60
	}
	return start1 < end2 && end1 > start2
}

// PreAssignment fixes a (worker, date, shift) before optimization begins
type PreAssignment struct {
	Worker    string
	Date      time.Time
	ShiftCode string
}

// SlotRef identifies one (date, shift) cell of the schedule grid
type SlotRef struct {
	Date      time.Time
	ShiftCode string
}

func (s SlotRef) String() string {
	return fmt.Sprintf("%s %s", DateKey(s.Date), s.ShiftCode)
}

// DateKey formats a date as an ISO yyyy-mm-dd key
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Schedule is the assignment grid: (date, shift code) -> worker name or
// one of the cell sentinels
type Schedule struct {
	// Dates covered by the grid, in calendar order
	Dates []time.Time

	// ShiftCodes in load order (stable column order for exports)
	ShiftCodes []string

	cells map[string]map[string]string
}

// NewSchedule creates a grid with every cell set to NO SHIFT
func NewSchedule(dates []time.Time, shiftCodes []string) *Schedule {
	cells := make(map[string]map[string]string, len(dates))
	for _, date := range dates {
		row := make(map[string]string, len(shiftCodes))
		for _, code := range shiftCodes {
			row[code] = CellNoShift
		}
		cells[DateKey(date)] = row
	}
	return &Schedule{
		Dates:      dates,
		ShiftCodes: shiftCodes,
		cells:      cells,
	}
}

// Get returns the cell value, or NO SHIFT for dates outside the grid
func (s *Schedule) Get(date time.Time, shiftCode string) string {
	row, ok := s.cells[DateKey(date)]
	if !ok {
		return CellNoShift
	}
	return row[shiftCode]
}

// Set writes a cell value. Dates outside the grid are ignored.
func (s *Schedule) Set(date time.Time, shiftCode, value string) {
	if row, ok := s.cells[DateKey(date)]; ok {
		row[shiftCode] = value
	}
}

// Assigned reports whether the cell holds a worker (not a sentinel)
func (s *Schedule) Assigned(date time.Time, shiftCode string) bool {
	v := s.Get(date, shiftCode)
	return v != CellNoShift && v != CellUnfilled
}

// WorkerShifts returns the shift codes held by a worker on a date
func (s *Schedule) WorkerShifts(worker string, date time.Time) []string {
	row, ok := s.cells[DateKey(date)]
	if !ok {
		return nil
	}
	var shifts []string
	for _, code := range s.ShiftCodes {
		if row[code] == worker {
			shifts = append(shifts, code)
		}
	}
	return shifts
}

// UnfilledSlots returns every cell currently marked UNFILLED
func (s *Schedule) UnfilledSlots() []SlotRef {
	var slots []SlotRef
	for _, date := range s.Dates {
		for _, code := range s.ShiftCodes {
			if s.Get(date, code) == CellUnfilled {
				slots = append(slots, SlotRef{Date: date, ShiftCode: code})
			}
		}
	}
	return slots
}

// Clone returns a deep copy of the grid
func (s *Schedule) Clone() *Schedule {
	cells := make(map[string]map[string]string, len(s.cells))
	for key, row := range s.cells {
		dup := make(map[string]string, len(row))
		for code, v := range row {
			dup[code] = v
		}
		cells[key] = dup
	}
	return &Schedule{
		Dates:      s.Dates,
		ShiftCodes: s.ShiftCodes,
		cells:      cells,
	}
}

// runState holds the mutable per-attempt counters. A fresh runState is
// built at the start of every generation attempt so the long-lived
// Worker entities are never mutated.
type runState struct {
	hours         map[string]float64
	nightCount    map[string]int
	mixingCount   map[string]int
	categoryCount map[string]map[Category]int
	weekendCount  map[string]int
}

func newRunState(workers []*Worker) *runState {
	rs := &runState{
		hours:         make(map[string]float64, len(workers)),
		nightCount:    make(map[string]int, len(workers)),
		mixingCount:   make(map[string]int, len(workers)),
		categoryCount: make(map[string]map[Category]int, len(workers)),
		weekendCount:  make(map[string]int, len(workers)),
	}
	for _, w := range workers {
		rs.hours[w.Name] = 0
		rs.categoryCount[w.Name] = map[Category]int{
			CategoryNight:  0,
			CategoryMixing: 0,
		}
	}
	return rs
}

// recordAssignment updates every counter for one assignment. Applied
// identically to pre-assignments and algorithmic picks.
func (rs *runState) recordAssignment(worker string, st *ShiftType, date time.Time) {
	rs.hours[worker] += st.Hours
	if st.Night {
		rs.nightCount[worker]++
	}
	if st.Mixing {
		rs.mixingCount[worker]++
	}
	if category := st.Category(); category != "" {
		rs.categoryCount[worker][category]++
	}
	if isWeekend(date) {
		rs.weekendCount[worker]++
	}
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
