package scheduler

import "time"

// EligibleWorkers filters the candidate list down to workers satisfying
// every hard constraint for (date, shift). Read-only against the partial
// schedule and run state. Candidates are returned in input order so a
// shuffled input keeps tie-breaks shuffled.
func (s *Scheduler) EligibleWorkers(date time.Time, st *ShiftType, sched *Schedule, rs *runState, candidates []*Worker) []*Worker {
	yesterday := date.AddDate(0, 0, -1)
	nightYesterday := s.workersOnNight(sched, yesterday)

	var eligible []*Worker
	for _, w := range candidates {
		if s.eligible(w, date, st, sched, rs, nightYesterday) {
			eligible = append(eligible, w)
		}
	}
	return eligible
}

func (s *Scheduler) eligible(w *Worker, date time.Time, st *ShiftType, sched *Schedule, rs *runState, nightYesterday map[string]bool) bool {
	if w.OnHoliday(date) {
		return false
	}
	if !s.hasRequiredSkills(w, st) {
		return false
	}
	// Anyone coming off a night shift is blocked for the whole next
	// day: nights cross midnight.
	if nightYesterday[w.Name] {
		return false
	}
	if s.hasOverlap(w, date, st, sched) {
		return false
	}
	if rs.hours[w.Name]+st.Hours > w.MaxHours {
		return false
	}
	if s.restrictedByYesterday(w, date, st, sched) {
		return false
	}
	if category := st.Category(); category != "" {
		if limit, capped := w.Limits[category]; capped {
			if rs.categoryCount[w.Name][category] >= limit {
				return false
			}
		}
	}
	if st.Night {
		if s.hasNearbyNight(w, date, sched) {
			return false
		}
		// A night assignment forbids any shift the following day, so
		// a worker already booked tomorrow cannot take tonight.
		if len(sched.WorkerShifts(w.Name, date.AddDate(0, 0, 1))) > 0 {
			return false
		}
	}
	if st.Mixing && !s.mixingRatioHolds(date, st, w, sched) {
		return false
	}
	if w.HasSkill(SkillJunior) && s.juniorInDepartment(w, date, st.Department, sched) {
		return false
	}
	return true
}

func (s *Scheduler) hasRequiredSkills(w *Worker, st *ShiftType) bool {
	for _, skill := range st.RequiredSkills {
		if !w.HasSkill(skill) {
			return false
		}
	}
	return true
}

// hasOverlap reports a time conflict with another shift already held by
// the worker on the same date
func (s *Scheduler) hasOverlap(w *Worker, date time.Time, st *ShiftType, sched *Schedule) bool {
	for _, code := range sched.WorkerShifts(w.Name, date) {
		if code == st.Code {
			continue
		}
		if existing := s.shiftsByCode[code]; existing != nil && st.Overlaps(existing) {
			return true
		}
	}
	return false
}

// restrictedByYesterday reports whether any shift the worker held
// yesterday forbids this shift code today
func (s *Scheduler) restrictedByYesterday(w *Worker, date time.Time, st *ShiftType, sched *Schedule) bool {
	yesterday := date.AddDate(0, 0, -1)
	for _, code := range sched.WorkerShifts(w.Name, yesterday) {
		if prev := s.shiftsByCode[code]; prev != nil && prev.RestrictedNext[st.Code] {
			return true
		}
	}
	return false
}

// hasNearbyNight reports a night shift held by the worker within two
// days of the date, in either direction
func (s *Scheduler) hasNearbyNight(w *Worker, date time.Time, sched *Schedule) bool {
	for _, delta := range []int{-2, -1, 1, 2} {
		check := date.AddDate(0, 0, delta)
		for _, code := range sched.WorkerShifts(w.Name, check) {
			if st := s.shiftsByCode[code]; st != nil && st.Night {
				return true
			}
		}
	}
	return false
}

// workersOnNight returns the set of workers holding a night shift on the
// given date
func (s *Scheduler) workersOnNight(sched *Schedule, date time.Time) map[string]bool {
	on := map[string]bool{}
	for _, st := range s.shifts {
		if !st.Night {
			continue
		}
		if v := sched.Get(date, st.Code); v != CellNoShift && v != CellUnfilled {
			on[v] = true
		}
	}
	return on
}

// mixingRatioHolds checks that assigning the candidate keeps the share
// of mixing experts among that day's mixing-shift workers at 2/3 or
// above
func (s *Scheduler) mixingRatioHolds(date time.Time, st *ShiftType, candidate *Worker, sched *Schedule) bool {
	total := 0
	experts := 0
	for _, other := range s.shifts {
		if !other.Mixing || other.Code == st.Code {
			continue
		}
		v := sched.Get(date, other.Code)
		if v == CellNoShift || v == CellUnfilled {
			continue
		}
		total++
		if w := s.workersByName[v]; w != nil && w.HasSkill(SkillMixingExpert) {
			experts++
		}
	}
	total++
	if candidate.HasSkill(SkillMixingExpert) {
		experts++
	}
	return float64(experts) >= 2*float64(total)/3
}

// juniorInDepartment reports whether another junior-tagged worker
// already holds a shift in the same department on the date. Juniors in
// different departments on the same day are fine.
func (s *Scheduler) juniorInDepartment(candidate *Worker, date time.Time, department string, sched *Schedule) bool {
	for _, st := range s.shifts {
		if st.Department != department {
			continue
		}
		v := sched.Get(date, st.Code)
		if v == CellNoShift || v == CellUnfilled || v == candidate.Name {
			continue
		}
		if w := s.workersByName[v]; w != nil && w.HasSkill(SkillJunior) {
			return true
		}
	}
	return false
}
