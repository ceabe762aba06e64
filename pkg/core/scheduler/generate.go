package scheduler

import (
	"time"
)

// Attempt is the outcome of a single greedy generation pass. A failed
// attempt names the slot that could not be filled on a non-problem day;
// the optimizer discards such attempts. Unfilled slots on problem days
// are tolerated and surface in the final report instead.
type Attempt struct {
	Schedule             *Schedule
	UnfilledProblemSlots []SlotRef
	FailedSlot           *SlotRef

	state *runState
}

// Failed reports whether the attempt hit a hard failure
func (a *Attempt) Failed() bool {
	return a.FailedSlot != nil
}

// NightCount returns the worker's night-shift count for this attempt
func (a *Attempt) NightCount(worker string) int {
	return a.state.nightCount[worker]
}

// Hours returns the worker's assigned hours for this attempt
func (a *Attempt) Hours(worker string) float64 {
	return a.state.hours[worker]
}

// Generate runs one greedy assignment pass over the horizon. Shift and
// worker order carry the iteration's shuffle; problem days are
// scheduled before all other days. The progress callback (may be nil)
// is invoked after each date purely for observability.
func (s *Scheduler) Generate(horizon []time.Time, problemDays map[string]bool, shiftOrder []*ShiftType, workerOrder []*Worker, progress func(date time.Time)) *Attempt {
	sched := NewSchedule(horizon, s.ShiftCodes())
	rs := newRunState(s.workers)
	attempt := &Attempt{Schedule: sched, state: rs}

	s.applyPreAssignments(sched, rs)

	standardOrder, problemOrder := fillOrders(shiftOrder)

	for _, date := range processingOrder(horizon, problemDays) {
		isProblemDay := problemDays[DateKey(date)]
		dayBeforeProblemDay := problemDays[DateKey(date.AddDate(0, 0, 1))]

		order := standardOrder
		if isProblemDay {
			order = problemOrder
		}

		for _, st := range order {
			if sched.Assigned(date, st.Code) || !s.Offered(st, date) {
				continue
			}

			eligible := s.EligibleWorkers(date, st, sched, rs, workerOrder)
			if len(eligible) == 0 {
				sched.Set(date, st.Code, CellUnfilled)
				slot := SlotRef{Date: date, ShiftCode: st.Code}
				if isProblemDay {
					attempt.UnfilledProblemSlots = append(attempt.UnfilledProblemSlots, slot)
					continue
				}
				attempt.FailedSlot = &slot
				return attempt
			}

			chosen := s.selectBest(eligible, st, date, sched, rs, dayBeforeProblemDay)
			sched.Set(date, st.Code, chosen.Name)
			rs.recordAssignment(chosen.Name, st, date)
		}

		if progress != nil {
			progress(date)
		}
	}

	return attempt
}

// applyPreAssignments injects fixed assignments before the greedy pass,
// with counter accounting identical to algorithmic picks
func (s *Scheduler) applyPreAssignments(sched *Schedule, rs *runState) {
	for _, pa := range s.preAssigned {
		st := s.shiftsByCode[pa.ShiftCode]
		if st == nil || !inHorizon(sched, pa.Date) {
			continue
		}
		sched.Set(pa.Date, pa.ShiftCode, pa.Worker)
		rs.recordAssignment(pa.Worker, st, pa.Date)
	}
}

func inHorizon(sched *Schedule, date time.Time) bool {
	key := DateKey(date)
	for _, d := range sched.Dates {
		if DateKey(d) == key {
			return true
		}
	}
	return false
}

// processingOrder schedules problem days first, each partition in
// calendar order
func processingOrder(horizon []time.Time, problemDays map[string]bool) []time.Time {
	ordered := make([]time.Time, 0, len(horizon))
	for _, d := range horizon {
		if problemDays[DateKey(d)] {
			ordered = append(ordered, d)
		}
	}
	for _, d := range horizon {
		if !problemDays[DateKey(d)] {
			ordered = append(ordered, d)
		}
	}
	return ordered
}

// fillOrders partitions the shuffled shift order into the per-day fill
// sequences. Night shifts go first on normal days because fatigue rules
// shrink their candidate pool fastest; on problem days mixing and care
// shifts go first while the pool is still large enough to satisfy their
// skill-ratio constraints.
func fillOrders(shiftOrder []*ShiftType) (standard, problem []*ShiftType) {
	var nights, mixing, care, rest []*ShiftType
	for _, st := range shiftOrder {
		switch {
		case st.Night:
			nights = append(nights, st)
		case st.Mixing:
			mixing = append(mixing, st)
		case st.Care:
			care = append(care, st)
		default:
			rest = append(rest, st)
		}
	}

	standard = make([]*ShiftType, 0, len(shiftOrder))
	standard = append(standard, nights...)
	standard = append(standard, mixing...)
	standard = append(standard, care...)
	standard = append(standard, rest...)

	problem = make([]*ShiftType, 0, len(shiftOrder))
	problem = append(problem, mixing...)
	problem = append(problem, care...)
	problem = append(problem, nights...)
	problem = append(problem, rest...)

	return standard, problem
}
