package scheduler

import (
	"fmt"
	"sort"
	"time"
)

// maxSuggestions is the number of candidates presented per unfilled
// shift
const maxSuggestions = 3

// NegotiationCandidate is one ranked suggestion for an unfilled shift
type NegotiationCandidate struct {
	Worker    string
	OnHoliday bool
	Score     float64
}

// Annotation renders the availability note shown next to a candidate
func (c NegotiationCandidate) Annotation() string {
	if c.OnHoliday {
		return "(On Holiday)"
	}
	return "(Available)"
}

// NegotiationSuggestion lists the ranked candidates for one unfilled
// shift
type NegotiationSuggestion struct {
	Slot       SlotRef
	Candidates []NegotiationCandidate
}

// Summary renders the suggestion as human-readable lines. An empty
// candidate list yields an explicit no-candidate message instead of
// nothing.
func (n NegotiationSuggestion) Summary() []string {
	if len(n.Candidates) == 0 {
		return []string{"No suitable candidate found"}
	}
	lines := make([]string, len(n.Candidates))
	for i, c := range n.Candidates {
		lines[i] = fmt.Sprintf("%d. %s %s", i+1, c.Worker, c.Annotation())
	}
	return lines
}

// NegotiationSuggestions ranks off-duty candidates for every UNFILLED
// cell of the final schedule. The search is deliberately relaxed: only
// skill match and zero shifts on the date are required, because the
// output feeds human negotiation, not automatic assignment. Candidates
// not on holiday rank first, then by suitability.
func (s *Scheduler) NegotiationSuggestions(sched *Schedule) []NegotiationSuggestion {
	rs := s.rebuildState(sched)

	var suggestions []NegotiationSuggestion
	for _, slot := range sched.UnfilledSlots() {
		st := s.shiftsByCode[slot.ShiftCode]
		if st == nil {
			continue
		}
		suggestions = append(suggestions, NegotiationSuggestion{
			Slot:       slot,
			Candidates: s.rankNegotiationCandidates(slot.Date, st, sched, rs),
		})
	}
	return suggestions
}

func (s *Scheduler) rankNegotiationCandidates(date time.Time, st *ShiftType, sched *Schedule, rs *runState) []NegotiationCandidate {
	var candidates []NegotiationCandidate
	for _, w := range s.workers {
		if !s.hasRequiredSkills(w, st) {
			continue
		}
		if len(sched.WorkerShifts(w.Name, date)) > 0 {
			continue
		}
		candidates = append(candidates, NegotiationCandidate{
			Worker:    w.Name,
			OnHoliday: w.OnHoliday(date),
			Score:     s.Suitability(w, st, date, sched, rs),
		})
	}

	// Not-on-holiday first, then ascending suitability
	sort.SliceStable(candidates, func(i, j int) bool {
		return negotiationLess(candidates[i], candidates[j])
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	return candidates
}

func negotiationLess(a, b NegotiationCandidate) bool {
	if a.OnHoliday != b.OnHoliday {
		return !a.OnHoliday
	}
	return a.Score < b.Score
}

// rebuildState re-derives run counters from a finished schedule so that
// negotiation scoring sees the same hour and weekend totals the greedy
// pass ended with
func (s *Scheduler) rebuildState(sched *Schedule) *runState {
	rs := newRunState(s.workers)
	for _, date := range sched.Dates {
		for _, code := range sched.ShiftCodes {
			v := sched.Get(date, code)
			if v == CellNoShift || v == CellUnfilled {
				continue
			}
			if st := s.shiftsByCode[code]; st != nil {
				if _, known := rs.hours[v]; known {
					rs.recordAssignment(v, st, date)
				}
			}
		}
	}
	return rs
}
