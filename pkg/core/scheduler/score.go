package scheduler

import (
	"time"
)

// minMultiplier is the floor of the historical fairness multiplier:
// workers whose preferences were best satisfied last period have their
// preference penalty down-weighted to at most this factor, so workers
// who scored worse win contested shifts this period.
const minMultiplier = 0.7

// preferenceMultipliers derives the per-worker fairness multiplier from
// normalized historical satisfaction scores: higher score means the
// worker's preferences were better met last period. The best-satisfied
// worker lands on the floor, the least-satisfied keeps full weight.
// Without historical data every multiplier is 1.0, and workers missing
// from the table keep full weight: there is no satisfaction to repay.
func preferenceMultipliers(workers []*Worker, historical map[string]float64) map[string]float64 {
	multipliers := make(map[string]float64, len(workers))

	if len(historical) == 0 {
		for _, w := range workers {
			multipliers[w.Name] = 1.0
		}
		return multipliers
	}

	minScore, maxScore := historical[firstKey(historical)], historical[firstKey(historical)]
	for _, score := range historical {
		if score < minScore {
			minScore = score
		}
		if score > maxScore {
			maxScore = score
		}
	}

	if minScore == maxScore {
		for _, w := range workers {
			multipliers[w.Name] = 1.0
		}
		return multipliers
	}

	for _, w := range workers {
		score, ok := historical[w.Name]
		if !ok {
			multipliers[w.Name] = 1.0
			continue
		}
		normalized := (score - minScore) / (maxScore - minScore)
		multipliers[w.Name] = 1.0 - (1-minMultiplier)*normalized
	}
	return multipliers
}

func firstKey(m map[string]float64) string {
	for k := range m {
		return k
	}
	return ""
}

// PreferenceMultiplier returns the fairness multiplier for a worker
func (s *Scheduler) PreferenceMultiplier(worker string) float64 {
	if m, ok := s.multipliers[worker]; ok {
		return m
	}
	return 1.0
}

// ConsecutiveDays counts how many days in a row the worker held at
// least one shift immediately before the date, capped at maxLookback.
const maxConsecutiveLookback = 6

func (s *Scheduler) ConsecutiveDays(worker string, date time.Time, sched *Schedule) int {
	count := 0
	for d := date.AddDate(0, 0, -1); count < maxConsecutiveLookback; d = d.AddDate(0, 0, -1) {
		if len(sched.WorkerShifts(worker, d)) == 0 {
			break
		}
		count++
	}
	return count
}

// Suitability converts soft preferences into a single comparable
// penalty: lower is better. Consecutive-day and weekend terms are
// squared so repeated burdens on one worker grow superlinearly and the
// optimizer spreads them instead.
func (s *Scheduler) Suitability(w *Worker, st *ShiftType, date time.Time, sched *Schedule, rs *runState) float64 {
	consecutive := float64(s.ConsecutiveDays(w.Name, date, sched))
	weightedRank := float64(w.PreferenceRank(st.Department)) * s.PreferenceMultiplier(w.Name)

	score := s.weights.Consecutive*consecutive*consecutive +
		s.weights.Hours*rs.hours[w.Name] +
		s.weights.Preference*weightedRank

	if isWeekend(date) {
		weekend := float64(rs.weekendCount[w.Name])
		score += s.weights.Weekend * weekend * weekend
	}
	return score
}

// selectBest applies the tie-break chain of the greedy pass:
//   - night shift the day before a problem day: prefer workers who are
//     off tomorrow, so a rested worker is free for the harder day
//   - night shift: fewest nights first, then suitability
//   - mixing shift: fewest mixing shifts first, then suitability
//   - otherwise: suitability alone
func (s *Scheduler) selectBest(eligible []*Worker, st *ShiftType, date time.Time, sched *Schedule, rs *runState, dayBeforeProblemDay bool) *Worker {
	if len(eligible) == 0 {
		return nil
	}

	if st.Night && dayBeforeProblemDay {
		tomorrow := date.AddDate(0, 0, 1)
		var offTomorrow []*Worker
		for _, w := range eligible {
			if w.OnHoliday(tomorrow) {
				offTomorrow = append(offTomorrow, w)
			}
		}
		if len(offTomorrow) > 0 {
			return s.minBy(offTomorrow, st, date, sched, rs, func(w *Worker) int { return rs.nightCount[w.Name] })
		}
	}

	switch {
	case st.Night:
		return s.minBy(eligible, st, date, sched, rs, func(w *Worker) int { return rs.nightCount[w.Name] })
	case st.Mixing:
		return s.minBy(eligible, st, date, sched, rs, func(w *Worker) int { return rs.mixingCount[w.Name] })
	default:
		return s.minBy(eligible, st, date, sched, rs, nil)
	}
}

// minBy picks the worker minimizing (primary counter, suitability).
// A nil primary ranks by suitability alone. Earlier candidates win
// exact ties, which keeps shuffled input order meaningful.
func (s *Scheduler) minBy(workers []*Worker, st *ShiftType, date time.Time, sched *Schedule, rs *runState, primary func(*Worker) int) *Worker {
	best := workers[0]
	bestPrimary := 0
	if primary != nil {
		bestPrimary = primary(best)
	}
	bestScore := s.Suitability(best, st, date, sched, rs)

	for _, w := range workers[1:] {
		p := 0
		if primary != nil {
			p = primary(w)
		}
		score := s.Suitability(w, st, date, sched, rs)
		if p < bestPrimary || (p == bestPrimary && score < bestScore) {
			best, bestPrimary, bestScore = w, p, score
		}
	}
	return best
}
