package scheduler

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// ErrNoFeasibleSchedule is returned when every generation attempt hit a
// hard failure
var ErrNoFeasibleSchedule = errors.New("no feasible schedule found")

// Metrics are the schedule-level quality measures used to compare
// attempts
type Metrics struct {
	// UnfilledProblemShifts is compared lexicographically before
	// everything else: fewer tolerated gaps always wins outright
	UnfilledProblemShifts int

	HourImbalancePenalty float64
	HourStdev            float64
	NightVariance        float64
	WeekendOffVariance   float64
	PreferencePenalty    float64
}

// WeightedPenalty collapses the non-lexicographic metrics into one
// comparable number
func (m Metrics) WeightedPenalty(w Weights) float64 {
	return w.MetricHourImbalance*m.HourImbalancePenalty +
		w.MetricWeekendVariance*m.WeekendOffVariance +
		w.MetricNightVariance*m.NightVariance +
		w.MetricPreferencePenalty*m.PreferencePenalty
}

// Better reports whether m beats other under the lexicographic ordering
func (m Metrics) Better(other Metrics, w Weights) bool {
	if m.UnfilledProblemShifts != other.UnfilledProblemShifts {
		return m.UnfilledProblemShifts < other.UnfilledProblemShifts
	}
	return m.WeightedPenalty(w) < other.WeightedPenalty(w)
}

// Progress receives best-effort status updates during optimization.
// Callbacks must never affect scheduling outcomes.
type Progress struct {
	// Iteration is called at the start of each attempt (1-based)
	Iteration func(iteration, total int)

	// Date is called after each date is processed within an attempt
	Date func(date time.Time)

	// Improved is called when an attempt becomes the best so far
	Improved func(iteration int, metrics Metrics)
}

// Result is the outcome of an optimization run
type Result struct {
	Schedule             *Schedule
	Metrics              Metrics
	UnfilledProblemSlots []SlotRef
	ProblemDays          []StaffingShortage
	Iterations           int

	// NightCounts and Hours are the per-worker counters of the winning
	// attempt
	NightCounts map[string]int
	Hours       map[string]float64
}

// Optimize runs up to iterations shuffled greedy passes and keeps the
// best schedule under the lexicographic metric comparison. Cancellation
// is cooperative: when ctx is done the best schedule found so far is
// returned, or ErrNoFeasibleSchedule when no attempt succeeded yet. The
// random source drives the shuffle order and must be non-nil.
func (s *Scheduler) Optimize(ctx context.Context, horizon []time.Time, iterations int, rng *rand.Rand, progress Progress) (*Result, error) {
	shortages := s.PrecheckStaffing(horizon)
	problemDays := problemDaySet(shortages)

	var best *Attempt
	var bestMetrics Metrics
	ran := 0

	for i := 0; i < iterations; i++ {
		if ctx.Err() != nil {
			break
		}
		ran = i + 1

		if progress.Iteration != nil {
			progress.Iteration(i+1, iterations)
		}

		shiftOrder := make([]*ShiftType, len(s.shifts))
		copy(shiftOrder, s.shifts)
		rng.Shuffle(len(shiftOrder), func(a, b int) {
			shiftOrder[a], shiftOrder[b] = shiftOrder[b], shiftOrder[a]
		})

		workerOrder := make([]*Worker, len(s.workers))
		copy(workerOrder, s.workers)
		rng.Shuffle(len(workerOrder), func(a, b int) {
			workerOrder[a], workerOrder[b] = workerOrder[b], workerOrder[a]
		})

		attempt := s.Generate(horizon, problemDays, shiftOrder, workerOrder, progress.Date)
		if attempt.Failed() {
			continue
		}

		metrics := s.ScheduleMetrics(attempt, horizon)
		if best == nil || metrics.Better(bestMetrics, s.weights) {
			best = attempt
			bestMetrics = metrics
			if progress.Improved != nil {
				progress.Improved(i+1, metrics)
			}
		}
	}

	if best == nil {
		return nil, ErrNoFeasibleSchedule
	}

	return &Result{
		Schedule:             best.Schedule,
		Metrics:              bestMetrics,
		UnfilledProblemSlots: best.UnfilledProblemSlots,
		ProblemDays:          shortages,
		Iterations:           ran,
		NightCounts:          best.state.nightCount,
		Hours:                best.state.hours,
	}, nil
}

// ScheduleMetrics computes the quality measures for a completed attempt
func (s *Scheduler) ScheduleMetrics(attempt *Attempt, horizon []time.Time) Metrics {
	hours := make([]float64, 0, len(s.workers))
	for _, w := range s.workers {
		hours = append(hours, attempt.state.hours[w.Name])
	}

	nights := make([]float64, 0, len(s.workers))
	for _, w := range s.workers {
		nights = append(nights, float64(attempt.state.nightCount[w.Name]))
	}

	stdev := stddev(hours)
	return Metrics{
		UnfilledProblemShifts: len(attempt.UnfilledProblemSlots),
		HourImbalancePenalty:  hourImbalancePenalty(hours),
		HourStdev:             stdev,
		NightVariance:         variance(nights),
		WeekendOffVariance:    s.weekendOffVariance(attempt.Schedule, horizon),
		PreferencePenalty:     s.totalPreferencePenalty(attempt.Schedule),
	}
}

// hourImbalancePenalty punishes both spread (squared stdev) and extreme
// range: a gap above 10 hours between the most and least loaded worker
// grows quadratically.
func hourImbalancePenalty(hours []float64) float64 {
	if len(hours) < 2 {
		return 0
	}
	lo, hi := hours[0], hours[0]
	for _, h := range hours {
		if h < lo {
			lo = h
		}
		if h > hi {
			hi = h
		}
	}
	penalty := math.Pow(stddev(hours), 2)
	if hi-lo > 10 {
		penalty += math.Pow(hi-lo-10, 2)
	}
	return penalty
}

// weekendOffVariance measures how unevenly free weekend days are spread
// across workers
func (s *Scheduler) weekendOffVariance(sched *Schedule, horizon []time.Time) float64 {
	offCounts := make(map[string]int, len(s.workers))
	for _, w := range s.workers {
		offCounts[w.Name] = 0
	}
	for _, date := range horizon {
		if !isWeekend(date) {
			continue
		}
		working := map[string]bool{}
		for _, code := range sched.ShiftCodes {
			v := sched.Get(date, code)
			if v != CellNoShift && v != CellUnfilled {
				working[v] = true
			}
		}
		for _, w := range s.workers {
			if !working[w.Name] {
				offCounts[w.Name]++
			}
		}
	}
	if len(offCounts) < 2 {
		return 0
	}
	values := make([]float64, 0, len(offCounts))
	for _, w := range s.workers {
		values = append(values, float64(offCounts[w.Name]))
	}
	return variance(values)
}

// totalPreferencePenalty sums the base preference rank of every
// assignment; the fairness multiplier is deliberately excluded so the
// metric measures actual satisfaction.
func (s *Scheduler) totalPreferencePenalty(sched *Schedule) float64 {
	total := 0.0
	for _, date := range sched.Dates {
		for _, code := range sched.ShiftCodes {
			v := sched.Get(date, code)
			if v == CellNoShift || v == CellUnfilled {
				continue
			}
			w := s.workersByName[v]
			st := s.shiftsByCode[code]
			if w == nil || st == nil {
				continue
			}
			total += float64(w.PreferenceRank(st.Department))
		}
	}
	return total
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation, matching the reporting
// convention of the hour-balance summaries
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
