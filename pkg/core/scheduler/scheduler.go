// Package scheduler implements the constraint-driven roster generation
// engine: eligibility filtering, suitability scoring, a randomized greedy
// assignment pass, an iterated optimizer and a negotiation fallback for
// shifts that cannot be filled.
package scheduler

import (
	"fmt"
	"time"
)

// Weights tunes the suitability scorer and the schedule-quality metrics
type Weights struct {
	// Suitability scorer terms
	Consecutive float64
	Hours       float64
	Preference  float64
	Weekend     float64

	// Schedule metric terms. Ordering of importance must be preserved:
	// hour imbalance heaviest, then weekend-off variance, then night
	// variance, then preference penalty.
	MetricHourImbalance     float64
	MetricWeekendVariance   float64
	MetricNightVariance     float64
	MetricPreferencePenalty float64
}

// DefaultWeights returns the production weight set
func DefaultWeights() Weights {
	return Weights{
		Consecutive:             8,
		Hours:                   4,
		Preference:              4,
		Weekend:                 6,
		MetricHourImbalance:     50,
		MetricWeekendVariance:   25,
		MetricNightVariance:     10,
		MetricPreferencePenalty: 1,
	}
}

// DefaultSafetyBuffer is added to the offered-shift count when flagging
// problem days
const DefaultSafetyBuffer = 3

// Config carries the immutable inputs for one scheduling run
type Config struct {
	Workers        []*Worker
	Shifts         []*ShiftType
	Holidays       map[string]bool
	PreAssignments []PreAssignment

	// HistoricalScores maps worker name to last period's total
	// preference score. Optional; empty means every fairness
	// multiplier is 1.0.
	HistoricalScores map[string]float64

	// Weights defaults to DefaultWeights when zero
	Weights Weights

	// SafetyBuffer defaults to DefaultSafetyBuffer when nil. A pointer
	// so an explicit zero buffer stays expressible.
	SafetyBuffer *int
}

// Scheduler generates duty rosters for a fixed worker and shift pool
type Scheduler struct {
	workers       []*Worker
	workersByName map[string]*Worker
	shifts        []*ShiftType
	shiftsByCode  map[string]*ShiftType
	holidays      map[string]bool
	preAssigned   []PreAssignment
	multipliers   map[string]float64
	weights       Weights
	buffer        int
}

// New validates the configuration and builds a Scheduler
func New(cfg Config) (*Scheduler, error) {
	if len(cfg.Workers) == 0 {
		return nil, fmt.Errorf("no workers configured")
	}
	if len(cfg.Shifts) == 0 {
		return nil, fmt.Errorf("no shift types configured")
	}

	workersByName := make(map[string]*Worker, len(cfg.Workers))
	for _, w := range cfg.Workers {
		if _, dup := workersByName[w.Name]; dup {
			return nil, fmt.Errorf("duplicate worker %q", w.Name)
		}
		workersByName[w.Name] = w
	}

	shiftsByCode := make(map[string]*ShiftType, len(cfg.Shifts))
	for _, st := range cfg.Shifts {
		if _, dup := shiftsByCode[st.Code]; dup {
			return nil, fmt.Errorf("duplicate shift code %q", st.Code)
		}
		shiftsByCode[st.Code] = st
	}

	for _, pa := range cfg.PreAssignments {
		if _, ok := workersByName[pa.Worker]; !ok {
			return nil, fmt.Errorf("pre-assignment references unknown worker %q", pa.Worker)
		}
		if _, ok := shiftsByCode[pa.ShiftCode]; !ok {
			return nil, fmt.Errorf("pre-assignment references unknown shift %q", pa.ShiftCode)
		}
	}

	weights := cfg.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	buffer := DefaultSafetyBuffer
	if cfg.SafetyBuffer != nil {
		buffer = *cfg.SafetyBuffer
	}

	holidays := cfg.Holidays
	if holidays == nil {
		holidays = map[string]bool{}
	}

	return &Scheduler{
		workers:       cfg.Workers,
		workersByName: workersByName,
		shifts:        cfg.Shifts,
		shiftsByCode:  shiftsByCode,
		holidays:      holidays,
		preAssigned:   cfg.PreAssignments,
		multipliers:   preferenceMultipliers(cfg.Workers, cfg.HistoricalScores),
		weights:       weights,
		buffer:        buffer,
	}, nil
}

// Workers returns the configured worker pool
func (s *Scheduler) Workers() []*Worker {
	return s.workers
}

// ShiftCodes returns the shift codes in load order
func (s *Scheduler) ShiftCodes() []string {
	codes := make([]string, len(s.shifts))
	for i, st := range s.shifts {
		codes[i] = st.Code
	}
	return codes
}

// ShiftType returns the definition for a code, or nil when unknown
func (s *Scheduler) ShiftType(code string) *ShiftType {
	return s.shiftsByCode[code]
}

// IsHoliday reports whether the date is a public holiday
func (s *Scheduler) IsHoliday(date time.Time) bool {
	return s.holidays[DateKey(date)]
}

// Horizon returns every date of the given month in calendar order
func Horizon(year int, month time.Month) []time.Time {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var dates []time.Time
	for d := start; d.Month() == month; d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
