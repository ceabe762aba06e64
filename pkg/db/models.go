// Package db holds the persistence records and store interfaces shared
// by the Postgres implementation and test fakes.
package db

// RosterRun is one persisted optimizer run for a scheduling period.
type RosterRun struct {
	ID                    string
	Year                  int
	Month                 int
	Iterations            int
	Seed                  int64
	UnfilledProblemShifts int
	HourStdev             float64
	WeightedPenalty       float64
	// GeneratedAt is RFC3339 UTC
	GeneratedAt string
}

// Assignment is one (date, shift, worker) cell of a persisted roster.
// Unfilled problem-day slots are stored with an empty Worker so the
// negotiation step can be replayed later.
type Assignment struct {
	ID        string
	RunID     string
	ShiftDate string
	ShiftCode string
	Worker    string
}

// WorkerScore is a per-worker preference-satisfaction percentage
// recorded after a run. The latest scores per worker seed the fairness
// multipliers of the next period when the workbook carries no
// historical scores.
type WorkerScore struct {
	ID     string
	RunID  string
	Worker string
	Score  float64
}
