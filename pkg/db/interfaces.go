package db

import "context"

// RosterStore defines the database operations of the roster pipeline.
// postgres.DB implements it; services accept the interface so tests
// can substitute a fake.
type RosterStore interface {
	InsertRosterRun(ctx context.Context, run *RosterRun, assignments []Assignment, scores []WorkerScore) error
	GetRosterRun(ctx context.Context, runID string) (*RosterRun, error)
	GetLatestRosterRun(ctx context.Context) (*RosterRun, error)
	GetAssignments(ctx context.Context, runID string) ([]Assignment, error)
	GetLatestWorkerScores(ctx context.Context) (map[string]float64, error)
}
