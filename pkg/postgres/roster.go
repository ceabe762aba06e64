package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/drugpurchasing/shift-roster/pkg/db"
)

// InsertRosterRun persists a run with its assignments and worker
// scores in one transaction
func (d *DB) InsertRosterRun(ctx context.Context, run *db.RosterRun, assignments []db.Assignment, scores []db.WorkerScore) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO roster_run (id, year, month, iterations, seed, unfilled_problem_shifts, hour_stdev, weighted_penalty, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.ID, run.Year, run.Month, run.Iterations, run.Seed,
		run.UnfilledProblemShifts, run.HourStdev, run.WeightedPenalty, run.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to insert roster run: %w", err)
	}

	for _, a := range assignments {
		var worker *string
		if a.Worker != "" {
			worker = &a.Worker
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment (id, run_id, shift_date, shift_code, worker)
			VALUES ($1, $2, $3, $4, $5)
		`, a.ID, a.RunID, a.ShiftDate, a.ShiftCode, worker)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	for _, s := range scores {
		_, err := tx.Exec(ctx, `
			INSERT INTO worker_score (id, run_id, worker, score)
			VALUES ($1, $2, $3, $4)
		`, s.ID, s.RunID, s.Worker, s.Score)
		if err != nil {
			return fmt.Errorf("failed to insert worker score: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRosterRun retrieves one run by ID
func (d *DB) GetRosterRun(ctx context.Context, runID string) (*db.RosterRun, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, year, month, iterations, seed, unfilled_problem_shifts, hour_stdev, weighted_penalty, generated_at
		FROM roster_run
		WHERE id = $1
	`, runID)
	return scanRosterRun(row)
}

// GetLatestRosterRun retrieves the most recently generated run
func (d *DB) GetLatestRosterRun(ctx context.Context) (*db.RosterRun, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, year, month, iterations, seed, unfilled_problem_shifts, hour_stdev, weighted_penalty, generated_at
		FROM roster_run
		ORDER BY generated_at DESC
		LIMIT 1
	`)
	return scanRosterRun(row)
}

func scanRosterRun(row pgx.Row) (*db.RosterRun, error) {
	var run db.RosterRun
	var generatedAt time.Time
	err := row.Scan(&run.ID, &run.Year, &run.Month, &run.Iterations, &run.Seed,
		&run.UnfilledProblemShifts, &run.HourStdev, &run.WeightedPenalty, &generatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("roster run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan roster run: %w", err)
	}
	run.GeneratedAt = generatedAt.UTC().Format(time.RFC3339)
	return &run, nil
}

// GetAssignments retrieves the assignments of a run. Unfilled slots
// come back with an empty Worker.
func (d *DB) GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, shift_date, shift_code, worker
		FROM assignment
		WHERE run_id = $1
		ORDER BY shift_date, shift_code
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	for rows.Next() {
		var a db.Assignment
		var shiftDate time.Time
		var worker *string
		if err := rows.Scan(&a.ID, &a.RunID, &shiftDate, &a.ShiftCode, &worker); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.ShiftDate = shiftDate.Format("2006-01-02")
		if worker != nil {
			a.Worker = *worker
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return assignments, nil
}

// GetLatestWorkerScores returns each worker's score from their most
// recent run, used to seed fairness multipliers for the next period
func (d *DB) GetLatestWorkerScores(ctx context.Context) (map[string]float64, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT DISTINCT ON (ws.worker) ws.worker, ws.score
		FROM worker_score ws
		JOIN roster_run r ON r.id = ws.run_id
		ORDER BY ws.worker, r.generated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query worker scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]float64)
	for rows.Next() {
		var worker string
		var score float64
		if err := rows.Scan(&worker, &score); err != nil {
			return nil, fmt.Errorf("failed to scan worker score: %w", err)
		}
		scores[worker] = score
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating worker scores: %w", err)
	}
	return scores, nil
}
