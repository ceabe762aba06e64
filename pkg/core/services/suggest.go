package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/drugpurchasing/shift-roster/internal/config"
	"github.com/drugpurchasing/shift-roster/pkg/core/scheduler"
	"github.com/drugpurchasing/shift-roster/pkg/db"
)

// SuggestStore defines the database operations the suggest service
// needs
type SuggestStore interface {
	GetRosterRun(ctx context.Context, runID string) (*db.RosterRun, error)
	GetLatestRosterRun(ctx context.Context) (*db.RosterRun, error)
	GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error)
}

// SuggestResult carries the negotiation suggestions replayed for a
// stored run
type SuggestResult struct {
	Run         *db.RosterRun
	Suggestions []scheduler.NegotiationSuggestion
}

// Suggest reloads a persisted run, rebuilds its schedule grid against
// the current workbook, and re-derives the negotiation suggestions for
// its unfilled shifts. An empty runID selects the latest run.
func Suggest(ctx context.Context, store SuggestStore, source WorkbookSource, cfg *config.Config, logger *zap.Logger, runID string) (*SuggestResult, error) {
	var run *db.RosterRun
	var err error
	if runID == "" {
		run, err = store.GetLatestRosterRun(ctx)
	} else {
		run, err = store.GetRosterRun(ctx, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load roster run: %w", err)
	}

	logger.Debug("Replaying negotiation for run",
		zap.String("run_id", run.ID),
		zap.Int("year", run.Year),
		zap.Int("month", run.Month))

	parsed, err := loadParsed(ctx, source, logger)
	if err != nil {
		return nil, err
	}

	horizon := scheduler.Horizon(run.Year, time.Month(run.Month))
	engine, err := buildScheduler(parsed, cfg, horizon, nil)
	if err != nil {
		return nil, err
	}

	assignments, err := store.GetAssignments(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	sched, err := rebuildSchedule(engine, horizon, assignments)
	if err != nil {
		return nil, err
	}

	suggestions := engine.NegotiationSuggestions(sched)
	logger.Info("Negotiation suggestions derived",
		zap.Int("unfilled_shifts", len(suggestions)))

	return &SuggestResult{Run: run, Suggestions: suggestions}, nil
}

// rebuildSchedule reconstructs the schedule grid of a persisted run.
// Stored assignments with an empty worker were unfilled problem-day
// slots.
func rebuildSchedule(engine *scheduler.Scheduler, horizon []time.Time, assignments []db.Assignment) (*scheduler.Schedule, error) {
	sched := scheduler.NewSchedule(horizon, engine.ShiftCodes())

	for _, a := range assignments {
		date, err := time.Parse("2006-01-02", a.ShiftDate)
		if err != nil {
			return nil, fmt.Errorf("stored assignment has bad date %q: %w", a.ShiftDate, err)
		}
		if engine.ShiftType(a.ShiftCode) == nil {
			return nil, fmt.Errorf("stored assignment references unknown shift %q", a.ShiftCode)
		}

		value := a.Worker
		if value == "" {
			value = scheduler.CellUnfilled
		}
		sched.Set(date, a.ShiftCode, value)
	}

	return sched, nil
}
