package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drugpurchasing/shift-roster/internal/config"
	"github.com/drugpurchasing/shift-roster/pkg/core/scheduler"
	"github.com/drugpurchasing/shift-roster/pkg/db"
	"github.com/drugpurchasing/shift-roster/pkg/export"
)

// SchedulePublisher writes a finished roster grid back to the hosted
// spreadsheet
type SchedulePublisher interface {
	PublishSchedule(spreadsheetID string, year, month int, grid [][]string) error
}

// GenerateParams are the knobs of one generation run
type GenerateParams struct {
	Year       int
	Month      time.Month
	Iterations int

	// Seed fixes the shuffle order for reproducible runs; zero draws
	// from the clock
	Seed int64

	OutDir  string
	DryRun  bool
	Publish bool
}

// GenerateDeps are the collaborators of the generate pipeline. Store
// and Publisher may be nil when persistence or publishing is not
// configured.
type GenerateDeps struct {
	Source    WorkbookSource
	Store     db.RosterStore
	Publisher SchedulePublisher
	Config    *config.Config
	Logger    *zap.Logger
}

// GenerateResult is the outcome of a full generation run
type GenerateResult struct {
	RunID       string
	Seed        int64
	Result      *scheduler.Result
	Summaries   []scheduler.WorkerSummary
	Suggestions []scheduler.NegotiationSuggestion
	Files       *export.Files
	Persisted   bool
	Published   bool
}

// GenerateRoster runs the full pipeline: load the workbook, pre-check
// staffing, optimize, derive negotiation suggestions and summaries,
// export the files, and persist the run unless this is a dry run.
func GenerateRoster(ctx context.Context, deps GenerateDeps, params GenerateParams) (*GenerateResult, error) {
	logger := deps.Logger
	logger.Info("Generating roster",
		zap.Int("year", params.Year),
		zap.String("month", params.Month.String()),
		zap.Int("iterations", params.Iterations),
		zap.Bool("dry_run", params.DryRun))

	parsed, err := loadParsed(ctx, deps.Source, logger)
	if err != nil {
		return nil, err
	}

	horizon := scheduler.Horizon(params.Year, params.Month)

	// The workbook's historical scores win; the database seeds the
	// fairness multipliers only when the sheet has none
	historical := parsed.HistoricalScores
	if len(historical) == 0 && deps.Store != nil {
		historical, err = deps.Store.GetLatestWorkerScores(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load historical scores: %w", err)
		}
		if len(historical) > 0 {
			logger.Debug("Seeded fairness multipliers from database", zap.Int("workers", len(historical)))
		}
	}

	engine, err := buildScheduler(parsed, deps.Config, horizon, historical)
	if err != nil {
		return nil, err
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	progress := scheduler.Progress{
		Iteration: func(iteration, total int) {
			logger.Debug("Starting attempt", zap.Int("iteration", iteration), zap.Int("total", total))
		},
		Improved: func(iteration int, metrics scheduler.Metrics) {
			logger.Info("Improved schedule",
				zap.Int("iteration", iteration),
				zap.Int("unfilled_problem_shifts", metrics.UnfilledProblemShifts),
				zap.Float64("hour_stdev", metrics.HourStdev))
		},
	}

	result, err := engine.Optimize(ctx, horizon, params.Iterations, rng, progress)
	if err != nil {
		return nil, fmt.Errorf("optimization failed: %w", err)
	}

	for _, shortage := range result.ProblemDays {
		logger.Warn("Problem day",
			zap.String("date", scheduler.DateKey(shortage.Date)),
			zap.Int("available_workers", shortage.AvailableWorkers),
			zap.Int("required_shifts", shortage.RequiredShifts))
	}

	summaries := engine.Summaries(result.Schedule)
	suggestions := engine.NegotiationSuggestions(result.Schedule)

	out := &GenerateResult{
		RunID:       uuid.New().String(),
		Seed:        seed,
		Result:      result,
		Summaries:   summaries,
		Suggestions: suggestions,
	}

	if params.OutDir != "" {
		files, err := export.WriteAll(params.OutDir, result.Schedule, parsed.SpecialNotes, summaries, suggestions)
		if err != nil {
			return nil, fmt.Errorf("failed to export roster: %w", err)
		}
		out.Files = files
		logger.Info("Exported roster", zap.String("dir", params.OutDir))
	}

	if deps.Store != nil && !params.DryRun {
		if err := persistRun(ctx, deps.Store, out, params, deps.Config.SchedulerWeights()); err != nil {
			return nil, err
		}
		out.Persisted = true
		logger.Info("Persisted roster run", zap.String("run_id", out.RunID))
	}

	if params.Publish && deps.Publisher != nil {
		grid := export.Grid(result.Schedule, parsed.SpecialNotes)
		if err := deps.Publisher.PublishSchedule(deps.Config.SpreadsheetID, params.Year, int(params.Month), grid); err != nil {
			return nil, fmt.Errorf("failed to publish roster: %w", err)
		}
		out.Published = true
		logger.Info("Published roster to spreadsheet")
	}

	return out, nil
}

// persistRun stores the run, its assigned and unfilled cells, and the
// per-worker satisfaction scores that seed next period's fairness
func persistRun(ctx context.Context, store db.RosterStore, out *GenerateResult, params GenerateParams, weights scheduler.Weights) error {
	result := out.Result

	run := &db.RosterRun{
		ID:                    out.RunID,
		Year:                  params.Year,
		Month:                 int(params.Month),
		Iterations:            result.Iterations,
		Seed:                  out.Seed,
		UnfilledProblemShifts: result.Metrics.UnfilledProblemShifts,
		HourStdev:             result.Metrics.HourStdev,
		WeightedPenalty:       result.Metrics.WeightedPenalty(weights),
		GeneratedAt:           time.Now().UTC().Format(time.RFC3339),
	}

	var assignments []db.Assignment
	for _, date := range result.Schedule.Dates {
		for _, code := range result.Schedule.ShiftCodes {
			cell := result.Schedule.Get(date, code)
			if cell == scheduler.CellNoShift {
				continue
			}
			worker := cell
			if cell == scheduler.CellUnfilled {
				worker = ""
			}
			assignments = append(assignments, db.Assignment{
				ID:        uuid.New().String(),
				RunID:     run.ID,
				ShiftDate: scheduler.DateKey(date),
				ShiftCode: code,
				Worker:    worker,
			})
		}
	}

	scores := make([]db.WorkerScore, 0, len(out.Summaries))
	for _, summary := range out.Summaries {
		scores = append(scores, db.WorkerScore{
			ID:     uuid.New().String(),
			RunID:  run.ID,
			Worker: summary.Worker,
			Score:  summary.PreferenceSatisfaction,
		})
	}

	if err := store.InsertRosterRun(ctx, run, assignments, scores); err != nil {
		return fmt.Errorf("failed to persist roster run: %w", err)
	}
	return nil
}
