// Package services orchestrates the roster pipeline behind the CLI
// commands. Each service accepts narrow interfaces so tests can
// substitute fakes for the workbook source and the database.
package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/drugpurchasing/shift-roster/internal/config"
	"github.com/drugpurchasing/shift-roster/pkg/core/scheduler"
	"github.com/drugpurchasing/shift-roster/pkg/workbook"
)

// WorkbookSource loads the roster workbook from wherever it lives: a
// CSV export directory or a hosted spreadsheet
type WorkbookSource interface {
	LoadWorkbook(ctx context.Context) (*workbook.Workbook, error)
}

// loadParsed loads and parses the workbook, logging any non-fatal
// warnings the parser produced
func loadParsed(ctx context.Context, source WorkbookSource, logger *zap.Logger) (*workbook.Parsed, error) {
	logger.Debug("Loading workbook")

	wb, err := source.LoadWorkbook(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workbook: %w", err)
	}

	parsed, err := workbook.Parse(wb)
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}

	for _, warning := range parsed.Warnings {
		logger.Warn(warning)
	}

	logger.Debug("Workbook parsed",
		zap.Int("workers", len(parsed.Workers)),
		zap.Int("shift_types", len(parsed.Shifts)),
		zap.Int("pre_assignments", len(parsed.PreAssignments)))

	return parsed, nil
}

// buildScheduler assembles the engine from the parsed workbook and the
// application config. historical overrides the workbook's historical
// scores when non-nil.
func buildScheduler(parsed *workbook.Parsed, cfg *config.Config, horizon []time.Time, historical map[string]float64) (*scheduler.Scheduler, error) {
	holidays := make(map[string]bool, len(parsed.Holidays))
	for date := range parsed.Holidays {
		holidays[date] = true
	}
	if len(horizon) > 0 {
		for date := range cfg.ExpandHolidays(horizon[0], horizon[len(horizon)-1]) {
			holidays[date] = true
		}
	}

	if historical == nil {
		historical = parsed.HistoricalScores
	}

	buffer := cfg.SchedulerSafetyBuffer()
	engine, err := scheduler.New(scheduler.Config{
		Workers:          parsed.Workers,
		Shifts:           parsed.Shifts,
		Holidays:         holidays,
		PreAssignments:   parsed.PreAssignments,
		HistoricalScores: historical,
		Weights:          cfg.SchedulerWeights(),
		SafetyBuffer:     &buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build scheduler: %w", err)
	}
	return engine, nil
}
