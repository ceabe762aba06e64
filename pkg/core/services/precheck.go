package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/drugpurchasing/shift-roster/internal/config"
	"github.com/drugpurchasing/shift-roster/pkg/core/scheduler"
)

// PrecheckResult lists the staffing shortages found for a period
type PrecheckResult struct {
	Horizon   []time.Time
	Shortages []scheduler.StaffingShortage
}

// Precheck runs the staffing pre-check for a period without
// generating a roster: dates where available workers fall inside the
// safety buffer of offered shifts are reported as problem days.
func Precheck(ctx context.Context, source WorkbookSource, cfg *config.Config, logger *zap.Logger, year int, month time.Month) (*PrecheckResult, error) {
	parsed, err := loadParsed(ctx, source, logger)
	if err != nil {
		return nil, err
	}

	horizon := scheduler.Horizon(year, month)
	engine, err := buildScheduler(parsed, cfg, horizon, nil)
	if err != nil {
		return nil, err
	}

	shortages := engine.PrecheckStaffing(horizon)
	for _, shortage := range shortages {
		logger.Warn("Problem day",
			zap.String("date", scheduler.DateKey(shortage.Date)),
			zap.Int("available_workers", shortage.AvailableWorkers),
			zap.Int("required_shifts", shortage.RequiredShifts))
	}
	if len(shortages) == 0 {
		logger.Info("Staffing sufficient for every date", zap.Int("dates", len(horizon)))
	}

	return &PrecheckResult{Horizon: horizon, Shortages: shortages}, nil
}
