package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/drugpurchasing/shift-roster/pkg/core/scheduler"
)

// ListWorkersResult carries the parsed worker pool and any
// parse warnings
type ListWorkersResult struct {
	Workers  []*scheduler.Worker
	Shifts   []*scheduler.ShiftType
	Warnings []string
}

// ListWorkers loads the workbook and returns the parsed worker pool,
// for inspecting what the scheduler will actually see
func ListWorkers(ctx context.Context, source WorkbookSource, logger *zap.Logger) (*ListWorkersResult, error) {
	parsed, err := loadParsed(ctx, source, logger)
	if err != nil {
		return nil, err
	}

	return &ListWorkersResult{
		Workers:  parsed.Workers,
		Shifts:   parsed.Shifts,
		Warnings: parsed.Warnings,
	}, nil
}
