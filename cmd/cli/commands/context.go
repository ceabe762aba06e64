package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/drugpurchasing/shift-roster/internal/config"
	"github.com/drugpurchasing/shift-roster/pkg/clients/sheetsclient"
	"github.com/drugpurchasing/shift-roster/pkg/core/services"
	"github.com/drugpurchasing/shift-roster/pkg/db"
	"github.com/drugpurchasing/shift-roster/pkg/workbook"
)

// AppContext holds the application dependencies shared across all
// commands. Store and Publisher are nil when the config does not set
// up a database or a spreadsheet.
type AppContext struct {
	Cfg       *config.Config
	Source    services.WorkbookSource
	Store     db.RosterStore
	Publisher services.SchedulePublisher
	Logger    *zap.Logger
	Ctx       context.Context
}

// CSVSource loads the workbook from a directory of CSV exports
type CSVSource struct {
	Dir string
}

func (s CSVSource) LoadWorkbook(ctx context.Context) (*workbook.Workbook, error) {
	return workbook.LoadCSVDir(s.Dir)
}

// SheetsSource loads the workbook from the configured spreadsheet
type SheetsSource struct {
	Client        *sheetsclient.Client
	SpreadsheetID string
}

func (s SheetsSource) LoadWorkbook(ctx context.Context) (*workbook.Workbook, error) {
	return s.Client.LoadWorkbook(s.SpreadsheetID)
}

// defaultPeriod returns the upcoming month, which is the period an
// operator almost always wants to roster next
func defaultPeriod(now time.Time) (int, time.Month) {
	next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return next.Year(), next.Month()
}
