package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drugpurchasing/shift-roster/cmd/cli/commands"
	"github.com/drugpurchasing/shift-roster/internal/config"
	"github.com/drugpurchasing/shift-roster/pkg/clients/sheetsclient"
	"github.com/drugpurchasing/shift-roster/pkg/postgres"
	"github.com/drugpurchasing/shift-roster/pkg/utils/logging"
)

var (
	env        string
	configPath string
	source     string
	verbose    bool
	app        *commands.AppContext
	database   *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Pharmacy duty roster CLI - Generate and manage monthly shift rosters",
		Long:  `A CLI tool for generating optimized monthly duty rosters from a staff workbook, checking staffing levels, and replaying negotiation suggestions for unfilled shifts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file (default: search cwd then home)")
	rootCmd.PersistentFlags().StringVar(&source, "source", "auto", "Workbook source: auto, csv or sheets")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.GenerateCmd(appRef()))
	rootCmd.AddCommand(commands.PrecheckCmd(appRef()))
	rootCmd.AddCommand(commands.ListWorkersCmd(appRef()))
	rootCmd.AddCommand(commands.SuggestCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared context the commands close over. The
// fields are populated later by initApp, which runs before any RunE.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, workbook source, database and publisher
func initApp() error {
	var err error
	a := appRef()
	a.Ctx = context.Background()

	// Initialize logger
	a.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	a.Logger.Info("Loading configuration")
	if configPath != "" {
		a.Cfg, err = config.LoadFromPath(configPath)
	} else {
		a.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Logger.Debug("Configuration loaded successfully")

	// Select the workbook source: a local CSV directory wins over the
	// hosted spreadsheet so operators can iterate on exported copies,
	// unless --source forces one side
	useCSV := a.Cfg.WorkbookDir != ""
	switch source {
	case "auto":
	case "csv":
		if a.Cfg.WorkbookDir == "" {
			return fmt.Errorf("--source=csv requires a workbook_dir in the config")
		}
		useCSV = true
	case "sheets":
		if a.Cfg.SpreadsheetID == "" {
			return fmt.Errorf("--source=sheets requires a spreadsheet_id in the config")
		}
		useCSV = false
	default:
		return fmt.Errorf("unknown source %q (want auto, csv or sheets)", source)
	}

	if useCSV {
		a.Logger.Info("Using CSV workbook source", zap.String("dir", a.Cfg.WorkbookDir))
		a.Source = commands.CSVSource{Dir: a.Cfg.WorkbookDir}

		// Publishing stays possible when a spreadsheet is configured
		// alongside the CSV source
		if a.Cfg.SpreadsheetID != "" && a.Cfg.OAuth != nil {
			client, err := sheetsclient.NewClient(a.Ctx, a.Cfg.OAuth, env)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}
			a.Publisher = client
		}
	} else {
		a.Logger.Info("Initializing sheets client", zap.String("spreadsheet_id", a.Cfg.SpreadsheetID))
		client, err := sheetsclient.NewClient(a.Ctx, a.Cfg.OAuth, env)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		a.Source = commands.SheetsSource{Client: client, SpreadsheetID: a.Cfg.SpreadsheetID}
		a.Publisher = client
		a.Logger.Debug("Sheets client initialized successfully")
	}

	// Connect to the database when configured
	if a.Cfg.PostgresURL != "" {
		a.Logger.Info("Connecting to database")
		database, err = postgres.NewDB(a.Ctx, a.Cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(a.Ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		a.Store = database
		a.Logger.Info("Database initialized successfully")
	} else {
		a.Logger.Debug("No postgres_url configured, runs will not be persisted")
	}

	return nil
}
