package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drugpurchasing/shift-roster/pkg/core/scheduler"
	"github.com/drugpurchasing/shift-roster/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	var (
		year       int
		month      int
		iterations int
		seed       int64
		outDir     string
		dryRun     bool
		publish    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an optimized duty roster for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be between 1 and 12, got: %d", month)
			}
			if iterations == 0 {
				iterations = app.Cfg.Iterations
			}
			if publish && app.Publisher == nil {
				return fmt.Errorf("publishing requires a spreadsheet_id and oauth client in the config")
			}

			app.Logger.Debug("generate command",
				zap.Int("year", year),
				zap.Int("month", month),
				zap.Int("iterations", iterations))

			result, err := services.GenerateRoster(app.Ctx, services.GenerateDeps{
				Source:    app.Source,
				Store:     app.Store,
				Publisher: app.Publisher,
				Config:    app.Cfg,
				Logger:    app.Logger,
			}, services.GenerateParams{
				Year:       year,
				Month:      time.Month(month),
				Iterations: iterations,
				Seed:       seed,
				OutDir:     outDir,
				DryRun:     dryRun,
				Publish:    publish,
			})
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\n✓ Roster generated for %s %d\n\n", time.Month(month), year)
			fmt.Printf("Run ID:     %s\n", result.RunID)
			fmt.Printf("Seed:       %d\n", result.Seed)
			fmt.Printf("Iterations: %d\n\n", iterations)

			metrics := result.Result.Metrics
			fmt.Printf("Unfilled problem shifts: %d\n", metrics.UnfilledProblemShifts)
			fmt.Printf("Hour stdev:              %.2f\n", metrics.HourStdev)
			fmt.Printf("Weighted penalty:        %.2f\n\n", metrics.WeightedPenalty(app.Cfg.SchedulerWeights()))

			if len(result.Result.ProblemDays) > 0 {
				fmt.Printf("Problem days (short-staffed, gaps tolerated):\n")
				for _, shortage := range result.Result.ProblemDays {
					fmt.Printf("  %s: %d workers available, %d shifts required\n",
						scheduler.DateKey(shortage.Date), shortage.AvailableWorkers, shortage.RequiredShifts)
				}
				fmt.Println()
			}

			if len(result.Suggestions) > 0 {
				fmt.Printf("Unfilled shifts and suggested candidates:\n")
				for _, suggestion := range result.Suggestions {
					fmt.Printf("  %s\n", suggestion.Slot)
					for _, line := range suggestion.Summary() {
						fmt.Printf("    %s\n", line)
					}
				}
				fmt.Println()
			}

			if result.Files != nil {
				fmt.Printf("Files written:\n")
				fmt.Printf("  %s\n", result.Files.Roster)
				fmt.Printf("  %s\n", result.Files.Summaries)
				if result.Files.Negotiation != "" {
					fmt.Printf("  %s\n", result.Files.Negotiation)
				}
				fmt.Println()
			}

			if result.Persisted {
				fmt.Printf("✓ Run persisted to database\n")
			} else if dryRun {
				fmt.Printf("Dry run: nothing persisted\n")
			}
			if result.Published {
				fmt.Printf("✓ Roster published to spreadsheet\n")
			}

			return nil
		},
	}

	defaultYear, defaultMonth := defaultPeriod(time.Now())
	cmd.Flags().IntVar(&year, "year", defaultYear, "Roster year")
	cmd.Flags().IntVar(&month, "month", int(defaultMonth), "Roster month (1-12)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Optimization attempts (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible runs (0 = from clock)")
	cmd.Flags().StringVar(&outDir, "out", "output", "Directory for the exported roster files (empty = skip export)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate without persisting the run")
	cmd.Flags().BoolVar(&publish, "publish", false, "Write the roster grid back to the spreadsheet")

	return cmd
}
