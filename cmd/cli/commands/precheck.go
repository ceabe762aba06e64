package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drugpurchasing/shift-roster/pkg/core/services"
)

// PrecheckCmd creates the precheck command
func PrecheckCmd(app *AppContext) *cobra.Command {
	var (
		year  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "precheck",
		Short: "Check staffing levels for a month without generating a roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be between 1 and 12, got: %d", month)
			}

			result, err := services.Precheck(app.Ctx, app.Source, app.Cfg, app.Logger, year, time.Month(month))
			if err != nil {
				return err
			}

			if len(result.Shortages) == 0 {
				fmt.Printf("\n✓ Staffing sufficient for every date in %s %d\n", time.Month(month), year)
				return nil
			}

			fmt.Printf("\n%d problem day(s) found in %s %d:\n\n", len(result.Shortages), time.Month(month), year)
			for _, shortage := range result.Shortages {
				fmt.Printf("  %s  %d workers available, %d shifts required\n",
					shortage.Date.Format("2006-01-02 (Mon)"), shortage.AvailableWorkers, shortage.RequiredShifts)
			}
			fmt.Println()
			fmt.Println("Problem days are scheduled first and may end up with unfilled shifts.")

			return nil
		},
	}

	defaultYear, defaultMonth := defaultPeriod(time.Now())
	cmd.Flags().IntVar(&year, "year", defaultYear, "Roster year")
	cmd.Flags().IntVar(&month, "month", int(defaultMonth), "Roster month (1-12)")

	return cmd
}
