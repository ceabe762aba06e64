package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drugpurchasing/shift-roster/pkg/core/services"
)

// SuggestCmd creates the suggest command
func SuggestCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [run_id]",
		Short: "Replay negotiation suggestions for a persisted run (latest when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("suggest requires a postgres_url in the config")
			}

			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			app.Logger.Debug("suggest command", zap.String("run_id", runID))

			result, err := services.Suggest(app.Ctx, app.Store, app.Source, app.Cfg, app.Logger, runID)
			if err != nil {
				return err
			}

			fmt.Printf("\nRun %s (%d-%02d, generated %s)\n\n",
				result.Run.ID, result.Run.Year, result.Run.Month, result.Run.GeneratedAt)

			if len(result.Suggestions) == 0 {
				fmt.Printf("✓ No unfilled shifts in this run\n")
				return nil
			}

			fmt.Printf("Unfilled shifts and suggested candidates:\n\n")
			for _, suggestion := range result.Suggestions {
				fmt.Printf("  %s\n", suggestion.Slot)
				for _, line := range suggestion.Summary() {
					fmt.Printf("    %s\n", line)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
