package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drugpurchasing/shift-roster/pkg/core/services"
)

// ListWorkersCmd creates the listWorkers command
func ListWorkersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listWorkers",
		Short: "Show the parsed worker pool and shift catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ListWorkers(app.Ctx, app.Source, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nWorkers (%d):\n\n", len(result.Workers))

			nameColWidth := 12
			for _, w := range result.Workers {
				if len(w.Name)+2 > nameColWidth {
					nameColWidth = len(w.Name) + 2
				}
			}

			for _, w := range result.Workers {
				fmt.Printf("  %-*s%6.0fh max", nameColWidth, w.Name, w.MaxHours)
				if len(w.Skills) > 0 {
					fmt.Printf("  skills: %s", strings.Join(sortedKeys(w.Skills), ", "))
				}
				if len(w.Holidays) > 0 {
					fmt.Printf("  holidays: %d", len(w.Holidays))
				}
				if !w.HasPreferences {
					fmt.Printf("  (no preferences declared)")
				}
				fmt.Println()
			}

			fmt.Printf("\nShift types (%d):\n\n", len(result.Shifts))
			for _, st := range result.Shifts {
				fmt.Printf("  %-12s%-10s%5.1fh  %s\n", st.Code, st.Availability, st.Hours, st.Description)
			}

			if len(result.Warnings) > 0 {
				fmt.Printf("\nWarnings (%d):\n", len(result.Warnings))
				for _, warning := range result.Warnings {
					fmt.Printf("  - %s\n", warning)
				}
			}
			fmt.Println()

			return nil
		},
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
