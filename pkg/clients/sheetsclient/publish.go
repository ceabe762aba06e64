package sheetsclient

import (
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// PublishSchedule writes a generated roster grid to a tab named for
// the period, e.g. "Roster 2025-06". An existing tab with that name is
// overwritten in place so a re-run replaces the previous draft.
func (c *Client) PublishSchedule(spreadsheetID string, year, month int, grid [][]string) error {
	tabTitle := fmt.Sprintf("Roster %04d-%02d", year, month)

	exists, err := c.tabExists(spreadsheetID, tabTitle)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := c.CreateSheet(spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to create roster tab: %w", err)
		}
	}

	values := make([][]interface{}, len(grid))
	for i, row := range grid {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	_, err = c.service.Spreadsheets.Values.Update(
		spreadsheetID,
		fmt.Sprintf("%s!A1", tabTitle),
		&sheets.ValueRange{Values: values},
	).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("failed to write roster tab: %w", err)
	}
	return nil
}
