package sheetsclient

import (
	"fmt"
	"strings"

	"github.com/drugpurchasing/shift-roster/pkg/workbook"
)

// workbookTabs are the tab titles read from the spreadsheet. The first
// four are required; Parse enforces that, not the client.
var workbookTabs = []string{
	workbook.TableWorkers,
	workbook.TableShifts,
	workbook.TableDepartments,
	workbook.TablePreAssignments,
	workbook.TableHistoricalScores,
	workbook.TableSpecialNotes,
	workbook.TableShiftLimits,
	workbook.TableHolidays,
}

// LoadWorkbook reads every recognized tab of the spreadsheet into a
// workbook. Missing optional tabs are skipped.
func (c *Client) LoadWorkbook(spreadsheetID string) (*workbook.Workbook, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	present := map[string]bool{}
	for _, sheet := range spreadsheet.Sheets {
		present[strings.ToLower(sheet.Properties.Title)] = true
	}

	var tables []*workbook.Table
	for _, tab := range workbookTabs {
		if !present[strings.ToLower(tab)] {
			continue
		}

		values, err := c.GetValues(spreadsheetID, tab)
		if err != nil {
			return nil, fmt.Errorf("failed to read tab %s: %w", tab, err)
		}
		if len(values) == 0 {
			continue
		}

		tables = append(tables, &workbook.Table{
			Name:   tab,
			Header: stringRow(values[0]),
			Rows:   stringRows(values[1:]),
		})
	}

	return workbook.New(tables...), nil
}

func stringRow(row []interface{}) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = fmt.Sprint(cell)
	}
	return out
}

func stringRows(rows [][]interface{}) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = stringRow(row)
	}
	return out
}
