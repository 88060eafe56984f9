package api

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/farepass/roster-engine/subsidy"
)

// =============================================================================
// SUBSIDY REPORT EXPORT - XLSX rendering of a month's totals
// =============================================================================

var reportColumns = []string{
	"Employee", "Org Unit", "Weekdays", "Saturdays", "Sundays/Holidays",
	"Total Days", "Daily Fare", "Total Subsidy",
}

// BuildSubsidyWorkbook renders one sheet: a row per employee plus a
// terminating total row. The caller owns closing the returned file.
func BuildSubsidyWorkbook(year int, month time.Month, totals subsidy.Totals) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := fmt.Sprintf("Subsidy %d-%02d", year, month)
	f.SetSheetName("Sheet1", sheet)

	if err := writeRow(f, sheet, 1, toAnySlice(reportColumns)); err != nil {
		f.Close()
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		end, _ := excelize.CoordinatesToCellName(len(reportColumns), 1)
		_ = f.SetCellStyle(sheet, "A1", end, style)
	}

	row := 2
	for _, s := range totals.PerEmployee {
		values := []any{
			s.EmployeeName, s.OrgUnit,
			s.WeekdaysWorked, s.SaturdaysWorked, s.SundaysHolidaysWorked,
			s.TotalDaysWorked, s.DailyFare.StringFixed(2), s.TotalSubsidy.StringFixed(2),
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}

	total := []any{"TOTAL", "", "", "", "", "", "", totals.Total.StringFixed(2)}
	if err := writeRow(f, sheet, row, total); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toAnySlice(strs []string) []any {
	out := make([]any, len(strs))
	for i, s := range strs {
		out[i] = s
	}
	return out
}
