package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func writeSummariesExcel(path string, daily []DailySummary, tasks []TaskSummary) error {
	file := excelize.NewFile()
	defer file.Close()

	dailySheet := file.GetSheetName(0)
	if err := file.SetSheetName(dailySheet, "Daily"); err != nil {
		return fmt.Errorf("rename daily sheet: %w", err)
	}
	dailySheet = "Daily"

	headers := []string{"Date", "FirstStart", "LastEnd", "EffortHours", "WorklogCount"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(dailySheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}
	for i, summary := range daily {
		row := i + 2
		values := []any{
			summary.Date,
			summary.StartDateTime.Format("15:04"),
			summary.EndDateTime.Format("15:04"),
			summary.EffortHours,
			summary.WorklogCount,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(dailySheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if len(tasks) > 0 {
		taskSheet := "Tasks"
		if _, err := file.NewSheet(taskSheet); err != nil {
			return fmt.Errorf("create tasks sheet: %w", err)
		}
		taskHeaders := []string{"Task", "EffortHours", "WorklogCount"}
		for col, header := range taskHeaders {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := file.SetCellValue(taskSheet, cell, header); err != nil {
				return fmt.Errorf("set excel task header %s: %w", cell, err)
			}
		}
		for i, summary := range tasks {
			row := i + 2
			values := []any{summary.Task, summary.EffortHours, summary.WorklogCount}
			for col, value := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := file.SetCellValue(taskSheet, cell, value); err != nil {
					return fmt.Errorf("set excel task value %s: %w", cell, err)
				}
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
