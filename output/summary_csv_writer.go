package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

func writeSummariesCSV(path string, daily []DailySummary, tasks []TaskSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Date", "FirstStart", "LastEnd", "EffortHours", "WorklogCount"}); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, summary := range daily {
		row := []string{
			summary.Date,
			summary.StartDateTime.Format("15:04"),
			summary.EndDateTime.Format("15:04"),
			fmt.Sprintf("%.2f", summary.EffortHours),
			strconv.Itoa(summary.WorklogCount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if len(tasks) > 0 {
		if err := writer.Write([]string{}); err != nil {
			return fmt.Errorf("write csv separator: %w", err)
		}
		if err := writer.Write([]string{"Task", "EffortHours", "WorklogCount"}); err != nil {
			return fmt.Errorf("write csv task headers: %w", err)
		}
		for _, summary := range tasks {
			row := []string{
				summary.Task,
				fmt.Sprintf("%.2f", summary.EffortHours),
				strconv.Itoa(summary.WorklogCount),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write csv task row: %w", err)
			}
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
