package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{
	"Prompt", "Status", "Started At", "Completed At", "Duration (ms)", "Success Message", "Error Message",
}

// ExportLogsToExcel renders the execution history of a business as an XLSX
// workbook and returns the file bytes plus a suggested filename.
func ExportLogsToExcel(ctx context.Context, repo Repository, business string, limit int64) ([]byte, string, error) {
	logs, err := repo.ListByBusiness(ctx, business, limit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load execution logs: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Execution Logs"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, log := range logs {
		completed := ""
		if log.CompletedAt != nil {
			completed = log.CompletedAt.Format("2006-01-02 15:04:05")
		}
		values := []interface{}{
			log.PromptTitle,
			string(log.Status),
			log.StartedAt.Format("2006-01-02 15:04:05"),
			completed,
			log.DurationMs,
			log.SuccessMessage,
			log.ErrorMessage,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 22)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("execution-logs-%s.xlsx", time.Now().Format("2006-01-02"))
	return buffer.Bytes(), filename, nil
}
