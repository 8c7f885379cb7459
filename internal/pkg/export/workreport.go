package export

import (
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/xuri/excelize/v2"
)

const WorkReportSheet = "Work Reports"

// ContentTypeXLSX is the media type of the generated workbooks.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var workReportHeader = []interface{}{
	"Date", "Employee", "Hours Worked", "Tasks Completed", "Achievements", "Challenges", "Next Day Plan",
}

// WorkReports renders reports as a single-sheet xlsx workbook, one row per
// report in the given order.
func WorkReports(items []report.WorkReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", WorkReportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(WorkReportSheet, "A1", &workReportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(WorkReportSheet, "A1", "G1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			r.Date.Format(validator.DateLayout),
			deref(r.EmployeeName),
			r.HoursWorked,
			r.TasksCompleted,
			deref(r.Achievements),
			deref(r.Challenges),
			deref(r.NextDayPlan),
		}
		if err := f.SetSheetRow(WorkReportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(WorkReportSheet, "A", "C", 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(WorkReportSheet, "D", "G", 40); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
