package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkReports(t *testing.T) {
	name := "Eve Employee"
	plan := "Ship it"
	data, err := WorkReports([]report.WorkReport{
		{
			Date:           time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			HoursWorked:    7.5,
			TasksCompleted: "Fixed login",
			NextDayPlan:    &plan,
			EmployeeName:   &name,
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(WorkReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "Next Day Plan", rows[0][6])
	assert.Equal(t, "2024-01-15", rows[1][0])
	assert.Equal(t, "Eve Employee", rows[1][1])
	assert.Equal(t, "7.5", rows[1][2])
	assert.Equal(t, "Fixed login", rows[1][3])
	assert.Equal(t, "Ship it", rows[1][6])
}

func TestWorkReports_Empty(t *testing.T) {
	data, err := WorkReports(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(WorkReportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
