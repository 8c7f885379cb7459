package attendance

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type CheckRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (r *CheckRequest) Validate() error {
	if r.Notes != nil && len(*r.Notes) > 1000 {
		return validator.ValidationErrors{{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		}}
	}
	return nil
}

type AttendanceResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	EmployeeName *string    `json:"employee_name,omitempty"`
	Date         string     `json:"date"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Status       Status     `json:"status"`
	Notes        *string    `json:"notes,omitempty"`
	WorkedHours  float64    `json:"worked_hours"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		EmployeeName: a.EmployeeName,
		Date:         a.Date.Format(validator.DateLayout),
		CheckInTime:  a.CheckInTime,
		CheckOutTime: a.CheckOutTime,
		Status:       a.Status,
		Notes:        a.Notes,
		WorkedHours:  float64(int(a.WorkedDuration().Hours()*100)) / 100,
	}
}

const (
	ActionCheckIn  = "check_in"
	ActionCheckOut = "check_out"
)

type ToggleResponse struct {
	Action     string             `json:"action"`
	Attendance AttendanceResponse `json:"attendance"`
}

type TodayResponse struct {
	IsCheckedIn bool                `json:"is_checked_in"`
	Attendance  *AttendanceResponse `json:"attendance,omitempty"`
}

type ListAttendanceResponse struct {
	Records []AttendanceResponse `json:"records"`
	Month   string               `json:"month"`
	Total   int64                `json:"total"`
}
