package leave

import (
	"math"
	"time"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// Color is the badge color used when the status is displayed.
func (s LeaveRequestStatus) Color() string {
	switch s {
	case LeaveRequestStatusApproved:
		return "green"
	case LeaveRequestStatusPending:
		return "yellow"
	case LeaveRequestStatusRejected:
		return "red"
	}
	return "gray"
}

// LeaveRequest entity
type LeaveRequest struct {
	ID               string
	UserID           string
	Type             string
	StartDate        time.Time
	EndDate          time.Time
	Reason           string
	EmergencyContact *string

	Status     LeaveRequestStatus
	ApprovedBy *string
	ApprovedAt *time.Time

	CreatedAt time.Time

	// Relationships (for responses)
	EmployeeName       *string
	EmployeeDepartment *string
}

// IsPending reports whether the request still awaits a decision.
func (l *LeaveRequest) IsPending() bool {
	return l.Status == LeaveRequestStatusPending
}

// Days returns the number of calendar days the request covers.
func (l *LeaveRequest) Days() int {
	return DayCount(l.StartDate, l.EndDate)
}

const millisPerDay = 86400000

// DayCount computes ceil((end-start)/1 day) + 1 on calendar dates. Times of day
// and zones are dropped before the subtraction. A range ending before it starts
// yields 0.
func DayCount(start, end time.Time) int {
	s := truncateDay(start)
	e := truncateDay(end)
	diff := float64(e.Sub(s).Milliseconds())
	days := int(math.Ceil(diff/millisPerDay)) + 1
	if days <= 0 {
		return 0
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
