package attendance

import "time"

type Status string

const (
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	// Left checked in past the end of its day.
	StatusIncomplete Status = "incomplete"
)

// Attendance is one user's record for one calendar day.
type Attendance struct {
	ID           string
	UserID       string
	Date         time.Time
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       Status
	Notes        *string
	CreatedAt    time.Time

	// Relationships (for responses)
	EmployeeName *string
}

// IsCheckedIn reports whether the user is currently checked in on this record.
func (a *Attendance) IsCheckedIn() bool {
	return a.CheckInTime != nil && a.CheckOutTime == nil && a.Status == StatusCheckedIn
}

// WorkedDuration is the time between check-in and check-out, zero while open.
func (a *Attendance) WorkedDuration() time.Duration {
	if a.CheckInTime == nil || a.CheckOutTime == nil {
		return 0
	}
	return a.CheckOutTime.Sub(*a.CheckInTime)
}
