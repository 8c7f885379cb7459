package report

import "time"

// WorkReport is one user's report for one calendar day.
type WorkReport struct {
	ID             string
	UserID         string
	Date           time.Time
	HoursWorked    float64
	TasksCompleted string
	Achievements   *string
	Challenges     *string
	NextDayPlan    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Relationships (for responses)
	EmployeeName *string
}
