package attendance

import (
	"context"
	"time"
)

// AttendanceFilter narrows list and count queries.
type AttendanceFilter struct {
	UserID     *string
	Department *string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// AttendanceRepository - interface for attendance table
type AttendanceRepository interface {
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)
	// CheckIn upserts the (user, date) row. An existing row is reopened: its
	// check-out is cleared and the first check-in time kept.
	CheckIn(ctx context.Context, userID string, date time.Time, at time.Time, notes *string) (Attendance, error)
	// CheckOut closes an open row. It returns ErrNotCheckedIn when the row is
	// not open.
	CheckOut(ctx context.Context, id string, at time.Time, notes *string) (Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
	Count(ctx context.Context, filter AttendanceFilter) (int64, error)
	// CloseStale marks rows dated before day that are still checked in as
	// incomplete and returns them.
	CloseStale(ctx context.Context, before time.Time) ([]Attendance, error)
}
