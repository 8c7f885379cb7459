package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

const AutoCloseStaleAttendance = "auto_close_stale_attendance"

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	notifier       notification.Notifier
	now            func() time.Time
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, notifier notification.Notifier) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(AutoCloseStaleAttendance, 1*time.Hour, j.AutoCloseStaleAttendances)
}

// AutoCloseStaleAttendances marks rows from previous days that were never
// checked out as incomplete and tells their owners.
func (j *AttendanceJobs) AutoCloseStaleAttendances(ctx context.Context) error {
	now := j.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	closed, err := j.attendanceRepo.CloseStale(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to close stale attendance: %w", err)
	}
	if len(closed) == 0 {
		slog.Debug("cron: no stale attendance found")
		return nil
	}

	for _, row := range closed {
		if j.notifier == nil {
			break
		}
		j.notifier.Notify(row.UserID, notification.Success(
			"Attendance Incomplete",
			fmt.Sprintf("No check-out was recorded for %s; the day was marked incomplete.", row.Date.Format(validator.DateLayout)),
		))
	}

	slog.Info("cron: closed stale attendance", "count", len(closed))
	return nil
}
