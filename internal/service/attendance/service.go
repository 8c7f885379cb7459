package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

const monthLayout = "2006-01"

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	now            func() time.Time
}

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
}

// Today truncates t to its UTC calendar day.
func Today(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// today returns the current row for the actor, or nil when none exists yet.
func (a *AttendanceServiceImpl) today(ctx context.Context, userID string, now time.Time) (*attendance.Attendance, error) {
	row, err := a.attendanceRepo.GetByUserAndDate(ctx, userID, Today(now))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, actor user.Actor, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := a.now().UTC()

	current, err := a.today(ctx, actor.ID, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if current != nil && current.IsCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	row, err := a.attendanceRepo.CheckIn(ctx, actor.ID, Today(now), now, req.Notes)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(row), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, actor user.Actor, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := a.now().UTC()

	current, err := a.today(ctx, actor.ID, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if current == nil || !current.IsCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}

	row, err := a.attendanceRepo.CheckOut(ctx, current.ID, now, req.Notes)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(row), nil
}

// Toggle implements attendance.AttendanceService: check out when the actor
// is checked in, otherwise check in.
func (a *AttendanceServiceImpl) Toggle(ctx context.Context, actor user.Actor) (attendance.ToggleResponse, error) {
	now := a.now().UTC()

	current, err := a.today(ctx, actor.ID, now)
	if err != nil {
		return attendance.ToggleResponse{}, err
	}

	if current != nil && current.IsCheckedIn() {
		row, err := a.attendanceRepo.CheckOut(ctx, current.ID, now, nil)
		if err != nil {
			return attendance.ToggleResponse{}, err
		}
		return attendance.ToggleResponse{
			Action:     attendance.ActionCheckOut,
			Attendance: attendance.NewAttendanceResponse(row),
		}, nil
	}

	row, err := a.attendanceRepo.CheckIn(ctx, actor.ID, Today(now), now, nil)
	if err != nil {
		return attendance.ToggleResponse{}, err
	}
	return attendance.ToggleResponse{
		Action:     attendance.ActionCheckIn,
		Attendance: attendance.NewAttendanceResponse(row),
	}, nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, actor user.Actor) (attendance.TodayResponse, error) {
	current, err := a.today(ctx, actor.ID, a.now())
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	if current == nil {
		return attendance.TodayResponse{}, nil
	}
	resp := attendance.NewAttendanceResponse(*current)
	return attendance.TodayResponse{
		IsCheckedIn: current.IsCheckedIn(),
		Attendance:  &resp,
	}, nil
}

// ListMyAttendance implements attendance.AttendanceService. month is
// YYYY-MM; empty means the current month.
func (a *AttendanceServiceImpl) ListMyAttendance(ctx context.Context, actor user.Actor, month string) (attendance.ListAttendanceResponse, error) {
	from, to, err := MonthRange(month, a.now())
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	filter := attendance.AttendanceFilter{
		UserID: &actor.ID,
		From:   &from,
		To:     &to,
	}
	rows, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records := make([]attendance.AttendanceResponse, 0, len(rows))
	for _, r := range rows {
		records = append(records, attendance.NewAttendanceResponse(r))
	}
	return attendance.ListAttendanceResponse{
		Records: records,
		Month:   from.Format(monthLayout),
		Total:   int64(len(records)),
	}, nil
}

// MonthRange returns the first and last day of month (YYYY-MM), or of the
// month containing now when month is empty.
func MonthRange(month string, now time.Time) (time.Time, time.Time, error) {
	var first time.Time
	if month == "" {
		n := now.UTC()
		first = time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		t, err := time.Parse(monthLayout, month)
		if err != nil {
			return time.Time{}, time.Time{}, validator.ValidationErrors{{
				Field:   "month",
				Message: fmt.Sprintf("month must be in YYYY-MM format, got %q", month),
			}}
		}
		first = t
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}
