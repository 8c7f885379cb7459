package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func setup(t *testing.T) (*fixtures.Store, *AttendanceServiceImpl, *clock, user.Actor) {
	t.Helper()
	store := fixtures.NewStore()
	u, err := store.Users().Create(context.Background(), user.User{Name: "Eve", Email: "eve@example.com", Role: user.RoleEmployee})
	require.NoError(t, err)

	c := &clock{t: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
	svc := NewAttendanceService(store.Attendance()).(*AttendanceServiceImpl)
	svc.now = c.now
	return store, svc, c, user.Actor{ID: u.ID, Role: u.Role}
}

func TestCheckInCheckOut_SingleRecord(t *testing.T) {
	ctx := context.Background()
	store, svc, c, actor := setup(t)

	in, err := svc.CheckIn(ctx, actor, attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedIn, in.Status)
	assert.Equal(t, "2024-01-15", in.Date)

	c.t = time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)
	out, err := svc.CheckOut(ctx, actor, attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, attendance.StatusCheckedOut, out.Status)
	require.NotNil(t, out.CheckInTime)
	require.NotNil(t, out.CheckOutTime)
	assert.Equal(t, 9, out.CheckInTime.Hour())
	assert.Equal(t, 17, out.CheckOutTime.Hour())
	assert.Equal(t, 8.0, out.WorkedHours)

	total, err := store.Attendance().Count(ctx, attendance.AttendanceFilter{UserID: &actor.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// a second check-in the same day reopens the row
	c.t = time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)
	toggled, err := svc.Toggle(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, attendance.ActionCheckIn, toggled.Action)
	assert.Equal(t, in.ID, toggled.Attendance.ID)
	assert.Nil(t, toggled.Attendance.CheckOutTime)
	assert.Equal(t, 9, toggled.Attendance.CheckInTime.Hour())

	total, err = store.Attendance().Count(ctx, attendance.AttendanceFilter{UserID: &actor.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestToggle_Alternates(t *testing.T) {
	ctx := context.Background()
	_, svc, _, actor := setup(t)

	first, err := svc.Toggle(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, attendance.ActionCheckIn, first.Action)

	today, err := svc.GetToday(ctx, actor)
	require.NoError(t, err)
	assert.True(t, today.IsCheckedIn)

	second, err := svc.Toggle(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, attendance.ActionCheckOut, second.Action)
	assert.Equal(t, first.Attendance.ID, second.Attendance.ID)

	today, err = svc.GetToday(ctx, actor)
	require.NoError(t, err)
	assert.False(t, today.IsCheckedIn)
	require.NotNil(t, today.Attendance)
}

func TestCheckIn_Guards(t *testing.T) {
	ctx := context.Background()
	_, svc, _, actor := setup(t)

	_, err := svc.CheckOut(ctx, actor, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = svc.CheckIn(ctx, actor, attendance.CheckRequest{})
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, actor, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestGetToday_Empty(t *testing.T) {
	_, svc, _, actor := setup(t)

	today, err := svc.GetToday(context.Background(), actor)
	require.NoError(t, err)
	assert.False(t, today.IsCheckedIn)
	assert.Nil(t, today.Attendance)
}

func TestListMyAttendance(t *testing.T) {
	ctx := context.Background()
	_, svc, c, actor := setup(t)

	for _, day := range []int{15, 16} {
		c.t = time.Date(2024, 1, day, 9, 0, 0, 0, time.UTC)
		_, err := svc.Toggle(ctx, actor)
		require.NoError(t, err)
	}
	c.t = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	_, err := svc.Toggle(ctx, actor)
	require.NoError(t, err)

	jan, err := svc.ListMyAttendance(ctx, actor, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", jan.Month)
	require.Len(t, jan.Records, 2)
	assert.Equal(t, "2024-01-16", jan.Records[0].Date)

	current, err := svc.ListMyAttendance(ctx, actor, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-02", current.Month)
	assert.Equal(t, int64(1), current.Total)

	_, err = svc.ListMyAttendance(ctx, actor, "January")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestMonthRange(t *testing.T) {
	from, to, err := MonthRange("2024-02", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), to)
}
