package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRecentLimit = 5
	// listLimit bounds the pending leave, team and task lists.
	listLimit = 20
)

// Repositories groups the stores the dashboards read from.
type Repositories struct {
	Users       user.UserRepository
	Leaves      leave.LeaveRequestRepository
	Tasks       task.TaskRepository
	WorkReports report.WorkReportRepository
	Attendance  attendance.AttendanceRepository
}

// Services are the mutation paths the dashboard actions delegate to.
type Services struct {
	Leave      leave.LeaveService
	Task       task.TaskService
	Attendance attendance.AttendanceService
}

type DashboardServiceImpl struct {
	repos       Repositories
	services    Services
	recentLimit int
	now         func() time.Time
}

func NewDashboardService(repos Repositories, services Services, recentLimit int) dashboard.DashboardService {
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	return &DashboardServiceImpl{
		repos:       repos,
		services:    services,
		recentLimit: recentLimit,
		now:         time.Now,
	}
}

// sectionRunner runs dashboard sections in parallel. A failing section is
// logged and recorded as a warning instead of failing the whole dashboard.
type sectionRunner struct {
	g   *errgroup.Group
	ctx context.Context

	mu       sync.Mutex
	warnings []string
}

func newSectionRunner(ctx context.Context) *sectionRunner {
	g, gCtx := errgroup.WithContext(ctx)
	return &sectionRunner{g: g, ctx: gCtx}
}

func (r *sectionRunner) run(name string, fn func(ctx context.Context) error) {
	r.g.Go(func() error {
		if err := fn(r.ctx); err != nil {
			if ctxErr := r.ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			slog.Error("dashboard section failed", "section", name, "error", err)
			r.mu.Lock()
			r.warnings = append(r.warnings, name)
			r.mu.Unlock()
		}
		return nil
	})
}

// wait returns the sorted warnings, or the context error when the request
// was cancelled while loading.
func (r *sectionRunner) wait(parent context.Context) ([]string, error) {
	if err := r.g.Wait(); err != nil {
		return nil, err
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	sort.Strings(r.warnings)
	return r.warnings, nil
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func monthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func profiles(users []user.User) []user.ProfileResponse {
	out := make([]user.ProfileResponse, 0, len(users))
	for _, u := range users {
		out = append(out, user.NewProfileResponse(u))
	}
	return out
}

// GetDashboard implements dashboard.DashboardService. The role is read from
// the stored profile, not from the token, so role changes apply at once.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, actor user.Actor) (dashboard.DashboardResponse, error) {
	profile, err := s.repos.Users.GetByID(ctx, actor.ID)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}
	self := user.Actor{ID: profile.ID, Role: profile.Role, Department: profile.Department}
	me := user.NewProfileResponse(profile)

	resp := dashboard.DashboardResponse{
		Variant: dashboard.Dispatch(profile.Role),
		User:    &me,
	}

	switch resp.Variant {
	case dashboard.VariantOwner:
		data, warnings, err := s.ownerDashboard(ctx)
		if err != nil {
			return dashboard.DashboardResponse{}, err
		}
		resp.Owner, resp.Warnings = &data, warnings
	case dashboard.VariantAdmin:
		data, warnings, err := s.adminDashboard(ctx, self)
		if err != nil {
			return dashboard.DashboardResponse{}, err
		}
		resp.Admin, resp.Warnings = &data, warnings
	case dashboard.VariantEmployee:
		data, warnings, err := s.employeeDashboard(ctx, self)
		if err != nil {
			return dashboard.DashboardResponse{}, err
		}
		resp.Employee, resp.Warnings = &data, warnings
	default:
		slog.Warn("dashboard requested with unknown role", "user_id", profile.ID, "role", profile.Role)
		resp.Message = dashboard.InvalidRoleMessage
	}

	return resp, nil
}

func (s *DashboardServiceImpl) ownerDashboard(ctx context.Context) (dashboard.OwnerDashboard, []string, error) {
	now := s.now()
	since := monthStart(now)
	pending := leave.LeaveRequestStatusPending
	completed := task.StatusCompleted

	data := dashboard.OwnerDashboard{
		PendingLeaves:   []leave.LeaveRequestResponse{},
		RecentEmployees: []user.ProfileResponse{},
	}
	r := newSectionRunner(ctx)

	r.run("total_employees", func(ctx context.Context) error {
		n, err := s.repos.Users.Count(ctx, user.UserFilter{})
		data.Stats.TotalEmployees = n
		return err
	})
	r.run("pending_leaves", func(ctx context.Context) error {
		filter := leave.LeaveRequestFilter{Status: &pending}
		n, err := s.repos.Leaves.Count(ctx, filter)
		if err != nil {
			return err
		}
		filter.Limit = listLimit
		items, err := s.repos.Leaves.List(ctx, filter)
		if err != nil {
			return err
		}
		data.Stats.PendingLeaves = n
		data.PendingLeaves = leave.NewLeaveRequestResponses(items)
		return nil
	})
	r.run("recent_employees", func(ctx context.Context) error {
		users, err := s.repos.Users.List(ctx, user.UserFilter{OrderBy: "join_date", Limit: s.recentLimit})
		if err != nil {
			return err
		}
		data.RecentEmployees = profiles(users)
		return nil
	})
	r.run("tasks_completed", func(ctx context.Context) error {
		n, err := s.repos.Tasks.Count(ctx, task.TaskFilter{Status: &completed, UpdatedFrom: &since})
		data.Stats.TasksCompletedThisMonth = n
		return err
	})
	r.run("attendance_rate", func(ctx context.Context) error {
		rate, err := s.attendanceRate(ctx, now)
		data.Stats.AttendanceRate = rate
		return err
	})

	warnings, err := r.wait(ctx)
	return data, warnings, err
}

// attendanceRate is the share of expected check-ins recorded so far this
// month, as a percentage with one decimal.
func (s *DashboardServiceImpl) attendanceRate(ctx context.Context, now time.Time) (float64, error) {
	from, to := monthStart(now), dateOnly(now)

	employees, err := s.repos.Users.Count(ctx, user.UserFilter{})
	if err != nil {
		return 0, err
	}
	rows, err := s.repos.Attendance.Count(ctx, attendance.AttendanceFilter{From: &from, To: &to})
	if err != nil {
		return 0, err
	}
	return AttendanceRate(rows, employees, to.Day()), nil
}

// AttendanceRate returns rows / (employees * days) as a percentage rounded
// to one decimal, capped at 100.
func AttendanceRate(rows, employees int64, days int) float64 {
	expected := float64(employees) * float64(days)
	if expected <= 0 {
		return 0
	}
	rate := math.Round(float64(rows)/expected*1000) / 10
	return math.Min(rate, 100)
}

func (s *DashboardServiceImpl) adminDashboard(ctx context.Context, self user.Actor) (dashboard.AdminDashboard, []string, error) {
	since := monthStart(s.now())
	dept := self.TeamScope()
	pending := leave.LeaveRequestStatusPending
	completed := task.StatusCompleted

	data := dashboard.AdminDashboard{
		Department:    dept,
		PendingLeaves: []leave.LeaveRequestResponse{},
		TeamMembers:   []user.ProfileResponse{},
		ActiveTasks:   []task.TaskResponse{},
	}
	r := newSectionRunner(ctx)

	r.run("team_members", func(ctx context.Context) error {
		filter := user.UserFilter{Department: dept}
		n, err := s.repos.Users.Count(ctx, filter)
		if err != nil {
			return err
		}
		filter.Limit = listLimit
		users, err := s.repos.Users.List(ctx, filter)
		if err != nil {
			return err
		}
		data.Stats.TeamMembers = n
		data.TeamMembers = profiles(users)
		return nil
	})
	r.run("pending_leaves", func(ctx context.Context) error {
		filter := leave.LeaveRequestFilter{Status: &pending, Department: dept, IncludeUnassigned: true}
		n, err := s.repos.Leaves.Count(ctx, filter)
		if err != nil {
			return err
		}
		filter.Limit = listLimit
		items, err := s.repos.Leaves.List(ctx, filter)
		if err != nil {
			return err
		}
		data.Stats.PendingLeaves = n
		data.PendingLeaves = leave.NewLeaveRequestResponses(items)
		return nil
	})
	r.run("active_tasks", func(ctx context.Context) error {
		filter := task.TaskFilter{ExcludeStatus: &completed, Department: dept, OrderBy: "due_date"}
		n, err := s.repos.Tasks.Count(ctx, filter)
		if err != nil {
			return err
		}
		filter.Limit = listLimit
		items, err := s.repos.Tasks.List(ctx, filter)
		if err != nil {
			return err
		}
		data.Stats.ActiveTasks = n
		data.ActiveTasks = task.NewTaskResponses(items)
		return nil
	})
	r.run("tasks_completed", func(ctx context.Context) error {
		n, err := s.repos.Tasks.Count(ctx, task.TaskFilter{Status: &completed, Department: dept, UpdatedFrom: &since})
		data.Stats.TasksCompletedThisMonth = n
		return err
	})

	warnings, err := r.wait(ctx)
	return data, warnings, err
}

func (s *DashboardServiceImpl) employeeDashboard(ctx context.Context, self user.Actor) (dashboard.EmployeeDashboard, []string, error) {
	now := s.now()
	since := monthStart(now)
	userID := self.ID
	pending := leave.LeaveRequestStatusPending
	completed := task.StatusCompleted

	data := dashboard.EmployeeDashboard{
		Tasks:        []task.TaskResponse{},
		LeaveHistory: []leave.LeaveRequestResponse{},
		WorkReports:  []report.WorkReportResponse{},
	}
	r := newSectionRunner(ctx)

	r.run("today", func(ctx context.Context) error {
		row, err := s.repos.Attendance.GetByUserAndDate(ctx, userID, dateOnly(now))
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		resp := attendance.NewAttendanceResponse(row)
		data.Today = &resp
		data.Stats.IsCheckedIn = row.IsCheckedIn()
		return nil
	})
	r.run("tasks", func(ctx context.Context) error {
		items, err := s.repos.Tasks.List(ctx, task.TaskFilter{AssigneeID: &userID, OrderBy: "due_date", Limit: listLimit})
		if err != nil {
			return err
		}
		active, err := s.repos.Tasks.Count(ctx, task.TaskFilter{AssigneeID: &userID, ExcludeStatus: &completed})
		if err != nil {
			return err
		}
		done, err := s.repos.Tasks.Count(ctx, task.TaskFilter{AssigneeID: &userID, Status: &completed, UpdatedFrom: &since})
		if err != nil {
			return err
		}
		data.Tasks = task.NewTaskResponses(items)
		data.Stats.ActiveTasks = active
		data.Stats.TasksCompletedThisMonth = done
		return nil
	})
	r.run("leave_history", func(ctx context.Context) error {
		items, err := s.repos.Leaves.List(ctx, leave.LeaveRequestFilter{UserID: &userID, Limit: listLimit})
		if err != nil {
			return err
		}
		n, err := s.repos.Leaves.Count(ctx, leave.LeaveRequestFilter{UserID: &userID, Status: &pending})
		if err != nil {
			return err
		}
		data.LeaveHistory = leave.NewLeaveRequestResponses(items)
		data.Stats.PendingLeaves = n
		return nil
	})
	r.run("work_reports", func(ctx context.Context) error {
		items, err := s.repos.WorkReports.List(ctx, report.WorkReportFilter{UserID: &userID, Limit: s.recentLimit})
		if err != nil {
			return err
		}
		data.WorkReports = report.NewWorkReportResponses(items)
		return nil
	})

	warnings, err := r.wait(ctx)
	return data, warnings, err
}

// refetch reloads the dashboard after a successful mutation. A failure here
// does not undo the mutation, so it is reported as a warning.
func (s *DashboardServiceImpl) refetch(ctx context.Context, actor user.Actor) dashboard.DashboardResponse {
	resp, err := s.GetDashboard(ctx, actor)
	if err != nil {
		slog.Error("failed to reload dashboard", "user_id", actor.ID, "error", err)
		return dashboard.DashboardResponse{
			Variant:  dashboard.Dispatch(actor.Role),
			Warnings: []string{"dashboard"},
		}
	}
	return resp
}

// DecideLeave implements dashboard.DashboardService.
func (s *DashboardServiceImpl) DecideLeave(ctx context.Context, actor user.Actor, leaveID string, approved bool) (dashboard.DecideLeaveResponse, error) {
	decided, err := s.services.Leave.DecideLeaveRequest(ctx, actor, leaveID, approved)
	if err != nil {
		return dashboard.DecideLeaveResponse{}, err
	}
	return dashboard.DecideLeaveResponse{
		LeaveRequest: decided,
		Dashboard:    s.refetch(ctx, actor),
	}, nil
}

// CompleteTask implements dashboard.DashboardService.
func (s *DashboardServiceImpl) CompleteTask(ctx context.Context, actor user.Actor, taskID string) (dashboard.CompleteTaskResponse, error) {
	done, err := s.services.Task.CompleteTask(ctx, actor, taskID)
	if err != nil {
		return dashboard.CompleteTaskResponse{}, err
	}
	return dashboard.CompleteTaskResponse{
		Task:      done,
		Dashboard: s.refetch(ctx, actor),
	}, nil
}

// ToggleAttendance implements dashboard.DashboardService.
func (s *DashboardServiceImpl) ToggleAttendance(ctx context.Context, actor user.Actor) (dashboard.ToggleAttendanceResponse, error) {
	toggled, err := s.services.Attendance.Toggle(ctx, actor)
	if err != nil {
		return dashboard.ToggleAttendanceResponse{}, err
	}
	return dashboard.ToggleAttendanceResponse{
		Action:     toggled.Action,
		Attendance: toggled.Attendance,
		Dashboard:  s.refetch(ctx, actor),
	}, nil
}
