package dashboard

import (
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

// DashboardResponse carries exactly one of Owner, Admin or Employee, selected
// by Variant. VariantInvalid carries none of them.
type DashboardResponse struct {
	Variant  Variant               `json:"variant"`
	Message  string                `json:"message,omitempty"`
	User     *user.ProfileResponse `json:"user,omitempty"`
	Owner    *OwnerDashboard       `json:"owner,omitempty"`
	Admin    *AdminDashboard       `json:"admin,omitempty"`
	Employee *EmployeeDashboard    `json:"employee,omitempty"`
	// Sections that failed to load and were left empty.
	Warnings []string `json:"warnings,omitempty"`
}

// ========== OWNER ==========

type OwnerStats struct {
	TotalEmployees          int64   `json:"total_employees"`
	PendingLeaves           int64   `json:"pending_leaves"`
	TasksCompletedThisMonth int64   `json:"tasks_completed_this_month"`
	AttendanceRate          float64 `json:"attendance_rate"` // percent of expected check-ins this month
}

type OwnerDashboard struct {
	Stats           OwnerStats                   `json:"stats"`
	PendingLeaves   []leave.LeaveRequestResponse `json:"pending_leaves"`
	RecentEmployees []user.ProfileResponse       `json:"recent_employees"`
}

// ========== ADMIN ==========

type AdminStats struct {
	TeamMembers             int64 `json:"team_members"`
	PendingLeaves           int64 `json:"pending_leaves"`
	ActiveTasks             int64 `json:"active_tasks"`
	TasksCompletedThisMonth int64 `json:"tasks_completed_this_month"`
}

type AdminDashboard struct {
	Department    *string                      `json:"department,omitempty"`
	Stats         AdminStats                   `json:"stats"`
	PendingLeaves []leave.LeaveRequestResponse `json:"pending_leaves"`
	TeamMembers   []user.ProfileResponse       `json:"team_members"`
	ActiveTasks   []task.TaskResponse          `json:"active_tasks"`
}

// ========== EMPLOYEE ==========

type EmployeeStats struct {
	PendingLeaves           int64 `json:"pending_leaves"`
	ActiveTasks             int64 `json:"active_tasks"`
	TasksCompletedThisMonth int64 `json:"tasks_completed_this_month"`
	IsCheckedIn             bool  `json:"is_checked_in"`
}

type EmployeeDashboard struct {
	Stats        EmployeeStats                  `json:"stats"`
	Today        *attendance.AttendanceResponse `json:"today,omitempty"`
	Tasks        []task.TaskResponse            `json:"tasks"`
	LeaveHistory []leave.LeaveRequestResponse   `json:"leave_history"`
	WorkReports  []report.WorkReportResponse    `json:"work_reports"`
}

// ========== ACTIONS ==========

type DecideLeaveResponse struct {
	LeaveRequest leave.LeaveRequestResponse `json:"leave_request"`
	Dashboard    DashboardResponse          `json:"dashboard"`
}

type CompleteTaskResponse struct {
	Task      task.TaskResponse `json:"task"`
	Dashboard DashboardResponse `json:"dashboard"`
}

type ToggleAttendanceResponse struct {
	Action     string                        `json:"action"`
	Attendance attendance.AttendanceResponse `json:"attendance"`
	Dashboard  DashboardResponse             `json:"dashboard"`
}
