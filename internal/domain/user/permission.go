package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Leave Management
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"

	// Task Management
	PermissionTaskViewOwn  Permission = "task.view_own"
	PermissionTaskComplete Permission = "task.complete"
	PermissionTaskViewAll  Permission = "task.view_all"
	PermissionTaskAssign   Permission = "task.assign"

	// Work Reports
	PermissionReportSubmit  Permission = "report.submit"
	PermissionReportViewOwn Permission = "report.view_own"
	PermissionReportViewAll Permission = "report.view_all"
	PermissionReportExport  Permission = "report.export"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"
)

var employeePermissions = []Permission{
	PermissionViewOwnProfile,
	PermissionEditOwnProfile,
	PermissionLeaveViewOwn,
	PermissionLeaveCreate,
	PermissionAttendanceViewOwn,
	PermissionAttendanceCreate,
	PermissionTaskViewOwn,
	PermissionTaskComplete,
	PermissionReportSubmit,
	PermissionReportViewOwn,
}

var managerPermissions = []Permission{
	PermissionLeaveViewAll,
	PermissionLeaveApprove,
	PermissionTaskViewAll,
	PermissionTaskAssign,
	PermissionReportViewAll,
	PermissionReportExport,
	PermissionEmployeeViewAll,
	PermissionEmployeeManage,
}

// RolePermissions maps roles to their permissions. Admin and owner share the
// manager set; what differs between them is the team scope and which roles
// they may create.
var RolePermissions = map[Role][]Permission{
	RoleOwner:    append(append([]Permission{}, employeePermissions...), managerPermissions...),
	RoleAdmin:    append(append([]Permission{}, employeePermissions...), managerPermissions...),
	RoleEmployee: employeePermissions,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
