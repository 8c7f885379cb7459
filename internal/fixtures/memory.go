package fixtures

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

// Store is an in-memory stand-in for the PostgreSQL repositories. It keeps
// the same uniqueness rules as the schema: one profile per email, one work
// report and one attendance row per (user, date).
type Store struct {
	mu  sync.Mutex
	seq int64
	Now func() time.Time

	users       map[string]user.User
	leaves      map[string]leave.LeaveRequest
	tasks       map[string]task.Task
	reports     map[string]report.WorkReport
	attendances map[string]attendance.Attendance
	order       map[string]int64
}

func NewStore() *Store {
	return &Store{
		Now:         time.Now,
		users:       make(map[string]user.User),
		leaves:      make(map[string]leave.LeaveRequest),
		tasks:       make(map[string]task.Task),
		reports:     make(map[string]report.WorkReport),
		attendances: make(map[string]attendance.Attendance),
		order:       make(map[string]int64),
	}
}

func (s *Store) Users() user.UserRepository { return userRepo{s} }
func (s *Store) LeaveRequests() leave.LeaveRequestRepository { return leaveRepo{s} }
func (s *Store) Tasks() task.TaskRepository { return taskRepo{s} }
func (s *Store) WorkReports() report.WorkReportRepository { return reportRepo{s} }
func (s *Store) Attendance() attendance.AttendanceRepository { return attendanceRepo{s} }

// WithinTx runs fn directly; the store has no rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) newID() string {
	id := uuid.NewString()
	s.seq++
	s.order[id] = s.seq
	return id
}

func (s *Store) now() time.Time {
	return s.Now().UTC()
}

// newerFirst sorts by t descending, falling back to insertion order.
func (s *Store) newerFirst(ti, tj time.Time, idi, idj string) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return s.order[idi] > s.order[idj]
}

func page[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func deptMatches(filter, dept *string) bool {
	if filter == nil {
		return true
	}
	return dept != nil && *dept == *filter
}

// ---- profiles ----

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	if u.ID == "" {
		u.ID = r.s.newID()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := r.s.now()
	if u.JoinDate.IsZero() {
		u.JoinDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = u
	return u, nil
}

func (r userRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r userRepo) GetByGoogleID(ctx context.Context, googleID string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r userRepo) match(filter user.UserFilter) []user.User {
	var out []user.User
	for _, u := range r.s.users {
		if !deptMatches(filter.Department, u.Department) {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.JoinedFrom != nil && u.JoinDate.Before(*filter.JoinedFrom) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (r userRepo) List(ctx context.Context, filter user.UserFilter) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := r.match(filter)
	sort.Slice(out, func(i, j int) bool {
		if filter.OrderBy == "join_date" {
			return r.s.newerFirst(out[i].JoinDate, out[j].JoinDate, out[i].ID, out[j].ID)
		}
		return out[i].Name < out[j].Name
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r userRepo) Count(ctx context.Context, filter user.UserFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.match(filter))), nil
}

func (r userRepo) Update(ctx context.Context, id string, req user.UpdateProfileRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Department != nil {
		if *req.Department == "" {
			u.Department = nil
		} else {
			d := *req.Department
			u.Department = &d
		}
	}
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r userRepo) LinkGoogle(ctx context.Context, id string, googleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.users {
		if other.ID != id && other.GoogleID != nil && *other.GoogleID == googleID {
			return user.ErrGoogleIDExists
		}
	}
	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.GoogleID = &googleID
	r.s.users[id] = u
	return nil
}

// ---- leave_requests ----

type leaveRepo struct{ s *Store }

func (r leaveRepo) join(l leave.LeaveRequest) leave.LeaveRequest {
	if u, ok := r.s.users[l.UserID]; ok {
		name := u.Name
		l.EmployeeName = &name
		l.EmployeeDepartment = u.Department
	}
	return l
}

func (r leaveRepo) Create(ctx context.Context, l leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if l.EndDate.Before(l.StartDate) {
		return leave.LeaveRequest{}, leave.ErrInvalidDateRange
	}
	l.ID = r.s.newID()
	if l.Status == "" {
		l.Status = leave.LeaveRequestStatusPending
	}
	l.CreatedAt = r.s.now()
	r.s.leaves[l.ID] = l
	return r.join(l), nil
}

func (r leaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.join(l), nil
}

func (r leaveRepo) match(filter leave.LeaveRequestFilter) []leave.LeaveRequest {
	var out []leave.LeaveRequest
	for _, l := range r.s.leaves {
		l = r.join(l)
		if filter.UserID != nil && l.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		unassigned := filter.IncludeUnassigned && l.EmployeeDepartment == nil
		if !unassigned && !deptMatches(filter.Department, l.EmployeeDepartment) {
			continue
		}
		if filter.From != nil && l.EndDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.StartDate.After(*filter.To) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (r leaveRepo) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := r.match(filter)
	sort.Slice(out, func(i, j int) bool {
		return r.s.newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r leaveRepo) Count(ctx context.Context, filter leave.LeaveRequestFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.match(filter))), nil
}

func (r leaveRepo) Decide(ctx context.Context, id string, status leave.LeaveRequestStatus, approverID string, at time.Time) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if !l.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	l.Status = status
	l.ApprovedBy = &approverID
	l.ApprovedAt = &at
	r.s.leaves[id] = l
	return r.join(l), nil
}

// ---- tasks ----

type taskRepo struct{ s *Store }

func (r taskRepo) join(t task.Task) task.Task {
	if u, ok := r.s.users[t.AssigneeID]; ok {
		name := u.Name
		t.AssigneeName = &name
		t.AssigneeDepartment = u.Department
	}
	return t
}

func (r taskRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t.ID = r.s.newID()
	if t.Status == "" {
		t.Status = task.StatusPending
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	now := r.s.now()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.tasks[t.ID] = t
	return r.join(t), nil
}

func (r taskRepo) GetByID(ctx context.Context, id string) (task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	return r.join(t), nil
}

func (r taskRepo) match(filter task.TaskFilter) []task.Task {
	var out []task.Task
	for _, t := range r.s.tasks {
		t = r.join(t)
		if filter.AssigneeID != nil && t.AssigneeID != *filter.AssigneeID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.ExcludeStatus != nil && t.Status == *filter.ExcludeStatus {
			continue
		}
		if !deptMatches(filter.Department, t.AssigneeDepartment) {
			continue
		}
		if filter.UpdatedFrom != nil && t.UpdatedAt.Before(*filter.UpdatedFrom) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (r taskRepo) List(ctx context.Context, filter task.TaskFilter) ([]task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := r.match(filter)
	sort.Slice(out, func(i, j int) bool {
		if filter.OrderBy == "due_date" {
			di, dj := out[i].DueDate, out[j].DueDate
			switch {
			case di == nil && dj == nil:
			case di == nil:
				return false
			case dj == nil:
				return true
			case !di.Equal(*dj):
				return di.Before(*dj)
			}
		}
		return r.s.newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r taskRepo) Count(ctx context.Context, filter task.TaskFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.match(filter))), nil
}

func (r taskRepo) AdvanceStatus(ctx context.Context, id string, from []task.Status, to task.Status) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if t.Status == f {
			t.Status = to
			t.UpdatedAt = r.s.now()
			r.s.tasks[id] = t
			return true, nil
		}
	}
	return false, nil
}

// ---- work_reports ----

type reportRepo struct{ s *Store }

func (r reportRepo) join(w report.WorkReport) report.WorkReport {
	if u, ok := r.s.users[w.UserID]; ok {
		name := u.Name
		w.EmployeeName = &name
	}
	return w
}

func (r reportRepo) Upsert(ctx context.Context, w report.WorkReport) (report.WorkReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for id, existing := range r.s.reports {
		if existing.UserID == w.UserID && sameDay(existing.Date, w.Date) {
			w.ID = id
			w.Date = existing.Date
			w.CreatedAt = existing.CreatedAt
			w.UpdatedAt = now
			r.s.reports[id] = w
			return r.join(w), nil
		}
	}
	w.ID = r.s.newID()
	w.CreatedAt, w.UpdatedAt = now, now
	r.s.reports[w.ID] = w
	return r.join(w), nil
}

func (r reportRepo) match(filter report.WorkReportFilter) []report.WorkReport {
	var out []report.WorkReport
	for _, w := range r.s.reports {
		if filter.UserID != nil && w.UserID != *filter.UserID {
			continue
		}
		if filter.Department != nil {
			u, ok := r.s.users[w.UserID]
			if !ok || !deptMatches(filter.Department, u.Department) {
				continue
			}
		}
		if filter.From != nil && w.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && w.Date.After(*filter.To) {
			continue
		}
		out = append(out, r.join(w))
	}
	return out
}

func (r reportRepo) List(ctx context.Context, filter report.WorkReportFilter) ([]report.WorkReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := r.match(filter)
	sort.Slice(out, func(i, j int) bool {
		return r.s.newerFirst(out[i].Date, out[j].Date, out[i].ID, out[j].ID)
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r reportRepo) Count(ctx context.Context, filter report.WorkReportFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.match(filter))), nil
}

// ---- attendance ----

type attendanceRepo struct{ s *Store }

func (r attendanceRepo) join(a attendance.Attendance) attendance.Attendance {
	if u, ok := r.s.users[a.UserID]; ok {
		name := u.Name
		a.EmployeeName = &name
	}
	return a
}

func (r attendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.attendances {
		if a.UserID == userID && sameDay(a.Date, date) {
			return r.join(a), nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r attendanceRepo) CheckIn(ctx context.Context, userID string, date time.Time, at time.Time, notes *string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, a := range r.s.attendances {
		if a.UserID == userID && sameDay(a.Date, date) {
			if a.CheckInTime == nil {
				a.CheckInTime = &at
			}
			a.CheckOutTime = nil
			a.Status = attendance.StatusCheckedIn
			if notes != nil {
				a.Notes = notes
			}
			r.s.attendances[id] = a
			return r.join(a), nil
		}
	}

	a := attendance.Attendance{
		ID:          r.s.newID(),
		UserID:      userID,
		Date:        date,
		CheckInTime: &at,
		Status:      attendance.StatusCheckedIn,
		Notes:       notes,
		CreatedAt:   r.s.now(),
	}
	r.s.attendances[a.ID] = a
	return r.join(a), nil
}

func (r attendanceRepo) CheckOut(ctx context.Context, id string, at time.Time, notes *string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.attendances[id]
	if !ok || a.Status != attendance.StatusCheckedIn || a.CheckOutTime != nil {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	a.CheckOutTime = &at
	a.Status = attendance.StatusCheckedOut
	if notes != nil {
		a.Notes = notes
	}
	r.s.attendances[id] = a
	return r.join(a), nil
}

func (r attendanceRepo) match(filter attendance.AttendanceFilter) []attendance.Attendance {
	var out []attendance.Attendance
	for _, a := range r.s.attendances {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter.Department != nil {
			u, ok := r.s.users[a.UserID]
			if !ok || !deptMatches(filter.Department, u.Department) {
				continue
			}
		}
		if filter.From != nil && a.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.Date.After(*filter.To) {
			continue
		}
		out = append(out, r.join(a))
	}
	return out
}

func (r attendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := r.match(filter)
	sort.Slice(out, func(i, j int) bool {
		return r.s.newerFirst(out[i].Date, out[j].Date, out[i].ID, out[j].ID)
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r attendanceRepo) Count(ctx context.Context, filter attendance.AttendanceFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.match(filter))), nil
}

func (r attendanceRepo) CloseStale(ctx context.Context, before time.Time) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var closed []attendance.Attendance
	for id, a := range r.s.attendances {
		if a.Status == attendance.StatusCheckedIn && a.Date.Before(before) {
			a.Status = attendance.StatusIncomplete
			r.s.attendances[id] = a
			closed = append(closed, r.join(a))
		}
	}
	return closed, nil
}
