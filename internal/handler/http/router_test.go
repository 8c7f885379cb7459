package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/sse"
	attendanceService "github.com/cmlabs-hris/ems-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/ems-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/ems-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/ems-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/ems-backend-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/ems-backend-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/ems-backend-go/internal/service/report"
	taskService "github.com/cmlabs-hris/ems-backend-go/internal/service/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestPassword   = "password123"
)

type memoryRevocations struct {
	mu     sync.Mutex
	tokens map[string]int64
}

func (m *memoryRevocations) Revoke(ctx context.Context, token string, expiresAt int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; ok {
		return false, nil
	}
	m.tokens[token] = expiresAt
	return true, nil
}

func (m *memoryRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tokens[token]
	return ok, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string][]notification.Message
}

func (n *recordingNotifier) Notify(userID string, msg notification.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent[userID] = append(n.sent[userID], msg)
}

func (n *recordingNotifier) titles(userID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, m := range n.sent[userID] {
		out = append(out, m.Title)
	}
	return out
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
	Meta    *response.Meta        `json:"meta"`
}

type testServer struct {
	router   http.Handler
	jwt      jwt.Service
	notifier *recordingNotifier
	store    *fixtures.Store
	owner    user.User
	admin    user.User
	employee user.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := fixtures.NewStore()

	hash, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	mk := func(name, email string, role user.Role, dept *string) user.User {
		h := string(hash)
		u, err := store.Users().Create(ctx, user.User{Name: name, Email: email, Role: role, Department: dept, PasswordHash: &h})
		require.NoError(t, err)
		return u
	}

	jwtSvc, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp, false)
	require.NoError(t, err)
	revocations := &memoryRevocations{tokens: map[string]int64{}}
	notifier := &recordingNotifier{sent: map[string][]notification.Message{}}

	notifSvc := notificationService.NewNotificationService(sse.NewHub(10), notificationService.Config{})
	t.Cleanup(notifSvc.Stop)

	leaveSvc := leaveService.NewLeaveService(store.LeaveRequests())
	taskSvc := taskService.NewTaskService(store.Tasks(), store.Users())
	attendanceSvc := attendanceService.NewAttendanceService(store.Attendance())
	dashSvc := dashboardService.NewDashboardService(
		dashboardService.Repositories{
			Users:       store.Users(),
			Leaves:      store.LeaveRequests(),
			Tasks:       store.Tasks(),
			WorkReports: store.WorkReports(),
			Attendance:  store.Attendance(),
		},
		dashboardService.Services{Leave: leaveSvc, Task: taskSvc, Attendance: attendanceSvc},
		5,
	)

	router := NewRouter(RouterConfig{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		AllowedOrigins: []string{"http://localhost:3000"},
		JWTService:     jwtSvc,
		Revocations:    revocations,
	}, Handlers{
		Auth:         NewAuthHandler(jwtSvc, authService.NewAuthService(store.Users(), jwtSvc, revocations), nil, "http://localhost:3000", false),
		Dashboard:    NewDashboardHandler(dashSvc, notifier),
		Employee:     NewEmployeeHandler(employeeService.NewEmployeeService(store, store.Users()), notifier),
		Leave:        NewLeaveHandler(leaveSvc, notifier),
		Task:         NewTaskHandler(taskSvc, notifier),
		Report:       NewReportHandler(reportService.NewWorkReportService(store.WorkReports()), notifier),
		Attendance:   NewAttendanceHandler(attendanceSvc, notifier),
		Notification: NewNotificationHandler(notifSvc, jwtSvc),
	})

	return &testServer{
		router:   router,
		jwt:      jwtSvc,
		notifier: notifier,
		store:    store,
		owner:    mk("Olga Owner", "olga@example.com", user.RoleOwner, nil),
		admin:    mk("Ada Admin", "ada@example.com", user.RoleAdmin, fixtures.StrPtr("Engineering")),
		employee: mk("Eve Employee", "eve@example.com", user.RoleEmployee, fixtures.StrPtr("Engineering")),
	}
}

func (s *testServer) token(t *testing.T, u user.User) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(u)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"valid credentials", map[string]string{"email": "eve@example.com", "password": handlerTestPassword}, http.StatusCreated},
		{"email is case insensitive", map[string]string{"email": "EVE@example.com", "password": handlerTestPassword}, http.StatusCreated},
		{"wrong password", map[string]string{"email": "eve@example.com", "password": "nope-nope"}, http.StatusUnauthorized},
		{"unknown email", map[string]string{"email": "ghost@example.com", "password": handlerTestPassword}, http.StatusUnauthorized},
		{"missing fields", map[string]string{}, http.StatusUnprocessableEntity},
		{"password longer than bcrypt accepts", map[string]string{"email": "eve@example.com", "password": strings.Repeat("p", 80)}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/auth/login/", "", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusCreated {
				var tokens struct {
					AccessToken string `json:"access_token"`
				}
				decode(t, rec, &tokens)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.Contains(t, rec.Header().Get("Set-Cookie"), "refresh_token=")
			}
		})
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/dashboard", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_RevokesAccessToken(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, s.employee)

	rec := s.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// the same token presented as a jwt cookie must not slip past the denylist
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
}

func TestProtectedRoutes_IgnoreCookieToken(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: s.token(t, s.employee)})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetDashboard_VariantFollowsRole(t *testing.T) {
	s := newTestServer(t)

	for _, u := range []user.User{s.owner, s.admin, s.employee} {
		rec := s.do(t, http.MethodGet, "/api/v1/dashboard", s.token(t, u), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var dash struct {
			Variant  string          `json:"variant"`
			Owner    json.RawMessage `json:"owner"`
			Admin    json.RawMessage `json:"admin"`
			Employee json.RawMessage `json:"employee"`
		}
		decode(t, rec, &dash)
		assert.Equal(t, string(u.Role), dash.Variant)
		assert.Equal(t, u.Role == user.RoleOwner, dash.Owner != nil)
		assert.Equal(t, u.Role == user.RoleAdmin, dash.Admin != nil)
		assert.Equal(t, u.Role == user.RoleEmployee, dash.Employee != nil)
	}
}

func TestLeaveFlow_SubmitApproveOnce(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.token(t, s.employee)
	adminToken := s.token(t, s.admin)

	rec := s.do(t, http.MethodPost, "/api/v1/leave-requests", employeeToken, map[string]string{
		"type":       "sick",
		"start_date": "2024-01-15",
		"end_date":   "2024-01-16",
		"reason":     "Flu",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID     string `json:"id"`
		Days   int    `json:"days"`
		Status string `json:"status"`
	}
	decode(t, rec, &created)
	assert.Equal(t, 2, created.Days)
	assert.Equal(t, "pending", created.Status)
	assert.Contains(t, s.notifier.titles(s.employee.ID), "Leave Request Submitted")

	decisionPath := "/api/v1/dashboard/leave-requests/" + created.ID + "/decision"
	rec = s.do(t, http.MethodPost, decisionPath, adminToken, map[string]bool{"approved": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var decided struct {
		LeaveRequest struct {
			Status     string  `json:"status"`
			ApprovedBy *string `json:"approved_by"`
		} `json:"leave_request"`
		Dashboard struct {
			Variant string `json:"variant"`
		} `json:"dashboard"`
	}
	decode(t, rec, &decided)
	assert.Equal(t, "approved", decided.LeaveRequest.Status)
	require.NotNil(t, decided.LeaveRequest.ApprovedBy)
	assert.Equal(t, s.admin.ID, *decided.LeaveRequest.ApprovedBy)
	assert.Equal(t, "admin", decided.Dashboard.Variant)
	assert.Contains(t, s.notifier.titles(s.employee.ID), "Leave Approved")

	rec = s.do(t, http.MethodPost, decisionPath, adminToken, map[string]bool{"approved": false})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, s.notifier.titles(s.admin.ID), "Error")

	rec = s.do(t, http.MethodGet, "/api/v1/leave-requests?status=pending", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pending struct {
		Total int64 `json:"total"`
	}
	env := decode(t, rec, &pending)
	assert.Zero(t, pending.Total)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Page)
}

func TestCreateLeaveRequest_ValidationDoesNotNotify(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/leave-requests", s.token(t, s.employee), map[string]string{
		"type":       "annual",
		"start_date": "2024-01-16",
		"end_date":   "2024-01-15",
		"reason":     "Trip",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "end_date")
	assert.Empty(t, s.notifier.titles(s.employee.ID))

	total, err := s.store.LeaveRequests().Count(context.Background(), leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAddEmployee_OverlongPasswordIsValidationError(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/employees", s.token(t, s.owner), map[string]string{
		"name":     "Long Pass",
		"email":    "long@example.com",
		"password": strings.Repeat("a", 80),
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Empty(t, s.notifier.titles(s.owner.ID))

	_, err := s.store.Users().GetByEmail(context.Background(), "long@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestMalformedPathID_NotFound(t *testing.T) {
	s := newTestServer(t)
	decision := map[string]bool{"approved": true}

	tests := []struct {
		name   string
		method string
		path   string
		as     user.User
		body   interface{}
	}{
		{"decide leave", http.MethodPost, "/api/v1/leave-requests/abc/decision", s.admin, decision},
		{"decide leave from dashboard", http.MethodPost, "/api/v1/dashboard/leave-requests/abc/decision", s.admin, decision},
		{"get leave", http.MethodGet, "/api/v1/leave-requests/abc", s.admin, nil},
		{"start task", http.MethodPost, "/api/v1/tasks/abc/start", s.employee, nil},
		{"complete task", http.MethodPost, "/api/v1/tasks/abc/complete", s.employee, nil},
		{"complete task from dashboard", http.MethodPost, "/api/v1/dashboard/tasks/abc/complete", s.employee, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, s.token(t, tt.as), tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
		})
	}
}

func TestPermissions(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		as         func() user.User
		body       interface{}
		wantStatus int
	}{
		{"employee cannot add employees", http.MethodPost, "/api/v1/employees", func() user.User { return s.employee }, map[string]string{"name": "X", "email": "x@example.com"}, http.StatusForbidden},
		{"employee cannot list team leave", http.MethodGet, "/api/v1/leave-requests", func() user.User { return s.employee }, nil, http.StatusForbidden},
		{"employee cannot export reports", http.MethodGet, "/api/v1/work-reports/export", func() user.User { return s.employee }, nil, http.StatusForbidden},
		{"admin lists employees", http.MethodGet, "/api/v1/employees", func() user.User { return s.admin }, nil, http.StatusOK},
		{"admin cannot add an admin", http.MethodPost, "/api/v1/employees", func() user.User { return s.admin }, map[string]string{"name": "Al", "email": "al@example.com", "role": "admin"}, http.StatusForbidden},
		{"owner adds an admin", http.MethodPost, "/api/v1/employees", func() user.User { return s.owner }, map[string]string{"name": "Al", "email": "al@example.com", "role": "admin"}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, s.token(t, tt.as()), tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestAttendanceToggle(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, s.employee)

	var actions []string
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/api/v1/attendance/toggle", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var toggled struct {
			Action string `json:"action"`
		}
		decode(t, rec, &toggled)
		actions = append(actions, toggled.Action)
	}

	assert.Equal(t, []string{"check_in", "check_out"}, actions)
	assert.Equal(t, []string{"Checked In", "Checked Out"}, s.notifier.titles(s.employee.ID))

	rec := s.do(t, http.MethodPost, "/api/v1/attendance/check-out", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTaskComplete_FromDashboard(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.token(t, s.admin)
	employeeToken := s.token(t, s.employee)

	rec := s.do(t, http.MethodPost, "/api/v1/tasks", adminToken, map[string]string{
		"title":       "Write docs",
		"assignee_id": s.employee.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)
	assert.Contains(t, s.notifier.titles(s.employee.ID), "Task Assigned")

	path := "/api/v1/dashboard/tasks/" + created.ID + "/complete"
	rec = s.do(t, http.MethodPost, path, employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var completed struct {
		Task struct {
			Status      string `json:"status"`
			CanComplete bool   `json:"can_complete"`
		} `json:"task"`
	}
	decode(t, rec, &completed)
	assert.Equal(t, "completed", completed.Task.Status)
	assert.False(t, completed.Task.CanComplete)

	rec = s.do(t, http.MethodPost, path, employeeToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWorkReports_ResubmitAndExport(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.token(t, s.employee)

	for _, hours := range []float64{6, 7.5} {
		rec := s.do(t, http.MethodPost, "/api/v1/work-reports", employeeToken, map[string]interface{}{
			"date":            "2024-01-15",
			"hours_worked":    hours,
			"tasks_completed": "Reviewed PRs",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/v1/work-reports/my", employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine struct {
		Total int64 `json:"total"`
	}
	decode(t, rec, &mine)
	assert.Equal(t, int64(1), mine.Total)

	rec = s.do(t, http.MethodGet, "/api/v1/work-reports/export?from=2024-01-01&to=2024-01-31", s.token(t, s.admin), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = s.do(t, http.MethodGet, "/api/v1/work-reports?from=2024-02-01&to=2024-01-01", s.token(t, s.admin), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNotifications_TokenAndStreamAuth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/notifications/token", s.token(t, s.employee), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok notification.SSETokenResponse
	decode(t, rec, &tok)
	assert.NotEmpty(t, tok.Token)
	assert.Positive(t, tok.ExpiresIn)

	rec = s.do(t, http.MethodGet, "/api/v1/notifications/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// an access token is not an SSE token
	rec = s.do(t, http.MethodGet, "/api/v1/notifications/stream?token="+s.token(t, s.employee), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleLogin_DisabledWithoutConfig(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/login/oauth/google", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
