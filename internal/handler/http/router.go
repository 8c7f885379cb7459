package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth         AuthHandler
	Dashboard    DashboardHandler
	Employee     EmployeeHandler
	Leave        LeaveHandler
	Task         TaskHandler
	Report       ReportHandler
	Attendance   AttendanceHandler
	Notification NotificationHandler
}

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	JWTService     jwt.Service
	// Revocations may be nil to skip the access token denylist.
	Revocations auth.TokenRevocationRepository
}

func NewRouter(cfg RouterConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Get("/oauth/google", h.Auth.LoginWithGoogle)
			})
		})

		// SSE authenticates with its own short-lived query token
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			// Header only: AuthRequired checks the denylist against the header token
			r.Use(jwtauth.Verify(cfg.JWTService.JWTAuth(), jwtauth.TokenFromHeader))
			r.Use(middleware.AuthRequired(cfg.JWTService.JWTAuth(), cfg.Revocations))

			r.Get("/notifications/token", h.Notification.GetSSEToken)

			r.Route("/me", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionViewOwnProfile)).Get("/", h.Employee.GetMe)
				r.With(middleware.RequirePermission(user.PermissionEditOwnProfile)).Put("/", h.Employee.UpdateMe)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", h.Dashboard.GetDashboard)
				r.With(middleware.RequireManager).Post("/leave-requests/{id}/decision", h.Dashboard.DecideLeave)
				r.With(middleware.RequirePermission(user.PermissionTaskComplete)).Post("/tasks/{id}/complete", h.Dashboard.CompleteTask)
				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/attendance/toggle", h.Dashboard.ToggleAttendance)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/", h.Employee.ListEmployees)
				r.With(middleware.RequirePermission(user.PermissionEmployeeManage)).Post("/", h.Employee.AddEmployee)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/my", h.Leave.GetMyRequests)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/", h.Leave.ListRequests)
				r.Get("/{id}", h.Leave.GetRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Post("/{id}/decision", h.Leave.DecideRequest)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionTaskAssign)).Post("/", h.Task.Assign)
				r.With(middleware.RequirePermission(user.PermissionTaskViewOwn)).Get("/my", h.Task.ListMy)
				r.With(middleware.RequirePermission(user.PermissionTaskViewAll)).Get("/", h.Task.List)
				r.With(middleware.RequirePermission(user.PermissionTaskComplete)).Post("/{id}/start", h.Task.Start)
				r.With(middleware.RequirePermission(user.PermissionTaskComplete)).Post("/{id}/complete", h.Task.Complete)
			})

			r.Route("/work-reports", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionReportSubmit)).Post("/", h.Report.Submit)
				r.With(middleware.RequirePermission(user.PermissionReportViewOwn)).Get("/my", h.Report.ListMy)
				r.With(middleware.RequirePermission(user.PermissionReportViewAll)).Get("/", h.Report.List)
				r.With(middleware.RequirePermission(user.PermissionReportExport)).Get("/export", h.Report.Export)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceCreate))
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Post("/toggle", h.Attendance.Toggle)
				r.Get("/today", h.Attendance.Today)
				r.Get("/my", h.Attendance.ListMy)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
