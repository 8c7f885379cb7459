package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/ems-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/redis"
	attendanceService "github.com/cmlabs-hris/ems-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/ems-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/ems-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/ems-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/ems-backend-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/ems-backend-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/ems-backend-go/internal/service/report"
	taskService "github.com/cmlabs-hris/ems-backend-go/internal/service/task"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("error connecting to redis: %w", err)
	}
	defer redisClient.Close()

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	workReportRepo := postgresql.NewWorkReportRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	revocationRepo := redis.NewTokenRevocationRepository(redisClient)

	if cfg.Bootstrap.Enabled() {
		owner, err := fixtures.EnsureOwner(ctx, userRepo, fixtures.OwnerSeed{
			Name:     cfg.Bootstrap.OwnerName,
			Email:    cfg.Bootstrap.OwnerEmail,
			Password: cfg.Bootstrap.OwnerPassword,
		})
		if err != nil {
			return fmt.Errorf("error seeding owner: %w", err)
		}
		slog.Info("owner account ready", "user_id", owner.ID, "email", owner.Email)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.JWT.SecureCookie)
	if err != nil {
		return fmt.Errorf("invalid jwt configuration: %w", err)
	}
	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	hub := sse.NewHub(cfg.Notification.HubBuffer)
	notifSvc := notificationService.NewNotificationService(hub, notificationService.Config{
		WorkerCount: cfg.Notification.WorkerCount,
		QueueSize:   cfg.Notification.QueueSize,
	})

	authSvc := serviceAuth.NewAuthService(userRepo, JWTService, revocationRepo)
	employeeSvc := employeeService.NewEmployeeService(txManager, userRepo)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo)
	taskSvc := taskService.NewTaskService(taskRepo, userRepo)
	reportSvc := reportService.NewWorkReportService(workReportRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo)
	dashboardSvc := dashboardService.NewDashboardService(
		dashboardService.Repositories{
			Users:       userRepo,
			Leaves:      leaveRequestRepo,
			Tasks:       taskRepo,
			WorkReports: workReportRepo,
			Attendance:  attendanceRepo,
		},
		dashboardService.Services{
			Leave:      leaveSvc,
			Task:       taskSvc,
			Attendance: attendanceSvc,
		},
		cfg.Dashboard.RecentLimit,
	)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
		JWTService:     JWTService,
		Revocations:    revocationRepo,
	}, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, googleService, cfg.App.FrontendURL, cfg.JWT.SecureCookie),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc, notifSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc, notifSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc, notifSvc),
		Task:         appHTTP.NewTaskHandler(taskSvc, notifSvc),
		Report:       appHTTP.NewReportHandler(reportSvc, notifSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, notifSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, JWTService),
	})

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, notifSvc).RegisterJobs(scheduler)
	scheduler.Start(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	// Streams never finish on their own, so close them before draining.
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	scheduler.Stop()
	notifSvc.Stop()
	return nil
}
