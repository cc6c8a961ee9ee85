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

	"github.com/cmlabs-hris/institute-attendance-go/internal/app"
	"github.com/cmlabs-hris/institute-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/institute-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to start application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	// Initialize Cron Scheduler
	scheduler := cron.NewScheduler(a.Location)
	attendanceJobs := cron.NewAttendanceJobs(a.AttendanceService, a.Location)
	if err := attendanceJobs.RegisterJobs(scheduler, cfg.Attendance.CronSpec); err != nil {
		slog.Error("Failed to register attendance jobs", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	attendanceHandler := appHTTP.NewAttendanceHandler(a.AttendanceService, a.Location, appHTTP.LogDegrade)

	router := appHTTP.NewRouter(JWTService, attendanceHandler, appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop(shutdownCtx)
}
