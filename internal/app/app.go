package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/config"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/punch"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/institute-attendance-go/internal/repository/mysql"
	"github.com/cmlabs-hris/institute-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/institute-attendance-go/internal/service/attendance"
	"github.com/go-chi/httplog/v3"
)

// App holds the connections and services shared by the server and the one-shot commands.
type App struct {
	Config            *config.Config
	Location          *time.Location
	DB                *database.DB
	PunchDB           *sql.DB
	AttendanceService *attendanceService.AttendanceServiceImpl
}

// NewLogger returns the ECS-formatted JSON logger used by every entrypoint.
func NewLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "institute-attendance"),
		slog.String("env", cfg.App.Env),
	)
}

// New opens the databases, ensures the schema and wires the attendance service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	a := &App{Config: cfg, Location: loc, DB: db}

	var punchSource punch.PunchSource
	if punchCfg := cfg.PunchDB(loc); punchCfg.Configured() {
		punchDB, err := database.NewMySQLDB(ctx, punchCfg)
		if err != nil {
			// Punch reports degrade to 503; the rest of the engine keeps running.
			slog.Warn("Punch database unavailable", "error", err)
		} else {
			a.PunchDB = punchDB
			punchSource = mysql.NewPunchStore(punchDB)
		}
	}

	policy := cfg.Attendance.Policy
	a.AttendanceService = attendanceService.NewAttendanceService(
		postgresql.NewAttendanceRepository(db),
		postgresql.NewEmployeeRepository(db),
		postgresql.NewHolidayRepository(db),
		postgresql.NewLeaveRequestRepository(db),
		punchSource,
		attendanceService.Options{Policy: &policy, Location: loc},
	)

	return a, nil
}

func (a *App) Close() {
	if a.PunchDB != nil {
		if err := a.PunchDB.Close(); err != nil {
			slog.Warn("Failed to close punch database", "error", err)
		}
	}
	a.DB.Close()
}
