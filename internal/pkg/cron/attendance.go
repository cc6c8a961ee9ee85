package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
)

// JobInsertDailyAttendance is the name the daily computation is registered under.
const JobInsertDailyAttendance = "insert_daily_attendance"

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	loc               *time.Location
	now               func() time.Time
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, loc *time.Location) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceJobs{
		attendanceService: attendanceService,
		loc:               loc,
		now:               time.Now,
	}
}

// RegisterJobs schedules the daily run on spec. An empty spec disables it.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	if spec == "" {
		slog.Info("Daily attendance cron disabled")
		return nil
	}
	return scheduler.AddJob(JobInsertDailyAttendance, spec, 30*time.Minute, j.InsertDailyAttendance)
}

// InsertDailyAttendance computes today's attendance in the configured location.
func (j *AttendanceJobs) InsertDailyAttendance(ctx context.Context) error {
	today := attendance.StartOfDay(j.now(), j.loc)

	result, err := j.attendanceService.RunDaily(ctx, today)
	if err != nil {
		return fmt.Errorf("daily attendance for %s: %w", today.Format(attendance.DateLayout), err)
	}

	slog.Info("Cron: daily attendance inserted",
		"run_id", result.RunID,
		"date", result.Date,
		"day_type", result.DayType,
		"upserted", result.Upserted,
		"failed", result.Failed,
	)
	return nil
}
