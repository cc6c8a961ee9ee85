package attendance

import (
	"context"
	"time"
)

// AttendanceService defines the daily computation and the reporting read paths.
type AttendanceService interface {
	// RunDaily classifies the day, resolves a status per employee and branch and upserts it.
	RunDaily(ctx context.Context, date time.Time) (DailyRunResult, error)

	// Report returns one summary row per active employee for the range.
	Report(ctx context.Context, req ReportRequest) ([]SummaryRow, error)

	// UserReport returns one employee's deduplicated days and summary.
	UserReport(ctx context.Context, req ReportRequest) (UserReportResponse, error)

	// AllUsersSummary returns status totals across all active employees.
	AllUsersSummary(ctx context.Context, req ReportRequest) (AllUsersSummaryResponse, error)

	// Daily returns the stored rows of one day.
	Daily(ctx context.Context, req DailyRequest) ([]RecordResponse, error)

	// AllDaily returns every active employee's representative status for one day.
	AllDaily(ctx context.Context, req DailyRequest) ([]DailyStatusResponse, error)

	// PunchReport pairs raw time-clock punches per employee and day.
	PunchReport(ctx context.Context, req PunchReportRequest) ([]PunchReportRow, error)
}
