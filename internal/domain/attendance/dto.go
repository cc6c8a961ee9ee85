package attendance

import (
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/validator"
)

// ========================================
// DAILY RUN
// ========================================

type DailyRunResult struct {
	RunID        string         `json:"run_id"`
	Date         string         `json:"date"`
	DayType      string         `json:"day_type"`
	Holidays     []string       `json:"holidays,omitempty"`
	Employees    int            `json:"employees"`
	Upserted     int            `json:"upserted"`
	Skipped      int            `json:"skipped"`
	Failed       int            `json:"failed"`
	StatusCounts map[string]int `json:"status_counts"`
	Errors       []string       `json:"errors,omitempty"`
}

// Day types reported by a daily run.
const (
	DayTypeHoliday = "holiday"
	DayTypeSunday  = "sunday"
	DayTypeWorking = "working"
)

// ========================================
// REPORT
// ========================================

type ReportRequest struct {
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	UserID string `query:"user"`
}

func (r *ReportRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.From != "" && r.To != "" && r.From > r.To {
		return validator.ValidationErrors{{
			Field:   "from",
			Message: ErrInvalidDateRange.Error(),
		}}
	}
	return nil
}

// Range resolves the requested bounds in loc. Missing bounds default to the first day
// of the current month and today.
func (r *ReportRequest) Range(now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	today := StartOfDay(now, loc)
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	to := today

	if r.From != "" {
		t, err := time.ParseInLocation(DateLayout, r.From, loc)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
		from = t
	}
	if r.To != "" {
		t, err := time.ParseInLocation(DateLayout, r.To, loc)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
		to = t
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}

// SummaryRow is one employee's attendance summary over a range.
type SummaryRow struct {
	UserID             string  `json:"userId"`
	Name               string  `json:"name"`
	UserCode           int     `json:"user_code"`
	TotalDays          int     `json:"totalDays"`
	Present            int     `json:"present"`
	Absent             int     `json:"absent"`
	Leave              int     `json:"leave"`
	Holiday            int     `json:"holiday"`
	Sunday             int     `json:"sunday"`
	Late               int     `json:"late"`
	MuchLate           int     `json:"muchLate"`
	HalfDay            int     `json:"halfDay"`
	EarlyLeave         int     `json:"earlyLeave"`
	OvertimeDays       int     `json:"overtimeDays"`
	TotalOvertimeHours float64 `json:"totalOvertimeHours"`
	AttendancePercent  float64 `json:"attendancePercent"`
	RegularAbsentee    bool    `json:"regularAbsentee"`
}

type DayEntry struct {
	Date   string  `json:"date"`
	Status string  `json:"status"`
	Branch string  `json:"branch"`
	LogIn  *string `json:"log_in"`
	LogOut *string `json:"log_out"`
}

type UserReportResponse struct {
	From    string     `json:"from"`
	To      string     `json:"to"`
	Summary SummaryRow `json:"summary"`
	Days    []DayEntry `json:"days"`
}

type AllUsersSummaryResponse struct {
	From                     string         `json:"from"`
	To                       string         `json:"to"`
	TotalEmployees           int            `json:"total_employees"`
	StatusCounts             map[string]int `json:"status_counts"`
	AverageAttendancePercent float64        `json:"average_attendance_percent"`
	RegularAbsentees         int            `json:"regular_absentees"`
}

// ========================================
// DAILY LISTINGS
// ========================================

type DailyRequest struct {
	Date   string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	UserID string `query:"user"`
}

func (r *DailyRequest) Validate() error {
	return validator.Struct(r)
}

// Day resolves the requested day in loc, defaulting to today.
func (r *DailyRequest) Day(now time.Time, loc *time.Location) (time.Time, error) {
	if r.Date == "" {
		return StartOfDay(now, loc), nil
	}
	t, err := time.ParseInLocation(DateLayout, r.Date, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

type RecordResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	Name           *string `json:"name,omitempty"`
	UserCode       *int    `json:"user_code,omitempty"`
	AttendanceDate string  `json:"attendance_date"`
	Branch         string  `json:"branch"`
	LogIn          *string `json:"log_in"`
	LogOut         *string `json:"log_out"`
	Punches        []Punch `json:"punches"`
	Status         string  `json:"status"`
	UpdatedAt      string  `json:"updated_at"`
}

type DailyStatusResponse struct {
	UserID   string  `json:"userId"`
	Name     string  `json:"name"`
	UserCode int     `json:"user_code"`
	Date     string  `json:"date"`
	Status   string  `json:"status"`
	Branch   string  `json:"branch,omitempty"`
	LogIn    *string `json:"log_in"`
	LogOut   *string `json:"log_out"`
	Recorded bool    `json:"recorded"`
}

// ========================================
// PUNCH REPORT
// ========================================

type PunchReportRequest struct {
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	UserCode string `query:"user_code" validate:"omitempty,number"`
}

func (r *PunchReportRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.From != "" && r.To != "" && r.From > r.To {
		return validator.ValidationErrors{{
			Field:   "from",
			Message: ErrInvalidDateRange.Error(),
		}}
	}
	return nil
}

type PunchReportRow struct {
	UserCode    int     `json:"user_code"`
	Name        string  `json:"name,omitempty"`
	Date        string  `json:"date"`
	LogIn       *string `json:"log_in"`
	LogOut      *string `json:"log_out"`
	Punches     []Punch `json:"punches"`
	WorkedHours float64 `json:"worked_hours"`
	Paired      string  `json:"paired_by"`
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last nanosecond of t's day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
