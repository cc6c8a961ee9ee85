package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/validator"
)

// DeduplicateDays keeps one record per calendar day, the one whose status ranks best.
// Ties keep the first record seen. The result is sorted by date.
func DeduplicateDays(records []attendance.Record) []attendance.Record {
	best := make(map[string]attendance.Record, len(records))
	for _, rec := range records {
		cur, ok := best[rec.Day()]
		if !ok || rec.Status.Rank() < cur.Status.Rank() {
			best[rec.Day()] = rec
		}
	}

	days := make([]attendance.Record, 0, len(best))
	for _, rec := range best {
		days = append(days, rec)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day() < days[j].Day()
	})
	return days
}

// Report implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Report(ctx context.Context, req attendance.ReportRequest) ([]attendance.SummaryRow, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	from, to, err := req.Range(s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	employees, err := s.activeEmployees(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return []attendance.SummaryRow{}, nil
	}

	byUser, err := s.recordsByUser(ctx, from, to, employees)
	if err != nil {
		return nil, err
	}

	rows := make([]attendance.SummaryRow, 0, len(employees))
	for _, emp := range employees {
		rows = append(rows, s.summarize(emp, DeduplicateDays(byUser[emp.ID])))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// UserReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UserReport(ctx context.Context, req attendance.ReportRequest) (attendance.UserReportResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.UserReportResponse{}, err
	}
	if validator.IsEmpty(req.UserID) {
		return attendance.UserReportResponse{}, validator.ValidationErrors{{
			Field:   "user",
			Message: "user is required",
		}}
	}
	from, to, err := req.Range(s.now(), s.loc)
	if err != nil {
		return attendance.UserReportResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return attendance.UserReportResponse{}, err
	}

	records, err := s.AttendanceRepository.ListByRange(ctx, from, to, []string{emp.ID})
	if err != nil {
		return attendance.UserReportResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	days := DeduplicateDays(records)

	entries := make([]attendance.DayEntry, 0, len(days))
	for _, rec := range days {
		entries = append(entries, attendance.DayEntry{
			Date:   rec.Day(),
			Status: string(rec.Status),
			Branch: rec.Branch,
			LogIn:  rec.LogIn,
			LogOut: rec.LogOut,
		})
	}

	return attendance.UserReportResponse{
		From:    from.Format(attendance.DateLayout),
		To:      to.Format(attendance.DateLayout),
		Summary: s.summarize(emp, days),
		Days:    entries,
	}, nil
}

// AllUsersSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AllUsersSummary(ctx context.Context, req attendance.ReportRequest) (attendance.AllUsersSummaryResponse, error) {
	req.UserID = ""
	rows, err := s.Report(ctx, req)
	if err != nil {
		return attendance.AllUsersSummaryResponse{}, err
	}
	from, to, err := req.Range(s.now(), s.loc)
	if err != nil {
		return attendance.AllUsersSummaryResponse{}, err
	}

	resp := attendance.AllUsersSummaryResponse{
		From:           from.Format(attendance.DateLayout),
		To:             to.Format(attendance.DateLayout),
		TotalEmployees: len(rows),
		StatusCounts:   make(map[string]int),
	}

	var (
		percentSum float64
		withDays   int
	)
	for _, row := range rows {
		resp.StatusCounts[string(attendance.StatusPresent)] += row.Present
		resp.StatusCounts[string(attendance.StatusLate)] += row.Late
		resp.StatusCounts[string(attendance.StatusMuchLate)] += row.MuchLate
		resp.StatusCounts[string(attendance.StatusHalfDay)] += row.HalfDay
		resp.StatusCounts[string(attendance.StatusAbsent)] += row.Absent
		resp.StatusCounts[string(attendance.StatusLeave)] += row.Leave
		resp.StatusCounts[string(attendance.StatusHoliday)] += row.Holiday
		resp.StatusCounts[string(attendance.StatusSunday)] += row.Sunday

		if row.TotalDays > 0 {
			percentSum += row.AttendancePercent
			withDays++
		}
		if row.RegularAbsentee {
			resp.RegularAbsentees++
		}
	}
	if withDays > 0 {
		resp.AverageAttendancePercent = roundTo(percentSum/float64(withDays), 1)
	}
	return resp, nil
}

// Daily implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Daily(ctx context.Context, req attendance.DailyRequest) ([]attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	day, err := req.Day(s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	var userID *string
	if !validator.IsEmpty(req.UserID) {
		userID = &req.UserID
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, day, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, mapRecordToResponse(rec))
	}
	return resp, nil
}

// AllDaily implements attendance.AttendanceService. Employees without a stored row are
// reported as Absent with Recorded false.
func (s *AttendanceServiceImpl) AllDaily(ctx context.Context, req attendance.DailyRequest) ([]attendance.DailyStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	day, err := req.Day(s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	records, err := s.AttendanceRepository.ListByDate(ctx, day, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	byUser := make(map[string][]attendance.Record)
	for _, rec := range records {
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}

	date := day.Format(attendance.DateLayout)
	resp := make([]attendance.DailyStatusResponse, 0, len(employees))
	for _, emp := range employees {
		row := attendance.DailyStatusResponse{
			UserID:   emp.ID,
			Name:     emp.Name,
			UserCode: emp.UserCode,
			Date:     date,
			Status:   string(attendance.StatusAbsent),
		}
		if days := DeduplicateDays(byUser[emp.ID]); len(days) > 0 {
			rec := days[0]
			row.Status = string(rec.Status)
			row.Branch = rec.Branch
			row.LogIn = rec.LogIn
			row.LogOut = rec.LogOut
			row.Recorded = true
		}
		resp = append(resp, row)
	}
	sort.SliceStable(resp, func(i, j int) bool {
		return resp[i].Name < resp[j].Name
	})
	return resp, nil
}

func (s *AttendanceServiceImpl) activeEmployees(ctx context.Context, userID string) ([]employee.Employee, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	if validator.IsEmpty(userID) {
		return employees, nil
	}
	for _, emp := range employees {
		if emp.ID == userID {
			return []employee.Employee{emp}, nil
		}
	}
	return nil, nil
}

func (s *AttendanceServiceImpl) recordsByUser(ctx context.Context, from, to time.Time, employees []employee.Employee) (map[string][]attendance.Record, error) {
	ids := make([]string, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}

	records, err := s.AttendanceRepository.ListByRange(ctx, from, to, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	byUser := make(map[string][]attendance.Record, len(employees))
	for _, rec := range records {
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}
	return byUser, nil
}

// summarize builds a summary row from already deduplicated days.
func (s *AttendanceServiceImpl) summarize(emp employee.Employee, days []attendance.Record) attendance.SummaryRow {
	row := attendance.SummaryRow{
		UserID:    emp.ID,
		Name:      emp.Name,
		UserCode:  emp.UserCode,
		TotalDays: len(days),
	}

	var (
		overtime time.Duration
		attended int
	)
	for _, rec := range days {
		if rec.Status.Attended() {
			attended++
		}
		switch rec.Status {
		case attendance.StatusPresent:
			row.Present++
		case attendance.StatusLate:
			row.Late++
		case attendance.StatusMuchLate:
			row.MuchLate++
		case attendance.StatusHalfDay:
			row.HalfDay++
		case attendance.StatusAbsent:
			row.Absent++
		case attendance.StatusLeave:
			row.Leave++
		case attendance.StatusHoliday:
			row.Holiday++
		case attendance.StatusSunday:
			row.Sunday++
		}

		if rec.LogOut == nil {
			continue
		}
		logOut, err := attendance.ParseClock(*rec.LogOut)
		if err != nil {
			slog.Warn("Skipping unparseable log_out in report", "user_id", rec.UserID, "date", rec.Day(), "error", err)
			continue
		}
		_, end, err := s.resolver.Window(emp.TimingFor(rec.Branch))
		if err != nil {
			slog.Warn("Skipping day with invalid timing window", "user_id", rec.UserID, "branch", rec.Branch, "error", err)
			continue
		}

		switch {
		case logOut < end:
			row.EarlyLeave++
		case logOut > end:
			row.OvertimeDays++
			overtime += logOut - end
		}
	}

	row.TotalOvertimeHours = roundTo(overtime.Hours(), 2)
	if row.TotalDays > 0 {
		row.AttendancePercent = roundTo(float64(attended)/float64(row.TotalDays)*100, 1)
	}
	row.RegularAbsentee = row.Absent > s.policy.RegularAbsenteeThreshold
	return row
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func mapRecordToResponse(rec attendance.Record) attendance.RecordResponse {
	punches := rec.Punches
	if punches == nil {
		punches = []attendance.Punch{}
	}
	return attendance.RecordResponse{
		ID:             rec.ID,
		UserID:         rec.UserID,
		Name:           rec.EmployeeName,
		UserCode:       rec.UserCode,
		AttendanceDate: rec.Day(),
		Branch:         rec.Branch,
		LogIn:          rec.LogIn,
		LogOut:         rec.LogOut,
		Punches:        punches,
		Status:         string(rec.Status),
		UpdatedAt:      rec.UpdatedAt.Format(time.RFC3339),
	}
}
