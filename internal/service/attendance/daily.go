package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/employee"
	"github.com/oklog/ulid/v2"
)

// RunDaily implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RunDaily(ctx context.Context, date time.Time) (attendance.DailyRunResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := s.now()
	runID := ulid.Make().String()
	day := attendance.StartOfDay(date, s.loc)
	logger := slog.With("run_id", runID, "date", day.Format(attendance.DateLayout))

	result := attendance.DailyRunResult{
		RunID:        runID,
		Date:         day.Format(attendance.DateLayout),
		StatusCounts: make(map[string]int),
	}

	class, err := s.classifier.Classify(ctx, day)
	if err != nil {
		logger.Error("Failed to classify day", "error", err)
		return result, err
	}
	result.DayType = class.DayType()
	result.Holidays = class.HolidayNames()

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		logger.Error("Failed to list active employees", "error", err)
		return result, fmt.Errorf("failed to list active employees: %w", err)
	}
	result.Employees = len(employees)
	logger.Info("Daily attendance run started", "day_type", result.DayType, "employees", len(employees))

	for _, emp := range employees {
		if len(emp.Branches) == 0 {
			result.Skipped++
			logger.Debug("Skipping employee without branch", "employee_id", emp.ID)
			continue
		}

		for _, assignment := range emp.Branches {
			rec, written, err := s.processBranch(ctx, class, emp, assignment)
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s/%s: %v", emp.ID, assignment.Branch, err))
				logger.Error("Failed to process attendance",
					"employee_id", emp.ID,
					"branch", assignment.Branch,
					"error", err,
				)
				continue
			}
			if !written {
				result.Skipped++
				logger.Debug("Skipping Sunday-excluded employee without punches", "employee_id", emp.ID, "branch", assignment.Branch)
				continue
			}
			result.Upserted++
			result.StatusCounts[string(rec.Status)]++
		}
	}

	if err := ctx.Err(); err != nil {
		logger.Warn("Daily attendance run interrupted", "upserted", result.Upserted, "failed", result.Failed)
		return result, fmt.Errorf("daily run interrupted: %w", err)
	}

	logger.Info("Daily attendance run finished",
		"upserted", result.Upserted,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration", s.now().Sub(started).String(),
	)
	return result, nil
}

func (s *AttendanceServiceImpl) processBranch(ctx context.Context, class DayClass, emp employee.Employee, assignment employee.BranchAssignment) (attendance.Record, bool, error) {
	if emp.ID == "" || assignment.Branch == "" {
		return attendance.Record{}, false, attendance.ErrEmptyAttendanceKey
	}

	existing, err := s.AttendanceRepository.ListByKey(ctx, emp.ID, class.Date, assignment.Branch)
	if err != nil {
		return attendance.Record{}, false, fmt.Errorf("failed to load existing attendance: %w", err)
	}

	agg, err := AggregateRecords(existing)
	if err != nil {
		return attendance.Record{}, false, err
	}

	in := StatusInput{
		Day:       class,
		UserCode:  emp.UserCode,
		Aggregate: agg,
		Timing:    assignment.Timing,
		HasTiming: emp.HasTiming(),
	}
	if s.resolver.SkipsDay(in) {
		return attendance.Record{}, false, nil
	}
	if s.resolver.NeedsLeaveLookup(in) {
		approved, err := s.LeaveRequestRepository.FindApprovedCovering(ctx, emp.ID, class.Date)
		if err != nil {
			return attendance.Record{}, false, fmt.Errorf("failed to check approved leave: %w", err)
		}
		in.OnApprovedLeave = len(approved) > 0
	}

	status, err := s.resolver.Resolve(in)
	if err != nil {
		return attendance.Record{}, false, err
	}

	rec, err := s.AttendanceRepository.Upsert(ctx, attendance.Record{
		UserID:         emp.ID,
		AttendanceDate: class.Date,
		Branch:         assignment.Branch,
		LogIn:          agg.LogIn,
		LogOut:         agg.LogOut,
		Punches:        agg.Punches,
		Status:         status,
	})
	if err != nil {
		return attendance.Record{}, false, err
	}
	return rec, true, nil
}
