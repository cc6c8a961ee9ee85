package attendance

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/validator"
)

// PunchReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PunchReport(ctx context.Context, req attendance.PunchReportRequest) ([]attendance.PunchReportRow, error) {
	if s.punchSource == nil {
		return nil, attendance.ErrPunchSourceDisabled
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rangeReq := attendance.ReportRequest{From: req.From, To: req.To}
	from, to, err := rangeReq.Range(s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	var empCode *int
	if req.UserCode != "" {
		code, err := strconv.Atoi(req.UserCode)
		if err != nil {
			return nil, validator.ValidationErrors{{
				Field:   "user_code",
				Message: "user_code must be a whole number",
			}}
		}
		empCode = &code
	}

	raw, err := s.punchSource.ListBetween(ctx, from, to.AddDate(0, 0, 1), empCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list device punches: %w", err)
	}

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	names := make(map[int]string, len(employees))
	for _, emp := range employees {
		names[emp.UserCode] = emp.Name
	}

	days := PairRawPunches(raw, s.loc)
	rows := make([]attendance.PunchReportRow, 0, len(days))
	for _, d := range days {
		rows = append(rows, attendance.PunchReportRow{
			UserCode:    d.EmpCode,
			Name:        names[d.EmpCode],
			Date:        d.Day.Format(attendance.DateLayout),
			LogIn:       d.LogIn,
			LogOut:      d.LogOut,
			Punches:     d.Punches,
			WorkedHours: roundTo(d.Worked.Hours(), 2),
			Paired:      d.PairedBy,
		})
	}
	return rows, nil
}
