package attendance

import (
	"context"
	"fmt"
	"testing"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/punch"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStatus(f *fixture, userID, date, branch string, status attendance.Status, logOut *string) {
	f.attendance.seed(attendance.Record{
		UserID:         userID,
		AttendanceDate: day(date),
		Branch:         branch,
		LogOut:         logOut,
		Status:         status,
	})
}

// ===== DEDUPLICATION TESTS =====

func TestDeduplicateDays_PrefersBestRank(t *testing.T) {
	records := []attendance.Record{
		{AttendanceDate: day("2025-03-05"), Branch: "Annex", Status: attendance.StatusHalfDay},
		{AttendanceDate: day("2025-03-05"), Branch: "Main", Status: attendance.StatusPresent},
		{AttendanceDate: day("2025-03-04"), Branch: "Main", Status: attendance.StatusAbsent},
		{AttendanceDate: day("2025-03-04"), Branch: "Annex", Status: attendance.StatusPunchingMissing},
	}

	days := DeduplicateDays(records)

	require.Len(t, days, 2)
	assert.Equal(t, "2025-03-04", days[0].Day())
	assert.Equal(t, attendance.StatusAbsent, days[0].Status)
	assert.Equal(t, attendance.StatusPresent, days[1].Status)
	assert.Equal(t, "Main", days[1].Branch)
}

// ===== REPORT TESTS =====

func TestAttendanceService_Report_CountsSameDayOnce(t *testing.T) {
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 1, "Main", "Annex"))
	seedStatus(f, "u1", "2025-03-05", "Main", attendance.StatusPresent, sp("18:00"))
	seedStatus(f, "u1", "2025-03-05", "Annex", attendance.StatusHalfDay, sp("14:00"))

	rows, err := f.svc.Report(context.Background(), attendance.ReportRequest{From: "2025-03-01", To: "2025-03-31"})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].TotalDays)
	assert.Equal(t, 1, rows[0].Present)
	assert.Equal(t, 0, rows[0].HalfDay)
	assert.Equal(t, 0, rows[0].EarlyLeave)
	assert.Equal(t, 100.0, rows[0].AttendancePercent)
}

func TestAttendanceService_Report_AttendancePercent(t *testing.T) {
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 1, "Main"))
	statuses := []attendance.Status{
		attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent,
		attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent,
		attendance.StatusLate, attendance.StatusMuchLate,
		attendance.StatusAbsent, attendance.StatusLeave,
	}
	for i, st := range statuses {
		seedStatus(f, "u1", fmt.Sprintf("2025-03-%02d", i+3), "Main", st, nil)
	}

	rows, err := f.svc.Report(context.Background(), attendance.ReportRequest{From: "2025-03-01", To: "2025-03-31"})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 10, row.TotalDays)
	assert.Equal(t, 6, row.Present)
	assert.Equal(t, 1, row.Late)
	assert.Equal(t, 1, row.MuchLate)
	assert.Equal(t, 0, row.HalfDay)
	assert.Equal(t, 80.0, row.AttendancePercent)
	assert.False(t, row.RegularAbsentee)
}

func TestAttendanceService_Report_EarlyLeaveAndOvertime(t *testing.T) {
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 1, "Main"))
	seedStatus(f, "u1", "2025-03-03", "Main", attendance.StatusPresent, sp("17:30"))
	seedStatus(f, "u1", "2025-03-04", "Main", attendance.StatusPresent, sp("19:30"))
	seedStatus(f, "u1", "2025-03-05", "Main", attendance.StatusPresent, sp("18:20"))
	seedStatus(f, "u1", "2025-03-06", "Main", attendance.StatusPresent, sp("18:00"))

	rows, err := f.svc.Report(context.Background(), attendance.ReportRequest{From: "2025-03-01", To: "2025-03-31"})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].EarlyLeave)
	assert.Equal(t, 2, rows[0].OvertimeDays)
	assert.Equal(t, 1.83, rows[0].TotalOvertimeHours)
}

func TestAttendanceService_Report_RegularAbsentee(t *testing.T) {
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 1, "Main"), timedEmployee("u2", "Bala", 2, "Main"))
	for i := 0; i < 6; i++ {
		seedStatus(f, "u1", fmt.Sprintf("2025-03-%02d", i+3), "Main", attendance.StatusAbsent, nil)
	}
	for i := 0; i < 5; i++ {
		seedStatus(f, "u2", fmt.Sprintf("2025-03-%02d", i+3), "Main", attendance.StatusAbsent, nil)
	}

	rows, err := f.svc.Report(context.Background(), attendance.ReportRequest{From: "2025-03-01", To: "2025-03-31"})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Asha", rows[0].Name)
	assert.True(t, rows[0].RegularAbsentee)
	assert.False(t, rows[1].RegularAbsentee)
	assert.Equal(t, 0.0, rows[1].AttendancePercent)
}

func TestAttendanceService_Report_EmployeeWithoutRecords(t *testing.T) {
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 1, "Main"))

	rows, err := f.svc.Report(context.Background(), attendance.ReportRequest{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].TotalDays)
	assert.Equal(t, 0.0, rows[0].AttendancePercent)
}

func TestAttendanceService_Report_DefaultRangeIsMonthToDate(t *testing.T) {
	f := newFixture(day("2025-03-10"), timedEmployee("u1", "Asha", 1, "Main"))
	seedStatus(f, "u1", "2025-02-28", "Main", attendance.StatusPresent, nil)
	seedStatus(f, "u1", "2025-03-01", "Main", attendance.StatusPresent, nil)
	seedStatus(f, "u1", "2025-03-10", "Main", attendance.StatusLate, nil)
	seedStatus(f, "u1", "2025-03-11", "Main", attendance.StatusPresent, nil)

	rows, err := f.svc.Report(context.Background(), attendance.ReportRequest{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].TotalDays)
}

func TestAttendanceService_Report_FilterByUser(t *testing.T) {
	inactive := timedEmployee("u3", "Chitra", 3, "Main")
	inactive.Status = employee.StatusInactive
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 1, "Main"), timedEmployee("u2", "Bala", 2, "Main"), inactive)

	rows, err := f.svc.Report(context.Background(), attendance.ReportRequest{UserID: "u2"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bala", rows[0].Name)

	rows, err = f.svc.Report(context.Background(), attendance.ReportRequest{UserID: "u3"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAttendanceService_Report_Errors(t *testing.T) {
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 1, "Main"))

	_, err := f.svc.Report(context.Background(), attendance.ReportRequest{From: "03/01/2025"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.Report(context.Background(), attendance.ReportRequest{From: "2025-03-10", To: "2025-03-01"})
	assert.ErrorAs(t, err, &verrs)

	f.attendance.rangeErr = errFakeQuery
	_, err = f.svc.Report(context.Background(), attendance.ReportRequest{})
	assert.ErrorIs(t, err, errFakeQuery)
}

// ===== USER REPORT / SUMMARY TESTS =====

func TestAttendanceService_UserReport(t *testing.T) {
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 1, "Main", "Annex"))
	seedStatus(f, "u1", "2025-03-05", "Annex", attendance.StatusHalfDay, nil)
	seedStatus(f, "u1", "2025-03-05", "Main", attendance.StatusLate, nil)
	seedStatus(f, "u1", "2025-03-04", "Main", attendance.StatusAbsent, nil)

	resp, err := f.svc.UserReport(context.Background(), attendance.ReportRequest{UserID: "u1", From: "2025-03-01", To: "2025-03-31"})

	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", resp.From)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2025-03-04", resp.Days[0].Date)
	assert.Equal(t, string(attendance.StatusLate), resp.Days[1].Status)
	assert.Equal(t, 2, resp.Summary.TotalDays)
	assert.Equal(t, 50.0, resp.Summary.AttendancePercent)

	_, err = f.svc.UserReport(context.Background(), attendance.ReportRequest{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.UserReport(context.Background(), attendance.ReportRequest{UserID: "nobody"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_AllUsersSummary(t *testing.T) {
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 1, "Main"), timedEmployee("u2", "Bala", 2, "Main"), timedEmployee("u3", "Chitra", 3, "Main"))
	seedStatus(f, "u1", "2025-03-04", "Main", attendance.StatusPresent, nil)
	seedStatus(f, "u1", "2025-03-05", "Main", attendance.StatusAbsent, nil)
	seedStatus(f, "u2", "2025-03-04", "Main", attendance.StatusLate, nil)

	resp, err := f.svc.AllUsersSummary(context.Background(), attendance.ReportRequest{From: "2025-03-01", To: "2025-03-31", UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalEmployees)
	assert.Equal(t, 1, resp.StatusCounts[string(attendance.StatusPresent)])
	assert.Equal(t, 1, resp.StatusCounts[string(attendance.StatusLate)])
	assert.Equal(t, 1, resp.StatusCounts[string(attendance.StatusAbsent)])
	assert.Equal(t, 75.0, resp.AverageAttendancePercent)
}

// ===== DAILY LISTING TESTS =====

func TestAttendanceService_Daily(t *testing.T) {
	f := newFixture(day("2025-03-04"), timedEmployee("u1", "Asha", 1, "Main"), timedEmployee("u2", "Bala", 2, "Main"))
	seedStatus(f, "u1", "2025-03-04", "Main", attendance.StatusPresent, sp("18:00:00"))
	seedStatus(f, "u2", "2025-03-04", "Main", attendance.StatusLate, nil)
	seedStatus(f, "u2", "2025-03-03", "Main", attendance.StatusLate, nil)

	all, err := f.svc.Daily(context.Background(), attendance.DailyRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := f.svc.Daily(context.Background(), attendance.DailyRequest{Date: "2025-03-04", UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "2025-03-04", one[0].AttendanceDate)
	assert.Equal(t, "18:00:00", *one[0].LogOut)
	assert.NotNil(t, one[0].Punches)
}

func TestAttendanceService_AllDaily_MissingRowIsAbsent(t *testing.T) {
	f := newFixture(day("2025-03-04"), timedEmployee("u2", "Bala", 2, "Main"), timedEmployee("u1", "Asha", 1, "Main", "Annex"))
	seedStatus(f, "u1", "2025-03-04", "Annex", attendance.StatusHalfDay, nil)
	seedStatus(f, "u1", "2025-03-04", "Main", attendance.StatusPresent, nil)

	rows, err := f.svc.AllDaily(context.Background(), attendance.DailyRequest{Date: "2025-03-04"})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Asha", rows[0].Name)
	assert.Equal(t, string(attendance.StatusPresent), rows[0].Status)
	assert.True(t, rows[0].Recorded)
	assert.Equal(t, string(attendance.StatusAbsent), rows[1].Status)
	assert.False(t, rows[1].Recorded)
}

// ===== PUNCH REPORT TESTS =====

func TestAttendanceService_PunchReport(t *testing.T) {
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 11, "Main"))
	f.punches.punches = []punch.RawPunch{
		{EmpCode: 11, Time: at("2025-03-04", "09:00")},
		{EmpCode: 11, Time: at("2025-03-04", "17:30")},
		{EmpCode: 12, Time: at("2025-03-04", "10:00")},
		{EmpCode: 11, Time: at("2025-04-01", "09:00")},
	}

	rows, err := f.svc.PunchReport(context.Background(), attendance.PunchReportRequest{From: "2025-03-01", To: "2025-03-31", UserCode: "11"})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Asha", rows[0].Name)
	assert.Equal(t, "2025-03-04", rows[0].Date)
	assert.Equal(t, 8.5, rows[0].WorkedHours)
	assert.Equal(t, PairedBySequence, rows[0].Paired)
}

func TestAttendanceService_PunchReport_Disabled(t *testing.T) {
	f := newFixture(day("2025-03-31"))
	svc := NewAttendanceService(f.attendance, f.employees, f.holidays, f.leaves, nil, Options{Location: testLoc})

	_, err := svc.PunchReport(context.Background(), attendance.PunchReportRequest{})

	assert.ErrorIs(t, err, attendance.ErrPunchSourceDisabled)
}

func TestAttendanceService_PunchReport_RejectsFractionalUserCode(t *testing.T) {
	f := newFixture(day("2025-03-31"), timedEmployee("u1", "Asha", 11, "Main"))

	for _, code := range []string{"1.5", "-3", "+7"} {
		_, err := f.svc.PunchReport(context.Background(), attendance.PunchReportRequest{UserCode: code})

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs, code)
		assert.Contains(t, verrs.ToMap(), "user_code", code)
	}
}
