package attendance

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/punch"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	leave.LeaveRequestRepository
	punchSource punch.PunchSource

	classifier *Classifier
	resolver   Resolver
	policy     attendance.Policy
	loc        *time.Location
	now        func() time.Time

	// runMu serializes daily runs so two runs never interleave upserts for one key.
	runMu sync.Mutex
}

// Options tunes the service. Zero values fall back to DefaultPolicy, UTC and time.Now.
type Options struct {
	Policy   *attendance.Policy
	Location *time.Location
	Now      func() time.Time
}

// NewAttendanceService wires the attendance engine. punchSource may be nil, in which case
// PunchReport returns attendance.ErrPunchSourceDisabled.
func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo holiday.HolidayRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	punchSource punch.PunchSource,
	opts Options,
) *AttendanceServiceImpl {
	policy := attendance.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &AttendanceServiceImpl{
		AttendanceRepository:   attendanceRepo,
		EmployeeRepository:     employeeRepo,
		LeaveRequestRepository: leaveRequestRepo,
		punchSource:            punchSource,
		classifier:             NewClassifier(holidayRepo, loc),
		resolver:               NewResolver(policy),
		policy:                 policy,
		loc:                    loc,
		now:                    now,
	}
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
