package attendance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/punch"
	"github.com/google/uuid"
)

var errFakeQuery = errors.New("fake query failure")

var testLoc = time.FixedZone("IST", 5*3600+1800)

func day(s string) time.Time {
	t, err := time.ParseInLocation(attendance.DateLayout, s, testLoc)
	if err != nil {
		panic(err)
	}
	return t
}

func sp(s string) *string { return &s }

// ===== ATTENDANCE REPOSITORY =====

type recordKey struct {
	userID string
	date   string
	branch string
}

type fakeAttendanceRepo struct {
	mu       sync.Mutex
	records  map[recordKey]attendance.Record
	extra    []attendance.Record
	rangeErr error
	upserts  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[recordKey]attendance.Record)}
}

// seed stores rec as-is. Records sharing a key with an earlier seed go to extra, which
// mimics legacy duplicates that predate the unique index.
func (f *fakeAttendanceRepo) seed(rec attendance.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	k := recordKey{rec.UserID, rec.Day(), rec.Branch}
	if _, ok := f.records[k]; ok {
		f.extra = append(f.extra, rec)
		return
	}
	f.records[k] = rec
}

func (f *fakeAttendanceRepo) all() []attendance.Record {
	out := make([]attendance.Record, 0, len(f.records)+len(f.extra))
	for _, r := range f.records {
		out = append(out, r)
	}
	out = append(out, f.extra...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day() != out[j].Day() {
			return out[i].Day() < out[j].Day()
		}
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Branch < out[j].Branch
	})
	return out
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	k := recordKey{rec.UserID, rec.Day(), rec.Branch}
	if cur, ok := f.records[k]; ok {
		rec.ID = cur.ID
		rec.CreatedAt = cur.CreatedAt
	} else {
		rec.ID = uuid.NewString()
		rec.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	rec.UpdatedAt = rec.CreatedAt
	f.records[k] = rec
	return rec, nil
}

func (f *fakeAttendanceRepo) ListByKey(ctx context.Context, userID string, date time.Time, branch string) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, r := range f.all() {
		if r.UserID == userID && r.Day() == date.Format(attendance.DateLayout) && r.Branch == branch {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByDate(ctx context.Context, date time.Time, userID *string) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, r := range f.all() {
		if r.Day() != date.Format(attendance.DateLayout) {
			continue
		}
		if userID != nil && r.UserID != *userID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByRange(ctx context.Context, from, to time.Time, userIDs []string) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	var out []attendance.Record
	for _, r := range f.all() {
		d := r.Day()
		if d < from.Format(attendance.DateLayout) || d > to.Format(attendance.DateLayout) {
			continue
		}
		if len(wanted) > 0 && !wanted[r.UserID] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ===== EMPLOYEE REPOSITORY =====

type fakeEmployeeRepo struct {
	employees []employee.Employee
	err       error
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []employee.Employee
	for _, e := range f.employees {
		if e.Status == employee.StatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

// ===== HOLIDAY REPOSITORY =====

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
	err      error
}

func (f *fakeHolidayRepo) ListOverlapping(ctx context.Context, dayStart, dayEnd time.Time) ([]holiday.Holiday, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.holidays, nil
}

// ===== LEAVE REPOSITORY =====

type fakeLeaveRepo struct {
	requests []leave.LeaveRequest
	lookups  int
}

func (f *fakeLeaveRepo) FindApprovedCovering(ctx context.Context, userID string, day time.Time) ([]leave.LeaveRequest, error) {
	f.lookups++
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.UserID == userID && r.Status == leave.StatusApproved && r.Covers(day) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ===== PUNCH SOURCE =====

type fakePunchSource struct {
	punches []punch.RawPunch
}

func (f *fakePunchSource) ListBetween(ctx context.Context, from, to time.Time, empCode *int) ([]punch.RawPunch, error) {
	var out []punch.RawPunch
	for _, p := range f.punches {
		if p.Time.Before(from) || !p.Time.Before(to) {
			continue
		}
		if empCode != nil && p.EmpCode != *empCode {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ===== FIXTURE =====

type fixture struct {
	attendance *fakeAttendanceRepo
	employees  *fakeEmployeeRepo
	holidays   *fakeHolidayRepo
	leaves     *fakeLeaveRepo
	punches    *fakePunchSource
	svc        *AttendanceServiceImpl
}

func newFixture(now time.Time, employees ...employee.Employee) *fixture {
	f := &fixture{
		attendance: newFakeAttendanceRepo(),
		employees:  &fakeEmployeeRepo{employees: employees},
		holidays:   &fakeHolidayRepo{},
		leaves:     &fakeLeaveRepo{},
		punches:    &fakePunchSource{},
	}
	f.svc = NewAttendanceService(f.attendance, f.employees, f.holidays, f.leaves, f.punches, Options{
		Location: testLoc,
		Now:      func() time.Time { return now },
	})
	return f
}

func timedEmployee(id, name string, code int, branches ...string) employee.Employee {
	emp := employee.Employee{ID: id, Name: name, UserCode: code, Status: employee.StatusActive}
	for _, b := range branches {
		emp.Branches = append(emp.Branches, employee.BranchAssignment{
			Branch: b,
			Timing: &employee.Timing{Start: "10:00", End: "18:00"},
		})
	}
	return emp
}
