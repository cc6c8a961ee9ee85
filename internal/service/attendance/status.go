package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/employee"
)

// StatusInput is everything needed to resolve one (employee, branch, day) status.
type StatusInput struct {
	Day       DayClass
	UserCode  int
	Aggregate Aggregate

	// Timing of the branch being resolved. HasTiming is true when any branch of the
	// employee configures one.
	Timing    *employee.Timing
	HasTiming bool

	OnApprovedLeave bool
}

// Resolver applies the status precedence: Holiday, then Sunday, then punches, then
// approved leave, then Absent.
type Resolver struct {
	policy attendance.Policy
}

func NewResolver(policy attendance.Policy) Resolver {
	return Resolver{policy: policy}
}

// SkipsDay reports whether no row should be written: a Sunday-excluded employee with no
// punches is left out of Sunday marking entirely.
func (r Resolver) SkipsDay(in StatusInput) bool {
	return !in.Day.IsHoliday && in.Day.IsSunday && r.policy.ExcludedOnSunday(in.UserCode) && !in.Aggregate.HasPunches()
}

// NeedsLeaveLookup reports whether the result depends on approved leave.
func (r Resolver) NeedsLeaveLookup(in StatusInput) bool {
	return !r.dayOff(in) && !r.SkipsDay(in) && !in.Aggregate.HasPunches()
}

func (r Resolver) Resolve(in StatusInput) (attendance.Status, error) {
	switch {
	case in.Day.IsHoliday:
		return attendance.StatusHoliday, nil
	case in.Day.IsSunday && !r.policy.ExcludedOnSunday(in.UserCode):
		return attendance.StatusSunday, nil
	}

	if !in.Aggregate.HasPunches() {
		if in.OnApprovedLeave {
			return attendance.StatusLeave, nil
		}
		return attendance.StatusAbsent, nil
	}

	if !in.HasTiming {
		return attendance.StatusPresent, nil
	}

	// Only punch-outs were captured.
	if in.Aggregate.LogIn == nil {
		return attendance.StatusPunchingMissing, nil
	}

	start, end, err := r.Window(in.Timing)
	if err != nil {
		return "", err
	}

	logIn, err := attendance.ParseClock(*in.Aggregate.LogIn)
	if err != nil {
		return "", err
	}

	if in.Aggregate.LogOut != nil {
		logOut, err := attendance.ParseClock(*in.Aggregate.LogOut)
		if err != nil {
			return "", err
		}
		if attendance.WholeMinutes(end-logOut) >= r.policy.EarlyDepartureHalfDayMinutes {
			return attendance.StatusHalfDay, nil
		}
	}

	late := attendance.WholeMinutes(logIn - start)
	switch {
	case late <= 0:
		return attendance.StatusPresent, nil
	case late <= r.policy.LateMinutes:
		return attendance.StatusLate, nil
	case late <= r.policy.MuchLateMinutes:
		return attendance.StatusMuchLate, nil
	default:
		return attendance.StatusHalfDay, nil
	}
}

// Window returns the effective start and end of a branch timing. Missing sides fall back
// to the policy defaults.
func (r Resolver) Window(t *employee.Timing) (time.Duration, time.Duration, error) {
	startRaw, endRaw := r.policy.DefaultStart, r.policy.DefaultEnd
	if t != nil {
		if t.Start != "" {
			startRaw = t.Start
		}
		if t.End != "" {
			endRaw = t.End
		}
	}

	start, err := attendance.ParseClock(startRaw)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: start: %v", attendance.ErrInvalidTimingWindow, err)
	}
	end, err := attendance.ParseClock(endRaw)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: end: %v", attendance.ErrInvalidTimingWindow, err)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("%w: end %s is not after start %s", attendance.ErrInvalidTimingWindow, endRaw, startRaw)
	}
	return start, end, nil
}

func (r Resolver) dayOff(in StatusInput) bool {
	return in.Day.IsHoliday || (in.Day.IsSunday && !r.policy.ExcludedOnSunday(in.UserCode))
}
