package attendance

// Policy holds the timing rules applied when resolving a day's status.
type Policy struct {
	DefaultStart string
	DefaultEnd   string

	// Arrival later than LateMinutes after start is Much Late, later than MuchLateMinutes is Half Day.
	LateMinutes     int
	MuchLateMinutes int

	// Leaving this many minutes (or more) before the configured end is a Half Day.
	EarlyDepartureHalfDayMinutes int

	// More absences than this within a report range flags a regular absentee.
	RegularAbsenteeThreshold int

	// Employee codes that are not bulk-marked Sunday. Code 3 is exempt by default.
	SundayExcludedCodes []int
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultStart:                 "10:00",
		DefaultEnd:                   "18:00",
		LateMinutes:                  15,
		MuchLateMinutes:              45,
		EarlyDepartureHalfDayMinutes: 90,
		RegularAbsenteeThreshold:     5,
		SundayExcludedCodes:          []int{3},
	}
}

// ExcludedOnSunday reports whether the employee code skips Sunday marking.
func (p Policy) ExcludedOnSunday(userCode int) bool {
	for _, code := range p.SundayExcludedCodes {
		if code == userCode {
			return true
		}
	}
	return false
}
