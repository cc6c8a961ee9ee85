package attendance

import (
	"time"
)

// DateLayout is the wire and storage format of attendance dates.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPresent         Status = "Present"
	StatusLate            Status = "Late"
	StatusMuchLate        Status = "Much Late"
	StatusHalfDay         Status = "Half Day"
	StatusAbsent          Status = "Absent"
	StatusLeave           Status = "Leave"
	StatusSunday          Status = "Sunday"
	StatusHoliday         Status = "Holiday"
	StatusPunchingMissing Status = "Punching Missing"
)

// statusPriority ranks statuses from most to least positive. When an employee has several
// records on one day, the lowest index wins.
var statusPriority = []Status{
	StatusPresent,
	StatusLate,
	StatusMuchLate,
	StatusHalfDay,
	StatusLeave,
	StatusHoliday,
	StatusSunday,
	StatusAbsent,
}

// Rank returns the position of s in the priority order. Unranked statuses sort last.
func (s Status) Rank() int {
	for i, p := range statusPriority {
		if p == s {
			return i
		}
	}
	return len(statusPriority)
}

// Attended reports whether the status counts toward the attendance percentage.
func (s Status) Attended() bool {
	switch s {
	case StatusPresent, StatusLate, StatusMuchLate, StatusHalfDay:
		return true
	}
	return false
}

// Punch is one in/out pair. Times are time-of-day strings, see ParseClock.
type Punch struct {
	In  *string `json:"in"`
	Out *string `json:"out"`
}

// Record is one attendance row, unique per (UserID, AttendanceDate, Branch).
type Record struct {
	ID             string
	UserID         string
	AttendanceDate time.Time
	Branch         string
	LogIn          *string
	LogOut         *string
	Punches        []Punch
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO
	EmployeeName *string
	UserCode     *int
}

// Day returns the calendar day of the record as YYYY-MM-DD.
func (r Record) Day() string {
	return r.AttendanceDate.Format(DateLayout)
}
