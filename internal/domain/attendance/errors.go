package attendance

import "errors"

// Attendance domain errors
var (
	ErrInvalidClock        = errors.New("invalid time of day")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange    = errors.New("from date must not be after to date")
	ErrPunchSourceDisabled = errors.New("punch source is not configured")
	ErrInvalidTimingWindow = errors.New("branch timing window is invalid")
	ErrEmptyAttendanceKey  = errors.New("attendance key requires user, date and branch")
)
