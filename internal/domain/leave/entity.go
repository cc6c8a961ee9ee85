package leave

import "time"

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type LeaveRequest struct {
	ID        string
	UserID    string
	Status    string
	StartDate time.Time
	EndDate   time.Time
}

// Covers compares calendar days only: StartDate <= day <= EndDate.
func (l LeaveRequest) Covers(day time.Time) bool {
	d := day.Format("2006-01-02")
	return l.StartDate.Format("2006-01-02") <= d && d <= l.EndDate.Format("2006-01-02")
}
