package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository is read-only to attendance: requests are approved elsewhere.
type LeaveRequestRepository interface {
	// FindApprovedCovering returns Approved requests of the employee whose range contains day.
	FindApprovedCovering(ctx context.Context, userID string, day time.Time) ([]LeaveRequest, error)
}
