package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

// FindApprovedCovering implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) FindApprovedCovering(ctx context.Context, userID string, day time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, status, start_date, end_date
		FROM leave_requests
		WHERE user_id = $1
		  AND status = $2
		  AND start_date <= $3::date
		  AND end_date >= $3::date
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, userID, leave.StatusApproved, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var lr leave.LeaveRequest
		if err := rows.Scan(&lr.ID, &lr.UserID, &lr.Status, &lr.StartDate, &lr.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, nil
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}
