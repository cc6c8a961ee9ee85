package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// The (user_id, attendance_date, branch) key is unique at the storage layer.
type AttendanceRepository interface {
	// Upsert inserts the record or overwrites the row with the same key and returns the stored row.
	Upsert(ctx context.Context, record Record) (Record, error)

	// ListByKey returns the rows stored for one employee, day and branch.
	ListByKey(ctx context.Context, userID string, date time.Time, branch string) ([]Record, error)

	// ListByDate returns every row of a day, optionally restricted to one employee.
	ListByDate(ctx context.Context, date time.Time, userID *string) ([]Record, error)

	// ListByRange returns rows in [from, to] across all branches. Empty userIDs means all employees.
	ListByRange(ctx context.Context, from, to time.Time, userIDs []string) ([]Record, error)
}
