package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.user_id, a.attendance_date, a.branch, a.log_in, a.log_out, a.punches, a.status,
	a.created_at, a.updated_at, e.name, e.user_code
`

// Upsert implements attendance.AttendanceRepository. updated_at only moves when a value changes.
func (a *attendanceRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if rec.UserID == "" || rec.Branch == "" || rec.AttendanceDate.IsZero() {
		return attendance.Record{}, attendance.ErrEmptyAttendanceKey
	}
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	punches := rec.Punches
	if punches == nil {
		punches = []attendance.Punch{}
	}

	query := `
		INSERT INTO attendance_records (
			id, user_id, attendance_date, branch, log_in, log_out, punches, status, created_at, updated_at
		) VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (user_id, attendance_date, branch) DO UPDATE SET
			log_in = EXCLUDED.log_in,
			log_out = EXCLUDED.log_out,
			punches = EXCLUDED.punches,
			status = EXCLUDED.status,
			updated_at = CASE
				WHEN (attendance_records.log_in, attendance_records.log_out, attendance_records.punches, attendance_records.status)
					IS DISTINCT FROM (EXCLUDED.log_in, EXCLUDED.log_out, EXCLUDED.punches, EXCLUDED.status)
				THEN NOW()
				ELSE attendance_records.updated_at
			END
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		id.String(),
		rec.UserID,
		rec.Day(),
		rec.Branch,
		rec.LogIn,
		rec.LogOut,
		punches,
		string(rec.Status),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance for %s on %s at %s: %w", rec.UserID, rec.Day(), rec.Branch, err)
	}

	rec.Punches = punches
	return rec, nil
}

// ListByKey implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByKey(ctx context.Context, userID string, date time.Time, branch string) ([]attendance.Record, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.user_id
		WHERE a.user_id = $1 AND a.attendance_date = $2::date AND a.branch = $3
		ORDER BY a.created_at
	`
	return a.list(ctx, query, userID, date.Format(attendance.DateLayout), branch)
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time, userID *string) ([]attendance.Record, error) {
	where := "a.attendance_date = $1::date"
	args := []interface{}{date.Format(attendance.DateLayout)}
	if userID != nil && *userID != "" {
		where += " AND a.user_id = $2"
		args = append(args, *userID)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.user_id
		WHERE %s
		ORDER BY e.name NULLS LAST, a.branch
	`, attendanceColumns, where)
	return a.list(ctx, query, args...)
}

// ListByRange implements attendance.AttendanceRepository. An empty userIDs lists everyone.
func (a *attendanceRepository) ListByRange(ctx context.Context, from, to time.Time, userIDs []string) ([]attendance.Record, error) {
	where := "a.attendance_date BETWEEN $1::date AND $2::date"
	args := []interface{}{from.Format(attendance.DateLayout), to.Format(attendance.DateLayout)}
	if len(userIDs) > 0 {
		where += " AND a.user_id = ANY($3)"
		args = append(args, userIDs)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.user_id
		WHERE %s
		ORDER BY a.user_id, a.attendance_date, a.created_at
	`, attendanceColumns, where)
	return a.list(ctx, query, args...)
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var (
		rec    attendance.Record
		status string
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.AttendanceDate, &rec.Branch, &rec.LogIn, &rec.LogOut, &rec.Punches, &status,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.EmployeeName, &rec.UserCode,
	)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to scan attendance: %w", err)
	}
	rec.Status = attendance.Status(status)
	return rec, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
