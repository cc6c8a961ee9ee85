package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		user_code INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'Active'
	)`,
	`CREATE TABLE IF NOT EXISTS employee_branches (
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		branch TEXT NOT NULL,
		timing_start TEXT,
		timing_end TEXT,
		PRIMARY KEY (employee_id, branch)
	)`,
	`CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		holiday_type TEXT NOT NULL,
		holiday_name TEXT NOT NULL,
		date TIMESTAMPTZ,
		from_date TIMESTAMPTZ,
		to_date TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		attendance_date DATE NOT NULL,
		branch TEXT NOT NULL,
		log_in TEXT,
		log_out TEXT,
		punches JSONB NOT NULL DEFAULT '[]'::jsonb,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_attendance_records_key
		ON attendance_records (user_id, attendance_date, branch)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_records_date ON attendance_records (attendance_date)`,
	`CREATE INDEX IF NOT EXISTS idx_leave_requests_user ON leave_requests (user_id, status)`,
}

// EnsureSchema creates the attendance tables and the unique key index in one transaction.
// Creating the index fails while duplicate rows for a key still exist.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	err := WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("Database schema ensured", "statements", len(schemaStatements))
	return nil
}
