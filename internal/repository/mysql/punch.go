package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/punch"
)

type punchStore struct {
	db *sql.DB
}

// ListBetween implements punch.PunchSource.
func (s *punchStore) ListBetween(ctx context.Context, from, to time.Time, empCode *int) ([]punch.RawPunch, error) {
	q := `
	SELECT emp_code, log_in, direction
	FROM device_logs
	WHERE log_in >= ? AND log_in < ?`
	args := []interface{}{from, to}
	if empCode != nil {
		q += ` AND emp_code = ?`
		args = append(args, *empCode)
	}
	q += ` ORDER BY emp_code, log_in`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query device logs: %w", err)
	}
	defer rows.Close()

	var out []punch.RawPunch
	for rows.Next() {
		var (
			p         punch.RawPunch
			direction sql.NullString
		)
		if err := rows.Scan(&p.EmpCode, &p.Time, &direction); err != nil {
			return nil, fmt.Errorf("failed to scan device log: %w", err)
		}
		p.Direction = parseDirection(direction)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device logs: %w", err)
	}
	return out, nil
}

// parseDirection accepts in/out in any case plus the 0/1 codes some devices write.
// Anything else is treated as untyped.
func parseDirection(ns sql.NullString) *punch.Direction {
	if !ns.Valid {
		return nil
	}
	var d punch.Direction
	switch strings.ToLower(strings.TrimSpace(ns.String)) {
	case "in", "0", "check-in":
		d = punch.DirectionIn
	case "out", "1", "check-out":
		d = punch.DirectionOut
	default:
		return nil
	}
	return &d
}

func NewPunchStore(db *sql.DB) punch.PunchSource {
	return &punchStore{db: db}
}
