package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

// ListOverlapping implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) ListOverlapping(ctx context.Context, dayStart, dayEnd time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, holiday_name, holiday_type, date, from_date, to_date
		FROM holidays
		WHERE (date BETWEEN $1 AND $2)
		   OR (from_date <= $2 AND to_date >= $1)
		ORDER BY holiday_name
	`

	rows, err := q.Query(ctx, query, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var hd holiday.Holiday
		if err := rows.Scan(&hd.ID, &hd.Name, &hd.Type, &hd.Date, &hd.From, &hd.To); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, hd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}
	return holidays, nil
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}
