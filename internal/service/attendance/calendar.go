package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/holiday"
)

// DayClass is the calendar classification of one day. A day can be both a holiday and a Sunday.
type DayClass struct {
	Date      time.Time
	IsHoliday bool
	Holidays  []holiday.Holiday
	IsSunday  bool
}

func (c DayClass) DayType() string {
	switch {
	case c.IsHoliday:
		return attendance.DayTypeHoliday
	case c.IsSunday:
		return attendance.DayTypeSunday
	default:
		return attendance.DayTypeWorking
	}
}

func (c DayClass) HolidayNames() []string {
	names := make([]string, 0, len(c.Holidays))
	for _, h := range c.Holidays {
		names = append(names, h.Name)
	}
	return names
}

// Classifier decides whether a date is a holiday, a Sunday or a working day.
type Classifier struct {
	holidays holiday.HolidayRepository
	loc      *time.Location
}

func NewClassifier(holidayRepo holiday.HolidayRepository, loc *time.Location) *Classifier {
	return &Classifier{holidays: holidayRepo, loc: loc}
}

func (c *Classifier) Classify(ctx context.Context, date time.Time) (DayClass, error) {
	dayStart := attendance.StartOfDay(date, c.loc)
	dayEnd := attendance.EndOfDay(date, c.loc)

	candidates, err := c.holidays.ListOverlapping(ctx, dayStart, dayEnd)
	if err != nil {
		return DayClass{}, fmt.Errorf("failed to list holidays: %w", err)
	}

	class := DayClass{
		Date:     dayStart,
		IsSunday: dayStart.Weekday() == time.Sunday,
	}
	for _, h := range candidates {
		if h.Covers(dayStart, dayEnd) {
			class.Holidays = append(class.Holidays, h)
		}
	}
	class.IsHoliday = len(class.Holidays) > 0

	return class, nil
}
