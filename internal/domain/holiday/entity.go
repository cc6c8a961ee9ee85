package holiday

import "time"

const (
	TypeOneDay = "One Day Holiday"
	TypeLong   = "Long Holiday"
)

// Holiday is either a single day (Date) or an inclusive range (From, To).
type Holiday struct {
	ID   string
	Name string
	Type string
	Date *time.Time
	From *time.Time
	To   *time.Time
}

// Covers reports whether the holiday falls on the day bounded by [dayStart, dayEnd].
func (h Holiday) Covers(dayStart, dayEnd time.Time) bool {
	if h.Date != nil {
		return !h.Date.Before(dayStart) && !h.Date.After(dayEnd)
	}
	if h.From != nil && h.To != nil {
		return !h.From.After(dayEnd) && !h.To.Before(dayStart)
	}
	return false
}
