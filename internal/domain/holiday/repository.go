package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListOverlapping returns single-day holidays dated inside [dayStart, dayEnd] and ranged
	// holidays whose [from, to] intersects it.
	ListOverlapping(ctx context.Context, dayStart, dayEnd time.Time) ([]Holiday, error)
}
