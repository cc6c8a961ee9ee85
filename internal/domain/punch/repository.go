package punch

import (
	"context"
	"time"
)

// PunchSource reads raw device punches from the time-clock store.
type PunchSource interface {
	// ListBetween returns punches in [from, to), optionally for one employee code.
	ListBetween(ctx context.Context, from, to time.Time, empCode *int) ([]RawPunch, error)
}
