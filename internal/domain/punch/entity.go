package punch

import "time"

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// RawPunch is one time-clock event. Direction is nil when the device does not report it.
type RawPunch struct {
	EmpCode   int
	Time      time.Time
	Direction *Direction
}
