package service

import "time"

// Clock supplies the current time. Services take one instead of calling
// time.Now directly so tests can freeze time; DefaultClock is used when nil
// is passed at wiring.
type Clock func() time.Time

func DefaultClock() time.Time {
	return time.Now()
}

func orDefault(clock Clock) Clock {
	if clock == nil {
		return DefaultClock
	}
	return clock
}
