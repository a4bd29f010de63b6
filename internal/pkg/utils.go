package pkg

import (
	"time"
)

// Clock returns the current time. Services take it from the container so tests can pin it.
type Clock func() time.Time

func UTCClock() time.Time {
	return time.Now().UTC()
}

func StartOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func SameDateUTC(a, b time.Time) bool {
	return StartOfDayUTC(a).Equal(StartOfDayUTC(b))
}

func NextMidnightUTC(t time.Time) time.Time {
	return StartOfDayUTC(t).Add(24 * time.Hour)
}
