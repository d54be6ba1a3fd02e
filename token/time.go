package token

import (
	"fmt"
	"time"
)

const (
	ticksPerSecond = 10_000_000
	nanosPerTick   = 100

	// unixEpochTicks is 1970-01-01T00:00:00Z in ticks.
	unixEpochTicks int64 = 621_355_968_000_000_000
	// maxTicks is 9999-12-31T23:59:59.9999999Z.
	maxTicks int64 = 3_155_378_975_999_999_999

	maxOffsetMinutes = 14 * 60
)

var (
	minTime = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	maxTime = time.Date(9999, 12, 31, 23, 59, 59, 999_999_999, time.UTC)
)

// TimeInRange reports whether t falls between 0001-01-01 and 9999-12-31 UTC.
func TimeInRange(t time.Time) bool {
	return !t.Before(minTime) && !t.After(maxTime)
}

// Ticks returns the number of 100ns intervals between 0001-01-01 UTC and t.
// Sub-tick precision is truncated. Times outside TimeInRange clamp to the
// nearest end of the range.
func Ticks(t time.Time) int64 {
	switch {
	case t.Before(minTime):
		return 0
	case t.After(maxTime):
		return maxTicks
	}
	return unixEpochTicks + t.Unix()*ticksPerSecond + int64(t.Nanosecond()/nanosPerTick)
}

// FromTicks converts a tick count back into a UTC time.
func FromTicks(ticks int64) time.Time {
	d := ticks - unixEpochTicks
	return time.Unix(d/ticksPerSecond, (d%ticksPerSecond)*nanosPerTick).UTC()
}

// ValidTicks reports whether ticks lies within the representable calendar range.
func ValidTicks(ticks int64) bool {
	return ticks >= 0 && ticks <= maxTicks
}

// offsetMinutes returns the zone offset of t in whole minutes.
func offsetMinutes(t time.Time) (int16, error) {
	_, sec := t.Zone()
	if sec%60 != 0 {
		return 0, fmt.Errorf("%w: %ds is not a whole minute", ErrOffsetRange, sec)
	}
	m := sec / 60
	if m < -maxOffsetMinutes || m > maxOffsetMinutes {
		return 0, fmt.Errorf("%w: %d minutes", ErrOffsetRange, m)
	}
	return int16(m), nil
}
