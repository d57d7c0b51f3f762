package reconcile

import (
	"time"

	"jirahour/internal/timeutil"
)

// RangeKey identifies one cached query window at day granularity. Keys built
// from the same pair of days compare equal regardless of argument order.
type RangeKey struct {
	Start time.Time
	End   time.Time
}

func RangeKeyFrom(start, end time.Time) RangeKey {
	start = timeutil.StartOfDay(start)
	end = timeutil.StartOfDay(end)
	if end.Before(start) {
		start, end = end, start
	}
	return RangeKey{Start: start, End: end}
}

// String is the canonical cache index for the key.
func (k RangeKey) String() string {
	return timeutil.FormatDay(k.Start) + ":" + timeutil.FormatDay(k.End)
}

// Overlaps reports whether the given day interval intersects the key's window.
func (k RangeKey) Overlaps(start, end time.Time) bool {
	start = timeutil.StartOfDay(start)
	end = timeutil.StartOfDay(end)
	return !start.After(k.End) && !end.Before(k.Start)
}
