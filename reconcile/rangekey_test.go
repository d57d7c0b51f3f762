package reconcile

import (
	"testing"
	"time"
)

func TestRangeKeyFrom_OrderIndependent(t *testing.T) {
	t.Parallel()

	a := time.Date(2026, 8, 3, 14, 30, 0, 0, time.Local)
	b := time.Date(2026, 8, 7, 9, 15, 0, 0, time.Local)

	forward := RangeKeyFrom(a, b)
	backward := RangeKeyFrom(b, a)

	if forward.String() != backward.String() {
		t.Fatalf("keys differ by argument order: %q vs %q", forward.String(), backward.String())
	}
	if forward.String() != "2026-08-03:2026-08-07" {
		t.Fatalf("unexpected canonical key: %q", forward.String())
	}
	if !forward.Start.Equal(backward.Start) || !forward.End.Equal(backward.End) {
		t.Fatalf("bounds differ: %+v vs %+v", forward, backward)
	}
}

func TestRangeKeyFrom_TruncatesTimeOfDay(t *testing.T) {
	t.Parallel()

	key := RangeKeyFrom(
		time.Date(2026, 8, 3, 23, 59, 59, 0, time.Local),
		time.Date(2026, 8, 3, 0, 0, 1, 0, time.Local),
	)
	want := time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local)
	if !key.Start.Equal(want) || !key.End.Equal(want) {
		t.Fatalf("expected both bounds at midnight, got %+v", key)
	}
}

func TestRangeKey_Overlaps(t *testing.T) {
	t.Parallel()

	key := RangeKeyFrom(
		time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local),
		time.Date(2026, 8, 7, 0, 0, 0, 0, time.Local),
	)

	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 12, 0, 0, 0, time.Local)
	}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{name: "inside", start: day(4), end: day(5), want: true},
		{name: "touching start", start: day(1), end: day(3), want: true},
		{name: "touching end", start: day(7), end: day(9), want: true},
		{name: "spanning", start: day(1), end: day(9), want: true},
		{name: "before", start: day(1), end: day(2), want: false},
		{name: "after", start: day(8), end: day(9), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := key.Overlaps(tc.start, tc.end); got != tc.want {
				t.Fatalf("overlaps(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}
