package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDayAndSameDay(t *testing.T) {
	t.Parallel()

	late := time.Date(2026, 8, 4, 23, 59, 59, 0, time.Local)
	early := time.Date(2026, 8, 4, 0, 0, 1, 0, time.Local)

	if !StartOfDay(late).Equal(StartOfDay(early)) {
		t.Fatalf("same calendar day must truncate equally: %v vs %v", StartOfDay(late), StartOfDay(early))
	}
	if !SameDay(late, early) {
		t.Fatal("expected same day")
	}
	if SameDay(late, late.Add(time.Minute)) {
		t.Fatal("expected midnight rollover to change the day")
	}
}

func TestParseAndFormatDay(t *testing.T) {
	t.Parallel()

	parsed, err := ParseDay(" 2026-08-04 ")
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	if parsed.Location() != time.Local {
		t.Fatalf("days are local, got %v", parsed.Location())
	}
	if got := FormatDay(parsed); got != "2026-08-04" {
		t.Fatalf("round trip mismatch: %q", got)
	}

	if _, err := ParseDay("04.08.2026"); err == nil {
		t.Fatal("expected error for unknown layout")
	}
}

func TestRoundHours(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{in: 1.5, want: 1.5},
		{in: 0.004999, want: 0},
		{in: 1.2345, want: 1.23},
		{in: 1.238, want: 1.24},
		{in: -1.238, want: -1.24},
		{in: 7.4999, want: 7.5},
	}

	for _, tc := range cases {
		if got := RoundHours(tc.in); got != tc.want {
			t.Fatalf("RoundHours(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
