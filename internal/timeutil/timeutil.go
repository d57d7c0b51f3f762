package timeutil

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func FormatDay(value time.Time) string {
	return value.Format(dayLayout)
}

func ParseDay(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dayLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", value, err)
	}
	return parsed, nil
}

// RoundHours rounds hours to two decimal places, half away from zero.
func RoundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}
