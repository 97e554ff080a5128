package utils

import (
	"fmt"
	"time"
)

const (
	DateTime    = "2006-01-02 15:04"
	DateTimeSec = "2006-01-02 15:04:05"
	TimeOnly    = "15:04:05"
)

// Percent formats a percentage with two decimals.
func Percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// TimeOrDash formats a time value using the given layout, or returns "-" if zero.
func TimeOrDash(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(layout)
}

// OrDash returns s, or "-" when s is empty.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
