package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for lesson dates.
const DateLayout = "2006-01-02"

// MinutesPerDay bounds a clock-minute value.
const MinutesPerDay = 24 * 60

// ParseClockMinute converts an "HH:MM" string to minutes from midnight.
func ParseClockMinute(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock time out of range %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClockMinute converts minutes from midnight to "HH:MM".
func FormatClockMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseDate parses a "2006-01-02" calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as a "2006-01-02" calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekdayOf returns the weekday of a "2006-01-02" date.
func WeekdayOf(date string) (time.Weekday, error) {
	t, err := ParseDate(date)
	if err != nil {
		return time.Sunday, err
	}
	return t.Weekday(), nil
}
