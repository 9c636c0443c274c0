package models

import (
	"errors"
	"fmt"
)

// MinutesPerDay is the exclusive upper bound of a reservation's end.
const MinutesPerDay = 24 * 60

var errClockFormat = errors.New("time must be in HH:MM format")

// ParseClock converts an "HH:MM" time of day into minutes after midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if len(s) != 5 || s[2] != ':' {
		return 0, errClockFormat
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, errClockFormat
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes after midnight as "HH:MM". The end of day renders as "24:00".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
