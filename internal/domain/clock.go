package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the feed's canonical contest date form (DD-MM-YYYY).
	DateLayout = "02-01-2006"
	// ClockLayout is the feed's start/end time form (24h).
	ClockLayout = "15:04"
	// ReminderLead is how long before a contest's start its reminder fires.
	ReminderLead = 15 * time.Minute
)

var (
	ErrEmptyStartTime   = errors.New("empty start time")
	ErrInvalidStartTime = errors.New("invalid start time")
)

// DateString renders t's date in the feed's canonical form, in t's
// location. Contest filtering is exact string equality against this.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// StartAt combines a contest's HH:MM start with now's date and
// location. The contest is assumed to be today's; the feed filter
// guarantees that before this is called.
func StartAt(c Contest, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(c.StartTime)
	if s == "" {
		return time.Time{}, ErrEmptyStartTime
	}
	clock, err := time.Parse(ClockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidStartTime, c.StartTime)
	}
	return time.Date(now.Year(), now.Month(), now.Day(),
		clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}

// ReminderAt returns the moment the contest's reminder should fire,
// ReminderLead before its start.
func ReminderAt(c Contest, now time.Time) (time.Time, error) {
	start, err := StartAt(c, now)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(-ReminderLead), nil
}
