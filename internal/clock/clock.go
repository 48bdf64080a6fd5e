// Package clock provides the wall-clock collaborator used to stamp records
// and to decide which calendar day is "today".
package clock

import (
	"time"

	"github.com/julianstephens/greenie/internal/constants"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock in the local timezone.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns T. Useful for tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// Today returns the calendar day of c in YYYY-MM-DD format.
func Today(c Clock) string {
	return c.Now().Format(constants.DateFormat)
}

// DaysBefore returns the YYYY-MM-DD day n days before date.
// The date is returned unchanged if it cannot be parsed.
func DaysBefore(date string, n int) string {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, -n).Format(constants.DateFormat)
}
