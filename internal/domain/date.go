package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the wire format for order and range dates.
// Dates are persisted as zero-padded DD.MM.YYYY strings; comparison is always
// done on parsed calendar dates, never on the raw strings.
const DateLayout = "02.01.2006"

// TimestampLayout is the wire format for created_at columns.
const TimestampLayout = "02.01.2006 15:04"

var datePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// Date is a calendar date parsed from the DD.MM.YYYY wire format.
type Date struct {
	t time.Time
}

// ParseDate validates input against the exact DD.MM.YYYY pattern and returns
// the parsed calendar date. Wrong separators, missing zero padding and
// out-of-range day/month values are all rejected.
func ParseDate(input string) (Date, error) {
	s := strings.TrimSpace(input)
	if !datePattern.MatchString(s) {
		return Date{}, fmt.Errorf("invalid date %q: want DD.MM.YYYY", input)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", input, err)
	}
	return Date{t: t}, nil
}

// ValidDate reports whether input is a well-formed DD.MM.YYYY date.
func ValidDate(input string) bool {
	_, err := ParseDate(input)
	return err == nil
}

// String renders the date back into the DD.MM.YYYY wire format.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Time exposes the underlying calendar date for SQL parameters.
func (d Date) Time() time.Time {
	return d.t
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Within reports whether d falls inside the inclusive [from, to] interval.
func (d Date) Within(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}
