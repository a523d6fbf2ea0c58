package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of date inputs.
const DateLayout = "2006-01-02"

// DaysInMonth returns the number of days in month of year. Months are
// 1-based.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CalendarAge returns completed years between birth and on.
func CalendarAge(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age
}

// startOfDay truncates t to local midnight in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseDate reads a YYYY-MM-DD value as midnight in loc.
func parseDate(value string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// buildDate assembles a date from year, month and day selects, rejecting
// combinations that do not exist on the calendar.
func buildDate(year, month, day string, loc *time.Location) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if y < 1 || m < 1 || m > 12 || d < 1 || d > DaysInMonth(y, time.Month(m)) {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), true
}

var leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// parseLeadingFloat reads the longest numeric prefix of s, so "12円"
// yields 12.
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// numberInRange checks a numeric value against (min, max], or [min, max]
// when inclusiveMin is set.
func numberInRange(min, max float64, inclusiveMin bool) Predicate {
	return func(value string, _ Values) bool {
		n, ok := parseLeadingFloat(value)
		if !ok || n > max {
			return false
		}
		if inclusiveMin {
			return n >= min
		}
		return n > min
	}
}

// withinPastYears accepts dates in [today - years, today].
func withinPastYears(now func() time.Time, years int) Predicate {
	return func(value string, _ Values) bool {
		today := startOfDay(now())
		d, ok := parseDate(value, today.Location())
		if !ok {
			return false
		}
		earliest := today.AddDate(-years, 0, 0)
		return !d.Before(earliest) && !d.After(today)
	}
}

// notBefore requires the value to be on or after the date in field ref.
// An empty reference passes.
func notBefore(ref string) Predicate {
	return func(value string, fields Values) bool {
		if value == "" {
			return false
		}
		refValue := fields[ref]
		if refValue == "" {
			return true
		}
		d, ok1 := parseDate(value, time.Local)
		r, ok2 := parseDate(refValue, time.Local)
		if !ok1 || !ok2 {
			return false
		}
		return !d.Before(r)
	}
}
