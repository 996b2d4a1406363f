// Package daterange expands a start date and a day count into consecutive
// calendar dates.
package daterange

import (
	"fmt"
	"time"
)

// Range is a start date plus a count of consecutive days.
type Range struct {
	Start time.Time
	Count int
}

// New normalises start to midnight UTC of its calendar date.
func New(start time.Time, count int) (Range, error) {
	if count < 0 {
		return Range{}, fmt.Errorf("day count must not be negative, got %d", count)
	}
	return Range{Start: Date(start.Year(), start.Month(), start.Day()), Count: count}, nil
}

// Parse builds a Range from a YYYY-MM-DD start date.
func Parse(start string, count int) (Range, error) {
	parsed, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return Range{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	return New(parsed, count)
}

// Date returns midnight UTC of the given calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// At returns the i-th date of the range.
func (r Range) At(i int) time.Time {
	return r.Start.AddDate(0, 0, i)
}

// Dates returns Count dates in ascending order, one calendar day apart.
func (r Range) Dates() []time.Time {
	if r.Count <= 0 {
		return nil
	}
	dates := make([]time.Time, r.Count)
	for i := range dates {
		dates[i] = r.At(i)
	}
	return dates
}

// Format renders a date as an ISO 8601 calendar date.
func Format(date time.Time) string {
	return date.Format(time.DateOnly)
}
