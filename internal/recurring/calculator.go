package recurring

import (
	"time"

	"github.com/rezkam/listor/internal/domain"
)

// NextOccurrence returns the due date of the next instance after the given
// one, or nil when the pattern has run out (past its end date) or is of an
// unknown type.
//
// Calendar arithmetic uses time.AddDate, so a monthly step from Jan 31
// normalizes forward (Jan 31 + 1 month = Mar 2 in a non-leap year).
func NextOccurrence(after time.Time, pattern domain.RecurrencePattern) *time.Time {
	var next time.Time

	switch pattern.Type {
	case domain.RecurrenceDaily:
		next = after.AddDate(0, 0, pattern.Interval)

	case domain.RecurrenceWeekly:
		next = after.AddDate(0, 0, weeklyDaysToAdd(after, pattern))

	case domain.RecurrenceMonthly:
		next = after.AddDate(0, pattern.Interval, 0)

	default:
		return nil
	}

	if pattern.EndDate != nil && next.After(*pattern.EndDate) {
		return nil
	}

	return &next
}

// weeklyDaysToAdd computes the day offset for a weekly pattern. With no
// day-of-week selection the pattern steps a whole number of weeks.
// With a selection it advances to the next selected weekday, wrapping to
// the earliest selected day of the following cycle when the current
// weekday is at or past the last selected one. The selection does not
// have to be sorted.
func weeklyDaysToAdd(after time.Time, pattern domain.RecurrencePattern) int {
	if len(pattern.DaysOfWeek) == 0 {
		return pattern.Interval * 7
	}

	currentDay := int(after.Weekday())
	nextInWeek := -1
	earliest := pattern.DaysOfWeek[0]
	for _, day := range pattern.DaysOfWeek {
		if day > currentDay && (nextInWeek == -1 || day < nextInWeek) {
			nextInWeek = day
		}
		if day < earliest {
			earliest = day
		}
	}
	if nextInWeek != -1 {
		return nextInWeek - currentDay
	}

	return pattern.Interval*7 - currentDay + earliest
}

// ShouldGenerate reports whether a new instance is due to be created for a
// completed or scheduled recurring task.
//
// An instance is generated only when the pattern yields a next occurrence,
// that occurrence falls within the next 7 days, and no existing future
// instance already occupies the same calendar date.
func ShouldGenerate(lastDueDate time.Time, pattern domain.RecurrencePattern, existingDueDates []time.Time, now time.Time) bool {
	next := NextOccurrence(lastDueDate, pattern)
	if next == nil {
		return false
	}

	if next.Sub(now) > 7*24*time.Hour {
		return false
	}

	for _, existing := range existingDueDates {
		if domain.SameCalendarDay(existing, *next) {
			return false
		}
	}

	return true
}
