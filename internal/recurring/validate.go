package recurring

import (
	"fmt"
	"time"

	"github.com/rezkam/listor/internal/domain"
)

// Interval bounds. The hard bound applies to every type; the per-type caps
// are advisory and surface as warnings.
const (
	MaxInterval        = 365
	MaxDailyInterval   = 30
	MaxWeeklyInterval  = 52
	MaxMonthlyInterval = 12
)

// ValidationResult is the outcome of validating a recurrence pattern.
// Errors make the pattern unusable; warnings flag unusual but workable
// configurations.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validate checks a recurrence pattern for structural problems. The end
// date, when present, must lie strictly after the start of the current day.
func Validate(pattern domain.RecurrencePattern, now time.Time) ValidationResult {
	var errors, warnings []string

	if pattern.Interval < 1 {
		errors = append(errors, "interval must be at least 1")
	}
	if pattern.Interval > MaxInterval {
		errors = append(errors, fmt.Sprintf("interval cannot exceed %d", MaxInterval))
	}

	switch pattern.Type {
	case domain.RecurrenceDaily:
		if pattern.Interval > MaxDailyInterval {
			warnings = append(warnings, fmt.Sprintf("daily recurrence interval should not exceed %d days", MaxDailyInterval))
		}

	case domain.RecurrenceWeekly:
		if pattern.Interval > MaxWeeklyInterval {
			warnings = append(warnings, fmt.Sprintf("weekly recurrence interval should not exceed %d weeks", MaxWeeklyInterval))
		}
		if pattern.DaysOfWeek != nil && len(pattern.DaysOfWeek) == 0 {
			errors = append(errors, "at least one day of the week must be selected for weekly recurrence")
		}
		for _, day := range pattern.DaysOfWeek {
			if day < 0 || day > 6 {
				errors = append(errors, "invalid days of week selected")
				break
			}
		}

	case domain.RecurrenceMonthly:
		if pattern.Interval > MaxMonthlyInterval {
			warnings = append(warnings, fmt.Sprintf("monthly recurrence interval should not exceed %d months", MaxMonthlyInterval))
		}

	default:
		errors = append(errors, fmt.Sprintf("unknown recurrence type %q", pattern.Type))
	}

	if pattern.EndDate != nil {
		startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if !pattern.EndDate.After(startOfToday) {
			errors = append(errors, "end date must be in the future")
		}
	}

	return ValidationResult{
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}
