package recurring

import (
	"fmt"
	"strings"

	"github.com/rezkam/listor/internal/domain"
)

var shortDayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Describe renders a human-readable summary of a recurrence pattern, e.g.
// "Every day", "Weekly on Mon, Wed", "Every 3 months until Jun 1, 2026".
func Describe(pattern domain.RecurrencePattern) string {
	var description string

	switch pattern.Type {
	case domain.RecurrenceDaily:
		if pattern.Interval == 1 {
			description = "Every day"
		} else {
			description = fmt.Sprintf("Every %d days", pattern.Interval)
		}

	case domain.RecurrenceWeekly:
		switch {
		case pattern.Interval == 1 && len(pattern.DaysOfWeek) > 0:
			names := make([]string, 0, len(pattern.DaysOfWeek))
			for _, day := range pattern.DaysOfWeek {
				if day >= 0 && day < len(shortDayNames) {
					names = append(names, shortDayNames[day])
				}
			}
			description = "Weekly on " + strings.Join(names, ", ")
		case pattern.Interval == 1:
			description = "Every week"
		default:
			description = fmt.Sprintf("Every %d weeks", pattern.Interval)
		}

	case domain.RecurrenceMonthly:
		if pattern.Interval == 1 {
			description = "Every month"
		} else {
			description = fmt.Sprintf("Every %d months", pattern.Interval)
		}
	}

	if pattern.EndDate != nil {
		description += " until " + pattern.EndDate.Format("Jan 2, 2006")
	}

	return description
}
