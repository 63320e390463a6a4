package recurring

import (
	"testing"
	"time"

	"github.com/rezkam/listor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidDaily(t *testing.T) {
	now := time.Now().UTC()
	result := Validate(domain.RecurrencePattern{Type: domain.RecurrenceDaily, Interval: 1}, now)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_IntervalBounds(t *testing.T) {
	now := time.Now().UTC()

	t.Run("zero interval", func(t *testing.T) {
		result := Validate(domain.RecurrencePattern{Type: domain.RecurrenceDaily, Interval: 0}, now)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, "interval must be at least 1")
	})

	t.Run("negative interval", func(t *testing.T) {
		result := Validate(domain.RecurrencePattern{Type: domain.RecurrenceDaily, Interval: -2}, now)
		assert.False(t, result.Valid)
	})

	t.Run("over hard maximum", func(t *testing.T) {
		result := Validate(domain.RecurrencePattern{Type: domain.RecurrenceDaily, Interval: 400}, now)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, "interval cannot exceed 365")
	})

	t.Run("boundaries are valid", func(t *testing.T) {
		for _, interval := range []int{1, 365} {
			result := Validate(domain.RecurrencePattern{Type: domain.RecurrenceMonthly, Interval: interval}, now)
			assert.Empty(t, result.Errors)
		}
	})
}

func TestValidate_TypeCapsAreWarnings(t *testing.T) {
	now := time.Now().UTC()

	testCases := []struct {
		name    string
		pattern domain.RecurrencePattern
	}{
		{"daily over 30", domain.RecurrencePattern{Type: domain.RecurrenceDaily, Interval: 45}},
		{"weekly over 52", domain.RecurrencePattern{Type: domain.RecurrenceWeekly, Interval: 60}},
		{"monthly over 12", domain.RecurrencePattern{Type: domain.RecurrenceMonthly, Interval: 13}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Validate(tc.pattern, now)
			assert.True(t, result.Valid, "cap overruns must not invalidate the pattern")
			assert.Empty(t, result.Errors)
			require.Len(t, result.Warnings, 1)
		})
	}
}

func TestValidate_WeeklyDaysOfWeek(t *testing.T) {
	now := time.Now().UTC()

	t.Run("nil selection is valid", func(t *testing.T) {
		result := Validate(domain.RecurrencePattern{Type: domain.RecurrenceWeekly, Interval: 1}, now)
		assert.True(t, result.Valid)
	})

	t.Run("empty selection is an error", func(t *testing.T) {
		result := Validate(domain.RecurrencePattern{
			Type:       domain.RecurrenceWeekly,
			Interval:   1,
			DaysOfWeek: []int{},
		}, now)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, "at least one day of the week must be selected for weekly recurrence")
	})

	t.Run("out of range day is an error", func(t *testing.T) {
		for _, days := range [][]int{{-1}, {7}, {1, 9}} {
			result := Validate(domain.RecurrencePattern{
				Type:       domain.RecurrenceWeekly,
				Interval:   1,
				DaysOfWeek: days,
			}, now)
			assert.False(t, result.Valid)
			assert.Contains(t, result.Errors, "invalid days of week selected")
		}
	})

	t.Run("full week is valid", func(t *testing.T) {
		result := Validate(domain.RecurrencePattern{
			Type:       domain.RecurrenceWeekly,
			Interval:   1,
			DaysOfWeek: []int{0, 1, 2, 3, 4, 5, 6},
		}, now)
		assert.True(t, result.Valid)
	})
}

func TestValidate_EndDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	t.Run("future end date is valid", func(t *testing.T) {
		end := now.AddDate(0, 1, 0)
		result := Validate(domain.RecurrencePattern{Type: domain.RecurrenceDaily, Interval: 1, EndDate: &end}, now)
		assert.True(t, result.Valid)
	})

	t.Run("past end date is an error", func(t *testing.T) {
		end := now.AddDate(0, 0, -1)
		result := Validate(domain.RecurrencePattern{Type: domain.RecurrenceDaily, Interval: 1, EndDate: &end}, now)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, "end date must be in the future")
	})

	t.Run("start of today is an error", func(t *testing.T) {
		end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		result := Validate(domain.RecurrencePattern{Type: domain.RecurrenceDaily, Interval: 1, EndDate: &end}, now)
		assert.False(t, result.Valid)
	})

	t.Run("later today is valid", func(t *testing.T) {
		end := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
		result := Validate(domain.RecurrencePattern{Type: domain.RecurrenceDaily, Interval: 1, EndDate: &end}, now)
		assert.True(t, result.Valid)
	})
}

func TestValidate_UnknownType(t *testing.T) {
	now := time.Now().UTC()
	result := Validate(domain.RecurrencePattern{Type: "hourly", Interval: 1}, now)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "hourly")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	now := time.Now().UTC()
	end := now.AddDate(0, 0, -1)

	result := Validate(domain.RecurrencePattern{
		Type:       domain.RecurrenceWeekly,
		Interval:   0,
		DaysOfWeek: []int{8},
		EndDate:    &end,
	}, now)

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
}
