package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rezkam/listor/internal/domain"
)

// Persisted JSONB shapes. These mirror the domain types but carry explicit
// JSON field names, keeping the domain layer free of serialization tags.

type sharedUserJSON struct {
	Permission string    `json:"permission"`
	AddedAt    time.Time `json:"addedAt"`
	AddedBy    string    `json:"addedBy"`
}

type recurrencePatternJSON struct {
	Type       string     `json:"type"`
	Interval   int        `json:"interval"`
	DaysOfWeek []int      `json:"daysOfWeek,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

func sharedWithToJSON(sharedWith map[string]domain.SharedUser) ([]byte, error) {
	out := make(map[string]sharedUserJSON, len(sharedWith))
	for userID, entry := range sharedWith {
		out[userID] = sharedUserJSON{
			Permission: string(entry.Permission),
			AddedAt:    entry.AddedAt,
			AddedBy:    entry.AddedBy,
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shared access map: %w", err)
	}
	return data, nil
}

func sharedWithFromJSON(data []byte) (map[string]domain.SharedUser, error) {
	if len(data) == 0 {
		return map[string]domain.SharedUser{}, nil
	}

	var raw map[string]sharedUserJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shared access map: %w", err)
	}

	out := make(map[string]domain.SharedUser, len(raw))
	for userID, entry := range raw {
		out[userID] = domain.SharedUser{
			Permission: domain.SharePermission(entry.Permission),
			AddedAt:    entry.AddedAt,
			AddedBy:    entry.AddedBy,
		}
	}
	return out, nil
}

func recurrenceToJSON(pattern *domain.RecurrencePattern) ([]byte, error) {
	if pattern == nil {
		return nil, nil
	}

	data, err := json.Marshal(recurrencePatternJSON{
		Type:       string(pattern.Type),
		Interval:   pattern.Interval,
		DaysOfWeek: pattern.DaysOfWeek,
		EndDate:    pattern.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recurrence pattern: %w", err)
	}
	return data, nil
}

func recurrenceFromJSON(data []byte) (*domain.RecurrencePattern, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var raw recurrencePatternJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recurrence pattern: %w", err)
	}

	return &domain.RecurrencePattern{
		Type:       domain.RecurrenceType(raw.Type),
		Interval:   raw.Interval,
		DaysOfWeek: raw.DaysOfWeek,
		EndDate:    raw.EndDate,
	}, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
