package postgres

import (
	"context"
	"fmt"

	"github.com/rezkam/listor/internal/domain"
)

// === Worker Repository Implementation ===
// Implements worker.Repository. FindGeneratedInstances and CreateTask are
// shared with the task repository.

// FindRecurringSources retrieves recurring tasks that are not themselves
// generated instances, oldest first.
func (s *Store) FindRecurringSources(ctx context.Context) ([]*domain.Task, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE is_recurring AND recurrence_pattern IS NOT NULL AND generated_from IS NULL
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring sources: %w", err)
	}
	return collectTasks(rows)
}
