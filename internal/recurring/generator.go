package recurring

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/listor/internal/domain"
)

// NewInstance builds the next pending instance of a recurring task, due at
// the given occurrence. The instance inherits the source task's content and
// pattern and links back to the source via GeneratedFrom.
func NewInstance(source *domain.Task, dueDate time.Time, now time.Time) (*domain.Task, error) {
	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID: %w", err)
	}

	sourceID := source.ID
	instance := &domain.Task{
		ID:                idObj.String(),
		ListID:            source.ListID,
		Title:             source.Title,
		Description:       source.Description,
		Priority:          source.Priority,
		Status:            domain.TaskStatusPending,
		DueDate:           &dueDate,
		AssignedTo:        source.AssignedTo,
		IsRecurring:       true,
		RecurrencePattern: source.RecurrencePattern,
		GeneratedFrom:     &sourceID,
		CreatedBy:         source.CreatedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
		Version:           1,
	}

	return instance, nil
}
