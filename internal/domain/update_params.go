package domain

import (
	"fmt"
	"time"
)

// UpdateListParams contains parameters for updating a task list with field
// mask support. Uses client-side optimistic concurrency control via etag.
type UpdateListParams struct {
	ListID string

	// Etag for optimistic concurrency control.
	// Format: numeric string, e.g., "1", "2".
	// If provided and doesn't match current version, returns ErrVersionConflict.
	Etag *string

	// UpdateMask specifies which fields to update.
	// Only fields in this list will be modified.
	UpdateMask []string

	// Field values (only applied if field is in UpdateMask)
	Title       *string
	Description *string
}

// Valid fields for UpdateListParams.
var updateListValidFields = map[string]struct{}{
	"title":       {},
	"description": {},
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateListParams) Validate() error {
	if len(p.UpdateMask) == 0 {
		return ErrEmptyUpdateMask
	}

	maskSet := make(map[string]bool, len(p.UpdateMask))

	for _, field := range p.UpdateMask {
		if _, ok := updateListValidFields[field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		maskSet[field] = true
	}

	if maskSet["title"] && p.Title == nil {
		return ErrTitleRequired
	}

	return nil
}

// UpdateTaskParams contains parameters for updating a task with field mask
// support. Uses client-side optimistic concurrency control via etag.
type UpdateTaskParams struct {
	TaskID string
	ListID string

	// Etag for optimistic concurrency control.
	// Format: numeric string, e.g., "1", "2".
	// If provided and doesn't match current version, returns ErrVersionConflict.
	Etag *string

	// UpdateMask specifies which fields to update.
	// Only fields in this list will be modified.
	UpdateMask []string

	// Field values (only applied if field is in UpdateMask)
	Title             *string
	Description       *string
	Status            *TaskStatus
	Priority          *TaskPriority
	DueDate           *time.Time
	AssignedTo        *string
	RecurrencePattern *RecurrencePattern

	// Completion stamps applied alongside a status change.
	// Set by the service layer when status transitions.
	// Computed internally - not set by API clients.
	CompletedAt *time.Time
	CompletedBy *string
}

// Valid fields for UpdateTaskParams.
var updateTaskValidFields = map[string]struct{}{
	"title":              {},
	"description":        {},
	"status":             {},
	"priority":           {},
	"due_date":           {},
	"assigned_to":        {},
	"recurrence_pattern": {},
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateTaskParams) Validate() error {
	if len(p.UpdateMask) == 0 {
		return ErrEmptyUpdateMask
	}

	maskSet := make(map[string]bool, len(p.UpdateMask))

	for _, field := range p.UpdateMask {
		if _, ok := updateTaskValidFields[field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		maskSet[field] = true
	}

	if maskSet["title"] && p.Title == nil {
		return ErrTitleRequired
	}
	if maskSet["status"] && p.Status == nil {
		return ErrStatusRequired
	}
	if maskSet["priority"] && p.Priority == nil {
		return ErrPriorityRequired
	}

	return nil
}

// UpdateSubtaskParams contains parameters for updating a subtask with field
// mask support.
type UpdateSubtaskParams struct {
	SubtaskID string
	TaskID    string
	ListID    string

	// UpdateMask specifies which fields to update.
	// Only fields in this list will be modified.
	UpdateMask []string

	// Field values (only applied if field is in UpdateMask)
	Title  *string
	Status *TaskStatus
	Order  *int

	// Completion stamps applied alongside a status change.
	// Computed internally - not set by API clients.
	CompletedAt *time.Time
	CompletedBy *string
}

// Valid fields for UpdateSubtaskParams.
var updateSubtaskValidFields = map[string]struct{}{
	"title":  {},
	"status": {},
	"order":  {},
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateSubtaskParams) Validate() error {
	if len(p.UpdateMask) == 0 {
		return ErrEmptyUpdateMask
	}

	maskSet := make(map[string]bool, len(p.UpdateMask))

	for _, field := range p.UpdateMask {
		if _, ok := updateSubtaskValidFields[field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		maskSet[field] = true
	}

	if maskSet["title"] && p.Title == nil {
		return ErrTitleRequired
	}
	if maskSet["status"] && p.Status == nil {
		return ErrStatusRequired
	}
	if maskSet["order"] && p.Order == nil {
		return ErrOrderRequired
	}

	return nil
}
