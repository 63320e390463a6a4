package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// Title is a validated title value object (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if len(s) > 255 {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// NewEmail validates and normalizes an email address (lowercased).
func NewEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", fmt.Errorf("%w: %s", ErrInvalidEmail, s)
	}

	return s, nil
}

// NewTaskStatus validates and creates a TaskStatus.
func NewTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ToLower(s))

	switch status {
	case TaskStatusPending, TaskStatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, s)
	}
}

// NewTaskPriority validates and creates a TaskPriority.
// An empty value defaults to medium.
func NewTaskPriority(s string) (TaskPriority, error) {
	if s == "" {
		return TaskPriorityMedium, nil
	}

	priority := TaskPriority(strings.ToLower(s))

	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return priority, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidPriority, s)
	}
}

// NewSharePermission validates and creates a SharePermission.
func NewSharePermission(s string) (SharePermission, error) {
	perm := SharePermission(strings.ToLower(s))

	switch perm {
	case SharePermissionView, SharePermissionEdit:
		return perm, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidShareRole, s)
	}
}
