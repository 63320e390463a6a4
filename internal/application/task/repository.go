package task

import (
	"context"

	"github.com/rezkam/listor/internal/domain"
)

// Repository defines storage operations for list and task management.
// All create/update operations return the entity as persisted, including version.
type Repository interface {
	// === List Operations ===

	// CreateList creates a new task list.
	// Returns the created list with version populated by persistence layer.
	CreateList(ctx context.Context, list *domain.TaskList) (*domain.TaskList, error)

	// FindListByID retrieves a task list by its ID, including the shared
	// access map. Returns domain.ErrListNotFound if list doesn't exist.
	FindListByID(ctx context.Context, id string) (*domain.TaskList, error)

	// FindListsForUser retrieves every list the user owns or has been
	// granted access to.
	FindListsForUser(ctx context.Context, userID string) ([]*domain.TaskList, error)

	// UpdateList updates a list using field mask.
	// Only updates fields specified in UpdateMask.
	// Returns domain.ErrListNotFound if list doesn't exist.
	// Returns domain.ErrVersionConflict if etag is provided and doesn't match current version.
	UpdateList(ctx context.Context, params domain.UpdateListParams) (*domain.TaskList, error)

	// DeleteList deletes a list row. Dependent rows are removed separately
	// within the same Atomic scope.
	// Returns domain.ErrListNotFound if list doesn't exist.
	DeleteList(ctx context.Context, id string) error

	// === Task Operations ===

	// CreateTask creates a new task in a list.
	// Returns domain.ErrListNotFound if list doesn't exist.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// FindTaskByID retrieves a single task by its ID.
	// Returns domain.ErrTaskNotFound if task doesn't exist.
	FindTaskByID(ctx context.Context, id string) (*domain.Task, error)

	// FindTasksByList retrieves all tasks in a list.
	FindTasksByList(ctx context.Context, listID string) ([]*domain.Task, error)

	// FindGeneratedInstances retrieves tasks generated from the given
	// source task, most recent first.
	FindGeneratedInstances(ctx context.Context, sourceTaskID string) ([]*domain.Task, error)

	// UpdateTask updates a task using field mask and optional etag.
	// Only updates fields specified in UpdateMask.
	// Returns domain.ErrTaskNotFound if task doesn't exist.
	// Returns domain.ErrVersionConflict if etag is provided and doesn't match current version.
	UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error)

	// DeleteTask deletes a task row. Subtasks are removed separately
	// within the same Atomic scope.
	// Returns domain.ErrTaskNotFound if task doesn't exist.
	DeleteTask(ctx context.Context, id string) error

	// DeleteTasksByList deletes all tasks in a list.
	DeleteTasksByList(ctx context.Context, listID string) error

	// === Subtask Operations ===

	// CreateSubtask creates a new subtask under a task.
	// Returns domain.ErrTaskNotFound if task doesn't exist.
	CreateSubtask(ctx context.Context, subtask *domain.Subtask) (*domain.Subtask, error)

	// FindSubtaskByID retrieves a single subtask by its ID.
	// Returns domain.ErrSubtaskNotFound if subtask doesn't exist.
	FindSubtaskByID(ctx context.Context, id string) (*domain.Subtask, error)

	// FindSubtasksByTask retrieves a task's subtasks ordered by their
	// display order, ties broken by insertion order.
	FindSubtasksByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error)

	// UpdateSubtask updates a subtask using field mask.
	// Returns domain.ErrSubtaskNotFound if subtask doesn't exist.
	UpdateSubtask(ctx context.Context, params domain.UpdateSubtaskParams) (*domain.Subtask, error)

	// DeleteSubtask deletes a subtask.
	// Returns domain.ErrSubtaskNotFound if subtask doesn't exist.
	DeleteSubtask(ctx context.Context, id string) error

	// DeleteSubtasksByTask deletes all subtasks of a task.
	DeleteSubtasksByTask(ctx context.Context, taskID string) error

	// DeleteSubtasksByList deletes all subtasks belonging to tasks of a list.
	DeleteSubtasksByList(ctx context.Context, listID string) error

	// === Cascade Support ===

	// DeleteInvitationsByList deletes all invitations addressed at a list.
	DeleteInvitationsByList(ctx context.Context, listID string) error

	// DeleteNotificationsByList deletes all notifications referencing a list.
	DeleteNotificationsByList(ctx context.Context, listID string) error

	// Atomic runs fn inside a single transaction. The Repository passed to
	// fn performs all operations on that transaction; any returned error
	// rolls everything back.
	Atomic(ctx context.Context, fn func(repo Repository) error) error
}
