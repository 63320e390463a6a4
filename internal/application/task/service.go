package task

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/listor/internal/domain"
	"github.com/rezkam/listor/internal/ptr"
	"github.com/rezkam/listor/internal/recurring"
)

// Service provides business logic for list, task, and subtask management.
// Every operation authorizes the acting user against the target list before
// touching data.
type Service struct {
	repo Repository
}

// NewService creates a new task service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// listForView fetches a list and checks the user may read it.
func (s *Service) listForView(ctx context.Context, listID, userID string) (*domain.TaskList, domain.Permission, error) {
	if listID == "" {
		return nil, domain.PermissionNone, domain.ErrListNotFound
	}

	list, err := s.repo.FindListByID(ctx, listID)
	if err != nil {
		return nil, domain.PermissionNone, err
	}

	perm := domain.ResolvePermission(list, userID)
	if !perm.CanView() {
		return nil, domain.PermissionNone, domain.ErrPermissionDenied
	}

	return list, perm, nil
}

// listForEdit fetches a list and checks the user may mutate its tasks.
func (s *Service) listForEdit(ctx context.Context, listID, userID string) (*domain.TaskList, error) {
	list, perm, err := s.listForView(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if !perm.CanEdit() {
		return nil, domain.ErrPermissionDenied
	}
	return list, nil
}

// === List Operations ===

// CreateList creates a new task list owned by the acting user.
func (s *Service) CreateList(ctx context.Context, userID, titleStr string, description *string) (*domain.TaskList, error) {
	title, err := domain.NewTitle(titleStr)
	if err != nil {
		return nil, err
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now().UTC()
	list := &domain.TaskList{
		ID:          idObj.String(),
		Title:       title.String(),
		Description: description,
		OwnerID:     userID,
		CreatedAt:   now,
		UpdatedAt:   now,
		SharedWith:  map[string]domain.SharedUser{},
	}

	createdList, err := s.repo.CreateList(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	return createdList, nil
}

// GetList retrieves a list the user has access to.
func (s *Service) GetList(ctx context.Context, userID, listID string) (*domain.TaskList, error) {
	list, _, err := s.listForView(ctx, listID, userID)
	return list, err
}

// ListLists retrieves every list the user owns or collaborates on.
func (s *Service) ListLists(ctx context.Context, userID string) ([]*domain.TaskList, error) {
	lists, err := s.repo.FindListsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

// UpdateList updates a list using field mask.
// Only updates fields specified in UpdateMask.
func (s *Service) UpdateList(ctx context.Context, userID string, params domain.UpdateListParams) (*domain.TaskList, error) {
	if _, err := s.listForEdit(ctx, params.ListID, userID); err != nil {
		return nil, err
	}

	if err := validateEtag(params.Etag); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.Title != nil {
		title, err := domain.NewTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		params.Title = ptr.To(title.String())
	}

	return s.repo.UpdateList(ctx, params)
}

// DeleteList deletes a list and everything hanging off it: tasks, subtasks,
// invitations, and notifications, in one transaction. Owner only.
func (s *Service) DeleteList(ctx context.Context, userID, listID string) error {
	list, perm, err := s.listForView(ctx, listID, userID)
	if err != nil {
		return err
	}
	if !perm.CanDelete() {
		return domain.ErrPermissionDenied
	}

	return s.repo.Atomic(ctx, func(repo Repository) error {
		if err := repo.DeleteSubtasksByList(ctx, list.ID); err != nil {
			return fmt.Errorf("failed to delete subtasks: %w", err)
		}
		if err := repo.DeleteTasksByList(ctx, list.ID); err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}
		if err := repo.DeleteInvitationsByList(ctx, list.ID); err != nil {
			return fmt.Errorf("failed to delete invitations: %w", err)
		}
		if err := repo.DeleteNotificationsByList(ctx, list.ID); err != nil {
			return fmt.Errorf("failed to delete notifications: %w", err)
		}
		return repo.DeleteList(ctx, list.ID)
	})
}

// === Task Operations ===

// CreateTask creates a new task in a list the user can edit.
func (s *Service) CreateTask(ctx context.Context, userID string, task *domain.Task) (*domain.Task, error) {
	list, err := s.listForEdit(ctx, task.ListID, userID)
	if err != nil {
		return nil, err
	}

	title, err := domain.NewTitle(task.Title)
	if err != nil {
		return nil, err
	}
	task.Title = title.String()

	priority, err := domain.NewTaskPriority(string(task.Priority))
	if err != nil {
		return nil, err
	}
	task.Priority = priority

	if err := checkRecurrence(task.IsRecurring, task.RecurrencePattern, time.Now().UTC()); err != nil {
		return nil, err
	}

	if task.AssignedTo != nil {
		if !domain.ResolvePermission(list, *task.AssignedTo).CanView() {
			return nil, fmt.Errorf("%w: assignee has no access to the list", domain.ErrPermissionDenied)
		}
	}

	if task.ID == "" {
		idObj, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate id: %w", err)
		}
		task.ID = idObj.String()
	}

	now := time.Now().UTC()
	task.Status = domain.TaskStatusPending
	task.CreatedBy = userID
	task.CreatedAt = now
	task.UpdatedAt = now
	task.CompletedAt = nil
	task.CompletedBy = nil

	if task.DueDate != nil {
		utc := task.DueDate.UTC()
		task.DueDate = &utc
	}

	createdTask, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return createdTask, nil
}

// GetTask retrieves a single task with permission checked against its list.
func (s *Service) GetTask(ctx context.Context, userID, listID, taskID string) (*domain.Task, error) {
	if _, _, err := s.listForView(ctx, listID, userID); err != nil {
		return nil, err
	}

	task, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.ListID != listID {
		return nil, domain.ErrTaskNotFound
	}

	return task, nil
}

// ListTasksParams bundles the read-side options for ListTasks.
type ListTasksParams struct {
	ListID string
	Filter domain.TaskFilter
	Sort   domain.TaskSort
	Bucket string // optional time bucket: "today" or "next7days"
}

// ListTasks retrieves a list's tasks, filtered, bucketed, and sorted.
func (s *Service) ListTasks(ctx context.Context, userID string, params ListTasksParams) ([]*domain.Task, error) {
	if _, _, err := s.listForView(ctx, params.ListID, userID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.FindTasksByList(ctx, params.ListID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks = params.Filter.Apply(tasks)

	if params.Bucket != "" {
		now := time.Now().UTC()
		bucketed := make([]*domain.Task, 0, len(tasks))
		for _, t := range tasks {
			if domain.InBucket(t, params.Bucket, now) {
				bucketed = append(bucketed, t)
			}
		}
		tasks = bucketed
	}

	sort := params.Sort
	if sort.Field == "" {
		sort = domain.DefaultSort()
	}

	return domain.SortTasks(tasks, sort), nil
}

// GetListStats computes per-list counters over the full task set.
func (s *Service) GetListStats(ctx context.Context, userID, listID string) (domain.ListStats, error) {
	if _, _, err := s.listForView(ctx, listID, userID); err != nil {
		return domain.ListStats{}, err
	}

	tasks, err := s.repo.FindTasksByList(ctx, listID)
	if err != nil {
		return domain.ListStats{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	return domain.ComputeListStats(tasks, time.Now().UTC()), nil
}

// UpdateTask updates a task using field mask and optional etag for OCC.
//
// A status transition to completed stamps CompletedAt/CompletedBy; the
// reverse transition clears them. Completing a recurring task additionally
// tries to generate the next instance; that side effect is best-effort and
// never fails the update.
func (s *Service) UpdateTask(ctx context.Context, userID string, params domain.UpdateTaskParams) (*domain.Task, error) {
	list, err := s.listForEdit(ctx, params.ListID, userID)
	if err != nil {
		return nil, err
	}

	if err := validateEtag(params.Etag); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.Title != nil {
		title, err := domain.NewTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		params.Title = ptr.To(title.String())
	}
	if params.Status != nil {
		if _, err := domain.NewTaskStatus(string(*params.Status)); err != nil {
			return nil, err
		}
	}
	if params.Priority != nil {
		if _, err := domain.NewTaskPriority(string(*params.Priority)); err != nil {
			return nil, err
		}
	}
	if params.RecurrencePattern != nil {
		if err := checkRecurrence(true, params.RecurrencePattern, time.Now().UTC()); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.FindTaskByID(ctx, params.TaskID)
	if err != nil {
		return nil, err
	}
	if existing.ListID != params.ListID {
		return nil, domain.ErrTaskNotFound
	}

	if params.AssignedTo != nil {
		if !domain.ResolvePermission(list, *params.AssignedTo).CanView() {
			return nil, fmt.Errorf("%w: assignee has no access to the list", domain.ErrPermissionDenied)
		}
	}

	now := time.Now().UTC()
	completing := false
	if params.Status != nil && slices.Contains(params.UpdateMask, "status") {
		switch {
		case *params.Status == domain.TaskStatusCompleted && existing.Status != domain.TaskStatusCompleted:
			params.CompletedAt = &now
			params.CompletedBy = &userID
			completing = true
		case *params.Status == domain.TaskStatusPending:
			params.CompletedAt = nil
			params.CompletedBy = nil
		}
	}

	updated, err := s.repo.UpdateTask(ctx, params)
	if err != nil {
		return nil, err
	}

	if completing && updated.IsRecurring && updated.RecurrencePattern != nil {
		s.generateNextInstance(ctx, updated, now)
	}

	return updated, nil
}

// generateNextInstance creates the follow-up instance of a completed
// recurring task. Failures are logged and swallowed: the completion itself
// already succeeded and must stay that way.
func (s *Service) generateNextInstance(ctx context.Context, completed *domain.Task, now time.Time) {
	lastDue := now
	if completed.DueDate != nil {
		lastDue = *completed.DueDate
	}

	sourceID := completed.ID
	if completed.GeneratedFrom != nil {
		sourceID = *completed.GeneratedFrom
	}

	instances, err := s.repo.FindGeneratedInstances(ctx, sourceID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load existing recurring instances",
			"task_id", completed.ID, "error", err)
		return
	}

	existingDue := make([]time.Time, 0, len(instances))
	for _, inst := range instances {
		if inst.DueDate != nil {
			existingDue = append(existingDue, *inst.DueDate)
		}
	}

	if !recurring.ShouldGenerate(lastDue, *completed.RecurrencePattern, existingDue, now) {
		return
	}

	next := recurring.NextOccurrence(lastDue, *completed.RecurrencePattern)
	if next == nil {
		return
	}

	instance, err := recurring.NewInstance(completed, *next, now)
	if err != nil {
		slog.WarnContext(ctx, "failed to build recurring instance",
			"task_id", completed.ID, "error", err)
		return
	}
	instance.GeneratedFrom = &sourceID

	if _, err := s.repo.CreateTask(ctx, instance); err != nil {
		slog.WarnContext(ctx, "failed to create recurring instance",
			"task_id", completed.ID, "error", err)
	}
}

// DeleteTask deletes a task and its subtasks in one transaction.
func (s *Service) DeleteTask(ctx context.Context, userID, listID, taskID string) error {
	if _, err := s.listForEdit(ctx, listID, userID); err != nil {
		return err
	}

	task, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.ListID != listID {
		return domain.ErrTaskNotFound
	}

	return s.repo.Atomic(ctx, func(repo Repository) error {
		if err := repo.DeleteSubtasksByTask(ctx, taskID); err != nil {
			return fmt.Errorf("failed to delete subtasks: %w", err)
		}
		return repo.DeleteTask(ctx, taskID)
	})
}

// === Subtask Operations ===

// CreateSubtask creates a new subtask under a task.
// An order of zero or less appends after the current highest order.
func (s *Service) CreateSubtask(ctx context.Context, userID, listID string, subtask *domain.Subtask) (*domain.Subtask, error) {
	if _, err := s.listForEdit(ctx, listID, userID); err != nil {
		return nil, err
	}

	parent, err := s.repo.FindTaskByID(ctx, subtask.TaskID)
	if err != nil {
		return nil, err
	}
	if parent.ListID != listID {
		return nil, domain.ErrTaskNotFound
	}

	title, err := domain.NewTitle(subtask.Title)
	if err != nil {
		return nil, err
	}
	subtask.Title = title.String()

	if subtask.Order <= 0 {
		siblings, err := s.repo.FindSubtasksByTask(ctx, subtask.TaskID)
		if err != nil {
			return nil, err
		}
		maxOrder := 0
		for _, sib := range siblings {
			if sib.Order > maxOrder {
				maxOrder = sib.Order
			}
		}
		subtask.Order = maxOrder + 1
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}
	subtask.ID = idObj.String()
	subtask.Status = domain.TaskStatusPending
	subtask.CreatedBy = userID
	subtask.CreatedAt = time.Now().UTC()
	subtask.CompletedAt = nil
	subtask.CompletedBy = nil

	created, err := s.repo.CreateSubtask(ctx, subtask)
	if err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}

	return created, nil
}

// ListSubtasks retrieves a task's subtasks in display order.
func (s *Service) ListSubtasks(ctx context.Context, userID, listID, taskID string) ([]*domain.Subtask, error) {
	if _, _, err := s.listForView(ctx, listID, userID); err != nil {
		return nil, err
	}

	parent, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if parent.ListID != listID {
		return nil, domain.ErrTaskNotFound
	}

	return s.repo.FindSubtasksByTask(ctx, taskID)
}

// UpdateSubtask updates a subtask using field mask. Status transitions
// stamp or clear the completion fields, mirroring task completion.
func (s *Service) UpdateSubtask(ctx context.Context, userID, listID string, params domain.UpdateSubtaskParams) (*domain.Subtask, error) {
	if _, err := s.listForEdit(ctx, listID, userID); err != nil {
		return nil, err
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.Title != nil {
		title, err := domain.NewTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		params.Title = ptr.To(title.String())
	}
	if params.Status != nil {
		if _, err := domain.NewTaskStatus(string(*params.Status)); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.FindSubtaskByID(ctx, params.SubtaskID)
	if err != nil {
		return nil, err
	}
	if existing.TaskID != params.TaskID {
		return nil, domain.ErrSubtaskNotFound
	}

	parent, err := s.repo.FindTaskByID(ctx, params.TaskID)
	if err != nil {
		return nil, err
	}
	if parent.ListID != listID {
		return nil, domain.ErrTaskNotFound
	}

	if params.Status != nil && slices.Contains(params.UpdateMask, "status") {
		now := time.Now().UTC()
		switch {
		case *params.Status == domain.TaskStatusCompleted && existing.Status != domain.TaskStatusCompleted:
			params.CompletedAt = &now
			params.CompletedBy = &userID
		case *params.Status == domain.TaskStatusPending:
			params.CompletedAt = nil
			params.CompletedBy = nil
		}
	}

	return s.repo.UpdateSubtask(ctx, params)
}

// DeleteSubtask deletes a single subtask.
func (s *Service) DeleteSubtask(ctx context.Context, userID, listID, taskID, subtaskID string) error {
	if _, err := s.listForEdit(ctx, listID, userID); err != nil {
		return err
	}

	subtask, err := s.repo.FindSubtaskByID(ctx, subtaskID)
	if err != nil {
		return err
	}
	if subtask.TaskID != taskID {
		return domain.ErrSubtaskNotFound
	}

	parent, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if parent.ListID != listID {
		return domain.ErrTaskNotFound
	}

	return s.repo.DeleteSubtask(ctx, subtaskID)
}

// checkRecurrence enforces the recurring-flag/pattern pairing and pattern
// validity. Warnings from validation do not block the write.
func checkRecurrence(isRecurring bool, pattern *domain.RecurrencePattern, now time.Time) error {
	if isRecurring != (pattern != nil) {
		return domain.ErrRecurrenceRequired
	}
	if pattern == nil {
		return nil
	}

	result := recurring.Validate(*pattern, now)
	if !result.Valid {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRecurrence, result.Errors[0])
	}

	return nil
}

// validateEtag checks that an etag, when provided, is a positive integer
// string as produced by Etag().
func validateEtag(etag *string) error {
	if etag == nil {
		return nil
	}
	version, err := strconv.Atoi(*etag)
	if err != nil || version < 1 {
		return domain.ErrInvalidEtagFormat
	}
	return nil
}
