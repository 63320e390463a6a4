package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rezkam/listor/internal/domain"
)

// === Task Repository Implementation ===
// Implements the task and subtask operations of application/task.Repository.

const taskColumns = `id, list_id, title, description, priority, status, due_date, assigned_to,
	is_recurring, recurrence_pattern, generated_from, created_by, created_at, updated_at,
	completed_at, completed_by, version`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t       domain.Task
		pattern []byte
	)
	err := row.Scan(&t.ID, &t.ListID, &t.Title, &t.Description, &t.Priority, &t.Status,
		&t.DueDate, &t.AssignedTo, &t.IsRecurring, &pattern, &t.GeneratedFrom,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt, &t.CompletedBy, &t.Version)
	if err != nil {
		return nil, err
	}

	t.RecurrencePattern, err = recurrenceFromJSON(pattern)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CreateTask persists a new task.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	pattern, err := recurrenceToJSON(task.RecurrencePattern)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO tasks (id, list_id, title, description, priority, status, due_date, assigned_to,
			is_recurring, recurrence_pattern, generated_from, created_by, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1)
		RETURNING `+taskColumns,
		task.ID, task.ListID, task.Title, task.Description, task.Priority, task.Status,
		task.DueDate, task.AssignedTo, task.IsRecurring, pattern, task.GeneratedFrom,
		task.CreatedBy, task.CreatedAt, task.UpdatedAt)

	created, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// FindTaskByID retrieves a task.
func (s *Store) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	row := s.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// FindTasksByList retrieves all tasks in a list, oldest first.
func (s *Store) FindTasksByList(ctx context.Context, listID string) ([]*domain.Task, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE list_id = $1 ORDER BY created_at`,
		listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return collectTasks(rows)
}

// FindGeneratedInstances retrieves all tasks generated from a recurring
// source task.
func (s *Store) FindGeneratedInstances(ctx context.Context, sourceTaskID string) ([]*domain.Task, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE generated_from = $1 ORDER BY created_at`,
		sourceTaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list generated instances: %w", err)
	}
	return collectTasks(rows)
}

// UpdateTask applies a field-mask update with optimistic concurrency
// control.
func (s *Store) UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error) {
	set := []string{"updated_at = $2", "version = version + 1"}
	args := []any{params.TaskID, time.Now().UTC()}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	for _, field := range params.UpdateMask {
		switch field {
		case "title":
			add("title", *params.Title)
		case "description":
			add("description", params.Description)
		case "status":
			add("status", *params.Status)
			add("completed_at", params.CompletedAt)
			add("completed_by", params.CompletedBy)
		case "priority":
			add("priority", *params.Priority)
		case "due_date":
			add("due_date", params.DueDate)
		case "assigned_to":
			add("assigned_to", params.AssignedTo)
		case "recurrence_pattern":
			pattern, err := recurrenceToJSON(params.RecurrencePattern)
			if err != nil {
				return nil, err
			}
			add("recurrence_pattern", pattern)
			add("is_recurring", params.RecurrencePattern != nil)
		}
	}

	where := "id = $1"
	if params.Etag != nil {
		version, err := strconv.Atoi(*params.Etag)
		if err != nil {
			return nil, domain.ErrInvalidEtagFormat
		}
		args = append(args, version)
		where += fmt.Sprintf(" AND version = $%d", len(args))
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE %s RETURNING %s`,
		strings.Join(set, ", "), where, taskColumns)

	task, err := scanTask(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyTaskUpdateMiss(ctx, params.TaskID)
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *Store) classifyTaskUpdateMiss(ctx context.Context, taskID string) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, taskID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check task existence: %w", err)
	}
	if exists {
		return domain.ErrVersionConflict
	}
	return domain.ErrTaskNotFound
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// DeleteTasksByList removes all tasks in a list.
func (s *Store) DeleteTasksByList(ctx context.Context, listID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE list_id = $1`, listID); err != nil {
		return fmt.Errorf("failed to delete tasks for list: %w", err)
	}
	return nil
}

// === Subtasks ===

const subtaskColumns = `id, task_id, title, status, sort_order, created_by, created_at, completed_at, completed_by`

func scanSubtask(row pgx.Row) (*domain.Subtask, error) {
	var st domain.Subtask
	err := row.Scan(&st.ID, &st.TaskID, &st.Title, &st.Status, &st.Order,
		&st.CreatedBy, &st.CreatedAt, &st.CompletedAt, &st.CompletedBy)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// CreateSubtask persists a new subtask.
func (s *Store) CreateSubtask(ctx context.Context, subtask *domain.Subtask) (*domain.Subtask, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO subtasks (id, task_id, title, status, sort_order, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+subtaskColumns,
		subtask.ID, subtask.TaskID, subtask.Title, subtask.Status, subtask.Order,
		subtask.CreatedBy, subtask.CreatedAt)

	created, err := scanSubtask(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}
	return created, nil
}

// FindSubtaskByID retrieves a subtask.
func (s *Store) FindSubtaskByID(ctx context.Context, id string) (*domain.Subtask, error) {
	row := s.db.QueryRow(ctx, `SELECT `+subtaskColumns+` FROM subtasks WHERE id = $1`, id)

	st, err := scanSubtask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to get subtask: %w", err)
	}
	return st, nil
}

// FindSubtasksByTask retrieves a task's subtasks in display order,
// insertion order breaking ties.
func (s *Store) FindSubtasksByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+subtaskColumns+` FROM subtasks WHERE task_id = $1 ORDER BY sort_order, created_at`,
		taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	defer rows.Close()

	var subtasks []*domain.Subtask
	for rows.Next() {
		st, err := scanSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subtask: %w", err)
		}
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}

// UpdateSubtask applies a field-mask update.
func (s *Store) UpdateSubtask(ctx context.Context, params domain.UpdateSubtaskParams) (*domain.Subtask, error) {
	var (
		set  []string
		args = []any{params.SubtaskID}
	)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	for _, field := range params.UpdateMask {
		switch field {
		case "title":
			add("title", *params.Title)
		case "status":
			add("status", *params.Status)
			add("completed_at", params.CompletedAt)
			add("completed_by", params.CompletedBy)
		case "order":
			add("sort_order", *params.Order)
		}
	}

	query := fmt.Sprintf(`UPDATE subtasks SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), subtaskColumns)

	st, err := scanSubtask(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}
	return st, nil
}

// DeleteSubtask removes a subtask.
func (s *Store) DeleteSubtask(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubtaskNotFound
	}
	return nil
}

// DeleteSubtasksByTask removes all subtasks of a task.
func (s *Store) DeleteSubtasksByTask(ctx context.Context, taskID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM subtasks WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("failed to delete subtasks for task: %w", err)
	}
	return nil
}

// DeleteSubtasksByList removes all subtasks under a list's tasks.
func (s *Store) DeleteSubtasksByList(ctx context.Context, listID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM subtasks
		WHERE task_id IN (SELECT id FROM tasks WHERE list_id = $1)`,
		listID)
	if err != nil {
		return fmt.Errorf("failed to delete subtasks for list: %w", err)
	}
	return nil
}
