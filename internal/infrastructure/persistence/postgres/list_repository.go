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

// === List Repository Implementation ===
// Implements the list half of application/task.Repository and the list
// access operations of application/sharing.Repository.

const listColumns = `id, title, description, owner_id, is_shared, shared_with, created_at, updated_at, version`

func scanList(row pgx.Row) (*domain.TaskList, error) {
	var (
		l          domain.TaskList
		sharedWith []byte
	)
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.OwnerID, &l.IsShared, &sharedWith,
		&l.CreatedAt, &l.UpdatedAt, &l.Version)
	if err != nil {
		return nil, err
	}

	l.SharedWith, err = sharedWithFromJSON(sharedWith)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateList persists a new list.
func (s *Store) CreateList(ctx context.Context, list *domain.TaskList) (*domain.TaskList, error) {
	sharedWith, err := sharedWithToJSON(list.SharedWith)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO task_lists (id, title, description, owner_id, is_shared, shared_with, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
		RETURNING `+listColumns,
		list.ID, list.Title, list.Description, list.OwnerID, list.IsShared, sharedWith,
		list.CreatedAt, list.UpdatedAt)

	created, err := scanList(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return created, nil
}

// FindListByID retrieves a list with its shared access map.
func (s *Store) FindListByID(ctx context.Context, id string) (*domain.TaskList, error) {
	row := s.db.QueryRow(ctx, `SELECT `+listColumns+` FROM task_lists WHERE id = $1`, id)

	list, err := scanList(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return list, nil
}

// FindListsForUser retrieves all lists the user owns or collaborates on,
// most recently updated first.
func (s *Store) FindListsForUser(ctx context.Context, userID string) ([]*domain.TaskList, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+listColumns+` FROM task_lists
		WHERE owner_id = $1 OR shared_with ? $2
		ORDER BY updated_at DESC`,
		userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var lists []*domain.TaskList
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// UpdateList applies a field-mask update with optimistic concurrency
// control. When an etag is present the update only matches the expected
// version.
func (s *Store) UpdateList(ctx context.Context, params domain.UpdateListParams) (*domain.TaskList, error) {
	set := []string{"updated_at = $2", "version = version + 1"}
	args := []any{params.ListID, time.Now().UTC()}

	for _, field := range params.UpdateMask {
		switch field {
		case "title":
			args = append(args, *params.Title)
			set = append(set, fmt.Sprintf("title = $%d", len(args)))
		case "description":
			args = append(args, params.Description)
			set = append(set, fmt.Sprintf("description = $%d", len(args)))
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

	query := fmt.Sprintf(`UPDATE task_lists SET %s WHERE %s RETURNING %s`,
		strings.Join(set, ", "), where, listColumns)

	list, err := scanList(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyListUpdateMiss(ctx, params.ListID)
		}
		return nil, fmt.Errorf("failed to update list: %w", err)
	}
	return list, nil
}

// classifyListUpdateMiss distinguishes a stale etag from a missing row.
func (s *Store) classifyListUpdateMiss(ctx context.Context, listID string) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM task_lists WHERE id = $1)`, listID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check list existence: %w", err)
	}
	if exists {
		return domain.ErrVersionConflict
	}
	return domain.ErrListNotFound
}

// DeleteList removes a list.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM task_lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

// SetListSharing replaces a list's shared access map and IsShared flag.
func (s *Store) SetListSharing(ctx context.Context, listID string, sharedWith map[string]domain.SharedUser, isShared bool) error {
	data, err := sharedWithToJSON(sharedWith)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE task_lists
		SET shared_with = $2, is_shared = $3, updated_at = $4, version = version + 1
		WHERE id = $1`,
		listID, data, isShared, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update list sharing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListNotFound
	}
	return nil
}
