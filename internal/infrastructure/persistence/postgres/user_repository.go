package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rezkam/listor/internal/domain"
)

// === Auth Repository Implementation ===
// Implements application/auth.Repository.

const userColumns = `id, email, display_name, password_hash, avatar_url, created_at, last_active_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.AvatarURL, &u.CreatedAt, &u.LastActiveAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser creates a new user account.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, avatar_url, created_at, last_active_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.AvatarURL, user.CreatedAt, user.LastActiveAt)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// FindUserByID retrieves a user by ID.
func (s *Store) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// FindUserByEmail retrieves a user by normalized email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// UpdateLastActive updates the last active timestamp for a user. Only moves
// the timestamp forward; stale updates are a no-op.
func (s *Store) UpdateLastActive(ctx context.Context, userID string, timestamp time.Time) error {
	_, err := s.db.Exec(ctx, `
		UPDATE users SET last_active_at = $2
		WHERE id = $1 AND last_active_at < $2`,
		userID, timestamp)
	if err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}
	return nil
}

// UpdateAvatarURL sets or clears a user's avatar URL.
func (s *Store) UpdateAvatarURL(ctx context.Context, userID string, avatarURL *string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET avatar_url = $2 WHERE id = $1`, userID, avatarURL)
	if err != nil {
		return fmt.Errorf("failed to update avatar url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
