package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rezkam/listor/internal/domain"
)

// === Sharing Repository Implementation ===
// Implements the invitation and notification operations of
// application/sharing.Repository, plus the cascade deletes used when a
// list is removed.

const invitationColumns = `id, list_id, inviter_email, invitee_email, status, permission,
	created_at, expires_at, resent_at, email_sent, email_error`

func scanInvitation(row pgx.Row) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := row.Scan(&inv.ID, &inv.ListID, &inv.InviterEmail, &inv.InviteeEmail, &inv.Status,
		&inv.Permission, &inv.CreatedAt, &inv.ExpiresAt, &inv.ResentAt, &inv.EmailSent, &inv.EmailError)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvitation persists a new invitation.
func (s *Store) CreateInvitation(ctx context.Context, inv *domain.Invitation) (*domain.Invitation, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO invitations (id, list_id, inviter_email, invitee_email, status, permission,
			created_at, expires_at, resent_at, email_sent, email_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+invitationColumns,
		inv.ID, inv.ListID, inv.InviterEmail, inv.InviteeEmail, inv.Status, inv.Permission,
		inv.CreatedAt, inv.ExpiresAt, inv.ResentAt, inv.EmailSent, inv.EmailError)

	created, err := scanInvitation(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return created, nil
}

// FindInvitationByID retrieves an invitation by its ID (== token).
func (s *Store) FindInvitationByID(ctx context.Context, id string) (*domain.Invitation, error) {
	row := s.db.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id)

	inv, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// FindInvitationsByList retrieves all invitations for a list, newest first.
func (s *Store) FindInvitationsByList(ctx context.Context, listID string) ([]*domain.Invitation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+invitationColumns+` FROM invitations WHERE list_id = $1 ORDER BY created_at DESC`,
		listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invs []*domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// SetInvitationStatus updates the lifecycle status of an invitation.
func (s *Store) SetInvitationStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	tag, err := s.db.Exec(ctx, `UPDATE invitations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// ResetInvitation reopens an invitation: status back to pending, a new
// expiry, ResentAt stamped, and the email delivery state cleared.
func (s *Store) ResetInvitation(ctx context.Context, id string, expiresAt, resentAt time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE invitations
		SET status = 'pending', expires_at = $2, resent_at = $3, email_sent = FALSE, email_error = NULL
		WHERE id = $1`,
		id, expiresAt, resentAt)
	if err != nil {
		return fmt.Errorf("failed to reset invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// SetInvitationEmailResult records the outcome of an email delivery attempt.
func (s *Store) SetInvitationEmailResult(ctx context.Context, id string, sent bool, emailError *string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE invitations SET email_sent = $2, email_error = $3 WHERE id = $1`,
		id, sent, emailError)
	if err != nil {
		return fmt.Errorf("failed to record invitation email result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// DeleteInvitation removes an invitation.
func (s *Store) DeleteInvitation(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// DeleteInvitationsByList removes all invitations for a list.
func (s *Store) DeleteInvitationsByList(ctx context.Context, listID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM invitations WHERE list_id = $1`, listID); err != nil {
		return fmt.Errorf("failed to delete invitations for list: %w", err)
	}
	return nil
}

// === Notifications ===

const notificationColumns = `id, user_id, type, message, list_id, from_user_id, from_user_name, read, created_at`

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.ListID,
		&n.FromUser.UserID, &n.FromUser.DisplayName, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNotification persists a new notification.
func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, type, message, list_id, from_user_id, from_user_name, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+notificationColumns,
		n.ID, n.UserID, n.Type, n.Message, n.ListID, n.FromUser.UserID, n.FromUser.DisplayName,
		n.Read, n.CreatedAt)

	created, err := scanNotification(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return created, nil
}

// FindNotificationsByUser retrieves a user's notifications, newest first.
func (s *Store) FindNotificationsByUser(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flips a notification's read flag, scoped to the
// recipient.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// DeleteNotificationsByList removes all notifications referencing a list.
func (s *Store) DeleteNotificationsByList(ctx context.Context, listID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE list_id = $1`, listID); err != nil {
		return fmt.Errorf("failed to delete notifications for list: %w", err)
	}
	return nil
}
