package sharing

import (
	"context"
	"time"

	"github.com/rezkam/listor/internal/domain"
)

// Repository defines storage operations for sharing, invitations, and
// notifications.
type Repository interface {
	// === List Access ===

	// FindListByID retrieves a list with its shared access map.
	// Returns domain.ErrListNotFound if list doesn't exist.
	FindListByID(ctx context.Context, id string) (*domain.TaskList, error)

	// SetListSharing replaces a list's shared access map and IsShared flag.
	SetListSharing(ctx context.Context, listID string, sharedWith map[string]domain.SharedUser, isShared bool) error

	// === Users ===

	// FindUserByID retrieves a user account.
	// Returns domain.ErrUserNotFound if no account exists.
	FindUserByID(ctx context.Context, id string) (*domain.User, error)

	// FindUserByEmail retrieves a user account by normalized email.
	// Returns domain.ErrUserNotFound if no account exists.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// === Invitations ===

	// CreateInvitation persists a new invitation.
	CreateInvitation(ctx context.Context, inv *domain.Invitation) (*domain.Invitation, error)

	// FindInvitationByID retrieves an invitation by its ID (== token).
	// Returns domain.ErrInvitationNotFound if it doesn't exist.
	FindInvitationByID(ctx context.Context, id string) (*domain.Invitation, error)

	// FindInvitationsByList retrieves all invitations for a list, newest
	// first.
	FindInvitationsByList(ctx context.Context, listID string) ([]*domain.Invitation, error)

	// SetInvitationStatus updates the lifecycle status of an invitation.
	SetInvitationStatus(ctx context.Context, id string, status domain.InvitationStatus) error

	// ResetInvitation reopens an invitation: status back to pending, a new
	// expiry, ResentAt stamped, and the email delivery state cleared.
	ResetInvitation(ctx context.Context, id string, expiresAt, resentAt time.Time) error

	// SetInvitationEmailResult records the outcome of an email delivery
	// attempt.
	SetInvitationEmailResult(ctx context.Context, id string, sent bool, emailError *string) error

	// DeleteInvitation removes an invitation.
	// Returns domain.ErrInvitationNotFound if it doesn't exist.
	DeleteInvitation(ctx context.Context, id string) error

	// === Notifications ===

	// CreateNotification persists a new notification.
	CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error)

	// FindNotificationsByUser retrieves a user's notifications, newest
	// first. With unreadOnly, read ones are skipped.
	FindNotificationsByUser(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error)

	// MarkNotificationRead flips a notification's read flag. The recipient
	// scopes the update; marking someone else's notification is a no-match.
	// Returns domain.ErrNotificationNotFound if no row matches.
	MarkNotificationRead(ctx context.Context, id, userID string) error

	// Atomic runs fn inside a single transaction.
	Atomic(ctx context.Context, fn func(repo Repository) error) error
}
