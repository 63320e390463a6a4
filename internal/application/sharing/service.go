package sharing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/listor/internal/domain"
	"github.com/rezkam/listor/internal/ptr"
)

// InvitationTTL is how long an invitation stays acceptable. Resending
// restarts the clock.
const InvitationTTL = 7 * 24 * time.Hour

// Config holds configuration for the Service.
type Config struct {
	// InvitationBaseURL is the public origin used to build invitation deep
	// links, e.g. "https://listor.eu".
	InvitationBaseURL string
}

// Service provides business logic for list sharing: invitations, access
// grants, and the notifications those produce.
type Service struct {
	repo   Repository
	mailer EmailSender
	config Config
}

// NewService creates a new sharing service.
func NewService(repo Repository, mailer EmailSender, config Config) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		config: config,
	}
}

// CreateInvitation invites an email address to a list. Owner only.
//
// The invitation is persisted first; the email send is best-effort and its
// outcome is recorded on the invitation without ever failing the call. The
// returned invitation reflects the delivery outcome.
func (s *Service) CreateInvitation(ctx context.Context, inviterID, listID, inviteeEmailRaw, permissionRaw string) (*domain.Invitation, error) {
	list, err := s.repo.FindListByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !domain.ResolvePermission(list, inviterID).CanShare() {
		return nil, fmt.Errorf("%w: only the list owner can send invitations", domain.ErrPermissionDenied)
	}

	inviteeEmail, err := domain.NewEmail(inviteeEmailRaw)
	if err != nil {
		return nil, err
	}

	permission, err := domain.NewSharePermission(permissionRaw)
	if err != nil {
		return nil, err
	}

	inviter, err := s.repo.FindUserByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	if inviteeEmail == inviter.Email {
		return nil, domain.ErrCannotInviteSelf
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now().UTC()
	inv := &domain.Invitation{
		ID:           idObj.String(),
		ListID:       listID,
		InviterEmail: inviter.Email,
		InviteeEmail: inviteeEmail,
		Status:       domain.InvitationStatusPending,
		Permission:   permission,
		CreatedAt:    now,
		ExpiresAt:    now.Add(InvitationTTL),
	}

	created, err := s.repo.CreateInvitation(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.deliverInvitationEmail(ctx, created, inviterName(inviter), list.Title)

	return created, nil
}

// deliverInvitationEmail sends the invitation email and records the outcome
// on the invitation. Delivery failure is logged, never returned: the invite
// link still works.
func (s *Service) deliverInvitationEmail(ctx context.Context, inv *domain.Invitation, inviterName, listTitle string) {
	email := InvitationEmail{
		InviteeEmail:  inv.InviteeEmail,
		InviterName:   inviterName,
		ListTitle:     listTitle,
		Permission:    inv.Permission,
		InvitationURL: fmt.Sprintf("%s/invitation/%s", s.config.InvitationBaseURL, inv.Token()),
	}

	sendErr := s.mailer.SendInvitation(ctx, email)

	var emailError *string
	sent := sendErr == nil
	if sendErr != nil {
		emailError = ptr.To(sendErr.Error())
		slog.WarnContext(ctx, "invitation email delivery failed",
			"invitation_id", inv.ID, "error", sendErr)
	}

	if err := s.repo.SetInvitationEmailResult(ctx, inv.ID, sent, emailError); err != nil {
		slog.WarnContext(ctx, "failed to record invitation email result",
			"invitation_id", inv.ID, "error", err)
		return
	}

	inv.EmailSent = sent
	inv.EmailError = emailError
}

// GetInvitation retrieves an invitation by token, with computed expiry
// applied to the reported status.
func (s *Service) GetInvitation(ctx context.Context, token string) (*domain.Invitation, error) {
	if token == "" {
		return nil, domain.ErrInvitationNotFound
	}

	inv, err := s.repo.FindInvitationByID(ctx, token)
	if err != nil {
		return nil, err
	}

	inv.Status = inv.EffectiveStatus(time.Now().UTC())
	return inv, nil
}

// Accept redeems an invitation for the acting user, granting them the
// invited permission on the list. The grant, the sharing flag, the status
// transition, and the invitee's notification commit atomically.
func (s *Service) Accept(ctx context.Context, userID, token string) (*domain.TaskList, error) {
	inv, err := s.repo.FindInvitationByID(ctx, token)
	if err != nil {
		return nil, err
	}

	if inv.Status != domain.InvitationStatusPending {
		return nil, domain.ErrInvitationNotPending
	}

	now := time.Now().UTC()
	if now.After(inv.ExpiresAt) {
		return nil, domain.ErrInvitationExpired
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email != inv.InviteeEmail {
		return nil, domain.ErrInvitationWrongEmail
	}

	list, err := s.repo.FindListByID(ctx, inv.ListID)
	if err != nil {
		return nil, err
	}

	sharedWith := make(map[string]domain.SharedUser, len(list.SharedWith)+1)
	for k, v := range list.SharedWith {
		sharedWith[k] = v
	}
	sharedWith[userID] = domain.SharedUser{
		Permission: inv.Permission,
		AddedAt:    now,
		AddedBy:    inv.InviterEmail,
	}

	notification, err := s.buildSharedNotification(ctx, inv, list, userID, now)
	if err != nil {
		return nil, err
	}

	err = s.repo.Atomic(ctx, func(repo Repository) error {
		if err := repo.SetListSharing(ctx, list.ID, sharedWith, true); err != nil {
			return fmt.Errorf("failed to grant access: %w", err)
		}
		if err := repo.SetInvitationStatus(ctx, inv.ID, domain.InvitationStatusAccepted); err != nil {
			return fmt.Errorf("failed to mark invitation accepted: %w", err)
		}
		if _, err := repo.CreateNotification(ctx, notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	list.SharedWith = sharedWith
	list.IsShared = true
	return list, nil
}

func (s *Service) buildSharedNotification(ctx context.Context, inv *domain.Invitation, list *domain.TaskList, recipientID string, now time.Time) (*domain.Notification, error) {
	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	actor := domain.NotificationActor{DisplayName: inv.InviterEmail}
	if inviter, err := s.repo.FindUserByEmail(ctx, inv.InviterEmail); err == nil {
		actor = domain.NotificationActor{UserID: inviter.ID, DisplayName: inviterName(inviter)}
	}

	return &domain.Notification{
		ID:        idObj.String(),
		UserID:    recipientID,
		Type:      domain.NotificationTypeListShared,
		Message:   fmt.Sprintf("%s shared the list %q with you", actor.DisplayName, list.Title),
		ListID:    list.ID,
		FromUser:  actor,
		Read:      false,
		CreatedAt: now,
	}, nil
}

// Decline marks a pending invitation declined. Only the invited email's
// account may decline, and only while the invitation is still pending and
// unexpired.
func (s *Service) Decline(ctx context.Context, userID, token string) error {
	inv, err := s.repo.FindInvitationByID(ctx, token)
	if err != nil {
		return err
	}

	if inv.Status != domain.InvitationStatusPending {
		return domain.ErrInvitationNotPending
	}
	if time.Now().UTC().After(inv.ExpiresAt) {
		return domain.ErrInvitationExpired
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Email != inv.InviteeEmail {
		return domain.ErrInvitationWrongEmail
	}

	return s.repo.SetInvitationStatus(ctx, inv.ID, domain.InvitationStatusDeclined)
}

// Resend reopens an invitation from any state: status back to pending, a
// fresh 7-day expiry, ResentAt stamped, and the email re-sent. Inviter only.
func (s *Service) Resend(ctx context.Context, userID, token string) (*domain.Invitation, error) {
	inv, err := s.repo.FindInvitationByID(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email != inv.InviterEmail {
		return nil, fmt.Errorf("%w: only the inviter can resend invitations", domain.ErrPermissionDenied)
	}

	list, err := s.repo.FindListByID(ctx, inv.ListID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(InvitationTTL)
	if err := s.repo.ResetInvitation(ctx, inv.ID, expiresAt, now); err != nil {
		return nil, fmt.Errorf("failed to reset invitation: %w", err)
	}

	inv.Status = domain.InvitationStatusPending
	inv.ExpiresAt = expiresAt
	inv.ResentAt = &now
	inv.EmailSent = false
	inv.EmailError = nil

	s.deliverInvitationEmail(ctx, inv, inviterName(user), list.Title)

	return inv, nil
}

// DeleteInvitation removes an invitation. Inviter only.
func (s *Service) DeleteInvitation(ctx context.Context, userID, token string) error {
	inv, err := s.repo.FindInvitationByID(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Email != inv.InviterEmail {
		return fmt.Errorf("%w: only the inviter can delete invitations", domain.ErrPermissionDenied)
	}

	return s.repo.DeleteInvitation(ctx, inv.ID)
}

// ListInvitations retrieves all invitations for a list, with computed
// expiry. Owner only.
func (s *Service) ListInvitations(ctx context.Context, userID, listID string) ([]*domain.Invitation, error) {
	list, err := s.repo.FindListByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !domain.ResolvePermission(list, userID).CanShare() {
		return nil, domain.ErrPermissionDenied
	}

	invs, err := s.repo.FindInvitationsByList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	now := time.Now().UTC()
	for _, inv := range invs {
		inv.Status = inv.EffectiveStatus(now)
	}

	return invs, nil
}

// RemoveAccess revokes a collaborator's access to a list and notifies them.
// Owner only. IsShared is recomputed from the remaining collaborators.
func (s *Service) RemoveAccess(ctx context.Context, ownerID, listID, targetUserID string) error {
	list, err := s.repo.FindListByID(ctx, listID)
	if err != nil {
		return err
	}
	if !domain.ResolvePermission(list, ownerID).CanShare() {
		return fmt.Errorf("%w: only the list owner can remove access", domain.ErrPermissionDenied)
	}

	if _, ok := list.SharedWith[targetUserID]; !ok {
		return domain.ErrUserNotFound
	}

	sharedWith := make(map[string]domain.SharedUser, len(list.SharedWith))
	for k, v := range list.SharedWith {
		if k != targetUserID {
			sharedWith[k] = v
		}
	}

	owner, err := s.repo.FindUserByID(ctx, ownerID)
	if err != nil {
		return err
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate id: %w", err)
	}

	notification := &domain.Notification{
		ID:      idObj.String(),
		UserID:  targetUserID,
		Type:    domain.NotificationTypeAccessRemoved,
		Message: fmt.Sprintf("%s removed your access to the list %q", inviterName(owner), list.Title),
		ListID:  list.ID,
		FromUser: domain.NotificationActor{
			UserID:      owner.ID,
			DisplayName: inviterName(owner),
		},
		CreatedAt: time.Now().UTC(),
	}

	return s.repo.Atomic(ctx, func(repo Repository) error {
		if err := repo.SetListSharing(ctx, listID, sharedWith, len(sharedWith) > 0); err != nil {
			return fmt.Errorf("failed to revoke access: %w", err)
		}
		if _, err := repo.CreateNotification(ctx, notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
}

// ListNotifications retrieves the acting user's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	return s.repo.FindNotificationsByUser(ctx, userID, unreadOnly)
}

// MarkNotificationRead marks one of the acting user's notifications read.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	if notificationID == "" {
		return domain.ErrNotificationNotFound
	}
	return s.repo.MarkNotificationRead(ctx, notificationID, userID)
}

// inviterName picks the best human-readable name for a user.
func inviterName(u *domain.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Email != "" {
		return u.Email
	}
	return "Someone"
}
