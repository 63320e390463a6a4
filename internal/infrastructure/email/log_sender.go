package email

import (
	"context"
	"log/slog"

	"github.com/rezkam/listor/internal/application/sharing"
)

// LogSender is an EmailSender that only logs what it would have sent. Used
// when SMTP is not configured, e.g. in development, so invitations can
// still be delivered by link.
type LogSender struct{}

// SendInvitation logs the invitation instead of delivering it.
func (LogSender) SendInvitation(ctx context.Context, email sharing.InvitationEmail) error {
	slog.InfoContext(ctx, "email delivery disabled, skipping invitation email",
		"invitee", email.InviteeEmail,
		"list_title", email.ListTitle,
		"invitation_url", email.InvitationURL,
	)
	return nil
}
