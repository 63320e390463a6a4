package sharing

import (
	"context"

	"github.com/rezkam/listor/internal/domain"
)

// InvitationEmail carries everything the mailer needs to render and send an
// invitation message.
type InvitationEmail struct {
	InviteeEmail  string
	InviterName   string
	ListTitle     string
	Permission    domain.SharePermission
	InvitationURL string
}

// EmailSender delivers invitation emails. Implementations must be safe for
// concurrent use.
type EmailSender interface {
	SendInvitation(ctx context.Context, email InvitationEmail) error
}
