// Package email delivers transactional mail over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/wneessen/go-mail"

	"github.com/rezkam/listor/internal/application/sharing"
)

// SMTPConfig holds connection settings for the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// FromAddress is the envelope and header sender, e.g. "no-reply@listor.app".
	FromAddress string
	// FromName is the display name shown next to the sender address.
	FromName string
}

func (cfg SMTPConfig) validate() error {
	if cfg.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if cfg.FromAddress == "" {
		return fmt.Errorf("smtp from address is required")
	}
	return nil
}

// SMTPSender sends invitation emails through an SMTP relay. It renders a
// multipart message with both HTML and plain-text alternatives.
type SMTPSender struct {
	client *mail.Client
	config SMTPConfig
}

// NewSMTPSender creates a sender for the given relay. The connection is
// established lazily on the first send.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid smtp config: %w", err)
	}

	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPSender{client: client, config: cfg}, nil
}

// SendInvitation renders and delivers a single invitation email.
func (s *SMTPSender) SendInvitation(ctx context.Context, email sharing.InvitationEmail) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.config.FromName, s.config.FromAddress); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(email.InviteeEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(InvitationSubject(email))

	text, err := RenderInvitationText(email)
	if err != nil {
		return err
	}
	html, err := RenderInvitationHTML(email)
	if err != nil {
		return err
	}
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	return nil
}

// InvitationSubject builds the subject line for an invitation email.
func InvitationSubject(email sharing.InvitationEmail) string {
	return fmt.Sprintf("%s shared a list with you on Listor", email.InviterName)
}

type invitationTemplateData struct {
	InviterName    string
	ListTitle      string
	PermissionWord string
	InvitationURL  string
}

// permissionWord renders the share permission as a human phrase.
func permissionWord(p string) string {
	if strings.EqualFold(p, "edit") {
		return "view and edit"
	}
	return "view"
}

func invitationData(email sharing.InvitationEmail) invitationTemplateData {
	return invitationTemplateData{
		InviterName:    email.InviterName,
		ListTitle:      email.ListTitle,
		PermissionWord: permissionWord(string(email.Permission)),
		InvitationURL:  email.InvitationURL,
	}
}

var invitationText = texttemplate.Must(texttemplate.New("invitation").Parse(
	`Hi,

{{.InviterName}} invited you to {{.PermissionWord}} the list "{{.ListTitle}}" on Listor.

Open the invitation to accept or decline:

{{.InvitationURL}}

If you were not expecting this invitation you can ignore this email.
`))

var invitationHTML = template.Must(template.New("invitation").Parse(
	`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1f2933;">
    <p>Hi,</p>
    <p><strong>{{.InviterName}}</strong> invited you to {{.PermissionWord}} the list
      &quot;<strong>{{.ListTitle}}</strong>&quot; on Listor.</p>
    <p>
      <a href="{{.InvitationURL}}"
         style="background: #2563eb; color: #ffffff; padding: 10px 18px; border-radius: 6px; text-decoration: none;">
        Open invitation
      </a>
    </p>
    <p style="color: #52606d; font-size: 13px;">
      If you were not expecting this invitation you can ignore this email.
    </p>
  </body>
</html>
`))

// RenderInvitationText renders the plain-text body of an invitation email.
func RenderInvitationText(email sharing.InvitationEmail) (string, error) {
	var buf bytes.Buffer
	if err := invitationText.Execute(&buf, invitationData(email)); err != nil {
		return "", fmt.Errorf("failed to render invitation text: %w", err)
	}
	return buf.String(), nil
}

// RenderInvitationHTML renders the HTML body of an invitation email.
func RenderInvitationHTML(email sharing.InvitationEmail) (string, error) {
	var buf bytes.Buffer
	if err := invitationHTML.Execute(&buf, invitationData(email)); err != nil {
		return "", fmt.Errorf("failed to render invitation html: %w", err)
	}
	return buf.String(), nil
}
