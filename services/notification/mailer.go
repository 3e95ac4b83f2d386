package notification

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"travelagency/models"
	"travelagency/utils"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, e models.Email) (*models.SendResult, error)
}

// SendGridMailer delivers through SendGrid. Without an API key it returns a
// mailto: compose action for the operator's own mail client instead.
type SendGridMailer struct {
	client   *sendgrid.Client
	from     *mail.Email
	fromAddr string
}

func NewSendGridMailer(apiKey, fromAddr, fromName string) *SendGridMailer {
	m := &SendGridMailer{from: mail.NewEmail(fromName, fromAddr), fromAddr: fromAddr}
	if apiKey != "" {
		m.client = sendgrid.NewSendClient(apiKey)
	}
	return m
}

func (m *SendGridMailer) Send(ctx context.Context, e models.Email) (*models.SendResult, error) {
	if len(e.To) == 0 && len(e.Bcc) == 0 {
		return nil, utils.NewValidationError("to", "at least one recipient is required")
	}
	if m.client == nil {
		return &models.SendResult{Compose: &models.ComposeAction{MailtoURL: MailtoURL(m.fromAddr, e)}}, nil
	}

	msg := mail.NewV3Mail()
	msg.SetFrom(m.from)
	msg.Subject = e.Subject

	p := mail.NewPersonalization()
	if len(e.To) > 0 {
		for _, to := range e.To {
			p.AddTos(mail.NewEmail("", to))
		}
	} else {
		// Broadcasts address the sender and hide subscribers in bcc.
		p.AddTos(m.from)
	}
	for _, bcc := range e.Bcc {
		p.AddBCCs(mail.NewEmail("", bcc))
	}
	msg.AddPersonalizations(p)
	msg.AddContent(mail.NewContent("text/html", e.HTML))

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		utils.GetLogger().Error("SendGrid rejected message",
			zap.Int("status", resp.StatusCode), zap.String("body", resp.Body))
		return nil, fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}
	return &models.SendResult{Sent: true}, nil
}

// MailtoURL builds a mailto: link carrying the message. HTML is sent as-is since
// mail clients render the body as plain text.
func MailtoURL(from string, e models.Email) string {
	to := strings.Join(e.To, ",")
	if to == "" {
		to = from
	}
	q := url.Values{}
	if len(e.Bcc) > 0 {
		q.Set("bcc", strings.Join(e.Bcc, ","))
	}
	q.Set("subject", e.Subject)
	q.Set("body", e.HTML)
	return "mailto:" + to + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}
