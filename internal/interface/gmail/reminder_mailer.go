package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	"driveschool-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// ReminderMailer sends lesson reminder emails through the Gmail API. It
// implements usecase.ReminderSender.
type ReminderMailer struct {
	gmailService *gmail.Service
	from         string
	logger       logger.Logger
}

// NewReminderMailer creates a new Gmail-backed reminder mailer
func NewReminderMailer(ctx context.Context, tokenSource oauth2.TokenSource, from string, logger logger.Logger) (*ReminderMailer, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &ReminderMailer{
		gmailService: service,
		from:         from,
		logger:       logger,
	}, nil
}

// SendReminder sends a plain-text email to the student
func (m *ReminderMailer) SendReminder(ctx context.Context, to, subject, body string) error {
	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, body)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	_, err := m.gmailService.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send reminder to %s: %w", to, err)
	}

	m.logger.Debug("Reminder email sent", "to", to, "subject", subject)
	return nil
}
