package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
)

// mailSender is the part of *sendgrid.Client the notifier uses.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridNotifier struct {
	client    mailSender
	fromEmail string
	fromName  string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string) Notifier {
	return newSendGridNotifier(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func newSendGridNotifier(client mailSender, fromEmail, fromName string) *sendGridNotifier {
	return &sendGridNotifier{client: client, fromEmail: fromEmail, fromName: fromName}
}

func (s *sendGridNotifier) NotifyOverdue(ctx context.Context, user *domain.User, n *domain.Notification) error {
	if user.Email == "" {
		return fmt.Errorf("user %s has no email address", user.ID)
	}
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(user.Name, user.Email)
	html := fmt.Sprintf("<p>Hello %s,</p><p>%s</p>", user.Name, n.Message)
	message := mail.NewSingleEmail(from, "Rental overdue", to, n.Message, html)

	logger.ExternalServiceCall("sendgrid", "Send", "userID", user.ID, "notificationID", n.ID)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "userID", user.ID)
	if err != nil {
		return fmt.Errorf("failed to send overdue email: %w", err)
	}
	return nil
}
