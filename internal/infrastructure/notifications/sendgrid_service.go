package notifications

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/domain"
)

// EmailService composes the SMS and email providers into the single
// notification interface the services consume.
type EmailService struct {
	sms       *TwilioService
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *logrus.Logger
}

// NewNotificationService wires Twilio (SMS) and SendGrid (email) behind
// domain.NotificationService.
func NewNotificationService(sms *TwilioService, sendgridAPIKey, fromEmail, fromName string, logger *logrus.Logger) domain.NotificationService {
	var client *sendgrid.Client
	if sendgridAPIKey != "" {
		client = sendgrid.NewSendClient(sendgridAPIKey)
	}
	return &EmailService{
		sms:       sms,
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

// SendSMS implements domain.NotificationService
func (s *EmailService) SendSMS(ctx context.Context, to, message string) error {
	return s.sms.SendSMS(ctx, to, message)
}

// SendEmail implements domain.NotificationService
func (s *EmailService) SendEmail(ctx context.Context, to, subject, html string) error {
	if s.client == nil {
		s.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mock email send")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}

	return nil
}

var _ domain.NotificationService = (*EmailService)(nil)
