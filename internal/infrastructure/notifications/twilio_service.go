package notifications

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioService sends SMS through Twilio's messaging API.
type TwilioService struct {
	client     *twilio.RestClient
	fromNumber string
	logger     *logrus.Logger
}

// NewTwilioService creates a new Twilio SMS sender
func NewTwilioService(accountSID, authToken, fromNumber string, logger *logrus.Logger) *TwilioService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioService{
		client:     client,
		fromNumber: fromNumber,
		logger:     logger,
	}
}

// SendSMS sends a text message. With no configured sender it logs instead,
// which keeps local development working without credentials.
func (t *TwilioService) SendSMS(ctx context.Context, to, message string) error {
	if t.fromNumber == "" {
		t.logger.WithFields(logrus.Fields{"to": to}).Info("mock SMS send")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	_, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	return nil
}
