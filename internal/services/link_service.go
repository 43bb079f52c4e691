package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/domain"
)

// LinkServiceImpl implements domain.LinkService. Email magic-link tokens
// reuse the challenge table under a composite key instead of a dedicated
// table.
type LinkServiceImpl struct {
	investorRepo    domain.InvestorRepository
	challengeRepo   domain.ChallengeRepository
	linkedRepo      domain.LinkedAccountRepository
	notificationSvc domain.NotificationService
	introspector    domain.TokenIntrospector
	baseURL         string
	linkTTL         time.Duration
	logger          *logrus.Logger
}

// NewLinkService creates a new identity-linking service
func NewLinkService(
	investorRepo domain.InvestorRepository,
	challengeRepo domain.ChallengeRepository,
	linkedRepo domain.LinkedAccountRepository,
	notificationSvc domain.NotificationService,
	introspector domain.TokenIntrospector,
	baseURL string,
	linkTTL time.Duration,
	logger *logrus.Logger,
) domain.LinkService {
	return &LinkServiceImpl{
		investorRepo:    investorRepo,
		challengeRepo:   challengeRepo,
		linkedRepo:      linkedRepo,
		notificationSvc: notificationSvc,
		introspector:    introspector,
		baseURL:         baseURL,
		linkTTL:         linkTTL,
		logger:          logger,
	}
}

func linkChallengeKey(email, phone string) string {
	return fmt.Sprintf("link:email:%s:%s", email, phone)
}

// RequestEmailLink implements domain.LinkService
func (s *LinkServiceImpl) RequestEmailLink(ctx context.Context, phone, rawEmail string) error {
	email, err := NormalizeEmail(rawEmail)
	if err != nil {
		return err
	}

	exists, err := s.linkedRepo.Exists(ctx, phone, domain.ProviderEmail, email)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAccountLinked
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fmt.Errorf("failed to generate link token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)

	challenge := &domain.OtpChallenge{
		Key:       linkChallengeKey(email, phone),
		CodeHash:  domain.HashStringSHA256Hex(token),
		ExpiresAt: time.Now().Add(s.linkTTL),
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return fmt.Errorf("failed to store link challenge: %w", err)
	}

	callback := fmt.Sprintf("%s/auth/link-email?token=%s&email=%s&phone=%s",
		s.baseURL, token, url.QueryEscape(email), url.QueryEscape(phone))
	html := fmt.Sprintf(
		`<p>Confirm linking this email to your investor account by opening the link below within %d minutes.</p>`+
			`<p><a href="%s">Confirm email link</a></p>`,
		int(s.linkTTL.Minutes()), callback)

	// The challenge row is committed; a failed send is logged and the
	// caller still sees success, mirroring the OTP degradation policy.
	if err := s.notificationSvc.SendEmail(ctx, email, "Confirm your email link", html); err != nil {
		s.logger.WithError(err).WithField("event", domain.EmailLinkRequestedEvent).Error("link email delivery failed")
	}

	s.logger.WithFields(logrus.Fields{
		"event": domain.EmailLinkRequestedEvent,
		"phone": phone,
	}).Info("email link requested")
	return nil
}

// ConfirmEmailLink implements domain.LinkService. Every failure mode maps
// to the same error so the callback cannot be used to probe which check
// failed.
func (s *LinkServiceImpl) ConfirmEmailLink(ctx context.Context, token, rawEmail, phone string) error {
	email, err := NormalizeEmail(rawEmail)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	challenge, err := s.challengeRepo.FindLatestActive(ctx, linkChallengeKey(email, phone))
	if err != nil {
		return domain.ErrTokenInvalid
	}

	supplied := domain.HashStringSHA256Hex(token)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(challenge.CodeHash)) != 1 {
		return domain.ErrTokenInvalid
	}

	consumed, err := s.challengeRepo.MarkUsed(ctx, challenge.ID)
	if err != nil || !consumed {
		return domain.ErrTokenInvalid
	}

	if err := s.linkedRepo.Insert(ctx, &domain.LinkedAccount{
		Phone:      phone,
		Provider:   domain.ProviderEmail,
		ProviderID: email,
	}); err != nil {
		return domain.ErrTokenInvalid
	}

	s.logger.WithFields(logrus.Fields{
		"event": domain.EmailLinkConfirmedEvent,
		"phone": phone,
	}).Info("email link confirmed")
	return nil
}

// LoginViaLinkedAccount implements domain.LinkService. This path skips OTP
// but never bypasses deactivation.
func (s *LinkServiceImpl) LoginViaLinkedAccount(ctx context.Context, provider, credential string) (*domain.Investor, error) {
	var providerID string
	switch provider {
	case domain.ProviderGoogle:
		result, err := s.introspector.Introspect(ctx, credential)
		if err != nil {
			return nil, err
		}
		providerID = result.Subject
	case domain.ProviderEmail:
		email, err := NormalizeEmail(credential)
		if err != nil {
			return nil, err
		}
		providerID = email
	default:
		return nil, domain.ErrUnknownProvider
	}

	linked, err := s.linkedRepo.FindByProviderID(ctx, provider, providerID)
	if err != nil {
		return nil, err
	}

	inv, err := s.investorRepo.FindByPhone(ctx, linked.Phone)
	if err != nil {
		return nil, err
	}
	if !inv.IsActive {
		return nil, domain.ErrInvestorInactive
	}

	s.logger.WithFields(logrus.Fields{
		"event":    domain.LinkedLoginEvent,
		"phone":    inv.Phone,
		"provider": provider,
	}).Info("linked account login")
	return inv, nil
}
