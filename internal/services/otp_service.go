package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	mrand "math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/domain"
)

// OTPConfig carries the tunables of the challenge flow.
type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// OTPServiceImpl implements domain.OTPService. Challenges live in the
// relational store; Redis only carries the resend-throttle window.
type OTPServiceImpl struct {
	investorRepo    domain.InvestorRepository
	challengeRepo   domain.ChallengeRepository
	inviteRepo      domain.InviteRepository
	referralSvc     domain.ReferralService
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	config          OTPConfig
	logger          *logrus.Logger
}

// NewOTPService creates a new OTP service
func NewOTPService(
	investorRepo domain.InvestorRepository,
	challengeRepo domain.ChallengeRepository,
	inviteRepo domain.InviteRepository,
	referralSvc domain.ReferralService,
	notificationSvc domain.NotificationService,
	redisClient *redis.Client,
	config OTPConfig,
	logger *logrus.Logger,
) domain.OTPService {
	return &OTPServiceImpl{
		investorRepo:    investorRepo,
		challengeRepo:   challengeRepo,
		inviteRepo:      inviteRepo,
		referralSvc:     referralSvc,
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		config:          config,
		logger:          logger,
	}
}

// RequestChallenge implements domain.OTPService.
//
// The anti-enumeration contract: unapproved and approved phones both get a
// nil return. Every branch below that diverges between the two paths
// happens server-side only: throttling is applied before the approval
// check, and the unapproved path burns a randomized delay so its timing
// resembles a provider send.
func (s *OTPServiceImpl) RequestChallenge(ctx context.Context, rawPhone, inviteCode string) error {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return err
	}

	if inviteCode != "" {
		s.redeemInvite(ctx, phone, inviteCode)
	}

	throttled, err := s.checkAndSetResendWindow(ctx, phone)
	if err != nil {
		s.logger.WithError(err).Warn("otp resend throttle check failed")
	} else if throttled {
		return domain.ErrResendThrottled
	}

	inv, err := s.investorRepo.FindByPhone(ctx, phone)
	if err != nil || !inv.IsActive {
		s.decoyDelay()
		return nil
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}

	challenge := &domain.OtpChallenge{
		Key:       phone,
		CodeHash:  domain.HashStringSHA256Hex(code),
		ExpiresAt: time.Now().Add(s.config.TTL),
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}

	// Delivery failure must not surface: the challenge row is committed and
	// the caller sees the same generic success either way.
	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.notificationSvc.SendSMS(ctx, phone, message); err != nil {
		s.logger.WithError(err).WithField("event", domain.OTPRequestedEvent).Error("otp sms delivery failed")
	}

	return nil
}

// VerifyChallenge implements domain.OTPService.
func (s *OTPServiceImpl) VerifyChallenge(ctx context.Context, rawPhone, code string) (*domain.Investor, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	challenge, err := s.challengeRepo.FindLatestActive(ctx, phone)
	if err != nil {
		return nil, err
	}

	if challenge.Attempts >= s.config.MaxAttempts {
		if _, err := s.challengeRepo.MarkUsed(ctx, challenge.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrTooManyAttempts
	}

	// Consume a try before comparing: success and failure both count, and
	// the conditional increment closes the race between concurrent calls.
	attempts, err := s.challengeRepo.IncrementAttempts(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}
	if attempts > s.config.MaxAttempts {
		if _, err := s.challengeRepo.MarkUsed(ctx, challenge.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrTooManyAttempts
	}

	supplied := domain.HashStringSHA256Hex(code)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(challenge.CodeHash)) != 1 {
		remaining := s.config.MaxAttempts - attempts
		if remaining <= 0 {
			if _, err := s.challengeRepo.MarkUsed(ctx, challenge.ID); err != nil {
				return nil, err
			}
			return nil, domain.ErrTooManyAttempts
		}
		s.logger.WithFields(logrus.Fields{
			"event":    domain.OTPVerifyFailEvent,
			"phone":    phone,
			"attempts": attempts,
		}).Warn("otp verification failed")
		return nil, fmt.Errorf("%w: %d attempts remaining", domain.ErrCodeInvalid, remaining)
	}

	consumed, err := s.challengeRepo.MarkUsed(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// A concurrent verification got here first.
		return nil, domain.ErrChallengeNotFound
	}

	inv, err := s.investorRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, domain.ErrChallengeNotFound
	}
	if !inv.IsActive {
		return nil, domain.ErrInvestorInactive
	}

	s.logger.WithFields(logrus.Fields{
		"event": domain.OTPVerifiedEvent,
		"phone": phone,
	}).Info("otp verified")

	return inv, nil
}

// redeemInvite consumes one use of a valid invite code and approves the
// redeeming phone with referred_by set to the inviter. Failures here never
// block the OTP flow.
func (s *OTPServiceImpl) redeemInvite(ctx context.Context, phone, code string) {
	link, ok, err := s.inviteRepo.Redeem(ctx, code, time.Now())
	if err != nil {
		s.logger.WithError(err).WithField("code", code).Warn("invite redemption failed")
		return
	}
	if !ok {
		return
	}

	if _, err := s.investorRepo.Approve(ctx, phone, link.CreatorPhone); err != nil {
		s.logger.WithError(err).WithField("phone", phone).Error("invite auto-approval failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"event":   domain.InviteRedeemedEvent,
		"code":    link.Code,
		"inviter": link.CreatorPhone,
	}).Info("invite redeemed")

	if err := s.referralSvc.EvaluateAndAwardBadges(ctx, link.CreatorPhone); err != nil {
		s.logger.WithError(err).Warn("badge evaluation failed after invite redemption")
	}
}

// checkAndSetResendWindow reports whether the phone is inside its resend
// window, arming the window when it is not. SetNX makes check-and-arm a
// single round trip.
func (s *OTPServiceImpl) checkAndSetResendWindow(ctx context.Context, phone string) (bool, error) {
	key := fmt.Sprintf("otp:res:%s", phone)
	armed, err := s.redisClient.SetNX(ctx, key, 1, s.config.ResendWindow).Result()
	if err != nil {
		return false, err
	}
	return !armed, nil
}

// decoyDelay blocks for 200-800ms so the unapproved path's latency blends
// into the provider-send latency of the approved path.
func (s *OTPServiceImpl) decoyDelay() {
	time.Sleep(time.Duration(200+mrand.Intn(600)) * time.Millisecond)
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)
	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}
