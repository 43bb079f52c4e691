package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/domain"
	"github.com/you/investorportal/internal/mocks"
)

type otpTestDeps struct {
	investorRepo  *mocks.MockInvestorRepository
	challengeRepo *mocks.MockChallengeRepository
	inviteRepo    *mocks.MockInviteRepository
	referralSvc   *mocks.MockReferralService
	notifications *mocks.MockNotificationService
}

// createOTPServiceForTest wires an OTPService against mocks and an
// in-process Redis.
func createOTPServiceForTest(t *testing.T) (domain.OTPService, *otpTestDeps) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	deps := &otpTestDeps{
		investorRepo:  mocks.NewMockInvestorRepository(),
		challengeRepo: mocks.NewMockChallengeRepository(),
		inviteRepo:    mocks.NewMockInviteRepository(),
		referralSvc:   mocks.NewMockReferralService(),
		notifications: mocks.NewMockNotificationService(),
	}

	config := OTPConfig{
		Length:       6,
		TTL:          5 * time.Minute,
		MaxAttempts:  3,
		ResendWindow: 60 * time.Second,
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := NewOTPService(
		deps.investorRepo,
		deps.challengeRepo,
		deps.inviteRepo,
		deps.referralSvc,
		deps.notifications,
		redisClient,
		config,
		logger,
	)
	return svc, deps
}

func activeInvestor(phone string) *domain.Investor {
	return &domain.Investor{
		ID:       1,
		Phone:    phone,
		Name:     "Ada Lovelace",
		Role:     domain.RoleInvestor,
		IsActive: true,
	}
}

func TestOTPServiceImpl_RequestChallenge(t *testing.T) {
	tests := []struct {
		name          string
		phone         string
		inviteCode    string
		setupMocks    func(*otpTestDeps)
		expectedError error
		validate      func(t *testing.T, deps *otpTestDeps, smsSent *string, stored *domain.OtpChallenge)
	}{
		{
			name:  "approved phone gets a challenge and an SMS",
			phone: "+15551234567",
			setupMocks: func(deps *otpTestDeps) {
				deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.Investor, error) {
					return activeInvestor(phone), nil
				}
			},
			validate: func(t *testing.T, deps *otpTestDeps, smsSent *string, stored *domain.OtpChallenge) {
				if stored == nil {
					t.Fatal("expected a challenge to be stored")
				}
				if stored.Key != "+15551234567" {
					t.Errorf("expected challenge key +15551234567, got %s", stored.Key)
				}
				if len(stored.CodeHash) != 64 {
					t.Errorf("expected sha256 hex code hash, got %q", stored.CodeHash)
				}
				if !stored.ExpiresAt.After(time.Now()) {
					t.Error("challenge should not be expired at creation")
				}
				if *smsSent == "" {
					t.Error("expected an SMS to be sent")
				}
			},
		},
		{
			name:  "unknown phone succeeds without challenge or SMS",
			phone: "+15550000001",
			setupMocks: func(deps *otpTestDeps) {
				// Default FindByPhone returns ErrInvestorNotFound.
			},
			validate: func(t *testing.T, deps *otpTestDeps, smsSent *string, stored *domain.OtpChallenge) {
				if stored != nil {
					t.Error("no challenge should be stored for an unknown phone")
				}
				if *smsSent != "" {
					t.Error("no SMS should be sent for an unknown phone")
				}
			},
		},
		{
			name:  "deactivated phone succeeds without challenge",
			phone: "+15550000002",
			setupMocks: func(deps *otpTestDeps) {
				deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.Investor, error) {
					inv := activeInvestor(phone)
					inv.IsActive = false
					return inv, nil
				}
			},
			validate: func(t *testing.T, deps *otpTestDeps, smsSent *string, stored *domain.OtpChallenge) {
				if stored != nil {
					t.Error("no challenge should be stored for a deactivated phone")
				}
			},
		},
		{
			name:          "malformed phone is rejected",
			phone:         "not-a-phone",
			setupMocks:    func(deps *otpTestDeps) {},
			expectedError: domain.ErrInvalidPhone,
		},
		{
			name:       "valid invite code approves the phone with referred_by",
			phone:      "+15551234567",
			inviteCode: "ABC123",
			setupMocks: func(deps *otpTestDeps) {
				deps.inviteRepo.RedeemFunc = func(ctx context.Context, code string, now time.Time) (*domain.InviteLink, bool, error) {
					if code != "ABC123" {
						t.Errorf("expected invite code ABC123, got %s", code)
					}
					return &domain.InviteLink{Code: code, CreatorPhone: "+15559990000", Uses: 1, MaxUses: 5}, true, nil
				}
				deps.investorRepo.ApproveFunc = func(ctx context.Context, phone, referredBy string) (*domain.Investor, error) {
					if referredBy != "+15559990000" {
						t.Errorf("expected referred_by +15559990000, got %s", referredBy)
					}
					inv := activeInvestor(phone)
					inv.ReferredBy = referredBy
					return inv, nil
				}
				deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.Investor, error) {
					return activeInvestor(phone), nil
				}
			},
			validate: func(t *testing.T, deps *otpTestDeps, smsSent *string, stored *domain.OtpChallenge) {
				if stored == nil {
					t.Fatal("expected a challenge after invite redemption")
				}
			},
		},
		{
			name:       "exhausted invite code does not block the request",
			phone:      "+15551234567",
			inviteCode: "DEAD99",
			setupMocks: func(deps *otpTestDeps) {
				deps.inviteRepo.RedeemFunc = func(ctx context.Context, code string, now time.Time) (*domain.InviteLink, bool, error) {
					return nil, false, nil
				}
				deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.Investor, error) {
					return activeInvestor(phone), nil
				}
			},
			validate: func(t *testing.T, deps *otpTestDeps, smsSent *string, stored *domain.OtpChallenge) {
				if stored == nil {
					t.Fatal("challenge should still be created for an approved phone")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := createOTPServiceForTest(t)

			var smsSent string
			var stored *domain.OtpChallenge
			deps.notifications.SendSMSFunc = func(ctx context.Context, to, message string) error {
				smsSent = message
				return nil
			}
			deps.challengeRepo.CreateFunc = func(ctx context.Context, ch *domain.OtpChallenge) error {
				stored = ch
				return nil
			}
			tt.setupMocks(deps)

			err := svc.RequestChallenge(context.Background(), tt.phone, tt.inviteCode)
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, deps, &smsSent, stored)
			}
		})
	}
}

// Unknown and approved phones must be indistinguishable from the response
// alone, including the throttle behavior.
func TestOTPServiceImpl_RequestChallenge_UniformResponses(t *testing.T) {
	svc, deps := createOTPServiceForTest(t)
	deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.Investor, error) {
		if phone == "+15551234567" {
			return activeInvestor(phone), nil
		}
		return nil, domain.ErrInvestorNotFound
	}

	approvedErr := svc.RequestChallenge(context.Background(), "+15551234567", "")
	unknownErr := svc.RequestChallenge(context.Background(), "+15550009999", "")
	if approvedErr != nil || unknownErr != nil {
		t.Fatalf("both outcomes must be nil: approved=%v unknown=%v", approvedErr, unknownErr)
	}

	// Second request inside the window throttles both kinds of phone the
	// same way.
	if err := svc.RequestChallenge(context.Background(), "+15551234567", ""); !errors.Is(err, domain.ErrResendThrottled) {
		t.Errorf("approved phone resend: expected ErrResendThrottled, got %v", err)
	}
	if err := svc.RequestChallenge(context.Background(), "+15550009999", ""); !errors.Is(err, domain.ErrResendThrottled) {
		t.Errorf("unknown phone resend: expected ErrResendThrottled, got %v", err)
	}
}

func TestOTPServiceImpl_VerifyChallenge(t *testing.T) {
	const phone = "+15551234567"
	const code = "123456"
	codeHash := domain.HashStringSHA256Hex(code)

	tests := []struct {
		name          string
		code          string
		setupMocks    func(*otpTestDeps)
		expectedError error
		wantInvestor  bool
	}{
		{
			name: "correct code consumes the challenge",
			code: code,
			setupMocks: func(deps *otpTestDeps) {
				deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
					return &domain.OtpChallenge{ID: 1, Key: key, CodeHash: codeHash, ExpiresAt: time.Now().Add(time.Minute)}, nil
				}
				deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, p string) (*domain.Investor, error) {
					return activeInvestor(p), nil
				}
			},
			wantInvestor: true,
		},
		{
			name: "wrong code reports remaining attempts",
			code: "999999",
			setupMocks: func(deps *otpTestDeps) {
				deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
					return &domain.OtpChallenge{ID: 1, Key: key, CodeHash: codeHash, ExpiresAt: time.Now().Add(time.Minute)}, nil
				}
			},
			expectedError: domain.ErrCodeInvalid,
		},
		{
			name: "no active challenge",
			code: code,
			setupMocks: func(deps *otpTestDeps) {
				// Default FindLatestActive returns ErrChallengeNotFound.
			},
			expectedError: domain.ErrChallengeNotFound,
		},
		{
			name: "attempt cap reached before compare",
			code: code,
			setupMocks: func(deps *otpTestDeps) {
				deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
					return &domain.OtpChallenge{ID: 1, Key: key, CodeHash: codeHash, Attempts: 3, ExpiresAt: time.Now().Add(time.Minute)}, nil
				}
			},
			expectedError: domain.ErrTooManyAttempts,
		},
		{
			name: "correct code on the fourth try still fails",
			code: code,
			setupMocks: func(deps *otpTestDeps) {
				deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
					return &domain.OtpChallenge{ID: 1, Key: key, CodeHash: codeHash, Attempts: 3, ExpiresAt: time.Now().Add(time.Minute)}, nil
				}
				deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, p string) (*domain.Investor, error) {
					return activeInvestor(p), nil
				}
			},
			expectedError: domain.ErrTooManyAttempts,
		},
		{
			name: "concurrent increment past the cap",
			code: code,
			setupMocks: func(deps *otpTestDeps) {
				deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
					return &domain.OtpChallenge{ID: 1, Key: key, CodeHash: codeHash, Attempts: 2, ExpiresAt: time.Now().Add(time.Minute)}, nil
				}
				deps.challengeRepo.IncrementAttemptsFunc = func(ctx context.Context, id uint) (int, error) {
					return 4, nil
				}
			},
			expectedError: domain.ErrTooManyAttempts,
		},
		{
			name: "deactivated investor cannot finish verification",
			code: code,
			setupMocks: func(deps *otpTestDeps) {
				deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
					return &domain.OtpChallenge{ID: 1, Key: key, CodeHash: codeHash, ExpiresAt: time.Now().Add(time.Minute)}, nil
				}
				deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, p string) (*domain.Investor, error) {
					inv := activeInvestor(p)
					inv.IsActive = false
					return inv, nil
				}
			},
			expectedError: domain.ErrInvestorInactive,
		},
		{
			name: "already consumed by a concurrent verification",
			code: code,
			setupMocks: func(deps *otpTestDeps) {
				deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
					return &domain.OtpChallenge{ID: 1, Key: key, CodeHash: codeHash, ExpiresAt: time.Now().Add(time.Minute)}, nil
				}
				deps.challengeRepo.MarkUsedFunc = func(ctx context.Context, id uint) (bool, error) {
					return false, nil
				}
			},
			expectedError: domain.ErrChallengeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := createOTPServiceForTest(t)
			tt.setupMocks(deps)

			inv, err := svc.VerifyChallenge(context.Background(), phone, tt.code)
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantInvestor && inv == nil {
				t.Fatal("expected an investor on success")
			}
		})
	}
}

// Three wrong guesses exhaust the challenge; even the right code fails
// afterwards until a new challenge is requested.
func TestOTPServiceImpl_VerifyChallenge_AttemptLifecycle(t *testing.T) {
	svc, deps := createOTPServiceForTest(t)

	const code = "123456"
	challenge := &domain.OtpChallenge{
		ID:        7,
		Key:       "+15551234567",
		CodeHash:  domain.HashStringSHA256Hex(code),
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
		if challenge.Used {
			return nil, domain.ErrChallengeNotFound
		}
		return challenge, nil
	}
	deps.challengeRepo.IncrementAttemptsFunc = func(ctx context.Context, id uint) (int, error) {
		challenge.Attempts++
		return challenge.Attempts, nil
	}
	deps.challengeRepo.MarkUsedFunc = func(ctx context.Context, id uint) (bool, error) {
		if challenge.Used {
			return false, nil
		}
		challenge.Used = true
		return true, nil
	}
	deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, p string) (*domain.Investor, error) {
		return activeInvestor(p), nil
	}

	for i := 1; i <= 2; i++ {
		_, err := svc.VerifyChallenge(context.Background(), "+15551234567", "000000")
		if !errors.Is(err, domain.ErrCodeInvalid) {
			t.Fatalf("guess %d: expected ErrCodeInvalid, got %v", i, err)
		}
	}

	// Third wrong guess burns the last attempt and consumes the challenge.
	if _, err := svc.VerifyChallenge(context.Background(), "+15551234567", "000000"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("third guess: expected ErrTooManyAttempts, got %v", err)
	}

	// The correct code no longer works.
	if _, err := svc.VerifyChallenge(context.Background(), "+15551234567", code); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("post-exhaustion: expected ErrChallengeNotFound, got %v", err)
	}
}
