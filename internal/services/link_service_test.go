package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/domain"
	"github.com/you/investorportal/internal/mocks"
)

type linkTestDeps struct {
	investorRepo  *mocks.MockInvestorRepository
	challengeRepo *mocks.MockChallengeRepository
	linkedRepo    *mocks.MockLinkedAccountRepository
	notifications *mocks.MockNotificationService
	introspector  *mocks.MockTokenIntrospector
}

func createLinkServiceForTest(t *testing.T) (domain.LinkService, *linkTestDeps) {
	t.Helper()

	deps := &linkTestDeps{
		investorRepo:  mocks.NewMockInvestorRepository(),
		challengeRepo: mocks.NewMockChallengeRepository(),
		linkedRepo:    mocks.NewMockLinkedAccountRepository(),
		notifications: mocks.NewMockNotificationService(),
		introspector:  mocks.NewMockTokenIntrospector(),
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := NewLinkService(
		deps.investorRepo,
		deps.challengeRepo,
		deps.linkedRepo,
		deps.notifications,
		deps.introspector,
		"http://localhost:8080",
		15*time.Minute,
		logger,
	)
	return svc, deps
}

func TestLinkServiceImpl_RequestEmailLink(t *testing.T) {
	t.Run("stores a hashed token under the composite key", func(t *testing.T) {
		svc, deps := createLinkServiceForTest(t)

		var stored *domain.OtpChallenge
		deps.challengeRepo.CreateFunc = func(ctx context.Context, ch *domain.OtpChallenge) error {
			stored = ch
			return nil
		}
		var emailed string
		deps.notifications.SendEmailFunc = func(ctx context.Context, to, subject, html string) error {
			emailed = html
			return nil
		}

		if err := svc.RequestEmailLink(context.Background(), "+15551234567", "Ada@Example.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored == nil {
			t.Fatal("expected a challenge row")
		}
		if stored.Key != "link:email:ada@example.com:+15551234567" {
			t.Errorf("unexpected challenge key %q", stored.Key)
		}
		if len(stored.CodeHash) != 64 {
			t.Errorf("expected sha256 hex hash, got %q", stored.CodeHash)
		}
		if !strings.Contains(emailed, "token=") {
			t.Error("email should carry the callback URL with the token")
		}
		if strings.Contains(emailed, stored.CodeHash) {
			t.Error("email must carry the raw token, never its hash")
		}
	})

	t.Run("already linked email is rejected", func(t *testing.T) {
		svc, deps := createLinkServiceForTest(t)
		deps.linkedRepo.ExistsFunc = func(ctx context.Context, phone, provider, providerID string) (bool, error) {
			return true, nil
		}

		err := svc.RequestEmailLink(context.Background(), "+15551234567", "ada@example.com")
		if !errors.Is(err, domain.ErrAccountLinked) {
			t.Fatalf("expected ErrAccountLinked, got %v", err)
		}
	})

	t.Run("delivery failure is swallowed", func(t *testing.T) {
		svc, deps := createLinkServiceForTest(t)
		deps.notifications.SendEmailFunc = func(ctx context.Context, to, subject, html string) error {
			return errors.New("provider down")
		}

		if err := svc.RequestEmailLink(context.Background(), "+15551234567", "ada@example.com"); err != nil {
			t.Fatalf("send failure must not surface, got %v", err)
		}
	})
}

func TestLinkServiceImpl_ConfirmEmailLink(t *testing.T) {
	const token = "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"

	activeChallenge := func() *domain.OtpChallenge {
		return &domain.OtpChallenge{
			ID:        1,
			Key:       "link:email:ada@example.com:+15551234567",
			CodeHash:  domain.HashStringSHA256Hex(token),
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
	}

	t.Run("valid token inserts the linked account", func(t *testing.T) {
		svc, deps := createLinkServiceForTest(t)
		deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
			return activeChallenge(), nil
		}

		var inserted *domain.LinkedAccount
		deps.linkedRepo.InsertFunc = func(ctx context.Context, la *domain.LinkedAccount) error {
			inserted = la
			return nil
		}

		if err := svc.ConfirmEmailLink(context.Background(), token, "ada@example.com", "+15551234567"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inserted == nil {
			t.Fatal("expected a linked account insert")
		}
		if inserted.Provider != domain.ProviderEmail || inserted.ProviderID != "ada@example.com" {
			t.Errorf("unexpected linked account %+v", inserted)
		}
	})

	// All confirmation failures collapse to the same error so the callback
	// cannot be used as an oracle.
	t.Run("wrong token", func(t *testing.T) {
		svc, deps := createLinkServiceForTest(t)
		deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
			return activeChallenge(), nil
		}

		err := svc.ConfirmEmailLink(context.Background(), "0000", "ada@example.com", "+15551234567")
		if !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	})

	t.Run("expired or missing challenge", func(t *testing.T) {
		svc, _ := createLinkServiceForTest(t)

		err := svc.ConfirmEmailLink(context.Background(), token, "ada@example.com", "+15551234567")
		if !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	})

	t.Run("token cannot be replayed", func(t *testing.T) {
		svc, deps := createLinkServiceForTest(t)
		deps.challengeRepo.FindLatestActiveFunc = func(ctx context.Context, key string) (*domain.OtpChallenge, error) {
			return activeChallenge(), nil
		}
		deps.challengeRepo.MarkUsedFunc = func(ctx context.Context, id uint) (bool, error) {
			return false, nil
		}

		err := svc.ConfirmEmailLink(context.Background(), token, "ada@example.com", "+15551234567")
		if !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	})
}

func TestLinkServiceImpl_LoginViaLinkedAccount(t *testing.T) {
	tests := []struct {
		name          string
		provider      string
		credential    string
		setupMocks    func(*linkTestDeps)
		expectedError error
	}{
		{
			name:       "google login resolves the subject to a phone",
			provider:   domain.ProviderGoogle,
			credential: "google-id-token",
			setupMocks: func(deps *linkTestDeps) {
				deps.introspector.IntrospectFunc = func(ctx context.Context, idToken string) (*domain.IntrospectionResult, error) {
					return &domain.IntrospectionResult{Subject: "google-sub-1", Email: "ada@example.com"}, nil
				}
				deps.linkedRepo.FindByProviderIDFunc = func(ctx context.Context, provider, providerID string) (*domain.LinkedAccount, error) {
					if provider != domain.ProviderGoogle || providerID != "google-sub-1" {
						t.Errorf("unexpected lookup %s/%s", provider, providerID)
					}
					return &domain.LinkedAccount{Phone: "+15551234567", Provider: provider, ProviderID: providerID}, nil
				}
				deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.Investor, error) {
					return activeInvestor(phone), nil
				}
			},
		},
		{
			name:       "email login uses the lowercased address as provider id",
			provider:   domain.ProviderEmail,
			credential: "Ada@Example.com",
			setupMocks: func(deps *linkTestDeps) {
				deps.linkedRepo.FindByProviderIDFunc = func(ctx context.Context, provider, providerID string) (*domain.LinkedAccount, error) {
					if providerID != "ada@example.com" {
						t.Errorf("expected lowercased provider id, got %s", providerID)
					}
					return &domain.LinkedAccount{Phone: "+15551234567", Provider: provider, ProviderID: providerID}, nil
				}
				deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.Investor, error) {
					return activeInvestor(phone), nil
				}
			},
		},
		{
			name:          "unknown provider",
			provider:      "github",
			credential:    "tok",
			setupMocks:    func(deps *linkTestDeps) {},
			expectedError: domain.ErrUnknownProvider,
		},
		{
			name:       "unlinked credential",
			provider:   domain.ProviderEmail,
			credential: "nobody@example.com",
			setupMocks: func(deps *linkTestDeps) {
				// Default FindByProviderID returns ErrLinkNotFound.
			},
			expectedError: domain.ErrLinkNotFound,
		},
		{
			name:       "deactivated investor cannot login via link",
			provider:   domain.ProviderEmail,
			credential: "ada@example.com",
			setupMocks: func(deps *linkTestDeps) {
				deps.linkedRepo.FindByProviderIDFunc = func(ctx context.Context, provider, providerID string) (*domain.LinkedAccount, error) {
					return &domain.LinkedAccount{Phone: "+15551234567", Provider: provider, ProviderID: providerID}, nil
				}
				deps.investorRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.Investor, error) {
					inv := activeInvestor(phone)
					inv.IsActive = false
					return inv, nil
				}
			},
			expectedError: domain.ErrInvestorInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := createLinkServiceForTest(t)
			tt.setupMocks(deps)

			inv, err := svc.LoginViaLinkedAccount(context.Background(), tt.provider, tt.credential)
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if inv == nil || inv.Phone != "+15551234567" {
				t.Fatalf("expected the linked investor, got %+v", inv)
			}
		})
	}
}
