package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/you/investorportal/domain"
	"github.com/you/investorportal/internal/mocks"
)

func createSessionServiceForTest(t *testing.T) (domain.SessionService, *mocks.MockSessionRepository, *mocks.MockTokenService) {
	t.Helper()

	sessionRepo := mocks.NewMockSessionRepository()
	tokenSvc := mocks.NewMockTokenService()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := NewSessionService(sessionRepo, tokenSvc, 30*24*time.Hour, logger)
	return svc, sessionRepo, tokenSvc
}

func TestSessionServiceImpl_Create(t *testing.T) {
	svc, sessionRepo, tokenSvc := createSessionServiceForTest(t)

	var mintedJTI string
	tokenSvc.GenerateFunc = func(inv *domain.Investor, jti string) (string, error) {
		mintedJTI = jti
		return "signed-token", nil
	}
	var created *domain.Session
	sessionRepo.CreateFunc = func(ctx context.Context, s *domain.Session) error {
		created = s
		return nil
	}

	token, err := svc.Create(context.Background(), activeInvestor("+15551234567"), domain.ClientInfo{IP: "203.0.113.9", UserAgent: "test-agent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "signed-token" {
		t.Errorf("expected the minted token, got %q", token)
	}
	if created == nil {
		t.Fatal("expected a session row")
	}
	if created.TokenHash == mintedJTI {
		t.Error("registry must store a hash of the jti, not the raw jti")
	}
	if created.TokenHash != domain.HashStringSHA256Hex(mintedJTI) {
		t.Error("token hash must be the sha256 of the jti")
	}
	if created.UserAgent != "test-agent" || created.IP != "203.0.113.9" {
		t.Errorf("client info not recorded: %+v", created)
	}
}

func TestSessionServiceImpl_Validate(t *testing.T) {
	const jti = "11111111-2222-3333-4444-555555555555"
	claims := &domain.SessionClaims{JTI: jti, Phone: "+15551234567", Role: domain.RoleInvestor}

	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockSessionRepository, *mocks.MockTokenService)
		expectedError error
	}{
		{
			name: "valid token with live session",
			setupMocks: func(sessionRepo *mocks.MockSessionRepository, tokenSvc *mocks.MockTokenService) {
				tokenSvc.ValidateFunc = func(token string) (*domain.SessionClaims, error) {
					return claims, nil
				}
				sessionRepo.FindByTokenHashFunc = func(ctx context.Context, tokenHash string) (*domain.Session, error) {
					return &domain.Session{Phone: claims.Phone, TokenHash: tokenHash, ExpiresAt: time.Now().Add(time.Hour)}, nil
				}
			},
		},
		{
			name: "revoked session is rejected despite a valid token",
			setupMocks: func(sessionRepo *mocks.MockSessionRepository, tokenSvc *mocks.MockTokenService) {
				tokenSvc.ValidateFunc = func(token string) (*domain.SessionClaims, error) {
					return claims, nil
				}
				sessionRepo.FindByTokenHashFunc = func(ctx context.Context, tokenHash string) (*domain.Session, error) {
					revokedAt := time.Now().Add(-time.Minute)
					return &domain.Session{Phone: claims.Phone, TokenHash: tokenHash, ExpiresAt: time.Now().Add(time.Hour), RevokedAt: &revokedAt}, nil
				}
			},
			expectedError: domain.ErrSessionRevoked,
		},
		{
			name: "expired session row",
			setupMocks: func(sessionRepo *mocks.MockSessionRepository, tokenSvc *mocks.MockTokenService) {
				tokenSvc.ValidateFunc = func(token string) (*domain.SessionClaims, error) {
					return claims, nil
				}
				sessionRepo.FindByTokenHashFunc = func(ctx context.Context, tokenHash string) (*domain.Session, error) {
					return &domain.Session{Phone: claims.Phone, TokenHash: tokenHash, ExpiresAt: time.Now().Add(-time.Minute)}, nil
				}
			},
			expectedError: domain.ErrSessionExpired,
		},
		{
			name: "no registry row",
			setupMocks: func(sessionRepo *mocks.MockSessionRepository, tokenSvc *mocks.MockTokenService) {
				tokenSvc.ValidateFunc = func(token string) (*domain.SessionClaims, error) {
					return claims, nil
				}
			},
			expectedError: domain.ErrSessionNotFound,
		},
		{
			name:          "invalid token never reaches the registry",
			setupMocks:    func(sessionRepo *mocks.MockSessionRepository, tokenSvc *mocks.MockTokenService) {},
			expectedError: domain.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, sessionRepo, tokenSvc := createSessionServiceForTest(t)
			tt.setupMocks(sessionRepo, tokenSvc)

			got, err := svc.Validate(context.Background(), "some-token")
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Phone != claims.Phone {
				t.Errorf("expected claims for %s, got %s", claims.Phone, got.Phone)
			}
		})
	}
}

func TestSessionServiceImpl_Revoke(t *testing.T) {
	svc, sessionRepo, tokenSvc := createSessionServiceForTest(t)

	const jti = "aaaa-bbbb"
	tokenSvc.ValidateFunc = func(token string) (*domain.SessionClaims, error) {
		return &domain.SessionClaims{JTI: jti, Phone: "+15551234567"}, nil
	}

	var revokedHash string
	sessionRepo.RevokeFunc = func(ctx context.Context, tokenHash string) error {
		revokedHash = tokenHash
		return nil
	}

	if err := svc.Revoke(context.Background(), "some-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revokedHash != domain.HashStringSHA256Hex(jti) {
		t.Error("revocation must target the hashed jti")
	}
}

func TestSessionServiceImpl_Revoke_EmitsAuditEvent(t *testing.T) {
	sessionRepo := mocks.NewMockSessionRepository()
	tokenSvc := mocks.NewMockTokenService()
	logger, hook := logrustest.NewNullLogger()
	svc := NewSessionService(sessionRepo, tokenSvc, time.Hour, logger)

	tokenSvc.ValidateFunc = func(token string) (*domain.SessionClaims, error) {
		return &domain.SessionClaims{JTI: "aaaa-bbbb", Phone: "+15551234567"}, nil
	}

	if err := svc.Revoke(context.Background(), "some-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(hook.Entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(hook.Entries))
	}
	entry := hook.LastEntry()
	if entry.Data["event"] != domain.SessionRevokedEvent {
		t.Errorf("expected %s, got %v", domain.SessionRevokedEvent, entry.Data["event"])
	}
	if entry.Data["phone"] != "+15551234567" {
		t.Errorf("expected phone recorded, got %v", entry.Data["phone"])
	}
	if entry.Data["success"] != true {
		t.Errorf("expected the success flag set, got %v", entry.Data["success"])
	}
}

func TestSessionServiceImpl_RevokeAllForPhone_EmitsScopedAuditEvent(t *testing.T) {
	sessionRepo := mocks.NewMockSessionRepository()
	tokenSvc := mocks.NewMockTokenService()
	logger, hook := logrustest.NewNullLogger()
	svc := NewSessionService(sessionRepo, tokenSvc, time.Hour, logger)

	if err := svc.RevokeAllForPhone(context.Background(), "+15551234567"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Data["event"] != domain.SessionRevokedEvent {
		t.Errorf("expected %s, got %v", domain.SessionRevokedEvent, entry.Data["event"])
	}
	if entry.Data["scope"] != "all" {
		t.Errorf("expected scope metadata carried into the fields, got %v", entry.Data["scope"])
	}
}
