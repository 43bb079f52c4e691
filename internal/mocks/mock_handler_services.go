package mocks

import (
	"context"

	"github.com/you/investorportal/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	RequestChallengeFunc func(ctx context.Context, phone, inviteCode string) error
	VerifyChallengeFunc  func(ctx context.Context, phone, code string) (*domain.Investor, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) RequestChallenge(ctx context.Context, phone, inviteCode string) error {
	if m.RequestChallengeFunc != nil {
		return m.RequestChallengeFunc(ctx, phone, inviteCode)
	}
	return nil
}

func (m *MockOTPService) VerifyChallenge(ctx context.Context, phone, code string) (*domain.Investor, error) {
	if m.VerifyChallengeFunc != nil {
		return m.VerifyChallengeFunc(ctx, phone, code)
	}
	return nil, domain.ErrChallengeNotFound
}

// MockSessionService implements domain.SessionService interface for testing
type MockSessionService struct {
	CreateFunc            func(ctx context.Context, inv *domain.Investor, client domain.ClientInfo) (string, error)
	ValidateFunc          func(ctx context.Context, token string) (*domain.SessionClaims, error)
	RevokeFunc            func(ctx context.Context, token string) error
	RevokeAllForPhoneFunc func(ctx context.Context, phone string) error
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

func (m *MockSessionService) Create(ctx context.Context, inv *domain.Investor, client domain.ClientInfo) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, inv, client)
	}
	return "mock_session_token", nil
}

func (m *MockSessionService) Validate(ctx context.Context, token string) (*domain.SessionClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockSessionService) Revoke(ctx context.Context, token string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token)
	}
	return nil
}

func (m *MockSessionService) RevokeAllForPhone(ctx context.Context, phone string) error {
	if m.RevokeAllForPhoneFunc != nil {
		return m.RevokeAllForPhoneFunc(ctx, phone)
	}
	return nil
}

// MockLinkService implements domain.LinkService interface for testing
type MockLinkService struct {
	RequestEmailLinkFunc      func(ctx context.Context, phone, email string) error
	ConfirmEmailLinkFunc      func(ctx context.Context, token, email, phone string) error
	LoginViaLinkedAccountFunc func(ctx context.Context, provider, credential string) (*domain.Investor, error)
}

// NewMockLinkService creates a new MockLinkService with default behaviors
func NewMockLinkService() *MockLinkService {
	return &MockLinkService{}
}

func (m *MockLinkService) RequestEmailLink(ctx context.Context, phone, email string) error {
	if m.RequestEmailLinkFunc != nil {
		return m.RequestEmailLinkFunc(ctx, phone, email)
	}
	return nil
}

func (m *MockLinkService) ConfirmEmailLink(ctx context.Context, token, email, phone string) error {
	if m.ConfirmEmailLinkFunc != nil {
		return m.ConfirmEmailLinkFunc(ctx, token, email, phone)
	}
	return nil
}

func (m *MockLinkService) LoginViaLinkedAccount(ctx context.Context, provider, credential string) (*domain.Investor, error) {
	if m.LoginViaLinkedAccountFunc != nil {
		return m.LoginViaLinkedAccountFunc(ctx, provider, credential)
	}
	return nil, domain.ErrLinkNotFound
}

// Compile-time interface compliance verification
var (
	_ domain.OTPService     = (*MockOTPService)(nil)
	_ domain.SessionService = (*MockSessionService)(nil)
	_ domain.LinkService    = (*MockLinkService)(nil)
)
