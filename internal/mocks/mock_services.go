package mocks

import (
	"context"
	"time"

	"github.com/you/investorportal/domain"
)

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	SendSMSFunc   func(ctx context.Context, to, message string) error
	SendEmailFunc func(ctx context.Context, to, subject, html string) error
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendSMS(ctx context.Context, to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(ctx, to, message)
	}
	return nil
}

func (m *MockNotificationService) SendEmail(ctx context.Context, to, subject, html string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, to, subject, html)
	}
	return nil
}

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	GenerateFunc func(inv *domain.Investor, jti string) (string, error)
	ValidateFunc func(token string) (*domain.SessionClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Generate(inv *domain.Investor, jti string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(inv, jti)
	}
	return "mock_token", nil
}

func (m *MockTokenService) Validate(token string) (*domain.SessionClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// MockTokenIntrospector implements domain.TokenIntrospector interface for testing
type MockTokenIntrospector struct {
	IntrospectFunc func(ctx context.Context, idToken string) (*domain.IntrospectionResult, error)
}

// NewMockTokenIntrospector creates a new MockTokenIntrospector with default behaviors
func NewMockTokenIntrospector() *MockTokenIntrospector {
	return &MockTokenIntrospector{}
}

func (m *MockTokenIntrospector) Introspect(ctx context.Context, idToken string) (*domain.IntrospectionResult, error) {
	if m.IntrospectFunc != nil {
		return m.IntrospectFunc(ctx, idToken)
	}
	return nil, domain.ErrTokenInvalid
}

// MockReferralService implements domain.ReferralService interface for testing
type MockReferralService struct {
	StatsFunc                  func(ctx context.Context, phone string) (*domain.ReferralStats, error)
	CreateInviteFunc           func(ctx context.Context, phone, label string, maxUses int, ttl time.Duration) (*domain.InviteLink, error)
	CreateShareFunc            func(ctx context.Context, phone, title string) (*domain.ShareLink, error)
	RecordShareViewFunc        func(ctx context.Context, key string) (*domain.ShareLink, error)
	EvaluateAndAwardBadgesFunc func(ctx context.Context, phone string) error
	BadgesFunc                 func(ctx context.Context, phone string) ([]domain.Badge, error)
}

// NewMockReferralService creates a new MockReferralService with default behaviors
func NewMockReferralService() *MockReferralService {
	return &MockReferralService{}
}

func (m *MockReferralService) Stats(ctx context.Context, phone string) (*domain.ReferralStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, phone)
	}
	return &domain.ReferralStats{Phone: phone}, nil
}

func (m *MockReferralService) CreateInvite(ctx context.Context, phone, label string, maxUses int, ttl time.Duration) (*domain.InviteLink, error) {
	if m.CreateInviteFunc != nil {
		return m.CreateInviteFunc(ctx, phone, label, maxUses, ttl)
	}
	return &domain.InviteLink{CreatorPhone: phone, Label: label, MaxUses: maxUses}, nil
}

func (m *MockReferralService) CreateShare(ctx context.Context, phone, title string) (*domain.ShareLink, error) {
	if m.CreateShareFunc != nil {
		return m.CreateShareFunc(ctx, phone, title)
	}
	return &domain.ShareLink{CreatorPhone: phone, Title: title}, nil
}

func (m *MockReferralService) RecordShareView(ctx context.Context, key string) (*domain.ShareLink, error) {
	if m.RecordShareViewFunc != nil {
		return m.RecordShareViewFunc(ctx, key)
	}
	return nil, domain.ErrShareNotFound
}

func (m *MockReferralService) EvaluateAndAwardBadges(ctx context.Context, phone string) error {
	if m.EvaluateAndAwardBadgesFunc != nil {
		return m.EvaluateAndAwardBadgesFunc(ctx, phone)
	}
	return nil
}

func (m *MockReferralService) Badges(ctx context.Context, phone string) ([]domain.Badge, error) {
	if m.BadgesFunc != nil {
		return m.BadgesFunc(ctx, phone)
	}
	return nil, nil
}

// MockDocumentRenderer implements domain.DocumentRenderer interface for testing
type MockDocumentRenderer struct {
	RenderFunc func(a *domain.Agreement, issuerName, issuerTitle string) ([]byte, error)
}

// NewMockDocumentRenderer creates a new MockDocumentRenderer with default behaviors
func NewMockDocumentRenderer() *MockDocumentRenderer {
	return &MockDocumentRenderer{}
}

func (m *MockDocumentRenderer) Render(a *domain.Agreement, issuerName, issuerTitle string) ([]byte, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(a, issuerName, issuerTitle)
	}
	return []byte("%PDF-1.4"), nil
}

// Compile-time interface compliance verification
var (
	_ domain.NotificationService = (*MockNotificationService)(nil)
	_ domain.TokenService        = (*MockTokenService)(nil)
	_ domain.TokenIntrospector   = (*MockTokenIntrospector)(nil)
	_ domain.ReferralService     = (*MockReferralService)(nil)
	_ domain.DocumentRenderer    = (*MockDocumentRenderer)(nil)
)
