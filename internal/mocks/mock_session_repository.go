package mocks

import (
	"context"

	"github.com/you/investorportal/domain"
)

// MockSessionRepository implements domain.SessionRepository interface for testing
type MockSessionRepository struct {
	CreateFunc            func(ctx context.Context, s *domain.Session) error
	FindByTokenHashFunc   func(ctx context.Context, tokenHash string) (*domain.Session, error)
	RevokeFunc            func(ctx context.Context, tokenHash string) error
	RevokeAllForPhoneFunc func(ctx context.Context, phone string) error
	DeleteExpiredFunc     func(ctx context.Context) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, s *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *MockSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	if m.FindByTokenHashFunc != nil {
		return m.FindByTokenHashFunc(ctx, tokenHash)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Revoke(ctx context.Context, tokenHash string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, tokenHash)
	}
	return nil
}

func (m *MockSessionRepository) RevokeAllForPhone(ctx context.Context, phone string) error {
	if m.RevokeAllForPhoneFunc != nil {
		return m.RevokeAllForPhoneFunc(ctx, phone)
	}
	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) error {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*MockSessionRepository)(nil)
