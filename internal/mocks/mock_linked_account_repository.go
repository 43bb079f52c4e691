package mocks

import (
	"context"

	"github.com/you/investorportal/domain"
)

// MockLinkedAccountRepository implements domain.LinkedAccountRepository interface for testing
type MockLinkedAccountRepository struct {
	InsertFunc           func(ctx context.Context, la *domain.LinkedAccount) error
	FindByProviderIDFunc func(ctx context.Context, provider, providerID string) (*domain.LinkedAccount, error)
	ExistsFunc           func(ctx context.Context, phone, provider, providerID string) (bool, error)
}

// NewMockLinkedAccountRepository creates a new MockLinkedAccountRepository with default behaviors
func NewMockLinkedAccountRepository() *MockLinkedAccountRepository {
	return &MockLinkedAccountRepository{}
}

func (m *MockLinkedAccountRepository) Insert(ctx context.Context, la *domain.LinkedAccount) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, la)
	}
	return nil
}

func (m *MockLinkedAccountRepository) FindByProviderID(ctx context.Context, provider, providerID string) (*domain.LinkedAccount, error) {
	if m.FindByProviderIDFunc != nil {
		return m.FindByProviderIDFunc(ctx, provider, providerID)
	}
	return nil, domain.ErrLinkNotFound
}

func (m *MockLinkedAccountRepository) Exists(ctx context.Context, phone, provider, providerID string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, phone, provider, providerID)
	}
	return false, nil
}

// Compile-time interface compliance verification
var _ domain.LinkedAccountRepository = (*MockLinkedAccountRepository)(nil)
