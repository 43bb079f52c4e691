package mocks

import (
	"context"

	"github.com/you/investorportal/domain"
)

// MockInvestorRepository implements domain.InvestorRepository interface for testing
type MockInvestorRepository struct {
	CreateFunc      func(ctx context.Context, inv *domain.Investor) error
	FindByPhoneFunc func(ctx context.Context, phone string) (*domain.Investor, error)
	UpdateFunc      func(ctx context.Context, inv *domain.Investor) error
	ApproveFunc     func(ctx context.Context, phone, referredBy string) (*domain.Investor, error)
	DeactivateFunc  func(ctx context.Context, phone string) error
}

// NewMockInvestorRepository creates a new MockInvestorRepository with default behaviors
func NewMockInvestorRepository() *MockInvestorRepository {
	return &MockInvestorRepository{}
}

func (m *MockInvestorRepository) Create(ctx context.Context, inv *domain.Investor) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, inv)
	}
	return nil
}

func (m *MockInvestorRepository) FindByPhone(ctx context.Context, phone string) (*domain.Investor, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return nil, domain.ErrInvestorNotFound
}

func (m *MockInvestorRepository) Update(ctx context.Context, inv *domain.Investor) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, inv)
	}
	return nil
}

func (m *MockInvestorRepository) Approve(ctx context.Context, phone, referredBy string) (*domain.Investor, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, phone, referredBy)
	}
	return &domain.Investor{Phone: phone, ReferredBy: referredBy, IsActive: true, Role: domain.RoleInvestor}, nil
}

func (m *MockInvestorRepository) Deactivate(ctx context.Context, phone string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, phone)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.InvestorRepository = (*MockInvestorRepository)(nil)
