package mocks

import (
	"context"

	"github.com/you/investorportal/domain"
)

// MockAgreementRepository implements domain.AgreementRepository interface for testing
type MockAgreementRepository struct {
	CreateFunc              func(ctx context.Context, a *domain.Agreement) error
	FindByIDFunc            func(ctx context.Context, id uint) (*domain.Agreement, error)
	FindLiveByPhoneFunc     func(ctx context.Context, phone string) (*domain.Agreement, error)
	MarkInvestorSignedFunc  func(ctx context.Context, id uint, sig domain.AgreementSignature) (bool, error)
	MarkCountersignedFunc   func(ctx context.Context, id uint, cs domain.CounterSignature) (bool, error)
	MarkVoidedFunc          func(ctx context.Context, id uint) (bool, error)
	CountReferredSignedFunc func(ctx context.Context, referrerPhone string) (int64, error)
}

// NewMockAgreementRepository creates a new MockAgreementRepository with default behaviors
func NewMockAgreementRepository() *MockAgreementRepository {
	return &MockAgreementRepository{}
}

func (m *MockAgreementRepository) Create(ctx context.Context, a *domain.Agreement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	return nil
}

func (m *MockAgreementRepository) FindByID(ctx context.Context, id uint) (*domain.Agreement, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrAgreementNotFound
}

func (m *MockAgreementRepository) FindLiveByPhone(ctx context.Context, phone string) (*domain.Agreement, error) {
	if m.FindLiveByPhoneFunc != nil {
		return m.FindLiveByPhoneFunc(ctx, phone)
	}
	return nil, domain.ErrAgreementNotFound
}

func (m *MockAgreementRepository) MarkInvestorSigned(ctx context.Context, id uint, sig domain.AgreementSignature) (bool, error) {
	if m.MarkInvestorSignedFunc != nil {
		return m.MarkInvestorSignedFunc(ctx, id, sig)
	}
	return true, nil
}

func (m *MockAgreementRepository) MarkCountersigned(ctx context.Context, id uint, cs domain.CounterSignature) (bool, error) {
	if m.MarkCountersignedFunc != nil {
		return m.MarkCountersignedFunc(ctx, id, cs)
	}
	return true, nil
}

func (m *MockAgreementRepository) MarkVoided(ctx context.Context, id uint) (bool, error) {
	if m.MarkVoidedFunc != nil {
		return m.MarkVoidedFunc(ctx, id)
	}
	return true, nil
}

func (m *MockAgreementRepository) CountReferredSigned(ctx context.Context, referrerPhone string) (int64, error) {
	if m.CountReferredSignedFunc != nil {
		return m.CountReferredSignedFunc(ctx, referrerPhone)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.AgreementRepository = (*MockAgreementRepository)(nil)
