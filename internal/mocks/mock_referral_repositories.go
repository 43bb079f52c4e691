package mocks

import (
	"context"
	"time"

	"github.com/you/investorportal/domain"
)

// MockInviteRepository implements domain.InviteRepository interface for testing
type MockInviteRepository struct {
	CreateFunc                  func(ctx context.Context, l *domain.InviteLink) error
	FindByCodeFunc              func(ctx context.Context, code string) (*domain.InviteLink, error)
	RedeemFunc                  func(ctx context.Context, code string, now time.Time) (*domain.InviteLink, bool, error)
	CountByCreatorFunc          func(ctx context.Context, phone string) (int64, error)
	SumRedemptionsByCreatorFunc func(ctx context.Context, phone string) (int64, error)
}

// NewMockInviteRepository creates a new MockInviteRepository with default behaviors
func NewMockInviteRepository() *MockInviteRepository {
	return &MockInviteRepository{}
}

func (m *MockInviteRepository) Create(ctx context.Context, l *domain.InviteLink) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, l)
	}
	return nil
}

func (m *MockInviteRepository) FindByCode(ctx context.Context, code string) (*domain.InviteLink, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, domain.ErrInviteNotFound
}

func (m *MockInviteRepository) Redeem(ctx context.Context, code string, now time.Time) (*domain.InviteLink, bool, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, code, now)
	}
	return nil, false, nil
}

func (m *MockInviteRepository) CountByCreator(ctx context.Context, phone string) (int64, error) {
	if m.CountByCreatorFunc != nil {
		return m.CountByCreatorFunc(ctx, phone)
	}
	return 0, nil
}

func (m *MockInviteRepository) SumRedemptionsByCreator(ctx context.Context, phone string) (int64, error) {
	if m.SumRedemptionsByCreatorFunc != nil {
		return m.SumRedemptionsByCreatorFunc(ctx, phone)
	}
	return 0, nil
}

// MockShareRepository implements domain.ShareRepository interface for testing
type MockShareRepository struct {
	CreateFunc               func(ctx context.Context, s *domain.ShareLink) error
	FindByKeyFunc            func(ctx context.Context, key string) (*domain.ShareLink, error)
	RecordViewFunc           func(ctx context.Context, key string) (*domain.ShareLink, error)
	CountViewedByCreatorFunc func(ctx context.Context, phone string) (int64, error)
	SumViewsByCreatorFunc    func(ctx context.Context, phone string) (int64, error)
}

// NewMockShareRepository creates a new MockShareRepository with default behaviors
func NewMockShareRepository() *MockShareRepository {
	return &MockShareRepository{}
}

func (m *MockShareRepository) Create(ctx context.Context, s *domain.ShareLink) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *MockShareRepository) FindByKey(ctx context.Context, key string) (*domain.ShareLink, error) {
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(ctx, key)
	}
	return nil, domain.ErrShareNotFound
}

func (m *MockShareRepository) RecordView(ctx context.Context, key string) (*domain.ShareLink, error) {
	if m.RecordViewFunc != nil {
		return m.RecordViewFunc(ctx, key)
	}
	return nil, domain.ErrShareNotFound
}

func (m *MockShareRepository) CountViewedByCreator(ctx context.Context, phone string) (int64, error) {
	if m.CountViewedByCreatorFunc != nil {
		return m.CountViewedByCreatorFunc(ctx, phone)
	}
	return 0, nil
}

func (m *MockShareRepository) SumViewsByCreator(ctx context.Context, phone string) (int64, error) {
	if m.SumViewsByCreatorFunc != nil {
		return m.SumViewsByCreatorFunc(ctx, phone)
	}
	return 0, nil
}

// MockBadgeRepository implements domain.BadgeRepository interface for testing
type MockBadgeRepository struct {
	GrantAllFunc    func(ctx context.Context, phone string, keys []string) error
	ListByPhoneFunc func(ctx context.Context, phone string) ([]domain.Badge, error)
}

// NewMockBadgeRepository creates a new MockBadgeRepository with default behaviors
func NewMockBadgeRepository() *MockBadgeRepository {
	return &MockBadgeRepository{}
}

func (m *MockBadgeRepository) GrantAll(ctx context.Context, phone string, keys []string) error {
	if m.GrantAllFunc != nil {
		return m.GrantAllFunc(ctx, phone, keys)
	}
	return nil
}

func (m *MockBadgeRepository) ListByPhone(ctx context.Context, phone string) ([]domain.Badge, error) {
	if m.ListByPhoneFunc != nil {
		return m.ListByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

// Compile-time interface compliance verification
var (
	_ domain.InviteRepository = (*MockInviteRepository)(nil)
	_ domain.ShareRepository  = (*MockShareRepository)(nil)
	_ domain.BadgeRepository  = (*MockBadgeRepository)(nil)
)
