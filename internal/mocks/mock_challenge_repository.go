package mocks

import (
	"context"

	"github.com/you/investorportal/domain"
)

// MockChallengeRepository implements domain.ChallengeRepository interface for testing
type MockChallengeRepository struct {
	CreateFunc            func(ctx context.Context, ch *domain.OtpChallenge) error
	FindLatestActiveFunc  func(ctx context.Context, key string) (*domain.OtpChallenge, error)
	IncrementAttemptsFunc func(ctx context.Context, id uint) (int, error)
	MarkUsedFunc          func(ctx context.Context, id uint) (bool, error)
}

// NewMockChallengeRepository creates a new MockChallengeRepository with default behaviors
func NewMockChallengeRepository() *MockChallengeRepository {
	return &MockChallengeRepository{}
}

func (m *MockChallengeRepository) Create(ctx context.Context, ch *domain.OtpChallenge) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ch)
	}
	return nil
}

func (m *MockChallengeRepository) FindLatestActive(ctx context.Context, key string) (*domain.OtpChallenge, error) {
	if m.FindLatestActiveFunc != nil {
		return m.FindLatestActiveFunc(ctx, key)
	}
	return nil, domain.ErrChallengeNotFound
}

func (m *MockChallengeRepository) IncrementAttempts(ctx context.Context, id uint) (int, error) {
	if m.IncrementAttemptsFunc != nil {
		return m.IncrementAttemptsFunc(ctx, id)
	}
	return 1, nil
}

func (m *MockChallengeRepository) MarkUsed(ctx context.Context, id uint) (bool, error) {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, id)
	}
	return true, nil
}

// Compile-time interface compliance verification
var _ domain.ChallengeRepository = (*MockChallengeRepository)(nil)
