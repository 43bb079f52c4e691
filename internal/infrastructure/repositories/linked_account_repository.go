package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/investorportal/domain"
)

// LinkedAccountRepositoryImpl implements domain.LinkedAccountRepository
type LinkedAccountRepositoryImpl struct {
	db *gorm.DB
}

// DBLinkedAccount represents the database model for LinkedAccount. The
// unique (provider, provider_id) index guarantees a given external identity
// maps to exactly one phone.
type DBLinkedAccount struct {
	ID         uint   `gorm:"primaryKey"`
	Phone      string `gorm:"index;size:32"`
	Provider   string `gorm:"uniqueIndex:idx_provider_subject;size:32"`
	ProviderID string `gorm:"uniqueIndex:idx_provider_subject;size:255"`
	CreatedAt  time.Time
}

// TableName returns the table name for GORM
func (DBLinkedAccount) TableName() string {
	return "linked_accounts"
}

// NewLinkedAccountRepository creates a new linked account repository
func NewLinkedAccountRepository(db *gorm.DB) domain.LinkedAccountRepository {
	return &LinkedAccountRepositoryImpl{db: db}
}

// Insert implements domain.LinkedAccountRepository. Duplicate links are
// ignored so confirmation callbacks can be retried safely.
func (r *LinkedAccountRepositoryImpl) Insert(ctx context.Context, la *domain.LinkedAccount) error {
	dbLa := &DBLinkedAccount{
		Phone:      la.Phone,
		Provider:   la.Provider,
		ProviderID: la.ProviderID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(dbLa).Error
}

// FindByProviderID implements domain.LinkedAccountRepository
func (r *LinkedAccountRepositoryImpl) FindByProviderID(ctx context.Context, provider, providerID string) (*domain.LinkedAccount, error) {
	var dbLa DBLinkedAccount
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&dbLa).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, err
	}
	return &domain.LinkedAccount{
		ID:         dbLa.ID,
		Phone:      dbLa.Phone,
		Provider:   dbLa.Provider,
		ProviderID: dbLa.ProviderID,
		CreatedAt:  dbLa.CreatedAt,
	}, nil
}

// Exists implements domain.LinkedAccountRepository
func (r *LinkedAccountRepositoryImpl) Exists(ctx context.Context, phone, provider, providerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBLinkedAccount{}).
		Where("phone = ? AND provider = ? AND provider_id = ?", phone, provider, providerID).
		Count(&count).Error
	return count > 0, err
}
