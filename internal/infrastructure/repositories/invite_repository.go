package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/investorportal/domain"
)

// InviteRepositoryImpl implements domain.InviteRepository using GORM
type InviteRepositoryImpl struct {
	db *gorm.DB
}

// DBInviteLink represents the database model for InviteLink
type DBInviteLink struct {
	ID           uint   `gorm:"primaryKey"`
	Code         string `gorm:"uniqueIndex;size:32"`
	CreatorPhone string `gorm:"index;size:32"`
	Label        string `gorm:"size:255"`
	Uses         int
	MaxUses      int
	ExpiresAt    time.Time `gorm:"index"`
	CreatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBInviteLink) TableName() string {
	return "invite_links"
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db *gorm.DB) domain.InviteRepository {
	return &InviteRepositoryImpl{db: db}
}

// Create implements domain.InviteRepository
func (r *InviteRepositoryImpl) Create(ctx context.Context, l *domain.InviteLink) error {
	dbL := &DBInviteLink{
		Code:         l.Code,
		CreatorPhone: l.CreatorPhone,
		Label:        l.Label,
		Uses:         l.Uses,
		MaxUses:      l.MaxUses,
		ExpiresAt:    l.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbL).Error; err != nil {
		return err
	}
	l.ID = dbL.ID
	l.CreatedAt = dbL.CreatedAt
	return nil
}

// FindByCode implements domain.InviteRepository
func (r *InviteRepositoryImpl) FindByCode(ctx context.Context, code string) (*domain.InviteLink, error) {
	var dbL DBInviteLink
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&dbL).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbL), nil
}

// Redeem implements domain.InviteRepository. The uses < max_uses guard in
// the UPDATE makes consumption atomic: the last slot goes to exactly one
// concurrent redeemer.
func (r *InviteRepositoryImpl) Redeem(ctx context.Context, code string, now time.Time) (*domain.InviteLink, bool, error) {
	res := r.db.WithContext(ctx).Model(&DBInviteLink{}).
		Where("code = ? AND uses < max_uses AND expires_at > ?", code, now).
		Update("uses", gorm.Expr("uses + 1"))
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}

	link, err := r.FindByCode(ctx, code)
	if err != nil {
		return nil, false, err
	}
	return link, true, nil
}

// CountByCreator implements domain.InviteRepository
func (r *InviteRepositoryImpl) CountByCreator(ctx context.Context, phone string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBInviteLink{}).
		Where("creator_phone = ?", phone).
		Count(&count).Error
	return count, err
}

// SumRedemptionsByCreator implements domain.InviteRepository
func (r *InviteRepositoryImpl) SumRedemptionsByCreator(ctx context.Context, phone string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&DBInviteLink{}).
		Where("creator_phone = ?", phone).
		Select("COALESCE(SUM(uses), 0)").
		Scan(&total).Error
	return total, err
}

func (r *InviteRepositoryImpl) dbToDomain(dbL *DBInviteLink) *domain.InviteLink {
	return &domain.InviteLink{
		ID:           dbL.ID,
		Code:         dbL.Code,
		CreatorPhone: dbL.CreatorPhone,
		Label:        dbL.Label,
		Uses:         dbL.Uses,
		MaxUses:      dbL.MaxUses,
		ExpiresAt:    dbL.ExpiresAt,
		CreatedAt:    dbL.CreatedAt,
	}
}
