package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/investorportal/domain"
)

// InvestorRepositoryImpl implements domain.InvestorRepository using GORM
type InvestorRepositoryImpl struct {
	db *gorm.DB
}

// DBInvestor represents the database model for Investor (with GORM tags)
type DBInvestor struct {
	ID         uint      `gorm:"primaryKey"`
	Phone      string    `gorm:"uniqueIndex;size:32"`
	Name       string    `gorm:"size:255"`
	Company    string    `gorm:"size:255"`
	Role       string    `gorm:"index;size:32"`
	IsActive   bool      `gorm:"index"`
	ReferredBy string    `gorm:"index;size:32"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (DBInvestor) TableName() string {
	return "investors"
}

// NewInvestorRepository creates a new investor repository
func NewInvestorRepository(db *gorm.DB) domain.InvestorRepository {
	return &InvestorRepositoryImpl{db: db}
}

// Create implements domain.InvestorRepository
func (r *InvestorRepositoryImpl) Create(ctx context.Context, inv *domain.Investor) error {
	dbInv := r.domainToDB(inv)
	if err := r.db.WithContext(ctx).Create(dbInv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrInvestorExists
		}
		return err
	}
	inv.ID = dbInv.ID
	return nil
}

// FindByPhone implements domain.InvestorRepository
func (r *InvestorRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.Investor, error) {
	var dbInv DBInvestor
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&dbInv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvestorNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbInv), nil
}

// Update implements domain.InvestorRepository
func (r *InvestorRepositoryImpl) Update(ctx context.Context, inv *domain.Investor) error {
	dbInv := r.domainToDB(inv)
	return r.db.WithContext(ctx).Save(dbInv).Error
}

// Approve implements domain.InvestorRepository. It creates the identity if
// absent, or reactivates an existing one. referred_by is only set on first
// approval so attribution never changes after the fact.
func (r *InvestorRepositoryImpl) Approve(ctx context.Context, phone, referredBy string) (*domain.Investor, error) {
	var dbInv DBInvestor
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&dbInv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		dbInv = DBInvestor{
			Phone:      phone,
			Role:       domain.RoleInvestor,
			IsActive:   true,
			ReferredBy: referredBy,
		}
		if err := r.db.WithContext(ctx).Create(&dbInv).Error; err != nil {
			return nil, err
		}
		return r.dbToDomain(&dbInv), nil
	}
	if err != nil {
		return nil, err
	}

	if !dbInv.IsActive {
		if err := r.db.WithContext(ctx).Model(&DBInvestor{}).
			Where("phone = ?", phone).
			Update("is_active", true).Error; err != nil {
			return nil, err
		}
		dbInv.IsActive = true
	}
	return r.dbToDomain(&dbInv), nil
}

// Deactivate implements domain.InvestorRepository. Soft flag only; the row
// is never deleted.
func (r *InvestorRepositoryImpl) Deactivate(ctx context.Context, phone string) error {
	res := r.db.WithContext(ctx).Model(&DBInvestor{}).
		Where("phone = ?", phone).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvestorNotFound
	}
	return nil
}

// domainToDB converts domain investor to database investor
func (r *InvestorRepositoryImpl) domainToDB(inv *domain.Investor) *DBInvestor {
	return &DBInvestor{
		ID:         inv.ID,
		Phone:      inv.Phone,
		Name:       inv.Name,
		Company:    inv.Company,
		Role:       inv.Role,
		IsActive:   inv.IsActive,
		ReferredBy: inv.ReferredBy,
	}
}

// dbToDomain converts database investor to domain investor
func (r *InvestorRepositoryImpl) dbToDomain(dbInv *DBInvestor) *domain.Investor {
	return &domain.Investor{
		ID:         dbInv.ID,
		Phone:      dbInv.Phone,
		Name:       dbInv.Name,
		Company:    dbInv.Company,
		Role:       dbInv.Role,
		IsActive:   dbInv.IsActive,
		ReferredBy: dbInv.ReferredBy,
		CreatedAt:  dbInv.CreatedAt,
		UpdatedAt:  dbInv.UpdatedAt,
	}
}
