package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/investorportal/domain"
)

// AgreementRepositoryImpl implements domain.AgreementRepository using GORM.
// Every status transition is a conditional update keyed on the current
// status so concurrent requests cannot both win.
type AgreementRepositoryImpl struct {
	db *gorm.DB
}

// DBAgreement represents the database model for Agreement. The partial
// unique index enforces the one-live-agreement rule at the database, so
// two concurrent creates for the same phone cannot both insert.
type DBAgreement struct {
	ID                uint   `gorm:"primaryKey"`
	Phone             string `gorm:"index;size:32;uniqueIndex:uidx_agreements_live,where:status <> 'voided'"`
	InvestorName      string `gorm:"size:255"`
	InvestorEmail     string `gorm:"size:255"`
	Company           string `gorm:"size:255"`
	AmountCents       int64
	ValuationCapCents int64
	Status            string `gorm:"index;size:32"`

	SignedName      string `gorm:"size:255"`
	SignedAt        *time.Time
	SignedIP        string `gorm:"size:64"`
	SignedUserAgent string `gorm:"size:512"`
	DocumentHash    string `gorm:"size:64"`

	CountersignedName string `gorm:"size:255"`
	CountersignedAt   *time.Time
	CountersignedIP   string `gorm:"size:64"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBAgreement) TableName() string {
	return "agreements"
}

// NewAgreementRepository creates a new agreement repository
func NewAgreementRepository(db *gorm.DB) domain.AgreementRepository {
	return &AgreementRepositoryImpl{db: db}
}

// Create implements domain.AgreementRepository
func (r *AgreementRepositoryImpl) Create(ctx context.Context, a *domain.Agreement) error {
	dbA := &DBAgreement{
		Phone:             a.Phone,
		InvestorName:      a.InvestorName,
		InvestorEmail:     a.InvestorEmail,
		Company:           a.Company,
		AmountCents:       a.AmountCents,
		ValuationCapCents: a.ValuationCapCents,
		Status:            a.Status,
	}
	if err := r.db.WithContext(ctx).Create(dbA).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAgreementExists
		}
		return err
	}
	a.ID = dbA.ID
	a.CreatedAt = dbA.CreatedAt
	a.UpdatedAt = dbA.UpdatedAt
	return nil
}

// FindByID implements domain.AgreementRepository
func (r *AgreementRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Agreement, error) {
	var dbA DBAgreement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbA).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAgreementNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbA), nil
}

// FindLiveByPhone implements domain.AgreementRepository: the single
// non-voided agreement for a phone, if any.
func (r *AgreementRepositoryImpl) FindLiveByPhone(ctx context.Context, phone string) (*domain.Agreement, error) {
	var dbA DBAgreement
	err := r.db.WithContext(ctx).
		Where("phone = ? AND status <> ?", phone, domain.AgreementVoided).
		Order("created_at DESC").
		First(&dbA).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAgreementNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbA), nil
}

// MarkInvestorSigned implements domain.AgreementRepository
func (r *AgreementRepositoryImpl) MarkInvestorSigned(ctx context.Context, id uint, sig domain.AgreementSignature) (bool, error) {
	signedAt := sig.SignedAt
	res := r.db.WithContext(ctx).Model(&DBAgreement{}).
		Where("id = ? AND status = ?", id, domain.AgreementPendingInvestor).
		Updates(map[string]interface{}{
			"status":            domain.AgreementInvestorSigned,
			"signed_name":       sig.Name,
			"signed_at":         &signedAt,
			"signed_ip":         sig.IP,
			"signed_user_agent": sig.UserAgent,
			"document_hash":     sig.DocumentHash,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkCountersigned implements domain.AgreementRepository
func (r *AgreementRepositoryImpl) MarkCountersigned(ctx context.Context, id uint, cs domain.CounterSignature) (bool, error) {
	signedAt := cs.SignedAt
	res := r.db.WithContext(ctx).Model(&DBAgreement{}).
		Where("id = ? AND status = ?", id, domain.AgreementInvestorSigned).
		Updates(map[string]interface{}{
			"status":             domain.AgreementCountersigned,
			"countersigned_name": cs.Name,
			"countersigned_at":   &signedAt,
			"countersigned_ip":   cs.IP,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkVoided implements domain.AgreementRepository. Countersigned and
// already-voided agreements are excluded by the status guard.
func (r *AgreementRepositoryImpl) MarkVoided(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&DBAgreement{}).
		Where("id = ? AND status IN ?", id, []string{domain.AgreementPendingInvestor, domain.AgreementInvestorSigned}).
		Update("status", domain.AgreementVoided)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountReferredSigned implements domain.AgreementRepository: signed or
// countersigned agreements held by identities this phone referred.
func (r *AgreementRepositoryImpl) CountReferredSigned(ctx context.Context, referrerPhone string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBAgreement{}).
		Where("status IN ?", []string{domain.AgreementInvestorSigned, domain.AgreementCountersigned}).
		Where("phone IN (?)", r.db.Model(&DBInvestor{}).Select("phone").Where("referred_by = ?", referrerPhone)).
		Count(&count).Error
	return count, err
}

func (r *AgreementRepositoryImpl) dbToDomain(dbA *DBAgreement) *domain.Agreement {
	a := &domain.Agreement{
		ID:                dbA.ID,
		Phone:             dbA.Phone,
		InvestorName:      dbA.InvestorName,
		InvestorEmail:     dbA.InvestorEmail,
		Company:           dbA.Company,
		AmountCents:       dbA.AmountCents,
		ValuationCapCents: dbA.ValuationCapCents,
		Status:            dbA.Status,
		CreatedAt:         dbA.CreatedAt,
		UpdatedAt:         dbA.UpdatedAt,
	}
	if dbA.SignedAt != nil {
		a.Signature = &domain.AgreementSignature{
			Name:         dbA.SignedName,
			SignedAt:     *dbA.SignedAt,
			IP:           dbA.SignedIP,
			UserAgent:    dbA.SignedUserAgent,
			DocumentHash: dbA.DocumentHash,
		}
	}
	if dbA.CountersignedAt != nil {
		a.CounterSig = &domain.CounterSignature{
			Name:     dbA.CountersignedName,
			SignedAt: *dbA.CountersignedAt,
			IP:       dbA.CountersignedIP,
		}
	}
	return a
}
