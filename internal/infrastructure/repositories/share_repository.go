package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/investorportal/domain"
)

// ShareRepositoryImpl implements domain.ShareRepository using GORM
type ShareRepositoryImpl struct {
	db *gorm.DB
}

// DBShareLink represents the database model for ShareLink
type DBShareLink struct {
	ID           uint   `gorm:"primaryKey"`
	ShareKey     string `gorm:"uniqueIndex;size:64"`
	CreatorPhone string `gorm:"index;size:32"`
	Title        string `gorm:"size:255"`
	Views        int
	CreatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBShareLink) TableName() string {
	return "share_links"
}

// NewShareRepository creates a new share repository
func NewShareRepository(db *gorm.DB) domain.ShareRepository {
	return &ShareRepositoryImpl{db: db}
}

// Create implements domain.ShareRepository
func (r *ShareRepositoryImpl) Create(ctx context.Context, s *domain.ShareLink) error {
	dbS := &DBShareLink{
		ShareKey:     s.Key,
		CreatorPhone: s.CreatorPhone,
		Title:        s.Title,
		Views:        s.Views,
	}
	if err := r.db.WithContext(ctx).Create(dbS).Error; err != nil {
		return err
	}
	s.ID = dbS.ID
	s.CreatedAt = dbS.CreatedAt
	return nil
}

// FindByKey implements domain.ShareRepository
func (r *ShareRepositoryImpl) FindByKey(ctx context.Context, key string) (*domain.ShareLink, error) {
	var dbS DBShareLink
	err := r.db.WithContext(ctx).Where("share_key = ?", key).First(&dbS).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShareNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbS), nil
}

// RecordView implements domain.ShareRepository with an atomic counter bump.
func (r *ShareRepositoryImpl) RecordView(ctx context.Context, key string) (*domain.ShareLink, error) {
	res := r.db.WithContext(ctx).Model(&DBShareLink{}).
		Where("share_key = ?", key).
		Update("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrShareNotFound
	}
	return r.FindByKey(ctx, key)
}

// CountViewedByCreator implements domain.ShareRepository: shares that have
// been viewed at least once.
func (r *ShareRepositoryImpl) CountViewedByCreator(ctx context.Context, phone string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBShareLink{}).
		Where("creator_phone = ? AND views > 0", phone).
		Count(&count).Error
	return count, err
}

// SumViewsByCreator implements domain.ShareRepository
func (r *ShareRepositoryImpl) SumViewsByCreator(ctx context.Context, phone string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&DBShareLink{}).
		Where("creator_phone = ?", phone).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ShareRepositoryImpl) dbToDomain(dbS *DBShareLink) *domain.ShareLink {
	return &domain.ShareLink{
		ID:           dbS.ID,
		Key:          dbS.ShareKey,
		CreatorPhone: dbS.CreatorPhone,
		Title:        dbS.Title,
		Views:        dbS.Views,
		CreatedAt:    dbS.CreatedAt,
	}
}
