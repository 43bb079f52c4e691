package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/investorportal/domain"
)

// BadgeRepositoryImpl implements domain.BadgeRepository using GORM
type BadgeRepositoryImpl struct {
	db *gorm.DB
}

// DBBadge represents the database model for Badge. The unique (phone, key)
// index plus conflict-ignoring inserts make grants idempotent.
type DBBadge struct {
	ID        uint   `gorm:"primaryKey"`
	Phone     string `gorm:"uniqueIndex:idx_phone_badge;size:32"`
	BadgeKey  string `gorm:"uniqueIndex:idx_phone_badge;size:64"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBBadge) TableName() string {
	return "badges"
}

// NewBadgeRepository creates a new badge repository
func NewBadgeRepository(db *gorm.DB) domain.BadgeRepository {
	return &BadgeRepositoryImpl{db: db}
}

// GrantAll implements domain.BadgeRepository. One bulk insert; keys the
// phone already holds are skipped by the conflict clause.
func (r *BadgeRepositoryImpl) GrantAll(ctx context.Context, phone string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	rows := make([]DBBadge, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, DBBadge{Phone: phone, BadgeKey: key})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// ListByPhone implements domain.BadgeRepository
func (r *BadgeRepositoryImpl) ListByPhone(ctx context.Context, phone string) ([]domain.Badge, error) {
	var dbBadges []DBBadge
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at ASC").
		Find(&dbBadges).Error
	if err != nil {
		return nil, err
	}
	badges := make([]domain.Badge, 0, len(dbBadges))
	for _, b := range dbBadges {
		badges = append(badges, domain.Badge{
			ID:        b.ID,
			Phone:     b.Phone,
			Key:       b.BadgeKey,
			CreatedAt: b.CreatedAt,
		})
	}
	return badges, nil
}
