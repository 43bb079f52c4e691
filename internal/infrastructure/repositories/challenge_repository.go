package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/investorportal/domain"
)

// ChallengeRepositoryImpl implements domain.ChallengeRepository using GORM
type ChallengeRepositoryImpl struct {
	db *gorm.DB
}

// DBOtpChallenge represents the database model for OtpChallenge
type DBOtpChallenge struct {
	ID           uint      `gorm:"primaryKey"`
	ChallengeKey string    `gorm:"index;size:255"`
	CodeHash     string    `gorm:"size:64"`
	ExpiresAt    time.Time `gorm:"index"`
	Attempts     int
	Used         bool      `gorm:"index"`
	CreatedAt    time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBOtpChallenge) TableName() string {
	return "otp_challenges"
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *gorm.DB) domain.ChallengeRepository {
	return &ChallengeRepositoryImpl{db: db}
}

// Create implements domain.ChallengeRepository
func (r *ChallengeRepositoryImpl) Create(ctx context.Context, ch *domain.OtpChallenge) error {
	dbCh := &DBOtpChallenge{
		ChallengeKey: ch.Key,
		CodeHash:     ch.CodeHash,
		ExpiresAt:    ch.ExpiresAt,
		Attempts:     ch.Attempts,
		Used:         ch.Used,
	}
	if err := r.db.WithContext(ctx).Create(dbCh).Error; err != nil {
		return err
	}
	ch.ID = dbCh.ID
	ch.CreatedAt = dbCh.CreatedAt
	return nil
}

// FindLatestActive implements domain.ChallengeRepository: the most recent
// unused, unexpired challenge for the key.
func (r *ChallengeRepositoryImpl) FindLatestActive(ctx context.Context, key string) (*domain.OtpChallenge, error) {
	var dbCh DBOtpChallenge
	err := r.db.WithContext(ctx).
		Where("challenge_key = ? AND used = ? AND expires_at > ?", key, false, time.Now()).
		Order("created_at DESC").
		First(&dbCh).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbCh), nil
}

// IncrementAttempts implements domain.ChallengeRepository. One conditional
// UPDATE ... RETURNING round trip: two concurrent verifications of the same
// challenge observe distinct post-increment counts, so both can never pass
// the attempt cap.
func (r *ChallengeRepositoryImpl) IncrementAttempts(ctx context.Context, id uint) (int, error) {
	var attempts int
	err := r.db.WithContext(ctx).
		Raw("UPDATE otp_challenges SET attempts = attempts + 1 WHERE id = ? AND used = ? RETURNING attempts", id, false).
		Scan(&attempts).Error
	if err != nil {
		return 0, err
	}
	if attempts == 0 {
		// No row matched: challenge gone or already consumed.
		return 0, domain.ErrChallengeNotFound
	}
	return attempts, nil
}

// MarkUsed implements domain.ChallengeRepository. The used=false guard makes
// consumption a compare-and-set: only one caller wins.
func (r *ChallengeRepositoryImpl) MarkUsed(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&DBOtpChallenge{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ChallengeRepositoryImpl) dbToDomain(dbCh *DBOtpChallenge) *domain.OtpChallenge {
	return &domain.OtpChallenge{
		ID:        dbCh.ID,
		Key:       dbCh.ChallengeKey,
		CodeHash:  dbCh.CodeHash,
		ExpiresAt: dbCh.ExpiresAt,
		Attempts:  dbCh.Attempts,
		Used:      dbCh.Used,
		CreatedAt: dbCh.CreatedAt,
	}
}
