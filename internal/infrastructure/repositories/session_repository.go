package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/investorportal/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM.
// The table is the revocation authority: token validity alone never
// authenticates a request.
type SessionRepositoryImpl struct {
	db *gorm.DB
}

// DBSession represents the database model for Session
type DBSession struct {
	ID        uint       `gorm:"primaryKey"`
	Phone     string     `gorm:"index;size:32"`
	TokenHash string     `gorm:"uniqueIndex;size:64"`
	ExpiresAt time.Time  `gorm:"index"`
	RevokedAt *time.Time `gorm:"index"`
	UserAgent string     `gorm:"size:512"`
	IP        string     `gorm:"size:64"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, s *domain.Session) error {
	dbSess := &DBSession{
		Phone:     s.Phone,
		TokenHash: s.TokenHash,
		ExpiresAt: s.ExpiresAt,
		UserAgent: s.UserAgent,
		IP:        s.IP,
	}
	if err := r.db.WithContext(ctx).Create(dbSess).Error; err != nil {
		return err
	}
	s.ID = dbSess.ID
	s.CreatedAt = dbSess.CreatedAt
	return nil
}

// FindByTokenHash implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var dbSess DBSession
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&dbSess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &domain.Session{
		ID:        dbSess.ID,
		Phone:     dbSess.Phone,
		TokenHash: dbSess.TokenHash,
		ExpiresAt: dbSess.ExpiresAt,
		RevokedAt: dbSess.RevokedAt,
		UserAgent: dbSess.UserAgent,
		IP:        dbSess.IP,
		CreatedAt: dbSess.CreatedAt,
	}, nil
}

// Revoke implements domain.SessionRepository. Already-revoked sessions are
// left untouched so the original revocation time survives.
func (r *SessionRepositoryImpl) Revoke(ctx context.Context, tokenHash string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&DBSession{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", &now).Error
}

// RevokeAllForPhone implements domain.SessionRepository; used for
// logout-everywhere when an identity is deactivated.
func (r *SessionRepositoryImpl) RevokeAllForPhone(ctx context.Context, phone string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&DBSession{}).
		Where("phone = ? AND revoked_at IS NULL", phone).
		Update("revoked_at", &now).Error
}

// DeleteExpired implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&DBSession{}).Error
}
