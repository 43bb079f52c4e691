package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/domain"
)

// SessionServiceImpl implements domain.SessionService. The JWT proves
// integrity; the session row proves the token has not been revoked.
type SessionServiceImpl struct {
	sessionRepo domain.SessionRepository
	tokenSvc    domain.TokenService
	sessionTTL  time.Duration
	logger      *logrus.Logger
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo domain.SessionRepository, tokenSvc domain.TokenService, sessionTTL time.Duration, logger *logrus.Logger) domain.SessionService {
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		tokenSvc:    tokenSvc,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

// Create implements domain.SessionService. The registry stores a one-way
// hash of the jti; the raw token exists only in the cookie.
func (s *SessionServiceImpl) Create(ctx context.Context, inv *domain.Investor, client domain.ClientInfo) (string, error) {
	jti := uuid.NewString()

	token, err := s.tokenSvc.Generate(inv, jti)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &domain.Session{
		Phone:     inv.Phone,
		TokenHash: domain.HashStringSHA256Hex(jti),
		ExpiresAt: time.Now().Add(s.sessionTTL),
		UserAgent: client.UserAgent,
		IP:        client.IP,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	return token, nil
}

// Validate implements domain.SessionService. Token validity alone is
// insufficient: the matching registry row must exist, be unexpired, and
// be unrevoked.
func (s *SessionServiceImpl) Validate(ctx context.Context, token string) (*domain.SessionClaims, error) {
	claims, err := s.tokenSvc.Validate(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindByTokenHash(ctx, domain.HashStringSHA256Hex(claims.JTI))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if !session.ExpiresAt.After(now) {
		return nil, domain.ErrSessionExpired
	}

	return claims, nil
}

// Revoke implements domain.SessionService for single-session logout.
func (s *SessionServiceImpl) Revoke(ctx context.Context, token string) error {
	claims, err := s.tokenSvc.Validate(token)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.Revoke(ctx, domain.HashStringSHA256Hex(claims.JTI)); err != nil {
		return err
	}

	evt := domain.NewAuditEvent(domain.SessionRevokedEvent, claims.Phone)
	s.logger.WithFields(auditFields(evt)).Info("session revoked")
	return nil
}

// RevokeAllForPhone implements domain.SessionService; the
// logout-everywhere path used when an identity is deactivated.
func (s *SessionServiceImpl) RevokeAllForPhone(ctx context.Context, phone string) error {
	if err := s.sessionRepo.RevokeAllForPhone(ctx, phone); err != nil {
		return err
	}
	evt := domain.NewAuditEvent(domain.SessionRevokedEvent, phone).WithMetadata("scope", "all")
	s.logger.WithFields(auditFields(evt)).Info("all sessions revoked")
	return nil
}
