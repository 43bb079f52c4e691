package services

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/domain"
)

// BadgeThresholds are the award criteria evaluated against ReferralStats.
const (
	firstInviteMin    = 1
	networkBuilderMin = 3
	deckEvangelistMin = 5
	rainmakerMin      = 1
	referralEliteMin  = 50
)

// ReferralServiceImpl implements domain.ReferralService.
type ReferralServiceImpl struct {
	inviteRepo    domain.InviteRepository
	shareRepo     domain.ShareRepository
	agreementRepo domain.AgreementRepository
	badgeRepo     domain.BadgeRepository
	logger        *logrus.Logger
}

// NewReferralService creates a new referral scoring service
func NewReferralService(
	inviteRepo domain.InviteRepository,
	shareRepo domain.ShareRepository,
	agreementRepo domain.AgreementRepository,
	badgeRepo domain.BadgeRepository,
	logger *logrus.Logger,
) domain.ReferralService {
	return &ReferralServiceImpl{
		inviteRepo:    inviteRepo,
		shareRepo:     shareRepo,
		agreementRepo: agreementRepo,
		badgeRepo:     badgeRepo,
		logger:        logger,
	}
}

// Stats implements domain.ReferralService
func (s *ReferralServiceImpl) Stats(ctx context.Context, phone string) (*domain.ReferralStats, error) {
	invites, err := s.inviteRepo.CountByCreator(ctx, phone)
	if err != nil {
		return nil, err
	}
	redemptions, err := s.inviteRepo.SumRedemptionsByCreator(ctx, phone)
	if err != nil {
		return nil, err
	}
	viewedShares, err := s.shareRepo.CountViewedByCreator(ctx, phone)
	if err != nil {
		return nil, err
	}
	views, err := s.shareRepo.SumViewsByCreator(ctx, phone)
	if err != nil {
		return nil, err
	}
	referredSigned, err := s.agreementRepo.CountReferredSigned(ctx, phone)
	if err != nil {
		return nil, err
	}

	return &domain.ReferralStats{
		Phone:             phone,
		InvitesCreated:    invites,
		InviteRedemptions: redemptions,
		SharesWithViews:   viewedShares,
		ShareViews:        views,
		ReferredSigned:    referredSigned,
	}, nil
}

// inviteCodeAlphabet omits lookalike characters so codes survive being
// read aloud.
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateInviteCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = inviteCodeAlphabet[int(buf[i])%len(inviteCodeAlphabet)]
	}
	return string(buf), nil
}

// CreateInvite implements domain.ReferralService
func (s *ReferralServiceImpl) CreateInvite(ctx context.Context, phone, label string, maxUses int, ttl time.Duration) (*domain.InviteLink, error) {
	code, err := generateInviteCode(6)
	if err != nil {
		return nil, err
	}

	link := &domain.InviteLink{
		Code:         code,
		CreatorPhone: phone,
		Label:        label,
		MaxUses:      maxUses,
		ExpiresAt:    time.Now().Add(ttl),
	}
	if err := s.inviteRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	if err := s.EvaluateAndAwardBadges(ctx, phone); err != nil {
		s.logger.WithError(err).WithField("phone", phone).Warn("badge evaluation after invite creation failed")
	}
	return link, nil
}

// CreateShare implements domain.ReferralService
func (s *ReferralServiceImpl) CreateShare(ctx context.Context, phone, title string) (*domain.ShareLink, error) {
	link := &domain.ShareLink{
		Key:          uuid.NewString(),
		CreatorPhone: phone,
		Title:        title,
	}
	if err := s.shareRepo.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// RecordShareView implements domain.ReferralService
func (s *ReferralServiceImpl) RecordShareView(ctx context.Context, key string) (*domain.ShareLink, error) {
	link, err := s.shareRepo.RecordView(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.EvaluateAndAwardBadges(ctx, link.CreatorPhone); err != nil {
		s.logger.WithError(err).WithField("phone", link.CreatorPhone).Warn("badge evaluation after share view failed")
	}
	return link, nil
}

// EvaluateAndAwardBadges implements domain.ReferralService. Every eligible
// badge is granted in one pass; duplicate grants are no-ops at the store.
func (s *ReferralServiceImpl) EvaluateAndAwardBadges(ctx context.Context, phone string) error {
	stats, err := s.Stats(ctx, phone)
	if err != nil {
		return err
	}

	var earned []string
	if stats.InvitesCreated >= firstInviteMin {
		earned = append(earned, domain.BadgeFirstInvite)
	}
	if stats.InviteRedemptions >= networkBuilderMin {
		earned = append(earned, domain.BadgeNetworkBuilder)
	}
	if stats.SharesWithViews >= deckEvangelistMin {
		earned = append(earned, domain.BadgeDeckEvangelist)
	}
	if stats.ReferredSigned >= rainmakerMin {
		earned = append(earned, domain.BadgeRainmaker)
	}
	if stats.Score() >= referralEliteMin {
		earned = append(earned, domain.BadgeReferralElite)
	}
	if len(earned) == 0 {
		return nil
	}

	if err := s.badgeRepo.GrantAll(ctx, phone, earned); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"event":  domain.BadgeAwardedEvent,
		"phone":  phone,
		"badges": earned,
		"score":  stats.Score(),
	}).Info("badge evaluation complete")
	return nil
}

// Badges implements domain.ReferralService
func (s *ReferralServiceImpl) Badges(ctx context.Context, phone string) ([]domain.Badge, error) {
	return s.badgeRepo.ListByPhone(ctx, phone)
}
