package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/domain"
)

// AgreementConfig holds issuer identity and validation limits.
type AgreementConfig struct {
	MinAmountCents int64
	IssuerName     string
	IssuerTitle    string
}

// AgreementServiceImpl implements domain.AgreementService. All status
// transitions go through conditional repository updates so two concurrent
// callers cannot both win the same transition.
type AgreementServiceImpl struct {
	agreementRepo domain.AgreementRepository
	investorRepo  domain.InvestorRepository
	referralSvc   domain.ReferralService
	renderer      domain.DocumentRenderer
	config        AgreementConfig
	logger        *logrus.Logger
}

// NewAgreementService creates a new SAFE agreement service
func NewAgreementService(
	agreementRepo domain.AgreementRepository,
	investorRepo domain.InvestorRepository,
	referralSvc domain.ReferralService,
	renderer domain.DocumentRenderer,
	config AgreementConfig,
	logger *logrus.Logger,
) domain.AgreementService {
	return &AgreementServiceImpl{
		agreementRepo: agreementRepo,
		investorRepo:  investorRepo,
		referralSvc:   referralSvc,
		renderer:      renderer,
		config:        config,
		logger:        logger,
	}
}

// Create implements domain.AgreementService
func (s *AgreementServiceImpl) Create(ctx context.Context, phone string, draft domain.AgreementDraft) (*domain.Agreement, error) {
	if draft.AmountCents < s.config.MinAmountCents {
		return nil, domain.ErrAmountTooLow
	}
	email, err := NormalizeEmail(draft.Email)
	if err != nil {
		return nil, err
	}

	if _, err := s.agreementRepo.FindLiveByPhone(ctx, phone); err == nil {
		return nil, domain.ErrAgreementExists
	} else if !errors.Is(err, domain.ErrAgreementNotFound) {
		return nil, err
	}

	a := &domain.Agreement{
		Phone:             phone,
		InvestorName:      strings.TrimSpace(draft.LegalName),
		InvestorEmail:     email,
		Company:           strings.TrimSpace(draft.Company),
		AmountCents:       draft.AmountCents,
		ValuationCapCents: draft.ValuationCapCents,
		Status:            domain.AgreementPendingInvestor,
	}
	if err := s.agreementRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"event":        domain.AgreementCreatedEvent,
		"phone":        phone,
		"agreement_id": a.ID,
		"amount_cents": a.AmountCents,
	}).Info("agreement created")
	return a, nil
}

// Get implements domain.AgreementService
func (s *AgreementServiceImpl) Get(ctx context.Context, phone string) (*domain.Agreement, error) {
	return s.agreementRepo.FindLiveByPhone(ctx, phone)
}

// Sign implements domain.AgreementService
func (s *AgreementServiceImpl) Sign(ctx context.Context, phone string, req domain.SignRequest, client domain.ClientInfo) (*domain.Agreement, error) {
	if !req.AgreedToTerms || !req.AuthorizedSignatory || !req.ConsentToESignature {
		return nil, domain.ErrConsentRequired
	}

	a, err := s.agreementRepo.FindByID(ctx, req.AgreementID)
	if err != nil {
		return nil, err
	}
	if a.Phone != phone {
		return nil, domain.ErrNotOwner
	}

	typed := strings.TrimSpace(req.LegalName)
	if !strings.EqualFold(typed, a.InvestorName) {
		return nil, domain.ErrNameMismatch
	}

	signedAt := time.Now().UTC()
	sig := domain.AgreementSignature{
		Name:      typed,
		SignedAt:  signedAt,
		IP:        client.IP,
		UserAgent: client.UserAgent,
		DocumentHash: domain.AgreementDigest(
			a.AmountCents, a.ValuationCapCents, a.InvestorName, s.config.IssuerName, signedAt),
	}

	ok, err := s.agreementRepo.MarkInvestorSigned(ctx, a.ID, sig)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidTransition
	}

	s.logger.WithFields(logrus.Fields{
		"event":         domain.AgreementSignedEvent,
		"phone":         phone,
		"agreement_id":  a.ID,
		"document_hash": sig.DocumentHash,
	}).Info("agreement signed by investor")

	// A signed agreement may push the referrer over a badge threshold.
	inv, err := s.investorRepo.FindByPhone(ctx, phone)
	if err == nil && inv.ReferredBy != "" {
		if err := s.referralSvc.EvaluateAndAwardBadges(ctx, inv.ReferredBy); err != nil {
			s.logger.WithError(err).WithField("phone", inv.ReferredBy).Warn("referrer badge evaluation failed")
		}
	}

	return s.agreementRepo.FindByID(ctx, a.ID)
}

// Countersign implements domain.AgreementService
func (s *AgreementServiceImpl) Countersign(ctx context.Context, id uint, issuerIP string) (*domain.Agreement, error) {
	if _, err := s.agreementRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	cs := domain.CounterSignature{
		Name:     s.config.IssuerName,
		SignedAt: time.Now().UTC(),
		IP:       issuerIP,
	}
	ok, err := s.agreementRepo.MarkCountersigned(ctx, id, cs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidTransition
	}

	s.logger.WithFields(logrus.Fields{
		"event":        domain.AgreementCountersignedEvent,
		"agreement_id": id,
	}).Info("agreement countersigned")
	return s.agreementRepo.FindByID(ctx, id)
}

// Void implements domain.AgreementService
func (s *AgreementServiceImpl) Void(ctx context.Context, id uint) (*domain.Agreement, error) {
	if _, err := s.agreementRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	ok, err := s.agreementRepo.MarkVoided(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidTransition
	}

	s.logger.WithFields(logrus.Fields{
		"event":        domain.AgreementVoidedEvent,
		"agreement_id": id,
	}).Info("agreement voided")
	return s.agreementRepo.FindByID(ctx, id)
}

// Render implements domain.AgreementService. Only the owning investor can
// render their document.
func (s *AgreementServiceImpl) Render(ctx context.Context, phone string, id uint) ([]byte, error) {
	a, err := s.agreementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Phone != phone {
		return nil, domain.ErrNotOwner
	}
	return s.renderer.Render(a, s.config.IssuerName, s.config.IssuerTitle)
}
