package app

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/you/investorportal/domain"
	"github.com/you/investorportal/internal/config"
	"github.com/you/investorportal/internal/infrastructure/auth"
	"github.com/you/investorportal/internal/infrastructure/database"
	"github.com/you/investorportal/internal/infrastructure/notifications"
	"github.com/you/investorportal/internal/infrastructure/oauth"
	"github.com/you/investorportal/internal/infrastructure/render"
	"github.com/you/investorportal/internal/infrastructure/repositories"
	"github.com/you/investorportal/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	// Infrastructure
	DB     *gorm.DB
	Redis  *redis.Client
	Casbin *auth.CasbinService

	// Repositories
	InvestorRepo  domain.InvestorRepository
	ChallengeRepo domain.ChallengeRepository
	SessionRepo   domain.SessionRepository
	LinkedRepo    domain.LinkedAccountRepository
	AgreementRepo domain.AgreementRepository
	InviteRepo    domain.InviteRepository
	ShareRepo     domain.ShareRepository
	BadgeRepo     domain.BadgeRepository

	// Services
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	SessionSvc      domain.SessionService
	LinkSvc         domain.LinkService
	AgreementSvc    domain.AgreementService
	ReferralSvc     domain.ReferralService
	PolicySvc       domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Casbin = cas

	c.Redis = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	return nil
}

func (c *Container) initRepositories() {
	c.InvestorRepo = repositories.NewInvestorRepository(c.DB)
	c.ChallengeRepo = repositories.NewChallengeRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.DB)
	c.LinkedRepo = repositories.NewLinkedAccountRepository(c.DB)
	c.AgreementRepo = repositories.NewAgreementRepository(c.DB)
	c.InviteRepo = repositories.NewInviteRepository(c.DB)
	c.ShareRepo = repositories.NewShareRepository(c.DB)
	c.BadgeRepo = repositories.NewBadgeRepository(c.DB)
}

func (c *Container) initServices() {
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.SessionTTL)

	sms := notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
		c.Logger,
	)
	c.NotificationSvc = notifications.NewNotificationService(
		sms,
		c.Config.SendGridAPIKey,
		c.Config.SendGridFrom,
		c.Config.SendGridFromName,
		c.Logger,
	)

	c.ReferralSvc = services.NewReferralService(c.InviteRepo, c.ShareRepo, c.AgreementRepo, c.BadgeRepo, c.Logger)

	otpConfig := services.OTPConfig{
		Length:       c.Config.OTP_Length,
		TTL:          c.Config.OTP_TTL,
		MaxAttempts:  c.Config.OTP_MaxAttempts,
		ResendWindow: c.Config.OTP_ResendWindow,
	}
	c.OTPSvc = services.NewOTPService(
		c.InvestorRepo,
		c.ChallengeRepo,
		c.InviteRepo,
		c.ReferralSvc,
		c.NotificationSvc,
		c.Redis,
		otpConfig,
		c.Logger,
	)

	c.SessionSvc = services.NewSessionService(c.SessionRepo, c.TokenSvc, c.Config.SessionTTL, c.Logger)

	c.LinkSvc = services.NewLinkService(
		c.InvestorRepo,
		c.ChallengeRepo,
		c.LinkedRepo,
		c.NotificationSvc,
		oauth.NewGoogleIntrospector(c.Config.GoogleClientID),
		c.Config.BaseURL,
		c.Config.LinkTTL,
		c.Logger,
	)

	agreementConfig := services.AgreementConfig{
		MinAmountCents: c.Config.MinAmountCents,
		IssuerName:     c.Config.IssuerName,
		IssuerTitle:    c.Config.IssuerTitle,
	}
	c.AgreementSvc = services.NewAgreementService(
		c.AgreementRepo,
		c.InvestorRepo,
		c.ReferralSvc,
		render.NewSafeRenderer(c.Config.CompanyName),
		agreementConfig,
		c.Logger,
	)

	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
}
