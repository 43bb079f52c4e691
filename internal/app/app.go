package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/internal/config"
	httpx "github.com/you/investorportal/internal/http"
	"github.com/you/investorportal/internal/http/handlers"
	"github.com/you/investorportal/internal/http/middleware"
)

// Run builds the container, seeds default policies and serves HTTP.
func Run(cfg *config.Config) error {
	logger := NewLogger(cfg)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}

	if err := c.Redis.Ping(context.Background()).Err(); err != nil {
		return err
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	authH := handlers.NewAuthHandlers(c.OTPSvc, c.SessionSvc, c.LinkSvc, handlers.CookieConfig{
		Name:   middleware.SessionCookieName,
		MaxAge: int(cfg.SessionTTL.Seconds()),
		Secure: cfg.IsProduction(),
	})
	linkH := handlers.NewLinkHandlers(c.LinkSvc, cfg.BaseURL+"/account")
	agreementH := handlers.NewAgreementHandlers(c.AgreementSvc)
	referralH := handlers.NewReferralHandlers(c.ReferralSvc, cfg.InviteTTL)
	adminH := handlers.NewAdminHandlers(c.InvestorRepo, c.SessionSvc, logger)
	policyH := handlers.NewPolicyHandlers(c.PolicySvc)

	sessionMW := middleware.SessionAuth(c.SessionSvc)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(authH, linkH, agreementH, referralH, adminH, policyH, sessionMW, casbinMW)

	seedPolicies(c, logger)

	addr := ":" + cfg.Port
	logger.WithField("addr", addr).Info("listening")
	return http.ListenAndServe(addr, r)
}

// NewLogger builds the process-wide structured logger.
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func seedPolicies(c *Container, logger *logrus.Logger) {
	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) > 0 {
		return
	}
	c.Casbin.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	c.Casbin.E.AddPolicy("role_investor", "/auth/me", "GET")
	c.Casbin.E.AddPolicy("role_investor", "/auth/logout", "POST")
	_ = c.Casbin.E.SavePolicy()
	logger.Info("casbin: seeded default policies")
}
