package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/investorportal/domain"
)

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Name   string
	MaxAge int
	Secure bool
	Domain string
}

// AuthHandlers handles OTP and linked-account authentication requests
type AuthHandlers struct {
	otpSvc     domain.OTPService
	sessionSvc domain.SessionService
	linkSvc    domain.LinkService
	cookie     CookieConfig
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(otpSvc domain.OTPService, sessionSvc domain.SessionService, linkSvc domain.LinkService, cookie CookieConfig) *AuthHandlers {
	return &AuthHandlers{
		otpSvc:     otpSvc,
		sessionSvc: sessionSvc,
		linkSvc:    linkSvc,
		cookie:     cookie,
	}
}

// RequestOTPRequest represents an OTP request
type RequestOTPRequest struct {
	Phone      string `json:"phone" binding:"required"`
	InviteCode string `json:"invite_code,omitempty" binding:"omitempty,invitecode"`
}

// VerifyOTPRequest represents an OTP verification request
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// LinkedLoginRequest represents a linked-account login request
type LinkedLoginRequest struct {
	Provider string `json:"provider" binding:"required"`
	IDToken  string `json:"id_token,omitempty"`
	Email    string `json:"email,omitempty"`
}

// otpRequestedMessage is returned for every request-otp call, approved or
// not. Changing it per outcome would leak which phones are enrolled.
const otpRequestedMessage = "If this number is registered, a code has been sent."

// RequestOTP handles OTP challenge requests
func (h *AuthHandlers) RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.otpSvc.RequestChallenge(c.Request.Context(), req.Phone, req.InviteCode); err != nil {
		if errors.Is(err, domain.ErrInvalidPhone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
			return
		}
		if errors.Is(err, domain.ErrResendThrottled) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": otpRequestedMessage})
}

// VerifyOTP handles OTP verification and session issuance
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.otpSvc.VerifyChallenge(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChallengeNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Code expired or not found"})
		case errors.Is(err, domain.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, request a new code"})
		case errors.Is(err, domain.ErrCodeInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInvestorInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	h.issueSession(c, inv)
}

// LoginLinked handles login via a previously linked provider
func (h *AuthHandlers) LoginLinked(c *gin.Context) {
	var req LinkedLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	credential := req.IDToken
	if req.Provider == domain.ProviderEmail {
		credential = req.Email
	}

	inv, err := h.linkSvc.LoginViaLinkedAccount(c.Request.Context(), req.Provider, credential)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownProvider), errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login request"})
		case errors.Is(err, domain.ErrLinkNotFound), errors.Is(err, domain.ErrInvestorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No linked account found, authenticate by phone first"})
		case errors.Is(err, domain.ErrInvestorInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login failed"})
		}
		return
	}

	h.issueSession(c, inv)
}

// Me returns the authenticated investor's claims
func (h *AuthHandlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"phone":   c.GetString("phone"),
			"name":    c.GetString("name"),
			"company": c.GetString("company"),
			"role":    c.GetString("user_role"),
		},
	})
}

// Logout revokes the current session and clears the cookie
func (h *AuthHandlers) Logout(c *gin.Context) {
	token := c.GetString("session_token")
	if err := h.sessionSvc.Revoke(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandlers) issueSession(c *gin.Context, inv *domain.Investor) {
	client := domain.ClientInfo{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	token, err := h.sessionSvc.Create(c.Request.Context(), inv, client)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, h.cookie.MaxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"investor": gin.H{
				"phone":   inv.Phone,
				"name":    inv.Name,
				"company": strings.TrimSpace(inv.Company),
				"role":    inv.Role,
			},
		},
	})
}
