package domain

import "errors"

// Validation errors (400, safe to reveal details)
var (
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrAmountTooLow    = errors.New("investment amount below minimum")
	ErrConsentRequired = errors.New("all consent acknowledgements are required")
	ErrNameMismatch    = errors.New("legal name does not match the agreement")
	ErrUnknownProvider = errors.New("unknown login provider")
)

// Authentication errors (401; messages must not aid enumeration)
var (
	ErrChallengeNotFound = errors.New("code expired or not found")
	ErrCodeInvalid       = errors.New("invalid code")
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenMalformed    = errors.New("malformed token")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session has expired")
	ErrSessionRevoked    = errors.New("session has been revoked")
)

// Authorization errors (403)
var (
	ErrInvestorInactive = errors.New("investor account is inactive")
	ErrNotOwner         = errors.New("resource belongs to another investor")
	ErrForbidden        = errors.New("insufficient privileges")
)

// Conflict errors (409)
var (
	ErrAgreementExists   = errors.New("an active agreement already exists")
	ErrAccountLinked     = errors.New("account is already linked")
	ErrInvestorExists    = errors.New("investor already exists")
	ErrInvalidTransition = errors.New("invalid agreement status transition")
)

// Not found (404)
var (
	ErrInvestorNotFound  = errors.New("investor not found")
	ErrAgreementNotFound = errors.New("agreement not found")
	ErrLinkNotFound      = errors.New("no linked account for this identity")
	ErrInviteNotFound    = errors.New("invite code not found")
	ErrShareNotFound     = errors.New("share link not found")
)

// Rate limiting (429)
var (
	ErrTooManyAttempts = errors.New("too many attempts, request a new code")
	ErrResendThrottled = errors.New("please wait before requesting a new code")
)
