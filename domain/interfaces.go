package domain

import (
	"context"
	"time"
)

// InvestorRepository defines approved-identity data access operations.
type InvestorRepository interface {
	Create(ctx context.Context, inv *Investor) error
	FindByPhone(ctx context.Context, phone string) (*Investor, error)
	Update(ctx context.Context, inv *Investor) error
	// Approve creates the identity if absent, or reactivates it, setting
	// referred_by on first approval only.
	Approve(ctx context.Context, phone, referredBy string) (*Investor, error)
	Deactivate(ctx context.Context, phone string) error
}

// ChallengeRepository defines OTP/magic-link challenge data access.
type ChallengeRepository interface {
	Create(ctx context.Context, ch *OtpChallenge) error
	// FindLatestActive returns the most recent unused, unexpired challenge
	// for the key, ordered by creation descending.
	FindLatestActive(ctx context.Context, key string) (*OtpChallenge, error)
	// IncrementAttempts atomically bumps the attempt counter of an unused
	// challenge and returns the post-increment value. A single conditional
	// round trip, so concurrent verifications see distinct counts.
	IncrementAttempts(ctx context.Context, id uint) (int, error)
	// MarkUsed flips the used flag; reports false if it was already set.
	MarkUsed(ctx context.Context, id uint) (bool, error)
}

// SessionRepository defines session registry operations.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForPhone(ctx context.Context, phone string) error
	DeleteExpired(ctx context.Context) error
}

// LinkedAccountRepository defines cross-provider identity link storage.
type LinkedAccountRepository interface {
	// Insert is idempotent: a duplicate (provider, provider_id) is ignored.
	Insert(ctx context.Context, la *LinkedAccount) error
	FindByProviderID(ctx context.Context, provider, providerID string) (*LinkedAccount, error)
	Exists(ctx context.Context, phone, provider, providerID string) (bool, error)
}

// AgreementRepository defines SAFE agreement storage. Status transitions
// are conditional updates keyed on the current status.
type AgreementRepository interface {
	Create(ctx context.Context, a *Agreement) error
	FindByID(ctx context.Context, id uint) (*Agreement, error)
	FindLiveByPhone(ctx context.Context, phone string) (*Agreement, error)
	// MarkInvestorSigned transitions pending_investor -> investor_signed,
	// recording the signature block. Reports false if the agreement was not
	// in pending_investor.
	MarkInvestorSigned(ctx context.Context, id uint, sig AgreementSignature) (bool, error)
	// MarkCountersigned transitions investor_signed -> countersigned.
	MarkCountersigned(ctx context.Context, id uint, cs CounterSignature) (bool, error)
	// MarkVoided transitions from pending_investor or investor_signed to
	// voided. Reports false otherwise.
	MarkVoided(ctx context.Context, id uint) (bool, error)
	CountReferredSigned(ctx context.Context, referrerPhone string) (int64, error)
}

// InviteRepository defines invite-link storage.
type InviteRepository interface {
	Create(ctx context.Context, l *InviteLink) error
	FindByCode(ctx context.Context, code string) (*InviteLink, error)
	// Redeem atomically consumes one use if the invite is unexpired and has
	// capacity, returning the link; reports false when not redeemable.
	Redeem(ctx context.Context, code string, now time.Time) (*InviteLink, bool, error)
	CountByCreator(ctx context.Context, phone string) (int64, error)
	SumRedemptionsByCreator(ctx context.Context, phone string) (int64, error)
}

// ShareRepository defines share-link storage and view recording.
type ShareRepository interface {
	Create(ctx context.Context, s *ShareLink) error
	FindByKey(ctx context.Context, key string) (*ShareLink, error)
	RecordView(ctx context.Context, key string) (*ShareLink, error)
	CountViewedByCreator(ctx context.Context, phone string) (int64, error)
	SumViewsByCreator(ctx context.Context, phone string) (int64, error)
}

// BadgeRepository defines badge grants. Grants are append-only and
// conflict-ignoring.
type BadgeRepository interface {
	GrantAll(ctx context.Context, phone string, keys []string) error
	ListByPhone(ctx context.Context, phone string) ([]Badge, error)
}

// OTPService drives the request/verify challenge flow.
type OTPService interface {
	// RequestChallenge always returns nil for unapproved phones too; the
	// anti-enumeration contract forbids distinguishing the two outcomes.
	RequestChallenge(ctx context.Context, phone, inviteCode string) error
	VerifyChallenge(ctx context.Context, phone, code string) (*Investor, error)
}

// TokenService mints and validates session JWTs.
type TokenService interface {
	Generate(inv *Investor, jti string) (string, error)
	Validate(token string) (*SessionClaims, error)
}

// SessionService issues and validates revocable sessions.
type SessionService interface {
	Create(ctx context.Context, inv *Investor, client ClientInfo) (string, error)
	Validate(ctx context.Context, token string) (*SessionClaims, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForPhone(ctx context.Context, phone string) error
}

// LinkService associates secondary login methods with a phone identity.
type LinkService interface {
	RequestEmailLink(ctx context.Context, phone, email string) error
	ConfirmEmailLink(ctx context.Context, token, email, phone string) error
	LoginViaLinkedAccount(ctx context.Context, provider, credential string) (*Investor, error)
}

// AgreementService drives the SAFE signing state machine.
type AgreementService interface {
	Create(ctx context.Context, phone string, draft AgreementDraft) (*Agreement, error)
	Get(ctx context.Context, phone string) (*Agreement, error)
	Sign(ctx context.Context, phone string, req SignRequest, client ClientInfo) (*Agreement, error)
	Countersign(ctx context.Context, id uint, issuerIP string) (*Agreement, error)
	Void(ctx context.Context, id uint) (*Agreement, error)
	Render(ctx context.Context, phone string, id uint) ([]byte, error)
}

// AgreementDraft is the validated payload for Create.
type AgreementDraft struct {
	LegalName         string
	Email             string
	Company           string
	AmountCents       int64
	ValuationCapCents int64
}

// SignRequest is the validated payload for Sign. All consent flags must
// be true.
type SignRequest struct {
	AgreementID         uint
	LegalName           string
	AgreedToTerms       bool
	AuthorizedSignatory bool
	ConsentToESignature bool
}

// ReferralService aggregates referral activity, manages invite and share
// links, and awards badges.
type ReferralService interface {
	Stats(ctx context.Context, phone string) (*ReferralStats, error)
	CreateInvite(ctx context.Context, phone, label string, maxUses int, ttl time.Duration) (*InviteLink, error)
	CreateShare(ctx context.Context, phone, title string) (*ShareLink, error)
	// RecordShareView bumps the view counter and re-evaluates the creator's
	// badges.
	RecordShareView(ctx context.Context, key string) (*ShareLink, error)
	// EvaluateAndAwardBadges is idempotent and safe to call on every
	// relevant write.
	EvaluateAndAwardBadges(ctx context.Context, phone string) error
	Badges(ctx context.Context, phone string) ([]Badge, error)
}

// NotificationService sends through external SMS/email providers.
type NotificationService interface {
	SendSMS(ctx context.Context, to, message string) error
	SendEmail(ctx context.Context, to, subject, html string) error
}

// TokenIntrospector verifies an OAuth credential against the provider and
// extracts the stable subject.
type TokenIntrospector interface {
	Introspect(ctx context.Context, idToken string) (*IntrospectionResult, error)
}

// IntrospectionResult is the provider's view of a verified credential.
type IntrospectionResult struct {
	Subject string
	Email   string
}

// DocumentRenderer produces the display document for an agreement. It is a
// read-only projection and cannot mutate signature state.
type DocumentRenderer interface {
	Render(a *Agreement, issuerName, issuerTitle string) ([]byte, error)
}

// PolicyService defines authorization policy operations.
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the casbin enforcer the service needs.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
