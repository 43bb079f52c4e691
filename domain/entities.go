package domain

import "time"

// Investor roles
const (
	RoleInvestor = "investor"
	RoleAdmin    = "admin"
)

// Agreement lifecycle states. Transitions are one-directional:
// pending_investor -> investor_signed -> countersigned, with voided
// reachable from the first two states only.
const (
	AgreementPendingInvestor = "pending_investor"
	AgreementInvestorSigned  = "investor_signed"
	AgreementCountersigned   = "countersigned"
	AgreementVoided          = "voided"
)

// Linked-account providers
const (
	ProviderGoogle = "google"
	ProviderEmail  = "email"
)

// Badge keys. Append-only; a (phone, key) pair is granted at most once.
const (
	BadgeFirstInvite    = "first_invite"
	BadgeNetworkBuilder = "network_builder"
	BadgeDeckEvangelist = "deck_evangelist"
	BadgeRainmaker      = "rainmaker"
	BadgeReferralElite  = "referral_elite"
)

// Investor is an approved identity keyed by E.164 phone number.
// Deactivation is a soft flag, never a delete.
type Investor struct {
	ID         uint
	Phone      string
	Name       string
	Company    string
	Role       string
	IsActive   bool
	ReferredBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OtpChallenge is a short-lived hashed credential bound to a challenge key.
// The key is the owning phone for SMS codes, or a composite
// "link:email:<email>:<phone>" for email magic links.
type OtpChallenge struct {
	ID        uint
	Key       string
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
	Used      bool
	CreatedAt time.Time
}

// Expired reports whether the challenge is past its expiry.
func (c *OtpChallenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// Session is a server-side session row keyed by a one-way hash of the
// token's jti. A session is valid iff RevokedAt is nil and ExpiresAt is
// in the future; the database is the revocation authority.
type Session struct {
	ID        uint
	Phone     string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	UserAgent string
	IP        string
	CreatedAt time.Time
}

// Valid reports whether the session is non-revoked and unexpired.
func (s *Session) Valid(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}

// LinkedAccount maps an external identity to exactly one phone.
type LinkedAccount struct {
	ID         uint
	Phone      string
	Provider   string
	ProviderID string
	CreatedAt  time.Time
}

// AgreementSignature carries the investor signature block captured at
// signing time. DocumentHash is computed once and never mutated.
type AgreementSignature struct {
	Name         string
	SignedAt     time.Time
	IP           string
	UserAgent    string
	DocumentHash string
}

// CounterSignature carries the issuer counter-signature block.
type CounterSignature struct {
	Name     string
	SignedAt time.Time
	IP       string
}

// Agreement is a SAFE (Simple Agreement for Future Equity) moving through
// the signing state machine. Never hard-deleted.
type Agreement struct {
	ID                uint
	Phone             string
	InvestorName      string
	InvestorEmail     string
	Company           string
	AmountCents       int64
	ValuationCapCents int64
	Status            string
	Signature         *AgreementSignature
	CounterSig        *CounterSignature
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Live reports whether the agreement counts against the one-live-agreement
// invariant.
func (a *Agreement) Live() bool {
	return a.Status != AgreementVoided
}

// InviteLink is a redeemable invite code. Redemption increments Uses and
// auto-approves the redeeming phone with ReferredBy set to CreatorPhone.
type InviteLink struct {
	ID           uint
	Code         string
	CreatorPhone string
	Label        string
	Uses         int
	MaxUses      int
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Redeemable reports whether the invite still has capacity and time left.
func (l *InviteLink) Redeemable(now time.Time) bool {
	return l.Uses < l.MaxUses && l.ExpiresAt.After(now)
}

// ShareLink is a shared deck/material link with a view counter.
type ShareLink struct {
	ID           uint
	Key          string
	CreatorPhone string
	Title        string
	Views        int
	CreatedAt    time.Time
}

// Badge is an achievement grant. Append-only.
type Badge struct {
	ID        uint
	Phone     string
	Key       string
	CreatedAt time.Time
}

// ReferralStats are the aggregates behind the referral score and badge
// eligibility.
type ReferralStats struct {
	Phone             string
	InvitesCreated    int64
	InviteRedemptions int64
	SharesWithViews   int64
	ShareViews        int64
	ReferredSigned    int64
}

// Score is the weighted referral score: invites x1, redemptions x5,
// share views x2, referred signed agreements x20.
func (s ReferralStats) Score() int64 {
	return s.InvitesCreated + s.InviteRedemptions*5 + s.ShareViews*2 + s.ReferredSigned*20
}

// SessionClaims are the token claims carried by a session JWT.
type SessionClaims struct {
	JTI       string `json:"jti"`
	Phone     string `json:"phone"`
	Name      string `json:"name"`
	Company   string `json:"company,omitempty"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// ClientInfo is the request metadata recorded alongside sessions and
// signatures.
type ClientInfo struct {
	IP        string
	UserAgent string
}
