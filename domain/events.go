package domain

import "time"

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// OTP / login events
	OTPRequestedEvent   AuditEventType = "OTP_REQUESTED"
	OTPVerifiedEvent    AuditEventType = "OTP_VERIFIED"
	OTPVerifyFailEvent  AuditEventType = "OTP_VERIFY_FAILED"
	LinkedLoginEvent    AuditEventType = "LINKED_LOGIN"
	SessionRevokedEvent AuditEventType = "SESSION_REVOKED"

	// Identity linking events
	EmailLinkRequestedEvent AuditEventType = "EMAIL_LINK_REQUESTED"
	EmailLinkConfirmedEvent AuditEventType = "EMAIL_LINK_CONFIRMED"

	// Agreement lifecycle events
	AgreementCreatedEvent       AuditEventType = "AGREEMENT_CREATED"
	AgreementSignedEvent        AuditEventType = "AGREEMENT_SIGNED"
	AgreementCountersignedEvent AuditEventType = "AGREEMENT_COUNTERSIGNED"
	AgreementVoidedEvent        AuditEventType = "AGREEMENT_VOIDED"

	// Referral events
	InviteRedeemedEvent AuditEventType = "INVITE_REDEEMED"
	BadgeAwardedEvent   AuditEventType = "BADGE_AWARDED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	Phone     string                 `json:"phone,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, phone string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Phone:     phone,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithClient sets client request metadata
func (e *AuditEvent) WithClient(client ClientInfo) *AuditEvent {
	e.IPAddress = client.IP
	e.UserAgent = client.UserAgent
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
