package services

import (
	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/domain"
)

// auditFields flattens an audit event into structured log fields so the
// domain event shape and the log output cannot drift apart.
func auditFields(evt *domain.AuditEvent) logrus.Fields {
	fields := logrus.Fields{
		"event":   evt.EventType,
		"success": evt.Success,
	}
	if evt.Phone != "" {
		fields["phone"] = evt.Phone
	}
	if evt.Email != "" {
		fields["email"] = evt.Email
	}
	if evt.IPAddress != "" {
		fields["ip"] = evt.IPAddress
	}
	if evt.ErrorMsg != "" {
		fields["error"] = evt.ErrorMsg
	}
	for k, v := range evt.Metadata {
		fields[k] = v
	}
	return fields
}
