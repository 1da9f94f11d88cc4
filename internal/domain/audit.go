package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is one record in the compliance trail. Every GSTIN lookup attempt
// is logged with its outcome, ordered by CreatedAt.
type AuditLog struct {
	CreatedAt    time.Time
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	Outcome      AuditOutcome
	Detail       JSON
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction names an auditable operation.
type AuditAction string

const (
	AuditActionGSTINVerify     AuditAction = "gstin.verify"
	AuditActionInvoiceCreate   AuditAction = "invoice.create"
	AuditActionPaymentRecord   AuditAction = "payment.record"
	AuditActionUserCreate      AuditAction = "user.create"
	AuditActionUserUpdateRoles AuditAction = "user.update_roles"
	AuditActionLocationCleanup AuditAction = "location.cleanup"
)

// AuditOutcome classifies how an audited operation ended.
type AuditOutcome string

const (
	AuditOutcomeSuccess             AuditOutcome = "success"
	AuditOutcomeForbidden           AuditOutcome = "forbidden"
	AuditOutcomeRateLimited         AuditOutcome = "rate_limited"
	AuditOutcomeNotConfigured       AuditOutcome = "not_configured"
	AuditOutcomeProviderUnreachable AuditOutcome = "provider_unreachable"
	AuditOutcomeProviderRejected    AuditOutcome = "provider_rejected"
	AuditOutcomeError               AuditOutcome = "error"
)

// AuditFilter defines filters for querying audit logs.
type AuditFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	UserID     string
	Action     string
	ResourceID string
	Limit      int
	Offset     int
}

// MarshalState converts a domain object to JSON for audit logging.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
