// Package audit defines the audit event model shared by the scoring and
// screening modules, and the store contract for appending events.
package audit

import "time"

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and storage backends.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// These require tamper-proof storage and long retention (e.g., 7 years).
	// Examples: score issuance, AML screening decisions, revocations.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. It carries no
// identifiable plaintext: subjects and screened names appear only as
// one-way hashes.
type Event struct {
	Category    EventCategory
	Timestamp   time.Time
	AuditRef    string // groups all events of one scoring request
	Action      string
	SubjectHash string // SHA-256 of the subject ID
	NameHash    string // SHA-256 of the screening-normalized name, AML events only
	Decision    string
	Reason      string
	ListVersion string // sanctions list snapshot version, AML events only
	RequestID   string // correlation ID from HTTP request context
	Detail      string // free-form supporting detail (e.g. score explanation JSON)
}

type AuditEvent string

const (
	EventScoreIssued        AuditEvent = "score_issued"
	EventScoreBlocked       AuditEvent = "score_blocked"
	EventScoreReview        AuditEvent = "score_review"
	EventAMLScreened        AuditEvent = "aml_screened"
	EventAttestationIssued  AuditEvent = "attestation_issued"
	EventAttestationRevoked AuditEvent = "attestation_revoked"
	EventRegionalStale      AuditEvent = "regional_context_stale"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventScoreIssued:        CategoryCompliance,
	EventScoreBlocked:       CategoryCompliance,
	EventScoreReview:        CategoryCompliance,
	EventAMLScreened:        CategoryCompliance,
	EventAttestationIssued:  CategoryCompliance,
	EventAttestationRevoked: CategoryCompliance,
	EventRegionalStale:      CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
