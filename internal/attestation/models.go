// Package attestation manages partner-issued attestations: signed claims by
// trusted institutions (microfinance institutions, cooperatives, tontine
// leaders, employers, banks) vouching for a beneficiary's declared data.
package attestation

import (
	"time"

	"teranga/pkg/domain"
)

// PartnerType classifies the issuing institution. The type bounds which
// attestation types a partner may issue and how much weight they carry.
type PartnerType string

const (
	PartnerMFI           PartnerType = "mfi"
	PartnerCooperative   PartnerType = "cooperative"
	PartnerTontineLeader PartnerType = "tontine_leader"
	PartnerEmployer      PartnerType = "employer"
	PartnerBank          PartnerType = "bank"
)

// IsValid reports whether t is a known partner type.
func (t PartnerType) IsValid() bool {
	switch t {
	case PartnerMFI, PartnerCooperative, PartnerTontineLeader, PartnerEmployer, PartnerBank:
		return true
	}
	return false
}

// Type is static reference data describing an attestation class: which
// fields it covers, the boost a valid instance earns, and its validity
// window.
type Type struct {
	ID              string
	Name            string
	Description     string
	RequiredFields  []domain.FieldName
	ConfidenceBoost float64
	ValidityDays    int
}

// builtinTypes is the reference catalogue. Partners select a type at
// issuance; the catalogue is versioned with the codebase, not per tenant.
var builtinTypes = map[string]Type{
	"mfi_income": {
		ID:              "mfi_income",
		Name:            "MFI income attestation",
		Description:     "Microfinance institution vouches for a member's declared income",
		RequiredFields:  []domain.FieldName{domain.MustFieldName("monthly_income")},
		ConfidenceBoost: 15,
		ValidityDays:    90,
	},
	"employer_income": {
		ID:              "employer_income",
		Name:            "Employer income attestation",
		Description:     "Employer confirms salary and tenure",
		RequiredFields:  []domain.FieldName{domain.MustFieldName("monthly_income"), domain.MustFieldName("employer_name")},
		ConfidenceBoost: 20,
		ValidityDays:    180,
	},
	"cooperative_membership": {
		ID:              "cooperative_membership",
		Name:            "Cooperative membership attestation",
		Description:     "Cooperative confirms active membership and standing",
		RequiredFields:  []domain.FieldName{domain.MustFieldName("membership_since")},
		ConfidenceBoost: 10,
		ValidityDays:    365,
	},
	"tontine_standing": {
		ID:              "tontine_standing",
		Name:            "Tontine standing attestation",
		Description:     "Tontine leader vouches for contribution regularity",
		RequiredFields:  []domain.FieldName{domain.MustFieldName("monthly_income")},
		ConfidenceBoost: 8,
		ValidityDays:    90,
	},
	"bank_account": {
		ID:              "bank_account",
		Name:            "Bank account attestation",
		Description:     "Bank confirms account ownership and balance",
		RequiredFields:  []domain.FieldName{domain.MustFieldName("account_number"), domain.MustFieldName("account_balance")},
		ConfidenceBoost: 25,
		ValidityDays:    90,
	},
}

// TypeByID looks up a reference attestation type.
func TypeByID(id string) (Type, bool) {
	t, ok := builtinTypes[id]
	return t, ok
}

// Attestation is a signed partner claim. Created once; the only mutation
// permitted afterwards is one-way revocation. Validity is evaluated against
// an explicit as-of time, never the wall clock.
type Attestation struct {
	ID               string
	TypeID           string
	PartnerID        domain.PartnerID
	PartnerName      string
	PartnerType      PartnerType
	BeneficiaryID    domain.SubjectID
	BeneficiaryName  string
	AttestedData     map[string]string // field name -> attested raw value
	SignatureHash    string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	RevocationReason string
}

// IsRevoked reports whether the attestation has been revoked.
func (a Attestation) IsRevoked() bool { return a.RevokedAt != nil }

// IsExpired reports whether the attestation has passed its validity window
// at the given time.
func (a Attestation) IsExpired(asOf time.Time) bool { return asOf.After(a.ExpiresAt) }
