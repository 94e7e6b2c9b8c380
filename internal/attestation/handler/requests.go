package handler

import (
	"strings"

	"teranga/internal/attestation"
	"teranga/pkg/domain"
	dErrors "teranga/pkg/domain-errors"
)

// IssueRequest is the POST /attestations body.
type IssueRequest struct {
	TypeID          string            `json:"type_id"`
	PartnerID       string            `json:"partner_id"`
	PartnerName     string            `json:"partner_name"`
	PartnerType     string            `json:"partner_type"`
	BeneficiaryID   string            `json:"beneficiary_id"`
	BeneficiaryName string            `json:"beneficiary_name"`
	AttestedData    map[string]string `json:"attested_data"`

	parsed attestation.IssueRequest
}

// Validate parses the raw payload into domain types. Type and field
// validation against the reference catalogue stays with the service.
func (r *IssueRequest) Validate() error {
	if strings.TrimSpace(r.TypeID) == "" {
		return dErrors.New(dErrors.CodeValidation, "type_id is required")
	}
	partnerID, err := domain.ParsePartnerID(r.PartnerID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	beneficiaryID, err := domain.ParseSubjectID(r.BeneficiaryID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if len(r.AttestedData) == 0 {
		return dErrors.New(dErrors.CodeValidation, "attested_data is required")
	}

	r.parsed = attestation.IssueRequest{
		TypeID:          r.TypeID,
		PartnerID:       partnerID,
		PartnerName:     r.PartnerName,
		PartnerType:     attestation.PartnerType(r.PartnerType),
		BeneficiaryID:   beneficiaryID,
		BeneficiaryName: r.BeneficiaryName,
		AttestedData:    r.AttestedData,
	}
	return nil
}

// Parsed returns the domain request. Valid only after Validate succeeded.
func (r *IssueRequest) Parsed() attestation.IssueRequest { return r.parsed }

// RevokeRequest is the POST /attestations/{id}/revoke body.
type RevokeRequest struct {
	Reason string `json:"reason"`
}

// Validate requires a revocation reason for the audit record.
func (r *RevokeRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return nil
}
