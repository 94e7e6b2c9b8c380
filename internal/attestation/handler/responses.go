package handler

import (
	"time"

	"teranga/internal/attestation"
)

// AttestationResponse is the wire shape of an attestation. The signature
// hash is included so partners can archive proof of issuance.
type AttestationResponse struct {
	ID               string            `json:"id"`
	TypeID           string            `json:"type_id"`
	PartnerID        string            `json:"partner_id"`
	PartnerName      string            `json:"partner_name,omitempty"`
	PartnerType      string            `json:"partner_type"`
	BeneficiaryID    string            `json:"beneficiary_id"`
	BeneficiaryName  string            `json:"beneficiary_name,omitempty"`
	AttestedData     map[string]string `json:"attested_data"`
	SignatureHash    string            `json:"signature_hash"`
	CreatedAt        time.Time         `json:"created_at"`
	ExpiresAt        time.Time         `json:"expires_at"`
	RevokedAt        *time.Time        `json:"revoked_at,omitempty"`
	RevocationReason string            `json:"revocation_reason,omitempty"`
}

// FromAttestation maps a domain attestation onto the wire shape.
func FromAttestation(att *attestation.Attestation) AttestationResponse {
	return AttestationResponse{
		ID:               att.ID,
		TypeID:           att.TypeID,
		PartnerID:        att.PartnerID.String(),
		PartnerName:      att.PartnerName,
		PartnerType:      string(att.PartnerType),
		BeneficiaryID:    att.BeneficiaryID.String(),
		BeneficiaryName:  att.BeneficiaryName,
		AttestedData:     att.AttestedData,
		SignatureHash:    att.SignatureHash,
		CreatedAt:        att.CreatedAt,
		ExpiresAt:        att.ExpiresAt,
		RevokedAt:        att.RevokedAt,
		RevocationReason: att.RevocationReason,
	}
}
