package attestation

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/crypto/blake2b"

	"teranga/internal/fusion"
	"teranga/pkg/domain"
	dErrors "teranga/pkg/domain-errors"
	"teranga/pkg/platform/sentinel"
)

// Store persists attestations keyed by ID. Revocation is the only update.
type Store interface {
	Save(ctx context.Context, att Attestation) error
	FindByID(ctx context.Context, id string) (*Attestation, error)
	Revoke(ctx context.Context, id string, revokedAt time.Time, reason string) error
}

// Service signs, verifies, and revokes attestations and derives the
// confidence boosts valid ones contribute to fusion.
type Service struct {
	store  Store
	key    []byte
	logger *slog.Logger
	newID  func() string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithIDGenerator overrides attestation ID generation (tests).
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

func New(store Store, signingKey []byte, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("attestation store is required")
	}
	if len(signingKey) == 0 {
		return nil, fmt.Errorf("signing key is required")
	}
	svc := &Service{store: store, key: signingKey, newID: defaultID}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// IssueRequest carries a partner portal submission.
type IssueRequest struct {
	TypeID          string
	PartnerID       domain.PartnerID
	PartnerName     string
	PartnerType     PartnerType
	BeneficiaryID   domain.SubjectID
	BeneficiaryName string
	AttestedData    map[string]string
}

// Issue validates a submission against its reference type, computes the
// signature, and persists the attestation.
func (s *Service) Issue(ctx context.Context, req IssueRequest, asOf time.Time) (*Attestation, error) {
	typ, ok := TypeByID(req.TypeID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown attestation type %q", req.TypeID))
	}
	if !req.PartnerType.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown partner type %q", req.PartnerType))
	}
	if req.PartnerID.IsZero() || req.BeneficiaryID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "partner_id and beneficiary_id are required")
	}
	for _, field := range typ.RequiredFields {
		if _, present := req.AttestedData[field.String()]; !present {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("attested_data missing required field %q", field))
		}
	}
	for key := range req.AttestedData {
		if _, err := domain.ParseFieldName(key); err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("attested_data has unknown field %q", key))
		}
	}

	att := Attestation{
		ID:              s.newID(),
		TypeID:          typ.ID,
		PartnerID:       req.PartnerID,
		PartnerName:     req.PartnerName,
		PartnerType:     req.PartnerType,
		BeneficiaryID:   req.BeneficiaryID,
		BeneficiaryName: req.BeneficiaryName,
		AttestedData:    req.AttestedData,
		CreatedAt:       asOf,
		ExpiresAt:       asOf.AddDate(0, 0, typ.ValidityDays),
	}
	att.SignatureHash = s.sign(att.AttestedData, att.PartnerID, att.BeneficiaryID)

	if err := s.store.Save(ctx, att); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save attestation")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "attestation issued",
			"attestation_id", att.ID,
			"type", att.TypeID,
			"partner_id", att.PartnerID.String(),
			"expires_at", att.ExpiresAt,
		)
	}
	return &att, nil
}

// Verify checks the validity predicate: signature matches, not revoked,
// not expired at asOf. Returns sentinel errors so callers can distinguish
// the failure mode.
func (s *Service) Verify(att Attestation, asOf time.Time) error {
	expected := s.sign(att.AttestedData, att.PartnerID, att.BeneficiaryID)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(att.SignatureHash)) != 1 {
		return fmt.Errorf("attestation %s: %w", att.ID, sentinel.ErrInvalidState)
	}
	if att.IsRevoked() {
		return fmt.Errorf("attestation %s: %w", att.ID, sentinel.ErrRevoked)
	}
	if att.IsExpired(asOf) {
		return fmt.Errorf("attestation %s: %w", att.ID, sentinel.ErrExpired)
	}
	return nil
}

// FindByID loads a stored attestation.
func (s *Service) FindByID(ctx context.Context, id string) (*Attestation, error) {
	att, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("attestation %s not found", id))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attestation")
	}
	return att, nil
}

// Revoke marks an attestation revoked. Terminal and irreversible; prior
// boost history stays on record, but the next aggregation pass excludes
// the attestation.
func (s *Service) Revoke(ctx context.Context, id string, reason string, asOf time.Time) error {
	att, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "attestation not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attestation")
	}
	if att.IsRevoked() {
		return dErrors.New(dErrors.CodeConflict, "attestation already revoked")
	}
	if err := s.store.Revoke(ctx, id, asOf, reason); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke attestation")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "attestation revoked",
			"attestation_id", id,
			"reason", reason,
		)
	}
	return nil
}

// Boosts derives fusion boosts from the given attestations. Invalid ones
// (bad signature, revoked, expired) contribute nothing; a signature
// mismatch is non-fatal and only logged.
func (s *Service) Boosts(ctx context.Context, atts []Attestation, asOf time.Time) []fusion.Boost {
	var boosts []fusion.Boost
	for _, att := range atts {
		if err := s.Verify(att, asOf); err != nil {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "attestation excluded from fusion",
					"attestation_id", att.ID,
					"reason", err,
				)
			}
			continue
		}
		typ, ok := TypeByID(att.TypeID)
		if !ok {
			continue
		}
		for _, field := range typ.RequiredFields {
			if _, covered := att.AttestedData[field.String()]; !covered {
				continue
			}
			boosts = append(boosts, fusion.Boost{
				Field:         field,
				Amount:        typ.ConfidenceBoost,
				AttestationID: att.ID,
				PartnerID:     att.PartnerID,
			})
		}
	}
	return boosts
}

// sign computes the keyed BLAKE2b hash over the canonical serialization of
// (attested_data, partner_id, beneficiary_id). Data keys are sorted so the
// signature is independent of map iteration order.
func (s *Service) sign(data map[string]string, partnerID domain.PartnerID, beneficiaryID domain.SubjectID) string {
	h, err := blake2b.New256(s.key)
	if err != nil {
		// Only reachable with a key longer than 64 bytes; constructor
		// accepts any non-empty key so treat as programmer error.
		panic(fmt.Sprintf("attestation signer: %v", err))
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(data[k]))
		h.Write([]byte{0})
	}
	h.Write([]byte(partnerID.String()))
	h.Write([]byte{0})
	h.Write([]byte(beneficiaryID.String()))
	return hex.EncodeToString(h.Sum(nil))
}
