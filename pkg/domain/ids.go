// Package domain provides the shared kernel for the scoring pipeline.
//
// It contains pure domain primitives used across extraction, fusion,
// attestation, and screening. No I/O, no context.Context, and no time.Now()
// calls live here; time is always received as a parameter from the
// application layer.
package domain

import (
	"errors"
	"regexp"
	"strings"
)

// SubjectID identifies the person being scored. It is an opaque caller-side
// identifier, never a national ID or other raw PII.
//
// Invariants:
//   - Non-empty
//   - Alphanumeric plus dash/underscore
//   - Length between 4 and 64 characters
type SubjectID struct {
	value string
}

var subjectIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,64}$`)

// ErrInvalidSubjectID indicates the subject ID failed validation.
var ErrInvalidSubjectID = errors.New("invalid subject ID: must be 4-64 alphanumeric, dash or underscore characters")

// ParseSubjectID creates a validated SubjectID.
func ParseSubjectID(value string) (SubjectID, error) {
	if !subjectIDPattern.MatchString(value) {
		return SubjectID{}, ErrInvalidSubjectID
	}
	return SubjectID{value: value}, nil
}

// MustSubjectID creates a SubjectID, panicking if invalid.
// Use only in tests or when the value is known to be valid.
func MustSubjectID(value string) SubjectID {
	id, err := ParseSubjectID(value)
	if err != nil {
		panic(err)
	}
	return id
}

func (s SubjectID) String() string { return s.value }

// IsZero returns true if this is the zero value (uninitialized).
func (s SubjectID) IsZero() bool { return s.value == "" }

// PartnerID identifies an attestation-issuing partner institution.
type PartnerID struct {
	value string
}

var partnerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,64}$`)

// ErrInvalidPartnerID indicates the partner ID failed validation.
var ErrInvalidPartnerID = errors.New("invalid partner ID: must be 2-64 alphanumeric, dash or underscore characters")

// ParsePartnerID creates a validated PartnerID.
func ParsePartnerID(value string) (PartnerID, error) {
	if !partnerIDPattern.MatchString(value) {
		return PartnerID{}, ErrInvalidPartnerID
	}
	return PartnerID{value: value}, nil
}

// MustPartnerID creates a PartnerID, panicking if invalid.
func MustPartnerID(value string) PartnerID {
	id, err := ParsePartnerID(value)
	if err != nil {
		panic(err)
	}
	return id
}

func (p PartnerID) String() string { return p.value }
func (p PartnerID) IsZero() bool   { return p.value == "" }

// CountryCode is an ISO 3166-1 alpha-2 country code restricted to the
// member states served by the pipeline.
type CountryCode struct {
	value string
}

// memberStates lists the countries the regional context provider knows
// baselines for. Screening and fusion accept any of them.
var memberStates = map[string]bool{
	"BJ": true, // Benin
	"BF": true, // Burkina Faso
	"CI": true, // Côte d'Ivoire
	"GW": true, // Guinea-Bissau
	"ML": true, // Mali
	"NE": true, // Niger
	"SN": true, // Senegal
	"TG": true, // Togo
}

// ErrInvalidCountryCode indicates the country is not a member state.
var ErrInvalidCountryCode = errors.New("invalid country code: not a member state")

// ParseCountryCode creates a validated CountryCode.
func ParseCountryCode(value string) (CountryCode, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if !memberStates[v] {
		return CountryCode{}, ErrInvalidCountryCode
	}
	return CountryCode{value: v}, nil
}

// MustCountryCode creates a CountryCode, panicking if invalid.
func MustCountryCode(value string) CountryCode {
	c, err := ParseCountryCode(value)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CountryCode) String() string { return c.value }
func (c CountryCode) IsZero() bool   { return c.value == "" }

// PersonName is the full name used for sanctions screening. The raw value
// is kept only in memory; anything persisted goes through privacy hashing.
type PersonName struct {
	value string
}

// ErrInvalidPersonName indicates the name failed validation.
var ErrInvalidPersonName = errors.New("invalid person name: must be 2-140 characters")

// ParsePersonName creates a validated PersonName.
func ParsePersonName(value string) (PersonName, error) {
	v := strings.TrimSpace(value)
	if len(v) < 2 || len(v) > 140 {
		return PersonName{}, ErrInvalidPersonName
	}
	return PersonName{value: v}, nil
}

// MustPersonName creates a PersonName, panicking if invalid.
func MustPersonName(value string) PersonName {
	n, err := ParsePersonName(value)
	if err != nil {
		panic(err)
	}
	return n
}

func (n PersonName) String() string { return n.value }
func (n PersonName) IsZero() bool   { return n.value == "" }
