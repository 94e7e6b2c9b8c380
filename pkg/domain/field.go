package domain

import (
	"errors"
	"fmt"
)

// FieldKind drives which normalizer and comparison a field uses. Every
// declared field name maps to exactly one kind so normalization is
// exhaustive rather than guessed from the raw value.
type FieldKind int

const (
	KindText FieldKind = iota
	KindDate
	KindPhone
	KindCurrency
	KindNumber
	KindIdentifier
)

// FieldName is a declared, schema-validated field key. Arbitrary keys are
// rejected at the boundary so downstream normalizers never see an unknown
// field.
type FieldName struct {
	value string
	kind  FieldKind
}

// fieldSchema is the closed set of fields the pipeline understands, with
// the importance weight used for confidence aggregation. Importance is
// relative; the fusion ledger normalizes over the fields present.
var fieldSchema = map[string]struct {
	kind       FieldKind
	importance float64
}{
	"full_name":        {KindText, 3},
	"date_of_birth":    {KindDate, 3},
	"national_id":      {KindIdentifier, 3},
	"phone_number":     {KindPhone, 2},
	"address":          {KindText, 1},
	"monthly_income":   {KindCurrency, 3},
	"employer_name":    {KindText, 1.5},
	"account_number":   {KindIdentifier, 2},
	"account_balance":  {KindCurrency, 2},
	"mobile_money_id":  {KindIdentifier, 2},
	"business_name":    {KindText, 1},
	"membership_since": {KindDate, 1},
}

// ErrUnknownField indicates a field name outside the declared schema.
var ErrUnknownField = errors.New("unknown field name")

// ParseFieldName validates a field key against the declared schema.
func ParseFieldName(value string) (FieldName, error) {
	s, ok := fieldSchema[value]
	if !ok {
		return FieldName{}, fmt.Errorf("%w: %q", ErrUnknownField, value)
	}
	return FieldName{value: value, kind: s.kind}, nil
}

// MustFieldName validates a field key, panicking if unknown.
func MustFieldName(value string) FieldName {
	f, err := ParseFieldName(value)
	if err != nil {
		panic(err)
	}
	return f
}

func (f FieldName) String() string  { return f.value }
func (f FieldName) Kind() FieldKind { return f.kind }
func (f FieldName) IsZero() bool    { return f.value == "" }

// Importance returns the relative weight of this field in confidence
// aggregation. Unknown (zero) fields weigh 1.
func (f FieldName) Importance() float64 {
	if s, ok := fieldSchema[f.value]; ok {
		return s.importance
	}
	return 1
}
