// Package extraction turns raw OCR text plus a document type into
// structured, confidence-scored fields. Image-to-text conversion happens
// upstream; this package consumes text only.
package extraction

import "teranga/pkg/domain"

// DocumentType selects which rule set applies.
type DocumentType string

const (
	DocNationalID    DocumentType = "national_id_card"
	DocBankStatement DocumentType = "bank_statement"
	DocUtilityBill   DocumentType = "utility_bill"
	DocPayslip       DocumentType = "payslip"
)

// IsValid reports whether t has a rule set.
func (t DocumentType) IsValid() bool {
	_, ok := ruleSets[t]
	return ok
}

// ExtractedField is one structured field pulled from the OCR text.
// Ephemeral: produced per extraction call and consumed immediately by
// fusion, never persisted.
type ExtractedField struct {
	Field      domain.FieldName
	Value      string
	Confidence float64 // 0-100
	SourceText string  // the OCR line the value came from
}

// Result is the outcome of extracting one document. Extraction never fails
// hard: malformed input yields a low-confidence result with warnings.
type Result struct {
	DocumentType          DocumentType
	Fields                []ExtractedField
	OverallConfidence     float64 // importance-weighted mean of field confidences
	ValidationWarnings    []string
	CrossValidationPassed bool
}
