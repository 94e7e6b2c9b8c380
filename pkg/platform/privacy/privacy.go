// Package privacy provides one-way anonymization helpers for audit records.
//
// Regulators require long-term retention of screening decisions without
// retention of identifiable plaintext, so anything persisted about a
// screened identity goes through these hashes.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashName returns the hex SHA-256 of a normalized name. Callers must pass
// the screening-normalized form so the same person hashes identically
// across requests.
func HashName(normalized string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(normalized)))
	return hex.EncodeToString(sum[:])
}

// HashSubject returns the hex SHA-256 of a subject identifier for audit
// traceability without storing the raw ID.
func HashSubject(subjectID string) string {
	sum := sha256.Sum256([]byte(subjectID))
	return hex.EncodeToString(sum[:])
}
