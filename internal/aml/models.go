// Package aml screens subject identities against sanctions and
// politically-exposed-person lists with approximate name matching and
// produces anonymized, retention-safe audit records.
//
// Screening is fail-closed: when no usable list snapshot is available the
// decision is REVIEW, never CLEAR. Compliance safety takes precedence over
// availability.
package aml

import "time"

// Decision is the screening outcome. The three decisions partition the
// similarity space [0,1] exactly once: [0,low) CLEAR, [low,high) REVIEW,
// [high,1] HIT.
type Decision string

const (
	DecisionClear  Decision = "CLEAR"
	DecisionReview Decision = "REVIEW"
	DecisionHit    Decision = "HIT"
)

// ListEntry is one sanctions/PEP list record.
type ListEntry struct {
	Name     string
	List     string // originating list, e.g. "un_consolidated", "regional_pep"
	Country  string
	EntryRef string // stable reference within the source list
}

// Snapshot is an immutable, versioned sanctions list. Normalized forms are
// precomputed at build time so concurrent screening never mutates shared
// state.
type Snapshot struct {
	Version  string
	LoadedAt time.Time
	entries  []screenEntry
}

type screenEntry struct {
	ListEntry
	normalized string // diacritic-stripped, case-folded
	tokenSort  string // tokens sorted, for name-order insensitivity
}

// Len returns the number of list entries.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Match is one candidate above the low threshold.
type Match struct {
	Entry      ListEntry
	Similarity float64
}

// Outcome is the screening result joined with the score before release.
// NameHash is the only identity-derived value safe to persist.
type Outcome struct {
	Decision    Decision
	Matches     []Match
	ListVersion string
	NameHash    string
	ScreenedAt  time.Time
	Warnings    []string
}
