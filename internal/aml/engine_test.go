package aml

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"teranga/pkg/domain"
	dErrors "teranga/pkg/domain-errors"
)

type EngineSuite struct {
	suite.Suite
	ctx  context.Context
	asOf time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.asOf = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
}

func (s *EngineSuite) newEngine(entries []ListEntry) *Engine {
	client := StaticListClient{Version: "un-2025-06-01", Entries: entries}
	engine, err := New(DefaultConfig(), client)
	s.Require().NoError(err)
	s.Require().NoError(engine.Refresh(s.ctx, s.asOf))
	return engine
}

var testList = []ListEntry{
	{Name: "Mamadou Diallo", List: "un_consolidated", Country: "ML", EntryRef: "UN-001"},
	{Name: "Ibrahim Traoré", List: "regional_pep", Country: "BF", EntryRef: "RP-014"},
	{Name: "Grace Okafor", List: "un_consolidated", Country: "NG", EntryRef: "UN-102"},
}

// ---------------------------------------------------------------------------
// Screening decisions
// ---------------------------------------------------------------------------

func (s *EngineSuite) TestScreenExactMatchIsHit() {
	engine := s.newEngine(testList)

	outcome, err := engine.Screen(s.ctx, domain.MustPersonName("Mamadou Diallo"), s.asOf)
	s.Require().NoError(err)

	s.Equal(DecisionHit, outcome.Decision)
	s.Require().NotEmpty(outcome.Matches)
	s.InDelta(1.0, outcome.Matches[0].Similarity, 1e-9)
	s.Equal("UN-001", outcome.Matches[0].Entry.EntryRef)
	s.Equal("un-2025-06-01", outcome.ListVersion)
	s.Equal(s.asOf, outcome.ScreenedAt)
}

func (s *EngineSuite) TestScreenUnrelatedNameIsClear() {
	engine := s.newEngine(testList)

	outcome, err := engine.Screen(s.ctx, domain.MustPersonName("Awa Ndiaye"), s.asOf)
	s.Require().NoError(err)

	s.Equal(DecisionClear, outcome.Decision)
	s.Empty(outcome.Matches)
}

func (s *EngineSuite) TestScreenDiacriticsAndCaseInsensitive() {
	engine := s.newEngine(testList)

	// List carries "Ibrahim Traoré"; the stripped, folded query matches at 1.0.
	outcome, err := engine.Screen(s.ctx, domain.MustPersonName("IBRAHIM TRAORE"), s.asOf)
	s.Require().NoError(err)

	s.Equal(DecisionHit, outcome.Decision)
	s.Require().NotEmpty(outcome.Matches)
	s.InDelta(1.0, outcome.Matches[0].Similarity, 1e-9)
}

func (s *EngineSuite) TestScreenTokenOrderInsensitive() {
	engine := s.newEngine(testList)

	outcome, err := engine.Screen(s.ctx, domain.MustPersonName("Diallo Mamadou"), s.asOf)
	s.Require().NoError(err)

	s.Equal(DecisionHit, outcome.Decision)
	s.Require().NotEmpty(outcome.Matches)
	s.InDelta(1.0, outcome.Matches[0].Similarity, 1e-9)
}

func (s *EngineSuite) TestScreenNearMatchIsReview() {
	engine := s.newEngine(testList)

	// Differs in the first letter, so the prefix bonus does not apply and
	// the score lands between the two thresholds.
	outcome, err := engine.Screen(s.ctx, domain.MustPersonName("Amadou Diallo"), s.asOf)
	s.Require().NoError(err)

	s.Require().NotEmpty(outcome.Matches)
	best := outcome.Matches[0].Similarity
	s.GreaterOrEqual(best, DefaultConfig().LowThreshold)
	s.Less(best, DefaultConfig().HighThreshold)
	s.Equal(DecisionReview, outcome.Decision)
}

func (s *EngineSuite) TestScreenMatchesSortedBySimilarity() {
	engine := s.newEngine([]ListEntry{
		{Name: "Mamadou Dialo", List: "regional_pep", EntryRef: "RP-001"},
		{Name: "Mamadou Diallo", List: "un_consolidated", EntryRef: "UN-001"},
	})

	outcome, err := engine.Screen(s.ctx, domain.MustPersonName("Mamadou Diallo"), s.asOf)
	s.Require().NoError(err)

	s.Require().Len(outcome.Matches, 2)
	s.Equal("UN-001", outcome.Matches[0].Entry.EntryRef)
	s.Greater(outcome.Matches[0].Similarity, outcome.Matches[1].Similarity)
}

// ---------------------------------------------------------------------------
// Fail-closed behavior
// ---------------------------------------------------------------------------

func (s *EngineSuite) TestScreenWithoutSnapshotFailsClosed() {
	engine, err := New(DefaultConfig(), StaticListClient{Fail: true})
	s.Require().NoError(err)

	outcome, err := engine.Screen(s.ctx, domain.MustPersonName("Awa Ndiaye"), s.asOf)
	s.Require().NoError(err)

	s.Equal(DecisionReview, outcome.Decision)
	s.Empty(outcome.Matches)
	s.Require().NotEmpty(outcome.Warnings)
	s.Contains(outcome.Warnings[0], "unavailable")
}

func (s *EngineSuite) TestRefreshFailureKeepsActiveSnapshot() {
	engine := s.newEngine(testList)

	engine.client = StaticListClient{Fail: true}
	err := engine.Refresh(s.ctx, s.asOf.Add(time.Hour))
	s.Require().Error(err)
	s.Equal(dErrors.CodeUnavailable, dErrors.CodeOf(err))

	// Screening keeps working against the previously loaded list.
	outcome, err := engine.Screen(s.ctx, domain.MustPersonName("Mamadou Diallo"), s.asOf)
	s.Require().NoError(err)
	s.Equal(DecisionHit, outcome.Decision)
	s.Equal("un-2025-06-01", outcome.ListVersion)
}

func (s *EngineSuite) TestScreenEmptyListFailsClosed() {
	engine := s.newEngine(nil)

	outcome, err := engine.Screen(s.ctx, domain.MustPersonName("Mamadou Diallo"), s.asOf)
	s.Require().NoError(err)
	s.Equal(DecisionReview, outcome.Decision)
}

// ---------------------------------------------------------------------------
// Privacy
// ---------------------------------------------------------------------------

func (s *EngineSuite) TestOutcomeCarriesOnlyHashedName() {
	engine := s.newEngine(testList)

	outcome, err := engine.Screen(s.ctx, domain.MustPersonName("Mamadou Diallo"), s.asOf)
	s.Require().NoError(err)

	s.Len(outcome.NameHash, 64)
	s.NotContains(strings.ToLower(outcome.NameHash), "mamadou")
}

func (s *EngineSuite) TestNameHashStableAcrossVariants() {
	engine := s.newEngine(testList)

	a, err := engine.Screen(s.ctx, domain.MustPersonName("Ibrahim Traoré"), s.asOf)
	s.Require().NoError(err)
	b, err := engine.Screen(s.ctx, domain.MustPersonName("  ibrahim TRAORE "), s.asOf)
	s.Require().NoError(err)

	s.Equal(a.NameHash, b.NameHash)
}

// ---------------------------------------------------------------------------
// Decision partition
// ---------------------------------------------------------------------------

func (s *EngineSuite) TestDecidePartitionsSimilaritySpace() {
	cfg := DefaultConfig()

	cases := []struct {
		name       string
		similarity float64
		want       Decision
	}{
		{"zero", 0.0, DecisionClear},
		{"just below low", cfg.LowThreshold - 1e-9, DecisionClear},
		{"at low", cfg.LowThreshold, DecisionReview},
		{"just below high", cfg.HighThreshold - 1e-9, DecisionReview},
		{"at high", cfg.HighThreshold, DecisionHit},
		{"one", 1.0, DecisionHit},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, cfg.Decide(tc.similarity))
		})
	}
}

func (s *EngineSuite) TestConfigValidation() {
	s.Run("valid defaults", func() {
		s.NoError(DefaultConfig().Validate())
	})
	s.Run("high below low rejected", func() {
		cfg := DefaultConfig()
		cfg.HighThreshold = cfg.LowThreshold - 0.1
		s.Error(cfg.Validate())
	})
	s.Run("low outside unit interval rejected", func() {
		cfg := DefaultConfig()
		cfg.LowThreshold = 1.2
		s.Error(cfg.Validate())
	})
}

// ---------------------------------------------------------------------------
// Name normalization
// ---------------------------------------------------------------------------

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Mamadou Diallo", "mamadou diallo"},
		{"diacritics", "Ibrahim Traoré", "ibrahim traore"},
		{"punctuation", "N'Diaye, Awa", "n diaye awa"},
		{"extra whitespace", "  Grace   Okafor ", "grace okafor"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeName(tc.in); got != tc.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTokenSort(t *testing.T) {
	if got := TokenSort("diallo mamadou"); got != "diallo mamadou" {
		t.Errorf("TokenSort = %q", got)
	}
	if got := TokenSort("mamadou diallo"); got != "diallo mamadou" {
		t.Errorf("TokenSort = %q", got)
	}
}
