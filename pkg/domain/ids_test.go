package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubjectID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSubjectID("")
		require.ErrorIs(t, err, ErrInvalidSubjectID)
	})

	t.Run("rejects too short", func(t *testing.T) {
		_, err := ParseSubjectID("abc")
		require.ErrorIs(t, err, ErrInvalidSubjectID)
	})

	t.Run("rejects illegal characters", func(t *testing.T) {
		_, err := ParseSubjectID("subj 0001")
		require.ErrorIs(t, err, ErrInvalidSubjectID)
	})

	t.Run("rejects overlong", func(t *testing.T) {
		_, err := ParseSubjectID(strings.Repeat("a", 65))
		require.ErrorIs(t, err, ErrInvalidSubjectID)
	})

	t.Run("accepts valid", func(t *testing.T) {
		id, err := ParseSubjectID("subj-0001")
		require.NoError(t, err)
		assert.Equal(t, "subj-0001", id.String())
		assert.False(t, id.IsZero())
	})

	t.Run("zero value is zero", func(t *testing.T) {
		assert.True(t, SubjectID{}.IsZero())
	})
}

func TestParseCountryCode(t *testing.T) {
	t.Run("accepts every member state", func(t *testing.T) {
		for _, code := range []string{"BJ", "BF", "CI", "GW", "ML", "NE", "SN", "TG"} {
			c, err := ParseCountryCode(code)
			require.NoError(t, err, code)
			assert.Equal(t, code, c.String())
		}
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		c, err := ParseCountryCode(" sn ")
		require.NoError(t, err)
		assert.Equal(t, "SN", c.String())
	})

	t.Run("rejects non-member states", func(t *testing.T) {
		for _, code := range []string{"FR", "NG", "US", "", "XX"} {
			_, err := ParseCountryCode(code)
			require.ErrorIs(t, err, ErrInvalidCountryCode, code)
		}
	})
}

func TestParsePersonName(t *testing.T) {
	t.Run("accepts accented names", func(t *testing.T) {
		n, err := ParsePersonName("Ibrahim Traoré")
		require.NoError(t, err)
		assert.Equal(t, "Ibrahim Traoré", n.String())
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		n, err := ParsePersonName("  Awa Ndiaye ")
		require.NoError(t, err)
		assert.Equal(t, "Awa Ndiaye", n.String())
	})

	t.Run("rejects too short and too long", func(t *testing.T) {
		_, err := ParsePersonName("A")
		require.ErrorIs(t, err, ErrInvalidPersonName)
		_, err = ParsePersonName(strings.Repeat("x", 141))
		require.ErrorIs(t, err, ErrInvalidPersonName)
	})
}

func TestMustHelpersPanicOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustSubjectID("") })
	assert.Panics(t, func() { MustPartnerID("!") })
	assert.Panics(t, func() { MustCountryCode("FR") })
	assert.Panics(t, func() { MustPersonName("") })
}
