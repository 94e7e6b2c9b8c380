package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldName(t *testing.T) {
	t.Run("accepts declared fields with their kind", func(t *testing.T) {
		cases := map[string]FieldKind{
			"full_name":        KindText,
			"date_of_birth":    KindDate,
			"phone_number":     KindPhone,
			"monthly_income":   KindCurrency,
			"national_id":      KindIdentifier,
			"membership_since": KindDate,
		}
		for name, kind := range cases {
			f, err := ParseFieldName(name)
			require.NoError(t, err, name)
			assert.Equal(t, kind, f.Kind(), name)
			assert.Equal(t, name, f.String())
		}
	})

	t.Run("rejects undeclared fields", func(t *testing.T) {
		for _, name := range []string{"", "shoe_size", "Full_Name", "monthly income"} {
			_, err := ParseFieldName(name)
			require.ErrorIs(t, err, ErrUnknownField, name)
		}
	})
}

func TestFieldImportance(t *testing.T) {
	// Identity and income anchors must outweigh supporting fields.
	assert.Greater(t, MustFieldName("national_id").Importance(), MustFieldName("address").Importance())
	assert.Greater(t, MustFieldName("monthly_income").Importance(), MustFieldName("business_name").Importance())
	assert.Equal(t, 1.0, FieldName{}.Importance(), "zero field weighs 1")
}
