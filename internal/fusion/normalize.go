package fusion

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"teranga/pkg/domain"
)

// Normalize converts a raw value into the canonical form compared during
// arbitration: dates to ISO-8601, phone numbers to international format,
// currency to minor units. Dispatch is exhaustive over the field kind so an
// unknown shape is an input error, never a silent passthrough.
func Normalize(field domain.FieldName, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty value for field %s", field)
	}

	switch field.Kind() {
	case domain.KindDate:
		return normalizeDate(raw)
	case domain.KindPhone:
		return normalizePhone(raw)
	case domain.KindCurrency:
		return normalizeCurrency(raw)
	case domain.KindNumber:
		return normalizeNumber(raw)
	case domain.KindIdentifier:
		return normalizeIdentifier(raw), nil
	default:
		return normalizeText(raw), nil
	}
}

// dateLayouts lists the formats seen across OCR output, partner portals,
// and registry feeds, most specific first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2 January 2006",
	"January 2, 2006",
	"02/01/06",
}

func normalizeDate(raw string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date format: %q", raw)
}

// countryDialPrefixes maps member-state dial codes for local-format
// expansion. A number already in +NNN form passes through after cleanup.
var countryDialPrefixes = []string{"221", "223", "225", "226", "227", "228", "229", "245"}

func normalizePhone(raw string) (string, error) {
	var digits strings.Builder
	hasPlus := strings.HasPrefix(strings.TrimSpace(raw), "+")
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 8 || len(d) > 15 {
		return "", fmt.Errorf("phone number has %d digits, expected 8-15", len(d))
	}

	// Strip international call prefix written as 00.
	if strings.HasPrefix(d, "00") {
		d = d[2:]
		hasPlus = true
	}
	if hasPlus {
		return "+" + d, nil
	}
	for _, prefix := range countryDialPrefixes {
		if strings.HasPrefix(d, prefix) && len(d) > len(prefix)+5 {
			return "+" + d, nil
		}
	}
	// Local 8-digit numbers cannot be resolved without a country; callers
	// supply country-prefixed values, so reject rather than guess.
	return "", fmt.Errorf("phone number %q missing country prefix", raw)
}

// normalizeCurrency converts an amount to integer minor units. Franc CFA
// has no minor unit in circulation, so amounts normalize to whole francs;
// decimal fractions round half away from zero.
func normalizeCurrency(raw string) (string, error) {
	s := strings.ToUpper(raw)
	for _, token := range []string{"FCFA", "XOF", "CFA", "F", " "} {
		s = strings.ReplaceAll(s, token, "")
	}
	// Thousands separators: space handled above, also dot-grouping and commas.
	s = strings.ReplaceAll(s, " ", "")
	if strings.Count(s, ",") == 1 && strings.Count(s, ".") == 0 {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("unparseable amount: %q", raw)
	}
	if v < 0 {
		return "", fmt.Errorf("negative amount: %q", raw)
	}
	return strconv.FormatInt(int64(math.Round(v)), 10), nil
}

func normalizeNumber(raw string) (string, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return "", fmt.Errorf("unparseable number: %q", raw)
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

func normalizeIdentifier(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func normalizeText(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// valuesAgree reports whether two normalized values are within the
// field-specific tolerance. Currency amounts tolerate small rounding drift
// between sources; everything else compares exactly.
func valuesAgree(field domain.FieldName, a, b string) bool {
	if a == b {
		return true
	}
	if field.Kind() == domain.KindCurrency {
		av, errA := strconv.ParseFloat(a, 64)
		bv, errB := strconv.ParseFloat(b, 64)
		if errA == nil && errB == nil {
			larger := math.Max(math.Abs(av), math.Abs(bv))
			return math.Abs(av-bv) <= larger*currencyTolerance
		}
	}
	return false
}

// currencyTolerance is the relative disagreement two currency sources may
// show and still count as the same value (rounding on statements).
const currencyTolerance = 0.005
