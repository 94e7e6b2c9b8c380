package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"teranga/pkg/domain"
)

// fieldRule extracts one field from OCR text. Rules for the same field are
// ordered; the first whose pattern matches and whose check passes wins.
type fieldRule struct {
	field      domain.FieldName
	pattern    *regexp.Regexp
	confidence float64 // awarded when pattern matches and check passes
	mandatory  bool
	// check validates the captured value (checksum, date range). A failed
	// check rejects this rule's match, letting a later rule try.
	check func(value string, asOf time.Time) error
}

var (
	reNationalID  = regexp.MustCompile(`(?im)^\s*(?:n[°o]?\s*)?(?:cni|id|carte)\s*[:#]?\s*([0-9]{1}[0-9 ]{11,16}[0-9])\s*$`)
	reDOB         = regexp.MustCompile(`(?im)(?:n[ée]e?\s+le|date\s+de\s+naissance|dob)\s*[:#]?\s*([0-9]{2}[/.-][0-9]{2}[/.-][0-9]{4})`)
	reFullName    = regexp.MustCompile(`(?im)^(?:nom\s+et\s+pr[ée]noms?|nom|name)\s*[:#]?\s*([A-ZÀ-Ý][A-Za-zÀ-ÿ' -]{2,80})\s*$`)
	reAddress     = regexp.MustCompile(`(?im)^(?:adresse|domicile|address)\s*[:#]?\s*(.{5,120})\s*$`)
	rePhone       = regexp.MustCompile(`(?im)(?:t[ée]l(?:[ée]phone)?|phone|mobile)\s*[:#]?\s*((?:\+|00)?[0-9][0-9 .-]{7,18}[0-9])`)
	reAccountNo   = regexp.MustCompile(`(?im)(?:compte|account)\s*(?:n[°o]?)?\s*[:#]?\s*([A-Z0-9]{8,26})`)
	reBalance     = regexp.MustCompile(`(?im)(?:solde|balance)\s*[:#]?\s*([0-9][0-9 .,]{2,15})(?:\s*(?:fcfa|xof|f))?`)
	reNetSalary   = regexp.MustCompile(`(?im)(?:net\s+[àa]\s+payer|salaire\s+net|net\s+pay)\s*[:#]?\s*([0-9][0-9 .,]{2,15})(?:\s*(?:fcfa|xof|f))?`)
	reEmployer    = regexp.MustCompile(`(?im)^(?:employeur|soci[ée]t[ée]|employer|company)\s*[:#]?\s*(.{2,80})\s*$`)
	reMonthlyCred = regexp.MustCompile(`(?im)(?:virement|salaire|salary\s+credit)\s*[:#]?\s*([0-9][0-9 .,]{2,15})`)
)

// checkLuhn validates the national ID number's checksum digit.
func checkLuhn(value string, _ time.Time) error {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
	if len(digits) < 12 {
		return fmt.Errorf("id number too short")
	}
	sum, double := 0, false
	for i := len(digits) - 1; i >= 0; i-- {
		d, _ := strconv.Atoi(string(digits[i]))
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	if sum%10 != 0 {
		return fmt.Errorf("id checksum failed")
	}
	return nil
}

// checkBirthDate rejects dates outside a plausible 16-110 year age window
// relative to the extraction as-of time.
func checkBirthDate(value string, asOf time.Time) error {
	cleaned := strings.NewReplacer(".", "/", "-", "/").Replace(value)
	t, err := time.Parse("02/01/2006", cleaned)
	if err != nil {
		return fmt.Errorf("unparseable birth date %q", value)
	}
	age := asOf.Year() - t.Year()
	if age < 16 || age > 110 {
		return fmt.Errorf("implausible age %d", age)
	}
	return nil
}

func checkAmount(value string, _ time.Time) error {
	s := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("implausible amount %q", value)
	}
	return nil
}

// ruleSets is the ordered per-document-type rule catalogue.
var ruleSets = map[DocumentType][]fieldRule{
	DocNationalID: {
		{field: domain.MustFieldName("national_id"), pattern: reNationalID, confidence: 90, mandatory: true, check: checkLuhn},
		{field: domain.MustFieldName("full_name"), pattern: reFullName, confidence: 80, mandatory: true},
		{field: domain.MustFieldName("date_of_birth"), pattern: reDOB, confidence: 85, mandatory: true, check: checkBirthDate},
		{field: domain.MustFieldName("address"), pattern: reAddress, confidence: 60},
	},
	DocBankStatement: {
		{field: domain.MustFieldName("account_number"), pattern: reAccountNo, confidence: 90, mandatory: true},
		{field: domain.MustFieldName("full_name"), pattern: reFullName, confidence: 75, mandatory: true},
		{field: domain.MustFieldName("account_balance"), pattern: reBalance, confidence: 85, mandatory: true, check: checkAmount},
		{field: domain.MustFieldName("monthly_income"), pattern: reMonthlyCred, confidence: 70, check: checkAmount},
	},
	DocUtilityBill: {
		{field: domain.MustFieldName("full_name"), pattern: reFullName, confidence: 70, mandatory: true},
		{field: domain.MustFieldName("address"), pattern: reAddress, confidence: 80, mandatory: true},
		{field: domain.MustFieldName("phone_number"), pattern: rePhone, confidence: 65},
	},
	DocPayslip: {
		{field: domain.MustFieldName("full_name"), pattern: reFullName, confidence: 75, mandatory: true},
		{field: domain.MustFieldName("employer_name"), pattern: reEmployer, confidence: 80, mandatory: true},
		{field: domain.MustFieldName("monthly_income"), pattern: reNetSalary, confidence: 90, mandatory: true, check: checkAmount},
	},
}
