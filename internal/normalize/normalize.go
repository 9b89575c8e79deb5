// Package normalize maps one raw tabular row (arbitrary header names and
// casing) onto the canonical customer+policy record. The heuristics come
// from spreadsheet exports seen in the wild: scientific-notation phone
// columns, DD-MM-YYYY dates, header variants like "Customer Name" vs
// "customer_name".
package normalize

import (
	"crypto/rand"
	"regexp"
	"strconv"
	"strings"
)

// Record is the canonical shape produced from a raw row.
type Record struct {
	Name         string
	Phone        string
	Email        string
	PolicyNumber string
	PolicyType   string
	ExpiryDate   string
}

// Reject signals a skipped row. Raw keeps the original row for
// diagnostic logging; the batch is never aborted over one bad row.
type Reject struct {
	Raw     map[string]string
	Missing []string
}

const (
	DefaultCountryCode = "91"
	defaultPolicyType  = "General"
)

// Field alias tables: first resolved alias wins. Aliases are matched
// against canonicalized keys (lowercased, spaces/underscores stripped).
var (
	nameAliases   = []string{"name", "customername", "customer"}
	phoneAliases  = []string{"phone", "phonenumber", "mobile", "contact"}
	emailAliases  = []string{"email", "emailaddress"}
	numberAliases = []string{"policynumber", "policyid", "id"}
	typeAliases   = []string{"policytype", "type"}
	expiryAliases = []string{"expirydate", "expiry", "duedate"}
)

type Normalizer struct {
	countryCode string
}

func New(countryCode string) *Normalizer {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return &Normalizer{countryCode: countryCode}
}

// CanonicalKey collapses header variants: "Customer Name", "customer_name"
// and "CustomerName" all become "customername".
func CanonicalKey(k string) string {
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, " ", "")
	k = strings.ReplaceAll(k, "\t", "")
	k = strings.ReplaceAll(k, "_", "")
	return k
}

// Row resolves the canonical record from a raw column→value map. A nil
// Reject means the record is usable.
func (n *Normalizer) Row(raw map[string]string) (Record, *Reject) {
	canon := make(map[string]string, len(raw))
	for k, v := range raw {
		canon[CanonicalKey(k)] = strings.TrimSpace(v)
	}

	pick := func(aliases []string) string {
		for _, a := range aliases {
			if v := canon[a]; v != "" {
				return v
			}
		}
		return ""
	}

	rec := Record{
		Name:         pick(nameAliases),
		Phone:        pick(phoneAliases),
		Email:        pick(emailAliases),
		PolicyNumber: pick(numberAliases),
		PolicyType:   pick(typeAliases),
		ExpiryDate:   pick(expiryAliases),
	}

	var missing []string
	if rec.Name == "" {
		missing = append(missing, "name")
	}
	if rec.Phone == "" {
		missing = append(missing, "phone")
	}
	if rec.ExpiryDate == "" {
		missing = append(missing, "expiry_date")
	}
	if len(missing) > 0 {
		return Record{}, &Reject{Raw: raw, Missing: missing}
	}

	rec.Phone = n.Phone(rec.Phone)
	rec.ExpiryDate = Date(rec.ExpiryDate)
	if rec.PolicyNumber == "" {
		rec.PolicyNumber = AutoPolicyNumber()
	}
	if rec.PolicyType == "" {
		rec.PolicyType = defaultPolicyType
	}

	return rec, nil
}

var nonDigits = regexp.MustCompile(`\D`)

// Phone runs the phone rule chain: expand scientific notation, strip
// non-digits, prepend the country code for bare 10-digit numbers, and
// force a leading "+". Other digit lengths pass through undisambiguated.
func (n *Normalizer) Phone(raw string) string {
	s := ExpandScientific(strings.TrimSpace(raw))
	s = nonDigits.ReplaceAllString(s, "")
	if len(s) == 10 {
		s = n.countryCode + s
	}
	if !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	return s
}

// ExpandScientific converts spreadsheet-exported numeric phones like
// "9.19877E+11" back to a plain decimal string. Values without the
// marker are returned unchanged.
func ExpandScientific(s string) string {
	if !strings.Contains(s, "E+") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Date recognizes exactly two shapes, split on "-" or "/":
// DD-MM-YYYY is re-emitted as YYYY-MM-DD, and YYYY-MM-DD keeps its
// field order with "-" separators. Anything else (2-digit years,
// MM-DD-YYYY, free text) passes through unchanged rather than guessing.
func Date(raw string) string {
	if !strings.ContainsAny(raw, "-/") {
		return raw
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) != 3 {
		return raw
	}
	switch {
	case len(parts[0]) == 2 && len(parts[2]) == 4:
		return parts[2] + "-" + parts[1] + "-" + parts[0]
	case len(parts[0]) == 4:
		return parts[0] + "-" + parts[1] + "-" + parts[2]
	default:
		return raw
	}
}

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// AutoPolicyNumber synthesizes "AUTO-" + 9 random base-36 characters for
// rows without a policy number. Collisions are not checked here; the
// UNIQUE constraint downstream rejects the odd duplicate.
func AutoPolicyNumber() string {
	b := make([]byte, 9)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = base36[int(b[i])%len(base36)]
	}
	return "AUTO-" + string(b)
}
