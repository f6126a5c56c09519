// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is the fallback region applied when a Normalizer is built
// without an explicit one.
const DefaultRegion = "DE"

// Normalizer canonicalizes raw phone strings into a dialable international
// form. The default region decides which country calling code replaces a
// domestic leading zero.
type Normalizer struct {
	region string
	prefix string
}

// NewNormalizer creates a Normalizer for the given ISO 3166-1 region code.
// An empty or unknown region falls back to DefaultRegion.
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}

	code := phonenumbers.GetCountryCodeForRegion(region)
	if code == 0 {
		region = DefaultRegion
		code = phonenumbers.GetCountryCodeForRegion(region)
	}

	return &Normalizer{
		region: region,
		prefix: "+" + strconv.Itoa(code),
	}
}

// Normalize canonicalizes raw into a dialable string. The second return
// value is false when no usable number can be derived.
//
// Numbers that parse as valid for the configured region are formatted to
// E.164. Everything else goes through a lenient cleanup: non-digits are
// stripped, an original leading "+" is preserved, and a domestic leading
// zero is replaced with the region's country calling code.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if parsed, err := phonenumbers.Parse(trimmed, n.region); err == nil {
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164), true
		}
	}

	hadPlus := strings.HasPrefix(trimmed, "+")

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()
	if cleaned == "" {
		return "", false
	}

	if hadPlus {
		return "+" + cleaned, true
	}
	if strings.HasPrefix(cleaned, "0") && !strings.HasPrefix(cleaned, "00") {
		return n.prefix + cleaned[1:], true
	}
	return cleaned, true
}

// Region returns the configured default region.
func (n *Normalizer) Region() string {
	return n.region
}
