package whatsapp

import (
	"net/url"
	"strings"

	"crm_followup_backend/platform/phone"
)

// LinkBuilder constructs wa.me deep links from a raw phone and a
// composed message. The UI opens the link to hand the prepared text to
// WhatsApp; when the phone is unusable no link exists and the action is
// disabled.
type LinkBuilder struct {
	normalizer *phone.Normalizer
}

// NewLinkBuilder creates a LinkBuilder using the given phone normalizer.
func NewLinkBuilder(normalizer *phone.Normalizer) *LinkBuilder {
	return &LinkBuilder{normalizer: normalizer}
}

// Link builds the wa.me URL for the phone and message. The second return
// value is false when the phone cannot be normalized.
func (b *LinkBuilder) Link(rawPhone, message string) (string, bool) {
	normalized, ok := b.normalizer.Normalize(rawPhone)
	if !ok {
		return "", false
	}

	// wa.me wants bare digits, no plus
	digits := strings.TrimPrefix(normalized, "+")

	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + digits,
		RawQuery: url.Values{"text": []string{message}}.Encode(),
	}
	return u.String(), true
}
