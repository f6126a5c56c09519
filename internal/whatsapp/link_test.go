package whatsapp

import (
	"testing"

	"crm_followup_backend/platform/phone"
)

func TestLinkBuildsWaMeURL(t *testing.T) {
	b := NewLinkBuilder(phone.NewNormalizer("DE"))

	link, ok := b.Link("0151 234567", "Hallo Maria, wie geht's?")
	if !ok {
		t.Fatal("expected a link")
	}
	want := "https://wa.me/49151234567?text=Hallo+Maria%2C+wie+geht%27s%3F"
	if link != want {
		t.Fatalf("expected %q, got %q", want, link)
	}
}

func TestLinkUnusablePhone(t *testing.T) {
	b := NewLinkBuilder(phone.NewNormalizer("DE"))

	if _, ok := b.Link("", "Hallo"); ok {
		t.Fatal("empty phone must not produce a link")
	}
	if _, ok := b.Link("n/a", "Hallo"); ok {
		t.Fatal("digitless phone must not produce a link")
	}
}
