package phone

import "testing"

func TestNormalizeDomesticLeadingZero(t *testing.T) {
	n := NewNormalizer("DE")

	got, ok := n.Normalize("0151 234567")
	if !ok {
		t.Fatal("expected a usable number")
	}
	if got != "+49151234567" {
		t.Fatalf("expected +49151234567, got %s", got)
	}
}

func TestNormalizeInternational(t *testing.T) {
	n := NewNormalizer("DE")

	got, ok := n.Normalize("+1 (555) 234-5678")
	if !ok {
		t.Fatal("expected a usable number")
	}
	if got != "+15552345678" {
		t.Fatalf("expected +15552345678, got %s", got)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	n := NewNormalizer("DE")

	if _, ok := n.Normalize(""); ok {
		t.Fatal("empty input should not normalize")
	}
	if _, ok := n.Normalize("   "); ok {
		t.Fatal("whitespace input should not normalize")
	}
	if _, ok := n.Normalize("abc"); ok {
		t.Fatal("input without digits should not normalize")
	}
}

func TestNormalizeValidNumberUsesE164(t *testing.T) {
	n := NewNormalizer("DE")

	got, ok := n.Normalize("030 12345678")
	if !ok {
		t.Fatal("expected a usable number")
	}
	if got != "+493012345678" {
		t.Fatalf("expected +493012345678, got %s", got)
	}
}

func TestNormalizerRegionFallback(t *testing.T) {
	n := NewNormalizer("")
	if n.Region() != DefaultRegion {
		t.Fatalf("expected fallback region %s, got %s", DefaultRegion, n.Region())
	}

	nl := NewNormalizer("nl")
	got, ok := nl.Normalize("0612 345 678")
	if !ok {
		t.Fatal("expected a usable number")
	}
	if got != "+31612345678" {
		t.Fatalf("expected +31612345678, got %s", got)
	}
}
