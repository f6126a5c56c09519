package domain

import "strings"

// Vertical is the industry tag on a lead, used to select tailored message
// variants. The zero value is the generic vertical; named verticals carry
// a lowercase code. Persisted rows use "" / "generic" / NULL loosely, so
// ParseVertical is the single normalization point.
type Vertical struct {
	code string
}

// Generic is the vertical applied when a lead carries no industry tag.
var Generic = Vertical{}

// NamedVertical creates a vertical for a concrete industry code.
// Empty or sentinel codes collapse to Generic.
func NamedVertical(code string) Vertical {
	return ParseVertical(&code)
}

// ParseVertical normalizes a stored vertical value. nil, "" and the
// "generic" sentinel all map to Generic.
func ParseVertical(raw *string) Vertical {
	if raw == nil {
		return Generic
	}
	code := strings.ToLower(strings.TrimSpace(*raw))
	if code == "" || code == "generic" {
		return Generic
	}
	return Vertical{code: code}
}

// IsGeneric reports whether v is the generic vertical.
func (v Vertical) IsGeneric() bool {
	return v.code == ""
}

// Code returns the industry code, or "" for Generic.
func (v Vertical) Code() string {
	return v.code
}

// String returns a stable textual form, using the "generic" sentinel for
// the generic vertical.
func (v Vertical) String() string {
	if v.code == "" {
		return "generic"
	}
	return v.code
}
