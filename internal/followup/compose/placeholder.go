package compose

import "strings"

const placeholder = "{{name}}"

// FillName replaces every name placeholder with firstName.
func FillName(template, firstName string) string {
	return strings.ReplaceAll(template, placeholder, firstName)
}

// StripName removes every name placeholder so the sentence still reads
// naturally without a name. Each occurrence is rewritten based on the
// punctuation around it; the checks are ordered from most to least
// specific so a general rule never consumes a case a punctuation-aware
// rule handles better:
//
//  1. ", {{name}}:"            -> ":"
//  2. ", {{name}},"            -> ","
//  3. ", {{name}}" + ws or end -> removed, trailing ws kept
//  4. "{{name}}" + "," or ":" then ws -> removed with the punctuation
//  5. bare "{{name}}" + trailing ws   -> removed
func StripName(template string) string {
	s := template
	for {
		idx := strings.Index(s, placeholder)
		if idx < 0 {
			return s
		}

		before := s[:idx]
		after := s[idx+len(placeholder):]

		switch {
		case strings.HasSuffix(before, ", ") && strings.HasPrefix(after, ":"):
			s = strings.TrimSuffix(before, ", ") + after
		case strings.HasSuffix(before, ", ") && strings.HasPrefix(after, ","):
			s = strings.TrimSuffix(before, ", ") + after
		case strings.HasSuffix(before, ", ") && (after == "" || startsWithSpace(after)):
			s = strings.TrimSuffix(before, ", ") + after
		case startsWithPunctThenSpace(after):
			s = before + after[2:]
		default:
			s = before + trimLeadingSpace(after)
		}
	}
}

func startsWithSpace(s string) bool {
	return s != "" && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n')
}

func startsWithPunctThenSpace(s string) bool {
	if len(s) < 2 {
		return false
	}
	if s[0] != ',' && s[0] != ':' {
		return false
	}
	return s[1] == ' ' || s[1] == '\t' || s[1] == '\n'
}

func trimLeadingSpace(s string) string {
	return strings.TrimLeft(s, " \t\n")
}
