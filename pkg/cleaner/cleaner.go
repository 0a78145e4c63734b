// Package cleaner turns noisy merchant descriptions from card and bank
// statements into canonical display text.
package cleaner

import (
	"regexp"
	"strings"
)

// Payment-processor prefixes in the order they are tried. At most one is
// removed per call; the patterns are mutually exclusive on real
// statement text.
var prefixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^TST\*\s*`),
	regexp.MustCompile(`(?i)^SQ \*\s*`),
	regexp.MustCompile(`(?i)^PP\*\s*`),
	regexp.MustCompile(`(?i)^SP \*\s*`),
	regexp.MustCompile(`(?i)^PAYPAL \*\s*`),
	regexp.MustCompile(`(?i)^POS\s*`),
	regexp.MustCompile(`(?i)^DEBIT\s*`),
}

// Normalize trims a raw description, strips the first matching
// payment-processor prefix, and collapses runs of whitespace to single
// spaces. It is pure and idempotent; it may return an empty string, and
// callers that need a non-empty description must fall back to the raw
// text themselves.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)

	for _, pattern := range prefixPatterns {
		if loc := pattern.FindStringIndex(text); loc != nil {
			text = text[loc[1]:]
			break
		}
	}

	return strings.Join(strings.Fields(text), " ")
}
