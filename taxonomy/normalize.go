package taxonomy

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes for alias normalization. Any change here must pass the
// full normalizer property suite in normalize_test.go: a broken last-segment
// extraction once misclassified labor cost lines for a reporting period.
var (
	nonTokenRegex  = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRunRegex = regexp.MustCompile(`-{2,}`)
)

// Normalize maps an arbitrary raw identifier to a normalized lookup token.
//
// Pipeline, in order:
//  1. Empty input returns "".
//  2. If the input contains '#', only the substring after the last '#' is
//     kept (composite storage keys carry the rubro identifier as their final
//     segment: "ALLOCATION#base_x#2025-06#MOD-LEAD" -> "MOD-LEAD").
//  3. Lowercase.
//  4. Every run of characters outside [a-z0-9-] becomes a single hyphen.
//  5. Consecutive hyphens collapse into one.
//  6. Leading and trailing hyphens are trimmed.
//
// Normalize is pure and total: identical input yields identical output, no
// input panics. A key that is entirely non-alphanumeric normalizes to "",
// which resolves to nothing rather than crashing.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	if idx := strings.LastIndexByte(raw, '#'); idx >= 0 {
		raw = raw[idx+1:]
	}

	token := strings.ToLower(raw)
	token = nonTokenRegex.ReplaceAllString(token, "-")
	token = hyphenRunRegex.ReplaceAllString(token, "-")
	return strings.Trim(token, "-")
}
