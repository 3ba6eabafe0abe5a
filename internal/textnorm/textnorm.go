// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm folds words to the form used for every lookup and
// comparison: surrounding whitespace trimmed and Unicode case folded.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize trims s and folds its case. It returns "" for blank input.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// A cases.Caser keeps state and is not safe for concurrent use.
	return cases.Fold().String(s)
}

// StripPrefix removes prefix from the start of label, ignoring case and
// surrounding whitespace. It reports whether the prefix was present.
func StripPrefix(label, prefix string) (string, bool) {
	label = strings.TrimSpace(label)
	if prefix == "" || len(label) < len(prefix) {
		return label, false
	}
	if !strings.EqualFold(label[:len(prefix)], prefix) {
		return label, false
	}
	return strings.TrimSpace(label[len(prefix):]), true
}

// Canonical returns the identity of a base term label: the label with any
// antonym prefix removed, normalized.
func Canonical(label, antonymPrefix string) string {
	base, _ := StripPrefix(label, antonymPrefix)
	return Normalize(base)
}
