// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes a word pack back out with ambiguous terms marked in
// place. A flagged term is wrapped as
//
//	[ <conflicting base term>, ... : <term> ]
//
// and an entry holding flagged terms can be prefixed with the list of base
// terms it conflicts with.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/wordpack-audit/pkg/types"
)

// Options controls the output shape.
type Options struct {
	// Delimiter is written between related terms, padded with one space on
	// each side.
	Delimiter string

	// EntryPrefix writes "[ <conflicts> ] " before each flagged entry.
	EntryPrefix bool

	// EntryFormat lays out an entry line from two %s verbs: the label, then
	// the delimited terms. Empty means types.DefaultEntryFormat.
	EntryFormat string
}

// DefaultOptions matches the default word-pack format.
func DefaultOptions() Options {
	return Options{
		Delimiter:   types.DefaultWordDelimiter,
		EntryPrefix: true,
		EntryFormat: types.DefaultEntryFormat,
	}
}

type entryKey struct {
	section int
	entry   int
}

// marks maps term positions of one entry to their conflicting base terms,
// each listed once in finding order.
type marks struct {
	byTerm map[int][]string
}

// Render returns the annotated word pack. The same sections and findings
// always give byte-identical output. Findings that do not point at an
// existing term are ignored.
func Render(sections []types.Section, findings []types.Finding, opts Options) string {
	if opts.Delimiter == "" {
		opts.Delimiter = types.DefaultWordDelimiter
	}
	if opts.EntryFormat == "" {
		opts.EntryFormat = types.DefaultEntryFormat
	}
	index := indexFindings(findings)

	var b strings.Builder
	for _, s := range sections {
		b.WriteString(s.Header)
		b.WriteByte('\n')
		for ei, e := range s.Entries {
			writeEntry(&b, e, index[entryKey{section: s.Index, entry: ei}], opts)
		}
	}
	return b.String()
}

func indexFindings(findings []types.Finding) map[entryKey]*marks {
	index := make(map[entryKey]*marks)
	for _, f := range findings {
		k := entryKey{section: f.Section, entry: f.Entry}
		m, ok := index[k]
		if !ok {
			m = &marks{byTerm: make(map[int][]string)}
			index[k] = m
		}
		m.byTerm[f.TermIndex] = appendOnce(m.byTerm[f.TermIndex], f.Conflict)
	}
	return index
}

func writeEntry(b *strings.Builder, e types.Entry, m *marks, opts Options) {
	if m != nil && opts.EntryPrefix {
		if conflicts := entryConflicts(e, m); len(conflicts) > 0 {
			b.WriteString("[ ")
			b.WriteString(strings.Join(conflicts, ", "))
			b.WriteString(" ] ")
		}
	}
	terms := make([]string, len(e.Terms))
	for i, term := range e.Terms {
		terms[i] = term
		if m != nil {
			if conflicts, ok := m.byTerm[i]; ok {
				terms[i] = Mark(term, conflicts)
			}
		}
	}
	line := fmt.Sprintf(opts.EntryFormat, e.Label, strings.Join(terms, " "+opts.Delimiter+" "))
	b.WriteString(strings.TrimRight(line, " "))
	b.WriteByte('\n')
}

// entryConflicts lists the conflicts of the entry's marked terms in term
// order.
func entryConflicts(e types.Entry, m *marks) []string {
	var out []string
	for i := range e.Terms {
		for _, c := range m.byTerm[i] {
			out = appendOnce(out, c)
		}
	}
	return out
}

// Mark wraps term with the marker naming its conflicting base terms.
func Mark(term string, conflicts []string) string {
	return "[ " + strings.Join(conflicts, ", ") + " : " + term + " ]"
}

var (
	termMarker  = regexp.MustCompile(`\[ [^\[\]]*? : ([^\[\]]+?) \]`)
	entryMarker = regexp.MustCompile(`(?m)^\[ [^\[\]]* \] (@)`)
)

// Unmark strips every marker from rendered text, leaving the terms as they
// were written.
func Unmark(text string) string {
	text = entryMarker.ReplaceAllString(text, "$1")
	return termMarker.ReplaceAllString(text, "$1")
}

func appendOnce(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
