// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Finding records one term that the word pack assigns to Owner while the
// relations database also relates it to Conflict, a different base term of
// the same section.
type Finding struct {
	// Section is the index of the section in the word pack.
	Section int `json:"section" yaml:"section"`

	// SectionName is the section title, kept for readable reports.
	SectionName string `json:"section_name" yaml:"section_name"`

	// Entry is the index of the owning entry within its section.
	Entry int `json:"entry" yaml:"entry"`

	// Owner is the base term under which the word pack lists Term.
	Owner string `json:"owner" yaml:"owner"`

	// Term is the flagged related term as written in the word pack.
	Term string `json:"term" yaml:"term"`

	// TermIndex is the position of Term within the owning entry.
	TermIndex int `json:"term_index" yaml:"term_index"`

	// Conflict is the other base term the relations database relates Term to.
	Conflict string `json:"conflict" yaml:"conflict"`

	Polarity Polarity `json:"polarity" yaml:"polarity"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %q under %q is also a %s of %q",
		f.SectionName, f.Term, f.Owner, f.Polarity, f.Conflict)
}

// DiagnosticSource names the input a diagnostic was raised against.
type DiagnosticSource string

const (
	SourceWordPack  DiagnosticSource = "wordpack"
	SourceRelations DiagnosticSource = "relations"
)

// DiagnosticKind categorizes non-fatal input problems.
type DiagnosticKind string

const (
	DiagSkippedLine      DiagnosticKind = "skipped-line"
	DiagOrphanEntry      DiagnosticKind = "orphan-entry"
	DiagMixedPolarity    DiagnosticKind = "mixed-polarity"
	DiagEmptySection     DiagnosticKind = "empty-section"
	DiagDuplicateEntry   DiagnosticKind = "duplicate-entry"
	DiagOrphanBlockLine  DiagnosticKind = "orphan-block-line"
	DiagBlankPrimaryWord DiagnosticKind = "blank-primary-word"
	DiagMissingScores    DiagnosticKind = "missing-scores"
	DiagScoreMismatch    DiagnosticKind = "score-mismatch"
	DiagInvalidScore     DiagnosticKind = "invalid-score"
)

// Diagnostic is a non-fatal problem found while parsing an input. The run
// continues; diagnostics are reported next to the findings.
type Diagnostic struct {
	Source  DiagnosticSource `json:"source" yaml:"source"`
	Line    int              `json:"line" yaml:"line"`
	Kind    DiagnosticKind   `json:"kind" yaml:"kind"`
	Message string           `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", d.Source, d.Line, d.Kind, d.Message)
}
