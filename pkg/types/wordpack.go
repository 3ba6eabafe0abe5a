// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Polarity tells whether the entries of a section group synonyms or antonyms
// under their base terms.
type Polarity string

const (
	PolaritySynonym Polarity = "synonym"
	PolarityAntonym Polarity = "antonym"
)

// Section is one titled block of a word pack.
type Section struct {
	// Index is the zero-based position of the section in the word pack.
	Index int `json:"index" yaml:"index"`

	// Name is the title captured from the header line (e.g. "Word Pack 1").
	Name string `json:"name" yaml:"name"`

	// Header is the header line exactly as written. It is re-emitted verbatim.
	Header string `json:"header" yaml:"header"`

	// Line is the 1-based line number of the header.
	Line int `json:"line" yaml:"line"`

	// Polarity is decided once, from the first entry of the section.
	Polarity Polarity `json:"polarity" yaml:"polarity"`

	Entries []Entry `json:"entries" yaml:"entries"`
}

// Entry is a base term followed by its related terms in word-pack order.
type Entry struct {
	// Label is the base term as written, including any antonym prefix marker.
	Label string `json:"label" yaml:"label"`

	// Base is Label with the antonym prefix marker removed.
	Base string `json:"base" yaml:"base"`

	// Terms are the related terms, trimmed, in the order they were written.
	Terms []string `json:"terms" yaml:"terms"`

	// Line is the 1-based line number of the entry.
	Line int `json:"line" yaml:"line"`
}
