// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Relation is one related term with the confidence score the relations
// database gives it.
type Relation struct {
	Term  string  `json:"term" yaml:"term"`
	Score float64 `json:"score" yaml:"score"`
}

// RelationRecord holds the synonyms and antonyms of one word after score
// cutoff filtering. Terms are stored normalized.
type RelationRecord struct {
	// Word is the normalized word the record describes.
	Word string `json:"word" yaml:"word"`

	Synonyms []Relation `json:"synonyms" yaml:"synonyms"`
	Antonyms []Relation `json:"antonyms" yaml:"antonyms"`
}

// Relations returns the list matching polarity p.
func (r RelationRecord) Relations(p Polarity) []Relation {
	if p == PolarityAntonym {
		return r.Antonyms
	}
	return r.Synonyms
}

// Has reports whether the normalized term appears in the list for polarity p.
func (r RelationRecord) Has(p Polarity, term string) bool {
	for _, rel := range r.Relations(p) {
		if rel.Term == term {
			return true
		}
	}
	return false
}
