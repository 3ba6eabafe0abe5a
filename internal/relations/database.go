// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relations

import (
	"slices"

	"github.com/pdiddy/wordpack-audit/internal/textnorm"
	"github.com/pdiddy/wordpack-audit/pkg/types"
)

// Database maps normalized words to their relation records. It is read-only
// once built and safe for concurrent use.
type Database struct {
	records map[string]types.RelationRecord
	words   []string
}

// NewDatabase builds a database from records. Words and terms are
// normalized; records for the same word are merged in argument order.
func NewDatabase(records ...types.RelationRecord) *Database {
	b := newBuilder()
	for _, rec := range records {
		word := textnorm.Normalize(rec.Word)
		if word == "" {
			continue
		}
		rb := b.record(word)
		for _, r := range rec.Synonyms {
			rb.add(types.PolaritySynonym, textnorm.Normalize(r.Term), r.Score)
		}
		for _, r := range rec.Antonyms {
			rb.add(types.PolarityAntonym, textnorm.Normalize(r.Term), r.Score)
		}
	}
	return b.freeze()
}

// Lookup returns the record for word. The word is normalized first.
func (d *Database) Lookup(word string) (types.RelationRecord, bool) {
	rec, ok := d.records[textnorm.Normalize(word)]
	if !ok {
		return types.RelationRecord{}, false
	}
	rec.Synonyms = slices.Clone(rec.Synonyms)
	rec.Antonyms = slices.Clone(rec.Antonyms)
	return rec, true
}

// Len returns the number of words with a record.
func (d *Database) Len() int {
	return len(d.records)
}

// Words returns the normalized words in the order they first appeared.
func (d *Database) Words() []string {
	return slices.Clone(d.words)
}

// builder accumulates records while the relations text is scanned.
type builder struct {
	records map[string]*recordBuilder
	words   []string
}

type recordBuilder struct {
	word     string
	synonyms []types.Relation
	antonyms []types.Relation
	index    map[types.Polarity]map[string]int
}

func newBuilder() *builder {
	return &builder{records: make(map[string]*recordBuilder)}
}

func (b *builder) record(word string) *recordBuilder {
	if rb, ok := b.records[word]; ok {
		return rb
	}
	rb := &recordBuilder{
		word: word,
		index: map[types.Polarity]map[string]int{
			types.PolaritySynonym: {},
			types.PolarityAntonym: {},
		},
	}
	b.records[word] = rb
	b.words = append(b.words, word)
	return rb
}

// add appends term to the polarity list. A repeated term keeps its first
// position and the highest score seen.
func (rb *recordBuilder) add(p types.Polarity, term string, score float64) {
	if term == "" {
		return
	}
	list := &rb.synonyms
	if p == types.PolarityAntonym {
		list = &rb.antonyms
	}
	if i, ok := rb.index[p][term]; ok {
		if score > (*list)[i].Score {
			(*list)[i].Score = score
		}
		return
	}
	rb.index[p][term] = len(*list)
	*list = append(*list, types.Relation{Term: term, Score: score})
}

func (b *builder) freeze() *Database {
	db := &Database{
		records: make(map[string]types.RelationRecord, len(b.records)),
		words:   b.words,
	}
	for word, rb := range b.records {
		db.records[word] = types.RelationRecord{
			Word:     word,
			Synonyms: rb.synonyms,
			Antonyms: rb.antonyms,
		}
	}
	return db
}
