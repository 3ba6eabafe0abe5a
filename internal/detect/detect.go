// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detect finds ambiguous term assignments in a parsed word pack.
//
// Within one section the word pack partitions terms across base terms. A
// term listed under one base term is ambiguous when the relations database
// relates it, with the section's polarity, to a different base term of the
// same section. A base term missing from the database contributes no
// findings as the conflicting side.
package detect

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/wordpack-audit/internal/relations"
	"github.com/pdiddy/wordpack-audit/internal/textnorm"
	"github.com/pdiddy/wordpack-audit/pkg/types"
)

// Detector checks sections against a relations database. The zero value
// checks sections one after another with plain polarity matching.
type Detector struct {
	// Workers bounds how many sections are checked at once. Values below
	// two run sequentially.
	Workers int

	// ExpandAntonyms extends, in antonym sections, the conflicting base
	// term's antonyms with the synonyms of each of those antonyms.
	ExpandAntonyms bool
}

// New returns a Detector configured from cfg.
func New(cfg types.DetectConfig) *Detector {
	return &Detector{Workers: cfg.Workers, ExpandAntonyms: cfg.ExpandAntonyms}
}

// Detect checks sections sequentially with plain polarity matching. It has
// no side effects.
func Detect(sections []types.Section, db *relations.Database) []types.Finding {
	var d Detector
	out := make([]types.Finding, 0)
	for _, s := range sections {
		out = append(out, d.Section(s, db)...)
	}
	return out
}

// Run checks every section and returns the findings in section order. The
// result does not depend on Workers. Run stops early only when ctx is done.
func (d *Detector) Run(ctx context.Context, sections []types.Section, db *relations.Database) ([]types.Finding, error) {
	perSection := make([][]types.Finding, len(sections))

	if d.Workers < 2 {
		for i, s := range sections {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			perSection[i] = d.Section(s, db)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.Workers)
		for i := range sections {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				perSection[i] = d.Section(sections[i], db)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	out := make([]types.Finding, 0)
	for _, fs := range perSection {
		out = append(out, fs...)
	}
	return out, nil
}

// Section checks one section. Findings are ordered by owning entry, then
// conflicting entry, then term position.
func (d *Detector) Section(s types.Section, db *relations.Database) []types.Finding {
	canon := make([]string, len(s.Entries))
	related := make([]map[string]bool, len(s.Entries))
	for i, e := range s.Entries {
		canon[i] = textnorm.Normalize(e.Base)
		related[i] = d.relatedTerms(s.Polarity, canon[i], db)
	}

	var out []types.Finding
	for oi, owner := range s.Entries {
		for ci, other := range s.Entries {
			if oi == ci || canon[oi] == canon[ci] || related[ci] == nil {
				continue
			}
			for ti, term := range owner.Terms {
				if !related[ci][textnorm.Normalize(term)] {
					continue
				}
				out = append(out, types.Finding{
					Section:     s.Index,
					SectionName: s.Name,
					Entry:       oi,
					Owner:       owner.Base,
					Term:        term,
					TermIndex:   ti,
					Conflict:    other.Base,
					Polarity:    s.Polarity,
				})
			}
		}
	}
	return out
}

// relatedTerms returns the set of terms the database relates to word with
// polarity p, or nil when the word has no record.
func (d *Detector) relatedTerms(p types.Polarity, word string, db *relations.Database) map[string]bool {
	if word == "" {
		return nil
	}
	rec, ok := db.Lookup(word)
	if !ok {
		return nil
	}
	set := make(map[string]bool)
	for _, r := range rec.Relations(p) {
		set[r.Term] = true
	}
	if d.ExpandAntonyms && p == types.PolarityAntonym {
		for _, r := range rec.Antonyms {
			if syn, ok := db.Lookup(r.Term); ok {
				for _, s := range syn.Synonyms {
					set[s.Term] = true
				}
			}
		}
	}
	return set
}
