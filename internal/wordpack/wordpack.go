// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wordpack parses word-pack files into ordered sections of entries.
//
// A word pack is a sequence of sections. Each section starts with a header
// line and holds entry lines of the form
//
//	@ <base term> = <term> · <term> · ...
//
// A base term carrying the antonym prefix marker (ANT- by default) makes its
// section an antonym section. Lines that match neither shape are skipped and
// reported as diagnostics; parsing never stops on malformed input.
package wordpack

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/wordpack-audit/internal/textnorm"
	"github.com/pdiddy/wordpack-audit/pkg/types"
)

// Parser turns word-pack text into sections. It is safe for concurrent use.
type Parser struct {
	header    *regexp.Regexp
	entry     *regexp.Regexp
	delimiter string
	prefix    string
}

// Result holds the parsed sections in file order and the diagnostics raised
// while parsing.
type Result struct {
	Sections    []types.Section
	Diagnostics []types.Diagnostic
}

// New validates cfg and compiles its line patterns. The header pattern needs
// one capture group and the entry pattern two.
func New(cfg types.WordPackConfig) (*Parser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	header, err := compile("header", cfg.HeaderPattern, 1)
	if err != nil {
		return nil, err
	}
	entry, err := compile("entry", cfg.EntryPattern, 2)
	if err != nil {
		return nil, err
	}
	return &Parser{
		header:    header,
		entry:     entry,
		delimiter: cfg.Delimiter,
		prefix:    cfg.AntonymPrefix,
	}, nil
}

// Parse is a convenience wrapper around New and Parser.Parse.
func Parse(text string, cfg types.WordPackConfig) (*Result, error) {
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return p.Parse(text), nil
}

func compile(name, pattern string, groups int) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s pattern %q: %v", types.ErrInvalidConfig, name, pattern, err)
	}
	if re.NumSubexp() < groups {
		return nil, fmt.Errorf("%w: %s pattern %q needs %d capture group(s), has %d",
			types.ErrInvalidConfig, name, pattern, groups, re.NumSubexp())
	}
	return re, nil
}

// sectionState accumulates one section while its lines are read.
type sectionState struct {
	section  types.Section
	polarity bool
	seen     map[string]int
}

// Parse reads text line by line. Blank lines are ignored.
func (p *Parser) Parse(text string) *Result {
	res := &Result{}
	var cur *sectionState

	warn := func(line int, kind types.DiagnosticKind, format string, args ...any) {
		res.Diagnostics = append(res.Diagnostics, types.Diagnostic{
			Source:  types.SourceWordPack,
			Line:    line,
			Kind:    kind,
			Message: fmt.Sprintf(format, args...),
		})
	}

	flush := func() {
		if cur == nil {
			return
		}
		if len(cur.section.Entries) == 0 {
			warn(cur.section.Line, types.DiagEmptySection, "section %q has no entries", cur.section.Name)
			cur.section.Polarity = types.PolaritySynonym
		}
		res.Sections = append(res.Sections, cur.section)
		cur = nil
	}

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := p.header.FindStringSubmatch(line); m != nil {
			flush()
			cur = &sectionState{
				section: types.Section{
					Index:  len(res.Sections),
					Name:   strings.TrimSpace(m[1]),
					Header: line,
					Line:   lineNo,
				},
				seen: make(map[string]int),
			}
			continue
		}

		m := p.entry.FindStringSubmatch(line)
		if m == nil {
			warn(lineNo, types.DiagSkippedLine, "line matches neither a section header nor an entry: %q", line)
			continue
		}
		if cur == nil {
			warn(lineNo, types.DiagOrphanEntry, "entry appears before any section header: %q", line)
			continue
		}

		entry, antonym := p.parseEntry(m[1], m[2], lineNo)
		polarity := types.PolaritySynonym
		if antonym {
			polarity = types.PolarityAntonym
		}

		if !cur.polarity {
			cur.section.Polarity = polarity
			cur.polarity = true
		} else if polarity != cur.section.Polarity {
			warn(lineNo, types.DiagMixedPolarity,
				"entry %q is %s but section %q is %s; checked as %s",
				entry.Label, polarity, cur.section.Name, cur.section.Polarity, cur.section.Polarity)
		}

		key := textnorm.Normalize(entry.Base)
		if first, ok := cur.seen[key]; ok {
			warn(lineNo, types.DiagDuplicateEntry,
				"base term %q already appears on line %d of section %q", entry.Base, first, cur.section.Name)
		} else {
			cur.seen[key] = lineNo
		}

		cur.section.Entries = append(cur.section.Entries, entry)
	}
	flush()

	return res
}

func (p *Parser) parseEntry(label, list string, lineNo int) (types.Entry, bool) {
	label = strings.TrimSpace(label)
	base, antonym := textnorm.StripPrefix(label, p.prefix)
	return types.Entry{
		Label: label,
		Base:  base,
		Terms: SplitTerms(list, p.delimiter),
		Line:  lineNo,
	}, antonym
}

// SplitTerms splits list on delimiter, trims each term and drops empty ones.
func SplitTerms(list, delimiter string) []string {
	parts := strings.Split(list, delimiter)
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
