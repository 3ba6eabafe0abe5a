// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relations builds the word-relations database from free-form text.
//
// The text is opaque except through five extraction patterns. The primary
// word pattern, matched at the start of a line, opens a block and captures
// the word the block describes; lines that follow belong to that block until
// the next primary word. Inside a block the synonym and antonym patterns
// capture delimited term lists and the matching score patterns capture the
// parallel score lists. The n-th term list pairs with the n-th score list and
// terms pair with scores by position.
package relations

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/wordpack-audit/internal/textnorm"
	"github.com/pdiddy/wordpack-audit/pkg/types"
)

// ErrInvalidPattern is wrapped by every pattern compilation error.
var ErrInvalidPattern = errors.New("invalid extraction pattern")

// progressEvery controls how often parsing progress is logged.
const progressEvery = 100000

// Parser extracts relation records from text. It is safe for concurrent use.
type Parser struct {
	primary   *regexp.Regexp
	lists     []relationList
	delimiter string
	cutoff    float64
	logger    *slog.Logger
}

// relationList pairs the term and score patterns of one polarity.
type relationList struct {
	polarity types.Polarity
	terms    *regexp.Regexp
	scores   *regexp.Regexp
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// Stats counts what happened to the relations seen while parsing.
type Stats struct {
	Lines       int `json:"lines" yaml:"lines"`
	Blocks      int `json:"blocks" yaml:"blocks"`
	Kept        int `json:"kept" yaml:"kept"`
	BelowCutoff int `json:"below_cutoff" yaml:"below_cutoff"`
	Dropped     int `json:"dropped" yaml:"dropped"`
}

// Result holds the database and what was reported while building it.
type Result struct {
	Database    *Database
	Diagnostics []types.Diagnostic
	Stats       Stats
}

// New compiles all five patterns of cfg. Nothing is scanned until Parse, so
// a bad pattern is reported before any input is read.
func New(cfg types.RelationsConfig, opts ...Option) (*Parser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	patterns := []struct {
		field   string
		pattern string
	}{
		{field: "primary word", pattern: cfg.PrimaryWordPattern},
		{field: "synonym", pattern: cfg.SynonymPattern},
		{field: "synonym score", pattern: cfg.SynonymScorePattern},
		{field: "antonym", pattern: cfg.AntonymPattern},
		{field: "antonym score", pattern: cfg.AntonymScorePattern},
	}
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, pt := range patterns {
		re, err := Compile(pt.field, pt.pattern)
		if err != nil {
			return nil, err
		}
		compiled[i] = re
	}

	p := &Parser{
		primary: compiled[0],
		lists: []relationList{
			{polarity: types.PolaritySynonym, terms: compiled[1], scores: compiled[2]},
			{polarity: types.PolarityAntonym, terms: compiled[3], scores: compiled[4]},
		},
		delimiter: cfg.Delimiter,
		cutoff:    cfg.ScoreCutoff,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Compile compiles one extraction pattern. The pattern must have at least
// one capture group; group 1 is what gets extracted.
func Compile(field, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: %s pattern is empty", ErrInvalidPattern, field)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s pattern %q: %v", ErrInvalidPattern, field, pattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("%w: %s pattern %q has no capture group", ErrInvalidPattern, field, pattern)
	}
	return re, nil
}

// Parse is a convenience wrapper that compiles cfg and parses text.
func Parse(text string, cfg types.RelationsConfig, opts ...Option) (*Result, error) {
	p, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(strings.NewReader(text))
}

// block is the text of one primary word and the line it started on.
type block struct {
	word  string
	line  int
	lines []string
}

// Parse reads r to the end and builds the database. Only read errors are
// returned; malformed content becomes diagnostics.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	res := &Result{}
	b := newBuilder()
	br := bufio.NewReader(r)

	var cur *block
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading relations at line %d: %w", lineNo+1, err)
		}
		if line != "" || err == nil {
			lineNo++
			p.scanLine(strings.TrimRight(line, "\r\n"), lineNo, &cur, b, res)
			if lineNo%progressEvery == 0 {
				p.logger.Debug("parsing relations", slog.Int("line", lineNo), slog.Int("words", len(b.records)))
			}
		}
		if err == io.EOF {
			break
		}
	}
	if cur != nil {
		p.extract(cur, b, res)
	}

	res.Stats.Lines = lineNo
	res.Database = b.freeze()
	p.logger.Info("relations parsed",
		slog.Int("lines", res.Stats.Lines),
		slog.Int("words", res.Database.Len()),
		slog.Int("kept", res.Stats.Kept),
		slog.Int("below_cutoff", res.Stats.BelowCutoff),
		slog.Int("dropped", res.Stats.Dropped))
	return res, nil
}

func (p *Parser) scanLine(line string, lineNo int, cur **block, b *builder, res *Result) {
	if loc := p.primary.FindStringSubmatchIndex(line); loc != nil && loc[0] == 0 && loc[2] >= 0 {
		if *cur != nil {
			p.extract(*cur, b, res)
			*cur = nil
		}
		word := textnorm.Normalize(line[loc[2]:loc[3]])
		if word == "" {
			// The lines up to the next primary word belong to no known word.
			res.warn(lineNo, types.DiagBlankPrimaryWord, "primary word is blank; block ignored: %q", truncate(line))
			return
		}
		*cur = &block{word: word, line: lineNo, lines: []string{line}}
		return
	}
	if strings.TrimSpace(line) == "" {
		return
	}
	if *cur == nil {
		res.warn(lineNo, types.DiagOrphanBlockLine, "line belongs to no primary word: %q", truncate(line))
		return
	}
	(*cur).lines = append((*cur).lines, line)
}

// extract pulls the relation lists out of one block into the builder.
func (p *Parser) extract(blk *block, b *builder, res *Result) {
	res.Stats.Blocks++
	rb := b.record(blk.word)
	text := strings.Join(blk.lines, "\n")

	for _, rl := range p.lists {
		termMatches := rl.terms.FindAllStringSubmatch(text, -1)
		scoreMatches := rl.scores.FindAllStringSubmatch(text, -1)

		for n, tm := range termMatches {
			terms := strings.Split(tm[1], p.delimiter)
			if n >= len(scoreMatches) {
				res.warn(blk.line, types.DiagMissingScores,
					"%q: %s list %d has no matching score list; %d term(s) dropped",
					blk.word, rl.polarity, n+1, len(terms))
				res.Stats.Dropped += len(terms)
				continue
			}
			scores := strings.Split(scoreMatches[n][1], p.delimiter)
			if len(terms) != len(scores) {
				res.warn(blk.line, types.DiagScoreMismatch,
					"%q: %s list %d has %d term(s) and %d score(s); only the first %d are paired",
					blk.word, rl.polarity, n+1, len(terms), len(scores), min(len(terms), len(scores)))
				if len(terms) > len(scores) {
					res.Stats.Dropped += len(terms) - len(scores)
				}
			}
			p.pair(blk, rl.polarity, terms, scores, rb, res)
		}
		if extra := len(scoreMatches) - len(termMatches); extra > 0 {
			res.warn(blk.line, types.DiagScoreMismatch,
				"%q: %d %s score list(s) have no matching term list", blk.word, extra, rl.polarity)
		}
	}
}

func (p *Parser) pair(blk *block, pol types.Polarity, terms, scores []string, rb *recordBuilder, res *Result) {
	for i := range min(len(terms), len(scores)) {
		term := textnorm.Normalize(terms[i])
		if term == "" {
			continue
		}
		raw := strings.TrimSpace(scores[i])
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(score) {
			res.warn(blk.line, types.DiagInvalidScore, "%q: %s %q has invalid score %q", blk.word, pol, term, raw)
			res.Stats.Dropped++
			continue
		}
		if score < p.cutoff {
			res.Stats.BelowCutoff++
			continue
		}
		rb.add(pol, term, score)
		res.Stats.Kept++
	}
}

func (r *Result) warn(line int, kind types.DiagnosticKind, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, types.Diagnostic{
		Source:  types.SourceRelations,
		Line:    line,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// truncate shortens s to at most 80 bytes without splitting a rune.
func truncate(s string) string {
	const limit = 80
	if len(s) <= limit {
		return s
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
