// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default extraction patterns. The relations defaults assume an annotation
// style where a bracketed tag names the relation kind and a parallel
// "-score" tag carries the scores, e.g.
//
//	#happy[syn=1.0]:glad|cheerful;[syn-score]:9.1|8.4;[contrast=1.0]:sad;[contrast-score]:9.7;
const (
	DefaultHeaderPattern = `^#{3}\s*(.+?)\s*#{3}\s*$`
	DefaultEntryPattern  = `^@\s*([^=]+?)\s*=\s*(.*?)\s*$`

	DefaultPrimaryWordPattern  = `^#([^\[]+)`
	DefaultSynonymPattern      = `\[(?:associated|syn|broader|custom-list|handcraft|memberof|narrower)[\w\s\-\{\}]*?=\d+\.\d+\]:([^;]+)`
	DefaultSynonymScorePattern = `\[(?:associated|syn|broader|custom-list|handcraft|memberof|narrower)[\w\s\-\{\}]*?-score\]:([^;]+)`
	DefaultAntonymPattern      = `\[(?:contrast-manual|contrast)=\d+\.\d+\]:([^;]+)`
	DefaultAntonymScorePattern = `\[(?:contrast-manual|contrast)-score\]:([^;]+)`

	DefaultWordDelimiter      = "·"
	DefaultRelationsDelimiter = "|"
	DefaultAntonymPrefix      = "ANT-"
	DefaultScoreCutoff        = 8.0
	DefaultOutputPath         = "output.txt"

	// DefaultEntryFormat writes entries in the shape DefaultEntryPattern reads.
	DefaultEntryFormat = "@ %s = %s"
)

// WordPackConfig holds the line patterns and markers of the word-pack format.
type WordPackConfig struct {
	// HeaderPattern matches a section header; group 1 is the section name.
	HeaderPattern string `json:"header_pattern" yaml:"header_pattern" mapstructure:"header_pattern"`

	// EntryPattern matches an entry line; group 1 is the base term label and
	// group 2 the delimited list of related terms.
	EntryPattern string `json:"entry_pattern" yaml:"entry_pattern" mapstructure:"entry_pattern"`

	// Delimiter separates related terms within an entry.
	Delimiter string `json:"delimiter" yaml:"delimiter" mapstructure:"delimiter"`

	// AntonymPrefix marks a base term label as belonging to an antonym section.
	AntonymPrefix string `json:"antonym_prefix" yaml:"antonym_prefix" mapstructure:"antonym_prefix"`
}

// RelationsConfig holds the extraction patterns for the relations database.
// All five patterns must have at least one capture group.
type RelationsConfig struct {
	PrimaryWordPattern  string `json:"primary_word_pattern" yaml:"primary_word_pattern" mapstructure:"primary_word_pattern"`
	SynonymPattern      string `json:"synonym_pattern" yaml:"synonym_pattern" mapstructure:"synonym_pattern"`
	SynonymScorePattern string `json:"synonym_score_pattern" yaml:"synonym_score_pattern" mapstructure:"synonym_score_pattern"`
	AntonymPattern      string `json:"antonym_pattern" yaml:"antonym_pattern" mapstructure:"antonym_pattern"`
	AntonymScorePattern string `json:"antonym_score_pattern" yaml:"antonym_score_pattern" mapstructure:"antonym_score_pattern"`

	// Delimiter splits the text captured by the term and score patterns.
	Delimiter string `json:"delimiter" yaml:"delimiter" mapstructure:"delimiter"`

	// ScoreCutoff drops relations whose score is strictly below it.
	ScoreCutoff float64 `json:"score_cutoff" yaml:"score_cutoff" mapstructure:"score_cutoff"`
}

// DetectConfig holds detector options.
type DetectConfig struct {
	// Workers is the number of sections checked concurrently. Zero or one
	// runs sequentially.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// ExpandAntonyms extends each antonym list with the synonyms of its
	// antonyms before checking antonym sections.
	ExpandAntonyms bool `json:"expand_antonyms" yaml:"expand_antonyms" mapstructure:"expand_antonyms"`
}

// OutputConfig holds output locations.
type OutputConfig struct {
	// Path is the annotated word-pack output file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// ReportPath is an optional findings report. The extension selects the
	// format: .yaml, .yml, .json, .db or .sqlite.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty" mapstructure:"report_path"`

	// EntryPrefix prefixes flagged entries with their conflicting base terms.
	EntryPrefix bool `json:"entry_prefix" yaml:"entry_prefix" mapstructure:"entry_prefix"`

	// EntryFormat lays out each output entry line with two %s verbs: the base
	// term label, then the delimited related terms. Set it together with a
	// custom entry pattern so the output keeps the input's shape.
	EntryFormat string `json:"entry_format" yaml:"entry_format" mapstructure:"entry_format"`
}

// LogConfig selects the log level (debug, info, warn, error) and format
// (text, json).
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// AuditConfig groups the configuration of one detection run.
type AuditConfig struct {
	WordPack  WordPackConfig  `json:"wordpack" yaml:"wordpack" mapstructure:"wordpack"`
	Relations RelationsConfig `json:"relations" yaml:"relations" mapstructure:"relations"`
	Detect    DetectConfig    `json:"detect" yaml:"detect" mapstructure:"detect"`
	Output    OutputConfig    `json:"output" yaml:"output" mapstructure:"output"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultWordPackConfig returns the word-pack format used by the curated packs.
func DefaultWordPackConfig() WordPackConfig {
	return WordPackConfig{
		HeaderPattern: DefaultHeaderPattern,
		EntryPattern:  DefaultEntryPattern,
		Delimiter:     DefaultWordDelimiter,
		AntonymPrefix: DefaultAntonymPrefix,
	}
}

// DefaultRelationsConfig returns the default extraction patterns and cutoff.
func DefaultRelationsConfig() RelationsConfig {
	return RelationsConfig{
		PrimaryWordPattern:  DefaultPrimaryWordPattern,
		SynonymPattern:      DefaultSynonymPattern,
		SynonymScorePattern: DefaultSynonymScorePattern,
		AntonymPattern:      DefaultAntonymPattern,
		AntonymScorePattern: DefaultAntonymScorePattern,
		Delimiter:           DefaultRelationsDelimiter,
		ScoreCutoff:         DefaultScoreCutoff,
	}
}

// DefaultAuditConfig returns a complete configuration with every default set.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		WordPack:  DefaultWordPackConfig(),
		Relations: DefaultRelationsConfig(),
		Output: OutputConfig{
			Path:        DefaultOutputPath,
			EntryPrefix: true,
			EntryFormat: DefaultEntryFormat,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Validate checks the word-pack settings that do not need compiling.
func (c WordPackConfig) Validate() error {
	if c.HeaderPattern == "" || c.EntryPattern == "" {
		return fmt.Errorf("%w: word pack header and entry patterns are required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Delimiter) == "" {
		return fmt.Errorf("%w: word delimiter must not be blank", ErrInvalidConfig)
	}
	return nil
}

// Validate checks the relations settings that do not need compiling.
func (c RelationsConfig) Validate() error {
	if c.Delimiter == "" {
		return fmt.Errorf("%w: relations delimiter must not be empty", ErrInvalidConfig)
	}
	if math.IsNaN(c.ScoreCutoff) {
		return fmt.Errorf("%w: score cutoff must be a number", ErrInvalidConfig)
	}
	return nil
}

// Validate checks the whole configuration.
func (c AuditConfig) Validate() error {
	if err := c.WordPack.Validate(); err != nil {
		return err
	}
	if err := c.Relations.Validate(); err != nil {
		return err
	}
	if c.Detect.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Detect.Workers)
	}
	return c.Output.Validate()
}

// Validate checks the output path and entry format.
func (c OutputConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	}
	if c.EntryFormat != "" && (strings.Count(c.EntryFormat, "%s") != 2 || strings.Count(c.EntryFormat, "%") != 2) {
		return fmt.Errorf("%w: entry format %q must hold exactly two %%s verbs and no other %%", ErrInvalidConfig, c.EntryFormat)
	}
	return nil
}
