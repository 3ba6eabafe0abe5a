// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report records the outcome of one detection run: the inputs that
// were checked, the configuration, the findings and the diagnostics. A
// report is written as YAML, JSON or a SQLite database chosen by the file
// extension.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wordpack-audit/internal/relations"
	"github.com/pdiddy/wordpack-audit/internal/source"
	"github.com/pdiddy/wordpack-audit/pkg/types"
)

// Format selects how a report is written.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// Input roles.
const (
	RoleWordPack  = "wordpack"
	RoleRelations = "relations"
)

// Input is one checked input file.
type Input struct {
	Role         string `json:"role" yaml:"role"`
	source.Input `yaml:",inline"`
}

// Summary holds the headline counts of a run.
type Summary struct {
	Sections      int `json:"sections" yaml:"sections"`
	Entries       int `json:"entries" yaml:"entries"`
	RelationWords int `json:"relation_words" yaml:"relation_words"`
	Findings      int `json:"findings" yaml:"findings"`
	Diagnostics   int `json:"diagnostics" yaml:"diagnostics"`
}

// Report is the record of one run.
type Report struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	Inputs    []Input               `json:"inputs" yaml:"inputs"`
	WordPack  types.WordPackConfig  `json:"wordpack" yaml:"wordpack"`
	Relations types.RelationsConfig `json:"relations" yaml:"relations"`
	Detect    types.DetectConfig    `json:"detect" yaml:"detect"`

	Summary        Summary         `json:"summary" yaml:"summary"`
	RelationsStats relations.Stats `json:"relations_stats" yaml:"relations_stats"`

	Findings    []types.Finding    `json:"findings" yaml:"findings"`
	Diagnostics []types.Diagnostic `json:"diagnostics" yaml:"diagnostics"`

	// Sections are stored only in SQLite reports.
	Sections []types.Section `json:"-" yaml:"-"`
}

// Run bundles what a finished run produced.
type Run struct {
	WordPack    *source.Input
	Relations   *source.Input
	Config      types.AuditConfig
	Sections    []types.Section
	Database    *relations.Database
	Stats       relations.Stats
	Findings    []types.Finding
	Diagnostics []types.Diagnostic
}

// New builds a report for run with a fresh run ID.
func New(run Run) *Report {
	r := &Report{
		RunID:          uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		WordPack:       run.Config.WordPack,
		Relations:      run.Config.Relations,
		Detect:         run.Config.Detect,
		RelationsStats: run.Stats,
		Findings:       nonNil(run.Findings),
		Diagnostics:    nonNil(run.Diagnostics),
		Sections:       run.Sections,
	}
	if run.WordPack != nil {
		r.Inputs = append(r.Inputs, Input{Role: RoleWordPack, Input: *run.WordPack})
	}
	if run.Relations != nil {
		r.Inputs = append(r.Inputs, Input{Role: RoleRelations, Input: *run.Relations})
	}

	r.Summary = Summary{
		Sections:    len(run.Sections),
		Findings:    len(r.Findings),
		Diagnostics: len(r.Diagnostics),
	}
	for _, s := range run.Sections {
		r.Summary.Entries += len(s.Entries)
	}
	if run.Database != nil {
		r.Summary.RelationWords = run.Database.Len()
	}
	return r
}

// FormatFor picks the report format from the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: unsupported report extension %q: use .yaml, .json, .db or .sqlite",
			types.ErrInvalidConfig, filepath.Ext(path))
	}
}

// Write writes r to path in the format its extension selects.
func Write(ctx context.Context, path string, r *Report) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatYAML:
		return WriteYAML(path, r)
	case FormatJSON:
		return WriteJSON(path, r)
	default:
		return WriteSQLite(ctx, path, r)
	}
}

// WriteYAML writes r as a YAML document.
func WriteYAML(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteJSON writes r as indented JSON.
func WriteJSON(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Read loads a YAML or JSON report written by Write.
func Read(path string) (*Report, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var r Report
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &r)
	case FormatJSON:
		err = json.Unmarshal(data, &r)
	default:
		return nil, fmt.Errorf("reading report: %s reports are not readable back, open them with sqlite3", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
