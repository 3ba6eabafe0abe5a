// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wordpack-audit/internal/detect"
	"github.com/pdiddy/wordpack-audit/internal/relations"
	"github.com/pdiddy/wordpack-audit/internal/render"
	"github.com/pdiddy/wordpack-audit/internal/report"
	"github.com/pdiddy/wordpack-audit/internal/source"
	"github.com/pdiddy/wordpack-audit/internal/wordpack"
	"github.com/pdiddy/wordpack-audit/pkg/types"
)

// errFindings is returned by detect --fail-on-findings when anything was flagged.
var errFindings = errors.New("ambiguous terms found")

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Mark ambiguous terms in a word pack",
	Long: `Detect parses a word pack and a relations file, flags every term that the
relations database also relates to another base term of the same section,
and writes the word pack back out with each flagged term marked as
"[ <conflicting base terms> : <term> ]".

Relations scored below --score-cutoff are ignored. Inputs ending in .xz are
decompressed on the fly. With --report the findings and parse diagnostics
are also written as YAML, JSON or SQLite, chosen by the file extension.

Entries are written back as "@ <base term> = <terms>". When --entry-regex
reads a different entry shape, set --entry-format to the matching layout,
e.g. --entry-regex '^(\S+):\s*(.*)$' --entry-format '%s: %s'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		wordpacksPath, _ := cmd.Flags().GetString("wordpacks")
		relationsPath, _ := cmd.Flags().GetString("relations")
		failOnFindings, _ := cmd.Flags().GetBool("fail-on-findings")

		run, err := runDetect(cmd.Context(), cfg, wordpacksPath, relationsPath, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d ambiguous terms in %d sections, written to %s\n",
			len(run.Findings), len(run.Sections), cfg.Output.Path)

		if failOnFindings && len(run.Findings) > 0 {
			return fmt.Errorf("%w: %d", errFindings, len(run.Findings))
		}
		return nil
	},
}

func init() {
	d := types.DefaultAuditConfig()
	f := detectCmd.Flags()

	f.StringP("wordpacks", "w", "", "word pack file to check (.xz accepted)")
	f.StringP("relations", "r", "", "word relations file (.xz accepted)")
	addPatternFlags(detectCmd)
	f.StringP("output", "o", d.Output.Path, "annotated word pack output file")
	f.String("report", "", "findings report file: .yaml, .yml, .json, .db or .sqlite")
	f.Bool("entry-prefix", d.Output.EntryPrefix, "prefix flagged entries with their conflicting base terms")
	f.Int("workers", d.Detect.Workers, "sections checked concurrently (0 or 1 runs sequentially)")
	f.Bool("expand-antonyms", d.Detect.ExpandAntonyms, "also flag synonyms of a base term's antonyms in antonym sections")
	f.Bool("fail-on-findings", false, "exit with an error when any term is flagged")

	_ = detectCmd.MarkFlagRequired("wordpacks")
	_ = detectCmd.MarkFlagRequired("relations")

	rootCmd.AddCommand(detectCmd)
}

// parsers holds the compiled parsers of one run.
type parsers struct {
	wordpack  *wordpack.Parser
	relations *relations.Parser
}

// compileParsers validates cfg and compiles every pattern. It reads no input.
func compileParsers(cfg types.AuditConfig, logger *slog.Logger) (*parsers, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Output.ReportPath != "" {
		if _, err := report.FormatFor(cfg.Output.ReportPath); err != nil {
			return nil, err
		}
	}

	rp, err := relations.New(cfg.Relations, relations.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	wp, err := wordpack.New(cfg.WordPack)
	if err != nil {
		return nil, err
	}
	return &parsers{wordpack: wp, relations: rp}, nil
}

// runDetect runs the whole pipeline: compile, read, parse, detect, render
// and write. Patterns are compiled before either input is opened.
func runDetect(ctx context.Context, cfg types.AuditConfig, wordpacksPath, relationsPath string, logger *slog.Logger) (*report.Run, error) {
	p, err := compileParsers(cfg, logger)
	if err != nil {
		return nil, err
	}

	inputs, err := source.ReadAll(wordpacksPath, relationsPath)
	if err != nil {
		return nil, err
	}
	packIn, relIn := inputs[0], inputs[1]

	pack := p.wordpack.Parse(packIn.Text)
	logger.Info("word pack parsed", "path", packIn.Path, "sections", len(pack.Sections))

	rels, err := p.relations.Parse(strings.NewReader(relIn.Text))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", relIn.Path, err)
	}

	diags := append(append([]types.Diagnostic{}, pack.Diagnostics...), rels.Diagnostics...)
	for _, d := range diags {
		logger.Warn(d.Message, "source", d.Source, "line", d.Line, "kind", d.Kind)
	}

	findings, err := detect.New(cfg.Detect).Run(ctx, pack.Sections, rels.Database)
	if err != nil {
		return nil, fmt.Errorf("detecting: %w", err)
	}

	out := render.Render(pack.Sections, findings, render.Options{
		Delimiter:   cfg.WordPack.Delimiter,
		EntryPrefix: cfg.Output.EntryPrefix,
		EntryFormat: cfg.Output.EntryFormat,
	})
	if err := os.WriteFile(cfg.Output.Path, []byte(out), 0o644); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	run := &report.Run{
		WordPack:    packIn,
		Relations:   relIn,
		Config:      cfg,
		Sections:    pack.Sections,
		Database:    rels.Database,
		Stats:       rels.Stats,
		Findings:    findings,
		Diagnostics: diags,
	}
	if cfg.Output.ReportPath != "" {
		if err := report.Write(ctx, cfg.Output.ReportPath, report.New(*run)); err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}
		logger.Info("report written", "path", cfg.Output.ReportPath)
	}

	logger.Info("detection finished",
		"findings", len(findings),
		"diagnostics", len(diags),
		"output", cfg.Output.Path,
	)
	return run, nil
}
