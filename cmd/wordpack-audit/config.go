// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wordpack-audit/pkg/types"
)

// flagKeys maps command-line flags to their configuration keys. A command
// binds only the flags it defines.
var flagKeys = map[string]string{
	"log-level":           "log.level",
	"log-format":          "log.format",
	"primary-word-regex":  "relations.primary_word_pattern",
	"synonym-regex":       "relations.synonym_pattern",
	"synonym-score-regex": "relations.synonym_score_pattern",
	"antonym-regex":       "relations.antonym_pattern",
	"antonym-score-regex": "relations.antonym_score_pattern",
	"relations-delimiter": "relations.delimiter",
	"score-cutoff":        "relations.score_cutoff",
	"word-delimiter":      "wordpack.delimiter",
	"header-regex":        "wordpack.header_pattern",
	"entry-regex":         "wordpack.entry_pattern",
	"antonym-prefix":      "wordpack.antonym_prefix",
	"workers":             "detect.workers",
	"expand-antonyms":     "detect.expand_antonyms",
	"output":              "output.path",
	"report":              "output.report_path",
	"entry-prefix":        "output.entry_prefix",
	"entry-format":        "output.entry_format",
}

// configureEnv makes v read WORDPACK_AUDIT_* variables, with dots in keys
// written as underscores (WORDPACK_AUDIT_RELATIONS_SCORE_CUTOFF).
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("WORDPACK_AUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
}

// setDefaults registers every configuration key so environment variables
// resolve even when no config file sets the key.
func setDefaults(v *viper.Viper) {
	d := types.DefaultAuditConfig()

	v.SetDefault("wordpack.header_pattern", d.WordPack.HeaderPattern)
	v.SetDefault("wordpack.entry_pattern", d.WordPack.EntryPattern)
	v.SetDefault("wordpack.delimiter", d.WordPack.Delimiter)
	v.SetDefault("wordpack.antonym_prefix", d.WordPack.AntonymPrefix)

	v.SetDefault("relations.primary_word_pattern", d.Relations.PrimaryWordPattern)
	v.SetDefault("relations.synonym_pattern", d.Relations.SynonymPattern)
	v.SetDefault("relations.synonym_score_pattern", d.Relations.SynonymScorePattern)
	v.SetDefault("relations.antonym_pattern", d.Relations.AntonymPattern)
	v.SetDefault("relations.antonym_score_pattern", d.Relations.AntonymScorePattern)
	v.SetDefault("relations.delimiter", d.Relations.Delimiter)
	v.SetDefault("relations.score_cutoff", d.Relations.ScoreCutoff)

	v.SetDefault("detect.workers", d.Detect.Workers)
	v.SetDefault("detect.expand_antonyms", d.Detect.ExpandAntonyms)

	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.report_path", d.Output.ReportPath)
	v.SetDefault("output.entry_prefix", d.Output.EntryPrefix)
	v.SetDefault("output.entry_format", d.Output.EntryFormat)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// bindFlags binds the flags cmd defines to their configuration keys so
// explicitly set flags take precedence over env and file values.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// loadConfig resolves the full configuration from v. The result is not
// validated.
func loadConfig(v *viper.Viper) (types.AuditConfig, error) {
	cfg := types.DefaultAuditConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", types.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func loadLogConfig(v *viper.Viper) types.LogConfig {
	return types.LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
}

// addPatternFlags defines the flags shared by detect and validate.
func addPatternFlags(cmd *cobra.Command) {
	d := types.DefaultAuditConfig()
	f := cmd.Flags()

	f.StringP("primary-word-regex", "p", d.Relations.PrimaryWordPattern, "regex capturing the primary word of a relations block")
	f.StringP("synonym-regex", "s", d.Relations.SynonymPattern, "regex capturing a delimited list of synonyms")
	f.String("synonym-score-regex", d.Relations.SynonymScorePattern, "regex capturing the scores of a synonym list")
	f.StringP("antonym-regex", "a", d.Relations.AntonymPattern, "regex capturing a delimited list of antonyms")
	f.String("antonym-score-regex", d.Relations.AntonymScorePattern, "regex capturing the scores of an antonym list")
	f.String("relations-delimiter", d.Relations.Delimiter, "delimiter of term and score lists in the relations file")
	f.Float64P("score-cutoff", "c", d.Relations.ScoreCutoff, "drop relations scored below this value")

	f.StringP("word-delimiter", "d", d.WordPack.Delimiter, "delimiter between related terms in the word pack")
	f.String("header-regex", d.WordPack.HeaderPattern, "regex matching a word-pack section header; group 1 is the name")
	f.String("entry-regex", d.WordPack.EntryPattern, "regex matching a word-pack entry; groups are base term and term list (pair with --entry-format)")
	f.String("entry-format", d.Output.EntryFormat, "output entry layout: two %s verbs for the base term and the joined terms")
	f.String("antonym-prefix", d.WordPack.AntonymPrefix, "base term prefix marking an antonym entry")
}
