// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relations

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wordpack-audit/pkg/types"
)

const exampleRelations = `#base_term1[syn=1.0]:synonym1|happy;[syn-score]:9.0|4.0;[contrast=1.0]:antonym3|antonym9;[contrast-score]:9.5|7.0;
#base_term2[contrast=1.0]:antonym4;[contrast-score]:8.1;
`

func parse(t *testing.T, text string, mutate ...func(*types.RelationsConfig)) *Result {
	t.Helper()
	cfg := types.DefaultRelationsConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	res, err := Parse(text, cfg)
	require.NoError(t, err)
	return res
}

func kinds(diags []types.Diagnostic) []types.DiagnosticKind {
	var out []types.DiagnosticKind
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}

func TestParseDefaultFormat(t *testing.T) {
	res := parse(t, exampleRelations)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, Stats{Lines: 2, Blocks: 2, Kept: 3, BelowCutoff: 2}, res.Stats)

	db := res.Database
	assert.Equal(t, 2, db.Len())
	assert.Equal(t, []string{"base_term1", "base_term2"}, db.Words())

	rec, ok := db.Lookup("base_term1")
	require.True(t, ok)
	assert.Equal(t, []types.Relation{{Term: "synonym1", Score: 9.0}}, rec.Synonyms)
	assert.Equal(t, []types.Relation{{Term: "antonym3", Score: 9.5}}, rec.Antonyms)
	assert.True(t, rec.Has(types.PolarityAntonym, "antonym3"))
	assert.False(t, rec.Has(types.PolaritySynonym, "antonym3"))
	assert.False(t, rec.Has(types.PolarityAntonym, "antonym9"))

	rec, ok = db.Lookup("BASE_TERM2 ")
	require.True(t, ok)
	assert.Equal(t, []types.Relation{{Term: "antonym4", Score: 8.1}}, rec.Antonyms)
	assert.Empty(t, rec.Synonyms)

	_, ok = db.Lookup("unknown")
	assert.False(t, ok)
}

func TestParseCutoffIsInclusive(t *testing.T) {
	res := parse(t, "#a[syn=1.0]:b|c|d;[syn-score]:7.99|8.0|8.01;\n")
	rec, ok := res.Database.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, []types.Relation{{Term: "c", Score: 8.0}, {Term: "d", Score: 8.01}}, rec.Synonyms)
	assert.Equal(t, 1, res.Stats.BelowCutoff)
}

func TestParseNormalizesTerms(t *testing.T) {
	res := parse(t, "# Base_Term1 [contrast=1.0]: Antonym3 |antonym3 ;[contrast-score]:9|9.5;\n")
	rec, ok := res.Database.Lookup("base_term1")
	require.True(t, ok)
	assert.Equal(t, []types.Relation{{Term: "antonym3", Score: 9.5}}, rec.Antonyms)
}

func TestParseDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  []types.DiagnosticKind
		check func(t *testing.T, res *Result)
	}{
		{
			name: "more terms than scores pairs the prefix",
			text: "#a[syn=1.0]:b|c|d;[syn-score]:9|9;\n",
			want: []types.DiagnosticKind{types.DiagScoreMismatch},
			check: func(t *testing.T, res *Result) {
				rec, _ := res.Database.Lookup("a")
				assert.Equal(t, []types.Relation{{Term: "b", Score: 9}, {Term: "c", Score: 9}}, rec.Synonyms)
				assert.Equal(t, 1, res.Stats.Dropped)
			},
		},
		{
			name: "more scores than terms pairs the prefix",
			text: "#a[syn=1.0]:b;[syn-score]:9|9|9;\n",
			want: []types.DiagnosticKind{types.DiagScoreMismatch},
			check: func(t *testing.T, res *Result) {
				rec, _ := res.Database.Lookup("a")
				assert.Equal(t, []types.Relation{{Term: "b", Score: 9}}, rec.Synonyms)
			},
		},
		{
			name: "term list without score list",
			text: "#a[contrast=1.0]:b|c;\n",
			want: []types.DiagnosticKind{types.DiagMissingScores},
			check: func(t *testing.T, res *Result) {
				rec, ok := res.Database.Lookup("a")
				require.True(t, ok)
				assert.Empty(t, rec.Antonyms)
				assert.Equal(t, 2, res.Stats.Dropped)
			},
		},
		{
			name: "score list without term list",
			text: "#a[contrast-score]:9;\n",
			want: []types.DiagnosticKind{types.DiagScoreMismatch},
		},
		{
			name: "unparseable score drops only that pair",
			text: "#a[syn=1.0]:b|c;[syn-score]:high|9;\n",
			want: []types.DiagnosticKind{types.DiagInvalidScore},
			check: func(t *testing.T, res *Result) {
				rec, _ := res.Database.Lookup("a")
				assert.Equal(t, []types.Relation{{Term: "c", Score: 9}}, rec.Synonyms)
			},
		},
		{
			name: "lines before the first word",
			text: "stray header\n\n#a[syn=1.0]:b;[syn-score]:9;\n",
			want: []types.DiagnosticKind{types.DiagOrphanBlockLine},
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, 1, res.Diagnostics[0].Line)
				assert.Equal(t, types.SourceRelations, res.Diagnostics[0].Source)
			},
		},
		{
			name: "blank primary word does not extend the previous block",
			text: "#a[syn=1.0]:x;[syn-score]:9;\n#  [syn=1.0]:y;[syn-score]:9;\n[contrast=1.0]:z;[contrast-score]:9;\n#b[syn=1.0]:w;[syn-score]:9;\n",
			want: []types.DiagnosticKind{types.DiagBlankPrimaryWord, types.DiagOrphanBlockLine},
			check: func(t *testing.T, res *Result) {
				rec, ok := res.Database.Lookup("a")
				require.True(t, ok)
				assert.Equal(t, []types.Relation{{Term: "x", Score: 9}}, rec.Synonyms)
				assert.Empty(t, rec.Antonyms)
				assert.Equal(t, 2, res.Diagnostics[0].Line)
				assert.Equal(t, 3, res.Diagnostics[1].Line)

				rec, ok = res.Database.Lookup("b")
				require.True(t, ok)
				assert.Equal(t, []types.Relation{{Term: "w", Score: 9}}, rec.Synonyms)
				assert.Equal(t, 2, res.Database.Len())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, tt.text)
			assert.Equal(t, tt.want, kinds(res.Diagnostics))
			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}

func TestParseContinuationLinesBelongToBlock(t *testing.T) {
	text := "#a\n[syn=1.0]:b|c;\n[syn-score]:9|9;\n#d\n[contrast=1.0]:e;\n[contrast-score]:9;\n"
	res := parse(t, text)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, 2, res.Stats.Blocks)

	a, _ := res.Database.Lookup("a")
	assert.Len(t, a.Synonyms, 2)
	d, _ := res.Database.Lookup("d")
	assert.Equal(t, []types.Relation{{Term: "e", Score: 9}}, d.Antonyms)
}

func TestParseMergesRepeatedWords(t *testing.T) {
	text := "#a[syn=1.0]:b|c;[syn-score]:8.5|9;\n#A[syn=1.0]:b|e;[syn-score]:9.5|9;\n"
	res := parse(t, text)
	rec, ok := res.Database.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, []types.Relation{
		{Term: "b", Score: 9.5},
		{Term: "c", Score: 9},
		{Term: "e", Score: 9},
	}, rec.Synonyms)
	assert.Equal(t, 1, res.Database.Len())
}

func TestParseCustomPatterns(t *testing.T) {
	text := `word: happy
syn: glad,joyful
synscore: 9,3
ant: sad
antscore: 10
word: tall
ant: short
antscore: 8
`
	res := parse(t, text, func(c *types.RelationsConfig) {
		c.PrimaryWordPattern = `^word:\s*(\S+)`
		c.SynonymPattern = `(?m)^syn:\s*(.+)$`
		c.SynonymScorePattern = `(?m)^synscore:\s*(.+)$`
		c.AntonymPattern = `(?m)^ant:\s*(.+)$`
		c.AntonymScorePattern = `(?m)^antscore:\s*(.+)$`
		c.Delimiter = ","
		c.ScoreCutoff = 5
	})
	assert.Empty(t, res.Diagnostics)

	happy, ok := res.Database.Lookup("happy")
	require.True(t, ok)
	assert.Equal(t, []types.Relation{{Term: "glad", Score: 9}}, happy.Synonyms)
	assert.Equal(t, []types.Relation{{Term: "sad", Score: 10}}, happy.Antonyms)

	tall, ok := res.Database.Lookup("tall")
	require.True(t, ok)
	assert.Equal(t, []types.Relation{{Term: "short", Score: 8}}, tall.Antonyms)
}

func TestNewRejectsInvalidPatterns(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.RelationsConfig)
		field  string
	}{
		{"primary does not compile", func(c *types.RelationsConfig) { c.PrimaryWordPattern = "^#([" }, "primary word"},
		{"synonym without group", func(c *types.RelationsConfig) { c.SynonymPattern = `\[syn\]` }, "synonym"},
		{"synonym score empty", func(c *types.RelationsConfig) { c.SynonymScorePattern = "" }, "synonym score"},
		{"antonym does not compile", func(c *types.RelationsConfig) { c.AntonymPattern = "(a" }, "antonym"},
		{"antonym score does not compile", func(c *types.RelationsConfig) { c.AntonymScorePattern = "a**" }, "antonym score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultRelationsConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPattern))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestNewRejectsEmptyDelimiter(t *testing.T) {
	cfg := types.DefaultRelationsConfig()
	cfg.Delimiter = ""
	_, err := New(cfg)
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestParseReadError(t *testing.T) {
	p, err := New(types.DefaultRelationsConfig())
	require.NoError(t, err)
	_, err = p.Parse(iotest.ErrReader(errors.New("disk gone")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestParseLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	p, err := New(types.DefaultRelationsConfig(), WithLogger(logger))
	require.NoError(t, err)

	_, err = p.Parse(strings.NewReader(exampleRelations))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "relations parsed")
	assert.Contains(t, buf.String(), "words=2")
}

func TestNewDatabase(t *testing.T) {
	db := NewDatabase(
		types.RelationRecord{Word: " Alpha", Synonyms: []types.Relation{{Term: "Beta ", Score: 9}}},
		types.RelationRecord{Word: "alpha", Antonyms: []types.Relation{{Term: "omega", Score: 9}}},
		types.RelationRecord{Word: "  "},
	)
	assert.Equal(t, 1, db.Len())
	rec, ok := db.Lookup("ALPHA")
	require.True(t, ok)
	assert.True(t, rec.Has(types.PolaritySynonym, "beta"))
	assert.True(t, rec.Has(types.PolarityAntonym, "omega"))

	// Lookups hand out copies.
	rec.Synonyms[0].Term = "mutated"
	again, _ := db.Lookup("alpha")
	assert.Equal(t, "beta", again.Synonyms[0].Term)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	long := strings.Repeat("é", 41)
	got := truncate(long)
	assert.True(t, utf8.ValidString(got), "got %q", got)
	assert.LessOrEqual(t, len(got), 80)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("é", 38)+"...", got)

	assert.Equal(t, "short", truncate("short"))
}

func TestParseBlankPrimaryWordMessageIsValidUTF8(t *testing.T) {
	res := parse(t, "#a[syn=1.0]:x;[syn-score]:9;\n#   [syn=1.0]:"+strings.Repeat("é", 60)+"\n")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, types.DiagBlankPrimaryWord, res.Diagnostics[0].Kind)
	assert.NotContains(t, res.Diagnostics[0].Message, `\x`)
}
