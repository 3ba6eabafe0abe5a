// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wordpack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wordpack-audit/pkg/types"
)

const examplePack = `### Word Pack 1 ###
@ base_term1 = synonym1 · synonym2 · synonym3
@ base_term2 = synonym4 · synonym5 · synonym6
### Word Pack 2 ###
@ ANT-base_term1 = antonym1 · antonym2
@ ANT-base_term2 = antonym3 · antonym4 · antonym6
`

func mustParse(t *testing.T, text string) *Result {
	t.Helper()
	res, err := Parse(text, types.DefaultWordPackConfig())
	require.NoError(t, err)
	return res
}

func TestParseExamplePack(t *testing.T) {
	res := mustParse(t, examplePack)
	require.Len(t, res.Sections, 2)
	assert.Empty(t, res.Diagnostics)

	s1 := res.Sections[0]
	assert.Equal(t, 0, s1.Index)
	assert.Equal(t, "Word Pack 1", s1.Name)
	assert.Equal(t, "### Word Pack 1 ###", s1.Header)
	assert.Equal(t, 1, s1.Line)
	assert.Equal(t, types.PolaritySynonym, s1.Polarity)
	require.Len(t, s1.Entries, 2)
	assert.Equal(t, types.Entry{
		Label: "base_term1",
		Base:  "base_term1",
		Terms: []string{"synonym1", "synonym2", "synonym3"},
		Line:  2,
	}, s1.Entries[0])

	s2 := res.Sections[1]
	assert.Equal(t, 1, s2.Index)
	assert.Equal(t, types.PolarityAntonym, s2.Polarity)
	require.Len(t, s2.Entries, 2)
	assert.Equal(t, "ANT-base_term2", s2.Entries[1].Label)
	assert.Equal(t, "base_term2", s2.Entries[1].Base)
	assert.Equal(t, []string{"antonym3", "antonym4", "antonym6"}, s2.Entries[1].Terms)
}

func TestParseDiagnostics(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantKinds []types.DiagnosticKind
		wantLines []int
		sections  int
	}{
		{
			name:      "malformed line is skipped",
			text:      "### 1 ###\n@ a = b · c\nthis is not an entry\n@ d = e\n",
			wantKinds: []types.DiagnosticKind{types.DiagSkippedLine},
			wantLines: []int{3},
			sections:  1,
		},
		{
			name:      "entry before header",
			text:      "@ a = b\n### 1 ###\n@ c = d\n",
			wantKinds: []types.DiagnosticKind{types.DiagOrphanEntry},
			wantLines: []int{1},
			sections:  1,
		},
		{
			name:      "mixed polarity",
			text:      "### 1 ###\n@ ANT-a = b\n@ c = d\n",
			wantKinds: []types.DiagnosticKind{types.DiagMixedPolarity},
			wantLines: []int{3},
			sections:  1,
		},
		{
			name:      "empty section",
			text:      "### 1 ###\n### 2 ###\n@ a = b\n",
			wantKinds: []types.DiagnosticKind{types.DiagEmptySection},
			wantLines: []int{1},
			sections:  2,
		},
		{
			name:      "duplicate base term",
			text:      "### 1 ###\n@ Alpha = b\n@ alpha = c\n",
			wantKinds: []types.DiagnosticKind{types.DiagDuplicateEntry},
			wantLines: []int{3},
			sections:  1,
		},
		{
			name:     "blank lines and CRLF are ignored",
			text:     "### 1 ###\r\n\r\n@ a = b\r\n   \n",
			sections: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, tt.text)
			assert.Len(t, res.Sections, tt.sections)
			var kinds []types.DiagnosticKind
			var lines []int
			for _, d := range res.Diagnostics {
				assert.Equal(t, types.SourceWordPack, d.Source)
				assert.NotEmpty(t, d.Message)
				kinds = append(kinds, d.Kind)
				lines = append(lines, d.Line)
			}
			assert.Equal(t, tt.wantKinds, kinds)
			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestParseMixedPolarityKeepsSectionPolarity(t *testing.T) {
	res := mustParse(t, "### 1 ###\n@ ANT-a = b\n@ c = d\n")
	require.Len(t, res.Sections, 1)
	s := res.Sections[0]
	assert.Equal(t, types.PolarityAntonym, s.Polarity)
	require.Len(t, s.Entries, 2)
	assert.Equal(t, "c", s.Entries[1].Base)
}

func TestParseCRLFHeaderIsVerbatimWithoutCR(t *testing.T) {
	res := mustParse(t, "### 1 ###\r\n@ a = b\r\n")
	require.Len(t, res.Sections, 1)
	assert.Equal(t, "### 1 ###", res.Sections[0].Header)
	assert.Equal(t, []string{"b"}, res.Sections[0].Entries[0].Terms)
}

func TestParseCustomDelimiter(t *testing.T) {
	cfg := types.DefaultWordPackConfig()
	cfg.Delimiter = ","
	res, err := Parse("### 1 ###\n@ a = b, c ,, d\n", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, res.Sections[0].Entries[0].Terms)
}

func TestNewRejectsBadPatterns(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.WordPackConfig)
	}{
		{"header does not compile", func(c *types.WordPackConfig) { c.HeaderPattern = "([" }},
		{"header without group", func(c *types.WordPackConfig) { c.HeaderPattern = "^###.*###$" }},
		{"entry with one group", func(c *types.WordPackConfig) { c.EntryPattern = `^@ (\S+) =` }},
		{"blank delimiter", func(c *types.WordPackConfig) { c.Delimiter = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultWordPackConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrInvalidConfig))
		})
	}
}

func TestSplitTerms(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, SplitTerms(" a · b c·d · ", "·"))
	assert.Empty(t, SplitTerms("", "·"))
}
