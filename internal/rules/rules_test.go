package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, table.Cleaner.ArtifactTokens)
	assert.NotEmpty(t, table.Cleaner.ArtifactPatterns)
	assert.InDelta(t, 0.5, table.Cleaner.MojibakeRatio, 1e-9)

	assert.Contains(t, table.Headers.Parameter, "参数")
	assert.Contains(t, table.Headers.Unit, "unit")

	for _, cat := range []string{"word_artifact", "document_structure", "non_technical", "format_only"} {
		assert.NotEmpty(t, table.Validator.InvalidPatterns[cat], "category %s", cat)
	}
	assert.NotEmpty(t, table.Validator.ValidPatterns)

	weightSum := 0.0
	for _, w := range table.Scoring.Weights {
		weightSum += w
	}
	assert.InDelta(t, 1.0, weightSum, 1e-9)
	assert.InDelta(t, 0.9, table.Scoring.SourceScores["pdf"], 1e-9)
}

func TestLoadEmptyPathFallsBack(t *testing.T) {
	table, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, table.Validator.TechnicalKeywords)
}

func TestLoadOverrideFile(t *testing.T) {
	override := `
cleaner:
  artifact_tokens: [NOISE]
scoring:
  source_scores:
    pdf: 0.95
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"NOISE"}, table.Cleaner.ArtifactTokens)
	assert.InDelta(t, 0.95, table.Scoring.SourceScores["pdf"], 1e-9)
	// omitted thresholds pick up defaults
	assert.InDelta(t, 0.5, table.Cleaner.MojibakeRatio, 1e-9)
	assert.InDelta(t, 0.7, table.Scoring.HistoryDefault, 1e-9)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/rules.yaml")
	require.Error(t, err)
}
