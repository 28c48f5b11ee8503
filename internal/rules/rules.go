// Package rules holds the pattern and threshold tables that drive the
// cleaner, the spec validator, and the confidence scorer. The tables ship
// as embedded YAML and can be replaced wholesale from an external file, so
// corpus-driven tuning does not require code changes.
package rules

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

//go:embed rules.yaml
var defaultYAML []byte

// CleanerRules configures garbage-line detection and stripping.
type CleanerRules struct {
	ArtifactTokens   []string `yaml:"artifact_tokens"`
	ArtifactPatterns []string `yaml:"artifact_patterns"`
	MojibakeRatio    float64  `yaml:"mojibake_ratio"`
	BoxRunLength     int      `yaml:"box_run_length"`
	MinLineRunes     int      `yaml:"min_line_runes"`
}

// HeaderLexicon maps bilingual table headers to their semantic role.
type HeaderLexicon struct {
	Parameter []string `yaml:"parameter"`
	Value     []string `yaml:"value"`
	Unit      []string `yaml:"unit"`
}

// ValidatorRules configures the two-stage specification filter.
type ValidatorRules struct {
	InvalidPatterns   map[string][]string `yaml:"invalid_patterns"`
	ValidPatterns     []string            `yaml:"valid_patterns"`
	TechnicalKeywords []string            `yaml:"technical_keywords"`
	ShortKeywords     []string            `yaml:"short_keywords"`
}

// ScoringRules configures the confidence scorer.
type ScoringRules struct {
	Weights        map[string]float64 `yaml:"weights"`
	SourceScores   map[string]float64 `yaml:"source_scores"`
	HistoryDefault float64            `yaml:"history_default"`
}

// Table is the full rule table.
type Table struct {
	Cleaner   CleanerRules   `yaml:"cleaner"`
	Headers   HeaderLexicon  `yaml:"headers"`
	Validator ValidatorRules `yaml:"validator"`
	Scoring   ScoringRules   `yaml:"scoring"`
}

// Default returns the embedded rule table.
func Default() (*Table, error) {
	return parse(defaultYAML)
}

// Load reads a rule table from path, falling back to the embedded defaults
// when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if t.Cleaner.MojibakeRatio <= 0 {
		t.Cleaner.MojibakeRatio = 0.5
	}
	if t.Cleaner.BoxRunLength <= 0 {
		t.Cleaner.BoxRunLength = 3
	}
	if t.Cleaner.MinLineRunes <= 0 {
		t.Cleaner.MinLineRunes = 3
	}
	if t.Scoring.HistoryDefault <= 0 {
		t.Scoring.HistoryDefault = 0.7
	}
	return &t, nil
}
