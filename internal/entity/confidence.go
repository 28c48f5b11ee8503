package entity

import "github.com/wuminghan/specpipe/constants"

// ConfidenceEnvelope is attached to an ExtractedRecord after scoring.
// It never mutates the record it describes.
type ConfidenceEnvelope struct {
	Overall      float64 `json:"overall"`
	Completeness float64 `json:"completeness"`
	Quality      float64 `json:"quality"`
	Format       float64 `json:"format"`
	Source       float64 `json:"source"`
	Historical   float64 `json:"historical"`

	// Fields holds per-field scores keyed by dotted path
	// (e.g. "basic_info.name") plus aggregate keys ("specifications").
	Fields map[string]float64 `json:"fields"`

	Level           constants.Level `json:"level"`
	Recommendations []string        `json:"recommendations"`
}
