// Package confidence computes the authoritative multi-dimension confidence
// assessment for an extracted record. The model's self-reported confidence
// never enters here; only observable record and document properties do.
package confidence

import (
	"log/slog"

	"github.com/wuminghan/specpipe/constants"
	"github.com/wuminghan/specpipe/internal/entity"
	"github.com/wuminghan/specpipe/internal/history"
	"github.com/wuminghan/specpipe/internal/rules"
)

// Weights and thresholds come from the rules table; zero-value maps fall
// back to the canonical defaults.
type Scorer struct {
	weights        map[string]float64
	sourceScores   map[string]float64
	historyDefault float64
	logger         *slog.Logger
}

func NewScorer(r rules.ScoringRules, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	weights := r.Weights
	if len(weights) == 0 {
		weights = map[string]float64{
			"completeness": 0.25, "quality": 0.25, "format": 0.20,
			"source": 0.15, "historical": 0.15,
		}
	}
	sourceScores := r.SourceScores
	if len(sourceScores) == 0 {
		sourceScores = map[string]float64{
			"pdf": 0.9, "docx": 0.8, "doc": 0.5, "xlsx": 0.8, "txt": 0.6, "image": 0.4,
		}
	}
	hd := r.HistoryDefault
	if hd <= 0 {
		hd = 0.7
	}
	return &Scorer{weights: weights, sourceScores: sourceScores, historyDefault: hd, logger: logger}
}

// Score computes the confidence envelope for a merged record. The record
// is not mutated.
func (s *Scorer) Score(rec *entity.ExtractedRecord, doc *entity.Document, hist *history.Stats) *entity.ConfidenceEnvelope {
	env := &entity.ConfidenceEnvelope{
		Completeness: s.completeness(rec),
		Quality:      s.quality(rec),
		Source:       s.source(doc),
		Historical:   s.historical(hist),
		Fields:       fieldScores(rec),
	}
	env.Format = s.format(rec)

	env.Overall = clamp01(
		s.weights["completeness"]*env.Completeness +
			s.weights["quality"]*env.Quality +
			s.weights["format"]*env.Format +
			s.weights["source"]*env.Source +
			s.weights["historical"]*env.Historical)
	env.Level = constants.LevelFor(env.Overall)
	env.Recommendations = recommend(env)

	s.logger.Debug("confidence.scored",
		"overall", env.Overall, "level", string(env.Level),
		"completeness", env.Completeness, "quality", env.Quality,
		"format", env.Format, "source", env.Source, "historical", env.Historical,
	)
	return env
}

// completeness is the weighted fill ratio over required, important, and
// optional fields, normalised by the maximum achievable 2.1.
func (s *Scorer) completeness(rec *entity.ExtractedRecord) float64 {
	score := 0.0
	bi := rec.BasicInfo
	for _, present := range []bool{bi.Name != "", bi.Code != "", bi.Category != ""} {
		if present {
			score += 0.4
		}
	}
	for _, present := range []bool{
		bi.BasePrice != nil,
		bi.Description != "",
		len(rec.Specifications) >= 3,
	} {
		if present {
			score += 0.2
		}
	}
	for _, present := range []bool{
		len(rec.Features) > 0,
		len(rec.ApplicationScenarios) > 0,
		len(rec.Certificates) > 0,
	} {
		if present {
			score += 0.1
		}
	}
	const max = 3*0.4 + 3*0.2 + 3*0.1
	return clamp01(score / max)
}

// quality is the mean of the applicable content indicators.
func (s *Scorer) quality(rec *entity.ExtractedRecord) float64 {
	var indicators []float64

	if len([]rune(rec.BasicInfo.Description)) >= 10 {
		indicators = append(indicators, 0.8)
	} else {
		indicators = append(indicators, 0.3)
	}

	if n := len(rec.Specifications); n > 0 {
		withUnit := 0
		for _, v := range rec.Specifications {
			if v.Unit != "" {
				withUnit++
			}
		}
		indicators = append(indicators, float64(withUnit)/float64(n))
	}

	if n := len(rec.Features); n > 0 {
		withDesc := 0
		for _, f := range rec.Features {
			if f.Description != "" {
				withDesc++
			}
		}
		indicators = append(indicators, float64(withDesc)/float64(n))
	}

	switch {
	case rec.BasicInfo.BasePrice == nil:
		indicators = append(indicators, 0.2)
	case *rec.BasicInfo.BasePrice >= 1 && *rec.BasicInfo.BasePrice <= 1_000_000:
		indicators = append(indicators, 0.9)
	default:
		indicators = append(indicators, 0.5)
	}

	return mean(indicators)
}

// format is the mean format-regex score over the fields that are present.
// A record with no checkable fields scores the neutral 0.5.
func (s *Scorer) format(rec *entity.ExtractedRecord) float64 {
	var scores []float64
	check := func(present, matched bool) {
		if !present {
			return
		}
		if matched {
			scores = append(scores, 1.0)
		} else {
			scores = append(scores, 0.3)
		}
	}

	bi := rec.BasicInfo
	check(bi.Code != "", reCode.MatchString(bi.Code))
	check(bi.BasePrice != nil, bi.BasePrice != nil && *bi.BasePrice >= 0)
	ci := rec.SupportInfo.ContactInfo
	check(ci.SalesEmail != "", reEmail.MatchString(ci.SalesEmail))
	check(ci.SupportEmail != "", reEmail.MatchString(ci.SupportEmail))
	check(ci.SalesPhone != "", rePhone.MatchString(ci.SalesPhone))
	check(ci.SupportPhone != "", rePhone.MatchString(ci.SupportPhone))

	if len(scores) == 0 {
		return 0.5
	}
	return mean(scores)
}

// source scores the document provenance: type, size reasonableness, text
// volume, with a flat truncation penalty.
func (s *Scorer) source(doc *entity.Document) float64 {
	typeScore, ok := s.sourceScores[string(doc.Format)]
	if !ok {
		typeScore = 0.5
	}
	sizeScore := 0.4
	if doc.ByteSize >= 1_000 && doc.ByteSize <= 10_000_000 {
		sizeScore = 0.8
	}
	textScore := 0.4
	if doc.TextLength > 100 && doc.WordCount > 20 {
		textScore = 0.8
	}
	score := mean([]float64{typeScore, sizeScore, textScore})
	if doc.Truncated {
		score -= 0.4
	}
	return clamp01(score)
}

func (s *Scorer) historical(h *history.Stats) float64 {
	if h == nil {
		return s.historyDefault
	}
	return clamp01(0.4*h.Accuracy + 0.4*h.SimilarDocsAccuracy + 0.2*(1-h.ModificationRate))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
