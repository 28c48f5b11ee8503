// Package pipeline wires the stages together: decode, clean, table lift,
// model extraction, merge, score. One analyzer instance serves many
// documents; each document runs its stages sequentially and owns its own
// state.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wuminghan/specpipe/constants"
	"github.com/wuminghan/specpipe/internal/common"
	"github.com/wuminghan/specpipe/internal/confidence"
	"github.com/wuminghan/specpipe/internal/decode"
	"github.com/wuminghan/specpipe/internal/entity"
	"github.com/wuminghan/specpipe/internal/history"
	"github.com/wuminghan/specpipe/internal/llm"
	"github.com/wuminghan/specpipe/internal/merge"
	"github.com/wuminghan/specpipe/internal/rules"
	"github.com/wuminghan/specpipe/internal/specfilter"
	"github.com/wuminghan/specpipe/internal/table"
	"github.com/wuminghan/specpipe/internal/textclean"
)

// Config holds analyzer-level knobs; zero values take defaults.
type Config struct {
	MaxTextBytes int
	LLM          llm.Config
}

type Analyzer struct {
	decoder *decode.Decoder
	cleaner *textclean.Cleaner
	tables  *table.Extractor
	adapter *llm.Adapter
	merger  *merge.Merger
	scorer  *confidence.Scorer
	history history.Provider
	logger  *slog.Logger
}

// Options carries per-document context supplied by the caller.
type Options struct {
	FocusHints           []string
	OptimizationSnippets []string
	FilenameHint         string
	UserID               string
}

// NewAnalyzer builds the full pipeline from a rule table and a completion
// function. historyProvider may be nil; the scorer then uses its default
// historical score.
func NewAnalyzer(cfg Config, ruleTable *rules.Table, completer llm.Completer, historyProvider history.Provider, logger *slog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleaner, err := textclean.New(textclean.Rules{
		ArtifactTokens:   ruleTable.Cleaner.ArtifactTokens,
		ArtifactPatterns: ruleTable.Cleaner.ArtifactPatterns,
		MojibakeRatio:    ruleTable.Cleaner.MojibakeRatio,
		BoxRunLength:     ruleTable.Cleaner.BoxRunLength,
		MinLineRunes:     ruleTable.Cleaner.MinLineRunes,
	}, logger)
	if err != nil {
		return nil, err
	}
	validator, err := specfilter.New(ruleTable.Validator, logger)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		decoder: decode.New(cfg.MaxTextBytes, logger),
		cleaner: cleaner,
		tables:  table.NewExtractor(ruleTable.Headers, validator, logger),
		adapter: llm.NewAdapter(completer, cfg.LLM, logger),
		merger:  merge.New(validator, logger),
		scorer:  confidence.NewScorer(ruleTable.Scoring, logger),
		history: historyProvider,
		logger:  logger,
	}, nil
}

// AnalyzeDocument runs the whole pipeline for one document. Cancellation
// is honoured between stages and during the model call; on any error no
// partial record is returned.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, data []byte, format constants.Format, opts Options) (*entity.ExtractedRecord, *entity.ConfidenceEnvelope, error) {
	rid := uuid.New().String()
	start := time.Now()
	a.logger.Info("pipeline.analyze.start",
		"req_id", rid, "format", string(format), "byte_size", len(data))

	doc, err := a.decoder.Decode(data, format)
	if err != nil {
		a.logger.Error("pipeline.decode.failed", "req_id", rid, "error", err)
		return nil, nil, err
	}
	if err := stageGate(ctx); err != nil {
		return nil, nil, err
	}

	cleanLines := a.cleaner.Clean(doc.Lines)
	if err := stageGate(ctx); err != nil {
		return nil, nil, err
	}

	tableSpecs, stats := a.tables.Extract(cleanLines)
	a.logger.Info("pipeline.tables.ok",
		"req_id", rid,
		"tables_found", stats.TablesFound,
		"table_specs", len(tableSpecs),
		"rescued", stats.Rescued,
	)
	if err := stageGate(ctx); err != nil {
		return nil, nil, err
	}

	cleanDoc := entity.NewDocument(format, cleanLines, doc.ByteSize, doc.Truncated)
	modelRec, _, err := a.adapter.Extract(ctx, llm.ExtractRequest{
		CleanText:            cleanDoc.Text(),
		FocusHints:           opts.FocusHints,
		OptimizationSnippets: opts.OptimizationSnippets,
		FilenameHint:         opts.FilenameHint,
		UserID:               opts.UserID,
	})
	if err != nil {
		a.logger.Error("pipeline.model.failed", "req_id", rid, "error", err)
		return nil, nil, err
	}
	if err := stageGate(ctx); err != nil {
		return nil, nil, err
	}

	merged := a.merger.Merge(modelRec, tableSpecs, stats)

	var hist *history.Stats
	if a.history != nil && opts.UserID != "" {
		if hist, err = a.history.HistoryFor(ctx, opts.UserID); err != nil {
			// history is optional context; score without it
			a.logger.Warn("pipeline.history.unavailable", "req_id", rid, "error", err)
			hist = nil
		}
	}
	env := a.scorer.Score(merged, cleanDoc, hist)

	a.logger.Info("pipeline.analyze.ok",
		"req_id", rid,
		"specifications", len(merged.Specifications),
		"overall", env.Overall,
		"level", string(env.Level),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return merged, env, nil
}

// stageGate aborts between stages once the caller cancels.
func stageGate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return common.NewAppError("CANCELLED", "analysis cancelled", err)
	}
	return nil
}
