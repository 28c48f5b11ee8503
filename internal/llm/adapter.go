// Package llm assembles extraction prompts, calls the completion function,
// and turns its JSON reply into an ExtractedRecord. The completion function
// is opaque; this package owns prompt assembly, JSON extraction, shape
// validation, and the retry policy.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wuminghan/specpipe/internal/common"
	"github.com/wuminghan/specpipe/internal/entity"
)

// Config holds retry behaviour for the adapter.
type Config struct {
	MaxAttempts int           // default 3
	BaseBackoff time.Duration // default 1s; doubles per attempt
}

type Adapter struct {
	completer Completer
	cfg       Config
	logger    *slog.Logger
}

func NewAdapter(completer Completer, cfg Config, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = time.Second
	}
	return &Adapter{completer: completer, cfg: cfg, logger: logger}
}

// Extract runs the completion with retries and returns the decoded record
// plus the raw completion JSON. On exhaustion the last error propagates;
// no partial record is returned. The model's self-reported confidence is
// required to be present but is otherwise ignored; the confidence scorer
// is authoritative.
func (a *Adapter) Extract(ctx context.Context, req ExtractRequest) (*entity.ExtractedRecord, []byte, error) {
	rid := uuid.New().String()
	sys := BuildSystemPrompt(req)
	user := BuildUserPrompt(req)
	schema := BuildRecordJSONSchema()

	a.logger.Info("llm.extract.start",
		"req_id", rid,
		"text_len", len(req.CleanText),
		"focus_hints", len(req.FocusHints),
		"max_attempts", a.cfg.MaxAttempts,
	)

	var lastErr error
	for attempt := 1; attempt <= a.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := a.cfg.BaseBackoff << (attempt - 2)
			a.logger.Warn("llm.extract.retry",
				"req_id", rid, "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, nil, common.ModelUnavailableError("cancelled while waiting to retry", ctx.Err())
			case <-time.After(backoff):
			}
		}

		rec, raw, err := a.attempt(ctx, sys, user, schema)
		if err == nil {
			a.logger.Info("llm.extract.ok",
				"req_id", rid, "attempt", attempt,
				"specifications", len(rec.Specifications),
				"name", rec.BasicInfo.Name,
			)
			return rec, raw, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, nil, common.ModelUnavailableError("cancelled", ctx.Err())
		}
	}
	a.logger.Error("llm.extract.exhausted", "req_id", rid, "attempts", a.cfg.MaxAttempts, "error", lastErr)
	return nil, nil, lastErr
}

func (a *Adapter) attempt(ctx context.Context, sys, user string, schema map[string]any) (*entity.ExtractedRecord, []byte, error) {
	reply, err := a.completer.Complete(ctx, sys, user)
	if err != nil {
		if common.CodeOf(err) != "" {
			return nil, nil, err
		}
		return nil, nil, common.ModelUnavailableError("completion call failed", err)
	}

	raw, err := ExtractJSONBlock(reply)
	if err != nil {
		return nil, nil, common.MalformedCompletionError("no JSON in completion", err)
	}
	if err := ValidateJSONAgainstSchema(schema, raw); err != nil {
		return nil, raw, common.MalformedCompletionError("completion shape invalid", err)
	}
	if err := checkConfidencePresent(raw); err != nil {
		return nil, raw, common.MalformedCompletionError("completion shape invalid", err)
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, raw, common.MalformedCompletionError("completion undecodable", err)
	}
	return rec, raw, nil
}

// checkConfidencePresent requires at least one confidence-like numeric in
// the reply. The value itself is discarded.
func checkConfidencePresent(raw []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	candidates := []string{"confidence", "extraction_confidence", "overall_confidence"}
	for _, k := range candidates {
		if v, ok := m[k]; ok {
			var n float64
			if json.Unmarshal(v, &n) == nil {
				return nil
			}
		}
	}
	if bi, ok := m["basic_info"]; ok {
		var inner map[string]json.RawMessage
		if json.Unmarshal(bi, &inner) == nil {
			for _, k := range candidates {
				if v, ok := inner[k]; ok {
					var n float64
					if json.Unmarshal(v, &n) == nil {
						return nil
					}
				}
			}
		}
	}
	return fmt.Errorf("no confidence-like numeric in completion")
}
