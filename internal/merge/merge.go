// Package merge combines the model's extracted record with the
// table-parsed specifications. The collision policy is fixed: structured
// table decomposition beats a bare model string, and the model wins every
// other tie because it carries semantic context.
package merge

import (
	"log/slog"

	"github.com/wuminghan/specpipe/internal/entity"
	"github.com/wuminghan/specpipe/internal/specfilter"
	"github.com/wuminghan/specpipe/internal/table"
)

type Merger struct {
	filter *specfilter.Validator
	logger *slog.Logger
}

// New builds a merger. filter screens model-sourced specification names
// against the invalid-pattern tables; nil disables the screen.
func New(filter *specfilter.Validator, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{filter: filter, logger: logger}
}

// Merge unions tableSpecs into the model record by parameter name and
// attaches the table-parsing metadata block. Table specs arrive already
// filtered; model specs are screened here so the final record never
// carries a name matching an invalid pattern. All non-specification
// fields come from the model record untouched.
func (m *Merger) Merge(modelRec *entity.ExtractedRecord, tableSpecs map[string]entity.SpecValue, stats table.Stats) *entity.ExtractedRecord {
	if modelRec.Specifications == nil {
		modelRec.Specifications = make(map[string]entity.SpecValue, len(tableSpecs))
	}

	if m.filter != nil {
		for name, mv := range modelRec.Specifications {
			verdict := m.filter.Screen(name, mv.RawValue)
			if !verdict.Valid {
				m.logger.Debug("merge.model_spec.rejected", "name", name, "category", verdict.Reason)
				delete(modelRec.Specifications, name)
			}
		}
	}

	tableWins := 0
	for name, tv := range tableSpecs {
		mv, collision := modelRec.Specifications[name]
		if !collision {
			modelRec.Specifications[name] = tv
			continue
		}
		if pickTable(mv, tv) {
			modelRec.Specifications[name] = tv
			tableWins++
		}
	}

	modelRec.TableParsing = entity.TableParsing{
		TablesFound:       stats.TablesFound,
		ParsingConfidence: stats.Confidence,
		RescuedCount:      stats.Rescued,
	}

	m.logger.Debug("merge.done",
		"specs", len(modelRec.Specifications),
		"table_specs", len(tableSpecs),
		"table_wins", tableWins,
	)
	return modelRec
}

// pickTable decides a name collision in favour of the table value.
func pickTable(modelVal, tableVal entity.SpecValue) bool {
	// A table value with neither number nor unit adds nothing.
	if tableVal.NumericValue == nil && tableVal.Unit == "" {
		return false
	}
	// Structured table decomposition beats a bare model string.
	if tableVal.Structured() && !modelVal.Structured() && modelVal.Unit == "" {
		return true
	}
	return false
}
